// README: Booking handlers for the full ride lifecycle.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rankgo/internal/http/middleware"
	"rankgo/internal/modules/booking"
	"rankgo/internal/types"
)

type BookingHandler struct {
	bookings *booking.Service
}

func NewBookingHandler(svc *booking.Service) *BookingHandler {
	return &BookingHandler{bookings: svc}
}

type createBookingReq struct {
	VehicleID     string `json:"vehicle_id"`
	DepartureTime string `json:"departure_time"`
	Seats         int    `json:"seats"`
	PickupType    string `json:"pickup_type"`
	PickupAddress string `json:"pickup_address"`
}

func (h *BookingHandler) Create(c *gin.Context) {
	var req createBookingReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	passengerID, passengerName := currentUser(c)
	b, err := h.bookings.Create(c.Request.Context(), booking.CreateCommand{
		PassengerID:   passengerID,
		PassengerName: passengerName,
		VehicleID:     types.ID(req.VehicleID),
		DepartureTime: req.DepartureTime,
		Seats:         req.Seats,
		PickupType:    booking.PickupType(req.PickupType),
		PickupAddress: req.PickupAddress,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, bookingView(b))
}

func (h *BookingHandler) Get(c *gin.Context) {
	b, err := h.bookings.Get(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	userID, _ := currentUser(c)
	if b.PassengerID != userID && b.DriverID != userID {
		writeError(c, http.StatusForbidden, "not your booking")
		return
	}
	writeJSON(c, http.StatusOK, bookingView(b))
}

func (h *BookingHandler) Accept(c *gin.Context) {
	id := types.ID(c.Param("id"))
	if !h.ownedByDriver(c, id) {
		return
	}
	b, err := h.bookings.Accept(c.Request.Context(), booking.AcceptCommand{BookingID: id})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, bookingView(b))
}

func (h *BookingHandler) Decline(c *gin.Context) {
	id := types.ID(c.Param("id"))
	if !h.ownedByDriver(c, id) {
		return
	}
	b, err := h.bookings.Decline(c.Request.Context(), booking.DeclineCommand{BookingID: id})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, bookingView(b))
}

type advanceReq struct {
	Status string `json:"status"`
}

func (h *BookingHandler) Advance(c *gin.Context) {
	var req advanceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	id := types.ID(c.Param("id"))
	if !h.ownedByDriver(c, id) {
		return
	}
	b, err := h.bookings.AdvanceRideStatus(c.Request.Context(), booking.AdvanceCommand{
		BookingID: id,
		Next:      booking.Status(req.Status),
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, bookingView(b))
}

func (h *BookingHandler) Cancel(c *gin.Context) {
	id := types.ID(c.Param("id"))
	userID, _ := currentUser(c)
	existing, err := h.bookings.Get(c.Request.Context(), id)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	if existing.PassengerID != userID {
		writeError(c, http.StatusForbidden, "not your booking")
		return
	}
	b, fee, err := h.bookings.Cancel(c.Request.Context(), booking.CancelCommand{BookingID: id})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	view := bookingView(b)
	view["cancellation_fee_cents"] = fee.Amount
	writeJSON(c, http.StatusOK, view)
}

// List returns the caller's bookings; drivers may filter to pending requests
// or active rides with ?view=pending|active.
func (h *BookingHandler) List(c *gin.Context) {
	userID, _ := currentUser(c)
	role := c.GetString(middleware.CtxRole)

	var (
		list []*booking.Booking
		err  error
	)
	switch c.Query("view") {
	case "pending":
		list, err = h.bookings.PendingRequests(c.Request.Context(), userID)
	case "active":
		list, err = h.bookings.ActiveRides(c.Request.Context(), userID, role)
	default:
		if role == "driver" {
			list, err = h.bookings.ByDriver(c.Request.Context(), userID)
		} else {
			list, err = h.bookings.ByPassenger(c.Request.Context(), userID)
		}
	}
	if err != nil {
		writeDomainError(c, err)
		return
	}
	out := make([]gin.H, 0, len(list))
	for _, b := range list {
		out = append(out, bookingView(b))
	}
	writeJSON(c, http.StatusOK, gin.H{"bookings": out})
}

func (h *BookingHandler) ownedByDriver(c *gin.Context, id types.ID) bool {
	driverID, _ := currentUser(c)
	b, err := h.bookings.Get(c.Request.Context(), id)
	if err != nil {
		writeDomainError(c, err)
		return false
	}
	if b.DriverID != driverID {
		writeError(c, http.StatusForbidden, "not your booking")
		return false
	}
	return true
}

func bookingView(b *booking.Booking) gin.H {
	view := gin.H{
		"id":                   b.ID,
		"passenger_id":         b.PassengerID,
		"passenger_name":       b.PassengerName,
		"vehicle_id":           b.VehicleID,
		"vehicle_name":         b.VehicleName,
		"driver_id":            b.DriverID,
		"driver_name":          b.DriverName,
		"origin":               b.Origin,
		"destination":          b.Destination,
		"departure_time":       b.DepartureTime,
		"seats":                b.Seats,
		"price_per_seat_cents": b.PricePerSeat.Amount,
		"total_amount_cents":   b.TotalAmount.Amount,
		"pickup_type":          b.PickupType,
		"pickup_address":       b.PickupAddress,
		"status":               b.Status,
		"created_at":           b.CreatedAt,
		"updated_at":           b.UpdatedAt,
	}
	if b.CancellationFee != nil {
		view["cancellation_fee_cents"] = b.CancellationFee.Amount
	}
	return view
}
