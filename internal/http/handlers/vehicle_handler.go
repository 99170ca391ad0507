// README: Vehicle handlers: register, search, per-slot availability, deactivate, reprice.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rankgo/internal/modules/vehicle"
	"rankgo/internal/types"
)

type VehicleHandler struct {
	vehicles *vehicle.Service
}

func NewVehicleHandler(svc *vehicle.Service) *VehicleHandler {
	return &VehicleHandler{vehicles: svc}
}

type registerVehicleReq struct {
	Name           string   `json:"name"`
	Origin         string   `json:"origin"`
	Destination    string   `json:"destination"`
	DepartureTimes []string `json:"departure_times"`
	TotalSeats     int      `json:"total_seats"`
	PricePerSeat   int64    `json:"price_per_seat_cents"`
}

func (h *VehicleHandler) Register(c *gin.Context) {
	var req registerVehicleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	driverID, driverName := currentUser(c)
	v, err := h.vehicles.Register(c.Request.Context(), vehicle.RegisterCommand{
		DriverID:       driverID,
		DriverName:     driverName,
		Name:           req.Name,
		Origin:         req.Origin,
		Destination:    req.Destination,
		DepartureTimes: req.DepartureTimes,
		TotalSeats:     req.TotalSeats,
		PricePerSeat:   types.Money{Amount: req.PricePerSeat, Currency: "ZAR"},
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, vehicleView(v))
}

func (h *VehicleHandler) Search(c *gin.Context) {
	list, err := h.vehicles.Search(c.Request.Context(), c.Query("origin"), c.Query("destination"))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	out := make([]gin.H, 0, len(list))
	for _, v := range list {
		out = append(out, vehicleView(v))
	}
	writeJSON(c, http.StatusOK, gin.H{"vehicles": out})
}

func (h *VehicleHandler) Mine(c *gin.Context) {
	driverID, _ := currentUser(c)
	list, err := h.vehicles.ByDriver(c.Request.Context(), driverID)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	out := make([]gin.H, 0, len(list))
	for _, v := range list {
		out = append(out, vehicleView(v))
	}
	writeJSON(c, http.StatusOK, gin.H{"vehicles": out})
}

func (h *VehicleHandler) Availability(c *gin.Context) {
	slot := c.Query("slot")
	if slot == "" {
		writeError(c, http.StatusBadRequest, "missing slot")
		return
	}
	seats, err := h.vehicles.AvailableSeats(c.Request.Context(), types.ID(c.Param("id")), slot)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"vehicle_id": c.Param("id"), "slot": slot, "available_seats": seats})
}

func (h *VehicleHandler) Deactivate(c *gin.Context) {
	id := types.ID(c.Param("id"))
	driverID, _ := currentUser(c)
	v, err := h.vehicles.Get(c.Request.Context(), id)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	if v.DriverID != driverID {
		writeError(c, http.StatusForbidden, "not your vehicle")
		return
	}
	if err := h.vehicles.Deactivate(c.Request.Context(), id); err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"vehicle_id": id, "active": false})
}

type setPriceReq struct {
	PricePerSeat int64 `json:"price_per_seat_cents"`
}

func (h *VehicleHandler) SetPrice(c *gin.Context) {
	var req setPriceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	id := types.ID(c.Param("id"))
	driverID, _ := currentUser(c)
	v, err := h.vehicles.Get(c.Request.Context(), id)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	if v.DriverID != driverID {
		writeError(c, http.StatusForbidden, "not your vehicle")
		return
	}
	if err := h.vehicles.SetPrice(c.Request.Context(), id, types.Money{Amount: req.PricePerSeat, Currency: "ZAR"}); err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"vehicle_id": id, "price_per_seat_cents": req.PricePerSeat})
}

func vehicleView(v *vehicle.Vehicle) gin.H {
	return gin.H{
		"id":                   v.ID,
		"driver_id":            v.DriverID,
		"driver_name":          v.DriverName,
		"name":                 v.Name,
		"origin":               v.Origin,
		"destination":          v.Destination,
		"departure_times":      v.DepartureTimes,
		"total_seats":          v.TotalSeats,
		"price_per_seat_cents": v.PricePerSeat.Amount,
		"active":               v.Active,
	}
}
