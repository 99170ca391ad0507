// README: Booking aggregate and ride lifecycle status definitions.
package booking

import (
	"time"

	"rankgo/internal/types"
)

type Status string

const (
	StatusNone           Status = "none"
	StatusRequested      Status = "requested"
	StatusAccepted       Status = "accepted"
	StatusDeclined       Status = "declined"
	StatusPendingPayment Status = "pending_payment"
	StatusPaid           Status = "paid"
	StatusOnWay          Status = "on_way"
	StatusArriving       Status = "arriving"
	StatusArrived        Status = "arrived"
	StatusInProgress     Status = "in_progress"
	StatusCompleted      Status = "completed"
	StatusCancelled      Status = "cancelled"
)

type PickupType string

const (
	PickupRank   PickupType = "rank"
	PickupHiking PickupType = "hiking"
)

// Booking captures vehicle and driver display fields at creation time so the
// record stays readable after the vehicle is deactivated or repriced.
type Booking struct {
	ID              types.ID
	PassengerID     types.ID
	PassengerName   string
	VehicleID       types.ID
	VehicleName     string
	DriverID        types.ID
	DriverName      string
	Origin          string
	Destination     string
	DepartureTime   string
	Seats           int
	PricePerSeat    types.Money
	TotalAmount     types.Money
	PickupType      PickupType
	PickupAddress   string
	Status          Status
	CancellationFee *types.Money
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type Event struct {
	ID         int64
	BookingID  types.ID
	FromStatus Status
	ToStatus   Status
	ActorType  string
	ActorID    *types.ID
	CreatedAt  time.Time
}

// AllowedTransitions represents the ride lifecycle flow as code.
// pending_payment sits between accepted and paid on the wire but no engine
// operation enters it; payment confirmation moves accepted straight to paid.
var AllowedTransitions = map[Status][]Status{
	StatusRequested:      {StatusAccepted, StatusDeclined, StatusCancelled},
	StatusAccepted:       {StatusPendingPayment, StatusPaid, StatusCancelled},
	StatusPendingPayment: {StatusPaid, StatusCancelled},
	StatusPaid:           {StatusOnWay, StatusCancelled},
	StatusOnWay:          {StatusArriving, StatusCancelled},
	StatusArriving:       {StatusArrived, StatusCancelled},
	StatusArrived:        {StatusInProgress, StatusCancelled},
	StatusInProgress:     {StatusCompleted, StatusCancelled},
}

func CanTransition(from, to Status) bool {
	next, ok := AllowedTransitions[from]
	if !ok {
		return false
	}
	for _, s := range next {
		if s == to {
			return true
		}
	}
	return false
}

// HoldsSeats reports whether a booking in this status still counts against
// its slot's capacity. Only declined and cancelled release the hold;
// completed seats stay counted because capacity is fixed per slot, not
// reset per day.
func (s Status) HoldsSeats() bool {
	return s != StatusDeclined && s != StatusCancelled
}

// Terminal statuses have no outgoing transitions.
func (s Status) Terminal() bool {
	return s == StatusDeclined || s == StatusCancelled || s == StatusCompleted
}

// rideChain is the driver-progress path walked by AdvanceRideStatus.
var rideChain = map[Status]bool{
	StatusOnWay:      true,
	StatusArriving:   true,
	StatusArrived:    true,
	StatusInProgress: true,
	StatusCompleted:  true,
}
