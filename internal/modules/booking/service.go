// README: Booking engine: reservation, ride lifecycle transitions, cancellation fees.
package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rankgo/internal/modules/vehicle"
	"rankgo/internal/types"
)

var (
	ErrNotFound          = errors.New("booking not found")
	ErrCapacity          = errors.New("insufficient seats")
	ErrInvalidTransition = errors.New("invalid state transition")
	ErrConflict          = errors.New("booking state conflict")
	ErrBadRequest        = errors.New("bad request")
	ErrVehicleInactive   = errors.New("vehicle is no longer active")
)

// Vehicles is the inventory view the engine needs for capacity checks.
type Vehicles interface {
	Get(ctx context.Context, id types.ID) (*vehicle.Vehicle, error)
}

// FeePolicy computes the cancellation fee from the captured total amount.
type FeePolicy interface {
	CancellationFee(total types.Money) types.Money
	Percent() int64
}

// Notification is the engine's outbound event. Delivery is someone else's
// problem; the engine never observes success or failure.
type Notification struct {
	UserID    types.ID
	Type      string
	Title     string
	Message   string
	BookingID types.ID
}

type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// Journal records every state transition. Appends happen after the state
// commit; a journal error never rolls back the transition.
type Journal interface {
	Append(ctx context.Context, e *Event) error
}

type Service struct {
	store    *Store
	vehicles Vehicles
	fees     FeePolicy
	notifier Notifier
	journal  Journal
}

func NewService(store *Store, vehicles Vehicles, fees FeePolicy, notifier Notifier, journal Journal) *Service {
	return &Service{store: store, vehicles: vehicles, fees: fees, notifier: notifier, journal: journal}
}

const (
	NotifyNewRequest       = "new_request"
	NotifyRideAccepted     = "ride_accepted"
	NotifyRideDeclined     = "ride_declined"
	NotifyRideUpdate       = "ride_update"
	NotifyBookingCancelled = "booking_cancelled"
)

type CreateCommand struct {
	PassengerID   types.ID
	PassengerName string
	VehicleID     types.ID
	DepartureTime string
	Seats         int
	PickupType    PickupType
	PickupAddress string
}

type AcceptCommand struct {
	BookingID types.ID
}

type DeclineCommand struct {
	BookingID types.ID
}

type ConfirmPaymentCommand struct {
	BookingID types.ID
}

type AdvanceCommand struct {
	BookingID types.ID
	Next      Status
}

type CancelCommand struct {
	BookingID types.ID
}

// Create is the only way a booking comes into existence: the availability
// check and the insert run in one critical section, so a rejected request
// leaves no partial state behind.
func (s *Service) Create(ctx context.Context, cmd CreateCommand) (*Booking, error) {
	if cmd.PassengerID == "" || cmd.VehicleID == "" || cmd.DepartureTime == "" {
		return nil, ErrBadRequest
	}
	if cmd.Seats <= 0 {
		return nil, ErrBadRequest
	}
	switch cmd.PickupType {
	case PickupRank:
	case PickupHiking:
		if cmd.PickupAddress == "" {
			return nil, ErrBadRequest
		}
	default:
		return nil, ErrBadRequest
	}

	v, err := s.vehicles.Get(ctx, cmd.VehicleID)
	if err != nil {
		return nil, err
	}
	if !v.Active {
		return nil, ErrVehicleInactive
	}
	if !v.HasSlot(cmd.DepartureTime) {
		return nil, ErrBadRequest
	}

	b, err := s.store.Reserve(ctx, v.ID, cmd.DepartureTime, v.TotalSeats, func(now time.Time) *Booking {
		return &Booking{
			ID:            types.NewID(),
			PassengerID:   cmd.PassengerID,
			PassengerName: cmd.PassengerName,
			VehicleID:     v.ID,
			VehicleName:   v.Name,
			DriverID:      v.DriverID,
			DriverName:    v.DriverName,
			Origin:        v.Origin,
			Destination:   v.Destination,
			DepartureTime: cmd.DepartureTime,
			Seats:         cmd.Seats,
			PricePerSeat:  v.PricePerSeat,
			TotalAmount:   v.PricePerSeat.Mul(int64(cmd.Seats)),
			PickupType:    cmd.PickupType,
			PickupAddress: cmd.PickupAddress,
			Status:        StatusRequested,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
	})
	if err != nil {
		return nil, err
	}

	s.append(ctx, b.ID, StatusNone, StatusRequested, "passenger", &b.PassengerID)
	s.notify(ctx, Notification{
		UserID:    b.DriverID,
		Type:      NotifyNewRequest,
		Title:     "New Ride Request",
		Message:   fmt.Sprintf("%s requested %d seat(s) for %s to %s", b.PassengerName, b.Seats, b.Origin, b.Destination),
		BookingID: b.ID,
	})
	return b, nil
}

func (s *Service) Accept(ctx context.Context, cmd AcceptCommand) (*Booking, error) {
	b, err := s.transition(ctx, cmd.BookingID, StatusAccepted, "driver", nil)
	if err != nil {
		return nil, err
	}
	s.notify(ctx, Notification{
		UserID:    b.PassengerID,
		Type:      NotifyRideAccepted,
		Title:     "Ride Accepted!",
		Message:   fmt.Sprintf("Your ride request for %s has been accepted. Please proceed to payment.", b.VehicleName),
		BookingID: b.ID,
	})
	return b, nil
}

// Decline releases the seat hold: from here the booking's seats no longer
// count toward the slot's capacity.
func (s *Service) Decline(ctx context.Context, cmd DeclineCommand) (*Booking, error) {
	b, err := s.transition(ctx, cmd.BookingID, StatusDeclined, "driver", nil)
	if err != nil {
		return nil, err
	}
	s.notify(ctx, Notification{
		UserID:    b.PassengerID,
		Type:      NotifyRideDeclined,
		Title:     "Ride Declined",
		Message:   fmt.Sprintf("Your ride request for %s was declined. Please try another vehicle.", b.VehicleName),
		BookingID: b.ID,
	})
	return b, nil
}

// ConfirmPayment is invoked by the payment layer on a successful charge.
// There is no engine-internal path to paid.
func (s *Service) ConfirmPayment(ctx context.Context, cmd ConfirmPaymentCommand) (*Booking, error) {
	b, err := s.store.Get(ctx, cmd.BookingID)
	if err != nil {
		return nil, err
	}
	if b.Status != StatusAccepted {
		return nil, ErrInvalidTransition
	}
	updated, ok, err := s.store.UpdateStatus(ctx, b.ID, b.Status, StatusPaid, nil)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrConflict
	}
	s.append(ctx, b.ID, b.Status, StatusPaid, "payment", nil)
	s.notify(ctx, Notification{
		UserID:    b.PassengerID,
		Type:      NotifyRideUpdate,
		Title:     "Ride Update",
		Message:   "Booking confirmed! Waiting for your driver to start the trip.",
		BookingID: b.ID,
	})
	return updated, nil
}

// rideStatusMessages mirrors the passenger-facing copy for each progress step.
var rideStatusMessages = map[Status]string{
	StatusOnWay:      "Your driver is on the way!",
	StatusArriving:   "Your driver will arrive in 2 minutes!",
	StatusArrived:    "Your driver has arrived at the pickup point!",
	StatusInProgress: "Your trip is in progress",
	StatusCompleted:  "Your trip has been completed. Thank you!",
}

// AdvanceRideStatus walks the forward chain paid -> on_way -> arriving ->
// arrived -> in_progress -> completed. Cancellation is not reachable through
// this path.
func (s *Service) AdvanceRideStatus(ctx context.Context, cmd AdvanceCommand) (*Booking, error) {
	if !rideChain[cmd.Next] {
		return nil, ErrInvalidTransition
	}
	b, err := s.transition(ctx, cmd.BookingID, cmd.Next, "driver", nil)
	if err != nil {
		return nil, err
	}
	s.notify(ctx, Notification{
		UserID:    b.PassengerID,
		Type:      NotifyRideUpdate,
		Title:     "Ride Update",
		Message:   rideStatusMessages[cmd.Next],
		BookingID: b.ID,
	})
	return b, nil
}

// Cancel moves any non-terminal booking to cancelled, charges the flat
// cancellation fee on the amount captured at creation, and releases the
// seat hold.
func (s *Service) Cancel(ctx context.Context, cmd CancelCommand) (*Booking, types.Money, error) {
	b, err := s.store.Get(ctx, cmd.BookingID)
	if err != nil {
		return nil, types.Money{}, err
	}
	if !CanTransition(b.Status, StatusCancelled) {
		return nil, types.Money{}, ErrInvalidTransition
	}
	fee := s.fees.CancellationFee(b.TotalAmount)
	updated, ok, err := s.store.UpdateStatus(ctx, b.ID, b.Status, StatusCancelled, func(rec *Booking) {
		f := fee
		rec.CancellationFee = &f
	})
	if err != nil {
		return nil, types.Money{}, err
	}
	if !ok {
		return nil, types.Money{}, ErrConflict
	}
	s.append(ctx, b.ID, b.Status, StatusCancelled, "passenger", &b.PassengerID)
	s.notify(ctx, Notification{
		UserID:    b.DriverID,
		Type:      NotifyBookingCancelled,
		Title:     "Booking Cancelled",
		Message:   fmt.Sprintf("%s cancelled their booking. Fee charged: %s", b.PassengerName, fee.Display()),
		BookingID: b.ID,
	})
	s.notify(ctx, Notification{
		UserID:    b.PassengerID,
		Type:      NotifyBookingCancelled,
		Title:     "Booking Cancelled",
		Message:   fmt.Sprintf("Your booking has been cancelled. Cancellation fee: %s (%d%% of booking amount)", fee.Display(), s.fees.Percent()),
		BookingID: b.ID,
	})
	return updated, fee, nil
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Booking, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) ByPassenger(ctx context.Context, passengerID types.ID) ([]*Booking, error) {
	return s.store.ByPassenger(ctx, passengerID)
}

func (s *Service) ByDriver(ctx context.Context, driverID types.ID) ([]*Booking, error) {
	return s.store.ByDriver(ctx, driverID)
}

func (s *Service) PendingRequests(ctx context.Context, driverID types.ID) ([]*Booking, error) {
	return s.store.PendingForDriver(ctx, driverID)
}

func (s *Service) ActiveRides(ctx context.Context, userID types.ID, role string) ([]*Booking, error) {
	if role == "driver" {
		return s.store.ActiveForDriver(ctx, userID)
	}
	return s.store.ActiveForPassenger(ctx, userID)
}

// transition applies a single legal status change. Illegal calls fail with
// ErrInvalidTransition and must not be retried; a race with a concurrent
// transition reports ErrConflict.
func (s *Service) transition(ctx context.Context, id types.ID, to Status, actorType string, actorID *types.ID) (*Booking, error) {
	b, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(b.Status, to) {
		return nil, ErrInvalidTransition
	}
	updated, ok, err := s.store.UpdateStatus(ctx, id, b.Status, to, nil)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrConflict
	}
	s.append(ctx, id, b.Status, to, actorType, actorID)
	return updated, nil
}

func (s *Service) append(ctx context.Context, id types.ID, from, to Status, actorType string, actorID *types.ID) {
	if s.journal == nil {
		return
	}
	_ = s.journal.Append(ctx, &Event{
		BookingID:  id,
		FromStatus: from,
		ToStatus:   to,
		ActorType:  actorType,
		ActorID:    actorID,
		CreatedAt:  time.Now(),
	})
}

func (s *Service) notify(ctx context.Context, n Notification) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(ctx, n)
}
