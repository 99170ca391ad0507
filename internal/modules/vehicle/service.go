// README: Vehicle inventory service: registration, soft-delete, remaining-seat counts.
package vehicle

import (
	"context"
	"errors"
	"strings"
	"time"

	"rankgo/internal/types"
)

var (
	ErrNotFound   = errors.New("vehicle not found")
	ErrValidation = errors.New("invalid vehicle data")
)

// Ledger reports seats currently held against a (vehicle, slot) pair.
// Implemented by the booking store, which owns the seat ledger.
type Ledger interface {
	HeldSeats(ctx context.Context, vehicleID types.ID, slot string) (int, error)
}

// RouteIndex receives origin/destination names for the suggestion index.
type RouteIndex interface {
	Add(ctx context.Context, name string) error
}

type Service struct {
	store  *Store
	ledger Ledger
	routes RouteIndex
}

func NewService(store *Store, ledger Ledger, routes RouteIndex) *Service {
	return &Service{store: store, ledger: ledger, routes: routes}
}

type RegisterCommand struct {
	DriverID       types.ID
	DriverName     string
	Name           string
	Origin         string
	Destination    string
	DepartureTimes []string
	TotalSeats     int
	PricePerSeat   types.Money
}

func (s *Service) Register(ctx context.Context, cmd RegisterCommand) (*Vehicle, error) {
	if cmd.DriverID == "" || cmd.Origin == "" || cmd.Destination == "" {
		return nil, ErrValidation
	}
	if cmd.TotalSeats <= 0 || cmd.PricePerSeat.Amount < 0 {
		return nil, ErrValidation
	}
	slots := make([]string, 0, len(cmd.DepartureTimes))
	for _, t := range cmd.DepartureTimes {
		if t = strings.TrimSpace(t); t != "" {
			slots = append(slots, t)
		}
	}
	if len(slots) == 0 {
		return nil, ErrValidation
	}

	v := &Vehicle{
		ID:             types.NewID(),
		DriverID:       cmd.DriverID,
		DriverName:     cmd.DriverName,
		Name:           cmd.Name,
		Origin:         cmd.Origin,
		Destination:    cmd.Destination,
		DepartureTimes: slots,
		TotalSeats:     cmd.TotalSeats,
		PricePerSeat:   cmd.PricePerSeat,
		Active:         true,
		CreatedAt:      time.Now(),
	}
	if err := s.store.Create(ctx, v); err != nil {
		return nil, err
	}
	if s.routes != nil {
		_ = s.routes.Add(ctx, cmd.Origin)
		_ = s.routes.Add(ctx, cmd.Destination)
	}
	return v, nil
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Vehicle, error) {
	return s.store.Get(ctx, id)
}

// Deactivate soft-deletes the vehicle. Existing bookings are untouched;
// what happens to them is a policy decision above this engine.
func (s *Service) Deactivate(ctx context.Context, id types.ID) error {
	return s.store.Deactivate(ctx, id)
}

// SetPrice changes the per-seat price for future bookings only. Amounts
// captured on existing bookings are immutable.
func (s *Service) SetPrice(ctx context.Context, id types.ID, price types.Money) error {
	if price.Amount < 0 {
		return ErrValidation
	}
	return s.store.SetPrice(ctx, id, price)
}

// AvailableSeats derives capacity minus held seats for the slot. The count is
// recomputed from the ledger on every call, never cached.
func (s *Service) AvailableSeats(ctx context.Context, id types.ID, slot string) (int, error) {
	v, err := s.store.Get(ctx, id)
	if err != nil {
		return 0, err
	}
	held, err := s.ledger.HeldSeats(ctx, id, slot)
	if err != nil {
		return 0, err
	}
	return v.TotalSeats - held, nil
}

func (s *Service) Search(ctx context.Context, origin, destination string) ([]*Vehicle, error) {
	return s.store.Search(ctx, origin, destination)
}

func (s *Service) ByDriver(ctx context.Context, driverID types.ID) ([]*Vehicle, error) {
	return s.store.ByDriver(ctx, driverID)
}
