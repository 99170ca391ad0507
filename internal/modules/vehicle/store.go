// README: In-memory vehicle store. Vehicles are soft-deleted (active=false), never removed.
package vehicle

import (
	"context"
	"strings"
	"sync"

	"rankgo/internal/types"
)

type Store struct {
	mu       sync.RWMutex
	vehicles map[types.ID]*Vehicle
}

func NewStore() *Store {
	return &Store{vehicles: make(map[types.ID]*Vehicle)}
}

func (s *Store) Create(ctx context.Context, v *Vehicle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *v
	cp.DepartureTimes = append([]string(nil), v.DepartureTimes...)
	s.vehicles[v.ID] = &cp
	return nil
}

// Get returns a copy; callers never see the stored record.
func (s *Store) Get(ctx context.Context, id types.ID) (*Vehicle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.vehicles[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *v
	cp.DepartureTimes = append([]string(nil), v.DepartureTimes...)
	return &cp, nil
}

// Deactivate flips active off. Missing id reports ErrNotFound, a second
// deactivate of the same vehicle does not.
func (s *Store) Deactivate(ctx context.Context, id types.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.vehicles[id]
	if !ok {
		return ErrNotFound
	}
	v.Active = false
	return nil
}

func (s *Store) SetPrice(ctx context.Context, id types.ID, price types.Money) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.vehicles[id]
	if !ok {
		return ErrNotFound
	}
	v.PricePerSeat = price
	return nil
}

// Search matches active vehicles whose origin/destination contain the given
// terms, case-insensitively. Empty terms match everything.
func (s *Store) Search(ctx context.Context, origin, destination string) ([]*Vehicle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	origin = strings.ToLower(origin)
	destination = strings.ToLower(destination)
	var out []*Vehicle
	for _, v := range s.vehicles {
		if !v.Active {
			continue
		}
		if origin != "" && !strings.Contains(strings.ToLower(v.Origin), origin) {
			continue
		}
		if destination != "" && !strings.Contains(strings.ToLower(v.Destination), destination) {
			continue
		}
		cp := *v
		cp.DepartureTimes = append([]string(nil), v.DepartureTimes...)
		out = append(out, &cp)
	}
	return out, nil
}

func (s *Store) ByDriver(ctx context.Context, driverID types.ID) ([]*Vehicle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Vehicle
	for _, v := range s.vehicles {
		if v.DriverID != driverID || !v.Active {
			continue
		}
		cp := *v
		cp.DepartureTimes = append([]string(nil), v.DepartureTimes...)
		out = append(out, &cp)
	}
	return out, nil
}
