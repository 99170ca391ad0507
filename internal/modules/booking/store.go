// README: In-memory booking store and seat ledger with per-(vehicle,slot) critical sections.
package booking

import (
	"context"
	"sync"
	"time"

	"rankgo/internal/types"
)

type slotKey struct {
	vehicleID types.ID
	slot      string
}

// Store owns all booking records plus the derived seat ledger. The seat
// ledger for one (vehicle, slot) pair is a single exclusive resource: the
// availability check and the booking insert happen under that slot's mutex,
// so two concurrent reservations can never both observe enough seats and
// both commit. Reservations on different slots proceed in parallel.
//
// mu guards only the map structure; it is held for short copy-in/copy-out
// sections and is never held while waiting on a slot mutex.
type Store struct {
	mu       sync.RWMutex
	bookings map[types.ID]*Booking
	bySlot   map[slotKey][]types.ID

	slotMu map[slotKey]*sync.Mutex
}

func NewStore() *Store {
	return &Store{
		bookings: make(map[types.ID]*Booking),
		bySlot:   make(map[slotKey][]types.ID),
		slotMu:   make(map[slotKey]*sync.Mutex),
	}
}

func (s *Store) slotLock(k slotKey) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.slotMu[k]
	if !ok {
		m = &sync.Mutex{}
		s.slotMu[k] = m
	}
	return m
}

// heldLocked sums seats of capacity-holding bookings for the slot.
// Caller must hold mu (read or write).
func (s *Store) heldLocked(k slotKey) int {
	held := 0
	for _, id := range s.bySlot[k] {
		b := s.bookings[id]
		if b.Status.HoldsSeats() {
			held += b.Seats
		}
	}
	return held
}

// HeldSeats implements the vehicle inventory's ledger view.
func (s *Store) HeldSeats(ctx context.Context, vehicleID types.ID, slot string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.heldLocked(slotKey{vehicleID, slot}), nil
}

// Reserve atomically checks availability and inserts the booking built by
// build. It returns ErrCapacity without touching any state when fewer than
// b.Seats seats remain. build runs inside the critical section and must not
// block or perform I/O.
func (s *Store) Reserve(ctx context.Context, vehicleID types.ID, slot string, capacity int, build func(now time.Time) *Booking) (*Booking, error) {
	k := slotKey{vehicleID, slot}
	lock := s.slotLock(k)
	lock.Lock()
	defer lock.Unlock()

	b := build(time.Now())

	s.mu.Lock()
	defer s.mu.Unlock()
	if capacity-s.heldLocked(k) < b.Seats {
		return nil, ErrCapacity
	}
	cp := *b
	s.bookings[b.ID] = &cp
	s.bySlot[k] = append(s.bySlot[k], b.ID)
	out := cp
	return &out, nil
}

// Get returns a copy; records are mutated only through UpdateStatus.
func (s *Store) Get(ctx context.Context, id types.ID) (*Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *b
	return &cp, nil
}

// UpdateStatus compare-and-swaps the booking from one status to another,
// applying extra (if any) to the record in the same step. It reports false
// when the booking has already left the expected status. Transitions that
// release the seat hold take the slot's exclusive section first, so a
// release is never interleaved with a reservation on the same slot.
func (s *Store) UpdateStatus(ctx context.Context, id types.ID, from, to Status, extra func(*Booking)) (*Booking, bool, error) {
	s.mu.RLock()
	b, ok := s.bookings[id]
	if !ok {
		s.mu.RUnlock()
		return nil, false, ErrNotFound
	}
	k := slotKey{b.VehicleID, b.DepartureTime}
	s.mu.RUnlock()

	if from.HoldsSeats() && !to.HoldsSeats() {
		lock := s.slotLock(k)
		lock.Lock()
		defer lock.Unlock()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok = s.bookings[id]
	if !ok {
		return nil, false, ErrNotFound
	}
	if b.Status != from {
		return nil, false, nil
	}
	b.Status = to
	b.UpdatedAt = time.Now()
	if extra != nil {
		extra(b)
	}
	cp := *b
	return &cp, true, nil
}

func (s *Store) ByPassenger(ctx context.Context, passengerID types.ID) ([]*Booking, error) {
	return s.filter(func(b *Booking) bool { return b.PassengerID == passengerID }), nil
}

func (s *Store) ByDriver(ctx context.Context, driverID types.ID) ([]*Booking, error) {
	return s.filter(func(b *Booking) bool { return b.DriverID == driverID }), nil
}

func (s *Store) PendingForDriver(ctx context.Context, driverID types.ID) ([]*Booking, error) {
	return s.filter(func(b *Booking) bool {
		return b.DriverID == driverID && b.Status == StatusRequested
	}), nil
}

// activeStatuses mirrors the client's "active rides" panel.
var activeStatuses = map[Status]bool{
	StatusAccepted:   true,
	StatusPaid:       true,
	StatusOnWay:      true,
	StatusArriving:   true,
	StatusArrived:    true,
	StatusInProgress: true,
}

func (s *Store) ActiveForPassenger(ctx context.Context, passengerID types.ID) ([]*Booking, error) {
	return s.filter(func(b *Booking) bool {
		return b.PassengerID == passengerID && activeStatuses[b.Status]
	}), nil
}

func (s *Store) ActiveForDriver(ctx context.Context, driverID types.ID) ([]*Booking, error) {
	return s.filter(func(b *Booking) bool {
		return b.DriverID == driverID && activeStatuses[b.Status]
	}), nil
}

func (s *Store) filter(keep func(*Booking) bool) []*Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Booking
	for _, b := range s.bookings {
		if keep(b) {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out
}
