// README: Concurrency tests for seat reservation and status transitions (run with -race).
package booking

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"rankgo/internal/types"
)

// Ten passengers race for three seats on the same slot; exactly three win and
// the ledger never exceeds capacity.
func TestConcurrentCreateNeverOverbooks(t *testing.T) {
	env := setupTestEnv(t, 3, 15000, "07:00")
	ctx := context.Background()

	const attempts = 10
	errs := make(chan error, attempts)
	start := make(chan struct{})
	var wg sync.WaitGroup

	for i := 0; i < attempts; i++ {
		passengerID := types.ID(fmt.Sprintf("p%d", i))
		wg.Add(1)
		go func(pid types.ID) {
			defer wg.Done()
			<-start
			_, err := env.svc.Create(ctx, CreateCommand{
				PassengerID:   pid,
				VehicleID:     env.vehicleID,
				DepartureTime: "07:00",
				Seats:         1,
				PickupType:    PickupRank,
			})
			errs <- err
		}(passengerID)
	}

	close(start)
	wg.Wait()
	close(errs)

	success := 0
	for err := range errs {
		if err == nil {
			success++
			continue
		}
		if err != ErrCapacity {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if success != 3 {
		t.Fatalf("expected exactly 3 successes, got %d", success)
	}
	assertAvailable(t, env, "07:00", 0)
}

// Multi-seat requests race for a 5-seat slot; whole requests win or lose and
// held seats never exceed capacity.
func TestConcurrentCreateMultiSeat(t *testing.T) {
	env := setupTestEnv(t, 5, 15000, "07:00")
	ctx := context.Background()

	const attempts = 6
	errs := make(chan error, attempts)
	start := make(chan struct{})
	var wg sync.WaitGroup

	for i := 0; i < attempts; i++ {
		passengerID := types.ID(fmt.Sprintf("p%d", i))
		wg.Add(1)
		go func(pid types.ID) {
			defer wg.Done()
			<-start
			_, err := env.svc.Create(ctx, CreateCommand{
				PassengerID:   pid,
				VehicleID:     env.vehicleID,
				DepartureTime: "07:00",
				Seats:         2,
				PickupType:    PickupRank,
			})
			errs <- err
		}(passengerID)
	}

	close(start)
	wg.Wait()
	close(errs)

	success := 0
	for err := range errs {
		if err == nil {
			success++
			continue
		}
		if err != ErrCapacity {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if success != 2 {
		t.Fatalf("expected exactly 2 successes for 2-seat requests, got %d", success)
	}
	held, err := env.store.HeldSeats(ctx, env.vehicleID, "07:00")
	if err != nil {
		t.Fatalf("held seats: %v", err)
	}
	if held != 4 {
		t.Fatalf("expected 4 held seats, got %d", held)
	}
}

// Slots are independent exclusive sections: races on one slot do not block
// or corrupt reservations on another.
func TestConcurrentCreateAcrossSlots(t *testing.T) {
	env := setupTestEnv(t, 2, 15000, "07:00", "09:00")
	ctx := context.Background()

	slots := []string{"07:00", "09:00"}
	const perSlot = 5
	errs := make(chan error, len(slots)*perSlot)
	start := make(chan struct{})
	var wg sync.WaitGroup

	for _, slot := range slots {
		for i := 0; i < perSlot; i++ {
			passengerID := types.ID(fmt.Sprintf("p_%s_%d", slot, i))
			wg.Add(1)
			go func(pid types.ID, slot string) {
				defer wg.Done()
				<-start
				_, err := env.svc.Create(ctx, CreateCommand{
					PassengerID:   pid,
					VehicleID:     env.vehicleID,
					DepartureTime: slot,
					Seats:         1,
					PickupType:    PickupRank,
				})
				errs <- err
			}(passengerID, slot)
		}
	}

	close(start)
	wg.Wait()
	close(errs)

	success := 0
	for err := range errs {
		if err == nil {
			success++
		} else if err != ErrCapacity {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if success != 4 {
		t.Fatalf("expected 4 successes across two slots, got %d", success)
	}
	assertAvailable(t, env, "07:00", 0)
	assertAvailable(t, env, "09:00", 0)
}

func TestConcurrentAcceptVsCancel(t *testing.T) {
	env := setupTestEnv(t, 4, 15000, "07:00")
	ctx := context.Background()

	b := mustCreateBooking(t, env, "p_accept_cancel", "07:00", 1)

	var wg sync.WaitGroup
	errs := make(chan error, 2)

	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := env.svc.Accept(ctx, AcceptCommand{BookingID: b.ID})
		errs <- err
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _, err := env.svc.Cancel(ctx, CancelCommand{BookingID: b.ID})
		errs <- err
	}()

	wg.Wait()
	close(errs)

	success := 0
	for err := range errs {
		if err == nil {
			success++
			continue
		}
		if err != ErrConflict && err != ErrInvalidTransition {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if success < 1 || success > 2 {
		t.Fatalf("expected 1 or 2 successes, got %d", success)
	}

	got, err := env.svc.Get(ctx, b.ID)
	if err != nil {
		t.Fatalf("get booking: %v", err)
	}
	if success == 2 && got.Status != StatusCancelled {
		t.Fatalf("expected cancelled after accept+cancel, got %s", got.Status)
	}
	if success == 1 && got.Status != StatusAccepted && got.Status != StatusCancelled {
		t.Fatalf("unexpected final status: %s", got.Status)
	}
}

// Racing cancels charge the fee exactly once.
func TestConcurrentCancelSameBooking(t *testing.T) {
	env := setupTestEnv(t, 4, 15000, "07:00")
	ctx := context.Background()

	b := mustCreateBooking(t, env, "p_double_cancel", "07:00", 1)

	const attempts = 4
	errs := make(chan error, attempts)
	start := make(chan struct{})
	var wg sync.WaitGroup

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, _, err := env.svc.Cancel(ctx, CancelCommand{BookingID: b.ID})
			errs <- err
		}()
	}

	close(start)
	wg.Wait()
	close(errs)

	success := 0
	for err := range errs {
		if err == nil {
			success++
			continue
		}
		if err != ErrConflict && err != ErrInvalidTransition {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if success != 1 {
		t.Fatalf("expected exactly 1 successful cancel, got %d", success)
	}

	got, err := env.svc.Get(ctx, b.ID)
	if err != nil {
		t.Fatalf("get booking: %v", err)
	}
	if got.Status != StatusCancelled {
		t.Fatalf("expected cancelled, got %s", got.Status)
	}
	if got.CancellationFee == nil || got.CancellationFee.Amount != 1500 {
		t.Fatalf("expected one recorded fee of 1500, got %v", got.CancellationFee)
	}
	assertAvailable(t, env, "07:00", 4)
}

// A cancel racing a fresh reservation on the same slot must leave the ledger
// consistent: the freed seat is either observed or not, never double counted.
func TestConcurrentCancelVsCreate(t *testing.T) {
	env := setupTestEnv(t, 1, 15000, "07:00")
	ctx := context.Background()

	b := mustCreateBooking(t, env, "p_hold", "07:00", 1)

	var wg sync.WaitGroup
	createErr := make(chan error, 1)

	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _, _ = env.svc.Cancel(ctx, CancelCommand{BookingID: b.ID})
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := env.svc.Create(ctx, CreateCommand{
			PassengerID:   "p_race",
			VehicleID:     env.vehicleID,
			DepartureTime: "07:00",
			Seats:         1,
			PickupType:    PickupRank,
		})
		createErr <- err
	}()

	wg.Wait()
	close(createErr)

	if err := <-createErr; err != nil && err != ErrCapacity {
		t.Fatalf("unexpected create error: %v", err)
	}

	held, err := env.store.HeldSeats(ctx, env.vehicleID, "07:00")
	if err != nil {
		t.Fatalf("held seats: %v", err)
	}
	if held > 1 {
		t.Fatalf("slot overbooked: held=%d capacity=1", held)
	}
}
