// README: Journal tests; the PG path needs a database and is env-gated.
package journal

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"rankgo/internal/modules/booking"
	"rankgo/internal/types"
)

func TestNopAppend(t *testing.T) {
	var j Nop
	if err := j.Append(context.Background(), &booking.Event{BookingID: "b1"}); err != nil {
		t.Fatalf("nop append: %v", err)
	}
}

func TestPGAppend(t *testing.T) {
	dsn := os.Getenv("RANKGO_TEST_DSN")
	if dsn == "" {
		t.Skip("RANKGO_TEST_DSN not set; skipping DB-backed journal test")
	}

	ctx := context.Background()
	db, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(db.Close)

	if _, err := db.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS booking_state_events (
            id BIGSERIAL PRIMARY KEY,
            booking_id TEXT NOT NULL,
            from_status TEXT NOT NULL,
            to_status TEXT NOT NULL,
            actor_type TEXT NOT NULL,
            actor_id TEXT,
            created_at TIMESTAMPTZ NOT NULL
        )`); err != nil {
		t.Fatalf("create table: %v", err)
	}
	if _, err := db.Exec(ctx, "TRUNCATE TABLE booking_state_events"); err != nil {
		t.Fatalf("truncate: %v", err)
	}

	j := NewPG(db)
	actor := types.ID("p1")
	events := []*booking.Event{
		{BookingID: "b1", FromStatus: booking.StatusNone, ToStatus: booking.StatusRequested, ActorType: "passenger", ActorID: &actor, CreatedAt: time.Now()},
		{BookingID: "b1", FromStatus: booking.StatusRequested, ToStatus: booking.StatusAccepted, ActorType: "driver", CreatedAt: time.Now()},
	}
	for _, e := range events {
		if err := j.Append(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	var count int
	if err := db.QueryRow(ctx, "SELECT COUNT(*) FROM booking_state_events WHERE booking_id='b1'").Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 rows, got %d", count)
	}
}
