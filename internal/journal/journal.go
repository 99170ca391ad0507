// README: Durable booking transition journal backed by PostgreSQL, with a no-op fallback.
package journal

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"rankgo/internal/modules/booking"
)

// PG appends one row per state transition. The engine treats the journal as
// fire-and-forget; a failed append never rolls a transition back.
type PG struct {
	db *pgxpool.Pool
}

func NewPG(db *pgxpool.Pool) *PG {
	return &PG{db: db}
}

func (j *PG) Append(ctx context.Context, e *booking.Event) error {
	var actorID *string
	if e.ActorID != nil {
		v := string(*e.ActorID)
		actorID = &v
	}
	_, err := j.db.Exec(ctx, `
        INSERT INTO booking_state_events (
            booking_id, from_status, to_status, actor_type, actor_id, created_at
        ) VALUES ($1, $2, $3, $4, $5, $6)`,
		string(e.BookingID),
		string(e.FromStatus),
		string(e.ToStatus),
		e.ActorType,
		actorID,
		e.CreatedAt,
	)
	return err
}

// Nop is used when no journal DSN is configured; the engine stays fully
// in-process.
type Nop struct{}

func (Nop) Append(ctx context.Context, e *booking.Event) error { return nil }
