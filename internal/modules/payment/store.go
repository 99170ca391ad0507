// README: In-memory transaction store.
package payment

import (
	"context"
	"sync"

	"rankgo/internal/types"
)

type Store struct {
	mu           sync.RWMutex
	transactions []*Transaction
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) Add(ctx context.Context, t *Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *t
	s.transactions = append(s.transactions, &cp)
}

func (s *Store) ByBooking(ctx context.Context, bookingID types.ID) []*Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Transaction
	for _, t := range s.transactions {
		if t.BookingID == bookingID {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out
}
