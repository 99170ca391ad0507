// README: Notification model and per-user inbox store.
package notify

import (
	"context"
	"sync"
	"time"

	"rankgo/internal/types"
)

type Notification struct {
	ID        types.ID  `json:"id"`
	UserID    types.ID  `json:"user_id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	BookingID types.ID  `json:"booking_id,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// InboxStore keeps notifications per user, newest first on read.
type InboxStore struct {
	mu    sync.RWMutex
	items map[types.ID][]*Notification
}

func NewInboxStore() *InboxStore {
	return &InboxStore{items: make(map[types.ID][]*Notification)}
}

func (s *InboxStore) Add(ctx context.Context, n *Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *n
	s.items[n.UserID] = append(s.items[n.UserID], &cp)
}

func (s *InboxStore) ForUser(ctx context.Context, userID types.ID) []*Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := s.items[userID]
	out := make([]*Notification, 0, len(list))
	for i := len(list) - 1; i >= 0; i-- {
		cp := *list[i]
		out = append(out, &cp)
	}
	return out
}

func (s *InboxStore) UnreadCount(ctx context.Context, userID types.ID) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, n := range s.items[userID] {
		if !n.Read {
			count++
		}
	}
	return count
}

func (s *InboxStore) MarkRead(ctx context.Context, userID, notifID types.ID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.items[userID] {
		if n.ID == notifID {
			n.Read = true
			return true
		}
	}
	return false
}

func (s *InboxStore) MarkAllRead(ctx context.Context, userID types.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.items[userID] {
		n.Read = true
	}
}

func (s *InboxStore) ClearAll(ctx context.Context, userID types.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, userID)
}
