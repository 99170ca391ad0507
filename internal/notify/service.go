// README: Notification sink: stores to the inbox and fans out to AMQP and websocket clients.
package notify

import (
	"context"
	"time"

	"rankgo/internal/modules/booking"
	"rankgo/internal/types"
)

// Publisher pushes a notification to an external broker.
type Publisher interface {
	Publish(ctx context.Context, n *Notification) error
}

// Pusher delivers a notification to a connected client in real time.
type Pusher interface {
	SendToUser(userID types.ID, v any)
}

// Service implements the booking engine's Notifier port. The engine calls it
// after releasing its locks, so a slow broker never extends a critical
// section; fan-out errors are logged-and-forgotten by the adapters.
type Service struct {
	inbox     *InboxStore
	publisher Publisher
	pusher    Pusher
}

func NewService(inbox *InboxStore, publisher Publisher, pusher Pusher) *Service {
	return &Service{inbox: inbox, publisher: publisher, pusher: pusher}
}

func (s *Service) Notify(ctx context.Context, in booking.Notification) {
	n := &Notification{
		ID:        types.NewID(),
		UserID:    in.UserID,
		Type:      in.Type,
		Title:     in.Title,
		Message:   in.Message,
		BookingID: in.BookingID,
		CreatedAt: time.Now(),
	}
	s.inbox.Add(ctx, n)
	if s.publisher != nil {
		_ = s.publisher.Publish(ctx, n)
	}
	if s.pusher != nil {
		s.pusher.SendToUser(n.UserID, n)
	}
}

func (s *Service) Inbox() *InboxStore {
	return s.inbox
}
