// README: Mock payment gateway: validates card details and confirms payment on the booking engine.
package payment

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"rankgo/internal/modules/booking"
	"rankgo/internal/types"
)

var (
	ErrInvalidCard = errors.New("invalid card number")
	ErrCardExpired = errors.New("card has expired")
	ErrInvalidCVV  = errors.New("invalid cvv")
	ErrBadRequest  = errors.New("bad payment request")
)

// Engine is the sole entry point back into the booking engine; the gateway
// never mutates bookings directly.
type Engine interface {
	ConfirmPayment(ctx context.Context, cmd booking.ConfirmPaymentCommand) (*booking.Booking, error)
	Get(ctx context.Context, id types.ID) (*booking.Booking, error)
}

type Service struct {
	store  *Store
	engine Engine
	now    func() time.Time
}

func NewService(store *Store, engine Engine) *Service {
	return &Service{store: store, engine: engine, now: time.Now}
}

type ProcessCommand struct {
	BookingID  types.ID
	Method     string // "card" or "cash"
	CardNumber string
	Expiry     string
	CVV        string
}

// Process charges the booking's captured total. Card validation failures and
// engine rejections leave no transaction record behind.
func (s *Service) Process(ctx context.Context, cmd ProcessCommand) (*Transaction, error) {
	if cmd.BookingID == "" {
		return nil, ErrBadRequest
	}
	if cmd.Method == "card" {
		if !validCardNumber(cmd.CardNumber) {
			return nil, ErrInvalidCard
		}
		if !validExpiry(cmd.Expiry, s.now()) {
			return nil, ErrCardExpired
		}
		if !validCVV(cmd.CVV) {
			return nil, ErrInvalidCVV
		}
	}

	b, err := s.engine.ConfirmPayment(ctx, booking.ConfirmPaymentCommand{BookingID: cmd.BookingID})
	if err != nil {
		return nil, err
	}

	t := &Transaction{
		ID:        "TXN" + randomToken(6),
		BookingID: b.ID,
		Amount:    b.TotalAmount,
		Method:    cmd.Method,
		Status:    "successful",
		Reference: "REF" + randomToken(10),
		CreatedAt: s.now(),
	}
	s.store.Add(ctx, t)
	return t, nil
}

func (s *Service) ByBooking(ctx context.Context, bookingID types.ID) []*Transaction {
	return s.store.ByBooking(ctx, bookingID)
}

func randomToken(n int) string {
	b := make([]byte, (n+1)/2)
	_, _ = rand.Read(b)
	return strings.ToUpper(hex.EncodeToString(b))[:n]
}
