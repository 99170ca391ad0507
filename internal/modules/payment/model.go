// README: Payment transaction records and card field validation.
package payment

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"rankgo/internal/types"
)

type Transaction struct {
	ID        string
	BookingID types.ID
	Amount    types.Money
	Method    string
	Status    string
	Reference string
	CreatedAt time.Time
}

var (
	cardNumberRe = regexp.MustCompile(`^\d{13,19}$`)
	cvvRe        = regexp.MustCompile(`^\d{3,4}$`)
)

func validCardNumber(number string) bool {
	return cardNumberRe.MatchString(strings.ReplaceAll(number, " ", ""))
}

// validExpiry expects MM/YY and requires the card to still be valid now.
func validExpiry(expiry string, now time.Time) bool {
	parts := strings.SplitN(expiry, "/", 2)
	if len(parts) != 2 {
		return false
	}
	month, err := strconv.Atoi(parts[0])
	if err != nil || month < 1 || month > 12 {
		return false
	}
	year, err := strconv.Atoi(parts[1])
	if err != nil {
		return false
	}
	exp := time.Date(2000+year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return exp.After(now)
}

func validCVV(cvv string) bool {
	return cvvRe.MatchString(cvv)
}
