// README: Vehicle aggregate: route, departure slots, seat capacity, per-seat price.
package vehicle

import (
	"time"

	"rankgo/internal/types"
)

type Vehicle struct {
	ID             types.ID
	DriverID       types.ID
	DriverName     string
	Name           string
	Origin         string
	Destination    string
	DepartureTimes []string
	TotalSeats     int
	PricePerSeat   types.Money
	Active         bool
	CreatedAt      time.Time
}

// HasSlot reports whether the vehicle declares the given departure-time label.
func (v *Vehicle) HasSlot(slot string) bool {
	for _, t := range v.DepartureTimes {
		if t == slot {
			return true
		}
	}
	return false
}
