// README: Common money value object used across modules.
package types

import "fmt"

// Money is an amount in the currency's minor unit (cents).
type Money struct {
	Amount   int64
	Currency string
}

// Mul returns the amount multiplied by n (e.g. price per seat x seats).
func (m Money) Mul(n int64) Money {
	return Money{Amount: m.Amount * n, Currency: m.Currency}
}

// Percent returns pct percent of the amount, truncated to the minor unit.
func (m Money) Percent(pct int64) Money {
	return Money{Amount: m.Amount * pct / 100, Currency: m.Currency}
}

// Display renders the amount the way the client shows it, e.g. "R150.00".
func (m Money) Display() string {
	sym := "R"
	if m.Currency != "" && m.Currency != "ZAR" {
		sym = m.Currency + " "
	}
	return fmt.Sprintf("%s%d.%02d", sym, m.Amount/100, m.Amount%100)
}
