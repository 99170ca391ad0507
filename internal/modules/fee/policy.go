// README: Cancellation fee policy: flat percentage of the captured booking amount.
package fee

import "rankgo/internal/types"

// DefaultCancellationPercent matches the product rule: a flat 10% of the
// booking total, regardless of how far the ride has progressed. A graduated
// fee by trip progress is a deliberate non-feature for now.
const DefaultCancellationPercent int64 = 10

type Policy struct {
	percent int64
}

func NewPolicy(percent int64) *Policy {
	if percent <= 0 {
		percent = DefaultCancellationPercent
	}
	return &Policy{percent: percent}
}

// CancellationFee truncates to the minor unit; amounts are cents, so a
// 10% fee on any whole-cent total is exact.
func (p *Policy) CancellationFee(total types.Money) types.Money {
	return total.Percent(p.percent)
}

func (p *Policy) Percent() int64 {
	return p.percent
}
