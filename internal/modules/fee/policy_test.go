// README: Cancellation fee policy tests.
package fee

import (
	"testing"

	"rankgo/internal/types"
)

func TestCancellationFee(t *testing.T) {
	cases := []struct {
		percent int64
		total   int64
		want    int64
	}{
		{10, 20000, 2000},
		{10, 15000, 1500},
		{10, 30000, 3000},
		{10, 0, 0},
		{10, 5, 0},   // truncates below one cent
		{10, 99, 9},  // 9.9 cents truncates to 9
		{15, 10000, 1500},
		{50, 999, 499},
	}
	for _, tc := range cases {
		p := NewPolicy(tc.percent)
		got := p.CancellationFee(types.Money{Amount: tc.total, Currency: "ZAR"})
		if got.Amount != tc.want {
			t.Errorf("percent=%d total=%d: got %d, want %d", tc.percent, tc.total, got.Amount, tc.want)
		}
		if got.Currency != "ZAR" {
			t.Errorf("fee currency changed: %s", got.Currency)
		}
	}
}

func TestDefaultPercent(t *testing.T) {
	for _, percent := range []int64{0, -5} {
		p := NewPolicy(percent)
		if p.Percent() != DefaultCancellationPercent {
			t.Errorf("NewPolicy(%d).Percent() = %d, want %d", percent, p.Percent(), DefaultCancellationPercent)
		}
	}
	if p := NewPolicy(20); p.Percent() != 20 {
		t.Errorf("NewPolicy(20).Percent() = %d", p.Percent())
	}
}
