// README: Money value object tests.
package types

import "testing"

func TestMoneyMul(t *testing.T) {
	m := Money{Amount: 15000, Currency: "ZAR"}
	if got := m.Mul(3); got.Amount != 45000 || got.Currency != "ZAR" {
		t.Fatalf("Mul(3) = %+v", got)
	}
}

func TestMoneyPercent(t *testing.T) {
	cases := []struct {
		amount, pct, want int64
	}{
		{20000, 10, 2000},
		{15000, 10, 1500},
		{99, 10, 9},
		{0, 10, 0},
	}
	for _, tc := range cases {
		m := Money{Amount: tc.amount, Currency: "ZAR"}
		if got := m.Percent(tc.pct); got.Amount != tc.want {
			t.Errorf("Percent(%d) of %d = %d, want %d", tc.pct, tc.amount, got.Amount, tc.want)
		}
	}
}

func TestMoneyDisplay(t *testing.T) {
	cases := []struct {
		m    Money
		want string
	}{
		{Money{Amount: 15000, Currency: "ZAR"}, "R150.00"},
		{Money{Amount: 1500, Currency: "ZAR"}, "R15.00"},
		{Money{Amount: 1505, Currency: "ZAR"}, "R15.05"},
		{Money{Amount: 5, Currency: "ZAR"}, "R0.05"},
		{Money{Amount: 15000, Currency: ""}, "R150.00"},
		{Money{Amount: 15000, Currency: "USD"}, "USD 150.00"},
	}
	for _, tc := range cases {
		if got := tc.m.Display(); got != tc.want {
			t.Errorf("Display(%+v) = %q, want %q", tc.m, got, tc.want)
		}
	}
}
