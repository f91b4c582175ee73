package coffer

import "testing"

func TestQuoteMidpoint(t *testing.T) {
	q := quoteOf(t, USD, 100, 102, 0, 0)
	mid, ok := q.Midpoint()
	if !ok || !mid.Equal(usd(101)) {
		t.Errorf("Midpoint() = %s, %v, want %s", mid, ok, usd(101))
	}

	// One-sided quotes fall back to the present side.
	bidOnly := quoteOf(t, USD, 100, 0, 0, 0)
	mid, ok = bidOnly.Midpoint()
	if !ok || !mid.Equal(usd(100)) {
		t.Errorf("bid-only Midpoint() = %s, %v", mid, ok)
	}
}

func TestQuoteMarket(t *testing.T) {
	tests := []struct {
		name                  string
		bid, ask, last, close float64
		want                  float64
		none                  bool
	}{
		{name: "midpoint wins", bid: 100, ask: 102, last: 99, close: 98, want: 101},
		{name: "last backs up", last: 99, close: 98, want: 99},
		{name: "close is final fallback", close: 98, want: 98},
		{name: "nothing", none: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			q := quoteOf(t, USD, tc.bid, tc.ask, tc.last, tc.close)
			market, ok := q.Market()
			if tc.none {
				if ok {
					t.Errorf("Market() = %s, want absent", market)
				}
				return
			}
			if !ok {
				t.Fatal("Market() absent")
			}
			want, _ := NewCashFloat(USD, tc.want)
			if !market.Equal(want) {
				t.Errorf("Market() = %s, want %s", market, want)
			}
		})
	}
}

func TestQuoteValidation(t *testing.T) {
	bid, ask := usd(102), usd(100)
	if _, err := NewQuote(&bid, &ask, nil, nil); err == nil {
		t.Error("ask below bid must be rejected")
	}

	last := gbp(99)
	if _, err := NewQuote(&ask, nil, &last, nil); !isCurrencyMismatch(err) {
		t.Errorf("mixed currencies error = %v, want CurrencyMismatchError", err)
	}
}
