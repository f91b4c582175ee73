package coffer

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

var two = decimal.NewFromInt(2)

// Quote is a snapshot of prices for one instrument. Any field may be nil
// when the venue had nothing to report; all present prices share one
// currency, and ask is never below bid.
type Quote struct {
	bid, ask, last, close *Cash
}

// NewQuote validates and builds a quote. Nil fields mean "not available".
func NewQuote(bid, ask, last, close *Cash) (Quote, error) {
	if bid != nil && ask != nil {
		if less, err := ask.LessThan(*bid); err != nil {
			return Quote{}, err
		} else if less {
			return Quote{}, fmt.Errorf("expected ask %s to be at least bid %s", ask, bid)
		}
	}
	var currency Currency
	for _, price := range []*Cash{bid, ask, last, close} {
		if price == nil {
			continue
		}
		if currency == 0 {
			currency = price.Currency()
		} else if price.Currency() != currency {
			return Quote{}, &CurrencyMismatchError{Left: currency, Right: price.Currency()}
		}
	}
	return Quote{bid: bid, ask: ask, last: last, close: close}, nil
}

func (q Quote) Bid() (Cash, bool)   { return deref(q.bid) }
func (q Quote) Ask() (Cash, bool)   { return deref(q.ask) }
func (q Quote) Last() (Cash, bool)  { return deref(q.last) }
func (q Quote) Close() (Cash, bool) { return deref(q.close) }

func deref(price *Cash) (Cash, bool) {
	if price == nil {
		return Cash{}, false
	}
	return *price, true
}

// Midpoint is the average of bid and ask, or whichever of the two is
// present.
func (q Quote) Midpoint() (Cash, bool) {
	if q.bid != nil && q.ask != nil {
		sum, err := q.bid.Add(*q.ask)
		if err != nil {
			// NewQuote checked the currencies already.
			panic(err)
		}
		return sum.Div(two), true
	}
	if q.bid != nil {
		return *q.bid, true
	}
	return deref(q.ask)
}

// Market is the single representative price: the bid/ask midpoint, falling
// back to last, then close.
func (q Quote) Market() (Cash, bool) {
	if mid, ok := q.Midpoint(); ok {
		return mid, true
	}
	if q.last != nil {
		return *q.last, true
	}
	return deref(q.close)
}

// InstrumentQuote pairs a quoted instrument with its quote.
type InstrumentQuote struct {
	Instrument Instrument
	Quote      Quote
}

// QuoteProvider fetches up-to-date quotes for a batch of instruments in one
// round trip. Results may come back in any order; instruments the provider
// cannot quote may be missing from the result. Implementations own any
// retry or timeout policy.
type QuoteProvider interface {
	FetchQuotes(ctx context.Context, instruments []Instrument) ([]InstrumentQuote, error)
}
