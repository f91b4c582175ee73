package coffer

import (
	"context"
	"testing"
	"time"

	"github.com/coffersh/coffer/date"
	"github.com/shopspring/decimal"
)

// usd is a helper for tests to create USD cash from a float const.
func usd(v float64) Cash { return NewCash(USD, decimal.NewFromFloat(v)) }

// gbp is a helper for tests to create GBP cash from a float const.
func gbp(v float64) Cash { return NewCash(GBP, decimal.NewFromFloat(v)) }

// eur is a helper for tests to create EUR cash from a float const.
func eur(v float64) Cash { return NewCash(EUR, decimal.NewFromFloat(v)) }

func dec(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

// stock builds a USD stock, failing the test on a bad symbol.
func stock(t *testing.T, symbol string) Stock {
	t.Helper()
	s, err := NewStock(symbol, USD)
	if err != nil {
		t.Fatalf("NewStock(%q) failed: %v", symbol, err)
	}
	return s
}

// day is a convenient timestamp for activity tests.
func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

// buy builds an opening trade paying amount (negative cash) with fees.
func buy(t *testing.T, instrument Instrument, quantity float64, amount, fees Cash) Trade {
	t.Helper()
	trade, err := NewTradeFloat(day(2024, time.March, 1), instrument, quantity, amount, fees, TradeOpen)
	if err != nil {
		t.Fatalf("NewTrade failed: %v", err)
	}
	return trade
}

// position builds a position, failing the test on invariant violations.
func position(t *testing.T, instrument Instrument, quantity float64, basis Cash) Position {
	t.Helper()
	p, err := NewPositionFloat(instrument, quantity, basis)
	if err != nil {
		t.Fatalf("NewPosition failed: %v", err)
	}
	return p
}

// spxPut is the option used throughout the option tests.
func spxPut(t *testing.T) Option {
	t.Helper()
	o, err := NewOption("SPX", USD, Put, date.New(2014, time.November, 22), dec(19.50))
	if err != nil {
		t.Fatalf("NewOption failed: %v", err)
	}
	return o
}

// fakeProvider serves canned quotes keyed by instrument symbol. Symbols it
// has no quote for are absent from the results, which the engine reads as
// "no data".
type fakeProvider struct {
	quotes map[string]Quote
	calls  int
}

func (f *fakeProvider) FetchQuotes(_ context.Context, instruments []Instrument) ([]InstrumentQuote, error) {
	f.calls++
	result := make([]InstrumentQuote, 0, len(instruments))
	for _, instrument := range instruments {
		quote, ok := f.quotes[instrument.Symbol()]
		if !ok {
			continue
		}
		result = append(result, InstrumentQuote{Instrument: instrument, Quote: quote})
	}
	return result, nil
}

// quoteOf builds a quote from float prices; 0 means absent.
func quoteOf(t *testing.T, currency Currency, bid, ask, last, close float64) Quote {
	t.Helper()
	price := func(v float64) *Cash {
		if v == 0 {
			return nil
		}
		c, err := NewCashFloat(currency, v)
		if err != nil {
			t.Fatalf("NewCashFloat(%v) failed: %v", v, err)
		}
		return &c
	}
	q, err := NewQuote(price(bid), price(ask), price(last), price(close))
	if err != nil {
		t.Fatalf("NewQuote failed: %v", err)
	}
	return q
}
