// Package yahoo fetches live quotes from Yahoo Finance. Unlike the delayed
// EODHD endpoint it carries bid and ask, so it is the better provider for
// marking positions to market.
package yahoo

import (
	"context"
	"fmt"

	"github.com/coffersh/coffer"
	"github.com/piquette/finance-go"
	"github.com/piquette/finance-go/quote"
)

// Provider is a QuoteProvider over Yahoo Finance's batch quote endpoint.
type Provider struct{}

var _ coffer.QuoteProvider = Provider{}

// symbol maps an instrument to Yahoo's quote symbol, or ok=false for the
// kinds the service does not quote.
func symbol(instrument coffer.Instrument) (string, bool) {
	switch i := instrument.(type) {
	case coffer.Stock:
		return i.Symbol(), true
	case coffer.Forex:
		return i.Symbol() + "=X", true
	default:
		return "", false
	}
}

// FetchQuotes performs one batch lookup for all quotable instruments. The
// underlying client has no context plumbing; cancellation is only checked
// between result rows.
func (Provider) FetchQuotes(ctx context.Context, instruments []coffer.Instrument) ([]coffer.InstrumentQuote, error) {
	bySymbol := make(map[string]coffer.Instrument)
	symbols := make([]string, 0, len(instruments))
	for _, instrument := range instruments {
		s, ok := symbol(instrument)
		if !ok {
			continue
		}
		if _, seen := bySymbol[s]; seen {
			continue
		}
		bySymbol[s] = instrument
		symbols = append(symbols, s)
	}
	if len(symbols) == 0 {
		return nil, nil
	}

	iter := quote.List(symbols)
	quotes := make([]coffer.InstrumentQuote, 0, len(symbols))
	for iter.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		q := iter.Quote()
		instrument, ok := bySymbol[q.Symbol]
		if !ok {
			continue
		}
		decoded, err := decodeQuote(q, instrument.Currency())
		if err != nil {
			return nil, fmt.Errorf("decoding quote for %s: %w", q.Symbol, err)
		}
		quotes = append(quotes, coffer.InstrumentQuote{Instrument: instrument, Quote: decoded})
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return quotes, nil
}

// decodeQuote maps Yahoo's flat quote into the model. Yahoo reports a
// missing price as zero, which no tradable instrument legitimately has.
func decodeQuote(q *finance.Quote, currency coffer.Currency) (coffer.Quote, error) {
	return coffer.NewQuote(
		price(q.Bid, currency),
		price(q.Ask, currency),
		price(q.RegularMarketPrice, currency),
		price(q.RegularMarketPreviousClose, currency),
	)
}

func price(value float64, currency coffer.Currency) *coffer.Cash {
	if value == 0 {
		return nil
	}
	cash, err := coffer.NewCashFloat(currency, value)
	if err != nil {
		return nil
	}
	return &cash
}
