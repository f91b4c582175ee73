package coffer

import (
	"context"
	"fmt"
	"regexp"
	"sort"

	"github.com/shopspring/decimal"
)

// symbolSeparators matches the characters brokers disagree on when printing
// multi-class tickers: "BRK.B", "BRK B" and "BRK/B" are one symbol.
var symbolSeparators = regexp.MustCompile(`[.\s/]`)

// NormalizeSymbol strips separator characters so broker-specific renderings
// of one symbol compare equal. Apply before any cross-broker comparison.
func NormalizeSymbol(symbol string) string {
	return symbolSeparators.ReplaceAllString(symbol, "")
}

// NormalizeInstrument lifts NormalizeSymbol over instruments where it makes
// sense: stock symbols and option underlyings. Other variants pass through
// unchanged.
func NormalizeInstrument(instrument Instrument) Instrument {
	switch i := instrument.(type) {
	case Stock:
		normalized, err := NewStockOnExchange(NormalizeSymbol(i.Symbol()), i.Exchange(), i.Currency())
		if err != nil {
			return instrument
		}
		return normalized
	case FutureOption:
		normalized, err := NewFutureOption(i.Symbol(), NormalizeSymbol(i.Underlying()), i.Currency(), i.Type(), i.Expiration(), i.Strike(), i.Multiplier())
		if err != nil {
			return instrument
		}
		return normalized
	case Option:
		normalized, err := NewOptionWithSymbol(i.Symbol(), NormalizeSymbol(i.Underlying()), i.Currency(), i.Type(), i.Expiration(), i.Strike(), i.Multiplier())
		if err != nil {
			return instrument
		}
		return normalized
	case Bond, Future, Forex:
		return instrument
	}
	return instrument
}

// ActivityAffectsSymbol reports whether an activity concerns the given
// symbol, comparing in normalized form. A trade in an option counts against
// the option's underlying as well as the option symbol itself.
func ActivityAffectsSymbol(activity Activity, symbol string) bool {
	normalized := NormalizeSymbol(symbol)
	switch a := activity.(type) {
	case CashPayment:
		return a.Instrument() != nil && NormalizeSymbol(a.Instrument().Symbol()) == normalized
	case Trade:
		switch i := a.Instrument().(type) {
		case FutureOption:
			if NormalizeSymbol(i.Underlying()) == normalized {
				return true
			}
		case Option:
			if NormalizeSymbol(i.Underlying()) == normalized {
				return true
			}
		}
		return NormalizeSymbol(a.Instrument().Symbol()) == normalized
	}
	return false
}

// RealizedBasisForSymbol folds the activity that concerns symbol into the
// net cash paid in: each event's proceeds (trade amount net of fees, or a
// cash payment) reduces the basis. Dividends and option premium reduce
// basis exactly like sale proceeds, which makes this a profitability view,
// not a tax lot calculation.
//
// The fold runs in input order and visits every matching event exactly
// once; the final sum does not depend on date order, so callers only need
// to pre-sort when intermediate values matter.
//
// The second return is false when nothing in the input matched the symbol,
// which is "no data", distinct from a realized basis of zero. Activity in
// mixed currencies under one symbol fails with a *CurrencyMismatchError;
// the fold never converts.
func RealizedBasisForSymbol(symbol string, activity []Activity) (Cash, bool, error) {
	var basis Cash
	found := false
	for _, a := range activity {
		if !ActivityAffectsSymbol(a, symbol) {
			continue
		}
		var proceeds Cash
		switch a := a.(type) {
		case CashPayment:
			proceeds = a.Proceeds()
		case Trade:
			proceeds = a.Proceeds()
		}
		if !found {
			basis = proceeds.Neg()
			found = true
			continue
		}
		next, err := basis.Sub(proceeds)
		if err != nil {
			return Cash{}, false, err
		}
		basis = next
	}
	return basis, found, nil
}

// DeduplicatePositions merges positions held in the same instrument across
// data sources into one position each. Output is sorted by symbol so the
// result is deterministic regardless of input order.
func DeduplicatePositions(positions []Position) ([]Position, error) {
	merged := make(map[instrumentKey]Position)
	for _, p := range positions {
		key := keyOf(p.Instrument())
		current, ok := merged[key]
		if !ok {
			merged[key] = p
			continue
		}
		combined, err := current.Combine(p)
		if err != nil {
			return nil, err
		}
		merged[key] = combined
	}
	result := make([]Position, 0, len(merged))
	for _, p := range merged {
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Instrument().Symbol() < result[j].Instrument().Symbol()
	})
	return result, nil
}

// DuplicateInstrumentError reports live valuation given positions that were
// not deduplicated first.
type DuplicateInstrumentError struct {
	Instrument Instrument
}

func (e *DuplicateInstrumentError) Error() string {
	return fmt.Sprintf("expected deduplicated positions, but saw %s multiple times", e.Instrument.Symbol())
}

// PositionValue is one position with its mark-to-market value.
type PositionValue struct {
	Position Position
	Value    Cash
}

// PositionValues is the result of a live valuation. Positions whose quote
// carried no usable price are absent.
type PositionValues []PositionValue

// Lookup returns the value computed for the position held in instrument.
func (vs PositionValues) Lookup(instrument Instrument) (Cash, bool) {
	key := keyOf(instrument)
	for _, v := range vs {
		if keyOf(v.Position.Instrument()) == key {
			return v.Value, true
		}
	}
	return Cash{}, false
}

// liquidationPrice picks the price a position could be unwound at. Covering
// a short means paying the ask; liquidating a long means receiving the bid.
// Falls back to last, the other side, then close.
func liquidationPrice(q Quote, p Position) (Cash, bool) {
	var order []func() (Cash, bool)
	if p.Quantity().IsNegative() {
		order = []func() (Cash, bool){q.Ask, q.Last, q.Bid, q.Close}
	} else {
		order = []func() (Cash, bool){q.Bid, q.Last, q.Ask, q.Close}
	}
	for _, price := range order {
		if c, ok := price(); ok {
			return c, true
		}
	}
	return Cash{}, false
}

// LiveValuesForPositions marks each position to market with one batched
// quote fetch. The value of a position is price x quantity x multiplier.
// Positions the provider returned no usable price for are omitted from the
// result. The input must already be deduplicated. progress, when non-nil,
// is called after each processed quote.
func LiveValuesForPositions(ctx context.Context, positions []Position, provider QuoteProvider, progress func(done, total int)) (PositionValues, error) {
	byInstrument := make(map[instrumentKey]Position, len(positions))
	instruments := make([]Instrument, 0, len(positions))
	for _, p := range positions {
		key := keyOf(p.Instrument())
		if _, seen := byInstrument[key]; seen {
			return nil, &DuplicateInstrumentError{Instrument: p.Instrument()}
		}
		byInstrument[key] = p
		instruments = append(instruments, p.Instrument())
	}

	quotes, err := provider.FetchQuotes(ctx, instruments)
	if err != nil {
		return nil, err
	}

	values := make(PositionValues, 0, len(quotes))
	for done, iq := range quotes {
		if progress != nil {
			progress(done+1, len(quotes))
		}
		position, ok := byInstrument[keyOf(iq.Instrument)]
		if !ok {
			continue
		}
		price, ok := liquidationPrice(iq.Quote, position)
		if !ok {
			continue
		}
		value := price.Mul(position.Quantity()).Mul(position.Instrument().Multiplier())
		values = append(values, PositionValue{Position: position, Value: value})
	}
	return values, nil
}

// ConversionRate prices one unit of Currency in some quote currency.
type ConversionRate struct {
	Currency Currency
	Rate     Cash
}

// CurrencyConversionRates looks up what each of the other currencies costs
// in terms of quoteCurrency, using the market price of the canonical pair
// for each currency (inverting when the canonical direction is the other
// way round). Currencies the provider cannot quote are omitted; that is
// not an error.
func CurrencyConversionRates(ctx context.Context, quoteCurrency Currency, otherCurrencies []Currency, provider QuoteProvider) ([]ConversionRate, error) {
	seen := make(map[Currency]bool)
	instruments := make([]Instrument, 0, len(otherCurrencies))
	for _, currency := range otherCurrencies {
		if currency == quoteCurrency || seen[currency] {
			continue
		}
		seen[currency] = true
		pair, err := CanonicalForex(currency, quoteCurrency)
		if err != nil {
			return nil, err
		}
		instruments = append(instruments, pair)
	}
	if len(instruments) == 0 {
		return nil, nil
	}

	quotes, err := provider.FetchQuotes(ctx, instruments)
	if err != nil {
		return nil, err
	}

	rates := make([]ConversionRate, 0, len(quotes))
	for _, iq := range quotes {
		pair, ok := iq.Instrument.(Forex)
		if !ok {
			continue
		}
		market, ok := iq.Quote.Market()
		if !ok || market.IsZero() {
			continue
		}
		if pair.QuoteCurrency() == quoteCurrency {
			rates = append(rates, ConversionRate{Currency: pair.BaseCurrency(), Rate: market})
		} else {
			// The canonical pair points the other way; one unit of its quote
			// currency costs the inverse. Precision is bounded by the cash
			// scale, which bites hardest on large-figure currencies like JPY.
			inverse := NewCash(pair.BaseCurrency(), one.Div(market.Amount()))
			rates = append(rates, ConversionRate{Currency: pair.QuoteCurrency(), Rate: inverse})
		}
	}
	return rates, nil
}

// MissingConversionRateError reports a conversion for which no forex quote
// could be resolved.
type MissingConversionRateError struct {
	Currency Currency
}

func (e *MissingConversionRateError) Error() string {
	return fmt.Sprintf("unable to resolve a conversion rate for %s", e.Currency)
}

// ConvertCashToCurrency sums the given amounts in quoteCurrency, converting
// each through a single-hop forex lookup (no triangulation through a third
// currency). It fails if any amount's currency has no resolvable rate.
func ConvertCashToCurrency(ctx context.Context, quoteCurrency Currency, amounts []Cash, provider QuoteProvider) (Cash, error) {
	others := make([]Currency, 0, len(amounts))
	for _, amount := range amounts {
		if amount.Currency() != quoteCurrency {
			others = append(others, amount.Currency())
		}
	}

	fetched, err := CurrencyConversionRates(ctx, quoteCurrency, others, provider)
	if err != nil {
		return Cash{}, err
	}
	rates := make(map[Currency]decimal.Decimal, len(fetched)+1)
	for _, rate := range fetched {
		rates[rate.Currency] = rate.Rate.Amount()
	}
	rates[quoteCurrency] = one

	total := NewCash(quoteCurrency, zeroDecimal)
	for _, amount := range amounts {
		rate, ok := rates[amount.Currency()]
		if !ok {
			return Cash{}, &MissingConversionRateError{Currency: amount.Currency()}
		}
		total, err = total.Add(NewCash(quoteCurrency, amount.Amount().Mul(rate)))
		if err != nil {
			panic(err)
		}
	}
	return total, nil
}
