package coffer

import (
	"fmt"
	"regexp"

	"github.com/coffersh/coffer/date"
	"github.com/shopspring/decimal"
)

// InvalidInstrumentError reports a structural invariant violated while
// constructing an instrument.
type InvalidInstrumentError struct {
	Kind   string
	Reason string
}

func (e *InvalidInstrumentError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Kind, e.Reason)
}

// Instrument identifies a tradable asset. It is a closed set: Stock, Bond,
// Option, FutureOption, Future and Forex. Two instruments are the same
// exposure when their concrete type, symbol and currency all match; switch
// statements over the variants are expected to be exhaustive.
type Instrument interface {
	// Symbol is the primary identifier, never empty.
	Symbol() string
	// Currency the instrument trades in.
	Currency() Currency
	// Multiplier scales one unit of quantity into notional cash terms
	// (100 for a standard equity option). Always finite and positive.
	Multiplier() decimal.Decimal
	// Exchange is the listing venue when known, "" otherwise.
	Exchange() string

	sealedInstrument()
}

type instrumentKind uint8

const (
	kindStock instrumentKind = 1 + iota
	kindBond
	kindOption
	kindFutureOption
	kindFuture
	kindForex
)

// instrumentKey is the comparable identity of an instrument, usable as a map
// key. Identity is (concrete type, symbol, currency): a Future and a Stock
// with the same symbol are never the same exposure.
type instrumentKey struct {
	kind     instrumentKind
	symbol   string
	currency Currency
}

func keyOf(i Instrument) instrumentKey {
	var kind instrumentKind
	switch i.(type) {
	case Stock:
		kind = kindStock
	case Bond:
		kind = kindBond
	case FutureOption:
		kind = kindFutureOption
	case Option:
		kind = kindOption
	case Future:
		kind = kindFuture
	case Forex:
		kind = kindForex
	}
	return instrumentKey{kind: kind, symbol: i.Symbol(), currency: i.Currency()}
}

// SameInstrument reports whether a and b identify the same exposure.
func SameInstrument(a, b Instrument) bool { return keyOf(a) == keyOf(b) }

// multiplierScale is the fixed number of decimal places a multiplier is
// stored with.
const multiplierScale = 1

// strikeScale is the fixed number of decimal places an option strike is
// stored with.
const strikeScale = 3

func validateSymbolCurrency(kind, symbol string, currency Currency) error {
	if symbol == "" {
		return &InvalidInstrumentError{Kind: kind, Reason: "expected non-empty symbol"}
	}
	if !currency.IsValid() {
		return &InvalidInstrumentError{Kind: kind, Reason: "expected a currency"}
	}
	return nil
}

func validateMultiplier(kind string, multiplier decimal.Decimal) error {
	if multiplier.Sign() <= 0 {
		return &InvalidInstrumentError{Kind: kind, Reason: fmt.Sprintf("expected positive multiplier, got %s", multiplier)}
	}
	return nil
}

var one = decimal.NewFromInt(1)

// Stock is an equity or ETF share.
type Stock struct {
	symbol   string
	currency Currency
	exchange string
}

// NewStock returns a share of the given symbol trading in currency.
func NewStock(symbol string, currency Currency) (Stock, error) {
	return NewStockOnExchange(symbol, "", currency)
}

// NewStockOnExchange is NewStock with an explicit listing venue.
func NewStockOnExchange(symbol, exchange string, currency Currency) (Stock, error) {
	if err := validateSymbolCurrency("stock", symbol, currency); err != nil {
		return Stock{}, err
	}
	return Stock{symbol: symbol, currency: currency, exchange: exchange}, nil
}

func (s Stock) Symbol() string              { return s.symbol }
func (s Stock) Currency() Currency          { return s.currency }
func (s Stock) Multiplier() decimal.Decimal { return one }
func (s Stock) Exchange() string            { return s.exchange }
func (s Stock) String() string              { return s.symbol }
func (Stock) sealedInstrument()             {}

// cusipPattern is the shape of a bond CUSIP: 3 digits, 5 alphanumerics, a
// final check digit.
var cusipPattern = regexp.MustCompile(`^[0-9]{3}[0-9A-Z]{5}[0-9]$`)

// ValidBondSymbol reports whether symbol looks like a CUSIP.
func ValidBondSymbol(symbol string) bool { return cusipPattern.MatchString(symbol) }

// Bond is a fixed-income instrument identified by CUSIP.
type Bond struct {
	symbol   string
	currency Currency
}

// NewBond returns a bond, rejecting symbols that do not look like a CUSIP.
func NewBond(symbol string, currency Currency) (Bond, error) {
	if err := validateSymbolCurrency("bond", symbol, currency); err != nil {
		return Bond{}, err
	}
	if !ValidBondSymbol(symbol) {
		return Bond{}, &InvalidInstrumentError{Kind: "bond", Reason: fmt.Sprintf("expected symbol to be a CUSIP, got %q", symbol)}
	}
	return Bond{symbol: symbol, currency: currency}, nil
}

// NewBondUnvalidated skips the CUSIP shape check, for brokers that report
// bonds under a house symbol.
func NewBondUnvalidated(symbol string, currency Currency) (Bond, error) {
	if err := validateSymbolCurrency("bond", symbol, currency); err != nil {
		return Bond{}, err
	}
	return Bond{symbol: symbol, currency: currency}, nil
}

func (b Bond) Symbol() string              { return b.symbol }
func (b Bond) Currency() Currency          { return b.currency }
func (b Bond) Multiplier() decimal.Decimal { return one }
func (b Bond) Exchange() string            { return "" }
func (b Bond) String() string              { return b.symbol }
func (Bond) sealedInstrument()             {}

// OptionType says which side of the strike an option pays on.
type OptionType uint8

const (
	Put OptionType = 1 + iota
	Call
)

func (t OptionType) String() string {
	switch t {
	case Put:
		return "P"
	case Call:
		return "C"
	}
	return "?"
}

// ParseOptionType accepts "P"/"PUT" and "C"/"CALL".
func ParseOptionType(s string) (OptionType, error) {
	switch s {
	case "P", "PUT", "Put", "put":
		return Put, nil
	case "C", "CALL", "Call", "call":
		return Call, nil
	}
	return 0, fmt.Errorf("unknown option type %q", s)
}

// Option is a put or call over an underlying symbol.
type Option struct {
	symbol     string
	underlying string
	currency   Currency
	optionType OptionType
	expiration date.Date
	strike     decimal.Decimal
	multiplier decimal.Decimal
}

// DefaultOptionMultiplier is the contract size of a standard equity option.
var DefaultOptionMultiplier = decimal.NewFromInt(100)

// NewOption builds a standard option (multiplier 100) and derives its OCC
// symbol.
func NewOption(underlying string, currency Currency, optionType OptionType, expiration date.Date, strike decimal.Decimal) (Option, error) {
	return NewOptionWithSymbol("", underlying, currency, optionType, expiration, strike, DefaultOptionMultiplier)
}

// NewOptionWithSymbol builds an option under a broker-supplied symbol and
// multiplier. An empty symbol derives the OCC symbol: 6-character padded
// underlying, YYMMDD expiration, P or C, and the strike in thousandths
// zero-padded to 8 digits.
func NewOptionWithSymbol(symbol, underlying string, currency Currency, optionType OptionType, expiration date.Date, strike, multiplier decimal.Decimal) (Option, error) {
	if underlying == "" {
		return Option{}, &InvalidInstrumentError{Kind: "option", Reason: "expected non-empty underlying symbol"}
	}
	if optionType != Put && optionType != Call {
		return Option{}, &InvalidInstrumentError{Kind: "option", Reason: "expected a put or call type"}
	}
	strike = strike.RoundBank(strikeScale)
	if strike.Sign() <= 0 {
		return Option{}, &InvalidInstrumentError{Kind: "option", Reason: fmt.Sprintf("expected positive strike, got %s", strike)}
	}
	multiplier = multiplier.RoundBank(multiplierScale)
	if err := validateMultiplier("option", multiplier); err != nil {
		return Option{}, err
	}
	if symbol == "" {
		symbol = occSymbol(underlying, optionType, expiration, strike)
	}
	if err := validateSymbolCurrency("option", symbol, currency); err != nil {
		return Option{}, err
	}
	return Option{
		symbol:     symbol,
		underlying: underlying,
		currency:   currency,
		optionType: optionType,
		expiration: expiration,
		strike:     strike,
		multiplier: multiplier,
	}, nil
}

// occSymbol derives the OCC option symbol convention.
// https://en.wikipedia.org/wiki/Option_symbol
func occSymbol(underlying string, optionType OptionType, expiration date.Date, strike decimal.Decimal) string {
	thousandths := strike.Mul(decimal.NewFromInt(1000)).Round(0).IntPart()
	return fmt.Sprintf("%-6s%s%s%08d", underlying, expiration.Format("060102"), optionType, thousandths)
}

func (o Option) Symbol() string              { return o.symbol }
func (o Option) Currency() Currency          { return o.currency }
func (o Option) Multiplier() decimal.Decimal { return o.multiplier }
func (o Option) Exchange() string            { return "" }
func (o Option) Underlying() string          { return o.underlying }
func (o Option) Type() OptionType            { return o.optionType }
func (o Option) Expiration() date.Date       { return o.expiration }
func (o Option) Strike() decimal.Decimal     { return o.strike }
func (o Option) String() string              { return o.symbol }
func (Option) sealedInstrument()             {}

// FutureOption is an option whose underlying is a futures contract root
// rather than a cash equity. It always carries a broker-supplied symbol.
type FutureOption struct {
	Option
}

// NewFutureOption builds an option on a future. The underlying is the future
// root symbol.
func NewFutureOption(symbol, underlying string, currency Currency, optionType OptionType, expiration date.Date, strike, multiplier decimal.Decimal) (FutureOption, error) {
	if symbol == "" {
		return FutureOption{}, &InvalidInstrumentError{Kind: "future option", Reason: "expected non-empty symbol"}
	}
	opt, err := NewOptionWithSymbol(symbol, underlying, currency, optionType, expiration, strike, multiplier)
	if err != nil {
		return FutureOption{}, err
	}
	return FutureOption{Option: opt}, nil
}

// Future is a futures contract. The multiplier is contract-specific and
// broker-supplied.
type Future struct {
	symbol     string
	currency   Currency
	multiplier decimal.Decimal
	expiration date.Date
}

// NewFuture builds a futures contract.
func NewFuture(symbol string, currency Currency, multiplier decimal.Decimal, expiration date.Date) (Future, error) {
	if err := validateSymbolCurrency("future", symbol, currency); err != nil {
		return Future{}, err
	}
	multiplier = multiplier.RoundBank(multiplierScale)
	if err := validateMultiplier("future", multiplier); err != nil {
		return Future{}, err
	}
	return Future{symbol: symbol, currency: currency, multiplier: multiplier, expiration: expiration}, nil
}

func (f Future) Symbol() string              { return f.symbol }
func (f Future) Currency() Currency          { return f.currency }
func (f Future) Multiplier() decimal.Decimal { return f.multiplier }
func (f Future) Exchange() string            { return "" }
func (f Future) Expiration() date.Date       { return f.expiration }
func (f Future) String() string              { return f.symbol }
func (Future) sealedInstrument()             {}

// Forex is an ordered currency pair. Its symbol is the concatenation of the
// two codes and its trading currency is the quote side.
type Forex struct {
	base  Currency
	quote Currency
}

// NewForex builds a currency pair. Base and quote must differ.
func NewForex(base, quote Currency) (Forex, error) {
	if !base.IsValid() || !quote.IsValid() {
		return Forex{}, &InvalidInstrumentError{Kind: "forex", Reason: "expected two currencies"}
	}
	if base == quote {
		return Forex{}, &InvalidInstrumentError{Kind: "forex", Reason: fmt.Sprintf("pair must be two different currencies, got %s and %s", base, quote)}
	}
	return Forex{base: base, quote: quote}, nil
}

// CanonicalForex orders the pair by the fixed currency order, so one
// instrument stands for the pair regardless of the direction asked for.
func CanonicalForex(a, b Currency) (Forex, error) {
	if b.Less(a) {
		a, b = b, a
	}
	return NewForex(a, b)
}

func (f Forex) Symbol() string              { return f.base.String() + f.quote.String() }
func (f Forex) Currency() Currency          { return f.quote }
func (f Forex) Multiplier() decimal.Decimal { return one }
func (f Forex) Exchange() string            { return "" }
func (f Forex) BaseCurrency() Currency      { return f.base }
func (f Forex) QuoteCurrency() Currency     { return f.quote }
func (f Forex) String() string              { return f.Symbol() }
func (Forex) sealedInstrument()             {}
