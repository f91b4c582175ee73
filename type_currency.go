package coffer

import (
	"fmt"

	"github.com/Rhymond/go-money"
)

// Currency is one of the closed set of currencies the system accounts in.
//
// The numeric values define a fixed total order over currencies. This order
// is load-bearing: it decides which leg of a currency pair is the base when
// building a canonical Forex instrument, so it must never change between
// releases.
type Currency uint8

const (
	EUR Currency = 1 + iota
	GBP
	AUD
	NZD
	USD
	CAD
	CHF
	JPY
)

var currencyCodes = map[Currency]string{
	EUR: "EUR",
	GBP: "GBP",
	AUD: "AUD",
	NZD: "NZD",
	USD: "USD",
	CAD: "CAD",
	CHF: "CHF",
	JPY: "JPY",
}

// Currencies returns all supported currencies in their total order.
func Currencies() []Currency {
	return []Currency{EUR, GBP, AUD, NZD, USD, CAD, CHF, JPY}
}

// ParseCurrency returns the Currency for an ISO code like "USD".
func ParseCurrency(code string) (Currency, error) {
	for c, s := range currencyCodes {
		if s == code {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unsupported currency code %q", code)
}

// IsValid reports whether c is one of the supported currencies.
func (c Currency) IsValid() bool { _, ok := currencyCodes[c]; return ok }

// Less reports whether c sorts before other in the fixed total order.
func (c Currency) Less(other Currency) bool { return c < other }

// String returns the ISO 4217 code.
func (c Currency) String() string {
	if s, ok := currencyCodes[c]; ok {
		return s
	}
	return fmt.Sprintf("Currency(%d)", uint8(c))
}

// currency returns the go-money currency record, which carries the display
// grapheme and the number of fraction digits (0 for JPY).
func (c Currency) currency() *money.Currency {
	return money.GetCurrency(c.String())
}

// Grapheme returns the display symbol for the currency, e.g. "$" for USD.
func (c Currency) Grapheme() string { return c.currency().Grapheme }

// DisplayFraction returns the number of fraction digits used when formatting
// amounts in this currency for humans.
func (c Currency) DisplayFraction() int { return c.currency().Fraction }
