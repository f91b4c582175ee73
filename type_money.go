package coffer

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// cashScale is the fixed number of decimal places a Cash amount is stored
// with. Quantization is round-half-to-even and is re-applied after every
// arithmetic operation, so an amount is never held unrounded.
const cashScale = 4

// zeroDecimal is a reusable exact zero.
var zeroDecimal = decimal.NewFromInt(0)

// NonFiniteError reports that a NaN or infinite value was offered where a
// finite decimal amount is required.
type NonFiniteError struct {
	What  string
	Value float64
}

func (e *NonFiniteError) Error() string {
	return fmt.Sprintf("%s %v is not a finite number", e.What, e.Value)
}

// CurrencyMismatchError reports arithmetic or comparison attempted between
// two Cash values of different currencies. The engine never converts
// implicitly; use the conversion functions instead.
type CurrencyMismatchError struct {
	Left, Right Currency
}

func (e *CurrencyMismatchError) Error() string {
	return fmt.Sprintf("currency %s must match %s for arithmetic", e.Left, e.Right)
}

// Cash is an immutable amount of one currency.
//
// The zero value is 0 of the zero Currency and is only useful as a "not set"
// marker; all constructors quantize the amount to cashScale digits.
type Cash struct {
	currency Currency
	amount   decimal.Decimal
}

// NewCash returns amount tagged with the given currency, quantized.
func NewCash(currency Currency, amount decimal.Decimal) Cash {
	return Cash{currency: currency, amount: quantizeCash(amount)}
}

// NewCashFloat converts a float amount into Cash. It fails with a
// *NonFiniteError if the value is NaN or infinite; it is never clamped.
func NewCashFloat(currency Currency, value float64) (Cash, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return Cash{}, &NonFiniteError{What: "cash amount", Value: value}
	}
	return NewCash(currency, decimal.NewFromFloat(value)), nil
}

// quantizeCash rounds to the fixed cash scale, half to even.
func quantizeCash(d decimal.Decimal) decimal.Decimal { return d.RoundBank(cashScale) }

// Currency returns the currency tag.
func (c Cash) Currency() Currency { return c.currency }

// Amount returns the quantized decimal amount.
func (c Cash) Amount() decimal.Decimal { return c.amount }

func (c Cash) sameCurrency(other Cash) error {
	if c.currency != other.currency {
		return &CurrencyMismatchError{Left: c.currency, Right: other.currency}
	}
	return nil
}

// Add returns c + other. Both operands must share a currency.
func (c Cash) Add(other Cash) (Cash, error) {
	if err := c.sameCurrency(other); err != nil {
		return Cash{}, err
	}
	return NewCash(c.currency, c.amount.Add(other.amount)), nil
}

// Sub returns c - other. Both operands must share a currency.
func (c Cash) Sub(other Cash) (Cash, error) {
	if err := c.sameCurrency(other); err != nil {
		return Cash{}, err
	}
	return NewCash(c.currency, c.amount.Sub(other.amount)), nil
}

// Mul scales the amount by a dimensionless factor, preserving currency.
func (c Cash) Mul(factor decimal.Decimal) Cash {
	return NewCash(c.currency, c.amount.Mul(factor))
}

// Div divides the amount by a dimensionless divisor, preserving currency.
// Division by zero panics, as it does on the underlying decimal type.
func (c Cash) Div(divisor decimal.Decimal) Cash {
	return NewCash(c.currency, c.amount.Div(divisor))
}

// Ratio returns the dimensionless quotient c / other.
func (c Cash) Ratio(other Cash) (decimal.Decimal, error) {
	if err := c.sameCurrency(other); err != nil {
		return decimal.Decimal{}, err
	}
	return c.amount.Div(other.amount), nil
}

// Neg returns the negated amount in the same currency.
func (c Cash) Neg() Cash { return Cash{currency: c.currency, amount: c.amount.Neg()} }

// Abs returns the absolute amount in the same currency.
func (c Cash) Abs() Cash { return Cash{currency: c.currency, amount: c.amount.Abs()} }

// IsZero reports whether the amount is exactly zero.
func (c Cash) IsZero() bool { return c.amount.IsZero() }

// IsNegative reports whether the amount is below zero.
func (c Cash) IsNegative() bool { return c.amount.IsNegative() }

// IsPositive reports whether the amount is above zero.
func (c Cash) IsPositive() bool { return c.amount.IsPositive() }

// Equal compares (currency, quantized amount) as a composite value. Two
// amounts of different currencies are unequal, not an error.
func (c Cash) Equal(other Cash) bool {
	return c.currency == other.currency && c.amount.Equal(other.amount)
}

// Cmp orders two amounts of the same currency: -1, 0 or +1.
func (c Cash) Cmp(other Cash) (int, error) {
	if err := c.sameCurrency(other); err != nil {
		return 0, err
	}
	return c.amount.Cmp(other.amount), nil
}

// LessThan reports c < other for two amounts of the same currency.
func (c Cash) LessThan(other Cash) (bool, error) {
	cmp, err := c.Cmp(other)
	return cmp < 0, err
}

// GreaterThan reports c > other for two amounts of the same currency.
func (c Cash) GreaterThan(other Cash) (bool, error) {
	cmp, err := c.Cmp(other)
	return cmp > 0, err
}

// String formats the amount with its currency symbol, using the currency's
// display fraction (2 digits for most, 0 for JPY).
func (c Cash) String() string { return c.Format(0) }

// Format renders the amount for display. When padding is positive the
// currency symbol is right-justified in a 3-rune field and the numeric part
// is right-aligned to the given width, so columns of figures line up.
func (c Cash) Format(padding int) string {
	grapheme := c.currency.Grapheme()
	number := c.amount.StringFixed(int32(c.currency.DisplayFraction()))
	number = groupThousands(number)
	if padding > 0 {
		if n := 3 - len([]rune(grapheme)); n > 0 {
			grapheme = strings.Repeat(" ", n) + grapheme
		}
		if n := padding - len(number); n > 0 {
			number = strings.Repeat(" ", n) + number
		}
	}
	return grapheme + number
}

// groupThousands inserts "," separators in the integer part of a plain
// decimal string, keeping any leading sign.
func groupThousands(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, hasFrac := strings.Cut(s, ".")
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	out := sign + b.String()
	if hasFrac {
		out += "." + frac
	}
	return out
}
