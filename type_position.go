package coffer

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// quantityScale is the fixed number of decimal places a position or trade
// quantity is stored with.
const quantityScale = 4

func quantizeQuantity(d decimal.Decimal) decimal.Decimal { return d.RoundBank(quantityScale) }

// InstrumentMismatchError reports an attempt to combine positions held in
// two different instruments.
type InstrumentMismatchError struct {
	Left, Right Instrument
}

func (e *InstrumentMismatchError) Error() string {
	return fmt.Sprintf("cannot combine positions in two different instruments: %s and %s", e.Left.Symbol(), e.Right.Symbol())
}

// Position is a held quantity of one instrument together with its aggregate
// cost basis. It is an immutable value; Combine returns a new Position.
type Position struct {
	instrument Instrument
	quantity   decimal.Decimal
	costBasis  Cash
}

// NewPosition builds a position. The cost basis must be denominated in the
// instrument's currency, and a flat position must carry a zero basis.
func NewPosition(instrument Instrument, quantity decimal.Decimal, costBasis Cash) (Position, error) {
	if instrument == nil {
		return Position{}, fmt.Errorf("position requires an instrument")
	}
	if costBasis.Currency() != instrument.Currency() {
		return Position{}, &CurrencyMismatchError{Left: costBasis.Currency(), Right: instrument.Currency()}
	}
	quantity = quantizeQuantity(quantity)
	if quantity.IsZero() && !costBasis.IsZero() {
		return Position{}, fmt.Errorf("cost basis %s should be zero when quantity is zero", costBasis)
	}
	return Position{instrument: instrument, quantity: quantity, costBasis: costBasis}, nil
}

// NewPositionFloat is NewPosition for float inputs, rejecting NaN and
// infinities.
func NewPositionFloat(instrument Instrument, quantity float64, costBasis Cash) (Position, error) {
	if math.IsNaN(quantity) || math.IsInf(quantity, 0) {
		return Position{}, &NonFiniteError{What: "position quantity", Value: quantity}
	}
	return NewPosition(instrument, decimal.NewFromFloat(quantity), costBasis)
}

// Instrument returns the identity of the exposure.
func (p Position) Instrument() Instrument { return p.instrument }

// Quantity returns the held quantity, quantized.
func (p Position) Quantity() decimal.Decimal { return p.quantity }

// CostBasis returns the aggregate amount paid in for the position.
func (p Position) CostBasis() Cash { return p.costBasis }

// AveragePrice is the per-unit entry price: basis over quantity over the
// instrument multiplier. A flat position reports its (zero) basis.
func (p Position) AveragePrice() Cash {
	if p.quantity.IsZero() {
		return p.costBasis
	}
	return p.costBasis.Div(p.quantity).Div(p.instrument.Multiplier())
}

// Combine merges two lots of the same instrument, summing quantity and cost
// basis. It is commutative, and combining a position with its exact opposite
// yields a flat, zero-basis position.
func (p Position) Combine(other Position) (Position, error) {
	if !SameInstrument(p.instrument, other.instrument) {
		return Position{}, &InstrumentMismatchError{Left: p.instrument, Right: other.instrument}
	}
	basis, err := p.costBasis.Add(other.costBasis)
	if err != nil {
		return Position{}, err
	}
	return NewPosition(p.instrument, p.quantity.Add(other.quantity), basis)
}

// Equal compares instrument identity, quantity and basis.
func (p Position) Equal(other Position) bool {
	return SameInstrument(p.instrument, other.instrument) &&
		p.quantity.Equal(other.quantity) &&
		p.costBasis.Equal(other.costBasis)
}

func (p Position) String() string {
	return fmt.Sprintf("%-21s %14s @ %s", p.instrument.Symbol(), p.quantity.String(), p.AveragePrice())
}
