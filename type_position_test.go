package coffer

import (
	"errors"
	"math"
	"testing"
)

func TestPositionInvariants(t *testing.T) {
	spy := stock(t, "SPY")

	if _, err := NewPositionFloat(spy, 10, gbp(1000)); !isCurrencyMismatch(err) {
		t.Errorf("basis in wrong currency error = %v, want CurrencyMismatchError", err)
	}
	if _, err := NewPositionFloat(spy, math.NaN(), usd(0)); err == nil {
		t.Error("NaN quantity must be rejected")
	}
	if _, err := NewPositionFloat(spy, 0, usd(100)); err == nil {
		t.Error("flat position with non-zero basis must be rejected")
	}
	if _, err := NewPositionFloat(spy, 0, usd(0)); err != nil {
		t.Errorf("flat zero-basis position failed: %v", err)
	}
}

func TestPositionAveragePrice(t *testing.T) {
	spy := stock(t, "SPY")
	p := position(t, spy, 5, usd(1000))
	if got := p.AveragePrice(); !got.Equal(usd(200)) {
		t.Errorf("AveragePrice() = %s, want %s", got, usd(200))
	}

	// A flat position reports its zero basis.
	flat := position(t, spy, 0, usd(0))
	if got := flat.AveragePrice(); !got.IsZero() {
		t.Errorf("flat AveragePrice() = %s, want zero", got)
	}
}

func TestPositionAveragePriceWithMultiplier(t *testing.T) {
	o := spxPut(t)
	// 2 contracts x 100 multiplier bought for 500 total: 2.50 per unit.
	p := position(t, o, 2, usd(500))
	if got := p.AveragePrice(); !got.Equal(usd(2.5)) {
		t.Errorf("AveragePrice() = %s, want %s", got, usd(2.5))
	}
}

func TestPositionCombine(t *testing.T) {
	spy := stock(t, "SPY")
	a := position(t, spy, 5, usd(1000))
	b := position(t, spy, 3, usd(660))

	ab, err := a.Combine(b)
	if err != nil {
		t.Fatal(err)
	}
	ba, err := b.Combine(a)
	if err != nil {
		t.Fatal(err)
	}
	if !ab.Equal(ba) {
		t.Errorf("combine is not commutative: %s vs %s", ab, ba)
	}
	want := position(t, spy, 8, usd(1660))
	if !ab.Equal(want) {
		t.Errorf("Combine() = %s, want %s", ab, want)
	}
}

func TestPositionCombineOpposite(t *testing.T) {
	spy := stock(t, "SPY")
	a := position(t, spy, 5, usd(1000))
	opposite := position(t, spy, -5, usd(-1000))

	flat, err := a.Combine(opposite)
	if err != nil {
		t.Fatal(err)
	}
	if !flat.Quantity().IsZero() {
		t.Errorf("quantity = %s, want 0", flat.Quantity())
	}
	if !flat.CostBasis().IsZero() {
		t.Errorf("cost basis = %s, want 0", flat.CostBasis())
	}
}

func TestPositionCombineMismatch(t *testing.T) {
	a := position(t, stock(t, "SPY"), 5, usd(1000))
	b := position(t, stock(t, "VOO"), 5, usd(1000))

	_, err := a.Combine(b)
	var mismatch *InstrumentMismatchError
	if !errors.As(err, &mismatch) {
		t.Errorf("Combine across instruments error = %v, want InstrumentMismatchError", err)
	}
}
