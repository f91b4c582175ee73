package coffer

import (
	"errors"
	"testing"
	"time"
)

// fakeAccount is an in-memory AccountSource for aggregation tests.
type fakeAccount struct {
	positions []Position
	activity  []Activity
	balance   AccountBalance
	err       error
}

func (f *fakeAccount) Positions() ([]Position, error)   { return f.positions, f.err }
func (f *fakeAccount) Activity() ([]Activity, error)    { return f.activity, f.err }
func (f *fakeAccount) Balance() (AccountBalance, error) { return f.balance, f.err }

// fakeBrokerage is a fakeAccount that also offers market data.
type fakeBrokerage struct {
	fakeAccount
	provider QuoteProvider
}

func (f *fakeBrokerage) QuoteProvider() QuoteProvider { return f.provider }

func TestAggregatorMergesAccounts(t *testing.T) {
	spy := stock(t, "SPY")
	voo := stock(t, "VOO")
	taxable := &fakeAccount{
		positions: []Position{position(t, spy, 5, usd(1000))},
		activity:  []Activity{buy(t, spy, 5, usd(-1000), usd(0))},
		balance:   NewAccountBalance(usd(500)),
	}
	ira := &fakeAccount{
		positions: []Position{
			position(t, spy, 3, usd(660)),
			position(t, voo, 2, usd(800)),
		},
		activity: []Activity{NewCashPayment(day(2024, time.March, 15), spy, usd(10))},
		balance:  NewAccountBalance(usd(100), gbp(25)),
	}

	agg, err := NewAggregator(taxable, ira)
	if err != nil {
		t.Fatal(err)
	}

	positions := agg.Positions()
	if len(positions) != 2 {
		t.Fatalf("got %d positions, want the SPY lots merged", len(positions))
	}
	if !positions[0].Equal(position(t, spy, 8, usd(1660))) {
		t.Errorf("merged position = %s", positions[0])
	}
	if got := len(agg.Activity()); got != 2 {
		t.Errorf("got %d activity entries, want 2", got)
	}
	balance := agg.Balance()
	if !balance.Cash(USD).Equal(usd(600)) {
		t.Errorf("USD balance = %s, want %s", balance.Cash(USD), usd(600))
	}
	if !balance.Cash(GBP).Equal(gbp(25)) {
		t.Errorf("GBP balance = %s, want %s", balance.Cash(GBP), gbp(25))
	}
}

func TestAggregatorTakesFirstProvider(t *testing.T) {
	flatFile := &fakeAccount{balance: NewAccountBalance()}
	first := &fakeProvider{}
	second := &fakeProvider{}
	brokerA := &fakeBrokerage{fakeAccount: fakeAccount{balance: NewAccountBalance()}, provider: first}
	brokerB := &fakeBrokerage{fakeAccount: fakeAccount{balance: NewAccountBalance()}, provider: second}

	agg, err := NewAggregator(flatFile, brokerA, brokerB)
	if err != nil {
		t.Fatal(err)
	}
	if agg.Provider() != first {
		t.Error("expected the first source offering market data to win")
	}
}

func TestAggregatorProviderOverride(t *testing.T) {
	agg, err := NewAggregator(&fakeAccount{balance: NewAccountBalance()})
	if err != nil {
		t.Fatal(err)
	}
	if agg.Provider() != nil {
		t.Fatal("no source offered a provider")
	}
	standalone := &fakeProvider{}
	agg.SetProvider(standalone)
	if agg.Provider() != standalone {
		t.Error("SetProvider should replace the provider")
	}
}

func TestAggregatorPropagatesSourceErrors(t *testing.T) {
	broken := errors.New("export file truncated")
	_, err := NewAggregator(&fakeAccount{err: broken})
	if !errors.Is(err, broken) {
		t.Errorf("error = %v, want it to wrap the source failure", err)
	}
}
