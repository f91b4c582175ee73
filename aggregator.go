package coffer

import "fmt"

// AccountSource offers data about one brokerage account, loaded from an
// exported file or a live connection. Implementations must hand over fully
// constructed model values; the analysis engine does not re-validate them.
type AccountSource interface {
	// Positions returns the positions currently held.
	Positions() ([]Position, error)
	// Activity returns historical account activity.
	Activity() ([]Activity, error)
	// Balance returns the uninvested cash in the account.
	Balance() (AccountBalance, error)
}

// QuoteProviderSource is an AccountSource that also offers market data,
// e.g. a live brokerage connection.
type QuoteProviderSource interface {
	AccountSource
	QuoteProvider() QuoteProvider
}

// Aggregator folds several account sources into one view: positions merged
// across accounts, activity concatenated, balances summed per currency.
type Aggregator struct {
	positions []Position
	activity  []Activity
	balance   AccountBalance
	provider  QuoteProvider
}

// NewAggregator loads every source and deduplicates positions across them.
// The first source that offers market data becomes the aggregate's quote
// provider.
func NewAggregator(sources ...AccountSource) (*Aggregator, error) {
	agg := &Aggregator{balance: NewAccountBalance()}
	for _, source := range sources {
		positions, err := source.Positions()
		if err != nil {
			return nil, fmt.Errorf("loading positions: %w", err)
		}
		agg.positions = append(agg.positions, positions...)

		activity, err := source.Activity()
		if err != nil {
			return nil, fmt.Errorf("loading activity: %w", err)
		}
		agg.activity = append(agg.activity, activity...)

		balance, err := source.Balance()
		if err != nil {
			return nil, fmt.Errorf("loading balance: %w", err)
		}
		agg.balance = agg.balance.Add(balance)

		if agg.provider == nil {
			if ps, ok := source.(QuoteProviderSource); ok {
				agg.provider = ps.QuoteProvider()
			}
		}
	}

	deduplicated, err := DeduplicatePositions(agg.positions)
	if err != nil {
		return nil, err
	}
	agg.positions = deduplicated
	return agg, nil
}

// Positions returns the deduplicated positions across all accounts.
func (a *Aggregator) Positions() []Position { return a.positions }

// Activity returns all account activity, in source order.
func (a *Aggregator) Activity() []Activity { return a.activity }

// Balance returns the summed cash balances across all accounts.
func (a *Aggregator) Balance() AccountBalance { return a.balance }

// Provider returns the quote provider contributed by a source, or nil.
func (a *Aggregator) Provider() QuoteProvider { return a.provider }

// SetProvider overrides the quote provider, e.g. with a standalone market
// data client when no source offers one.
func (a *Aggregator) SetProvider(p QuoteProvider) { a.provider = p }
