package coffer

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TimelineEntry is one step in the history of a symbol: the running
// realized profit after an event, and the open position sizes at that
// point. Positions are keyed by normalized instrument, so the stock leg and
// any derivative legs show side by side.
type TimelineEntry struct {
	Date           time.Time
	Positions      map[string]decimal.Decimal
	RealizedProfit Cash
}

func (e TimelineEntry) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "As of %s: %s", e.Date.Format("2006-01-02"), e.RealizedProfit)
	symbols := make([]string, 0, len(e.Positions))
	for symbol := range e.Positions {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	for _, symbol := range symbols {
		fmt.Fprintf(&sb, "\n\t%-21s %14s", symbol, e.Positions[symbol].String())
	}
	return sb.String()
}

// TimelineForSymbol traces position sizing and running profit for one
// symbol over a stream of activity, oldest first. It yields one entry per
// event that concerned the symbol. Unlike RealizedBasisForSymbol, the
// intermediate values here carry meaning, so the matching events are
// sorted by date before folding.
func TimelineForSymbol(symbol string, activity []Activity) ([]TimelineEntry, error) {
	matching := make([]Activity, 0)
	for _, a := range activity {
		if ActivityAffectsSymbol(a, symbol) {
			matching = append(matching, a)
		}
	}
	sort.SliceStable(matching, func(i, j int) bool { return matching[i].Date().Before(matching[j].Date()) })

	entries := make([]TimelineEntry, 0, len(matching))
	positions := make(map[string]decimal.Decimal)
	var profit Cash
	started := false

	for _, a := range matching {
		var proceeds Cash
		switch a := a.(type) {
		case CashPayment:
			proceeds = a.Proceeds()
		case Trade:
			proceeds = a.Proceeds()
		}
		if !started {
			profit = proceeds
			started = true
		} else {
			next, err := profit.Add(proceeds)
			if err != nil {
				return nil, err
			}
			profit = next
		}

		if trade, ok := a.(Trade); ok {
			instrument := NormalizeInstrument(trade.Instrument())
			size := positions[instrument.Symbol()].Add(trade.Quantity())
			if size.IsZero() {
				delete(positions, instrument.Symbol())
			} else {
				positions[instrument.Symbol()] = size
			}
		}

		snapshot := make(map[string]decimal.Decimal, len(positions))
		for symbol, size := range positions {
			snapshot[symbol] = size
		}
		entries = append(entries, TimelineEntry{Date: a.Date(), Positions: snapshot, RealizedProfit: profit})
	}
	return entries, nil
}
