package coffer

import (
	"testing"
	"time"

	"github.com/coffersh/coffer/date"
)

func TestTimelineSortsByDate(t *testing.T) {
	spy := stock(t, "SPY")
	sell, err := NewTradeFloat(day(2024, time.June, 1), spy, -5, usd(1100), usd(1), TradeClose)
	if err != nil {
		t.Fatal(err)
	}
	open, err := NewTradeFloat(day(2024, time.January, 2), spy, 5, usd(-999), usd(1), TradeOpen)
	if err != nil {
		t.Fatal(err)
	}

	// Events arrive newest first; the timeline still runs oldest first.
	entries, err := TimelineForSymbol("SPY", []Activity{sell, open})
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if !entries[0].Date.Equal(day(2024, time.January, 2)) {
		t.Errorf("first entry dated %s, want the buy", entries[0].Date)
	}
	if !entries[0].RealizedProfit.Equal(usd(-1000)) {
		t.Errorf("profit after buy = %s, want %s", entries[0].RealizedProfit, usd(-1000))
	}
	if !entries[1].RealizedProfit.Equal(usd(99)) {
		t.Errorf("final profit = %s, want %s", entries[1].RealizedProfit, usd(99))
	}
}

func TestTimelineTracksPositionSizes(t *testing.T) {
	spy := stock(t, "SPY")
	open, err := NewTradeFloat(day(2024, time.January, 2), spy, 5, usd(-999), usd(1), TradeOpen)
	if err != nil {
		t.Fatal(err)
	}
	add, err := NewTradeFloat(day(2024, time.February, 1), spy, 3, usd(-660), usd(0), TradeOpen)
	if err != nil {
		t.Fatal(err)
	}
	closeAll, err := NewTradeFloat(day(2024, time.March, 1), spy, -8, usd(1800), usd(1), TradeClose)
	if err != nil {
		t.Fatal(err)
	}

	entries, err := TimelineForSymbol("SPY", []Activity{open, add, closeAll})
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	if size := entries[0].Positions["SPY"]; size.String() != "5" {
		t.Errorf("size after open = %s, want 5", size)
	}
	if size := entries[1].Positions["SPY"]; size.String() != "8" {
		t.Errorf("size after add = %s, want 8", size)
	}
	// A flat position disappears from the map instead of lingering at zero.
	if _, held := entries[2].Positions["SPY"]; held {
		t.Error("flat position should be absent from the final entry")
	}
}

func TestTimelineShowsDerivativeLegs(t *testing.T) {
	spy := stock(t, "SPY")
	o, err := NewOption("SPY", USD, Put, date.New(2024, time.June, 21), dec(400))
	if err != nil {
		t.Fatal(err)
	}
	stockBuy, err := NewTradeFloat(day(2024, time.January, 2), spy, 5, usd(-2000), usd(0), TradeOpen)
	if err != nil {
		t.Fatal(err)
	}
	putSale, err := NewTradeFloat(day(2024, time.February, 1), o, -1, usd(150), usd(1), TradeOpen)
	if err != nil {
		t.Fatal(err)
	}

	entries, err := TimelineForSymbol("SPY", []Activity{stockBuy, putSale})
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	last := entries[len(entries)-1]
	if len(last.Positions) != 2 {
		t.Fatalf("final entry tracks %d legs, want the stock and the put", len(last.Positions))
	}
	if size := last.Positions[o.Symbol()]; size.String() != "-1" {
		t.Errorf("put leg = %s, want -1", size)
	}
	if !last.RealizedProfit.Equal(usd(-1851)) {
		t.Errorf("profit = %s, want %s", last.RealizedProfit, usd(-1851))
	}
}

func TestTimelineEntriesAreSnapshots(t *testing.T) {
	spy := stock(t, "SPY")
	open, err := NewTradeFloat(day(2024, time.January, 2), spy, 5, usd(-1000), usd(0), TradeOpen)
	if err != nil {
		t.Fatal(err)
	}
	add, err := NewTradeFloat(day(2024, time.February, 1), spy, 3, usd(-600), usd(0), TradeOpen)
	if err != nil {
		t.Fatal(err)
	}

	entries, err := TimelineForSymbol("SPY", []Activity{open, add})
	if err != nil {
		t.Fatal(err)
	}
	// The first entry must not see the later trade.
	if size := entries[0].Positions["SPY"]; size.String() != "5" {
		t.Errorf("first snapshot = %s, want 5", size)
	}
}

func TestTimelineEmpty(t *testing.T) {
	entries, err := TimelineForSymbol("SPY", nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("got %d entries, want none", len(entries))
	}
}
