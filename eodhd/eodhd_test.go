package eodhd

import (
	"encoding/json"
	"testing"

	"github.com/coffersh/coffer"
)

func TestTicker(t *testing.T) {
	aapl, err := coffer.NewStock("AAPL", coffer.USD)
	if err != nil {
		t.Fatal(err)
	}
	nvd, err := coffer.NewStockOnExchange("NVD", "F", coffer.EUR)
	if err != nil {
		t.Fatal(err)
	}
	gbpusd, err := coffer.NewForex(coffer.GBP, coffer.USD)
	if err != nil {
		t.Fatal(err)
	}
	bond, err := coffer.NewBond("912828YK0", coffer.USD)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		instrument coffer.Instrument
		want       string
		ok         bool
	}{
		{instrument: aapl, want: "AAPL.US", ok: true},
		{instrument: nvd, want: "NVD.F", ok: true},
		{instrument: gbpusd, want: "GBPUSD.FOREX", ok: true},
		{instrument: bond, ok: false},
	}
	for _, tc := range tests {
		got, ok := ticker(tc.instrument)
		if ok != tc.ok || got != tc.want {
			t.Errorf("ticker(%s) = %q, %v, want %q, %v", tc.instrument.Symbol(), got, ok, tc.want, tc.ok)
		}
	}
}

func TestDecodeQuote(t *testing.T) {
	var entry any
	payload := `{"code":"AAPL.US","timestamp":1693506600,"open":189.2,"close":189.46,"previousClose":187.65}`
	if err := json.Unmarshal([]byte(payload), &entry); err != nil {
		t.Fatal(err)
	}

	quote, err := decodeQuote(entry, coffer.USD)
	if err != nil {
		t.Fatalf("decodeQuote() failed: %v", err)
	}
	last, ok := quote.Last()
	if !ok {
		t.Fatal("decodeQuote() dropped the last price")
	}
	want, _ := coffer.NewCashFloat(coffer.USD, 189.46)
	if !last.Equal(want) {
		t.Errorf("last = %s, want %s", last, want)
	}
	if _, ok := quote.Bid(); ok {
		t.Error("the delayed endpoint should not produce a bid")
	}
}

func TestDecodeQuoteNA(t *testing.T) {
	var entry any
	payload := `{"code":"XXXX.US","close":"NA","previousClose":"NA"}`
	if err := json.Unmarshal([]byte(payload), &entry); err != nil {
		t.Fatal(err)
	}
	quote, err := decodeQuote(entry, coffer.USD)
	if err != nil {
		t.Fatalf("decodeQuote() failed: %v", err)
	}
	if _, ok := quote.Market(); ok {
		t.Error("an all-NA payload should carry no market price")
	}
}
