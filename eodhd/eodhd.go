// Package eodhd fetches delayed quotes from the EODHD.com API. Only the
// instrument kinds the service actually serves are quoted (listed equities,
// ETFs and currency pairs); everything else is silently left out of the
// results, which the analysis engine treats as "no data".
package eodhd

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/coffersh/coffer"
)

const apiKeyEnv = "EODHD_API_KEY"

// Provider is a QuoteProvider over the EODHD real-time (delayed) endpoint.
// Responses are cached on disk with daily expiry, like all EODHD calls.
type Provider struct {
	apiKey string
}

var _ coffer.QuoteProvider = (*Provider)(nil)

// NewProvider builds a provider with the given API key, falling back to the
// EODHD_API_KEY environment variable.
func NewProvider(apiKey string) (*Provider, error) {
	if apiKey == "" {
		apiKey = os.Getenv(apiKeyEnv)
	}
	if apiKey == "" {
		return nil, fmt.Errorf("missing EODHD API key: set %s or pass one explicitly", apiKeyEnv)
	}
	return &Provider{apiKey: apiKey}, nil
}

// ticker maps an instrument to EODHD's "SYMBOL.EXCHANGE" form, or ok=false
// for the kinds the service does not quote.
func ticker(instrument coffer.Instrument) (string, bool) {
	switch i := instrument.(type) {
	case coffer.Stock:
		exchange := i.Exchange()
		if exchange == "" {
			exchange = "US"
		}
		return i.Symbol() + "." + exchange, true
	case coffer.Forex:
		return i.Symbol() + ".FOREX", true
	default:
		return "", false
	}
}

// FetchQuotes asks for all quotable instruments in one round trip; EODHD
// accepts extra tickers through the s= parameter.
func (p *Provider) FetchQuotes(ctx context.Context, instruments []coffer.Instrument) ([]coffer.InstrumentQuote, error) {
	byTicker := make(map[string]coffer.Instrument)
	tickers := make([]string, 0, len(instruments))
	for _, instrument := range instruments {
		code, ok := ticker(instrument)
		if !ok {
			continue
		}
		if _, seen := byTicker[code]; seen {
			continue
		}
		byTicker[code] = instrument
		tickers = append(tickers, code)
	}
	if len(tickers) == 0 {
		return nil, nil
	}

	addr := fmt.Sprintf("https://eodhd.com/api/real-time/%s?fmt=json&api_token=%s",
		url.PathEscape(tickers[0]), url.QueryEscape(p.apiKey))
	if len(tickers) > 1 {
		addr += "&s=" + url.QueryEscape(strings.Join(tickers[1:], ","))
	}

	var payload any
	if err := jwget(ctx, newDailyCachingClient(), addr, &payload); err != nil {
		return nil, err
	}
	// A single ticker comes back as one object, several as an array.
	entries, ok := payload.([]any)
	if !ok {
		entries = []any{payload}
	}

	quotes := make([]coffer.InstrumentQuote, 0, len(entries))
	for _, entry := range entries {
		code, err := jsonString(entry, "$.code")
		if err != nil {
			continue
		}
		instrument, ok := byTicker[code]
		if !ok {
			continue
		}
		quote, err := decodeQuote(entry, instrument.Currency())
		if err != nil {
			return nil, fmt.Errorf("decoding quote for %s: %w", code, err)
		}
		quotes = append(quotes, coffer.InstrumentQuote{Instrument: instrument, Quote: quote})
	}
	return quotes, nil
}

// decodeQuote maps the delayed-quote payload into a Quote: the session
// close is the freshest trade we get, previousClose backs it up. The
// endpoint carries no bid/ask.
func decodeQuote(entry any, currency coffer.Currency) (coffer.Quote, error) {
	last := jsonPrice(entry, "$.close", currency)
	previous := jsonPrice(entry, "$.previousClose", currency)
	return coffer.NewQuote(nil, nil, last, previous)
}

// jsonPrice extracts a price field as Cash, or nil when the field is
// missing or "NA".
func jsonPrice(entry any, path string, currency coffer.Currency) *coffer.Cash {
	value, err := jsonpath.Get(path, entry)
	if err != nil {
		return nil
	}
	number, ok := value.(float64)
	if !ok {
		return nil
	}
	price, err := coffer.NewCashFloat(currency, number)
	if err != nil {
		return nil
	}
	return &price
}

func jsonString(entry any, path string) (string, error) {
	value, err := jsonpath.Get(path, entry)
	if err != nil {
		return "", err
	}
	s, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("expected string at %s, got %T", path, value)
	}
	return s, nil
}
