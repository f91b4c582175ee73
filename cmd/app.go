// Package cmd implements the CLI application to inspect aggregated
// brokerage accounts.
package cmd

import (
	"flag"
	"fmt"

	"github.com/coffersh/coffer"
	"github.com/coffersh/coffer/brokers/csvexport"
	"github.com/coffersh/coffer/eodhd"
	"github.com/coffersh/coffer/yahoo"
	"github.com/google/subcommands"
)

// Commands lists every subcommand; a main package registers them and
// executes the user-selected one.
var Commands = []subcommands.Command{
	&positionsCmd{},
	&basisCmd{},
	&timelineCmd{},
	&valueCmd{},
	&convertCmd{},
	&summaryCmd{},
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	positionsFile    = flag.String("positions-file", "positions.csv", "Path to the positions export (CSV)")
	transactionsFile = flag.String("transactions-file", "transactions.csv", "Path to the transactions export (CSV)")
	balancesFile     = flag.String("balances-file", "", "Path to the cash balances export (CSV), optional")
	lenient          = flag.Bool("lenient", false, "Skip malformed export rows instead of failing")
	quoteSource      = flag.String("quote-source", "yahoo", "Where to fetch quotes from: yahoo or eodhd")
	eodhdAPIKey      = flag.String("eodhd-api-key", "", "EODHD API key; reads EODHD_API_KEY when empty")
)

// loadAggregator reads the configured export files into one aggregated view.
func loadAggregator() (*coffer.Aggregator, error) {
	source := &csvexport.Source{
		PositionsPath:    *positionsFile,
		TransactionsPath: *transactionsFile,
		BalancesPath:     *balancesFile,
		Lenient:          *lenient,
	}
	return coffer.NewAggregator(source)
}

// newQuoteProvider picks the configured quote source.
func newQuoteProvider() (coffer.QuoteProvider, error) {
	switch *quoteSource {
	case "yahoo":
		return yahoo.Provider{}, nil
	case "eodhd":
		return eodhd.NewProvider(*eodhdAPIKey)
	}
	return nil, fmt.Errorf("unknown quote source %q, want yahoo or eodhd", *quoteSource)
}
