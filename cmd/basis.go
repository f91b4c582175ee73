package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/coffersh/coffer"
	"github.com/google/subcommands"
)

type basisCmd struct {
	symbol string
}

func (*basisCmd) Name() string { return "basis" }
func (*basisCmd) Synopsis() string {
	return "compute the realized cost basis of a symbol from account activity"
}
func (*basisCmd) Usage() string {
	return `coffer basis -s <symbol>

  Folds all trades, dividends and option premium concerning the symbol into
  the net cash paid in. Proceeds of any kind reduce the basis, so this is a
  profitability view, not a tax lot report.

`
}

func (c *basisCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "s", "", "Symbol to compute the realized basis for.")
}

func (c *basisCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.symbol == "" {
		fmt.Fprintln(os.Stderr, "missing -s symbol")
		return subcommands.ExitUsageError
	}
	agg, err := loadAggregator()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	basis, found, err := coffer.RealizedBasisForSymbol(c.symbol, agg.Activity())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if !found {
		fmt.Printf("No activity found for %s\n", c.symbol)
		return subcommands.ExitSuccess
	}
	fmt.Printf("Realized basis for %s: %s\n", c.symbol, basis)
	return subcommands.ExitSuccess
}
