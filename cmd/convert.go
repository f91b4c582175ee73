package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/coffersh/coffer"
	"github.com/google/subcommands"
)

type convertCmd struct {
	currency string
}

func (*convertCmd) Name() string     { return "convert" }
func (*convertCmd) Synopsis() string { return "convert all cash balances into one currency" }
func (*convertCmd) Usage() string {
	return `coffer convert -c <currency>

  Converts the uninvested cash held across all accounts into the given
  currency using current forex rates and prints the total.

`
}

func (c *convertCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.currency, "c", "USD", "Currency to convert the balances into.")
}

func (c *convertCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	currency, err := coffer.ParseCurrency(c.currency)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	agg, err := loadAggregator()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	provider := agg.Provider()
	if provider == nil {
		if provider, err = newQuoteProvider(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
	}

	total, err := coffer.ConvertCashToCurrency(ctx, currency, agg.Balance().Amounts(), provider)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Total cash: %s\n", total)
	return subcommands.ExitSuccess
}
