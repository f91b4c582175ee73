package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/coffersh/coffer"
	"github.com/google/subcommands"
)

type valueCmd struct {
	currency string
}

func (*valueCmd) Name() string     { return "value" }
func (*valueCmd) Synopsis() string { return "mark all positions to market with live quotes" }
func (*valueCmd) Usage() string {
	return `coffer value [-c <currency>]

  Fetches quotes for every position in one batch and prints each position's
  liquidation value. With -c, also converts and totals the values in the
  given currency.

`
}

func (c *valueCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.currency, "c", "", "Currency to total the values in (e.g. USD).")
}

func (c *valueCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	values, err := coffer.LiveValuesForPositions(ctx, agg.Positions(), provider, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	amounts := make([]coffer.Cash, 0, len(values))
	for _, v := range values {
		fmt.Printf("%-21s %s\n", v.Position.Instrument().Symbol(), v.Value.Format(14))
		amounts = append(amounts, v.Value)
	}

	if c.currency == "" {
		return subcommands.ExitSuccess
	}
	currency, err := coffer.ParseCurrency(c.currency)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	total, err := coffer.ConvertCashToCurrency(ctx, currency, amounts, provider)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("\nTotal: %s\n", total)
	return subcommands.ExitSuccess
}
