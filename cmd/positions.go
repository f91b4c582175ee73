package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type positionsCmd struct{}

func (*positionsCmd) Name() string     { return "positions" }
func (*positionsCmd) Synopsis() string { return "list positions aggregated across all accounts" }
func (*positionsCmd) Usage() string {
	return `coffer positions

  Lists every position held across the configured accounts, one line per
  distinct instrument, with partial lots from different accounts merged.

`
}

func (*positionsCmd) SetFlags(*flag.FlagSet) {}

func (*positionsCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	agg, err := loadAggregator()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	for _, p := range agg.Positions() {
		fmt.Println(p)
	}
	fmt.Println()
	fmt.Println(agg.Balance())
	return subcommands.ExitSuccess
}
