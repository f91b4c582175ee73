package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/coffersh/coffer"
	"github.com/google/subcommands"
)

type timelineCmd struct {
	symbol string
}

func (*timelineCmd) Name() string { return "timeline" }
func (*timelineCmd) Synopsis() string {
	return "trace position sizing and running profit of a symbol over time"
}
func (*timelineCmd) Usage() string {
	return `coffer timeline -s <symbol>

  Replays all activity concerning the symbol, oldest first, printing the
  running realized profit and open position sizes after each event.

`
}

func (c *timelineCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "s", "", "Symbol to trace.")
}

func (c *timelineCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.symbol == "" {
		fmt.Fprintln(os.Stderr, "missing -s symbol")
		return subcommands.ExitUsageError
	}
	agg, err := loadAggregator()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	entries, err := coffer.TimelineForSymbol(c.symbol, agg.Activity())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	for _, entry := range entries {
		fmt.Println(entry)
	}
	return subcommands.ExitSuccess
}
