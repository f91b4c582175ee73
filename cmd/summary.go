package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/charmbracelet/glamour"
	"github.com/coffersh/coffer"
	"github.com/google/subcommands"
)

type summaryCmd struct {
	plain bool
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "render a markdown summary of all accounts" }
func (*summaryCmd) Usage() string {
	return `coffer summary [-plain]

  Renders a summary of positions and cash balances across all accounts as
  markdown, styled for the terminal. -plain emits the raw markdown instead.

`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.plain, "plain", false, "Emit raw markdown without terminal styling.")
}

const summaryTemplate = `# Accounts summary

## Positions

| Instrument | Quantity | Average price | Cost basis |
|---|---:|---:|---:|
{{range .Positions -}}
| {{.Instrument.Symbol}} | {{.Quantity}} | {{.AveragePrice}} | {{.CostBasis}} |
{{end}}
## Cash

{{range .Balance.Amounts}}- {{.}}
{{end}}`

func (c *summaryCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	agg, err := loadAggregator()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	tmpl := template.Must(template.New("summary").Parse(summaryTemplate))
	var md strings.Builder
	data := struct {
		Positions []coffer.Position
		Balance   coffer.AccountBalance
	}{agg.Positions(), agg.Balance()}
	if err := tmpl.Execute(&md, data); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	if c.plain {
		fmt.Print(md.String())
		return subcommands.ExitSuccess
	}
	rendered, err := glamour.Render(md.String(), "auto")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Print(rendered)
	return subcommands.ExitSuccess
}
