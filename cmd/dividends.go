package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/openfolio/folio"
	"github.com/openfolio/folio/renderer"
)

// dividendsCmd holds the flags for the 'dividends' subcommand.
type dividendsCmd struct{}

func (*dividendsCmd) Name() string     { return "dividends" }
func (*dividendsCmd) Synopsis() string { return "dividend income summary per symbol and year" }
func (*dividendsCmd) Usage() string {
	return `folio dividends

  Sums dividend income per symbol, bucketed by calendar year, converted at the
  latest published exchange rate.
`
}

func (c *dividendsCmd) SetFlags(f *flag.FlagSet) {}

func (c *dividendsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	ledger, err := OpenStore(cfg).LoadLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	rate, err := folio.NewValetClient().Latest(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error fetching exchange rate: %v\n", err)
		return subcommands.ExitFailure
	}

	rows := folio.DividendSummary(ledger, folio.NewConverter(rate))
	printMarkdown(renderer.DividendsMarkdown(rows))
	return subcommands.ExitSuccess
}
