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

// positionsCmd holds the flags for the 'positions' subcommand.
type positionsCmd struct{}

func (*positionsCmd) Name() string     { return "positions" }
func (*positionsCmd) Synopsis() string { return "display current stock positions" }
func (*positionsCmd) Usage() string {
	return `folio positions

  Reconstructs open stock positions from the trade ledger using average-cost
  accounting, and values them against the latest quotes.
`
}

func (c *positionsCmd) SetFlags(f *flag.FlagSet) {}

func (c *positionsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	feed, err := newFeed(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	quotes, err := feed.FetchQuotes(ctx, symbolIDs(ledger))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error fetching quotes: %v\n", err)
		return subcommands.ExitFailure
	}
	rates, err := fetchRates(ctx, ledger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error fetching exchange rates: %v\n", err)
		return subcommands.ExitFailure
	}

	accountant := &folio.Accountant{
		Quotes:  quotes,
		Rates:   rates,
		Exclude: cfg.ExcludeSet(),
		Log:     NewLogger(cfg),
	}
	printMarkdown(renderer.PositionsMarkdown(accountant.Positions(ledger)))
	return subcommands.ExitSuccess
}
