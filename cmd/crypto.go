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

// cryptoCmd holds the flags for the 'crypto' subcommand.
type cryptoCmd struct{}

func (*cryptoCmd) Name() string     { return "crypto" }
func (*cryptoCmd) Synopsis() string { return "display current crypto positions" }
func (*cryptoCmd) Usage() string {
	return `folio crypto

  Reconstructs crypto positions from the exchange trade ledger. Trades from
  every exchange account unify into a single position per symbol; each trade
  is valued at the exchange rate published for its own date.
`
}

func (c *cryptoCmd) SetFlags(f *flag.FlagSet) {}

func (c *cryptoCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	ledger, err := OpenCryptoStore(cfg).LoadLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading crypto ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	rates, err := fetchRates(ctx, ledger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error fetching exchange rates: %v\n", err)
		return subcommands.ExitFailure
	}

	accountant := &folio.Accountant{
		Rates:   rates,
		Exclude: cfg.ExcludeSet(),
		Log:     NewLogger(cfg),
	}
	printMarkdown(renderer.PositionsMarkdown(accountant.CryptoPositions(ledger)))
	return subcommands.ExitSuccess
}
