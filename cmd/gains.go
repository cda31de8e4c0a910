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

// gainsCmd holds the flags for the 'gains' subcommand.
type gainsCmd struct {
	year int
}

func (*gainsCmd) Name() string     { return "gains" }
func (*gainsCmd) Synopsis() string { return "capital gains summary for taxable accounts" }
func (*gainsCmd) Usage() string {
	return `folio gains [-y <year>]

  Re-derives the cost basis over taxable trades and reports realized capital
  gains per symbol, bucketed by the sell's calendar year.
`
}

func (c *gainsCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.year, "y", 0, "Report a single calendar year. Reports all years by default.")
}

func (c *gainsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	rows := folio.CapitalGains(ledger, cfg.TaxableFilter())
	if c.year != 0 {
		var kept []folio.CapitalGain
		for _, r := range rows {
			if r.Year == c.year {
				kept = append(kept, r)
			}
		}
		rows = kept
	}
	printMarkdown(renderer.GainsMarkdown(rows))
	return subcommands.ExitSuccess
}
