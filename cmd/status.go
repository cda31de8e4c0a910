package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

// statusCmd holds the flags for the 'status' subcommand.
type statusCmd struct{}

func (*statusCmd) Name() string     { return "status" }
func (*statusCmd) Synopsis() string { return "show the sync watermark and ledger counts" }
func (*statusCmd) Usage() string {
	return `folio status

  Prints the sync cursor (watermark and completeness) and the size of the
  ledger on disk.
`
}

func (c *statusCmd) SetFlags(f *flag.FlagSet) {}

func (c *statusCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	opts, err := cfg.SyncOptions()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error in configuration: %v\n", err)
		return subcommands.ExitUsageError
	}

	store := OpenStore(cfg)
	cursor, err := store.LoadCursor(opts.Origin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading cursor: %v\n", err)
		return subcommands.ExitFailure
	}
	ledger, err := store.LoadLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	splits, err := store.LoadSplits()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading splits: %v\n", err)
		return subcommands.ExitFailure
	}

	trades, dividends := ledger.Counts()
	fmt.Printf("Watermark:  %s\n", cursor.Watermark)
	fmt.Printf("Up to date: %v\n", cursor.Complete)
	fmt.Printf("Trades:     %d\n", trades)
	fmt.Printf("Dividends:  %d\n", dividends)
	fmt.Printf("Splits:     %d\n", len(splits))
	return subcommands.ExitSuccess
}
