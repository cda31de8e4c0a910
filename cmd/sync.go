package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/openfolio/folio"
)

// syncCmd holds the flags for the 'sync' subcommand.
type syncCmd struct{}

func (*syncCmd) Name() string     { return "sync" }
func (*syncCmd) Synopsis() string { return "fetch new brokerage activity into the ledger" }
func (*syncCmd) Usage() string {
	return `folio sync

  Fetches brokerage activity since the last watermark, in date windows, and
  merges the new trades and dividends into the ledger. Safe to re-run: records
  already present are recognized and skipped.
`
}

func (c *syncCmd) SetFlags(f *flag.FlagSet) {}

func (c *syncCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	feed, err := newFeed(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	syncer := folio.NewSyncer(feed, OpenStore(cfg), opts, NewLogger(cfg))
	ledger, err := syncer.Sync(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error syncing activity: %v\n", err)
		return subcommands.ExitFailure
	}

	trades, dividends := ledger.Counts()
	fmt.Printf("Ledger now holds %d trades and %d dividends.\n", trades, dividends)
	return subcommands.ExitSuccess
}
