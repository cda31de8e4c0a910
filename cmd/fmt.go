package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

// fmtCmd holds the flags for the 'fmt' subcommand.
type fmtCmd struct {
	crypto bool
}

func (*fmtCmd) Name() string { return "fmt" }
func (*fmtCmd) Synopsis() string {
	return "validates and rewrites the ledger blobs into canonical form"
}
func (*fmtCmd) Usage() string {
	return `folio fmt [-crypto]

  Reads the ledger, drops any duplicate records, sorts trades by date, and
  writes the blobs back in canonical form. Use -crypto to format the exchange
  trade ledger instead.
`
}

func (p *fmtCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&p.crypto, "crypto", false, "Format the crypto trade ledger instead of the brokerage one.")
}

func (p *fmtCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	store := OpenStore(cfg)
	if p.crypto {
		store = OpenCryptoStore(cfg)
	}

	ledger, err := store.LoadLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not load ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	if dropped := ledger.Dedupe(); dropped > 0 {
		fmt.Fprintf(os.Stderr, "Dropped %d duplicate records.\n", dropped)
	}
	if err := store.SaveLedger(ledger); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving formatted ledger: %v\n", err)
		return subcommands.ExitFailure
	}

	trades, dividends := ledger.Counts()
	fmt.Fprintf(os.Stderr, "Formatted %d trades and %d dividends.\n", trades, dividends)
	return subcommands.ExitSuccess
}
