// Package cmd implements the CLI application to reconcile brokerage activity
// and report on the resulting positions, gains and dividends.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	"github.com/openfolio/folio"
	"github.com/openfolio/folio/questrade"
	"github.com/rs/zerolog"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&syncCmd{}, "ledger")
	c.Register(&statusCmd{}, "ledger")
	c.Register(&fmtCmd{}, "ledger")

	c.Register(&positionsCmd{}, "reports")
	c.Register(&cryptoCmd{}, "reports")
	c.Register(&gainsCmd{}, "reports")
	c.Register(&dividendsCmd{}, "reports")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", "folio.toml", "Path to the TOML configuration file")

// LoadConfig reads the application configuration file.
func LoadConfig() (*folio.Config, error) {
	return folio.LoadConfig(*configFile)
}

// NewLogger builds the batch logger at the configured level.
func NewLogger(cfg *folio.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	writer := zerolog.ConsoleWriter{Out: os.Stderr}
	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}

// OpenStore opens the data directory holding the ledger, split, and cursor
// blobs.
func OpenStore(cfg *folio.Config) *folio.Store {
	return folio.NewStore(cfg.DataDir)
}

// OpenCryptoStore opens the separate data directory for exchange trade blobs.
// Crypto trades never mix with the brokerage ledger on disk.
func OpenCryptoStore(cfg *folio.Config) *folio.Store {
	return folio.NewStore(filepath.Join(cfg.DataDir, "crypto"))
}

// newFeed builds the brokerage client from the configuration, reading the
// bearer token from the environment.
func newFeed(cfg *folio.Config) (*questrade.Client, error) {
	token := os.Getenv(cfg.Feed.TokenEnv)
	if token == "" {
		return nil, fmt.Errorf("no API token found in $%s", cfg.Feed.TokenEnv)
	}
	return questrade.New(cfg.Feed.Host, token), nil
}

// fetchRates loads the USD/CAD history spanning the ledger's trades, plus the
// latest published rate for current valuations.
func fetchRates(ctx context.Context, ledger *folio.Ledger) (*folio.RateTable, error) {
	from := folio.Today()
	for _, t := range ledger.Trades() {
		if t.Date.Before(from) {
			from = t.Date
		}
	}
	return folio.NewValetClient().FetchTable(ctx, from, folio.Today())
}

// symbolIDs collects the distinct feed symbol ids present in the ledger, for
// the quote request.
func symbolIDs(ledger *folio.Ledger) []int64 {
	seen := make(map[int64]bool)
	var ids []int64
	for _, t := range ledger.Trades() {
		if t.SymbolID == 0 || seen[t.SymbolID] {
			continue
		}
		seen[t.SymbolID] = true
		ids = append(ids, t.SymbolID)
	}
	return ids
}

// printMarkdown renders a markdown report on the terminal.
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}
