package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/joho/godotenv"
	"github.com/openfolio/folio/cmd"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	// Shell completion, a no-op outside of a completion request.
	complete.Complete("folio", &complete.Command{
		Sub: map[string]*complete.Command{
			"sync":      {},
			"status":    {},
			"fmt":       {},
			"positions": {},
			"crypto":    {},
			"gains":     {},
			"dividends": {},
		},
		Flags: map[string]complete.Predictor{
			"config": predict.Files("*.toml"),
		},
	})

	// The API token usually lives in a local .env file.
	godotenv.Load()

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
