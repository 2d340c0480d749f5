// Package main validates deck files against a card catalog.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"

	"github.com/KyleGowen/excelsior-sub008/internal/config"
	"github.com/KyleGowen/excelsior-sub008/internal/tools/deckcheck"
)

func main() {
	cfg, err := deckcheck.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("Error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := deckcheck.Run(ctx, cfg, os.Stdout); err != nil {
		if errors.Is(err, deckcheck.ErrIllegalDeck) {
			stop()
			os.Exit(1)
		}
		config.Exitf("Error: %v", err)
	}
}
