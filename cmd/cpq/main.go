package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/vsinha/cpq/pkg/interfaces/cli/commands"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// cobra prints the error itself
	if err := commands.Execute(ctx, version); err != nil {
		stop()
		os.Exit(1)
	}
}
