package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/vsinha/cpq/pkg/application/services"
	"github.com/vsinha/cpq/pkg/domain/entities"
	"github.com/vsinha/cpq/pkg/infrastructure/events"
	"github.com/vsinha/cpq/pkg/infrastructure/logging"
	"github.com/vsinha/cpq/pkg/infrastructure/repositories/memory"
	testhelpers "github.com/vsinha/cpq/pkg/infrastructure/testing"
	"github.com/vsinha/cpq/pkg/interfaces/cli/output"
)

func main() {
	ctx := context.Background()
	logger := logging.NewDefault()
	defer logger.Sync()

	catalog := testhelpers.BuildDemoCatalog()
	store := events.NewInMemoryEventStore(logger)

	// print every event as it happens
	_ = store.Subscribe([]string{events.WildcardType}, &events.HandlerFunc{
		Fn: func(e events.Event) error {
			output.Event(os.Stdout, e)
			return nil
		},
	})

	session, err := services.NewConfigurationSession(ctx, services.SessionDeps{
		Catalog: catalog,
		Events:  store,
		Logger:  logger,
	}, "14-card")
	if err != nil {
		fmt.Printf("Configuration failed: %v\n", err)
		return
	}

	fmt.Println("Configuring a 14-card transformer monitor...")
	if _, err := session.ApplyStandardCards(ctx); err != nil {
		fmt.Printf("Standard cards failed: %v\n", err)
		return
	}

	for _, step := range []struct {
		card entities.CardID
		slot int
	}{
		{"AI8", 6},
		{"AI8", 13},
		{"DI16", 14},
		{"FIB", 0},
		{"RIF", 0},
		{"BUSH", 0}, // both pairs are blocked, so AI8 is evicted from 6,7
		{"BUSH-HV", 0},
		{"RACK", 0},
		{"FIB", 5},
	} {
		if _, err := session.Add(ctx, step.card, step.slot); err != nil {
			var placementErr *entities.PlacementError
			if errors.As(err, &placementErr) {
				fmt.Printf("  %s rejected (%s)\n", step.card, placementErr.Kind)
				continue
			}
			fmt.Printf("Add %s failed: %v\n", step.card, err)
			return
		}
	}

	fmt.Println()
	if err := output.Configuration(os.Stdout, session.Result(), session.Chassis(), output.FormatText); err != nil {
		fmt.Printf("Output failed: %v\n", err)
		return
	}

	quotes := services.NewQuoteService(memory.NewQuoteRepository(), store, logger)
	quote, err := quotes.CreateQuote(ctx, "Riverside Substation")
	if err != nil {
		fmt.Printf("Quote failed: %v\n", err)
		return
	}
	if _, err := quotes.AddConfiguration(ctx, quote.ID, session, 4); err != nil {
		fmt.Printf("Quote line failed: %v\n", err)
		return
	}
	if err := quotes.SetStatus(ctx, quote.ID, entities.QuotePendingApproval); err != nil {
		fmt.Printf("Submit failed: %v\n", err)
		return
	}

	quote, _ = quotes.GetQuote(ctx, quote.ID)
	fmt.Println()
	_ = output.QuoteSummary(os.Stdout, quotes.Summarize(quote), output.FormatText)
}
