package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vsinha/cpq/pkg/application/services"
	"github.com/vsinha/cpq/pkg/domain/entities"
	"github.com/vsinha/cpq/pkg/infrastructure/events"
	"github.com/vsinha/cpq/pkg/interfaces/cli/output"
)

// cardSelection is one --card flag value, ID[@slot]
type cardSelection struct {
	ID   entities.CardID
	Slot int
}

func parseCardSelection(s string) (cardSelection, error) {
	id, slotStr, hasSlot := strings.Cut(strings.TrimSpace(s), "@")
	if id == "" {
		return cardSelection{}, fmt.Errorf("invalid card %q (expected ID or ID@SLOT)", s)
	}
	sel := cardSelection{ID: entities.CardID(id)}
	if hasSlot {
		slot, err := strconv.Atoi(slotStr)
		if err != nil || slot < 1 {
			return cardSelection{}, fmt.Errorf("invalid slot in %q", s)
		}
		sel.Slot = slot
	}
	return sel, nil
}

func configureCmd(app *App) *cobra.Command {
	var (
		chassis  string
		cards    []string
		standard bool
		format   string
		trace    bool
		quoteID  string
		qty      int
	)

	cmd := &cobra.Command{
		Use:   "configure",
		Short: "Place cards in a chassis and print the part number",
		Example: `  cpq configure --chassis STX --standard --card BUSH --card AI8@2
  cpq configure --chassis 14-card --card FIB --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := output.ValidateFormat(format); err != nil {
				return err
			}
			selections := make([]cardSelection, 0, len(cards))
			for _, c := range cards {
				sel, err := parseCardSelection(c)
				if err != nil {
					return err
				}
				selections = append(selections, sel)
			}

			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			session, err := services.NewConfigurationSession(ctx, services.SessionDeps{
				Catalog: app.Catalog,
				Events:  app.Events,
				Logger:  app.Logger,
			}, chassis)
			if err != nil {
				return err
			}

			if trace {
				_ = app.Events.Subscribe([]string{events.WildcardType}, &events.HandlerFunc{
					Fn: func(e events.Event) error {
						output.Event(cmd.ErrOrStderr(), e)
						return nil
					},
				})
			}

			if standard || app.Config.Catalog.ApplyStandardCards {
				if _, err := session.ApplyStandardCards(ctx); err != nil {
					return err
				}
			}
			for _, sel := range selections {
				if _, err := session.Add(ctx, sel.ID, sel.Slot); err != nil {
					return fmt.Errorf("cannot add %s: %w", sel.ID, err)
				}
			}

			if err := output.Configuration(out, session.Result(), session.Chassis(), format); err != nil {
				return err
			}

			if quoteID != "" {
				line, err := app.Quotes.AddConfiguration(ctx, entities.QuoteID(quoteID), session, qty)
				if err != nil {
					return err
				}
				if format == output.FormatText {
					fmt.Fprintf(out, "\nAdded line %d to quote %s\n", line.LineNumber, quoteID)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&chassis, "chassis", "", "Chassis type (LTX, MTX, STX or a legacy alias such as 14-card)")
	cmd.Flags().StringArrayVar(&cards, "card", nil, "Card to add as ID or ID@SLOT; repeatable, applied in order")
	cmd.Flags().BoolVar(&standard, "standard", false, "Include standard cards before the listed ones")
	cmd.Flags().StringVar(&format, "format", output.FormatText, "Output format: text, json")
	cmd.Flags().BoolVar(&trace, "trace", false, "Print configuration events to stderr")
	cmd.Flags().StringVar(&quoteID, "quote", "", "Add the configuration to this draft quote")
	cmd.Flags().IntVar(&qty, "qty", 1, "Quantity for the quote line")
	_ = cmd.MarkFlagRequired("chassis")

	return cmd
}
