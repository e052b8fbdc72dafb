package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/vsinha/cpq/pkg/domain/entities"
	"github.com/vsinha/cpq/pkg/interfaces/cli/output"
)

func quoteCmd(app *App) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Create and manage customer quotes",
	}
	cmd.PersistentFlags().StringVar(&format, "format", output.FormatText, "Output format: text, json")

	createCmd := &cobra.Command{
		Use:   "create [customer]",
		Short: "Create a draft quote",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			quote, err := app.Quotes.CreateQuote(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			return output.QuoteSummary(cmd.OutOrStdout(), app.Quotes.Summarize(quote), format)
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List quotes, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			quotes, err := app.Quotes.ListQuotes(cmd.Context())
			if err != nil {
				return err
			}
			return output.Quotes(cmd.OutOrStdout(), quotes, format)
		},
	}

	showCmd := &cobra.Command{
		Use:   "show [quote-id]",
		Short: "Show a quote with totals and margin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			quote, err := app.Quotes.GetQuote(cmd.Context(), entities.QuoteID(args[0]))
			if err != nil {
				return err
			}
			return output.QuoteSummary(cmd.OutOrStdout(), app.Quotes.Summarize(quote), format)
		},
	}

	statusCmd := &cobra.Command{
		Use:   "status [quote-id] [draft|pending_approval|approved|rejected]",
		Short: "Move a quote through the approval workflow",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := entities.ParseQuoteStatus(args[1])
			if err != nil {
				return err
			}
			id := entities.QuoteID(args[0])
			if err := app.Quotes.SetStatus(cmd.Context(), id, status); err != nil {
				return err
			}
			quote, err := app.Quotes.GetQuote(cmd.Context(), id)
			if err != nil {
				return err
			}
			return output.QuoteSummary(cmd.OutOrStdout(), app.Quotes.Summarize(quote), format)
		},
	}

	cmd.AddCommand(createCmd, listCmd, showCmd, statusCmd)
	return cmd
}
