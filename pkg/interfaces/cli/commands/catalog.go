package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vsinha/cpq/pkg/application/services"
	domain "github.com/vsinha/cpq/pkg/domain/services"
	"github.com/vsinha/cpq/pkg/infrastructure/repositories/csv"
	"github.com/vsinha/cpq/pkg/interfaces/cli/output"
)

func catalogCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage the chassis and card catalog",
	}

	importCmd := &cobra.Command{
		Use:   "import [dir]",
		Short: "Import chassis.csv, cards.csv and part_numbers.csv from a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			importer := services.NewCatalogImporter(csv.NewLoader(), app.Catalog, app.Config.OutsideOrder(), app.Logger)
			summary, err := importer.ImportDirectory(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Imported %d chassis types, %d cards, %d part number configs\n",
				summary.ChassisTypes, summary.Cards, summary.PartNumbers)
			for _, id := range summary.Validation.MissingConfigs {
				output.Warnf(out, "chassis %s has no part number config", id)
			}
			for _, id := range summary.Validation.UnusableCards {
				output.Warnf(out, "card %s cannot be placed in any chassis", id)
			}
			return nil
		},
	}

	validateCmd := &cobra.Command{
		Use:   "validate [dir]",
		Short: "Check catalog CSV files without importing them",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loader := csv.NewLoader()
			dir := args[0]

			chassis, err := loader.LoadChassisTypes(filepath.Join(dir, services.ChassisFile))
			if err != nil {
				return err
			}
			cards, err := loader.LoadCards(filepath.Join(dir, services.CardsFile))
			if err != nil {
				return err
			}
			configs, err := loader.LoadPartNumberConfigs(filepath.Join(dir, services.PartNumbersFile))
			if err != nil {
				return err
			}

			result := domain.NewCatalogValidator().ValidateCatalog(chassis, cards, configs)
			out := cmd.OutOrStdout()
			for _, msg := range result.Errors {
				output.Warnf(out, "error: %s", msg)
			}
			if result.HasErrors() {
				return fmt.Errorf("catalog has %d errors", len(result.Errors))
			}
			fmt.Fprintf(out, "Catalog OK: %d chassis types, %d cards, %d part number configs\n",
				len(chassis), len(cards), len(configs))
			return nil
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List chassis types and cards",
		RunE: func(cmd *cobra.Command, args []string) error {
			chassis, err := app.Catalog.ListChassisTypes(cmd.Context())
			if err != nil {
				return err
			}
			cards, err := app.Catalog.ListCards(cmd.Context())
			if err != nil {
				return err
			}
			return output.Catalog(cmd.OutOrStdout(), chassis, cards)
		},
	}

	cmd.AddCommand(importCmd, validateCmd, listCmd)
	return cmd
}
