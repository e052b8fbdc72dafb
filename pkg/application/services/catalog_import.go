package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/vsinha/cpq/pkg/domain/entities"
	"github.com/vsinha/cpq/pkg/domain/repositories"
	domain "github.com/vsinha/cpq/pkg/domain/services"
)

// Catalog file names inside an import directory
const (
	ChassisFile     = "chassis.csv"
	CardsFile       = "cards.csv"
	PartNumbersFile = "part_numbers.csv"
)

// CatalogSource reads catalog records from files
type CatalogSource interface {
	LoadChassisTypes(filename string) ([]*entities.ChassisType, error)
	LoadCards(filename string) ([]*entities.CardDefinition, error)
	LoadPartNumberConfigs(filename string) ([]*entities.PartNumberConfig, error)
}

// ImportSummary reports what an import wrote
type ImportSummary struct {
	ChassisTypes int
	Cards        int
	PartNumbers  int
	Validation   *domain.ValidationResult
}

// CatalogImporter validates catalog files and writes them to a repository
type CatalogImporter struct {
	source       CatalogSource
	writer       repositories.CatalogWriter
	validator    *domain.CatalogValidator
	outsideOrder entities.OutsideOrder
	logger       *zap.Logger
}

// NewCatalogImporter creates an importer. outsideOrder is applied to
// part-number configs that leave it blank.
func NewCatalogImporter(
	source CatalogSource,
	writer repositories.CatalogWriter,
	outsideOrder entities.OutsideOrder,
	logger *zap.Logger,
) *CatalogImporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	if outsideOrder == "" {
		outsideOrder = entities.OutsideBySelection
	}
	return &CatalogImporter{
		source:       source,
		writer:       writer,
		validator:    domain.NewCatalogValidator(),
		outsideOrder: outsideOrder,
		logger:       logger,
	}
}

// ImportDirectory loads chassis.csv, cards.csv and part_numbers.csv from dir.
// Nothing is written when validation reports errors.
func (i *CatalogImporter) ImportDirectory(ctx context.Context, dir string) (*ImportSummary, error) {
	chassis, err := i.source.LoadChassisTypes(filepath.Join(dir, ChassisFile))
	if err != nil {
		return nil, fmt.Errorf("failed to load chassis types: %w", err)
	}
	cards, err := i.source.LoadCards(filepath.Join(dir, CardsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to load cards: %w", err)
	}
	configs, err := i.source.LoadPartNumberConfigs(filepath.Join(dir, PartNumbersFile))
	if err != nil {
		return nil, fmt.Errorf("failed to load part number configs: %w", err)
	}

	return i.Import(ctx, chassis, cards, configs)
}

// Import validates the records together and saves them
func (i *CatalogImporter) Import(
	ctx context.Context,
	chassis []*entities.ChassisType,
	cards []*entities.CardDefinition,
	configs []*entities.PartNumberConfig,
) (*ImportSummary, error) {
	for _, cfg := range configs {
		if cfg.OutsideOrder == "" {
			cfg.OutsideOrder = i.outsideOrder
		}
	}

	result := i.validator.ValidateCatalog(chassis, cards, configs)
	summary := &ImportSummary{Validation: result}
	if result.HasErrors() {
		return summary, fmt.Errorf("catalog validation failed: %s", strings.Join(result.Errors, "; "))
	}
	for _, id := range result.MissingConfigs {
		i.logger.Warn("chassis has no part number config", zap.String("chassis", string(id)))
	}
	for _, id := range result.UnusableCards {
		i.logger.Warn("multi-slot card has no chassis pairs", zap.String("card", string(id)))
	}

	for _, c := range chassis {
		if err := i.writer.SaveChassisType(ctx, c); err != nil {
			return summary, fmt.Errorf("failed to save chassis %s: %w", c.ID, err)
		}
		summary.ChassisTypes++
	}
	for _, card := range cards {
		if err := i.writer.SaveCardDefinition(ctx, card); err != nil {
			return summary, fmt.Errorf("failed to save card %s: %w", card.ID, err)
		}
		summary.Cards++
	}
	for _, cfg := range configs {
		if err := i.writer.SavePartNumberConfig(ctx, cfg); err != nil {
			return summary, fmt.Errorf("failed to save part number config %s: %w", cfg.ChassisTypeID, err)
		}
		summary.PartNumbers++
	}

	i.logger.Info("catalog imported",
		zap.Int("chassis", summary.ChassisTypes),
		zap.Int("cards", summary.Cards),
		zap.Int("part_numbers", summary.PartNumbers),
	)
	return summary, nil
}
