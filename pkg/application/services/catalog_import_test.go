package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/cpq/pkg/domain/entities"
	domain "github.com/vsinha/cpq/pkg/domain/services"
	"github.com/vsinha/cpq/pkg/infrastructure/repositories/memory"
	testhelpers "github.com/vsinha/cpq/pkg/infrastructure/testing"
)

type stubSource struct {
	chassis []*entities.ChassisType
	cards   []*entities.CardDefinition
	configs []*entities.PartNumberConfig
	err     error
}

func (s *stubSource) LoadChassisTypes(string) ([]*entities.ChassisType, error) {
	return s.chassis, s.err
}

func (s *stubSource) LoadCards(string) ([]*entities.CardDefinition, error) {
	return s.cards, nil
}

func (s *stubSource) LoadPartNumberConfigs(string) ([]*entities.PartNumberConfig, error) {
	return s.configs, nil
}

func stxImportConfig(order entities.OutsideOrder) *entities.PartNumberConfig {
	cfg, _ := entities.NewPartNumberConfig("STX", "STX-", "0", "-", "0", "R")
	cfg.OutsideOrder = order
	return cfg
}

func TestCatalogImporter_ImportDirectory(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewCatalogRepository(8)
	source := &stubSource{
		chassis: domain.DefaultChassisTypes()[2:],
		cards:   testhelpers.DemoCards(),
		configs: []*entities.PartNumberConfig{stxImportConfig("")},
	}

	summary, err := NewCatalogImporter(source, repo, entities.OutsideByCatalog, nil).ImportDirectory(ctx, "catalog")
	require.NoError(t, err)
	assert.Equal(t, 1, summary.ChassisTypes)
	assert.Equal(t, len(testhelpers.DemoCards()), summary.Cards)
	assert.Equal(t, 1, summary.PartNumbers)

	cfg, err := repo.GetPartNumberConfig(ctx, "STX")
	require.NoError(t, err)
	assert.Equal(t, entities.OutsideByCatalog, cfg.OutsideOrder, "blank order takes the importer default")

	card, err := repo.GetCardDefinition(ctx, "BUSH")
	require.NoError(t, err)
	assert.True(t, card.IsMultiSlot())
}

func TestCatalogImporter_ExplicitOrderKept(t *testing.T) {
	repo := memory.NewCatalogRepository(8)
	source := &stubSource{
		chassis: domain.DefaultChassisTypes()[2:],
		configs: []*entities.PartNumberConfig{stxImportConfig(entities.OutsideBySelection)},
	}

	_, err := NewCatalogImporter(source, repo, entities.OutsideByCatalog, nil).ImportDirectory(context.Background(), "catalog")
	require.NoError(t, err)

	cfg, _ := repo.GetPartNumberConfig(context.Background(), "STX")
	assert.Equal(t, entities.OutsideBySelection, cfg.OutsideOrder)
}

func TestCatalogImporter_ValidationBlocksWrites(t *testing.T) {
	repo := memory.NewCatalogRepository(8)
	cards := testhelpers.DemoCards()
	source := &stubSource{
		chassis: domain.DefaultChassisTypes()[2:],
		cards:   append(cards, cards[0]),
		configs: []*entities.PartNumberConfig{stxImportConfig("")},
	}

	summary, err := NewCatalogImporter(source, repo, "", nil).ImportDirectory(context.Background(), "catalog")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Duplicate card ids")
	assert.Equal(t, []entities.CardID{"CPU"}, summary.Validation.DuplicateCards)

	chassis, _ := repo.ListChassisTypes(context.Background())
	assert.Empty(t, chassis)
}

func TestCatalogImporter_LoadError(t *testing.T) {
	source := &stubSource{err: errors.New("disk on fire")}
	_, err := NewCatalogImporter(source, memory.NewCatalogRepository(0), "", nil).ImportDirectory(context.Background(), "x")
	assert.ErrorContains(t, err, "failed to load chassis types")
}
