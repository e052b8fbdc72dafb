package sqlite_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/vsinha/cpq/pkg/domain/entities"
	"github.com/vsinha/cpq/pkg/domain/repositories"
	"github.com/vsinha/cpq/pkg/infrastructure/repositories/sqlite"
)

func TestCatalogRepository_ChassisRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewCatalogRepository(db)
	ctx := context.Background()

	chassis, err := entities.NewChassisType("LTX", 14, []int{1}, map[entities.CardClass][]entities.SlotPair{
		entities.BushingClass: {{First: 6, Second: 7}, {First: 13, Second: 14}},
	})
	if err != nil {
		t.Fatalf("NewChassisType failed: %v", err)
	}
	chassis.Description = "Large"
	chassis.Price = decimal.RequireFromString("1250.00")

	if err := repo.SaveChassisType(ctx, chassis); err != nil {
		t.Fatalf("SaveChassisType failed: %v", err)
	}
	// saving twice replaces, not duplicates, the pairs
	if err := repo.SaveChassisType(ctx, chassis); err != nil {
		t.Fatalf("SaveChassisType (again) failed: %v", err)
	}

	got, err := repo.GetChassisType(ctx, "LTX")
	if err != nil {
		t.Fatalf("GetChassisType failed: %v", err)
	}
	if got.TotalSlots != 14 || got.Description != "Large" || !got.IsReserved(1) {
		t.Errorf("Unexpected chassis: %+v", got)
	}
	if !got.Price.Equal(decimal.NewFromInt(1250)) {
		t.Errorf("Price = %s, want 1250", got.Price)
	}
	pairs := got.PairsFor(entities.BushingClass)
	if len(pairs) != 2 || pairs[0] != (entities.SlotPair{First: 6, Second: 7}) || pairs[1] != (entities.SlotPair{First: 13, Second: 14}) {
		t.Errorf("Pairs = %v, want [[6,7] [13,14]] in priority order", pairs)
	}

	all, err := repo.ListChassisTypes(ctx)
	if err != nil || len(all) != 1 {
		t.Errorf("ListChassisTypes = %d, %v; want 1", len(all), err)
	}

	if _, err := repo.GetChassisType(ctx, "MTX"); !errors.Is(err, repositories.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestCatalogRepository_CardRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewCatalogRepository(db)
	ctx := context.Background()

	card := &entities.CardDefinition{
		ID:             "DISP",
		Description:    "Display card",
		SlotSpan:       1,
		DesignatedOnly: true,
		AllowedSlots:   []int{1, 8},
		RemoteEnable:   true,
		Template:       "F{inputs}{opts}",
		Specification: map[string]entities.SpecValue{
			"inputs": entities.NumberSpec(6),
			"opts":   entities.ListSpec("A", "B"),
		},
		SortOrder: 3,
		Price:     decimal.RequireFromString("99.95"),
		Cost:      decimal.RequireFromString("40"),
	}
	if err := repo.SaveCardDefinition(ctx, card); err != nil {
		t.Fatalf("SaveCardDefinition failed: %v", err)
	}

	got, err := repo.GetCardDefinition(ctx, "DISP")
	if err != nil {
		t.Fatalf("GetCardDefinition failed: %v", err)
	}
	if !got.DesignatedOnly || !got.RemoteEnable || got.Standard {
		t.Errorf("Flags not round-tripped: %+v", got)
	}
	if len(got.AllowedSlots) != 2 || got.AllowedSlots[1] != 8 {
		t.Errorf("AllowedSlots = %v, want [1 8]", got.AllowedSlots)
	}
	if got.Specification["inputs"].Render() != "6" || got.Specification["opts"].Kind != entities.SpecStringList {
		t.Errorf("Specification not round-tripped: %+v", got.Specification)
	}
	if !got.Price.Equal(card.Price) {
		t.Errorf("Price = %s, want %s", got.Price, card.Price)
	}

	if _, err := repo.GetCardDefinition(ctx, "NOPE"); !errors.Is(err, repositories.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestCatalogRepository_ListCardsOrder(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewCatalogRepository(db)
	ctx := context.Background()

	for _, c := range []struct {
		id    entities.CardID
		order int
	}{{"Z", 1}, {"B", 2}, {"A", 2}} {
		card, _ := entities.NewCardDefinition(c.id, string(c.id))
		card.SortOrder = c.order
		if err := repo.SaveCardDefinition(ctx, card); err != nil {
			t.Fatalf("SaveCardDefinition failed: %v", err)
		}
	}

	cards, err := repo.ListCards(ctx)
	if err != nil {
		t.Fatalf("ListCards failed: %v", err)
	}
	var ids []entities.CardID
	for _, c := range cards {
		ids = append(ids, c.ID)
	}
	if len(ids) != 3 || ids[0] != "Z" || ids[1] != "A" || ids[2] != "B" {
		t.Errorf("ListCards order = %v, want [Z A B]", ids)
	}
}

func TestCatalogRepository_PartNumberConfig(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewCatalogRepository(db)
	ctx := context.Background()

	cfg, err := entities.NewPartNumberConfig("STX", "STX-", "0", "-", "0", "1")
	if err != nil {
		t.Fatalf("NewPartNumberConfig failed: %v", err)
	}
	cfg.OutsideOrder = entities.OutsideByCatalog
	if err := repo.SavePartNumberConfig(ctx, cfg); err != nil {
		t.Fatalf("SavePartNumberConfig failed: %v", err)
	}

	got, err := repo.GetPartNumberConfig(ctx, "STX")
	if err != nil {
		t.Fatalf("GetPartNumberConfig failed: %v", err)
	}
	if *got != *cfg {
		t.Errorf("GetPartNumberConfig = %+v, want %+v", got, cfg)
	}

	if _, err := repo.GetPartNumberConfig(ctx, "LTX"); !errors.Is(err, repositories.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}
