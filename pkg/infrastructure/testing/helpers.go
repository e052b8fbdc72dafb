package testing

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/vsinha/cpq/pkg/domain/entities"
	"github.com/vsinha/cpq/pkg/domain/services"
	"github.com/vsinha/cpq/pkg/infrastructure/repositories/memory"
)

// BuildDemoCatalog builds a small monitoring-equipment catalog covering the
// three built-in chassis, pinned and designated-only cards, bushings, a
// remote interface and outside-chassis accessories.
func BuildDemoCatalog() *memory.CatalogRepository {
	ctx := context.Background()
	repo := memory.NewCatalogRepository(16)

	prices := map[entities.ChassisTypeID][2]string{
		"LTX": {"1200", "700"},
		"MTX": {"800", "450"},
		"STX": {"400", "200"},
	}
	for _, c := range services.DefaultChassisTypes() {
		c.Price = decimal.RequireFromString(prices[c.ID][0])
		c.Cost = decimal.RequireFromString(prices[c.ID][1])
		mustSave(repo.SaveChassisType(ctx, c))

		cfg, err := entities.NewPartNumberConfig(c.ID, string(c.ID)+"-", "0", "-", "0", "R")
		mustSave(err)
		mustSave(repo.SavePartNumberConfig(ctx, cfg))
	}

	for _, card := range DemoCards() {
		mustSave(repo.SaveCardDefinition(ctx, card))
	}
	return repo
}

// DemoCards returns the card definitions used by BuildDemoCatalog
func DemoCards() []*entities.CardDefinition {
	return []*entities.CardDefinition{
		{
			ID:          "CPU",
			Description: "Processor module",
			SlotSpan:    1,
			Standard:    true,
			PinnedSlot:  1,
			Template:    "C",
			SortOrder:   1,
			Price:       decimal.NewFromInt(500),
			Cost:        decimal.NewFromInt(300),
		},
		{
			ID:          "AI8",
			Description: "Analog input, 8 channels",
			SlotSpan:    1,
			Template:    "A",
			SortOrder:   10,
			Price:       decimal.NewFromInt(250),
			Cost:        decimal.NewFromInt(120),
		},
		{
			ID:          "DI16",
			Description: "Digital input, 16 channels",
			SlotSpan:    1,
			Template:    "D",
			SortOrder:   11,
			Price:       decimal.NewFromInt(180),
			Cost:        decimal.NewFromInt(80),
		},
		{
			ID:             "FIB",
			Description:    "Fiber optic temperature input",
			SlotSpan:       1,
			DesignatedOnly: true,
			AllowedSlots:   []int{2},
			Template:       "F{inputs}",
			Specification:  map[string]entities.SpecValue{"inputs": entities.NumberSpec(6)},
			SortOrder:      12,
			Price:          decimal.NewFromInt(900),
			Cost:           decimal.NewFromInt(520),
		},
		{
			ID:           "RIF",
			Description:  "Remote communications interface",
			SlotSpan:     1,
			RemoteEnable: true,
			Template:     "M",
			SortOrder:    20,
			Price:        decimal.NewFromInt(220),
			Cost:         decimal.NewFromInt(100),
		},
		{
			ID:          "BUSH",
			Description: "Bushing monitor",
			Class:       entities.BushingClass,
			SlotSpan:    2,
			Template:    "B",
			SortOrder:   30,
			Price:       decimal.NewFromInt(300),
			Cost:        decimal.NewFromInt(150),
		},
		{
			ID:          "BUSH-HV",
			Description: "High-voltage bushing monitor",
			Class:       entities.BushingClass,
			SlotSpan:    2,
			Template:    "H",
			SortOrder:   31,
			Price:       decimal.NewFromInt(420),
			Cost:        decimal.NewFromInt(210),
		},
		{
			ID:             "PSU",
			Description:    "External power supply",
			SlotSpan:       1,
			OutsideChassis: true,
			Template:       "P{watts}",
			Specification:  map[string]entities.SpecValue{"watts": entities.NumberSpec(48)},
			SortOrder:      41,
			Price:          decimal.NewFromInt(150),
			Cost:           decimal.NewFromInt(70),
		},
		{
			ID:             "RACK",
			Description:    "19 inch rack kit",
			SlotSpan:       1,
			OutsideChassis: true,
			Template:       "K",
			SortOrder:      40,
			Price:          decimal.NewFromInt(60),
			Cost:           decimal.NewFromInt(25),
		},
	}
}

func mustSave(err error) {
	if err != nil {
		panic(err)
	}
}
