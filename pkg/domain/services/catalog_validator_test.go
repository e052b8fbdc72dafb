package services

import (
	"testing"

	"github.com/vsinha/cpq/pkg/domain/entities"
)

func TestCatalogValidator_ValidCatalog(t *testing.T) {
	validator := NewCatalogValidator()
	chassis := DefaultChassisTypes()
	cards := []*entities.CardDefinition{inputCard("AI8", "A"), bushingCard("BUSH")}
	configs := []*entities.PartNumberConfig{
		{ChassisTypeID: "LTX", SlotPlaceholder: "0"},
		{ChassisTypeID: "MTX", SlotPlaceholder: "0"},
		stxConfig(),
	}

	result := validator.ValidateCatalog(chassis, cards, configs)
	if result.HasErrors() {
		t.Fatalf("Expected no errors, got %v", result.Errors)
	}
	if len(result.MissingConfigs) != 0 {
		t.Errorf("Expected no missing configs, got %v", result.MissingConfigs)
	}
}

func TestCatalogValidator_Problems(t *testing.T) {
	validator := NewCatalogValidator()
	chassis := DefaultChassisTypes()

	designated := inputCard("DISP", "P")
	designated.DesignatedOnly = true

	relay := &entities.CardDefinition{ID: "RELAY2", Class: "relay", SlotSpan: 2, Template: "R"}

	cards := []*entities.CardDefinition{
		inputCard("AI8", "A"),
		inputCard("AI8", "A"),
		designated,
		relay,
	}
	configs := []*entities.PartNumberConfig{
		{ChassisTypeID: "STX", SlotPlaceholder: "0", SlotCount: 9},
		{ChassisTypeID: "QTX", SlotPlaceholder: "0"},
	}

	result := validator.ValidateCatalog(chassis, cards, configs)

	if len(result.DuplicateCards) != 1 || result.DuplicateCards[0] != "AI8" {
		t.Errorf("Expected AI8 duplicate, got %v", result.DuplicateCards)
	}
	if len(result.UnusableCards) != 1 || result.UnusableCards[0] != "RELAY2" {
		t.Errorf("Expected RELAY2 unusable, got %v", result.UnusableCards)
	}
	if len(result.OrphanedConfigs) != 1 || result.OrphanedConfigs[0] != "QTX" {
		t.Errorf("Expected QTX orphaned, got %v", result.OrphanedConfigs)
	}
	if len(result.MissingConfigs) != 2 {
		t.Errorf("Expected LTX and MTX missing configs, got %v", result.MissingConfigs)
	}
	// designated without allow-list, slot count overflow, duplicates, orphaned
	if len(result.Errors) != 4 {
		t.Errorf("Expected 4 errors, got %d: %v", len(result.Errors), result.Errors)
	}
}

func TestCatalogValidator_MultiSlotSlotRules(t *testing.T) {
	validator := NewCatalogValidator()
	chassis := DefaultChassisTypes()
	configs := []*entities.PartNumberConfig{
		{ChassisTypeID: "LTX", SlotPlaceholder: "0"},
		{ChassisTypeID: "MTX", SlotPlaceholder: "0"},
		stxConfig(),
	}

	pinnedOnPair := bushingCard("PIN-OK")
	pinnedOnPair.Standard = true
	pinnedOnPair.PinnedSlot = 13

	pinnedOffPair := bushingCard("PIN-BAD")
	pinnedOffPair.Standard = true
	pinnedOffPair.PinnedSlot = 7

	designatedOnPair := bushingCard("DES-OK")
	designatedOnPair.DesignatedOnly = true
	designatedOnPair.AllowedSlots = []int{13, 14}

	designatedOffPair := bushingCard("DES-BAD")
	designatedOffPair.DesignatedOnly = true
	designatedOffPair.AllowedSlots = []int{5, 6}

	cards := []*entities.CardDefinition{pinnedOnPair, pinnedOffPair, designatedOnPair, designatedOffPair}
	result := validator.ValidateCatalog(chassis, cards, configs)

	expected := []string{
		"card PIN-BAD: pinned slot 7 does not start a bushing pair on any chassis",
		"card DES-BAD: no bushing pair lies within allowed slots [5 6]",
	}
	if len(result.Errors) != len(expected) {
		t.Fatalf("Expected %d errors, got %v", len(expected), result.Errors)
	}
	for i, want := range expected {
		if result.Errors[i] != want {
			t.Errorf("Error %d = %q, want %q", i, result.Errors[i], want)
		}
	}
}
