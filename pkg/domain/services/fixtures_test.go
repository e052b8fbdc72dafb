package services

import (
	"testing"

	"github.com/vsinha/cpq/pkg/domain/entities"
)

func mustChassis(t *testing.T, raw string) *entities.ChassisType {
	t.Helper()
	c, err := NewDefaultChassisResolver().ResolveChassisConfig(raw)
	if err != nil {
		t.Fatalf("resolve %s: %v", raw, err)
	}
	return c
}

func inputCard(id entities.CardID, template string) *entities.CardDefinition {
	return &entities.CardDefinition{
		ID:            id,
		SlotSpan:      1,
		Template:      template,
		Specification: map[string]entities.SpecValue{},
	}
}

func bushingCard(id entities.CardID) *entities.CardDefinition {
	return &entities.CardDefinition{
		ID:       id,
		Class:    entities.BushingClass,
		SlotSpan: 2,
		Template: "B",
	}
}

func stxConfig() *entities.PartNumberConfig {
	return &entities.PartNumberConfig{
		ChassisTypeID:   "STX",
		Prefix:          "STX-",
		SlotPlaceholder: "0",
		SuffixSeparator: "-",
		RemoteOffCode:   "0",
		RemoteOnCode:    "R",
		OutsideOrder:    entities.OutsideBySelection,
	}
}

// fill places a distinct single-slot card on each given slot
func fill(t *testing.T, engine *SlotEngine, chassis *entities.ChassisType, a entities.SlotAssignment, slots ...int) entities.SlotAssignment {
	t.Helper()
	for _, slot := range slots {
		card := inputCard(entities.CardID("IN"+string(rune('A'+slot))), "I")
		next, err := engine.PlaceCard(chassis, a, card, slot)
		if err != nil {
			t.Fatalf("fill slot %d: %v", slot, err)
		}
		a = next
	}
	return a
}

func cardAt(a entities.SlotAssignment, slot int) entities.CardID {
	p, ok := a.At(slot)
	if !ok {
		return ""
	}
	return p.Card.ID
}
