package entities

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// ChassisTypeID identifies a canonical chassis type such as LTX, MTX or STX
type ChassisTypeID string

// CardClass groups cards that share multi-slot placement rules (e.g. bushing)
type CardClass string

const (
	// BushingClass is the two-slot card class with chassis-specific placements
	BushingClass CardClass = "bushing"
)

// SlotPair is one allowed placement for a two-slot card
type SlotPair struct {
	First  int
	Second int
}

// Slots returns both slots of the pair in placement order
func (p SlotPair) Slots() []int {
	return []int{p.First, p.Second}
}

func (p SlotPair) String() string {
	return fmt.Sprintf("[%d,%d]", p.First, p.Second)
}

// ChassisType describes the physical slot layout of a Level 2 chassis.
// Slots are numbered from 1 to TotalSlots.
type ChassisType struct {
	ID             ChassisTypeID
	Description    string
	TotalSlots     int
	ReservedSlots  []int
	MultiSlotPairs map[CardClass][]SlotPair
	Price          decimal.Decimal
	Cost           decimal.Decimal
}

// NewChassisType creates a validated ChassisType
func NewChassisType(id ChassisTypeID, totalSlots int, reserved []int, pairs map[CardClass][]SlotPair) (*ChassisType, error) {
	if id == "" {
		return nil, fmt.Errorf("chassis type id cannot be empty")
	}
	if totalSlots <= 0 {
		return nil, fmt.Errorf("total slots must be positive, got %d", totalSlots)
	}

	c := &ChassisType{
		ID:             id,
		TotalSlots:     totalSlots,
		ReservedSlots:  append([]int(nil), reserved...),
		MultiSlotPairs: make(map[CardClass][]SlotPair, len(pairs)),
		Price:          decimal.Zero,
		Cost:           decimal.Zero,
	}
	sort.Ints(c.ReservedSlots)

	for _, slot := range c.ReservedSlots {
		if !c.InRange(slot) {
			return nil, fmt.Errorf("chassis %s: reserved slot %d outside 1..%d", id, slot, totalSlots)
		}
	}

	for class, classPairs := range pairs {
		for _, pair := range classPairs {
			if err := c.validatePair(pair); err != nil {
				return nil, fmt.Errorf("chassis %s, class %s: %w", id, class, err)
			}
		}
		c.MultiSlotPairs[class] = append([]SlotPair(nil), classPairs...)
	}

	return c, nil
}

func (c *ChassisType) validatePair(pair SlotPair) error {
	if pair.First == pair.Second {
		return fmt.Errorf("pair %s uses the same slot twice", pair)
	}
	for _, slot := range pair.Slots() {
		if !c.InRange(slot) {
			return fmt.Errorf("pair %s: slot %d outside 1..%d", pair, slot, c.TotalSlots)
		}
		if c.IsReserved(slot) {
			return fmt.Errorf("pair %s: slot %d is reserved", pair, slot)
		}
	}
	return nil
}

// InRange reports whether slot is a physical slot of this chassis
func (c *ChassisType) InRange(slot int) bool {
	return slot >= 1 && slot <= c.TotalSlots
}

// IsReserved reports whether slot can never hold a card
func (c *ChassisType) IsReserved(slot int) bool {
	for _, r := range c.ReservedSlots {
		if r == slot {
			return true
		}
	}
	return false
}

// PairsFor returns the placement pairs for a card class in priority order
func (c *ChassisType) PairsFor(class CardClass) []SlotPair {
	return c.MultiSlotPairs[class]
}
