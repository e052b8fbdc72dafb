package entities

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// CardID identifies a Level 3 card in the catalog
type CardID string

// SpecKind is the kind of value held in a card specification entry
type SpecKind int

const (
	SpecNumber SpecKind = iota
	SpecString
	SpecStringList
)

// String method for SpecKind enum
func (k SpecKind) String() string {
	switch k {
	case SpecNumber:
		return "number"
	case SpecString:
		return "string"
	case SpecStringList:
		return "list"
	default:
		return "unknown"
	}
}

// SpecValue is one attribute of a card's Level 4 configuration.
// Numbers parsed from catalog text keep that text in Text, and it is what
// Render and Raw return, so codes such as "08" survive unchanged.
type SpecValue struct {
	Kind   SpecKind
	Number decimal.Decimal
	Text   string
	List   []string
}

// NumberSpec builds a numeric specification value
func NumberSpec(n int64) SpecValue {
	return SpecValue{Kind: SpecNumber, Number: decimal.NewFromInt(n)}
}

// DecimalSpec builds a numeric specification value from a decimal
func DecimalSpec(d decimal.Decimal) SpecValue {
	return SpecValue{Kind: SpecNumber, Number: d}
}

// StringSpec builds a string specification value
func StringSpec(s string) SpecValue {
	return SpecValue{Kind: SpecString, Text: s}
}

// ListSpec builds a string-list specification value
func ListSpec(items ...string) SpecValue {
	return SpecValue{Kind: SpecStringList, List: append([]string(nil), items...)}
}

// ParseSpecValue interprets a raw catalog value: numbers become SpecNumber,
// "a|b|c" becomes SpecStringList, anything else SpecString.
func ParseSpecValue(raw string) SpecValue {
	raw = strings.TrimSpace(raw)
	if d, err := decimal.NewFromString(raw); err == nil {
		return SpecValue{Kind: SpecNumber, Number: d, Text: raw}
	}
	if strings.Contains(raw, "|") {
		return ListSpec(strings.Split(raw, "|")...)
	}
	return StringSpec(raw)
}

// Render returns the text substituted into part-number templates
func (v SpecValue) Render() string {
	switch v.Kind {
	case SpecNumber:
		if v.Text != "" {
			return v.Text
		}
		return v.Number.String()
	case SpecString:
		return v.Text
	case SpecStringList:
		return strings.Join(v.List, "")
	default:
		return ""
	}
}

// Raw returns the catalog storage form accepted by ParseSpecValue
func (v SpecValue) Raw() string {
	if v.Kind == SpecStringList {
		return strings.Join(v.List, "|")
	}
	return v.Render()
}

// CardDefinition is a placeable catalog card
type CardDefinition struct {
	ID             CardID
	Description    string
	Class          CardClass
	SlotSpan       int
	Standard       bool
	PinnedSlot     int // 0 = not pinned
	DesignatedOnly bool
	AllowedSlots   []int
	OutsideChassis bool
	RemoteEnable   bool
	Template       string
	Specification  map[string]SpecValue
	SortOrder      int
	Price          decimal.Decimal
	Cost           decimal.Decimal
}

// NewCardDefinition creates a validated single-slot CardDefinition
func NewCardDefinition(id CardID, template string) (*CardDefinition, error) {
	if id == "" {
		return nil, fmt.Errorf("card id cannot be empty")
	}
	return &CardDefinition{
		ID:            id,
		SlotSpan:      1,
		Template:      template,
		Specification: make(map[string]SpecValue),
		Price:         decimal.Zero,
		Cost:          decimal.Zero,
	}, nil
}

// Validate checks the card's slot rules for internal consistency
func (c *CardDefinition) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("card id cannot be empty")
	}
	if c.SlotSpan < 1 || c.SlotSpan > 2 {
		return fmt.Errorf("card %s: slot span must be 1 or 2, got %d", c.ID, c.SlotSpan)
	}
	if c.SlotSpan > 1 && c.Class == "" {
		return fmt.Errorf("card %s: multi-slot card needs a class", c.ID)
	}
	if c.DesignatedOnly && len(c.AllowedSlots) == 0 {
		return fmt.Errorf("card %s: designated-only card needs allowed slots", c.ID)
	}
	if c.PinnedSlot < 0 {
		return fmt.Errorf("card %s: pinned slot cannot be negative", c.ID)
	}
	if c.PinnedSlot > 0 && c.DesignatedOnly && !c.AllowsSlot(c.PinnedSlot) {
		return fmt.Errorf("card %s: pinned slot %d not in allowed slots %v", c.ID, c.PinnedSlot, c.AllowedSlots)
	}
	if c.OutsideChassis && (c.PinnedSlot > 0 || c.SlotSpan > 1) {
		return fmt.Errorf("card %s: outside-chassis card cannot occupy slots", c.ID)
	}
	return nil
}

// Span returns the number of slots the card occupies, defaulting to 1
func (c *CardDefinition) Span() int {
	if c.SlotSpan < 1 {
		return 1
	}
	return c.SlotSpan
}

// IsMultiSlot reports whether the card needs the pair placement rules
func (c *CardDefinition) IsMultiSlot() bool {
	return c.Span() > 1
}

// AllowsSlot reports whether slot is in the card's allow-list
func (c *CardDefinition) AllowsSlot(slot int) bool {
	for _, s := range c.AllowedSlots {
		if s == slot {
			return true
		}
	}
	return false
}

// Spec looks up a specification attribute by exact key
func (c *CardDefinition) Spec(key string) (SpecValue, bool) {
	v, ok := c.Specification[key]
	return v, ok
}
