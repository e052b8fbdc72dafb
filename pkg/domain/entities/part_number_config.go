package entities

import "fmt"

// OutsideOrder controls how outside-chassis cards are ordered in the suffix
type OutsideOrder string

const (
	// OutsideBySelection keeps the order in which the user added the cards
	OutsideBySelection OutsideOrder = "selection"
	// OutsideByCatalog sorts by catalog SortOrder, then card ID
	OutsideByCatalog OutsideOrder = "catalog"
)

// ParseOutsideOrder maps a config string to an OutsideOrder
func ParseOutsideOrder(s string) (OutsideOrder, error) {
	switch OutsideOrder(s) {
	case "", OutsideBySelection:
		return OutsideBySelection, nil
	case OutsideByCatalog:
		return OutsideByCatalog, nil
	default:
		return "", fmt.Errorf("unknown outside-chassis order %q (want selection or catalog)", s)
	}
}

// PartNumberConfig holds the per-chassis rules for rendering part numbers
type PartNumberConfig struct {
	ChassisTypeID   ChassisTypeID
	Prefix          string
	SlotPlaceholder string
	SlotCount       int // 0 = chassis TotalSlots
	SuffixSeparator string
	RemoteOffCode   string
	RemoteOnCode    string
	OutsideOrder    OutsideOrder
}

// NewPartNumberConfig creates a validated PartNumberConfig
func NewPartNumberConfig(chassisTypeID ChassisTypeID, prefix, placeholder, separator, remoteOff, remoteOn string) (*PartNumberConfig, error) {
	if chassisTypeID == "" {
		return nil, fmt.Errorf("chassis type id cannot be empty")
	}
	if placeholder == "" {
		return nil, fmt.Errorf("slot placeholder cannot be empty")
	}
	return &PartNumberConfig{
		ChassisTypeID:   chassisTypeID,
		Prefix:          prefix,
		SlotPlaceholder: placeholder,
		SuffixSeparator: separator,
		RemoteOffCode:   remoteOff,
		RemoteOnCode:    remoteOn,
		OutsideOrder:    OutsideBySelection,
	}, nil
}

// SlotsFor returns how many slot positions are rendered for the chassis
func (c *PartNumberConfig) SlotsFor(chassis *ChassisType) int {
	if c.SlotCount > 0 {
		return c.SlotCount
	}
	return chassis.TotalSlots
}
