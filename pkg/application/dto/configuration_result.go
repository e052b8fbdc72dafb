package dto

import (
	"github.com/shopspring/decimal"

	"github.com/vsinha/cpq/pkg/domain/entities"
)

// PlacedCard is one card seated in the chassis
type PlacedCard struct {
	CardID      entities.CardID `json:"card_id"`
	Description string          `json:"description,omitempty"`
	Slots       []int           `json:"slots"`
}

// UnresolvedPlaceholder reports a template key the card's specification lacks
type UnresolvedPlaceholder struct {
	CardID entities.CardID `json:"card_id"`
	Key    string          `json:"key"`
}

// ConfigurationResult is the externally visible state of a configuration
type ConfigurationResult struct {
	SessionID     string                  `json:"session_id"`
	ChassisTypeID entities.ChassisTypeID  `json:"chassis_type_id"`
	PartNumber    string                  `json:"part_number"`
	Placed        []PlacedCard            `json:"placed"`
	Outside       []entities.CardID       `json:"outside,omitempty"`
	FreeSlots     []int                   `json:"free_slots"`
	Unresolved    []UnresolvedPlaceholder `json:"unresolved,omitempty"`
	Price         decimal.Decimal         `json:"price"`
	Cost          decimal.Decimal         `json:"cost"`
}

// CardIDs returns every selected card, slotted first in slot order
func (r *ConfigurationResult) CardIDs() []entities.CardID {
	ids := make([]entities.CardID, 0, len(r.Placed)+len(r.Outside))
	for _, p := range r.Placed {
		ids = append(ids, p.CardID)
	}
	return append(ids, r.Outside...)
}
