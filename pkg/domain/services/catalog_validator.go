package services

import (
	"fmt"

	"github.com/vsinha/cpq/pkg/domain/entities"
)

// CatalogValidator checks catalog data before it is used for configuration
type CatalogValidator struct{}

// NewCatalogValidator creates a new catalog validator
func NewCatalogValidator() *CatalogValidator {
	return &CatalogValidator{}
}

// ValidationResult contains the results of catalog validation
type ValidationResult struct {
	DuplicateCards  []entities.CardID
	OrphanedConfigs []entities.ChassisTypeID
	MissingConfigs  []entities.ChassisTypeID
	UnusableCards   []entities.CardID
	Errors          []string
}

// HasErrors reports whether validation found anything blocking
func (r *ValidationResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// ValidateCatalog checks chassis tables, cards and part-number configs together
func (v *CatalogValidator) ValidateCatalog(
	chassis []*entities.ChassisType,
	cards []*entities.CardDefinition,
	configs []*entities.PartNumberConfig,
) *ValidationResult {
	result := &ValidationResult{
		DuplicateCards:  make([]entities.CardID, 0),
		OrphanedConfigs: make([]entities.ChassisTypeID, 0),
		MissingConfigs:  make([]entities.ChassisTypeID, 0),
		UnusableCards:   make([]entities.CardID, 0),
		Errors:          make([]string, 0),
	}

	knownChassis := make(map[entities.ChassisTypeID]*entities.ChassisType, len(chassis))
	for _, c := range chassis {
		knownChassis[c.ID] = c
	}

	seen := make(map[entities.CardID]bool, len(cards))
	for _, card := range cards {
		if seen[card.ID] {
			result.DuplicateCards = append(result.DuplicateCards, card.ID)
			continue
		}
		seen[card.ID] = true

		if err := card.Validate(); err != nil {
			result.Errors = append(result.Errors, err.Error())
			continue
		}

		if card.IsMultiSlot() && !v.hasPairsForClass(chassis, card.Class) {
			result.UnusableCards = append(result.UnusableCards, card.ID)
			continue
		}
		if card.IsMultiSlot() && card.Standard && card.PinnedSlot > 0 && !v.hasPairStartingAt(chassis, card) {
			result.Errors = append(result.Errors, fmt.Sprintf(
				"card %s: pinned slot %d does not start a %s pair on any chassis", card.ID, card.PinnedSlot, card.Class))
		}
		if card.IsMultiSlot() && card.DesignatedOnly && !v.hasAllowedPair(chassis, card) {
			result.Errors = append(result.Errors, fmt.Sprintf(
				"card %s: no %s pair lies within allowed slots %v", card.ID, card.Class, card.AllowedSlots))
		}
	}

	configured := make(map[entities.ChassisTypeID]bool, len(configs))
	for _, cfg := range configs {
		configured[cfg.ChassisTypeID] = true
		c, ok := knownChassis[cfg.ChassisTypeID]
		if !ok {
			result.OrphanedConfigs = append(result.OrphanedConfigs, cfg.ChassisTypeID)
			continue
		}
		if cfg.SlotCount > c.TotalSlots {
			result.Errors = append(result.Errors, fmt.Sprintf(
				"part number config for %s renders %d slots, chassis has %d", c.ID, cfg.SlotCount, c.TotalSlots))
		}
	}

	for _, c := range chassis {
		if !configured[c.ID] {
			result.MissingConfigs = append(result.MissingConfigs, c.ID)
		}
	}

	if len(result.DuplicateCards) > 0 {
		result.Errors = append(result.Errors, fmt.Sprintf("Duplicate card ids found: %v", result.DuplicateCards))
	}
	if len(result.OrphanedConfigs) > 0 {
		result.Errors = append(result.Errors, fmt.Sprintf("Part number configs for unknown chassis: %v", result.OrphanedConfigs))
	}

	return result
}

// hasPairsForClass reports whether any chassis can seat cards of class
func (v *CatalogValidator) hasPairsForClass(chassis []*entities.ChassisType, class entities.CardClass) bool {
	for _, c := range chassis {
		if len(c.PairsFor(class)) > 0 {
			return true
		}
	}
	return false
}

func (v *CatalogValidator) hasPairStartingAt(chassis []*entities.ChassisType, card *entities.CardDefinition) bool {
	for _, c := range chassis {
		for _, pair := range c.PairsFor(card.Class) {
			if pairStart(pair) == card.PinnedSlot {
				return true
			}
		}
	}
	return false
}

func (v *CatalogValidator) hasAllowedPair(chassis []*entities.ChassisType, card *entities.CardDefinition) bool {
	for _, c := range chassis {
		for _, pair := range c.PairsFor(card.Class) {
			if card.AllowsSlot(pair.First) && card.AllowsSlot(pair.Second) {
				return true
			}
		}
	}
	return false
}
