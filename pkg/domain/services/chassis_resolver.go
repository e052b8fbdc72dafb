package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/vsinha/cpq/pkg/domain/entities"
	"github.com/vsinha/cpq/pkg/domain/repositories"
)

// chassisAliases maps legacy chassis identifiers to canonical IDs.
// Keys are normalized (upper case, spaces and underscores as dashes).
var chassisAliases = map[string]entities.ChassisTypeID{
	"14-CARD": "LTX",
	"14CARD":  "LTX",
	"7-CARD":  "MTX",
	"7CARD":   "MTX",
	"4-CARD":  "STX",
	"4CARD":   "STX",
}

// NormalizeChassisType canonicalizes a raw chassis type string
func NormalizeChassisType(raw string) entities.ChassisTypeID {
	key := strings.ToUpper(strings.TrimSpace(raw))
	key = strings.NewReplacer(" ", "-", "_", "-").Replace(key)
	if canonical, ok := chassisAliases[key]; ok {
		return canonical
	}
	return entities.ChassisTypeID(key)
}

// DefaultChassisTypes returns the built-in slot tables
func DefaultChassisTypes() []*entities.ChassisType {
	defs := []struct {
		id    entities.ChassisTypeID
		desc  string
		slots int
		pairs []entities.SlotPair
	}{
		{"LTX", "Large chassis, 14 card slots", 14, []entities.SlotPair{{First: 6, Second: 7}, {First: 13, Second: 14}}},
		{"MTX", "Medium chassis, 7 card slots", 7, []entities.SlotPair{{First: 6, Second: 7}}},
		{"STX", "Small chassis, 4 card slots", 4, []entities.SlotPair{{First: 3, Second: 4}}},
	}

	chassis := make([]*entities.ChassisType, 0, len(defs))
	for _, d := range defs {
		c, err := entities.NewChassisType(d.id, d.slots, nil, map[entities.CardClass][]entities.SlotPair{
			entities.BushingClass: d.pairs,
		})
		if err != nil {
			panic(fmt.Sprintf("invalid built-in chassis table: %v", err))
		}
		c.Description = d.desc
		chassis = append(chassis, c)
	}
	return chassis
}

// ChassisResolver resolves raw chassis type strings to slot tables
type ChassisResolver struct {
	table map[entities.ChassisTypeID]*entities.ChassisType
}

// NewChassisResolver builds a resolver over the given chassis types
func NewChassisResolver(chassis ...*entities.ChassisType) *ChassisResolver {
	r := &ChassisResolver{table: make(map[entities.ChassisTypeID]*entities.ChassisType, len(chassis))}
	for _, c := range chassis {
		r.table[NormalizeChassisType(string(c.ID))] = c
	}
	return r
}

// NewDefaultChassisResolver returns a resolver over the built-in tables
func NewDefaultChassisResolver() *ChassisResolver {
	return NewChassisResolver(DefaultChassisTypes()...)
}

// NewChassisResolverFromCatalog builds a resolver from catalog chassis records
func NewChassisResolverFromCatalog(ctx context.Context, catalog repositories.CatalogRepository) (*ChassisResolver, error) {
	chassis, err := catalog.ListChassisTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list chassis types: %w", err)
	}
	return NewChassisResolver(chassis...), nil
}

// ResolveChassisConfig returns the chassis for raw, or a ChassisTypeUnresolved
// PlacementError when the type is unknown.
func (r *ChassisResolver) ResolveChassisConfig(raw string) (*entities.ChassisType, error) {
	id := NormalizeChassisType(raw)
	if c, ok := r.table[id]; ok {
		return c, nil
	}
	return nil, &entities.PlacementError{
		Kind:    entities.ChassisTypeUnresolved,
		Chassis: id,
		Message: fmt.Sprintf("unsupported chassis type %q (known: %v)", raw, r.Known()),
	}
}

// Known returns the canonical IDs the resolver knows, sorted
func (r *ChassisResolver) Known() []entities.ChassisTypeID {
	ids := make([]entities.ChassisTypeID, 0, len(r.table))
	for id := range r.table {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
