package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/vsinha/cpq/pkg/domain/entities"
	"github.com/vsinha/cpq/pkg/domain/repositories"
)

// CatalogRepository provides in-memory catalog storage
type CatalogRepository struct {
	mu         sync.RWMutex
	chassis    map[entities.ChassisTypeID]*entities.ChassisType
	cards      []*entities.CardDefinition
	cardsMap   map[entities.CardID]int
	partConfig map[entities.ChassisTypeID]*entities.PartNumberConfig
}

// NewCatalogRepository creates a new in-memory catalog repository
func NewCatalogRepository(expectedCards int) *CatalogRepository {
	return &CatalogRepository{
		chassis:    make(map[entities.ChassisTypeID]*entities.ChassisType),
		cards:      make([]*entities.CardDefinition, 0, expectedCards),
		cardsMap:   make(map[entities.CardID]int, expectedCards),
		partConfig: make(map[entities.ChassisTypeID]*entities.PartNumberConfig),
	}
}

// Verify interface compliance
var _ repositories.CatalogRepository = (*CatalogRepository)(nil)
var _ repositories.CatalogWriter = (*CatalogRepository)(nil)

// SaveChassisType adds or replaces a chassis type
func (r *CatalogRepository) SaveChassisType(_ context.Context, chassis *entities.ChassisType) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.chassis[chassis.ID] = chassis
	return nil
}

// SaveCardDefinition adds or replaces a card, keeping insertion order
func (r *CatalogRepository) SaveCardDefinition(_ context.Context, card *entities.CardDefinition) error {
	if err := card.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if index, exists := r.cardsMap[card.ID]; exists {
		r.cards[index] = card
		return nil
	}
	r.cardsMap[card.ID] = len(r.cards)
	r.cards = append(r.cards, card)
	return nil
}

// SavePartNumberConfig adds or replaces the part-number config of a chassis
func (r *CatalogRepository) SavePartNumberConfig(_ context.Context, config *entities.PartNumberConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.partConfig[config.ChassisTypeID] = config
	return nil
}

// GetChassisType returns a chassis type by canonical ID
func (r *CatalogRepository) GetChassisType(_ context.Context, id entities.ChassisTypeID) (*entities.ChassisType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, exists := r.chassis[id]
	if !exists {
		return nil, fmt.Errorf("chassis type %s: %w", id, repositories.ErrNotFound)
	}
	return c, nil
}

// GetCardDefinition returns a card by ID
func (r *CatalogRepository) GetCardDefinition(_ context.Context, id entities.CardID) (*entities.CardDefinition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	index, exists := r.cardsMap[id]
	if !exists {
		return nil, fmt.Errorf("card %s: %w", id, repositories.ErrNotFound)
	}
	return r.cards[index], nil
}

// GetPartNumberConfig returns the part-number config for a chassis type
func (r *CatalogRepository) GetPartNumberConfig(_ context.Context, chassisTypeID entities.ChassisTypeID) (*entities.PartNumberConfig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cfg, exists := r.partConfig[chassisTypeID]
	if !exists {
		return nil, fmt.Errorf("part number config for %s: %w", chassisTypeID, repositories.ErrNotFound)
	}
	return cfg, nil
}

// ListChassisTypes returns all chassis types sorted by ID
func (r *CatalogRepository) ListChassisTypes(_ context.Context) ([]*entities.ChassisType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	chassis := make([]*entities.ChassisType, 0, len(r.chassis))
	for _, c := range r.chassis {
		chassis = append(chassis, c)
	}
	sort.Slice(chassis, func(i, j int) bool { return chassis[i].ID < chassis[j].ID })
	return chassis, nil
}

// ListCards returns all cards in insertion order
func (r *CatalogRepository) ListCards(_ context.Context) ([]*entities.CardDefinition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*entities.CardDefinition(nil), r.cards...), nil
}

// ListPartNumberConfigs returns all part-number configs sorted by chassis ID
func (r *CatalogRepository) ListPartNumberConfigs(_ context.Context) ([]*entities.PartNumberConfig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	configs := make([]*entities.PartNumberConfig, 0, len(r.partConfig))
	for _, cfg := range r.partConfig {
		configs = append(configs, cfg)
	}
	sort.Slice(configs, func(i, j int) bool { return configs[i].ChassisTypeID < configs[j].ChassisTypeID })
	return configs, nil
}
