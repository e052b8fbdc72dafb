package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vsinha/cpq/pkg/application/dto"
	"github.com/vsinha/cpq/pkg/domain/entities"
	"github.com/vsinha/cpq/pkg/domain/repositories"
	domain "github.com/vsinha/cpq/pkg/domain/services"
	"github.com/vsinha/cpq/pkg/infrastructure/events"
)

// SessionDeps are the collaborators of a configuration session. Only Catalog
// is required.
type SessionDeps struct {
	Catalog   repositories.CatalogRepository
	Resolver  *domain.ChassisResolver // built from Catalog when nil
	Engine    *domain.SlotEngine
	Assembler *domain.PartNumberAssembler
	Events    events.EventStore
	Logger    *zap.Logger
}

// ConfigurationSession holds the in-progress configuration of one chassis.
// Every mutation places or removes cards through the slot engine and then
// re-renders the part number before returning. Events are dispatched while
// the session is locked, so handlers must not call back into it.
type ConfigurationSession struct {
	id        string
	catalog   repositories.CatalogRepository
	engine    *domain.SlotEngine
	assembler *domain.PartNumberAssembler
	events    events.EventStore
	logger    *zap.Logger

	mu         sync.Mutex
	chassis    *entities.ChassisType
	config     *entities.PartNumberConfig
	assignment entities.SlotAssignment
	outside    []*entities.CardDefinition
	rendering  domain.Rendering
}

// NewConfigurationSession starts an empty configuration for rawChassis.
// Unknown chassis types fail with a ChassisTypeUnresolved PlacementError.
func NewConfigurationSession(ctx context.Context, deps SessionDeps, rawChassis string) (*ConfigurationSession, error) {
	if deps.Catalog == nil {
		return nil, fmt.Errorf("catalog repository is required")
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Engine == nil {
		deps.Engine = domain.NewSlotEngine(deps.Logger)
	}
	if deps.Assembler == nil {
		deps.Assembler = domain.NewPartNumberAssembler(deps.Logger)
	}

	resolver := deps.Resolver
	if resolver == nil {
		var err error
		if resolver, err = domain.NewChassisResolverFromCatalog(ctx, deps.Catalog); err != nil {
			return nil, err
		}
	}

	chassis, err := resolver.ResolveChassisConfig(rawChassis)
	if err != nil {
		return nil, err
	}

	config, err := deps.Catalog.GetPartNumberConfig(ctx, chassis.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load part number config for %s: %w", chassis.ID, err)
	}

	s := &ConfigurationSession{
		id:         uuid.NewString(),
		catalog:    deps.Catalog,
		engine:     deps.Engine,
		assembler:  deps.Assembler,
		events:     deps.Events,
		chassis:    chassis,
		config:     config,
		assignment: entities.NewSlotAssignment(),
	}
	s.logger = deps.Logger.With(zap.String("session", s.id), zap.String("chassis", string(chassis.ID)))
	s.rendering = s.assembler.Render(s.chassis, s.config, s.assignment, s.outside)
	return s, nil
}

// ID returns the session identifier used as the event stream ID
func (s *ConfigurationSession) ID() string {
	return s.id
}

// Chassis returns the resolved chassis type
func (s *ConfigurationSession) Chassis() *entities.ChassisType {
	return s.chassis
}

// Assignment returns the current slot assignment
func (s *ConfigurationSession) Assignment() entities.SlotAssignment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.assignment
}

// PartNumber returns the part number for the current state
func (s *ConfigurationSession) PartNumber() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rendering.PartNumber
}

// Add selects a card. Slotted cards go through the slot engine with slot as
// the target (0 picks automatically); outside-chassis cards are appended to
// the selection. On error the configuration is unchanged.
func (s *ConfigurationSession) Add(ctx context.Context, cardID entities.CardID, slot int) (*domain.PlacementOutcome, error) {
	card, err := s.catalog.GetCardDefinition(ctx, cardID)
	if err != nil {
		return nil, fmt.Errorf("failed to load card %s: %w", cardID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if card.OutsideChassis {
		return s.addOutside(card), nil
	}

	outcome, err := s.engine.Place(s.chassis, s.assignment, card, slot)
	if err != nil {
		s.logger.Debug("placement rejected", zap.String("card", string(cardID)), zap.Int("slot", slot), zap.Error(err))
		return nil, err
	}

	if outcome.Assignment.Equal(s.assignment) {
		return outcome, nil
	}

	s.assignment = outcome.Assignment
	for _, p := range outcome.Superseded {
		s.publish(events.NewCardEvictedEvent(s.id, s.chassis.ID, p, card.ID, true))
	}
	for _, p := range outcome.Evicted {
		s.publish(events.NewCardEvictedEvent(s.id, s.chassis.ID, p, card.ID, false))
	}
	s.publish(events.NewCardPlacedEvent(s.id, s.chassis.ID, card.ID, outcome.Slots))
	s.refresh()
	return outcome, nil
}

func (s *ConfigurationSession) addOutside(card *entities.CardDefinition) *domain.PlacementOutcome {
	for _, selected := range s.outside {
		if selected.ID == card.ID {
			return &domain.PlacementOutcome{Assignment: s.assignment}
		}
	}
	s.outside = append(s.outside, card)
	s.publish(events.NewCardPlacedEvent(s.id, s.chassis.ID, card.ID, nil))
	s.refresh()
	return &domain.PlacementOutcome{Assignment: s.assignment}
}

// Remove clears the card occupying slot, including every slot of its run
func (s *ConfigurationSession) Remove(slot int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.assignment.At(slot)
	if !ok {
		return fmt.Errorf("slot %d is empty", slot)
	}
	s.assignment = s.engine.RemoveCard(s.assignment, slot)
	s.publish(events.NewCardRemovedEvent(s.id, s.chassis.ID, p.Card.ID, p.Slots))
	s.refresh()
	return nil
}

// RemoveOutside deselects an outside-chassis card
func (s *ConfigurationSession) RemoveOutside(cardID entities.CardID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, card := range s.outside {
		if card.ID != cardID {
			continue
		}
		s.outside = append(s.outside[:i:i], s.outside[i+1:]...)
		s.publish(events.NewCardRemovedEvent(s.id, s.chassis.ID, cardID, nil))
		s.refresh()
		return nil
	}
	return fmt.Errorf("outside card %s is not selected", cardID)
}

// Move re-places the card at fromSlot with toSlot as its target
func (s *ConfigurationSession) Move(fromSlot, toSlot int) (*domain.PlacementOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.assignment.At(fromSlot)
	if !ok {
		return nil, fmt.Errorf("slot %d is empty", fromSlot)
	}

	outcome, err := s.engine.MoveCard(s.chassis, s.assignment, fromSlot, toSlot)
	if err != nil {
		return nil, err
	}

	s.assignment = outcome.Assignment
	s.publish(events.NewCardRemovedEvent(s.id, s.chassis.ID, p.Card.ID, p.Slots))
	for _, evicted := range outcome.Evicted {
		s.publish(events.NewCardEvictedEvent(s.id, s.chassis.ID, evicted, p.Card.ID, false))
	}
	s.publish(events.NewCardPlacedEvent(s.id, s.chassis.ID, p.Card.ID, outcome.Slots))
	s.refresh()
	return outcome, nil
}

// ApplyStandardCards adds every catalog card flagged standard that is not
// already selected. Cards that cannot be placed are logged and skipped.
func (s *ConfigurationSession) ApplyStandardCards(ctx context.Context) ([]entities.CardID, error) {
	cards, err := s.catalog.ListCards(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}

	var added []entities.CardID
	for _, card := range cards {
		if !card.Standard || s.isSelected(card.ID) {
			continue
		}
		if _, err := s.Add(ctx, card.ID, 0); err != nil {
			s.logger.Warn("standard card not applied", zap.String("card", string(card.ID)), zap.Error(err))
			continue
		}
		added = append(added, card.ID)
	}
	return added, nil
}

func (s *ConfigurationSession) isSelected(id entities.CardID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.assignment.Placements() {
		if p.Card.ID == id {
			return true
		}
	}
	for _, card := range s.outside {
		if card.ID == id {
			return true
		}
	}
	return false
}

// Result returns the current configuration with pricing
func (s *ConfigurationSession) Result() *dto.ConfigurationResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := &dto.ConfigurationResult{
		SessionID:     s.id,
		ChassisTypeID: s.chassis.ID,
		PartNumber:    s.rendering.PartNumber,
		Placed:        make([]dto.PlacedCard, 0, s.assignment.Len()),
		FreeSlots:     make([]int, 0),
		Price:         s.chassis.Price,
		Cost:          s.chassis.Cost,
	}

	for _, p := range s.assignment.Placements() {
		result.Placed = append(result.Placed, dto.PlacedCard{
			CardID:      p.Card.ID,
			Description: p.Card.Description,
			Slots:       append([]int(nil), p.Slots...),
		})
		result.Price, result.Cost = addCard(result.Price, result.Cost, p.Card)
	}
	for _, card := range s.outside {
		result.Outside = append(result.Outside, card.ID)
		result.Price, result.Cost = addCard(result.Price, result.Cost, card)
	}
	for slot := 1; slot <= s.chassis.TotalSlots; slot++ {
		if s.assignment.IsFree(slot) && !s.chassis.IsReserved(slot) {
			result.FreeSlots = append(result.FreeSlots, slot)
		}
	}
	for _, u := range s.rendering.Unresolved {
		result.Unresolved = append(result.Unresolved, dto.UnresolvedPlaceholder{CardID: u.CardID, Key: u.Key})
	}
	return result
}

func addCard(price, cost decimal.Decimal, card *entities.CardDefinition) (decimal.Decimal, decimal.Decimal) {
	return price.Add(card.Price), cost.Add(card.Cost)
}

// refresh must be called with s.mu held
func (s *ConfigurationSession) refresh() {
	previous := s.rendering.PartNumber
	s.rendering = s.assembler.Render(s.chassis, s.config, s.assignment, s.outside)
	if s.rendering.PartNumber != previous {
		s.publish(events.NewPartNumberChangedEvent(s.id, s.chassis.ID, previous, s.rendering.PartNumber))
	}
}

func (s *ConfigurationSession) publish(event events.Event) {
	if s.events == nil {
		return
	}
	if err := s.events.AppendEvent(s.id, event); err != nil {
		s.logger.Error("failed to append event", zap.String("event", event.Type()), zap.Error(err))
	}
}
