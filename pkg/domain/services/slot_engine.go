package services

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/vsinha/cpq/pkg/domain/entities"
)

// PlacementOutcome describes the result of a successful placement
type PlacementOutcome struct {
	Assignment entities.SlotAssignment
	Slots      []int                 // slots the card now occupies; nil for outside-chassis cards
	Evicted    []*entities.Placement // foreign cards cleared to make room
	Superseded []*entities.Placement // same-class cards replaced by the new card
}

// SlotEngine decides which slots a card occupies. It holds no per-session
// state; every call is a pure function of its arguments.
type SlotEngine struct {
	logger *zap.Logger
}

// NewSlotEngine creates a slot engine. A nil logger discards output.
func NewSlotEngine(logger *zap.Logger) *SlotEngine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SlotEngine{logger: logger}
}

// PlaceCard seats card in the chassis and returns the new assignment.
// Slots are numbered from 1, and targetSlot 0 means "pick automatically".
// On error the input assignment is returned unchanged.
func (e *SlotEngine) PlaceCard(
	chassis *entities.ChassisType,
	current entities.SlotAssignment,
	card *entities.CardDefinition,
	targetSlot int,
) (entities.SlotAssignment, error) {
	outcome, err := e.Place(chassis, current, card, targetSlot)
	if err != nil {
		return current, err
	}
	return outcome.Assignment, nil
}

// Place is PlaceCard with the full outcome, including evictions
func (e *SlotEngine) Place(
	chassis *entities.ChassisType,
	current entities.SlotAssignment,
	card *entities.CardDefinition,
	targetSlot int,
) (*PlacementOutcome, error) {
	if chassis == nil {
		return nil, &entities.PlacementError{
			Kind:    entities.ChassisTypeUnresolved,
			CardID:  card.ID,
			Message: "no chassis selected",
		}
	}

	switch {
	case card.OutsideChassis:
		return &PlacementOutcome{Assignment: current}, nil
	case card.IsMultiSlot():
		return e.placeMultiSlot(chassis, current, card)
	default:
		return e.placeSingle(chassis, current, card, targetSlot)
	}
}

// RemoveCard clears the card occupying slot, including every slot of a
// multi-slot run. Other cards are not moved.
func (e *SlotEngine) RemoveCard(current entities.SlotAssignment, slot int) entities.SlotAssignment {
	return current.Without(slot)
}

// MoveCard removes the card at fromSlot and places it again at toSlot.
// If the placement fails the original assignment is returned with the error.
func (e *SlotEngine) MoveCard(
	chassis *entities.ChassisType,
	current entities.SlotAssignment,
	fromSlot, toSlot int,
) (*PlacementOutcome, error) {
	p, ok := current.At(fromSlot)
	if !ok {
		return nil, fmt.Errorf("slot %d is empty", fromSlot)
	}
	outcome, err := e.Place(chassis, current.Without(fromSlot), p.Card, toSlot)
	if err != nil {
		return nil, err
	}
	return outcome, nil
}

func (e *SlotEngine) placeSingle(
	chassis *entities.ChassisType,
	current entities.SlotAssignment,
	card *entities.CardDefinition,
	targetSlot int,
) (*PlacementOutcome, error) {
	if card.Standard && card.PinnedSlot > 0 {
		slot := card.PinnedSlot
		if err := e.checkSlotAllowed(chassis, card, slot); err != nil {
			return nil, err
		}
		if p, ok := current.At(slot); ok {
			if p.Card.ID == card.ID {
				return &PlacementOutcome{Assignment: current, Slots: []int{slot}}, nil
			}
			return nil, occupiedError(chassis, card, slot, p)
		}
		return e.seat(current, card, slot), nil
	}

	if targetSlot != 0 {
		if err := e.checkSlotAllowed(chassis, card, targetSlot); err != nil {
			return nil, err
		}
		if p, ok := current.At(targetSlot); ok {
			return nil, occupiedError(chassis, card, targetSlot, p)
		}
		return e.seat(current, card, targetSlot), nil
	}

	for slot := 1; slot <= chassis.TotalSlots; slot++ {
		if chassis.IsReserved(slot) {
			continue
		}
		if card.DesignatedOnly && !card.AllowsSlot(slot) {
			continue
		}
		if current.IsFree(slot) {
			return e.seat(current, card, slot), nil
		}
	}

	return nil, &entities.PlacementError{
		Kind:    entities.SlotOccupied,
		Chassis: chassis.ID,
		CardID:  card.ID,
		Message: "no free slot available",
	}
}

func (e *SlotEngine) seat(current entities.SlotAssignment, card *entities.CardDefinition, slot int) *PlacementOutcome {
	return &PlacementOutcome{
		Assignment: current.With(card, slot),
		Slots:      []int{slot},
	}
}

func (e *SlotEngine) checkSlotAllowed(chassis *entities.ChassisType, card *entities.CardDefinition, slot int) error {
	switch {
	case !chassis.InRange(slot):
		return &entities.PlacementError{
			Kind:    entities.SlotNotAllowed,
			Chassis: chassis.ID,
			CardID:  card.ID,
			Slot:    slot,
			Message: fmt.Sprintf("chassis %s has slots 1..%d", chassis.ID, chassis.TotalSlots),
		}
	case chassis.IsReserved(slot):
		return &entities.PlacementError{
			Kind:    entities.SlotNotAllowed,
			Chassis: chassis.ID,
			CardID:  card.ID,
			Slot:    slot,
			Message: "slot is reserved",
		}
	case card.DesignatedOnly && !card.AllowsSlot(slot):
		return &entities.PlacementError{
			Kind:    entities.SlotNotAllowed,
			Chassis: chassis.ID,
			CardID:  card.ID,
			Slot:    slot,
			Message: fmt.Sprintf("card may only be placed in slots %v", card.AllowedSlots),
		}
	}
	return nil
}

func occupiedError(chassis *entities.ChassisType, card *entities.CardDefinition, slot int, holder *entities.Placement) error {
	return &entities.PlacementError{
		Kind:    entities.SlotOccupied,
		Chassis: chassis.ID,
		CardID:  card.ID,
		Slot:    slot,
		Message: fmt.Sprintf("slot held by %s", holder.Card.ID),
	}
}

// placeMultiSlot seats a multi-slot card on the first candidate pair whose
// slots are free or held only by cards of the same class. If every pair is
// blocked by foreign cards, the first candidate pair is cleared and used.
// Existing cards of the same class are always replaced, so at most one remains.
func (e *SlotEngine) placeMultiSlot(
	chassis *entities.ChassisType,
	current entities.SlotAssignment,
	card *entities.CardDefinition,
) (*PlacementOutcome, error) {
	pairs, err := e.candidatePairs(chassis, card)
	if err != nil {
		return nil, err
	}

	if card.Standard && card.PinnedSlot > 0 {
		start := pairStart(pairs[0])
		if p, ok := current.At(start); ok && p.Card.ID == card.ID && p.StartSlot() == start && p.Span() == card.Span() {
			return &PlacementOutcome{Assignment: current, Slots: append([]int(nil), p.Slots...)}, nil
		}
	}

	var sameClass []*entities.Placement
	for _, p := range current.Placements() {
		if p.Card.Class == card.Class {
			sameClass = append(sameClass, p)
		}
	}

	blocked := func(slot int) bool {
		p, ok := current.At(slot)
		return ok && p.Card.Class != card.Class
	}

	chosen, found := entities.SlotPair{}, false
	for _, pair := range pairs {
		if !blocked(pair.First) && !blocked(pair.Second) {
			chosen, found = pair, true
			break
		}
	}
	if !found {
		chosen = pairs[0]
	}

	outcome := &PlacementOutcome{Superseded: sameClass}
	next := current
	for _, p := range sameClass {
		next = next.Without(p.StartSlot())
	}
	for _, slot := range chosen.Slots() {
		if p, ok := next.At(slot); ok {
			outcome.Evicted = append(outcome.Evicted, p)
			next = next.Without(slot)
		}
	}

	outcome.Slots = []int{chosen.First, chosen.Second}
	if outcome.Slots[0] > outcome.Slots[1] {
		outcome.Slots[0], outcome.Slots[1] = outcome.Slots[1], outcome.Slots[0]
	}
	outcome.Assignment = next.With(card, outcome.Slots...)

	if len(outcome.Evicted) > 0 {
		e.logger.Debug("multi-slot placement cleared pair",
			zap.String("chassis", string(chassis.ID)),
			zap.String("card", string(card.ID)),
			zap.Stringer("pair", chosen),
			zap.Int("evicted", len(outcome.Evicted)),
		)
	}

	return outcome, nil
}

// candidatePairs returns the chassis pairs card may occupy, in priority order.
// Designated-only cards keep pairs whose slots are both allowed; pinned
// standard cards keep only the pair starting at the pinned slot.
func (e *SlotEngine) candidatePairs(chassis *entities.ChassisType, card *entities.CardDefinition) ([]entities.SlotPair, error) {
	pairs := chassis.PairsFor(card.Class)
	if len(pairs) == 0 {
		return nil, &entities.PlacementError{
			Kind:    entities.UnsupportedForChassis,
			Chassis: chassis.ID,
			CardID:  card.ID,
			Message: fmt.Sprintf("chassis %s has no placements for %s cards", chassis.ID, card.Class),
		}
	}

	candidates := make([]entities.SlotPair, 0, len(pairs))
	for _, pair := range pairs {
		if card.DesignatedOnly && !(card.AllowsSlot(pair.First) && card.AllowsSlot(pair.Second)) {
			continue
		}
		if card.Standard && card.PinnedSlot > 0 && pairStart(pair) != card.PinnedSlot {
			continue
		}
		candidates = append(candidates, pair)
	}

	if len(candidates) == 0 {
		msg := fmt.Sprintf("card may only be placed in slots %v", card.AllowedSlots)
		if card.Standard && card.PinnedSlot > 0 {
			msg = fmt.Sprintf("no %s pair starts at pinned slot %d", card.Class, card.PinnedSlot)
		}
		return nil, &entities.PlacementError{
			Kind:    entities.SlotNotAllowed,
			Chassis: chassis.ID,
			CardID:  card.ID,
			Slot:    card.PinnedSlot,
			Message: msg,
		}
	}
	return candidates, nil
}

func pairStart(pair entities.SlotPair) int {
	if pair.Second < pair.First {
		return pair.Second
	}
	return pair.First
}
