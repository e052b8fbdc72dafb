package events

import (
	"github.com/vsinha/cpq/pkg/domain/entities"
)

const (
	CardPlacedEvent        = "card.placed"
	CardRemovedEvent       = "card.removed"
	CardEvictedEvent       = "card.evicted"
	PartNumberChangedEvent = "part_number.changed"

	QuoteCreatedEvent       = "quote.created"
	QuoteLineAddedEvent     = "quote.line.added"
	QuoteStatusChangedEvent = "quote.status_changed"
)

type CardPlaced struct {
	ChassisTypeID entities.ChassisTypeID `json:"chassis_type_id"`
	CardID        entities.CardID        `json:"card_id"`
	Slots         []int                  `json:"slots,omitempty"`
	Outside       bool                   `json:"outside,omitempty"`
}

type CardRemoved struct {
	ChassisTypeID entities.ChassisTypeID `json:"chassis_type_id"`
	CardID        entities.CardID        `json:"card_id"`
	Slots         []int                  `json:"slots,omitempty"`
	Outside       bool                   `json:"outside,omitempty"`
}

// CardEvicted is recorded when a multi-slot placement displaces a card.
// Superseded is true when the evicted card shared the placed card's class.
type CardEvicted struct {
	ChassisTypeID entities.ChassisTypeID `json:"chassis_type_id"`
	CardID        entities.CardID        `json:"card_id"`
	Slots         []int                  `json:"slots"`
	EvictedBy     entities.CardID        `json:"evicted_by"`
	Superseded    bool                   `json:"superseded,omitempty"`
}

type PartNumberChanged struct {
	ChassisTypeID entities.ChassisTypeID `json:"chassis_type_id"`
	Old           string                 `json:"old"`
	New           string                 `json:"new"`
}

type QuoteCreated struct {
	QuoteID  entities.QuoteID `json:"quote_id"`
	Customer string           `json:"customer"`
}

type QuoteLineAdded struct {
	QuoteID entities.QuoteID   `json:"quote_id"`
	Line    entities.QuoteLine `json:"line"`
}

type QuoteStatusChanged struct {
	QuoteID entities.QuoteID     `json:"quote_id"`
	From    entities.QuoteStatus `json:"from"`
	To      entities.QuoteStatus `json:"to"`
}

func NewCardPlacedEvent(sessionID string, chassis entities.ChassisTypeID, card entities.CardID, slots []int) Event {
	return NewEvent(CardPlacedEvent, sessionID, CardPlaced{
		ChassisTypeID: chassis,
		CardID:        card,
		Slots:         slots,
		Outside:       len(slots) == 0,
	})
}

func NewCardRemovedEvent(sessionID string, chassis entities.ChassisTypeID, card entities.CardID, slots []int) Event {
	return NewEvent(CardRemovedEvent, sessionID, CardRemoved{
		ChassisTypeID: chassis,
		CardID:        card,
		Slots:         slots,
		Outside:       len(slots) == 0,
	})
}

func NewCardEvictedEvent(
	sessionID string,
	chassis entities.ChassisTypeID,
	evicted *entities.Placement,
	by entities.CardID,
	superseded bool,
) Event {
	return NewEvent(CardEvictedEvent, sessionID, CardEvicted{
		ChassisTypeID: chassis,
		CardID:        evicted.Card.ID,
		Slots:         evicted.Slots,
		EvictedBy:     by,
		Superseded:    superseded,
	})
}

func NewPartNumberChangedEvent(sessionID string, chassis entities.ChassisTypeID, previous, current string) Event {
	return NewEvent(PartNumberChangedEvent, sessionID, PartNumberChanged{
		ChassisTypeID: chassis,
		Old:           previous,
		New:           current,
	})
}

func NewQuoteCreatedEvent(quote *entities.Quote) Event {
	return NewEvent(QuoteCreatedEvent, string(quote.ID), QuoteCreated{
		QuoteID:  quote.ID,
		Customer: quote.Customer,
	})
}

func NewQuoteLineAddedEvent(id entities.QuoteID, line entities.QuoteLine) Event {
	return NewEvent(QuoteLineAddedEvent, string(id), QuoteLineAdded{QuoteID: id, Line: line})
}

func NewQuoteStatusChangedEvent(id entities.QuoteID, from, to entities.QuoteStatus) Event {
	return NewEvent(QuoteStatusChangedEvent, string(id), QuoteStatusChanged{QuoteID: id, From: from, To: to})
}
