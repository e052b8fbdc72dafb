package entities

import "fmt"

// PlacementErrorKind classifies why a slot operation was rejected
type PlacementErrorKind int

const (
	ChassisTypeUnresolved PlacementErrorKind = iota
	SlotOccupied
	SlotNotAllowed
	UnsupportedForChassis
)

// String method for PlacementErrorKind enum
func (k PlacementErrorKind) String() string {
	switch k {
	case ChassisTypeUnresolved:
		return "ChassisTypeUnresolved"
	case SlotOccupied:
		return "SlotOccupied"
	case SlotNotAllowed:
		return "SlotNotAllowed"
	case UnsupportedForChassis:
		return "UnsupportedForChassis"
	default:
		return "Unknown"
	}
}

// PlacementError is returned by slot operations. The assignment passed in is
// never modified when one is returned.
type PlacementError struct {
	Kind    PlacementErrorKind
	Chassis ChassisTypeID
	CardID  CardID
	Slot    int
	Message string
}

func (e *PlacementError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.String()
	}
	switch {
	case e.CardID != "" && e.Slot > 0:
		return fmt.Sprintf("%s: card %s, slot %d: %s", e.Kind, e.CardID, e.Slot, msg)
	case e.CardID != "":
		return fmt.Sprintf("%s: card %s: %s", e.Kind, e.CardID, msg)
	default:
		return fmt.Sprintf("%s: %s", e.Kind, msg)
	}
}

// Is matches any PlacementError of the same kind, so callers can write
// errors.Is(err, entities.ErrSlotOccupied).
func (e *PlacementError) Is(target error) bool {
	t, ok := target.(*PlacementError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrChassisTypeUnresolved = &PlacementError{Kind: ChassisTypeUnresolved}
	ErrSlotOccupied          = &PlacementError{Kind: SlotOccupied}
	ErrSlotNotAllowed        = &PlacementError{Kind: SlotNotAllowed}
	ErrUnsupportedForChassis = &PlacementError{Kind: UnsupportedForChassis}
)
