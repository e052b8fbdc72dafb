package entities

import "sort"

// Placement is one card instance seated in a chassis. A multi-slot card has
// a single Placement shared by every slot of its run.
type Placement struct {
	Card  *CardDefinition
	Slots []int // ascending
}

// StartSlot is the first slot of the run, where the card's code is rendered
func (p *Placement) StartSlot() int {
	return p.Slots[0]
}

// Span returns the number of slots the placement covers
func (p *Placement) Span() int {
	return len(p.Slots)
}

// SlotAssignment maps slot numbers to placements. Slots are numbered from 1;
// slot 0 never holds a card. It is a value: With and Without return a new
// assignment and leave the receiver untouched.
type SlotAssignment struct {
	slots map[int]*Placement
}

// NewSlotAssignment returns an empty assignment
func NewSlotAssignment() SlotAssignment {
	return SlotAssignment{slots: make(map[int]*Placement)}
}

func (a SlotAssignment) clone() SlotAssignment {
	next := SlotAssignment{slots: make(map[int]*Placement, len(a.slots)+2)}
	for slot, p := range a.slots {
		next.slots[slot] = p
	}
	return next
}

// At returns the placement occupying slot, if any
func (a SlotAssignment) At(slot int) (*Placement, bool) {
	p, ok := a.slots[slot]
	return p, ok
}

// IsFree reports whether no card occupies slot
func (a SlotAssignment) IsFree(slot int) bool {
	_, ok := a.slots[slot]
	return !ok
}

// Len returns the number of occupied slots
func (a SlotAssignment) Len() int {
	return len(a.slots)
}

// OccupiedSlots returns the occupied slot numbers in ascending order
func (a SlotAssignment) OccupiedSlots() []int {
	slots := make([]int, 0, len(a.slots))
	for slot := range a.slots {
		slots = append(slots, slot)
	}
	sort.Ints(slots)
	return slots
}

// Placements returns each distinct placement once, ordered by start slot
func (a SlotAssignment) Placements() []*Placement {
	var placements []*Placement
	for _, slot := range a.OccupiedSlots() {
		p := a.slots[slot]
		if p.StartSlot() == slot {
			placements = append(placements, p)
		}
	}
	return placements
}

// With returns a copy with card seated on slots. Any placement already on
// one of those slots must be removed first with Without.
func (a SlotAssignment) With(card *CardDefinition, slots ...int) SlotAssignment {
	next := a.clone()
	p := &Placement{Card: card, Slots: append([]int(nil), slots...)}
	sort.Ints(p.Slots)
	for _, slot := range p.Slots {
		next.slots[slot] = p
	}
	return next
}

// Without returns a copy with the placement covering slot cleared entirely
func (a SlotAssignment) Without(slot int) SlotAssignment {
	p, ok := a.slots[slot]
	if !ok {
		return a.clone()
	}
	next := a.clone()
	for _, s := range p.Slots {
		if next.slots[s] == p {
			delete(next.slots, s)
		}
	}
	return next
}

// Equal reports whether both assignments seat the same cards on the same slots
func (a SlotAssignment) Equal(other SlotAssignment) bool {
	if len(a.slots) != len(other.slots) {
		return false
	}
	for slot, p := range a.slots {
		q, ok := other.slots[slot]
		if !ok || p.Card.ID != q.Card.ID || p.StartSlot() != q.StartSlot() || p.Span() != q.Span() {
			return false
		}
	}
	return true
}
