package events

import (
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestInMemoryEventStore_AppendAndRead(t *testing.T) {
	store := NewInMemoryEventStore(nil)

	_ = store.AppendEvent("s1", NewCardPlacedEvent("s1", "STX", "AI", []int{1}))
	_ = store.AppendEvent("s2", NewCardPlacedEvent("s2", "LTX", "DI", []int{3}))
	_ = store.AppendEvent("s1", NewCardRemovedEvent("s1", "STX", "AI", []int{1}))

	s1, err := store.ReadEvents("s1", 0)
	if err != nil {
		t.Fatalf("ReadEvents failed: %v", err)
	}
	if len(s1) != 2 {
		t.Fatalf("Expected 2 events in s1, got %d", len(s1))
	}
	if s1[0].Version() != 1 || s1[1].Version() != 2 {
		t.Errorf("Expected versions 1,2, got %d,%d", s1[0].Version(), s1[1].Version())
	}
	if s1[1].Type() != CardRemovedEvent {
		t.Errorf("Expected %s, got %s", CardRemovedEvent, s1[1].Type())
	}

	fromTwo, _ := store.ReadEvents("s1", 2)
	if len(fromTwo) != 1 {
		t.Errorf("Expected 1 event from version 2, got %d", len(fromTwo))
	}

	all, _ := store.ReadAllEvents(1)
	if len(all) != 2 || all[0].StreamID() != "s2" {
		t.Errorf("Expected global order preserved, got %v", all)
	}

	none, _ := store.ReadEvents("missing", 1)
	if len(none) != 0 {
		t.Errorf("Expected no events for unknown stream")
	}
}

func TestInMemoryEventStore_SynchronousDispatch(t *testing.T) {
	store := NewInMemoryEventStore(nil)

	var seen []string
	placed := &HandlerFunc{Types: []string{CardPlacedEvent}, Fn: func(e Event) error {
		seen = append(seen, "placed:"+e.StreamID())
		return nil
	}}
	all := &HandlerFunc{Fn: func(e Event) error {
		seen = append(seen, "all:"+e.Type())
		return nil
	}}

	_ = store.Subscribe([]string{CardPlacedEvent}, placed)
	_ = store.Subscribe([]string{WildcardType}, all)

	_ = store.AppendEvent("s1", NewCardPlacedEvent("s1", "STX", "AI", []int{1}))
	_ = store.AppendEvent("s1", NewPartNumberChangedEvent("s1", "STX", "STX-0000-0", "STX-A000-0"))

	want := []string{"placed:s1", "all:" + CardPlacedEvent, "all:" + PartNumberChangedEvent}
	if len(seen) != len(want) {
		t.Fatalf("Expected %v, got %v", want, seen)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("Dispatch %d: expected %s, got %s", i, want[i], seen[i])
		}
	}

	_ = store.Unsubscribe(all)
	seen = nil
	_ = store.AppendEvent("s1", NewCardRemovedEvent("s1", "STX", "AI", []int{1}))
	if len(seen) != 0 {
		t.Errorf("Expected no dispatch after unsubscribe, got %v", seen)
	}
}

func TestInMemoryEventStore_HandlerErrorIsLogged(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	store := NewInMemoryEventStore(zap.New(core))

	failing := &HandlerFunc{Fn: func(Event) error { return errors.New("boom") }}
	_ = store.Subscribe([]string{QuoteStatusChangedEvent}, failing)

	if err := store.AppendEvent("q1", NewQuoteStatusChangedEvent("q1", "draft", "pending_approval")); err != nil {
		t.Fatalf("AppendEvent should not surface handler errors: %v", err)
	}
	if logs.FilterMessage("event handler failed").Len() != 1 {
		t.Errorf("Expected handler failure to be logged")
	}
}
