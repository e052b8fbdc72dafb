package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/vsinha/cpq/pkg/domain/entities"
)

func TestResolveChassisConfig_Aliases(t *testing.T) {
	resolver := NewDefaultChassisResolver()

	tests := []struct {
		raw       string
		wantID    entities.ChassisTypeID
		wantSlots int
	}{
		{"LTX", "LTX", 14},
		{"ltx", "LTX", 14},
		{"14-CARD", "LTX", 14},
		{" 14 card ", "LTX", 14},
		{"7-CARD", "MTX", 7},
		{"7_card", "MTX", 7},
		{"4-CARD", "STX", 4},
		{"STX", "STX", 4},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			c, err := resolver.ResolveChassisConfig(tt.raw)
			if err != nil {
				t.Fatalf("ResolveChassisConfig(%q) failed: %v", tt.raw, err)
			}
			if c.ID != tt.wantID {
				t.Errorf("Expected %s, got %s", tt.wantID, c.ID)
			}
			if c.TotalSlots != tt.wantSlots {
				t.Errorf("Expected %d slots, got %d", tt.wantSlots, c.TotalSlots)
			}
		})
	}
}

func TestResolveChassisConfig_Unresolved(t *testing.T) {
	resolver := NewDefaultChassisResolver()

	for _, raw := range []string{"", "XTX", "12-CARD"} {
		_, err := resolver.ResolveChassisConfig(raw)
		var perr *entities.PlacementError
		if !errors.As(err, &perr) || perr.Kind != entities.ChassisTypeUnresolved {
			t.Errorf("ResolveChassisConfig(%q): expected ChassisTypeUnresolved, got %v", raw, err)
		}
	}

	_, err := resolver.ResolveChassisConfig("XTX")
	if err == nil || !strings.Contains(err.Error(), "(known: [LTX MTX STX])") {
		t.Errorf("Expected known chassis types in error, got %v", err)
	}
}

func TestChassisResolver_Known(t *testing.T) {
	ids := NewChassisResolver(DefaultChassisTypes()[2], DefaultChassisTypes()[0]).Known()
	if len(ids) != 2 || ids[0] != "LTX" || ids[1] != "STX" {
		t.Errorf("Known() = %v, want [LTX STX]", ids)
	}
}

func TestDefaultChassisTypes_PairOrder(t *testing.T) {
	ltx, err := NewDefaultChassisResolver().ResolveChassisConfig("LTX")
	if err != nil {
		t.Fatalf("resolve LTX: %v", err)
	}
	pairs := ltx.PairsFor(entities.BushingClass)
	want := []entities.SlotPair{{First: 6, Second: 7}, {First: 13, Second: 14}}
	if len(pairs) != len(want) {
		t.Fatalf("Expected %d pairs, got %d", len(want), len(pairs))
	}
	for i := range want {
		if pairs[i] != want[i] {
			t.Errorf("pair %d: expected %s, got %s", i, want[i], pairs[i])
		}
	}
}

type stubCatalog struct {
	chassis []*entities.ChassisType
	err     error
}

func (s *stubCatalog) GetChassisType(context.Context, entities.ChassisTypeID) (*entities.ChassisType, error) {
	return nil, errors.New("not used")
}

func (s *stubCatalog) GetCardDefinition(context.Context, entities.CardID) (*entities.CardDefinition, error) {
	return nil, errors.New("not used")
}

func (s *stubCatalog) GetPartNumberConfig(context.Context, entities.ChassisTypeID) (*entities.PartNumberConfig, error) {
	return nil, errors.New("not used")
}

func (s *stubCatalog) ListChassisTypes(context.Context) ([]*entities.ChassisType, error) {
	return s.chassis, s.err
}

func (s *stubCatalog) ListCards(context.Context) ([]*entities.CardDefinition, error) {
	return nil, nil
}

func TestNewChassisResolverFromCatalog(t *testing.T) {
	custom, err := entities.NewChassisType("ntx", 2, nil, nil)
	if err != nil {
		t.Fatalf("NewChassisType failed: %v", err)
	}

	resolver, err := NewChassisResolverFromCatalog(context.Background(), &stubCatalog{chassis: []*entities.ChassisType{custom}})
	if err != nil {
		t.Fatalf("NewChassisResolverFromCatalog failed: %v", err)
	}
	if _, err := resolver.ResolveChassisConfig("NTX"); err != nil {
		t.Errorf("Expected NTX to resolve, got %v", err)
	}
	if _, err := resolver.ResolveChassisConfig("LTX"); err == nil {
		t.Errorf("Expected LTX unknown to a catalog without it")
	}

	_, err = NewChassisResolverFromCatalog(context.Background(), &stubCatalog{err: errors.New("boom")})
	if err == nil {
		t.Errorf("Expected catalog error to propagate")
	}
}
