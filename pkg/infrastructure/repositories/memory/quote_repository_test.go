package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/cpq/pkg/domain/entities"
	"github.com/vsinha/cpq/pkg/domain/repositories"
)

func TestQuoteRepository_SaveGetList(t *testing.T) {
	repo := NewQuoteRepository()
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	older := &entities.Quote{ID: "Q1", Customer: "Acme", Status: entities.QuoteDraft, CreatedAt: now}
	newer := &entities.Quote{
		ID:        "Q2",
		Customer:  "Globex",
		Status:    entities.QuoteDraft,
		CreatedAt: now.Add(time.Hour),
		Lines: []entities.QuoteLine{
			{LineNumber: 1, PartNumber: "STX-0000-0", Quantity: 1, UnitPrice: decimal.NewFromInt(10), UnitCost: decimal.NewFromInt(5)},
		},
	}
	for _, q := range []*entities.Quote{older, newer} {
		if err := repo.Save(ctx, q); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	// stored copies are independent of the caller's slice
	newer.Lines[0].PartNumber = "CHANGED"
	got, err := repo.Get(ctx, "Q2")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Lines[0].PartNumber != "STX-0000-0" {
		t.Errorf("Expected stored line untouched, got %s", got.Lines[0].PartNumber)
	}

	quotes, _ := repo.List(ctx)
	if len(quotes) != 2 || quotes[0].ID != "Q2" {
		t.Errorf("Expected newest quote first")
	}
}

func TestQuoteRepository_UpdateStatus(t *testing.T) {
	repo := NewQuoteRepository()
	ctx := context.Background()

	if err := repo.UpdateStatus(ctx, "missing", entities.QuoteApproved); !errors.Is(err, repositories.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	_ = repo.Save(ctx, &entities.Quote{ID: "Q1", Status: entities.QuoteDraft})
	if err := repo.UpdateStatus(ctx, "Q1", entities.QuotePendingApproval); err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}
	got, _ := repo.Get(ctx, "Q1")
	if got.Status != entities.QuotePendingApproval {
		t.Errorf("Expected pending_approval, got %s", got.Status)
	}
}
