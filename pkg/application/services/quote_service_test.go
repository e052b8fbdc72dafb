package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/cpq/pkg/domain/entities"
	"github.com/vsinha/cpq/pkg/domain/repositories"
	"github.com/vsinha/cpq/pkg/infrastructure/events"
	"github.com/vsinha/cpq/pkg/infrastructure/repositories/memory"
)

func newQuoteService(t *testing.T) (*QuoteService, *events.InMemoryEventStore) {
	t.Helper()
	store := events.NewInMemoryEventStore(nil)
	svc := NewQuoteService(memory.NewQuoteRepository(), store, nil)
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC) }
	return svc, store
}

func configuredSTX(t *testing.T) *ConfigurationSession {
	t.Helper()
	ctx := context.Background()
	s, _ := newSession(t, "STX")
	_, err := s.ApplyStandardCards(ctx)
	require.NoError(t, err)
	_, err = s.Add(ctx, "BUSH", 0)
	require.NoError(t, err)
	return s
}

func TestQuoteService_CreateAndAddConfiguration(t *testing.T) {
	ctx := context.Background()
	svc, store := newQuoteService(t)

	quote, err := svc.CreateQuote(ctx, "  Northgrid Utilities ")
	require.NoError(t, err)
	assert.Equal(t, "Northgrid Utilities", quote.Customer)
	assert.Equal(t, entities.QuoteDraft, quote.Status)
	assert.NotEmpty(t, quote.ID)

	line, err := svc.AddConfiguration(ctx, quote.ID, configuredSTX(t), 2)
	require.NoError(t, err)
	assert.Equal(t, 1, line.LineNumber)
	assert.Equal(t, "STX-C0BB-0", line.PartNumber)
	assert.Equal(t, []entities.CardID{"CPU", "BUSH"}, line.Cards)
	assert.Equal(t, "1200", line.UnitPrice.String())
	assert.Equal(t, "650", line.UnitCost.String())

	stored, err := svc.GetQuote(ctx, quote.ID)
	require.NoError(t, err)
	require.Len(t, stored.Lines, 1)

	evs, _ := store.ReadEvents(string(quote.ID), 1)
	require.Len(t, evs, 2)
	assert.Equal(t, events.QuoteCreatedEvent, evs[0].Type())
	assert.Equal(t, events.QuoteLineAddedEvent, evs[1].Type())
}

func TestQuoteService_Summarize(t *testing.T) {
	ctx := context.Background()
	svc, _ := newQuoteService(t)

	quote, err := svc.CreateQuote(ctx, "Acme")
	require.NoError(t, err)
	_, err = svc.AddConfiguration(ctx, quote.ID, configuredSTX(t), 2)
	require.NoError(t, err)

	stored, err := svc.GetQuote(ctx, quote.ID)
	require.NoError(t, err)

	summary := svc.Summarize(stored)
	assert.Equal(t, "2400", summary.TotalPrice.String())
	assert.Equal(t, "1300", summary.TotalCost.String())
	assert.Equal(t, "1100", summary.Margin.String())
	assert.Equal(t, "45.83", summary.MarginPercent.String())
	require.Len(t, summary.Lines, 1)
	assert.Equal(t, "2400", summary.Lines[0].ExtendedPrice.String())

	empty := svc.Summarize(&entities.Quote{ID: "Q-EMPTY"})
	assert.True(t, empty.MarginPercent.IsZero())
}

func TestQuoteService_StatusWorkflow(t *testing.T) {
	ctx := context.Background()
	svc, _ := newQuoteService(t)

	quote, err := svc.CreateQuote(ctx, "Acme")
	require.NoError(t, err)

	assert.Error(t, svc.SetStatus(ctx, quote.ID, entities.QuotePendingApproval), "empty quote cannot be submitted")

	_, err = svc.AddConfiguration(ctx, quote.ID, configuredSTX(t), 1)
	require.NoError(t, err)

	assert.Error(t, svc.SetStatus(ctx, quote.ID, entities.QuoteApproved), "draft cannot be approved directly")
	require.NoError(t, svc.SetStatus(ctx, quote.ID, entities.QuotePendingApproval))

	_, err = svc.AddConfiguration(ctx, quote.ID, configuredSTX(t), 1)
	assert.Error(t, err, "pending quote is locked")

	require.NoError(t, svc.SetStatus(ctx, quote.ID, entities.QuoteApproved))
	assert.Error(t, svc.SetStatus(ctx, quote.ID, entities.QuoteDraft), "approved is terminal")

	stored, err := svc.GetQuote(ctx, quote.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.QuoteApproved, stored.Status)
}

func TestQuoteService_Errors(t *testing.T) {
	ctx := context.Background()
	svc, _ := newQuoteService(t)

	_, err := svc.CreateQuote(ctx, " ")
	assert.Error(t, err)

	_, err = svc.GetQuote(ctx, "missing")
	assert.True(t, errors.Is(err, repositories.ErrNotFound))

	err = svc.SetStatus(ctx, "missing", entities.QuoteApproved)
	assert.True(t, errors.Is(err, repositories.ErrNotFound))

	quote, err := svc.CreateQuote(ctx, "Acme")
	require.NoError(t, err)
	_, err = svc.AddConfiguration(ctx, quote.ID, configuredSTX(t), 0)
	assert.Error(t, err)
}

func TestQuoteService_ListQuotes(t *testing.T) {
	ctx := context.Background()
	svc, _ := newQuoteService(t)

	for _, customer := range []string{"A", "B", "C"} {
		_, err := svc.CreateQuote(ctx, customer)
		require.NoError(t, err)
	}

	quotes, err := svc.ListQuotes(ctx)
	require.NoError(t, err)
	assert.Len(t, quotes, 3)
}
