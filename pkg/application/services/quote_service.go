package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vsinha/cpq/pkg/application/dto"
	"github.com/vsinha/cpq/pkg/domain/entities"
	"github.com/vsinha/cpq/pkg/domain/repositories"
	"github.com/vsinha/cpq/pkg/infrastructure/events"
)

var hundred = decimal.NewFromInt(100)

// QuoteService builds quotes from finished configurations
type QuoteService struct {
	quotes repositories.QuoteRepository
	events events.EventStore
	logger *zap.Logger
	now    func() time.Time
}

// NewQuoteService creates a quote service. eventStore and logger may be nil.
func NewQuoteService(quotes repositories.QuoteRepository, eventStore events.EventStore, logger *zap.Logger) *QuoteService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuoteService{
		quotes: quotes,
		events: eventStore,
		logger: logger,
		now:    time.Now,
	}
}

// CreateQuote starts an empty draft quote for customer
func (s *QuoteService) CreateQuote(ctx context.Context, customer string) (*entities.Quote, error) {
	customer = strings.TrimSpace(customer)
	if customer == "" {
		return nil, fmt.Errorf("customer cannot be empty")
	}

	now := s.now().UTC()
	quote := &entities.Quote{
		ID:        entities.QuoteID(uuid.NewString()),
		Customer:  customer,
		Status:    entities.QuoteDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.quotes.Save(ctx, quote); err != nil {
		return nil, fmt.Errorf("failed to save quote: %w", err)
	}

	s.publish(events.NewQuoteCreatedEvent(quote))
	s.logger.Info("quote created", zap.String("quote", string(quote.ID)), zap.String("customer", customer))
	return quote, nil
}

// AddConfiguration appends the session's configuration as a line on a draft
// quote, priced at the chassis plus every selected card.
func (s *QuoteService) AddConfiguration(
	ctx context.Context,
	quoteID entities.QuoteID,
	session *ConfigurationSession,
	qty int,
) (*entities.QuoteLine, error) {
	quote, err := s.quotes.Get(ctx, quoteID)
	if err != nil {
		return nil, fmt.Errorf("failed to load quote %s: %w", quoteID, err)
	}
	if quote.Status != entities.QuoteDraft {
		return nil, fmt.Errorf("quote %s is %s; only draft quotes can be changed", quoteID, quote.Status)
	}

	result := session.Result()
	line, err := entities.NewQuoteLine(result.PartNumber, result.ChassisTypeID, result.CardIDs(), qty, result.Price, result.Cost)
	if err != nil {
		return nil, fmt.Errorf("invalid quote line: %w", err)
	}
	line.LineNumber = len(quote.Lines) + 1

	quote.Lines = append(quote.Lines, *line)
	quote.UpdatedAt = s.now().UTC()
	if err := s.quotes.Save(ctx, quote); err != nil {
		return nil, fmt.Errorf("failed to save quote %s: %w", quoteID, err)
	}

	s.publish(events.NewQuoteLineAddedEvent(quoteID, *line))
	return line, nil
}

// Summarize totals a quote. Margin percent is (price - cost) / price * 100
// rounded to two places.
func (s *QuoteService) Summarize(quote *entities.Quote) *dto.QuoteSummary {
	summary := &dto.QuoteSummary{
		QuoteID:       quote.ID,
		Customer:      quote.Customer,
		Status:        quote.Status,
		Lines:         make([]dto.QuoteLineSummary, 0, len(quote.Lines)),
		TotalPrice:    decimal.Zero,
		TotalCost:     decimal.Zero,
		MarginPercent: decimal.Zero,
		UpdatedAt:     quote.UpdatedAt,
	}

	for _, line := range quote.Lines {
		price, cost := line.ExtendedPrice(), line.ExtendedCost()
		summary.Lines = append(summary.Lines, dto.QuoteLineSummary{
			LineNumber:    line.LineNumber,
			PartNumber:    line.PartNumber,
			ChassisTypeID: line.ChassisTypeID,
			Quantity:      line.Quantity,
			UnitPrice:     line.UnitPrice,
			ExtendedPrice: price,
			ExtendedCost:  cost,
		})
		summary.TotalPrice = summary.TotalPrice.Add(price)
		summary.TotalCost = summary.TotalCost.Add(cost)
	}

	summary.Margin = summary.TotalPrice.Sub(summary.TotalCost)
	if summary.TotalPrice.IsPositive() {
		summary.MarginPercent = summary.Margin.Div(summary.TotalPrice).Mul(hundred).Round(2)
	}
	return summary
}

// SetStatus moves a quote along the approval workflow
func (s *QuoteService) SetStatus(ctx context.Context, id entities.QuoteID, status entities.QuoteStatus) error {
	quote, err := s.quotes.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load quote %s: %w", id, err)
	}
	if !quote.Status.CanTransition(status) {
		return fmt.Errorf("quote %s cannot move from %s to %s", id, quote.Status, status)
	}
	if status == entities.QuotePendingApproval && len(quote.Lines) == 0 {
		return fmt.Errorf("quote %s has no lines to approve", id)
	}

	if err := s.quotes.UpdateStatus(ctx, id, status); err != nil {
		return fmt.Errorf("failed to update quote %s: %w", id, err)
	}

	s.publish(events.NewQuoteStatusChangedEvent(id, quote.Status, status))
	s.logger.Info("quote status changed",
		zap.String("quote", string(id)),
		zap.String("from", string(quote.Status)),
		zap.String("to", string(status)),
	)
	return nil
}

// GetQuote returns a quote by ID
func (s *QuoteService) GetQuote(ctx context.Context, id entities.QuoteID) (*entities.Quote, error) {
	quote, err := s.quotes.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load quote %s: %w", id, err)
	}
	return quote, nil
}

// ListQuotes returns all quotes, newest first
func (s *QuoteService) ListQuotes(ctx context.Context) ([]*entities.Quote, error) {
	quotes, err := s.quotes.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list quotes: %w", err)
	}
	return quotes, nil
}

func (s *QuoteService) publish(event events.Event) {
	if s.events == nil {
		return
	}
	if err := s.events.AppendEvent(event.StreamID(), event); err != nil {
		s.logger.Error("failed to append event", zap.String("event", event.Type()), zap.Error(err))
	}
}
