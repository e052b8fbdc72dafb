package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/vsinha/cpq/pkg/domain/entities"
	"github.com/vsinha/cpq/pkg/domain/repositories"
)

// QuoteRepository provides in-memory quote storage
type QuoteRepository struct {
	mu     sync.RWMutex
	quotes map[entities.QuoteID]entities.Quote
}

// NewQuoteRepository creates a new in-memory quote repository
func NewQuoteRepository() *QuoteRepository {
	return &QuoteRepository{quotes: make(map[entities.QuoteID]entities.Quote)}
}

// Verify interface compliance
var _ repositories.QuoteRepository = (*QuoteRepository)(nil)

// Save stores a copy of the quote, replacing any previous version
func (r *QuoteRepository) Save(_ context.Context, quote *entities.Quote) error {
	if quote.ID == "" {
		return fmt.Errorf("quote id cannot be empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.quotes[quote.ID] = copyQuote(*quote)
	return nil
}

// Get returns a copy of the quote with the given ID
func (r *QuoteRepository) Get(_ context.Context, id entities.QuoteID) (*entities.Quote, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	q, exists := r.quotes[id]
	if !exists {
		return nil, fmt.Errorf("quote %s: %w", id, repositories.ErrNotFound)
	}
	q = copyQuote(q)
	return &q, nil
}

// List returns all quotes, newest first
func (r *QuoteRepository) List(_ context.Context) ([]*entities.Quote, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	quotes := make([]*entities.Quote, 0, len(r.quotes))
	for _, q := range r.quotes {
		q := copyQuote(q)
		quotes = append(quotes, &q)
	}
	sort.Slice(quotes, func(i, j int) bool {
		if !quotes[i].CreatedAt.Equal(quotes[j].CreatedAt) {
			return quotes[i].CreatedAt.After(quotes[j].CreatedAt)
		}
		return quotes[i].ID < quotes[j].ID
	})
	return quotes, nil
}

// UpdateStatus sets the status of a stored quote
func (r *QuoteRepository) UpdateStatus(_ context.Context, id entities.QuoteID, status entities.QuoteStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, exists := r.quotes[id]
	if !exists {
		return fmt.Errorf("quote %s: %w", id, repositories.ErrNotFound)
	}
	q.Status = status
	q.UpdatedAt = time.Now().UTC()
	r.quotes[id] = q
	return nil
}

func copyQuote(q entities.Quote) entities.Quote {
	q.Lines = append([]entities.QuoteLine(nil), q.Lines...)
	return q
}
