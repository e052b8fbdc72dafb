package repositories

import (
	"context"

	"github.com/vsinha/cpq/pkg/domain/entities"
)

// QuoteRepository persists quotes and their lines
type QuoteRepository interface {
	Save(ctx context.Context, quote *entities.Quote) error
	Get(ctx context.Context, id entities.QuoteID) (*entities.Quote, error)
	List(ctx context.Context) ([]*entities.Quote, error)
	UpdateStatus(ctx context.Context, id entities.QuoteID, status entities.QuoteStatus) error
}
