package repositories

import (
	"context"
	"errors"

	"github.com/vsinha/cpq/pkg/domain/entities"
)

// ErrNotFound is wrapped by repositories when a record does not exist
var ErrNotFound = errors.New("not found")

// CatalogRepository provides read access to chassis, card and part-number data
type CatalogRepository interface {
	GetChassisType(ctx context.Context, id entities.ChassisTypeID) (*entities.ChassisType, error)
	GetCardDefinition(ctx context.Context, id entities.CardID) (*entities.CardDefinition, error)
	GetPartNumberConfig(ctx context.Context, chassisTypeID entities.ChassisTypeID) (*entities.PartNumberConfig, error)
	ListChassisTypes(ctx context.Context) ([]*entities.ChassisType, error)
	ListCards(ctx context.Context) ([]*entities.CardDefinition, error)
}

// CatalogWriter loads catalog records, used by catalog import
type CatalogWriter interface {
	SaveChassisType(ctx context.Context, chassis *entities.ChassisType) error
	SaveCardDefinition(ctx context.Context, card *entities.CardDefinition) error
	SavePartNumberConfig(ctx context.Context, config *entities.PartNumberConfig) error
}
