package repositories

import (
	"context"

	"github.com/kamilarndt/fabmanage/pkg/domain/entities"
)

// DemandFilter narrows a demand listing. Zero-value fields match all.
type DemandFilter struct {
	ProjectID string
	TileID    string
}

// DemandRepository provides access to purchasing demands
type DemandRepository interface {
	Create(ctx context.Context, demand *entities.Demand) (*entities.Demand, error)
	List(ctx context.Context, filter DemandFilter) ([]*entities.Demand, error)
}
