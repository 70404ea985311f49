package repositories

import (
	"context"

	"github.com/kamilarndt/fabmanage/pkg/domain/entities"
)

// TileRepository is the persistence collaborator behind the tile
// collection. Implementations are opaque to the lifecycle store: HTTP
// backend, sqlite, or in-memory.
type TileRepository interface {
	// FetchAll returns the full tile collection.
	FetchAll(ctx context.Context) ([]*entities.Tile, error)

	// Create persists a single new tile.
	Create(ctx context.Context, tile *entities.Tile) error

	// SaveAll overwrites the whole collection. Legacy path kept for
	// traffic parity with the old backend, which had no per-entity
	// create; prefer Create.
	SaveAll(ctx context.Context, tiles []*entities.Tile) error

	// UpdateStatus applies a per-entity status transition and returns
	// the updated tile as the backend sees it.
	UpdateStatus(ctx context.Context, id string, stage entities.Stage, source entities.View) (*entities.Tile, error)

	// Update applies a partial field update and returns the updated tile.
	Update(ctx context.Context, id string, patch entities.TilePatch) (*entities.Tile, error)
}
