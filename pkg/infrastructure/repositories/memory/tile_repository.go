package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/kamilarndt/fabmanage/pkg/domain/entities"
	"github.com/kamilarndt/fabmanage/pkg/domain/repositories"
)

// TileRepository provides in-memory tile storage. It mirrors the
// behavior of the remote collection API closely enough to stand in for
// it in tests and offline runs: status updates re-derive progress and
// stamp lifecycle timestamps on the stored copy.
type TileRepository struct {
	mu    sync.RWMutex
	tiles map[string]*entities.Tile
	now   func() time.Time
}

// NewTileRepository creates a new in-memory tile repository
func NewTileRepository() *TileRepository {
	return &TileRepository{
		tiles: make(map[string]*entities.Tile),
		now:   time.Now,
	}
}

// Verify interface compliance
var _ repositories.TileRepository = (*TileRepository)(nil)

// FetchAll returns the full collection, ordered by id.
func (r *TileRepository) FetchAll(ctx context.Context) ([]*entities.Tile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*entities.Tile, 0, len(r.tiles))
	for _, t := range r.tiles {
		out = append(out, t.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Create stores a new tile
func (r *TileRepository) Create(ctx context.Context, tile *entities.Tile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tiles[tile.ID]; exists {
		return fmt.Errorf("tile already exists: %s", tile.ID)
	}
	r.tiles[tile.ID] = tile.Clone()
	return nil
}

// SaveAll overwrites the whole collection
func (r *TileRepository) SaveAll(ctx context.Context, tiles []*entities.Tile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tiles = make(map[string]*entities.Tile, len(tiles))
	for _, t := range tiles {
		r.tiles[t.ID] = t.Clone()
	}
	return nil
}

// UpdateStatus moves one tile to a new stage, re-deriving progress and
// stamping startTime on entering production and completedTime on
// leaving it.
func (r *TileRepository) UpdateStatus(ctx context.Context, id string, stage entities.Stage, source entities.View) (*entities.Tile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tile, ok := r.tiles[id]
	if !ok {
		return nil, fmt.Errorf("tile not found: %s", id)
	}

	tile.Stage = stage
	tile.Progress = stage.Progress()
	switch stage {
	case entities.StageCncProduction:
		now := r.now()
		tile.StartTime = &now
	case entities.StageReadyForAssembly, entities.StageDone:
		now := r.now()
		tile.CompletedTime = &now
	}
	return tile.Clone(), nil
}

// Update merges a partial field update into the stored tile
func (r *TileRepository) Update(ctx context.Context, id string, patch entities.TilePatch) (*entities.Tile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tile, ok := r.tiles[id]
	if !ok {
		return nil, fmt.Errorf("tile not found: %s", id)
	}
	tile.Apply(patch)
	return tile.Clone(), nil
}
