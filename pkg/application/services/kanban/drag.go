// Package kanban guards drag-and-drop status moves coming from a board
// view. Boards for both vocabularies can be mounted at once, so the
// guard is a per-tile in-flight set rather than a single flag.
package kanban

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/kamilarndt/fabmanage/pkg/application/services/lifecycle"
	"github.com/kamilarndt/fabmanage/pkg/domain/entities"
)

// DragController translates card drops on one board into status
// transitions. A drop on the column the tile already occupies is a
// no-op, and a tile with a move still in flight ignores further drops.
type DragController struct {
	store *lifecycle.Store
	view  entities.View
	log   zerolog.Logger

	mu       sync.Mutex
	inflight map[string]bool

	// onUpdating, when set, observes the in-flight set becoming
	// non-empty (true) and draining (false).
	onUpdating func(bool)
}

// NewDragController creates a controller for one board view.
func NewDragController(store *lifecycle.Store, view entities.View, log zerolog.Logger) *DragController {
	return &DragController{
		store:    store,
		view:     view,
		log:      log.With().Str("component", "kanban").Stringer("view", view).Logger(),
		inflight: make(map[string]bool),
	}
}

// OnUpdating registers the busy-state observer.
func (c *DragController) OnUpdating(fn func(bool)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onUpdating = fn
}

// InFlight reports whether the tile has a move in progress.
func (c *DragController) InFlight(tileID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inflight[tileID]
}

// HandleDrop applies the drop of a card onto a column. The column is
// identified by its status label in the board's vocabulary.
func (c *DragController) HandleDrop(ctx context.Context, tileID, columnStatus string) error {
	tile, ok := c.store.Get(tileID)
	if !ok {
		return lifecycle.ErrTileNotFound
	}
	if tile.ViewStatus(c.view) == columnStatus {
		return nil
	}

	if !c.begin(tileID) {
		c.log.Debug().Str("tile", tileID).Msg("drop ignored, move in flight")
		return nil
	}
	defer c.end(tileID)

	_, err := c.store.ApplyStatusTransition(ctx, tileID, columnStatus, c.view)
	return err
}

func (c *DragController) begin(tileID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inflight[tileID] {
		return false
	}
	c.inflight[tileID] = true
	if len(c.inflight) == 1 && c.onUpdating != nil {
		c.onUpdating(true)
	}
	return true
}

func (c *DragController) end(tileID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.inflight, tileID)
	if len(c.inflight) == 0 && c.onUpdating != nil {
		c.onUpdating(false)
	}
}
