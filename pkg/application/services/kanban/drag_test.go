package kanban

import (
	"context"
	"runtime"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/kamilarndt/fabmanage/pkg/application/notify"
	"github.com/kamilarndt/fabmanage/pkg/application/services/lifecycle"
	"github.com/kamilarndt/fabmanage/pkg/domain/entities"
	"github.com/kamilarndt/fabmanage/pkg/domain/repositories"
	"github.com/kamilarndt/fabmanage/pkg/infrastructure/events"
)

type stubRepo struct {
	mu          sync.Mutex
	tiles       []*entities.Tile
	statusCalls int

	// blockStatus, when non-nil, holds UpdateStatus until closed.
	blockStatus chan struct{}
}

var _ repositories.TileRepository = (*stubRepo)(nil)

func (r *stubRepo) FetchAll(ctx context.Context) ([]*entities.Tile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entities.Tile, len(r.tiles))
	for i, t := range r.tiles {
		out[i] = t.Clone()
	}
	return out, nil
}

func (r *stubRepo) Create(ctx context.Context, tile *entities.Tile) error {
	return nil
}

func (r *stubRepo) SaveAll(ctx context.Context, tiles []*entities.Tile) error {
	return nil
}

func (r *stubRepo) UpdateStatus(ctx context.Context, id string, stage entities.Stage, source entities.View) (*entities.Tile, error) {
	r.mu.Lock()
	block := r.blockStatus
	r.statusCalls++
	r.mu.Unlock()
	if block != nil {
		<-block
	}
	return nil, nil
}

func (r *stubRepo) Update(ctx context.Context, id string, patch entities.TilePatch) (*entities.Tile, error) {
	return nil, nil
}

func (r *stubRepo) calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.statusCalls
}

func newBoard(t *testing.T, view entities.View, tiles ...*entities.Tile) (*DragController, *stubRepo, *lifecycle.Store) {
	t.Helper()
	repo := &stubRepo{tiles: tiles}
	store := lifecycle.NewStore(repo, notify.NewRecorder(), events.NewBus(), zerolog.Nop())
	if err := store.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	return NewDragController(store, view, zerolog.Nop()), repo, store
}

func queuedTile(id string) *entities.Tile {
	tile, err := entities.NewTile(id, "Panel "+id, "P-001", entities.StageCncQueue)
	if err != nil {
		panic(err)
	}
	return tile
}

func TestHandleDrop_MovesTile(t *testing.T) {
	board, repo, store := newBoard(t, entities.ViewCNC, queuedTile("T-001"))

	if err := board.HandleDrop(context.Background(), "T-001", "W TRAKCIE CIĘCIA"); err != nil {
		t.Fatalf("drop: %v", err)
	}

	tile, _ := store.Get("T-001")
	if tile.Stage != entities.StageCncProduction {
		t.Errorf("stage = %v, want %v", tile.Stage, entities.StageCncProduction)
	}
	if repo.calls() != 1 {
		t.Errorf("persistence calls = %d, want 1", repo.calls())
	}
}

func TestHandleDrop_SameColumnIsNoOp(t *testing.T) {
	board, repo, _ := newBoard(t, entities.ViewCNC, queuedTile("T-001"))

	if err := board.HandleDrop(context.Background(), "T-001", "W KOLEJCE"); err != nil {
		t.Fatalf("drop: %v", err)
	}
	if repo.calls() != 0 {
		t.Errorf("same-column drop reached persistence, calls = %d", repo.calls())
	}
}

func TestHandleDrop_UnknownTile(t *testing.T) {
	board, _, _ := newBoard(t, entities.ViewCNC)

	if err := board.HandleDrop(context.Background(), "T-404", "W KOLEJCE"); err == nil {
		t.Error("expected error for unknown tile")
	}
}

func TestHandleDrop_IgnoresWhileInFlight(t *testing.T) {
	board, repo, _ := newBoard(t, entities.ViewCNC, queuedTile("T-001"))
	repo.blockStatus = make(chan struct{})

	started := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		close(started)
		done <- board.HandleDrop(context.Background(), "T-001", "W TRAKCIE CIĘCIA")
	}()
	<-started
	for repo.calls() == 0 {
		runtime.Gosched() // wait for the first move to reach persistence
	}

	if !board.InFlight("T-001") {
		t.Error("tile not marked in flight during move")
	}
	if err := board.HandleDrop(context.Background(), "T-001", "WYCIĘTE"); err != nil {
		t.Fatalf("second drop: %v", err)
	}
	if got := repo.calls(); got != 1 {
		t.Errorf("persistence calls = %d, drop during in-flight move must be ignored", got)
	}

	close(repo.blockStatus)
	if err := <-done; err != nil {
		t.Fatalf("first drop: %v", err)
	}
	if board.InFlight("T-001") {
		t.Error("tile still in flight after move finished")
	}
}

func TestOnUpdating_SignalsBusyState(t *testing.T) {
	board, _, _ := newBoard(t, entities.ViewProject, queuedTile("T-001"))

	var signals []bool
	board.OnUpdating(func(busy bool) { signals = append(signals, busy) })

	if err := board.HandleDrop(context.Background(), "T-001", "W produkcji CNC"); err != nil {
		t.Fatalf("drop: %v", err)
	}

	if len(signals) != 2 || !signals[0] || signals[1] {
		t.Errorf("updating signals = %v, want [true false]", signals)
	}
}
