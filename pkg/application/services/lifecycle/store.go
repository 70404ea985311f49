// Package lifecycle holds the authoritative in-memory tile collection.
// Every board works against this one collection and re-derives its
// filtered view from it; persistence is fail-open, so the local state
// commits whether or not the backend write lands.
package lifecycle

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/kamilarndt/fabmanage/pkg/application/notify"
	"github.com/kamilarndt/fabmanage/pkg/domain/entities"
	"github.com/kamilarndt/fabmanage/pkg/domain/repositories"
	"github.com/kamilarndt/fabmanage/pkg/domain/services/statusmap"
	"github.com/kamilarndt/fabmanage/pkg/infrastructure/events"
)

// ErrTileNotFound is returned for operations on unknown tile ids.
var ErrTileNotFound = fmt.Errorf("tile not found")

// Config holds store behavior switches.
type Config struct {
	// LegacyCollectionCreate makes Create persist through the
	// whole-collection overwrite call instead of the per-entity create.
	// Compatibility shim for the old backend's traffic shape; lost
	// updates under concurrent editors are inherent to it.
	LegacyCollectionCreate bool
}

// Store is the authoritative collection of tile entities.
type Store struct {
	mu    sync.RWMutex
	tiles []*entities.Tile
	byID  map[string]*entities.Tile

	repo     repositories.TileRepository
	notifier notify.Notifier
	bus      *events.Bus
	log      zerolog.Logger
	cfg      Config

	background sync.WaitGroup
	now        func() time.Time
}

// NewStore creates a Store with default configuration.
func NewStore(repo repositories.TileRepository, notifier notify.Notifier, bus *events.Bus, log zerolog.Logger) *Store {
	return NewStoreWithConfig(repo, notifier, bus, log, Config{})
}

// NewStoreWithConfig creates a Store with custom configuration.
func NewStoreWithConfig(repo repositories.TileRepository, notifier notify.Notifier, bus *events.Bus, log zerolog.Logger, cfg Config) *Store {
	return &Store{
		byID:     make(map[string]*entities.Tile),
		repo:     repo,
		notifier: notifier,
		bus:      bus,
		log:      log.With().Str("component", "lifecycle").Logger(),
		cfg:      cfg,
		now:      time.Now,
	}
}

// Initialize loads the collection from the persistence collaborator.
func (s *Store) Initialize(ctx context.Context) error {
	tiles, err := s.repo.FetchAll(ctx)
	if err != nil {
		return fmt.Errorf("fetch tiles: %w", err)
	}
	s.replaceAll(tiles)
	s.log.Info().Int("tiles", len(tiles)).Msg("tile collection loaded")
	return nil
}

// Reconcile re-fetches the collection and adopts the server state,
// resolving any drift the fail-open writes accumulated in the backend's
// favor.
func (s *Store) Reconcile(ctx context.Context) error {
	return s.Initialize(ctx)
}

func (s *Store) replaceAll(tiles []*entities.Tile) {
	s.mu.Lock()
	s.tiles = tiles
	s.byID = make(map[string]*entities.Tile, len(tiles))
	for _, t := range tiles {
		s.byID[t.ID] = t
	}
	s.mu.Unlock()

	s.publish(events.TileCollectionReloadedEvent, "", events.TileCollectionReloaded{Count: len(tiles)})
}

// List returns a snapshot of the collection.
func (s *Store) List() []*entities.Tile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*entities.Tile, len(s.tiles))
	for i, t := range s.tiles {
		out[i] = t.Clone()
	}
	return out
}

// Get returns a copy of one tile.
func (s *Store) Get(id string) (*entities.Tile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.byID[id]
	if !ok {
		return nil, false
	}
	return t.Clone(), true
}

// ByStage returns tiles in one canonical stage.
func (s *Store) ByStage(stage entities.Stage) []*entities.Tile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*entities.Tile
	for _, t := range s.tiles {
		if t.Stage == stage {
			out = append(out, t.Clone())
		}
	}
	return out
}

// ByViewStatus returns the tiles a board column displays: the status is
// spelled in the view's vocabulary.
func (s *Store) ByViewStatus(status string, v entities.View) []*entities.Tile {
	stage, ok := statusmap.ToCanonical(status, v)
	if !ok {
		return nil
	}
	return s.ByStage(stage)
}

// ByProject returns the tiles of one project.
func (s *Store) ByProject(projectID string) []*entities.Tile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*entities.Tile
	for _, t := range s.tiles {
		if t.Project == projectID {
			out = append(out, t.Clone())
		}
	}
	return out
}

// Create appends the tile to the collection and persists it. The local
// append commits regardless of the persistence outcome; a failed write
// only surfaces a warning notification.
func (s *Store) Create(ctx context.Context, tile *entities.Tile) error {
	if tile == nil {
		return fmt.Errorf("tile cannot be nil")
	}
	if tile.ID == "" {
		return fmt.Errorf("tile id cannot be empty")
	}

	s.mu.Lock()
	if _, exists := s.byID[tile.ID]; exists {
		s.mu.Unlock()
		return fmt.Errorf("tile %s already exists", tile.ID)
	}
	stored := tile.Clone()
	stored.Progress = stored.Stage.Progress()
	s.tiles = append(s.tiles, stored)
	s.byID[stored.ID] = stored
	var snapshot []*entities.Tile
	if s.cfg.LegacyCollectionCreate {
		snapshot = make([]*entities.Tile, len(s.tiles))
		for i, t := range s.tiles {
			snapshot[i] = t.Clone()
		}
	}
	s.mu.Unlock()

	s.publish(events.TileCreatedEvent, stored.ID, events.TileCreated{Tile: stored.Clone()})

	s.background.Add(1)
	go func() {
		defer s.background.Done()
		var err error
		if s.cfg.LegacyCollectionCreate {
			err = s.repo.SaveAll(ctx, snapshot)
		} else {
			err = s.repo.Create(ctx, stored.Clone())
		}
		if err != nil {
			s.log.Warn().Err(err).Str("tile", stored.ID).Msg("tile create not persisted")
			s.notifier.Warning(fmt.Sprintf("Kafelek %s zapisany lokalnie, synchronizacja nie powiodła się", stored.ID))
		}
	}()

	return nil
}

// Wait blocks until background persistence work has drained.
func (s *Store) Wait() {
	s.background.Wait()
}

// QuickAdd creates a tile for the project with a derived id of the form
// <project>-T-<nnn>, numbered after the project's highest existing tile.
// It starts in the designing stage.
func (s *Store) QuickAdd(ctx context.Context, projectID, name string) (*entities.Tile, error) {
	s.mu.RLock()
	next := 1
	prefix := projectID + "-T-"
	for _, t := range s.tiles {
		if t.Project != projectID {
			continue
		}
		var n int
		if _, err := fmt.Sscanf(t.ID, prefix+"%d", &n); err == nil && n >= next {
			next = n + 1
		}
	}
	s.mu.RUnlock()

	tile, err := entities.NewTile(fmt.Sprintf("%s%03d", prefix, next), name, projectID, entities.StageDesigning)
	if err != nil {
		return nil, err
	}
	if err := s.Create(ctx, tile); err != nil {
		return nil, err
	}
	return tile, nil
}

// ApplyStatusTransition moves a tile to a new status arriving from
// either board. The new status is resolved to its canonical stage,
// progress is re-derived, entry timestamps are stamped, and the change
// commits locally whether or not the per-entity persistence call
// succeeds.
func (s *Store) ApplyStatusTransition(ctx context.Context, id, status string, source entities.View) (*entities.Tile, error) {
	stage, ok := statusmap.ToCanonical(status, source)
	if !ok {
		return nil, fmt.Errorf("unknown status %q from %v view", status, source)
	}

	s.mu.Lock()
	tile, exists := s.byID[id]
	if !exists {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrTileNotFound, id)
	}

	from := tile.Stage
	if !entities.CanTransition(from, stage) {
		// Permissive by policy: apply anyway, flag the jump.
		s.log.Warn().
			Str("tile", id).
			Stringer("from", from).
			Stringer("to", stage).
			Msg("transition outside the stage graph")
	}

	tile.Stage = stage
	tile.Progress = stage.Progress()
	switch stage {
	case entities.StageCncProduction:
		now := s.now()
		tile.StartTime = &now
	case entities.StageReadyForAssembly, entities.StageDone:
		now := s.now()
		tile.CompletedTime = &now
	}
	updated := tile.Clone()
	s.mu.Unlock()

	s.publish(events.TileStatusChangedEvent, id, events.TileStatusChanged{
		TileID:   id,
		From:     from,
		To:       stage,
		Source:   source,
		Progress: updated.Progress,
	})

	if _, err := s.repo.UpdateStatus(ctx, id, stage, source); err != nil {
		// Fail-open: local state already reflects the transition.
		s.log.Warn().Err(err).Str("tile", id).Stringer("to", stage).Msg("status not persisted")
		s.notifier.Warning(fmt.Sprintf("Status kafelka %s zmieniony lokalnie, zapis nie powiódł się", id))
	}

	return updated, nil
}

// UpdateTile merges a partial field update with the same fail-open
// semantics as a status transition. An illegal stage change inside the
// patch is stripped rather than applied.
func (s *Store) UpdateTile(ctx context.Context, id string, patch entities.TilePatch) (*entities.Tile, error) {
	s.mu.Lock()
	tile, exists := s.byID[id]
	if !exists {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrTileNotFound, id)
	}

	if patch.Stage != nil && !entities.CanTransition(tile.Stage, *patch.Stage) {
		s.log.Warn().
			Str("tile", id).
			Stringer("from", tile.Stage).
			Stringer("to", *patch.Stage).
			Msg("illegal stage change in field update dropped")
		patch.Stage = nil
	}

	tile.Apply(patch)
	updated := tile.Clone()
	s.mu.Unlock()

	s.publish(events.TileUpdatedEvent, id, events.TileUpdated{Tile: updated.Clone(), Patch: patch})

	if _, err := s.repo.Update(ctx, id, patch); err != nil {
		s.log.Warn().Err(err).Str("tile", id).Msg("tile update not persisted")
		s.notifier.Warning(fmt.Sprintf("Zmiany kafelka %s zapisane lokalnie, synchronizacja nie powiodła się", id))
	}

	return updated, nil
}

// PushApprovedToQueue transitions every approved tile of a project into
// the CNC queue, one persistence call per tile, and reports the count.
func (s *Store) PushApprovedToQueue(ctx context.Context, projectID string) (int, error) {
	var ids []string
	s.mu.RLock()
	for _, t := range s.tiles {
		if t.Project == projectID && t.Stage == entities.StagePendingApproval {
			ids = append(ids, t.ID)
		}
	}
	s.mu.RUnlock()

	for _, id := range ids {
		if _, err := s.ApplyStatusTransition(ctx, id, string(entities.ProjectCncQueue), entities.ViewProject); err != nil {
			return 0, err
		}
	}

	if len(ids) > 0 {
		s.notifier.Success(fmt.Sprintf("%d elementów przeniesiono do kolejki produkcji", len(ids)))
	}
	return len(ids), nil
}

func (s *Store) publish(eventType, streamID string, data interface{}) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(events.NewEvent(eventType, streamID, data))
}
