package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kamilarndt/fabmanage/pkg/domain/entities"
	"github.com/kamilarndt/fabmanage/pkg/domain/repositories"
)

// TileRepository provides SQLite-backed tile storage
type TileRepository struct {
	db *sql.DB
}

// NewTileRepository creates a tile repository on an open database
func NewTileRepository(db *sql.DB) *TileRepository {
	return &TileRepository{db: db}
}

// Verify interface compliance
var _ repositories.TileRepository = (*TileRepository)(nil)

const tileColumns = `id, name, project, project_name, zone, assigned_to, priority,
	estimated_time, status, progress, bom, dxf_file, assembly_drawing, machine,
	notes, start_time, completed_time`

// FetchAll returns the full collection, ordered by id.
func (r *TileRepository) FetchAll(ctx context.Context) ([]*entities.Tile, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+tileColumns+` FROM tiles ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying tiles: %w", err)
	}
	defer rows.Close()

	var tiles []*entities.Tile
	for rows.Next() {
		tile, err := scanTile(rows)
		if err != nil {
			return nil, err
		}
		tiles = append(tiles, tile)
	}
	return tiles, rows.Err()
}

// Create stores a new tile
func (r *TileRepository) Create(ctx context.Context, tile *entities.Tile) error {
	return r.insert(ctx, r.db, tile)
}

// SaveAll overwrites the whole collection in one transaction
func (r *TileRepository) SaveAll(ctx context.Context, tiles []*entities.Tile) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM tiles`); err != nil {
		return fmt.Errorf("clearing tiles: %w", err)
	}
	for _, tile := range tiles {
		if err := r.insert(ctx, tx, tile); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// UpdateStatus moves one tile to a new stage, re-deriving progress and
// stamping the lifecycle timestamps the way the collection API does.
func (r *TileRepository) UpdateStatus(ctx context.Context, id string, stage entities.Stage, source entities.View) (*entities.Tile, error) {
	tile, err := r.get(ctx, id)
	if err != nil {
		return nil, err
	}

	tile.Stage = stage
	tile.Progress = stage.Progress()
	switch stage {
	case entities.StageCncProduction:
		now := time.Now()
		tile.StartTime = &now
	case entities.StageReadyForAssembly, entities.StageDone:
		now := time.Now()
		tile.CompletedTime = &now
	}

	if err := r.save(ctx, tile); err != nil {
		return nil, err
	}
	return tile, nil
}

// Update merges a partial field update into the stored tile
func (r *TileRepository) Update(ctx context.Context, id string, patch entities.TilePatch) (*entities.Tile, error) {
	tile, err := r.get(ctx, id)
	if err != nil {
		return nil, err
	}
	tile.Apply(patch)
	if err := r.save(ctx, tile); err != nil {
		return nil, err
	}
	return tile, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func (r *TileRepository) insert(ctx context.Context, ex execer, tile *entities.Tile) error {
	bom, err := json.Marshal(tile.BOM)
	if err != nil {
		return fmt.Errorf("encoding bom for %s: %w", tile.ID, err)
	}
	_, err = ex.ExecContext(ctx, `
		INSERT INTO tiles (`+tileColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		tile.ID, tile.Name, tile.Project, tile.ProjectName, tile.Zone,
		tile.AssignedTo, tile.Priority.String(), tile.EstimatedTime,
		string(tile.Stage.ProjectStatus()), tile.Progress, string(bom),
		tile.DxfFile, tile.AssemblyDrawing, tile.Machine, tile.Notes,
		encodeTime(tile.StartTime), encodeTime(tile.CompletedTime))
	if err != nil {
		return fmt.Errorf("inserting tile %s: %w", tile.ID, err)
	}
	return nil
}

func (r *TileRepository) save(ctx context.Context, tile *entities.Tile) error {
	bom, err := json.Marshal(tile.BOM)
	if err != nil {
		return fmt.Errorf("encoding bom for %s: %w", tile.ID, err)
	}
	_, err = r.db.ExecContext(ctx, `
		UPDATE tiles SET name = ?, project = ?, project_name = ?, zone = ?,
			assigned_to = ?, priority = ?, estimated_time = ?, status = ?,
			progress = ?, bom = ?, dxf_file = ?, assembly_drawing = ?,
			machine = ?, notes = ?, start_time = ?, completed_time = ?
		WHERE id = ?`,
		tile.Name, tile.Project, tile.ProjectName, tile.Zone, tile.AssignedTo,
		tile.Priority.String(), tile.EstimatedTime,
		string(tile.Stage.ProjectStatus()), tile.Progress, string(bom),
		tile.DxfFile, tile.AssemblyDrawing, tile.Machine, tile.Notes,
		encodeTime(tile.StartTime), encodeTime(tile.CompletedTime), tile.ID)
	if err != nil {
		return fmt.Errorf("updating tile %s: %w", tile.ID, err)
	}
	return nil
}

func (r *TileRepository) get(ctx context.Context, id string) (*entities.Tile, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+tileColumns+` FROM tiles WHERE id = ?`, id)
	tile, err := scanTile(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("tile not found: %s", id)
	}
	return tile, err
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanTile(row scanner) (*entities.Tile, error) {
	var tile entities.Tile
	var priority, status, bom string
	var startTime, completedTime sql.NullString

	err := row.Scan(&tile.ID, &tile.Name, &tile.Project, &tile.ProjectName,
		&tile.Zone, &tile.AssignedTo, &priority, &tile.EstimatedTime,
		&status, &tile.Progress, &bom, &tile.DxfFile, &tile.AssemblyDrawing,
		&tile.Machine, &tile.Notes, &startTime, &completedTime)
	if err != nil {
		return nil, err
	}

	if tile.Priority, err = entities.ParsePriority(priority); err != nil {
		return nil, fmt.Errorf("tile %s: %w", tile.ID, err)
	}
	stage, ok := entities.ParseProjectStatus(status)
	if !ok {
		return nil, fmt.Errorf("tile %s: unknown status %q", tile.ID, status)
	}
	tile.Stage = stage
	if err := json.Unmarshal([]byte(bom), &tile.BOM); err != nil {
		return nil, fmt.Errorf("tile %s: decoding bom: %w", tile.ID, err)
	}
	if tile.StartTime, err = decodeTime(startTime); err != nil {
		return nil, fmt.Errorf("tile %s: %w", tile.ID, err)
	}
	if tile.CompletedTime, err = decodeTime(completedTime); err != nil {
		return nil, fmt.Errorf("tile %s: %w", tile.ID, err)
	}
	return &tile, nil
}

func encodeTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func decodeTime(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s.String)
	if err != nil {
		return nil, fmt.Errorf("parsing time %q: %w", s.String, err)
	}
	return &t, nil
}
