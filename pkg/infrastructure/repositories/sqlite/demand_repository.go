package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kamilarndt/fabmanage/pkg/domain/entities"
	"github.com/kamilarndt/fabmanage/pkg/domain/repositories"
)

// DemandRepository provides SQLite-backed demand storage
type DemandRepository struct {
	db *sql.DB
}

// NewDemandRepository creates a demand repository on an open database
func NewDemandRepository(db *sql.DB) *DemandRepository {
	return &DemandRepository{db: db}
}

// Verify interface compliance
var _ repositories.DemandRepository = (*DemandRepository)(nil)

// Create stores a new demand
func (r *DemandRepository) Create(ctx context.Context, demand *entities.Demand) (*entities.Demand, error) {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO demands (id, tile_id, project_id, material_id, name, required_qty, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		demand.ID, demand.TileID, demand.ProjectID, demand.MaterialID,
		demand.Name, demand.RequiredQty.String(), demand.Status.String(),
		demand.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return nil, fmt.Errorf("inserting demand %s: %w", demand.ID, err)
	}
	cp := *demand
	return &cp, nil
}

// List returns demands matching the filter, ordered by creation time.
func (r *DemandRepository) List(ctx context.Context, filter repositories.DemandFilter) ([]*entities.Demand, error) {
	query := `SELECT id, tile_id, project_id, material_id, name, required_qty, status, created_at
		FROM demands WHERE 1=1`
	var args []interface{}
	if filter.ProjectID != "" {
		query += ` AND project_id = ?`
		args = append(args, filter.ProjectID)
	}
	if filter.TileID != "" {
		query += ` AND tile_id = ?`
		args = append(args, filter.TileID)
	}
	query += ` ORDER BY created_at, id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying demands: %w", err)
	}
	defer rows.Close()

	var demands []*entities.Demand
	for rows.Next() {
		var d entities.Demand
		var qty, status, createdAt string
		if err := rows.Scan(&d.ID, &d.TileID, &d.ProjectID, &d.MaterialID,
			&d.Name, &qty, &status, &createdAt); err != nil {
			return nil, err
		}
		if d.RequiredQty, err = decimal.NewFromString(qty); err != nil {
			return nil, fmt.Errorf("demand %s: parsing quantity %q: %w", d.ID, qty, err)
		}
		parsed, ok := entities.ParseDemandStatus(status)
		if !ok {
			return nil, fmt.Errorf("demand %s: unknown status %q", d.ID, status)
		}
		d.Status = parsed
		if d.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, fmt.Errorf("demand %s: parsing created_at: %w", d.ID, err)
		}
		demands = append(demands, &d)
	}
	return demands, rows.Err()
}
