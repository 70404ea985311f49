// Package sqlite stores the tile and demand collections in a local
// SQLite database, the durable fallback when no remote collection API
// is configured.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS tiles (
	id             TEXT PRIMARY KEY,
	name           TEXT NOT NULL,
	project        TEXT NOT NULL,
	project_name   TEXT NOT NULL DEFAULT '',
	zone           TEXT NOT NULL DEFAULT '',
	assigned_to    TEXT NOT NULL DEFAULT '',
	priority       TEXT NOT NULL DEFAULT 'Średni',
	estimated_time TEXT NOT NULL DEFAULT '',
	status         TEXT NOT NULL,
	progress       INTEGER NOT NULL DEFAULT 0,
	bom            TEXT NOT NULL DEFAULT '[]',
	dxf_file       TEXT NOT NULL DEFAULT '',
	assembly_drawing TEXT NOT NULL DEFAULT '',
	machine        TEXT NOT NULL DEFAULT '',
	notes          TEXT NOT NULL DEFAULT '',
	start_time     TEXT,
	completed_time TEXT
);

CREATE TABLE IF NOT EXISTS demands (
	id           TEXT PRIMARY KEY,
	tile_id      TEXT NOT NULL,
	project_id   TEXT NOT NULL DEFAULT '',
	material_id  TEXT NOT NULL,
	name         TEXT NOT NULL DEFAULT '',
	required_qty TEXT NOT NULL,
	status       TEXT NOT NULL DEFAULT 'pending',
	created_at   TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_demands_tile ON demands(tile_id);
CREATE INDEX IF NOT EXISTS idx_demands_project ON demands(project_id);
`

// Open opens (or creates) the database at path and applies the schema.
// WAL plus a busy timeout keeps concurrent local access from tripping
// over "database is locked".
func Open(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout=5000&_pragma=journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}
	return db, nil
}
