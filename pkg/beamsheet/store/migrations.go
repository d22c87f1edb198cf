package store

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"
)

const beamsTable = "beams"

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type column struct {
	name string
	decl string
}

// migration is one schema step. Every step checks the current schema before
// acting, so applying it to a store that already has its changes is a no-op.
type migration struct {
	version int
	name    string
	apply   func(ctx context.Context, db execer) error
}

// Schema versions, tracked in PRAGMA user_version:
// 1 - beams table with identity, grouping and design parameters
// 2 - geometry and section property columns
// 3 - report position columns
var migrations = []migration{
	{1, "create beams table", createBeams},
	{2, "add geometry columns", addGeometryColumns},
	{3, "add excel position columns", addExcelPositionColumns},
}

// currentSchemaVersion is the version after every migration ran.
var currentSchemaVersion = migrations[len(migrations)-1].version

var geometryColumns = []column{
	{"length", "REAL NOT NULL DEFAULT 0"},
	{"end_joints", "TEXT"},
	{"section_props", "TEXT"},
	{"modifiers", "TEXT"},
	{"releases", "TEXT"},
	{"offsets", "TEXT"},
	{"steel", "TEXT"},
}

var excelPositionColumns = []column{
	{"excel_sheet", "TEXT"},
	{"excel_column", "TEXT"},
	{"excel_row", "INTEGER"},
}

func createBeams(ctx context.Context, db execer) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS beams (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			unique_id TEXT NOT NULL,
			label TEXT,
			guid TEXT,
			story TEXT,
			selected_story TEXT,
			section_name TEXT,
			material TEXT,
			scenario TEXT NOT NULL,
			group_id INTEGER NOT NULL,
			order_in_group INTEGER NOT NULL,
			resistance TEXT,
			dcl TEXT,
			dcm TEXT,
			dch TEXT,
			secondary TEXT,
			dir_x TEXT,
			dir_y TEXT,
			combinations_upper TEXT,
			combinations_lower TEXT,
			selected_at TEXT
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_beams_unique_id ON beams(unique_id)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_beams_group_order ON beams(scenario, group_id, order_in_group)`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func addGeometryColumns(ctx context.Context, db execer) error {
	return addColumns(ctx, db, beamsTable, geometryColumns)
}

func addExcelPositionColumns(ctx context.Context, db execer) error {
	return addColumns(ctx, db, beamsTable, excelPositionColumns)
}

// addColumns adds the columns missing from table.
func addColumns(ctx context.Context, db execer, table string, cols []column) error {
	existing, err := tableColumns(ctx, db, table)
	if err != nil {
		return err
	}
	have := make(map[string]bool, len(existing))
	for _, c := range existing {
		have[c] = true
	}
	for _, c := range cols {
		if have[c.name] {
			continue
		}
		stmt := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, c.name, c.decl)
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("add column %s: %w", c.name, err)
		}
	}
	return nil
}

// tableColumns returns the column names of table, or nil when it does not exist.
func tableColumns(ctx context.Context, db execer, table string) ([]string, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return nil, fmt.Errorf("table info %s: %w", table, err)
	}
	defer rows.Close()
	var cols []string
	for rows.Next() {
		var (
			cid     int
			name    string
			typ     string
			notNull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &dflt, &pk); err != nil {
			return nil, err
		}
		cols = append(cols, name)
	}
	return cols, rows.Err()
}

func userVersion(ctx context.Context, db execer) (int, error) {
	var version int
	if err := db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("get user_version: %w", err)
	}
	return version, nil
}

func setUserVersion(ctx context.Context, db execer, version int) error {
	if _, err := db.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", version)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}
	return nil
}

// migrate applies, in order, every migration newer than the stored version.
func (s *Store) migrate(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	version, err := userVersion(ctx, tx)
	if err != nil {
		return err
	}
	if err := applyFrom(ctx, tx, version); err != nil {
		return err
	}
	if version < currentSchemaVersion {
		s.log.Info("store migrated",
			zap.Int("from", version),
			zap.Int("to", currentSchemaVersion))
	}
	return tx.Commit()
}

func applyFrom(ctx context.Context, db execer, version int) error {
	for _, m := range migrations {
		if m.version <= version {
			continue
		}
		if err := m.apply(ctx, db); err != nil {
			return fmt.Errorf("migration %d (%s): %w", m.version, m.name, err)
		}
		if err := setUserVersion(ctx, db, m.version); err != nil {
			return err
		}
	}
	return nil
}

// recreate drops the beams table and builds the current schema from scratch.
func recreate(ctx context.Context, db execer) error {
	if _, err := db.ExecContext(ctx, "DROP TABLE IF EXISTS beams"); err != nil {
		return err
	}
	return applyFrom(ctx, db, 0)
}

// EnsureExcelPositionColumns adds the report position columns when missing.
// It is safe to call repeatedly and on stores of any version.
func (s *Store) EnsureExcelPositionColumns(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreWriteFailed, err)
	}
	defer tx.Rollback()
	if err := createBeams(ctx, tx); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreWriteFailed, err)
	}
	if err := addExcelPositionColumns(ctx, tx); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreWriteFailed, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreWriteFailed, err)
	}
	return nil
}
