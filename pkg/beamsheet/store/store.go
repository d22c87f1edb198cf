// Package store is the canonical record store: one SQLite row per tagged beam,
// carrying its group settings, geometry and report position.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// ErrStoreWriteFailed indicates a rebuild or position update could not be committed.
var ErrStoreWriteFailed = errors.New("store write failed")

// Store wraps the SQLite database holding the beams table.
type Store struct {
	db   *sql.DB
	path string
	log  *zap.Logger
}

// Open creates or opens the store at path and brings its schema up to date.
// Stores written by older versions are migrated in place.
func Open(path string, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// One writer, strictly sequential use.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	s := &Store{db: db, path: path, log: log}
	if err := s.migrate(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// DB returns the underlying sql.DB.
func (s *Store) DB() *sql.DB {
	return s.db
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	return nil
}

// SchemaVersion returns the applied migration level.
func (s *Store) SchemaVersion(ctx context.Context) (int, error) {
	return userVersion(ctx, s.db)
}

// Columns returns the beams table columns in table order.
func (s *Store) Columns(ctx context.Context) ([]string, error) {
	cols, err := tableColumns(ctx, s.db, beamsTable)
	if err != nil {
		return nil, err
	}
	return cols, nil
}

// Reset drops every record and recreates the empty schema.
func (s *Store) Reset(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreWriteFailed, err)
	}
	defer tx.Rollback()
	if err := recreate(ctx, tx); err != nil {
		return fmt.Errorf("%w: reset: %v", ErrStoreWriteFailed, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: reset commit: %v", ErrStoreWriteFailed, err)
	}
	s.log.Info("store reset", zap.String("path", s.path))
	return nil
}
