package store

import (
	"context"
	"fmt"

	"github.com/ukaji3/beamsheet-go/pkg/beamsheet/models"
	"go.uber.org/zap"
)

// ApplyPositions stores the report position of each beam and returns how many
// rows were updated. Positions whose beam is not in the store are logged and
// skipped. All updates commit together.
func (s *Store) ApplyPositions(ctx context.Context, positions []models.BeamPosition) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: begin: %v", ErrStoreWriteFailed, err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`UPDATE beams SET excel_sheet = ?, excel_column = ?, excel_row = ? WHERE unique_id = ?`)
	if err != nil {
		return 0, fmt.Errorf("%w: prepare update: %v", ErrStoreWriteFailed, err)
	}
	defer stmt.Close()

	applied := 0
	for _, p := range positions {
		res, err := stmt.ExecContext(ctx, p.SheetName, p.Column, p.Row, p.UniqueID)
		if err != nil {
			return 0, fmt.Errorf("%w: update beam %s: %v", ErrStoreWriteFailed, p.UniqueID, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("%w: update beam %s: %v", ErrStoreWriteFailed, p.UniqueID, err)
		}
		if n == 0 {
			s.log.Warn("position for unknown beam skipped",
				zap.String("beam", p.UniqueID),
				zap.String("sheet", p.SheetName))
			continue
		}
		applied++
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%w: commit: %v", ErrStoreWriteFailed, err)
	}
	return applied, nil
}
