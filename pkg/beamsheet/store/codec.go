package store

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/ukaji3/beamsheet-go/pkg/beamsheet/grouping"
	"github.com/ukaji3/beamsheet-go/pkg/beamsheet/models"
	"go.uber.org/zap"
)

// Values cross the storage boundary here: flags become "True"/"False" text,
// lists and geometry sub-records become JSON text.

func encodeJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}

func decodeJSON(log *zap.Logger, beam, column string, s sql.NullString, v any) {
	if !s.Valid || s.String == "" {
		return
	}
	if err := json.Unmarshal([]byte(s.String), v); err != nil {
		log.Warn("corrupt column value",
			zap.String("beam", beam),
			zap.String("column", column),
			zap.Error(err))
	}
}

func encodeTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func decodeTime(s sql.NullString) time.Time {
	if !s.Valid || s.String == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s.String)
	if err != nil {
		return time.Time{}
	}
	return t
}

func flag(s sql.NullString) bool {
	return s.Valid && grouping.ParseFlag(s.String)
}

func text(s sql.NullString) string {
	if !s.Valid {
		return ""
	}
	return s.String
}

func settingsArgs(s models.Settings) []any {
	return []any{
		string(s.Resistance),
		grouping.FormatFlag(s.DCL),
		grouping.FormatFlag(s.DCM),
		grouping.FormatFlag(s.DCH),
		grouping.FormatFlag(s.Secondary),
		grouping.FormatFlag(s.DirX),
		grouping.FormatFlag(s.DirY),
		encodeJSON(nonNil(s.CombinationsUpper)),
		encodeJSON(nonNil(s.CombinationsLower)),
		encodeTime(s.SelectedAt),
	}
}

func nonNil(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
