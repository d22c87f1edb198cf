// Package output renders beamsheet data as JSON or text tables.
package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ukaji3/beamsheet-go/pkg/beamsheet/models"
)

// ToJSON serializes v, indented when pretty is set.
func ToJSON(v any, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}

// SheetToJSON serializes one scanned report sheet.
func SheetToJSON(sheet *models.ReportSheet, pretty bool) ([]byte, error) {
	return ToJSON(sheet, pretty)
}

// WriteSheetFiles writes every scanned sheet to dir as <sheet>.json.
func WriteSheetFiles(data *models.ReportData, dir string, pretty bool) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	for sheetName, sheet := range data.Sheets {
		jsonData, err := SheetToJSON(&sheet, pretty)
		if err != nil {
			return err
		}

		filename := filepath.Join(dir, safeFileName(sheetName)+".json")
		if err := os.WriteFile(filename, jsonData, 0644); err != nil {
			return fmt.Errorf("write %s: %w", filename, err)
		}
	}

	return nil
}

// safeFileName replaces path separators and other characters that are
// invalid in Windows file names.
func safeFileName(name string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(`<>:"/\|?*`, r) {
			return '_'
		}
		return r
	}, name)
}
