package layout

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestAuditTemplate(t *testing.T) {
	f := newTemplateFile(t)
	if err := f.AddShape("Sheet1", &excelize.Shape{Cell: "C3", Type: "rect"}); err != nil {
		t.Fatalf("AddShape failed: %v", err)
	}
	if err := f.AddShape("Sheet1", &excelize.Shape{Cell: "BE60", Type: "ellipse"}); err != nil {
		t.Fatalf("AddShape failed: %v", err)
	}
	path := filepath.Join(t.TempDir(), "template.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs failed: %v", err)
	}
	f.Close()

	objects, err := AuditTemplate(path, "")
	if err != nil {
		t.Fatalf("AuditTemplate failed: %v", err)
	}
	if len(objects) != 1 {
		t.Fatalf("expected one object inside the block, got %+v", objects)
	}
	if objects[0].Kind != "shape" || objects[0].Cell != "C3" || objects[0].Anchor != "twoCell" {
		t.Errorf("unexpected object %+v", objects[0])
	}
	if objects[0].Name == "" {
		t.Error("expected the shape name")
	}
}

func TestAuditTemplateWithoutDrawings(t *testing.T) {
	f := newTemplateFile(t)
	path := filepath.Join(t.TempDir(), "template.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs failed: %v", err)
	}
	f.Close()

	objects, err := AuditTemplate(path, "Sheet1")
	if err != nil {
		t.Fatalf("AuditTemplate failed: %v", err)
	}
	if len(objects) != 0 {
		t.Errorf("expected no objects, got %v", objects)
	}
}

func TestAuditTemplateErrors(t *testing.T) {
	if _, err := AuditTemplate(filepath.Join(t.TempDir(), "none.xlsx"), ""); !errors.Is(err, ErrTemplateNotFound) {
		t.Errorf("missing file: got %v", err)
	}

	f := newTemplateFile(t)
	path := filepath.Join(t.TempDir(), "template.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs failed: %v", err)
	}
	f.Close()
	if _, err := AuditTemplate(path, "Other"); !errors.Is(err, ErrTemplateNotFound) {
		t.Errorf("missing sheet: got %v", err)
	}
}

func TestResolveRelativePath(t *testing.T) {
	tests := []struct {
		target, base, want string
	}{
		{"../drawings/drawing1.xml", "xl/drawings", "xl/drawings/drawing1.xml"},
		{"worksheets/sheet1.xml", "xl", "xl/worksheets/sheet1.xml"},
		{"/xl/worksheets/sheet2.xml", "xl", "xl/worksheets/sheet2.xml"},
	}
	for _, tt := range tests {
		if got := resolveRelativePath(tt.target, tt.base); got != tt.want {
			t.Errorf("resolveRelativePath(%q, %q) = %q, want %q", tt.target, tt.base, got, tt.want)
		}
	}
}

func TestEMUToPixels(t *testing.T) {
	if got := EMUToPixels(914400); got != 96 {
		t.Errorf("EMUToPixels(914400) = %d, want 96", got)
	}
}
