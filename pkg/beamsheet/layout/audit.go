package layout

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"
)

// EMUPerPixel is the number of EMUs (English Metric Units) per pixel at 96 DPI.
const EMUPerPixel = 9525

// EMUToPixels converts EMU to pixels at 96 DPI.
func EMUToPixels(emu int64) int {
	return int(emu / EMUPerPixel)
}

// TemplateObject is a drawing object on the template sheet that a cell copy
// does not carry over.
type TemplateObject struct {
	// Kind is shape, connector, picture, chart or group.
	Kind string `json:"kind"`
	// Name is the object's name in the drawing.
	Name string `json:"name"`
	// Anchor is the anchor type: twoCell, oneCell or absolute.
	Anchor string `json:"anchor"`
	// Cell is the top-left anchor cell; empty for absolute anchors.
	Cell string `json:"cell,omitempty"`
	// Left and Top are the pixel position of absolute anchors.
	Left int `json:"left,omitempty"`
	Top  int `json:"top,omitempty"`
}

type drawingXML struct {
	TwoCell  []anchorXML `xml:"twoCellAnchor"`
	OneCell  []anchorXML `xml:"oneCellAnchor"`
	Absolute []anchorXML `xml:"absoluteAnchor"`
}

type markerXML struct {
	Col int `xml:"col"`
	Row int `xml:"row"`
}

type objectXML struct {
	Children []struct {
		XMLName xml.Name
		CNvPr   *struct {
			Name string `xml:"name,attr"`
		} `xml:"cNvPr"`
	} `xml:",any"`
}

func (o *objectXML) name() string {
	for _, c := range o.Children {
		if c.CNvPr != nil {
			return c.CNvPr.Name
		}
	}
	return ""
}

type anchorXML struct {
	From *markerXML `xml:"from"`
	Pos  *struct {
		X int64 `xml:"x,attr"`
		Y int64 `xml:"y,attr"`
	} `xml:"pos"`
	Sp           *objectXML `xml:"sp"`
	CxnSp        *objectXML `xml:"cxnSp"`
	Pic          *objectXML `xml:"pic"`
	GraphicFrame *objectXML `xml:"graphicFrame"`
	GrpSp        *objectXML `xml:"grpSp"`
}

func (a *anchorXML) object() (string, string) {
	switch {
	case a.Sp != nil:
		return "shape", a.Sp.name()
	case a.CxnSp != nil:
		return "connector", a.CxnSp.name()
	case a.Pic != nil:
		return "picture", a.Pic.name()
	case a.GraphicFrame != nil:
		return "chart", a.GraphicFrame.name()
	case a.GrpSp != nil:
		return "group", a.GrpSp.name()
	}
	return "unknown", ""
}

// AuditTemplate lists the drawing objects of the template sheet anchored inside
// the template block, plus absolutely anchored ones whose cell is unknown.
// An empty sheet means the first sheet of the workbook.
func AuditTemplate(path, sheet string) ([]TemplateObject, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrTemplateNotFound, path, err)
	}
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	sheetPath, err := findSheetPath(&r.Reader, sheet)
	if err != nil {
		return nil, err
	}
	relsPath := strings.Replace(sheetPath, "worksheets/", "worksheets/_rels/", 1) + ".rels"
	relsXML, err := readZipFile(&r.Reader, relsPath)
	if err != nil {
		return nil, err
	}
	target := findDrawingRelationship(relsXML)
	if target == "" {
		return nil, nil
	}
	data, err := readZipFile(&r.Reader, resolveRelativePath(target, "xl/drawings"))
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}
	var dr drawingXML
	if err := xml.Unmarshal(data, &dr); err != nil {
		return nil, fmt.Errorf("parse drawing: %w", err)
	}

	var out []TemplateObject
	cellAnchors := func(kind string, anchors []anchorXML) {
		for _, a := range anchors {
			if a.From == nil || !TemplateBlock.Contains(a.From.Col+1, a.From.Row+1) {
				continue
			}
			objKind, name := a.object()
			cell, _ := excelize.CoordinatesToCellName(a.From.Col+1, a.From.Row+1)
			out = append(out, TemplateObject{Kind: objKind, Name: name, Anchor: kind, Cell: cell})
		}
	}
	cellAnchors("twoCell", dr.TwoCell)
	cellAnchors("oneCell", dr.OneCell)
	for _, a := range dr.Absolute {
		objKind, name := a.object()
		obj := TemplateObject{Kind: objKind, Name: name, Anchor: "absolute"}
		if a.Pos != nil {
			obj.Left, obj.Top = EMUToPixels(a.Pos.X), EMUToPixels(a.Pos.Y)
		}
		out = append(out, obj)
	}
	return out, nil
}

// findSheetPath returns the part path of the named sheet (or the first sheet).
func findSheetPath(r *zip.Reader, sheet string) (string, error) {
	workbookXML, err := readZipFile(r, "xl/workbook.xml")
	if err != nil || workbookXML == nil {
		return "", fmt.Errorf("read workbook part: %v", err)
	}
	relsXML, err := readZipFile(r, "xl/_rels/workbook.xml.rels")
	if err != nil || relsXML == nil {
		return "", fmt.Errorf("read workbook relationships: %v", err)
	}
	sheets := parseWorkbookSheets(workbookXML)
	if len(sheets) == 0 {
		return "", fmt.Errorf("%w: workbook has no sheets", ErrTemplateNotFound)
	}
	rID := ""
	for _, s := range sheets {
		if sheet == "" || strings.EqualFold(s.name, sheet) {
			rID = s.rID
			break
		}
	}
	if rID == "" {
		return "", fmt.Errorf("%w: sheet %q", ErrTemplateNotFound, sheet)
	}
	path := parseWorkbookRels(relsXML)[rID]
	if path == "" {
		return "", fmt.Errorf("sheet %q has no worksheet part", sheet)
	}
	return path, nil
}

func readZipFile(r *zip.Reader, name string) ([]byte, error) {
	for _, f := range r.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}
	return nil, nil
}

func resolveRelativePath(target, baseDir string) string {
	if strings.HasPrefix(target, "../") {
		clean := target
		for strings.HasPrefix(clean, "../") {
			clean = strings.TrimPrefix(clean, "../")
		}
		return "xl/" + clean
	}
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return baseDir + "/" + target
}

type sheetRef struct {
	name string
	rID  string
}

// parseWorkbookSheets returns the sheets of workbook.xml in workbook order.
func parseWorkbookSheets(data []byte) []sheetRef {
	var result []sheetRef
	decoder := xml.NewDecoder(strings.NewReader(string(data)))

	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		if se, ok := token.(xml.StartElement); ok && se.Name.Local == "sheet" {
			var ref sheetRef
			for _, attr := range se.Attr {
				switch attr.Name.Local {
				case "name":
					ref.name = attr.Value
				case "id":
					ref.rID = attr.Value
				}
			}
			if ref.name != "" && ref.rID != "" {
				result = append(result, ref)
			}
		}
	}

	return result
}

// parseWorkbookRels maps relationship id to worksheet part path.
func parseWorkbookRels(data []byte) map[string]string {
	result := make(map[string]string)
	decoder := xml.NewDecoder(strings.NewReader(string(data)))

	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		if se, ok := token.(xml.StartElement); ok && se.Name.Local == "Relationship" {
			var rID, target string
			for _, attr := range se.Attr {
				switch attr.Name.Local {
				case "Id":
					rID = attr.Value
				case "Target":
					target = attr.Value
				}
			}
			if strings.Contains(strings.ToLower(target), "worksheet") {
				result[rID] = resolveRelativePath(target, "xl")
			}
		}
	}

	return result
}

func findDrawingRelationship(data []byte) string {
	decoder := xml.NewDecoder(strings.NewReader(string(data)))

	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		if se, ok := token.(xml.StartElement); ok && se.Name.Local == "Relationship" {
			var relType, target string
			for _, attr := range se.Attr {
				switch attr.Name.Local {
				case "Type":
					relType = attr.Value
				case "Target":
					target = attr.Value
				}
			}
			if strings.HasSuffix(strings.ToLower(relType), "/drawing") {
				return target
			}
		}
	}

	return ""
}
