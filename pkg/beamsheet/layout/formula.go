package layout

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

var cellRefPattern = regexp.MustCompile(`(\$?)([A-Za-z]{1,3})(\$?)([0-9]+)`)

// ShiftFormula moves the relative cell references of formula by dc columns and
// dr rows. Absolute parts ($A, $1), string literals and function names are left
// alone; a reference shifted before A1 becomes #REF!.
func ShiftFormula(formula string, dc, dr int) string {
	if dc == 0 && dr == 0 {
		return formula
	}
	var b strings.Builder
	inString := false
	start := 0
	for i := 0; i < len(formula); i++ {
		if formula[i] != '"' {
			continue
		}
		if !inString {
			b.WriteString(shiftSegment(formula[start:i], dc, dr))
			start = i
		} else {
			b.WriteString(formula[start : i+1])
			start = i + 1
		}
		inString = !inString
	}
	if inString {
		b.WriteString(formula[start:])
	} else {
		b.WriteString(shiftSegment(formula[start:], dc, dr))
	}
	return b.String()
}

func isNameByte(c byte) bool {
	return c == '_' || c == '.' || c >= '0' && c <= '9' || c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z'
}

func shiftSegment(seg string, dc, dr int) string {
	matches := cellRefPattern.FindAllStringSubmatchIndex(seg, -1)
	if matches == nil {
		return seg
	}
	var b strings.Builder
	last := 0
	for _, m := range matches {
		s, e := m[0], m[1]
		if s > 0 && isNameByte(seg[s-1]) {
			continue
		}
		if e < len(seg) && (isNameByte(seg[e]) || seg[e] == '(') {
			continue
		}
		colAbs := seg[m[2]:m[3]] == "$"
		colName := strings.ToUpper(seg[m[4]:m[5]])
		rowAbs := seg[m[6]:m[7]] == "$"
		row, err := strconv.Atoi(seg[m[8]:m[9]])
		if err != nil {
			continue
		}
		col, err := excelize.ColumnNameToNumber(colName)
		if err != nil {
			continue
		}
		b.WriteString(seg[last:s])
		last = e
		if !colAbs {
			col += dc
		}
		if !rowAbs {
			row += dr
		}
		if col < 1 || row < 1 || col > excelize.MaxColumns || row > excelize.TotalRows {
			b.WriteString("#REF!")
			continue
		}
		name, _ := excelize.ColumnNumberToName(col)
		if colAbs {
			b.WriteByte('$')
		}
		b.WriteString(name)
		if rowAbs {
			b.WriteByte('$')
		}
		b.WriteString(strconv.Itoa(row))
	}
	b.WriteString(seg[last:])
	return b.String()
}
