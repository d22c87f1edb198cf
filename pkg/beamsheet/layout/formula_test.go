package layout

import "testing"

func TestShiftFormula(t *testing.T) {
	tests := []struct {
		name    string
		formula string
		dc, dr  int
		want    string
	}{
		{"no shift", "A1+B2", 0, 0, "A1+B2"},
		{"columns", "A1+B2", 40, 0, "AO1+AP2"},
		{"range", "SUM(Q2:Q10)", 40, 54, "SUM(BE56:BE64)"},
		{"absolute", "$A$1+A1", 1, 1, "$A$1+B2"},
		{"mixed", "$A1+A$1", 1, 1, "$A2+B$1"},
		{"string literal", `IF(A1="A1",1,0)`, 1, 0, `IF(B1="A1",1,0)`},
		{"function with digits", "LOG10(A1)", 1, 0, "LOG10(B1)"},
		{"function name", "ATAN2(A1,B1)", 0, 1, "ATAN2(A2,B2)"},
		{"sheet qualified", "Sheet1!A1", 1, 0, "Sheet1!B1"},
		{"exponent", "1E10*A1", 0, 1, "1E10*A2"},
		{"lowercase", "a1*2", 1, 0, "B1*2"},
		{"before A1", "A1+C3", -1, 0, "#REF!+B3"},
		{"unterminated string", `A1&"B2`, 0, 1, `A2&"B2`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShiftFormula(tt.formula, tt.dc, tt.dr); got != tt.want {
				t.Errorf("ShiftFormula(%q, %d, %d) = %q, want %q", tt.formula, tt.dc, tt.dr, got, tt.want)
			}
		})
	}
}
