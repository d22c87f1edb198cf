package output

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/ukaji3/beamsheet-go/pkg/beamsheet/grouping"
	"github.com/ukaji3/beamsheet-go/pkg/beamsheet/layout"
	"github.com/ukaji3/beamsheet-go/pkg/beamsheet/models"
)

const rule = "───────────────────────────────────────────────────────────────"

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// flags renders the design-check and direction flags that are on.
func flags(s models.Settings) string {
	var on []string
	for _, f := range []struct {
		name string
		v    bool
	}{
		{"DCL", s.DCL}, {"DCM", s.DCM}, {"DCH", s.DCH},
		{"Secundare", s.Secondary}, {"Dir X", s.DirX}, {"Dir Y", s.DirY},
	} {
		if f.v {
			on = append(on, f.name)
		}
	}
	if len(on) == 0 {
		return "-"
	}
	return strings.Join(on, ", ")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// WriteSummary writes the per-scenario group and beam tables.
func WriteSummary(w io.Writer, s *models.Summary) error {
	if len(s.Scenarios) == 0 {
		_, err := fmt.Fprintln(w, "No groups selected.")
		return err
	}
	for _, sc := range s.Scenarios {
		fmt.Fprintf(w, "%s (%s): %d groups, %d beams\n", strings.ToUpper(sc.Name), sc.Scenario, sc.GroupCount, sc.TotalBeams)
		fmt.Fprintln(w, rule)
		for _, g := range sc.Groups {
			tw := newTable(w)
			fmt.Fprintf(tw, "  Group %d\t%s\n", g.GroupID, g.SheetName)
			fmt.Fprintf(tw, "  Story:\t%s\n", orDash(g.Settings.Story))
			fmt.Fprintf(tw, "  Resistance:\t%s\n", orDash(string(g.Settings.Resistance)))
			fmt.Fprintf(tw, "  Flags:\t%s\n", flags(g.Settings))
			fmt.Fprintf(tw, "  Combinations (upper):\t%s\n", orDash(strings.Join(g.Settings.CombinationsUpper, ", ")))
			fmt.Fprintf(tw, "  Combinations (lower):\t%s\n", orDash(strings.Join(g.Settings.CombinationsLower, ", ")))
			if err := tw.Flush(); err != nil {
				return err
			}

			tw = newTable(w)
			fmt.Fprintln(tw, "    #\tID\tLABEL\tSTORY\tLENGTH\tSECTION\tMATERIAL")
			for i, b := range g.Beams {
				fmt.Fprintf(tw, "    %d\t%s\t%s\t%s\t%.3f\t%s\t%s\n",
					i+1, b.UniqueID, b.Label, b.Story, b.Length, b.SectionName, b.Material)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintln(w)
		}
	}
	return nil
}

// WriteRecords writes the store contents as one row per beam.
func WriteRecords(w io.Writer, records []models.BeamRecord) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "SCENARIO\tGROUP\tORDER\tID\tLABEL\tSTORY\tSECTION\tLENGTH\tSHEET\tFLAGS\tPOSITION")
	for _, r := range records {
		pos := "-"
		if r.Position != nil {
			pos = fmt.Sprintf("%s!%s%d", r.Position.Sheet, r.Position.Column, r.Position.Row)
		}
		c := grouping.Combination(models.SelectionGroup{Scenario: r.Scenario, Settings: r.Settings})
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\t%s\t%s\t%s\t%.3f\t%s\t%s\t%s\n",
			r.Scenario, r.GroupID, r.OrderInGroup, r.UniqueID, r.Label, r.SelectedStory,
			r.SectionName, r.Geometry.Length, c.SheetName, flags(r.Settings), pos)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d beams\n", len(records))
	return err
}

// WritePositions writes layout positions.
func WritePositions(w io.Writer, positions []models.BeamPosition) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tSHEET\tCELL")
	for _, p := range positions {
		fmt.Fprintf(tw, "%s\t%s\t%s%d\n", p.UniqueID, p.SheetName, p.Column, p.Row)
	}
	return tw.Flush()
}

// WriteAudit writes the drawing objects a template copy would drop.
func WriteAudit(w io.Writer, objects []layout.TemplateObject) error {
	if len(objects) == 0 {
		_, err := fmt.Fprintln(w, "No drawing objects inside the template block.")
		return err
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "KIND\tNAME\tANCHOR\tAT")
	for _, o := range objects {
		at := o.Cell
		if at == "" {
			at = fmt.Sprintf("%dpx,%dpx", o.Left, o.Top)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", o.Kind, orDash(o.Name), o.Anchor, at)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d objects are not copied with the template block\n", len(objects))
	return err
}
