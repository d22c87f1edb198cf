package grouping

import (
	"cmp"
	"errors"
	"slices"
	"strings"
	"unicode"
	"unicode/utf16"

	"github.com/ukaji3/beamsheet-go/pkg/beamsheet/models"
	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"
)

// ErrSheetNameCollision marks two classification keys that encode to the same sheet name.
var ErrSheetNameCollision = errors.New("sheet name collision")

const (
	// MaxSheetNameLength is the spreadsheet limit on sheet names, in UTF-16 units.
	MaxSheetNameLength = 31
	// UnknownStory replaces absent or empty story names.
	UnknownStory = "Unknown"

	sheetNameSep   = "-"
	storyMaxLength = 10
	storyShortened = 6
)

// ParseFlag decodes a stored "True"/"False" flag, ignoring case and surrounding space.
func ParseFlag(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), "true")
}

// FormatFlag encodes a flag the way the store persists it.
func FormatFlag(v bool) string {
	if v {
		return "True"
	}
	return "False"
}

// Classify derives the direction category of a settings snapshot.
// Secondary wins over the direction flags; then both, X only, Y only, none.
func Classify(s models.Settings) models.DirectionCategory {
	switch {
	case s.Secondary:
		return models.DirectionSecondary
	case s.DirX && s.DirY:
		return models.DirectionBoth
	case s.DirX:
		return models.DirectionX
	case s.DirY:
		return models.DirectionY
	default:
		return models.DirectionNone
	}
}

// DirectionCode returns the sheet-name suffix of a direction category.
func DirectionCode(c models.DirectionCategory) string {
	switch c {
	case models.DirectionSecondary:
		return "Sec"
	case models.DirectionBoth:
		return "XY"
	case models.DirectionX:
		return "X"
	case models.DirectionY:
		return "Y"
	case models.DirectionNone:
		return "NoDir"
	}
	return truncateRunes(string(c), 3)
}

// CleanStory normalizes a story name for use in a sheet name: letters, digits
// and hyphens are kept, everything else (spaces included) is dropped, and the
// result is cut to 10 characters. Empty results become "Unknown".
func CleanStory(story string) string {
	var b strings.Builder
	for _, r := range norm.NFC.String(story) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' {
			b.WriteRune(r)
		}
	}
	cleaned := truncateRunes(b.String(), storyMaxLength)
	if cleaned == "" {
		return UnknownStory
	}
	return cleaned
}

// SheetName encodes a classification key as "<scenario>-<story>-<direction>",
// bounded to MaxSheetNameLength UTF-16 units.
func SheetName(story string, sc models.Scenario, c models.DirectionCategory) string {
	code, dir := sc.Code(), DirectionCode(c)
	st := CleanStory(story)
	name := strings.Join([]string{code, st, dir}, sheetNameSep)
	if sheetNameLen(name) > MaxSheetNameLength {
		name = strings.Join([]string{code, truncateRunes(st, storyShortened), dir}, sheetNameSep)
	}
	return truncateUTF16(name, MaxSheetNameLength)
}

func sheetNameLen(s string) int {
	return len(utf16.Encode([]rune(s)))
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func truncateUTF16(s string, limit int) string {
	n := 0
	for i, r := range s {
		w := utf16.RuneLen(r)
		if w < 0 {
			w = 1
		}
		if n+w > limit {
			return s[:i]
		}
		n += w
	}
	return s
}

// Combination returns the classification key of a group.
func Combination(g models.SelectionGroup) models.SheetCombination {
	c := Classify(g.Settings)
	return models.SheetCombination{
		Story:     g.Settings.Story,
		Scenario:  g.Scenario,
		Direction: c,
		Secondary: g.Settings.Secondary,
		SheetName: SheetName(g.Settings.Story, g.Scenario, c),
	}
}

func sameKey(a, b models.SheetCombination) bool {
	return a.Story == b.Story && a.Scenario == b.Scenario && a.Direction == b.Direction && a.Secondary == b.Secondary
}

// AllCombinations returns the distinct sheet combinations of groups in first-seen
// order. Deduplication is by sheet name: when two different keys encode to the
// same name only the first key is kept and the collision is logged.
func AllCombinations(groups []models.SelectionGroup, log *zap.Logger) []models.SheetCombination {
	if log == nil {
		log = zap.NewNop()
	}
	var out []models.SheetCombination
	byName := make(map[string]int)
	for _, g := range groups {
		c := Combination(g)
		i, ok := byName[c.SheetName]
		if !ok {
			byName[c.SheetName] = len(out)
			out = append(out, c)
			continue
		}
		if kept := out[i]; !sameKey(kept, c) {
			log.Warn("classification keys share a sheet name; keeping the first",
				zap.String("sheet", c.SheetName),
				zap.String("kept_story", kept.Story),
				zap.String("kept_direction", string(kept.Direction)),
				zap.String("dropped_story", c.Story),
				zap.String("dropped_direction", string(c.Direction)),
				zap.String("scenario", string(c.Scenario)),
				zap.Int("group", g.GroupID),
				zap.Error(ErrSheetNameCollision))
		}
	}
	return out
}

// BeamsFor returns the beams of every group whose key equals the combination's
// key, ordered by group id then position in group.
func BeamsFor(c models.SheetCombination, groups []models.SelectionGroup) []models.SheetBeam {
	var matched []models.SelectionGroup
	for _, g := range groups {
		if g.Scenario == c.Scenario && sameKey(Combination(g), c) {
			matched = append(matched, g)
		}
	}
	slices.SortStableFunc(matched, func(a, b models.SelectionGroup) int {
		return cmp.Compare(a.GroupID, b.GroupID)
	})
	var out []models.SheetBeam
	for _, g := range matched {
		for i, id := range g.Beams {
			out = append(out, models.SheetBeam{GroupID: g.GroupID, Order: i + 1, UniqueID: id})
		}
	}
	return out
}
