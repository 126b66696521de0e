package dashboard

import (
	"errors"

	"github.com/KaramelBytes/cord19/internal/analysis"
	"github.com/KaramelBytes/cord19/internal/dataset"
)

// ErrNoYears is returned when no record of the table has a known year.
var ErrNoYears = errors.New("cleaned table has no publication years")

// Range is an inclusive year range.
type Range struct {
	Lo int `json:"lo" validate:"required"`
	Hi int `json:"hi" validate:"required,gtefield=Lo"`
}

// Contains reports whether y lies in the range.
func (r Range) Contains(y int) bool { return r.Lo <= y && y <= r.Hi }

// Bounds are the slider limits and the initial selection.
type Bounds struct {
	Min     int   `json:"min"`
	Max     int   `json:"max"`
	Default Range `json:"default"`
}

// ComputeBounds takes the slider limits from the table's years and clamps
// the preferred default range into them.
func ComputeBounds(t *dataset.CleanedTable, lo, hi int) (Bounds, error) {
	var b Bounds
	found := false
	for i := range t.Records {
		y, ok := t.Records[i].YearValue()
		if !ok {
			continue
		}
		if !found || y < b.Min {
			b.Min = y
		}
		if !found || y > b.Max {
			b.Max = y
		}
		found = true
	}
	if !found {
		return Bounds{}, ErrNoYears
	}
	if lo > hi {
		lo, hi = hi, lo
	}
	b.Default = Range{Lo: clamp(lo, b.Min, b.Max), Hi: clamp(hi, b.Min, b.Max)}
	return b, nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Filter returns the indexes of records whose year lies in r. Records
// without a year never match.
func Filter(t *dataset.CleanedTable, r Range) []int {
	var out []int
	for i := range t.Records {
		if y, ok := t.Records[i].YearValue(); ok && r.Contains(y) {
			out = append(out, i)
		}
	}
	return out
}

// View is everything the dashboard shows for one range selection.
type View struct {
	Range    Range                   `json:"range"`
	Matched  int                     `json:"matched"`
	Years    []analysis.YearCount    `json:"years"`
	Journals []analysis.JournalCount `json:"journals"`
	Columns  []string                `json:"columns"`
	Preview  [][]string              `json:"preview"`
}

// BuildView filters t to r and aggregates the subset.
func BuildView(t *dataset.CleanedTable, r Range, topJournals, previewRows int) View {
	idx := Filter(t, r)
	subset := make([]dataset.CleanedRecord, len(idx))
	for i, k := range idx {
		subset[i] = t.Records[k]
	}
	v := View{
		Range:    r,
		Matched:  len(idx),
		Years:    analysis.PublicationsByYear(subset),
		Journals: analysis.TopJournals(subset, topJournals),
		Columns:  t.Header,
		Preview:  [][]string{},
	}
	if v.Journals == nil {
		v.Journals = []analysis.JournalCount{}
	}
	for i := 0; i < len(idx) && i < previewRows; i++ {
		v.Preview = append(v.Preview, t.Row(idx[i]))
	}
	return v
}
