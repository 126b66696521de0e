package analysis

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/KaramelBytes/cord19/internal/dataset"
)

// ProfileOptions controls the exploration profile of a raw table.
type ProfileOptions struct {
	// SampleRows determines how many leading rows to include.
	SampleRows int
	// MissingColumns limits the missing-values listing to the first N columns; 0 lists all.
	MissingColumns int
	// TopValues is the number of most frequent values kept for categorical columns.
	TopValues int
}

// DefaultProfileOptions mirrors a quick head/info/describe pass.
func DefaultProfileOptions() ProfileOptions {
	return ProfileOptions{SampleRows: 5, MissingColumns: 10, TopValues: 5}
}

// Profile is a markdown-friendly exploration of a raw source table.
type Profile struct {
	Name    string
	Rows    int
	Header  []string
	Cols    []ColumnSummary
	Samples [][]string
	opt     ProfileOptions
}

// ColumnSummary captures inferred kind and statistics per column.
type ColumnSummary struct {
	Name    string
	Kind    string // numeric|datetime|categorical|text|empty
	NonNull int
	Missing int
	// Unique is -1 when the column had too many distinct values to track.
	Unique int
	// Numeric stats
	Mean, Std             float64
	Min, Q25, Median, Q75 float64
	Max                   float64
	TopValues             []CategoryCount
}

type CategoryCount struct {
	Value string
	Count int
}

// maxTrackedValues bounds the distinct-value map per column.
const maxTrackedValues = 10000

// ProfileTable computes per-column kinds and statistics over a raw table.
func ProfileTable(t *dataset.Table, opt ProfileOptions) *Profile {
	if opt.SampleRows <= 0 {
		opt.SampleRows = 5
	}
	p := &Profile{Name: t.Name, Rows: len(t.Rows), Header: t.Header, opt: opt}

	type colAcc struct {
		nonNull  int
		miss     int
		numeric  []float64
		notNum   bool
		dtCnt    int
		cats     map[string]int
		overflow bool
	}
	cols := make([]*colAcc, len(t.Header))
	for i := range cols {
		cols[i] = &colAcc{cats: map[string]int{}}
	}

	for r, row := range t.Rows {
		if r < opt.SampleRows {
			p.Samples = append(p.Samples, append([]string(nil), row...))
		}
		for j, v := range row {
			c := cols[j]
			if dataset.IsMissing(v) {
				c.miss++
				continue
			}
			c.nonNull++
			if !c.notNum {
				if x, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
					c.numeric = append(c.numeric, x)
				} else {
					// one non-numeric value makes the whole column textual
					c.notNum = true
					c.numeric = nil
				}
			}
			if _, ok := dataset.ParseDate(v); ok {
				c.dtCnt++
			}
			if !c.overflow {
				c.cats[v]++
				if len(c.cats) > maxTrackedValues {
					c.overflow = true
					c.cats = nil
				}
			}
		}
	}

	p.Cols = make([]ColumnSummary, len(t.Header))
	for j, c := range cols {
		s := ColumnSummary{Name: t.Header[j], NonNull: c.nonNull, Missing: c.miss, Unique: -1}
		if !c.overflow {
			s.Unique = len(c.cats)
		}
		switch {
		case c.nonNull == 0:
			s.Kind = "empty"
		case !c.notNum:
			s.Kind = "numeric"
			describe(&s, c.numeric)
		case c.dtCnt == c.nonNull:
			s.Kind = "datetime"
		case !c.overflow && 2*len(c.cats) <= c.nonNull:
			s.Kind = "categorical"
			s.TopValues = topCategories(c.cats, opt.TopValues)
		default:
			s.Kind = "text"
		}
		p.Cols[j] = s
	}
	return p
}

func describe(s *ColumnSummary, vals []float64) {
	// Welford for mean and sample std
	var mean, m2 float64
	for i, x := range vals {
		delta := x - mean
		mean += delta / float64(i+1)
		m2 += delta * (x - mean)
	}
	s.Mean = mean
	if len(vals) > 1 {
		s.Std = math.Sqrt(m2 / float64(len(vals)-1))
	} else {
		s.Std = math.NaN()
	}
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	s.Min = sorted[0]
	s.Max = sorted[len(sorted)-1]
	s.Q25 = quantile(sorted, 0.25)
	s.Median = quantile(sorted, 0.5)
	s.Q75 = quantile(sorted, 0.75)
}

func topCategories(cats map[string]int, n int) []CategoryCount {
	tops := make([]CategoryCount, 0, len(cats))
	for k, v := range cats {
		tops = append(tops, CategoryCount{Value: k, Count: v})
	}
	sort.Slice(tops, func(i, j int) bool {
		if tops[i].Count == tops[j].Count {
			return tops[i].Value < tops[j].Value
		}
		return tops[i].Count > tops[j].Count
	})
	if n > 0 && len(tops) > n {
		tops = tops[:n]
	}
	return tops
}

// Markdown renders the profile: shape, schema, missing values, numeric
// summary and leading rows.
func (p *Profile) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if p.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", p.Name))
	}
	b.WriteString(fmt.Sprintf("Shape: (%d, %d)\n\n", p.Rows, len(p.Cols)))

	b.WriteString("[SCHEMA]\n")
	for _, c := range p.Cols {
		b.WriteString(fmt.Sprintf("- %s: %s (non-null %d)", c.Name, c.Kind, c.NonNull))
		if c.Kind == "categorical" && len(c.TopValues) > 0 {
			b.WriteString(" | top: ")
			for i, kv := range c.TopValues {
				if i > 0 {
					b.WriteString(", ")
				}
				b.WriteString(fmt.Sprintf("%s(%d)", safeVal(kv.Value), kv.Count))
			}
			if c.Unique > len(c.TopValues) {
				b.WriteString(fmt.Sprintf("; unique=%d", c.Unique))
			}
		}
		b.WriteString("\n")
	}

	b.WriteString("\n[MISSING VALUES]\n")
	lim := len(p.Cols)
	if p.opt.MissingColumns > 0 && p.opt.MissingColumns < lim {
		lim = p.opt.MissingColumns
	}
	for _, c := range p.Cols[:lim] {
		b.WriteString(fmt.Sprintf("- %s: %d\n", c.Name, c.Missing))
	}

	var numeric []ColumnSummary
	for _, c := range p.Cols {
		if c.Kind == "numeric" {
			numeric = append(numeric, c)
		}
	}
	if len(numeric) > 0 {
		b.WriteString("\n[NUMERIC SUMMARY]\n")
		for _, c := range numeric {
			b.WriteString(fmt.Sprintf("- %s: count %d, mean %.4g, std %.4g, min %.4g, 25%% %.4g, 50%% %.4g, 75%% %.4g, max %.4g\n",
				c.Name, c.NonNull, c.Mean, c.Std, c.Min, c.Q25, c.Median, c.Q75, c.Max))
		}
	}

	if len(p.Samples) > 0 {
		b.WriteString("\n[HEAD]\n")
		b.WriteString(markdownTable(p.Header, p.Samples, 60))
	}
	return b.String()
}

// markdownTable renders rows under a header, truncating long cells.
func markdownTable(header []string, rows [][]string, maxCell int) string {
	var b strings.Builder
	b.WriteString("| " + strings.Join(header, " | ") + " |\n")
	b.WriteString("|" + strings.Repeat(" --- |", len(header)) + "\n")
	for _, row := range rows {
		b.WriteString("| ")
		for i := range header {
			if i > 0 {
				b.WriteString(" | ")
			}
			val := ""
			if i < len(row) {
				val = row[i]
			}
			if r := []rune(val); maxCell > 3 && len(r) > maxCell {
				val = string(r[:maxCell-3]) + "..."
			}
			b.WriteString(safeVal(val))
		}
		b.WriteString(" |\n")
	}
	return b.String()
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }

func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}
