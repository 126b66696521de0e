package analysis

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/KaramelBytes/cord19/internal/chart"
	"github.com/KaramelBytes/cord19/internal/dataset"
)

// Options controls the batch report.
type Options struct {
	TopJournals int
	TopWords    int
	MinWordLen  int
}

// DefaultOptions returns the report settings used when nothing is configured.
func DefaultOptions() Options {
	return Options{TopJournals: 10, TopWords: 15, MinWordLen: 4}
}

// Report holds the aggregates computed over a cleaned table.
type Report struct {
	Name         string         `json:"name"`
	Rows         int            `json:"rows"`
	MissingYears int            `json:"missing_years"`
	Years        []YearCount    `json:"years"`
	Journals     []JournalCount `json:"journals"`
	Words        []TermCount    `json:"words"`
}

// Build computes the publications-by-year, top-journals and title-word
// tables for t.
func Build(name string, t *dataset.CleanedTable, opt Options) *Report {
	def := DefaultOptions()
	if opt.TopJournals <= 0 {
		opt.TopJournals = def.TopJournals
	}
	if opt.TopWords <= 0 {
		opt.TopWords = def.TopWords
	}
	if opt.MinWordLen <= 0 {
		opt.MinWordLen = def.MinWordLen
	}
	r := &Report{
		Name:     name,
		Rows:     t.Len(),
		Years:    PublicationsByYear(t.Records),
		Journals: TopJournals(t.Records, opt.TopJournals),
		Words:    TopTitleWords(t.Records, opt.MinWordLen, opt.TopWords),
	}
	for i := range t.Records {
		if _, ok := t.Records[i].YearValue(); !ok {
			r.MissingYears++
		}
	}
	return r
}

// YearChart converts the year table into a vertical bar chart.
func YearChart(years []YearCount) chart.Chart {
	c := chart.Chart{Title: "Publications by Year", XLabel: "Year", YLabel: "Number of Papers"}
	for _, y := range years {
		c.Bars = append(c.Bars, chart.Bar{Label: strconv.Itoa(y.Year), Value: float64(y.Count)})
	}
	return c
}

// JournalChart converts the journal table into a horizontal bar chart.
func JournalChart(journals []JournalCount) chart.Chart {
	c := chart.Chart{Title: "Top Journals", XLabel: "Number of Papers", YLabel: "Journal", Horizontal: true}
	for _, j := range journals {
		c.Bars = append(c.Bars, chart.Bar{Label: j.Journal, Value: float64(j.Count)})
	}
	return c
}

// Markdown renders the report with bracketed section headers.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[REPORT SUMMARY]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	b.WriteString(fmt.Sprintf("Rows: %d\n", r.Rows))
	if r.MissingYears > 0 {
		b.WriteString(fmt.Sprintf("Rows without a year: %d\n", r.MissingYears))
	}

	b.WriteString("\n[PUBLICATIONS BY YEAR]\n")
	rows := make([][]string, 0, len(r.Years))
	for _, y := range r.Years {
		rows = append(rows, []string{strconv.Itoa(y.Year), strconv.Itoa(y.Count)})
	}
	b.WriteString(markdownTable([]string{"year", "count"}, rows, 0))

	b.WriteString("\n[TOP JOURNALS]\n")
	rows = rows[:0]
	for _, j := range r.Journals {
		rows = append(rows, []string{j.Journal, strconv.Itoa(j.Count)})
	}
	b.WriteString(markdownTable([]string{"journal", "count"}, rows, 60))

	b.WriteString("\n[TOP TITLE WORDS]\n")
	for _, w := range r.Words {
		b.WriteString(fmt.Sprintf("- %s: %d\n", w.Word, w.Count))
	}
	return b.String()
}
