package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/cord19/internal/analysis"
	"github.com/KaramelBytes/cord19/internal/chart"
	"github.com/KaramelBytes/cord19/internal/dataset"
	"github.com/KaramelBytes/cord19/internal/export"
	"github.com/KaramelBytes/cord19/internal/utils"
	"github.com/mattn/go-runewidth"
)

// SVG file names written by --svg-dir.
const (
	svgYears     = "publications_by_year.svg"
	svgJournals  = "top_journals.svg"
	svgWordCloud = "title_wordcloud.svg"
)

func parseDelimiter(s string) (rune, error) {
	switch s {
	case "":
		return 0, nil
	case ",":
		return ',', nil
	case "\t", "tab":
		return '\t', nil
	case ";":
		return ';', nil
	case "|":
		return '|', nil
	default:
		return 0, fmt.Errorf("unsupported --delimiter: %s", s)
	}
}

// cleanOptions carries the loader settings shared by clean and run.
type cleanOptions struct {
	Source     string
	Output     string
	Read       dataset.ReadOptions
	SampleRows int
	Manifest   bool
}

// cleanAndSave loads the source, cleans it and writes the artifact and its
// manifest, reporting progress to w.
func cleanAndSave(w io.Writer, src *dataset.Table, opt cleanOptions) (*dataset.CleanedTable, error) {
	m := dataset.NewManifest(opt.Source, opt.Output)
	out, stats, err := dataset.Clean(src)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(w, "Rows before cleaning: %d\n", stats.RowsRead)
	fmt.Fprintf(w, "Rows after cleaning: %d (dropped %d", stats.RowsWritten, stats.RowsDropped)
	for _, c := range dataset.MandatoryColumns {
		if n := stats.DroppedBy[c]; n > 0 {
			fmt.Fprintf(w, ", %s missing: %d", c, n)
		}
	}
	fmt.Fprintln(w, ")")
	if stats.UnparsedDates > 0 {
		fmt.Fprintf(w, "⚠ %d publish_time values could not be parsed; year left empty\n", stats.UnparsedDates)
	}
	if stats.DefaultedJournals > 0 {
		fmt.Fprintf(w, "Journals defaulted to %q: %d\n", dataset.UnknownJournal, stats.DefaultedJournals)
	}

	if opt.SampleRows > 0 {
		header := []string{dataset.ColPublishTime, dataset.ColYear, dataset.ColAbstractWordCount}
		var rows [][]string
		pos := make([]int, len(header))
		for i, h := range header {
			pos[i] = indexOf(out.Header, h)
		}
		for i := 0; i < out.Len() && i < opt.SampleRows; i++ {
			full := out.Row(i)
			row := make([]string, len(header))
			for j, p := range pos {
				row[j] = full[p]
			}
			rows = append(rows, row)
		}
		fmt.Fprintln(w)
		writeTextTable(w, header, rows)
		fmt.Fprintln(w)
	}

	if err := dataset.Save(opt.Output, out); err != nil {
		return nil, err
	}
	fmt.Fprintf(w, "✓ Saved cleaned table to %s\n", opt.Output)
	if opt.Manifest {
		m.Finish(out, stats)
		if err := m.Save(); err != nil {
			return nil, fmt.Errorf("write manifest: %w", err)
		}
	}
	return out, nil
}

func indexOf(xs []string, s string) int {
	for i, x := range xs {
		if x == s {
			return i
		}
	}
	return -1
}

// writeTextTable prints rows in columns aligned by display width.
func writeTextTable(w io.Writer, header []string, rows [][]string) {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, c := range row {
			if cw := runewidth.StringWidth(c); cw > widths[i] {
				widths[i] = cw
			}
		}
	}
	line := func(cells []string) {
		var b strings.Builder
		for i, c := range cells {
			if i > 0 {
				b.WriteString("  ")
			}
			b.WriteString(c)
			b.WriteString(strings.Repeat(" ", widths[i]-runewidth.StringWidth(c)))
		}
		fmt.Fprintln(w, strings.TrimRight(b.String(), " "))
	}
	line(header)
	for _, row := range rows {
		line(row)
	}
}

// reportOutputs selects where a report goes besides the terminal.
type reportOutputs struct {
	Markdown string
	SVGDir   string
	XLSX     string
	Width    int
}

// emitReport prints the charts to w and writes any requested files.
func emitReport(w io.Writer, r *analysis.Report, out reportOutputs) error {
	width := out.Width
	if width <= 0 {
		width = 80
	}
	words := make([]chart.Bar, len(r.Words))
	for i, t := range r.Words {
		words[i] = chart.Bar{Label: t.Word, Value: float64(t.Count)}
	}
	years := analysis.YearChart(r.Years)
	journals := analysis.JournalChart(r.Journals)
	journals.Title = fmt.Sprintf("Top %d Journals", len(r.Journals))

	fmt.Fprintln(w, chart.RenderTerminal(years, width))
	fmt.Fprintln(w, chart.RenderTerminal(journals, width))
	fmt.Fprintln(w, chart.RenderWords("Most Frequent Words in Titles", words, width))
	fmt.Fprintln(w, "Top words in titles:")
	for _, t := range r.Words {
		fmt.Fprintf(w, "  %s: %d\n", t.Word, t.Count)
	}

	if out.Markdown != "" {
		if err := utils.SafeWriteFile(out.Markdown, []byte(r.Markdown())); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		fmt.Fprintf(w, "✓ Wrote report to %s\n", out.Markdown)
	}
	if out.SVGDir != "" {
		y, err := chart.SVG(years, 800, 450)
		if err != nil {
			return err
		}
		j, err := chart.SVG(journals, 800, 450)
		if err != nil {
			return err
		}
		c, err := chart.WordCloudSVG("Word Cloud of Paper Titles", words, 800, 400)
		if err != nil {
			return err
		}
		for name, body := range map[string]string{svgYears: string(y), svgJournals: string(j), svgWordCloud: string(c)} {
			if err := utils.SafeWriteFile(filepath.Join(out.SVGDir, name), []byte(body)); err != nil {
				return fmt.Errorf("write chart: %w", err)
			}
		}
		fmt.Fprintf(w, "✓ Wrote charts to %s\n", out.SVGDir)
	}
	if out.XLSX != "" {
		if err := export.WriteReport(out.XLSX, r); err != nil {
			return err
		}
		fmt.Fprintf(w, "✓ Wrote workbook to %s\n", out.XLSX)
	}
	return nil
}

func reportOptions() analysis.Options {
	return analysis.Options{TopJournals: cfg.TopJournals, TopWords: cfg.TopWords, MinWordLen: cfg.MinWordLen}
}
