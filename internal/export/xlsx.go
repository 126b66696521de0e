// Package export writes report aggregates to spreadsheet workbooks.
package export

import (
	"fmt"

	"github.com/KaramelBytes/cord19/internal/analysis"
	"github.com/KaramelBytes/cord19/internal/utils"
	"github.com/xuri/excelize/v2"
)

// Sheet names of the report workbook.
const (
	SheetYears    = "Publications by Year"
	SheetJournals = "Top Journals"
	SheetWords    = "Title Words"
)

type sheet struct {
	name     string
	header   []interface{}
	rows     [][]interface{}
	chart    excelize.ChartType
	title    string
	colWidth float64
}

// WriteReport writes one sheet per aggregate, each with a bar chart when the
// aggregate has rows.
func WriteReport(path string, r *analysis.Report) error {
	sheets := []sheet{
		{name: SheetYears, header: []interface{}{"year", "count"}, chart: excelize.Col, title: "Publications by Year", colWidth: 10},
		{name: SheetJournals, header: []interface{}{"journal", "count"}, chart: excelize.Bar, title: "Top Journals", colWidth: 48},
		{name: SheetWords, header: []interface{}{"word", "count"}, chart: excelize.Bar, title: "Most Frequent Title Words", colWidth: 20},
	}
	for _, y := range r.Years {
		sheets[0].rows = append(sheets[0].rows, []interface{}{y.Year, y.Count})
	}
	for _, j := range r.Journals {
		sheets[1].rows = append(sheets[1].rows, []interface{}{j.Journal, j.Count})
	}
	for _, w := range r.Words {
		sheets[2].rows = append(sheets[2].rows, []interface{}{w.Word, w.Count})
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", s.name); err != nil {
				return fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(s.name); err != nil {
			return fmt.Errorf("add sheet %q: %w", s.name, err)
		}
		if err := writeSheet(f, s); err != nil {
			return err
		}
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return fmt.Errorf("encode workbook: %w", err)
	}
	if err := utils.SafeWriteFile(path, buf.Bytes()); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, s sheet) error {
	if err := f.SetSheetRow(s.name, "A1", &s.header); err != nil {
		return fmt.Errorf("%s header: %w", s.name, err)
	}
	for i := range s.rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(s.name, cell, &s.rows[i]); err != nil {
			return fmt.Errorf("%s row %d: %w", s.name, i+1, err)
		}
	}
	if err := f.SetColWidth(s.name, "A", "A", s.colWidth); err != nil {
		return err
	}
	if len(s.rows) == 0 {
		return nil
	}

	last := len(s.rows) + 1
	ref := fmt.Sprintf("'%s'", s.name)
	return f.AddChart(s.name, "D2", &excelize.Chart{
		Type:   s.chart,
		Series: []excelize.ChartSeries{{
			Name:       ref + "!$B$1",
			Categories: fmt.Sprintf("%s!$A$2:$A$%d", ref, last),
			Values:     fmt.Sprintf("%s!$B$2:$B$%d", ref, last),
		}},
		Title:     []excelize.RichTextRun{{Text: s.title}},
		Legend:    excelize.ChartLegend{Position: "none"},
		Dimension: excelize.ChartDimension{Width: 640, Height: 360},
	})
}
