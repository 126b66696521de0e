package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestSaveThenLoadRoundTrip(t *testing.T) {
	out, stats := cleanFixture(t)
	path := filepath.Join(t.TempDir(), "data", "metadata_clean.csv")
	if err := Save(path, out); err != nil {
		t.Fatalf("Save: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.HasPrefix(string(b), "cord_uid,title,abstract,publish_time,journal,url,year,abstract_word_count\n") {
		t.Fatalf("unexpected header line: %q", strings.SplitN(string(b), "\n", 2)[0])
	}

	back, err := LoadCleaned(path)
	if err != nil {
		t.Fatalf("LoadCleaned: %v", err)
	}
	if !reflect.DeepEqual(back.Header, out.Header) {
		t.Fatalf("header = %v, want %v", back.Header, out.Header)
	}
	if back.Len() != stats.RowsWritten {
		t.Fatalf("reloaded %d rows, want %d", back.Len(), stats.RowsWritten)
	}
	for i := range out.Records {
		if !reflect.DeepEqual(back.Records[i], out.Records[i]) {
			t.Fatalf("record %d differs:\n got %+v\nwant %+v", i, back.Records[i], out.Records[i])
		}
		if !reflect.DeepEqual(back.Row(i), out.Row(i)) {
			t.Fatalf("row %d differs: %q vs %q", i, back.Row(i), out.Row(i))
		}
	}
}

func TestSaveTSVRoundTrip(t *testing.T) {
	out, stats := cleanFixture(t)
	path := filepath.Join(t.TempDir(), "clean.tsv")
	if err := Save(path, out); err != nil {
		t.Fatalf("Save: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.HasPrefix(string(b), "cord_uid\ttitle\tabstract\t") {
		t.Fatalf("expected tab-separated header, got %q", strings.SplitN(string(b), "\n", 2)[0])
	}
	back, err := LoadCleaned(path)
	if err != nil {
		t.Fatalf("LoadCleaned: %v", err)
	}
	if back.Len() != stats.RowsWritten {
		t.Fatalf("reloaded %d rows, want %d", back.Len(), stats.RowsWritten)
	}
	for i := range out.Records {
		if !reflect.DeepEqual(back.Records[i], out.Records[i]) {
			t.Fatalf("record %d differs:\n got %+v\nwant %+v", i, back.Records[i], out.Records[i])
		}
	}
}

func TestSaveRejectsSpreadsheetPaths(t *testing.T) {
	out, _ := cleanFixture(t)
	for _, name := range []string{"clean.xlsx", "clean.XLSM", "clean.xls"} {
		path := filepath.Join(t.TempDir(), name)
		if err := Save(path, out); !errors.Is(err, ErrUnsupportedFormat) {
			t.Fatalf("Save(%s): expected ErrUnsupportedFormat, got %v", name, err)
		}
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Fatalf("Save(%s) left a file behind", name)
		}
	}
}

func TestFromTableSchemaErrors(t *testing.T) {
	header := []string{"title", "abstract", "publish_time", "journal", "year", "abstract_word_count"}
	cases := []struct {
		name   string
		row    []string
		column string
	}{
		{"missing title", []string{"", "a", "2020-01-01", "J", "2020", "1"}, ColTitle},
		{"bad date", []string{"t", "a", "someday", "J", "", "1"}, ColPublishTime},
		{"bad year", []string{"t", "a", "2020-01-01", "J", "twenty", "1"}, ColYear},
		{"year mismatch", []string{"t", "a", "2020-01-01", "J", "2019", "1"}, ColYear},
		{"orphan year", []string{"t", "a", "", "J", "2019", "1"}, ColYear},
		{"bad count", []string{"t", "a", "2020-01-01", "J", "2020", "-3"}, ColAbstractWordCount},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := FromTable(&Table{Header: header, Rows: [][]string{c.row}})
			var se *SchemaError
			if !errors.As(err, &se) {
				t.Fatalf("expected SchemaError, got %v", err)
			}
			if se.Column != c.column || se.Row != 1 {
				t.Fatalf("error at %s row %d, want %s row 1", se.Column, se.Row, c.column)
			}
		})
	}
}

func TestFromTableAcceptsFloatYears(t *testing.T) {
	header := []string{"title", "abstract", "publish_time", "journal", "year", "abstract_word_count"}
	out, err := FromTable(&Table{Header: header, Rows: [][]string{{"t", "a b", "2020-02-02", "J", "2020.0", "2.0"}}})
	if err != nil {
		t.Fatalf("FromTable: %v", err)
	}
	if y, ok := out.Records[0].YearValue(); !ok || y != 2020 {
		t.Fatalf("year = %v %v", y, ok)
	}
	if out.Records[0].AbstractWordCount != 2 {
		t.Fatalf("count = %d", out.Records[0].AbstractWordCount)
	}
}

func TestLoadCleanedMissingColumn(t *testing.T) {
	p := writeFixture(t, "clean.csv", []string{"title,abstract,publish_time,journal", "t,a,2020,J"})
	if _, err := LoadCleaned(p); !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("expected ErrMissingColumn, got %v", err)
	}
}

func TestReadTableErrors(t *testing.T) {
	if _, err := ReadTable(filepath.Join(t.TempDir(), "nope.csv"), ReadOptions{}); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
	empty := writeFixture(t, "empty.csv", nil)
	if err := os.WriteFile(empty, nil, 0o644); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	if _, err := ReadTable(empty, ReadOptions{}); !errors.Is(err, ErrEmptySource) {
		t.Fatalf("expected ErrEmptySource, got %v", err)
	}
	ragged := writeFixture(t, "ragged.csv", []string{"a,b", "1,2,3"})
	if _, err := ReadTable(ragged, ReadOptions{}); err == nil {
		t.Fatalf("expected error for row wider than header")
	}
	legacy := writeFixture(t, "old.xls", []string{"x"})
	if _, err := ReadTable(legacy, ReadOptions{}); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestReadTableHeaderNormalization(t *testing.T) {
	p := writeFixture(t, "meta.readme", []string{"\ufefftitle, abstract ,,title", "a,b,c,d"})
	tbl, err := ReadTable(p, ReadOptions{})
	if err != nil {
		t.Fatalf("ReadTable: %v", err)
	}
	want := []string{"title", "abstract", "Unnamed: 2", "title.1"}
	if !reflect.DeepEqual(tbl.Header, want) {
		t.Fatalf("header = %q, want %q", tbl.Header, want)
	}
	if tbl.Name != "meta.readme" {
		t.Fatalf("name = %q", tbl.Name)
	}
}

func TestReadTableTSVAndMaxRows(t *testing.T) {
	p := writeFixture(t, "meta.tsv", []string{"title\tabstract", "a\tb", "c", "e\tf"})
	tbl, err := ReadTable(p, ReadOptions{MaxRows: 2})
	if err != nil {
		t.Fatalf("ReadTable: %v", err)
	}
	if rows, cols := tbl.Shape(); rows != 2 || cols != 2 {
		t.Fatalf("shape = %dx%d", rows, cols)
	}
	if tbl.Rows[1][1] != "" {
		t.Fatalf("short row should be padded, got %q", tbl.Rows[1])
	}
}

func TestReadTableXLSX(t *testing.T) {
	p := filepath.Join(t.TempDir(), "metadata.xlsx")
	f := excelize.NewFile()
	rows := [][]interface{}{
		{"title", "abstract", "publish_time", "journal"},
		{"Deep learning models", "novel coronavirus study", "2020-03-15", "Lancet"},
		{"No journal", "two words", "2021"},
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow("Sheet1", cell, &r); err != nil {
			t.Fatalf("SetSheetRow: %v", err)
		}
	}
	if err := f.SaveAs(p); err != nil {
		t.Fatalf("SaveAs: %v", err)
	}
	_ = f.Close()

	tbl, err := ReadTable(p, ReadOptions{})
	if err != nil {
		t.Fatalf("ReadTable: %v", err)
	}
	out, _, err := Clean(tbl)
	if err != nil {
		t.Fatalf("Clean: %v", err)
	}
	if out.Len() != 2 {
		t.Fatalf("rows = %d, want 2", out.Len())
	}
	if out.Records[1].Journal != UnknownJournal {
		t.Fatalf("journal = %q", out.Records[1].Journal)
	}
	if _, err := ReadTable(p, ReadOptions{Sheet: "Missing"}); err == nil {
		t.Fatalf("expected error for unknown sheet")
	}
}

func TestManifestSaveLoad(t *testing.T) {
	out, stats := cleanFixture(t)
	output := filepath.Join(t.TempDir(), "clean.csv")
	m := NewManifest("metadata.csv", output)
	m.Finish(out, stats)
	if err := m.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	back, err := LoadManifest(output)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if back.RunID == "" || back.RunID != m.RunID {
		t.Fatalf("run id = %q, want %q", back.RunID, m.RunID)
	}
	if back.Stats.RowsWritten != stats.RowsWritten || back.Stats.DroppedBy[ColTitle] != 1 {
		t.Fatalf("stats = %+v", back.Stats)
	}
}
