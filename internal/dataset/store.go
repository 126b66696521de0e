package dataset

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/KaramelBytes/cord19/internal/utils"
)

// Save writes the cleaned table as delimited text with a header row and no
// index column, tab-separated for .tsv and comma-separated otherwise, so
// LoadCleaned reads it back under the same rules. Paths that only a binary
// reader would open are rejected. The write is atomic.
func Save(path string, t *CleanedTable) error {
	if !(csvReader{}).CanRead(path) {
		return fmt.Errorf("%w: cannot save cleaned table as %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = sniffDelimiter(path)
	if err := w.Write(t.Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i := range t.Records {
		if err := w.Write(t.Row(i)); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	if err := utils.SafeWriteFile(path, buf.Bytes()); err != nil {
		return fmt.Errorf("save cleaned table: %w", err)
	}
	return nil
}

// LoadCleaned reads a cleaned artifact and checks it against the declared
// schema.
func LoadCleaned(path string) (*CleanedTable, error) {
	src, err := ReadTable(path, ReadOptions{})
	if err != nil {
		return nil, err
	}
	return FromTable(src)
}

// FromTable types a raw table holding a cleaned artifact. Year is always
// derived from publish_time; a stored year that disagrees is a schema error.
func FromTable(src *Table) (*CleanedTable, error) {
	idx, err := src.require(CleanedColumns...)
	if err != nil {
		return nil, err
	}
	out := newCleanedTable(src.Header)
	extraSrc := make([]int, len(out.extras))
	for i, name := range out.extras {
		extraSrc[i] = src.Index(name)
	}

	out.Records = make([]CleanedRecord, 0, len(src.Rows))
	for r, row := range src.Rows {
		line := r + 1
		cell := func(col string) string { return row[idx[col]] }
		rec := CleanedRecord{
			Title:    cell(ColTitle),
			Abstract: cell(ColAbstract),
			Journal:  cell(ColJournal),
		}
		for _, c := range []string{ColTitle, ColAbstract, ColJournal} {
			if IsMissing(cell(c)) {
				return nil, &SchemaError{Column: c, Row: line, Value: cell(c), Reason: "value required"}
			}
		}

		if v := cell(ColPublishTime); v != "" {
			ts, ok := ParseDate(v)
			if !ok {
				return nil, &SchemaError{Column: ColPublishTime, Row: line, Value: v, Reason: "not a date"}
			}
			y := ts.Year()
			rec.PublishTime = &ts
			rec.Year = &y
		}
		if v := cell(ColYear); v != "" {
			y, ok := parseWholeNumber(v)
			if !ok {
				return nil, &SchemaError{Column: ColYear, Row: line, Value: v, Reason: "not an integer"}
			}
			if rec.Year == nil || *rec.Year != y {
				return nil, &SchemaError{Column: ColYear, Row: line, Value: v, Reason: "does not match publish_time"}
			}
		}

		v := cell(ColAbstractWordCount)
		n, ok := parseWholeNumber(v)
		if !ok || n < 0 {
			return nil, &SchemaError{Column: ColAbstractWordCount, Row: line, Value: v, Reason: "not a non-negative integer"}
		}
		rec.AbstractWordCount = n

		if len(extraSrc) > 0 {
			rec.Extra = make([]string, len(extraSrc))
			for i, si := range extraSrc {
				rec.Extra[i] = row[si]
			}
		}
		out.Records = append(out.Records, rec)
	}
	return out, nil
}

// parseWholeNumber accepts "2020" and the float spelling "2020.0" that
// nullable integer columns pick up in other tools.
func parseWholeNumber(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}
