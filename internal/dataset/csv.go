package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// csvReader handles delimited text. It accepts any extension that is not a
// known binary or structured format, so oddly named exports still load.
type csvReader struct{}

func (csvReader) CanRead(path string) bool {
	switch extOf(path) {
	case ".xls", ".xlsx", ".xlsm", ".parquet", ".json", ".gz", ".zip":
		return false
	}
	return true
}

func (csvReader) Read(path string, opt ReadOptions) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	delim := opt.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(path)
	}
	return readDelimited(f, filepath.Base(path), delim, opt.MaxRows)
}

func sniffDelimiter(path string) rune {
	if extOf(path) == ".tsv" {
		return '\t'
	}
	return ','
}

func readDelimited(src io.Reader, name string, delim rune, maxRows int) (*Table, error) {
	r := csv.NewReader(src)
	r.FieldsPerRecord = -1
	r.Comma = delim

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%s: %w", name, ErrEmptySource)
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	t := &Table{Name: name, Header: normalizeHeader(header)}
	ncol := len(t.Header)
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", len(t.Rows)+1, err)
		}
		if len(rec) > ncol {
			return nil, fmt.Errorf("read row %d: expected %d fields, saw %d", len(t.Rows)+1, ncol, len(rec))
		}
		if len(rec) < ncol {
			// short rows are padded with missing cells
			tmp := make([]string, ncol)
			copy(tmp, rec)
			rec = tmp
		}
		t.Rows = append(t.Rows, rec)
		if maxRows > 0 && len(t.Rows) >= maxRows {
			break
		}
	}
	return t, nil
}
