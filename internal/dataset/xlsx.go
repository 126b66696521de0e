package dataset

import (
	"fmt"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

type xlsxReader struct{}

func (xlsxReader) CanRead(path string) bool {
	switch extOf(path) {
	case ".xlsx", ".xlsm":
		return true
	}
	return false
}

func (xlsxReader) Read(path string, opt ReadOptions) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheet := opt.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("%s: %w", filepath.Base(path), ErrEmptySource)
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), ErrEmptySource)
	}

	t := &Table{Name: filepath.Base(path), Header: normalizeHeader(rows[0])}
	ncol := len(t.Header)
	for _, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}
		// excelize trims trailing empty cells; cells beyond the header are dropped
		rec := make([]string, ncol)
		copy(rec, row)
		t.Rows = append(t.Rows, rec)
		if opt.MaxRows > 0 && len(t.Rows) >= opt.MaxRows {
			break
		}
	}
	return t, nil
}
