package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Reader loads a source file of one tabular format into a Table.
type Reader interface {
	CanRead(path string) bool
	Read(path string, opt ReadOptions) (*Table, error)
}

// ReadOptions tunes source reading.
type ReadOptions struct {
	// Delimiter for delimited text. If 0, '\t' for .tsv and ',' otherwise.
	Delimiter rune
	// Sheet selects an XLSX sheet by name; empty means the first sheet.
	Sheet string
	// MaxRows limits data rows read; 0 means unlimited.
	MaxRows int
}

var registry []Reader

// Register adds a reader implementation. Readers are consulted in
// registration order.
func Register(r Reader) {
	registry = append(registry, r)
}

// ReadTable selects a reader by file name and loads the source table.
func ReadTable(path string, opt ReadOptions) (*Table, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("open source: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("open source: %s is a directory", path)
	}
	for _, r := range registry {
		if r.CanRead(path) {
			t, err := r.Read(path, opt)
			if err != nil {
				return nil, err
			}
			if t.Name == "" {
				t.Name = filepath.Base(path)
			}
			return t, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
}

func extOf(path string) string { return strings.ToLower(filepath.Ext(path)) }

func init() {
	Register(xlsxReader{})
	Register(csvReader{})
}
