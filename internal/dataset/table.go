package dataset

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrMissingColumn indicates a required column is absent from a header.
	ErrMissingColumn = errors.New("missing required column")
	// ErrUnsupportedFormat indicates no reader handles the file type.
	ErrUnsupportedFormat = errors.New("unsupported tabular format")
	// ErrEmptySource indicates the source has no header row.
	ErrEmptySource = errors.New("source has no header row")
)

// MissingPlaceholder is the textual form of a missing cell.
const MissingPlaceholder = "nan"

// naTokens are the cell spellings read as "no value".
var naTokens = map[string]struct{}{
	"": {}, "NA": {}, "N/A": {}, "n/a": {}, "NaN": {}, "nan": {}, "-NaN": {}, "-nan": {},
	"NULL": {}, "null": {}, "None": {}, "<NA>": {}, "#N/A": {}, "#NA": {}, "#N/A N/A": {},
	"1.#IND": {}, "-1.#IND": {}, "1.#QNAN": {}, "-1.#QNAN": {},
}

// IsMissing reports whether a raw cell holds no value. Matching is exact:
// whitespace-only cells are values.
func IsMissing(s string) bool {
	_, ok := naTokens[s]
	return ok
}

// Table is a raw source table: a header and string rows aligned to it.
type Table struct {
	Name   string
	Header []string
	Rows   [][]string
}

// Index returns the position of the named column, or -1.
func (t *Table) Index(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// Shape returns the row and column counts.
func (t *Table) Shape() (rows, cols int) { return len(t.Rows), len(t.Header) }

// require resolves the positions of the named columns.
func (t *Table) require(names ...string) (map[string]int, error) {
	idx := make(map[string]int, len(names))
	for _, n := range names {
		i := t.Index(n)
		if i < 0 {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, n)
		}
		idx[n] = i
	}
	return idx, nil
}

// normalizeHeader strips a UTF-8 BOM, names blank columns and renames
// duplicates to name.1, name.2, ... so every column is addressable.
func normalizeHeader(raw []string) []string {
	out := make([]string, len(raw))
	seen := make(map[string]int, len(raw))
	for i, h := range raw {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		h = strings.TrimSpace(h)
		if h == "" {
			h = "Unnamed: " + strconv.Itoa(i)
		}
		if n, dup := seen[h]; dup {
			seen[h] = n + 1
			h = h + "." + strconv.Itoa(n+1)
		} else {
			seen[h] = 0
		}
		out[i] = h
	}
	return out
}
