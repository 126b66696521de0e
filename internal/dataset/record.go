package dataset

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// Column names of the source table and the cleaned artifact.
const (
	ColTitle             = "title"
	ColAbstract          = "abstract"
	ColPublishTime       = "publish_time"
	ColJournal           = "journal"
	ColYear              = "year"
	ColAbstractWordCount = "abstract_word_count"
)

// UnknownJournal replaces a missing journal name.
const UnknownJournal = "Unknown"

var (
	// MandatoryColumns must be present on a row for it to survive cleaning.
	MandatoryColumns = []string{ColTitle, ColAbstract, ColPublishTime}
	// SourceColumns must exist in the source header.
	SourceColumns = []string{ColTitle, ColAbstract, ColPublishTime, ColJournal}
	// CleanedColumns are the typed columns of the cleaned artifact.
	CleanedColumns = []string{ColTitle, ColAbstract, ColPublishTime, ColJournal, ColYear, ColAbstractWordCount}
)

// CleanedRecord is one row of the cleaned table. PublishTime and Year are nil
// when the source date could not be parsed.
type CleanedRecord struct {
	Title             string
	Abstract          string
	PublishTime       *time.Time
	Journal           string
	Year              *int
	AbstractWordCount int
	// Extra holds passthrough cells aligned to CleanedTable.ExtraColumns.
	Extra []string
}

// YearValue returns the record's year and whether it is known.
func (r *CleanedRecord) YearValue() (int, bool) {
	if r.Year == nil {
		return 0, false
	}
	return *r.Year, true
}

// WordCount counts whitespace-separated tokens of an abstract. A missing
// abstract is counted through its textual placeholder, so it yields 1.
func WordCount(abstract string) int {
	if IsMissing(abstract) {
		abstract = MissingPlaceholder
	}
	return len(strings.FieldsFunc(abstract, isWordSeparator))
}

// isWordSeparator is Unicode white space plus the ASCII file, group, record
// and unit separators (0x1c-0x1f), which exported text also splits on.
func isWordSeparator(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}

type field int

const (
	fieldExtra field = iota
	fieldTitle
	fieldAbstract
	fieldPublishTime
	fieldJournal
	fieldYear
	fieldWordCount
)

var fieldByName = map[string]field{
	ColTitle:             fieldTitle,
	ColAbstract:          fieldAbstract,
	ColPublishTime:       fieldPublishTime,
	ColJournal:           fieldJournal,
	ColYear:              fieldYear,
	ColAbstractWordCount: fieldWordCount,
}

type column struct {
	field field
	extra int // index into CleanedRecord.Extra when field == fieldExtra
}

// CleanedTable is the cleaned artifact held in memory. Header fixes the
// column order used when the table is written or previewed.
type CleanedTable struct {
	Header  []string
	Records []CleanedRecord

	layout []column
	extras []string
}

func newCleanedTable(header []string) *CleanedTable {
	t := &CleanedTable{Header: header, layout: make([]column, len(header))}
	for i, h := range header {
		if f, ok := fieldByName[h]; ok {
			t.layout[i] = column{field: f}
			continue
		}
		t.layout[i] = column{field: fieldExtra, extra: len(t.extras)}
		t.extras = append(t.extras, h)
	}
	return t
}

// NewCleanedTable builds a table with the given header. The header must
// contain every typed column.
func NewCleanedTable(header []string, records []CleanedRecord) (*CleanedTable, error) {
	seen := make(map[string]bool, len(header))
	for _, h := range header {
		seen[h] = true
	}
	for _, c := range CleanedColumns {
		if !seen[c] {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, c)
		}
	}
	t := newCleanedTable(header)
	t.Records = records
	return t, nil
}

// ExtraColumns lists the passthrough column names in header order.
func (t *CleanedTable) ExtraColumns() []string { return t.extras }

// Len returns the number of records.
func (t *CleanedTable) Len() int { return len(t.Records) }

// Row renders record i as text cells in header order. Null values render
// as empty cells.
func (t *CleanedTable) Row(i int) []string {
	rec := &t.Records[i]
	out := make([]string, len(t.layout))
	for j, c := range t.layout {
		switch c.field {
		case fieldTitle:
			out[j] = rec.Title
		case fieldAbstract:
			out[j] = rec.Abstract
		case fieldPublishTime:
			if rec.PublishTime != nil {
				out[j] = rec.PublishTime.Format(DateLayout)
			}
		case fieldJournal:
			out[j] = rec.Journal
		case fieldYear:
			if rec.Year != nil {
				out[j] = strconv.Itoa(*rec.Year)
			}
		case fieldWordCount:
			out[j] = strconv.Itoa(rec.AbstractWordCount)
		default:
			if c.extra < len(rec.Extra) {
				out[j] = rec.Extra[c.extra]
			}
		}
	}
	return out
}

// SchemaError reports a cell of the cleaned artifact that violates the
// declared schema. Row is 1-based and excludes the header.
type SchemaError struct {
	Column string
	Row    int
	Value  string
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema: row %d column %s: %s (value %q)", e.Row, e.Column, e.Reason, e.Value)
}
