package dataset

import (
	"strings"
	"time"
)

// DateLayout is the serialized form of publish_time in the cleaned artifact.
const DateLayout = "2006-01-02"

// dateLayouts are tried in order. CORD-19 mixes full dates, bare years and
// "2020 Mar 15" style values in the same column.
var dateLayouts = []string{
	DateLayout,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01",
	"2006",
	"2006 Jan 2",
	"2006 Jan",
	"2006 January 2",
	"2006 January",
	"2006/01/02",
	"01/02/2006",
	"Jan 2, 2006",
	"2 Jan 2006",
}

// Years outside this window are not representable as nanosecond timestamps
// and are treated as unparseable.
const (
	minDateYear = 1677
	maxDateYear = 2262
)

// ParseDate parses a free-text publication date into a calendar date (UTC
// midnight). ok is false for missing or unrecognized values.
func ParseDate(s string) (time.Time, bool) {
	if IsMissing(s) {
		return time.Time{}, false
	}
	s = strings.TrimSpace(s)
	for _, l := range dateLayouts {
		t, err := time.Parse(l, s)
		if err != nil {
			continue
		}
		y, m, d := t.Date()
		if y < minDateYear || y > maxDateYear {
			return time.Time{}, false
		}
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}
