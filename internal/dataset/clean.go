package dataset

// CleanStats summarizes one cleaning pass.
type CleanStats struct {
	RowsRead    int `json:"rows_read"`
	RowsWritten int `json:"rows_written"`
	RowsDropped int `json:"rows_dropped"`
	// DroppedBy counts dropped rows by the first mandatory column found missing.
	DroppedBy         map[string]int `json:"dropped_by"`
	UnparsedDates     int            `json:"unparsed_dates"`
	DefaultedJournals int            `json:"defaulted_journals"`
}

// Clean turns a source table into the cleaned table:
//   - rows missing title, abstract or publish_time are dropped
//   - a missing journal becomes UnknownJournal
//   - publish_time is parsed; failures leave date and year null
//   - abstract_word_count is derived from the abstract text
//
// Other columns pass through unchanged, except that missing cells are
// written empty. Derived columns are appended to the header unless the
// source already carries columns of the same name.
func Clean(src *Table) (*CleanedTable, CleanStats, error) {
	stats := CleanStats{DroppedBy: map[string]int{}}
	idx, err := src.require(SourceColumns...)
	if err != nil {
		return nil, stats, err
	}

	header := append([]string(nil), src.Header...)
	for _, derived := range []string{ColYear, ColAbstractWordCount} {
		if src.Index(derived) < 0 {
			header = append(header, derived)
		}
	}
	out := newCleanedTable(header)

	// source position of each passthrough column
	extraSrc := make([]int, len(out.extras))
	for i, name := range out.extras {
		extraSrc[i] = src.Index(name)
	}

	ti, ai, pi, ji := idx[ColTitle], idx[ColAbstract], idx[ColPublishTime], idx[ColJournal]
	out.Records = make([]CleanedRecord, 0, len(src.Rows))
	for _, row := range src.Rows {
		stats.RowsRead++
		if col, missing := firstMissing(row, idx); missing {
			stats.RowsDropped++
			stats.DroppedBy[col]++
			continue
		}
		rec := CleanedRecord{
			Title:             row[ti],
			Abstract:          row[ai],
			Journal:           row[ji],
			AbstractWordCount: WordCount(row[ai]),
		}
		if IsMissing(rec.Journal) {
			rec.Journal = UnknownJournal
			stats.DefaultedJournals++
		}
		if ts, ok := ParseDate(row[pi]); ok {
			y := ts.Year()
			rec.PublishTime = &ts
			rec.Year = &y
		} else {
			stats.UnparsedDates++
		}
		if len(extraSrc) > 0 {
			rec.Extra = make([]string, len(extraSrc))
			for i, si := range extraSrc {
				if v := row[si]; !IsMissing(v) {
					rec.Extra[i] = v
				}
			}
		}
		out.Records = append(out.Records, rec)
	}
	stats.RowsWritten = len(out.Records)
	return out, stats, nil
}

func firstMissing(row []string, idx map[string]int) (string, bool) {
	for _, c := range MandatoryColumns {
		if IsMissing(row[idx[c]]) {
			return c, true
		}
	}
	return "", false
}
