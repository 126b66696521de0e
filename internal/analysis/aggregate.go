package analysis

import (
	"sort"
	"strings"
	"unicode"

	"github.com/KaramelBytes/cord19/internal/dataset"
)

// YearCount is one row of the publications-by-year table.
type YearCount struct {
	Year  int `json:"year"`
	Count int `json:"count"`
}

// JournalCount is one row of the top-journals table.
type JournalCount struct {
	Journal string `json:"journal"`
	Count   int    `json:"count"`
}

// TermCount is one row of a word-frequency table.
type TermCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// PublicationsByYear counts records per known year, ascending by year.
// Records without a year are skipped.
func PublicationsByYear(recs []dataset.CleanedRecord) []YearCount {
	counts := map[int]int{}
	for i := range recs {
		if y, ok := recs[i].YearValue(); ok {
			counts[y]++
		}
	}
	out := make([]YearCount, 0, len(counts))
	for y, n := range counts {
		out = append(out, YearCount{Year: y, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}

// TopJournals returns the n most frequent journals. Equal counts keep the
// order in which the journals were first seen. n <= 0 returns all.
func TopJournals(recs []dataset.CleanedRecord, n int) []JournalCount {
	pos := map[string]int{}
	var out []JournalCount
	for i := range recs {
		j := recs[i].Journal
		if dataset.IsMissing(j) {
			continue
		}
		if k, ok := pos[j]; ok {
			out[k].Count++
			continue
		}
		pos[j] = len(out)
		out = append(out, JournalCount{Journal: j, Count: 1})
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Count > out[b].Count })
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// Tokens extracts maximal runs of lower-case ASCII letters of at least minLen
// characters that are not glued to another letter, digit or underscore.
// Callers lower-case the text first.
func Tokens(text string, minLen int) []string {
	var out []string
	rs := []rune(text)
	for i := 0; i < len(rs); {
		if !isLowerASCII(rs[i]) {
			i++
			continue
		}
		start := i
		for i < len(rs) && isLowerASCII(rs[i]) {
			i++
		}
		if i-start < minLen {
			continue
		}
		if start > 0 && isWordRune(rs[start-1]) {
			continue
		}
		if i < len(rs) && isWordRune(rs[i]) {
			continue
		}
		out = append(out, string(rs[start:i]))
	}
	return out
}

func isLowerASCII(r rune) bool { return r >= 'a' && r <= 'z' }

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

// TopTerms counts Tokens of text and returns the n most frequent, ties by
// first occurrence. n <= 0 returns all.
func TopTerms(text string, minLen, n int) []TermCount {
	pos := map[string]int{}
	var out []TermCount
	for _, w := range Tokens(text, minLen) {
		if k, ok := pos[w]; ok {
			out[k].Count++
			continue
		}
		pos[w] = len(out)
		out = append(out, TermCount{Word: w, Count: 1})
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Count > out[b].Count })
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// TopTitleWords joins the non-missing titles with single spaces, lower-cases
// the result and returns its n most frequent words. Lower-casing is the
// per-rune mapping of strings.ToLower, so "İ" becomes a plain "i" and stays
// part of its word.
func TopTitleWords(recs []dataset.CleanedRecord, minLen, n int) []TermCount {
	titles := make([]string, 0, len(recs))
	for i := range recs {
		if !dataset.IsMissing(recs[i].Title) {
			titles = append(titles, recs[i].Title)
		}
	}
	return TopTerms(strings.ToLower(strings.Join(titles, " ")), minLen, n)
}
