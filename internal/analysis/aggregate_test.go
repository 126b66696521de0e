package analysis

import (
	"reflect"
	"strings"
	"testing"

	"github.com/KaramelBytes/cord19/internal/dataset"
)

func recs(years []int, journals []string, titles []string) []dataset.CleanedRecord {
	n := len(years)
	if len(journals) > n {
		n = len(journals)
	}
	if len(titles) > n {
		n = len(titles)
	}
	out := make([]dataset.CleanedRecord, n)
	for i := range out {
		if i < len(years) && years[i] != 0 {
			y := years[i]
			out[i].Year = &y
		}
		if i < len(journals) {
			out[i].Journal = journals[i]
		} else {
			out[i].Journal = dataset.UnknownJournal
		}
		if i < len(titles) {
			out[i].Title = titles[i]
		}
	}
	return out
}

func TestPublicationsByYearAscending(t *testing.T) {
	got := PublicationsByYear(recs([]int{2020, 2020, 2021, 2019}, nil, nil))
	want := []YearCount{{2019, 1}, {2020, 2}, {2021, 1}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestPublicationsByYearSkipsNullYears(t *testing.T) {
	got := PublicationsByYear(recs([]int{0, 2020, 0}, nil, nil))
	if !reflect.DeepEqual(got, []YearCount{{2020, 1}}) {
		t.Fatalf("got %v", got)
	}
	if got := PublicationsByYear(nil); len(got) != 0 {
		t.Fatalf("empty input gave %v", got)
	}
}

func TestTopJournalsTiesKeepEncounterOrder(t *testing.T) {
	journals := []string{"BMJ", "Lancet", "Nature", "Lancet", "Cell", "BMJ", "Science"}
	got := TopJournals(recs(nil, journals, nil), 4)
	want := []JournalCount{{"BMJ", 2}, {"Lancet", 2}, {"Nature", 1}, {"Cell", 1}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	if all := TopJournals(recs(nil, journals, nil), 0); len(all) != 5 {
		t.Fatalf("n=0 should return all journals, got %v", all)
	}
}

func TestTopTitleWordsOrder(t *testing.T) {
	got := TopTitleWords(recs(nil, nil, []string{"Deep learning models", "deep learning review"}), 4, 15)
	want := []TermCount{{"deep", 2}, {"learning", 2}, {"models", 1}, {"review", 1}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestTopTitleWordsSkipsMissingTitles(t *testing.T) {
	got := TopTitleWords(recs(nil, nil, []string{"", "Viral load", "nan"}), 4, 15)
	want := []TermCount{{"viral", 1}, {"load", 1}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestTopTitleWordsPerRuneLowerCase(t *testing.T) {
	got := TopTitleWords(recs(nil, nil, []string{"İNFECTION CONTROL"}), 4, 15)
	want := []TermCount{{"infection", 1}, {"control", 1}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestTokensWordBoundaries(t *testing.T) {
	cases := map[string][]string{
		"covid-19 spread":         {"covid", "spread"},
		"sars2 cov_two abc":       nil,
		"the cat sat":             nil,
		"naïve models":            {"models"},
		"(masks), vaccines; data": {"masks", "vaccines", "data"},
		"h1n1 virus":              {"virus"},
		"übermodels viruses":      {"viruses"},
	}
	for in, want := range cases {
		got := Tokens(in, 4)
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Tokens(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTopTermsLimit(t *testing.T) {
	text := strings.Repeat("alpha ", 3) + strings.Repeat("beta1 gamma ", 2) + "delta"
	got := TopTerms(text, 4, 2)
	want := []TermCount{{"alpha", 3}, {"gamma", 2}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestBuildReport(t *testing.T) {
	rs := recs([]int{2020, 0, 2021}, []string{"BMJ", "Unknown", "BMJ"}, []string{"Viral spread", "Spread models", "Masks"})
	tbl, err := dataset.NewCleanedTable(dataset.CleanedColumns, rs)
	if err != nil {
		t.Fatalf("NewCleanedTable: %v", err)
	}
	r := Build("clean.csv", tbl, Options{})
	if r.Rows != 3 || r.MissingYears != 1 {
		t.Fatalf("rows=%d missing=%d", r.Rows, r.MissingYears)
	}
	if len(r.Years) != 2 || r.Journals[0] != (JournalCount{"BMJ", 2}) || r.Words[0] != (TermCount{"spread", 2}) {
		t.Fatalf("unexpected report: %+v", r)
	}
	md := r.Markdown()
	for _, sec := range []string{"[REPORT SUMMARY]", "[PUBLICATIONS BY YEAR]", "| 2020 | 1 |", "[TOP JOURNALS]", "| BMJ | 2 |", "[TOP TITLE WORDS]", "- spread: 2"} {
		if !strings.Contains(md, sec) {
			t.Fatalf("markdown missing %q:\n%s", sec, md)
		}
	}

	yc := YearChart(r.Years)
	if yc.Horizontal || len(yc.Bars) != 2 || yc.Bars[0].Label != "2020" || yc.Bars[1].Value != 1 {
		t.Fatalf("year chart = %+v", yc)
	}
	jc := JournalChart(r.Journals)
	if !jc.Horizontal || jc.Bars[0].Label != "BMJ" || jc.Bars[0].Value != 2 {
		t.Fatalf("journal chart = %+v", jc)
	}
}
