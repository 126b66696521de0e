package dashboard

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/KaramelBytes/cord19/internal/analysis"
	"github.com/KaramelBytes/cord19/internal/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixtureRow struct {
	title   string
	journal string
	year    int // 0 means unknown
}

func fixtureTable(t *testing.T, rows ...fixtureRow) *dataset.CleanedTable {
	t.Helper()
	recs := make([]dataset.CleanedRecord, len(rows))
	for i, r := range rows {
		recs[i] = dataset.CleanedRecord{Title: r.title, Abstract: "some abstract text", Journal: r.journal, AbstractWordCount: 3}
		if r.year != 0 {
			y := r.year
			ts := time.Date(y, time.March, 1, 0, 0, 0, 0, time.UTC)
			recs[i].Year = &y
			recs[i].PublishTime = &ts
		}
	}
	tbl, err := dataset.NewCleanedTable(dataset.CleanedColumns, recs)
	require.NoError(t, err)
	return tbl
}

func sampleTable(t *testing.T) *dataset.CleanedTable {
	return fixtureTable(t,
		fixtureRow{"Early signal", "Lancet", 2019},
		fixtureRow{"Spread model", "BMJ", 2020},
		fixtureRow{"Masks", "Lancet", 2020},
		fixtureRow{"Vaccines", "Nature", 2021},
		fixtureRow{"Undated", "BMJ", 0},
	)
}

func TestFilterInclusiveSingleYear(t *testing.T) {
	tbl := fixtureTable(t,
		fixtureRow{"a", "J", 2019},
		fixtureRow{"b", "J", 2020},
		fixtureRow{"c", "J", 2020},
		fixtureRow{"d", "J", 2021},
	)
	idx := Filter(tbl, Range{Lo: 2020, Hi: 2020})
	require.Len(t, idx, 2)
	for _, i := range idx {
		y, ok := tbl.Records[i].YearValue()
		assert.True(t, ok)
		assert.Equal(t, 2020, y)
	}
}

func TestFilterExcludesUnknownYears(t *testing.T) {
	idx := Filter(sampleTable(t), Range{Lo: 1900, Hi: 2100})
	assert.Equal(t, []int{0, 1, 2, 3}, idx)
}

func TestComputeBounds(t *testing.T) {
	b, err := ComputeBounds(sampleTable(t), 2020, 2021)
	require.NoError(t, err)
	assert.Equal(t, Bounds{Min: 2019, Max: 2021, Default: Range{Lo: 2020, Hi: 2021}}, b)
}

func TestComputeBoundsClampsDefault(t *testing.T) {
	tbl := fixtureTable(t, fixtureRow{"old", "J", 2015}, fixtureRow{"older", "J", 2012})
	b, err := ComputeBounds(tbl, 2020, 2021)
	require.NoError(t, err)
	assert.Equal(t, Range{Lo: 2015, Hi: 2015}, b.Default)

	tbl = fixtureTable(t, fixtureRow{"x", "J", 2020}, fixtureRow{"y", "J", 2023})
	b, err = ComputeBounds(tbl, 2018, 2021)
	require.NoError(t, err)
	assert.Equal(t, Range{Lo: 2020, Hi: 2021}, b.Default)
}

func TestComputeBoundsNoYears(t *testing.T) {
	_, err := ComputeBounds(fixtureTable(t, fixtureRow{"u", "J", 0}), 2020, 2021)
	assert.ErrorIs(t, err, ErrNoYears)
}

func TestBuildView(t *testing.T) {
	v := BuildView(sampleTable(t), Range{Lo: 2020, Hi: 2021}, 10, 2)
	assert.Equal(t, 3, v.Matched)
	assert.Equal(t, []analysis.YearCount{{Year: 2020, Count: 2}, {Year: 2021, Count: 1}}, v.Years)
	assert.Equal(t, []analysis.JournalCount{{Journal: "BMJ", Count: 1}, {Journal: "Lancet", Count: 1}, {Journal: "Nature", Count: 1}}, v.Journals)
	assert.Equal(t, dataset.CleanedColumns, v.Columns)
	require.Len(t, v.Preview, 2)
	assert.Equal(t, []string{"Spread model", "some abstract text", "2020-03-01", "BMJ", "2020", "3"}, v.Preview[0])
}

func TestBuildViewEmptySubset(t *testing.T) {
	v := BuildView(sampleTable(t), Range{Lo: 1990, Hi: 1991}, 10, 5)
	assert.Zero(t, v.Matched)
	assert.NotNil(t, v.Years)
	assert.NotNil(t, v.Journals)
	assert.NotNil(t, v.Preview)
}

func TestSessionLoadsOnce(t *testing.T) {
	var calls int32
	tbl := sampleTable(t)
	s := &Session{load: func() (*dataset.CleanedTable, error) {
		atomic.AddInt32(&calls, 1)
		return tbl, nil
	}}
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := s.Table()
			assert.NoError(t, err)
			assert.Same(t, tbl, got)
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestSessionCachesFailure(t *testing.T) {
	var calls int
	boom := errors.New("boom")
	s := &Session{load: func() (*dataset.CleanedTable, error) {
		calls++
		return nil, boom
	}}
	_, err := s.Table()
	assert.ErrorIs(t, err, boom)
	_, err = s.Table()
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}
