package dashboard

import (
	"sync"

	"github.com/KaramelBytes/cord19/internal/dataset"
)

// Session caches the cleaned table for the lifetime of the dashboard. The
// table is read on first use and never reloaded; it is read-only afterwards.
type Session struct {
	load  func() (*dataset.CleanedTable, error)
	once  sync.Once
	table *dataset.CleanedTable
	err   error
}

// NewSession returns a session backed by the cleaned artifact at path.
func NewSession(path string) *Session {
	return &Session{load: func() (*dataset.CleanedTable, error) { return dataset.LoadCleaned(path) }}
}

// NewSessionFromTable returns a session over an already loaded table.
func NewSessionFromTable(t *dataset.CleanedTable) *Session {
	return &Session{load: func() (*dataset.CleanedTable, error) { return t, nil }}
}

// Table returns the cached table, loading it on the first call. A failed
// load is cached too.
func (s *Session) Table() (*dataset.CleanedTable, error) {
	s.once.Do(func() {
		s.table, s.err = s.load()
	})
	return s.table, s.err
}
