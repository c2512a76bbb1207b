package ui

import (
	"slices"
	"sync"

	"dbdeck/internal/domain"
)

// selection tracks grid rows picked for deletion. The row-delete callback
// clears it from the dispatch goroutine, hence the lock.
type selection struct {
	mu   sync.Mutex
	rows map[int]domain.Row
	all  bool
}

func newSelection() *selection {
	return &selection{rows: make(map[int]domain.Row)}
}

func (s *selection) Toggle(row domain.Row) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.all = false
	if _, ok := s.rows[row.Index]; ok {
		delete(s.rows, row.Index)
		return
	}
	s.rows[row.Index] = row
}

// ToggleAll flips "every row of the table" mode.
func (s *selection) ToggleAll() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.all = !s.all
	clear(s.rows)
	return s.all
}

func (s *selection) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.all = false
	clear(s.rows)
}

func (s *selection) All() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.all
}

func (s *selection) Has(index int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.all {
		return true
	}
	_, ok := s.rows[index]
	return ok
}

func (s *selection) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}

// Rows returns the picked rows ordered by grid position.
func (s *selection) Rows() []domain.Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Row, 0, len(s.rows))
	for _, r := range s.rows {
		out = append(out, r)
	}
	slices.SortFunc(out, func(a, b domain.Row) int { return a.Index - b.Index })
	return out
}
