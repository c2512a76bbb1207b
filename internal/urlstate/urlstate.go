// Package urlstate keeps the grid's filter and sort params in a query
// string so a view can be shared or restored.
package urlstate

import (
	"net/url"
	"slices"
	"sync"

	"dbdeck/internal/domain"
)

const (
	keyFilter = "filter"
	keySort   = "sort"
)

// Params is a snapshot of the URL state.
type Params struct {
	Filter []string
	Sort   []string
	// Extra carries any other query keys untouched.
	Extra url.Values
}

// Filters parses Filter, dropping entries that do not parse.
func (p Params) Filters() []domain.Filter {
	return domain.FormatFilterParams(p.Filter)
}

// Sorts parses Sort, dropping entries that do not parse.
func (p Params) Sorts() []domain.Sort {
	return domain.FormatSortParams(p.Sort)
}

func (p Params) clone() Params {
	out := Params{
		Filter: slices.Clone(p.Filter),
		Sort:   slices.Clone(p.Sort),
		Extra:  url.Values{},
	}
	for k, v := range p.Extra {
		out.Extra[k] = slices.Clone(v)
	}
	return out
}

// Store holds the current params. It is safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	params Params
}

// New returns an empty store.
func New() *Store {
	return &Store{params: Params{Extra: url.Values{}}}
}

// Parse builds a store from a raw query string such as
// "filter=age:eq:30&sort=name:asc".
func Parse(raw string) (*Store, error) {
	values, err := url.ParseQuery(raw)
	if err != nil {
		return nil, err
	}
	s := New()
	s.params.Filter = values[keyFilter]
	s.params.Sort = values[keySort]
	for k, v := range values {
		if k == keyFilter || k == keySort {
			continue
		}
		s.params.Extra[k] = v
	}
	return s, nil
}

// Read returns a copy of the current params.
func (s *Store) Read() Params {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.params.clone()
}

// Write replaces the params with fn's result. fn receives a copy.
func (s *Store) Write(fn func(Params) Params) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := fn(s.params.clone())
	if next.Extra == nil {
		next.Extra = url.Values{}
	}
	s.params = next
}

// AddFilter appends f to the filter params.
func (s *Store) AddFilter(f domain.Filter) {
	s.Write(func(p Params) Params {
		p.Filter = append(p.Filter, f.Param())
		return p
	})
}

// SetSort replaces the sort params with a single sort.
func (s *Store) SetSort(sort domain.Sort) {
	s.Write(func(p Params) Params {
		p.Sort = []string{sort.Param()}
		return p
	})
}

// ClearFilters removes every filter param.
func (s *Store) ClearFilters() {
	s.Write(func(p Params) Params {
		p.Filter = nil
		return p
	})
}

// RemoveColumn drops every filter and sort that refers to column.
func (s *Store) RemoveColumn(column string) {
	s.Write(func(p Params) Params {
		p.Filter = domain.WithoutColumn(p.Filter, column)
		p.Sort = domain.WithoutColumn(p.Sort, column)
		return p
	})
}

// Encode renders the params as a query string.
func (s *Store) Encode() string {
	p := s.Read()
	values := url.Values{}
	for k, v := range p.Extra {
		values[k] = v
	}
	if len(p.Filter) > 0 {
		values[keyFilter] = p.Filter
	}
	if len(p.Sort) > 0 {
		values[keySort] = p.Sort
	}
	return values.Encode()
}
