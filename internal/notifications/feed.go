package notifications

import (
	"context"
	"sync"
)

// Fetcher loads a single page.
type Fetcher interface {
	Fetch(ctx context.Context, q Query) ([]Notification, error)
}

// NextPageParam returns the index of the page after pages, or false when
// the last page came back shorter than limit.
func NextPageParam(last []Notification, pages, limit int) (int, bool) {
	if len(last) < limit {
		return 0, false
	}
	return pages, true
}

// Feed accumulates pages in server order. It is safe for concurrent use;
// a page only lands if its fetch completes and no Reset happened meanwhile.
type Feed struct {
	fetcher Fetcher
	query   Query

	mu         sync.Mutex
	pages      [][]Notification
	generation int
}

// NewFeed returns an empty feed for q. q.Page is ignored.
func NewFeed(fetcher Fetcher, q Query) *Feed {
	q.Page = 0
	q.Limit = q.limit()
	return &Feed{fetcher: fetcher, query: q}
}

// Limit returns the page size.
func (f *Feed) Limit() int {
	return f.query.Limit
}

// HasNext reports whether another page can be loaded.
func (f *Feed) HasNext() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.nextLocked()
	return ok
}

func (f *Feed) nextLocked() (int, bool) {
	if len(f.pages) == 0 {
		return 0, true
	}
	return NextPageParam(f.pages[len(f.pages)-1], len(f.pages), f.query.Limit)
}

// Next fetches the next page and returns it. It returns (nil, nil) when
// there is nothing more to load. On error or cancellation the feed is
// unchanged.
func (f *Feed) Next(ctx context.Context) ([]Notification, error) {
	f.mu.Lock()
	page, ok := f.nextLocked()
	gen := f.generation
	f.mu.Unlock()
	if !ok {
		return nil, nil
	}

	q := f.query
	q.Page = page
	items, err := f.fetcher.Fetch(ctx, q)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if gen != f.generation || len(f.pages) != page {
		// Reset or a concurrent Next won the race.
		return nil, nil
	}
	f.pages = append(f.pages, items)
	return items, nil
}

// Pages returns the number of loaded pages.
func (f *Feed) Pages() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pages)
}

// Items returns all loaded notifications, pages concatenated in order.
func (f *Feed) Items() []Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Notification
	for _, p := range f.pages {
		out = append(out, p...)
	}
	return out
}

// Reset drops every loaded page.
func (f *Feed) Reset() {
	f.mu.Lock()
	f.pages = nil
	f.generation++
	f.mu.Unlock()
}
