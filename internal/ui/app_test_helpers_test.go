package ui

import (
	"context"
	"sync"
	"testing"
	"time"

	"dbdeck/internal/confirm"
	"dbdeck/internal/dispatch"
	"dbdeck/internal/domain"
	"dbdeck/internal/meta"
	"dbdeck/internal/notifications"
	"dbdeck/internal/querycache"
	"dbdeck/internal/urlstate"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
)

type fakeBrowser struct {
	mu      sync.Mutex
	tables  []domain.Table
	columns map[int64][]domain.Column
	rows    map[int64][]domain.Row
	queries []meta.RowsQuery
}

func newFakeBrowser() *fakeBrowser {
	users := domain.Table{ID: 1, Schema: "public", Name: "users", Kind: domain.KindTable}
	orders := domain.Table{ID: 2, Schema: "public", Name: "orders", Kind: domain.KindTable}
	return &fakeBrowser{
		tables: []domain.Table{users, orders},
		columns: map[int64][]domain.Column{
			1: {
				{ID: "1.1", TableID: 1, Name: "id", Position: 1, DataType: "integer"},
				{ID: "1.2", TableID: 1, Name: "email", Position: 2, DataType: "text", Nullable: true},
			},
			2: {
				{ID: "2.1", TableID: 2, Name: "id", Position: 1, DataType: "integer"},
			},
		},
		rows: map[int64][]domain.Row{
			1: {
				{Index: 0, Values: map[string]any{"id": int64(1), "email": "ada@example.com"}},
				{Index: 1, Values: map[string]any{"id": int64(2), "email": nil}},
				{Index: 2, Values: map[string]any{"id": int64(3), "email": "grace@example.com"}},
			},
		},
	}
}

func (f *fakeBrowser) GetTables(context.Context, string) ([]domain.Table, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Table(nil), f.tables...), nil
}

func (f *fakeBrowser) Columns(_ context.Context, t domain.Table) ([]domain.Column, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.columns[t.ID], nil
}

func (f *fakeBrowser) Rows(_ context.Context, q meta.RowsQuery) ([]domain.Row, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
	return f.rows[q.Table.ID], nil
}

func (f *fakeBrowser) CountRows(_ context.Context, t domain.Table, _ []domain.Filter) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.rows[t.ID]), nil
}

func (f *fakeBrowser) lastQuery() meta.RowsQuery {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.queries) == 0 {
		return meta.RowsQuery{}
	}
	return f.queries[len(f.queries)-1]
}

// fakeConfirmer records confirmations and answers with outcome. Like the
// real dispatcher it runs the row callback on success.
type fakeConfirmer struct {
	mu      sync.Mutex
	targets []dispatch.Target
	states  []confirm.State
	outcome func(confirm.State) dispatch.Outcome
}

func (f *fakeConfirmer) Confirm(_ context.Context, target dispatch.Target, state confirm.State) dispatch.Outcome {
	f.mu.Lock()
	f.targets = append(f.targets, target)
	f.states = append(f.states, state)
	f.mu.Unlock()

	out := dispatch.Outcome{Kind: state.Kind(), Level: dispatch.LevelSuccess, Message: "ok"}
	if f.outcome != nil {
		out = f.outcome(state)
	}
	if rd, ok := state.(confirm.RowDelete); ok && out.Level == dispatch.LevelSuccess && rd.Callback != nil {
		rd.Callback()
	}
	return out
}

func (f *fakeConfirmer) calls() []confirm.State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]confirm.State(nil), f.states...)
}

type fakeUpdater struct {
	mu    sync.Mutex
	calls []notifications.Status
	ids   []uuid.UUID
}

func (f *fakeUpdater) UpdateStatus(_ context.Context, ids []uuid.UUID, status notifications.Status) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, status)
	f.ids = append(f.ids, ids...)
	return nil
}

// pagedFetcher serves total notifications in pages.
type pagedFetcher struct {
	total int
}

func (p *pagedFetcher) Fetch(_ context.Context, q notifications.Query) ([]notifications.Notification, error) {
	var out []notifications.Notification
	for i := q.Page * q.Limit; i < p.total && i < (q.Page+1)*q.Limit; i++ {
		out = append(out, notifications.Notification{
			ID:       uuid.New(),
			Status:   notifications.StatusNew,
			Priority: notifications.PriorityWarning,
			Data: notifications.Data{
				Title:   "Notice " + string(rune('A'+i)),
				Message: "Project **paused**",
				Actions: []notifications.Action{{Label: "Open", URL: "https://example.com/" + string(rune('a'+i))}},
			},
		})
	}
	return out, nil
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type testEnv struct {
	app       *App
	browser   *fakeBrowser
	confirmer *fakeConfirmer
	url       *urlstate.Store
	cache     *querycache.Cache
	updater   *fakeUpdater
	clock     *testClock
	copied    []string
	saved     []string
}

type envOption func(*Config)

func withFeed(total int) envOption {
	return func(cfg *Config) {
		cfg.Feed = notifications.NewFeed(&pagedFetcher{total: total}, notifications.Query{Limit: 3})
	}
}

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()
	env := &testEnv{
		browser:   newFakeBrowser(),
		confirmer: &fakeConfirmer{},
		url:       urlstate.New(),
		cache:     querycache.New(),
		updater:   &fakeUpdater{},
		clock:     &testClock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)},
	}
	cfg := Config{
		Project:      &domain.Project{Ref: "default"},
		Schema:       "public",
		Driver:       "sqlite",
		Browser:      env.browser,
		Dispatcher:   env.confirmer,
		URL:          env.url,
		Cache:        env.cache,
		Notices:      env.updater,
		OutputFormat: "plain",
		Clipboard: func(s string) error {
			env.copied = append(env.copied, s)
			return nil
		},
		SaveTheme: func(name string) error {
			env.saved = append(env.saved, name)
			return nil
		},
		Now: env.clock.Now,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	app, err := NewApp(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewApp: %v", err)
	}
	env.app = app
	app.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	pump(t, app, app.Init())
	return env
}

// pump runs cmd and feeds every message it produces back into the app
// until nothing is left. Commands that block (ticks, cursor blink) are
// dropped.
func pump(t *testing.T, m *App, cmd tea.Cmd) {
	t.Helper()
	for _, msg := range collect(cmd) {
		_, next := m.Update(msg)
		pump(t, m, next)
	}
}

func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	select {
	case msg := <-ch:
		switch msg := msg.(type) {
		case nil:
			return nil
		case toastTickMsg:
			return nil
		case tea.BatchMsg:
			var out []tea.Msg
			for _, c := range msg {
				out = append(out, collect(c)...)
			}
			return out
		default:
			return []tea.Msg{msg}
		}
	case <-time.After(50 * time.Millisecond):
		return nil
	}
}

func press(t *testing.T, m *App, keys ...string) {
	t.Helper()
	for _, k := range keys {
		_, cmd := m.Update(keyMsg(k))
		pump(t, m, cmd)
	}
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}
