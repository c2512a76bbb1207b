package ui

import (
	"context"
	"fmt"
	"time"

	"dbdeck/internal/confirm"
	"dbdeck/internal/debug"
	"dbdeck/internal/dispatch"
	"dbdeck/internal/domain"
	"dbdeck/internal/meta"
	"dbdeck/internal/notifications"
	"dbdeck/internal/querycache"
	"dbdeck/internal/urlstate"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
)

const (
	defaultPageSize = 100
	tablesPaneWidth = 30
	minGridHeight   = 3
)

// Browser reads table metadata and rows.
type Browser interface {
	GetTables(ctx context.Context, schema string) ([]domain.Table, error)
	Columns(ctx context.Context, table domain.Table) ([]domain.Column, error)
	Rows(ctx context.Context, q meta.RowsQuery) ([]domain.Row, error)
	CountRows(ctx context.Context, table domain.Table, filters []domain.Filter) (int, error)
}

// Confirmer runs a confirmed dialog.
type Confirmer interface {
	Confirm(ctx context.Context, target dispatch.Target, state confirm.State) dispatch.Outcome
}

// NoticeUpdater changes the status of notifications.
type NoticeUpdater interface {
	UpdateStatus(ctx context.Context, ids []uuid.UUID, status notifications.Status) error
}

// Config wires the UI to its collaborators. Browser, Dispatcher, URL and
// Cache are required; Feed and Notices may be nil when no API is configured.
type Config struct {
	Project    *domain.Project
	Schema     string
	Driver     string
	Browser    Browser
	Dispatcher Confirmer
	URL        *urlstate.Store
	Cache      *querycache.Cache
	Feed       *notifications.Feed
	Notices    NoticeUpdater
	// Role is shown in the header while row mutations impersonate it.
	Role     func() domain.Role
	PageSize int
	// OutputFormat picks the markdown style: rich, light or plain.
	OutputFormat string
	Version      string
	// Clipboard defaults to the system clipboard.
	Clipboard func(string) error
	// SaveTheme persists the theme picked with the theme key.
	SaveTheme func(string) error
	// Now defaults to time.Now.
	Now func() time.Time
}

// FocusArea is the pane receiving navigation keys.
type FocusArea int

const (
	FocusTables FocusArea = iota
	FocusRows
)

// App is the Bubble Tea model of the table browser.
type App struct {
	ctx        context.Context
	project    *domain.Project
	schema     string
	driver     string
	browser    Browser
	dispatcher Confirmer
	url        *urlstate.Store
	cache      *querycache.Cache
	role       func() domain.Role
	pageSize   int
	version    string
	keys       KeyMap

	clipboard func(string) error
	saveTheme func(string) error
	now       func() time.Time

	width  int
	height int
	ready  bool
	focus  FocusArea

	tables      []domain.Table
	tableCursor int
	loading     bool
	lastError   string

	columns   []domain.Column
	rows      []domain.Row
	totalRows int
	rowCursor int
	rowTop    int
	colCursor int
	selection *selection

	filtering   bool
	filterInput textinput.Model

	slot     *confirm.Slot
	showHelp bool

	feed           *notifications.Feed
	noticeUpdater  NoticeUpdater
	notices        *noticesOverlay
	noticeGen      int
	markdownFormat string

	toast    *toast
	toastSeq int
}

// NewApp builds the model. Data loads asynchronously from Init.
func NewApp(ctx context.Context, cfg Config) (*App, error) {
	if cfg.Browser == nil || cfg.Dispatcher == nil || cfg.URL == nil || cfg.Cache == nil {
		return nil, fmt.Errorf("ui: browser, dispatcher, url state and cache are required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = defaultPageSize
	}
	if cfg.Clipboard == nil {
		cfg.Clipboard = clipboard.WriteAll
	}
	if cfg.SaveTheme == nil {
		cfg.SaveTheme = func(string) error { return nil }
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Role == nil {
		cfg.Role = func() domain.Role { return domain.Role{} }
	}

	ti := textinput.New()
	ti.Placeholder = "column:operator:value"
	ti.Prompt = "filter> "

	return &App{
		ctx:            ctx,
		project:        cfg.Project,
		schema:         cfg.Schema,
		driver:         cfg.Driver,
		browser:        cfg.Browser,
		dispatcher:     cfg.Dispatcher,
		url:            cfg.URL,
		cache:          cfg.Cache,
		role:           cfg.Role,
		pageSize:       cfg.PageSize,
		version:        cfg.Version,
		keys:           DefaultKeyMap(),
		clipboard:      cfg.Clipboard,
		saveTheme:      cfg.SaveTheme,
		now:            cfg.Now,
		focus:          FocusTables,
		selection:      newSelection(),
		filterInput:    ti,
		slot:           confirm.NewSlot(),
		feed:           cfg.Feed,
		noticeUpdater:  cfg.Notices,
		markdownFormat: cfg.OutputFormat,
	}, nil
}

func (m *App) Init() tea.Cmd {
	m.loading = true
	return m.loadTablesCmd()
}

func (m *App) projectRef() string {
	if m.project == nil {
		return ""
	}
	return m.project.Ref
}

func (m *App) loadTablesCmd() tea.Cmd {
	browser, cache, ctx, schema := m.browser, m.cache, m.ctx, m.schema
	key := querycache.ViewListBySchema(m.projectRef(), schema)
	return func() tea.Msg {
		v, err := cache.Fetch(ctx, key, func(ctx context.Context) (any, error) {
			return browser.GetTables(ctx, schema)
		})
		if err != nil {
			return tablesLoadedMsg{err: err}
		}
		tables, _ := v.([]domain.Table)
		return tablesLoadedMsg{tables: tables}
	}
}

// loadGridCmd loads the columns, first page and row count of the selected
// table with the current filters and sorts.
func (m *App) loadGridCmd() tea.Cmd {
	table := m.currentTable()
	if table == nil {
		m.columns, m.rows, m.totalRows = nil, nil, 0
		return nil
	}
	m.loading = true
	t := *table
	browser, cache, ctx := m.browser, m.cache, m.ctx
	params := m.url.Read()
	colKey := querycache.Columns(m.projectRef(), t.ID)
	q := meta.RowsQuery{Table: t, Filters: params.Filters(), Sorts: params.Sorts(), Limit: m.pageSize}
	return func() tea.Msg {
		v, err := cache.Fetch(ctx, colKey, func(ctx context.Context) (any, error) {
			return browser.Columns(ctx, t)
		})
		if err != nil {
			return gridLoadedMsg{tableID: t.ID, err: err}
		}
		columns, _ := v.([]domain.Column)
		rows, err := browser.Rows(ctx, q)
		if err != nil {
			return gridLoadedMsg{tableID: t.ID, columns: columns, err: err}
		}
		total, err := browser.CountRows(ctx, t, q.Filters)
		if err != nil {
			return gridLoadedMsg{tableID: t.ID, columns: columns, err: err}
		}
		return gridLoadedMsg{tableID: t.ID, columns: columns, rows: rows, total: total}
	}
}

func (m *App) invalidateColumns(tableID int64) {
	m.invalidate(querycache.Columns(m.projectRef(), tableID))
}

func (m *App) invalidate(key querycache.Key) {
	if err := m.cache.Invalidate(m.ctx, key); err != nil {
		debug.Logf("invalidate %v: %v", []string(key), err)
	}
}

// refreshCmd drops cached metadata and reloads the table list.
func (m *App) refreshCmd() tea.Cmd {
	m.invalidate(querycache.ViewListBySchema(m.projectRef(), m.schema))
	if t := m.currentTable(); t != nil {
		m.invalidateColumns(t.ID)
	}
	m.loading = true
	return m.loadTablesCmd()
}

func (m *App) handleTablesLoaded(msg tablesLoadedMsg) tea.Cmd {
	m.loading = false
	if msg.err != nil {
		m.lastError = msg.err.Error()
		return m.showToast(toastError, "Failed to load tables", msg.err.Error())
	}
	m.lastError = ""
	m.setTables(msg.tables)
	return m.loadGridCmd()
}

// setTables replaces the table list, keeping the cursor on the same table
// when it still exists.
func (m *App) setTables(tables []domain.Table) {
	var selectedID int64 = -1
	if t := m.currentTable(); t != nil {
		selectedID = t.ID
	}
	m.tables = tables
	m.tableCursor = 0
	for i, t := range tables {
		if t.ID == selectedID {
			m.tableCursor = i
			break
		}
	}
	if selectedID >= 0 && (m.currentTable() == nil || m.currentTable().ID != selectedID) {
		m.resetGrid()
	}
}

// resetGrid forgets the grid of the previous table, including its filter
// and sort params.
func (m *App) resetGrid() {
	m.columns, m.rows, m.totalRows = nil, nil, 0
	m.rowCursor, m.rowTop, m.colCursor = 0, 0, 0
	m.selection.Clear()
	m.url.Write(func(p urlstate.Params) urlstate.Params {
		p.Filter, p.Sort = nil, nil
		return p
	})
}

func (m *App) handleGridLoaded(msg gridLoadedMsg) tea.Cmd {
	t := m.currentTable()
	if t == nil || t.ID != msg.tableID {
		return nil
	}
	m.loading = false
	if msg.err != nil {
		m.lastError = msg.err.Error()
		return m.showToast(toastError, "Failed to load "+t.Name, msg.err.Error())
	}
	m.lastError = ""
	m.columns = msg.columns
	m.rows = msg.rows
	m.totalRows = msg.total
	m.clampGridCursor()
	return nil
}

func (m *App) currentTable() *domain.Table {
	if m.tableCursor < 0 || m.tableCursor >= len(m.tables) {
		return nil
	}
	return &m.tables[m.tableCursor]
}

func (m *App) currentColumn() (domain.Column, bool) {
	if m.colCursor < 0 || m.colCursor >= len(m.columns) {
		return domain.Column{}, false
	}
	return m.columns[m.colCursor], true
}

func (m *App) currentRow() (domain.Row, bool) {
	if m.rowCursor < 0 || m.rowCursor >= len(m.rows) {
		return domain.Row{}, false
	}
	return m.rows[m.rowCursor], true
}

func (m *App) copyToClipboard(value string) tea.Cmd {
	if err := m.clipboard(value); err != nil {
		return m.showToast(toastError, "Copy failed", err.Error())
	}
	return m.showToast(toastSuccess, fmt.Sprintf("Copied '%s' to clipboard.", truncateText(value, 40)), "")
}
