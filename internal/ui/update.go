package ui

import (
	"dbdeck/internal/domain"
	"dbdeck/internal/ui/theme"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func (m *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.filterInput.Width = max(msg.Width-12, 10)
		m.clampGridCursor()
		return m, nil
	case tablesLoadedMsg:
		return m, m.handleTablesLoaded(msg)
	case gridLoadedMsg:
		return m, m.handleGridLoaded(msg)
	case confirmDoneMsg:
		return m, m.handleConfirmDone(msg)
	case noticesPageMsg:
		return m, m.handleNoticesPage(msg)
	case noticeStatusMsg:
		return m, m.handleNoticeStatus(msg)
	case toastTickMsg:
		return m, m.handleToastTick(msg)
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}
	if m.filtering {
		var cmd tea.Cmd
		m.filterInput, cmd = m.filterInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

// handleKey routes a key to the topmost surface: confirmation dialog,
// notifications, help, filter input, then the panes.
func (m *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "ctrl+c" {
		return tea.Quit
	}
	switch {
	case m.slot.IsOpen():
		return m.updateConfirm(msg)
	case m.notices != nil:
		return m.updateNotices(msg)
	case m.showHelp:
		if key.Matches(msg, m.keys.Help, m.keys.Escape) {
			m.showHelp = false
		}
		return nil
	case m.filtering:
		return m.updateFilterInput(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
	case key.Matches(msg, m.keys.Tab):
		m.toggleFocus()
	case key.Matches(msg, m.keys.Up):
		return m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		return m.moveCursor(1)
	case key.Matches(msg, m.keys.Left):
		m.moveColumn(-1)
	case key.Matches(msg, m.keys.Right):
		m.moveColumn(1)
	case key.Matches(msg, m.keys.Select):
		if row, ok := m.currentRow(); ok && m.focus == FocusRows {
			m.selection.Toggle(row)
		}
	case key.Matches(msg, m.keys.SelectAll):
		if len(m.rows) > 0 {
			m.selection.ToggleAll()
		}
	case key.Matches(msg, m.keys.DeleteTable):
		return m.requestDeleteTable()
	case key.Matches(msg, m.keys.DeleteRows):
		return m.requestDeleteRows()
	case key.Matches(msg, m.keys.DeleteColumn):
		return m.requestDeleteColumn()
	case key.Matches(msg, m.keys.Filter):
		if m.currentTable() != nil {
			m.filtering = true
			m.filterInput.Reset()
			return m.filterInput.Focus()
		}
	case key.Matches(msg, m.keys.ClearFilters):
		if len(m.url.Read().Filter) > 0 {
			m.url.ClearFilters()
			m.selection.Clear()
			return m.loadGridCmd()
		}
	case key.Matches(msg, m.keys.Sort):
		return m.toggleSort()
	case key.Matches(msg, m.keys.Notifications):
		return m.openNotices()
	case key.Matches(msg, m.keys.Refresh):
		return m.refreshCmd()
	case key.Matches(msg, m.keys.Copy):
		return m.copyCurrent()
	case key.Matches(msg, m.keys.Theme):
		return m.cycleTheme()
	case key.Matches(msg, m.keys.Escape):
		if m.selection.All() || m.selection.Len() > 0 {
			m.selection.Clear()
		}
	}
	return nil
}

func (m *App) toggleFocus() {
	if m.focus == FocusTables {
		if m.currentTable() != nil {
			m.focus = FocusRows
		}
		return
	}
	m.focus = FocusTables
}

func (m *App) moveCursor(delta int) tea.Cmd {
	if m.focus == FocusRows {
		m.rowCursor += delta
		m.clampGridCursor()
		return nil
	}
	if len(m.tables) == 0 {
		return nil
	}
	next := min(max(m.tableCursor+delta, 0), len(m.tables)-1)
	if next == m.tableCursor {
		return nil
	}
	m.tableCursor = next
	m.resetGrid()
	return m.loadGridCmd()
}

func (m *App) moveColumn(delta int) {
	if len(m.columns) == 0 {
		return
	}
	m.colCursor = min(max(m.colCursor+delta, 0), len(m.columns)-1)
}

func (m *App) updateFilterInput(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.filtering = false
		m.filterInput.Blur()
		return nil
	case "enter":
		raw := m.filterInput.Value()
		m.filtering = false
		m.filterInput.Blur()
		if raw == "" {
			return nil
		}
		f, err := domain.ParseFilter(raw)
		if err != nil {
			return m.showToast(toastError, "Invalid filter", err.Error())
		}
		m.url.AddFilter(f)
		m.selection.Clear()
		return m.loadGridCmd()
	}
	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	return cmd
}

// toggleSort sorts by the column under the cursor, flipping direction when
// it is already the sort column.
func (m *App) toggleSort() tea.Cmd {
	col, ok := m.currentColumn()
	if !ok {
		return nil
	}
	next := domain.Sort{Column: col.Name, Ascending: true}
	for _, s := range m.url.Read().Sorts() {
		if s.Column == col.Name {
			next.Ascending = !s.Ascending
		}
	}
	m.url.SetSort(next)
	return m.loadGridCmd()
}

// copyCurrent copies the table name, or the cell value from the grid.
func (m *App) copyCurrent() tea.Cmd {
	if m.focus == FocusRows {
		row, rowOK := m.currentRow()
		col, colOK := m.currentColumn()
		if rowOK && colOK {
			return m.copyToClipboard(formatCell(row.Values[col.Name]))
		}
	}
	if t := m.currentTable(); t != nil {
		return m.copyToClipboard(t.QualifiedName())
	}
	return nil
}

func (m *App) cycleTheme() tea.Cmd {
	name := theme.Cycle()
	if err := m.saveTheme(name); err != nil {
		return m.showToast(toastError, "Theme: "+name, "Could not save theme: "+err.Error())
	}
	return m.showToast(toastInfo, "Theme: "+name, "")
}
