package ui

import (
	"strings"

	"dbdeck/internal/confirm"
	"dbdeck/internal/dispatch"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/wordwrap"
)

const confirmContentWidth = 56

var (
	confirmKeys = key.NewBinding(key.WithKeys("enter", "d"))
	cancelKeys  = key.NewBinding(key.WithKeys("esc", "c"))
	cascadeKeys = key.NewBinding(key.WithKeys(" ", "space"))
)

// openConfirm shows the dialog for state, replacing any dialog already open.
func (m *App) openConfirm(state confirm.State) {
	m.slot.Open(state)
}

// updateConfirm handles keys while a confirmation dialog is open. Every
// key is swallowed so the grid underneath does not move.
func (m *App) updateConfirm(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, cascadeKeys):
		m.slot.ToggleCascade()
	case key.Matches(msg, confirmKeys):
		if m.slot.Busy() {
			return nil
		}
		m.slot.SetBusy(true)
		return m.confirmCmd(m.target(), m.slot.Active())
	case key.Matches(msg, cancelKeys):
		if m.slot.Busy() {
			return nil
		}
		m.slot.Close()
	}
	return nil
}

func (m *App) confirmCmd(target dispatch.Target, state confirm.State) tea.Cmd {
	dispatcher := m.dispatcher
	ctx := m.ctx
	return func() tea.Msg {
		return confirmDoneMsg{outcome: dispatcher.Confirm(ctx, target, state)}
	}
}

// handleConfirmDone closes the dialog and reports the outcome.
func (m *App) handleConfirmDone(msg confirmDoneMsg) tea.Cmd {
	m.slot.Close()
	out := msg.outcome

	var cmds []tea.Cmd
	switch out.Level {
	case dispatch.LevelSuccess:
		cmds = append(cmds, m.showToast(toastSuccess, out.Message, ""))
	case dispatch.LevelError:
		cmds = append(cmds, m.showToast(toastError, "Error", out.Message))
		return tea.Batch(cmds...)
	default:
		return nil
	}

	switch out.Kind {
	case confirm.KindTable:
		m.setTables(out.Tables)
		cmds = append(cmds, m.loadGridCmd())
	case confirm.KindColumn:
		if t := m.currentTable(); t != nil {
			m.invalidateColumns(t.ID)
		}
		m.colCursor = max(m.colCursor-1, 0)
		cmds = append(cmds, m.loadGridCmd())
	case confirm.KindRow:
		cmds = append(cmds, m.loadGridCmd())
	}
	return tea.Batch(cmds...)
}

func (m *App) confirmLayer(topMargin, bottomMargin int) Layer {
	if !m.slot.IsOpen() {
		return nil
	}
	return newCenteredLayer(m.renderConfirm(), m.width, m.height, topMargin, bottomMargin)
}

func (m *App) renderConfirm() string {
	prompt := confirm.PromptFor(m.slot.Active(), m.currentTable())
	text := styleOverlayText()
	muted := styleOverlayMuted()
	divider := styleOverlayDivider().Render(strings.Repeat("─", confirmContentWidth))

	lines := []string{
		styleOverlayDangerTitle().Render(prompt.Header),
		divider,
		"",
	}
	lines = append(lines, renderWrapped(text, prompt.Body, confirmContentWidth)...)

	if opt := prompt.CascadeOption; opt != nil {
		box := "[ ]"
		if opt.Checked {
			box = "[x]"
		}
		lines = append(lines, "",
			styleCheckbox().Background(text.GetBackground()).Render(box)+text.Render(" "+opt.Label),
			muted.Render("    "+opt.Description),
		)
	}
	if warn := prompt.CascadeWarning; warn != nil {
		lines = append(lines, "")
		lines = append(lines, renderWrapped(styleOverlayWarning().Bold(true), "⚠ "+warn.Title, confirmContentWidth)...)
		lines = append(lines, renderWrapped(styleOverlayWarning(), warn.Body, confirmContentWidth)...)
	}

	lines = append(lines, "", divider)
	if m.slot.Busy() {
		lines = append(lines, muted.Render(prompt.BusyLabel+"…"))
	} else {
		hints := []footerHint{{"⏎/d", prompt.ConfirmLabel}}
		if prompt.CascadeOption != nil {
			hints = append(hints, footerHint{"Space", "Cascade"})
		}
		hints = append(hints, footerHint{"c/esc", "Cancel"})
		lines = append(lines, renderHints(hints))
	}

	return styleOverlayDanger().Render(strings.Join(lines, "\n"))
}

type textStyle interface {
	Render(...string) string
}

func renderWrapped(style textStyle, text string, width int) []string {
	wrapped := strings.Split(wordwrap.String(text, width), "\n")
	for i, line := range wrapped {
		wrapped[i] = style.Render(line)
	}
	return wrapped
}

// Deletion triggers. Each opens the matching dialog or explains why not.

func (m *App) requestDeleteTable() tea.Cmd {
	if m.currentTable() == nil {
		return m.showToast(toastInfo, "No table selected", "")
	}
	m.openConfirm(confirm.TableDelete{})
	return nil
}

func (m *App) requestDeleteColumn() tea.Cmd {
	col, ok := m.currentColumn()
	if !ok {
		return m.showToast(toastInfo, "No column selected", "")
	}
	m.openConfirm(confirm.ColumnDelete{Column: col})
	return nil
}

func (m *App) requestDeleteRows() tea.Cmd {
	if m.currentTable() == nil {
		return m.showToast(toastInfo, "No table selected", "")
	}
	if m.selection.All() {
		m.openConfirm(confirm.RowDelete{
			AllSelected: true,
			NumRows:     m.totalRows,
			Callback:    m.selection.Clear,
		})
		return nil
	}
	rows := m.selection.Rows()
	if len(rows) == 0 {
		row, ok := m.currentRow()
		if !ok {
			return m.showToast(toastInfo, "No rows selected", "")
		}
		rows = append(rows, row)
	}
	m.openConfirm(confirm.RowDelete{Rows: rows, Callback: m.selection.Clear})
	return nil
}

func (m *App) target() dispatch.Target {
	return dispatch.Target{
		Project: m.project,
		Table:   m.currentTable(),
		Schema:  m.schema,
	}
}
