package ui

import (
	"time"

	"dbdeck/internal/dispatch"
	"dbdeck/internal/domain"
	"dbdeck/internal/notifications"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
)

type tablesLoadedMsg struct {
	tables []domain.Table
	err    error
}

type gridLoadedMsg struct {
	tableID int64
	columns []domain.Column
	rows    []domain.Row
	total   int
	err     error
}

// confirmDoneMsg carries the dispatcher outcome of a confirmed dialog.
type confirmDoneMsg struct {
	outcome dispatch.Outcome
}

type noticesPageMsg struct {
	generation int
	items      []notifications.Notification
	err        error
}

type noticeStatusMsg struct {
	id     uuid.UUID
	status notifications.Status
	err    error
}

type toastTickMsg struct {
	id int
}

const toastTickInterval = 200 * time.Millisecond

func scheduleToastTick(id int) tea.Cmd {
	return tea.Tick(toastTickInterval, func(time.Time) tea.Msg {
		return toastTickMsg{id: id}
	})
}
