package ui

import (
	"fmt"
	"slices"
	"strings"

	"dbdeck/internal/notifications"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/google/uuid"
)

const (
	noticesListHeight = 8
	noticesMaxWidth   = 90
)

var (
	noticesClose   = key.NewBinding(key.WithKeys("esc", "n", "q"))
	noticesMore    = key.NewBinding(key.WithKeys("enter"))
	noticesSeen    = key.NewBinding(key.WithKeys("s"))
	noticesArchive = key.NewBinding(key.WithKeys("A"))
)

// noticesOverlay is the notification feed modal. Items mirror the feed;
// status changes are applied locally once the API accepts them.
type noticesOverlay struct {
	generation int
	items      []notifications.Notification
	cursor     int
	top        int
	loading    bool
	hasNext    bool
	err        string

	renderWidth int
	render      func(string) string
}

func (m *App) openNotices() tea.Cmd {
	if m.feed == nil {
		return m.showToast(toastInfo, "Notifications are not configured", "Set api.url to load the feed.")
	}
	m.feed.Reset()
	m.noticeGen++
	m.notices = &noticesOverlay{generation: m.noticeGen, loading: true, hasNext: true}
	return m.loadNoticesCmd()
}

func (m *App) loadNoticesCmd() tea.Cmd {
	feed := m.feed
	gen := m.noticeGen
	ctx := m.ctx
	return func() tea.Msg {
		_, err := feed.Next(ctx)
		return noticesPageMsg{generation: gen, items: feed.Items(), err: err}
	}
}

func (m *App) handleNoticesPage(msg noticesPageMsg) tea.Cmd {
	o := m.notices
	if o == nil || o.generation != msg.generation {
		return nil
	}
	o.loading = false
	if msg.err != nil {
		o.err = msg.err.Error()
		return m.showToast(toastError, "Failed to load notifications", msg.err.Error())
	}
	o.err = ""
	o.items = msg.items
	o.hasNext = m.feed.HasNext()
	o.clamp()
	return nil
}

func (m *App) updateNotices(msg tea.KeyMsg) tea.Cmd {
	o := m.notices
	switch {
	case key.Matches(msg, noticesClose):
		m.notices = nil
	case key.Matches(msg, m.keys.Up):
		o.cursor--
		o.clamp()
	case key.Matches(msg, m.keys.Down):
		o.cursor++
		o.clamp()
	case key.Matches(msg, noticesMore):
		if o.loading || !o.hasNext || o.cursor < len(o.items)-1 {
			return nil
		}
		o.loading = true
		return m.loadNoticesCmd()
	case key.Matches(msg, m.keys.Copy):
		n, ok := o.current()
		if !ok {
			return nil
		}
		link := firstActionURL(n)
		if link == "" {
			return m.showToast(toastInfo, "This notification has no link", "")
		}
		return m.copyToClipboard(link)
	case key.Matches(msg, noticesSeen):
		return m.updateNoticeStatus(notifications.StatusSeen)
	case key.Matches(msg, noticesArchive):
		return m.updateNoticeStatus(notifications.StatusArchived)
	}
	return nil
}

func (m *App) updateNoticeStatus(status notifications.Status) tea.Cmd {
	n, ok := m.notices.current()
	if !ok || m.noticeUpdater == nil || n.Status == status {
		return nil
	}
	updater := m.noticeUpdater
	ctx := m.ctx
	id := n.ID
	return func() tea.Msg {
		err := updater.UpdateStatus(ctx, []uuid.UUID{id}, status)
		return noticeStatusMsg{id: id, status: status, err: err}
	}
}

func (m *App) handleNoticeStatus(msg noticeStatusMsg) tea.Cmd {
	if msg.err != nil {
		return m.showToast(toastError, "Failed to update notification", msg.err.Error())
	}
	if o := m.notices; o != nil {
		idx := slices.IndexFunc(o.items, func(n notifications.Notification) bool { return n.ID == msg.id })
		if idx >= 0 {
			if msg.status == notifications.StatusArchived {
				o.items = slices.Delete(o.items, idx, idx+1)
			} else {
				o.items[idx].Status = msg.status
			}
			o.clamp()
		}
	}
	if msg.status == notifications.StatusArchived {
		return m.showToast(toastSuccess, "Notification archived", "")
	}
	return m.showToast(toastSuccess, "Notification marked as seen", "")
}

func (o *noticesOverlay) clamp() {
	o.cursor = min(o.cursor, len(o.items)-1)
	o.cursor = max(o.cursor, 0)
	if o.cursor < o.top {
		o.top = o.cursor
	}
	if o.cursor >= o.top+noticesListHeight {
		o.top = o.cursor - noticesListHeight + 1
	}
}

func (o *noticesOverlay) current() (notifications.Notification, bool) {
	if o == nil || o.cursor < 0 || o.cursor >= len(o.items) {
		return notifications.Notification{}, false
	}
	return o.items[o.cursor], true
}

func firstActionURL(n notifications.Notification) string {
	for _, a := range n.Data.Actions {
		if a.URL != "" {
			return a.URL
		}
	}
	return ""
}

func (m *App) noticesLayer(topMargin, bottomMargin int) Layer {
	if m.notices == nil {
		return nil
	}
	return newCenteredLayer(m.renderNotices(), m.width, m.height, topMargin, bottomMargin)
}

func (m *App) renderNotices() string {
	o := m.notices
	width := max(min(m.width-8, noticesMaxWidth), 40)
	if o.render == nil || o.renderWidth != width {
		o.render = buildMarkdownRenderer(m.markdownFormat, width)
		o.renderWidth = width
	}

	text := styleOverlayText()
	muted := styleOverlayMuted()
	divider := styleOverlayDivider().Render(strings.Repeat("─", width))

	title := fmt.Sprintf("Notifications (%d)", len(o.items))
	lines := []string{styleOverlayTitle().Render(title), divider}

	switch {
	case len(o.items) == 0 && o.loading:
		lines = append(lines, muted.Render("Loading…"))
	case len(o.items) == 0 && o.err != "":
		lines = append(lines, styleOverlayDangerTitle().Render(o.err))
	case len(o.items) == 0:
		lines = append(lines, muted.Render("You're all caught up."))
	default:
		end := min(o.top+noticesListHeight, len(o.items))
		for i := o.top; i < end; i++ {
			lines = append(lines, renderNoticeRow(o.items[i], i == o.cursor, width))
		}
	}

	if n, ok := o.current(); ok {
		lines = append(lines, divider, text.Bold(true).Render(ansi.Truncate(n.Data.Title, width, "…")))
		if n.Data.Message != "" {
			lines = append(lines, o.render(n.Data.Message))
		}
		for _, a := range n.Data.Actions {
			if a.URL != "" {
				lines = append(lines, muted.Render(ansi.Truncate("→ "+a.Label+"  "+a.URL, width, "…")))
			}
		}
	}

	lines = append(lines, divider)
	switch {
	case o.loading && len(o.items) > 0:
		lines = append(lines, muted.Render("Loading more…"))
	case !o.hasNext && len(o.items) > 0:
		lines = append(lines, muted.Render("No more notifications"))
	}
	hints := []footerHint{{"↑↓", "Move"}}
	if o.hasNext && !o.loading && o.cursor == len(o.items)-1 {
		hints = append(hints, footerHint{"⏎", "Load more"})
	}
	hints = append(hints,
		footerHint{"y", "Copy link"},
		footerHint{"s", "Seen"},
		footerHint{"A", "Archive"},
		footerHint{"esc", "Close"},
	)
	lines = append(lines, renderHints(hints))

	return styleOverlay().Render(strings.Join(lines, "\n"))
}

func renderNoticeRow(n notifications.Notification, selected bool, width int) string {
	dot := "●"
	if n.Status != notifications.StatusNew {
		dot = "○"
	}
	stamp := ""
	if !n.InsertedAt.IsZero() {
		stamp = n.InsertedAt.Local().Format("2006-01-02 15:04")
	}
	badge := stylePriority(string(n.Priority)).Render(fmt.Sprintf("%-8s", n.Priority))
	titleWidth := max(width-lipgloss.Width(badge)-len(stamp)-6, 8)
	title := ansi.Truncate(n.Data.Title, titleWidth, "…")
	title += strings.Repeat(" ", max(titleWidth-lipgloss.Width(title), 0))

	line := dot + " " + title + "  " + stamp
	if selected {
		return badge + " " + styleSelected().Render(line)
	}
	return badge + " " + styleOverlayText().Render(line)
}
