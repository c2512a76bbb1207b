package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keyboard shortcuts of the browser. Related bindings
// share help text so the help overlay shows them as one row.
type KeyMap struct {
	// Navigation
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding
	Tab   key.Binding

	// Selection
	Select    key.Binding
	SelectAll key.Binding

	// Mutations
	DeleteTable  key.Binding
	DeleteRows   key.Binding
	DeleteColumn key.Binding

	// Grid state
	Filter       key.Binding
	ClearFilters key.Binding
	Sort         key.Binding

	// Actions
	Notifications key.Binding
	Refresh       key.Binding
	Copy          key.Binding
	Theme         key.Binding
	Help          key.Binding
	Quit          key.Binding
	Escape        key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/↓  j/k", "Move up/down"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↑/↓  j/k", "Move up/down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/→  h/l", "Previous/next column"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("←/→  h/l", "Previous/next column"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab", "shift+tab"),
			key.WithHelp("⇥ (Tab)", "Switch pane"),
		),

		Select: key.NewBinding(
			key.WithKeys(" ", "space"),
			key.WithHelp("Space", "Select row"),
		),
		SelectAll: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "Select all rows"),
		),

		DeleteTable: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "Delete table"),
		),
		DeleteRows: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "Delete rows"),
		),
		DeleteColumn: key.NewBinding(
			key.WithKeys("C"),
			key.WithHelp("C", "Delete column"),
		),

		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "Add filter"),
		),
		ClearFilters: key.NewBinding(
			key.WithKeys("F"),
			key.WithHelp("F", "Clear filters"),
		),
		Sort: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "Sort by column"),
		),

		Notifications: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "Notifications"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Refresh"),
		),
		Copy: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "Copy name/value"),
		),
		Theme: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "Next theme"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "Quit"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("Esc", "Close/cancel"),
		),
	}
}
