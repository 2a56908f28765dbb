package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the dashboard key bindings.
type KeyMap struct {
	Up    key.Binding
	Down  key.Binding
	Open  key.Binding
	Close key.Binding

	Pending   key.Binding
	Completed key.Binding
	All       key.Binding

	Respond   key.Binding
	NewTicket key.Binding
	Theme     key.Binding
	Quit      key.Binding
}

// DefaultKeyMap uses vim-style movement alongside arrows.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Open: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "view"),
	),
	Close: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "close"),
	),
	Pending: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "pending"),
	),
	Completed: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "completed"),
	),
	All: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "all"),
	),
	Respond: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "respond"),
	),
	NewTicket: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "new ticket"),
	),
	Theme: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "theme"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// ShortHelp lists the bindings shown in the footer.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pending, k.Completed, k.All, k.Up, k.Down, k.Open, k.Respond, k.NewTicket, k.Theme, k.Quit}
}
