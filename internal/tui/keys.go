package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the dashboard's key bindings.
type keyMap struct {
	Up   key.Binding
	Down key.Binding
	Quit key.Binding
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "navigate up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "navigate down"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// helpLine renders the footer key hint, same shape as pkg/tui's own
// per-binding help text.
func helpLine() string {
	return "  " + keys.Quit.Help().Key + ": " + keys.Quit.Help().Desc +
		"  " + keys.Up.Help().Key + "/" + keys.Down.Help().Key + ": navigate goals"
}
