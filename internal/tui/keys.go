package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the browse pager bindings.
type keyMap struct {
	Next key.Binding
	Prev key.Binding
	Quit key.Binding
}

// ShortHelp returns the bindings for the help bar.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.Quit}
}

// FullHelp returns the bindings grouped for expanded help.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Prev, k.Next}, {k.Quit}}
}

func defaultKeyMap() keyMap {
	return keyMap{
		Next: key.NewBinding(
			key.WithKeys("n", "right", "l", "pgdown"),
			key.WithHelp("n/→", "next page"),
		),
		Prev: key.NewBinding(
			key.WithKeys("p", "left", "h", "pgup"),
			key.WithHelp("p/←", "previous page"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
