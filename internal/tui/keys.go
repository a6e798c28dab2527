package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the host screen's key bindings
type KeyMap struct {
	Quit        key.Binding
	ForceQuit   key.Binding
	Help        key.Binding
	Escape      key.Binding
	OpenAccount key.Binding
	SignIn      key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("C-c", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
		OpenAccount: key.NewBinding(
			key.WithKeys("a", "enter"),
			key.WithHelp("a", "account & sync"),
		),
		SignIn: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sign in"),
		),
	}
}

// Keys is the global keymap instance
var Keys = DefaultKeyMap()
