package components

import "github.com/charmbracelet/bubbles/key"

// SettingsKeyMap defines key bindings inside a settings page
type SettingsKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Activate key.Binding
	Reset    key.Binding
	Back     key.Binding
}

// DefaultSettingsKeyMap returns the default settings page key bindings
func DefaultSettingsKeyMap() SettingsKeyMap {
	return SettingsKeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up", "shift+tab"),
			key.WithHelp("k/↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down", "tab"),
			key.WithHelp("j/↓", "down"),
		),
		Activate: key.NewBinding(
			key.WithKeys("enter", " ", "space"),
			key.WithHelp("enter/space", "press/toggle"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset to defaults"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "h", "left"),
			key.WithHelp("esc", "back"),
		),
	}
}
