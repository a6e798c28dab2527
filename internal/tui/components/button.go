package components

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/vrsettings/internal/tui/styles"
)

// Button is a focusable action with a settable label
type Button struct {
	label   string
	focused bool
	onClick func() tea.Cmd
}

// NewButton creates a button
func NewButton(label string) Button {
	return Button{label: label}
}

func (b *Button) SetLabel(label string) { b.label = label }
func (b Button) Label() string          { return b.label }

// SetOnClick installs the click handler
func (b *Button) SetOnClick(fn func() tea.Cmd) {
	b.onClick = fn
}

// Click runs the click handler
func (b *Button) Click() tea.Cmd {
	if b.onClick == nil {
		return nil
	}
	return b.onClick()
}

func (b *Button) Focus()       { b.focused = true }
func (b *Button) Blur()        { b.focused = false }
func (b Button) Focused() bool { return b.focused }

// View renders the button
func (b Button) View() string {
	if b.focused {
		return styles.ButtonFocusedStyle.Render(b.label)
	}
	return styles.ButtonStyle.Render(b.label)
}
