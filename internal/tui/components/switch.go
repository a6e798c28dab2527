package components

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/vrsettings/internal/tui/styles"
)

// ChangeListener is invoked when a switch's checked state changes
type ChangeListener func(checked bool) tea.Cmd

// Switch is a labeled on/off setting
type Switch struct {
	label    string
	checked  bool
	focused  bool
	onChange ChangeListener
}

// NewSwitch creates a switch with an initial value
func NewSwitch(label string, checked bool) Switch {
	return Switch{label: label, checked: checked}
}

// SetOnChange installs the change listener
func (s *Switch) SetOnChange(fn ChangeListener) {
	s.onChange = fn
}

// IsChecked returns the current value
func (s Switch) IsChecked() bool {
	return s.checked
}

// Toggle flips the value and fires the listener
func (s *Switch) Toggle() tea.Cmd {
	return s.SetValue(!s.checked, true)
}

// SetValue assigns the value. With notify false the listener is suppressed;
// with notify true it fires only when the value actually changes.
func (s *Switch) SetValue(checked, notify bool) tea.Cmd {
	changed := s.checked != checked
	s.checked = checked
	if !notify || !changed || s.onChange == nil {
		return nil
	}
	return s.onChange(checked)
}

func (s *Switch) Focus() { s.focused = true }
func (s *Switch) Blur() { s.focused = false }
func (s Switch) Focused() bool { return s.focused }
func (s Switch) Label() string { return s.label }

// View renders the switch as a single row of the given width
func (s Switch) View(width int) string {
	state := styles.SwitchOffStyle.Render("○ off")
	if s.checked {
		state = styles.SwitchOnStyle.Render("● on ")
	}

	rowStyle := styles.NormalRowStyle
	if s.focused {
		rowStyle = styles.FocusedRowStyle
	}

	labelWidth := width - lipgloss.Width(state) - 2
	label := rowStyle.Width(max(labelWidth, 0)).Render(styles.Truncate(s.label, labelWidth))
	return label + "  " + state
}
