package components

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/vrsettings/internal/tui/styles"
)

// Header is a settings page title with a back action
type Header struct {
	title  string
	onBack func() tea.Cmd
}

func NewHeader(title string) Header {
	return Header{title: title}
}

// SetBackClickListener installs the back action
func (h *Header) SetBackClickListener(fn func() tea.Cmd) {
	h.onBack = fn
}

// Back runs the back action
func (h *Header) Back() tea.Cmd {
	if h.onBack == nil {
		return nil
	}
	return h.onBack()
}

func (h Header) View(width int) string {
	back := styles.KeyHint("esc", "back")
	title := styles.TitleStyle.Render(h.title)
	gap := width - lipgloss.Width(title) - lipgloss.Width(back)
	if gap < 1 {
		gap = 1
	}
	return title + lipgloss.NewStyle().Width(gap).Render("") + back
}

// Footer carries the page's reset action
type Footer struct {
	label   string
	onReset func() tea.Cmd
}

func NewFooter(label string) Footer {
	return Footer{label: label}
}

// SetFooterButtonClickListener installs the reset action
func (f *Footer) SetFooterButtonClickListener(fn func() tea.Cmd) {
	f.onReset = fn
}

// Reset runs the reset action
func (f *Footer) Reset() tea.Cmd {
	if f.onReset == nil {
		return nil
	}
	return f.onReset()
}

func (f Footer) View() string {
	return styles.KeyHint("r", f.label)
}
