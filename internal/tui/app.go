package tui

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/vrsettings/internal/domain"
	"github.com/mmcdole/vrsettings/internal/tui/components"
	"github.com/mmcdole/vrsettings/internal/tui/styles"
)

// ApplicationState represents the current state of the application
type ApplicationState int

const (
	StateHome ApplicationState = iota
	StateAccountSettings
	StateSignIn
	StateHelp
)

// SignInService signs an account in; sign-in lives outside the account panel.
type SignInService interface {
	SignIn(ctx context.Context, email string) error
}

// AccountClient is everything the host screen needs from the account layer
type AccountClient interface {
	domain.AccountManager
	SignInService
}

// Model is the main Bubble Tea model for the application
type Model struct {
	// Application state
	State ApplicationState
	Ready bool

	// Services
	Accounts AccountClient
	Logger   *slog.Logger

	// UI Components
	Panel       *AccountPanel          // Non-nil while the account page is open
	SignInModal components.InputModal  // Email prompt

	// Dimensions
	Width  int
	Height int

	// UI state
	StatusMsg       string
	StatusIsErr     bool
	SigningIn       bool
	SpinnerInterval time.Duration
	prevState       ApplicationState
}

// NewModel creates a new application model
func NewModel(accounts AccountClient, logger *slog.Logger, spinnerInterval time.Duration) Model {
	return Model{
		State:           StateHome,
		Accounts:        accounts,
		Logger:          logger,
		SignInModal:     components.NewInputModal("you@example.com"),
		SpinnerInterval: spinnerInterval,
	}
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	return tea.SetWindowTitle("VR Browser · Settings")
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case DismissPanelMsg:
		if m.Panel != nil && msg.PanelID == m.Panel.ID() {
			m.closePanel()
		}
		return m, nil

	case SignInCompleteMsg:
		m.SigningIn = false
		if msg.Err != nil {
			m.Logger.Warn("sign in failed", "error", msg.Err)
			m.SignInModal.SetHint(msg.Err.Error())
			return m, nil
		}
		m.SignInModal.Hide()
		m.State = StateHome
		m.StatusMsg = "Signed in as " + strings.ToLower(strings.TrimSpace(msg.Email))
		m.StatusIsErr = false
		return m, ClearStatusCmd(3 * time.Second)

	case LogoutCompleteMsg:
		var cmd tea.Cmd
		if m.Panel != nil {
			cmd = m.Panel.Update(msg)
		}
		if msg.Err != nil {
			m.StatusMsg = "Sign out failed: " + msg.Err.Error()
			m.StatusIsErr = true
			return m, tea.Batch(cmd, ClearStatusCmd(5*time.Second))
		}
		return m, cmd

	case SyncCompletedMsg, ProfileLoadedMsg, AccountEventMsg, SpinnerTickMsg:
		// Late results for a closed panel are dropped
		if m.Panel == nil {
			return m, nil
		}
		return m, m.Panel.Update(msg)

	case StatusMsg:
		m.StatusMsg = msg.Message
		m.StatusIsErr = msg.IsError
		return m, ClearStatusCmd(3 * time.Second)

	case ClearStatusMsg:
		m.StatusMsg = ""
		m.StatusIsErr = false
		return m, nil
	}

	// Forward anything else (cursor blink) to the sign-in prompt
	if m.State == StateSignIn {
		var cmd tea.Cmd
		m.SignInModal, cmd, _ = m.SignInModal.Update(msg)
		return m, cmd
	}
	return m, nil
}

// handleKeyMsg handles keyboard input
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, Keys.ForceQuit) {
		m.closePanel()
		return m, tea.Quit
	}

	switch m.State {
	case StateHelp:
		if key.Matches(msg, Keys.Escape, Keys.Help, Keys.Quit) {
			m.State = m.prevState
		}
		return m, nil

	case StateSignIn:
		return m.handleSignInKey(msg)

	case StateAccountSettings:
		if key.Matches(msg, Keys.Help) {
			m.prevState = m.State
			m.State = StateHelp
			return m, nil
		}
		return m, m.Panel.Update(msg)
	}

	// Home screen
	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, Keys.Help):
		m.prevState = m.State
		m.State = StateHelp
		return m, nil

	case key.Matches(msg, Keys.OpenAccount):
		return m, m.openPanel()

	case key.Matches(msg, Keys.SignIn):
		if m.Accounts.AccountStatus() == domain.AccountSignedIn {
			m.StatusMsg = "Already signed in"
			m.StatusIsErr = false
			return m, ClearStatusCmd(2 * time.Second)
		}
		m.State = StateSignIn
		return m, m.SignInModal.Show("Sign in with your account email")
	}
	return m, nil
}

func (m Model) handleSignInKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.SigningIn {
		// Ignore input until the request finishes
		return m, nil
	}

	var cmd tea.Cmd
	var submitted bool
	m.SignInModal, cmd, submitted = m.SignInModal.Update(msg)

	if !m.SignInModal.IsVisible() {
		m.State = StateHome
		return m, cmd
	}
	if submitted {
		email := strings.TrimSpace(m.SignInModal.Value())
		if email == "" {
			m.SignInModal.SetHint("Email cannot be empty")
			return m, nil
		}
		m.SigningIn = true
		m.SignInModal.SetHint("")
		return m, SignInCmd(m.Accounts, email)
	}
	return m, cmd
}

// openPanel creates a fresh account panel and shows it
func (m *Model) openPanel() tea.Cmd {
	m.Panel = NewAccountPanel(m.Accounts, m.Logger, m.SpinnerInterval)
	m.State = StateAccountSettings
	return tea.Batch(m.Panel.Init(), m.Panel.Show())
}

// closePanel hides and drops the account panel
func (m *Model) closePanel() {
	if m.Panel == nil {
		return
	}
	m.Panel.Hide()
	m.Panel = nil
	if m.State == StateAccountSettings || (m.State == StateHelp && m.prevState == StateAccountSettings) {
		m.State = StateHome
		m.prevState = StateHome
	}
}

// View renders the application
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}

	contentHeight := m.Height - 1

	var content string
	switch m.State {
	case StateHelp:
		content = m.renderHelp(contentHeight)
	case StateAccountSettings:
		content = m.Panel.renderCentered(m.Width, contentHeight)
	case StateSignIn:
		content = lipgloss.Place(m.Width, contentHeight,
			lipgloss.Center, lipgloss.Center,
			m.SignInModal.View())
	default:
		content = m.renderHome(contentHeight)
	}

	return lipgloss.JoinVertical(lipgloss.Left, content, m.renderStatusBar())
}

func (m Model) renderHome(height int) string {
	var account string
	switch m.Accounts.AccountStatus() {
	case domain.AccountSignedIn:
		email := "unknown"
		if p := m.Accounts.AccountProfile(); p != nil {
			email = p.Email
		}
		account = styles.SuccessStyle.Render("●") + " Signed in as " + styles.TitleStyle.Render(email)
	case domain.AccountNeedsReconnect:
		account = styles.ErrorStyle.Render("●") + " Reconnect needed"
	default:
		account = styles.DimStyle.Render("○") + " Signed out"
	}

	lines := []string{
		styles.ModalTitleStyle.Render("Settings"),
		account,
		"",
		styles.KeyHint("a", "Account & Sync"),
	}
	if m.Accounts.AccountStatus() != domain.AccountSignedIn {
		lines = append(lines, styles.KeyHint("s", "Sign in"))
	}
	lines = append(lines, styles.KeyHint("?", "Help"), styles.KeyHint("q", "Quit"))

	box := styles.PanelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
	return lipgloss.Place(m.Width, height, lipgloss.Center, lipgloss.Center, box)
}

// renderHelp renders the help screen
func (m Model) renderHelp(height int) string {
	help := `
HOME                            ACCOUNT & SYNC
  a/Enter  Account & Sync         j/k       Move focus
  s        Sign in                Enter     Press/toggle
  ?        Help                   r         Reset to defaults
  q        Quit                   esc       Back

Changes to the sync switches are applied immediately.
`

	return lipgloss.Place(m.Width, height,
		lipgloss.Center, lipgloss.Center,
		styles.ModalStyle.Render(help))
}

func (m Model) renderStatusBar() string {
	if m.StatusMsg == "" {
		return styles.DimStyle.Render(" ? help")
	}
	if m.StatusIsErr {
		return styles.ErrorStyle.Render(" " + m.StatusMsg)
	}
	return styles.SuccessStyle.Render(" " + m.StatusMsg)
}
