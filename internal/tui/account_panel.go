package tui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/mmcdole/vrsettings/internal/domain"
	"github.com/mmcdole/vrsettings/internal/tui/components"
	"github.com/mmcdole/vrsettings/internal/tui/styles"
)

// Sign button labels
const (
	labelReconnect = "Reconnect"
	labelSignOut   = "Sign out"
	labelSignIn    = "Sign in"
)

// panelFocus is the focused control, in tab order
type panelFocus int

const (
	focusSignButton panelFocus = iota
	focusBookmarks
	focusHistory
	focusCount
)

// syncHistory is implemented by collaborators that record completed syncs
type syncHistory interface {
	LastSynced(engine domain.SyncEngine) (time.Time, bool)
}

// AccountPanel is the account and sync settings page.
// All fields are owned by the Bubble Tea update loop; async results
// come back as messages tagged with the panel's ID.
type AccountPanel struct {
	id              string
	accounts        domain.AccountManager
	logger          *slog.Logger
	keys            components.SettingsKeyMap
	spinnerInterval time.Duration

	// Widgets
	header              components.Header
	footer              components.Footer
	signButton          components.Button
	accountEmail        string
	bookmarksSyncSwitch components.Switch
	historySyncSwitch   components.Switch

	focus    panelFocus
	shown    bool
	observer *ChannelObserver
	state    syncState

	spinnerGen   int
	spinnerFrame int

	initCmd tea.Cmd
}

// NewAccountPanel builds the panel and renders the current account state.
// The profile fetch this may start is returned by Init.
func NewAccountPanel(accounts domain.AccountManager, logger *slog.Logger, spinnerInterval time.Duration) *AccountPanel {
	p := &AccountPanel{
		id:              uuid.NewString(),
		accounts:        accounts,
		logger:          logger.With("component", "account_panel"),
		keys:            components.DefaultSettingsKeyMap(),
		spinnerInterval: spinnerInterval,

		header:              components.NewHeader("Account & Sync"),
		footer:              components.NewFooter("Reset to defaults"),
		signButton:          components.NewButton(labelSignIn),
		bookmarksSyncSwitch: components.NewSwitch("Bookmarks", domain.DefaultBookmarksSync),
		historySyncSwitch:   components.NewSwitch("History", domain.DefaultHistorySync),
	}

	p.header.SetBackClickListener(p.dismiss)

	p.signButton.SetOnClick(func() tea.Cmd { return LogoutCmd(p.accounts, p.id) })
	p.bookmarksSyncSwitch.SetOnChange(func(bool) tea.Cmd { return p.sync() })
	p.historySyncSwitch.SetOnChange(func(bool) tea.Cmd { return p.sync() })

	p.initCmd = p.updateCurrentAccountState()

	p.footer.SetFooterButtonClickListener(p.resetOptions)

	p.setFocus(focusSignButton)
	return p
}

// Init returns the work started during construction
func (p *AccountPanel) Init() tea.Cmd {
	cmd := p.initCmd
	p.initCmd = nil
	return cmd
}

// ID identifies messages addressed to this panel
func (p *AccountPanel) ID() string {
	return p.id
}

// Show subscribes to account events and refreshes the switches
func (p *AccountPanel) Show() tea.Cmd {
	if p.shown {
		return nil
	}
	p.shown = true
	p.observer = NewChannelObserver(16)
	p.accounts.AddAccountListener(p.observer)
	p.updateSyncState()
	return p.observer.Wait()
}

// Hide unsubscribes from account events. In-flight calls are not cancelled.
func (p *AccountPanel) Hide() {
	if !p.shown {
		return
	}
	p.shown = false
	p.accounts.RemoveAccountListener(p.observer)
	p.observer.Close()
	p.observer = nil
}

func (p *AccountPanel) IsShown() bool { return p.shown }

// Syncing reports whether a sync request is outstanding
func (p *AccountPanel) Syncing() bool { return p.state.syncing() }

func (p *AccountPanel) SignButtonLabel() string    { return p.signButton.Label() }
func (p *AccountPanel) AccountEmail() string       { return p.accountEmail }
func (p *AccountPanel) BookmarksSyncEnabled() bool { return p.bookmarksSyncSwitch.IsChecked() }
func (p *AccountPanel) HistorySyncEnabled() bool   { return p.historySyncSwitch.IsChecked() }

// Update handles a message addressed to the panel
func (p *AccountPanel) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return p.handleKey(msg)

	case SyncCompletedMsg:
		if msg.PanelID != p.id {
			return nil
		}
		return p.onSyncCompleted(msg.Err)

	case ProfileLoadedMsg:
		if msg.PanelID != p.id {
			return nil
		}
		if msg.Err != nil {
			p.logger.Warn("error getting the account profile", "error", msg.Err)
			return nil
		}
		p.updateProfile(msg.Profile)
		return nil

	case LogoutCompleteMsg:
		if msg.PanelID == p.id && msg.Err != nil {
			p.logger.Error("logout failed", "error", msg.Err)
		}
		return nil

	case AccountEventMsg:
		if !p.shown || msg.source != p.observer {
			return nil
		}
		return tea.Batch(p.onAccountEvent(msg), p.observer.Wait())

	case SpinnerTickMsg:
		if msg.PanelID != p.id || msg.Gen != p.spinnerGen || !p.state.syncing() {
			return nil
		}
		p.spinnerFrame++
		return SpinnerTickCmd(p.id, p.spinnerGen, p.spinnerInterval)
	}
	return nil
}

func (p *AccountPanel) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, p.keys.Back):
		return p.header.Back()

	case key.Matches(msg, p.keys.Reset):
		return p.footer.Reset()

	case key.Matches(msg, p.keys.Up):
		p.setFocus((p.focus + focusCount - 1) % focusCount)

	case key.Matches(msg, p.keys.Down):
		p.setFocus((p.focus + 1) % focusCount)

	case key.Matches(msg, p.keys.Activate):
		switch p.focus {
		case focusSignButton:
			return p.signButton.Click()
		case focusBookmarks:
			return p.bookmarksSyncSwitch.Toggle()
		case focusHistory:
			return p.historySyncSwitch.Toggle()
		}
	}
	return nil
}

func (p *AccountPanel) setFocus(f panelFocus) {
	p.focus = f
	p.signButton.Blur()
	p.bookmarksSyncSwitch.Blur()
	p.historySyncSwitch.Blur()
	switch f {
	case focusSignButton:
		p.signButton.Focus()
	case focusBookmarks:
		p.bookmarksSyncSwitch.Focus()
	case focusHistory:
		p.historySyncSwitch.Focus()
	}
}

func (p *AccountPanel) dismiss() tea.Cmd {
	return DismissCmd(p.id)
}

// resetOptions restores the default switch values and syncs once
func (p *AccountPanel) resetOptions() tea.Cmd {
	p.historySyncSwitch.SetValue(domain.DefaultHistorySync, false)
	p.bookmarksSyncSwitch.SetValue(domain.DefaultBookmarksSync, false)
	return p.sync()
}

// sync starts a sync, or marks a resync as owed if one is already running
func (p *AccountPanel) sync() tea.Cmd {
	if !p.state.request() {
		p.logger.Debug("sync requested while syncing, resync queued")
		return nil
	}

	p.logger.Debug("sync started")
	p.pushSyncStatus()

	p.spinnerGen++
	return tea.Batch(
		SyncNowCmd(p.accounts, p.id, domain.SyncReasonEngineChange, false),
		SpinnerTickCmd(p.id, p.spinnerGen, p.spinnerInterval),
	)
}

func (p *AccountPanel) onSyncCompleted(err error) tea.Cmd {
	if err != nil {
		p.logger.Error("sync failed", "error", err)
		p.state.fail()
		return nil
	}

	if p.state.complete() {
		p.logger.Debug("resync, settings changed while syncing")
		p.pushSyncStatus()
		return p.sync()
	}

	p.logger.Debug("sync completed")
	p.updateSyncState()
	return nil
}

// pushSyncStatus copies the switch values to the collaborator
func (p *AccountPanel) pushSyncStatus() {
	p.accounts.SetSyncStatus(domain.SyncEngineBookmarks, p.bookmarksSyncSwitch.IsChecked())
	p.accounts.SetSyncStatus(domain.SyncEngineHistory, p.historySyncSwitch.IsChecked())
}

// updateSyncState overwrites the switches from the collaborator without firing listeners
func (p *AccountPanel) updateSyncState() {
	p.bookmarksSyncSwitch.SetValue(p.accounts.IsEngineEnabled(domain.SyncEngineBookmarks), false)
	p.historySyncSwitch.SetValue(p.accounts.IsEngineEnabled(domain.SyncEngineHistory), false)
}

// updateCurrentAccountState sets the sign button for the account status.
// An unknown status is a programming error and panics.
func (p *AccountPanel) updateCurrentAccountState() tea.Cmd {
	switch status := p.accounts.AccountStatus(); status {
	case domain.AccountNeedsReconnect:
		p.signButton.SetLabel(labelReconnect)

	case domain.AccountSignedIn:
		p.signButton.SetLabel(labelSignOut)
		if profile := p.accounts.AccountProfile(); profile != nil {
			p.updateProfile(profile)
		} else {
			return UpdateProfileCmd(p.accounts, p.id)
		}

	case domain.AccountSignedOut:
		p.signButton.SetLabel(labelSignIn)

	default:
		panic(fmt.Sprintf("unexpected account status: %d", status))
	}
	return nil
}

func (p *AccountPanel) updateProfile(profile *domain.Profile) {
	if profile != nil {
		p.accountEmail = profile.Email
	}
}

func (p *AccountPanel) onAccountEvent(msg AccountEventMsg) tea.Cmd {
	switch msg.Kind {
	case EventAuthenticated:
		p.signButton.SetLabel(labelSignOut)
	case EventProfileUpdated:
		p.accountEmail = msg.Profile.Email
	case EventLoggedOut, EventAuthenticationProblems:
		return p.dismiss()
	}
	return nil
}

// View renders the panel
func (p *AccountPanel) View(width int) string {
	inner := max(width-6, 20) // border + padding

	var b strings.Builder
	b.WriteString(p.header.View(inner))
	b.WriteString("\n\n")

	if p.accountEmail != "" {
		b.WriteString(styles.SubtitleStyle.Render("Signed in as ") + styles.TitleStyle.Render(styles.Truncate(p.accountEmail, inner-13)))
	} else {
		b.WriteString(styles.DimStyle.Render("No account email"))
	}
	b.WriteString("\n\n")
	b.WriteString(p.signButton.View())
	b.WriteString("\n")

	b.WriteString(styles.SectionTitleStyle.Render("Sync"))
	b.WriteString("\n")
	b.WriteString(p.bookmarksSyncSwitch.View(inner))
	b.WriteString("\n")
	b.WriteString(p.historySyncSwitch.View(inner))
	b.WriteString("\n\n")
	b.WriteString(p.renderSyncStatus())
	b.WriteString("\n\n")
	b.WriteString(p.footer.View())

	return styles.PanelStyle.Width(inner + 4).Render(b.String())
}

func (p *AccountPanel) renderSyncStatus() string {
	if p.state.syncing() {
		return styles.Spinner(p.spinnerFrame) + " " + styles.SubtitleStyle.Render("Syncing…")
	}

	history, ok := p.accounts.(syncHistory)
	if !ok {
		return ""
	}
	var latest time.Time
	for _, engine := range domain.AllSyncEngines() {
		if at, ok := history.LastSynced(engine); ok && at.After(latest) {
			latest = at
		}
	}
	if latest.IsZero() {
		return styles.DimStyle.Render("Never synced")
	}
	return styles.DimStyle.Render("Last synced " + latest.Local().Format("Jan 2 15:04"))
}

// renderCentered places the panel in the middle of the screen
func (p *AccountPanel) renderCentered(width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, p.View(min(width, 60)))
}
