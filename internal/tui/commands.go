package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/vrsettings/internal/domain"
)

// Command factories for async operations.
// Sync and profile calls carry no timeout; failures come from the collaborator.

// SyncNowCmd requests a sync and reports completion
func SyncNowCmd(accounts domain.AccountManager, panelID string, reason domain.SyncReason, force bool) tea.Cmd {
	return func() tea.Msg {
		err := accounts.SyncNow(context.Background(), reason, force)
		return SyncCompletedMsg{PanelID: panelID, Err: err}
	}
}

// UpdateProfileCmd fetches the account profile
func UpdateProfileCmd(accounts domain.AccountManager, panelID string) tea.Cmd {
	return func() tea.Msg {
		profile, err := accounts.UpdateProfile(context.Background())
		return ProfileLoadedMsg{PanelID: panelID, Profile: profile, Err: err}
	}
}

// LogoutCmd requests logout
func LogoutCmd(accounts domain.AccountManager, panelID string) tea.Cmd {
	return func() tea.Msg {
		err := accounts.Logout(context.Background())
		return LogoutCompleteMsg{PanelID: panelID, Err: err}
	}
}

// SignInCmd signs in with an email address
func SignInCmd(svc SignInService, email string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		err := svc.SignIn(ctx, email)
		return SignInCompleteMsg{Email: email, Err: err}
	}
}

// DismissCmd asks the host to close a panel
func DismissCmd(panelID string) tea.Cmd {
	return func() tea.Msg {
		return DismissPanelMsg{PanelID: panelID}
	}
}

// SpinnerTickCmd schedules the next spinner frame
func SpinnerTickCmd(panelID string, gen int, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return SpinnerTickMsg{PanelID: panelID, Gen: gen}
	})
}

// ClearStatusCmd clears the status message after a delay
func ClearStatusCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
