package tui

import (
	"github.com/mmcdole/vrsettings/internal/domain"
)

// Message types for the TUI

// SyncCompletedMsg reports the end of a sync round trip
type SyncCompletedMsg struct {
	PanelID string
	Err     error
}

// ProfileLoadedMsg reports the result of a profile fetch
type ProfileLoadedMsg struct {
	PanelID string
	Profile *domain.Profile
	Err     error
}

// LogoutCompleteMsg reports the result of a logout request
type LogoutCompleteMsg struct {
	PanelID string
	Err     error
}

// SignInCompleteMsg reports the result of a sign-in attempt
type SignInCompleteMsg struct {
	Email string
	Err   error
}

// DismissPanelMsg asks the host to close the settings panel
type DismissPanelMsg struct {
	PanelID string
}

// SpinnerTickMsg advances the sync spinner
type SpinnerTickMsg struct {
	PanelID string
	Gen     int
}

// ClearStatusMsg clears the status bar message
type ClearStatusMsg struct{}

// StatusMsg sets a temporary status message
type StatusMsg struct {
	Message string
	IsError bool
}
