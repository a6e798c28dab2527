package domain

import "time"

// AccountStatus is the coarse authentication state of the account
type AccountStatus int

const (
	AccountSignedOut AccountStatus = iota
	AccountSignedIn
	AccountNeedsReconnect
)

// String returns the status name used in logs
func (s AccountStatus) String() string {
	switch s {
	case AccountSignedOut:
		return "signed_out"
	case AccountSignedIn:
		return "signed_in"
	case AccountNeedsReconnect:
		return "needs_reconnect"
	default:
		return "unknown"
	}
}

// Profile holds user-identifying metadata for an authenticated account
type Profile struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name,omitempty"`
}

// Account is the persisted record of the signed-in account
type Account struct {
	Status   AccountStatus `json:"status"`
	Token    string        `json:"token"`
	Profile  *Profile      `json:"profile,omitempty"`
	SignedIn time.Time     `json:"signed_in"`
}

// SyncEngine identifies a data category that can be synced independently
type SyncEngine string

const (
	SyncEngineBookmarks SyncEngine = "bookmarks"
	SyncEngineHistory   SyncEngine = "history"
)

// AllSyncEngines returns every engine the settings panel exposes
func AllSyncEngines() []SyncEngine {
	return []SyncEngine{SyncEngineBookmarks, SyncEngineHistory}
}

// DefaultEngineEnabled returns the hard-coded default for an engine
func DefaultEngineEnabled(engine SyncEngine) bool {
	switch engine {
	case SyncEngineBookmarks:
		return DefaultBookmarksSync
	case SyncEngineHistory:
		return DefaultHistorySync
	default:
		return false
	}
}

// Defaults applied by "reset to defaults"
const (
	DefaultBookmarksSync = true
	DefaultHistorySync   = true
)

// SyncReason explains why a sync was requested
type SyncReason int

const (
	SyncReasonEngineChange SyncReason = iota
	SyncReasonUser
	SyncReasonStartup
)

func (r SyncReason) String() string {
	switch r {
	case SyncReasonEngineChange:
		return "settings changed"
	case SyncReasonUser:
		return "user requested"
	case SyncReasonStartup:
		return "startup"
	default:
		return "unknown"
	}
}

// SyncResult is reported by the backend for a completed sync
type SyncResult struct {
	Engines  []SyncEngine
	Finished time.Time
}
