package domain

import "context"

// AccountObserver receives asynchronous account notifications.
// Callbacks may arrive on any goroutine and must not block.
type AccountObserver interface {
	OnAuthenticated()
	OnProfileUpdated(profile Profile)
	OnLoggedOut()
	OnAuthenticationProblems()
}

// AccountManager is the account/sync collaborator consumed by the settings UI.
type AccountManager interface {
	// AccountStatus returns the current authentication state
	AccountStatus() AccountStatus

	// AccountProfile returns the cached profile, or nil if none has been fetched
	AccountProfile() *Profile

	// UpdateProfile fetches the profile from the backend and caches it
	UpdateProfile(ctx context.Context) (*Profile, error)

	// Logout signs the account out
	Logout(ctx context.Context) error

	// SyncNow runs a sync of every enabled engine
	SyncNow(ctx context.Context, reason SyncReason, force bool) error

	// SetSyncStatus enables or disables an engine for the next sync
	SetSyncStatus(engine SyncEngine, enabled bool)

	// IsEngineEnabled reports the authoritative enablement of an engine
	IsEngineEnabled(engine SyncEngine) bool

	AddAccountListener(o AccountObserver)
	RemoveAccountListener(o AccountObserver)
}

// AccountBackend is the remote side of the account service.
// Implementations handle their own transport and latency.
type AccountBackend interface {
	// SignIn authenticates an email and returns the session token and profile
	SignIn(ctx context.Context, email string) (token string, profile *Profile, err error)

	// FetchProfile returns the profile for a session token
	FetchProfile(ctx context.Context, token string) (*Profile, error)

	// SignOut invalidates a session token
	SignOut(ctx context.Context, token string) error

	// Sync pushes and pulls the given engines
	Sync(ctx context.Context, token string, engines []SyncEngine, force bool) (*SyncResult, error)
}
