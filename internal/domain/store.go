package domain

import "time"

// SettingsStore persists account and sync settings (BoltDB + memory).
type SettingsStore interface {
	// === Engines ===
	EngineEnabled(engine SyncEngine) (enabled bool, ok bool)
	SetEngineEnabled(engine SyncEngine, enabled bool) error

	// === Account ===
	GetAccount() (*Account, bool)
	SaveAccount(acct *Account) error
	ClearAccount() error

	// === Sync history ===
	LastSync(engine SyncEngine) (time.Time, bool)
	SaveLastSync(engine SyncEngine, at time.Time) error

	Close() error
}
