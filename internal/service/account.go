package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mmcdole/vrsettings/internal/domain"
)

// AccountService implements domain.AccountManager over a backend and a settings store.
type AccountService struct {
	backend domain.AccountBackend
	store   domain.SettingsStore
	clock   clockwork.Clock
	logger  *slog.Logger

	mu      sync.RWMutex
	account *domain.Account // nil when signed out

	// Observers are called with obsMu held; they must not block or re-enter.
	obsMu     sync.RWMutex
	observers []domain.AccountObserver
}

// NewAccountService creates a service, restoring any account saved in the store
func NewAccountService(backend domain.AccountBackend, store domain.SettingsStore, clock clockwork.Clock, logger *slog.Logger) *AccountService {
	s := &AccountService{
		backend: backend,
		store:   store,
		clock:   clock,
		logger:  logger,
	}
	if acct, ok := store.GetAccount(); ok {
		s.account = acct
		logger.Info("restored account", "status", acct.Status)
	}
	return s
}

// === Account state ===

func (s *AccountService) AccountStatus() domain.AccountStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.account == nil {
		return domain.AccountSignedOut
	}
	return s.account.Status
}

func (s *AccountService) AccountProfile() *domain.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.account == nil || s.account.Profile == nil {
		return nil
	}
	p := *s.account.Profile
	return &p
}

// token returns the session token, or ErrNotSignedIn
func (s *AccountService) token() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.account == nil {
		return "", domain.ErrNotSignedIn
	}
	return s.account.Token, nil
}

// SignIn authenticates an email and notifies observers
func (s *AccountService) SignIn(ctx context.Context, email string) error {
	token, profile, err := s.backend.SignIn(ctx, email)
	if err != nil {
		return fmt.Errorf("sign in: %w", err)
	}

	acct := &domain.Account{
		Status:   domain.AccountSignedIn,
		Token:    token,
		Profile:  profile,
		SignedIn: s.clock.Now(),
	}

	s.mu.Lock()
	s.account = acct
	s.mu.Unlock()

	if err := s.store.SaveAccount(acct); err != nil {
		s.logger.Error("failed to persist account", "error", err)
	}

	s.logger.Info("signed in", "uid", profile.UID)
	s.notify(func(o domain.AccountObserver) { o.OnAuthenticated() })
	s.notify(func(o domain.AccountObserver) { o.OnProfileUpdated(*profile) })
	return nil
}

// UpdateProfile fetches and caches the profile.
// A rejected token moves the account to AccountNeedsReconnect.
func (s *AccountService) UpdateProfile(ctx context.Context) (*domain.Profile, error) {
	token, err := s.token()
	if err != nil {
		return nil, err
	}

	profile, err := s.backend.FetchProfile(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrAuthFailed) {
			s.markNeedsReconnect()
		}
		return nil, fmt.Errorf("fetch profile: %w", err)
	}

	s.mu.Lock()
	if s.account == nil || s.account.Token != token {
		// Signed out (or in as someone else) while the fetch was running
		s.mu.Unlock()
		return nil, domain.ErrNotSignedIn
	}
	s.account.Profile = profile
	s.account.Status = domain.AccountSignedIn
	acct := *s.account
	s.mu.Unlock()

	if err := s.store.SaveAccount(&acct); err != nil {
		s.logger.Error("failed to persist account", "error", err)
	}

	s.notify(func(o domain.AccountObserver) { o.OnProfileUpdated(*profile) })
	p := *profile
	return &p, nil
}

// Logout signs out. It is a no-op when already signed out.
func (s *AccountService) Logout(ctx context.Context) error {
	token, err := s.token()
	if errors.Is(err, domain.ErrNotSignedIn) {
		s.logger.Debug("logout requested while signed out")
		return nil
	}

	// An already-invalid token still lets the local sign-out proceed
	if err := s.backend.SignOut(ctx, token); err != nil && !errors.Is(err, domain.ErrAuthFailed) {
		return fmt.Errorf("sign out: %w", err)
	}

	s.mu.Lock()
	s.account = nil
	s.mu.Unlock()

	if err := s.store.ClearAccount(); err != nil {
		s.logger.Error("failed to clear stored account", "error", err)
	}

	s.logger.Info("logged out")
	s.notify(func(o domain.AccountObserver) { o.OnLoggedOut() })
	return nil
}

func (s *AccountService) markNeedsReconnect() {
	s.mu.Lock()
	if s.account == nil {
		s.mu.Unlock()
		return
	}
	s.account.Status = domain.AccountNeedsReconnect
	acct := *s.account
	s.mu.Unlock()

	if err := s.store.SaveAccount(&acct); err != nil {
		s.logger.Error("failed to persist account", "error", err)
	}

	s.logger.Warn("account needs reconnect")
	s.notify(func(o domain.AccountObserver) { o.OnAuthenticationProblems() })
}

// === Sync ===

// SyncNow syncs every enabled engine. Without force, a sync with no enabled
// engines returns immediately.
func (s *AccountService) SyncNow(ctx context.Context, reason domain.SyncReason, force bool) error {
	if s.AccountStatus() != domain.AccountSignedIn {
		return domain.ErrNotSignedIn
	}
	token, err := s.token()
	if err != nil {
		return err
	}

	var engines []domain.SyncEngine
	for _, engine := range domain.AllSyncEngines() {
		if s.IsEngineEnabled(engine) {
			engines = append(engines, engine)
		}
	}

	logger := s.logger.With("request_id", uuid.NewString(), "reason", reason.String())
	if len(engines) == 0 && !force {
		logger.Debug("sync skipped, no engines enabled")
		return nil
	}

	logger.Info("sync started", "engines", engines, "force", force)
	start := s.clock.Now()

	result, err := s.backend.Sync(ctx, token, engines, force)
	if err != nil {
		if errors.Is(err, domain.ErrAuthFailed) {
			s.markNeedsReconnect()
		}
		logger.Error("sync failed", "error", err)
		return fmt.Errorf("sync: %w", err)
	}

	for _, engine := range result.Engines {
		if err := s.store.SaveLastSync(engine, result.Finished); err != nil {
			logger.Error("failed to record last sync", "engine", engine, "error", err)
		}
	}

	logger.Info("sync completed", "duration", s.clock.Since(start))
	return nil
}

func (s *AccountService) SetSyncStatus(engine domain.SyncEngine, enabled bool) {
	if err := s.store.SetEngineEnabled(engine, enabled); err != nil {
		s.logger.Error("failed to persist engine status", "engine", engine, "error", err)
	}
}

func (s *AccountService) IsEngineEnabled(engine domain.SyncEngine) bool {
	if enabled, ok := s.store.EngineEnabled(engine); ok {
		return enabled
	}
	return domain.DefaultEngineEnabled(engine)
}

// LastSynced returns when an engine last completed a sync
func (s *AccountService) LastSynced(engine domain.SyncEngine) (time.Time, bool) {
	return s.store.LastSync(engine)
}

// === Observers ===

func (s *AccountService) AddAccountListener(o domain.AccountObserver) {
	s.obsMu.Lock()
	defer s.obsMu.Unlock()
	for _, existing := range s.observers {
		if existing == o {
			return
		}
	}
	s.observers = append(s.observers, o)
}

// RemoveAccountListener unsubscribes o. Once it returns, o receives no further callbacks.
func (s *AccountService) RemoveAccountListener(o domain.AccountObserver) {
	s.obsMu.Lock()
	defer s.obsMu.Unlock()
	for i, existing := range s.observers {
		if existing == o {
			s.observers = append(s.observers[:i], s.observers[i+1:]...)
			return
		}
	}
}

func (s *AccountService) notify(fn func(domain.AccountObserver)) {
	s.obsMu.RLock()
	defer s.obsMu.RUnlock()
	for _, o := range s.observers {
		fn(o)
	}
}
