package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mmcdole/vrsettings/internal/adapter"
	"github.com/mmcdole/vrsettings/internal/domain"
	"github.com/mmcdole/vrsettings/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingObserver captures account events in order
type recordingObserver struct {
	mu     sync.Mutex
	events []string
	emails []string
}

func (r *recordingObserver) record(ev string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recordingObserver) OnAuthenticated() { r.record("authenticated") }
func (r *recordingObserver) OnProfileUpdated(p domain.Profile) {
	r.mu.Lock()
	r.emails = append(r.emails, p.Email)
	r.mu.Unlock()
	r.record("profile")
}
func (r *recordingObserver) OnLoggedOut()              { r.record("logged_out") }
func (r *recordingObserver) OnAuthenticationProblems() { r.record("auth_problem") }

func (r *recordingObserver) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

// stubBackend lets tests script backend failures
type stubBackend struct {
	domain.AccountBackend
	fetchErr   error
	syncErr    error
	signOutErr error
	synced     [][]domain.SyncEngine
	finished   time.Time
}

func (b *stubBackend) FetchProfile(ctx context.Context, token string) (*domain.Profile, error) {
	if b.fetchErr != nil {
		return nil, b.fetchErr
	}
	return b.AccountBackend.FetchProfile(ctx, token)
}

func (b *stubBackend) SignOut(ctx context.Context, token string) error {
	if b.signOutErr != nil {
		return b.signOutErr
	}
	return b.AccountBackend.SignOut(ctx, token)
}

func (b *stubBackend) Sync(ctx context.Context, token string, engines []domain.SyncEngine, force bool) (*domain.SyncResult, error) {
	if b.syncErr != nil {
		return nil, b.syncErr
	}
	b.synced = append(b.synced, engines)
	return &domain.SyncResult{Engines: engines, Finished: b.finished}, nil
}

type fixture struct {
	svc     *AccountService
	store   *store.SettingsStore
	backend *stubBackend
	obs     *recordingObserver
	clock   *clockwork.FakeClock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clock := clockwork.NewFakeClock()
	st, err := store.NewSettingsStore("")
	require.NoError(t, err)
	backend := &stubBackend{
		AccountBackend: adapter.NewLocalBackend(adapter.AccountConfig{}, clock, adapter.NullLogger()),
		finished:       clock.Now(),
	}
	svc := NewAccountService(backend, st, clock, adapter.NullLogger())
	obs := &recordingObserver{}
	svc.AddAccountListener(obs)
	return &fixture{svc: svc, store: st, backend: backend, obs: obs, clock: clock}
}

func (f *fixture) signIn(t *testing.T) {
	t.Helper()
	require.NoError(t, f.svc.SignIn(context.Background(), "ada@example.com"))
}

func TestAccountService_StartsSignedOut(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, domain.AccountSignedOut, f.svc.AccountStatus())
	assert.Nil(t, f.svc.AccountProfile())

	_, err := f.svc.UpdateProfile(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotSignedIn)
	assert.ErrorIs(t, f.svc.SyncNow(context.Background(), domain.SyncReasonUser, false), domain.ErrNotSignedIn)
}

func TestAccountService_SignInNotifiesAndPersists(t *testing.T) {
	f := newFixture(t)
	f.signIn(t)

	assert.Equal(t, domain.AccountSignedIn, f.svc.AccountStatus())
	require.NotNil(t, f.svc.AccountProfile())
	assert.Equal(t, "ada@example.com", f.svc.AccountProfile().Email)
	assert.Equal(t, []string{"authenticated", "profile"}, f.obs.Events())

	acct, ok := f.store.GetAccount()
	require.True(t, ok)
	assert.Equal(t, domain.AccountSignedIn, acct.Status)

	// A new service over the same store restores the account
	restored := NewAccountService(f.backend, f.store, f.clock, adapter.NullLogger())
	assert.Equal(t, domain.AccountSignedIn, restored.AccountStatus())
}

func TestAccountService_SignInRejectsBadEmail(t *testing.T) {
	f := newFixture(t)

	err := f.svc.SignIn(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrInvalidEmail)
	assert.Equal(t, domain.AccountSignedOut, f.svc.AccountStatus())
	assert.Empty(t, f.obs.Events())
}

func TestAccountService_AccountProfileReturnsCopy(t *testing.T) {
	f := newFixture(t)
	f.signIn(t)

	p := f.svc.AccountProfile()
	p.Email = "mutated@example.com"
	assert.Equal(t, "ada@example.com", f.svc.AccountProfile().Email)
}

func TestAccountService_UpdateProfile(t *testing.T) {
	f := newFixture(t)
	f.signIn(t)

	p, err := f.svc.UpdateProfile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", p.Email)
	assert.Equal(t, []string{"authenticated", "profile", "profile"}, f.obs.Events())
}

func TestAccountService_UpdateProfileAuthFailureNeedsReconnect(t *testing.T) {
	f := newFixture(t)
	f.signIn(t)
	f.backend.fetchErr = domain.ErrAuthFailed

	_, err := f.svc.UpdateProfile(context.Background())
	assert.ErrorIs(t, err, domain.ErrAuthFailed)
	assert.Equal(t, domain.AccountNeedsReconnect, f.svc.AccountStatus())
	assert.Contains(t, f.obs.Events(), "auth_problem")

	acct, ok := f.store.GetAccount()
	require.True(t, ok)
	assert.Equal(t, domain.AccountNeedsReconnect, acct.Status)

	// Syncing is refused until reconnected
	assert.ErrorIs(t, f.svc.SyncNow(context.Background(), domain.SyncReasonUser, false), domain.ErrNotSignedIn)
}

func TestAccountService_UpdateProfileTransientFailureKeepsStatus(t *testing.T) {
	f := newFixture(t)
	f.signIn(t)
	f.backend.fetchErr = domain.ErrBackendOffline

	_, err := f.svc.UpdateProfile(context.Background())
	assert.ErrorIs(t, err, domain.ErrBackendOffline)
	assert.Equal(t, domain.AccountSignedIn, f.svc.AccountStatus())
}

func TestAccountService_Logout(t *testing.T) {
	f := newFixture(t)
	f.signIn(t)

	require.NoError(t, f.svc.Logout(context.Background()))
	assert.Equal(t, domain.AccountSignedOut, f.svc.AccountStatus())
	assert.Equal(t, "logged_out", f.obs.Events()[len(f.obs.Events())-1])

	_, ok := f.store.GetAccount()
	assert.False(t, ok)
}

func TestAccountService_LogoutWhileSignedOutIsNoop(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.svc.Logout(context.Background()))
	assert.Empty(t, f.obs.Events())
}

func TestAccountService_LogoutBackendFailureStaysSignedIn(t *testing.T) {
	f := newFixture(t)
	f.signIn(t)
	f.backend.signOutErr = domain.ErrBackendOffline

	err := f.svc.Logout(context.Background())
	assert.ErrorIs(t, err, domain.ErrBackendOffline)
	assert.Equal(t, domain.AccountSignedIn, f.svc.AccountStatus())
}

func TestAccountService_LogoutWithRevokedTokenSucceeds(t *testing.T) {
	f := newFixture(t)
	f.signIn(t)
	f.backend.signOutErr = domain.ErrAuthFailed

	require.NoError(t, f.svc.Logout(context.Background()))
	assert.Equal(t, domain.AccountSignedOut, f.svc.AccountStatus())
}

func TestAccountService_EngineEnablementDefaultsAndPersists(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, domain.DefaultBookmarksSync, f.svc.IsEngineEnabled(domain.SyncEngineBookmarks))
	assert.Equal(t, domain.DefaultHistorySync, f.svc.IsEngineEnabled(domain.SyncEngineHistory))

	f.svc.SetSyncStatus(domain.SyncEngineHistory, false)
	assert.False(t, f.svc.IsEngineEnabled(domain.SyncEngineHistory))

	stored, ok := f.store.EngineEnabled(domain.SyncEngineHistory)
	require.True(t, ok)
	assert.False(t, stored)
}

func TestAccountService_SyncNowSyncsEnabledEngines(t *testing.T) {
	f := newFixture(t)
	f.signIn(t)
	f.svc.SetSyncStatus(domain.SyncEngineBookmarks, false)
	f.svc.SetSyncStatus(domain.SyncEngineHistory, true)

	require.NoError(t, f.svc.SyncNow(context.Background(), domain.SyncReasonEngineChange, false))
	require.Len(t, f.backend.synced, 1)
	assert.Equal(t, []domain.SyncEngine{domain.SyncEngineHistory}, f.backend.synced[0])

	last, ok := f.svc.LastSynced(domain.SyncEngineHistory)
	require.True(t, ok)
	assert.True(t, last.Equal(f.backend.finished))
	_, ok = f.svc.LastSynced(domain.SyncEngineBookmarks)
	assert.False(t, ok)
}

func TestAccountService_SyncNowSkipsWhenNothingEnabled(t *testing.T) {
	f := newFixture(t)
	f.signIn(t)
	f.svc.SetSyncStatus(domain.SyncEngineBookmarks, false)
	f.svc.SetSyncStatus(domain.SyncEngineHistory, false)

	require.NoError(t, f.svc.SyncNow(context.Background(), domain.SyncReasonEngineChange, false))
	assert.Empty(t, f.backend.synced)

	require.NoError(t, f.svc.SyncNow(context.Background(), domain.SyncReasonUser, true))
	assert.Len(t, f.backend.synced, 1)
}

func TestAccountService_SyncNowFailure(t *testing.T) {
	f := newFixture(t)
	f.signIn(t)
	f.backend.syncErr = domain.ErrBackendOffline

	err := f.svc.SyncNow(context.Background(), domain.SyncReasonEngineChange, false)
	assert.True(t, errors.Is(err, domain.ErrBackendOffline))
	assert.Equal(t, domain.AccountSignedIn, f.svc.AccountStatus())
}

func TestAccountService_SyncNowAuthFailure(t *testing.T) {
	f := newFixture(t)
	f.signIn(t)
	f.backend.syncErr = domain.ErrAuthFailed

	err := f.svc.SyncNow(context.Background(), domain.SyncReasonEngineChange, false)
	assert.ErrorIs(t, err, domain.ErrAuthFailed)
	assert.Equal(t, domain.AccountNeedsReconnect, f.svc.AccountStatus())
	assert.Contains(t, f.obs.Events(), "auth_problem")
}

func TestAccountService_RemoveAccountListener(t *testing.T) {
	f := newFixture(t)
	f.svc.RemoveAccountListener(f.obs)

	f.signIn(t)
	assert.Empty(t, f.obs.Events())
}

func TestAccountService_AddAccountListenerDeduplicates(t *testing.T) {
	f := newFixture(t)
	f.svc.AddAccountListener(f.obs)

	f.signIn(t)
	assert.Equal(t, []string{"authenticated", "profile"}, f.obs.Events())
}
