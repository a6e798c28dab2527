package tui

import (
	"context"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/vrsettings/internal/domain"
)

// fakeAccounts is a scriptable domain.AccountManager
type fakeAccounts struct {
	mu sync.Mutex

	status       domain.AccountStatus
	profile      *domain.Profile
	fetchProfile *domain.Profile
	fetchErr     error
	syncErr      error
	signInErr    error
	logoutErr    error

	enabled   map[domain.SyncEngine]bool
	lastSync  time.Time
	observers []domain.AccountObserver

	fetchCalls  int
	logoutCalls int
	setCalls    int
	syncCalls   []map[domain.SyncEngine]bool // enablement seen by each SyncNow
	signIns     []string
}

func newFakeAccounts(status domain.AccountStatus, profile *domain.Profile) *fakeAccounts {
	return &fakeAccounts{
		status:  status,
		profile: profile,
		enabled: map[domain.SyncEngine]bool{
			domain.SyncEngineBookmarks: true,
			domain.SyncEngineHistory:   true,
		},
	}
}

func (f *fakeAccounts) AccountStatus() domain.AccountStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status
}

func (f *fakeAccounts) AccountProfile() *domain.Profile {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.profile
}

func (f *fakeAccounts) UpdateProfile(ctx context.Context) (*domain.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchCalls++
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	f.profile = f.fetchProfile
	return f.fetchProfile, nil
}

func (f *fakeAccounts) Logout(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logoutCalls++
	return f.logoutErr
}

func (f *fakeAccounts) SyncNow(ctx context.Context, reason domain.SyncReason, force bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	snapshot := make(map[domain.SyncEngine]bool, len(f.enabled))
	for k, v := range f.enabled {
		snapshot[k] = v
	}
	f.syncCalls = append(f.syncCalls, snapshot)
	return f.syncErr
}

func (f *fakeAccounts) SetSyncStatus(engine domain.SyncEngine, enabled bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setCalls++
	f.enabled[engine] = enabled
}

func (f *fakeAccounts) IsEngineEnabled(engine domain.SyncEngine) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.enabled[engine]
}

func (f *fakeAccounts) AddAccountListener(o domain.AccountObserver) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.observers = append(f.observers, o)
}

func (f *fakeAccounts) RemoveAccountListener(o domain.AccountObserver) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, existing := range f.observers {
		if existing == o {
			f.observers = append(f.observers[:i], f.observers[i+1:]...)
			return
		}
	}
}

func (f *fakeAccounts) SignIn(ctx context.Context, email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signIns = append(f.signIns, email)
	if f.signInErr != nil {
		return f.signInErr
	}
	f.status = domain.AccountSignedIn
	f.profile = &domain.Profile{Email: email}
	return nil
}

func (f *fakeAccounts) LastSynced(domain.SyncEngine) (time.Time, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastSync, !f.lastSync.IsZero()
}

// notify delivers an event to every subscribed observer
func (f *fakeAccounts) notify(fn func(domain.AccountObserver)) {
	f.mu.Lock()
	observers := append([]domain.AccountObserver(nil), f.observers...)
	f.mu.Unlock()
	for _, o := range observers {
		fn(o)
	}
}

func (f *fakeAccounts) observerCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.observers)
}

func (f *fakeAccounts) syncCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.syncCalls)
}

func (f *fakeAccounts) setAuthoritative(engine domain.SyncEngine, enabled bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.enabled[engine] = enabled
}

// execCmd runs a command and flattens batches. Commands that block (such as
// waiting for account events) are abandoned after a short grace period.
func execCmd(t *testing.T, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	if cmd == nil {
		return nil
	}

	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()

	var msg tea.Msg
	select {
	case msg = <-done:
	case <-time.After(100 * time.Millisecond):
		return nil
	}

	switch msg := msg.(type) {
	case nil:
		return nil
	case tea.BatchMsg:
		var out []tea.Msg
		for _, c := range msg {
			out = append(out, execCmd(t, c)...)
		}
		return out
	default:
		return []tea.Msg{msg}
	}
}

// find returns the first message of type T
func find[T tea.Msg](msgs []tea.Msg) (T, bool) {
	for _, msg := range msgs {
		if m, ok := msg.(T); ok {
			return m, true
		}
	}
	var zero T
	return zero, false
}

// count returns the number of messages of type T
func count[T tea.Msg](msgs []tea.Msg) int {
	n := 0
	for _, msg := range msgs {
		if _, ok := msg.(T); ok {
			n++
		}
	}
	return n
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}
