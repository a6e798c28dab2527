package adapter

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mmcdole/vrsettings/internal/domain"
)

// LocalBackend is an in-process account backend.
// Tokens are self-describing ("<uid>:<email>") so sessions survive restarts;
// signed-out tokens are remembered for the life of the process.
type LocalBackend struct {
	clock       clockwork.Clock
	latency     time.Duration
	failureRate float64
	random      func() float64
	logger      *slog.Logger

	mu      sync.Mutex
	revoked map[string]bool
}

// NewLocalBackend creates a backend that answers after the configured latency
func NewLocalBackend(cfg AccountConfig, clock clockwork.Clock, logger *slog.Logger) *LocalBackend {
	return &LocalBackend{
		clock:       clock,
		latency:     cfg.Latency,
		failureRate: cfg.SyncFailureRate,
		random:      rand.Float64,
		logger:      logger,
		revoked:     make(map[string]bool),
	}
}

// wait simulates a network round trip
func (b *LocalBackend) wait(ctx context.Context) error {
	if b.latency <= 0 {
		return ctx.Err()
	}
	select {
	case <-b.clock.After(b.latency):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (b *LocalBackend) SignIn(ctx context.Context, email string) (string, *domain.Profile, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(email))
	if err != nil {
		return "", nil, fmt.Errorf("%w: %q", domain.ErrInvalidEmail, email)
	}
	if err := b.wait(ctx); err != nil {
		return "", nil, err
	}

	profile := profileFor(addr.Address)
	token := profile.UID + ":" + profile.Email

	b.mu.Lock()
	delete(b.revoked, token)
	b.mu.Unlock()

	b.logger.Debug("backend sign in", "uid", profile.UID)
	return token, profile, nil
}

func (b *LocalBackend) FetchProfile(ctx context.Context, token string) (*domain.Profile, error) {
	if err := b.wait(ctx); err != nil {
		return nil, err
	}
	return b.validate(token)
}

func (b *LocalBackend) SignOut(ctx context.Context, token string) error {
	if err := b.wait(ctx); err != nil {
		return err
	}

	b.mu.Lock()
	b.revoked[token] = true
	b.mu.Unlock()

	return nil
}

func (b *LocalBackend) Sync(ctx context.Context, token string, engines []domain.SyncEngine, force bool) (*domain.SyncResult, error) {
	if _, err := b.validate(token); err != nil {
		return nil, err
	}
	if err := b.wait(ctx); err != nil {
		return nil, err
	}
	if b.failureRate > 0 && b.random() < b.failureRate {
		return nil, domain.ErrBackendOffline
	}

	b.logger.Debug("backend sync", "engines", engines, "force", force)
	return &domain.SyncResult{
		Engines:  append([]domain.SyncEngine(nil), engines...),
		Finished: b.clock.Now(),
	}, nil
}

// validate resolves a token back to its profile
func (b *LocalBackend) validate(token string) (*domain.Profile, error) {
	b.mu.Lock()
	revoked := b.revoked[token]
	b.mu.Unlock()
	if revoked {
		return nil, domain.ErrAuthFailed
	}

	uid, email, ok := strings.Cut(token, ":")
	if !ok || email == "" {
		return nil, domain.ErrAuthFailed
	}
	profile := profileFor(email)
	if profile.UID != uid {
		return nil, domain.ErrAuthFailed
	}
	return profile, nil
}

// profileFor derives a stable profile from an email address
func profileFor(email string) *domain.Profile {
	email = strings.ToLower(email)
	name, _, _ := strings.Cut(email, "@")
	return &domain.Profile{
		UID:         uuid.NewSHA1(uuid.NameSpaceURL, []byte("mailto:"+email)).String(),
		Email:       email,
		DisplayName: name,
	}
}
