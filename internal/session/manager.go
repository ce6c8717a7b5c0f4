// Package session owns the client's authenticated identity. The Manager is
// the single mutation path for the session value; everything else reads
// snapshots or watches for changes.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/adarsh-naik-2004/bats-admin/internal/api"
	"github.com/adarsh-naik-2004/bats-admin/internal/domain"
	"github.com/adarsh-naik-2004/bats-admin/internal/platform/retry"
)

// authAPI is the slice of the API client the manager needs.
type authAPI interface {
	Login(ctx context.Context, creds api.Credentials) error
	Self(ctx context.Context) (*domain.User, error)
	Logout(ctx context.Context) error
}

var confirmPolicy = retry.Policy{
	MaxAttempts:    3,
	InitialBackoff: 200 * time.Millisecond,
	OnRetry: func(attempt int, err error, backoff time.Duration) {
		slog.Warn("Identity confirmation failed, retrying", "attempt", attempt, "backoff", backoff, "error", err)
	},
}

type Manager struct {
	auth authAPI

	mu       sync.Mutex
	current  *domain.Session
	watchers map[int]chan *domain.Session
	nextID   int
}

func NewManager(auth authAPI) *Manager {
	return &Manager{
		auth:     auth,
		watchers: make(map[int]chan *domain.Session),
	}
}

// Authenticate runs the full login flow: credential exchange, identity
// confirmation, role authorization. On an authorization rejection the remote
// session is signed out and nothing is stored locally.
func (m *Manager) Authenticate(ctx context.Context, creds api.Credentials) (*domain.Session, error) {
	if err := m.auth.Login(ctx, creds); err != nil {
		return nil, err
	}

	user, err := m.ConfirmIdentity(ctx)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: login succeeded but no identity was returned", domain.ErrUnauthenticated)
	}

	if err := Authorize(*user); err != nil {
		// The backend has already set its cookie; revoke it before reporting
		// the rejection so a disallowed role holds no live session.
		if logoutErr := m.auth.Logout(ctx); logoutErr != nil {
			slog.Warn("Remote sign-out after authorization rejection failed", "error", logoutErr)
		}
		return nil, err
	}

	return m.SetSession(*user), nil
}

// ConfirmIdentity asks the backend who is currently authenticated. A 401 is a
// normal answer ("nobody"), returned as (nil, nil) without retrying; transport
// failures are retried up to the policy bound.
func (m *Manager) ConfirmIdentity(ctx context.Context) (*domain.User, error) {
	classify := func(err error) retry.Action {
		if errors.Is(err, domain.ErrUnauthenticated) {
			return retry.Stop
		}
		return retry.Retry
	}

	user, err := retry.Do(ctx, confirmPolicy, classify, func() (*domain.User, error) {
		return m.auth.Self(ctx)
	})
	if errors.Is(err, domain.ErrUnauthenticated) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("identity confirmation: %w", err)
	}
	return user, nil
}

// Authorize is the policy predicate over a confirmed identity: only admins
// and managers may use the dashboard, and a manager must be tied to a store.
func Authorize(user domain.User) error {
	if !user.Role.Dashboard() {
		return fmt.Errorf("%w: role %q", domain.ErrAuthorizationDenied, user.Role)
	}
	if user.Role == domain.RoleManager && user.Store == nil {
		return fmt.Errorf("%w: manager account has no store", domain.ErrAuthorizationDenied)
	}
	return nil
}

// SetSession idempotently replaces the stored session and notifies watchers.
func (m *Manager) SetSession(user domain.User) *domain.Session {
	sess := &domain.Session{User: user}

	m.mu.Lock()
	m.current = sess
	m.notifyLocked()
	m.mu.Unlock()

	return sess
}

// SignOut clears the local session and asks the backend to invalidate the
// remote one. The local clear always happens; the remote error is returned
// for reporting only.
func (m *Manager) SignOut(ctx context.Context) error {
	m.clear()
	if err := m.auth.Logout(ctx); err != nil {
		return fmt.Errorf("remote sign-out: %w", err)
	}
	return nil
}

// HandleRefreshFailure is the re-authentication coordinator's failure hook: a
// dead refresh credential means the session is gone, locally too. No remote
// call, the backend already considers us signed out.
func (m *Manager) HandleRefreshFailure(err error) {
	slog.Warn("Session refresh failed, signing out", "error", err)
	m.clear()
}

func (m *Manager) clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return
	}
	m.current = nil
	m.notifyLocked()
}

// IsAuthenticated is true iff a session is currently stored.
func (m *Manager) IsAuthenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current != nil
}

// Current returns a snapshot of the stored session, or nil when signed out.
func (m *Manager) Current() *domain.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return nil
	}
	snapshot := *m.current
	return &snapshot
}

// Watch registers for session changes. The channel receives the new session
// snapshot on every SetSession and nil on every sign-out. Slow receivers miss
// intermediate states rather than blocking the manager. The returned cancel
// removes the watcher and closes the channel.
func (m *Manager) Watch() (<-chan *domain.Session, func()) {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	ch := make(chan *domain.Session, 1)
	m.watchers[id] = ch
	m.mu.Unlock()

	cancel := func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if ch, ok := m.watchers[id]; ok {
			delete(m.watchers, id)
			close(ch)
		}
	}
	return ch, cancel
}

func (m *Manager) notifyLocked() {
	for _, ch := range m.watchers {
		// Replace a stale pending value so watchers always see the latest.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- m.current:
		default:
		}
	}
}
