package sandbox

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// Cookie names match the real gateway's contract.
const (
	accessCookie  = "accessToken"
	refreshCookie = "refreshToken"
)

type grant struct {
	userID  string
	expires time.Time
}

// tokenStore issues and rotates the opaque access/refresh token pair the
// sandbox puts into cookies. Access tokens are short-lived on purpose so the
// client's silent refresh path gets exercised.
type tokenStore struct {
	clock      clockwork.Clock
	accessTTL  time.Duration
	refreshTTL time.Duration

	mu      sync.Mutex
	access  map[string]grant
	refresh map[string]grant
}

func newTokenStore(clock clockwork.Clock, accessTTL, refreshTTL time.Duration) *tokenStore {
	return &tokenStore{
		clock:      clock,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		access:     make(map[string]grant),
		refresh:    make(map[string]grant),
	}
}

func (t *tokenStore) issue(userID string) (accessToken, refreshToken string) {
	accessToken = uuid.NewString()
	refreshToken = uuid.NewString()

	now := t.clock.Now()
	t.mu.Lock()
	t.access[accessToken] = grant{userID: userID, expires: now.Add(t.accessTTL)}
	t.refresh[refreshToken] = grant{userID: userID, expires: now.Add(t.refreshTTL)}
	t.mu.Unlock()
	return accessToken, refreshToken
}

func (t *tokenStore) lookupAccess(token string) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	g, ok := t.access[token]
	if !ok || t.clock.Now().After(g.expires) {
		delete(t.access, token)
		return "", false
	}
	return g.userID, true
}

// rotate exchanges a refresh token for a fresh pair, revoking the old one.
func (t *tokenStore) rotate(refreshToken string) (newAccess, newRefresh string, ok bool) {
	t.mu.Lock()
	g, found := t.refresh[refreshToken]
	if !found || t.clock.Now().After(g.expires) {
		delete(t.refresh, refreshToken)
		t.mu.Unlock()
		return "", "", false
	}
	delete(t.refresh, refreshToken)
	t.mu.Unlock()

	newAccess, newRefresh = t.issue(g.userID)
	return newAccess, newRefresh, true
}

func (t *tokenStore) revoke(accessToken, refreshToken string) {
	t.mu.Lock()
	delete(t.access, accessToken)
	delete(t.refresh, refreshToken)
	t.mu.Unlock()
}

// expireAccess invalidates one access token immediately. Test hook for
// forcing the 401/refresh path.
func (t *tokenStore) expireAccess(token string) {
	t.mu.Lock()
	delete(t.access, token)
	t.mu.Unlock()
}
