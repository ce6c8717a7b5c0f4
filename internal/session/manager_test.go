package session

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adarsh-naik-2004/bats-admin/internal/api"
	"github.com/adarsh-naik-2004/bats-admin/internal/domain"
)

type fakeAuth struct {
	loginErr  error
	selfUser  *domain.User
	selfErr   error
	logoutErr error

	loginCalls  int
	selfCalls   int
	logoutCalls int
}

func (f *fakeAuth) Login(ctx context.Context, creds api.Credentials) error {
	f.loginCalls++
	return f.loginErr
}

func (f *fakeAuth) Self(ctx context.Context) (*domain.User, error) {
	f.selfCalls++
	if f.selfErr != nil {
		return nil, f.selfErr
	}
	return f.selfUser, nil
}

func (f *fakeAuth) Logout(ctx context.Context) error {
	f.logoutCalls++
	return f.logoutErr
}

func adminUser() *domain.User {
	return &domain.User{ID: "u1", FirstName: "Ada", Role: domain.RoleAdmin}
}

func managerUser() *domain.User {
	return &domain.User{ID: "u2", FirstName: "Manu", Role: domain.RoleManager, Store: &domain.Store{ID: "s1", Name: "Downtown"}}
}

func TestAuthenticateStoresSession(t *testing.T) {
	auth := &fakeAuth{selfUser: adminUser()}
	m := NewManager(auth)

	sess, err := m.Authenticate(context.Background(), api.Credentials{Email: "a@b.c", Password: "pw"})
	require.NoError(t, err)

	assert.Equal(t, "u1", sess.User.ID)
	assert.True(t, m.IsAuthenticated())
	assert.Equal(t, 1, auth.loginCalls)
	assert.Equal(t, 1, auth.selfCalls)
}

func TestAuthenticateRejectsBadCredentials(t *testing.T) {
	auth := &fakeAuth{loginErr: fmt.Errorf("%w: 401", domain.ErrInvalidCredentials)}
	m := NewManager(auth)

	_, err := m.Authenticate(context.Background(), api.Credentials{})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	assert.False(t, m.IsAuthenticated())
	assert.Zero(t, auth.selfCalls, "no identity confirmation after a failed login")
}

func TestAuthenticateRejectsCustomerAndRevokesRemote(t *testing.T) {
	auth := &fakeAuth{selfUser: &domain.User{ID: "u3", Role: domain.RoleCustomer}}
	m := NewManager(auth)

	_, err := m.Authenticate(context.Background(), api.Credentials{})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAuthorizationDenied)
	assert.False(t, m.IsAuthenticated())
	assert.Equal(t, 1, auth.logoutCalls, "a disallowed role must not keep a live remote session")
}

func TestAuthenticateRejectsStorelessManager(t *testing.T) {
	auth := &fakeAuth{selfUser: &domain.User{ID: "u4", Role: domain.RoleManager}}
	m := NewManager(auth)

	_, err := m.Authenticate(context.Background(), api.Credentials{})
	assert.ErrorIs(t, err, domain.ErrAuthorizationDenied)
}

func TestConfirmIdentityTreats401AsSignedOut(t *testing.T) {
	auth := &fakeAuth{selfErr: fmt.Errorf("gateway: %w", domain.ErrUnauthenticated)}
	m := NewManager(auth)

	user, err := m.ConfirmIdentity(context.Background())

	require.NoError(t, err, "an anonymous answer is not a failure")
	assert.Nil(t, user)
	assert.Equal(t, 1, auth.selfCalls, "401 must not be retried")
}

func TestConfirmIdentityRetriesTransportErrors(t *testing.T) {
	auth := &fakeAuth{selfErr: errors.New("connection reset")}
	m := NewManager(auth)

	_, err := m.ConfirmIdentity(context.Background())

	require.Error(t, err)
	assert.Equal(t, 3, auth.selfCalls, "transport errors retry up to the policy bound")
}

func TestSignOutClearsLocallyDespiteRemoteFailure(t *testing.T) {
	auth := &fakeAuth{selfUser: managerUser(), logoutErr: errors.New("gateway down")}
	m := NewManager(auth)

	_, err := m.Authenticate(context.Background(), api.Credentials{})
	require.NoError(t, err)

	err = m.SignOut(context.Background())
	require.Error(t, err, "the remote failure is reported")
	assert.False(t, m.IsAuthenticated(), "the local session is gone regardless")
}

func TestHandleRefreshFailureClearsSession(t *testing.T) {
	auth := &fakeAuth{selfUser: adminUser()}
	m := NewManager(auth)
	_, err := m.Authenticate(context.Background(), api.Credentials{})
	require.NoError(t, err)

	m.HandleRefreshFailure(errors.New("refresh token revoked"))

	assert.False(t, m.IsAuthenticated())
	assert.Zero(t, auth.logoutCalls, "the backend already dropped us, no remote call")
}

func TestCurrentReturnsSnapshot(t *testing.T) {
	m := NewManager(&fakeAuth{})
	assert.Nil(t, m.Current())

	m.SetSession(*managerUser())
	snap := m.Current()
	require.NotNil(t, snap)

	snap.User.FirstName = "changed"
	assert.Equal(t, "Manu", m.Current().User.FirstName, "mutating the snapshot must not leak back")
}

func TestWatchSeesSignInAndSignOut(t *testing.T) {
	m := NewManager(&fakeAuth{})
	ch, cancel := m.Watch()
	defer cancel()

	m.SetSession(*adminUser())
	select {
	case sess := <-ch:
		require.NotNil(t, sess)
		assert.Equal(t, "u1", sess.User.ID)
	case <-time.After(time.Second):
		t.Fatal("no sign-in notification")
	}

	m.HandleRefreshFailure(errors.New("revoked"))
	select {
	case sess := <-ch:
		assert.Nil(t, sess, "sign-out notifies with nil")
	case <-time.After(time.Second):
		t.Fatal("no sign-out notification")
	}
}

func TestWatchKeepsLatestForSlowReceiver(t *testing.T) {
	m := NewManager(&fakeAuth{})
	ch, cancel := m.Watch()
	defer cancel()

	m.SetSession(domain.User{ID: "first", Role: domain.RoleAdmin})
	m.SetSession(domain.User{ID: "second", Role: domain.RoleAdmin})

	sess := <-ch
	require.NotNil(t, sess)
	assert.Equal(t, "second", sess.User.ID, "a stale pending value is replaced, not queued")
}
