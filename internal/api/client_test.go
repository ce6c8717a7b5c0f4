package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adarsh-naik-2004/bats-admin/internal/domain"
)

const freshToken = "fresh"

// gatewayStub simulates the gateway's cookie auth: protected routes 401
// unless the access cookie holds the current token, and the refresh endpoint
// rotates the cookie to it.
type gatewayStub struct {
	t *testing.T

	refreshCalls  atomic.Int64
	listCalls     atomic.Int64
	refreshStatus int
}

func newGatewayStub(t *testing.T) (*gatewayStub, *httptest.Server) {
	t.Helper()
	stub := &gatewayStub{t: t, refreshStatus: http.StatusOK}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		stub.refreshCalls.Add(1)
		if stub.refreshStatus != http.StatusOK {
			w.WriteHeader(stub.refreshStatus)
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "accessToken", Value: freshToken, Path: "/"})
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("GET /api/auth/users", func(w http.ResponseWriter, r *http.Request) {
		stub.listCalls.Add(1)
		if c, err := r.Cookie("accessToken"); err != nil || c.Value != freshToken {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(List[domain.User]{Data: []domain.User{{ID: "u1"}}, Total: 1})
	})
	mux.HandleFunc("POST /api/auth/auth/login", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return stub, server
}

func newTestClient(t *testing.T, url string, hooks ReauthHooks) *Client {
	t.Helper()
	client, err := NewClient(url, WithReauth(hooks))
	require.NoError(t, err)
	return client
}

func alwaysHasSession() bool { return true }

func TestDoRefreshesAndReplaysOn401(t *testing.T) {
	stub, server := newGatewayStub(t)
	client := newTestClient(t, server.URL, ReauthHooks{HasSession: alwaysHasSession})

	users, err := client.Users.List(context.Background(), UserFilter{})
	require.NoError(t, err)

	assert.Equal(t, 1, users.Total)
	assert.Equal(t, int64(1), stub.refreshCalls.Load())
	assert.Equal(t, int64(2), stub.listCalls.Load(), "expected the original attempt plus one replay")
}

func TestDoReplaysAtMostOnce(t *testing.T) {
	stub, server := newGatewayStub(t)
	client := newTestClient(t, server.URL, ReauthHooks{HasSession: alwaysHasSession})

	// Refresh succeeds but hands out a cookie the protected route rejects,
	// so the replay 401s again. That second 401 must surface, not loop.
	stub.refreshStatus = http.StatusOK
	mangled := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/auth/refresh":
			stub.refreshCalls.Add(1)
			http.SetCookie(w, &http.Cookie{Name: "accessToken", Value: "still-wrong", Path: "/"})
		default:
			w.WriteHeader(http.StatusUnauthorized)
		}
	}))
	t.Cleanup(mangled.Close)

	client = newTestClient(t, mangled.URL, ReauthHooks{HasSession: alwaysHasSession})
	_, err := client.Users.List(context.Background(), UserFilter{})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestConcurrent401sAllRecover(t *testing.T) {
	_, server := newGatewayStub(t)
	client := newTestClient(t, server.URL, ReauthHooks{HasSession: alwaysHasSession})

	const callers = 8
	var wg sync.WaitGroup
	errs := make([]error, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = client.Users.List(context.Background(), UserFilter{})
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "caller %d", i)
	}
}

func TestRefreshFailureSurfacesAndFiresHookOnce(t *testing.T) {
	stub, server := newGatewayStub(t)
	stub.refreshStatus = http.StatusUnauthorized

	var hookCalls atomic.Int64
	client := newTestClient(t, server.URL, ReauthHooks{
		HasSession:      alwaysHasSession,
		OnRefreshFailed: func(error) { hookCalls.Add(1) },
	})

	_, err := client.Users.List(context.Background(), UserFilter{})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRefreshFailed)
	assert.Equal(t, int64(1), hookCalls.Load())
	assert.Equal(t, int64(1), stub.refreshCalls.Load())
}

func TestNoRefreshWithoutSession(t *testing.T) {
	stub, server := newGatewayStub(t)
	client := newTestClient(t, server.URL, ReauthHooks{HasSession: func() bool { return false }})

	_, err := client.Users.List(context.Background(), UserFilter{})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	assert.Zero(t, stub.refreshCalls.Load(), "no session, no silent refresh")
}

func TestLoginNeverTriggersRefresh(t *testing.T) {
	stub, server := newGatewayStub(t)
	client := newTestClient(t, server.URL, ReauthHooks{HasSession: alwaysHasSession})

	err := client.Auth.Login(context.Background(), Credentials{Email: "a@b.c", Password: "nope"})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	assert.Zero(t, stub.refreshCalls.Load())
}

func TestStatusErrorMapsToDomain(t *testing.T) {
	err := &StatusError{Code: http.StatusUnauthorized, Message: "nope"}
	assert.True(t, errors.Is(err, domain.ErrUnauthenticated))

	notFound := &StatusError{Code: http.StatusNotFound}
	assert.False(t, errors.Is(notFound, domain.ErrUnauthenticated))
	assert.True(t, IsStatus(notFound, http.StatusNotFound))
}

func TestCookieFilePersistsAcrossClients(t *testing.T) {
	_, server := newGatewayStub(t)
	path := filepath.Join(t.TempDir(), "cookies.json")

	first, err := NewClient(server.URL, WithCookieFile(path))
	require.NoError(t, err)
	require.NoError(t, first.Auth.Refresh(context.Background()))
	require.NoError(t, first.SaveCookies())

	second, err := NewClient(server.URL, WithCookieFile(path))
	require.NoError(t, err)

	users, err := second.Users.List(context.Background(), UserFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, users.Total, "persisted cookie should authenticate the new client")

	require.NoError(t, second.ClearCookies())
	third, err := NewClient(server.URL, WithCookieFile(path))
	require.NoError(t, err)
	_, err = third.Users.List(context.Background(), UserFilter{})
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}
