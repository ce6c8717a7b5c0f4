package domain

import "errors"

var (
	// ErrInvalidCredentials means the backend rejected the login credentials.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnauthenticated means the backend holds no valid session for this
	// client. On first load this is an expected state, not a failure.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrRefreshFailed means the silent re-authentication call failed. It is
	// fatal to the session, not just to the request that triggered it.
	ErrRefreshFailed = errors.New("session refresh failed")

	// ErrAuthorizationDenied means the identity was confirmed but its role is
	// not permitted to use the dashboard. Distinct from ErrInvalidCredentials.
	ErrAuthorizationDenied = errors.New("role not permitted")

	ErrNotFound = errors.New("not found")
)
