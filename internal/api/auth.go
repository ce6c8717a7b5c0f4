package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/adarsh-naik-2004/bats-admin/internal/domain"
)

// AuthService covers the auth lifecycle endpoints. None of them participate in
// the silent re-authentication flow.
type AuthService struct {
	c *Client
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges credentials for the gateway's session cookies. It does not
// return the identity; call Self afterwards.
func (s *AuthService) Login(ctx context.Context, creds Credentials) error {
	req, err := jsonRequest(http.MethodPost, authService+"/auth/login", creds)
	if err != nil {
		return err
	}

	err = s.c.doJSON(ctx, req, nil)
	if IsStatus(err, http.StatusUnauthorized) || IsStatus(err, http.StatusBadRequest) {
		return fmt.Errorf("%w: %w", domain.ErrInvalidCredentials, err)
	}
	return err
}

// Self asks the gateway who, if anyone, is authenticated by the cookies this
// client holds. A 401 surfaces as domain.ErrUnauthenticated via errors.Is.
func (s *AuthService) Self(ctx context.Context) (*domain.User, error) {
	var user domain.User
	req := request{method: http.MethodGet, path: authService + "/auth/self"}
	if err := s.c.doJSON(ctx, req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Logout invalidates the remote session and drops the local cookies either way.
func (s *AuthService) Logout(ctx context.Context) error {
	req := request{method: http.MethodPost, path: authService + "/auth/logout"}
	err := s.c.doJSON(ctx, req, nil)

	if clearErr := s.c.ClearCookies(); clearErr != nil && err == nil {
		err = clearErr
	}
	return err
}

// Refresh forces a silent re-authentication. Shares the single-flight gate
// with the transparent coordinator.
func (s *AuthService) Refresh(ctx context.Context) error {
	return s.c.gate.refresh(ctx)
}
