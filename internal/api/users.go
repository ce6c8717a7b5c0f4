package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/adarsh-naik-2004/bats-admin/internal/domain"
)

// UsersService manages dashboard users. Admin-only on the backend.
type UsersService struct {
	c *Client
}

type UserFilter struct {
	PageQuery
	Role domain.Role
}

func (s *UsersService) List(ctx context.Context, filter UserFilter) (List[domain.User], error) {
	q := url.Values{}
	filter.PageQuery.apply(q)
	setStr(q, "role", string(filter.Role))

	var out List[domain.User]
	err := s.c.doJSON(ctx, request{method: http.MethodGet, path: authService + "/users", query: q}, &out)
	return out, err
}

func (s *UsersService) Create(ctx context.Context, payload domain.CreateUser) (*domain.User, error) {
	req, err := jsonRequest(http.MethodPost, authService+"/users", payload)
	if err != nil {
		return nil, err
	}
	var user domain.User
	if err := s.c.doJSON(ctx, req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UsersService) Update(ctx context.Context, id string, payload domain.CreateUser) (*domain.User, error) {
	req, err := jsonRequest(http.MethodPatch, authService+"/users/"+id, payload)
	if err != nil {
		return nil, err
	}
	var user domain.User
	if err := s.c.doJSON(ctx, req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UsersService) Delete(ctx context.Context, id string) error {
	return s.c.doJSON(ctx, request{method: http.MethodDelete, path: authService + "/users/" + id}, nil)
}
