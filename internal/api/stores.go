package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/adarsh-naik-2004/bats-admin/internal/domain"
)

// StoresService manages outlets. Admin-only on the backend.
type StoresService struct {
	c *Client
}

func (s *StoresService) List(ctx context.Context, page PageQuery) (List[domain.Store], error) {
	q := url.Values{}
	page.apply(q)

	var out List[domain.Store]
	err := s.c.doJSON(ctx, request{method: http.MethodGet, path: authService + "/stores", query: q}, &out)
	return out, err
}

func (s *StoresService) Create(ctx context.Context, payload domain.CreateStore) (*domain.Store, error) {
	req, err := jsonRequest(http.MethodPost, authService+"/stores", payload)
	if err != nil {
		return nil, err
	}
	var store domain.Store
	if err := s.c.doJSON(ctx, req, &store); err != nil {
		return nil, err
	}
	return &store, nil
}

func (s *StoresService) Update(ctx context.Context, id string, payload domain.CreateStore) (*domain.Store, error) {
	req, err := jsonRequest(http.MethodPatch, authService+"/stores/"+id, payload)
	if err != nil {
		return nil, err
	}
	var store domain.Store
	if err := s.c.doJSON(ctx, req, &store); err != nil {
		return nil, err
	}
	return &store, nil
}

func (s *StoresService) Delete(ctx context.Context, id string) error {
	return s.c.doJSON(ctx, request{method: http.MethodDelete, path: authService + "/stores/" + id}, nil)
}
