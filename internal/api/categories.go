package api

import (
	"context"
	"net/http"

	"github.com/adarsh-naik-2004/bats-admin/internal/domain"
)

// CategoriesService manages the product taxonomy. The backend returns the
// full collection unpaginated, as the dashboard does.
type CategoriesService struct {
	c *Client
}

func (s *CategoriesService) List(ctx context.Context) ([]domain.Category, error) {
	var out []domain.Category
	err := s.c.doJSON(ctx, request{method: http.MethodGet, path: catalogService + "/categories"}, &out)
	return out, err
}

func (s *CategoriesService) Get(ctx context.Context, id string) (*domain.Category, error) {
	var cat domain.Category
	if err := s.c.doJSON(ctx, request{method: http.MethodGet, path: catalogService + "/categories/" + id}, &cat); err != nil {
		return nil, err
	}
	return &cat, nil
}

func (s *CategoriesService) Create(ctx context.Context, payload domain.Category) (*domain.Category, error) {
	req, err := jsonRequest(http.MethodPost, catalogService+"/categories", payload)
	if err != nil {
		return nil, err
	}
	var cat domain.Category
	if err := s.c.doJSON(ctx, req, &cat); err != nil {
		return nil, err
	}
	return &cat, nil
}

func (s *CategoriesService) Update(ctx context.Context, id string, payload domain.Category) (*domain.Category, error) {
	req, err := jsonRequest(http.MethodPatch, catalogService+"/categories/"+id, payload)
	if err != nil {
		return nil, err
	}
	var cat domain.Category
	if err := s.c.doJSON(ctx, req, &cat); err != nil {
		return nil, err
	}
	return &cat, nil
}

func (s *CategoriesService) Delete(ctx context.Context, id string) error {
	return s.c.doJSON(ctx, request{method: http.MethodDelete, path: catalogService + "/categories/" + id}, nil)
}
