package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"github.com/adarsh-naik-2004/bats-admin/internal/domain"
)

// ProductsService manages products. Create and update are multipart because
// the image travels alongside the product fields; priceConfiguration and
// attributes are JSON-encoded form values, matching the backend's contract.
type ProductsService struct {
	c *Client
}

type ProductFilter struct {
	Q          string
	CategoryID string
	StoreID    string
	IsPublish  *bool
	Page       int
	Limit      int
}

func (f ProductFilter) apply(v url.Values) {
	setStr(v, "q", f.Q)
	setStr(v, "categoryId", f.CategoryID)
	setStr(v, "storeId", f.StoreID)
	setBool(v, "isPublish", f.IsPublish)
	setInt(v, "page", f.Page)
	setInt(v, "limit", f.Limit)
}

func (s *ProductsService) List(ctx context.Context, filter ProductFilter) (List[domain.Product], error) {
	q := url.Values{}
	filter.apply(q)

	var out List[domain.Product]
	err := s.c.doJSON(ctx, request{method: http.MethodGet, path: catalogService + "/products", query: q}, &out)
	return out, err
}

func (s *ProductsService) Create(ctx context.Context, payload domain.CreateProduct) (*domain.Product, error) {
	req, err := multipartRequest(http.MethodPost, catalogService+"/products", payload)
	if err != nil {
		return nil, err
	}
	var product domain.Product
	if err := s.c.doJSON(ctx, req, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *ProductsService) Update(ctx context.Context, id string, payload domain.CreateProduct) (*domain.Product, error) {
	req, err := multipartRequest(http.MethodPut, catalogService+"/products/"+id, payload)
	if err != nil {
		return nil, err
	}
	var product domain.Product
	if err := s.c.doJSON(ctx, req, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func multipartRequest(method, path string, p domain.CreateProduct) (request, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := map[string]string{
		"name":        p.Name,
		"description": p.Description,
		"categoryId":  p.CategoryID,
		"storeId":     p.StoreID,
		"isPublish":   strconv.FormatBool(p.IsPublish),
	}
	for key, value := range fields {
		if err := w.WriteField(key, value); err != nil {
			return request{}, fmt.Errorf("failed to write field %s: %w", key, err)
		}
	}

	for key, value := range map[string]any{
		"priceConfiguration": p.PriceConfiguration,
		"attributes":         p.Attributes,
	} {
		encoded, err := json.Marshal(value)
		if err != nil {
			return request{}, fmt.Errorf("failed to encode %s: %w", key, err)
		}
		if err := w.WriteField(key, string(encoded)); err != nil {
			return request{}, fmt.Errorf("failed to write field %s: %w", key, err)
		}
	}

	if len(p.Image) > 0 {
		part, err := w.CreateFormFile("image", p.ImageName)
		if err != nil {
			return request{}, fmt.Errorf("failed to create image part: %w", err)
		}
		if _, err := part.Write(p.Image); err != nil {
			return request{}, fmt.Errorf("failed to write image: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return request{}, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	return request{method: method, path: path, body: buf.Bytes(), contentType: w.FormDataContentType()}, nil
}
