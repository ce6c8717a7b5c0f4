package api

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/adarsh-naik-2004/bats-admin/internal/domain"
)

// OrdersService reads orders and moves them through the status pipeline.
type OrdersService struct {
	c *Client
}

type OrderFilter struct {
	StoreID string
	Page    int
	Limit   int
}

func (s *OrdersService) List(ctx context.Context, filter OrderFilter) (List[domain.Order], error) {
	q := url.Values{}
	setStr(q, "storeId", filter.StoreID)
	setInt(q, "page", filter.Page)
	setInt(q, "limit", filter.Limit)

	var out List[domain.Order]
	err := s.c.doJSON(ctx, request{method: http.MethodGet, path: orderService + "/orders", query: q}, &out)
	return out, err
}

// Get fetches one order. fields narrows the projection the backend returns;
// empty means everything.
func (s *OrdersService) Get(ctx context.Context, id string, fields []string) (*domain.Order, error) {
	q := url.Values{}
	if len(fields) > 0 {
		q.Set("fields", strings.Join(fields, ","))
	}

	var order domain.Order
	if err := s.c.doJSON(ctx, request{method: http.MethodGet, path: orderService + "/orders/" + id, query: q}, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *OrdersService) ChangeStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	payload := struct {
		Status domain.OrderStatus `json:"status"`
	}{Status: status}

	req, err := jsonRequest(http.MethodPatch, orderService+"/orders/"+id, payload)
	if err != nil {
		return nil, err
	}
	var order domain.Order
	if err := s.c.doJSON(ctx, req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}
