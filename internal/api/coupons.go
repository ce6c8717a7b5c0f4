package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/adarsh-naik-2004/bats-admin/internal/domain"
)

// CouponsService manages promo codes. Coupons are soft-deleted: deactivate
// and reactivate flip isActive instead of removing the record.
type CouponsService struct {
	c *Client
}

type CouponFilter struct {
	StoreID  string
	IsActive *bool
}

func (s *CouponsService) List(ctx context.Context, filter CouponFilter) ([]domain.Coupon, error) {
	q := url.Values{}
	setStr(q, "storeId", filter.StoreID)
	setBool(q, "isActive", filter.IsActive)

	var out []domain.Coupon
	err := s.c.doJSON(ctx, request{method: http.MethodGet, path: orderService + "/coupons", query: q}, &out)
	return out, err
}

func (s *CouponsService) Create(ctx context.Context, payload domain.CreateCoupon) (*domain.Coupon, error) {
	req, err := jsonRequest(http.MethodPost, orderService+"/coupons", payload)
	if err != nil {
		return nil, err
	}
	var coupon domain.Coupon
	if err := s.c.doJSON(ctx, req, &coupon); err != nil {
		return nil, err
	}
	return &coupon, nil
}

func (s *CouponsService) Update(ctx context.Context, id string, payload domain.CreateCoupon) (*domain.Coupon, error) {
	req, err := jsonRequest(http.MethodPatch, orderService+"/coupons/"+id, payload)
	if err != nil {
		return nil, err
	}
	var coupon domain.Coupon
	if err := s.c.doJSON(ctx, req, &coupon); err != nil {
		return nil, err
	}
	return &coupon, nil
}

func (s *CouponsService) Deactivate(ctx context.Context, id string) error {
	return s.c.doJSON(ctx, request{method: http.MethodPatch, path: orderService + "/coupons/" + id + "/deactivate"}, nil)
}

func (s *CouponsService) Reactivate(ctx context.Context, id string) error {
	return s.c.doJSON(ctx, request{method: http.MethodPatch, path: orderService + "/coupons/" + id + "/reactivate"}, nil)
}
