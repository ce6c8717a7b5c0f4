package domain

import "time"

// Coupon is a store-scoped percentage discount code.
type Coupon struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Code      string    `json:"code"`
	Discount  int       `json:"discount"`
	ValidUpto time.Time `json:"validUpto"`
	StoreID   string    `json:"storeId"`
	IsActive  bool      `json:"isActive"`
}

// CreateCoupon is the payload for creating or updating a coupon.
type CreateCoupon struct {
	Title     string    `json:"title"`
	Code      string    `json:"code"`
	Discount  int       `json:"discount"`
	ValidUpto time.Time `json:"validUpto"`
	StoreID   string    `json:"storeId"`
}
