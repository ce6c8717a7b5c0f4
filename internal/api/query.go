package api

import (
	"net/url"
	"strconv"
)

// List is the paginated envelope the auth and order services wrap their
// collections in.
type List[T any] struct {
	Data  []T `json:"data"`
	Total int `json:"total"`
}

// PageQuery mirrors the dashboard's table pagination: users and stores
// paginate with perPage/currentPage, products and orders with limit/page.
// Zero values are omitted from the query string, matching the original
// client's filtered URLSearchParams.
type PageQuery struct {
	PerPage     int
	CurrentPage int
	Q           string
}

func (p PageQuery) apply(v url.Values) {
	setInt(v, "perPage", p.PerPage)
	setInt(v, "currentPage", p.CurrentPage)
	setStr(v, "q", p.Q)
}

func setStr(v url.Values, key, value string) {
	if value != "" {
		v.Set(key, value)
	}
}

func setInt(v url.Values, key string, value int) {
	if value > 0 {
		v.Set(key, strconv.Itoa(value))
	}
}

func setBool(v url.Values, key string, value *bool) {
	if value != nil {
		v.Set(key, strconv.FormatBool(*value))
	}
}
