package sandbox

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/adarsh-naik-2004/bats-admin/internal/domain"
)

func (s *Server) handleListOrders(c echo.Context) error {
	storeID := c.QueryParam("storeId")
	if user := currentUser(c); user.Role == domain.RoleManager && user.Store != nil {
		// Managers only ever see their own store.
		storeID = user.Store.ID
	}

	orders, total := s.db.listOrders(storeID, intQuery(c, "limit", 0), intQuery(c, "page", 1))
	return c.JSON(http.StatusOK, listEnvelope[domain.Order]{Data: orders, Total: total})
}

func (s *Server) handleGetOrder(c echo.Context) error {
	order, ok := s.db.orderByID(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "order not found")
	}
	return c.JSON(http.StatusOK, order)
}

func (s *Server) handleCreateOrder(c echo.Context) error {
	var payload domain.Order
	if err := c.Bind(&payload); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed body")
	}
	if payload.StoreID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "storeId is required")
	}
	if len(payload.Cart) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "cart is empty")
	}
	payload.ID = ""

	order := s.db.insertOrder(payload)
	s.hub.broadcastOrder(*order)
	return c.JSON(http.StatusCreated, order)
}

func (s *Server) handleChangeOrderStatus(c echo.Context) error {
	var payload struct {
		Status domain.OrderStatus `json:"status"`
	}
	if err := c.Bind(&payload); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed body")
	}
	if !domain.ValidOrderStatus(payload.Status) {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown order status")
	}

	order, ok := s.db.setOrderStatus(c.Param("id"), payload.Status)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "order not found")
	}
	s.hub.broadcastOrder(*order)
	return c.JSON(http.StatusOK, order)
}

func (s *Server) handleListCoupons(c echo.Context) error {
	var isActive *bool
	if raw := c.QueryParam("isActive"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "isActive must be a boolean")
		}
		isActive = &v
	}

	storeID := c.QueryParam("storeId")
	if user := currentUser(c); user.Role == domain.RoleManager && user.Store != nil {
		storeID = user.Store.ID
	}
	return c.JSON(http.StatusOK, s.db.listCoupons(storeID, isActive))
}

func (s *Server) handleCreateCoupon(c echo.Context) error {
	var payload domain.CreateCoupon
	if err := c.Bind(&payload); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed body")
	}
	if payload.Code == "" || payload.StoreID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "code and storeId are required")
	}
	coupon := s.db.insertCoupon(domain.Coupon{
		Title:     payload.Title,
		Code:      payload.Code,
		Discount:  payload.Discount,
		ValidUpto: payload.ValidUpto,
		StoreID:   payload.StoreID,
		IsActive:  true,
	})
	return c.JSON(http.StatusCreated, coupon)
}

func (s *Server) handleUpdateCoupon(c echo.Context) error {
	var payload domain.CreateCoupon
	if err := c.Bind(&payload); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed body")
	}
	coupon, ok := s.db.updateCoupon(c.Param("id"), payload)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "coupon not found")
	}
	return c.JSON(http.StatusOK, coupon)
}

func (s *Server) handleDeactivateCoupon(c echo.Context) error {
	return s.toggleCoupon(c, false)
}

func (s *Server) handleReactivateCoupon(c echo.Context) error {
	return s.toggleCoupon(c, true)
}

func (s *Server) toggleCoupon(c echo.Context, active bool) error {
	if !s.db.setCouponActive(c.Param("id"), active) {
		return echo.NewHTTPError(http.StatusNotFound, "coupon not found")
	}
	return c.JSON(http.StatusOK, map[string]bool{"isActive": active})
}
