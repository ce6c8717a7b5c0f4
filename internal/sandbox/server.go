// Package sandbox is an in-process fake of the backend gateway: auth, catalog
// and order services plus the realtime channel. The CLI runs it for local
// development and the test suite uses it as the counterparty for end-to-end
// client tests.
package sandbox

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/adarsh-naik-2004/bats-admin/internal/metrics"
)

type Server struct {
	echo   *echo.Echo
	addr   string
	db     *database
	tokens *tokenStore
	hub    *hub
	clock  clockwork.Clock
}

type Options struct {
	Addr       string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	Clock      clockwork.Clock
}

func NewServer(opts Options) *Server {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.AccessTTL == 0 {
		opts.AccessTTL = time.Minute
	}
	if opts.RefreshTTL == 0 {
		opts.RefreshTTL = 7 * 24 * time.Hour
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(metricsMiddleware)

	srv := &Server{
		echo:   e,
		addr:   opts.Addr,
		db:     newDatabase(opts.Clock),
		tokens: newTokenStore(opts.Clock, opts.AccessTTL, opts.RefreshTTL),
		hub:    newHub(),
		clock:  opts.Clock,
	}
	srv.registerRoutes()
	return srv
}

// Seed loads the demo data set (stores, users, catalog, a few orders).
func (s *Server) Seed() {
	s.db.seed()
}

func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	auth := s.echo.Group("/api/auth")
	auth.POST("/auth/login", s.handleLogin)
	auth.GET("/auth/self", s.handleSelf, s.requireAuth)
	auth.POST("/auth/refresh", s.handleRefresh)
	auth.POST("/auth/logout", s.handleLogout)

	auth.GET("/users", s.handleListUsers, s.requireAuth, s.requireAdmin)
	auth.POST("/users", s.handleCreateUser, s.requireAuth, s.requireAdmin)
	auth.PATCH("/users/:id", s.handleUpdateUser, s.requireAuth, s.requireAdmin)
	auth.DELETE("/users/:id", s.handleDeleteUser, s.requireAuth, s.requireAdmin)

	auth.GET("/stores", s.handleListStores, s.requireAuth)
	auth.POST("/stores", s.handleCreateStore, s.requireAuth, s.requireAdmin)
	auth.PATCH("/stores/:id", s.handleUpdateStore, s.requireAuth, s.requireAdmin)
	auth.DELETE("/stores/:id", s.handleDeleteStore, s.requireAuth, s.requireAdmin)

	catalog := s.echo.Group("/api/catalog", s.requireAuth)
	catalog.GET("/categories", s.handleListCategories)
	catalog.GET("/categories/:id", s.handleGetCategory)
	catalog.POST("/categories", s.handleCreateCategory)
	catalog.PATCH("/categories/:id", s.handleUpdateCategory)
	catalog.DELETE("/categories/:id", s.handleDeleteCategory)
	catalog.GET("/products", s.handleListProducts)
	catalog.POST("/products", s.handleCreateProduct)
	catalog.PUT("/products/:id", s.handleUpdateProduct)

	order := s.echo.Group("/api/order")
	order.GET("/ws", s.handleWebSocket)
	order.GET("/orders", s.handleListOrders, s.requireAuth)
	order.POST("/orders", s.handleCreateOrder, s.requireAuth)
	order.GET("/orders/:id", s.handleGetOrder, s.requireAuth)
	order.PATCH("/orders/:id", s.handleChangeOrderStatus, s.requireAuth)
	order.GET("/coupons", s.handleListCoupons, s.requireAuth)
	order.POST("/coupons", s.handleCreateCoupon, s.requireAuth)
	order.PATCH("/coupons/:id", s.handleUpdateCoupon, s.requireAuth)
	order.PATCH("/coupons/:id/deactivate", s.handleDeactivateCoupon, s.requireAuth)
	order.PATCH("/coupons/:id/reactivate", s.handleReactivateCoupon, s.requireAuth)
}

func (s *Server) Start() error {
	slog.Info("Sandbox gateway starting", "addr", s.addr)
	return s.echo.Start(s.addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.stop()
	return s.echo.Shutdown(ctx)
}

// Handler exposes the root handler so tests can mount the sandbox on an
// httptest.Server instead of binding a port.
func (s *Server) Handler() *echo.Echo {
	return s.echo
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(200, map[string]string{"status": "ok"})
}

func metricsMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)

		status := c.Response().Status
		if err != nil {
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			}
		}

		route := c.Path()
		metrics.HTTPRequestsTotal.WithLabelValues(c.Request().Method, route, strconv.Itoa(status)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(c.Request().Method, route).Observe(time.Since(start).Seconds())
		return err
	}
}
