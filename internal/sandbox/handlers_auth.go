package sandbox

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/adarsh-naik-2004/bats-admin/internal/domain"
	"github.com/adarsh-naik-2004/bats-admin/internal/metrics"
)

const userContextKey = "sandbox.user"

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(c echo.Context) error {
	var creds credentials
	if err := c.Bind(&creds); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed body")
	}
	if creds.Email == "" || creds.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email and password are required")
	}

	user, ok := s.db.userByEmail(creds.Email)
	if !ok || user.Password != creds.Password {
		metrics.LoginsTotal.WithLabelValues("invalid").Inc()
		return echo.NewHTTPError(http.StatusUnauthorized, "email or password is wrong")
	}

	access, refresh := s.tokens.issue(user.ID)
	s.setSessionCookies(c, access, refresh)
	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, map[string]string{"id": user.ID})
}

func (s *Server) handleSelf(c echo.Context) error {
	return c.JSON(http.StatusOK, currentUser(c))
}

func (s *Server) handleRefresh(c echo.Context) error {
	cookie, err := c.Cookie(refreshCookie)
	if err != nil || cookie.Value == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "no refresh token")
	}

	access, refresh, ok := s.tokens.rotate(cookie.Value)
	if !ok {
		metrics.TokenRefreshesTotal.WithLabelValues("rejected").Inc()
		return echo.NewHTTPError(http.StatusUnauthorized, "refresh token is invalid")
	}

	s.setSessionCookies(c, access, refresh)
	metrics.TokenRefreshesTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, map[string]string{"status": "refreshed"})
}

func (s *Server) handleLogout(c echo.Context) error {
	var access, refresh string
	if cookie, err := c.Cookie(accessCookie); err == nil {
		access = cookie.Value
	}
	if cookie, err := c.Cookie(refreshCookie); err == nil {
		refresh = cookie.Value
	}
	s.tokens.revoke(access, refresh)
	s.clearSessionCookies(c)
	return c.JSON(http.StatusOK, map[string]string{"status": "logged out"})
}

func (s *Server) setSessionCookies(c echo.Context, access, refresh string) {
	c.SetCookie(&http.Cookie{Name: accessCookie, Value: access, Path: "/", HttpOnly: true, Expires: s.clock.Now().Add(s.tokens.accessTTL)})
	c.SetCookie(&http.Cookie{Name: refreshCookie, Value: refresh, Path: "/", HttpOnly: true, Expires: s.clock.Now().Add(s.tokens.refreshTTL)})
}

func (s *Server) clearSessionCookies(c echo.Context) {
	expired := s.clock.Now().Add(-time.Hour)
	c.SetCookie(&http.Cookie{Name: accessCookie, Value: "", Path: "/", HttpOnly: true, MaxAge: -1, Expires: expired})
	c.SetCookie(&http.Cookie{Name: refreshCookie, Value: "", Path: "/", HttpOnly: true, MaxAge: -1, Expires: expired})
}

// requireAuth resolves the access cookie to a user and stashes it on the
// context. Expired or missing tokens get a 401, which is exactly what the
// client's re-authentication coordinator feeds on.
func (s *Server) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, err := s.authenticate(c)
		if err != nil {
			return err
		}
		c.Set(userContextKey, user)
		return next(c)
	}
}

func (s *Server) authenticate(c echo.Context) (*domain.User, error) {
	cookie, err := c.Cookie(accessCookie)
	if err != nil || cookie.Value == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	}
	userID, ok := s.tokens.lookupAccess(cookie.Value)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "token expired")
	}
	user, ok := s.db.userByID(userID)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "unknown user")
	}
	return user, nil
}

func (s *Server) requireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if currentUser(c).Role != domain.RoleAdmin {
			return echo.NewHTTPError(http.StatusForbidden, "admin only")
		}
		return next(c)
	}
}

func currentUser(c echo.Context) *domain.User {
	user, _ := c.Get(userContextKey).(*domain.User)
	return user
}

func (s *Server) handleListUsers(c echo.Context) error {
	perPage := intQuery(c, "perPage", 0)
	currentPage := intQuery(c, "currentPage", 1)
	role := domain.Role(c.QueryParam("role"))

	users, total := s.db.listUsers(role, c.QueryParam("q"), perPage, currentPage)
	return c.JSON(http.StatusOK, listEnvelope[domain.User]{Data: users, Total: total})
}

func (s *Server) handleCreateUser(c echo.Context) error {
	var payload domain.CreateUser
	if err := c.Bind(&payload); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed body")
	}
	if payload.Email == "" || payload.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email and password are required")
	}
	if _, exists := s.db.userByEmail(payload.Email); exists {
		return echo.NewHTTPError(http.StatusBadRequest, "email is already taken")
	}

	store, err := s.resolveStore(payload)
	if err != nil {
		return err
	}
	user := s.db.insertUser(domain.User{
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		Email:     payload.Email,
		Role:      payload.Role,
		Store:     store,
	}, payload.Password)
	return c.JSON(http.StatusCreated, user)
}

func (s *Server) handleUpdateUser(c echo.Context) error {
	var payload domain.CreateUser
	if err := c.Bind(&payload); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed body")
	}
	store, err := s.resolveStore(payload)
	if err != nil {
		return err
	}
	user, ok := s.db.updateUser(c.Param("id"), payload, store)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "user not found")
	}
	return c.JSON(http.StatusOK, user)
}

func (s *Server) handleDeleteUser(c echo.Context) error {
	if !s.db.deleteUser(c.Param("id")) {
		return echo.NewHTTPError(http.StatusNotFound, "user not found")
	}
	return c.NoContent(http.StatusNoContent)
}

// resolveStore maps a payload's storeId to a store, enforcing that managers
// always carry one.
func (s *Server) resolveStore(payload domain.CreateUser) (*domain.Store, error) {
	if payload.StoreID == "" {
		if payload.Role == domain.RoleManager {
			return nil, echo.NewHTTPError(http.StatusBadRequest, "managers need a store")
		}
		return nil, nil
	}
	store, ok := s.db.storeByID(payload.StoreID)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "store not found")
	}
	return store, nil
}

func (s *Server) handleListStores(c echo.Context) error {
	perPage := intQuery(c, "perPage", 0)
	currentPage := intQuery(c, "currentPage", 1)

	stores, total := s.db.listStores(c.QueryParam("q"), perPage, currentPage)
	return c.JSON(http.StatusOK, listEnvelope[domain.Store]{Data: stores, Total: total})
}

func (s *Server) handleCreateStore(c echo.Context) error {
	var payload domain.CreateStore
	if err := c.Bind(&payload); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed body")
	}
	if payload.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}
	return c.JSON(http.StatusCreated, s.db.insertStore(domain.Store{Name: payload.Name, Address: payload.Address}))
}

func (s *Server) handleUpdateStore(c echo.Context) error {
	var payload domain.CreateStore
	if err := c.Bind(&payload); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed body")
	}
	store, ok := s.db.updateStore(c.Param("id"), payload)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "store not found")
	}
	return c.JSON(http.StatusOK, store)
}

func (s *Server) handleDeleteStore(c echo.Context) error {
	if !s.db.deleteStore(c.Param("id")) {
		return echo.NewHTTPError(http.StatusNotFound, "store not found")
	}
	return c.NoContent(http.StatusNoContent)
}

type listEnvelope[T any] struct {
	Data  []T `json:"data"`
	Total int `json:"total"`
}

func intQuery(c echo.Context, name string, fallback int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
