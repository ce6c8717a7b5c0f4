package sandbox

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/adarsh-naik-2004/bats-admin/internal/domain"
)

func (s *Server) handleListCategories(c echo.Context) error {
	return c.JSON(http.StatusOK, s.db.listCategories())
}

func (s *Server) handleGetCategory(c echo.Context) error {
	cat, ok := s.db.categoryByID(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "category not found")
	}
	return c.JSON(http.StatusOK, cat)
}

func (s *Server) handleCreateCategory(c echo.Context) error {
	var payload domain.Category
	if err := c.Bind(&payload); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed body")
	}
	if payload.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}
	payload.ID = ""
	return c.JSON(http.StatusCreated, s.db.insertCategory(payload))
}

func (s *Server) handleUpdateCategory(c echo.Context) error {
	var payload domain.Category
	if err := c.Bind(&payload); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed body")
	}
	cat, ok := s.db.updateCategory(c.Param("id"), payload)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "category not found")
	}
	return c.JSON(http.StatusOK, cat)
}

func (s *Server) handleDeleteCategory(c echo.Context) error {
	if !s.db.deleteCategory(c.Param("id")) {
		return echo.NewHTTPError(http.StatusNotFound, "category not found")
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleListProducts(c echo.Context) error {
	pq := productQuery{
		q:          c.QueryParam("q"),
		categoryID: c.QueryParam("categoryId"),
		storeID:    c.QueryParam("storeId"),
		page:       intQuery(c, "page", 1),
		limit:      intQuery(c, "limit", 0),
	}
	if raw := c.QueryParam("isPublish"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "isPublish must be a boolean")
		}
		pq.isPublish = &v
	}

	products, total := s.db.listProducts(pq)
	return c.JSON(http.StatusOK, listEnvelope[domain.Product]{Data: products, Total: total})
}

func (s *Server) handleCreateProduct(c echo.Context) error {
	product, err := s.bindProductForm(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, s.db.insertProduct(*product))
}

func (s *Server) handleUpdateProduct(c echo.Context) error {
	product, err := s.bindProductForm(c)
	if err != nil {
		return err
	}
	updated, ok := s.db.updateProduct(c.Param("id"), *product)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "product not found")
	}
	return c.JSON(http.StatusOK, updated)
}

// bindProductForm decodes the multipart product contract: plain form fields
// plus JSON-encoded priceConfiguration and attributes, plus an optional
// image file part. The sandbox stores only the image's filename.
func (s *Server) bindProductForm(c echo.Context) (*domain.Product, error) {
	name := c.FormValue("name")
	if name == "" {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}

	product := domain.Product{
		Name:        name,
		Description: c.FormValue("description"),
		CategoryID:  c.FormValue("categoryId"),
		StoreID:     c.FormValue("storeId"),
	}
	if raw := c.FormValue("isPublish"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, echo.NewHTTPError(http.StatusBadRequest, "isPublish must be a boolean")
		}
		product.IsPublish = v
	}

	if raw := c.FormValue("priceConfiguration"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &product.PriceConfiguration); err != nil {
			return nil, echo.NewHTTPError(http.StatusBadRequest, "priceConfiguration is not valid JSON")
		}
	}
	if raw := c.FormValue("attributes"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &product.Attributes); err != nil {
			return nil, echo.NewHTTPError(http.StatusBadRequest, "attributes is not valid JSON")
		}
	}

	if file, err := c.FormFile("image"); err == nil {
		product.Image = file.Filename
	}
	return &product, nil
}
