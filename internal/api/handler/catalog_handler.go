package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dentalflow/lab-system/internal/core/ports"
)

// CatalogHandler serves the product and shade-color catalogs.
type CatalogHandler struct {
	service ports.CatalogService
}

func NewCatalogHandler(service ports.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

type createProductRequest struct {
	Name      string   `json:"name"     validate:"required"`
	Category  string   `json:"category" validate:"required"`
	Materials []string `json:"materials"`
}

type createColorRequest struct {
	Code  string `json:"code"  validate:"required"`
	Scale string `json:"scale"`
}

// ListProducts handles GET /v1/products.
//
// @Summary      List active catalog products
// @Tags         catalog
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Product
// @Router       /v1/products [get]
func (h *CatalogHandler) ListProducts(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	products, err := h.service.ListProducts(c.Request().Context(), caller)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, products)
}

// CreateProduct handles POST /v1/products.
//
// @Summary      Add a catalog product
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createProductRequest  true  "Product details"
// @Success      201   {object}  domain.Product
// @Failure      403   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/products [post]
func (h *CatalogHandler) CreateProduct(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	var req createProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	product, err := h.service.CreateProduct(c.Request().Context(), caller, req.Name, req.Category, req.Materials)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, product)
}

// ListColors handles GET /v1/colors.
//
// @Summary      List the shade-color catalog
// @Tags         catalog
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.ShadeColor
// @Router       /v1/colors [get]
func (h *CatalogHandler) ListColors(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	colors, err := h.service.ListColors(c.Request().Context(), caller)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, colors)
}

// CreateColor handles POST /v1/colors.
//
// @Summary      Add a shade color
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createColorRequest  true  "Shade details"
// @Success      201   {object}  domain.ShadeColor
// @Failure      403   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/colors [post]
func (h *CatalogHandler) CreateColor(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	var req createColorRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	color, err := h.service.CreateColor(c.Request().Context(), caller, req.Code, req.Scale)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, color)
}
