package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"catalogcart/internal/domain/model"
	"catalogcart/internal/middleware"
	"catalogcart/internal/pkg/logger"
	"catalogcart/internal/usecase"

	"github.com/labstack/echo/v4"
)

// UpdateQtyRequest is the body of PUT /admin/products/:id/qty.
type UpdateQtyRequest struct {
	Qty *int64 `json:"qty" validate:"required"`
}

// /products (public) and /admin/products
type ProductHandler struct {
	uc  *usecase.ProductUsecase
	log *logger.Logger
}

// DI
func NewProductHandler(uc *usecase.ProductUsecase, log *logger.Logger) *ProductHandler {
	if log == nil {
		log = logger.NewNop()
	}
	return &ProductHandler{uc: uc, log: log}
}

func (h *ProductHandler) RegisterRoutes(e *echo.Echo, jwtSecret string) {
	e.GET("/products", h.list)
	e.GET("/products/:id", h.detail)

	admin := e.Group("/admin")
	admin.Use(middleware.AuthJWT(jwtSecret))
	admin.Use(middleware.AdminRoleGuard())

	admin.POST("/products", h.create)
	admin.PUT("/products/:id/qty", h.updateQty)
	admin.GET("/products/:id/adjustments", h.adjustments)
}

func (h *ProductHandler) list(c echo.Context) error {
	products, err := h.uc.ListProducts(c.Request().Context())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) detail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	p, err := h.uc.GetProduct(c.Request().Context(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, p)
}

// the body is passed to the catalog as a raw record; numbers stay json.Number
func (h *ProductHandler) create(c echo.Context) error {
	var rec model.Record
	dec := json.NewDecoder(c.Request().Body)
	dec.UseNumber()
	if err := dec.Decode(&rec); err != nil || rec == nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.uc.AddProduct(c.Request().Context(), rec); err != nil {
		return writeError(c, h.log, err)
	}
	return c.NoContent(http.StatusCreated)
}

func (h *ProductHandler) updateQty(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req UpdateQtyRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return writeError(c, h.log, err)
	}

	if err := h.uc.UpdateQty(c.Request().Context(), id, *req.Qty); err != nil {
		return writeError(c, h.log, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *ProductHandler) adjustments(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	adjs, err := h.uc.ListAdjustments(c.Request().Context(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, adjs)
}
