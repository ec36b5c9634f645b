package handler

import (
	"net/http"
	"strconv"

	"catalogcart/internal/middleware"
	"catalogcart/internal/pkg/logger"
	"catalogcart/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /cart, scoped to the token's subject
type CartHandler struct {
	uc  *usecase.CartUsecase
	log *logger.Logger
}

// DI
func NewCartHandler(uc *usecase.CartUsecase, log *logger.Logger) *CartHandler {
	if log == nil {
		log = logger.NewNop()
	}
	return &CartHandler{uc: uc, log: log}
}

type AddCartRequest struct {
	ProductID int64 `json:"product_id" validate:"required"`
}

func (h *CartHandler) RegisterRoutes(e *echo.Echo, jwtSecret string) {
	g := e.Group("/cart")
	g.Use(middleware.AuthJWT(jwtSecret))

	g.GET("", h.getCart)
	g.GET("/records", h.listCarts)
	g.POST("", h.addToCart)
	g.DELETE("/items/:product_id", h.removeItem)
	g.DELETE("", h.deleteCart)
}

func (h *CartHandler) getCart(c echo.Context) error {
	username, ok := middleware.UsernameFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	products, err := h.uc.GetCart(c.Request().Context(), username)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, products)
}

func (h *CartHandler) listCarts(c echo.Context) error {
	username, ok := middleware.UsernameFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	carts, err := h.uc.ListCarts(c.Request().Context(), username)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, carts)
}

func (h *CartHandler) addToCart(c echo.Context) error {
	username, ok := middleware.UsernameFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req AddCartRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return writeError(c, h.log, err)
	}

	if err := h.uc.AddToCart(c.Request().Context(), username, req.ProductID); err != nil {
		return writeError(c, h.log, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CartHandler) removeItem(c echo.Context) error {
	username, ok := middleware.UsernameFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	productID, err := strconv.ParseInt(c.Param("product_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid product_id"})
	}

	if err := h.uc.RemoveFromCart(c.Request().Context(), username, productID); err != nil {
		return writeError(c, h.log, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CartHandler) deleteCart(c echo.Context) error {
	username, ok := middleware.UsernameFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	if err := h.uc.DeleteCart(c.Request().Context(), username); err != nil {
		return writeError(c, h.log, err)
	}
	return c.NoContent(http.StatusNoContent)
}
