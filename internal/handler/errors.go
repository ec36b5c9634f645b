package handler

import (
	"errors"
	"net/http"

	"catalogcart/internal/domain/model"
	"catalogcart/internal/pkg/logger"
	repo "catalogcart/internal/repository"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// writeError maps domain errors to 400/404/409; everything else is logged and is a 500.
func writeError(c echo.Context, log *logger.Logger, err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, model.ErrValidation), errors.Is(err, model.ErrMissingField):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, model.ErrNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, repo.ErrNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
	case errors.Is(err, repo.ErrDuplicate):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: "already exists"})
	}

	log.Error("request failed",
		"method", c.Request().Method,
		"uri", c.Request().RequestURI,
		"error", err,
	)
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

// RequestValidator plugs the model's struct validation into echo's c.Validate.
type RequestValidator struct{}

func (RequestValidator) Validate(i interface{}) error {
	return model.ValidateStruct(i)
}
