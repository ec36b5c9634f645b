package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"catalogcart/internal/handler"
	"catalogcart/internal/middleware"
	"catalogcart/internal/pkg/logger"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

const shutdownTimeout = 10 * time.Second

// New builds the echo instance with middleware and all routes registered.
func New(log *logger.Logger, jwtSecret string, productH *handler.ProductHandler, cartH *handler.CartHandler) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.RequestValidator{}

	e.Use(echomw.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLogger(log))

	productH.RegisterRoutes(e, jwtSecret)
	cartH.RegisterRoutes(e, jwtSecret)

	return e
}

// Start serves on addr until ctx is cancelled, then shuts down gracefully.
func Start(ctx context.Context, e *echo.Echo, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
