// Package httpapi exposes the account engine over REST with echo.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/accountkeeper/internal/logging"
	"github.com/dmitrijs2005/accountkeeper/internal/server/services"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const shutdownTimeout = 5 * time.Second

type HTTPServer struct {
	address  string
	accounts services.AccountAPI
	logger   logging.Logger
	echo     *echo.Echo
}

func NewHTTPServer(a string, l logging.Logger, accounts services.AccountAPI) *HTTPServer {
	s := &HTTPServer{
		address:  a,
		accounts: accounts,
		logger:   l.With("module", "http_server"),
	}
	s.echo = s.newEcho()
	return s
}

func (s *HTTPServer) newEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURIPath: true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			s.logger.Info(c.Request().Context(), "http",
				"method", v.Method, "path", v.URIPath, "status", v.Status, "duration", v.Latency)
			return nil
		},
	}))

	e.GET("/healthz", s.health)

	users := e.Group("/users")
	users.POST("/signup", s.signup)
	users.POST("/login", s.login)
	users.GET("/verify", s.verify)
	users.POST("/resend-verification", s.resendVerification)
	users.GET("/validate/:userId", s.validate)

	return e
}

// Handler returns the routed handler, for tests and embedding.
func (s *HTTPServer) Handler() http.Handler {
	return s.echo
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.echo.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP shutdown", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := s.echo.Start(s.address); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
