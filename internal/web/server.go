// Package web wires the echo server: middleware, sessions, error rendering and routes.
package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/vladimiradmaev/sweet-friend/internal/logger"
	"github.com/vladimiradmaev/sweet-friend/internal/web/handlers"
)

// Options configure the HTTP server
type Options struct {
	Port          string
	SessionSecret string
	// MaxUploadSize caps request bodies; uploads carry some multipart overhead on top
	MaxUploadSize int64
	// SecureCookies marks the session cookies Secure, for HTTPS deployments
	SecureCookies bool
}

// Server holds the echo instance and its dependencies
type Server struct {
	E    *echo.Echo
	port string
}

// New creates a server with every route registered
func New(opts Options, deps handlers.Dependencies) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewValidator()
	e.HTTPErrorHandler = NewErrorHandler()

	e.Use(middleware.RequestID())
	e.Use(middleware.Recover())
	e.Use(requestLogger())
	if opts.MaxUploadSize > 0 {
		e.Use(middleware.BodyLimit(bodyLimit(opts.MaxUploadSize)))
	}

	store := sessions.NewCookieStore([]byte(opts.SessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   opts.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	}
	e.Use(session.Middleware(store))

	handlers.Register(e, deps)

	return &Server{E: e, port: opts.Port}
}

// bodyLimit formats the request size limit for middleware.BodyLimit,
// leaving a megabyte for the multipart envelope
func bodyLimit(maxUpload int64) string {
	return formatBytes(maxUpload + 1<<20)
}

// Start serves until the server is shut down
func (s *Server) Start() error {
	logger.Info("HTTP server listening", "port", s.port)
	if err := s.E.Start(":" + s.port); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for the running ones
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.E.Shutdown(ctx)
}
