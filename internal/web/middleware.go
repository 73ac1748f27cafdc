package web

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/vladimiradmaev/sweet-friend/internal/logger"
)

// requestLogger logs one line per request into the application logger and puts a
// request-scoped logger on the context
func requestLogger() echo.MiddlewareFunc {
	logValues := middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			level := slog.LevelInfo
			if v.Status >= 500 {
				level = slog.LevelError
			}
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
			}
			logger.WithContext(c.Request().Context()).LogAttrs(context.Background(), level, "request", attrs...)
			return nil
		},
	})

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return logValues(func(c echo.Context) error {
			id := c.Response().Header().Get(echo.HeaderXRequestID)
			ctx := logger.IntoContext(c.Request().Context(), "request_id", id)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		})
	}
}

func formatBytes(n int64) string {
	if n%(1<<20) == 0 {
		return fmt.Sprintf("%dM", n>>20)
	}
	if n%(1<<10) == 0 {
		return fmt.Sprintf("%dK", n>>10)
	}
	return fmt.Sprintf("%dB", n)
}
