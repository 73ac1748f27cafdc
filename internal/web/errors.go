package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	apperrors "github.com/vladimiradmaev/sweet-friend/internal/errors"
	"github.com/vladimiradmaev/sweet-friend/internal/logger"
	"github.com/vladimiradmaev/sweet-friend/internal/web/views"
)

// NewErrorHandler maps AppErrors onto responses: {error} JSON under /api, an error
// page elsewhere. Echo's own HTTPErrors keep their status.
func NewErrorHandler() echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, message := classify(err)
		apperrors.NewHandler(logger.WithContext(c.Request().Context())).Handle(c.Request().Context(), err)

		var respErr error
		switch {
		case c.Request().Method == http.MethodHead:
			respErr = c.NoContent(status)
		case strings.HasPrefix(c.Request().URL.Path, "/api/") || c.Request().URL.Path == "/api":
			respErr = c.JSON(status, map[string]string{"error": message})
		case c.Request().Header.Get("HX-Request") == "true":
			c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
			c.Response().WriteHeader(status)
			respErr = views.ErrorFragment(message).Render(c.Response())
		default:
			c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
			c.Response().WriteHeader(status)
			respErr = views.ErrorPage(status, message).Render(c.Response())
		}
		if respErr != nil {
			logger.Error("Failed to write error response", "error", respErr)
		}
	}
}

func classify(err error) (int, string) {
	if appErr, ok := apperrors.As(err); ok {
		return appErr.HTTPStatus(), appErr.PublicMessage()
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if msg, ok := he.Message.(string); ok {
			return he.Code, msg
		}
		return he.Code, http.StatusText(he.Code)
	}
	return http.StatusInternalServerError, "Internal server error"
}
