package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/vladimiradmaev/sweet-friend/internal/domain"
	"github.com/vladimiradmaev/sweet-friend/internal/interfaces"
	"github.com/vladimiradmaev/sweet-friend/internal/logger"
)

// UserContextKey is where the authenticated user is stored on the echo context
const UserContextKey = "user"

// RequireUserAPI rejects requests without a session user with 401 {error}
func RequireUserAPI(users interfaces.UserServiceInterface) echo.MiddlewareFunc {
	return requireUser(users, func(c echo.Context) error {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Authentication required"})
	})
}

// RequireUserPage sends visitors without a session user to the login page
func RequireUserPage(users interfaces.UserServiceInterface) echo.MiddlewareFunc {
	return requireUser(users, func(c echo.Context) error {
		if isHTMX(c) {
			c.Response().Header().Set("HX-Redirect", "/")
			return c.NoContent(http.StatusUnauthorized)
		}
		return c.Redirect(http.StatusSeeOther, "/")
	})
}

func requireUser(users interfaces.UserServiceInterface, deny echo.HandlerFunc) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := sessionUserID(c)
			if !ok {
				return deny(c)
			}
			user, err := users.GetByID(c.Request().Context(), id)
			if err != nil {
				// the account is gone or the cookie is stale
				_ = logOut(c)
				return deny(c)
			}

			c.Set(UserContextKey, user)
			ctx := logger.IntoContext(c.Request().Context(), "user_id", user.ID)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// currentUser returns the user set by the Require middlewares
func currentUser(c echo.Context) *domain.User {
	u, _ := c.Get(UserContextKey).(*domain.User)
	return u
}
