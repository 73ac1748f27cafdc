package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	apperrors "github.com/vladimiradmaev/sweet-friend/internal/errors"
	"github.com/vladimiradmaev/sweet-friend/internal/interfaces"
	"github.com/vladimiradmaev/sweet-friend/internal/logger"
	"github.com/vladimiradmaev/sweet-friend/internal/web/views"
)

// AuthHandler handles login, registration and logout
type AuthHandler struct {
	users interfaces.UserServiceInterface
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(users interfaces.UserServiceInterface) *AuthHandler {
	return &AuthHandler{users: users}
}

// LoginPage renders the login form (GET /)
func (h *AuthHandler) LoginPage(c echo.Context) error {
	if _, ok := sessionUserID(c); ok {
		return c.Redirect(http.StatusSeeOther, "/app/dashboard")
	}
	username := takeFlashValue(c, flashKeyUsername)
	return render(c, http.StatusOK, views.LoginPage(GetFlashes(c), username))
}

// RegisterPage renders the registration form (GET /register)
func (h *AuthHandler) RegisterPage(c echo.Context) error {
	username := takeFlashValue(c, flashKeyUsername)
	return render(c, http.StatusOK, views.RegisterPage(GetFlashes(c), username))
}

// Login checks the credentials and starts a session (POST /api/user_login)
func (h *AuthHandler) Login(c echo.Context) error {
	username := strings.TrimSpace(c.FormValue("username"))
	password := c.FormValue("password")

	user, err := h.users.Authenticate(c.Request().Context(), username, password)
	if err != nil {
		setFlash(c, flashKeyUsername, username)
		SetFlashError(c, publicMessage(err, "Could not log you in."))
		return c.Redirect(http.StatusSeeOther, "/")
	}
	if err := logIn(c, user.ID); err != nil {
		return err
	}
	logger.Info("User logged in", "user_id", user.ID)
	return c.Redirect(http.StatusSeeOther, "/app/dashboard")
}

// Register creates the account and logs it in (POST /api/user_register)
func (h *AuthHandler) Register(c echo.Context) error {
	username := strings.TrimSpace(c.FormValue("username"))
	password := c.FormValue("password")

	fail := func(msg string) error {
		setFlash(c, flashKeyUsername, username)
		SetFlashError(c, msg)
		return c.Redirect(http.StatusSeeOther, "/register")
	}

	if confirm := c.FormValue("password_confirm"); confirm != "" && confirm != password {
		return fail("Passwords do not match.")
	}

	user, err := h.users.Register(c.Request().Context(), username, password)
	if err != nil {
		if !apperrors.IsType(err, apperrors.ErrorTypeValidation) {
			logger.Error("Error creating user", "error", err)
		}
		return fail(publicMessage(err, "Could not create your account."))
	}
	if err := logIn(c, user.ID); err != nil {
		return err
	}
	SetFlashSuccess(c, "Account created successfully!")
	return c.Redirect(http.StatusSeeOther, "/app/dashboard")
}

// Logout clears the session (GET /logout)
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := logOut(c); err != nil {
		return err
	}
	SetFlashSuccess(c, "You have been logged out.")
	return c.Redirect(http.StatusSeeOther, "/")
}

// publicMessage returns the client-safe text of an AppError, or fallback
func publicMessage(err error, fallback string) string {
	if appErr, ok := apperrors.As(err); ok {
		if msg := appErr.PublicMessage(); msg != "" && msg != "Internal server error" {
			return msg
		}
	}
	return fallback
}
