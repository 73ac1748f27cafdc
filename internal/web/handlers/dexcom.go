package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	apperrors "github.com/vladimiradmaev/sweet-friend/internal/errors"
	"github.com/vladimiradmaev/sweet-friend/internal/logger"
	"github.com/vladimiradmaev/sweet-friend/internal/state"
)

// dexcomStateTTL bounds how long the OAuth round trip may take
const dexcomStateTTL = 10 * time.Minute

// DexcomHandler runs the Dexcom OAuth flow and manual syncs
type DexcomHandler struct {
	deps Dependencies
}

// NewDexcomHandler creates a new Dexcom handler
func NewDexcomHandler(deps Dependencies) *DexcomHandler {
	return &DexcomHandler{deps: deps}
}

// Login redirects to the Dexcom consent page (GET /api/dexcom_login)
func (h *DexcomHandler) Login(c echo.Context) error {
	if h.deps.Dexcom == nil {
		return apperrors.NewNotFoundError("Dexcom integration")
	}
	uid := currentUser(c).ID
	nonce := uuid.NewString()
	if err := h.deps.State.SetTempData(c.Request().Context(), uid, state.KeyDexcomState, nonce, dexcomStateTTL); err != nil {
		return apperrors.NewInternalError(err)
	}
	return c.Redirect(http.StatusFound, h.deps.Dexcom.AuthURL(nonce))
}

// Callback finishes the OAuth flow, imports the last day and returns to the dashboard
// (GET /api/dexcom_callback)
func (h *DexcomHandler) Callback(c echo.Context) error {
	if h.deps.Dexcom == nil {
		return apperrors.NewNotFoundError("Dexcom integration")
	}
	ctx := c.Request().Context()
	uid := currentUser(c).ID
	log := logger.WithContext(ctx)

	done := func(flash func(echo.Context, string), msg string) error {
		flash(c, msg)
		return c.Redirect(http.StatusSeeOther, "/app/dashboard")
	}

	if reason := c.QueryParam("error"); reason != "" {
		log.Warn("Dexcom authorization denied", "reason", reason)
		return done(SetFlashError, "Dexcom authorization was cancelled.")
	}

	expected, found, err := h.deps.State.GetTempData(ctx, uid, state.KeyDexcomState)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if !found || expected != c.QueryParam("state") {
		return done(SetFlashError, "The Dexcom login expired. Please try again.")
	}
	_ = h.deps.State.ClearTempData(ctx, uid, state.KeyDexcomState)

	if err := h.deps.Dexcom.Exchange(ctx, uid, c.QueryParam("code")); err != nil {
		log.Error("Dexcom token exchange failed", "error", err)
		return done(SetFlashError, publicMessage(err, "Could not connect your Dexcom account."))
	}

	n, err := h.deps.Dexcom.Sync(ctx, uid, glucoseWindow)
	if err != nil {
		log.Error("Dexcom sync failed", "error", err)
		return done(SetFlashError, "Dexcom connected, but the readings could not be imported yet.")
	}
	return done(SetFlashSuccess, fmt.Sprintf("Dexcom connected. Imported %d readings.", n))
}

// Sync pulls the latest readings for a linked account (POST /app/dexcom/sync)
func (h *DexcomHandler) Sync(c echo.Context) error {
	if h.deps.Dexcom == nil {
		return apperrors.NewNotFoundError("Dexcom integration")
	}
	n, err := h.deps.Dexcom.Sync(c.Request().Context(), currentUser(c).ID, glucoseWindow)
	if err != nil {
		logger.WithContext(c.Request().Context()).Error("Dexcom sync failed", "error", err)
		SetFlashError(c, publicMessage(err, "Could not sync Dexcom readings."))
	} else {
		SetFlashSuccess(c, fmt.Sprintf("Imported %d readings.", n))
	}
	return c.Redirect(http.StatusSeeOther, "/app/dashboard")
}
