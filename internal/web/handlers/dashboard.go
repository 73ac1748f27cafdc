package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/vladimiradmaev/sweet-friend/internal/chart"
	"github.com/vladimiradmaev/sweet-friend/internal/domain"
	apperrors "github.com/vladimiradmaev/sweet-friend/internal/errors"
	"github.com/vladimiradmaev/sweet-friend/internal/logger"
	"github.com/vladimiradmaev/sweet-friend/internal/web/views"
)

// PageHandler renders the logged-in pages and their htmx partials
type PageHandler struct {
	deps Dependencies
	now  func() time.Time
}

// NewPageHandler creates a new page handler
func NewPageHandler(deps Dependencies) *PageHandler {
	return &PageHandler{deps: deps, now: time.Now}
}

// chartData builds the user's chart, falling back to sample data when there are no readings
func (h *PageHandler) chartData(c echo.Context) (chart.Data, bool, error) {
	ctx := c.Request().Context()
	uid := currentUser(c).ID

	readings, err := h.deps.Glucose.Recent(ctx, uid, glucoseWindow)
	if err != nil {
		return chart.Data{}, false, err
	}
	if len(readings) == 0 {
		return chart.Placeholder(), true, nil
	}
	entries, err := h.deps.Logs.Since(ctx, uid, h.now().Add(-glucoseWindow))
	if err != nil {
		return chart.Data{}, false, err
	}
	return chart.Build(readings, entries, h.deps.Location), false, nil
}

// Dashboard shows the chart and the suggestion (GET /app/dashboard)
func (h *PageHandler) Dashboard(c echo.Context) error {
	data, placeholder, err := h.chartData(c)
	if err != nil {
		return err
	}

	props := views.DashboardProps{
		Page:          pageProps(c, "Dashboard", views.NavDashboard),
		Chart:         data,
		Placeholder:   placeholder,
		DexcomEnabled: h.deps.Dexcom != nil,
	}
	if h.deps.Dexcom != nil {
		linked, err := h.deps.Dexcom.Linked(c.Request().Context(), currentUser(c).ID)
		if err != nil {
			logger.WithContext(c.Request().Context()).Warn("Failed to check Dexcom link", "error", err)
		}
		props.DexcomLinked = linked
	}
	return render(c, http.StatusOK, views.DashboardPage(props))
}

// Advice renders the suggestion partial loaded by the dashboard (GET /app/advice)
func (h *PageHandler) Advice(c echo.Context) error {
	text, err := h.deps.Advice.Advice(c.Request().Context(), currentUser(c).ID)
	if err != nil {
		logger.WithContext(c.Request().Context()).Error("Failed to get advice", "error", err)
		return render(c, http.StatusOK, views.ErrorFragment(publicMessage(err, "Could not get a suggestion right now.")))
	}
	return render(c, http.StatusOK, views.AdvicePartial(text))
}

type markerResponse struct {
	Type domain.EntryType `json:"type"`
	chart.Marker
}

// Marker converts a chart click into a food or exercise marker (POST /app/markers)
func (h *PageHandler) Marker(c echo.Context) error {
	t := domain.EntryType(c.FormValue("type"))
	if !t.Valid() {
		return apperrors.NewValidationError("type must be food or exercise")
	}
	x, errX := strconv.ParseFloat(strings.TrimSpace(c.FormValue("x")), 64)
	y, errY := strconv.ParseFloat(strings.TrimSpace(c.FormValue("y")), 64)
	if errX != nil || errY != nil {
		return apperrors.NewValidationError("x and y must be numbers")
	}

	data, _, err := h.chartData(c)
	if err != nil {
		return err
	}
	m, err := chart.MarkerAt(data.Labels, x, y)
	if err != nil {
		return apperrors.NewValidationError(err.Error())
	}
	return c.JSON(http.StatusOK, markerResponse{Type: t, Marker: m})
}

// AddGlucose stores a reading typed on the dashboard (POST /app/glucose)
func (h *PageHandler) AddGlucose(c echo.Context) error {
	value, err := strconv.ParseFloat(strings.TrimSpace(c.FormValue("value")), 64)
	if err != nil {
		SetFlashError(c, "Glucose value must be a number.")
		return c.Redirect(http.StatusSeeOther, "/app/dashboard")
	}
	if _, err := h.deps.Glucose.AddReading(c.Request().Context(), currentUser(c).ID, value, time.Time{}); err != nil {
		SetFlashError(c, publicMessage(err, "Could not save the reading."))
		return c.Redirect(http.StatusSeeOther, "/app/dashboard")
	}
	SetFlashSuccess(c, "Reading saved.")
	return c.Redirect(http.StatusSeeOther, "/app/dashboard")
}
