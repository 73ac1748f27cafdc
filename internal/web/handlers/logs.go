package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/vladimiradmaev/sweet-friend/internal/domain"
	apperrors "github.com/vladimiradmaev/sweet-friend/internal/errors"
	"github.com/vladimiradmaev/sweet-friend/internal/logbook"
	"github.com/vladimiradmaev/sweet-friend/internal/logger"
	"github.com/vladimiradmaev/sweet-friend/internal/web/views"
)

// Logs renders the log list page (GET /app/logs)
func (h *PageHandler) Logs(c echo.Context) error {
	f, s := logbook.ParseQuery(c.QueryParams())
	entries, err := h.deps.Logs.List(c.Request().Context(), currentUser(c).ID, f, s)
	if err != nil {
		return err
	}
	return render(c, http.StatusOK, views.LogsPage(pageProps(c, "Logs", views.NavLogs), entries, f, s))
}

// LogList renders only the list for the toggles (GET /app/logs/list)
func (h *PageHandler) LogList(c echo.Context) error {
	f, s := logbook.ParseQuery(c.QueryParams())
	entries, err := h.deps.Logs.List(c.Request().Context(), currentUser(c).ID, f, s)
	if err != nil {
		return err
	}
	return render(c, http.StatusOK, views.LogList(entries))
}

// LogDetails renders the details modal (GET /app/logs/:id)
func (h *PageHandler) LogDetails(c echo.Context) error {
	id, err := entryID(c)
	if err != nil {
		return err
	}
	entry, err := h.deps.Logs.Get(c.Request().Context(), currentUser(c).ID, id)
	if err != nil {
		return err
	}
	return render(c, http.StatusOK, views.LogDetails(*entry))
}

// NewLog renders a step of the add-log modal (GET /app/logs/new?type=&mode=)
func (h *PageHandler) NewLog(c echo.Context) error {
	switch domain.EntryType(c.QueryParam("type")) {
	case domain.EntryFood:
		if c.QueryParam("mode") == "upload" {
			return render(c, http.StatusOK, views.FoodModal(views.FoodFormProps{Upload: true}))
		}
		props := views.FoodFormProps{}
		pending, err := h.deps.Food.PendingAnalysis(c.Request().Context(), currentUser(c).ID)
		if err != nil {
			logger.WithContext(c.Request().Context()).Warn("Failed to read pending analysis", "error", err)
		}
		if pending != nil {
			props = prefilled(pending)
		}
		return render(c, http.StatusOK, views.FoodModal(props))
	case domain.EntryExercise:
		return render(c, http.StatusOK, views.ExerciseModal(logbook.EntryForm{}, ""))
	default:
		return render(c, http.StatusOK, views.AddLogChooser())
	}
}

// CreateLog stores the submitted add-log form and closes the modal (POST /app/logs)
func (h *PageHandler) CreateLog(c echo.Context) error {
	var form logbook.EntryForm
	if err := c.Bind(&form); err != nil {
		return apperrors.NewValidationError("malformed form")
	}

	ctx := c.Request().Context()
	uid := currentUser(c).ID
	entry, err := h.deps.Logs.CreateFromForm(ctx, uid, form)
	if err != nil {
		if !apperrors.IsType(err, apperrors.ErrorTypeValidation) {
			return err
		}
		msg := publicMessage(err, "Please check the form.")
		if domain.EntryType(form.Type) == domain.EntryExercise {
			return render(c, http.StatusOK, views.ExerciseModal(form, msg))
		}
		return render(c, http.StatusOK, views.FoodModal(views.FoodFormProps{Form: form, Error: msg}))
	}

	if entry.Type == domain.EntryFood {
		if err := h.deps.Food.ClearPending(ctx, uid); err != nil {
			logger.WithContext(ctx).Warn("Failed to clear pending analysis", "error", err)
		}
	}
	// the list reloads itself on this event; the empty body closes the modal
	c.Response().Header().Set("HX-Trigger", "logs-changed")
	return render(c, http.StatusOK, nil)
}

// AnalyzeLog runs the photo analysis and prefills the food form (POST /app/logs/analyze)
func (h *PageHandler) AnalyzeLog(c echo.Context) error {
	analysis, err := analyzeUpload(c, h.deps.Food)
	if err != nil {
		if !apperrors.IsType(err, apperrors.ErrorTypeValidation) {
			logger.WithContext(c.Request().Context()).Error("Failed to analyze food image", "error", err)
		}
		return render(c, http.StatusOK, views.FoodModal(views.FoodFormProps{
			Upload: true,
			Error:  publicMessage(err, "Could not analyze the image."),
		}))
	}
	return render(c, http.StatusOK, views.FoodModal(prefilled(analysis)))
}

func prefilled(a *domain.FoodAnalysis) views.FoodFormProps {
	return views.FoodFormProps{
		Form: logbook.EntryForm{
			Type:       string(domain.EntryFood),
			Name:       a.MealName,
			TotalCarbs: strconv.FormatFloat(a.TotalCarbs, 'f', -1, 64),
		},
		Reason: a.Reason,
	}
}

// ToggleStar flips the star of a row and re-renders it (POST /app/logs/:id/star)
func (h *PageHandler) ToggleStar(c echo.Context) error {
	id, err := entryID(c)
	if err != nil {
		return err
	}
	starred, err := strconv.ParseBool(c.FormValue("starred"))
	if err != nil {
		return apperrors.NewValidationError("starred must be true or false")
	}
	entry, err := h.deps.Logs.ToggleStar(c.Request().Context(), currentUser(c).ID, id, starred)
	if err != nil {
		return err
	}
	return render(c, http.StatusOK, views.LogRow(*entry))
}

// Starred renders the starred entries (GET /app/starred)
func (h *PageHandler) Starred(c echo.Context) error {
	entries, err := h.deps.Logs.Starred(c.Request().Context(), currentUser(c).ID)
	if err != nil {
		return err
	}
	return render(c, http.StatusOK, views.StarredPage(pageProps(c, "Starred", views.NavStarred), entries))
}

func entryID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.NewValidationError("invalid entry id")
	}
	return uint(id), nil
}
