package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/vladimiradmaev/sweet-friend/internal/domain"
	apperrors "github.com/vladimiradmaev/sweet-friend/internal/errors"
	"github.com/vladimiradmaev/sweet-friend/internal/interfaces"
	"github.com/vladimiradmaev/sweet-friend/internal/logbook"
	"github.com/vladimiradmaev/sweet-friend/internal/services"
)

// glucoseWindow is how far back the chart and the glucose API look
const glucoseWindow = 24 * time.Hour

// APIHandler serves the JSON endpoints under /api
type APIHandler struct {
	deps Dependencies
}

// NewAPIHandler creates a new API handler
func NewAPIHandler(deps Dependencies) *APIHandler {
	return &APIHandler{deps: deps}
}

type routeInfo struct {
	Endpoint string `json:"endpoint"`
	Methods  string `json:"methods"`
	URL      string `json:"url"`
}

// Index lists the registered API routes (GET /api/)
func (h *APIHandler) Index(c echo.Context) error {
	methods := map[string][]string{}
	for _, r := range c.Echo().Routes() {
		if !strings.HasPrefix(r.Path, "/api/") || strings.Contains(r.Path, "*") || r.Method == echo.RouteNotFound {
			continue
		}
		methods[r.Path] = append(methods[r.Path], r.Method)
	}

	paths := make([]string, 0, len(methods))
	for p := range methods {
		paths = append(paths, p)
	}
	slices.Sort(paths)

	routes := make([]routeInfo, 0, len(paths))
	for _, p := range paths {
		m := methods[p]
		slices.Sort(m)
		routes = append(routes, routeInfo{
			Endpoint: endpointName(p),
			Methods:  strings.Join(slices.Compact(m), ", "),
			URL:      p,
		})
	}
	return c.JSON(http.StatusOK, routes)
}

func endpointName(path string) string {
	name := strings.Trim(strings.TrimPrefix(path, "/api"), "/")
	if name == "" {
		return "home"
	}
	return strings.ReplaceAll(name, "/", "_")
}

// JSONTest is the connectivity check (GET /api/json)
func (h *APIHandler) JSONTest(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{"message": "test", "status": http.StatusOK})
}

type chatRequest struct {
	Message json.RawMessage `json:"message"`
}

// Chat answers a message or a whole conversation (POST /api/chat)
func (h *APIHandler) Chat(c echo.Context) error {
	var req chatRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		return apperrors.NewValidationError("request body must be JSON")
	}
	in, err := parseChatInput(req.Message)
	if err != nil {
		return err
	}

	reply, err := h.deps.Chat.Send(c.Request().Context(), currentUser(c).ID, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"response": reply})
}

// parseChatInput accepts either a plain string or a list of {content, sender}
func parseChatInput(raw json.RawMessage) (services.ChatInput, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return services.ChatInput{}, apperrors.NewValidationError("message is required")
	}
	if raw[0] == '[' {
		var history []domain.ChatMessage
		if err := json.Unmarshal(raw, &history); err != nil {
			return services.ChatInput{}, apperrors.NewValidationError("message list is malformed")
		}
		if history == nil {
			history = []domain.ChatMessage{}
		}
		return services.ChatInput{History: history}, nil
	}
	var msg string
	if err := json.Unmarshal(raw, &msg); err != nil {
		return services.ChatInput{}, apperrors.NewValidationError("message must be a string or a list of messages")
	}
	return services.ChatInput{Message: msg}, nil
}

// AnalyzeImage estimates the carbs of an uploaded meal photo (POST /api/analyze_image)
func (h *APIHandler) AnalyzeImage(c echo.Context) error {
	analysis, err := analyzeUpload(c, h.deps.Food)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, analysis)
}

// GetGlucose returns the readings of the last day, oldest first (GET /api/get_glucose)
func (h *APIHandler) GetGlucose(c echo.Context) error {
	readings, err := h.deps.Glucose.Recent(c.Request().Context(), currentUser(c).ID, glucoseWindow)
	if err != nil {
		return err
	}
	if readings == nil {
		readings = []domain.GlucoseReading{}
	}
	return c.JSON(http.StatusOK, readings)
}

type glucoseRequest struct {
	Value float64    `json:"value" validate:"required"`
	Time  *time.Time `json:"time"`
}

// AddGlucose stores a manual reading (POST /api/glucose)
func (h *APIHandler) AddGlucose(c echo.Context) error {
	var req glucoseRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.NewValidationError("request body must be {value, time?}")
	}
	if err := c.Validate(&req); err != nil {
		return apperrors.NewValidationError("value is required")
	}
	var at time.Time
	if req.Time != nil {
		at = *req.Time
	}
	reading, err := h.deps.Glucose.AddReading(c.Request().Context(), currentUser(c).ID, req.Value, at)
	if err != nil {
		return err
	}
	return jsonSuccess(c, http.StatusCreated, "reading", reading)
}

// GetAdvice asks the model for a suggestion based on the last day (GET /api/get_advice)
func (h *APIHandler) GetAdvice(c echo.Context) error {
	text, err := h.deps.Advice.Advice(c.Request().Context(), currentUser(c).ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"response": text})
}

// LogEntries lists entries with the type/starred/sort/order toggles (GET /api/log_entries)
func (h *APIHandler) LogEntries(c echo.Context) error {
	f, s := logbook.ParseQuery(c.QueryParams())
	entries, err := h.deps.Logs.List(c.Request().Context(), currentUser(c).ID, f, s)
	if err != nil {
		return err
	}
	if entries == nil {
		entries = []domain.LogEntry{}
	}
	return jsonSuccess(c, http.StatusOK, "entries", entries)
}

// FoodEntry creates a food entry (POST /api/food_entry)
func (h *APIHandler) FoodEntry(c echo.Context) error {
	return h.createEntry(c, domain.EntryFood)
}

// ExerciseEntry creates an exercise entry (POST /api/exercise_entry)
func (h *APIHandler) ExerciseEntry(c echo.Context) error {
	return h.createEntry(c, domain.EntryExercise)
}

func (h *APIHandler) createEntry(c echo.Context, t domain.EntryType) error {
	var entry domain.LogEntry
	if err := json.NewDecoder(c.Request().Body).Decode(&entry); err != nil {
		return apperrors.NewValidationError("request body must be a log entry")
	}
	created, err := h.deps.Logs.Create(c.Request().Context(), currentUser(c).ID, t, &entry)
	if err != nil {
		return err
	}
	return jsonSuccess(c, http.StatusCreated, "entry", created)
}

type toggleStarRequest struct {
	EntryID uint  `json:"entry_id" validate:"required"`
	Starred *bool `json:"starred" validate:"required"`
}

// ToggleStar stars or unstars an entry the user owns (POST /api/log_entries/toggle_star)
func (h *APIHandler) ToggleStar(c echo.Context) error {
	var req toggleStarRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		return apperrors.NewValidationError("request body must be {entry_id, starred}")
	}
	if err := c.Validate(&req); err != nil {
		return apperrors.NewValidationError("entry_id and starred are required")
	}
	entry, err := h.deps.Logs.ToggleStar(c.Request().Context(), currentUser(c).ID, req.EntryID, *req.Starred)
	if err != nil {
		return err
	}
	return jsonSuccess(c, http.StatusOK, "entry", entry)
}

// analyzeUpload feeds the multipart "file" field to the analysis service
func analyzeUpload(c echo.Context, food interfaces.FoodAnalysisServiceInterface) (*domain.FoodAnalysis, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return nil, apperrors.NewValidationError("no file uploaded")
	}
	f, err := fh.Open()
	if err != nil {
		return nil, apperrors.NewValidationError("could not read the uploaded file")
	}
	defer f.Close()
	return food.AnalyzeImage(c.Request().Context(), currentUser(c).ID, services.Upload{Filename: fh.Filename, Body: f})
}
