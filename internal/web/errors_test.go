package web

import (
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	apperrors "github.com/vladimiradmaev/sweet-friend/internal/errors"
)

func TestClassify(t *testing.T) {
	status, msg := classify(apperrors.NewValidationError("name is required"))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "name is required", msg)

	status, msg = classify(apperrors.NewDatabaseError(stderrors.New("dial tcp")))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "Internal server error", msg)

	status, msg = classify(echo.ErrNotFound)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Not Found", msg)

	status, _ = classify(stderrors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, status)
}

func TestErrorHandlerPicksFormat(t *testing.T) {
	e := echo.New()
	handle := NewErrorHandler()
	err := apperrors.NewNotFoundError("log entry")

	req := httptest.NewRequest(http.MethodGet, "/api/log_entries", nil)
	rec := httptest.NewRecorder()
	handle(err, e.NewContext(req, rec))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"log entry not found"}`, rec.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/app/logs/9", nil)
	req.Header.Set("HX-Request", "true")
	rec = httptest.NewRecorder()
	handle(err, e.NewContext(req, rec))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `class="form-error"`)
	assert.Contains(t, rec.Body.String(), "log entry not found")

	req = httptest.NewRequest(http.MethodGet, "/app/logs/9", nil)
	rec = httptest.NewRecorder()
	handle(err, e.NewContext(req, rec))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "<html")
}

func TestBodyLimit(t *testing.T) {
	assert.Equal(t, "11M", bodyLimit(10<<20))
	assert.Equal(t, "1025K", formatBytes(1025<<10))
	assert.Equal(t, "1000B", formatBytes(1000))
}
