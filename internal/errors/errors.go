package errors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime"
)

// ErrorType represents different types of errors
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeNotFound   ErrorType = "not_found"
	ErrorTypeDatabase   ErrorType = "database"
	ErrorTypeExternal   ErrorType = "external_api"
	ErrorTypeInternal   ErrorType = "internal"
	ErrorTypePermission ErrorType = "permission"
	ErrorTypeTimeout    ErrorType = "timeout"
)

// AppError represents an application error with additional context
type AppError struct {
	Type     ErrorType
	Message  string
	Code     string
	Internal error
	Context  map[string]interface{}
	Source   string
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %s (internal: %v)", e.Type, e.Message, e.Internal)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the internal error
func (e *AppError) Unwrap() error {
	return e.Internal
}

// Is checks if the error matches the target
func (e *AppError) Is(target error) bool {
	if t, ok := target.(*AppError); ok {
		return e.Type == t.Type && e.Code == t.Code
	}
	return errors.Is(e.Internal, target)
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// HTTPStatus maps the error type onto a response status
func (e *AppError) HTTPStatus() int {
	switch e.Type {
	case ErrorTypeValidation:
		return http.StatusBadRequest
	case ErrorTypePermission:
		return http.StatusUnauthorized
	case ErrorTypeNotFound:
		return http.StatusNotFound
	case ErrorTypeExternal:
		return http.StatusBadGateway
	case ErrorTypeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage is the text safe to show to the client.
// Internal and database failures never leak their details.
func (e *AppError) PublicMessage() string {
	switch e.Type {
	case ErrorTypeDatabase, ErrorTypeInternal:
		return "Internal server error"
	default:
		return e.Message
	}
}

// LogFields returns structured logging fields
func (e *AppError) LogFields() []interface{} {
	fields := []interface{}{
		"error_type", e.Type,
		"error_code", e.Code,
		"error_message", e.Message,
		"source", e.Source,
	}

	if e.Internal != nil {
		fields = append(fields, "internal_error", e.Internal.Error())
	}

	for k, v := range e.Context {
		fields = append(fields, k, v)
	}

	return fields
}

func newError(errorType ErrorType, code, message string, internal error) *AppError {
	return &AppError{
		Type:     errorType,
		Code:     code,
		Message:  message,
		Internal: internal,
		Source:   caller(3),
		Context:  make(map[string]interface{}),
	}
}

func caller(skip int) string {
	_, file, line, _ := runtime.Caller(skip)
	return fmt.Sprintf("%s:%d", file, line)
}

// As reports whether err carries an AppError and returns it
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsType reports whether err is an AppError of the given type
func IsType(err error, errorType ErrorType) bool {
	appErr, ok := As(err)
	return ok && appErr.Type == errorType
}

// Handler provides error handling strategies
type Handler struct {
	logger *slog.Logger
}

// NewHandler creates a new error handler
func NewHandler(logger *slog.Logger) *Handler {
	return &Handler{logger: logger}
}

// Handle processes an error according to its type
func (h *Handler) Handle(ctx context.Context, err error) {
	if err == nil {
		return
	}

	if appErr, ok := As(err); ok {
		h.handleAppError(ctx, appErr)
	} else {
		h.handleGenericError(ctx, err)
	}
}

// handleAppError handles AppError instances
func (h *Handler) handleAppError(ctx context.Context, err *AppError) {
	switch err.Type {
	case ErrorTypeValidation, ErrorTypeNotFound:
		h.logger.InfoContext(ctx, "Request rejected", err.LogFields()...)
	case ErrorTypePermission:
		h.logger.WarnContext(ctx, "Permission error", err.LogFields()...)
	case ErrorTypeDatabase, ErrorTypeExternal, ErrorTypeInternal, ErrorTypeTimeout:
		h.logger.ErrorContext(ctx, "Critical error", err.LogFields()...)
	default:
		h.logger.ErrorContext(ctx, "Unknown error type", err.LogFields()...)
	}
}

// handleGenericError handles generic errors
func (h *Handler) handleGenericError(ctx context.Context, err error) {
	h.logger.ErrorContext(ctx, "Unhandled error", "error", err.Error())
}

// ErrDatabaseError matches any database failure through errors.Is
var ErrDatabaseError = &AppError{Type: ErrorTypeDatabase, Code: "DB_ERROR"}

// NewValidationError reports bad user input; the message is shown to the user
func NewValidationError(message string) *AppError {
	return newError(ErrorTypeValidation, "VALIDATION", message, nil)
}

func NewNotFoundError(resource string) *AppError {
	return newError(ErrorTypeNotFound, "NOT_FOUND", fmt.Sprintf("%s not found", resource), nil).
		WithContext("resource", resource)
}

func NewUnauthorizedError(message string) *AppError {
	return newError(ErrorTypePermission, "UNAUTHORIZED", message, nil)
}

func NewDatabaseError(err error) *AppError {
	return newError(ErrorTypeDatabase, "DB_ERROR", "Database operation failed", err)
}

// NewExternalAPIError wraps a failure of a third party service such as gemini or dexcom
func NewExternalAPIError(err error, api string) *AppError {
	return newError(ErrorTypeExternal, "EXTERNAL_API", fmt.Sprintf("%s API error", api), err).
		WithContext("api", api)
}

func NewTimeoutError(operation string) *AppError {
	return newError(ErrorTypeTimeout, "TIMEOUT", fmt.Sprintf("%s operation timed out", operation), nil).
		WithContext("operation", operation)
}

func NewInternalError(err error) *AppError {
	return newError(ErrorTypeInternal, "INTERNAL", "Internal server error", err)
}
