package shared

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/users-api/internal/platform/logger"
	"github.com/phrazzld/users-api/internal/redact"
)

// SuccessResponse is the envelope for every successful response.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// ErrorResponse is the envelope for every failed response.
// Optional fields are only populated by the responses that need them.
type ErrorResponse struct {
	Success         bool          `json:"success"`
	Message         string        `json:"message"`
	Error           string        `json:"error"`
	Errors          []string      `json:"errors,omitempty"`
	TraceID         string        `json:"traceId,omitempty"`
	Path            string        `json:"path,omitempty"`
	Method          string        `json:"method,omitempty"`
	Timestamp       string        `json:"timestamp,omitempty"`
	Details         *ErrorDetails `json:"details,omitempty"`
	RetryAfter      int           `json:"retryAfter,omitempty"`
	AvailableRoutes []string      `json:"availableRoutes,omitempty"`

	Code int `json:"-"` // Not serialized to JSON, used for logging
}

// ErrorDetails carries diagnostics for unhandled errors outside production.
type ErrorDetails struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Stack   string `json:"stack,omitempty"`
}

// NewErrorResponse returns an error envelope for status with the trace ID of r.
// The error field defaults to the HTTP status text.
func NewErrorResponse(r *http.Request, status int, message string) ErrorResponse {
	return ErrorResponse{
		Success: false,
		Message: message,
		Error:   http.StatusText(status),
		TraceID: GetTraceID(r.Context()),
		Code:    status,
	}
}

// WithRequestInfo adds the request path, method and current time to resp.
func (resp ErrorResponse) WithRequestInfo(r *http.Request) ErrorResponse {
	resp.Path = r.URL.Path
	resp.Method = r.Method
	resp.Timestamp = time.Now().UTC().Format(time.RFC3339)
	return resp
}

// ResponseOption defines a function to customize response behavior.
type ResponseOption func(*responseOptions)

// responseOptions holds configurable options for error responses.
type responseOptions struct {
	elevateLogLevel bool
}

// WithElevatedLogLevel returns a ResponseOption that raises 4xx errors to WARN level
// instead of the default DEBUG level.
func WithElevatedLogLevel() ResponseOption {
	return func(opts *responseOptions) {
		opts.elevateLogLevel = true
	}
}

// RespondWithJSON writes a JSON response with the given status code and data.
func RespondWithJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.FromContextOrDefault(r.Context(), slog.Default()).
			Error("failed to encode JSON response", slog.String("error", err.Error()))
	}
}

// RespondWithSuccess writes a success envelope.
func RespondWithSuccess(w http.ResponseWriter, r *http.Request, status int, message string, data any) {
	RespondWithJSON(w, r, status, SuccessResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// RespondWithError writes a JSON error envelope with the given status code and message.
func RespondWithError(w http.ResponseWriter, r *http.Request, status int, message string) {
	RespondWithErrorResponse(w, r, NewErrorResponse(r, status, message), nil)
}

// RespondWithErrorAndLog writes a JSON error envelope and also logs the detailed error.
// Only userMessage reaches the client; err is redacted and logged.
//
// Log level strategy:
// - 5xx errors: Always logged at ERROR level
// - 429 Too Many Requests: Logged at WARN level
// - Other status codes: Logged at DEBUG level unless elevated
func RespondWithErrorAndLog(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	userMessage string,
	err error,
	opts ...ResponseOption,
) {
	RespondWithErrorResponse(w, r, NewErrorResponse(r, status, userMessage), err, opts...)
}

// RespondWithErrorResponse logs err (redacted) and writes resp.
func RespondWithErrorResponse(
	w http.ResponseWriter,
	r *http.Request,
	resp ErrorResponse,
	err error,
	opts ...ResponseOption,
) {
	status := resp.Code
	if status == 0 {
		status = http.StatusInternalServerError
	}

	logAttrs := []slog.Attr{
		slog.String("trace_id", resp.TraceID),
		slog.String("path", r.URL.Path),
		slog.String("method", r.Method),
		slog.Int("status_code", status),
		slog.String("user_message", resp.Message),
	}
	if err != nil {
		logAttrs = append(logAttrs,
			slog.String("error", redact.Error(err)),
			slog.String("error_type", fmt.Sprintf("%T", err)))
	}

	responseOpts := responseOptions{}
	for _, opt := range opts {
		opt(&responseOpts)
	}

	logLevel := slog.LevelDebug
	switch {
	case status >= http.StatusInternalServerError:
		logLevel = slog.LevelError
	case status == http.StatusTooManyRequests:
		logLevel = slog.LevelWarn
	case responseOpts.elevateLogLevel && status >= http.StatusBadRequest:
		logLevel = slog.LevelWarn
	}

	log := logger.FromContextOrDefault(r.Context(), slog.Default())
	log.LogAttrs(r.Context(), logLevel, "API error response", logAttrs...)

	RespondWithJSON(w, r, status, resp)
}
