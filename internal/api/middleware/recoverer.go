package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/phrazzld/users-api/internal/api/shared"
	"github.com/phrazzld/users-api/internal/platform/logger"
)

// NewRecoverer converts handler panics into the 500 error envelope.
// With debugDetails set the response includes the panic value, its type and
// the stack; otherwise only a generic message is returned.
func NewRecoverer(debugDetails bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				stack := debug.Stack()
				logger.FromContextOrDefault(r.Context(), slog.Default()).Error("panic recovered",
					slog.String("path", r.URL.Path),
					slog.String("method", r.Method),
					slog.String("panic", fmt.Sprint(rec)),
					slog.String("stack", string(stack)))

				resp := shared.NewErrorResponse(r, http.StatusInternalServerError, "An unexpected error occurred").
					WithRequestInfo(r)
				if debugDetails {
					resp.Details = &shared.ErrorDetails{
						Message: fmt.Sprint(rec),
						Type:    fmt.Sprintf("%T", rec),
						Stack:   string(stack),
					}
				}
				shared.RespondWithJSON(w, r, http.StatusInternalServerError, resp)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
