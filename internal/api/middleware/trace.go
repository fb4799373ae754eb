package middleware

import (
	"log/slog"
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/users-api/internal/api/shared"
	"github.com/phrazzld/users-api/internal/platform/logger"
)

// TraceIDHeader carries the request trace ID in responses.
const TraceIDHeader = "X-Request-ID"

// NewTraceMiddleware assigns each request a trace ID, stores a logger
// carrying it in the request context and logs the completed request.
//
// The ID set by chi's RequestID middleware is reused when present, so this
// middleware should be mounted after it.
func NewTraceMiddleware(base *slog.Logger) func(http.Handler) http.Handler {
	if base == nil {
		base = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			traceID := shared.NewTraceID(chimiddleware.GetReqID(r.Context()))
			log := base.With(slog.String("trace_id", traceID))

			ctx := shared.WithTraceID(r.Context(), traceID)
			ctx = logger.WithLogger(ctx, log)

			w.Header().Set(TraceIDHeader, traceID)
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
				}
				log.Debug("request completed",
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.Int("status", status),
					slog.Int("bytes", ww.BytesWritten()),
					slog.Duration("duration", time.Since(start)),
					slog.String("remote_addr", r.RemoteAddr))
			}()

			next.ServeHTTP(ww, r.WithContext(ctx))
		})
	}
}
