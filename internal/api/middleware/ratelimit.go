package middleware

import (
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/phrazzld/users-api/internal/api/shared"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

const rateLimitMessage = "Too many requests, please try again later."

// NewRateLimiter returns middleware allowing max requests per window for each
// client IP. Counters live in process memory. Every response carries the
// X-RateLimit-* headers; rejected requests get a 429 error envelope with
// retryAfter in seconds.
func NewRateLimiter(window time.Duration, max int) func(http.Handler) http.Handler {
	instance := limiter.New(memory.NewStore(), limiter.Rate{
		Period: window,
		Limit:  int64(max),
	})

	mw := stdlib.NewMiddleware(instance,
		stdlib.WithKeyGetter(clientKey),
		stdlib.WithLimitReachedHandler(limitReached(time.Now)),
		stdlib.WithErrorHandler(limiterFailed),
	)
	return mw.Handler
}

// limitReached writes the 429 envelope. The limiter has already set
// X-RateLimit-Reset, from which the wait is derived.
func limitReached(now func() time.Time) stdlib.LimitReachedHandler {
	return func(w http.ResponseWriter, r *http.Request) {
		retryAfter := 1
		if reset, err := strconv.ParseInt(w.Header().Get("X-RateLimit-Reset"), 10, 64); err == nil {
			if wait := reset - now().Unix(); wait > 1 {
				retryAfter = int(wait)
			}
		}
		w.Header().Set("Retry-After", strconv.Itoa(retryAfter))

		resp := shared.NewErrorResponse(r, http.StatusTooManyRequests, rateLimitMessage)
		resp.RetryAfter = retryAfter
		shared.RespondWithErrorResponse(w, r, resp, nil)
	}
}

// limiterFailed answers 500 when the counter store fails. The error is
// logged by the responder.
func limiterFailed(w http.ResponseWriter, r *http.Request, err error) {
	shared.RespondWithErrorResponse(w, r, shared.NewErrorResponse(r, http.StatusInternalServerError, "An unexpected error occurred"), err)
}

// clientKey identifies the client by IP. RemoteAddr is expected to have been
// rewritten by chi's RealIP middleware when running behind a proxy.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
