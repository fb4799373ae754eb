package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/users-api/internal/api/shared"
	"github.com/phrazzld/users-api/internal/platform/logger"
)

// defaultProbeTimeout bounds the database check made by the health endpoint.
const defaultProbeTimeout = 2 * time.Second

// Pinger reports database reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves the liveness endpoint. It always answers 200 while
// the process is up and reports database reachability in the body.
type HealthHandler struct {
	db           Pinger
	environment  string
	version      string
	startedAt    time.Time
	probeTimeout time.Duration
	now          func() time.Time
}

// NewHealthHandler creates a HealthHandler. db may be nil, in which case the
// database is reported as down.
func NewHealthHandler(db Pinger, environment, version string) *HealthHandler {
	return &HealthHandler{
		db:           db,
		environment:  environment,
		version:      version,
		startedAt:    time.Now(),
		probeTimeout: defaultProbeTimeout,
		now:          time.Now,
	}
}

// Health handles GET /health requests
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	resp := HealthResponse{
		Status:      "ok",
		Environment: h.environment,
		Version:     h.version,
		Timestamp:   now.UTC(),
		Uptime:      int64(now.Sub(h.startedAt).Seconds()),
		Database:    h.databaseStatus(r),
	}

	shared.RespondWithSuccess(w, r, http.StatusOK, "Service is healthy", resp)
}

func (h *HealthHandler) databaseStatus(r *http.Request) string {
	if h.db == nil {
		return DatabaseDown
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.probeTimeout)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		logger.FromContextOrDefault(r.Context(), slog.Default()).
			Warn("health check database probe failed", slog.String("error", err.Error()))
		return DatabaseDown
	}
	return DatabaseUp
}
