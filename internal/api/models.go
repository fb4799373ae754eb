package api

import (
	"time"
)

// DeleteUserResponse is the data returned after a user is deleted.
type DeleteUserResponse struct {
	ID int64 `json:"id"`
}

// HealthResponse is the data returned by the health endpoint.
type HealthResponse struct {
	// Status is always "ok" while the process serves requests
	Status      string    `json:"status"`
	Environment string    `json:"environment"`
	Version     string    `json:"version,omitempty"`
	Timestamp   time.Time `json:"timestamp"`

	// Uptime is the process uptime in whole seconds
	Uptime int64 `json:"uptime"`

	// Database is "up" or "down" depending on the liveness probe
	Database string `json:"database"`
}

// Database reachability values reported by the health endpoint.
const (
	DatabaseUp   = "up"
	DatabaseDown = "down"
)
