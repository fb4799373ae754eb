package api

import (
	"fmt"
	"net/http"

	"github.com/phrazzld/users-api/internal/api/shared"
)

// APIBasePath is the prefix for all versioned API routes.
const APIBasePath = "/api/v1"

// AvailableRoutes lists the public routes, reported by the not-found handler.
var AvailableRoutes = []string{
	"GET /health",
	"GET " + APIBasePath + "/users",
	"POST " + APIBasePath + "/users",
	"GET " + APIBasePath + "/users/:id",
	"PUT " + APIBasePath + "/users/:id",
	"PATCH " + APIBasePath + "/users/:id",
	"DELETE " + APIBasePath + "/users/:id",
}

// NotFound handles requests that match no route.
func NotFound(w http.ResponseWriter, r *http.Request) {
	resp := shared.NewErrorResponse(r, http.StatusNotFound, "Route not found")
	resp.Error = fmt.Sprintf("Cannot %s %s", r.Method, r.URL.Path)
	resp.AvailableRoutes = AvailableRoutes
	shared.RespondWithErrorResponse(w, r, resp, nil)
}

// MethodNotAllowed handles requests whose path matches a route but whose
// method does not.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	resp := shared.NewErrorResponse(r, http.StatusMethodNotAllowed, "Method not allowed")
	resp.Error = fmt.Sprintf("Cannot %s %s", r.Method, r.URL.Path)
	resp.AvailableRoutes = AvailableRoutes
	shared.RespondWithErrorResponse(w, r, resp, nil)
}
