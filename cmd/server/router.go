package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/users-api/internal/api"
	apiMiddleware "github.com/phrazzld/users-api/internal/api/middleware"
)

// setupRouter creates the router with global middleware and all routes.
func (app *application) setupRouter() http.Handler {
	debug := !app.config.Server.IsProduction()

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))
	r.Use(apiMiddleware.NewRecoverer(debug))
	r.Use(middleware.RequestSize(app.config.Server.MaxBodyBytes))

	r.NotFound(api.NotFound)
	r.MethodNotAllowed(api.MethodNotAllowed)

	var pinger api.Pinger
	if app.pool != nil {
		pinger = app.pool
	}
	healthHandler := api.NewHealthHandler(pinger, app.config.Server.Environment, version)
	userHandler := api.NewUserHandler(app.userService, app.logger, api.UserHandlerOptions{
		Debug:            debug,
		OperationTimeout: app.config.Database.OperationTimeout,
	})

	r.Get("/health", healthHandler.Health)

	r.Route(api.APIBasePath, func(r chi.Router) {
		if app.config.RateLimit.Enabled {
			r.Use(apiMiddleware.NewRateLimiter(app.config.RateLimit.Window, app.config.RateLimit.Max))
		}

		r.Route("/users", func(r chi.Router) {
			r.Get("/", userHandler.ListUsers)
			r.Post("/", userHandler.CreateUser)
			r.Get("/{id}", userHandler.GetUser)
			r.Put("/{id}", userHandler.UpdateUser)
			r.Patch("/{id}", userHandler.UpdateUser)
			r.Delete("/{id}", userHandler.DeleteUser)
		})
	})

	return r
}
