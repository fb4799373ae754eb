package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/users-api/internal/api/shared"
	"github.com/phrazzld/users-api/internal/domain"
	"github.com/phrazzld/users-api/internal/platform/logger"
	"github.com/phrazzld/users-api/internal/service"
)

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	userService service.UserService
	logger      *slog.Logger
	errors      ErrorResponder
	opTimeout   time.Duration
}

// UserHandlerOptions tunes a UserHandler.
type UserHandlerOptions struct {
	// Debug adds diagnostic details to unhandled error responses.
	Debug bool
	// OperationTimeout bounds each service call, including the wait for a
	// pooled connection. Zero means no bound.
	OperationTimeout time.Duration
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService service.UserService, logger *slog.Logger, opts UserHandlerOptions) *UserHandler {
	if userService == nil {
		panic("userService cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &UserHandler{
		userService: userService,
		logger:      logger.With(slog.String("component", "user_handler")),
		errors:      ErrorResponder{Debug: opts.Debug},
		opTimeout:   opts.OperationTimeout,
	}
}

// operationContext detaches the request context from client cancellation so
// a disconnect does not abort in-flight database work, then applies the
// operation timeout. Values such as the request logger and trace ID are kept.
func (h *UserHandler) operationContext(r *http.Request) (context.Context, context.CancelFunc) {
	ctx := context.WithoutCancel(r.Context())
	if h.opTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, h.opTimeout)
}

// ListUsers handles GET /api/v1/users requests
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	params := parseListParams(r.URL.Query())

	ctx, cancel := h.operationContext(r)
	defer cancel()

	page, err := h.userService.ListUsers(ctx, params)
	if err != nil {
		h.errors.HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithSuccess(w, r, http.StatusOK, "Users retrieved successfully", page)
}

// CreateUser handles POST /api/v1/users requests
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	in, ok := h.decodeInput(w, r)
	if !ok {
		return
	}

	if missing(in.Name) || missing(in.Email) {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Name and email are required")
		return
	}

	ctx, cancel := h.operationContext(r)
	defer cancel()

	user, err := h.userService.CreateUser(ctx, in)
	if err != nil {
		h.errors.HandleAPIError(w, r, err)
		return
	}

	h.log(r).Info("user created", slog.Int64("user_id", user.ID))
	shared.RespondWithSuccess(w, r, http.StatusCreated, "User created successfully", user)
}

// GetUser handles GET /api/v1/users/{id} requests
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := getPathID(r, "id")
	if err != nil {
		h.errors.HandleAPIError(w, r, err)
		return
	}

	ctx, cancel := h.operationContext(r)
	defer cancel()

	user, err := h.userService.GetUser(ctx, id)
	if err != nil {
		h.errors.HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithSuccess(w, r, http.StatusOK, "User retrieved successfully", user)
}

// UpdateUser handles PUT and PATCH /api/v1/users/{id} requests.
// Only the fields present in the body are changed.
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := getPathID(r, "id")
	if err != nil {
		h.errors.HandleAPIError(w, r, err)
		return
	}

	in, ok := h.decodeInput(w, r)
	if !ok {
		return
	}

	ctx, cancel := h.operationContext(r)
	defer cancel()

	user, err := h.userService.UpdateUser(ctx, id, in)
	if err != nil {
		h.errors.HandleAPIError(w, r, err)
		return
	}

	h.log(r).Info("user updated", slog.Int64("user_id", user.ID))
	shared.RespondWithSuccess(w, r, http.StatusOK, "User updated successfully", user)
}

// DeleteUser handles DELETE /api/v1/users/{id} requests
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := getPathID(r, "id")
	if err != nil {
		h.errors.HandleAPIError(w, r, err)
		return
	}

	ctx, cancel := h.operationContext(r)
	defer cancel()

	if err := h.userService.DeleteUser(ctx, id); err != nil {
		h.errors.HandleAPIError(w, r, err)
		return
	}

	h.log(r).Info("user deleted", slog.Int64("user_id", id))
	shared.RespondWithSuccess(w, r, http.StatusOK, "User deleted successfully", DeleteUserResponse{ID: id})
}

// decodeInput parses the request body and writes the error response itself
// when the body is too large or malformed.
func (h *UserHandler) decodeInput(w http.ResponseWriter, r *http.Request) (domain.UserInput, bool) {
	var in domain.UserInput
	err := shared.DecodeJSON(r, &in)
	switch {
	case err == nil:
		return in, true
	case errors.Is(err, shared.ErrBodyTooLarge):
		shared.RespondWithErrorAndLog(w, r, http.StatusRequestEntityTooLarge, "Request body too large", err,
			shared.WithElevatedLogLevel())
	default:
		h.errors.HandleAPIError(w, r, fmt.Errorf("%w: %w", domain.ErrInvalidFormat, err))
	}
	return domain.UserInput{}, false
}

func (h *UserHandler) log(r *http.Request) *slog.Logger {
	return logger.FromContextOrDefault(r.Context(), h.logger)
}

// missing reports whether a required string field was omitted, null or empty.
// Values of the wrong type count as supplied and are left to validation.
func missing(f domain.Field[string]) bool {
	return !f.Present || f.Null || (!f.WrongType && f.Value == "")
}
