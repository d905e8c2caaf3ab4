package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rdua-dev/sadhana-tracker/internal/auth"
	"github.com/rdua-dev/sadhana-tracker/internal/models"
	"github.com/rdua-dev/sadhana-tracker/internal/services"
	pkghttp "github.com/rdua-dev/sadhana-tracker/pkg/http"
)

// UserServiceInterface defines the interface for user account business logic
type UserServiceInterface interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error)
	UpdateProfile(ctx context.Context, id string, updates *models.User) (*models.User, error)
	UpdateRole(ctx context.Context, actorID, targetID, role string) (*models.User, error)
	DeleteUser(ctx context.Context, actorID, id string) error
}

// UserHandler handles user account HTTP requests
type UserHandler struct {
	service      UserServiceInterface
	cookieConfig auth.CookieConfig
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(service UserServiceInterface, cookieConfig auth.CookieConfig) *UserHandler {
	return &UserHandler{
		service:      service,
		cookieConfig: cookieConfig,
	}
}

// UpdateUserRequest represents the request body for profile updates
type UpdateUserRequest struct {
	FirstName string `json:"firstName" validate:"max=100"`
	LastName  string `json:"lastName" validate:"max=100"`
	Hostel    string `json:"hostel" validate:"max=100"`
}

// UpdateRoleRequest represents the request body for role changes
type UpdateRoleRequest struct {
	UserID string `json:"userId" validate:"required"`
	Role   string `json:"role" validate:"required,oneof=user admin"`
}

// GetAllUsers returns a paginated, sanitized user list. Admin only.
func (h *UserHandler) GetAllUsers(w http.ResponseWriter, r *http.Request) {
	limit := parseQueryInt(r, "limit", 20)
	offset := parseQueryInt(r, "offset", 0)
	if limit < 1 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	users, err := h.service.ListUsers(r.Context(), limit, offset)
	if err != nil {
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	responses := make([]*services.UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, services.UserModelToResponse(user))
	}

	pkghttp.WriteJSON(w, http.StatusOK, responses, "Users fetched successfully")
}

// GetUser returns the caller's own profile
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "Unauthorized request")
		return
	}

	user, err := h.service.GetUserByID(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "User not found")
			return
		}
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, services.UserModelToResponse(user), "User fetched successfully")
}

// UpdateUser updates the caller's own profile
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "Unauthorized request")
		return
	}

	var req UpdateUserRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	updates := &models.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Hostel:    req.Hostel,
	}

	updated, err := h.service.UpdateProfile(r.Context(), claims.UserID, updates)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "User not found")
			return
		}
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, services.UserModelToResponse(updated), "User updated successfully")
}

// DeleteUser removes the caller's own account and ends the session
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "Unauthorized request")
		return
	}

	if err := h.service.DeleteUser(r.Context(), claims.UserID, claims.UserID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "User not found")
			return
		}
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	auth.ClearAuthCookie(w, h.cookieConfig)
	pkghttp.WriteJSON(w, http.StatusOK, nil, "User deleted successfully")
}

// UpdateRole changes another user's role. Superadmin only; superadmin
// itself can never be granted here.
func (h *UserHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "Unauthorized request")
		return
	}

	var req UpdateRoleRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	updated, err := h.service.UpdateRole(r.Context(), claims.UserID, req.UserID, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrBadRequest):
			pkghttp.WriteBadRequest(w, "Role must be user or admin")
		case errors.Is(err, models.ErrForbidden):
			pkghttp.WriteForbidden(w, "Cannot change a superadmin's role")
		case errors.Is(err, models.ErrNotFound):
			pkghttp.WriteNotFound(w, "User not found")
		default:
			pkghttp.WriteInternalError(w, "Internal server error")
		}
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, services.UserModelToResponse(updated), "Role updated successfully")
}

func parseQueryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
