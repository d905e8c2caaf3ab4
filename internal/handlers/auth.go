package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rdua-dev/sadhana-tracker/internal/auth"
	"github.com/rdua-dev/sadhana-tracker/internal/models"
	"github.com/rdua-dev/sadhana-tracker/internal/services"
	pkghttp "github.com/rdua-dev/sadhana-tracker/pkg/http"
)

// AuthServiceInterface defines the interface for auth business logic
type AuthServiceInterface interface {
	Register(ctx context.Context, user *models.User, password string) (*services.AuthResponse, error)
	VerifyEmail(ctx context.Context, token string) error
	ResendVerification(ctx context.Context, email string) error
	Login(ctx context.Context, identifier, password string) (string, error)
	ForgotPassword(ctx context.Context, identifier string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	service       AuthServiceInterface
	cookieConfig  auth.CookieConfig
	sessionExpiry time.Duration
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(service AuthServiceInterface, cookieConfig auth.CookieConfig, sessionExpiry time.Duration) *AuthHandler {
	return &AuthHandler{
		service:       service,
		cookieConfig:  cookieConfig,
		sessionExpiry: sessionExpiry,
	}
}

// Verification links arrive as a query parameter; anything that is not
// shaped like a JWT is refused before signature checking.
var jwtShape = regexp.MustCompile(`^[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+$`)

// Request DTOs

// RegisterRequest represents the request body for registration
type RegisterRequest struct {
	Username  string `json:"username" validate:"required,min=3,max=30,username"`
	FirstName string `json:"firstName" validate:"required,min=1,max=100"`
	LastName  string `json:"lastName" validate:"max=100"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	Hostel    string `json:"hostel" validate:"max=100"`
}

// LoginRequest represents the request body for login. Username doubles as
// the email field; either identifier works.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ResendVerificationRequest represents the request body for resending the verification email
type ResendVerificationRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ForgotPasswordRequest represents the request body for requesting a password reset
type ForgotPasswordRequest struct {
	Username string `json:"username" validate:"required"`
}

// ResetPasswordRequest represents the request body for completing a password reset
type ResetPasswordRequest struct {
	Password string `json:"password" validate:"required"`
}

// Register handles user registration
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	user := &models.User{
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Hostel:    req.Hostel,
	}

	resp, err := h.service.Register(r.Context(), user, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrConflict):
			pkghttp.WriteConflict(w, "Username or email is already registered")
		case errors.Is(err, models.ErrInternalServer):
			pkghttp.WriteInternalError(w, "Internal server error")
		default:
			// Password policy violations carry their own message
			pkghttp.WriteBadRequest(w, err.Error())
		}
		return
	}

	auth.SetAuthCookie(w, resp.Token, h.sessionExpiry, h.cookieConfig)
	pkghttp.WriteJSON(w, http.StatusCreated, resp, "User registered successfully. Please verify your email.")
}

// VerifyUser handles the email verification link
func (h *AuthHandler) VerifyUser(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if !jwtShape.MatchString(token) {
		pkghttp.WriteBadRequest(w, "Invalid verification token")
		return
	}

	if err := h.service.VerifyEmail(r.Context(), token); err != nil {
		switch {
		case errors.Is(err, models.ErrAlreadyVerified):
			pkghttp.WriteConflict(w, "Account is already verified")
		case errors.Is(err, models.ErrUnauthorized):
			pkghttp.WriteUnauthorized(w, "Invalid or expired verification token")
		default:
			pkghttp.WriteInternalError(w, "Internal server error")
		}
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, nil, "Email verified successfully")
}

// Login handles user login by username or email
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	token, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrUnauthorized):
			pkghttp.WriteUnauthorized(w, "Invalid credentials")
		case errors.Is(err, models.ErrNotVerified):
			pkghttp.WriteForbidden(w, "Account is not verified. Please check your email.")
		default:
			pkghttp.WriteInternalError(w, "Internal server error")
		}
		return
	}

	auth.SetAuthCookie(w, token, h.sessionExpiry, h.cookieConfig)
	pkghttp.WriteJSON(w, http.StatusOK, map[string]string{"token": token}, "Logged in successfully")
}

// ResendVerification re-issues the verification token and emails the new link
func (h *AuthHandler) ResendVerification(w http.ResponseWriter, r *http.Request) {
	var req ResendVerificationRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	if err := h.service.ResendVerification(r.Context(), req.Email); err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			pkghttp.WriteNotFound(w, "User not found")
		case errors.Is(err, models.ErrAlreadyVerified):
			pkghttp.WriteConflict(w, "Account is already verified")
		case errors.Is(err, models.ErrEmailDelivery):
			pkghttp.WriteBadGateway(w, "Could not send verification email")
		default:
			pkghttp.WriteInternalError(w, "Internal server error")
		}
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, nil, "Verification email sent")
}

// ForgotPassword issues a password reset token and emails the reset link
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	if err := h.service.ForgotPassword(r.Context(), req.Username); err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			pkghttp.WriteNotFound(w, "User not found")
		case errors.Is(err, models.ErrEmailDelivery):
			pkghttp.WriteBadGateway(w, "Could not send password reset email")
		default:
			pkghttp.WriteInternalError(w, "Internal server error")
		}
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, nil, "Password reset email sent")
}

// ResetPassword completes a password reset with the emailed token
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	if strings.TrimSpace(token) == "" {
		pkghttp.WriteBadRequest(w, "Missing reset token")
		return
	}

	var req ResetPasswordRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	if err := h.service.ResetPassword(r.Context(), token, req.Password); err != nil {
		switch {
		case errors.Is(err, models.ErrUnauthorized):
			pkghttp.WriteUnauthorized(w, "Invalid or expired reset token")
		case errors.Is(err, models.ErrInternalServer):
			pkghttp.WriteInternalError(w, "Internal server error")
		default:
			pkghttp.WriteBadRequest(w, err.Error())
		}
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, nil, "Password reset successfully")
}

// Logout clears the session cookie. Sessions are stateless so there is
// nothing to revoke server side.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "Unauthorized request")
		return
	}

	auth.ClearAuthCookie(w, h.cookieConfig)
	pkghttp.WriteJSON(w, http.StatusOK, nil, "Logged out successfully")
}
