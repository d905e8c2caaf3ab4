package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rdua-dev/sadhana-tracker/internal/auth"
	"github.com/rdua-dev/sadhana-tracker/internal/models"
	pkghttp "github.com/rdua-dev/sadhana-tracker/pkg/http"
)

// LeaderboardServiceInterface defines the interface for the live rounds board
type LeaderboardServiceInterface interface {
	Leaderboard(ctx context.Context) ([]*models.LeaderboardRow, error)
	AddRounds(ctx context.Context, userID string, rounds int) (*models.EkadashiRounds, error)
	PurgeAll(ctx context.Context, actorID string) (int64, error)
}

// LeaderboardHandler handles Ekadashi rounds HTTP requests
type LeaderboardHandler struct {
	service LeaderboardServiceInterface
}

// NewLeaderboardHandler creates a new LeaderboardHandler
func NewLeaderboardHandler(service LeaderboardServiceInterface) *LeaderboardHandler {
	return &LeaderboardHandler{service: service}
}

// AddRoundsRequest represents the request body for logging rounds
type AddRoundsRequest struct {
	Rounds int `json:"rounds" validate:"required,gte=1"`
}

// GetLeaderboard returns the live board, highest total first. Public.
func (h *LeaderboardHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	board, err := h.service.Leaderboard(r.Context())
	if err != nil {
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, board, "Leaderboard fetched successfully")
}

// AddRounds logs a batch of chanted rounds for the caller
func (h *LeaderboardHandler) AddRounds(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "Unauthorized request")
		return
	}

	var req AddRoundsRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	entry, err := h.service.AddRounds(r.Context(), claims.UserID, req.Rounds)
	if err != nil {
		if errors.Is(err, models.ErrBadRequest) {
			pkghttp.WriteBadRequest(w, "Rounds must be at least 1")
			return
		}
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusCreated, entry, "Rounds added successfully")
}

// DeleteAllRounds clears the board after an observance. Admin only.
func (h *LeaderboardHandler) DeleteAllRounds(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "Unauthorized request")
		return
	}

	deleted, err := h.service.PurgeAll(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "No rounds to delete")
			return
		}
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]int64{"deleted": deleted}, "All rounds deleted successfully")
}
