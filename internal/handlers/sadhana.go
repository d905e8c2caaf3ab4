package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rdua-dev/sadhana-tracker/internal/auth"
	"github.com/rdua-dev/sadhana-tracker/internal/models"
	"github.com/rdua-dev/sadhana-tracker/internal/services"
	pkghttp "github.com/rdua-dev/sadhana-tracker/pkg/http"
)

// SadhanaServiceInterface defines the interface for practice log business logic
type SadhanaServiceInterface interface {
	CreateEntry(ctx context.Context, entry *models.SadhanaEntry) (*models.SadhanaEntry, error)
	ListEntries(ctx context.Context, userID string) ([]*services.SadhanaEntryResponse, error)
	CheckDailyGoals(ctx context.Context, userID string) (*services.GoalStatusResponse, error)
	SetDailyGoals(ctx context.Context, userID string, goal *models.MonthlyGoal) (*models.MonthlyGoal, error)
}

// SadhanaHandler handles daily practice log HTTP requests
type SadhanaHandler struct {
	service SadhanaServiceInterface
}

// NewSadhanaHandler creates a new SadhanaHandler
func NewSadhanaHandler(service SadhanaServiceInterface) *SadhanaHandler {
	return &SadhanaHandler{service: service}
}

// CreateSadhnaRequest represents the request body for a daily practice log
type CreateSadhnaRequest struct {
	Date                  string  `json:"date"` // "2006-01-02"; empty means today
	AttendedMorningPrayer bool    `json:"attendedMorningPrayer"`
	MinutesLate           int     `json:"minutesLate" validate:"gte=0"`
	StudyHours            float64 `json:"studyHours" validate:"gte=0"`
	ChantingRounds        int     `json:"chantingRounds" validate:"gte=0"`
	DidReadBook           bool    `json:"didReadBook"`
	BookName              string  `json:"bookName" validate:"required_if=DidReadBook true,max=200"`
	ReadingMinutes        int     `json:"readingMinutes" validate:"gte=0"`
}

// SetGoalsRequest represents the request body for monthly goals. Pointer
// fields so an omitted metric is rejected rather than read as zero.
type SetGoalsRequest struct {
	RoundsOfChanting    *int  `json:"roundsOfChanting" validate:"required,gte=0"`
	AttendMorningPrayer *bool `json:"attendMorningPrayer" validate:"required"`
	WatchLectureMinutes *int  `json:"watchLectureMinutes" validate:"required,gte=0"`
	ReadBookMinutes     *int  `json:"readBookMinutes" validate:"required,gte=0"`
}

// CreateSadhna records one day's practice log
func (h *SadhanaHandler) CreateSadhna(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "Unauthorized request")
		return
	}

	var req CreateSadhnaRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	var date time.Time
	if req.Date != "" {
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			pkghttp.WriteBadRequest(w, "Invalid date, expected YYYY-MM-DD")
			return
		}
		date = parsed
	}

	entry := &models.SadhanaEntry{
		UserID:                claims.UserID,
		Date:                  date,
		AttendedMorningPrayer: req.AttendedMorningPrayer,
		MinutesLate:           req.MinutesLate,
		StudyHours:            req.StudyHours,
		ChantingRounds:        req.ChantingRounds,
		DidReadBook:           req.DidReadBook,
		BookName:              req.BookName,
		ReadingMinutes:        req.ReadingMinutes,
	}

	created, err := h.service.CreateEntry(r.Context(), entry)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrEntryExists):
			pkghttp.WriteConflict(w, "Sadhana already recorded for this date")
		default:
			pkghttp.WriteInternalError(w, "Internal server error")
		}
		return
	}

	pkghttp.WriteJSON(w, http.StatusCreated, created, "Sadhana recorded successfully")
}

// GetSadhna lists the caller's practice logs, newest first
func (h *SadhanaHandler) GetSadhna(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "Unauthorized request")
		return
	}

	entries, err := h.service.ListEntries(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "User not found")
			return
		}
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, entries, "Sadhana entries fetched successfully")
}

// CheckDailyGoals reports whether goals are filled for the current month
func (h *SadhanaHandler) CheckDailyGoals(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "Unauthorized request")
		return
	}

	status, err := h.service.CheckDailyGoals(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteJSON(w, http.StatusNotFound, status, "Goals not filled for this month")
			return
		}
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, status, "Goals fetched successfully")
}

// SetDailyGoals upserts the caller's goals for the current month
func (h *SadhanaHandler) SetDailyGoals(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "Unauthorized request")
		return
	}

	var req SetGoalsRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	goal := &models.MonthlyGoal{
		RoundsOfChanting:    *req.RoundsOfChanting,
		AttendMorningPrayer: *req.AttendMorningPrayer,
		WatchLectureMinutes: *req.WatchLectureMinutes,
		ReadBookMinutes:     *req.ReadBookMinutes,
	}

	saved, err := h.service.SetDailyGoals(r.Context(), claims.UserID, goal)
	if err != nil {
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, saved, "Goals saved successfully")
}
