package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rdua-dev/sadhana-tracker/internal/models"
	"github.com/rdua-dev/sadhana-tracker/internal/services"
)

func TestCreateSadhna_Success(t *testing.T) {
	service := &MockSadhanaService{
		CreateEntryFunc: func(ctx context.Context, entry *models.SadhanaEntry) (*models.SadhanaEntry, error) {
			assert.Equal(t, "user_1", entry.UserID)
			assert.Equal(t, 16, entry.ChantingRounds)
			assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), entry.Date)
			entry.ID = "entry_1"
			return entry, nil
		},
	}
	handler := NewSadhanaHandler(service)

	req := withClaims(httptest.NewRequest(http.MethodPost, "/sadhna/create-sadhna", jsonBody(t, CreateSadhnaRequest{
		Date:                  "2026-09-01",
		AttendedMorningPrayer: true,
		ChantingRounds:        16,
		StudyHours:            2.5,
	})), "user_1")
	rec := httptest.NewRecorder()

	handler.CreateSadhna(rec, req)

	env := decodeEnvelope(t, rec)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Sadhana recorded successfully", env.Message)
}

func TestCreateSadhna_DuplicateDay(t *testing.T) {
	service := &MockSadhanaService{
		CreateEntryFunc: func(ctx context.Context, entry *models.SadhanaEntry) (*models.SadhanaEntry, error) {
			return nil, models.ErrEntryExists
		},
	}
	handler := NewSadhanaHandler(service)

	req := withClaims(httptest.NewRequest(http.MethodPost, "/sadhna/create-sadhna", jsonBody(t, CreateSadhnaRequest{
		ChantingRounds: 8,
	})), "user_1")
	rec := httptest.NewRecorder()

	handler.CreateSadhna(rec, req)

	env := decodeEnvelope(t, rec)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Sadhana already recorded for this date", env.Message)
}

func TestCreateSadhna_InvalidDate(t *testing.T) {
	handler := NewSadhanaHandler(&MockSadhanaService{})

	req := withClaims(httptest.NewRequest(http.MethodPost, "/sadhna/create-sadhna", jsonBody(t, CreateSadhnaRequest{
		Date: "01/09/2026",
	})), "user_1")
	rec := httptest.NewRecorder()

	handler.CreateSadhna(rec, req)

	env := decodeEnvelope(t, rec)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid date, expected YYYY-MM-DD", env.Message)
}

func TestCreateSadhna_BookNameRequiredWhenReading(t *testing.T) {
	handler := NewSadhanaHandler(&MockSadhanaService{})

	req := withClaims(httptest.NewRequest(http.MethodPost, "/sadhna/create-sadhna", jsonBody(t, CreateSadhnaRequest{
		DidReadBook:    true,
		ReadingMinutes: 30,
	})), "user_1")
	rec := httptest.NewRecorder()

	handler.CreateSadhna(rec, req)

	decodeEnvelope(t, rec)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateSadhna_Unauthorized(t *testing.T) {
	handler := NewSadhanaHandler(&MockSadhanaService{})

	req := httptest.NewRequest(http.MethodPost, "/sadhna/create-sadhna", jsonBody(t, CreateSadhnaRequest{}))
	rec := httptest.NewRecorder()

	handler.CreateSadhna(rec, req)

	decodeEnvelope(t, rec)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetSadhna_Success(t *testing.T) {
	service := &MockSadhanaService{
		ListEntriesFunc: func(ctx context.Context, userID string) ([]*services.SadhanaEntryResponse, error) {
			assert.Equal(t, "user_1", userID)
			return []*services.SadhanaEntryResponse{
				{ID: "entry_2", Date: "2026-09-01", ChantingRounds: 16},
				{ID: "entry_1", Date: "2026-08-31", ChantingRounds: 12},
			}, nil
		},
	}
	handler := NewSadhanaHandler(service)

	req := withClaims(httptest.NewRequest(http.MethodGet, "/sadhna/get-sadhna", nil), "user_1")
	rec := httptest.NewRecorder()

	handler.GetSadhna(rec, req)

	env := decodeEnvelope(t, rec)
	assert.Equal(t, http.StatusOK, rec.Code)

	var entries []*services.SadhanaEntryResponse
	require.NoError(t, json.Unmarshal(env.Data, &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "entry_2", entries[0].ID)
}

func TestCheckDailyGoals_NotFilled(t *testing.T) {
	service := &MockSadhanaService{
		CheckDailyGoalsFunc: func(ctx context.Context, userID string) (*services.GoalStatusResponse, error) {
			return &services.GoalStatusResponse{Filled: false}, models.ErrNotFound
		},
	}
	handler := NewSadhanaHandler(service)

	req := withClaims(httptest.NewRequest(http.MethodGet, "/sadhna/check-daily-goals", nil), "user_1")
	rec := httptest.NewRecorder()

	handler.CheckDailyGoals(rec, req)

	env := decodeEnvelope(t, rec)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Goals not filled for this month", env.Message)

	var status services.GoalStatusResponse
	require.NoError(t, json.Unmarshal(env.Data, &status))
	assert.False(t, status.Filled)
}

func TestCheckDailyGoals_Filled(t *testing.T) {
	service := &MockSadhanaService{
		CheckDailyGoalsFunc: func(ctx context.Context, userID string) (*services.GoalStatusResponse, error) {
			return &services.GoalStatusResponse{
				Filled: true,
				Goal:   &models.MonthlyGoal{ID: "goal_1", UserID: userID, Year: 2026, Month: 9, RoundsOfChanting: 16},
			}, nil
		},
	}
	handler := NewSadhanaHandler(service)

	req := withClaims(httptest.NewRequest(http.MethodGet, "/sadhna/check-daily-goals", nil), "user_1")
	rec := httptest.NewRecorder()

	handler.CheckDailyGoals(rec, req)

	env := decodeEnvelope(t, rec)
	assert.Equal(t, http.StatusOK, rec.Code)

	var status services.GoalStatusResponse
	require.NoError(t, json.Unmarshal(env.Data, &status))
	assert.True(t, status.Filled)
	require.NotNil(t, status.Goal)
	assert.Equal(t, 16, status.Goal.RoundsOfChanting)
}

func TestSetDailyGoals_Success(t *testing.T) {
	service := &MockSadhanaService{
		SetDailyGoalsFunc: func(ctx context.Context, userID string, goal *models.MonthlyGoal) (*models.MonthlyGoal, error) {
			assert.Equal(t, "user_1", userID)
			assert.Equal(t, 16, goal.RoundsOfChanting)
			goal.ID = "goal_1"
			goal.UserID = userID
			goal.Year = 2026
			goal.Month = 9
			return goal, nil
		},
	}
	handler := NewSadhanaHandler(service)

	req := withClaims(httptest.NewRequest(http.MethodPut, "/sadhna/set-daily-goals", jsonBody(t, map[string]any{
		"roundsOfChanting":    16,
		"attendMorningPrayer": true,
		"watchLectureMinutes": 0,
		"readBookMinutes":     30,
	})), "user_1")
	rec := httptest.NewRecorder()

	handler.SetDailyGoals(rec, req)

	env := decodeEnvelope(t, rec)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Goals saved successfully", env.Message)
}

func TestSetDailyGoals_NegativeRounds(t *testing.T) {
	handler := NewSadhanaHandler(&MockSadhanaService{})

	req := withClaims(httptest.NewRequest(http.MethodPut, "/sadhna/set-daily-goals", jsonBody(t, map[string]any{
		"roundsOfChanting":    -1,
		"attendMorningPrayer": false,
		"watchLectureMinutes": 30,
		"readBookMinutes":     30,
	})), "user_1")
	rec := httptest.NewRecorder()

	handler.SetDailyGoals(rec, req)

	decodeEnvelope(t, rec)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSetDailyGoals_EmptyBodyRejected(t *testing.T) {
	called := false
	service := &MockSadhanaService{
		SetDailyGoalsFunc: func(ctx context.Context, userID string, goal *models.MonthlyGoal) (*models.MonthlyGoal, error) {
			called = true
			return goal, nil
		},
	}
	handler := NewSadhanaHandler(service)

	req := withClaims(httptest.NewRequest(http.MethodPut, "/sadhna/set-daily-goals", jsonBody(t, map[string]any{})), "user_1")
	rec := httptest.NewRecorder()

	handler.SetDailyGoals(rec, req)

	decodeEnvelope(t, rec)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, called, "omitted goal fields must not be persisted as zeros")
}

func TestSetDailyGoals_PartialBodyRejected(t *testing.T) {
	handler := NewSadhanaHandler(&MockSadhanaService{})

	// readBookMinutes missing
	req := withClaims(httptest.NewRequest(http.MethodPut, "/sadhna/set-daily-goals", jsonBody(t, map[string]any{
		"roundsOfChanting":    16,
		"attendMorningPrayer": true,
		"watchLectureMinutes": 30,
	})), "user_1")
	rec := httptest.NewRecorder()

	handler.SetDailyGoals(rec, req)

	decodeEnvelope(t, rec)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSetDailyGoals_FalsePrayerGoalAccepted(t *testing.T) {
	var seen *models.MonthlyGoal
	service := &MockSadhanaService{
		SetDailyGoalsFunc: func(ctx context.Context, userID string, goal *models.MonthlyGoal) (*models.MonthlyGoal, error) {
			seen = goal
			return goal, nil
		},
	}
	handler := NewSadhanaHandler(service)

	// An explicit false is a valid goal, unlike an omitted field
	req := withClaims(httptest.NewRequest(http.MethodPut, "/sadhna/set-daily-goals", jsonBody(t, map[string]any{
		"roundsOfChanting":    8,
		"attendMorningPrayer": false,
		"watchLectureMinutes": 30,
		"readBookMinutes":     45,
	})), "user_1")
	rec := httptest.NewRecorder()

	handler.SetDailyGoals(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen)
	assert.False(t, seen.AttendMorningPrayer)
	assert.Equal(t, 8, seen.RoundsOfChanting)
}
