package models

import (
	"time"
)

// SadhanaEntry is one user's recorded devotional activity for one calendar
// day. At most one entry exists per (user, day).
type SadhanaEntry struct {
	ID     string
	UserID string
	Date   time.Time // Calendar day, time component ignored

	AttendedMorningPrayer bool
	MinutesLate           int

	StudyHours     float64
	ChantingRounds int

	DidReadBook    bool
	BookName       string
	ReadingMinutes int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// MonthlyGoal is one user's target devotional metrics for one calendar
// month. At most one document exists per (user, year, month).
type MonthlyGoal struct {
	ID                  string
	UserID              string
	Year                int
	Month               int // 1–12
	RoundsOfChanting    int
	AttendMorningPrayer bool
	WatchLectureMinutes int
	ReadBookMinutes     int
	FilledAt            time.Time
}
