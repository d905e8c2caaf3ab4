package models

import (
	"time"
)

// EkadashiRounds is a count of chanting rounds logged by a user during an
// Ekadashi observance. Entries feed the live leaderboard and are purged in
// bulk by an administrator after the festival.
type EkadashiRounds struct {
	ID        string
	UserID    string
	Rounds    int // Always >= 1
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RoundsWithUser is one logged batch joined with its owner's name.
type RoundsWithUser struct {
	UserID    string
	FirstName string
	LastName  string
	Rounds    int
}

// LeaderboardRow is one user's aggregated total on the Ekadashi scoreboard.
type LeaderboardRow struct {
	UserID    string `json:"-"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Rounds    int64  `json:"rounds"`
}
