package db

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx/types"
)

// VideoStatus is the lifecycle state of a video generation request.
type VideoStatus string

const (
	VideoStatusPending    VideoStatus = "pending"
	VideoStatusProcessing VideoStatus = "processing"
	VideoStatusCompleted  VideoStatus = "completed"
	VideoStatusFailed     VideoStatus = "failed"
)

// Valid reports whether s is one of the four known statuses.
func (s VideoStatus) Valid() bool {
	switch s {
	case VideoStatusPending, VideoStatusProcessing, VideoStatusCompleted, VideoStatusFailed:
		return true
	}
	return false
}

// Terminal reports whether no further transition can leave s.
func (s VideoStatus) Terminal() bool {
	return s == VideoStatusCompleted || s == VideoStatusFailed
}

// ErrStatusConflict is returned when a guarded status update finds the row
// in a different state than the one it expected.
var ErrStatusConflict = errors.New("video status changed concurrently")

type User struct {
	ID                  int64     `db:"id"`
	Username            string    `db:"username"`
	Email               string    `db:"email"`
	ThemePreference     string    `db:"theme_preference"` // "light" or "dark"
	OnboardingCompleted bool      `db:"onboarding_completed"`
	CreatedAt           time.Time `db:"created_at"`
}

type Icon struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	IconName  string    `db:"icon_name"`
	IconClass string    `db:"icon_class"` // CSS class string, e.g. "fa-solid fa-star"
	Color     string    `db:"color"`
	Size      string    `db:"size"` // small, medium, large
	Style     string    `db:"style"`
	CreatedAt time.Time `db:"created_at"`
}

type Video struct {
	ID        int64          `db:"id"`
	UserID    int64          `db:"user_id"`
	Title     string         `db:"title"`
	Prompt    string         `db:"prompt"`
	Status    VideoStatus    `db:"status"`
	VideoURL  sql.NullString `db:"video_url"` // set only once status is completed
	Duration  sql.NullInt64  `db:"duration"`  // seconds
	CreatedAt time.Time      `db:"created_at"`
}

type AnalyticsEvent struct {
	ID        int64          `db:"id"`
	UserID    sql.NullInt64  `db:"user_id"`
	EventType string         `db:"event_type"`
	EventData types.JSONText `db:"event_data"`
	CreatedAt time.Time      `db:"created_at"`
}

// EventTypeCount is one row of the analytics summary.
type EventTypeCount struct {
	EventType string `db:"event_type"`
	Count     int64  `db:"count"`
}
