// Package api holds the JSON request and response bodies of the REST surface.
// It depends on nothing but the standard library so HTTP clients can share
// the types without pulling in the server.
package api

import (
	"encoding/json"
	"time"
)

// Video statuses as they appear on the wire.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// IsTerminalStatus reports whether a video in this status can still change.
func IsTerminalStatus(status string) bool {
	return status == StatusCompleted || status == StatusFailed
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse is the body of a successful request that returns no resource.
type MessageResponse struct {
	Message string `json:"message"`
}

type CreateUserRequest struct {
	Username            string `json:"username" binding:"required,max=255"`
	Email               string `json:"email" binding:"required,max=255"`
	ThemePreference     string `json:"theme_preference" binding:"max=20"`
	OnboardingCompleted bool   `json:"onboarding_completed"`
}

// UpdateUserRequest uses pointers so omitted fields keep their stored value.
type UpdateUserRequest struct {
	Username            *string `json:"username" binding:"omitempty,min=1,max=255"`
	Email               *string `json:"email" binding:"omitempty,min=1,max=255"`
	ThemePreference     *string `json:"theme_preference" binding:"omitempty,min=1,max=20"`
	OnboardingCompleted *bool   `json:"onboarding_completed"`
}

type UserResponse struct {
	ID                  int64     `json:"id"`
	Username            string    `json:"username"`
	Email               string    `json:"email"`
	ThemePreference     string    `json:"theme_preference"`
	OnboardingCompleted bool      `json:"onboarding_completed"`
	CreatedAt           time.Time `json:"created_at"`
}

type CreateUserResponse struct {
	UserResponse
	Token   string `json:"token"`
	Message string `json:"message"`
}

type SessionResponse struct {
	UserID    int64      `json:"user_id"`
	Username  string     `json:"username"`
	Token     string     `json:"token,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

type CreateIconRequest struct {
	UserID    *int64 `json:"user_id"`
	IconName  string `json:"icon_name" binding:"required,max=255"`
	IconClass string `json:"icon_class" binding:"required,max=255"`
	Color     string `json:"color" binding:"max=20"`
	Size      string `json:"size" binding:"max=20"`
	Style     string `json:"style" binding:"max=50"`
}

type UpdateIconRequest struct {
	IconName  *string `json:"icon_name" binding:"omitempty,min=1,max=255"`
	IconClass *string `json:"icon_class" binding:"omitempty,min=1,max=255"`
	Color     *string `json:"color" binding:"omitempty,min=1,max=20"`
	Size      *string `json:"size" binding:"omitempty,min=1,max=20"`
	Style     *string `json:"style" binding:"omitempty,min=1,max=50"`
}

type IconResponse struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	IconName  string    `json:"icon_name"`
	IconClass string    `json:"icon_class"`
	Color     string    `json:"color"`
	Size      string    `json:"size"`
	Style     string    `json:"style"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateIconResponse struct {
	IconResponse
	Message string `json:"message"`
}

// SubmitVideoRequest defines a new video generation request.
type SubmitVideoRequest struct {
	UserID *int64 `json:"user_id"`
	Title  string `json:"title" binding:"required,max=255"`
	Prompt string `json:"prompt" binding:"required"`
}

// UpdateVideoRequest edits the descriptive fields of a video. Status and the
// generated asset are managed by the generation workflow only.
type UpdateVideoRequest struct {
	Title  *string `json:"title" binding:"omitempty,min=1,max=255"`
	Prompt *string `json:"prompt" binding:"omitempty,min=1"`
}

// VideoResponse omits video_url and duration until the video is completed.
type VideoResponse struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Title     string    `json:"title"`
	Prompt    string    `json:"prompt"`
	Status    string    `json:"status"`
	VideoURL  *string   `json:"video_url,omitempty"`
	Duration  *int64    `json:"duration,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type SubmitVideoResponse struct {
	VideoResponse
	Message string `json:"message"`
}

// TrackEventRequest records one client-side event. EventData is stored as-is.
type TrackEventRequest struct {
	UserID    *int64          `json:"user_id"`
	EventType string          `json:"event_type" binding:"required,max=100"`
	EventData json.RawMessage `json:"event_data"`
}

type TrackEventResponse struct {
	ID      int64  `json:"id"`
	Message string `json:"message"`
}

type AnalyticsEventResponse struct {
	ID        int64           `json:"id"`
	UserID    *int64          `json:"user_id"`
	EventType string          `json:"event_type"`
	EventData json.RawMessage `json:"event_data"`
	CreatedAt time.Time       `json:"created_at"`
}

type EventTypeCountResponse struct {
	EventType string `json:"event_type"`
	Count     int64  `json:"count"`
}
