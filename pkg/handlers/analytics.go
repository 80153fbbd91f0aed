package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/ASHISH26940/ai-video-studio-api/pkg/api"
	"github.com/ASHISH26940/ai-video-studio-api/pkg/db"
	"github.com/ASHISH26940/ai-video-studio-api/pkg/db/queries"
	"github.com/ASHISH26940/ai-video-studio-api/pkg/middleware"
	"github.com/ASHISH26940/ai-video-studio-api/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx/types"
	log "github.com/sirupsen/logrus"
)

func newAnalyticsEventResponse(event *db.AnalyticsEvent) api.AnalyticsEventResponse {
	resp := api.AnalyticsEventResponse{
		ID:        event.ID,
		EventType: event.EventType,
		EventData: json.RawMessage(event.EventData),
		CreatedAt: event.CreatedAt,
	}
	if event.UserID.Valid {
		userID := event.UserID.Int64
		resp.UserID = &userID
	}
	if len(resp.EventData) == 0 {
		resp.EventData = json.RawMessage(`{}`)
	}
	return resp
}

// TrackEvent appends an analytics event. The user is optional: anonymous
// events are stored without one.
func TrackEvent(c *gin.Context) {
	var req api.TrackEventRequest
	if !bindJSON(c, &req, "TrackEvent") {
		return
	}

	event := &db.AnalyticsEvent{
		EventType: strings.TrimSpace(req.EventType),
		EventData: types.JSONText(req.EventData),
	}
	if string(req.EventData) == "null" {
		event.EventData = nil
	}
	switch {
	case req.UserID != nil && *req.UserID > 0:
		event.UserID = sql.NullInt64{Int64: *req.UserID, Valid: true}
	default:
		if claims, ok := middleware.GetSessionFromContext(c); ok {
			event.UserID = sql.NullInt64{Int64: claims.UserID, Valid: true}
		}
	}

	created, err := queries.CreateAnalyticsEvent(c.Request.Context(), event)
	if err != nil {
		log.Errorf("TrackEvent: Failed to track '%s' event: %v", event.EventType, err)
		utils.ResponseWithError(c, http.StatusInternalServerError, "Failed to track event")
		return
	}

	utils.ResponseWithSuccess(c, http.StatusCreated, api.TrackEventResponse{
		ID:      created.ID,
		Message: "Event tracked successfully",
	})
}

// GetAnalyticsByUser returns a user's event history, newest first.
func GetAnalyticsByUser(c *gin.Context) {
	userID, ok := parseIDParam(c, "userId", "GetAnalyticsByUser", userNotFound)
	if !ok {
		return
	}

	events, err := queries.FindAnalyticsByUserID(c.Request.Context(), userID)
	if err != nil {
		log.Errorf("GetAnalyticsByUser: Failed to fetch analytics for user %d: %v", userID, err)
		utils.ResponseWithError(c, http.StatusInternalServerError, "Failed to retrieve analytics")
		return
	}

	out := make([]api.AnalyticsEventResponse, len(events))
	for i := range events {
		out[i] = newAnalyticsEventResponse(&events[i])
	}
	utils.ResponseWithSuccess(c, http.StatusOK, out)
}

// GetAnalyticsSummary returns event counts per type, most frequent first.
func GetAnalyticsSummary(c *gin.Context) {
	summary, err := queries.AnalyticsSummary(c.Request.Context())
	if err != nil {
		log.Errorf("GetAnalyticsSummary: Failed to build summary: %v", err)
		utils.ResponseWithError(c, http.StatusInternalServerError, "Failed to retrieve analytics summary")
		return
	}

	out := make([]api.EventTypeCountResponse, len(summary))
	for i, row := range summary {
		out[i] = api.EventTypeCountResponse{EventType: row.EventType, Count: row.Count}
	}
	utils.ResponseWithSuccess(c, http.StatusOK, out)
}
