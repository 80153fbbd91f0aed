package queries

import (
	"context"
	"fmt"

	"github.com/ASHISH26940/ai-video-studio-api/pkg/db"
	log "github.com/sirupsen/logrus"
)

const analyticsColumns = `id, user_id, event_type, event_data, created_at`

// CreateAnalyticsEvent appends an event. Analytics rows are never updated or
// deleted through the API.
func CreateAnalyticsEvent(ctx context.Context, event *db.AnalyticsEvent) (*db.AnalyticsEvent, error) {
	if len(event.EventData) == 0 {
		event.EventData = []byte(`{}`)
	}

	query := `
		INSERT INTO analytics (user_id, event_type, event_data)
		VALUES (:user_id, :event_type, :event_data)
		RETURNING id, created_at`

	rows, err := db.DB.NamedQueryContext(ctx, query, event)
	if err != nil {
		log.Errorf("Error tracking analytics event: %v", err)
		return nil, fmt.Errorf("failed to track event: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		log.Error("No rows returned after analytics insert.")
		return nil, fmt.Errorf("no rows returned after analytics insert")
	}
	if err := rows.StructScan(event); err != nil {
		log.Errorf("Error scanning analytics event after insert: %v", err)
		return nil, fmt.Errorf("error scanning event after insert: %w", err)
	}

	log.Debugf("Analytics event '%s' tracked (ID: %d)", event.EventType, event.ID)
	return event, nil
}

// FindAnalyticsByUserID lists a user's events, newest first.
func FindAnalyticsByUserID(ctx context.Context, userID int64) ([]db.AnalyticsEvent, error) {
	events := []db.AnalyticsEvent{}
	query := `SELECT ` + analyticsColumns + ` FROM analytics WHERE user_id = $1 ORDER BY created_at DESC, id DESC`
	if err := db.DB.SelectContext(ctx, &events, query, userID); err != nil {
		log.Errorf("Error finding analytics for user ID '%d': %v", userID, err)
		return nil, fmt.Errorf("error finding analytics by user ID: %w", err)
	}
	return events, nil
}

// AnalyticsSummary counts events per event type across all users, largest
// count first.
func AnalyticsSummary(ctx context.Context) ([]db.EventTypeCount, error) {
	summary := []db.EventTypeCount{}
	query := `
		SELECT event_type, COUNT(*) AS count
		FROM analytics
		GROUP BY event_type
		ORDER BY count DESC, event_type ASC`
	if err := db.DB.SelectContext(ctx, &summary, query); err != nil {
		log.Errorf("Error building analytics summary: %v", err)
		return nil, fmt.Errorf("error building analytics summary: %w", err)
	}
	return summary, nil
}
