package queries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ASHISH26940/ai-video-studio-api/pkg/db"
	log "github.com/sirupsen/logrus"
)

const videoColumns = `id, user_id, title, prompt, status, video_url, duration, created_at`

// VideoUpdate carries user-editable video fields. Status, URL and duration are
// owned by the generation workflow and cannot be changed here.
type VideoUpdate struct {
	Title  *string
	Prompt *string
}

// CreateVideo inserts a video request in the pending state.
func CreateVideo(ctx context.Context, video *db.Video) (*db.Video, error) {
	video.Status = db.VideoStatusPending
	video.VideoURL = sql.NullString{}
	video.Duration = sql.NullInt64{}

	query := `
		INSERT INTO videos (user_id, title, prompt, status)
		VALUES (:user_id, :title, :prompt, :status)
		RETURNING id, created_at`

	rows, err := db.DB.NamedQueryContext(ctx, query, video)
	if err != nil {
		log.Errorf("Error creating video: %v", err)
		return nil, fmt.Errorf("failed to create video: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		log.Error("No rows returned after video creation.")
		return nil, fmt.Errorf("no rows returned after video creation")
	}
	if err := rows.StructScan(video); err != nil {
		log.Errorf("Error scanning video data after creation: %v", err)
		return nil, fmt.Errorf("error scanning video after creation: %w", err)
	}

	log.Infof("Video '%s' created for user ID: %d (ID: %d)", video.Title, video.UserID, video.ID)
	return video, nil
}

// FindVideoByID returns nil, nil when the video does not exist.
func FindVideoByID(ctx context.Context, id int64) (*db.Video, error) {
	video := &db.Video{}
	query := `SELECT ` + videoColumns + ` FROM videos WHERE id = $1`
	if err := db.DB.GetContext(ctx, video, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debugf("Video with ID '%d' not found.", id)
			return nil, nil
		}
		log.Errorf("Error finding video by ID '%d': %v", id, err)
		return nil, fmt.Errorf("error finding video by ID: %w", err)
	}
	return video, nil
}

// FindVideosByUserID lists a user's videos, newest first.
func FindVideosByUserID(ctx context.Context, userID int64) ([]db.Video, error) {
	videos := []db.Video{}
	query := `SELECT ` + videoColumns + ` FROM videos WHERE user_id = $1 ORDER BY created_at DESC, id DESC`
	if err := db.DB.SelectContext(ctx, &videos, query, userID); err != nil {
		log.Errorf("Error finding videos for user ID '%d': %v", userID, err)
		return nil, fmt.Errorf("error finding videos by user ID: %w", err)
	}
	return videos, nil
}

// UpdateVideo returns sql.ErrNoRows when the video does not exist.
func UpdateVideo(ctx context.Context, id int64, upd VideoUpdate) (*db.Video, error) {
	video := &db.Video{}
	query := `
		UPDATE videos
		SET title = COALESCE($2, title),
		    prompt = COALESCE($3, prompt)
		WHERE id = $1
		RETURNING ` + videoColumns

	if err := db.DB.GetContext(ctx, video, query, id, upd.Title, upd.Prompt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Warnf("No video found with ID '%d' for update.", id)
			return nil, sql.ErrNoRows
		}
		log.Errorf("Error updating video with ID '%d': %v", id, err)
		return nil, fmt.Errorf("failed to update video: %w", err)
	}

	log.Infof("Video with ID '%d' updated.", id)
	return video, nil
}

// DeleteVideo returns sql.ErrNoRows when nothing was deleted.
func DeleteVideo(ctx context.Context, id int64) error {
	return deleteByID(ctx, "videos", id)
}

// MarkVideoProcessing moves a pending video to processing. It returns
// db.ErrStatusConflict when the row is no longer pending, which is how a
// duplicate generation task for the same video is detected.
func MarkVideoProcessing(ctx context.Context, id int64) error {
	query := `UPDATE videos SET status = $2 WHERE id = $1 AND status = $3`
	return execTransition(ctx, id, db.VideoStatusProcessing, query, id, db.VideoStatusProcessing, db.VideoStatusPending)
}

// MarkVideoCompleted sets status, URL and duration in one statement, guarded on
// the row still being in processing.
func MarkVideoCompleted(ctx context.Context, id int64, videoURL string, duration int64) error {
	query := `
		UPDATE videos
		SET status = $2, video_url = $3, duration = $4
		WHERE id = $1 AND status = $5`
	return execTransition(ctx, id, db.VideoStatusCompleted, query, id, db.VideoStatusCompleted, videoURL, duration, db.VideoStatusProcessing)
}

// MarkVideoFailed moves a non-terminal video to failed and clears any asset
// fields.
func MarkVideoFailed(ctx context.Context, id int64) error {
	query := `
		UPDATE videos
		SET status = $2, video_url = NULL, duration = NULL
		WHERE id = $1 AND status IN ($3, $4)`
	return execTransition(ctx, id, db.VideoStatusFailed, query, id, db.VideoStatusFailed, db.VideoStatusPending, db.VideoStatusProcessing)
}

// FailAbandonedVideos fails every video still pending or processing. It runs at
// startup: any such row belonged to a generation task of a previous process.
func FailAbandonedVideos(ctx context.Context) (int64, error) {
	query := `
		UPDATE videos
		SET status = $1, video_url = NULL, duration = NULL
		WHERE status IN ($2, $3)`
	result, err := db.DB.ExecContext(ctx, query, db.VideoStatusFailed, db.VideoStatusPending, db.VideoStatusProcessing)
	if err != nil {
		log.Errorf("Error failing abandoned videos: %v", err)
		return 0, fmt.Errorf("fail abandoned videos: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n > 0 {
		log.Warnf("Marked %d abandoned video(s) as failed.", n)
	}
	return n, nil
}

func execTransition(ctx context.Context, id int64, to db.VideoStatus, query string, args ...any) error {
	result, err := db.DB.ExecContext(ctx, query, args...)
	if err != nil {
		log.Errorf("Error moving video '%d' to %s: %v", id, to, err)
		return fmt.Errorf("failed to set video status to %s: %w", to, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if rowsAffected == 0 {
		log.Warnf("Video '%d' was not in a state that allows moving to %s.", id, to)
		return db.ErrStatusConflict
	}

	log.WithFields(log.Fields{"video_id": id, "status": to}).Info("Video status updated.")
	return nil
}

// VideoStatusStore exposes the guarded status transitions to the generation
// dispatcher.
type VideoStatusStore struct{}

func (VideoStatusStore) MarkProcessing(ctx context.Context, id int64) error {
	return MarkVideoProcessing(ctx, id)
}

func (VideoStatusStore) MarkCompleted(ctx context.Context, id int64, videoURL string, duration int64) error {
	return MarkVideoCompleted(ctx, id, videoURL, duration)
}

func (VideoStatusStore) MarkFailed(ctx context.Context, id int64) error {
	return MarkVideoFailed(ctx, id)
}
