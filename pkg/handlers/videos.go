package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/ASHISH26940/ai-video-studio-api/pkg/api"
	"github.com/ASHISH26940/ai-video-studio-api/pkg/db"
	"github.com/ASHISH26940/ai-video-studio-api/pkg/db/queries"
	"github.com/ASHISH26940/ai-video-studio-api/pkg/generation"
	"github.com/ASHISH26940/ai-video-studio-api/pkg/utils"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

const videoNotFound = "Video not found"

func newVideoResponse(video *db.Video) api.VideoResponse {
	resp := api.VideoResponse{
		ID:        video.ID,
		UserID:    video.UserID,
		Title:     video.Title,
		Prompt:    video.Prompt,
		Status:    string(video.Status),
		CreatedAt: video.CreatedAt,
	}
	if video.VideoURL.Valid {
		url := video.VideoURL.String
		resp.VideoURL = &url
	}
	if video.Duration.Valid {
		duration := video.Duration.Int64
		resp.Duration = &duration
	}
	return resp
}

// SubmitVideo stores a pending video and queues its generation. The response
// is sent as soon as the task is queued; callers poll GetVideoByID for the
// outcome.
func (h *Handlers) SubmitVideo(c *gin.Context) {
	var req api.SubmitVideoRequest
	if !bindJSON(c, &req, "SubmitVideo") {
		return
	}
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		log.Warn("SubmitVideo: Empty prompt.")
		utils.ResponseWithError(c, http.StatusInternalServerError, "prompt must not be empty")
		return
	}
	userID, ok := resolveOwner(c, req.UserID, "SubmitVideo")
	if !ok {
		return
	}

	video := &db.Video{
		UserID: userID,
		Title:  strings.TrimSpace(req.Title),
		Prompt: prompt,
	}

	created, err := queries.CreateVideo(c.Request.Context(), video)
	if err != nil {
		log.Errorf("SubmitVideo: Failed to create video for user %d: %v", userID, err)
		utils.ResponseWithError(c, http.StatusInternalServerError, "Failed to create video")
		return
	}

	// A queueing failure has already moved the row to failed; the submission
	// itself succeeded and the caller sees the outcome by polling.
	if _, err := h.Generator.Submit(c.Request.Context(), generation.Job{VideoID: created.ID, Prompt: created.Prompt}); err != nil {
		log.Errorf("SubmitVideo: Failed to queue generation for video %d: %v", created.ID, err)
	}

	log.Infof("Video %d submitted for user %d.", created.ID, userID)
	utils.ResponseWithSuccess(c, http.StatusCreated, api.SubmitVideoResponse{
		VideoResponse: newVideoResponse(created),
		Message:       "Video generation started",
	})
}

// GetVideoByID returns the current state of a video; clients poll it until
// the status is terminal.
func GetVideoByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "GetVideoByID", videoNotFound)
	if !ok {
		return
	}

	video, err := queries.FindVideoByID(c.Request.Context(), id)
	if err != nil {
		log.Errorf("GetVideoByID: Failed to fetch video %d: %v", id, err)
		utils.ResponseWithError(c, http.StatusInternalServerError, "Failed to retrieve video")
		return
	}
	if video == nil {
		utils.ResponseWithError(c, http.StatusNotFound, videoNotFound)
		return
	}
	utils.ResponseWithSuccess(c, http.StatusOK, newVideoResponse(video))
}

func GetVideosByUserID(c *gin.Context) {
	userID, ok := parseIDParam(c, "userId", "GetVideosByUserID", userNotFound)
	if !ok {
		return
	}

	videos, err := queries.FindVideosByUserID(c.Request.Context(), userID)
	if err != nil {
		log.Errorf("GetVideosByUserID: Failed to fetch videos for user %d: %v", userID, err)
		utils.ResponseWithError(c, http.StatusInternalServerError, "Failed to retrieve videos")
		return
	}

	out := make([]api.VideoResponse, len(videos))
	for i := range videos {
		out[i] = newVideoResponse(&videos[i])
	}
	utils.ResponseWithSuccess(c, http.StatusOK, out)
}

func UpdateVideo(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "UpdateVideo", videoNotFound)
	if !ok {
		return
	}

	var req api.UpdateVideoRequest
	if !bindJSON(c, &req, "UpdateVideo") {
		return
	}

	video, err := queries.UpdateVideo(c.Request.Context(), id, queries.VideoUpdate{
		Title:  req.Title,
		Prompt: req.Prompt,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			utils.ResponseWithError(c, http.StatusNotFound, videoNotFound)
			return
		}
		log.Errorf("UpdateVideo: Failed to update video %d: %v", id, err)
		utils.ResponseWithError(c, http.StatusInternalServerError, "Failed to update video")
		return
	}
	utils.ResponseWithSuccess(c, http.StatusOK, newVideoResponse(video))
}

func DeleteVideo(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "DeleteVideo", videoNotFound)
	if !ok {
		return
	}

	if err := queries.DeleteVideo(c.Request.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			utils.ResponseWithError(c, http.StatusNotFound, videoNotFound)
			return
		}
		log.Errorf("DeleteVideo: Failed to delete video %d: %v", id, err)
		utils.ResponseWithError(c, http.StatusInternalServerError, "Failed to delete video")
		return
	}
	utils.ResponseWithMessage(c, http.StatusOK, "Video deleted successfully")
}
