package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/ASHISH26940/ai-video-studio-api/pkg/generation"
	"github.com/ASHISH26940/ai-video-studio-api/pkg/middleware"
	"github.com/ASHISH26940/ai-video-studio-api/pkg/services"
	"github.com/ASHISH26940/ai-video-studio-api/pkg/utils"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// Submitter queues a stored video for background generation.
type Submitter interface {
	Submit(ctx context.Context, job generation.Job) (*generation.Task, error)
}

// Handlers holds the dependencies of the endpoints that need more than the
// database.
type Handlers struct {
	Sessions  *services.SessionService
	Generator Submitter
}

func NewHandlers(sessions *services.SessionService, generator Submitter) *Handlers {
	return &Handlers{
		Sessions:  sessions,
		Generator: generator,
	}
}

// parseIDParam reads a numeric path parameter. A malformed identifier cannot
// name a row, so it is answered as not found.
func parseIDParam(c *gin.Context, param, handler, notFound string) (int64, bool) {
	raw := c.Param(param)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		log.Debugf("%s: Invalid %s '%s'.", handler, param, raw)
		utils.ResponseWithError(c, http.StatusNotFound, notFound)
		return 0, false
	}
	return id, true
}

// bindJSON binds and validates the request body. Validation failures are not
// distinguished from server failures and answer 500.
func bindJSON(c *gin.Context, req interface{}, handler string) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		log.Warnf("%s: Invalid request body: %v", handler, err)
		utils.ResponseWithError(c, http.StatusInternalServerError, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

// resolveOwner picks the owning user for a new resource: the explicit body
// value if present, otherwise the caller's session.
func resolveOwner(c *gin.Context, bodyUserID *int64, handler string) (int64, bool) {
	if bodyUserID != nil && *bodyUserID > 0 {
		return *bodyUserID, true
	}
	if claims, ok := middleware.GetSessionFromContext(c); ok {
		return claims.UserID, true
	}
	log.Warnf("%s: No user_id in body and no session on request.", handler)
	utils.ResponseWithError(c, http.StatusInternalServerError, "user_id is required")
	return 0, false
}
