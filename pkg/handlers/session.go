package handlers

import (
	"net/http"

	"github.com/ASHISH26940/ai-video-studio-api/pkg/api"
	"github.com/ASHISH26940/ai-video-studio-api/pkg/db/queries"
	"github.com/ASHISH26940/ai-video-studio-api/pkg/middleware"
	"github.com/ASHISH26940/ai-video-studio-api/pkg/utils"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// CreateUserSession issues a fresh session token for an existing user.
func (h *Handlers) CreateUserSession(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "CreateUserSession", userNotFound)
	if !ok {
		return
	}

	user, err := queries.FindUserByID(c.Request.Context(), id)
	if err != nil {
		log.Errorf("CreateUserSession: Failed to fetch user %d: %v", id, err)
		utils.ResponseWithError(c, http.StatusInternalServerError, "Failed to retrieve user")
		return
	}
	if user == nil {
		utils.ResponseWithError(c, http.StatusNotFound, userNotFound)
		return
	}

	token, err := h.Sessions.GenerateToken(user.ID, user.Username)
	if err != nil {
		log.Errorf("CreateUserSession: Failed to issue session for user %d: %v", id, err)
		utils.ResponseWithError(c, http.StatusInternalServerError, "Failed to issue session")
		return
	}

	utils.ResponseWithSuccess(c, http.StatusCreated, api.SessionResponse{
		UserID:   user.ID,
		Username: user.Username,
		Token:    token,
	})
}

// GetSession echoes the session bound to the request.
func GetSession(c *gin.Context) {
	claims, ok := middleware.GetSessionFromContext(c)
	if !ok {
		utils.ResponseWithError(c, http.StatusUnauthorized, "No active session")
		return
	}

	resp := api.SessionResponse{UserID: claims.UserID, Username: claims.Username}
	if claims.ExpiresAt != nil {
		expiresAt := claims.ExpiresAt.Time
		resp.ExpiresAt = &expiresAt
	}
	utils.ResponseWithSuccess(c, http.StatusOK, resp)
}
