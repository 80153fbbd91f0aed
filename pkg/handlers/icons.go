package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/ASHISH26940/ai-video-studio-api/pkg/api"
	"github.com/ASHISH26940/ai-video-studio-api/pkg/db"
	"github.com/ASHISH26940/ai-video-studio-api/pkg/db/queries"
	"github.com/ASHISH26940/ai-video-studio-api/pkg/utils"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

const iconNotFound = "Icon not found"

func newIconResponse(icon *db.Icon) api.IconResponse {
	return api.IconResponse{
		ID:        icon.ID,
		UserID:    icon.UserID,
		IconName:  icon.IconName,
		IconClass: icon.IconClass,
		Color:     icon.Color,
		Size:      icon.Size,
		Style:     icon.Style,
		CreatedAt: icon.CreatedAt,
	}
}

func CreateIcon(c *gin.Context) {
	var req api.CreateIconRequest
	if !bindJSON(c, &req, "CreateIcon") {
		return
	}
	userID, ok := resolveOwner(c, req.UserID, "CreateIcon")
	if !ok {
		return
	}

	icon := &db.Icon{
		UserID:    userID,
		IconName:  strings.TrimSpace(req.IconName),
		IconClass: strings.TrimSpace(req.IconClass),
		Color:     strings.TrimSpace(req.Color),
		Size:      req.Size,
		Style:     strings.TrimSpace(req.Style),
	}

	created, err := queries.CreateIcon(c.Request.Context(), icon)
	if err != nil {
		log.Errorf("CreateIcon: Failed to create icon for user %d: %v", userID, err)
		utils.ResponseWithError(c, http.StatusInternalServerError, "Failed to create icon")
		return
	}

	utils.ResponseWithSuccess(c, http.StatusCreated, api.CreateIconResponse{
		IconResponse: newIconResponse(created),
		Message:      "Icon created successfully",
	})
}

func GetIconByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "GetIconByID", iconNotFound)
	if !ok {
		return
	}

	icon, err := queries.FindIconByID(c.Request.Context(), id)
	if err != nil {
		log.Errorf("GetIconByID: Failed to fetch icon %d: %v", id, err)
		utils.ResponseWithError(c, http.StatusInternalServerError, "Failed to retrieve icon")
		return
	}
	if icon == nil {
		utils.ResponseWithError(c, http.StatusNotFound, iconNotFound)
		return
	}
	utils.ResponseWithSuccess(c, http.StatusOK, newIconResponse(icon))
}

// GetIconsByUserID lists a user's saved icons, newest first.
func GetIconsByUserID(c *gin.Context) {
	userID, ok := parseIDParam(c, "userId", "GetIconsByUserID", userNotFound)
	if !ok {
		return
	}

	icons, err := queries.FindIconsByUserID(c.Request.Context(), userID)
	if err != nil {
		log.Errorf("GetIconsByUserID: Failed to fetch icons for user %d: %v", userID, err)
		utils.ResponseWithError(c, http.StatusInternalServerError, "Failed to retrieve icons")
		return
	}

	out := make([]api.IconResponse, len(icons))
	for i := range icons {
		out[i] = newIconResponse(&icons[i])
	}
	utils.ResponseWithSuccess(c, http.StatusOK, out)
}

func UpdateIcon(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "UpdateIcon", iconNotFound)
	if !ok {
		return
	}

	var req api.UpdateIconRequest
	if !bindJSON(c, &req, "UpdateIcon") {
		return
	}

	icon, err := queries.UpdateIcon(c.Request.Context(), id, queries.IconUpdate{
		IconName:  req.IconName,
		IconClass: req.IconClass,
		Color:     req.Color,
		Size:      req.Size,
		Style:     req.Style,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			utils.ResponseWithError(c, http.StatusNotFound, iconNotFound)
			return
		}
		log.Errorf("UpdateIcon: Failed to update icon %d: %v", id, err)
		utils.ResponseWithError(c, http.StatusInternalServerError, "Failed to update icon")
		return
	}
	utils.ResponseWithSuccess(c, http.StatusOK, newIconResponse(icon))
}

func DeleteIcon(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "DeleteIcon", iconNotFound)
	if !ok {
		return
	}

	if err := queries.DeleteIcon(c.Request.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			utils.ResponseWithError(c, http.StatusNotFound, iconNotFound)
			return
		}
		log.Errorf("DeleteIcon: Failed to delete icon %d: %v", id, err)
		utils.ResponseWithError(c, http.StatusInternalServerError, "Failed to delete icon")
		return
	}
	utils.ResponseWithMessage(c, http.StatusOK, "Icon deleted successfully")
}
