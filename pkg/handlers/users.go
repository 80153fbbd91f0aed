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

const userNotFound = "User not found"

func newUserResponse(user *db.User) api.UserResponse {
	return api.UserResponse{
		ID:                  user.ID,
		Username:            user.Username,
		Email:               user.Email,
		ThemePreference:     user.ThemePreference,
		OnboardingCompleted: user.OnboardingCompleted,
		CreatedAt:           user.CreatedAt,
	}
}

// CreateUser registers a user and returns a session token for it.
func (h *Handlers) CreateUser(c *gin.Context) {
	var req api.CreateUserRequest
	if !bindJSON(c, &req, "CreateUser") {
		return
	}

	user := &db.User{
		Username:            strings.TrimSpace(req.Username),
		Email:               strings.ToLower(strings.TrimSpace(req.Email)),
		ThemePreference:     req.ThemePreference,
		OnboardingCompleted: req.OnboardingCompleted,
	}

	createdUser, err := queries.CreateUser(c.Request.Context(), user)
	if err != nil {
		log.Errorf("CreateUser: Failed to create user: %v", err)
		utils.ResponseWithError(c, http.StatusInternalServerError, "Failed to create user")
		return
	}

	token, err := h.Sessions.GenerateToken(createdUser.ID, createdUser.Username)
	if err != nil {
		log.Errorf("CreateUser: Failed to issue session for user %d: %v", createdUser.ID, err)
		utils.ResponseWithError(c, http.StatusInternalServerError, "Failed to issue session")
		return
	}

	log.Infof("User with ID '%d' created.", createdUser.ID)
	utils.ResponseWithSuccess(c, http.StatusCreated, api.CreateUserResponse{
		UserResponse: newUserResponse(createdUser),
		Token:        token,
		Message:      "User created successfully",
	})
}

// ListUsers returns every user, newest first.
func ListUsers(c *gin.Context) {
	users, err := queries.ListUsers(c.Request.Context())
	if err != nil {
		log.Errorf("ListUsers: Failed to list users: %v", err)
		utils.ResponseWithError(c, http.StatusInternalServerError, "Failed to retrieve users")
		return
	}

	out := make([]api.UserResponse, len(users))
	for i := range users {
		out[i] = newUserResponse(&users[i])
	}
	utils.ResponseWithSuccess(c, http.StatusOK, out)
}

func GetUserByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "GetUserByID", userNotFound)
	if !ok {
		return
	}

	user, err := queries.FindUserByID(c.Request.Context(), id)
	if err != nil {
		log.Errorf("GetUserByID: Failed to fetch user %d: %v", id, err)
		utils.ResponseWithError(c, http.StatusInternalServerError, "Failed to retrieve user")
		return
	}
	if user == nil {
		utils.ResponseWithError(c, http.StatusNotFound, userNotFound)
		return
	}
	utils.ResponseWithSuccess(c, http.StatusOK, newUserResponse(user))
}

// UpdateUser changes profile fields and preferences (theme, onboarding).
func UpdateUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "UpdateUser", userNotFound)
	if !ok {
		return
	}

	var req api.UpdateUserRequest
	if !bindJSON(c, &req, "UpdateUser") {
		return
	}
	if req.Username != nil {
		trimmed := strings.TrimSpace(*req.Username)
		req.Username = &trimmed
	}
	if req.Email != nil {
		lowered := strings.ToLower(strings.TrimSpace(*req.Email))
		req.Email = &lowered
	}

	user, err := queries.UpdateUser(c.Request.Context(), id, queries.UserUpdate{
		Username:            req.Username,
		Email:               req.Email,
		ThemePreference:     req.ThemePreference,
		OnboardingCompleted: req.OnboardingCompleted,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			utils.ResponseWithError(c, http.StatusNotFound, userNotFound)
			return
		}
		log.Errorf("UpdateUser: Failed to update user %d: %v", id, err)
		utils.ResponseWithError(c, http.StatusInternalServerError, "Failed to update user")
		return
	}

	log.Infof("User %d updated.", id)
	utils.ResponseWithSuccess(c, http.StatusOK, newUserResponse(user))
}

func DeleteUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "DeleteUser", userNotFound)
	if !ok {
		return
	}

	if err := queries.DeleteUser(c.Request.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			utils.ResponseWithError(c, http.StatusNotFound, userNotFound)
			return
		}
		log.Errorf("DeleteUser: Failed to delete user %d: %v", id, err)
		utils.ResponseWithError(c, http.StatusInternalServerError, "Failed to delete user")
		return
	}

	log.Infof("DeleteUser: User with ID '%d' deleted.", id)
	utils.ResponseWithMessage(c, http.StatusOK, "User deleted successfully")
}
