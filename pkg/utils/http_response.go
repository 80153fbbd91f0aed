package utils

import (
	"github.com/ASHISH26940/ai-video-studio-api/pkg/api"
	"github.com/gin-gonic/gin"
)

func ResponseWithSuccess(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, data)
}

func ResponseWithMessage(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, api.MessageResponse{Message: message})
}

func ResponseWithError(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, api.ErrorResponse{Error: message})
}

// AbortWithError writes the error body and stops the middleware chain.
func AbortWithError(c *gin.Context, statusCode int, message string) {
	c.AbortWithStatusJSON(statusCode, api.ErrorResponse{Error: message})
}
