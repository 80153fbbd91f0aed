package middleware

import (
	"net/http"
	"strings"

	"github.com/ASHISH26940/ai-video-studio-api/pkg/services"
	"github.com/ASHISH26940/ai-video-studio-api/pkg/utils"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// Gin context key for storing session claims.
const SessionClaimsContextKey = "sessionClaims"

// SessionMiddleware attaches the caller's session to the request when an
// Authorization header is present. Requests without one pass through
// anonymously; a malformed or expired token is rejected.
func SessionMiddleware(sessions *services.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			log.Debugf("SessionMiddleware: Invalid Authorization header format: %s", authHeader)
			utils.AbortWithError(c, http.StatusUnauthorized, "Invalid Authorization header format")
			return
		}

		claims, err := sessions.ValidateToken(parts[1])
		if err != nil {
			log.Debugf("SessionMiddleware: Invalid or expired session token: %v", err)
			utils.AbortWithError(c, http.StatusUnauthorized, "Invalid or expired session")
			return
		}

		c.Set(SessionClaimsContextKey, claims)
		log.Debugf("SessionMiddleware: Request bound to user %d.", claims.UserID)
		c.Next()
	}
}

// GetSessionFromContext extracts the session claims set by SessionMiddleware.
func GetSessionFromContext(c *gin.Context) (*services.Claims, bool) {
	claims, exists := c.Get(SessionClaimsContextKey)
	if !exists {
		return nil, false
	}
	sessionClaims, ok := claims.(*services.Claims)
	if !ok {
		return nil, false
	}
	return sessionClaims, true
}
