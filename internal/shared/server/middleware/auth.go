package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-dashboard/internal/shared/auth"
	"resume-dashboard/internal/shared/server/respond"
)

const (
	userIDKey   = "userId"
	userNameKey = "userName"
	isGuestKey  = "isGuest"
)

// Auth resolves the caller from a Bearer token or, failing that, an X-Guest-Id header.
// A nil verifier rejects Bearer tokens and accepts guests only.
func Auth(verifier *auth.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader != "" {
			token, ok := strings.CutPrefix(authHeader, "Bearer ")
			token = strings.TrimSpace(token)
			if !ok || token == "" || verifier == nil {
				respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
				return
			}

			claims, err := verifier.Verify(token)
			if err != nil {
				respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
				return
			}

			c.Set(userIDKey, claims.Sub)
			if claims.Name != "" {
				c.Set(userNameKey, claims.Name)
			}
			c.Set(isGuestKey, false)
			c.Next()
			return
		}

		guestID := strings.TrimSpace(c.GetHeader("X-Guest-Id"))
		if guestID == "" {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "Missing identity", nil)
			return
		}

		c.Set(userIDKey, "guest:"+guestID)
		c.Set(isGuestKey, true)
		c.Next()
	}
}

// UserIDFromContext fetches the user ID set by the auth middleware.
func UserIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	return c.GetString(userIDKey)
}

// UserNameFromContext fetches the display name carried by a signed-in user's token.
func UserNameFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	return c.GetString(userNameKey)
}

// IsGuest reports whether the caller identified with X-Guest-Id.
func IsGuest(c *gin.Context) bool {
	if c == nil {
		return false
	}
	return c.GetBool(isGuestKey)
}
