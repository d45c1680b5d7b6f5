package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"google.golang.org/grpc/status"
)

// UserIDKey is the gin context key holding the authenticated user id.
const UserIDKey = "uid"

type TokenVerifier interface {
	Verify(raw string) (string, error)
}

// Auth rejects requests without a valid bearer token.
func Auth(v TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		// token from Authorization: Bearer <jwt>
		raw := ""
		if h := c.GetHeader("Authorization"); h != "" {
			scheme, tok, ok := strings.Cut(h, " ")
			if ok && strings.EqualFold(scheme, "Bearer") {
				raw = strings.TrimSpace(tok)
			}
		}

		uid, err := v.Verify(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": status.Convert(err).Message()})
			return
		}

		c.Set(UserIDKey, uid)
		c.Next()
	}
}

// UserID returns the id stored by Auth, or "" outside an authenticated route.
func UserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}
