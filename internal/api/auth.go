package api

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ──────────────────────────────────────────────────────────────────
// Admin Bearer Token Authentication Middleware
//
// GET /admin requires: Authorization: Bearer <ADMIN_PASSWORD>. Every
// other route stays open — only the operator-facing admin view needs
// a shared secret.
// ──────────────────────────────────────────────────────────────────

// AdminMiddleware returns a Gin middleware that validates the admin
// bearer token against password using a constant-time comparison. An
// empty password disables the route entirely (404 instead of a
// trivially-bypassable check) rather than falling back to open access.
func AdminMiddleware(password string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if password == "" {
			c.JSON(http.StatusNotFound, gin.H{"error": "admin endpoint disabled: ADMIN_PASSWORD not set"})
			c.Abort()
			return
		}

		auth := c.GetHeader("Authorization")
		parts := strings.SplitN(auth, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "missing or malformed Authorization header",
				"hint":  "Use: Authorization: Bearer <ADMIN_PASSWORD>",
			})
			c.Abort()
			return
		}

		if subtle.ConstantTimeCompare([]byte(parts[1]), []byte(password)) != 1 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid admin credentials"})
			c.Abort()
			return
		}

		c.Next()
	}
}
