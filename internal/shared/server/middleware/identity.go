package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	userIDKey = "userId"
	pageKey   = "page"
)

// Identity stores the acting user in the context. There is no login: every
// request acts as the configured default user unless X-User-Id names another
// positive id.
func Identity(defaultUserID int) gin.HandlerFunc {
	if defaultUserID <= 0 {
		defaultUserID = 1
	}
	fallback := strconv.Itoa(defaultUserID)
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}
		id := fallback
		if raw := strings.TrimSpace(c.GetHeader("X-User-Id")); raw != "" {
			if n, err := strconv.Atoi(raw); err == nil && n > 0 {
				id = strconv.Itoa(n)
			}
		}
		c.Set(userIDKey, id)
		c.Next()
	}
}

// UserIDFromContext returns the id stored by Identity.
func UserIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	return c.GetString(userIDKey)
}

// SetPage records the page a handler served, for request logging.
func SetPage(c *gin.Context, page string) {
	c.Set(pageKey, page)
}
