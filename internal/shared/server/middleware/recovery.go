package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"chundiet-web/internal/shared/metrics"
	"chundiet-web/internal/shared/server/respond"
	"chundiet-web/internal/shared/telemetry"
)

const errorPage = `<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><title>ChunDiet</title></head>` +
	`<body><div class="error-state"><p>Something went wrong.</p><p><a href="/">Back to ChunDiet</a></p></div></body></html>`

// Recovery turns a handler panic into a 500. Browsers navigating to a page
// get a short HTML page with a way back; everything else gets the error
// envelope. Aborted handlers are re-raised for net/http.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
				panic(rec)
			}
			route := c.FullPath()
			if route == "" {
				route = "unmatched"
			}
			metrics.IncPanic(route)
			telemetry.Error("panic", map[string]any{
				"request_id": RequestIDFromContext(c),
				"error":      fmt.Sprint(rec),
				"stack":      string(debug.Stack()),
				"route":      route,
				"path":       c.Request.URL.Path,
				"method":     c.Request.Method,
				"user_id":    UserIDFromContext(c),
				"page":       c.GetString(pageKey),
			})
			switch {
			case c.Writer.Written():
				c.Abort()
			case c.Request.Method == http.MethodGet && !respond.WantsJSON(c):
				respond.HTML(c, http.StatusInternalServerError, errorPage)
				c.Abort()
			default:
				respond.Error(c, http.StatusInternalServerError, "internal", "Unexpected server error", nil)
			}
		}()
		c.Next()
	}
}
