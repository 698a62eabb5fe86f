package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"chundiet-web/internal/shared/config"
	"chundiet-web/internal/shared/metrics"
	"chundiet-web/internal/shared/server/middleware"
	"chundiet-web/internal/shared/server/respond"
)

// RouteRegistrar attaches feature routes.
type RouteRegistrar interface {
	RegisterRoutes(rg gin.IRouter)
}

// RouterDeps carries what NewRouter wires into the engine.
type RouterDeps struct {
	Config   config.Config
	Web      RouteRegistrar
	Realtime http.Handler
	Health   func() map[string]any
}

// Rate limit groups by route.
var limitGroups = map[string]string{
	"POST /gestures":                   "GESTURE",
	"POST /meals/:id/swipe":            "GESTURE",
	"POST /meals":                      "WRITE",
	"DELETE /meals/:id":                "WRITE",
	"POST /planner/generate":           "GENERATE",
	"POST /settings/profile":           "WRITE",
	"POST /settings/goals":             "WRITE",
	"POST /settings/ai":                "WRITE",
	"POST /settings/theme":             "WRITE",
	"POST /settings/api-keys":          "WRITE",
	"DELETE /settings/api-keys/:index": "WRITE",
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	cfg := deps.Config
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
		middleware.Identity(cfg.DefaultUserID),
		middleware.RateLimit(middleware.RateLimitConfig{
			GroupFor: middleware.GroupByRoute(limitGroups),
			Rules:    rateRules(cfg),
		}),
	)

	r.GET("/health", func(c *gin.Context) {
		body := gin.H{"ok": true}
		if deps.Health != nil {
			for k, v := range deps.Health() {
				body[k] = v
			}
		}
		respond.JSON(c, http.StatusOK, body)
	})
	r.GET("/metrics", metrics.Handler())
	if deps.Realtime != nil {
		r.GET("/ws", gin.WrapH(deps.Realtime))
	}
	if deps.Web != nil {
		deps.Web.RegisterRoutes(r)
	}
	return r
}

func rateRules(cfg config.Config) map[string]middleware.RateLimitRule {
	rules := map[string]middleware.RateLimitRule{
		"GENERATE": {Rate: 0.2, Burst: 2},
	}
	if cfg.GestureRateLimit > 0 {
		rules["GESTURE"] = middleware.RateLimitRule{Rate: cfg.GestureRateLimit, Burst: int(cfg.GestureRateLimit) * 2}
	}
	if cfg.WriteRateLimit > 0 {
		rules["WRITE"] = middleware.RateLimitRule{Rate: cfg.WriteRateLimit, Burst: int(cfg.WriteRateLimit) * 2}
	}
	return rules
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
