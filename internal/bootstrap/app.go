package bootstrap

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"chundiet-web/internal/backend"
	"chundiet-web/internal/notify"
	"chundiet-web/internal/pages"
	"chundiet-web/internal/realtime"
	"chundiet-web/internal/services/health"
	"chundiet-web/internal/shared/config"
	"chundiet-web/internal/shared/server"
	"chundiet-web/internal/shared/telemetry"
	"chundiet-web/internal/web"
)

// App holds shared dependencies and the wired router.
type App struct {
	Config        config.Config
	Router        *gin.Engine
	Backend       *backend.Client
	Notifications *notify.Queue
	Hub           *realtime.Hub
	Pages         *pages.Controller
	Handler       *web.Handler

	unfollow func()
}

// Options overrides pieces Build would otherwise construct.
type Options struct {
	Clock notify.Clock
	Now   func() time.Time
}

// Build prepares dependencies and wires routes. It does not contact the
// backend; call Start for the initial loads.
func Build(cfg config.Config, opts ...Options) (*App, error) {
	var o Options
	if len(opts) > 0 {
		o = opts[0]
	}
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if cfg.DefaultUserID <= 0 {
		cfg.DefaultUserID = 1
	}
	if o.Clock == nil {
		o.Clock = notify.SystemClock
	}

	client, err := backend.NewClient(cfg.BackendURL, cfg.BackendTimeout)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: backend client: %w", err)
	}

	queue := notify.NewQueue(o.Clock, cfg.NotificationTTL)
	hub := realtime.NewHub()
	ctrl := pages.NewController(client, queue, pages.Options{UserID: cfg.DefaultUserID, Now: o.Now})
	handler := web.NewHandler(ctrl, queue, web.NewValidator(), cfg.SwipeThreshold)

	app := &App{
		Config:        cfg,
		Backend:       client,
		Notifications: queue,
		Hub:           hub,
		Pages:         ctrl,
		Handler:       handler,
		unfollow:      hub.Follow(queue),
	}
	status := health.NewService(health.SourceFunc(func() map[string]any {
		return map[string]any{
			"backend":       client.BaseURL(),
			"page":          ctrl.Active().String(),
			"notifications": queue.Len(),
			"clients":       hub.Len(),
		}
	}))
	app.Router = server.NewRouter(server.RouterDeps{
		Config:   cfg,
		Web:      handler,
		Realtime: hub,
		Health:   status.Status,
	})
	return app, nil
}

// Start loads the sidebar data and the home page.
func (a *App) Start(ctx context.Context) {
	a.Pages.Init(ctx)
	a.Pages.SwitchTo(ctx, pages.Home).Wait()
	telemetry.Info("app started", map[string]any{
		"backend": a.Backend.BaseURL(),
		"user_id": a.Config.DefaultUserID,
		"env":     a.Config.Env,
	})
}

// Close stops forwarding notifications to websocket clients.
func (a *App) Close() {
	if a.unfollow != nil {
		a.unfollow()
	}
}
