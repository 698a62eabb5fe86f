package web

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"chundiet-web/internal/backend"
	"chundiet-web/internal/gesture"
	"chundiet-web/internal/notify"
	"chundiet-web/internal/pages"
	"chundiet-web/internal/shared/metrics"
	"chundiet-web/internal/shared/server/middleware"
	"chundiet-web/internal/shared/server/respond"
	"chundiet-web/internal/view"
)

// Handler exposes the browser-facing routes.
type Handler struct {
	Pages          *pages.Controller
	Notifications  *notify.Queue
	Validate       *validator.Validate
	SwipeThreshold float64
}

// NewHandler constructs a Handler.
func NewHandler(ctrl *pages.Controller, queue *notify.Queue, validate *validator.Validate, swipeThreshold float64) *Handler {
	if validate == nil {
		validate = NewValidator()
	}
	if swipeThreshold <= 0 {
		swipeThreshold = gesture.DefaultThreshold
	}
	return &Handler{
		Pages:          ctrl,
		Notifications:  queue,
		Validate:       validate,
		SwipeThreshold: swipeThreshold,
	}
}

// RegisterRoutes attaches page, action, gesture and notification routes.
func (h *Handler) RegisterRoutes(rg gin.IRouter) {
	rg.GET("/", h.getCurrent)
	rg.GET("/pages/:page", h.getPage)
	rg.GET("/pages/:page/fragment", h.getFragment)

	rg.POST("/gestures", h.postGesture)
	rg.POST("/meals/:id/swipe", h.postMealSwipe)

	rg.POST("/meals", h.postMeal)
	rg.DELETE("/meals/:id", h.deleteMeal)
	rg.POST("/planner/generate", h.postGenerate)
	rg.POST("/settings/profile", h.postProfile)
	rg.POST("/settings/goals", h.postGoals)
	rg.DELETE("/settings/goals/:metric", h.deleteGoal)
	rg.POST("/settings/ai", h.postAISettings)
	rg.POST("/settings/theme", h.postTheme)
	rg.POST("/settings/api-keys", h.postAPIKey)
	rg.DELETE("/settings/api-keys/:index", h.deleteAPIKey)

	rg.GET("/notifications", h.listNotifications)
	rg.DELETE("/notifications/:id", h.dismissNotification)
}

// getCurrent renders the active page from the state already held.
func (h *Handler) getCurrent(c *gin.Context) {
	middleware.SetPage(c, h.Pages.Active().String())
	h.renderShell(c)
}

func (h *Handler) getPage(c *gin.Context) {
	p, ok := h.parsePage(c)
	if !ok {
		return
	}
	h.Pages.SwitchTo(c.Request.Context(), p).Wait()
	h.renderShell(c)
}

func (h *Handler) getFragment(c *gin.Context) {
	p, ok := h.parsePage(c)
	if !ok {
		return
	}
	h.Pages.SwitchTo(c.Request.Context(), p).Wait()
	out, err := view.HTML(h.Pages.Fragment(p))
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "render_failed", "failed to render page", nil)
		return
	}
	respond.HTML(c, http.StatusOK, out)
}

func (h *Handler) parsePage(c *gin.Context) (pages.Page, bool) {
	p, err := pages.Parse(c.Param("page"))
	if err != nil {
		respond.Error(c, http.StatusNotFound, "not_found", "unknown page", gin.H{"page": c.Param("page")})
		return p, false
	}
	middleware.SetPage(c, p.String())
	return p, true
}

func (h *Handler) renderShell(c *gin.Context) {
	out, err := view.HTML(h.Pages.Render())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "render_failed", "failed to render page", nil)
		return
	}
	respond.HTML(c, http.StatusOK, out)
}

// postGesture replays a touch session. A horizontal swipe wins; otherwise a
// pull counts only when the page was scrolled to the top.
func (h *Handler) postGesture(c *gin.Context) {
	var req gestureRequest
	if !h.bindJSON(c, &req) {
		return
	}
	events := req.toEvents()
	intent := gesture.Replay(events, h.SwipeThreshold)
	if intent == gesture.IntentNone {
		intent = gesture.ReplayPull(events, req.ScrollTop <= 0)
	}
	if load := h.Pages.HandleIntent(c.Request.Context(), intent); load != nil {
		load.Wait()
	}
	active := h.Pages.Active().String()
	middleware.SetPage(c, active)
	respond.OK(c, gin.H{"intent": intent.String(), "page": active})
}

func (h *Handler) postMealSwipe(c *gin.Context) {
	var req gestureRequest
	if !h.bindJSON(c, &req) {
		return
	}
	outcome, offset := gesture.ReplayDelete(req.toEvents())
	respond.OK(c, gin.H{"meal_id": c.Param("id"), "outcome": outcome.String(), "offset": offset})
}

func (h *Handler) postMeal(c *gin.Context) {
	var form mealForm
	if !h.bindForm(c, &form) {
		return
	}
	h.finish(c, h.Pages.AnalyzeMeal(c.Request.Context(), form.Description, form.Time))
}

func (h *Handler) deleteMeal(c *gin.Context) {
	confirmed, _ := strconv.ParseBool(c.Query("confirm"))
	h.finish(c, h.Pages.DeleteMeal(c.Request.Context(), c.Param("id"), confirmed))
}

func (h *Handler) postGenerate(c *gin.Context) {
	h.finish(c, h.Pages.GeneratePlan(c.Request.Context()))
}

func (h *Handler) postProfile(c *gin.Context) {
	var form profileForm
	if !h.bindForm(c, &form) {
		return
	}
	h.finish(c, h.Pages.SaveProfile(c.Request.Context(), form.toProfile()))
}

func (h *Handler) postGoals(c *gin.Context) {
	var form goalsForm
	if !h.bindForm(c, &form) {
		return
	}
	h.finish(c, h.Pages.SaveGoals(c.Request.Context(), form.toGoals()))
}

func (h *Handler) deleteGoal(c *gin.Context) {
	h.finish(c, h.Pages.ClearGoal(c.Param("metric")))
}

func (h *Handler) postAISettings(c *gin.Context) {
	var form aiSettingsForm
	if !h.bindForm(c, &form) {
		return
	}
	h.finish(c, h.Pages.SaveAISettings(c.Request.Context(), form.Temperature, form.TopP))
}

func (h *Handler) postTheme(c *gin.Context) {
	var form themeForm
	if !h.bindForm(c, &form) {
		return
	}
	h.finish(c, h.Pages.SetTheme(c.Request.Context(), form.theme()))
}

func (h *Handler) postAPIKey(c *gin.Context) {
	var form apiKeyForm
	if !h.bindForm(c, &form) {
		return
	}
	h.finish(c, h.Pages.AddAPIKey(c.Request.Context(), form.Key))
}

func (h *Handler) deleteAPIKey(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "key index must be a number", nil)
		return
	}
	h.finish(c, h.Pages.RemoveAPIKey(c.Request.Context(), index))
}

func (h *Handler) listNotifications(c *gin.Context) {
	list := h.Notifications.List()
	if !respond.WantsJSON(c) {
		out, err := view.HTML(view.Notifications(list))
		if err != nil {
			respond.Error(c, http.StatusInternalServerError, "render_failed", "failed to render notifications", nil)
			return
		}
		respond.HTML(c, http.StatusOK, out)
		return
	}
	respond.OK(c, gin.H{"notifications": list})
}

func (h *Handler) dismissNotification(c *gin.Context) {
	if !h.Notifications.Dismiss(c.Param("id")) {
		respond.Error(c, http.StatusNotFound, "not_found", "notification not found", nil)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_body", "request body must be JSON", nil)
		return false
	}
	if err := h.Validate.Struct(dst); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", validationMessage(err), validationDetails(err))
		return false
	}
	return true
}

// bindForm decodes a form or JSON body and validates it. Page forms get the
// problem as a notification and are sent back to the page.
func (h *Handler) bindForm(c *gin.Context, dst any) bool {
	err := c.ShouldBind(dst)
	if err == nil {
		err = h.Validate.Struct(dst)
	}
	if err == nil {
		return true
	}
	msg := validationMessage(err)
	if respond.WantsJSON(c) {
		respond.Error(c, http.StatusBadRequest, "validation_error", msg, validationDetails(err))
		return false
	}
	metrics.IncNotification(string(notify.KindError))
	h.Notifications.Push(msg, notify.KindError)
	redirectToShell(c)
	return false
}

// finish answers an action. JSON clients get the outcome; page forms are
// sent back to the shell, which shows the result and any notification
// without reloading the page.
func (h *Handler) finish(c *gin.Context, err error) {
	if errors.Is(err, pages.ErrNotConfirmed) {
		respond.Error(c, http.StatusBadRequest, "confirmation_required", "deletion must be confirmed", nil)
		return
	}
	if !respond.WantsJSON(c) && c.Request.Method == http.MethodPost {
		redirectToShell(c)
		return
	}
	if err != nil {
		writeError(c, err)
		return
	}
	active := h.Pages.Active().String()
	middleware.SetPage(c, active)
	respond.OK(c, gin.H{"ok": true, "page": active})
}

func redirectToShell(c *gin.Context) {
	c.Redirect(http.StatusSeeOther, "/")
}

func writeError(c *gin.Context, err error) {
	if be, ok := backend.AsBusiness(err); ok {
		respond.Error(c, http.StatusUnprocessableEntity, "rejected", be.Message, nil)
		return
	}
	switch {
	case backend.IsTransport(err):
		respond.Error(c, http.StatusBadGateway, "backend_unavailable", "nutrition service unavailable, please try again", nil)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		respond.Error(c, http.StatusRequestTimeout, "timeout", "request canceled", nil)
	case errors.Is(err, pages.ErrEmptyDescription), errors.Is(err, pages.ErrEmptyAPIKey), errors.Is(err, pages.ErrInvalidTheme):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, pages.ErrKeyIndex), errors.Is(err, pages.ErrUnknownMetric):
		respond.Error(c, http.StatusNotFound, "not_found", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "unexpected error", nil)
	}
}
