package pages

import (
	"context"
	"fmt"
	"strings"

	"chundiet-web/internal/backend"
	"chundiet-web/internal/notify"
	"chundiet-web/internal/recommendations"
	"chundiet-web/internal/shared/metrics"
	"chundiet-web/internal/shared/telemetry"
	"chundiet-web/internal/view"
)

// AnalyzeMeal submits a described meal and reloads home on success.
func (c *Controller) AnalyzeMeal(ctx context.Context, description, mealTime string) error {
	description = strings.TrimSpace(description)
	if description == "" {
		c.notify("Please describe your meal", notify.KindError)
		return ErrEmptyDescription
	}
	res, err := c.api.AnalyzeMeal(ctx, c.userID(), description, mealTime)
	if err != nil {
		c.reportFailure("analyze meal", err, "Failed to analyze meal. Please try again.")
		return err
	}
	telemetry.Info("meal analyzed", map[string]any{"meal_id": string(res.MealID)})
	c.notify("Meal analyzed successfully! 🎉", notify.KindSuccess)
	c.refreshHome(ctx)
	return nil
}

// DeleteMeal removes a meal. Nothing is sent unless confirmed is true, and a
// failed delete leaves every section as it was.
func (c *Controller) DeleteMeal(ctx context.Context, mealID string, confirmed bool) error {
	if !confirmed {
		return ErrNotConfirmed
	}
	if err := c.api.DeleteMeal(ctx, c.userID(), mealID); err != nil {
		c.reportFailure("delete meal", err, "Failed to delete meal")
		return err
	}
	c.notify("Meal deleted successfully! 🗑️", notify.KindSuccess)
	c.refreshHome(ctx)
	return nil
}

// GeneratePlan asks for a fresh recommendation set. Any stored set still
// loading for the planner is superseded, and so is an earlier GeneratePlan
// that has not returned yet.
func (c *Controller) GeneratePlan(ctx context.Context) error {
	c.mu.Lock()
	c.gens[Planner]++
	c.plans++
	plan := c.plans
	c.sections[SectionRecommendations] = view.PlannerLoading()
	userID := c.state.UserID
	c.mu.Unlock()

	raw, err := c.api.GenerateRecommendations(ctx, userID)
	if err != nil {
		c.applyPlan(plan, view.PlannerError())
		c.reportFailure("generate recommendations", err, "Failed to generate recommendations. Please try again.")
		return err
	}
	vm := recommendations.NormalizeJSON(raw)
	node, err := view.GeneratedRecommendations(vm)
	if err != nil {
		c.applyPlan(plan, view.PlannerError())
		return err
	}
	if !c.applyPlan(plan, node) {
		return nil
	}
	if _, empty := vm.(recommendations.Empty); !empty {
		c.notify("New nutrition plan generated! 🎯", notify.KindSuccess)
	}
	return nil
}

// applyPlan shows the outcome of GeneratePlan unless a later one has started.
// It wins over any stored-set load already in flight, including one started
// by coming back to the planner while the plan was generating.
func (c *Controller) applyPlan(plan uint64, node view.Node) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.plans != plan {
		metrics.IncStaleDiscarded()
		return false
	}
	c.gens[Planner]++
	c.sections[SectionRecommendations] = node
	return true
}

func (c *Controller) SaveProfile(ctx context.Context, p backend.Profile) error {
	if err := c.api.SaveProfile(ctx, c.userID(), p); err != nil {
		c.reportFailure("save profile", err, "Failed to save profile")
		return err
	}
	c.update(func(s *State) { s.Profile = p }, map[string]view.Node{SectionProfile: view.ProfileForm(p)})
	c.notify("Profile saved successfully! ✅", notify.KindSuccess)
	return nil
}

// SaveGoals persists every metric; nil metrics go out as null.
func (c *Controller) SaveGoals(ctx context.Context, g backend.Goals) error {
	if err := c.api.SaveGoals(ctx, c.userID(), g); err != nil {
		c.reportFailure("save goals", err, "Failed to save goals")
		return err
	}
	c.update(func(s *State) { s.Goals = g }, map[string]view.Node{SectionGoals: view.GoalsForm(g)})
	c.notify("Goals saved successfully! 🎯", notify.KindSuccess)
	return nil
}

// ClearGoal unsets one metric locally. It is persisted by the next SaveGoals.
func (c *Controller) ClearGoal(metric string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	goals := c.state.Goals
	if !goals.Clear(metric) {
		return fmt.Errorf("%w: %q", ErrUnknownMetric, metric)
	}
	c.state.Goals = goals
	c.sections[SectionGoals] = view.GoalsForm(goals)
	return nil
}

func (c *Controller) SaveAISettings(ctx context.Context, temperature, topP float64) error {
	update := backend.SettingsUpdate{AITemperature: &temperature, AITopP: &topP}
	if err := c.api.SaveSettings(ctx, c.userID(), update); err != nil {
		c.reportFailure("save ai settings", err, "Failed to save AI settings")
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Settings.AITemperature = &temperature
	c.state.Settings.AITopP = &topP
	c.sections[SectionAISettings] = view.AISettings(c.state.Settings)
	return nil
}

// SetTheme applies the theme at once and then persists it. The applied theme
// stays even when the save fails.
func (c *Controller) SetTheme(ctx context.Context, theme string) error {
	if theme != "light" && theme != "dark" {
		return fmt.Errorf("%w: %q", ErrInvalidTheme, theme)
	}
	c.update(func(s *State) { s.Settings.Theme = theme }, map[string]view.Node{SectionTheme: view.ThemeToggle(theme)})
	if err := c.api.SaveSettings(ctx, c.userID(), backend.SettingsUpdate{Theme: &theme}); err != nil {
		c.reportFailure("save theme", err, "Failed to save theme")
		return err
	}
	c.notify(fmt.Sprintf("Theme switched to %s mode! 🎨", theme), notify.KindSuccess)
	return nil
}

func (c *Controller) AddAPIKey(ctx context.Context, key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		c.notify("Please enter an API key", notify.KindError)
		return ErrEmptyAPIKey
	}
	current := c.Snapshot().Settings.GeminiAPIKeys
	keys := make([]string, 0, len(current)+1)
	keys = append(append(keys, current...), key)
	if err := c.saveKeys(ctx, keys); err != nil {
		c.reportFailure("save api key", err, "Failed to save API key")
		return err
	}
	c.notify("API key added successfully! 🔑", notify.KindSuccess)
	return nil
}

func (c *Controller) RemoveAPIKey(ctx context.Context, index int) error {
	current := c.Snapshot().Settings.GeminiAPIKeys
	if index < 0 || index >= len(current) {
		return fmt.Errorf("%w: %d", ErrKeyIndex, index)
	}
	keys := make([]string, 0, len(current)-1)
	keys = append(keys, current[:index]...)
	keys = append(keys, current[index+1:]...)
	if err := c.saveKeys(ctx, keys); err != nil {
		c.reportFailure("remove api key", err, "Failed to remove API key")
		return err
	}
	c.notify("API key removed", notify.KindSuccess)
	return nil
}

func (c *Controller) saveKeys(ctx context.Context, keys []string) error {
	if keys == nil {
		keys = []string{}
	}
	if err := c.api.SaveSettings(ctx, c.userID(), backend.SettingsUpdate{GeminiAPIKeys: &keys}); err != nil {
		return err
	}
	c.update(func(s *State) { s.Settings.GeminiAPIKeys = keys }, map[string]view.Node{SectionAPIKeys: view.APIKeys(keys)})
	return nil
}

// refreshHome reloads home data after a write and waits for it, so the next
// render shows the change.
func (c *Controller) refreshHome(ctx context.Context) {
	c.mu.Lock()
	active := c.state.Active
	c.mu.Unlock()
	if active == Home {
		c.SwitchTo(ctx, Home).Wait()
		return
	}
	summary, err := c.api.DailySummary(ctx, c.userID(), c.now())
	if err != nil {
		telemetry.Warn("daily summary reload failed", map[string]any{"error": err})
		return
	}
	c.update(func(s *State) { s.TodayCalories = summary.TotalCalories.Float() }, map[string]view.Node{
		SectionDailyProgress: view.DailySummary(summary),
		SectionMobileStats:   view.MobileStats(summary),
		SectionMeals:         view.MealList(summary.Meals),
	})
}

// reportFailure logs err and notifies the user. A business rejection shows
// the server message; anything else, or a rejection without a message, shows
// fallback.
func (c *Controller) reportFailure(op string, err error, fallback string) {
	telemetry.Error(op+" failed", map[string]any{"error": err})
	if be, ok := backend.AsBusiness(err); ok && strings.TrimSpace(be.Message) != "" {
		c.notify("Error: "+be.Message, notify.KindError)
		return
	}
	c.notify(fallback, notify.KindError)
}
