package pages

import (
	"context"

	"chundiet-web/internal/backend"
	"chundiet-web/internal/recommendations"
	"chundiet-web/internal/view"
)

// Section ids. Each one is replaced as a unit when its load lands.
const (
	SectionDailyProgress   = "dailyProgress"
	SectionMobileStats     = "mobileStats"
	SectionMeals           = "mealsGrid"
	SectionHistory         = "historyTimeline"
	SectionRecommendations = "recommendationsSection"
	SectionProfile         = "profileSection"
	SectionAISettings      = "aiSettingsSection"
	SectionTheme           = "themeSection"
	SectionAPIKeys         = "apiKeysSection"
	SectionGoals           = "goalsSection"
)

var pageSections = map[Page][]string{
	Home:     {SectionDailyProgress, SectionMobileStats, SectionMeals},
	History:  {SectionHistory},
	Planner:  {SectionRecommendations},
	Settings: {SectionProfile, SectionAISettings, SectionTheme, SectionGoals, SectionAPIKeys},
}

func initialSections() map[string]view.Node {
	return map[string]view.Node{
		SectionDailyProgress:   view.Nothing(),
		SectionMobileStats:     view.Nothing(),
		SectionMeals:           view.Nothing(),
		SectionHistory:         view.Nothing(),
		SectionRecommendations: view.PlannerEmpty(),
		SectionProfile:         view.ProfileForm(backend.Profile{}),
		SectionAISettings:      view.AISettings(backend.Settings{}),
		SectionTheme:           view.ThemeToggle(""),
		SectionGoals:           view.GoalsForm(backend.Goals{}),
		SectionAPIKeys:         view.APIKeys(nil),
	}
}

func (c *Controller) tasksFor(p Page) []sectionTask {
	switch p {
	case Home:
		return []sectionTask{
			{name: "daily_progress", run: c.loadDailyProgress},
			{name: "todays_meals", run: c.loadTodaysMeals},
		}
	case History:
		return []sectionTask{{name: "history", run: c.loadHistory}}
	case Planner:
		return []sectionTask{{name: "stored_recommendations", run: c.loadStoredRecommendations}}
	case Settings:
		return []sectionTask{
			{name: "profile", run: c.loadProfile},
			{name: "settings", run: c.loadSettings},
			{name: "goals", run: c.loadGoals},
		}
	default:
		return nil
	}
}

func (c *Controller) loadDailyProgress(ctx context.Context, userID int) (func(*State), map[string]view.Node, error) {
	summary, err := c.api.DailySummary(ctx, userID, c.now())
	if err != nil {
		return nil, nil, err
	}
	apply := func(s *State) { s.TodayCalories = summary.TotalCalories.Float() }
	return apply, map[string]view.Node{
		SectionDailyProgress: view.DailySummary(summary),
		SectionMobileStats:   view.MobileStats(summary),
	}, nil
}

func (c *Controller) loadTodaysMeals(ctx context.Context, userID int) (func(*State), map[string]view.Node, error) {
	summary, err := c.api.DailySummary(ctx, userID, c.now())
	if err != nil {
		return nil, nil, err
	}
	return nil, map[string]view.Node{SectionMeals: view.MealList(summary.Meals)}, nil
}

func (c *Controller) loadHistory(ctx context.Context, userID int) (func(*State), map[string]view.Node, error) {
	days, err := c.api.History(ctx, userID, backend.HistoryDays)
	if err != nil {
		return nil, nil, err
	}
	return nil, map[string]view.Node{SectionHistory: view.History(days, c.now())}, nil
}

func (c *Controller) loadStoredRecommendations(ctx context.Context, userID int) (func(*State), map[string]view.Node, error) {
	raw, err := c.api.StoredRecommendations(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	node, err := view.Recommendations(recommendations.NormalizeJSON(raw))
	if err != nil {
		return nil, nil, err
	}
	return nil, map[string]view.Node{SectionRecommendations: node}, nil
}

func (c *Controller) loadProfile(ctx context.Context, userID int) (func(*State), map[string]view.Node, error) {
	profile, err := c.api.Profile(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	apply := func(s *State) { s.Profile = profile }
	return apply, map[string]view.Node{SectionProfile: view.ProfileForm(profile)}, nil
}

func (c *Controller) loadSettings(ctx context.Context, userID int) (func(*State), map[string]view.Node, error) {
	settings, err := c.api.Settings(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	apply := func(s *State) { s.Settings = settings }
	return apply, settingsSections(settings), nil
}

func (c *Controller) loadGoals(ctx context.Context, userID int) (func(*State), map[string]view.Node, error) {
	goals, err := c.api.Goals(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	apply := func(s *State) { s.Goals = goals }
	return apply, map[string]view.Node{SectionGoals: view.GoalsForm(goals)}, nil
}

func settingsSections(s backend.Settings) map[string]view.Node {
	return map[string]view.Node{
		SectionAISettings: view.AISettings(s),
		SectionTheme:      view.ThemeToggle(s.Theme),
		SectionAPIKeys:    view.APIKeys(s.GeminiAPIKeys),
	}
}
