package pages

import (
	"strings"

	"chundiet-web/internal/notify"
	"chundiet-web/internal/view"
)

// Greeting is the sidebar welcome line. The placeholder demo name is not shown.
func Greeting(name string) string {
	name = strings.TrimSpace(name)
	if name == "" || name == "Demo User" {
		return "Welcome!"
	}
	return "Welcome, " + name + "!"
}

// Render builds the full document for the current state. Only the active
// page is visible.
func (c *Controller) Render() view.Node {
	c.mu.Lock()
	state := c.state
	sections := make(map[string]view.Node, len(c.sections))
	for id, n := range c.sections {
		sections[id] = n
	}
	c.mu.Unlock()

	var notes []notify.Notification
	if c.notifier != nil {
		notes = c.notifier.List()
	}

	nav := make([]view.NavItem, 0, len(Order))
	pageViews := make([]view.PageView, 0, len(Order))
	for _, p := range Order {
		nav = append(nav, view.NavItem{Page: p.String(), Label: p.Label(), Icon: p.Icon(), Active: p == state.Active})
		pageViews = append(pageViews, view.PageView{
			ID:     p.String(),
			Title:  p.Title(),
			Active: p == state.Active,
			Body:   c.body(p, sections),
		})
	}
	return view.Shell(view.ShellModel{
		Title:         state.Active.Title(),
		Theme:         state.Theme(),
		Sidebar:       view.Sidebar(Greeting(state.Profile.Name), view.CalorieProgress(state.TodayCalories, state.Goals.Calories)),
		Nav:           nav,
		Pages:         pageViews,
		Notifications: notes,
	})
}

// Fragment renders the body of one page without the shell.
func (c *Controller) Fragment(p Page) view.Node {
	c.mu.Lock()
	sections := make(map[string]view.Node, len(pageSections[p]))
	for _, id := range pageSections[p] {
		sections[id] = c.sections[id]
	}
	c.mu.Unlock()
	return c.body(p, sections)
}

func (c *Controller) body(p Page, sections map[string]view.Node) view.Node {
	section := func(id string) view.Node { return view.Section(id, sections[id]) }
	switch p {
	case Home:
		return view.Group(
			section(SectionDailyProgress),
			view.MealForm(c.now()),
			section(SectionMobileStats),
			view.H(2, "Today's Meals"),
			section(SectionMeals),
		)
	case History:
		return section(SectionHistory)
	case Planner:
		return view.Group(view.PlannerControls(), section(SectionRecommendations))
	case Settings:
		return view.Group(
			section(SectionProfile),
			section(SectionGoals),
			section(SectionAISettings),
			section(SectionTheme),
			section(SectionAPIKeys),
		)
	default:
		return view.Nothing()
	}
}
