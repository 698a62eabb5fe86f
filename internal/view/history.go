package view

import (
	"strings"
	"time"

	"chundiet-web/internal/backend"
)

const maxFoodTags = 3

// FormatDay labels a YYYY-MM-DD date relative to now: "Today", "Yesterday"
// or "Mon, Jan 2". Unparsable input is returned as is.
func FormatDay(date string, now time.Time) string {
	date = strings.TrimSpace(date)
	today := now.Format("2006-01-02")
	yesterday := now.AddDate(0, 0, -1).Format("2006-01-02")
	switch date {
	case today:
		return "Today"
	case yesterday:
		return "Yesterday"
	}
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return t.Format("Mon, Jan 2")
}

// History renders the 30-day timeline.
func History(days []backend.HistoryDay, now time.Time) Node {
	if len(days) == 0 {
		return emptyState("empty-state", "No nutrition history yet", "Start logging meals to see your progress!")
	}
	items := make([]Node, 0, len(days))
	for _, day := range days {
		foods := day.Foods
		if len(foods) > maxFoodTags {
			foods = foods[:maxFoodTags]
		}
		list := Div("food-list", tags("food-tag", foods)...)
		if extra := len(day.Foods) - maxFoodTags; extra > 0 {
			list = list.Append(Span("food-tag", Textf("+%d more", extra)))
		}
		items = append(items, Div("timeline-item",
			Div("timeline-date", Text(FormatDay(day.Date, now))),
			Div("timeline-content",
				Div("day-summary",
					Span("calorie-count", Textf("%s kcal", formatNumber(day.TotalCalories.Float()))),
					Span("meal-count", Textf("%d meals", day.MealCount.Int())),
				),
				list,
			),
		))
	}
	return Group(items...)
}
