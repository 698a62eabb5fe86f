package view

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"chundiet-web/internal/backend"
)

const (
	// SummaryCalorieBaseline scales the summary circle when no goal is set.
	SummaryCalorieBaseline = 2000.0
	maxVitamins            = 4
)

// IsDetailed reports whether a meal carries enough detail for the full card.
func IsDetailed(m backend.Meal) bool {
	return m.ServingSize.Present() || m.Protein.Present() || len(m.Vitamins) > 0
}

// MealCard picks the detailed or minimal card for m.
func MealCard(m backend.Meal) Node {
	if IsDetailed(m) {
		return detailedMealCard(m)
	}
	return minimalMealCard(m)
}

func minimalMealCard(m backend.Meal) Node {
	return Div("meal-card meal-entry",
		Div("mobile-meal-info",
			Div("meal-icon", Text("🍽️")),
			H(4, m.FoodItem),
			El("small", Textf("%s kcal", formatNumber(m.Calories.Float()))),
		),
		Div("mobile-meal-actions",
			deleteButton(m, "mobile-action-btn mobile-delete-btn delete-meal-btn", "🗑️"),
		),
	).Attr("data-meal-id", string(m.ID))
}

func detailedMealCard(m backend.Meal) Node {
	serving := strings.TrimSpace(string(m.ServingSize))
	if serving == "" {
		serving = "Standard serving"
	}
	content := Div("meal-card-content",
		El("h4", Text(m.FoodItem)).Class("meal-name"),
		Div("serving-size", Text(serving)),
		Div("nutrition-summary",
			Div("nutrition-grid",
				nutritionItem("calories", formatNumber(m.Calories.Float()), "kcal"),
				nutritionItem("protein", grams(m.Protein), "protein"),
				nutritionItem("carbs", grams(m.Carbohydrates), "carbs"),
				nutritionItem("fat", grams(m.Fat), "fat"),
			),
		),
		vitamins(m.Vitamins),
	)
	return Div("enhanced-meal-card meal-entry",
		Div("meal-card-header",
			Div("meal-icon", Text("🍽️")),
			Div("meal-time", Text(FormatMealTime(m.Time))),
		),
		content,
		Div("meal-card-actions", deleteButton(m, "btn-danger delete-meal-btn", "Delete")),
	).Attr("data-meal-id", string(m.ID))
}

func nutritionItem(class, value, label string) Node {
	return Div("nutrition-item "+class,
		Span("nutrition-value", Text(value)),
		Span("nutrition-label", Text(label)),
	)
}

func vitamins(list []backend.Vitamin) Node {
	if len(list) == 0 {
		return Div("no-vitamins-note", Span("", Text("Detailed nutrient data available after analysis")))
	}
	shown := list
	if len(shown) > maxVitamins {
		shown = shown[:maxVitamins]
	}
	items := make([]Node, 0, len(shown))
	for _, v := range shown {
		items = append(items, Div("vitamin-item",
			Span("vitamin-name", Text(v.Name)),
			Span("vitamin-value", Text(string(v.PercentDailyValue))),
		))
	}
	section := Div("vitamins-section",
		Div("vitamins-header", Text("Key Nutrients:")),
		Div("vitamins-list", items...),
	)
	if extra := len(list) - maxVitamins; extra > 0 {
		section = section.Append(Div("vitamins-more", Textf("+%d more nutrients", extra)))
	}
	return section
}

func deleteButton(m backend.Meal, class, label string) Node {
	return El("button", Text(label)).
		Class(class).
		Attr("type", "button").
		Attr("data-action", "delete-meal").
		Attr("data-meal-id", string(m.ID))
}

// grams renders a macro as "<n>g", stripping any unit the backend sent.
func grams(q backend.Quantity) string {
	bare := q.Bare()
	if bare == "" {
		bare = "0"
	}
	return bare + "g"
}

var mealTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// FormatMealTime renders a meal timestamp as "06:30 PM".
func FormatMealTime(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "Unknown time"
	}
	for _, layout := range mealTimeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("03:04 PM")
		}
	}
	return raw
}

// MealList renders today's meals or the empty state.
func MealList(meals []backend.Meal) Node {
	if len(meals) == 0 {
		return emptyState("empty-state", "No meals logged today", "Start by describing your first meal above!")
	}
	cards := make([]Node, 0, len(meals))
	for _, m := range meals {
		cards = append(cards, MealCard(m))
	}
	return Group(cards...)
}

// DailySummary renders the "Today's Summary" card.
func DailySummary(s backend.DailySummary) Node {
	calories := s.TotalCalories.Float()
	progress := math.Min(calories/SummaryCalorieBaseline*100, 100)
	return Div("progress-card",
		H(3, "Today's Summary"),
		Div("progress-stats",
			Div("stat-circle",
				Div("circle-progress",
					Span("stat-value", Text(formatNumber(calories))),
					Span("stat-label", Text("Calories")),
				).Attr("data-progress", formatPercent(progress)).
					Attr("style", "--progress: "+formatPercent(progress)+"%"),
			),
			Div("stat-info",
				P("", Strong(strconv.Itoa(s.MealCount.Int())), Text(" meals logged")),
				P("", Strong(strconv.Itoa(len(s.Foods))), Text(" different foods")),
			),
		),
	)
}

// MobileStats renders the compact macro strip shown on small screens.
func MobileStats(s backend.DailySummary) Node {
	stat := func(id, value, label string) Node {
		return Div("mobile-stat",
			Span("mobile-stat-value", Text(value)).ID(id),
			Span("mobile-stat-label", Text(label)),
		)
	}
	return Div("mobile-stats",
		stat("mobile-calories", strconv.Itoa(s.TotalCalories.Int()), "Calories"),
		stat("mobile-protein", fmt.Sprintf("%dg", s.TotalProtein.Int()), "Protein"),
		stat("mobile-carbs", fmt.Sprintf("%dg", s.TotalCarbs.Int()), "Carbs"),
		stat("mobile-fat", fmt.Sprintf("%dg", s.TotalFat.Int()), "Fat"),
	)
}

// CalorieProgress is the sidebar meter. With no goal the bar is empty and
// only today's calories are shown.
func CalorieProgress(today float64, goal *float64) Node {
	label := formatNumber(today)
	width := CalorieProgressPercent(today, goal)
	if goal != nil && *goal > 0 {
		label = fmt.Sprintf("%s/%s", formatNumber(today), formatNumber(*goal))
	}
	return Div("calorie-meter",
		Span("today-calories", Text(label)).ID("todayCalories"),
		Div("progress-track",
			Div("progress-fill").ID("calorieProgress").Attr("style", "width: "+formatPercent(width)+"%"),
		),
	)
}

// CalorieProgressPercent is the bar width CalorieProgress uses.
func CalorieProgressPercent(today float64, goal *float64) float64 {
	if goal == nil || *goal <= 0 {
		return 0
	}
	return math.Min(today / *goal * 100, 100)
}

func formatNumber(v float64) string {
	if v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatPercent(v float64) string {
	return formatNumber(math.Round(v*100) / 100)
}
