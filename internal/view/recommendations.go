package view

import (
	"fmt"
	"strings"
	"time"

	"chundiet-web/internal/recommendations"
)

const noData = "No data available"

// Recommendations renders any view-model variant. Unknown variants are an
// error rather than a silent blank.
func Recommendations(vm recommendations.ViewModel) (Node, error) {
	switch m := vm.(type) {
	case recommendations.Empty:
		return PlannerEmpty(), nil
	case recommendations.Legacy:
		return legacyRecommendations(m), nil
	case recommendations.Enhanced:
		return enhancedRecommendations(m), nil
	case nil:
		return Node{}, fmt.Errorf("view: nil recommendation view-model")
	default:
		return Node{}, fmt.Errorf("view: unsupported recommendation view-model %T", vm)
	}
}

// GeneratedRecommendations renders the result of an explicit generation,
// where an empty result means the user has not logged enough yet.
func GeneratedRecommendations(vm recommendations.ViewModel) (Node, error) {
	if _, ok := vm.(recommendations.Empty); ok {
		return PlannerNoData(), nil
	}
	return Recommendations(vm)
}

func emptyState(class string, lines ...string) Node {
	n := Div(class)
	for _, line := range lines {
		n = n.Append(P("", Text(line)))
	}
	return n
}

func PlannerEmpty() Node {
	return emptyState("empty-state",
		"Ready to generate your personalized nutrition plan?",
		`Click "Generate New Plan" above to get AI-powered insights based on your recent meals!`,
	)
}

func PlannerLoading() Node {
	return emptyState("empty-state loading-state",
		"🧠 Analyzing your nutrition patterns...",
		"Generating personalized recommendations...",
	)
}

func PlannerNoData() Node {
	return emptyState("empty-state",
		"Not enough data for recommendations",
		"Log more meals to get personalized insights!",
	)
}

func PlannerError() Node {
	return emptyState("error-state",
		"Unable to load recommendations",
		"Please check your API configuration in Settings",
	)
}

func legacyRecommendations(m recommendations.Legacy) Node {
	items := make([]Node, 0, len(m.Items))
	for _, it := range m.Items {
		items = append(items, Div("recommendation-item "+priorityClass(it.Priority),
			H(5, it.Title),
			P("", Text(it.Description)),
			Span("category-tag", Text(it.Category)),
		))
	}
	card := Div("recommendations-card",
		H(3, "🤖 Chun's Nutrition Insights"),
		P("overall-assessment", Text(m.Assessment)),
	)
	if m.WeeklyGoal != "" {
		card = card.Append(Div("weekly-goal", H(4, "This Week's Goal"), P("", Text(m.WeeklyGoal))))
	}
	card = card.Append(Div("recommendations-list", items...))
	return card.Append(generatedOn(m.CreatedAt))
}

func priorityClass(priority string) string {
	p := strings.ToLower(strings.Join(strings.Fields(priority), "-"))
	if p == "" {
		return ""
	}
	return "priority-" + p
}

func enhancedRecommendations(m recommendations.Enhanced) Node {
	assessment := m.OverallAssessment
	if assessment == "" {
		assessment = "Analysis in progress..."
	}
	root := Div("enhanced-recommendations",
		Div("recommendations-header",
			H(2, "🧠 Chun's Comprehensive Nutrition Analysis"),
			P("overall-assessment", Text(assessment)),
		),
	)
	if m.Analysis != nil {
		root = root.Append(nutritionalAnalysis(*m.Analysis))
	}
	var grid []Node
	if len(m.Foods) > 0 {
		grid = append(grid, foodRecommendations(m.Foods))
	}
	if len(m.Diets) > 0 {
		grid = append(grid, dietRecommendations(m.Diets))
	}
	if len(m.Ingredients) > 0 {
		grid = append(grid, ingredientRecommendations(m.Ingredients))
	}
	if len(grid) > 0 {
		root = root.Append(Div("recommendations-grid", grid...))
	}
	if m.NextDay != nil {
		root = root.Append(nextDayPlan(*m.NextDay))
	}
	var goals []Node
	if m.WeeklyGoal != "" {
		goals = append(goals, Div("weekly-goal-card", H(4, "🎯 This Week's Focus"), P("", Text(m.WeeklyGoal))))
	}
	if m.HydrationReminder != "" {
		goals = append(goals, Div("hydration-card", H(4, "💧 Hydration Reminder"), P("", Text(m.HydrationReminder))))
	}
	if len(goals) > 0 {
		root = root.Append(Div("goals-section", goals...))
	}
	return root.Append(generatedOn(m.CreatedAt))
}

func nutritionalAnalysis(a recommendations.NutritionalAnalysis) Node {
	card := func(title, body string) Node {
		if body == "" {
			body = noData
		}
		return Div("analysis-card", H(4, title), P("", Text(body)))
	}
	section := Div("nutritional-analysis-section",
		H(3, "📊 Nutritional Status Analysis"),
		Div("analysis-grid",
			card("🔥 Calorie Analysis", a.CalorieAnalysis),
			card("⚖️ Macronutrient Balance", a.MacronutrientBalance),
			card("💎 Micronutrient Status", a.MicronutrientStatus),
		),
	)
	if len(a.Deficiencies) > 0 {
		section = section.Append(Div("deficiencies-card",
			H(4, "⚠️ Areas for Improvement"),
			List("ul", "deficiency-list", a.Deficiencies),
		))
	}
	if len(a.Strengths) > 0 {
		section = section.Append(Div("strengths-card",
			H(4, "✨ Nutritional Strengths"),
			List("ul", "strength-list", a.Strengths),
		))
	}
	return section
}

func foodRecommendations(foods []recommendations.FoodRecommendation) Node {
	cards := make([]Node, 0, len(foods))
	for _, f := range foods {
		mealType := f.MealType
		if mealType == "" {
			mealType = "Anytime"
		}
		card := Div("food-recommendation-card",
			Div("meal-type-badge", Text(mealType)),
			H(4, f.FoodName),
			P("food-benefits", Text(f.Benefits)),
		)
		if len(f.NutrientsProvided) > 0 {
			card = card.Append(Div("nutrients-provided",
				Strong("Key Nutrients:"),
				Div("nutrient-tags", tags("nutrient-tag", f.NutrientsProvided)...),
			))
		}
		if f.PreparationTip != "" {
			card = card.Append(Div("prep-tip", Strong("💡 Tip:"), Text(" "+f.PreparationTip)))
		}
		cards = append(cards, card)
	}
	return Div("food-recommendations-section",
		H(3, "🍽️ Personalized Food Recommendations"),
		Div("food-cards-grid", cards...),
	)
}

func dietRecommendations(diets []recommendations.DietRecommendation) Node {
	cards := make([]Node, 0, len(diets))
	for _, d := range diets {
		cards = append(cards, Div("diet-recommendation-card",
			Div("diet-category", Text(d.Category)),
			H(4, d.Recommendation),
			P("diet-rationale", Strong("Why:"), Text(" "+d.Rationale)),
			P("diet-implementation", Strong("How:"), Text(" "+d.Implementation)),
		))
	}
	return Div("diet-recommendations-section",
		H(3, "🥗 Diet & Lifestyle Recommendations"),
		Div("diet-cards", cards...),
	)
}

func ingredientRecommendations(ingredients []recommendations.IngredientRecommendation) Node {
	cards := make([]Node, 0, len(ingredients))
	for _, in := range ingredients {
		card := Div("ingredient-card",
			H(4, in.Ingredient),
			Div("nutrient-focus", Strong("Focus Nutrient:"), Text(" "+in.NutrientFocus)),
			P("health-benefits", Text(in.HealthBenefits)),
		)
		if len(in.UsageSuggestions) > 0 {
			card = card.Append(Div("usage-suggestions",
				Strong("Usage Ideas:"),
				List("ul", "", in.UsageSuggestions),
			))
		}
		if in.DailyAmount != "" {
			card = card.Append(Div("daily-amount", Strong("Recommended Amount:"), Text(" "+in.DailyAmount)))
		}
		cards = append(cards, card)
	}
	return Div("ingredient-recommendations-section",
		H(3, "🌿 Key Ingredients to Add"),
		Div("ingredient-cards", cards...),
	)
}

func nextDayPlan(plan recommendations.NextDayPlan) Node {
	var meals []Node
	for _, slot := range []struct {
		class, title string
		meal         *recommendations.PlannedMeal
	}{
		{"breakfast", "🌅 Breakfast", plan.Breakfast},
		{"lunch", "☀️ Lunch", plan.Lunch},
		{"dinner", "🌙 Dinner", plan.Dinner},
	} {
		if slot.meal == nil {
			continue
		}
		card := Div("meal-plan-card "+slot.class, H(4, slot.title), P("", Text(slot.meal.Suggestion)))
		if len(slot.meal.FocusNutrients) > 0 {
			card = card.Append(Div("focus-nutrients",
				Strong("Focus:"),
				Text(" "+strings.Join(slot.meal.FocusNutrients, ", ")),
			))
		}
		meals = append(meals, card)
	}
	section := Div("next-day-plan-section", H(3, "📅 Tomorrow's Meal Plan"), Div("meal-plan-grid", meals...))
	if len(plan.Snacks) > 0 {
		section = section.Append(Div("snacks-section",
			H(4, "🍎 Healthy Snack Options"),
			Div("snack-tags", tags("snack-tag", plan.Snacks)...),
		))
	}
	return section
}

func generatedOn(t *time.Time) Node {
	if t == nil {
		return Nothing()
	}
	return P("recommendation-date", Text("Generated: "+t.Format("1/2/2006")))
}

func tags(class string, values []string) []Node {
	out := make([]Node, 0, len(values))
	for _, v := range values {
		out = append(out, Span(class, Text(v)))
	}
	return out
}
