package recommendations

import "time"

// Payload is the untyped recommendation document returned by the backend.
type Payload map[string]any

// Kind tags the active variant of a ViewModel.
type Kind string

const (
	KindEmpty    Kind = "empty"
	KindLegacy   Kind = "legacy"
	KindEnhanced Kind = "enhanced"
)

// ViewModel is the normalized, render-ready form of a Payload.
// Exactly one of Empty, Legacy or Enhanced implements it.
type ViewModel interface {
	Kind() Kind
	isViewModel()
}

// Empty means the payload carried nothing worth rendering.
type Empty struct{}

// Legacy is the flat recommendation list from the first schema era.
type Legacy struct {
	Assessment string
	WeeklyGoal string
	Items      []Item
	CreatedAt  *time.Time
}

// Item is one legacy recommendation.
type Item struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Priority    string `json:"priority"`
}

// Enhanced holds the sectioned schema. A nil pointer or nil slice is an
// absent section. A list section with no usable items is absent too, so the
// payload still classifies as Enhanced but renders no empty card for it.
type Enhanced struct {
	OverallAssessment string
	Analysis          *NutritionalAnalysis
	Foods             []FoodRecommendation
	Diets             []DietRecommendation
	Ingredients       []IngredientRecommendation
	NextDay           *NextDayPlan
	WeeklyGoal        string
	HydrationReminder string
	CreatedAt         *time.Time
}

type NutritionalAnalysis struct {
	CalorieAnalysis      string
	MacronutrientBalance string
	MicronutrientStatus  string
	Deficiencies         []string
	Strengths            []string
}

type FoodRecommendation struct {
	FoodName          string
	MealType          string
	Benefits          string
	NutrientsProvided []string
	PreparationTip    string
}

type DietRecommendation struct {
	Category       string
	Recommendation string
	Rationale      string
	Implementation string
}

type IngredientRecommendation struct {
	Ingredient       string
	NutrientFocus    string
	HealthBenefits   string
	UsageSuggestions []string
	DailyAmount      string
}

// NextDayPlan is tomorrow's suggested meals. Absent meals are nil.
type NextDayPlan struct {
	Breakfast *PlannedMeal
	Lunch     *PlannedMeal
	Dinner    *PlannedMeal
	Snacks    []string
}

type PlannedMeal struct {
	Suggestion     string
	FocusNutrients []string
}

// Section names an optional part of an Enhanced view-model.
type Section string

const (
	SectionNutritionalAnalysis       Section = "nutritional_analysis"
	SectionFoodRecommendations       Section = "food_recommendations"
	SectionDietRecommendations       Section = "diet_recommendations"
	SectionIngredientRecommendations Section = "ingredient_recommendations"
	SectionNextDayPlan               Section = "next_day_plan"
	SectionWeeklyGoal                Section = "weekly_goal"
	SectionHydrationReminder         Section = "hydration_reminder"
)

func (Empty) Kind() Kind    { return KindEmpty }
func (Legacy) Kind() Kind   { return KindLegacy }
func (Enhanced) Kind() Kind { return KindEnhanced }

func (Empty) isViewModel()    {}
func (Legacy) isViewModel()   {}
func (Enhanced) isViewModel() {}

// Sections lists the present sections in render order.
func (e Enhanced) Sections() []Section {
	out := make([]Section, 0, 7)
	if e.Analysis != nil {
		out = append(out, SectionNutritionalAnalysis)
	}
	if e.Foods != nil {
		out = append(out, SectionFoodRecommendations)
	}
	if e.Diets != nil {
		out = append(out, SectionDietRecommendations)
	}
	if e.Ingredients != nil {
		out = append(out, SectionIngredientRecommendations)
	}
	if e.NextDay != nil {
		out = append(out, SectionNextDayPlan)
	}
	if e.WeeklyGoal != "" {
		out = append(out, SectionWeeklyGoal)
	}
	if e.HydrationReminder != "" {
		out = append(out, SectionHydrationReminder)
	}
	return out
}

// Has reports whether the given section is present.
func (e Enhanced) Has(s Section) bool {
	for _, present := range e.Sections() {
		if present == s {
			return true
		}
	}
	return false
}
