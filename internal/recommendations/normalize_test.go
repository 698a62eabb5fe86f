package recommendations

import (
	"reflect"
	"testing"
)

func TestNormalizeClassification(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Kind
	}{
		{name: "null", raw: `null`, want: KindEmpty},
		{name: "empty object", raw: `{}`, want: KindEmpty},
		{name: "malformed", raw: `{"overall_assessment":`, want: KindEmpty},
		{name: "array payload", raw: `[{"title":"x"}]`, want: KindEmpty},
		{name: "backend empty marker", raw: `{"recommendations": [], "message": "No recommendations found"}`, want: KindEmpty},
		{name: "empty strings only", raw: `{"overall_assessment": "", "weekly_goal": ""}`, want: KindEmpty},
		{name: "empty enhanced sections", raw: `{"food_recommendations": [], "nutritional_analysis": {}, "next_day_plan": null}`, want: KindEmpty},
		{name: "non string assessment", raw: `{"overall_assessment": 12}`, want: KindEmpty},
		{name: "assessment only", raw: `{"overall_assessment": "Solid week"}`, want: KindLegacy},
		{name: "legacy list", raw: `{"recommendations": [{"title": "Eat greens"}]}`, want: KindLegacy},
		{name: "enhanced beats empty legacy list", raw: `{"recommendations": [], "diet_recommendations": [{"category": "habits"}]}`, want: KindEnhanced},
		{name: "enhanced beats legacy list", raw: `{"recommendations": [{"title": "a"}], "next_day_plan": {"snacks": ["nuts"]}}`, want: KindEnhanced},
		{name: "truthy scalar section", raw: `{"nutritional_analysis": "pending"}`, want: KindEnhanced},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeJSON([]byte(tt.raw))
			if got.Kind() != tt.want {
				t.Fatalf("NormalizeJSON(%s) kind = %q, want %q", tt.raw, got.Kind(), tt.want)
			}
		})
	}
}

func TestNormalizeFoodRecommendationsAlwaysEnhanced(t *testing.T) {
	extras := []Payload{
		{},
		{"recommendations": []any{map[string]any{"title": "old"}}},
		{"overall_assessment": "fine"},
		{"nutritional_analysis": map[string]any{}},
		{"recommendations": "garbage", "created_at": 17},
	}
	for i, extra := range extras {
		payload := Payload{"food_recommendations": []any{map[string]any{"food_name": "Spinach"}}}
		for k, v := range extra {
			payload[k] = v
		}
		vm, ok := Normalize(payload).(Enhanced)
		if !ok {
			t.Fatalf("case %d: expected Enhanced, got %T", i, Normalize(payload))
		}
		if !vm.Has(SectionFoodRecommendations) {
			t.Fatalf("case %d: expected food section present", i)
		}
		if len(vm.Foods) != 1 || vm.Foods[0].FoodName != "Spinach" {
			t.Fatalf("case %d: unexpected foods %+v", i, vm.Foods)
		}
	}
}

func TestNormalizeAssessmentOnlyHasNoItems(t *testing.T) {
	vm := Normalize(Payload{
		"overall_assessment": "Keep going",
		"recommendations":    []any{},
		"weekly_goal":        "",
	})
	legacy, ok := vm.(Legacy)
	if !ok {
		t.Fatalf("expected Legacy, got %T", vm)
	}
	if legacy.Assessment != "Keep going" {
		t.Fatalf("unexpected assessment %q", legacy.Assessment)
	}
	if len(legacy.Items) != 0 {
		t.Fatalf("expected no items, got %d", len(legacy.Items))
	}
}

func TestNormalizeNilPayload(t *testing.T) {
	if got := Normalize(nil); got.Kind() != KindEmpty {
		t.Fatalf("expected Empty, got %q", got.Kind())
	}
	if got := NormalizeAny(nil); got.Kind() != KindEmpty {
		t.Fatalf("expected Empty, got %q", got.Kind())
	}
	if got := NormalizeJSON(nil); got.Kind() != KindEmpty {
		t.Fatalf("expected Empty, got %q", got.Kind())
	}
}

func TestNormalizeLegacyItems(t *testing.T) {
	raw := []byte(`{
  "overall_assessment": "Protein is low",
  "weekly_goal": "Add a protein source to breakfast",
  "created_at": "2025-01-15 18:30:00",
  "recommendations": [
    {"title": "Eggs", "description": "Two eggs", "category": "protein", "priority": "high"},
    "not an object",
    {"title": "Greek yogurt", "priority": 2}
  ]
}`)
	legacy, ok := NormalizeJSON(raw).(Legacy)
	if !ok {
		t.Fatalf("expected Legacy")
	}
	want := []Item{
		{Title: "Eggs", Description: "Two eggs", Category: "protein", Priority: "high"},
		{Title: "Greek yogurt", Priority: "2"},
	}
	if !reflect.DeepEqual(legacy.Items, want) {
		t.Fatalf("items = %+v, want %+v", legacy.Items, want)
	}
	if legacy.WeeklyGoal != "Add a protein source to breakfast" {
		t.Fatalf("unexpected weekly goal %q", legacy.WeeklyGoal)
	}
	if legacy.CreatedAt == nil || legacy.CreatedAt.Day() != 15 {
		t.Fatalf("expected created_at to parse, got %v", legacy.CreatedAt)
	}
}

func TestNormalizeEnhancedCarriesOnlyPresentSections(t *testing.T) {
	raw := []byte(`{
  "overall_assessment": "Balanced",
  "nutritional_analysis": {"calorie_analysis": "On target", "deficiencies": ["iron", 3, ""]},
  "food_recommendations": [],
  "ingredient_recommendations": [{"ingredient": "Lentils", "usage_suggestions": ["soup"]}],
  "next_day_plan": {"breakfast": {"suggestion": "Oats", "focus_nutrients": ["fiber"]}, "lunch": null},
  "hydration_reminder": "Drink 2L",
  "created_at": "not a date"
}`)
	vm, ok := NormalizeJSON(raw).(Enhanced)
	if !ok {
		t.Fatalf("expected Enhanced")
	}
	wantSections := []Section{
		SectionNutritionalAnalysis,
		SectionIngredientRecommendations,
		SectionNextDayPlan,
		SectionHydrationReminder,
	}
	if got := vm.Sections(); !reflect.DeepEqual(got, wantSections) {
		t.Fatalf("sections = %v, want %v", got, wantSections)
	}
	if vm.Foods != nil || vm.Diets != nil {
		t.Fatalf("expected absent sections to stay nil")
	}
	if !reflect.DeepEqual(vm.Analysis.Deficiencies, []string{"iron"}) {
		t.Fatalf("unexpected deficiencies %v", vm.Analysis.Deficiencies)
	}
	if vm.NextDay.Breakfast == nil || vm.NextDay.Breakfast.Suggestion != "Oats" {
		t.Fatalf("expected breakfast suggestion")
	}
	if vm.NextDay.Lunch != nil || vm.NextDay.Dinner != nil {
		t.Fatalf("expected absent meals to be nil")
	}
	if vm.CreatedAt != nil {
		t.Fatalf("expected unparsable created_at to be dropped")
	}
	if vm.OverallAssessment != "Balanced" {
		t.Fatalf("unexpected assessment %q", vm.OverallAssessment)
	}
}

func TestNormalizeEnhancedDropsListSectionsWithoutItems(t *testing.T) {
	tests := []struct {
		name    string
		payload Payload
	}{
		{"non object items", Payload{"diet_recommendations": []any{"x", 1, nil}}},
		{"scalar foods", Payload{"food_recommendations": "pending"}},
		{"object ingredients", Payload{"ingredient_recommendations": map[string]any{"ingredient": "kale"}}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			vm, ok := Normalize(tt.payload).(Enhanced)
			if !ok {
				t.Fatalf("expected Enhanced")
			}
			if vm.Foods != nil || vm.Diets != nil || vm.Ingredients != nil {
				t.Fatalf("expected list sections without items to be absent, got %+v", vm)
			}
			if got := vm.Sections(); len(got) != 0 {
				t.Fatalf("sections = %v, want none", got)
			}
		})
	}
}

func TestNormalizeEnhancedKeepsUsableItems(t *testing.T) {
	vm, ok := Normalize(Payload{"diet_recommendations": []any{"x", map[string]any{"category": "Fiber"}}}).(Enhanced)
	if !ok {
		t.Fatalf("expected Enhanced")
	}
	if len(vm.Diets) != 1 || vm.Diets[0].Category != "Fiber" {
		t.Fatalf("unexpected diets %+v", vm.Diets)
	}
}

func TestNormalizeIsDeterministic(t *testing.T) {
	raw := []byte(`{"food_recommendations":[{"food_name":"Kale","nutrients_provided":["K","C"]}],"weekly_goal":"Greens"}`)
	first := NormalizeJSON(raw)
	second := NormalizeJSON(raw)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical view-models for identical input")
	}
}
