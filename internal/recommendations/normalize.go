package recommendations

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// enhancedKeys are checked in this order; any truthy one selects Enhanced.
var enhancedKeys = []string{
	string(SectionNutritionalAnalysis),
	string(SectionFoodRecommendations),
	string(SectionDietRecommendations),
	string(SectionIngredientRecommendations),
	string(SectionNextDayPlan),
}

// Normalize classifies a payload into exactly one ViewModel variant.
// Enhanced beats Legacy, Legacy beats assessment-only, and anything else is
// Empty. It never panics on missing or mistyped fields.
func Normalize(payload Payload) ViewModel {
	if len(payload) == 0 {
		return Empty{}
	}
	for _, key := range enhancedKeys {
		if truthy(payload[key]) {
			return normalizeEnhanced(payload)
		}
	}
	if items, ok := payload["recommendations"].([]any); ok && len(items) > 0 {
		return normalizeLegacy(payload, items)
	}
	if assessment, ok := payload["overall_assessment"].(string); ok && assessment != "" {
		return normalizeLegacy(payload, nil)
	}
	return Empty{}
}

// NormalizeJSON decodes raw and normalizes it. Anything that is not a JSON
// object, including null and malformed input, becomes Empty.
func NormalizeJSON(raw []byte) ViewModel {
	if len(raw) == 0 {
		return Empty{}
	}
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return Empty{}
	}
	return NormalizeAny(decoded)
}

// NormalizeAny accepts an already decoded value of unknown shape.
func NormalizeAny(value any) ViewModel {
	switch v := value.(type) {
	case Payload:
		return Normalize(v)
	case map[string]any:
		return Normalize(Payload(v))
	default:
		return Empty{}
	}
}

func normalizeLegacy(payload Payload, rawItems []any) Legacy {
	items := make([]Item, 0, len(rawItems))
	for _, raw := range rawItems {
		obj, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		items = append(items, Item{
			Title:       stringField(obj, "title"),
			Description: stringField(obj, "description"),
			Category:    stringField(obj, "category"),
			Priority:    stringField(obj, "priority"),
		})
	}
	return Legacy{
		Assessment: stringField(payload, "overall_assessment"),
		WeeklyGoal: stringField(payload, "weekly_goal"),
		Items:      items,
		CreatedAt:  parseCreatedAt(payload["created_at"]),
	}
}

func normalizeEnhanced(payload Payload) Enhanced {
	out := Enhanced{
		OverallAssessment: stringField(payload, "overall_assessment"),
		WeeklyGoal:        stringField(payload, "weekly_goal"),
		HydrationReminder: stringField(payload, "hydration_reminder"),
		CreatedAt:         parseCreatedAt(payload["created_at"]),
	}
	if raw := payload[string(SectionNutritionalAnalysis)]; truthy(raw) {
		out.Analysis = normalizeAnalysis(raw)
	}
	if raw := payload[string(SectionFoodRecommendations)]; truthy(raw) {
		out.Foods = normalizeFoods(raw)
	}
	if raw := payload[string(SectionDietRecommendations)]; truthy(raw) {
		out.Diets = normalizeDiets(raw)
	}
	if raw := payload[string(SectionIngredientRecommendations)]; truthy(raw) {
		out.Ingredients = normalizeIngredients(raw)
	}
	if raw := payload[string(SectionNextDayPlan)]; truthy(raw) {
		out.NextDay = normalizeNextDay(raw)
	}
	return out
}

func normalizeAnalysis(raw any) *NutritionalAnalysis {
	obj, _ := raw.(map[string]any)
	return &NutritionalAnalysis{
		CalorieAnalysis:      stringField(obj, "calorie_analysis"),
		MacronutrientBalance: stringField(obj, "macronutrient_balance"),
		MicronutrientStatus:  stringField(obj, "micronutrient_status"),
		Deficiencies:         extractStringSlice(obj["deficiencies"]),
		Strengths:            extractStringSlice(obj["strengths"]),
	}
}

func normalizeFoods(raw any) []FoodRecommendation {
	objs := objectList(raw)
	if len(objs) == 0 {
		return nil
	}
	out := make([]FoodRecommendation, 0, len(objs))
	for _, obj := range objs {
		out = append(out, FoodRecommendation{
			FoodName:          stringField(obj, "food_name"),
			MealType:          stringField(obj, "meal_type"),
			Benefits:          stringField(obj, "benefits"),
			NutrientsProvided: extractStringSlice(obj["nutrients_provided"]),
			PreparationTip:    stringField(obj, "preparation_tip"),
		})
	}
	return out
}

func normalizeDiets(raw any) []DietRecommendation {
	objs := objectList(raw)
	if len(objs) == 0 {
		return nil
	}
	out := make([]DietRecommendation, 0, len(objs))
	for _, obj := range objs {
		out = append(out, DietRecommendation{
			Category:       stringField(obj, "category"),
			Recommendation: stringField(obj, "recommendation"),
			Rationale:      stringField(obj, "rationale"),
			Implementation: stringField(obj, "implementation"),
		})
	}
	return out
}

func normalizeIngredients(raw any) []IngredientRecommendation {
	objs := objectList(raw)
	if len(objs) == 0 {
		return nil
	}
	out := make([]IngredientRecommendation, 0, len(objs))
	for _, obj := range objs {
		out = append(out, IngredientRecommendation{
			Ingredient:       stringField(obj, "ingredient"),
			NutrientFocus:    stringField(obj, "nutrient_focus"),
			HealthBenefits:   stringField(obj, "health_benefits"),
			UsageSuggestions: extractStringSlice(obj["usage_suggestions"]),
			DailyAmount:      stringField(obj, "daily_amount"),
		})
	}
	return out
}

func normalizeNextDay(raw any) *NextDayPlan {
	obj, _ := raw.(map[string]any)
	return &NextDayPlan{
		Breakfast: normalizePlannedMeal(obj["breakfast"]),
		Lunch:     normalizePlannedMeal(obj["lunch"]),
		Dinner:    normalizePlannedMeal(obj["dinner"]),
		Snacks:    extractStringSlice(obj["snacks"]),
	}
}

func normalizePlannedMeal(raw any) *PlannedMeal {
	if !truthy(raw) {
		return nil
	}
	obj, _ := raw.(map[string]any)
	return &PlannedMeal{
		Suggestion:     stringField(obj, "suggestion"),
		FocusNutrients: extractStringSlice(obj["focus_nutrients"]),
	}
}

// truthy mirrors the backend's notion of "present": empty strings, arrays
// and objects count as absent, as do zero, false and null.
func truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case string:
		return v != ""
	case bool:
		return v
	case float64:
		return v != 0 && !math.IsNaN(v)
	case json.Number:
		f, err := v.Float64()
		return err == nil && f != 0
	case int:
		return v != 0
	case []any:
		return len(v) > 0
	case []string:
		return len(v) > 0
	case map[string]any:
		return len(v) > 0
	case Payload:
		return len(v) > 0
	default:
		return true
	}
}

func objectList(raw any) []map[string]any {
	list, ok := raw.([]any)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(list))
	for _, item := range list {
		if obj, ok := item.(map[string]any); ok {
			out = append(out, obj)
		}
	}
	return out
}

func stringField(obj map[string]any, key string) string {
	switch v := obj[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

func extractStringSlice(value any) []string {
	switch raw := value.(type) {
	case []string:
		return raw
	case []any:
		out := make([]string, 0, len(raw))
		for _, item := range raw {
			if str, ok := item.(string); ok && str != "" {
				out = append(out, str)
			}
		}
		return out
	default:
		return nil
	}
}

var createdAtLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseCreatedAt(value any) *time.Time {
	raw, ok := value.(string)
	if !ok {
		return nil
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range createdAtLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	return nil
}
