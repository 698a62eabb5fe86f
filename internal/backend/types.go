package backend

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Number is a numeric field the backend may send as a number, a numeric
// string or null. Anything unparsable decodes as zero.
type Number float64

func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*n = 0
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*n = Number(f)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			*n = Number(parsed)
			return nil
		}
	}
	*n = 0
	return nil
}

func (n Number) Float() float64 { return float64(n) }

// Int rounds to the nearest whole number.
func (n Number) Int() int { return int(math.Round(float64(n))) }

// Quantity is an optional amount such as a macro weight. The backend sends
// either a number or a string like "12g"; an empty Quantity means absent.
type Quantity string

func (q *Quantity) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*q = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*q = Quantity(strings.TrimSpace(s))
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*q = Quantity(strconv.FormatFloat(f, 'f', -1, 64))
		return nil
	}
	*q = ""
	return nil
}

// Present reports whether the field carried a usable value.
func (q Quantity) Present() bool { return strings.TrimSpace(string(q)) != "" }

// Bare strips a trailing gram unit so callers can re-append one.
func (q Quantity) Bare() string {
	s := strings.TrimSpace(string(q))
	return strings.TrimSpace(strings.TrimSuffix(s, "g"))
}

// ID accepts numeric or string identifiers.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = ID(s)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return err
	}
	*id = ID(num.String())
	return nil
}

type Vitamin struct {
	Name              string   `json:"name"`
	PercentDailyValue Quantity `json:"percent_daily_value"`
}

// Meal is one logged meal as returned inside a daily summary.
type Meal struct {
	ID            ID        `json:"id"`
	FoodItem      string    `json:"food_item"`
	Calories      Number    `json:"calories"`
	Time          string    `json:"time,omitempty"`
	ServingSize   Quantity  `json:"serving_size,omitempty"`
	Protein       Quantity  `json:"protein,omitempty"`
	Carbohydrates Quantity  `json:"carbohydrates,omitempty"`
	Fat           Quantity  `json:"fat,omitempty"`
	Vitamins      []Vitamin `json:"vitamins,omitempty"`
}

type DailySummary struct {
	TotalCalories Number   `json:"total_calories"`
	TotalProtein  Number   `json:"total_protein"`
	TotalCarbs    Number   `json:"total_carbs"`
	TotalFat      Number   `json:"total_fat"`
	MealCount     Number   `json:"meal_count"`
	Meals         []Meal   `json:"meals"`
	Foods         []string `json:"foods"`
}

type HistoryDay struct {
	Date          string   `json:"date"`
	TotalCalories Number   `json:"total_calories"`
	MealCount     Number   `json:"meal_count"`
	Foods         []string `json:"foods"`
}

type Settings struct {
	Theme         string   `json:"theme"`
	AITemperature *float64 `json:"ai_temperature"`
	AITopP        *float64 `json:"ai_top_p"`
	GeminiAPIKeys []string `json:"gemini_api_keys"`
}

// SettingsUpdate is a partial settings write; nil fields are left alone
// server-side. A non-nil empty key list clears all keys.
type SettingsUpdate struct {
	Theme         *string   `json:"theme,omitempty"`
	AITemperature *float64  `json:"ai_temperature,omitempty"`
	AITopP        *float64  `json:"ai_top_p,omitempty"`
	GeminiAPIKeys *[]string `json:"gemini_api_keys,omitempty"`
}

type Profile struct {
	Name          string   `json:"name,omitempty"`
	Age           *int     `json:"age"`
	Weight        *float64 `json:"weight"`
	ActivityLevel string   `json:"activity_level,omitempty"`
}

// Goals holds per-metric targets. A nil metric is unset, which the backend
// stores as null and is distinct from a zero target.
type Goals struct {
	Description string   `json:"goal_description"`
	Calories    *float64 `json:"daily_calories"`
	Protein     *float64 `json:"daily_protein"`
	Carbs       *float64 `json:"daily_carbs"`
	Fat         *float64 `json:"daily_fat"`
}

// Metric names accepted by Goals.Clear.
const (
	MetricCalories = "calories"
	MetricProtein  = "protein"
	MetricCarbs    = "carbs"
	MetricFat      = "fat"
)

// Clear unsets one metric and reports whether the name was known.
func (g *Goals) Clear(metric string) bool {
	switch metric {
	case MetricCalories:
		g.Calories = nil
	case MetricProtein:
		g.Protein = nil
	case MetricCarbs:
		g.Carbs = nil
	case MetricFat:
		g.Fat = nil
	default:
		return false
	}
	return true
}

// MealRequest is the body of POST /analyze-meal.
type MealRequest struct {
	Description string `json:"description"`
	Time        string `json:"time"`
	UserID      int    `json:"user_id"`
}

// AnalyzeResult is a successful meal analysis.
type AnalyzeResult struct {
	MealID        ID              `json:"meal_id"`
	NutritionData json.RawMessage `json:"nutrition_data,omitempty"`
}

type result struct {
	Success *bool  `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
}
