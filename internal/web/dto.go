package web

import (
	"strconv"
	"strings"

	"chundiet-web/internal/backend"
	"chundiet-web/internal/gesture"
)

type touchEvent struct {
	Type    string          `json:"type" validate:"required,oneof=start move end"`
	X       *float64        `json:"x"`
	Y       *float64        `json:"y"`
	Touches []gesture.Point `json:"touches" validate:"max=10"`
}

// gestureRequest is one finished touch session as recorded by the page.
type gestureRequest struct {
	Events    []touchEvent `json:"events" validate:"required,min=1,max=500,dive"`
	ScrollTop float64      `json:"scroll_top" validate:"gte=0"`
}

// toEvents accepts either a touches list or a flat x/y pair per event.
func (r gestureRequest) toEvents() []gesture.Event {
	out := make([]gesture.Event, 0, len(r.Events))
	for _, e := range r.Events {
		ev := gesture.Event{Type: gesture.EventType(e.Type), Touches: e.Touches}
		if len(ev.Touches) == 0 && e.X != nil && e.Y != nil {
			ev.Touches = []gesture.Point{{X: *e.X, Y: *e.Y}}
		}
		out = append(out, ev)
	}
	return out
}

type mealForm struct {
	Description string `form:"description" json:"description" validate:"max=2000"`
	Time        string `form:"time" json:"time" validate:"omitempty,datetime=2006-01-02T15:04"`
}

type profileForm struct {
	Name          string `form:"name" json:"name" validate:"max=100"`
	Age           string `form:"age" json:"age" validate:"omitempty,age"`
	Weight        string `form:"weight" json:"weight" validate:"omitempty,amount"`
	ActivityLevel string `form:"activity_level" json:"activity_level" validate:"omitempty,oneof=sedentary light moderate active very_active"`
}

func (f profileForm) toProfile() backend.Profile {
	p := backend.Profile{Name: strings.TrimSpace(f.Name), ActivityLevel: f.ActivityLevel}
	if n, err := strconv.Atoi(strings.TrimSpace(f.Age)); err == nil {
		p.Age = &n
	}
	p.Weight = optionalAmount(f.Weight)
	return p
}

// goalsForm keeps metrics as text so an empty field stays unset rather than
// becoming zero.
type goalsForm struct {
	Description string `form:"goal_description" json:"goal_description" validate:"max=500"`
	Calories    string `form:"daily_calories" json:"daily_calories" validate:"omitempty,amount"`
	Protein     string `form:"daily_protein" json:"daily_protein" validate:"omitempty,amount"`
	Carbs       string `form:"daily_carbs" json:"daily_carbs" validate:"omitempty,amount"`
	Fat         string `form:"daily_fat" json:"daily_fat" validate:"omitempty,amount"`
}

func (f goalsForm) toGoals() backend.Goals {
	return backend.Goals{
		Description: strings.TrimSpace(f.Description),
		Calories:    optionalAmount(f.Calories),
		Protein:     optionalAmount(f.Protein),
		Carbs:       optionalAmount(f.Carbs),
		Fat:         optionalAmount(f.Fat),
	}
}

type aiSettingsForm struct {
	Temperature float64 `form:"ai_temperature" json:"ai_temperature" validate:"gte=0,lte=1"`
	TopP        float64 `form:"ai_top_p" json:"ai_top_p" validate:"gte=0,lte=1"`
}

// themeForm accepts the checkbox from the settings page or an explicit theme.
type themeForm struct {
	Dark  string `form:"dark" json:"-"`
	Theme string `form:"theme" json:"theme" validate:"omitempty,oneof=light dark"`
}

func (f themeForm) theme() string {
	if f.Theme != "" {
		return f.Theme
	}
	if on, _ := strconv.ParseBool(f.Dark); on || f.Dark == "on" {
		return "dark"
	}
	return "light"
}

type apiKeyForm struct {
	Key string `form:"api_key" json:"api_key" validate:"max=200"`
}

func optionalAmount(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}
