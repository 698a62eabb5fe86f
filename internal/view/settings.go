package view

import (
	"strconv"

	"chundiet-web/internal/backend"
)

// Defaults shown when the backend has no stored AI parameters.
const (
	DefaultTemperature = 0.7
	DefaultTopP        = 0.9
)

var activityLevels = []struct{ value, label string }{
	{"sedentary", "Sedentary"},
	{"light", "Lightly active"},
	{"moderate", "Moderately active"},
	{"active", "Active"},
	{"very_active", "Very active"},
}

// ActivityLevels lists the accepted activity_level values.
func ActivityLevels() []string {
	out := make([]string, 0, len(activityLevels))
	for _, l := range activityLevels {
		out = append(out, l.value)
	}
	return out
}

// MaskKey shows the first 8 and last 4 characters of an API key.
func MaskKey(key string) string {
	if len(key) < 12 {
		return "****"
	}
	return key[:8] + "..." + key[len(key)-4:]
}

func input(typ, name, value string) Node {
	return El("input").Attr("type", typ).Attr("name", name).Attr("value", value)
}

func form(id, action string, children ...Node) Node {
	return El("form", children...).ID(id).Attr("method", "post").Attr("action", action)
}

func field(label string, control Node) Node {
	return El("label", Text(label), control).Class("form-field")
}

// ProfileForm renders the profile section.
func ProfileForm(p backend.Profile) Node {
	age := ""
	if p.Age != nil {
		age = strconv.Itoa(*p.Age)
	}
	weight := ""
	if p.Weight != nil {
		weight = formatNumber(*p.Weight)
	}
	options := []Node{El("option", Text("Select level")).Attr("value", "")}
	for _, l := range activityLevels {
		opt := El("option", Text(l.label)).Attr("value", l.value)
		if l.value == p.ActivityLevel {
			opt = opt.Attr("selected", "selected")
		}
		options = append(options, opt)
	}
	return Div("settings-card",
		H(3, "👤 Profile"),
		form("profileForm", "/settings/profile",
			field("Name", input("text", "name", p.Name)),
			field("Age", input("number", "age", age).Attr("min", "1").Attr("max", "120")),
			field("Weight (kg)", input("number", "weight", weight).Attr("step", "0.1")),
			field("Activity level", El("select", options...).Attr("name", "activity_level")),
			El("button", Text("Save Profile")).Class("btn-primary").Attr("type", "submit"),
		),
	)
}

// AISettings renders the temperature and top-p sliders.
func AISettings(s backend.Settings) Node {
	temp := DefaultTemperature
	if s.AITemperature != nil {
		temp = *s.AITemperature
	}
	topP := DefaultTopP
	if s.AITopP != nil {
		topP = *s.AITopP
	}
	slider := func(label, name, id string, value float64) Node {
		v := formatNumber(value)
		return field(label, Group(
			input("range", name, v).Attr("min", "0").Attr("max", "1").Attr("step", "0.1"),
			Span("slider-value", Text(v)).ID(id),
		))
	}
	return Div("settings-card",
		H(3, "🤖 AI Settings"),
		form("aiSettingsForm", "/settings/ai",
			slider("Temperature", "ai_temperature", "tempValue", temp),
			slider("Top P", "ai_top_p", "topPValue", topP),
			El("button", Text("Save AI Settings")).Class("btn-primary").Attr("type", "submit"),
		),
	)
}

// ThemeToggle renders the dark mode switch.
func ThemeToggle(theme string) Node {
	toggle := input("checkbox", "dark", "true").ID("themeToggle")
	if theme == "dark" {
		toggle = toggle.Attr("checked", "checked")
	}
	return Div("settings-card",
		H(3, "🎨 Appearance"),
		form("themeForm", "/settings/theme", field("Dark mode", toggle)),
	)
}

// APIKeys renders the stored Gemini keys, masked.
func APIKeys(keys []string) Node {
	var list Node
	if len(keys) == 0 {
		list = P("empty-keys", Text("No API keys configured"))
	} else {
		items := make([]Node, 0, len(keys))
		for i, k := range keys {
			items = append(items, Div("api-key-item",
				Span("key-preview", Text(MaskKey(k))),
				El("button", Text("Remove")).
					Class("btn-danger").
					Attr("type", "button").
					Attr("data-action", "remove-api-key").
					Attr("data-index", strconv.Itoa(i)),
			))
		}
		list = Group(items...)
	}
	return Div("settings-card",
		H(3, "🔑 Gemini API Keys"),
		Div("api-keys-list", list).ID("apiKeysList"),
		form("apiKeyForm", "/settings/api-keys",
			input("password", "api_key", "").ID("geminiKey").Attr("autocomplete", "off"),
			El("button", Text("Add Key")).Class("btn-primary").Attr("type", "submit"),
		),
	)
}

// GoalValue renders a metric target or "Not set".
func GoalValue(v *float64, unit string) string {
	if v == nil {
		return "Not set"
	}
	return formatNumber(*v) + unit
}

// GoalsForm renders the goal inputs with per-metric clear actions.
func GoalsForm(g backend.Goals) Node {
	// An empty input submits as unset, so unset stays distinct from zero.
	row := func(label, metric, unit string, v *float64, lo, hi int) Node {
		value := ""
		if v != nil {
			value = formatNumber(*v)
		}
		return Div("goal-row",
			field(label, input("number", "daily_"+metric, value).
				Attr("min", strconv.Itoa(lo)).
				Attr("max", strconv.Itoa(hi))),
			Span("goal-value", Text(GoalValue(v, unit))).Attr("data-metric", metric),
			El("button", Text("Clear")).
				Class("btn-secondary").
				Attr("type", "button").
				Attr("data-action", "clear-goal").
				Attr("data-metric", metric),
		)
	}
	return Div("settings-card",
		H(3, "🎯 Nutrition Goals"),
		form("goalsForm", "/settings/goals",
			field("Goal description", El("textarea", Text(g.Description)).Attr("name", "goal_description")),
			row("Daily calories", backend.MetricCalories, "", g.Calories, 1000, 5000),
			row("Daily protein", backend.MetricProtein, "g", g.Protein, 20, 300),
			row("Daily carbs", backend.MetricCarbs, "g", g.Carbs, 50, 500),
			row("Daily fat", backend.MetricFat, "g", g.Fat, 20, 200),
			El("button", Text("Save Goals")).Class("btn-primary").Attr("type", "submit"),
		),
	)
}
