package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := NewClient(srv.URL+"/api", 2*time.Second)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func TestDailySummaryRequestAndDecode(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if r.URL.Path != "/api/daily-summary/2025-01-15" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("user_id"); got != "1" {
			t.Errorf("expected user_id=1, got %q", got)
		}
		io.WriteString(w, `{
			"total_calories": 1450.5,
			"total_protein": "62",
			"meal_count": 2,
			"foods": ["Apple", "Rice"],
			"meals": [
				{"id": 7, "food_item": "Apple", "calories": 95},
				{"id": "8", "food_item": "Rice", "calories": 200, "protein": "4.3g", "vitamins": [{"name": "B1", "percent_daily_value": 12}]}
			]
		}`)
	})

	day := time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)
	summary, err := client.DailySummary(context.Background(), 1, day)
	if err != nil {
		t.Fatalf("DailySummary: %v", err)
	}
	if summary.TotalCalories.Int() != 1451 {
		t.Fatalf("expected rounded calories 1451, got %d", summary.TotalCalories.Int())
	}
	if summary.TotalProtein.Float() != 62 {
		t.Fatalf("expected protein 62 from string, got %v", summary.TotalProtein)
	}
	if len(summary.Meals) != 2 || summary.Meals[0].ID != "7" || summary.Meals[1].ID != "8" {
		t.Fatalf("unexpected meals %+v", summary.Meals)
	}
	if summary.Meals[0].Protein.Present() {
		t.Fatalf("expected first meal without protein")
	}
	if got := summary.Meals[1].Protein.Bare(); got != "4.3" {
		t.Fatalf("expected bare protein 4.3, got %q", got)
	}
	if got := summary.Meals[1].Vitamins[0].PercentDailyValue; got != "12" {
		t.Fatalf("expected percent 12, got %q", got)
	}
}

func TestHistoryCarriesDaysWindow(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("days"); got != "30" {
			t.Errorf("expected days=30, got %q", got)
		}
		io.WriteString(w, `[{"date":"2025-01-15","total_calories":1800,"meal_count":3,"foods":["a","b"]}]`)
	})
	days, err := client.History(context.Background(), 1, HistoryDays)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(days) != 1 || days[0].MealCount.Int() != 3 {
		t.Fatalf("unexpected history %+v", days)
	}
}

func TestAnalyzeMealBusinessRejection(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body MealRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body.UserID != 3 || body.Description != "pizza" {
			t.Errorf("unexpected body %+v", body)
		}
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"success": false, "error": "All API keys exhausted"}`)
	})

	_, err := client.AnalyzeMeal(context.Background(), 3, "pizza", "2025-01-15T18:30")
	be, ok := AsBusiness(err)
	if !ok {
		t.Fatalf("expected business error, got %v", err)
	}
	if be.Message != "All API keys exhausted" {
		t.Fatalf("unexpected message %q", be.Message)
	}
	if IsTransport(err) {
		t.Fatalf("business error must not be a transport error")
	}
}

func TestAnalyzeMealSuccess(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"success": true, "meal_id": 42, "nutrition_data": {"food_item": "pizza"}}`)
	})
	res, err := client.AnalyzeMeal(context.Background(), 1, "pizza", "")
	if err != nil {
		t.Fatalf("AnalyzeMeal: %v", err)
	}
	if res.MealID != "42" {
		t.Fatalf("expected meal id 42, got %q", res.MealID)
	}
}

func TestTransportFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error without envelope",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
		},
		{
			name: "html body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, "<html>proxy error</html>")
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, tt.handler)
			_, err := client.Settings(context.Background(), 1)
			if !IsTransport(err) {
				t.Fatalf("expected transport error, got %v", err)
			}
		})
	}
}

func TestConnectionRefusedIsTransport(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	client, err := NewClient(base, time.Second)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if err := client.DeleteMeal(context.Background(), 1, "9"); !IsTransport(err) {
		t.Fatalf("expected transport error, got %v", err)
	}
}

func TestDeleteMealReportsFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/api/delete-meal/9" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		io.WriteString(w, `{"success": false}`)
	})
	err := client.DeleteMeal(context.Background(), 1, "9")
	var be *BusinessError
	if !errors.As(err, &be) {
		t.Fatalf("expected business error, got %v", err)
	}
}

func TestStoredRecommendationsReturnsRawPayload(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"recommendations": [], "message": "No recommendations found"}`)
	})
	raw, err := client.StoredRecommendations(context.Background(), 1)
	if err != nil {
		t.Fatalf("StoredRecommendations: %v", err)
	}
	if !strings.Contains(string(raw), "No recommendations found") {
		t.Fatalf("unexpected payload %s", raw)
	}
}

func TestGenerateRecommendationsRejection(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		io.WriteString(w, `{"success": false, "error": "quota exceeded"}`)
	})
	_, err := client.GenerateRecommendations(context.Background(), 1)
	be, ok := AsBusiness(err)
	if !ok || be.Message != "quota exceeded" {
		t.Fatalf("expected business error with message, got %v", err)
	}
}

func TestSaveGoalsSendsNullForUnset(t *testing.T) {
	var captured map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode: %v", err)
		}
		io.WriteString(w, `{"success": true}`)
	})
	zero := 0.0
	goals := Goals{Description: "cut", Protein: &zero}
	if err := client.SaveGoals(context.Background(), 1, goals); err != nil {
		t.Fatalf("SaveGoals: %v", err)
	}
	if v, ok := captured["daily_calories"]; !ok || v != nil {
		t.Fatalf("expected explicit null calories, got %v (present=%v)", v, ok)
	}
	if v := captured["daily_protein"]; v != 0.0 {
		t.Fatalf("expected zero protein to stay zero, got %v", v)
	}
}

func TestSettingsUpdateOmitsUntouchedFields(t *testing.T) {
	var captured map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&captured)
		io.WriteString(w, `{"success": true}`)
	})
	keys := []string{}
	if err := client.SaveSettings(context.Background(), 1, SettingsUpdate{GeminiAPIKeys: &keys}); err != nil {
		t.Fatalf("SaveSettings: %v", err)
	}
	if _, ok := captured["theme"]; ok {
		t.Fatalf("theme should be omitted")
	}
	list, ok := captured["gemini_api_keys"].([]any)
	if !ok || len(list) != 0 {
		t.Fatalf("expected empty key list, got %v", captured["gemini_api_keys"])
	}
}

func TestGoalsClear(t *testing.T) {
	v := 2000.0
	g := Goals{Calories: &v}
	if !g.Clear(MetricCalories) || g.Calories != nil {
		t.Fatalf("expected calories cleared")
	}
	if g.Clear("sodium") {
		t.Fatalf("unknown metric should report false")
	}
}
