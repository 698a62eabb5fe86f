package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"chundiet-web/internal/shared/metrics"
	"chundiet-web/internal/shared/telemetry"
)

const (
	DefaultBaseURL = "http://localhost:5000/api"
	// HistoryDays is the fixed window the history page requests.
	HistoryDays = 30

	maxBodyBytes = 4 << 20
)

// Client talks to the nutrition backend. Every call carries user_id.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a client for baseURL. A non-positive timeout disables the
// client-side deadline and leaves it to ctx.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid backend url %q: %w", baseURL, err)
	}
	hc := &http.Client{}
	if timeout > 0 {
		hc.Timeout = timeout
	}
	return &Client{baseURL: baseURL, httpClient: hc}, nil
}

// WithHTTPClient swaps the underlying http.Client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	if hc != nil {
		c.httpClient = hc
	}
	return c
}

func (c *Client) BaseURL() string { return c.baseURL }

// AnalyzeMeal submits a free-text meal description for analysis.
func (c *Client) AnalyzeMeal(ctx context.Context, userID int, description, mealTime string) (AnalyzeResult, error) {
	body := MealRequest{Description: description, Time: mealTime, UserID: userID}
	var out struct {
		result
		AnalyzeResult
	}
	if err := c.do(ctx, "analyze_meal", http.MethodPost, "/analyze-meal", nil, body, &out); err != nil {
		return AnalyzeResult{}, err
	}
	if err := checkResult("analyze_meal", out.result); err != nil {
		return AnalyzeResult{}, err
	}
	return out.AnalyzeResult, nil
}

// DailySummary loads the aggregate and meal list for one day.
func (c *Client) DailySummary(ctx context.Context, userID int, day time.Time) (DailySummary, error) {
	var out DailySummary
	path := "/daily-summary/" + url.PathEscape(day.Format("2006-01-02"))
	err := c.do(ctx, "daily_summary", http.MethodGet, path, userQuery(userID), nil, &out)
	return out, err
}

// History loads per-day summaries for the last days days.
func (c *Client) History(ctx context.Context, userID, days int) ([]HistoryDay, error) {
	q := userQuery(userID)
	q.Set("days", strconv.Itoa(days))
	var out []HistoryDay
	err := c.do(ctx, "history", http.MethodGet, "/history", q, nil, &out)
	return out, err
}

// StoredRecommendations returns the most recent recommendation payload
// untouched; shape classification is left to the caller.
func (c *Client) StoredRecommendations(ctx context.Context, userID int) (json.RawMessage, error) {
	var out json.RawMessage
	err := c.do(ctx, "recommendations", http.MethodGet, "/ai-recommendations", userQuery(userID), nil, &out)
	return out, err
}

// GenerateRecommendations asks the backend for a fresh recommendation set.
func (c *Client) GenerateRecommendations(ctx context.Context, userID int) (json.RawMessage, error) {
	var out json.RawMessage
	body := map[string]int{"user_id": userID}
	if err := c.do(ctx, "generate_recommendations", http.MethodPost, "/ai-recommendations", nil, body, &out); err != nil {
		return nil, err
	}
	// A generated set has no success field; only an explicit false is a rejection.
	var res result
	if json.Unmarshal(out, &res) == nil && res.Success != nil && !*res.Success {
		return nil, checkResult("generate_recommendations", res)
	}
	return out, nil
}

func (c *Client) Settings(ctx context.Context, userID int) (Settings, error) {
	var out Settings
	err := c.do(ctx, "settings", http.MethodGet, "/settings", userQuery(userID), nil, &out)
	return out, err
}

func (c *Client) SaveSettings(ctx context.Context, userID int, update SettingsUpdate) error {
	return c.write(ctx, "save_settings", http.MethodPost, "/settings", userID, update)
}

func (c *Client) Profile(ctx context.Context, userID int) (Profile, error) {
	var out Profile
	err := c.do(ctx, "profile", http.MethodGet, "/user/profile", userQuery(userID), nil, &out)
	return out, err
}

func (c *Client) SaveProfile(ctx context.Context, userID int, p Profile) error {
	return c.write(ctx, "save_profile", http.MethodPost, "/user/profile", userID, p)
}

func (c *Client) Goals(ctx context.Context, userID int) (Goals, error) {
	var out Goals
	err := c.do(ctx, "goals", http.MethodGet, "/user/goals", userQuery(userID), nil, &out)
	return out, err
}

func (c *Client) SaveGoals(ctx context.Context, userID int, g Goals) error {
	return c.write(ctx, "save_goals", http.MethodPost, "/user/goals", userID, g)
}

// DeleteMeal removes one meal. Callers must have confirmed with the user.
func (c *Client) DeleteMeal(ctx context.Context, userID int, mealID string) error {
	path := "/delete-meal/" + url.PathEscape(mealID)
	var out result
	if err := c.do(ctx, "delete_meal", http.MethodDelete, path, userQuery(userID), nil, &out); err != nil {
		return err
	}
	return checkResult("delete_meal", out)
}

func (c *Client) write(ctx context.Context, op, method, path string, userID int, body any) error {
	var out result
	if err := c.do(ctx, op, method, path, userQuery(userID), body, &out); err != nil {
		return err
	}
	return checkResult(op, out)
}

func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.ObserveBackendDurationMs(metrics.Since(start))
	if err != nil {
		metrics.IncBackendError("transport")
		if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout") {
			return transportErr(op, fmt.Errorf("timeout: %w", err))
		}
		return transportErr(op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		metrics.IncBackendError("transport")
		return transportErr(op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var res result
		if json.Unmarshal(raw, &res) == nil && (res.Error != "" || (res.Success != nil && !*res.Success)) {
			metrics.IncBackendError("business")
			return &BusinessError{Op: op, Status: resp.StatusCode, Message: res.Error}
		}
		metrics.IncBackendError("status")
		telemetry.Warn("backend unexpected status", map[string]any{
			"op":     op,
			"status": resp.StatusCode,
		})
		return transportErr(op, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	if raw := bytes.TrimSpace(raw); len(raw) == 0 {
		if rm, ok := out.(*json.RawMessage); ok {
			*rm = nil
		}
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		metrics.IncBackendError("decode")
		return transportErr(op, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

func checkResult(op string, res result) error {
	if res.Success != nil && *res.Success {
		return nil
	}
	msg := res.Error
	if msg == "" {
		msg = res.Message
	}
	return &BusinessError{Op: op, Status: http.StatusOK, Message: msg}
}

func userQuery(userID int) url.Values {
	q := url.Values{}
	q.Set("user_id", strconv.Itoa(userID))
	return q
}
