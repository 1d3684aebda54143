package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dmaguire/streaks/internal/server"
	"github.com/dmaguire/streaks/pkg/tracker"
)

type Client struct {
	BaseURL string
	// Token is sent as a Bearer credential when set. Either an API key or
	// a provider-prefixed ID token works.
	Token string
	HTTP  *http.Client
}

func New(base string) *Client {
	return &Client{
		BaseURL: base,
		HTTP:    http.DefaultClient,
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	res, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return fmt.Errorf("%s %s: %s", method, path, res.Status)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}

func (c *Client) ListHabits(ctx context.Context) ([]tracker.Habit, error) {
	var resp server.HabitListResponse
	if err := c.do(ctx, http.MethodGet, "/habits", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Habits, nil
}

func (c *Client) CreateHabit(ctx context.Context, h tracker.Habit) (tracker.Habit, error) {
	var created tracker.Habit
	err := c.do(ctx, http.MethodPost, "/habits", h, &created)
	return created, err
}

func (c *Client) DeleteHabit(ctx context.Context, habitID string) error {
	return c.do(ctx, http.MethodDelete, "/habits/"+habitID, nil, nil)
}

func (c *Client) Toggle(ctx context.Context, habitID, date string) (*server.ToggleResponse, error) {
	var body any
	if date != "" {
		body = map[string]string{"date": date}
	}
	var resp server.ToggleResponse
	if err := c.do(ctx, http.MethodPost, "/habits/"+habitID+"/toggle", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) GetHabitSummary(ctx context.Context, habitID string) (*server.HabitSummary, error) {
	var resp server.HabitSummary
	if err := c.do(ctx, http.MethodGet, "/habits/"+habitID+"/summary", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) GetTodaySummary(ctx context.Context) (*server.PeriodSummaryResponse, error) {
	var resp server.PeriodSummaryResponse
	if err := c.do(ctx, http.MethodGet, "/summary/today", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) GetWeekSummary(ctx context.Context) (*server.PeriodSummaryResponse, error) {
	var resp server.PeriodSummaryResponse
	if err := c.do(ctx, http.MethodGet, "/summary/week", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ListGoals(ctx context.Context) (*server.GoalListResponse, error) {
	var resp server.GoalListResponse
	if err := c.do(ctx, http.MethodGet, "/goals", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) CreateGoal(ctx context.Context, g tracker.Goal) (tracker.Goal, error) {
	var created tracker.Goal
	err := c.do(ctx, http.MethodPost, "/goals", g, &created)
	return created, err
}

func (c *Client) UpdateGoalProgress(ctx context.Context, goalID string, value float64) (*server.GoalResponse, error) {
	var resp server.GoalResponse
	body := map[string]float64{"value": value}
	if err := c.do(ctx, http.MethodPut, "/goals/"+goalID+"/progress", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) PutNote(ctx context.Context, n tracker.DailyNote) (tracker.DailyNote, error) {
	var saved tracker.DailyNote
	err := c.do(ctx, http.MethodPut, "/notes/"+n.Date, n, &saved)
	return saved, err
}
