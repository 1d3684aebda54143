package server

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/dmaguire/streaks/pkg/tracker"
)

func createTestGoal(t *testing.T, h http.Handler, name string, target float64) tracker.Goal {
	t.Helper()
	rr := mockRequest(h, http.MethodPost, "/goals/", tracker.Goal{
		Name:        name,
		Category:    tracker.CategoryFinance,
		TargetValue: target,
		Unit:        "eur",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create goal: got %d want 201: %s", rr.Code, rr.Body.String())
	}
	var g tracker.Goal
	if err := json.Unmarshal(rr.Body.Bytes(), &g); err != nil {
		t.Fatalf("unmarshal created goal: %v", err)
	}
	return g
}

func updateProgress(t *testing.T, h http.Handler, goalID string, value float64) GoalResponse {
	t.Helper()
	rr := mockRequest(h, http.MethodPut, "/goals/"+goalID+"/progress", progressRequest{Value: value})
	if rr.Code != http.StatusOK {
		t.Fatalf("update progress: got %d want 200: %s", rr.Code, rr.Body.String())
	}
	var resp GoalResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal progress response: %v", err)
	}
	return resp
}

func TestCreateGoal_RejectsInvalid(t *testing.T) {
	h := newTestServer(t, newMemStore())

	cases := []tracker.Goal{
		{Name: "", Category: tracker.CategoryFinance, TargetValue: 10},
		{Name: "save", Category: "misc", TargetValue: 10},
		{Name: "save", Category: tracker.CategoryFinance, TargetValue: 0},
		{Name: "save", Category: tracker.CategoryFinance, TargetValue: -5},
		{Name: "save", Category: tracker.CategoryFinance, TargetValue: 10, Deadline: "soon"},
	}
	for _, c := range cases {
		rr := mockRequest(h, http.MethodPost, "/goals/", c)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("goal %+v: got %d want 400", c, rr.Code)
		}
	}
}

func TestGoalProgress_ClampsAtTarget(t *testing.T) {
	h := newTestServer(t, newMemStore())
	g := createTestGoal(t, h, "savings", 1000)

	resp := updateProgress(t, h, g.ID, 1500)
	if resp.Goal.CurrentValue != 1000 {
		t.Fatalf("current=%v want clamp to 1000", resp.Goal.CurrentValue)
	}
	if resp.Percentage != 100 {
		t.Fatalf("percentage=%d want exactly 100", resp.Percentage)
	}
}

func TestGoalProgress_RejectsNegative(t *testing.T) {
	h := newTestServer(t, newMemStore())
	g := createTestGoal(t, h, "savings", 1000)

	rr := mockRequest(h, http.MethodPut, "/goals/"+g.ID+"/progress", progressRequest{Value: -1})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("got %d want 400", rr.Code)
	}
}

func TestGoalProgress_NotFound(t *testing.T) {
	h := newTestServer(t, newMemStore())
	rr := mockRequest(h, http.MethodPut, "/goals/nope/progress", progressRequest{Value: 10})
	if rr.Code != http.StatusNotFound {
		t.Fatalf("got %d want 404", rr.Code)
	}
}

func TestListGoals_OverallProgress(t *testing.T) {
	h := newTestServer(t, newMemStore())
	a := createTestGoal(t, h, "savings", 1000)
	createTestGoal(t, h, "reading", 20)

	updateProgress(t, h, a.ID, 500)

	rr := mockRequest(h, http.MethodGet, "/goals/", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("got %d want 200", rr.Code)
	}
	var resp GoalListResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Goals) != 2 {
		t.Fatalf("goals=%d want 2", len(resp.Goals))
	}
	// (50% + 0%) / 2
	if resp.Overall != 25 {
		t.Fatalf("overall=%d want 25", resp.Overall)
	}
}

func TestDeleteGoal(t *testing.T) {
	h := newTestServer(t, newMemStore())
	g := createTestGoal(t, h, "savings", 1000)

	rr := mockRequest(h, http.MethodDelete, "/goals/"+g.ID, nil)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("got %d want 204", rr.Code)
	}

	rr = mockRequest(h, http.MethodGet, "/goals/", nil)
	var resp GoalListResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Goals) != 0 {
		t.Fatalf("goals=%d want 0 after delete", len(resp.Goals))
	}
}
