package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmaguire/streaks/internal/config"
	"github.com/dmaguire/streaks/internal/storage"
	"github.com/dmaguire/streaks/pkg/tracker"
)

// testToday is the fixed clock for all handler tests, a Monday.
var testToday = time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T, st storage.Store) http.Handler {
	t.Helper()
	cfg := &config.Config{
		StoreDriver:  "bolt",
		WeekStartsOn: 1,
		LookbackDays: 90,
	}
	s, err := New(st, cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	s.now = func() time.Time { return testToday }
	return s.Router()
}

func mockRequest(h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	return rr
}

func createTestHabit(t *testing.T, h http.Handler, name string, days []int) tracker.Habit {
	t.Helper()
	rr := mockRequest(h, http.MethodPost, "/habits/", tracker.Habit{
		Name:       name,
		Category:   tracker.CategoryHealth,
		TargetDays: days,
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create habit: got %d want 201: %s", rr.Code, rr.Body.String())
	}
	var created tracker.Habit
	if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
		t.Fatalf("unmarshal created habit: %v", err)
	}
	if created.ID == "" {
		t.Fatal("created habit has no ID")
	}
	return created
}

func toggle(t *testing.T, h http.Handler, habitID, date string) ToggleResponse {
	t.Helper()
	var body any
	if date != "" {
		body = toggleRequest{Date: date}
	}
	rr := mockRequest(h, http.MethodPost, "/habits/"+habitID+"/toggle", body)
	if rr.Code != http.StatusOK {
		t.Fatalf("toggle: got %d want 200: %s", rr.Code, rr.Body.String())
	}
	var resp ToggleResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal toggle response: %v", err)
	}
	return resp
}

func TestListHabits_Empty(t *testing.T) {
	h := newTestServer(t, newMemStore())
	rr := mockRequest(h, http.MethodGet, "/habits/", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("got %d want 200", rr.Code)
	}
	var resp HabitListResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Habits) != 0 {
		t.Fatalf("len=%d want 0", len(resp.Habits))
	}
}

func TestCreateHabit_RejectsInvalid(t *testing.T) {
	h := newTestServer(t, newMemStore())

	cases := []tracker.Habit{
		{Name: "", Category: tracker.CategoryHealth, TargetDays: []int{1}},
		{Name: "run", Category: "sports", TargetDays: []int{1}},
		{Name: "run", Category: tracker.CategoryHealth, TargetDays: nil},
		{Name: "run", Category: tracker.CategoryHealth, TargetDays: []int{7}},
		{Name: "run", Category: tracker.CategoryHealth, TargetDays: []int{1, 1}},
	}
	for _, c := range cases {
		rr := mockRequest(h, http.MethodPost, "/habits/", c)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("habit %+v: got %d want 400", c, rr.Code)
		}
	}
}

func TestCreateAndGetHabit(t *testing.T) {
	h := newTestServer(t, newMemStore())
	created := createTestHabit(t, h, "meditate", []int{0, 1, 2, 3, 4, 5, 6})

	rr := mockRequest(h, http.MethodGet, "/habits/"+created.ID, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("got %d want 200", rr.Code)
	}
	var resp HabitGetResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Habit.Name != "meditate" {
		t.Fatalf("name=%q want meditate", resp.Habit.Name)
	}
	if len(resp.Completions) != 0 {
		t.Fatalf("completions=%d want 0", len(resp.Completions))
	}
}

func TestGetHabit_NotFound(t *testing.T) {
	h := newTestServer(t, newMemStore())
	rr := mockRequest(h, http.MethodGet, "/habits/nope", nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("got %d want 404", rr.Code)
	}
}

func TestToggleHabit_PairRestoresState(t *testing.T) {
	st := newMemStore()
	h := newTestServer(t, st)
	created := createTestHabit(t, h, "read", []int{0, 1, 2, 3, 4, 5, 6})

	first := toggle(t, h, created.ID, "")
	if !first.Completed {
		t.Fatal("first toggle should mark completed")
	}
	if first.Date != testToday.Format(tracker.DayFormat) {
		t.Fatalf("date=%q want today", first.Date)
	}
	if first.CurrentStreak != 1 {
		t.Fatalf("streak=%d want 1", first.CurrentStreak)
	}

	second := toggle(t, h, created.ID, "")
	if second.Completed {
		t.Fatal("second toggle should remove the completion")
	}
	if second.CurrentStreak != 0 {
		t.Fatalf("streak=%d want 0 after untoggle", second.CurrentStreak)
	}

	done, err := st.HasCompletion("anonymous", created.ID, first.Date)
	if err != nil {
		t.Fatalf("HasCompletion: %v", err)
	}
	if done {
		t.Fatal("completion should be gone after a toggle pair")
	}
}

func TestToggleHabit_BestStreakNeverDecreases(t *testing.T) {
	h := newTestServer(t, newMemStore())
	created := createTestHabit(t, h, "stretch", []int{0, 1, 2, 3, 4, 5, 6})

	// Build a 3-day streak ending today.
	for _, d := range []string{"2024-06-08", "2024-06-09", "2024-06-10"} {
		toggle(t, h, created.ID, d)
	}

	resp := toggle(t, h, created.ID, "2024-06-10") // untoggle today
	if resp.CurrentStreak != 2 {
		t.Fatalf("current=%d want 2 (streak ends yesterday)", resp.CurrentStreak)
	}
	if resp.BestStreak != 3 {
		t.Fatalf("best=%d want 3 to survive the untoggle", resp.BestStreak)
	}
}

func TestToggleHabit_PastDateAnchorsAtToday(t *testing.T) {
	h := newTestServer(t, newMemStore())
	created := createTestHabit(t, h, "journal", []int{0, 1, 2, 3, 4, 5, 6})

	// A run of days well in the past yields no current streak.
	resp := toggle(t, h, created.ID, "2024-06-01")
	if resp.CurrentStreak != 0 {
		t.Fatalf("current=%d want 0 for a stale completion", resp.CurrentStreak)
	}
}

func TestToggleHabit_BadDate(t *testing.T) {
	h := newTestServer(t, newMemStore())
	created := createTestHabit(t, h, "walk", []int{1})
	rr := mockRequest(h, http.MethodPost, "/habits/"+created.ID+"/toggle",
		toggleRequest{Date: "June 10"})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("got %d want 400", rr.Code)
	}
}

func TestHabitSummary(t *testing.T) {
	h := newTestServer(t, newMemStore())
	created := createTestHabit(t, h, "pushups", []int{0, 1, 2, 3, 4, 5, 6})

	// Two runs: an old 3-day run and a fresh 2-day run ending today.
	for _, d := range []string{"2024-06-01", "2024-06-02", "2024-06-03", "2024-06-09", "2024-06-10"} {
		toggle(t, h, created.ID, d)
	}

	rr := mockRequest(h, http.MethodGet, "/habits/"+created.ID+"/summary", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("got %d want 200", rr.Code)
	}
	var sum HabitSummary
	if err := json.Unmarshal(rr.Body.Bytes(), &sum); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if sum.CurrentStreak != 2 {
		t.Errorf("current=%d want 2", sum.CurrentStreak)
	}
	if sum.LongestStreak != 3 {
		t.Errorf("longest=%d want 3", sum.LongestStreak)
	}
	if sum.TotalDaysDone != 5 {
		t.Errorf("total=%d want 5", sum.TotalDaysDone)
	}
	if !sum.DoneToday {
		t.Error("done_today should be true")
	}
	if sum.BestStreak != 3 {
		t.Errorf("best=%d want 3", sum.BestStreak)
	}
}

func TestDeleteHabit_CascadesCompletions(t *testing.T) {
	st := newMemStore()
	h := newTestServer(t, st)
	created := createTestHabit(t, h, "floss", []int{0, 1, 2, 3, 4, 5, 6})
	toggle(t, h, created.ID, "")

	rr := mockRequest(h, http.MethodDelete, "/habits/"+created.ID, nil)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("got %d want 204", rr.Code)
	}

	completions, err := st.ListCompletions("anonymous", "")
	if err != nil {
		t.Fatalf("ListCompletions: %v", err)
	}
	if len(completions) != 0 {
		t.Fatalf("completions=%d want 0 after delete", len(completions))
	}
}

func TestVersionEndpoint(t *testing.T) {
	h := newTestServer(t, newMemStore())
	rr := mockRequest(h, http.MethodGet, "/version", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("got %d want 200", rr.Code)
	}
}
