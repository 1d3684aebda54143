package nudge

import (
	"context"
	"testing"
	"time"

	"github.com/dmaguire/streaks/internal/server"
	"github.com/dmaguire/streaks/pkg/tracker"
)

var lateEvening = time.Date(2024, 6, 10, 22, 30, 0, 0, time.UTC)

func TestGetHabitsExpiringIn(t *testing.T) {
	f := &mockClient{
		habits: []tracker.Habit{
			{ID: "h1", Name: "guitar"},
			{ID: "h2", Name: "coding"},
			{ID: "h3", Name: "running"},
		},
		summary: map[string]*server.HabitSummary{
			"h1": {HabitID: "h1", Name: "guitar", CurrentStreak: 3, DoneToday: false},
			"h2": {HabitID: "h2", Name: "coding", CurrentStreak: 5, DoneToday: true},
			"h3": {HabitID: "h3", Name: "running", CurrentStreak: 0, DoneToday: false},
		},
	}

	got, err := GetHabitsExpiringIn(context.Background(), f, 2*time.Hour, lateEvening)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0] != "guitar" {
		t.Fatalf("got %v, want [guitar]", got)
	}
}

func TestGetHabitsExpiringIn_MidnightOutsideWindow(t *testing.T) {
	f := &mockClient{
		habits: []tracker.Habit{{ID: "h1", Name: "guitar"}},
		summary: map[string]*server.HabitSummary{
			"h1": {HabitID: "h1", Name: "guitar", CurrentStreak: 3, DoneToday: false},
		},
	}

	noon := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	got, err := GetHabitsExpiringIn(context.Background(), f, 2*time.Hour, noon)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("got %v, want none at noon", got)
	}
}

func TestRun_NotifiesOnlyWhenAtRisk(t *testing.T) {
	f := &mockClient{
		habits: []tracker.Habit{{ID: "h1", Name: "guitar"}},
		summary: map[string]*server.HabitSummary{
			"h1": {HabitID: "h1", Name: "guitar", CurrentStreak: 3, DoneToday: false},
		},
	}
	n := &mockNotifier{}

	if err := Run(context.Background(), f, n, 2*time.Hour, lateEvening); err != nil {
		t.Fatal(err)
	}
	if !n.called {
		t.Fatal("notifier should have been called")
	}
	if len(n.habits) != 1 || n.habits[0] != "guitar" {
		t.Fatalf("notified habits %v, want [guitar]", n.habits)
	}
	if n.threshold != 2 {
		t.Fatalf("threshold=%d want 2", n.threshold)
	}

	// Done habits produce no nudge.
	f.summary["h1"].DoneToday = true
	n2 := &mockNotifier{}
	if err := Run(context.Background(), f, n2, 2*time.Hour, lateEvening); err != nil {
		t.Fatal(err)
	}
	if n2.called {
		t.Fatal("notifier should not fire when everything is done")
	}
}
