package nudge

import (
	"context"

	"github.com/dmaguire/streaks/internal/server"
	"github.com/dmaguire/streaks/pkg/tracker"
)

type mockClient struct {
	habits  []tracker.Habit
	summary map[string]*server.HabitSummary
	err     error
}

func (f *mockClient) ListHabits(ctx context.Context) ([]tracker.Habit, error) {
	return f.habits, f.err
}

func (f *mockClient) GetHabitSummary(ctx context.Context, habitID string) (*server.HabitSummary, error) {
	return f.summary[habitID], f.err
}
