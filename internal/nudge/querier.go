package nudge

import (
	"context"

	"github.com/dmaguire/streaks/internal/server"
	"github.com/dmaguire/streaks/pkg/tracker"
)

type Querier interface {
	ListHabits(ctx context.Context) ([]tracker.Habit, error)
	GetHabitSummary(ctx context.Context, habitID string) (*server.HabitSummary, error)
}

type Notifier interface {
	SendNudge(habits []string, hoursTillExpiry int) error
}
