package nudge

import (
	"context"
	"time"

	"github.com/dmaguire/streaks/internal/logger"
)

// GetHabitsExpiringIn returns the names of habits whose current streak will
// lapse unless completed before the given deadline. A streak survives the day
// boundary only if the habit is done today, so a habit is at risk when it has
// a live streak, is not yet done, and midnight falls within the window.
func GetHabitsExpiringIn(ctx context.Context, q Querier, window time.Duration, now time.Time) ([]string, error) {
	habits, err := q.ListHabits(ctx)
	if err != nil {
		return nil, err
	}

	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	if midnight.Sub(now) > window {
		return nil, nil
	}

	var expiring []string
	for _, h := range habits {
		summary, err := q.GetHabitSummary(ctx, h.ID)
		if err != nil {
			return nil, err
		}
		if summary.CurrentStreak > 0 && !summary.DoneToday {
			expiring = append(expiring, summary.Name)
		}
	}
	return expiring, nil
}

// Run performs a single nudge pass: find at-risk streaks and notify.
func Run(ctx context.Context, q Querier, n Notifier, window time.Duration, now time.Time) error {
	expiring, err := GetHabitsExpiringIn(ctx, q, window, now)
	if err != nil {
		return err
	}
	if len(expiring) == 0 {
		logger.Debug("No streaks at risk, skipping nudge")
		return nil
	}

	hours := int(window / time.Hour)
	logger.Info("Sending nudge", "habits", len(expiring), "hours", hours)
	return n.SendNudge(expiring, hours)
}
