package analytics

import (
	"math"

	"github.com/dmaguire/streaks/pkg/tracker"
)

// GoalProgress returns the rounded percent-to-target for a goal. A
// non-positive target yields 0 even though creation-time validation should
// have rejected it.
func GoalProgress(g tracker.Goal) int {
	if g.TargetValue <= 0 {
		return 0
	}
	return int(math.Round(100 * g.CurrentValue / g.TargetValue))
}

// ClampProgress applies a progress update: the current value is capped at
// the target. The lower bound is not clamped here; the API boundary rejects
// negative input.
func ClampProgress(g tracker.Goal, value float64) float64 {
	return math.Min(value, g.TargetValue)
}

// OverallProgress averages the raw per-goal ratios and rounds once at the
// end, so a nearly-done goal and a barely-started one weigh equally.
func OverallProgress(goals []tracker.Goal) int {
	if len(goals) == 0 {
		return 0
	}
	var sum float64
	for _, g := range goals {
		if g.TargetValue > 0 {
			sum += g.CurrentValue / g.TargetValue
		}
	}
	return int(math.Round(100 * sum / float64(len(goals))))
}
