package analytics

import (
	"testing"

	"github.com/dmaguire/streaks/pkg/tracker"
)

func TestGoalProgress(t *testing.T) {
	tests := []struct {
		name    string
		current float64
		target  float64
		want    int
	}{
		{"zero progress", 0, 100, 0},
		{"partial", 67, 100, 67},
		{"rounding", 1, 3, 33},
		{"rounds half up", 1, 8, 13}, // 12.5
		{"complete", 4, 4, 100},
		{"zero target is defined", 10, 0, 0},
		{"negative target is defined", 10, -5, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := tracker.Goal{CurrentValue: tt.current, TargetValue: tt.target}
			if got := GoalProgress(g); got != tt.want {
				t.Fatalf("got %d want %d", got, tt.want)
			}
		})
	}
}

func TestClampProgress(t *testing.T) {
	g := tracker.Goal{TargetValue: 100}
	if got := ClampProgress(g, 150); got != 100 {
		t.Fatalf("got %v want 100", got)
	}
	if got := ClampProgress(g, 80); got != 80 {
		t.Fatalf("got %v want 80", got)
	}
	// Clamped-at-target progress is exactly 100, never more.
	g.CurrentValue = ClampProgress(g, 9999)
	if got := GoalProgress(g); got != 100 {
		t.Fatalf("got %d want 100", got)
	}
}

func TestOverallProgress(t *testing.T) {
	goals := []tracker.Goal{
		{CurrentValue: 50, TargetValue: 100}, // 0.5
		{CurrentValue: 1, TargetValue: 4},    // 0.25
	}
	// Mean of raw ratios: (0.5+0.25)/2 = 37.5 -> 38. Per-goal pre-rounding
	// would give (50+25)/2 = 37.5 too, but (1/3, 1/3) style cases differ.
	if got := OverallProgress(goals); got != 38 {
		t.Fatalf("got %d want 38", got)
	}

	if got := OverallProgress(nil); got != 0 {
		t.Fatalf("got %d want 0 for no goals", got)
	}

	// A bad-target goal contributes a zero ratio instead of NaN.
	goals = append(goals, tracker.Goal{CurrentValue: 10, TargetValue: 0})
	if got := OverallProgress(goals); got != 25 {
		t.Fatalf("got %d want 25", got)
	}
}
