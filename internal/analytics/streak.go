package analytics

import (
	"slices"
	"time"

	"github.com/dmaguire/streaks/pkg/tracker"
)

const daySec int64 = 24 * 60 * 60

// dayNumber collapses a time to a whole number of days since the epoch so
// that consecutive calendar days differ by exactly 1.
func dayNumber(t time.Time) int64 {
	return t.UTC().Truncate(24*time.Hour).Unix() / daySec
}

func parseDay(s string) (int64, bool) {
	t, err := time.Parse(tracker.DayFormat, s)
	if err != nil {
		return 0, false
	}
	return dayNumber(t), true
}

// uniqueDaysDesc converts day strings to unique day numbers, newest first.
// Unparseable entries are dropped.
func uniqueDaysDesc(dates []string) []int64 {
	uniq := make(map[int64]struct{}, len(dates))
	for _, d := range dates {
		if n, ok := parseDay(d); ok {
			uniq[n] = struct{}{}
		}
	}
	days := make([]int64, 0, len(uniq))
	for d := range uniq {
		days = append(days, d)
	}
	slices.Sort(days)
	slices.Reverse(days)
	return days
}

// CurrentStreak counts consecutive completed calendar days ending at today,
// or at yesterday when today is not yet completed. An uncompleted today does
// not break a run ending yesterday; the user still has until end of day.
// Consecutiveness is over days actually completed, not the habit's schedule.
func CurrentStreak(dates []string, today time.Time) int {
	days := uniqueDaysDesc(dates)
	if len(days) == 0 {
		return 0
	}

	tn := dayNumber(today)
	if days[0] != tn && days[0] != tn-1 {
		return 0
	}

	streak := 1
	for i := 0; i < len(days)-1; i++ {
		if days[i]-days[i+1] != 1 {
			break
		}
		streak++
	}
	return streak
}

// LongestStreak returns the longest consecutive-day run anywhere in history.
func LongestStreak(dates []string) int {
	days := uniqueDaysDesc(dates)
	if len(days) == 0 {
		return 0
	}

	longest, run := 1, 1
	for i := 0; i < len(days)-1; i++ {
		if days[i]-days[i+1] == 1 {
			run++
			longest = max(longest, run)
		} else {
			run = 1
		}
	}
	return longest
}

// BestStreak applies the monotone best-streak rule after a toggle: the stored
// best only ever grows, removing a completion never lowers it.
func BestStreak(storedBest, newCurrent int) int {
	return max(storedBest, newCurrent)
}
