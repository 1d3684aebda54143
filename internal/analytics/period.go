package analytics

import (
	"math"
	"time"

	"github.com/dmaguire/streaks/pkg/tracker"
)

// Snapshot is an immutable read model of one user's habits and completions.
// All derivations are pure functions of the snapshot and an explicit "today";
// callers build a fresh snapshot after every mutation.
type Snapshot struct {
	Habits      []tracker.Habit
	Completions []tracker.Completion

	byHabit map[string]map[string]bool
}

func NewSnapshot(habits []tracker.Habit, completions []tracker.Completion) *Snapshot {
	s := &Snapshot{
		Habits:      habits,
		Completions: completions,
		byHabit:     make(map[string]map[string]bool, len(habits)),
	}
	for _, c := range completions {
		set := s.byHabit[c.HabitID]
		if set == nil {
			set = map[string]bool{}
			s.byHabit[c.HabitID] = set
		}
		set[c.Date] = true
	}
	return s
}

// Completed reports whether the habit has a completion record for the date.
func (s *Snapshot) Completed(habitID, date string) bool {
	return s.byHabit[habitID][date]
}

// CompletionDates returns the habit's completion day strings in no
// particular order.
func (s *Snapshot) CompletionDates(habitID string) []string {
	set := s.byHabit[habitID]
	out := make([]string, 0, len(set))
	for d := range set {
		out = append(out, d)
	}
	return out
}

// Due reports whether the habit is scheduled on the date's weekday.
func Due(h tracker.Habit, date time.Time) bool {
	wd := int(date.Weekday())
	for _, d := range h.TargetDays {
		if d == wd {
			return true
		}
	}
	return false
}

// DaySummary rolls up one calendar day: how many habits were due, how many
// of those were completed, and the rounded percentage.
type DaySummary struct {
	Date       string `json:"date"`
	Label      string `json:"label"`
	Completed  int    `json:"completed"`
	Total      int    `json:"total"`
	Percentage int    `json:"percentage"`
}

// Percentage computes round-half-up(100*completed/total), 0 when total is 0.
func Percentage(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(completed) / float64(total)))
}

// DaySummary computes the rollup for one date over all habits in the
// snapshot. Habits not due on the date count toward neither total nor
// completed.
func (s *Snapshot) DaySummary(date time.Time) DaySummary {
	day := date.Format(tracker.DayFormat)
	sum := DaySummary{Date: day, Label: date.Format("Mon")}
	for _, h := range s.Habits {
		if !Due(h, date) {
			continue
		}
		sum.Total++
		if s.Completed(h.ID, day) {
			sum.Completed++
		}
	}
	sum.Percentage = Percentage(sum.Completed, sum.Total)
	return sum
}

// WeekStart returns the start of the calendar week containing date for the
// given first-day-of-week setting.
func WeekStart(date time.Time, weekStartsOn time.Weekday) time.Time {
	diff := (int(date.Weekday()) - int(weekStartsOn) + 7) % 7
	return date.AddDate(0, 0, -diff)
}

// WeekSummary yields exactly seven day summaries, date ascending, starting
// at the configured week start.
func (s *Snapshot) WeekSummary(today time.Time, weekStartsOn time.Weekday) []DaySummary {
	start := WeekStart(today, weekStartsOn)
	out := make([]DaySummary, 0, 7)
	for i := 0; i < 7; i++ {
		out = append(out, s.DaySummary(start.AddDate(0, 0, i)))
	}
	return out
}

// MonthSummary yields a day summary for every day of today's month, from the
// 1st through the last day, with the day-of-month as label.
func (s *Snapshot) MonthSummary(today time.Time) []DaySummary {
	first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
	out := make([]DaySummary, 0, 31)
	for d := first; d.Month() == today.Month(); d = d.AddDate(0, 0, 1) {
		sum := s.DaySummary(d)
		sum.Label = d.Format("2")
		out = append(out, sum)
	}
	return out
}

// CategorySummary rolls up one category for today: due/completed counts plus
// the sum and rounded average of member habits' current streaks.
type CategorySummary struct {
	Category   tracker.Category `json:"category"`
	Habits     int              `json:"habits"`
	Completed  int              `json:"completed"`
	Total      int              `json:"total"`
	Percentage int              `json:"percentage"`
	StreakSum  int              `json:"streak_sum"`
	StreakAvg  int              `json:"streak_avg"`
}

// CategorySummaries computes one summary per category, in the fixed category
// order. Categories partition the habit set, so summing completed/total
// across entries reproduces the unfiltered day summary.
func (s *Snapshot) CategorySummaries(today time.Time) []CategorySummary {
	day := today.Format(tracker.DayFormat)
	out := make([]CategorySummary, 0, len(tracker.Categories))
	for _, cat := range tracker.Categories {
		cs := CategorySummary{Category: cat}
		for _, h := range s.Habits {
			if h.Category != cat {
				continue
			}
			cs.Habits++
			cs.StreakSum += CurrentStreak(s.CompletionDates(h.ID), today)
			if !Due(h, today) {
				continue
			}
			cs.Total++
			if s.Completed(h.ID, day) {
				cs.Completed++
			}
		}
		cs.Percentage = Percentage(cs.Completed, cs.Total)
		if cs.Habits > 0 {
			cs.StreakAvg = int(math.Round(float64(cs.StreakSum) / float64(cs.Habits)))
		}
		out = append(out, cs)
	}
	return out
}

// TotalStreak sums current streaks across all habits. A habit not due today
// still contributes its standing streak.
func (s *Snapshot) TotalStreak(today time.Time) int {
	total := 0
	for _, h := range s.Habits {
		total += CurrentStreak(s.CompletionDates(h.ID), today)
	}
	return total
}
