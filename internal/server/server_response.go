package server

import (
	"github.com/dmaguire/streaks/internal/analytics"
	"github.com/dmaguire/streaks/pkg/tracker"
)

type HabitListResponse struct {
	Habits []tracker.Habit `json:"habits"`
}

type HabitGetResponse struct {
	Habit       tracker.Habit        `json:"habit"`
	Completions []tracker.Completion `json:"completions"`
}

// HabitSummary carries the per-habit streak numbers for presentation.
type HabitSummary struct {
	HabitID       string `json:"habit_id"`
	Name          string `json:"name"`
	CurrentStreak int    `json:"current_streak"`
	BestStreak    int    `json:"best_streak"`
	LongestStreak int    `json:"longest_streak"`
	TotalDaysDone int    `json:"total_days_done"`
	DoneToday     bool   `json:"done_today"`
}

// ToggleResponse reports the state after a completion toggle.
type ToggleResponse struct {
	HabitID       string `json:"habit_id"`
	Date          string `json:"date"`
	Completed     bool   `json:"completed"`
	CurrentStreak int    `json:"current_streak"`
	BestStreak    int    `json:"best_streak"`
}

type PeriodSummaryResponse struct {
	Days        []analytics.DaySummary `json:"days"`
	TotalStreak int                    `json:"total_streak"`
}

type CategorySummaryResponse struct {
	Categories  []analytics.CategorySummary `json:"categories"`
	TotalStreak int                         `json:"total_streak"`
}

type GoalResponse struct {
	Goal       tracker.Goal `json:"goal"`
	Percentage int          `json:"percentage"`
}

type GoalListResponse struct {
	Goals   []GoalResponse `json:"goals"`
	Overall int            `json:"overall"`
}

type NoteListResponse struct {
	Notes []tracker.DailyNote `json:"notes"`
}

type ReminderListResponse struct {
	Reminders []tracker.Reminder `json:"reminders"`
}

type APIKeyResponse struct {
	APIKey string `json:"api_key"`
}
