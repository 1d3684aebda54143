package storage

import "github.com/dmaguire/streaks/pkg/tracker"

// Store is the persistence boundary. Implementations must keep writes
// idempotent per (habit, date) for completions and per date for notes, so
// the analytics core can treat any read as a consistent snapshot.
type Store interface {
	PutHabit(userID string, h tracker.Habit) error
	GetHabit(userID, habitID string) (tracker.Habit, bool, error)
	ListHabits(userID string) ([]tracker.Habit, error)
	// DeleteHabit removes the habit and cascades to its completions.
	DeleteHabit(userID, habitID string) error

	AddCompletion(userID string, c tracker.Completion) error
	RemoveCompletion(userID, habitID, date string) error
	HasCompletion(userID, habitID, date string) (bool, error)
	// ListCompletions returns completions for all habits on or after the
	// since day string ("" for no bound).
	ListCompletions(userID, since string) ([]tracker.Completion, error)
	ListHabitCompletions(userID, habitID string) ([]tracker.Completion, error)

	PutGoal(userID string, g tracker.Goal) error
	GetGoal(userID, goalID string) (tracker.Goal, bool, error)
	ListGoals(userID string) ([]tracker.Goal, error)
	DeleteGoal(userID, goalID string) error

	// PutNote upserts by date: one note per calendar day.
	PutNote(userID string, n tracker.DailyNote) error
	GetNote(userID, date string) (tracker.DailyNote, bool, error)
	// ListNotes returns up to limit notes, newest date first.
	ListNotes(userID string, limit int) ([]tracker.DailyNote, error)

	PutReminder(userID string, r tracker.Reminder) error
	ListReminders(userID string) ([]tracker.Reminder, error)
	DeleteReminder(userID, reminderID string) error

	PutAPIKey(keyHash, userID string) error
	GetAPIKey(keyHash string) (string, bool, error)

	Close() error
}
