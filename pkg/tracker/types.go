package tracker

import "fmt"

// DayFormat is the layout for day strings used throughout the API.
// Completion dates, note dates and goal deadlines are all date-only values.
const DayFormat = "2006-01-02"

type Category string

const (
	CategoryHealth   Category = "health"
	CategoryFinance  Category = "finance"
	CategoryWork     Category = "work"
	CategoryLearning Category = "learning"
)

// Categories lists every valid category in display order.
var Categories = []Category{CategoryHealth, CategoryFinance, CategoryWork, CategoryLearning}

func (c Category) Valid() bool {
	switch c {
	case CategoryHealth, CategoryFinance, CategoryWork, CategoryLearning:
		return true
	}
	return false
}

type Mood string

const (
	MoodGreat Mood = "great"
	MoodGood  Mood = "good"
	MoodOkay  Mood = "okay"
	MoodBad   Mood = "bad"
)

func (m Mood) Valid() bool {
	switch m {
	case MoodGreat, MoodGood, MoodOkay, MoodBad:
		return true
	}
	return false
}

// Habit is a recurring action tracked for completion on specific weekdays.
// TargetDays holds weekday indices (0=Sunday..6=Saturday); a habit is due on
// a date iff that date's weekday is in the set.
type Habit struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Icon       string   `json:"icon"`
	Category   Category `json:"category"`
	TargetDays []int    `json:"target_days"`
	CreatedAt  string   `json:"created_at"`
	BestStreak int      `json:"best_streak"`
}

// Completion records that a habit was done on a calendar day. At most one
// exists per (habit, date) pair.
type Completion struct {
	HabitID string `json:"habit_id"`
	Date    string `json:"date"`
}

type Goal struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	Category     Category `json:"category"`
	TargetValue  float64  `json:"target_value"`
	CurrentValue float64  `json:"current_value"`
	Unit         string   `json:"unit"`
	Deadline     string   `json:"deadline,omitempty"`
	CreatedAt    string   `json:"created_at"`
}

// DailyNote is a journal entry, at most one per day. Saving for an existing
// date replaces content and mood in place.
type DailyNote struct {
	ID      string `json:"id"`
	Date    string `json:"date"`
	Content string `json:"content"`
	Mood    Mood   `json:"mood,omitempty"`
}

// Reminder schedules an email for specific weekdays at a fixed time. When
// HabitID is set the reminder is skipped on days the habit is already done.
type Reminder struct {
	ID      string `json:"id"`
	HabitID string `json:"habit_id,omitempty"`
	Time    string `json:"time"`
	Days    []int  `json:"days"`
	Enabled bool   `json:"enabled"`
}

const (
	maxHabitNameLength = 60
	maxIconLength      = 16
	maxGoalNameLength  = 80
	maxDescLength      = 512
	maxNoteLength      = 4096
)

func ValidateHabit(h Habit) error {
	if len(h.Name) == 0 || len(h.Name) > maxHabitNameLength {
		return fmt.Errorf("bad habit name: must be 1-%d characters", maxHabitNameLength)
	}
	if len(h.Icon) > maxIconLength {
		return fmt.Errorf("bad habit icon: must be 0-%d characters", maxIconLength)
	}
	if !h.Category.Valid() {
		return fmt.Errorf("bad category %q", h.Category)
	}
	if len(h.TargetDays) == 0 {
		return fmt.Errorf("target days must not be empty")
	}
	seen := map[int]bool{}
	for _, d := range h.TargetDays {
		if d < 0 || d > 6 {
			return fmt.Errorf("bad target day %d: must be 0-6", d)
		}
		if seen[d] {
			return fmt.Errorf("duplicate target day %d", d)
		}
		seen[d] = true
	}
	return nil
}

func ValidateGoal(g Goal) error {
	if len(g.Name) == 0 || len(g.Name) > maxGoalNameLength {
		return fmt.Errorf("bad goal name: must be 1-%d characters", maxGoalNameLength)
	}
	if len(g.Description) > maxDescLength {
		return fmt.Errorf("bad goal description: must be 0-%d characters", maxDescLength)
	}
	if !g.Category.Valid() {
		return fmt.Errorf("bad category %q", g.Category)
	}
	if g.TargetValue <= 0 {
		return fmt.Errorf("target value must be positive")
	}
	return nil
}

func ValidateNote(n DailyNote) error {
	if len(n.Content) > maxNoteLength {
		return fmt.Errorf("bad note: must be 0-%d characters", maxNoteLength)
	}
	if n.Mood != "" && !n.Mood.Valid() {
		return fmt.Errorf("bad mood %q", n.Mood)
	}
	return nil
}

func ValidateReminder(r Reminder) error {
	if _, err := ParseClock(r.Time); err != nil {
		return err
	}
	if len(r.Days) == 0 {
		return fmt.Errorf("reminder days must not be empty")
	}
	for _, d := range r.Days {
		if d < 0 || d > 6 {
			return fmt.Errorf("bad reminder day %d: must be 0-6", d)
		}
	}
	return nil
}

// ParseClock parses an HH:MM wall-clock string and returns minutes since
// midnight.
func ParseClock(s string) (int, error) {
	var hh, mm int
	if _, err := fmt.Sscanf(s, "%02d:%02d", &hh, &mm); err != nil || len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("bad time %q: must be HH:MM", s)
	}
	if hh < 0 || hh > 23 || mm < 0 || mm > 59 {
		return 0, fmt.Errorf("bad time %q: must be HH:MM", s)
	}
	return hh*60 + mm, nil
}
