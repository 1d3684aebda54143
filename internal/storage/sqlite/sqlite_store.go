package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dmaguire/streaks/internal/storage"
	"github.com/dmaguire/streaks/pkg/tracker"
	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS habits (
		user_id TEXT NOT NULL,
		id TEXT NOT NULL,
		name TEXT NOT NULL,
		icon TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL,
		target_days TEXT NOT NULL,
		created_at TEXT NOT NULL DEFAULT '',
		best_streak INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (user_id, id)
	)`,
	`CREATE TABLE IF NOT EXISTS completions (
		user_id TEXT NOT NULL,
		habit_id TEXT NOT NULL,
		date TEXT NOT NULL,
		PRIMARY KEY (user_id, habit_id, date)
	)`,
	`CREATE TABLE IF NOT EXISTS goals (
		user_id TEXT NOT NULL,
		id TEXT NOT NULL,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL,
		target_value REAL NOT NULL,
		current_value REAL NOT NULL DEFAULT 0,
		unit TEXT NOT NULL DEFAULT '',
		deadline TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (user_id, id)
	)`,
	`CREATE TABLE IF NOT EXISTS notes (
		user_id TEXT NOT NULL,
		date TEXT NOT NULL,
		id TEXT NOT NULL,
		content TEXT NOT NULL DEFAULT '',
		mood TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (user_id, date)
	)`,
	`CREATE TABLE IF NOT EXISTS reminders (
		user_id TEXT NOT NULL,
		id TEXT NOT NULL,
		habit_id TEXT NOT NULL DEFAULT '',
		time TEXT NOT NULL,
		days TEXT NOT NULL,
		enabled INTEGER NOT NULL DEFAULT 1,
		PRIMARY KEY (user_id, id)
	)`,
	`CREATE TABLE IF NOT EXISTS api_keys (
		key_hash TEXT PRIMARY KEY,
		user_id TEXT NOT NULL
	)`,
}

func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("failed to create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// weekday sets are stored as JSON int arrays, matching the wire format.
func marshalDays(days []int) string {
	b, _ := json.Marshal(days)
	return string(b)
}

func unmarshalDays(s string) ([]int, error) {
	var days []int
	if err := json.Unmarshal([]byte(s), &days); err != nil {
		return nil, fmt.Errorf("bad day set %q: %w", s, err)
	}
	return days, nil
}

func (s *Store) PutHabit(userID string, h tracker.Habit) error {
	_, err := s.db.Exec(`INSERT INTO habits
		(user_id, id, name, icon, category, target_days, created_at, best_streak)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, id) DO UPDATE SET
		name=excluded.name, icon=excluded.icon, category=excluded.category,
		target_days=excluded.target_days, created_at=excluded.created_at,
		best_streak=excluded.best_streak`,
		userID, h.ID, h.Name, h.Icon, string(h.Category), marshalDays(h.TargetDays), h.CreatedAt, h.BestStreak)
	if err != nil {
		return fmt.Errorf("put habit: %w", err)
	}
	return nil
}

func (s *Store) GetHabit(userID, habitID string) (tracker.Habit, bool, error) {
	row := s.db.QueryRow(`SELECT id, name, icon, category, target_days, created_at, best_streak
		FROM habits WHERE user_id = ? AND id = ?`, userID, habitID)
	h, err := scanHabit(row)
	if err == sql.ErrNoRows {
		return tracker.Habit{}, false, nil
	}
	if err != nil {
		return tracker.Habit{}, false, fmt.Errorf("get habit: %w", err)
	}
	return h, true, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHabit(r rowScanner) (tracker.Habit, error) {
	var h tracker.Habit
	var category, days string
	if err := r.Scan(&h.ID, &h.Name, &h.Icon, &category, &days, &h.CreatedAt, &h.BestStreak); err != nil {
		return h, err
	}
	h.Category = tracker.Category(category)
	targetDays, err := unmarshalDays(days)
	if err != nil {
		return h, err
	}
	h.TargetDays = targetDays
	return h, nil
}

func (s *Store) ListHabits(userID string) ([]tracker.Habit, error) {
	rows, err := s.db.Query(`SELECT id, name, icon, category, target_days, created_at, best_streak
		FROM habits WHERE user_id = ? ORDER BY created_at, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}
	defer rows.Close()

	out := []tracker.Habit{}
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, fmt.Errorf("list habits: %w", err)
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func (s *Store) DeleteHabit(userID, habitID string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM habits WHERE user_id = ? AND id = ?`, userID, habitID); err != nil {
		return fmt.Errorf("delete habit: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM completions WHERE user_id = ? AND habit_id = ?`, userID, habitID); err != nil {
		return fmt.Errorf("delete habit completions: %w", err)
	}
	return tx.Commit()
}

func (s *Store) AddCompletion(userID string, c tracker.Completion) error {
	_, err := s.db.Exec(`INSERT OR IGNORE INTO completions (user_id, habit_id, date) VALUES (?, ?, ?)`,
		userID, c.HabitID, c.Date)
	if err != nil {
		return fmt.Errorf("add completion: %w", err)
	}
	return nil
}

func (s *Store) RemoveCompletion(userID, habitID, date string) error {
	_, err := s.db.Exec(`DELETE FROM completions WHERE user_id = ? AND habit_id = ? AND date = ?`,
		userID, habitID, date)
	if err != nil {
		return fmt.Errorf("remove completion: %w", err)
	}
	return nil
}

func (s *Store) HasCompletion(userID, habitID, date string) (bool, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM completions WHERE user_id = ? AND habit_id = ? AND date = ?`,
		userID, habitID, date).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("has completion: %w", err)
	}
	return n > 0, nil
}

func (s *Store) ListCompletions(userID, since string) ([]tracker.Completion, error) {
	rows, err := s.db.Query(`SELECT habit_id, date FROM completions
		WHERE user_id = ? AND date >= ? ORDER BY date`, userID, since)
	if err != nil {
		return nil, fmt.Errorf("list completions: %w", err)
	}
	defer rows.Close()

	out := []tracker.Completion{}
	for rows.Next() {
		var c tracker.Completion
		if err := rows.Scan(&c.HabitID, &c.Date); err != nil {
			return nil, fmt.Errorf("list completions: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) ListHabitCompletions(userID, habitID string) ([]tracker.Completion, error) {
	rows, err := s.db.Query(`SELECT habit_id, date FROM completions
		WHERE user_id = ? AND habit_id = ? ORDER BY date`, userID, habitID)
	if err != nil {
		return nil, fmt.Errorf("list habit completions: %w", err)
	}
	defer rows.Close()

	out := []tracker.Completion{}
	for rows.Next() {
		var c tracker.Completion
		if err := rows.Scan(&c.HabitID, &c.Date); err != nil {
			return nil, fmt.Errorf("list habit completions: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) PutGoal(userID string, g tracker.Goal) error {
	_, err := s.db.Exec(`INSERT INTO goals
		(user_id, id, name, description, category, target_value, current_value, unit, deadline, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, id) DO UPDATE SET
		name=excluded.name, description=excluded.description, category=excluded.category,
		target_value=excluded.target_value, current_value=excluded.current_value,
		unit=excluded.unit, deadline=excluded.deadline, created_at=excluded.created_at`,
		userID, g.ID, g.Name, g.Description, string(g.Category),
		g.TargetValue, g.CurrentValue, g.Unit, g.Deadline, g.CreatedAt)
	if err != nil {
		return fmt.Errorf("put goal: %w", err)
	}
	return nil
}

func (s *Store) GetGoal(userID, goalID string) (tracker.Goal, bool, error) {
	var g tracker.Goal
	var category string
	err := s.db.QueryRow(`SELECT id, name, description, category, target_value, current_value, unit, deadline, created_at
		FROM goals WHERE user_id = ? AND id = ?`, userID, goalID).
		Scan(&g.ID, &g.Name, &g.Description, &category, &g.TargetValue, &g.CurrentValue, &g.Unit, &g.Deadline, &g.CreatedAt)
	if err == sql.ErrNoRows {
		return tracker.Goal{}, false, nil
	}
	if err != nil {
		return tracker.Goal{}, false, fmt.Errorf("get goal: %w", err)
	}
	g.Category = tracker.Category(category)
	return g, true, nil
}

func (s *Store) ListGoals(userID string) ([]tracker.Goal, error) {
	rows, err := s.db.Query(`SELECT id, name, description, category, target_value, current_value, unit, deadline, created_at
		FROM goals WHERE user_id = ? ORDER BY created_at, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	out := []tracker.Goal{}
	for rows.Next() {
		var g tracker.Goal
		var category string
		if err := rows.Scan(&g.ID, &g.Name, &g.Description, &category, &g.TargetValue,
			&g.CurrentValue, &g.Unit, &g.Deadline, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("list goals: %w", err)
		}
		g.Category = tracker.Category(category)
		out = append(out, g)
	}
	return out, rows.Err()
}

func (s *Store) DeleteGoal(userID, goalID string) error {
	_, err := s.db.Exec(`DELETE FROM goals WHERE user_id = ? AND id = ?`, userID, goalID)
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	return nil
}

func (s *Store) PutNote(userID string, n tracker.DailyNote) error {
	_, err := s.db.Exec(`INSERT INTO notes (user_id, date, id, content, mood)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (user_id, date) DO UPDATE SET
		content=excluded.content, mood=excluded.mood`,
		userID, n.Date, n.ID, n.Content, string(n.Mood))
	if err != nil {
		return fmt.Errorf("put note: %w", err)
	}
	return nil
}

func (s *Store) GetNote(userID, date string) (tracker.DailyNote, bool, error) {
	var n tracker.DailyNote
	var mood string
	err := s.db.QueryRow(`SELECT id, date, content, mood FROM notes WHERE user_id = ? AND date = ?`,
		userID, date).Scan(&n.ID, &n.Date, &n.Content, &mood)
	if err == sql.ErrNoRows {
		return tracker.DailyNote{}, false, nil
	}
	if err != nil {
		return tracker.DailyNote{}, false, fmt.Errorf("get note: %w", err)
	}
	n.Mood = tracker.Mood(mood)
	return n, true, nil
}

func (s *Store) ListNotes(userID string, limit int) ([]tracker.DailyNote, error) {
	if limit <= 0 {
		limit = -1 // sqlite treats negative LIMIT as unbounded
	}
	rows, err := s.db.Query(`SELECT id, date, content, mood FROM notes
		WHERE user_id = ? ORDER BY date DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()

	out := []tracker.DailyNote{}
	for rows.Next() {
		var n tracker.DailyNote
		var mood string
		if err := rows.Scan(&n.ID, &n.Date, &n.Content, &mood); err != nil {
			return nil, fmt.Errorf("list notes: %w", err)
		}
		n.Mood = tracker.Mood(mood)
		out = append(out, n)
	}
	return out, rows.Err()
}

func (s *Store) PutReminder(userID string, r tracker.Reminder) error {
	enabled := 0
	if r.Enabled {
		enabled = 1
	}
	_, err := s.db.Exec(`INSERT INTO reminders (user_id, id, habit_id, time, days, enabled)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, id) DO UPDATE SET
		habit_id=excluded.habit_id, time=excluded.time, days=excluded.days, enabled=excluded.enabled`,
		userID, r.ID, r.HabitID, r.Time, marshalDays(r.Days), enabled)
	if err != nil {
		return fmt.Errorf("put reminder: %w", err)
	}
	return nil
}

func (s *Store) ListReminders(userID string) ([]tracker.Reminder, error) {
	rows, err := s.db.Query(`SELECT id, habit_id, time, days, enabled FROM reminders
		WHERE user_id = ? ORDER BY time, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list reminders: %w", err)
	}
	defer rows.Close()

	out := []tracker.Reminder{}
	for rows.Next() {
		var r tracker.Reminder
		var days string
		var enabled int
		if err := rows.Scan(&r.ID, &r.HabitID, &r.Time, &days, &enabled); err != nil {
			return nil, fmt.Errorf("list reminders: %w", err)
		}
		d, err := unmarshalDays(days)
		if err != nil {
			return nil, err
		}
		r.Days = d
		r.Enabled = enabled != 0
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) DeleteReminder(userID, reminderID string) error {
	_, err := s.db.Exec(`DELETE FROM reminders WHERE user_id = ? AND id = ?`, userID, reminderID)
	if err != nil {
		return fmt.Errorf("delete reminder: %w", err)
	}
	return nil
}

func (s *Store) PutAPIKey(keyHash, userID string) error {
	_, err := s.db.Exec(`INSERT INTO api_keys (key_hash, user_id) VALUES (?, ?)
		ON CONFLICT (key_hash) DO UPDATE SET user_id=excluded.user_id`, keyHash, userID)
	if err != nil {
		return fmt.Errorf("put api key: %w", err)
	}
	return nil
}

func (s *Store) GetAPIKey(keyHash string) (string, bool, error) {
	var userID string
	err := s.db.QueryRow(`SELECT user_id FROM api_keys WHERE key_hash = ?`, keyHash).Scan(&userID)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get api key: %w", err)
	}
	return userID, true, nil
}

var _ storage.Store = (*Store)(nil)
