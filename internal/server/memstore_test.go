package server

import (
	"sort"
	"sync"

	"github.com/dmaguire/streaks/internal/storage"
	"github.com/dmaguire/streaks/pkg/tracker"
)

type memUser struct {
	habits      map[string]tracker.Habit
	completions map[string]map[string]bool // habitID -> date set
	goals       map[string]tracker.Goal
	notes       map[string]tracker.DailyNote // keyed by date
	reminders   map[string]tracker.Reminder
}

type memStore struct {
	mu      sync.RWMutex
	users   map[string]*memUser
	apiKeys map[string]string // keyHash -> userID
}

func newMemStore() *memStore {
	return &memStore{
		users:   map[string]*memUser{},
		apiKeys: map[string]string{},
	}
}

func (m *memStore) user(userID string) *memUser {
	u, ok := m.users[userID]
	if !ok {
		u = &memUser{
			habits:      map[string]tracker.Habit{},
			completions: map[string]map[string]bool{},
			goals:       map[string]tracker.Goal{},
			notes:       map[string]tracker.DailyNote{},
			reminders:   map[string]tracker.Reminder{},
		}
		m.users[userID] = u
	}
	return u
}

func (m *memStore) PutHabit(userID string, h tracker.Habit) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.user(userID).habits[h.ID] = h
	return nil
}

func (m *memStore) GetHabit(userID, habitID string) (tracker.Habit, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[userID]
	if !ok {
		return tracker.Habit{}, false, nil
	}
	h, ok := u.habits[habitID]
	return h, ok, nil
}

func (m *memStore) ListHabits(userID string) ([]tracker.Habit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[userID]
	if !ok {
		return []tracker.Habit{}, nil
	}
	out := []tracker.Habit{}
	for _, h := range u.habits {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) DeleteHabit(userID, habitID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.user(userID)
	delete(u.habits, habitID)
	delete(u.completions, habitID)
	return nil
}

func (m *memStore) AddCompletion(userID string, c tracker.Completion) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.user(userID)
	if u.completions[c.HabitID] == nil {
		u.completions[c.HabitID] = map[string]bool{}
	}
	u.completions[c.HabitID][c.Date] = true
	return nil
}

func (m *memStore) RemoveCompletion(userID, habitID, date string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.user(userID).completions[habitID], date)
	return nil
}

func (m *memStore) HasCompletion(userID, habitID, date string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[userID]
	if !ok {
		return false, nil
	}
	return u.completions[habitID][date], nil
}

func (m *memStore) ListCompletions(userID, since string) ([]tracker.Completion, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[userID]
	if !ok {
		return []tracker.Completion{}, nil
	}
	out := []tracker.Completion{}
	for habitID, dates := range u.completions {
		for date := range dates {
			if since != "" && date < since {
				continue
			}
			out = append(out, tracker.Completion{HabitID: habitID, Date: date})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].HabitID != out[j].HabitID {
			return out[i].HabitID < out[j].HabitID
		}
		return out[i].Date < out[j].Date
	})
	return out, nil
}

func (m *memStore) ListHabitCompletions(userID, habitID string) ([]tracker.Completion, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[userID]
	if !ok {
		return []tracker.Completion{}, nil
	}
	out := []tracker.Completion{}
	for date := range u.completions[habitID] {
		out = append(out, tracker.Completion{HabitID: habitID, Date: date})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (m *memStore) PutGoal(userID string, g tracker.Goal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.user(userID).goals[g.ID] = g
	return nil
}

func (m *memStore) GetGoal(userID, goalID string) (tracker.Goal, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[userID]
	if !ok {
		return tracker.Goal{}, false, nil
	}
	g, ok := u.goals[goalID]
	return g, ok, nil
}

func (m *memStore) ListGoals(userID string) ([]tracker.Goal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[userID]
	if !ok {
		return []tracker.Goal{}, nil
	}
	out := []tracker.Goal{}
	for _, g := range u.goals {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) DeleteGoal(userID, goalID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.user(userID).goals, goalID)
	return nil
}

func (m *memStore) PutNote(userID string, n tracker.DailyNote) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.user(userID).notes[n.Date] = n
	return nil
}

func (m *memStore) GetNote(userID, date string) (tracker.DailyNote, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[userID]
	if !ok {
		return tracker.DailyNote{}, false, nil
	}
	n, ok := u.notes[date]
	return n, ok, nil
}

func (m *memStore) ListNotes(userID string, limit int) ([]tracker.DailyNote, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[userID]
	if !ok {
		return []tracker.DailyNote{}, nil
	}
	out := []tracker.DailyNote{}
	for _, n := range u.notes {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memStore) PutReminder(userID string, r tracker.Reminder) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.user(userID).reminders[r.ID] = r
	return nil
}

func (m *memStore) ListReminders(userID string) ([]tracker.Reminder, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[userID]
	if !ok {
		return []tracker.Reminder{}, nil
	}
	out := []tracker.Reminder{}
	for _, r := range u.reminders {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) DeleteReminder(userID, reminderID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.user(userID).reminders, reminderID)
	return nil
}

func (m *memStore) PutAPIKey(keyHash, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.apiKeys[keyHash] = userID
	return nil
}

func (m *memStore) GetAPIKey(keyHash string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	userID, ok := m.apiKeys[keyHash]
	return userID, ok, nil
}

func (m *memStore) Close() error {
	return nil
}

var _ storage.Store = (*memStore)(nil)
