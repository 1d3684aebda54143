package remind

import (
	"time"

	"github.com/dmaguire/streaks/internal/logger"
	"github.com/dmaguire/streaks/internal/storage"
	"github.com/dmaguire/streaks/pkg/tracker"

	"github.com/robfig/cron/v3"
)

// Notifier delivers a single reminder email.
type Notifier interface {
	SendReminder(habitName, at string) error
}

// Service fires configured reminders on their schedule. It polls once a
// minute and matches reminders against the wall clock, skipping any whose
// bound habit is already completed today.
type Service struct {
	store    storage.Store
	notifier Notifier
	userID   string
	cron     *cron.Cron
	now      func() time.Time
}

func NewService(store storage.Store, notifier Notifier, userID string, loc *time.Location) *Service {
	return &Service{
		store:    store,
		notifier: notifier,
		userID:   userID,
		cron:     cron.New(cron.WithLocation(loc)),
		now:      time.Now,
	}
}

func (s *Service) Start() error {
	if _, err := s.cron.AddFunc("* * * * *", s.tick); err != nil {
		return err
	}
	s.cron.Start()
	logger.Info("Reminder service started", "user_id", s.userID)
	return nil
}

func (s *Service) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Service) tick() {
	now := s.now()
	reminders, err := s.store.ListReminders(s.userID)
	if err != nil {
		logger.Error("Failed to list reminders", "user_id", s.userID, "error", err)
		return
	}

	due := DueReminders(reminders, now, func(habitID string) bool {
		done, err := s.store.HasCompletion(s.userID, habitID, now.Format(tracker.DayFormat))
		if err != nil {
			logger.Error("Failed to check completion for reminder", "habit_id", habitID, "error", err)
			return false
		}
		return done
	})

	for _, r := range due {
		name := "your habit"
		if r.HabitID != "" {
			if h, found, err := s.store.GetHabit(s.userID, r.HabitID); err == nil && found {
				name = h.Name
			}
		}
		logger.Info("Firing reminder", "reminder_id", r.ID, "habit_id", r.HabitID, "time", r.Time)
		if err := s.notifier.SendReminder(name, r.Time); err != nil {
			logger.Error("Failed to send reminder", "reminder_id", r.ID, "error", err)
		}
	}
}

// DueReminders filters to reminders that should fire at the given instant:
// enabled, scheduled for this weekday and wall-clock minute, and not already
// satisfied by a completion.
func DueReminders(reminders []tracker.Reminder, now time.Time, doneToday func(habitID string) bool) []tracker.Reminder {
	weekday := int(now.Weekday())
	minute := now.Hour()*60 + now.Minute()

	var due []tracker.Reminder
	for _, r := range reminders {
		if !r.Enabled {
			continue
		}
		at, err := tracker.ParseClock(r.Time)
		if err != nil || at != minute {
			continue
		}
		if !containsDay(r.Days, weekday) {
			continue
		}
		if r.HabitID != "" && doneToday(r.HabitID) {
			continue
		}
		due = append(due, r)
	}
	return due
}

func containsDay(days []int, d int) bool {
	for _, v := range days {
		if v == d {
			return true
		}
	}
	return false
}
