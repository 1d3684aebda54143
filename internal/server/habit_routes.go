package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/dmaguire/streaks/internal/analytics"
	"github.com/dmaguire/streaks/internal/logger"
	"github.com/dmaguire/streaks/pkg/tracker"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func (s *Server) createHabit(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(s.cfg.AuthEnabled, r)
	logger.Debug("Creating habit", "user_id", userID)
	if userID == "" {
		logger.Warn("Missing user ID for create habit")
		http.Error(w, `{"error":"user id is required"}`, http.StatusBadRequest)
		return
	}

	var h tracker.Habit
	if err := json.NewDecoder(r.Body).Decode(&h); err != nil {
		logger.Warn("Invalid JSON in create habit request", "error", err)
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return
	}
	if err := tracker.ValidateHabit(h); err != nil {
		http.Error(w, fmt.Sprintf(`{"error":"%s"}`, err.Error()), http.StatusBadRequest)
		return
	}

	h.ID = uuid.NewString()
	h.BestStreak = 0
	if h.CreatedAt == "" {
		h.CreatedAt = s.now().Format(tracker.DayFormat)
	}

	logger.Info("Storing habit", "user_id", userID, "habit_id", h.ID, "habit_name", h.Name)
	if err := s.store.PutHabit(userID, h); err != nil {
		logger.Error("Failed to store habit", "user_id", userID, "habit_name", h.Name, "error", err)
		http.Error(w, `{"error":"database write failed"}`, http.StatusInternalServerError)
		return
	}

	s.updateActiveHabitsMetric(userID)

	if err := writeJSON(w, http.StatusCreated, h); err != nil {
		logger.Error("Failed to serialize create habit response", "user_id", userID, "error", err)
		http.Error(w, `{"error":"failed to serialize response"}`, http.StatusInternalServerError)
		return
	}
}

func (s *Server) listHabits(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(s.cfg.AuthEnabled, r)
	logger.Debug("Listing habits", "user_id", userID)
	if userID == "" {
		http.Error(w, `{"error":"user id is required"}`, http.StatusBadRequest)
		return
	}

	habits, err := s.store.ListHabits(userID)
	if err != nil {
		logger.Error("Failed to list habits", "user_id", userID, "error", err)
		http.Error(w, `{"error":"storage error"}`, http.StatusInternalServerError)
		return
	}
	if err := writeJSON(w, http.StatusOK, HabitListResponse{Habits: habits}); err != nil {
		logger.Error("Failed to serialize habit list response", "user_id", userID, "error", err)
		http.Error(w, `{"error":"failed to serialize response"}`, http.StatusInternalServerError)
		return
	}
}

func (s *Server) getHabit(w http.ResponseWriter, r *http.Request) {
	habitID := chi.URLParam(r, "habit_id")
	userID := userIDFromContext(s.cfg.AuthEnabled, r)
	if userID == "" || habitID == "" {
		http.Error(w, `{"error":"user id and habit id are required"}`, http.StatusBadRequest)
		return
	}

	h, found, err := s.store.GetHabit(userID, habitID)
	if err != nil {
		logger.Error("Failed to get habit", "user_id", userID, "habit_id", habitID, "error", err)
		http.Error(w, `{"error":"storage error"}`, http.StatusInternalServerError)
		return
	}
	if !found {
		http.Error(w, `{"error":"habit not found"}`, http.StatusNotFound)
		return
	}

	completions, err := s.store.ListHabitCompletions(userID, habitID)
	if err != nil {
		logger.Error("Failed to list habit completions", "user_id", userID, "habit_id", habitID, "error", err)
		http.Error(w, `{"error":"storage error"}`, http.StatusInternalServerError)
		return
	}

	resp := HabitGetResponse{Habit: h, Completions: completions}
	if err := writeJSON(w, http.StatusOK, resp); err != nil {
		logger.Error("Failed to serialize get habit response", "user_id", userID, "habit_id", habitID, "error", err)
		http.Error(w, `{"error":"failed to serialize response"}`, http.StatusInternalServerError)
		return
	}
}

func (s *Server) deleteHabit(w http.ResponseWriter, r *http.Request) {
	habitID := chi.URLParam(r, "habit_id")
	userID := userIDFromContext(s.cfg.AuthEnabled, r)
	logger.Info("Deleting habit", "user_id", userID, "habit_id", habitID)
	if userID == "" || habitID == "" {
		http.Error(w, `{"error":"user id and habit id are required"}`, http.StatusBadRequest)
		return
	}

	if err := s.store.DeleteHabit(userID, habitID); err != nil {
		logger.Error("Failed to delete habit", "user_id", userID, "habit_id", habitID, "error", err)
		http.Error(w, `{"error":"storage error"}`, http.StatusInternalServerError)
		return
	}

	s.updateActiveHabitsMetric(userID)

	w.WriteHeader(http.StatusNoContent)
}

type toggleRequest struct {
	Date string `json:"date,omitempty"`
}

// toggleHabit flips the completion record for (habit, date): present becomes
// absent and vice versa. The streak walk always anchors at the real today
// even when a past date is toggled, and the stored best streak only grows.
func (s *Server) toggleHabit(w http.ResponseWriter, r *http.Request) {
	habitID := chi.URLParam(r, "habit_id")
	userID := userIDFromContext(s.cfg.AuthEnabled, r)
	if userID == "" || habitID == "" {
		http.Error(w, `{"error":"user id and habit id are required"}`, http.StatusBadRequest)
		return
	}

	var req toggleRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Warn("Invalid JSON in toggle request", "error", err)
			http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
			return
		}
	}

	today, err := s.today(r)
	if err != nil {
		http.Error(w, `{"error":"invalid date"}`, http.StatusBadRequest)
		return
	}
	date := req.Date
	if date == "" {
		date = today.Format(tracker.DayFormat)
	} else if _, err := time.Parse(tracker.DayFormat, date); err != nil {
		http.Error(w, `{"error":"invalid date"}`, http.StatusBadRequest)
		return
	}

	h, found, err := s.store.GetHabit(userID, habitID)
	if err != nil {
		logger.Error("Failed to get habit for toggle", "user_id", userID, "habit_id", habitID, "error", err)
		http.Error(w, `{"error":"storage error"}`, http.StatusInternalServerError)
		return
	}
	if !found {
		http.Error(w, `{"error":"habit not found"}`, http.StatusNotFound)
		return
	}

	done, err := s.store.HasCompletion(userID, habitID, date)
	if err != nil {
		logger.Error("Failed to check completion", "user_id", userID, "habit_id", habitID, "error", err)
		http.Error(w, `{"error":"storage error"}`, http.StatusInternalServerError)
		return
	}

	if done {
		err = s.store.RemoveCompletion(userID, habitID, date)
	} else {
		err = s.store.AddCompletion(userID, tracker.Completion{HabitID: habitID, Date: date})
	}
	if err != nil {
		logger.Error("Failed to toggle completion", "user_id", userID, "habit_id", habitID, "date", date, "error", err)
		http.Error(w, `{"error":"database write failed"}`, http.StatusInternalServerError)
		return
	}
	logger.Info("Toggled completion", "user_id", userID, "habit_id", habitID, "date", date, "completed", !done)

	completions, err := s.store.ListHabitCompletions(userID, habitID)
	if err != nil {
		logger.Error("Failed to list completions after toggle", "user_id", userID, "habit_id", habitID, "error", err)
		http.Error(w, `{"error":"storage error"}`, http.StatusInternalServerError)
		return
	}
	current := analytics.CurrentStreak(completionDates(completions), today)

	best := analytics.BestStreak(h.BestStreak, current)
	if best != h.BestStreak {
		h.BestStreak = best
		if err := s.store.PutHabit(userID, h); err != nil {
			logger.Error("Failed to persist best streak", "user_id", userID, "habit_id", habitID, "error", err)
			http.Error(w, `{"error":"database write failed"}`, http.StatusInternalServerError)
			return
		}
	}

	resp := ToggleResponse{
		HabitID:       habitID,
		Date:          date,
		Completed:     !done,
		CurrentStreak: current,
		BestStreak:    best,
	}
	if err := writeJSON(w, http.StatusOK, resp); err != nil {
		logger.Error("Failed to serialize toggle response", "user_id", userID, "habit_id", habitID, "error", err)
		http.Error(w, `{"error":"failed to serialize response"}`, http.StatusInternalServerError)
		return
	}
}

func (s *Server) getHabitSummary(w http.ResponseWriter, r *http.Request) {
	habitID := chi.URLParam(r, "habit_id")
	userID := userIDFromContext(s.cfg.AuthEnabled, r)
	logger.Debug("Getting habit summary", "habit_id", habitID, "user_id", userID)
	if userID == "" || habitID == "" {
		http.Error(w, `{"error":"user id and habit id are required"}`, http.StatusBadRequest)
		return
	}

	today, err := s.today(r)
	if err != nil {
		http.Error(w, `{"error":"invalid date"}`, http.StatusBadRequest)
		return
	}

	h, found, err := s.store.GetHabit(userID, habitID)
	if err != nil {
		logger.Error("Failed to get habit for summary", "user_id", userID, "habit_id", habitID, "error", err)
		http.Error(w, `{"error":"storage error"}`, http.StatusInternalServerError)
		return
	}
	if !found {
		http.Error(w, `{"error":"habit not found"}`, http.StatusNotFound)
		return
	}

	completions, err := s.store.ListHabitCompletions(userID, habitID)
	if err != nil {
		logger.Error("Failed to list completions for summary", "user_id", userID, "habit_id", habitID, "error", err)
		http.Error(w, `{"error":"storage error"}`, http.StatusInternalServerError)
		return
	}
	dates := completionDates(completions)

	summary := HabitSummary{
		HabitID:       habitID,
		Name:          h.Name,
		CurrentStreak: analytics.CurrentStreak(dates, today),
		BestStreak:    h.BestStreak,
		LongestStreak: analytics.LongestStreak(dates),
		TotalDaysDone: len(dates),
		DoneToday:     hasDate(dates, today.Format(tracker.DayFormat)),
	}
	if err := writeJSON(w, http.StatusOK, summary); err != nil {
		logger.Error("Failed to serialize habit summary response", "user_id", userID, "habit_id", habitID, "error", err)
		http.Error(w, `{"error":"failed to serialize response"}`, http.StatusInternalServerError)
		return
	}
}

func completionDates(completions []tracker.Completion) []string {
	out := make([]string, 0, len(completions))
	for _, c := range completions {
		out = append(out, c.Date)
	}
	return out
}

func hasDate(dates []string, date string) bool {
	for _, d := range dates {
		if d == date {
			return true
		}
	}
	return false
}
