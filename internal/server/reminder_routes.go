package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dmaguire/streaks/internal/logger"
	"github.com/dmaguire/streaks/pkg/tracker"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func (s *Server) createReminder(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(s.cfg.AuthEnabled, r)
	if userID == "" {
		http.Error(w, `{"error":"user id is required"}`, http.StatusBadRequest)
		return
	}

	var rem tracker.Reminder
	if err := json.NewDecoder(r.Body).Decode(&rem); err != nil {
		logger.Warn("Invalid JSON in create reminder request", "error", err)
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return
	}
	if err := tracker.ValidateReminder(rem); err != nil {
		http.Error(w, fmt.Sprintf(`{"error":"%s"}`, err.Error()), http.StatusBadRequest)
		return
	}
	if rem.HabitID != "" {
		_, found, err := s.store.GetHabit(userID, rem.HabitID)
		if err != nil {
			logger.Error("Failed to check reminder habit", "user_id", userID, "habit_id", rem.HabitID, "error", err)
			http.Error(w, `{"error":"storage error"}`, http.StatusInternalServerError)
			return
		}
		if !found {
			http.Error(w, `{"error":"habit not found"}`, http.StatusBadRequest)
			return
		}
	}

	rem.ID = uuid.NewString()
	logger.Info("Storing reminder", "user_id", userID, "reminder_id", rem.ID, "time", rem.Time)
	if err := s.store.PutReminder(userID, rem); err != nil {
		logger.Error("Failed to store reminder", "user_id", userID, "error", err)
		http.Error(w, `{"error":"database write failed"}`, http.StatusInternalServerError)
		return
	}

	if err := writeJSON(w, http.StatusCreated, rem); err != nil {
		logger.Error("Failed to serialize reminder response", "user_id", userID, "error", err)
		http.Error(w, `{"error":"failed to serialize response"}`, http.StatusInternalServerError)
		return
	}
}

func (s *Server) listReminders(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(s.cfg.AuthEnabled, r)
	if userID == "" {
		http.Error(w, `{"error":"user id is required"}`, http.StatusBadRequest)
		return
	}

	reminders, err := s.store.ListReminders(userID)
	if err != nil {
		logger.Error("Failed to list reminders", "user_id", userID, "error", err)
		http.Error(w, `{"error":"storage error"}`, http.StatusInternalServerError)
		return
	}
	if err := writeJSON(w, http.StatusOK, ReminderListResponse{Reminders: reminders}); err != nil {
		logger.Error("Failed to serialize reminder list response", "user_id", userID, "error", err)
		http.Error(w, `{"error":"failed to serialize response"}`, http.StatusInternalServerError)
		return
	}
}

func (s *Server) deleteReminder(w http.ResponseWriter, r *http.Request) {
	reminderID := chi.URLParam(r, "reminder_id")
	userID := userIDFromContext(s.cfg.AuthEnabled, r)
	logger.Info("Deleting reminder", "user_id", userID, "reminder_id", reminderID)
	if userID == "" || reminderID == "" {
		http.Error(w, `{"error":"user id and reminder id are required"}`, http.StatusBadRequest)
		return
	}

	if err := s.store.DeleteReminder(userID, reminderID); err != nil {
		logger.Error("Failed to delete reminder", "user_id", userID, "reminder_id", reminderID, "error", err)
		http.Error(w, `{"error":"storage error"}`, http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
