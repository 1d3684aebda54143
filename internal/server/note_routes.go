package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/dmaguire/streaks/internal/logger"
	"github.com/dmaguire/streaks/pkg/tracker"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const defaultNoteLimit = 30

// putNote saves the note for a date, replacing any existing one in place.
func (s *Server) putNote(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	userID := userIDFromContext(s.cfg.AuthEnabled, r)
	if userID == "" || date == "" {
		http.Error(w, `{"error":"user id and date are required"}`, http.StatusBadRequest)
		return
	}
	if _, err := time.Parse(tracker.DayFormat, date); err != nil {
		http.Error(w, `{"error":"invalid date"}`, http.StatusBadRequest)
		return
	}

	var n tracker.DailyNote
	if err := json.NewDecoder(r.Body).Decode(&n); err != nil {
		logger.Warn("Invalid JSON in put note request", "error", err)
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return
	}
	if err := tracker.ValidateNote(n); err != nil {
		http.Error(w, fmt.Sprintf(`{"error":"%s"}`, err.Error()), http.StatusBadRequest)
		return
	}

	n.Date = date
	if existing, found, err := s.store.GetNote(userID, date); err == nil && found {
		n.ID = existing.ID
	} else if n.ID == "" {
		n.ID = uuid.NewString()
	}

	logger.Info("Saving note", "user_id", userID, "date", date, "mood", n.Mood)
	if err := s.store.PutNote(userID, n); err != nil {
		logger.Error("Failed to save note", "user_id", userID, "date", date, "error", err)
		http.Error(w, `{"error":"database write failed"}`, http.StatusInternalServerError)
		return
	}

	if err := writeJSON(w, http.StatusOK, n); err != nil {
		logger.Error("Failed to serialize note response", "user_id", userID, "date", date, "error", err)
		http.Error(w, `{"error":"failed to serialize response"}`, http.StatusInternalServerError)
		return
	}
}

func (s *Server) getNote(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	userID := userIDFromContext(s.cfg.AuthEnabled, r)
	if userID == "" || date == "" {
		http.Error(w, `{"error":"user id and date are required"}`, http.StatusBadRequest)
		return
	}

	n, found, err := s.store.GetNote(userID, date)
	if err != nil {
		logger.Error("Failed to get note", "user_id", userID, "date", date, "error", err)
		http.Error(w, `{"error":"storage error"}`, http.StatusInternalServerError)
		return
	}
	if !found {
		http.Error(w, `{"error":"note not found"}`, http.StatusNotFound)
		return
	}

	if err := writeJSON(w, http.StatusOK, n); err != nil {
		logger.Error("Failed to serialize note response", "user_id", userID, "date", date, "error", err)
		http.Error(w, `{"error":"failed to serialize response"}`, http.StatusInternalServerError)
		return
	}
}

func (s *Server) listNotes(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(s.cfg.AuthEnabled, r)
	if userID == "" {
		http.Error(w, `{"error":"user id is required"}`, http.StatusBadRequest)
		return
	}

	limit := defaultNoteLimit
	if l := r.URL.Query().Get("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n <= 0 {
			http.Error(w, `{"error":"invalid limit"}`, http.StatusBadRequest)
			return
		}
		limit = n
	}

	notes, err := s.store.ListNotes(userID, limit)
	if err != nil {
		logger.Error("Failed to list notes", "user_id", userID, "error", err)
		http.Error(w, `{"error":"storage error"}`, http.StatusInternalServerError)
		return
	}

	if err := writeJSON(w, http.StatusOK, NoteListResponse{Notes: notes}); err != nil {
		logger.Error("Failed to serialize note list response", "user_id", userID, "error", err)
		http.Error(w, `{"error":"failed to serialize response"}`, http.StatusInternalServerError)
		return
	}
}
