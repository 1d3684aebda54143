package server

import (
	"net/http"

	"github.com/dmaguire/streaks/internal/analytics"
	"github.com/dmaguire/streaks/internal/logger"
)

func (s *Server) getTodaySummary(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(s.cfg.AuthEnabled, r)
	if userID == "" {
		http.Error(w, `{"error":"user id is required"}`, http.StatusBadRequest)
		return
	}

	today, err := s.today(r)
	if err != nil {
		http.Error(w, `{"error":"invalid date"}`, http.StatusBadRequest)
		return
	}

	snap, err := s.snapshot(userID, today)
	if err != nil {
		logger.Error("Failed to load snapshot", "user_id", userID, "error", err)
		http.Error(w, `{"error":"storage error"}`, http.StatusInternalServerError)
		return
	}

	resp := PeriodSummaryResponse{
		Days:        []analytics.DaySummary{snap.DaySummary(today)},
		TotalStreak: snap.TotalStreak(today),
	}
	if err := writeJSON(w, http.StatusOK, resp); err != nil {
		logger.Error("Failed to serialize today summary", "user_id", userID, "error", err)
		http.Error(w, `{"error":"failed to serialize response"}`, http.StatusInternalServerError)
		return
	}
}

func (s *Server) getWeekSummary(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(s.cfg.AuthEnabled, r)
	if userID == "" {
		http.Error(w, `{"error":"user id is required"}`, http.StatusBadRequest)
		return
	}

	today, err := s.today(r)
	if err != nil {
		http.Error(w, `{"error":"invalid date"}`, http.StatusBadRequest)
		return
	}

	snap, err := s.snapshot(userID, today)
	if err != nil {
		logger.Error("Failed to load snapshot", "user_id", userID, "error", err)
		http.Error(w, `{"error":"storage error"}`, http.StatusInternalServerError)
		return
	}

	resp := PeriodSummaryResponse{
		Days:        snap.WeekSummary(today, s.cfg.WeekStart()),
		TotalStreak: snap.TotalStreak(today),
	}
	if err := writeJSON(w, http.StatusOK, resp); err != nil {
		logger.Error("Failed to serialize week summary", "user_id", userID, "error", err)
		http.Error(w, `{"error":"failed to serialize response"}`, http.StatusInternalServerError)
		return
	}
}

func (s *Server) getMonthSummary(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(s.cfg.AuthEnabled, r)
	if userID == "" {
		http.Error(w, `{"error":"user id is required"}`, http.StatusBadRequest)
		return
	}

	today, err := s.today(r)
	if err != nil {
		http.Error(w, `{"error":"invalid date"}`, http.StatusBadRequest)
		return
	}

	snap, err := s.snapshot(userID, today)
	if err != nil {
		logger.Error("Failed to load snapshot", "user_id", userID, "error", err)
		http.Error(w, `{"error":"storage error"}`, http.StatusInternalServerError)
		return
	}

	resp := PeriodSummaryResponse{
		Days:        snap.MonthSummary(today),
		TotalStreak: snap.TotalStreak(today),
	}
	if err := writeJSON(w, http.StatusOK, resp); err != nil {
		logger.Error("Failed to serialize month summary", "user_id", userID, "error", err)
		http.Error(w, `{"error":"failed to serialize response"}`, http.StatusInternalServerError)
		return
	}
}

func (s *Server) getCategorySummary(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(s.cfg.AuthEnabled, r)
	if userID == "" {
		http.Error(w, `{"error":"user id is required"}`, http.StatusBadRequest)
		return
	}

	today, err := s.today(r)
	if err != nil {
		http.Error(w, `{"error":"invalid date"}`, http.StatusBadRequest)
		return
	}

	snap, err := s.snapshot(userID, today)
	if err != nil {
		logger.Error("Failed to load snapshot", "user_id", userID, "error", err)
		http.Error(w, `{"error":"storage error"}`, http.StatusInternalServerError)
		return
	}

	resp := CategorySummaryResponse{
		Categories:  snap.CategorySummaries(today),
		TotalStreak: snap.TotalStreak(today),
	}
	if err := writeJSON(w, http.StatusOK, resp); err != nil {
		logger.Error("Failed to serialize category summary", "user_id", userID, "error", err)
		http.Error(w, `{"error":"failed to serialize response"}`, http.StatusInternalServerError)
		return
	}
}
