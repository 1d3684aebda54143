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

func (s *Server) createGoal(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(s.cfg.AuthEnabled, r)
	logger.Debug("Creating goal", "user_id", userID)
	if userID == "" {
		http.Error(w, `{"error":"user id is required"}`, http.StatusBadRequest)
		return
	}

	var g tracker.Goal
	if err := json.NewDecoder(r.Body).Decode(&g); err != nil {
		logger.Warn("Invalid JSON in create goal request", "error", err)
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return
	}
	if err := tracker.ValidateGoal(g); err != nil {
		http.Error(w, fmt.Sprintf(`{"error":"%s"}`, err.Error()), http.StatusBadRequest)
		return
	}
	if g.Deadline != "" {
		if _, err := time.Parse(tracker.DayFormat, g.Deadline); err != nil {
			http.Error(w, `{"error":"invalid deadline"}`, http.StatusBadRequest)
			return
		}
	}

	g.ID = uuid.NewString()
	g.CurrentValue = 0
	if g.CreatedAt == "" {
		g.CreatedAt = s.now().Format(tracker.DayFormat)
	}

	logger.Info("Storing goal", "user_id", userID, "goal_id", g.ID, "goal_name", g.Name)
	if err := s.store.PutGoal(userID, g); err != nil {
		logger.Error("Failed to store goal", "user_id", userID, "goal_name", g.Name, "error", err)
		http.Error(w, `{"error":"database write failed"}`, http.StatusInternalServerError)
		return
	}

	if err := writeJSON(w, http.StatusCreated, g); err != nil {
		logger.Error("Failed to serialize create goal response", "user_id", userID, "error", err)
		http.Error(w, `{"error":"failed to serialize response"}`, http.StatusInternalServerError)
		return
	}
}

func (s *Server) listGoals(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(s.cfg.AuthEnabled, r)
	if userID == "" {
		http.Error(w, `{"error":"user id is required"}`, http.StatusBadRequest)
		return
	}

	goals, err := s.store.ListGoals(userID)
	if err != nil {
		logger.Error("Failed to list goals", "user_id", userID, "error", err)
		http.Error(w, `{"error":"storage error"}`, http.StatusInternalServerError)
		return
	}

	resp := GoalListResponse{
		Goals:   make([]GoalResponse, 0, len(goals)),
		Overall: analytics.OverallProgress(goals),
	}
	for _, g := range goals {
		resp.Goals = append(resp.Goals, GoalResponse{Goal: g, Percentage: analytics.GoalProgress(g)})
	}
	if err := writeJSON(w, http.StatusOK, resp); err != nil {
		logger.Error("Failed to serialize goal list response", "user_id", userID, "error", err)
		http.Error(w, `{"error":"failed to serialize response"}`, http.StatusInternalServerError)
		return
	}
}

type progressRequest struct {
	Value float64 `json:"value"`
}

func (s *Server) updateGoalProgress(w http.ResponseWriter, r *http.Request) {
	goalID := chi.URLParam(r, "goal_id")
	userID := userIDFromContext(s.cfg.AuthEnabled, r)
	if userID == "" || goalID == "" {
		http.Error(w, `{"error":"user id and goal id are required"}`, http.StatusBadRequest)
		return
	}

	var req progressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("Invalid JSON in progress request", "error", err)
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return
	}
	if req.Value < 0 {
		http.Error(w, `{"error":"progress value must not be negative"}`, http.StatusBadRequest)
		return
	}

	g, found, err := s.store.GetGoal(userID, goalID)
	if err != nil {
		logger.Error("Failed to get goal", "user_id", userID, "goal_id", goalID, "error", err)
		http.Error(w, `{"error":"storage error"}`, http.StatusInternalServerError)
		return
	}
	if !found {
		http.Error(w, `{"error":"goal not found"}`, http.StatusNotFound)
		return
	}

	g.CurrentValue = analytics.ClampProgress(g, req.Value)
	logger.Info("Updating goal progress", "user_id", userID, "goal_id", goalID, "value", g.CurrentValue)
	if err := s.store.PutGoal(userID, g); err != nil {
		logger.Error("Failed to update goal", "user_id", userID, "goal_id", goalID, "error", err)
		http.Error(w, `{"error":"database write failed"}`, http.StatusInternalServerError)
		return
	}

	resp := GoalResponse{Goal: g, Percentage: analytics.GoalProgress(g)}
	if err := writeJSON(w, http.StatusOK, resp); err != nil {
		logger.Error("Failed to serialize progress response", "user_id", userID, "goal_id", goalID, "error", err)
		http.Error(w, `{"error":"failed to serialize response"}`, http.StatusInternalServerError)
		return
	}
}

func (s *Server) deleteGoal(w http.ResponseWriter, r *http.Request) {
	goalID := chi.URLParam(r, "goal_id")
	userID := userIDFromContext(s.cfg.AuthEnabled, r)
	logger.Info("Deleting goal", "user_id", userID, "goal_id", goalID)
	if userID == "" || goalID == "" {
		http.Error(w, `{"error":"user id and goal id are required"}`, http.StatusBadRequest)
		return
	}

	if err := s.store.DeleteGoal(userID, goalID); err != nil {
		logger.Error("Failed to delete goal", "user_id", userID, "goal_id", goalID, "error", err)
		http.Error(w, `{"error":"storage error"}`, http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
