package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/dmaguire/streaks/internal/analytics"
	"github.com/dmaguire/streaks/internal/config"
	"github.com/dmaguire/streaks/internal/logger"
	"github.com/dmaguire/streaks/internal/storage"
	"github.com/dmaguire/streaks/pkg/tracker"
	"github.com/dmaguire/streaks/pkg/versioninfo"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/securecookie"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Server struct {
	store         storage.Store
	cfg           *config.Config
	authProviders map[string]*AuthProvider
	sessionCookie *securecookie.SecureCookie

	// now supplies "today" for all streak and summary computations; tests
	// override it for determinism.
	now func() time.Time
}

func New(store storage.Store, cfg *config.Config) (*Server, error) {
	s := &Server{
		store: store,
		cfg:   cfg,
		now:   time.Now,
	}

	if cfg.AuthEnabled {
		providers, cookie, err := ConfigureOIDCProviders(cfg)
		if err != nil {
			return nil, err
		}
		s.authProviders = providers
		s.sessionCookie = cookie
	}

	return s, nil
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(metricsMiddleware)

	r.Get("/version", s.getVersionInfo)
	r.Handle("/metrics", promhttp.Handler())

	if s.cfg.AuthEnabled {
		r.Get("/auth/login", s.simpleLogin)
		r.Get("/auth/login/{id}", s.login)
		r.Get("/auth/callback/{id}", s.callback)
		r.Post("/auth/logout", s.logout)
		r.Get("/auth/token", s.getAPIToken)
	}

	r.Group(func(r chi.Router) {
		if s.cfg.AuthEnabled {
			r.Use(s.authMiddleware)
			r.Post("/auth/apikeys", s.createAPIKey)
		}

		r.Route("/habits", func(r chi.Router) {
			r.Post("/", s.createHabit)
			r.Get("/", s.listHabits)
			r.Get("/{habit_id}", s.getHabit)
			r.Delete("/{habit_id}", s.deleteHabit)
			r.Post("/{habit_id}/toggle", s.toggleHabit)
			r.Get("/{habit_id}/summary", s.getHabitSummary)
		})

		r.Route("/summary", func(r chi.Router) {
			r.Get("/today", s.getTodaySummary)
			r.Get("/week", s.getWeekSummary)
			r.Get("/month", s.getMonthSummary)
			r.Get("/categories", s.getCategorySummary)
		})

		r.Route("/goals", func(r chi.Router) {
			r.Post("/", s.createGoal)
			r.Get("/", s.listGoals)
			r.Put("/{goal_id}/progress", s.updateGoalProgress)
			r.Delete("/{goal_id}", s.deleteGoal)
		})

		r.Route("/notes", func(r chi.Router) {
			r.Get("/", s.listNotes)
			r.Put("/{date}", s.putNote)
			r.Get("/{date}", s.getNote)
		})

		r.Route("/reminders", func(r chi.Router) {
			r.Post("/", s.createReminder)
			r.Get("/", s.listReminders)
			r.Delete("/{reminder_id}", s.deleteReminder)
		})
	})

	return r
}

func writeJSON(w http.ResponseWriter, code int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	return json.NewEncoder(w).Encode(v)
}

func (s *Server) getVersionInfo(w http.ResponseWriter, _ *http.Request) {
	info := versioninfo.VersionInfo{
		Version:   versioninfo.Version,
		BuildDate: versioninfo.BuildDate,
	}
	if err := writeJSON(w, http.StatusOK, info); err != nil {
		logger.Error("Failed to serialize version info response", "error", err)
		http.Error(w, `{"error":"failed to serialize version info"}`, http.StatusInternalServerError)
		return
	}
}

// today returns the reference date for streaks and summaries. An explicit
// ?date=YYYY-MM-DD query overrides the clock, mostly for summaries of past
// periods.
func (s *Server) today(r *http.Request) (time.Time, error) {
	if d := r.URL.Query().Get("date"); d != "" {
		return time.Parse(tracker.DayFormat, d)
	}
	t := s.now()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// snapshot loads the user's habits plus completions inside the lookback
// window relative to today.
func (s *Server) snapshot(userID string, today time.Time) (*analytics.Snapshot, error) {
	habits, err := s.store.ListHabits(userID)
	if err != nil {
		return nil, err
	}
	since := today.AddDate(0, 0, -s.cfg.LookbackDays).Format(tracker.DayFormat)
	completions, err := s.store.ListCompletions(userID, since)
	if err != nil {
		return nil, err
	}
	return analytics.NewSnapshot(habits, completions), nil
}
