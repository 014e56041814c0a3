// Package api provides the QuestForge HTTP server: a JSON API under
// /api/v1, the live event feed, /health and /metrics.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/questforge/questforge/internal/app/game"
	"github.com/questforge/questforge/internal/domain"
	"github.com/questforge/questforge/internal/health"
)

// Version is reported by /api/v1/version.
const Version = "0.1.0"

// Config controls the server's outer surface.
type Config struct {
	CORSOrigins []string
	// RateLimitRPS is the per-client request rate. Zero disables limiting.
	RateLimitRPS   float64
	RateLimitBurst int
	Metrics        bool
}

// Server is the QuestForge HTTP API server.
type Server struct {
	game   *game.Service
	cfg    Config
	log    *zap.Logger
	feed   http.Handler
	health *health.Checker
}

// NewServer creates a new API server.
func NewServer(g *game.Service, cfg Config, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{game: g, cfg: cfg, log: log.Named("api")}
}

// SetEventFeed mounts the live event feed at /api/v1/events.
func (s *Server) SetEventFeed(h http.Handler) { s.feed = h }

// SetHealth reports checker results on /health.
func (s *Server) SetHealth(c *health.Checker) { s.health = c }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.log))
	r.Use(middleware.Recoverer)

	origins := s.cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))
	if s.cfg.RateLimitRPS > 0 {
		r.Use(newRateLimiter(s.cfg.RateLimitRPS, s.cfg.RateLimitBurst).Middleware)
	}

	r.Get("/health", s.handleHealth)
	if s.cfg.Metrics {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		// The WebSocket feed must not sit behind the timeout middleware.
		if s.feed != nil {
			r.Handle("/events", s.feed)
		}

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(30 * time.Second))

			r.Get("/version", func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusOK, map[string]string{"version": Version})
			})
			r.Get("/status", s.handleStatus)
			r.Get("/reward/preview", s.handleRewardPreview)
			r.Get("/level", s.handleLevel)

			r.Route("/tasks", func(r chi.Router) {
				r.Get("/", s.handleListTasks)
				r.Post("/", s.handleCreateTask)
				r.Get("/suggestions", s.handleSuggestTasks)
				r.Delete("/{id}", s.handleDeleteTask)
				r.Post("/{id}/start", s.handleStartTask)
				r.Post("/{id}/complete", s.handleCompleteTask)
				r.Post("/{id}/status", s.handleTaskStatus)
				r.Post("/{id}/extend", s.handleExtendDeadline)
				r.Post("/{id}/subtasks/{sid}/complete", s.handleCompleteSubtask)
				r.Post("/{id}/dependencies", s.handleAddDependency)
			})

			r.Route("/habits", func(r chi.Router) {
				r.Get("/", s.handleListHabits)
				r.Post("/", s.handleCreateHabit)
				r.Delete("/{id}", s.handleDeleteHabit)
				r.Post("/{id}/complete", s.handleCompleteHabit)
				r.Post("/{id}/miss", s.handleMissHabit)
				r.Get("/{id}/stats", s.handleHabitStats)
			})

			r.Route("/focus", func(r chi.Router) {
				r.Get("/", s.handleFocus)
				r.Post("/start", s.handleStartFocus)
				r.Post("/break/start", s.handleStartBreak)
				r.Post("/break/end", s.handleEndBreak)
				r.Post("/distraction", s.handleDistraction)
				r.Post("/end", s.handleEndFocus)
				r.Post("/cancel", s.handleCancelFocus)
			})

			r.Route("/projects", func(r chi.Router) {
				r.Get("/", s.handleListProjects)
				r.Post("/", s.handleCreateProject)
				r.Post("/{id}/status", s.handleProjectStatus)
				r.Post("/{id}/milestones/{mid}/complete", s.handleCompleteMilestone)
			})

			r.Get("/companion", s.handleCompanion)
			r.Post("/companion/feed", s.handleFeedCompanion)
			r.Post("/companion/rename", s.handleRenameCompanion)

			r.Get("/burnout", s.handleBurnout)
			r.Put("/burnout", s.handleUpdateBurnout)

			r.Get("/skills", s.handleSkills)
			r.Post("/skills/{id}/unlock", s.handleUnlockSkill)

			r.Get("/challenges", s.handleChallenges)
			r.Post("/challenges/{id}/reroll", s.handleRerollChallenge)

			r.Get("/shop", s.handleShop)
			r.Post("/shop/{id}/purchase", s.handlePurchase)
			r.Post("/inventory/{id}/use", s.handleUseItem)
			r.Get("/wallet", s.handleWallet)
			r.Get("/wallet/transactions", s.handleTransactions)

			r.Get("/undo", s.handleUndoStack)
			r.Post("/undo", s.handleUndo)

			r.Get("/achievements", s.handleAchievements)
			r.Get("/reports/weekly", s.handleWeeklyReport)
			r.Get("/reports/trend", s.handleTrend)

			r.Get("/notifications", s.handleNotifications)
			r.Post("/notifications/{id}/shown", s.handleNotificationShown)
		})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.health == nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}
	status, code := "ok", http.StatusOK
	if !s.health.IsHealthy() {
		status, code = "degraded", http.StatusServiceUnavailable
	}
	writeJSON(w, code, map[string]any{
		"status": status,
		"checks": s.health.Statuses(),
	})
}

// ─── JSON helpers ───────────────────────────────────────────────────────────

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, typ, msg string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]any{
			"message": msg,
			"type":    typ,
		},
	})
}

// fail maps err to a status code and writes it.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, typ := classify(err)
	if status == http.StatusInternalServerError {
		s.log.Error("request failed",
			zap.String("path", r.URL.Path),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err))
		writeError(w, status, typ, "internal error")
		return
	}
	writeError(w, status, typ, err.Error())
}

// decode reads a JSON body into v. An empty body leaves v untouched.
func decode(r *http.Request, v any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return nil
}

// queryInt parses an optional integer query parameter.
func queryInt(r *http.Request, name string, def int) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", domain.ErrInvalidInput, name)
	}
	return n, nil
}

// ─── Error mapping ──────────────────────────────────────────────────────────

var notFoundErrors = []error{
	domain.ErrTaskNotFound,
	domain.ErrSubtaskNotFound,
	domain.ErrHabitNotFound,
	domain.ErrProjectNotFound,
	domain.ErrMilestoneNotFound,
	domain.ErrSkillNotFound,
	domain.ErrChallengeNotFound,
	domain.ErrItemNotFound,
	domain.ErrNotificationNotFound,
}

var validationErrors = []error{
	domain.ErrInvalidInput,
	domain.ErrInvalidDifficulty,
	domain.ErrInvalidRarity,
	domain.ErrInvalidDate,
	domain.ErrNegativeXP,
	domain.ErrNonPositiveAmount,
	domain.ErrSelfDependency,
}

var conflictErrors = []error{
	domain.ErrTaskBlocked,
	domain.ErrTaskAlreadyCompleted,
	domain.ErrTaskNotCompletable,
	domain.ErrDependencyCycle,
	domain.ErrNoHardDeadline,
	domain.ErrExtensionLimit,
	domain.ErrNoActiveSession,
	domain.ErrSessionActive,
	domain.ErrBreakActive,
	domain.ErrNoActiveBreak,
	domain.ErrMilestoneCompleted,
	domain.ErrMilestoneOutOfOrder,
	domain.ErrMilestonesOpen,
	domain.ErrSkillAlreadyUnlocked,
	domain.ErrPrerequisitesUnmet,
	domain.ErrInsufficientSkillPoints,
	domain.ErrChallengeCompleted,
	domain.ErrInsufficientCoins,
	domain.ErrOutOfStock,
	domain.ErrMaxOwned,
	domain.ErrItemNotOwned,
	domain.ErrNothingToUndo,
	domain.ErrIrreversible,
}

func isAny(err error, targets []error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

// classify returns the HTTP status and error type for err.
func classify(err error) (int, string) {
	switch {
	case isAny(err, notFoundErrors):
		return http.StatusNotFound, "not_found"
	case isAny(err, validationErrors):
		return http.StatusBadRequest, "invalid_request"
	case isAny(err, conflictErrors):
		return http.StatusConflict, "conflict"
	}
	return http.StatusInternalServerError, "internal"
}
