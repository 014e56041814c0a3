package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/questforge/questforge/internal/domain"
)

// ─── Tasks ──────────────────────────────────────────────────────────────────

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.game.Tasks(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tasks": tasks})
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var in domain.TaskInput
	if err := decode(r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	t, err := s.game.CreateTask(r.Context(), in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (s *Server) handleSuggestTasks(w http.ResponseWriter, r *http.Request) {
	energy := domain.EnergyType(r.URL.Query().Get("energy"))
	out, err := s.game.SuggestTasks(r.Context(), energy)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"suggestions": out})
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	t, err := s.game.DeleteTask(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleStartTask(w http.ResponseWriter, r *http.Request) {
	t, err := s.game.StartTask(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleCompleteTask(w http.ResponseWriter, r *http.Request) {
	res, err := s.game.CompleteTask(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleTaskStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status domain.TaskStatus `json:"status"`
	}
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	t, err := s.game.SetTaskStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleExtendDeadline(w http.ResponseWriter, r *http.Request) {
	t, err := s.game.ExtendDeadline(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleCompleteSubtask(w http.ResponseWriter, r *http.Request) {
	t, err := s.game.CompleteSubtask(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "sid"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleAddDependency(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DependsOn string `json:"depends_on"`
	}
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	t, err := s.game.AddDependency(r.Context(), chi.URLParam(r, "id"), req.DependsOn)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// ─── Habits ─────────────────────────────────────────────────────────────────

func (s *Server) handleListHabits(w http.ResponseWriter, r *http.Request) {
	habits, err := s.game.Habits(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"habits": habits})
}

func (s *Server) handleCreateHabit(w http.ResponseWriter, r *http.Request) {
	var in domain.HabitInput
	if err := decode(r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	h, err := s.game.CreateHabit(r.Context(), in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, h)
}

func (s *Server) handleDeleteHabit(w http.ResponseWriter, r *http.Request) {
	if err := s.game.DeleteHabit(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCompleteHabit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Value *float64 `json:"value"`
	}
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	res, err := s.game.CompleteHabit(r.Context(), chi.URLParam(r, "id"), req.Value)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleMissHabit(w http.ResponseWriter, r *http.Request) {
	h, err := s.game.MissHabit(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h)
}

func (s *Server) handleHabitStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.game.HabitStats(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// ─── Focus ──────────────────────────────────────────────────────────────────

func (s *Server) handleFocus(w http.ResponseWriter, r *http.Request) {
	fs, err := s.game.Focus(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, fs)
}

func (s *Server) handleStartFocus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Type           domain.FocusType `json:"type"`
		PlannedMinutes int              `json:"planned_minutes"`
		TaskID         string           `json:"task_id"`
	}
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	fs, err := s.game.StartFocus(r.Context(), req.Type, req.PlannedMinutes, req.TaskID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, fs)
}

func (s *Server) handleStartBreak(w http.ResponseWriter, r *http.Request) {
	fs, err := s.game.StartBreak(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, fs)
}

func (s *Server) handleEndBreak(w http.ResponseWriter, r *http.Request) {
	fs, err := s.game.EndBreak(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, fs)
}

func (s *Server) handleDistraction(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Description string  `json:"description"`
		Minutes     float64 `json:"minutes"`
	}
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	fs, err := s.game.LogDistraction(r.Context(), req.Description, req.Minutes)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, fs)
}

func (s *Server) handleEndFocus(w http.ResponseWriter, r *http.Request) {
	fs, err := s.game.EndFocus(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, fs)
}

func (s *Server) handleCancelFocus(w http.ResponseWriter, r *http.Request) {
	if err := s.game.CancelFocus(r.Context()); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ─── Projects ───────────────────────────────────────────────────────────────

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.game.Projects(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"projects": projects})
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var in domain.ProjectInput
	if err := decode(r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	p, err := s.game.CreateProject(r.Context(), in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleProjectStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status domain.ProjectStatus `json:"status"`
	}
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	p, err := s.game.SetProjectStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleCompleteMilestone(w http.ResponseWriter, r *http.Request) {
	res, err := s.game.CompleteMilestone(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "mid"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
