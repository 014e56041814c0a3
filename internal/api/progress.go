package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/questforge/questforge/internal/app/game"
	"github.com/questforge/questforge/internal/domain"
)

// ─── Player ─────────────────────────────────────────────────────────────────

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	st, err := s.game.Status(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// handleRewardPreview serves
// /reward/preview?difficulty=hard&rarity=rare&estimated=30&actual=25.
func (s *Server) handleRewardPreview(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	d, err := domain.ParseDifficulty(q.Get("difficulty"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	rar, err := domain.ParseRarity(q.Get("rarity"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	est, err := queryInt(r, "estimated", 0)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	actual, err := queryInt(r, "actual", 0)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out, err := s.game.PreviewReward(r.Context(), d, rar, est, actual)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleLevel(w http.ResponseWriter, r *http.Request) {
	xp, err := strconv.ParseInt(r.URL.Query().Get("xp"), 10, 64)
	if err != nil {
		s.fail(w, r, fmt.Errorf("%w: xp must be an integer", domain.ErrInvalidInput))
		return
	}
	info, err := s.game.Level(xp)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// ─── Companion & Burnout ────────────────────────────────────────────────────

func (s *Server) handleCompanion(w http.ResponseWriter, r *http.Request) {
	c, err := s.game.Companion(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleFeedCompanion(w http.ResponseWriter, r *http.Request) {
	c, err := s.game.FeedCompanion(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleRenameCompanion(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	c, err := s.game.RenameCompanion(r.Context(), req.Name)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleBurnout(w http.ResponseWriter, r *http.Request) {
	b, err := s.game.Burnout(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (s *Server) handleUpdateBurnout(w http.ResponseWriter, r *http.Request) {
	var patch domain.BurnoutPatch
	if err := decode(r, &patch); err != nil {
		s.fail(w, r, err)
		return
	}
	b, err := s.game.UpdateBurnout(r.Context(), patch)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// ─── Skills & Challenges ────────────────────────────────────────────────────

func (s *Server) handleSkills(w http.ResponseWriter, r *http.Request) {
	skills, points, err := s.game.Skills(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"skills":       skills,
		"skill_points": points,
	})
}

func (s *Server) handleUnlockSkill(w http.ResponseWriter, r *http.Request) {
	node, err := s.game.UnlockSkill(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, node)
}

func (s *Server) handleChallenges(w http.ResponseWriter, r *http.Request) {
	board, err := s.game.Challenges(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, board)
}

func (s *Server) handleRerollChallenge(w http.ResponseWriter, r *http.Request) {
	c, err := s.game.RerollChallenge(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// ─── Shop & Wallet ──────────────────────────────────────────────────────────

func (s *Server) handleShop(w http.ResponseWriter, r *http.Request) {
	items, err := s.game.Shop(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (s *Server) handlePurchase(w http.ResponseWriter, r *http.Request) {
	it, err := s.game.Purchase(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, it)
}

func (s *Server) handleUseItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Target string `json:"target"`
	}
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	res, err := s.game.UseItem(r.Context(), chi.URLParam(r, "id"), req.Target)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleWallet(w http.ResponseWriter, r *http.Request) {
	wl, err := s.game.Wallet(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wl)
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", game.DefaultTransactionLimit)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	txs, err := s.game.Transactions(r.Context(), limit)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"transactions": txs})
}

// ─── Undo ───────────────────────────────────────────────────────────────────

func (s *Server) handleUndoStack(w http.ResponseWriter, r *http.Request) {
	stack, err := s.game.UndoStack(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"actions": stack})
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	a, err := s.game.Undo(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// ─── Reports & Notifications ────────────────────────────────────────────────

func (s *Server) handleAchievements(w http.ResponseWriter, r *http.Request) {
	list, err := s.game.Achievements(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"achievements": list})
}

func (s *Server) handleWeeklyReport(w http.ResponseWriter, r *http.Request) {
	rep, err := s.game.WeeklyReport(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) handleTrend(w http.ResponseWriter, r *http.Request) {
	days, err := queryInt(r, "days", 7)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	points, err := s.game.Trend(r.Context(), days)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"trend": points})
}

func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 20)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	list, err := s.game.Notifications(r.Context(), limit)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"notifications": list})
}

func (s *Server) handleNotificationShown(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		s.fail(w, r, fmt.Errorf("%w: notification id must be an integer", domain.ErrInvalidInput))
		return
	}
	if err := s.game.MarkNotificationShown(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
