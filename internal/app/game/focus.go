package game

import (
	"context"

	"github.com/questforge/questforge/internal/app/focus"
	"github.com/questforge/questforge/internal/domain"
)

// StartFocus opens a focus session. taskID is optional.
func (s *Service) StartFocus(ctx context.Context, typ domain.FocusType, planned int, taskID string) (domain.FocusSession, error) {
	var out domain.FocusSession
	err := s.mutate(ctx, "start_focus", func(tx *txn) error {
		if taskID != "" && tx.st.TaskIndex(taskID) < 0 {
			return domain.ErrTaskNotFound
		}
		fs, sess, err := focus.Start(tx.st.Focus, s.newID(), typ, planned, taskID, tx.now)
		if err != nil {
			return err
		}
		tx.st.Focus = fs
		out = sess
		return nil
	})
	return out, err
}

func (s *Service) updateFocus(ctx context.Context, op string, fn func(fs domain.FocusState, tx *txn) (domain.FocusState, error)) (domain.FocusSession, error) {
	var out domain.FocusSession
	err := s.mutate(ctx, op, func(tx *txn) error {
		fs, err := fn(tx.st.Focus, tx)
		if err != nil {
			return err
		}
		tx.st.Focus = fs
		if fs.Active != nil {
			out = *fs.Active
		}
		return nil
	})
	return out, err
}

// StartBreak pauses the active session.
func (s *Service) StartBreak(ctx context.Context) (domain.FocusSession, error) {
	return s.updateFocus(ctx, "start_break", func(fs domain.FocusState, tx *txn) (domain.FocusState, error) {
		return focus.StartBreak(fs, tx.now)
	})
}

// EndBreak resumes the active session.
func (s *Service) EndBreak(ctx context.Context) (domain.FocusSession, error) {
	return s.updateFocus(ctx, "end_break", func(fs domain.FocusState, tx *txn) (domain.FocusState, error) {
		return focus.EndBreak(fs, tx.now)
	})
}

// LogDistraction records an interruption, lowering the session quality.
func (s *Service) LogDistraction(ctx context.Context, desc string, minutes float64) (domain.FocusSession, error) {
	return s.updateFocus(ctx, "log_distraction", func(fs domain.FocusState, tx *txn) (domain.FocusState, error) {
		return focus.LogDistraction(fs, desc, minutes, tx.now)
	})
}

// CancelFocus drops the active session without a reward.
func (s *Service) CancelFocus(ctx context.Context) error {
	_, err := s.updateFocus(ctx, "cancel_focus", func(fs domain.FocusState, _ *txn) (domain.FocusState, error) {
		return focus.Cancel(fs)
	})
	return err
}

// EndFocus finalizes the active session and pays for its effective minutes.
// The returned session carries the boosted payout.
func (s *Service) EndFocus(ctx context.Context) (domain.FocusSession, error) {
	var out domain.FocusSession
	err := s.mutate(ctx, "end_focus", func(tx *txn) error {
		fs, sess, err := focus.End(tx.st.Focus, tx.now, tx.today)
		if err != nil {
			return err
		}
		paid, err := tx.grant(SourceFocus, "Focus session", domain.Reward{XP: sess.XPEarned, Coins: sess.CoinsEarned})
		if err != nil {
			return err
		}
		sess.XPEarned, sess.CoinsEarned = paid.XP, paid.Coins
		fs.History[len(fs.History)-1] = sess
		tx.st.Focus = fs

		tx.activity.FocusMinutes += float64(sess.ActualMinutes)
		tx.day.FocusMinutes += sess.ActualMinutes
		out = sess
		tx.emit(domain.EventFocusEnded, sess)
		return nil
	})
	return out, err
}

// Focus returns the active session (if any), history and streak.
func (s *Service) Focus(ctx context.Context) (domain.FocusState, error) {
	var out domain.FocusState
	err := s.view(ctx, func(tx *txn) error {
		out = tx.st.Focus
		return nil
	})
	return out, err
}
