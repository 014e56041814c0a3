// Package undo keeps a bounded stack of time-limited inverse actions.
//
// Entries expire a fixed window after they are pushed. Expired entries are
// purged lazily by every read and eagerly by Sweep.
package undo

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/questforge/questforge/internal/domain"
)

const (
	DefaultMax    = 10
	DefaultWindow = 30 * time.Second
)

// Ledger holds the stack limits. The stack itself lives in State so it
// persists with everything else.
type Ledger struct {
	Max    int
	Window time.Duration
}

// NewLedger returns a ledger, falling back to defaults for unset limits.
func NewLedger(limit int, window time.Duration) Ledger {
	if limit <= 0 {
		limit = DefaultMax
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return Ledger{Max: limit, Window: window}
}

// Action builds an entry whose window starts at now. payload is stored as
// JSON and read back with Decode.
func (l Ledger) Action(id string, typ domain.UndoType, desc string, payload any, now time.Time) (domain.UndoAction, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return domain.UndoAction{}, fmt.Errorf("encode undo payload: %w", err)
	}
	return domain.UndoAction{
		ID:          id,
		Type:        typ,
		Description: desc,
		Data:        data,
		CreatedAt:   now,
		ExpiresAt:   now.Add(l.Window),
	}, nil
}

// Push appends a, evicting the oldest entries beyond Max.
func (l Ledger) Push(stack []domain.UndoAction, a domain.UndoAction) []domain.UndoAction {
	next := append(append([]domain.UndoAction(nil), stack...), a)
	if over := len(next) - l.Max; over > 0 {
		next = next[over:]
	}
	return next
}

// Pop removes and returns the most recent live entry, or nil when none
// remain. Expired entries are dropped on the way.
func Pop(stack []domain.UndoAction, now time.Time) ([]domain.UndoAction, *domain.UndoAction) {
	live, _ := Sweep(stack, now)
	if len(live) == 0 {
		return live, nil
	}
	top := live[len(live)-1]
	return live[:len(live)-1], &top
}

// Latest returns the most recent live entry without removing it.
func Latest(stack []domain.UndoAction, now time.Time) *domain.UndoAction {
	for i := len(stack) - 1; i >= 0; i-- {
		if !stack[i].Expired(now) {
			a := stack[i]
			return &a
		}
	}
	return nil
}

// Sweep drops expired entries and reports how many were removed.
func Sweep(stack []domain.UndoAction, now time.Time) ([]domain.UndoAction, int) {
	live := make([]domain.UndoAction, 0, len(stack))
	for _, a := range stack {
		if !a.Expired(now) {
			live = append(live, a)
		}
	}
	return live, len(stack) - len(live)
}

// Remove drops the entry with the given id, live or not.
func Remove(stack []domain.UndoAction, id string) []domain.UndoAction {
	out := make([]domain.UndoAction, 0, len(stack))
	for _, a := range stack {
		if a.ID != id {
			out = append(out, a)
		}
	}
	return out
}

// Has reports whether a live entry with id exists.
func Has(stack []domain.UndoAction, id string, now time.Time) bool {
	for _, a := range stack {
		if a.ID == id && !a.Expired(now) {
			return true
		}
	}
	return false
}

// Decode unmarshals the entry's payload into v.
func Decode(a domain.UndoAction, v any) error {
	if err := json.Unmarshal(a.Data, v); err != nil {
		return fmt.Errorf("decode %s undo payload: %w", a.Type, err)
	}
	return nil
}
