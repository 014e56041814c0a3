package domain

import (
	"encoding/json"
	"time"
)

// UndoType names the mutation an undo entry reverses.
type UndoType string

const (
	UndoTaskDelete   UndoType = "task-delete"
	UndoTaskComplete UndoType = "task-complete"
	UndoHabitMiss    UndoType = "habit-miss"
	UndoItemPurchase UndoType = "item-purchase"
	UndoSkillUnlock  UndoType = "skill-unlock"
)

// UndoAction is a time-bounded inverse of a reversible mutation.
// Data holds the type-specific inverse payload.
type UndoAction struct {
	ID          string          `json:"id"`
	Type        UndoType        `json:"type"`
	Description string          `json:"description"`
	Data        json.RawMessage `json:"data"`
	CreatedAt   time.Time       `json:"created_at"`
	ExpiresAt   time.Time       `json:"expires_at"`
}

// Expired reports whether the entry is past its window at now.
func (a UndoAction) Expired(now time.Time) bool {
	return !now.Before(a.ExpiresAt)
}

// TaskUndo is the inverse payload of task deletion and completion.
type TaskUndo struct {
	Task   Task   `json:"task"`
	Reward Reward `json:"reward"`
	// Position restores a deleted task at its original index.
	Position int `json:"position"`
}

// HabitUndo is the inverse payload of an explicit miss.
type HabitUndo struct {
	Habit Habit `json:"habit"`
}

// PurchaseUndo is the inverse payload of a shop purchase.
type PurchaseUndo struct {
	ItemID string `json:"item_id"`
	Price  int64  `json:"price"`
}
