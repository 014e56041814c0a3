package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors are pure and carry no infrastructure dependency.
// Callers branch with errors.Is; the API maps each group to a status code.

var (
	// Validation errors
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidDifficulty = errors.New("unknown difficulty")
	ErrInvalidRarity     = errors.New("unknown rarity")
	ErrInvalidDate       = errors.New("date must be formatted YYYY-MM-DD")
	ErrNegativeXP        = errors.New("total xp must not be negative")
	ErrNonPositiveAmount = errors.New("amount must be positive")

	// Leveling errors
	ErrLevelOverflow = errors.New("level lookup exceeded iteration cap")

	// Task errors
	ErrTaskNotFound         = errors.New("task not found")
	ErrSubtaskNotFound      = errors.New("subtask not found")
	ErrTaskBlocked          = errors.New("task is blocked by unfinished dependencies")
	ErrTaskAlreadyCompleted = errors.New("task already completed")
	ErrTaskNotCompletable   = errors.New("task status does not allow completion")
	ErrSelfDependency       = errors.New("task cannot depend on itself")
	ErrDependencyCycle      = errors.New("dependency would create a cycle")
	ErrNoHardDeadline       = errors.New("task has no hard deadline")
	ErrExtensionLimit       = errors.New("deadline already extended the maximum number of times")

	// Habit errors
	ErrHabitNotFound = errors.New("habit not found")

	// Focus errors
	ErrNoActiveSession = errors.New("no focus session in progress")
	ErrSessionActive   = errors.New("a focus session is already in progress")
	ErrBreakActive     = errors.New("a break is already in progress")
	ErrNoActiveBreak   = errors.New("no break in progress")

	// Project errors
	ErrProjectNotFound     = errors.New("project not found")
	ErrMilestoneNotFound   = errors.New("milestone not found")
	ErrMilestoneCompleted  = errors.New("milestone already completed")
	ErrMilestoneOutOfOrder = errors.New("milestones must be completed in order")
	ErrMilestonesOpen      = errors.New("project has open milestones")

	// Skill tree errors
	ErrSkillNotFound           = errors.New("skill not found")
	ErrSkillAlreadyUnlocked    = errors.New("skill already unlocked")
	ErrPrerequisitesUnmet      = errors.New("prerequisites not met")
	ErrInsufficientSkillPoints = errors.New("not enough skill points")

	// Daily challenge errors
	ErrChallengeNotFound  = errors.New("challenge not found")
	ErrChallengeCompleted = errors.New("challenge already completed")

	// Wallet and shop errors
	ErrInsufficientCoins = errors.New("not enough coins")
	ErrItemNotFound      = errors.New("shop item not found")
	ErrOutOfStock        = errors.New("item out of stock for today")
	ErrMaxOwned          = errors.New("maximum owned quantity reached")
	ErrItemNotOwned      = errors.New("item not in inventory")

	// Undo errors
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrIrreversible  = errors.New("action cannot be undone")

	// Notification errors
	ErrNotificationNotFound = errors.New("notification not found")
)
