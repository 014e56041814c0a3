package domain

import "time"

// ─── Aggregate State ────────────────────────────────────────────────────────
// State is the whole single-user game. Pure reducers take a State and an
// event and return the next State; persistence is an explicit boundary
// around it.

// Player is the progression summary of the user.
type Player struct {
	Name               string    `json:"name"`
	TotalXP            int64     `json:"total_xp"`
	Level              int       `json:"level"`
	PeakLevel          int       `json:"peak_level"`
	QuestsCompleted    int64     `json:"quests_completed"`
	LegendaryCompleted int64     `json:"legendary_completed"`
	CreatedAt          time.Time `json:"created_at"`
	LastReconciledDate Date      `json:"last_reconciled_date,omitempty"`
}

// State is the full persisted aggregate.
type State struct {
	Player     Player         `json:"player"`
	Tasks      []Task         `json:"tasks"`
	Habits     []Habit        `json:"habits"`
	Projects   []Project      `json:"projects"`
	Focus      FocusState     `json:"focus"`
	Companion  Companion      `json:"companion"`
	Burnout    Burnout        `json:"burnout"`
	Skills     SkillState     `json:"skills"`
	Challenges ChallengeBoard `json:"challenges"`
	Wallet     Wallet         `json:"wallet"`
	Undo       []UndoAction   `json:"undo"`
	Daily      []DailyStats   `json:"daily"`
}

// State section keys, one row each in the state table.
const (
	SectionPlayer     = "player"
	SectionTasks      = "tasks"
	SectionHabits     = "habits"
	SectionProjects   = "projects"
	SectionFocus      = "focus"
	SectionCompanion  = "companion"
	SectionBurnout    = "burnout"
	SectionSkills     = "skills"
	SectionChallenges = "challenges"
	SectionWallet     = "wallet"
	SectionUndo       = "undo"
	SectionDaily      = "daily"
)

// TaskIndex returns the position of task id, or -1.
func (s *State) TaskIndex(id string) int {
	for i := range s.Tasks {
		if s.Tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// HabitIndex returns the position of habit id, or -1.
func (s *State) HabitIndex(id string) int {
	for i := range s.Habits {
		if s.Habits[i].ID == id {
			return i
		}
	}
	return -1
}

// ProjectIndex returns the position of project id, or -1.
func (s *State) ProjectIndex(id string) int {
	for i := range s.Projects {
		if s.Projects[i].ID == id {
			return i
		}
	}
	return -1
}

// ─── Change Sets & Events ───────────────────────────────────────────────────

// ChangeSet is everything besides the State sections that a mutation
// commits atomically.
type ChangeSet struct {
	Ledger   []LedgerEntry         `json:"ledger,omitempty"`
	Unlocked []UnlockedAchievement `json:"unlocked,omitempty"`
}

// Merge appends o's rows to c.
func (c *ChangeSet) Merge(o ChangeSet) {
	c.Ledger = append(c.Ledger, o.Ledger...)
	c.Unlocked = append(c.Unlocked, o.Unlocked...)
}

// EventType names what happened.
type EventType string

const (
	EventTaskCreated         EventType = "task.created"
	EventTaskCompleted       EventType = "task.completed"
	EventTaskDeleted         EventType = "task.deleted"
	EventTaskMissed          EventType = "task.missed"
	EventHabitCompleted      EventType = "habit.completed"
	EventHabitMissed         EventType = "habit.missed"
	EventFocusEnded          EventType = "focus.ended"
	EventMilestoneCompleted  EventType = "milestone.completed"
	EventLevelUp             EventType = "level.up"
	EventEvolution           EventType = "companion.evolved"
	EventSkillUnlocked       EventType = "skill.unlocked"
	EventChallengeCompleted  EventType = "challenge.completed"
	EventAchievementUnlocked EventType = "achievement.unlocked"
	EventPurchase            EventType = "shop.purchase"
	EventItemUsed            EventType = "shop.used"
	EventBurnoutWarning      EventType = "burnout.warning"
	EventUndo                EventType = "undo"
)

// Event is a post-commit notification of a state change.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data,omitempty"`
}

// ─── Status ─────────────────────────────────────────────────────────────────

// Status is the dashboard read model.
type Status struct {
	Player      Player           `json:"player"`
	LevelInfo   LevelInfo        `json:"level_info"`
	Coins       int64            `json:"coins"`
	SkillPoints int              `json:"skill_points"`
	Companion   CompanionView    `json:"companion"`
	Burnout     Burnout          `json:"burnout"`
	Challenges  ChallengeBoard   `json:"challenges"`
	Focus       *FocusSession    `json:"focus,omitempty"`
	FocusStreak FocusStreak      `json:"focus_streak"`
	Today       DailyStats       `json:"today"`
	ActiveTasks int              `json:"active_tasks"`
	Habits      int              `json:"habits"`
	XPBoost     float64          `json:"xp_boost"`
	Undo        *UndoAction      `json:"undo,omitempty"`
	Suggestions []TaskSuggestion `json:"suggestions"`
}
