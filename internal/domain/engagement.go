package domain

import "time"

// ─── Achievement Types ──────────────────────────────────────────────────────

// AchievementKind is the stat an achievement is measured against.
type AchievementKind string

const (
	KindQuestsCompleted    AchievementKind = "quests_completed"
	KindXPEarned           AchievementKind = "xp_earned"
	KindStreak             AchievementKind = "streak"
	KindLegendaryCompleted AchievementKind = "legendary_completed"
	KindDailyChallenges    AchievementKind = "daily_challenges"
	KindFocusMinutes       AchievementKind = "focus_minutes"
	KindSkillsUnlocked     AchievementKind = "skills_unlocked"
	KindCompanionStage     AchievementKind = "companion_stage"
	KindLevel              AchievementKind = "level"
)

// AchievementDef defines a single achievement's requirement and reward.
type AchievementDef struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Icon        string          `json:"icon"`
	Kind        AchievementKind `json:"kind"`
	Requirement int64           `json:"requirement"`
	RewardXP    int64           `json:"reward_xp"`
	RewardCoins int64           `json:"reward_coins"`
}

// UnlockedAchievement records when an achievement was earned.
type UnlockedAchievement struct {
	ID         string    `json:"id"`
	UnlockedAt time.Time `json:"unlocked_at"`
}

// AchievementView is a definition annotated with unlock state.
type AchievementView struct {
	AchievementDef
	Unlocked   bool       `json:"unlocked"`
	UnlockedAt *time.Time `json:"unlocked_at,omitempty"`
	Progress   int64      `json:"progress"`
}

// PlayerStats is a snapshot of player state fed to achievement predicates.
type PlayerStats struct {
	QuestsCompleted    int64 `json:"quests_completed"`
	TotalXP            int64 `json:"total_xp"`
	Streak             int64 `json:"streak"`
	LegendaryCompleted int64 `json:"legendary_completed"`
	DailyChallenges    int64 `json:"daily_challenges"`
	FocusMinutes       int64 `json:"focus_minutes"`
	SkillsUnlocked     int64 `json:"skills_unlocked"`
	CompanionStage     int64 `json:"companion_stage"`
	Level              int64 `json:"level"`
}

// Value returns the stat measured by kind.
func (s PlayerStats) Value(kind AchievementKind) int64 {
	switch kind {
	case KindQuestsCompleted:
		return s.QuestsCompleted
	case KindXPEarned:
		return s.TotalXP
	case KindStreak:
		return s.Streak
	case KindLegendaryCompleted:
		return s.LegendaryCompleted
	case KindDailyChallenges:
		return s.DailyChallenges
	case KindFocusMinutes:
		return s.FocusMinutes
	case KindSkillsUnlocked:
		return s.SkillsUnlocked
	case KindCompanionStage:
		return s.CompanionStage
	case KindLevel:
		return s.Level
	}
	return 0
}

// ─── Notification Types ─────────────────────────────────────────────────────

// NotificationType categorizes notifications.
type NotificationType string

const (
	NotifyLevelUp           NotificationType = "level_up"
	NotifyAchievement       NotificationType = "achievement"
	NotifyEvolution         NotificationType = "evolution"
	NotifyBurnout           NotificationType = "burnout"
	NotifyChallengeComplete NotificationType = "challenge_complete"
)

// Notification is a user-facing message.
type Notification struct {
	ID        int64            `json:"id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Body      string           `json:"body"`
	CreatedAt time.Time        `json:"created_at"`
	Shown     bool             `json:"shown"`
}

// NotificationPolicy governs how often notifications are sent.
type NotificationPolicy struct {
	MaxPerDay  int    `json:"max_per_day"`
	QuietStart string `json:"quiet_start"` // "22:00"
	QuietEnd   string `json:"quiet_end"`   // "08:00"
}

// DefaultNotificationPolicy returns the default policy.
func DefaultNotificationPolicy() NotificationPolicy {
	return NotificationPolicy{
		MaxPerDay:  3,
		QuietStart: "22:00",
		QuietEnd:   "08:00",
	}
}
