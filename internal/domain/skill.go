package domain

// SkillCategory groups skill nodes into branches.
type SkillCategory string

const (
	SkillTimeManagement SkillCategory = "time-management"
	SkillFocus          SkillCategory = "focus"
	SkillDiscipline     SkillCategory = "discipline"
	SkillLearning       SkillCategory = "learning"
	SkillHealth         SkillCategory = "health"
	SkillCreativity     SkillCategory = "creativity"
)

// SkillCategories lists every branch in display order.
var SkillCategories = []SkillCategory{
	SkillTimeManagement, SkillFocus, SkillDiscipline,
	SkillLearning, SkillHealth, SkillCreativity,
}

// EffectType names the stat a skill effect modifies.
type EffectType string

const (
	EffectXPBonus          EffectType = "xp-bonus"
	EffectCoinBonus        EffectType = "coin-bonus"
	EffectFocusDuration    EffectType = "focus-duration"
	EffectStreakProtection EffectType = "streak-protection"
	EffectTaskSuggestion   EffectType = "task-suggestion"
	EffectDeadlineWarning  EffectType = "deadline-warning"
	EffectEnergyEfficiency EffectType = "energy-efficiency"
	EffectMomentumBoost    EffectType = "momentum-boost"
)

// SkillEffect is the passive bonus a node grants once unlocked.
type SkillEffect struct {
	Type        EffectType `json:"type"`
	Value       float64    `json:"value"`
	Description string     `json:"description"`
}

// SkillNode is a vertex of the skill DAG. Catalog data; unlock state lives
// in SkillState.
type SkillNode struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Description   string        `json:"description"`
	Category      SkillCategory `json:"category"`
	Tier          int           `json:"tier"`
	Cost          int           `json:"cost"`
	Prerequisites []string      `json:"prerequisites"`
	Effect        SkillEffect   `json:"effect"`
}

// SkillState is the player's progress through the tree. Unlocked nodes
// never revert.
type SkillState struct {
	Points        int           `json:"points"`
	TotalEarned   int           `json:"total_earned"`
	Unlocked      []string      `json:"unlocked"`
	ActiveEffects []SkillEffect `json:"active_effects"`
}

// IsUnlocked reports whether id has been unlocked.
func (s *SkillState) IsUnlocked(id string) bool {
	for _, u := range s.Unlocked {
		if u == id {
			return true
		}
	}
	return false
}

// SkillView is a catalog node annotated with player state.
type SkillView struct {
	SkillNode
	Unlocked  bool `json:"unlocked"`
	CanUnlock bool `json:"can_unlock"`
}
