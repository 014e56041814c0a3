package skilltree

import "github.com/questforge/questforge/internal/domain"

// ─── Skill Catalog ──────────────────────────────────────────────────────────
// Six branches of five tiers. Costs follow 1, 2, 3, 5, 8 and each tier
// requires the one below it.

// catalog is the full tree in branch then tier order.
var catalog = []domain.SkillNode{
	node("tm-1", "Early Bird", "Bonus XP for tasks completed before noon", domain.SkillTimeManagement, 1, 1, nil, domain.EffectXPBonus, 0.05, "+5% XP before noon"),
	node("tm-2", "Time Boxer", "Better time estimates", domain.SkillTimeManagement, 2, 2, []string{"tm-1"}, domain.EffectTaskSuggestion, 1, "Smart time suggestions"),
	node("tm-3", "Deadline Warrior", "Warnings for approaching deadlines", domain.SkillTimeManagement, 3, 3, []string{"tm-2"}, domain.EffectDeadlineWarning, 3, "3-day deadline warnings"),
	node("tm-4", "Master Scheduler", "Optimal task ordering suggestions", domain.SkillTimeManagement, 4, 5, []string{"tm-3"}, domain.EffectTaskSuggestion, 2, "Priority scheduling"),
	node("tm-5", "Time Lord", "Significant time management bonuses", domain.SkillTimeManagement, 5, 8, []string{"tm-4"}, domain.EffectXPBonus, 0.15, "+15% all XP"),

	node("fo-1", "Focused Start", "Bonus for first focus session", domain.SkillFocus, 1, 1, nil, domain.EffectXPBonus, 0.10, "+10% first session XP"),
	node("fo-2", "Deep Worker", "Extended focus duration bonuses", domain.SkillFocus, 2, 2, []string{"fo-1"}, domain.EffectFocusDuration, 0.15, "+15% long session XP"),
	node("fo-3", "Flow State", "Reduced distraction impact", domain.SkillFocus, 3, 3, []string{"fo-2"}, domain.EffectFocusDuration, 0.25, "-25% distraction penalty"),
	node("fo-4", "Zen Master", "Focus streak protection", domain.SkillFocus, 4, 5, []string{"fo-3"}, domain.EffectStreakProtection, 1, "1 focus streak miss protection"),
	node("fo-5", "Singularity", "Maximum focus bonuses", domain.SkillFocus, 5, 8, []string{"fo-4"}, domain.EffectXPBonus, 0.20, "+20% focus XP"),

	node("di-1", "Iron Will", "Reduced streak decay", domain.SkillDiscipline, 1, 1, nil, domain.EffectStreakProtection, 0.10, "-10% streak decay"),
	node("di-2", "Consistency", "Habit momentum builds faster", domain.SkillDiscipline, 2, 2, []string{"di-1"}, domain.EffectMomentumBoost, 0.20, "+20% momentum growth"),
	node("di-3", "Resilience", "Miss tolerance increased", domain.SkillDiscipline, 3, 3, []string{"di-2"}, domain.EffectStreakProtection, 1, "+1 day miss tolerance"),
	node("di-4", "Unbreakable", "Major streak protection", domain.SkillDiscipline, 4, 5, []string{"di-3"}, domain.EffectStreakProtection, 0.25, "-25% streak decay"),
	node("di-5", "Legendary Discipline", "Ultimate discipline mastery", domain.SkillDiscipline, 5, 8, []string{"di-4"}, domain.EffectXPBonus, 0.25, "+25% habit XP"),

	node("le-1", "Quick Learner", "XP bonus for learning tasks", domain.SkillLearning, 1, 1, nil, domain.EffectXPBonus, 0.10, "+10% learning task XP"),
	node("le-2", "Knowledge Seeker", "Skill points earned faster", domain.SkillLearning, 2, 2, []string{"le-1"}, domain.EffectXPBonus, 0.05, "+5% skill point gain"),
	node("le-3", "Pattern Recognition", "Better task suggestions", domain.SkillLearning, 3, 3, []string{"le-2"}, domain.EffectTaskSuggestion, 1, "Smart task matching"),
	node("le-4", "Mastery Path", "Reduced skill costs", domain.SkillLearning, 4, 5, []string{"le-3"}, domain.EffectCoinBonus, 0.10, "-10% skill point cost"),
	node("le-5", "Enlightenment", "Maximum learning benefits", domain.SkillLearning, 5, 8, []string{"le-4"}, domain.EffectXPBonus, 0.30, "+30% all learning XP"),

	node("he-1", "Energy Boost", "Less companion fatigue", domain.SkillHealth, 1, 1, nil, domain.EffectEnergyEfficiency, 0.10, "-10% companion fatigue"),
	node("he-2", "Vitality", "Faster energy recovery", domain.SkillHealth, 2, 2, []string{"he-1"}, domain.EffectEnergyEfficiency, 0.15, "+15% energy recovery"),
	node("he-3", "Balance", "Burnout warning improvements", domain.SkillHealth, 3, 3, []string{"he-2"}, domain.EffectEnergyEfficiency, 0.20, "Earlier burnout warnings"),
	node("he-4", "Stamina", "More tasks without fatigue", domain.SkillHealth, 4, 5, []string{"he-3"}, domain.EffectEnergyEfficiency, 0.25, "+25% work capacity"),
	node("he-5", "Immortal Vigor", "Peak health benefits", domain.SkillHealth, 5, 8, []string{"he-4"}, domain.EffectXPBonus, 0.15, "+15% all XP when healthy"),

	node("cr-1", "Spark", "Creative task bonuses", domain.SkillCreativity, 1, 1, nil, domain.EffectXPBonus, 0.10, "+10% creative XP"),
	node("cr-2", "Innovation", "Coin bonuses for creative work", domain.SkillCreativity, 2, 2, []string{"cr-1"}, domain.EffectCoinBonus, 0.15, "+15% creative coins"),
	node("cr-3", "Inspiration", "Random bonus events", domain.SkillCreativity, 3, 3, []string{"cr-2"}, domain.EffectCoinBonus, 0.05, "Random inspiration bonuses"),
	node("cr-4", "Visionary", "Project milestone bonuses", domain.SkillCreativity, 4, 5, []string{"cr-3"}, domain.EffectXPBonus, 0.20, "+20% milestone XP"),
	node("cr-5", "Genius", "Maximum creative potential", domain.SkillCreativity, 5, 8, []string{"cr-4"}, domain.EffectXPBonus, 0.35, "+35% creative XP"),
}

func node(id, name, desc string, cat domain.SkillCategory, tier, cost int, prereqs []string,
	effect domain.EffectType, value float64, effectDesc string) domain.SkillNode {
	return domain.SkillNode{
		ID:            id,
		Name:          name,
		Description:   desc,
		Category:      cat,
		Tier:          tier,
		Cost:          cost,
		Prerequisites: prereqs,
		Effect:        domain.SkillEffect{Type: effect, Value: value, Description: effectDesc},
	}
}

// Catalog returns a copy of every skill node.
func Catalog() []domain.SkillNode {
	out := make([]domain.SkillNode, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup returns the node with the given id.
func Lookup(id string) (domain.SkillNode, bool) {
	for _, n := range catalog {
		if n.ID == id {
			return n, true
		}
	}
	return domain.SkillNode{}, false
}
