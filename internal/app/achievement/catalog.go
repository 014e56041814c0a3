package achievement

import "github.com/questforge/questforge/internal/domain"

// ─── Achievement Definitions ────────────────────────────────────────────────
// Each achievement is a threshold on one PlayerStats counter.

var catalog = []domain.AchievementDef{
	// ── Quests ─────────────────────────────────────────────────────────
	{ID: "first_quest", Name: "First Steps", Description: "Complete your first quest", Icon: "sword",
		Kind: domain.KindQuestsCompleted, Requirement: 1, RewardXP: 10, RewardCoins: 5},
	{ID: "quest_10", Name: "Quest Hunter", Description: "Complete 10 quests", Icon: "trophy",
		Kind: domain.KindQuestsCompleted, Requirement: 10, RewardXP: 50, RewardCoins: 20},
	{ID: "quest_50", Name: "Quest Master", Description: "Complete 50 quests", Icon: "crown",
		Kind: domain.KindQuestsCompleted, Requirement: 50, RewardXP: 200, RewardCoins: 75},
	{ID: "quest_100", Name: "Legendary Adventurer", Description: "Complete 100 quests", Icon: "star",
		Kind: domain.KindQuestsCompleted, Requirement: 100, RewardXP: 500, RewardCoins: 150},

	// ── Experience ─────────────────────────────────────────────────────
	{ID: "xp_500", Name: "Rising Star", Description: "Earn 500 XP", Icon: "star",
		Kind: domain.KindXPEarned, Requirement: 500, RewardXP: 0, RewardCoins: 25},
	{ID: "xp_2000", Name: "XP Collector", Description: "Earn 2000 XP", Icon: "star",
		Kind: domain.KindXPEarned, Requirement: 2000, RewardXP: 0, RewardCoins: 75},
	{ID: "xp_10000", Name: "XP Legend", Description: "Earn 10000 XP", Icon: "crown",
		Kind: domain.KindXPEarned, Requirement: 10000, RewardXP: 0, RewardCoins: 250},

	// ── Streaks ────────────────────────────────────────────────────────
	{ID: "streak_3", Name: "Consistent", Description: "Maintain a 3 day streak", Icon: "flame",
		Kind: domain.KindStreak, Requirement: 3, RewardXP: 30, RewardCoins: 10},
	{ID: "streak_7", Name: "Dedicated", Description: "Maintain a 7 day streak", Icon: "flame",
		Kind: domain.KindStreak, Requirement: 7, RewardXP: 100, RewardCoins: 30},
	{ID: "streak_30", Name: "Unstoppable", Description: "Maintain a 30 day streak", Icon: "flame",
		Kind: domain.KindStreak, Requirement: 30, RewardXP: 500, RewardCoins: 150},

	// ── Legendary ──────────────────────────────────────────────────────
	{ID: "legendary_1", Name: "Dragon Slayer", Description: "Complete a legendary quest", Icon: "crown",
		Kind: domain.KindLegendaryCompleted, Requirement: 1, RewardXP: 50, RewardCoins: 25},
	{ID: "legendary_10", Name: "Mythic Hero", Description: "Complete 10 legendary quests", Icon: "crown",
		Kind: domain.KindLegendaryCompleted, Requirement: 10, RewardXP: 300, RewardCoins: 100},

	// ── Daily Challenges ───────────────────────────────────────────────
	{ID: "daily_5", Name: "Daily Warrior", Description: "Complete 5 daily challenges", Icon: "target",
		Kind: domain.KindDailyChallenges, Requirement: 5, RewardXP: 50, RewardCoins: 20},
	{ID: "daily_20", Name: "Daily Champion", Description: "Complete 20 daily challenges", Icon: "target",
		Kind: domain.KindDailyChallenges, Requirement: 20, RewardXP: 200, RewardCoins: 60},

	// ── Focus ──────────────────────────────────────────────────────────
	{ID: "focus_60", Name: "In the Zone", Description: "Focus for 60 minutes in total", Icon: "hourglass",
		Kind: domain.KindFocusMinutes, Requirement: 60, RewardXP: 30, RewardCoins: 10},
	{ID: "focus_600", Name: "Deep Diver", Description: "Focus for 600 minutes in total", Icon: "hourglass",
		Kind: domain.KindFocusMinutes, Requirement: 600, RewardXP: 200, RewardCoins: 60},

	// ── Skills ─────────────────────────────────────────────────────────
	{ID: "skill_1", Name: "Apprentice", Description: "Unlock your first skill", Icon: "book",
		Kind: domain.KindSkillsUnlocked, Requirement: 1, RewardXP: 20, RewardCoins: 10},
	{ID: "skill_10", Name: "Polymath", Description: "Unlock 10 skills", Icon: "book",
		Kind: domain.KindSkillsUnlocked, Requirement: 10, RewardXP: 250, RewardCoins: 80},

	// ── Companion ──────────────────────────────────────────────────────
	{ID: "companion_2", Name: "Growing Bond", Description: "Evolve your companion once", Icon: "egg",
		Kind: domain.KindCompanionStage, Requirement: 2, RewardXP: 50, RewardCoins: 20},
	{ID: "companion_5", Name: "Ascended", Description: "Evolve your companion to its final stage", Icon: "dragon",
		Kind: domain.KindCompanionStage, Requirement: 5, RewardXP: 1000, RewardCoins: 300},

	// ── Levels ─────────────────────────────────────────────────────────
	{ID: "level_10", Name: "Seasoned", Description: "Reach level 10", Icon: "shield",
		Kind: domain.KindLevel, Requirement: 10, RewardXP: 0, RewardCoins: 50},
	{ID: "level_25", Name: "Veteran", Description: "Reach level 25", Icon: "shield",
		Kind: domain.KindLevel, Requirement: 25, RewardXP: 0, RewardCoins: 150},
}

// Catalog returns a copy of every definition.
func Catalog() []domain.AchievementDef {
	return append([]domain.AchievementDef(nil), catalog...)
}

// Lookup returns the definition with id.
func Lookup(id string) (domain.AchievementDef, bool) {
	for _, d := range catalog {
		if d.ID == id {
			return d, true
		}
	}
	return domain.AchievementDef{}, false
}
