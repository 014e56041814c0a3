package domain

// ChallengeType is what a daily challenge counts.
type ChallengeType string

const (
	ChallengeCompleteQuests ChallengeType = "complete_quests"
	ChallengeEarnXP         ChallengeType = "earn_xp"
	ChallengeCompleteRarity ChallengeType = "complete_rarity"
)

// Challenge is one of the three seeded daily goals.
type Challenge struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Type        ChallengeType `json:"type"`
	Rarity      Rarity        `json:"rarity,omitempty"`
	Requirement int64         `json:"requirement"`
	Progress    int64         `json:"progress"`
	XPReward    int64         `json:"xp_reward"`
	Completed   bool          `json:"completed"`
}

// ProgressPct returns completion percentage (0-100).
func (c Challenge) ProgressPct() float64 {
	if c.Requirement <= 0 {
		return 100
	}
	pct := float64(c.Progress) / float64(c.Requirement) * 100
	if pct > 100 {
		pct = 100
	}
	return pct
}

// ChallengeBoard is the day's challenge set plus lifetime counters.
type ChallengeBoard struct {
	Date           Date        `json:"date"`
	Challenges     []Challenge `json:"challenges"`
	Rerolls        int         `json:"rerolls"`
	CompletedCount int         `json:"completed_count"`
	// DayXP and DayQuests are the running totals challenge progress is set from.
	DayXP     int64 `json:"day_xp"`
	DayQuests int64 `json:"day_quests"`
}

// ChallengeEvent is one progress signal fed to the board.
type ChallengeEvent struct {
	Type   ChallengeType `json:"type"`
	Value  int64         `json:"value"`
	Rarity Rarity        `json:"rarity,omitempty"`
}
