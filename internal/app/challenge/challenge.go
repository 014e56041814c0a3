// Package challenge generates the three seeded daily challenges and tracks
// their progress.
package challenge

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/questforge/questforge/internal/domain"
)

// PerDay is the number of challenges on a board.
const PerDay = 3

// XP seeker reward is fixed; the others depend on the seed.
const earnXPReward = 25

var (
	rarityRequirement = map[domain.Rarity]int64{
		domain.RarityCommon:    3,
		domain.RarityRare:      2,
		domain.RarityLegendary: 1,
	}
	rarityReward = map[domain.Rarity]int64{
		domain.RarityCommon:    20,
		domain.RarityRare:      35,
		domain.RarityLegendary: 75,
	}
	rarityCycle = []domain.Rarity{domain.RarityCommon, domain.RarityRare, domain.RarityLegendary}
)

// Seed sums the numeric components of an ISO date, so 2024-01-15 seeds
// 2024+1+15.
func Seed(d domain.Date) int {
	seed := 0
	for _, part := range strings.Split(d.String(), "-") {
		n, err := strconv.Atoi(part)
		if err != nil {
			continue
		}
		seed += n
	}
	return seed
}

// Generate returns the day's challenges. The same date always yields the
// same set, with zero progress.
func Generate(d domain.Date) []domain.Challenge {
	seed := Seed(d)
	out := make([]domain.Challenge, 0, PerDay)
	for slot := 1; slot <= PerDay; slot++ {
		c := build(slot, seed)
		c.ID = fmt.Sprintf("daily-%s-%d", d, slot)
		out = append(out, c)
	}
	return out
}

func build(slot, seed int) domain.Challenge {
	switch slot {
	case 1:
		n := int64(2 + seed%3)
		return domain.Challenge{
			Title:       "Quest Warrior",
			Description: fmt.Sprintf("Complete %d quests today", n),
			Type:        domain.ChallengeCompleteQuests,
			Requirement: n,
			XPReward:    int64(30 + seed%20),
		}
	case 2:
		n := int64(50 + seed%50)
		return domain.Challenge{
			Title:       "XP Seeker",
			Description: fmt.Sprintf("Earn %d XP today", n),
			Type:        domain.ChallengeEarnXP,
			Requirement: n,
			XPReward:    earnXPReward,
		}
	default:
		r := rarityCycle[seed%3]
		n := rarityRequirement[r]
		plural := ""
		if n > 1 {
			plural = "s"
		}
		return domain.Challenge{
			Title:       strings.ToUpper(string(r[:1])) + string(r[1:]) + " Hunter",
			Description: fmt.Sprintf("Complete %d %s quest%s", n, r, plural),
			Type:        domain.ChallengeCompleteRarity,
			Rarity:      r,
			Requirement: n,
			XPReward:    rarityReward[r],
		}
	}
}

// Rollover replaces the board when today differs from its date. Progress,
// rerolls and day totals reset; the lifetime completed count is kept.
func Rollover(b domain.ChallengeBoard, today domain.Date) domain.ChallengeBoard {
	if b.Date == today && len(b.Challenges) == PerDay {
		return b
	}
	return domain.ChallengeBoard{
		Date:           today,
		Challenges:     Generate(today),
		CompletedCount: b.CompletedCount,
	}
}

// Apply feeds progress events to the board. Quest and XP challenges are set
// from the day totals; rarity challenges count matching completions. It
// returns the challenges completed by these events.
func Apply(b domain.ChallengeBoard, events ...domain.ChallengeEvent) (domain.ChallengeBoard, []domain.Challenge) {
	next := b
	next.Challenges = append([]domain.Challenge(nil), b.Challenges...)
	var done []domain.Challenge

	for _, ev := range events {
		if ev.Value <= 0 {
			continue
		}
		switch ev.Type {
		case domain.ChallengeCompleteQuests:
			next.DayQuests += ev.Value
		case domain.ChallengeEarnXP:
			next.DayXP += ev.Value
		}
		for i := range next.Challenges {
			c := &next.Challenges[i]
			if c.Completed {
				continue
			}
			switch c.Type {
			case domain.ChallengeCompleteQuests:
				c.Progress = next.DayQuests
			case domain.ChallengeEarnXP:
				c.Progress = next.DayXP
			case domain.ChallengeCompleteRarity:
				if ev.Type == domain.ChallengeCompleteQuests && ev.Rarity == c.Rarity {
					c.Progress += ev.Value
				}
			}
			if c.Progress >= c.Requirement {
				c.Completed = true
				next.CompletedCount++
				done = append(done, *c)
			}
		}
	}
	return next, done
}

// Reroll replaces one uncompleted challenge with a fresh one from the same
// slot, seeded with the day seed plus the reroll count. A replacement that
// today's totals already satisfy comes back completed.
func Reroll(b domain.ChallengeBoard, id string) (domain.ChallengeBoard, domain.Challenge, error) {
	idx := -1
	for i, c := range b.Challenges {
		if c.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return b, domain.Challenge{}, fmt.Errorf("%w: %s", domain.ErrChallengeNotFound, id)
	}
	if b.Challenges[idx].Completed {
		return b, domain.Challenge{}, fmt.Errorf("%w: %s", domain.ErrChallengeCompleted, id)
	}

	next := b
	next.Challenges = append([]domain.Challenge(nil), b.Challenges...)
	next.Rerolls++

	c := build(idx+1, Seed(b.Date)+next.Rerolls)
	c.ID = fmt.Sprintf("daily-%s-%d-r%d", b.Date, idx+1, next.Rerolls)
	switch c.Type {
	case domain.ChallengeCompleteQuests:
		c.Progress = next.DayQuests
	case domain.ChallengeEarnXP:
		c.Progress = next.DayXP
	}
	if c.Progress >= c.Requirement {
		c.Completed = true
		next.CompletedCount++
	}
	next.Challenges[idx] = c
	return next, c, nil
}

// CompletedReward sums the XP of completed challenges on the board.
func CompletedReward(b domain.ChallengeBoard) int64 {
	var xp int64
	for _, c := range b.Challenges {
		if c.Completed {
			xp += c.XPReward
		}
	}
	return xp
}
