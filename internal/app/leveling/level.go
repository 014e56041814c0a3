// Package leveling implements the XP curve and its inverse lookup.
// Exponential curve: each level costs 15% more than the last.
package leveling

import (
	"fmt"
	"math"

	"github.com/questforge/questforge/internal/domain"
)

const (
	// BaseLevelXP is the XP needed to clear level 1.
	BaseLevelXP = 100
	// Growth is the per-level cost multiplier.
	Growth = 1.15
	// MaxIterations bounds the inverse lookup.
	MaxIterations = 10000
)

// XPForLevel returns the XP required to clear the given level:
// floor(100 * 1.15^(level-1)). Saturates at math.MaxInt64.
func XPForLevel(level int) int64 {
	if level < 1 {
		level = 1
	}
	v := math.Floor(BaseLevelXP * math.Pow(Growth, float64(level-1)))
	if v >= math.MaxInt64 || math.IsInf(v, 1) {
		return math.MaxInt64
	}
	return int64(v)
}

// CumulativeXP returns the total XP needed to reach the start of level.
// Saturates at math.MaxInt64.
func CumulativeXP(level int) int64 {
	var sum int64
	for l := 1; l < level; l++ {
		req := XPForLevel(l)
		if sum > math.MaxInt64-req {
			return math.MaxInt64
		}
		sum += req
	}
	return sum
}

// FromTotalXP returns the level a total XP amount sits in, the XP already
// earned inside that level and the level's requirement.
func FromTotalXP(total int64) (domain.LevelInfo, error) {
	if total < 0 {
		return domain.LevelInfo{}, fmt.Errorf("%w: %d", domain.ErrNegativeXP, total)
	}
	// Subtract from the remainder instead of summing upward so the running
	// value can never overflow.
	remaining := total
	for level := 1; level <= MaxIterations; level++ {
		req := XPForLevel(level)
		if remaining < req {
			return domain.LevelInfo{
				Level:          level,
				CurrentLevelXP: remaining,
				XPForNextLevel: req,
				Role:           RoleFor(level),
			}, nil
		}
		remaining -= req
	}
	return domain.LevelInfo{}, fmt.Errorf("%w: total xp %d", domain.ErrLevelOverflow, total)
}

// LevelFor is FromTotalXP returning only the level. Invalid totals map to 1.
func LevelFor(total int64) int {
	info, err := FromTotalXP(total)
	if err != nil {
		return 1
	}
	return info.Level
}

// roleBands maps the first level of each band to its title.
var roleBands = []struct {
	from int
	role domain.PlayerRole
}{
	{100, domain.RoleMythic},
	{75, domain.RoleLegend},
	{50, domain.RoleHero},
	{35, domain.RoleChampion},
	{20, domain.RoleKnight},
	{10, domain.RoleWarrior},
	{5, domain.RoleApprentice},
}

// RoleFor returns the title for a level. Bands cover every level from 1 up.
func RoleFor(level int) domain.PlayerRole {
	for _, b := range roleBands {
		if level >= b.from {
			return b.role
		}
	}
	return domain.RoleNovice
}
