// Package skilltree gates skill nodes behind prerequisites and points and
// stacks the effects of unlocked nodes additively.
package skilltree

import (
	"fmt"

	"github.com/questforge/questforge/internal/domain"
)

// EarnPoints adds skill points, e.g. on level up.
func EarnPoints(st domain.SkillState, n int) domain.SkillState {
	if n <= 0 {
		return st
	}
	st.Points += n
	st.TotalEarned += n
	return st
}

// check returns the first failing precondition for unlocking id, in the
// order: not found, already unlocked, prerequisites unmet, insufficient
// points.
func check(st domain.SkillState, id string) (domain.SkillNode, error) {
	n, ok := Lookup(id)
	if !ok {
		return n, fmt.Errorf("%w: %s", domain.ErrSkillNotFound, id)
	}
	if st.IsUnlocked(id) {
		return n, fmt.Errorf("%w: %s", domain.ErrSkillAlreadyUnlocked, id)
	}
	for _, p := range n.Prerequisites {
		if !st.IsUnlocked(p) {
			return n, fmt.Errorf("%w: %s requires %s", domain.ErrPrerequisitesUnmet, id, p)
		}
	}
	if st.Points < n.Cost {
		return n, fmt.Errorf("%w: %s costs %d, have %d", domain.ErrInsufficientSkillPoints, id, n.Cost, st.Points)
	}
	return n, nil
}

// CanUnlock reports whether id could be unlocked right now.
func CanUnlock(st domain.SkillState, id string) bool {
	_, err := check(st, id)
	return err == nil
}

// Unlock deducts the node's cost, marks it unlocked and activates its
// effect. On any failed precondition the input state is returned unchanged
// alongside a typed error.
func Unlock(st domain.SkillState, id string) (domain.SkillState, domain.SkillNode, error) {
	n, err := check(st, id)
	if err != nil {
		return st, n, err
	}
	next := domain.SkillState{
		Points:        st.Points - n.Cost,
		TotalEarned:   st.TotalEarned,
		Unlocked:      append(append([]string(nil), st.Unlocked...), id),
		ActiveEffects: append(append([]domain.SkillEffect(nil), st.ActiveEffects...), n.Effect),
	}
	return next, n, nil
}

// TotalBonus sums the values of active effects of the given type.
func TotalBonus(st domain.SkillState, t domain.EffectType) float64 {
	var sum float64
	for _, e := range st.ActiveEffects {
		if e.Type == t {
			sum += e.Value
		}
	}
	return sum
}

// DecayProtection sums the fractional streak-protection effects. Whole
// valued protections grant miss days instead; see ProtectedDays.
func DecayProtection(st domain.SkillState) float64 {
	var sum float64
	for _, e := range st.ActiveEffects {
		if e.Type == domain.EffectStreakProtection && e.Value < 1 {
			sum += e.Value
		}
	}
	return sum
}

// ProtectedDays sums the whole-valued streak-protection effects.
func ProtectedDays(st domain.SkillState) int {
	var days int
	for _, e := range st.ActiveEffects {
		if e.Type == domain.EffectStreakProtection && e.Value >= 1 {
			days += int(e.Value)
		}
	}
	return days
}

// Views returns every node annotated with the player's state.
func Views(st domain.SkillState) []domain.SkillView {
	out := make([]domain.SkillView, 0, len(catalog))
	for _, n := range catalog {
		out = append(out, domain.SkillView{
			SkillNode: n,
			Unlocked:  st.IsUnlocked(n.ID),
			CanUnlock: CanUnlock(st, n.ID),
		})
	}
	return out
}

// ByCategory returns the nodes of one branch, ordered by tier.
func ByCategory(st domain.SkillState, c domain.SkillCategory) []domain.SkillView {
	var out []domain.SkillView
	for _, v := range Views(st) {
		if v.Category == c {
			out = append(out, v)
		}
	}
	return out
}

// UnlockedCount returns unlocked and total node counts.
func UnlockedCount(st domain.SkillState) (unlocked, total int) {
	for _, n := range catalog {
		if st.IsUnlocked(n.ID) {
			unlocked++
		}
	}
	return unlocked, len(catalog)
}
