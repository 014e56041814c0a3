package game

import (
	"fmt"

	"github.com/questforge/questforge/internal/app/achievement"
	"github.com/questforge/questforge/internal/app/burnout"
	"github.com/questforge/questforge/internal/app/challenge"
	"github.com/questforge/questforge/internal/app/companion"
	"github.com/questforge/questforge/internal/app/focus"
	"github.com/questforge/questforge/internal/app/habit"
	"github.com/questforge/questforge/internal/app/leveling"
	"github.com/questforge/questforge/internal/app/reward"
	"github.com/questforge/questforge/internal/app/skilltree"
	"github.com/questforge/questforge/internal/app/task"
	"github.com/questforge/questforge/internal/app/undo"
	"github.com/questforge/questforge/internal/app/wallet"
	"github.com/questforge/questforge/internal/domain"
)

// Reward sources, used for ledger rows and metrics labels.
const (
	SourceTask        = "task"
	SourceHabit       = "habit"
	SourceFocus       = "focus"
	SourceMilestone   = "milestone"
	SourceChallenge   = "challenge"
	SourceAchievement = "achievement"
	SourceShop        = "shop"
	SourceUndo        = "undo"
)

// StreakShieldItem is consumed automatically during gap reconciliation.
const StreakShieldItem = "streak-freeze"

// maxSettlePasses bounds the settle loop. Each pass can only complete
// challenges, cross levels or unlock achievements, all finite.
const maxSettlePasses = 16

// ─── Reconcile ──────────────────────────────────────────────────────────────

// ReconcileResult counts what a reconcile pass did.
type ReconcileResult struct {
	UndoExpired    int `json:"undo_expired"`
	EffectsExpired int `json:"effects_expired"`
	HabitMisses    int `json:"habit_misses"`
	ShieldsUsed    int `json:"shields_used"`
	TasksMissed    int `json:"tasks_missed"`
	TasksUnblocked int `json:"tasks_unblocked"`
}

// reconcile brings the state up to today. Every step is keyed off a stored
// date or expiry, so a second run with no new events changes nothing.
func (tx *txn) reconcile() ReconcileResult {
	var res ReconcileResult
	st := &tx.st

	st.Undo, res.UndoExpired = undo.Sweep(st.Undo, tx.now)
	st.Wallet = wallet.RollStock(st.Wallet, tx.today)
	st.Wallet, res.EffectsExpired = wallet.SweepEffects(st.Wallet, tx.now)
	st.Challenges = challenge.Rollover(st.Challenges, tx.today)
	st.Companion = companion.Tick(st.Companion, tx.today)
	st.Focus.Streak = focus.ReconcileStreak(st.Focus.Streak, tx.today)

	protection := skilltree.DecayProtection(st.Skills)
	extraTolerance := skilltree.ProtectedDays(st.Skills)
	if len(st.Habits) > 0 {
		habits := make([]domain.Habit, len(st.Habits))
		for i, h := range st.Habits {
			g := habit.Guard{Shields: st.Wallet.Owned(StreakShieldItem), Protection: protection}
			h.MissToleranceDays += extraTolerance
			next, out := habit.ReconcileGapGuarded(h, tx.today, g)
			next.MissToleranceDays -= extraTolerance
			habits[i] = next

			if out.Absorbed > 0 {
				if w, err := wallet.Consume(st.Wallet, StreakShieldItem, out.Absorbed); err == nil {
					st.Wallet = w
					res.ShieldsUsed += out.Absorbed
				}
			}
			if out.Missed > 0 {
				res.HabitMisses += out.Missed
				tx.day.HabitsMissed += out.Missed
				tx.emit(domain.EventHabitMissed, map[string]any{"habit_id": next.ID, "missed_days": out.Missed})
			}
		}
		st.Habits = habits
	}

	var missed, unblocked []string
	st.Tasks, missed = task.CheckDeadlines(st.Tasks, tx.now)
	st.Tasks, _, unblocked = task.Relink(st.Tasks)
	res.TasksMissed, res.TasksUnblocked = len(missed), len(unblocked)
	for _, id := range missed {
		tx.emit(domain.EventTaskMissed, map[string]string{"task_id": id})
	}

	tx.refreshDeadlineDensity()
	if st.Player.LastReconciledDate != tx.today {
		st.Player.LastReconciledDate = tx.today
	}
	return res
}

// refreshDeadlineDensity feeds the hard-deadline load into burnout. The
// score is only recomputed when the factor moves.
func (tx *txn) refreshDeadlineDensity() {
	density := task.DeadlineDensity(tx.st.Tasks, tx.now)
	if density == tx.st.Burnout.Factors.DeadlineDensity && tx.st.Burnout.Severity != "" {
		return
	}
	tx.setBurnout(burnout.Update(tx.st.Burnout, domain.BurnoutPatch{DeadlineDensity: &density}, tx.now))
}

// setBurnout stores b and warns when it entered a high or critical band.
func (tx *txn) setBurnout(b domain.Burnout) {
	prev := tx.st.Burnout.Severity
	tx.st.Burnout = b
	if b.Severity == prev {
		return
	}
	switch b.Severity {
	case domain.SeverityHigh, domain.SeverityCritical:
		tx.emit(domain.EventBurnoutWarning, b)
		title := "High stress detected"
		if b.Severity == domain.SeverityCritical {
			title = "Critical burnout risk"
		}
		body := "Consider taking a break"
		if len(b.Warnings) > 0 {
			body = b.Warnings[0]
		}
		tx.notify(domain.NotifyBurnout, title, body)
	}
}

// ─── Rewards ────────────────────────────────────────────────────────────────

// activitySource reports whether rewards from source are multiplied by
// bonuses. Challenge and achievement payouts are fixed.
func activitySource(source string) bool {
	switch source {
	case SourceTask, SourceHabit, SourceFocus, SourceMilestone:
		return true
	}
	return false
}

// bonuses returns the XP and coin multipliers for an activity source.
// Skill effects and companion perks stack additively with live XP scrolls.
func (tx *txn) bonuses(source string) (xp, coins float64) {
	sk := tx.st.Skills
	xp = skilltree.TotalBonus(sk, domain.EffectXPBonus) + wallet.XPBoost(tx.st.Wallet, tx.now)
	coins = skilltree.TotalBonus(sk, domain.EffectCoinBonus)
	switch source {
	case SourceFocus:
		xp += skilltree.TotalBonus(sk, domain.EffectFocusDuration)
	case SourceHabit:
		xp += skilltree.TotalBonus(sk, domain.EffectMomentumBoost)
	case SourceTask:
		xp += skilltree.TotalBonus(sk, domain.EffectEnergyEfficiency)
	}

	if b := companion.BonusFor(tx.st.Companion.Archetype, tx.st.Companion.EvolutionStage); b != nil {
		switch {
		case b.Type == domain.BonusXP:
			xp += b.Value
		case b.Type == domain.BonusCoins:
			coins += b.Value
		case b.Type == domain.BonusFocus && source == SourceFocus,
			b.Type == domain.BonusHabitStreak && source == SourceHabit,
			b.Type == domain.BonusTaskEfficiency && source == SourceTask:
			xp += b.Value
		}
	}
	return xp, coins
}

// grant pays r (boosted when enabled) into the player's XP and purse and
// feeds the day totals and challenge progress. It returns what was paid.
func (tx *txn) grant(source, desc string, r domain.Reward) (domain.Reward, error) {
	if tx.s.cfg.ApplyBonuses && activitySource(source) {
		xp, coins := tx.bonuses(source)
		r = reward.Boost(r, xp, coins)
	}
	if r.XP > 0 {
		tx.st.Player.TotalXP += r.XP
		tx.day.XPEarned += r.XP
		tx.progress = append(tx.progress, domain.ChallengeEvent{Type: domain.ChallengeEarnXP, Value: r.XP})
	}
	if r.Coins > 0 {
		w, entries, err := wallet.Earn(tx.st.Wallet, r.Coins, source, desc, tx.s.newID(), tx.now)
		if err != nil {
			return domain.Reward{}, fmt.Errorf("pay %s: %w", source, err)
		}
		tx.st.Wallet = w
		tx.cs.Ledger = append(tx.cs.Ledger, entries...)
		tx.day.CoinsEarned += r.Coins
	}
	if !r.IsZero() {
		tx.rewards = append(tx.rewards, granted{source: source, reward: r})
	}
	return r, nil
}

// revoke takes back a previously granted reward, floored at what the
// player still holds. It returns what was actually removed.
func (tx *txn) revoke(desc string, r domain.Reward) domain.Reward {
	var out domain.Reward
	if r.XP > 0 {
		out.XP = min(r.XP, tx.st.Player.TotalXP)
		tx.st.Player.TotalXP -= out.XP
		tx.day.XPEarned -= out.XP
	}
	if r.Coins > 0 {
		w, entries, taken := wallet.Revoke(tx.st.Wallet, r.Coins, SourceUndo, desc, tx.s.newID(), tx.now)
		tx.st.Wallet = w
		tx.cs.Ledger = append(tx.cs.Ledger, entries...)
		tx.day.CoinsEarned -= taken
		out.Coins = taken
	}
	return out
}

// ─── Settle ─────────────────────────────────────────────────────────────────

// settle applies the knock-on effects of a transition: companion activity,
// challenge progress, leveling and skill points, achievements and the day's
// stats. Challenge and achievement payouts can trigger further progress, so
// it loops until nothing moves.
func (tx *txn) settle() error {
	st := &tx.st

	if !tx.activity.IsEmpty() {
		tx.activity.Overworking = burnout.Overworking(st.Burnout)
		c, evolved := companion.Update(st.Companion, tx.activity, tx.today)
		st.Companion = c
		tx.activity = domain.Activity{}
		if evolved {
			tx.emit(domain.EventEvolution, companion.View(c))
			tx.notify(domain.NotifyEvolution,
				fmt.Sprintf("%s evolved!", c.Name),
				fmt.Sprintf("Stage %d, %s path", c.EvolutionStage, c.Archetype))
		}
	}

	for pass := 0; pass < maxSettlePasses; pass++ {
		moved := false

		if len(tx.progress) > 0 {
			events := tx.progress
			tx.progress = nil
			var done []domain.Challenge
			st.Challenges, done = challenge.Apply(st.Challenges, events...)
			for _, c := range done {
				tx.emit(domain.EventChallengeCompleted, c)
				tx.notify(domain.NotifyChallengeComplete, "Daily challenge complete", c.Title)
				if _, err := tx.grant(SourceChallenge, c.Title, domain.Reward{XP: c.XPReward}); err != nil {
					return err
				}
				moved = true
			}
		}

		lvl := leveling.LevelFor(st.Player.TotalXP)
		if lvl != st.Player.Level {
			if gained := lvl - st.Player.PeakLevel; gained > 0 {
				st.Skills = skilltree.EarnPoints(st.Skills, gained*tx.s.cfg.SkillPointsPerLevel)
				st.Player.PeakLevel = lvl
			}
			if lvl > st.Player.Level {
				info, _ := leveling.FromTotalXP(st.Player.TotalXP)
				tx.emit(domain.EventLevelUp, info)
				tx.notify(domain.NotifyLevelUp,
					fmt.Sprintf("Level %d reached", lvl),
					fmt.Sprintf("You are now a %s", info.Role))
			}
			st.Player.Level = lvl
			moved = true
		}

		for _, def := range achievement.Evaluate(statsOf(*st), tx.unlocked) {
			tx.unlocked[def.ID] = true
			tx.cs.Unlocked = append(tx.cs.Unlocked, domain.UnlockedAchievement{ID: def.ID, UnlockedAt: tx.now})
			tx.emit(domain.EventAchievementUnlocked, def)
			tx.notify(domain.NotifyAchievement, "Achievement unlocked: "+def.Name, def.Description)
			if _, err := tx.grant(SourceAchievement, def.Name, achievement.Reward([]domain.AchievementDef{def})); err != nil {
				return err
			}
			moved = true
		}

		if !moved && len(tx.progress) == 0 {
			break
		}
	}

	tx.recordDay()
	return nil
}
