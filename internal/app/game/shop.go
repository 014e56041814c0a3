package game

import (
	"context"
	"fmt"

	"github.com/questforge/questforge/internal/app/burnout"
	"github.com/questforge/questforge/internal/app/challenge"
	"github.com/questforge/questforge/internal/app/companion"
	"github.com/questforge/questforge/internal/app/skilltree"
	"github.com/questforge/questforge/internal/app/wallet"
	"github.com/questforge/questforge/internal/domain"
)

// Shop item ids with an instant effect.
const (
	RerollItem = "challenge-reroll"
	TreatItem  = "companion-treat"
)

// UseResult reports what using an item changed. Only the field matching
// the item's effect is set.
type UseResult struct {
	ItemID    string                `json:"item_id"`
	Effect    domain.ItemEffect     `json:"effect"`
	Task      *domain.Task          `json:"task,omitempty"`
	Challenge *domain.Challenge     `json:"challenge,omitempty"`
	Companion *domain.CompanionView `json:"companion,omitempty"`
}

// Purchase buys one unit of a shop item. It can be undone within the undo
// window.
func (s *Service) Purchase(ctx context.Context, itemID string) (domain.ShopItem, error) {
	var out domain.ShopItem
	err := s.mutate(ctx, "purchase", func(tx *txn) error {
		w, entries, it, err := wallet.Purchase(tx.st.Wallet, itemID, tx.today, s.newID(), tx.now)
		if err != nil {
			return err
		}
		tx.st.Wallet = w
		tx.cs.Ledger = append(tx.cs.Ledger, entries...)
		if err := tx.pushUndo(domain.UndoItemPurchase, "Purchase "+it.Name,
			domain.PurchaseUndo{ItemID: it.ID, Price: it.Price}); err != nil {
			return err
		}
		out = it
		tx.emit(domain.EventPurchase, it)
		return nil
	})
	return out, err
}

// UseItem applies one unit of an owned item. target names the task for a
// Time Crystal and the challenge for Destiny Dice. Streak Shields are never
// used by hand; reconcile spends them on missed habit days.
func (s *Service) UseItem(ctx context.Context, itemID, target string) (UseResult, error) {
	var out UseResult
	err := s.mutate(ctx, "use_item", func(tx *txn) error {
		r, err := tx.useItem(itemID, target)
		out = r
		return err
	})
	return out, err
}

func (tx *txn) useItem(itemID, target string) (UseResult, error) {
	it, ok := wallet.Lookup(itemID)
	if !ok {
		return UseResult{}, fmt.Errorf("%w: %s", domain.ErrItemNotFound, itemID)
	}
	res := UseResult{ItemID: it.ID, Effect: it.Effect}

	switch it.Effect.Type {
	case domain.ItemEffectStreakFreeze:
		return UseResult{}, fmt.Errorf("%w: %s is applied automatically to missed habit days", domain.ErrInvalidInput, it.Name)

	case domain.ItemEffectDeadlineExtend:
		if target == "" {
			return UseResult{}, fmt.Errorf("%w: %s needs a task id", domain.ErrInvalidInput, it.Name)
		}
		t, err := tx.extendDeadline(target)
		if err != nil {
			return UseResult{}, err
		}
		res.Task = &t
		return res, nil

	case domain.ItemEffectChallengeReroll:
		if target == "" {
			return UseResult{}, fmt.Errorf("%w: %s needs a challenge id", domain.ErrInvalidInput, it.Name)
		}
		c, err := tx.reroll(target)
		if err != nil {
			return UseResult{}, err
		}
		res.Challenge = &c
		return res, nil
	}

	w, effect, err := wallet.Use(tx.st.Wallet, it.ID, tx.now)
	if err != nil {
		return UseResult{}, err
	}
	if effect.Type == domain.ItemEffectCompanionItem {
		c, err := companion.Feed(tx.st.Companion, int(effect.Value))
		if err != nil {
			return UseResult{}, err
		}
		tx.st.Companion = c
		v := companion.View(c)
		res.Companion = &v
	}
	tx.st.Wallet = w
	tx.emit(domain.EventItemUsed, map[string]string{"item_id": it.ID})
	return res, nil
}

// reroll spends Destiny Dice on challenge id. A replacement that today's
// totals already satisfy pays out immediately.
func (tx *txn) reroll(id string) (domain.Challenge, error) {
	w, _, err := wallet.Use(tx.st.Wallet, RerollItem, tx.now)
	if err != nil {
		return domain.Challenge{}, err
	}
	b, c, err := challenge.Reroll(tx.st.Challenges, id)
	if err != nil {
		return domain.Challenge{}, err
	}
	tx.st.Wallet = w
	tx.st.Challenges = b
	tx.emit(domain.EventItemUsed, map[string]string{"item_id": RerollItem, "challenge_id": id})
	if c.Completed {
		tx.emit(domain.EventChallengeCompleted, c)
		tx.notify(domain.NotifyChallengeComplete, "Daily challenge complete", c.Title)
		if _, err := tx.grant(SourceChallenge, c.Title, domain.Reward{XP: c.XPReward}); err != nil {
			return domain.Challenge{}, err
		}
	}
	return c, nil
}

// RerollChallenge replaces an uncompleted daily challenge using Destiny Dice.
func (s *Service) RerollChallenge(ctx context.Context, id string) (domain.Challenge, error) {
	var out domain.Challenge
	err := s.mutate(ctx, "reroll_challenge", func(tx *txn) error {
		c, err := tx.reroll(id)
		out = c
		return err
	})
	return out, err
}

// FeedCompanion uses a Companion Treat.
func (s *Service) FeedCompanion(ctx context.Context) (domain.CompanionView, error) {
	r, err := s.UseItem(ctx, TreatItem, "")
	if err != nil {
		return domain.CompanionView{}, err
	}
	return *r.Companion, nil
}

// RenameCompanion sets the companion's name.
func (s *Service) RenameCompanion(ctx context.Context, name string) (domain.CompanionView, error) {
	var out domain.CompanionView
	err := s.mutate(ctx, "rename_companion", func(tx *txn) error {
		c, err := companion.Rename(tx.st.Companion, name)
		if err != nil {
			return err
		}
		tx.st.Companion = c
		out = companion.View(c)
		return nil
	})
	return out, err
}

// UpdateBurnout merges self-reported factors and rescores. Deadline density
// is derived from the task list and cannot be set by hand.
func (s *Service) UpdateBurnout(ctx context.Context, patch domain.BurnoutPatch) (domain.Burnout, error) {
	var out domain.Burnout
	err := s.mutate(ctx, "update_burnout", func(tx *txn) error {
		patch.DeadlineDensity = nil
		tx.setBurnout(burnout.Update(tx.st.Burnout, patch, tx.now))
		out = tx.st.Burnout
		return nil
	})
	return out, err
}

// UnlockSkill spends skill points on a node. Unlocks are permanent.
func (s *Service) UnlockSkill(ctx context.Context, id string) (domain.SkillNode, error) {
	var out domain.SkillNode
	err := s.mutate(ctx, "unlock_skill", func(tx *txn) error {
		st, n, err := skilltree.Unlock(tx.st.Skills, id)
		if err != nil {
			return err
		}
		tx.st.Skills = st
		if err := tx.pushUndo(domain.UndoSkillUnlock, "Unlock "+n.Name, map[string]string{"skill_id": n.ID}); err != nil {
			return err
		}
		out = n
		tx.emit(domain.EventSkillUnlocked, n)
		return nil
	})
	return out, err
}
