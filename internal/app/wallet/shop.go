package wallet

import (
	"fmt"
	"time"

	"github.com/questforge/questforge/internal/domain"
)

// ─── Shop Catalog ───────────────────────────────────────────────────────────

var catalog = []domain.ShopItem{
	{
		ID: "streak-freeze", Name: "Streak Shield", Description: "Protect your streak for one missed day",
		Price: 50, Category: domain.ItemConsumable, DailyStock: domain.UnlimitedStock, MaxOwned: 3,
		Effect: domain.ItemEffect{Type: domain.ItemEffectStreakFreeze, Value: 1},
	},
	{
		ID: "deadline-extend-1d", Name: "Time Crystal", Description: "Extend a hard deadline by 1 day (max 2 per task)",
		Price: 75, Category: domain.ItemConsumable, DailyStock: domain.UnlimitedStock, MaxOwned: 5,
		Effect: domain.ItemEffect{Type: domain.ItemEffectDeadlineExtend, Value: 1},
	},
	{
		ID: "challenge-reroll", Name: "Destiny Dice", Description: "Reroll one daily challenge",
		Price: 30, Category: domain.ItemConsumable, DailyStock: 3, MaxOwned: 1,
		Effect: domain.ItemEffect{Type: domain.ItemEffectChallengeReroll, Value: 1},
	},
	{
		ID: "xp-boost-small", Name: "Minor XP Scroll", Description: "+10% XP for 1 hour",
		Price: 40, Category: domain.ItemBoost, DailyStock: domain.UnlimitedStock, MaxOwned: 3,
		Effect: domain.ItemEffect{Type: domain.ItemEffectXPBoost, Value: 0.1, DurationHours: 1},
	},
	{
		ID: "xp-boost-medium", Name: "Greater XP Scroll", Description: "+25% XP for 2 hours",
		Price: 100, Category: domain.ItemBoost, DailyStock: domain.UnlimitedStock, MaxOwned: 2,
		Effect: domain.ItemEffect{Type: domain.ItemEffectXPBoost, Value: 0.25, DurationHours: 2},
	},
	{
		ID: "companion-treat", Name: "Companion Treat", Description: "Restore 20 companion energy",
		Price: 25, Category: domain.ItemCompanion, DailyStock: domain.UnlimitedStock, MaxOwned: 10,
		Effect: domain.ItemEffect{Type: domain.ItemEffectCompanionItem, Value: 20},
	},
}

// Catalog returns a copy of the shop items.
func Catalog() []domain.ShopItem {
	return append([]domain.ShopItem(nil), catalog...)
}

// Lookup returns the item with id.
func Lookup(id string) (domain.ShopItem, bool) {
	for _, it := range catalog {
		if it.ID == id {
			return it, true
		}
	}
	return domain.ShopItem{}, false
}

// ItemFor returns the first catalog item with the given effect type.
func ItemFor(t domain.ItemEffectType) (domain.ShopItem, bool) {
	for _, it := range catalog {
		if it.Effect.Type == t {
			return it, true
		}
	}
	return domain.ShopItem{}, false
}

// ─── Stock & Inventory ──────────────────────────────────────────────────────

// RollStock refills limited stock when the day has changed.
func RollStock(w domain.Wallet, today domain.Date) domain.Wallet {
	if w.StockDate == today && w.Stock != nil {
		return w
	}
	stock := make(map[string]int)
	for _, it := range catalog {
		if it.DailyStock != domain.UnlimitedStock {
			stock[it.ID] = it.DailyStock
		}
	}
	w.Stock = stock
	w.StockDate = today
	return w
}

// Remaining returns today's stock of an item, or UnlimitedStock.
func Remaining(w domain.Wallet, it domain.ShopItem) int {
	if it.DailyStock == domain.UnlimitedStock {
		return domain.UnlimitedStock
	}
	if w.Stock == nil {
		return it.DailyStock
	}
	return w.Stock[it.ID]
}

func cloneCounts(m map[string]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// check returns the first failing purchase precondition: not found, out of
// stock, max owned, insufficient coins.
func check(w domain.Wallet, itemID string) (domain.ShopItem, error) {
	it, ok := Lookup(itemID)
	if !ok {
		return it, fmt.Errorf("%w: %s", domain.ErrItemNotFound, itemID)
	}
	if r := Remaining(w, it); r != domain.UnlimitedStock && r <= 0 {
		return it, fmt.Errorf("%w: %s", domain.ErrOutOfStock, it.Name)
	}
	if w.Owned(itemID) >= it.MaxOwned {
		return it, fmt.Errorf("%w: %s (max %d)", domain.ErrMaxOwned, it.Name, it.MaxOwned)
	}
	if w.Balance < it.Price {
		return it, fmt.Errorf("%w: %s costs %d, have %d", domain.ErrInsufficientCoins, it.Name, it.Price, w.Balance)
	}
	return it, nil
}

// Purchase buys one unit of an item, rolling stock over first.
func Purchase(w domain.Wallet, itemID string, today domain.Date, txID string, now time.Time) (domain.Wallet, []domain.LedgerEntry, domain.ShopItem, error) {
	w = RollStock(w, today)
	it, err := check(w, itemID)
	if err != nil {
		return w, nil, it, err
	}
	next, entries, err := Spend(w, it.Price, "shop", "Purchased "+it.Name, txID, now)
	if err != nil {
		return w, nil, it, err
	}
	next.Inventory = cloneCounts(w.Inventory)
	next.Inventory[it.ID]++
	if it.DailyStock != domain.UnlimitedStock {
		next.Stock = cloneCounts(w.Stock)
		next.Stock[it.ID]--
	}
	return next, entries, it, nil
}

// ReturnPurchase reverses a purchase: refunds the price, removes one unit
// and restocks limited items bought today.
func ReturnPurchase(w domain.Wallet, itemID string, price int64, today domain.Date, txID string, now time.Time) (domain.Wallet, []domain.LedgerEntry, error) {
	if w.Owned(itemID) <= 0 {
		return w, nil, fmt.Errorf("%w: %s", domain.ErrItemNotOwned, itemID)
	}
	next, entries, err := Refund(w, price, "shop", "Returned "+itemID, txID, now)
	if err != nil {
		return w, nil, err
	}
	next, err = Consume(next, itemID, 1)
	if err != nil {
		return w, nil, err
	}
	if it, ok := Lookup(itemID); ok && it.DailyStock != domain.UnlimitedStock && next.StockDate == today {
		next.Stock = cloneCounts(next.Stock)
		next.Stock[itemID] = min(it.DailyStock, next.Stock[itemID]+1)
	}
	return next, entries, nil
}

// Consume removes n units from the inventory.
func Consume(w domain.Wallet, itemID string, n int) (domain.Wallet, error) {
	if w.Owned(itemID) < n {
		return w, fmt.Errorf("%w: %s", domain.ErrItemNotOwned, itemID)
	}
	w.Inventory = cloneCounts(w.Inventory)
	w.Inventory[itemID] -= n
	if w.Inventory[itemID] == 0 {
		delete(w.Inventory, itemID)
	}
	return w, nil
}

// Use consumes one unit and returns its effect. Timed effects start running
// now; instant effects are applied by the caller.
func Use(w domain.Wallet, itemID string, now time.Time) (domain.Wallet, domain.ItemEffect, error) {
	it, ok := Lookup(itemID)
	if !ok {
		return w, domain.ItemEffect{}, fmt.Errorf("%w: %s", domain.ErrItemNotFound, itemID)
	}
	next, err := Consume(w, itemID, 1)
	if err != nil {
		return w, domain.ItemEffect{}, err
	}
	if it.Effect.DurationHours > 0 {
		next.ActiveEffects = append(append([]domain.ActiveEffect(nil), w.ActiveEffects...), domain.ActiveEffect{
			ItemID:    it.ID,
			Type:      it.Effect.Type,
			Value:     it.Effect.Value,
			ExpiresAt: now.Add(time.Duration(it.Effect.DurationHours) * time.Hour),
		})
	}
	return next, it.Effect, nil
}

// XPBoost sums the live xp-boost effects at now.
func XPBoost(w domain.Wallet, now time.Time) float64 {
	var sum float64
	for _, e := range w.ActiveEffects {
		if e.Type == domain.ItemEffectXPBoost && now.Before(e.ExpiresAt) {
			sum += e.Value
		}
	}
	return sum
}

// SweepEffects drops expired timed effects and reports how many went.
func SweepEffects(w domain.Wallet, now time.Time) (domain.Wallet, int) {
	live := make([]domain.ActiveEffect, 0, len(w.ActiveEffects))
	for _, e := range w.ActiveEffects {
		if now.Before(e.ExpiresAt) {
			live = append(live, e)
		}
	}
	n := len(w.ActiveEffects) - len(live)
	if n > 0 {
		w.ActiveEffects = live
	}
	return w, n
}

// Views annotates the catalog with the wallet's state.
func Views(w domain.Wallet, today domain.Date) []domain.ShopView {
	w = RollStock(w, today)
	out := make([]domain.ShopView, 0, len(catalog))
	for _, it := range catalog {
		_, err := check(w, it.ID)
		out = append(out, domain.ShopView{
			ShopItem:  it,
			Owned:     w.Owned(it.ID),
			Remaining: Remaining(w, it),
			CanBuy:    err == nil,
		})
	}
	return out
}
