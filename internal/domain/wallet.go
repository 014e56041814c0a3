package domain

import "time"

// ─── Coin Ledger ────────────────────────────────────────────────────────────
// Every coin movement creates matched DEBIT/CREDIT entries between the
// player's purse and the treasury. SUM(debits) == SUM(credits).

// Ledger accounts.
const (
	AccountPurse    = "purse"
	AccountTreasury = "treasury"
)

// TxType categorizes a coin movement.
type TxType string

const (
	TxEarn   TxType = "earn"
	TxSpend  TxType = "spend"
	TxRevoke TxType = "revoke"
	TxRefund TxType = "refund"
)

// EntryType is the side of a double-entry pair.
type EntryType string

const (
	EntryDebit  EntryType = "DEBIT"
	EntryCredit EntryType = "CREDIT"
)

// LedgerEntry is one side of a coin movement.
type LedgerEntry struct {
	ID          int64     `json:"id"`
	TxID        string    `json:"tx_id"`
	Timestamp   time.Time `json:"timestamp"`
	Type        TxType    `json:"type"`
	EntryType   EntryType `json:"entry_type"`
	Account     string    `json:"account"`
	Amount      int64     `json:"amount"`
	Source      string    `json:"source"`
	Description string    `json:"description"`
	Balance     int64     `json:"balance"`
}

// Transaction is the player-facing view of a purse movement.
type Transaction struct {
	ID          string    `json:"id"`
	Amount      int64     `json:"amount"`
	Type        TxType    `json:"type"`
	Source      string    `json:"source"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
}

// ─── Shop ───────────────────────────────────────────────────────────────────

// ItemCategory groups shop items.
type ItemCategory string

const (
	ItemConsumable ItemCategory = "consumable"
	ItemBoost      ItemCategory = "boost"
	ItemCompanion  ItemCategory = "companion"
)

// ItemEffectType is what using an item does.
type ItemEffectType string

const (
	ItemEffectStreakFreeze    ItemEffectType = "streak-freeze"
	ItemEffectDeadlineExtend  ItemEffectType = "deadline-extend"
	ItemEffectChallengeReroll ItemEffectType = "challenge-reroll"
	ItemEffectXPBoost         ItemEffectType = "xp-boost"
	ItemEffectCompanionItem   ItemEffectType = "companion-item"
)

// UnlimitedStock marks an item with no daily stock limit.
const UnlimitedStock = -1

// ItemEffect is the payload of a shop item. DurationHours > 0 makes the
// effect timed.
type ItemEffect struct {
	Type          ItemEffectType `json:"type"`
	Value         float64        `json:"value"`
	DurationHours int            `json:"duration_hours,omitempty"`
}

// ShopItem is a catalog entry.
type ShopItem struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Price       int64        `json:"price"`
	Category    ItemCategory `json:"category"`
	DailyStock  int          `json:"daily_stock"`
	MaxOwned    int          `json:"max_owned"`
	Effect      ItemEffect   `json:"effect"`
}

// ActiveEffect is a timed item effect.
type ActiveEffect struct {
	ItemID    string         `json:"item_id"`
	Type      ItemEffectType `json:"type"`
	Value     float64        `json:"value"`
	ExpiresAt time.Time      `json:"expires_at"`
}

// Wallet is the player's coins, inventory and running effects.
// Balance mirrors the purse account of the ledger.
type Wallet struct {
	Balance        int64          `json:"balance"`
	Treasury       int64          `json:"treasury"`
	LifetimeEarned int64          `json:"lifetime_earned"`
	Inventory      map[string]int `json:"inventory"`
	ActiveEffects  []ActiveEffect `json:"active_effects"`
	// Stock is today's remaining stock of limited items.
	Stock     map[string]int `json:"stock"`
	StockDate Date           `json:"stock_date,omitempty"`
}

// Owned returns how many units of itemID the player holds.
func (w *Wallet) Owned(itemID string) int {
	if w.Inventory == nil {
		return 0
	}
	return w.Inventory[itemID]
}

// ShopView is a catalog item annotated with player state.
type ShopView struct {
	ShopItem
	Owned     int  `json:"owned"`
	Remaining int  `json:"remaining"`
	CanBuy    bool `json:"can_buy"`
}
