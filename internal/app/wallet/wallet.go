// Package wallet implements the coin purse as a double-entry ledger against
// a treasury account. Every movement yields a matched DEBIT/CREDIT pair, so
// SUM(debits) == SUM(credits) across the ledger.
package wallet

import (
	"fmt"
	"time"

	"github.com/questforge/questforge/internal/domain"
)

// Earn credits the purse from the treasury.
func Earn(w domain.Wallet, amount int64, source, desc, txID string, now time.Time) (domain.Wallet, []domain.LedgerEntry, error) {
	if amount <= 0 {
		return w, nil, fmt.Errorf("%w: earn amount %d", domain.ErrNonPositiveAmount, amount)
	}
	w, entries := move(w, domain.TxEarn, amount, source, desc, txID, now)
	w.LifetimeEarned += amount
	return w, entries, nil
}

// Spend debits the purse. It fails without touching the wallet when the
// balance is short.
func Spend(w domain.Wallet, amount int64, source, desc, txID string, now time.Time) (domain.Wallet, []domain.LedgerEntry, error) {
	if amount <= 0 {
		return w, nil, fmt.Errorf("%w: spend amount %d", domain.ErrNonPositiveAmount, amount)
	}
	if w.Balance < amount {
		return w, nil, fmt.Errorf("%w: have %d, need %d", domain.ErrInsufficientCoins, w.Balance, amount)
	}
	w, entries := move(w, domain.TxSpend, amount, source, desc, txID, now)
	return w, entries, nil
}

// Revoke takes back up to amount previously earned, never driving the
// balance below zero. It returns the amount actually revoked.
func Revoke(w domain.Wallet, amount int64, source, desc, txID string, now time.Time) (domain.Wallet, []domain.LedgerEntry, int64) {
	amount = min(amount, w.Balance)
	if amount <= 0 {
		return w, nil, 0
	}
	w, entries := move(w, domain.TxRevoke, amount, source, desc, txID, now)
	w.LifetimeEarned = max(0, w.LifetimeEarned-amount)
	return w, entries, amount
}

// Refund returns a previous spend to the purse.
func Refund(w domain.Wallet, amount int64, source, desc, txID string, now time.Time) (domain.Wallet, []domain.LedgerEntry, error) {
	if amount <= 0 {
		return w, nil, fmt.Errorf("%w: refund amount %d", domain.ErrNonPositiveAmount, amount)
	}
	w, entries := move(w, domain.TxRefund, amount, source, desc, txID, now)
	return w, entries, nil
}

// move books one transfer. Earn and refund flow treasury to purse; spend and
// revoke flow purse to treasury.
func move(w domain.Wallet, typ domain.TxType, amount int64, source, desc, txID string, now time.Time) (domain.Wallet, []domain.LedgerEntry) {
	inbound := typ == domain.TxEarn || typ == domain.TxRefund
	from, to := domain.AccountTreasury, domain.AccountPurse
	if !inbound {
		from, to = domain.AccountPurse, domain.AccountTreasury
	}
	if inbound {
		w.Treasury -= amount
		w.Balance += amount
	} else {
		w.Balance -= amount
		w.Treasury += amount
	}
	balance := func(acct string) int64 {
		if acct == domain.AccountPurse {
			return w.Balance
		}
		return w.Treasury
	}
	entry := func(side domain.EntryType, acct string) domain.LedgerEntry {
		return domain.LedgerEntry{
			TxID:        txID,
			Timestamp:   now,
			Type:        typ,
			EntryType:   side,
			Account:     acct,
			Amount:      amount,
			Source:      source,
			Description: desc,
			Balance:     balance(acct),
		}
	}
	return w, []domain.LedgerEntry{entry(domain.EntryDebit, from), entry(domain.EntryCredit, to)}
}

// Transactions flattens purse-side ledger entries into signed
// player-facing records, newest first as given.
func Transactions(entries []domain.LedgerEntry) []domain.Transaction {
	out := make([]domain.Transaction, 0, len(entries))
	for _, e := range entries {
		if e.Account != domain.AccountPurse {
			continue
		}
		amt := e.Amount
		if e.EntryType == domain.EntryDebit {
			amt = -amt
		}
		out = append(out, domain.Transaction{
			ID:          e.TxID,
			Amount:      amt,
			Type:        e.Type,
			Source:      e.Source,
			Description: e.Description,
			Timestamp:   e.Timestamp,
		})
	}
	return out
}
