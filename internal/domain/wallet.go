package domain

import "time"

// Currency is one of the two wallet currencies.
type Currency string

const (
	CurrencyCoins    Currency = "coins"
	CurrencyDiamonds Currency = "diamonds"
)

// Wallet holds a user's two-currency balance. Both balances are always >= 0;
// any operation that would drive one negative fails before mutation.
// Created lazily on first reference, never deleted.
type Wallet struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Coins     int64     `db:"coins" json:"coins"`
	Diamonds  int64     `db:"diamonds" json:"diamonds"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Balance returns the balance in the given currency.
func (w *Wallet) Balance(c Currency) int64 {
	if c == CurrencyDiamonds {
		return w.Diamonds
	}
	return w.Coins
}
