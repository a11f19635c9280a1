package domain

import "time"

// InventoryEntry is a user's holding of one card, unique per
// (user_id, card_type, card_id). Created on first award, quantity
// incremented on repeat awards, deleted when a discard reaches zero.
type InventoryEntry struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	CardType  CardType  `db:"card_type" json:"card_type"`
	CardID    int64     `db:"card_id" json:"card_id"`
	Rarity    Rarity    `db:"rarity" json:"rarity"`
	Quantity  int64     `db:"quantity" json:"quantity"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Key returns the card identity of the entry.
func (e *InventoryEntry) Key() CardKey {
	return CardKey{CardType: e.CardType, CardID: e.CardID}
}
