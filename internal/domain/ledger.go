package domain

import "time"

// EventSource classifies the origin of a ledger event.
type EventSource string

const (
	SourceBattleVictory     EventSource = "battle_victory"
	SourceDailyLogin        EventSource = "daily_login"
	SourceCardAwarded       EventSource = "card_awarded"
	SourceCardDiscarded     EventSource = "card_discarded"
	SourceStarterPackOpened EventSource = "starter_pack_opened"
	SourceShopPackPurchase  EventSource = "shop_pack_purchase"
	SourceShopRefund        EventSource = "shop_purchase_refund"
)

// LedgerEvent is one immutable economic event. The ledger is append-only:
// events are never updated or deleted. It is the audit trail and the basis
// for purchase-limit and idempotency queries.
type LedgerEvent struct {
	ID            int64                  `db:"id" json:"id"`
	UserID        int64                  `db:"user_id" json:"user_id"`
	Source        EventSource            `db:"source" json:"source"`
	XPDelta       int64                  `db:"xp_delta" json:"xp_delta"`
	CoinsDelta    int64                  `db:"coins_delta" json:"coins_delta"`
	DiamondsDelta int64                  `db:"diamonds_delta" json:"diamonds_delta"`
	CardType      CardType               `db:"card_type" json:"card_type,omitempty"`
	CardID        int64                  `db:"card_id" json:"card_id,omitempty"`
	CardRarity    Rarity                 `db:"card_rarity" json:"card_rarity,omitempty"`
	Quantity      int64                  `db:"quantity" json:"quantity"`
	ReferenceID   string                 `db:"reference_id" json:"reference_id,omitempty"`
	Meta          map[string]interface{} `db:"meta" json:"meta,omitempty"`
	CreatedAt     time.Time              `db:"created_at" json:"created_at"`
}
