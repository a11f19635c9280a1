package repository

import (
	"context"
	"encoding/json"
	"time"

	"chaotic_backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// LedgerRepository stores the append-only economic event log. Rows are never
// updated or deleted.
type LedgerRepository struct {
	db *pgxpool.Pool
}

func NewLedgerRepository(db *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// CreateWithTx appends an event inside an existing database transaction.
func (r *LedgerRepository) CreateWithTx(ctx context.Context, dbTx pgx.Tx, ev *domain.LedgerEvent) error {
	metaJSON, err := json.Marshal(ev.Meta)
	if err != nil {
		metaJSON = []byte("{}")
	}

	var cardType, cardRarity *string
	var cardID *int64
	if ev.CardType != "" {
		t := string(ev.CardType)
		cardType = &t
		cardID = &ev.CardID
	}
	if ev.CardRarity != "" {
		rr := string(ev.CardRarity)
		cardRarity = &rr
	}

	qty := ev.Quantity
	if qty < 1 {
		qty = 1
	}

	return dbTx.QueryRow(ctx, `
		INSERT INTO ledger_events
			(user_id, source, xp_delta, coins_delta, diamonds_delta,
			 card_type, card_id, card_rarity, quantity, reference_id, meta)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at
	`, ev.UserID, ev.Source, ev.XPDelta, ev.CoinsDelta, ev.DiamondsDelta,
		cardType, cardID, cardRarity, qty, nullableString(ev.ReferenceID), metaJSON,
	).Scan(&ev.ID, &ev.CreatedAt)
}

// CountBySource counts events for a user with the given source and, when
// referenceID is non-empty, the given reference, within [from, to).
func (r *LedgerRepository) CountBySource(ctx context.Context, userID int64, source domain.EventSource, referenceID string, from, to time.Time) (int, error) {
	var count int
	var err error
	if referenceID == "" {
		err = r.db.QueryRow(ctx, `
			SELECT COUNT(*) FROM ledger_events
			WHERE user_id = $1 AND source = $2 AND created_at >= $3 AND created_at < $4
		`, userID, source, from, to).Scan(&count)
	} else {
		err = r.db.QueryRow(ctx, `
			SELECT COUNT(*) FROM ledger_events
			WHERE user_id = $1 AND source = $2 AND reference_id = $3
			  AND created_at >= $4 AND created_at < $5
		`, userID, source, referenceID, from, to).Scan(&count)
	}
	return count, err
}

// CountByReference counts all events for a user with the given source and
// reference, regardless of age.
func (r *LedgerRepository) CountByReference(ctx context.Context, userID int64, source domain.EventSource, referenceID string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM ledger_events
		WHERE user_id = $1 AND source = $2 AND reference_id = $3
	`, userID, source, referenceID).Scan(&count)
	return count, err
}

// HasReference reports whether any event with the given source and reference
// exists for the user, regardless of age.
func (r *LedgerRepository) HasReference(ctx context.Context, userID int64, source domain.EventSource, referenceID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM ledger_events
			WHERE user_id = $1 AND source = $2 AND reference_id = $3
		)
	`, userID, source, referenceID).Scan(&exists)
	return exists, err
}

// GetByUserID returns the most recent events for a user.
func (r *LedgerRepository) GetByUserID(ctx context.Context, userID int64, limit int) ([]*domain.LedgerEvent, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, source, xp_delta, coins_delta, diamonds_delta,
		       card_type, card_id, card_rarity, quantity, reference_id, meta, created_at
		FROM ledger_events
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanRows(rows)
}

func (r *LedgerRepository) scanRows(rows pgx.Rows) ([]*domain.LedgerEvent, error) {
	var result []*domain.LedgerEvent

	for rows.Next() {
		var (
			ev         domain.LedgerEvent
			cardType   *string
			cardID     *int64
			cardRarity *string
			refID      *string
			metaJSON   []byte
		)

		if err := rows.Scan(&ev.ID, &ev.UserID, &ev.Source, &ev.XPDelta, &ev.CoinsDelta, &ev.DiamondsDelta,
			&cardType, &cardID, &cardRarity, &ev.Quantity, &refID, &metaJSON, &ev.CreatedAt); err != nil {
			return nil, err
		}

		if cardType != nil {
			ev.CardType = domain.CardType(*cardType)
		}
		if cardID != nil {
			ev.CardID = *cardID
		}
		if cardRarity != nil {
			ev.CardRarity = domain.Rarity(*cardRarity)
		}
		if refID != nil {
			ev.ReferenceID = *refID
		}
		if len(metaJSON) > 0 {
			_ = json.Unmarshal(metaJSON, &ev.Meta)
		}

		result = append(result, &ev)
	}

	return result, rows.Err()
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
