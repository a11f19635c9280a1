package repository

import (
	"context"

	"chaotic_backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type InventoryRepository struct {
	db *pgxpool.Pool
}

func NewInventoryRepository(db *pgxpool.Pool) *InventoryRepository {
	return &InventoryRepository{db: db}
}

// GetByUser returns all inventory entries for a user.
func (r *InventoryRepository) GetByUser(ctx context.Context, userID int64) ([]*domain.InventoryEntry, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, card_type, card_id, rarity, quantity, updated_at
		FROM user_cards
		WHERE user_id = $1
		ORDER BY card_type, card_id
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.InventoryEntry
	for rows.Next() {
		var e domain.InventoryEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.CardType, &e.CardID, &e.Rarity, &e.Quantity, &e.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, &e)
	}
	return result, rows.Err()
}

// CollectionSnapshot returns the user's holdings keyed by card identity.
func (r *InventoryRepository) CollectionSnapshot(ctx context.Context, userID int64) (map[domain.CardKey]int64, error) {
	rows, err := r.db.Query(ctx, `
		SELECT card_type, card_id, quantity
		FROM user_cards
		WHERE user_id = $1
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	snapshot := make(map[domain.CardKey]int64)
	for rows.Next() {
		var key domain.CardKey
		var qty int64
		if err := rows.Scan(&key.CardType, &key.CardID, &qty); err != nil {
			return nil, err
		}
		snapshot[key] = qty
	}
	return snapshot, rows.Err()
}

// AddTx upserts quantity for a card inside dbTx: creates the entry on first
// award, otherwise increments it.
func (r *InventoryRepository) AddTx(ctx context.Context, dbTx pgx.Tx, userID int64, card domain.CardRef, quantity int64) error {
	_, err := dbTx.Exec(ctx, `
		INSERT INTO user_cards (user_id, card_type, card_id, rarity, quantity)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, card_type, card_id) DO UPDATE
		SET quantity = user_cards.quantity + EXCLUDED.quantity, updated_at = now()
	`, userID, card.CardType, card.CardID, card.Rarity, quantity)
	return err
}

// GetEntryForUpdateTx returns a locked inventory entry inside dbTx, or nil if
// the user does not own the card.
func (r *InventoryRepository) GetEntryForUpdateTx(ctx context.Context, dbTx pgx.Tx, userID int64, key domain.CardKey) (*domain.InventoryEntry, error) {
	var e domain.InventoryEntry
	err := dbTx.QueryRow(ctx, `
		SELECT id, user_id, card_type, card_id, rarity, quantity, updated_at
		FROM user_cards
		WHERE user_id = $1 AND card_type = $2 AND card_id = $3
		FOR UPDATE
	`, userID, key.CardType, key.CardID).Scan(&e.ID, &e.UserID, &e.CardType, &e.CardID, &e.Rarity, &e.Quantity, &e.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

// RemoveTx decrements quantity for a locked entry inside dbTx, deleting the
// row when it reaches zero.
func (r *InventoryRepository) RemoveTx(ctx context.Context, dbTx pgx.Tx, entryID int64, quantity int64) error {
	var remaining int64
	err := dbTx.QueryRow(ctx, `
		UPDATE user_cards
		SET quantity = quantity - $2, updated_at = now()
		WHERE id = $1
		RETURNING quantity
	`, entryID, quantity).Scan(&remaining)
	if err != nil {
		return err
	}
	if remaining <= 0 {
		_, err = dbTx.Exec(ctx, `DELETE FROM user_cards WHERE id = $1`, entryID)
	}
	return err
}
