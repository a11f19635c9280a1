package repository

import (
	"context"

	"chaotic_backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type WalletRepository struct {
	db *pgxpool.Pool
}

func NewWalletRepository(db *pgxpool.Pool) *WalletRepository {
	return &WalletRepository{db: db}
}

// GetByUserID retrieves the wallet for a user, or nil if none exists yet.
func (r *WalletRepository) GetByUserID(ctx context.Context, userID int64) (*domain.Wallet, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, user_id, coins, diamonds, updated_at
		FROM wallets
		WHERE user_id = $1
	`, userID)

	var w domain.Wallet
	if err := row.Scan(&w.ID, &w.UserID, &w.Coins, &w.Diamonds, &w.UpdatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &w, nil
}

// GetOrCreateForUpdateTx returns the user's wallet row locked for the duration
// of dbTx, creating it lazily with zero balances on first reference. The row
// lock serializes concurrent mutations for the same user.
func (r *WalletRepository) GetOrCreateForUpdateTx(ctx context.Context, dbTx pgx.Tx, userID int64) (*domain.Wallet, error) {
	if _, err := dbTx.Exec(ctx, `
		INSERT INTO wallets (user_id, coins, diamonds)
		VALUES ($1, 0, 0)
		ON CONFLICT (user_id) DO NOTHING
	`, userID); err != nil {
		return nil, err
	}

	var w domain.Wallet
	err := dbTx.QueryRow(ctx, `
		SELECT id, user_id, coins, diamonds, updated_at
		FROM wallets
		WHERE user_id = $1
		FOR UPDATE
	`, userID).Scan(&w.ID, &w.UserID, &w.Coins, &w.Diamonds, &w.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// UpdateBalancesTx writes new balances for a wallet row already locked in dbTx.
func (r *WalletRepository) UpdateBalancesTx(ctx context.Context, dbTx pgx.Tx, w *domain.Wallet) error {
	return dbTx.QueryRow(ctx, `
		UPDATE wallets
		SET coins = $2, diamonds = $3, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`, w.ID, w.Coins, w.Diamonds).Scan(&w.UpdatedAt)
}
