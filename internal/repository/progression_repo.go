package repository

import (
	"context"

	"chaotic_backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProgressionRepository struct {
	db *pgxpool.Pool
}

func NewProgressionRepository(db *pgxpool.Pool) *ProgressionRepository {
	return &ProgressionRepository{db: db}
}

// GetByUserID retrieves the cached progression row, or nil if the user has
// never earned XP.
func (r *ProgressionRepository) GetByUserID(ctx context.Context, userID int64) (*domain.ProgressionState, error) {
	row := r.db.QueryRow(ctx, `
		SELECT user_id, xp_total, level, xp_current_level, xp_next_level
		FROM progression
		WHERE user_id = $1
	`, userID)

	var p domain.ProgressionState
	if err := row.Scan(&p.UserID, &p.XPTotal, &p.Level, &p.XPCurrentLevel, &p.XPNextLevel); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// GetTx retrieves the progression row inside dbTx, or nil if absent.
func (r *ProgressionRepository) GetTx(ctx context.Context, dbTx pgx.Tx, userID int64) (*domain.ProgressionState, error) {
	var p domain.ProgressionState
	err := dbTx.QueryRow(ctx, `
		SELECT user_id, xp_total, level, xp_current_level, xp_next_level
		FROM progression
		WHERE user_id = $1
	`, userID).Scan(&p.UserID, &p.XPTotal, &p.Level, &p.XPCurrentLevel, &p.XPNextLevel)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// UpsertTx writes the recomputed progression state inside dbTx.
func (r *ProgressionRepository) UpsertTx(ctx context.Context, dbTx pgx.Tx, p *domain.ProgressionState) error {
	_, err := dbTx.Exec(ctx, `
		INSERT INTO progression (user_id, xp_total, level, xp_current_level, xp_next_level)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE
		SET xp_total = EXCLUDED.xp_total,
		    level = EXCLUDED.level,
		    xp_current_level = EXCLUDED.xp_current_level,
		    xp_next_level = EXCLUDED.xp_next_level
	`, p.UserID, p.XPTotal, p.Level, p.XPCurrentLevel, p.XPNextLevel)
	return err
}
