package repository

import (
	"context"

	"chaotic_backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CardRepository reads the card catalog tables and projects them to the
// common CardRef shape the store engine consumes.
type CardRepository struct {
	db *pgxpool.Pool
}

func NewCardRepository(db *pgxpool.Pool) *CardRepository {
	return &CardRepository{db: db}
}

// EligibleCards returns the flat card pool for a pack: every catalog card
// matching the pack's card types and, for tribe-affiliated types, its
// optional tribe filter.
func (r *CardRepository) EligibleCards(ctx context.Context, pack *domain.PackDefinition) ([]domain.CardRef, error) {
	var pool []domain.CardRef

	for _, ct := range pack.CardTypes {
		refs, err := r.cardsOfType(ctx, ct, pack.TribeFilter)
		if err != nil {
			return nil, err
		}
		pool = append(pool, refs...)
	}

	return pool, nil
}

func (r *CardRepository) cardsOfType(ctx context.Context, ct domain.CardType, tribe string) ([]domain.CardRef, error) {
	var (
		rows pgx.Rows
		err  error
	)

	switch ct {
	case domain.CardTypeCreature:
		if tribe != "" {
			rows, err = r.db.Query(ctx, `
				SELECT id, name, rarity, COALESCE(image_ref, '') FROM creatures WHERE LOWER(tribe) = LOWER($1)
			`, tribe)
		} else {
			rows, err = r.db.Query(ctx, `SELECT id, name, rarity, COALESCE(image_ref, '') FROM creatures`)
		}
	case domain.CardTypeMugic:
		if tribe != "" {
			rows, err = r.db.Query(ctx, `
				SELECT id, name, rarity, COALESCE(image_ref, '') FROM mugics WHERE LOWER(tribe) = LOWER($1)
			`, tribe)
		} else {
			rows, err = r.db.Query(ctx, `SELECT id, name, rarity, COALESCE(image_ref, '') FROM mugics`)
		}
	case domain.CardTypeAttack:
		rows, err = r.db.Query(ctx, `SELECT id, name, rarity, COALESCE(image_ref, '') FROM attacks`)
	case domain.CardTypeLocation:
		rows, err = r.db.Query(ctx, `SELECT id, name, rarity, COALESCE(image_ref, '') FROM locations`)
	case domain.CardTypeBattlegear:
		rows, err = r.db.Query(ctx, `SELECT id, name, rarity, COALESCE(image_ref, '') FROM battlegears`)
	default:
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var refs []domain.CardRef
	for rows.Next() {
		ref := domain.CardRef{CardType: ct}
		if err := rows.Scan(&ref.CardID, &ref.Name, &ref.Rarity, &ref.ImageRef); err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}
