package service

import (
	"context"

	"chaotic_backend/internal/domain"
	"chaotic_backend/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ProgressionService owns every wallet/progression/ledger mutation. Each
// mutation is one database transaction that locks the user's wallet row,
// recomputes balances and level state, and appends the ledger event — the
// triple write is never partially applied, and the row lock serializes
// concurrent operations for the same user.
type ProgressionService struct {
	db          *pgxpool.Pool
	wallets     *repository.WalletRepository
	progression *repository.ProgressionRepository
	ledger      *repository.LedgerRepository
	inventory   *repository.InventoryRepository
}

func NewProgressionService(db *pgxpool.Pool) *ProgressionService {
	return &ProgressionService{
		db:          db,
		wallets:     repository.NewWalletRepository(db),
		progression: repository.NewProgressionRepository(db),
		ledger:      repository.NewLedgerRepository(db),
		inventory:   repository.NewInventoryRepository(db),
	}
}

// SnapshotFor returns the user's current wallet and progression state,
// creating both lazily on first reference.
func (s *ProgressionService) SnapshotFor(ctx context.Context, userID int64) (*domain.Wallet, *domain.ProgressionState, error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	wallet, err := s.wallets.GetOrCreateForUpdateTx(ctx, tx, userID)
	if err != nil {
		return nil, nil, err
	}

	prog, err := s.progression.GetTx(ctx, tx, userID)
	if err != nil {
		return nil, nil, err
	}
	if prog == nil {
		p := domain.ProgressionFromTotal(userID, 0)
		if err := s.progression.UpsertTx(ctx, tx, &p); err != nil {
			return nil, nil, err
		}
		prog = &p
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}
	return wallet, prog, nil
}

// ApplyEvent applies one economic event: recomputes the wallet balances and
// progression state from the event's deltas and persists both together with
// the ledger row. Rejects with ErrInsufficientFunds before any mutation if a
// balance would go negative.
func (s *ProgressionService) ApplyEvent(ctx context.Context, ev *domain.LedgerEvent) (*domain.Wallet, *domain.ProgressionState, error) {
	return s.ApplyEventGuarded(ctx, ev, nil)
}

// ApplyEventGuarded is ApplyEvent with a precondition: guard runs after the
// wallet row lock is held and before any write, so whatever it reads cannot
// be raced by another mutation for the same user. A guard error aborts the
// transaction untouched. Used by the store to make the pack purchase limit
// check and the debit one serialized unit.
func (s *ProgressionService) ApplyEventGuarded(ctx context.Context, ev *domain.LedgerEvent, guard func(context.Context) error) (*domain.Wallet, *domain.ProgressionState, error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	wallet, prog, err := s.applyEventGuardedTx(ctx, tx, ev, guard)
	if err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}
	return wallet, prog, nil
}

// applyEventTx is the shared primitive behind every mutation path. The wallet
// row is locked for the remainder of dbTx.
func (s *ProgressionService) applyEventTx(ctx context.Context, dbTx pgx.Tx, ev *domain.LedgerEvent) (*domain.Wallet, *domain.ProgressionState, error) {
	return s.applyEventGuardedTx(ctx, dbTx, ev, nil)
}

func (s *ProgressionService) applyEventGuardedTx(ctx context.Context, dbTx pgx.Tx, ev *domain.LedgerEvent, guard func(context.Context) error) (*domain.Wallet, *domain.ProgressionState, error) {
	wallet, err := s.wallets.GetOrCreateForUpdateTx(ctx, dbTx, ev.UserID)
	if err != nil {
		return nil, nil, err
	}

	if guard != nil {
		if err := guard(ctx); err != nil {
			return nil, nil, err
		}
	}

	newCoins := wallet.Coins + ev.CoinsDelta
	newDiamonds := wallet.Diamonds + ev.DiamondsDelta
	if newCoins < 0 || newDiamonds < 0 {
		return nil, nil, ErrInsufficientFunds
	}

	prev, err := s.progression.GetTx(ctx, dbTx, ev.UserID)
	if err != nil {
		return nil, nil, err
	}
	prevTotal := int64(0)
	if prev != nil {
		prevTotal = prev.XPTotal
	}
	nextTotal := prevTotal + ev.XPDelta
	if nextTotal < 0 {
		nextTotal = 0
	}
	prog := domain.ProgressionFromTotal(ev.UserID, nextTotal)

	wallet.Coins = newCoins
	wallet.Diamonds = newDiamonds
	if err := s.wallets.UpdateBalancesTx(ctx, dbTx, wallet); err != nil {
		return nil, nil, err
	}
	if err := s.progression.UpsertTx(ctx, dbTx, &prog); err != nil {
		return nil, nil, err
	}
	if err := s.ledger.CreateWithTx(ctx, dbTx, ev); err != nil {
		return nil, nil, err
	}

	return wallet, &prog, nil
}

// RegisterCardAward upserts the user's inventory entry for a card and appends
// the matching ledger event carrying the rarity's XP.
func (s *ProgressionService) RegisterCardAward(ctx context.Context, userID int64, card domain.CardRef, quantity int64, source domain.EventSource, referenceID string) (*domain.Wallet, *domain.ProgressionState, error) {
	if quantity < 1 {
		return nil, nil, ErrInvalidQuantity
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := s.inventory.AddTx(ctx, tx, userID, card, quantity); err != nil {
		return nil, nil, err
	}

	ev := &domain.LedgerEvent{
		UserID:      userID,
		Source:      source,
		XPDelta:     domain.XPForRarity(card.Rarity) * quantity,
		CardType:    card.CardType,
		CardID:      card.CardID,
		CardRarity:  card.Rarity,
		Quantity:    quantity,
		ReferenceID: referenceID,
	}
	wallet, prog, err := s.applyEventTx(ctx, tx, ev)
	if err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}
	return wallet, prog, nil
}

// DiscardUserCard removes quantity copies of a card from the user's inventory
// and credits the fixed sell value in coins. Returns the coins earned.
func (s *ProgressionService) DiscardUserCard(ctx context.Context, userID int64, key domain.CardKey, quantity int64) (*domain.Wallet, *domain.ProgressionState, int64, error) {
	if quantity < 1 {
		return nil, nil, 0, ErrInvalidQuantity
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, nil, 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	entry, err := s.inventory.GetEntryForUpdateTx(ctx, tx, userID, key)
	if err != nil {
		return nil, nil, 0, err
	}
	if entry == nil {
		return nil, nil, 0, ErrCardNotFoundInInventory
	}
	if quantity > entry.Quantity {
		return nil, nil, 0, ErrInvalidQuantity
	}

	if err := s.inventory.RemoveTx(ctx, tx, entry.ID, quantity); err != nil {
		return nil, nil, 0, err
	}

	coins := domain.SellValueForRarity(entry.Rarity) * quantity
	ev := &domain.LedgerEvent{
		UserID:     userID,
		Source:     domain.SourceCardDiscarded,
		CoinsDelta: coins,
		CardType:   entry.CardType,
		CardID:     entry.CardID,
		CardRarity: entry.Rarity,
		Quantity:   quantity,
	}
	wallet, prog, err := s.applyEventTx(ctx, tx, ev)
	if err != nil {
		return nil, nil, 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, 0, err
	}
	return wallet, prog, coins, nil
}
