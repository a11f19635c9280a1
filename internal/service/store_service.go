package service

import (
	"context"
	"time"

	"chaotic_backend/internal/domain"
	"chaotic_backend/internal/logger"
	"chaotic_backend/internal/repository"
	"chaotic_backend/internal/store"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CatalogProvider supplies the eligible card pool for a pack.
type CatalogProvider interface {
	EligibleCards(ctx context.Context, pack *domain.PackDefinition) ([]domain.CardRef, error)
}

// EconomyLedger is the mutation primitive the store drives. Implemented by
// ProgressionService.
type EconomyLedger interface {
	ApplyEvent(ctx context.Context, ev *domain.LedgerEvent) (*domain.Wallet, *domain.ProgressionState, error)
	ApplyEventGuarded(ctx context.Context, ev *domain.LedgerEvent, guard func(context.Context) error) (*domain.Wallet, *domain.ProgressionState, error)
	RegisterCardAward(ctx context.Context, userID int64, card domain.CardRef, quantity int64, source domain.EventSource, referenceID string) (*domain.Wallet, *domain.ProgressionState, error)
	DiscardUserCard(ctx context.Context, userID int64, key domain.CardKey, quantity int64) (*domain.Wallet, *domain.ProgressionState, int64, error)
	SnapshotFor(ctx context.Context, userID int64) (*domain.Wallet, *domain.ProgressionState, error)
}

// LedgerReader answers rate-limit and idempotency queries over the event log.
type LedgerReader interface {
	CountBySource(ctx context.Context, userID int64, source domain.EventSource, referenceID string, from, to time.Time) (int, error)
	CountByReference(ctx context.Context, userID int64, source domain.EventSource, referenceID string) (int, error)
	HasReference(ctx context.Context, userID int64, source domain.EventSource, referenceID string) (bool, error)
}

// CollectionReader supplies the pre-draw inventory snapshot.
type CollectionReader interface {
	CollectionSnapshot(ctx context.Context, userID int64) (map[domain.CardKey]int64, error)
}

// StoreService exposes the store operations: pack listing with remaining
// limits, the purchase saga, selling cards, and the recurring rewards.
type StoreService struct {
	packs     map[string]*domain.PackDefinition
	order     []domain.PackDefinition
	starter   *domain.PackDefinition
	catalog   CatalogProvider
	ledger    EconomyLedger
	events    LedgerReader
	inventory CollectionReader
	draw      *store.DrawEngine
	now       func() time.Time
}

// NewStoreService wires the store against Postgres-backed collaborators.
func NewStoreService(db *pgxpool.Pool, packs []domain.PackDefinition) *StoreService {
	return &StoreService{
		packs:     indexPacks(packs),
		order:     packs,
		starter:   store.StarterPack(),
		catalog:   repository.NewCardRepository(db),
		ledger:    NewProgressionService(db),
		events:    repository.NewLedgerRepository(db),
		inventory: repository.NewInventoryRepository(db),
		draw:      store.NewDrawEngine(),
		now:       time.Now,
	}
}

func indexPacks(packs []domain.PackDefinition) map[string]*domain.PackDefinition {
	m := make(map[string]*domain.PackDefinition, len(packs))
	for i := range packs {
		m[packs[i].ID] = &packs[i]
	}
	return m
}

func purchaseReference(packID string) string { return "store-pack:" + packID }
func refundReference(packID string) string   { return "store-pack-refund:" + packID }

func dailyLoginReference(t time.Time) string {
	return "daily-login-" + t.UTC().Format("2006-01-02")
}

const starterPackReference = "starter-pack"

// ListPacksForUser returns every pack annotated with the caller's remaining
// purchases per configured window, plus the caller's wallet.
func (s *StoreService) ListPacksForUser(ctx context.Context, userID int64) ([]domain.PackWithLimits, *domain.Wallet, error) {
	wallet, _, err := s.ledger.SnapshotFor(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	result := make([]domain.PackWithLimits, 0, len(s.order))
	for i := range s.order {
		pack := &s.order[i]
		daily, weekly, purchasable, err := s.remainingFor(ctx, userID, pack)
		if err != nil {
			return nil, nil, err
		}
		result = append(result, domain.PackWithLimits{
			PackDefinition:  *pack,
			RemainingDaily:  daily,
			RemainingWeekly: weekly,
			Purchasable:     purchasable,
		})
	}
	return result, wallet, nil
}

// remainingFor computes remaining purchases per UTC window. A pack with no
// configured limit for a window is unrestricted in that window.
func (s *StoreService) remainingFor(ctx context.Context, userID int64, pack *domain.PackDefinition) (daily, weekly *int, purchasable bool, err error) {
	now := s.now()
	purchasable = true

	if pack.DailyLimit > 0 {
		from, to := store.DayWindow(now)
		count, cerr := s.events.CountBySource(ctx, userID, domain.SourceShopPackPurchase, purchaseReference(pack.ID), from, to)
		if cerr != nil {
			return nil, nil, false, cerr
		}
		rem := pack.DailyLimit - count
		if rem < 0 {
			rem = 0
		}
		daily = &rem
		if rem == 0 {
			purchasable = false
		}
	}

	if pack.WeeklyLimit > 0 {
		from, to := store.WeekWindow(now)
		count, cerr := s.events.CountBySource(ctx, userID, domain.SourceShopPackPurchase, purchaseReference(pack.ID), from, to)
		if cerr != nil {
			return nil, nil, false, cerr
		}
		rem := pack.WeeklyLimit - count
		if rem < 0 {
			rem = 0
		}
		weekly = &rem
		if rem == 0 {
			purchasable = false
		}
	}

	return daily, weekly, purchasable, nil
}

// PurchaseResult is the outcome of a successful pack purchase.
type PurchaseResult struct {
	Cards       []domain.RevealedCard    `json:"cards"`
	Wallet      *domain.Wallet           `json:"wallet"`
	Progression *domain.ProgressionState `json:"progression"`
}

// PurchasePack runs the purchase saga: limit check, debit, draw, award.
// The limit check and the debit execute under the same wallet row lock, so
// two concurrent purchases cannot both pass a remaining count of one.
// Rejections never mutate state. Any failure after the debit triggers a
// compensating refund before the error is surfaced, wrapped in
// ChargedAndRefundedError.
func (s *StoreService) PurchasePack(ctx context.Context, userID int64, packID string) (*PurchaseResult, error) {
	pack, ok := s.packs[packID]
	if !ok {
		return nil, ErrUnknownPack
	}

	attemptID := uuid.NewString()

	debit := &domain.LedgerEvent{
		UserID:      userID,
		Source:      domain.SourceShopPackPurchase,
		ReferenceID: purchaseReference(pack.ID),
		Meta:        map[string]interface{}{"pack_id": pack.ID, "attempt_id": attemptID},
	}
	if pack.Currency == domain.CurrencyDiamonds {
		debit.DiamondsDelta = -pack.Price
	} else {
		debit.CoinsDelta = -pack.Price
	}

	// The guard counts the window with the wallet row locked: a competing
	// purchase has either committed (and is counted) or is still blocked.
	wallet, prog, err := s.ledger.ApplyEventGuarded(ctx, debit, func(ctx context.Context) error {
		_, _, purchasable, gerr := s.remainingFor(ctx, userID, pack)
		if gerr != nil {
			return gerr
		}
		if !purchasable {
			return ErrPurchaseLimitExceeded
		}
		return nil
	})
	if err != nil {
		// Never charged; report directly (covers the concurrent-spend race
		// on funds, which the locked balance check rejects).
		return nil, err
	}

	cards, err := s.drawForPack(ctx, userID, pack)
	if err != nil {
		return nil, s.compensate(ctx, userID, pack, attemptID, err)
	}

	for _, award := range aggregateAwards(cards) {
		wallet, prog, err = s.ledger.RegisterCardAward(ctx, userID, award.card, award.quantity, domain.SourceCardAwarded, purchaseReference(pack.ID))
		if err != nil {
			return nil, s.compensate(ctx, userID, pack, attemptID, err)
		}
	}

	return &PurchaseResult{Cards: cards, Wallet: wallet, Progression: prog}, nil
}

func (s *StoreService) drawForPack(ctx context.Context, userID int64, pack *domain.PackDefinition) ([]domain.RevealedCard, error) {
	pool, err := s.catalog.EligibleCards(ctx, pack)
	if err != nil {
		return nil, err
	}
	owned, err := s.inventory.CollectionSnapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.draw.Draw(pack, pool, owned)
}

type cardAward struct {
	card     domain.CardRef
	quantity int64
}

// aggregateAwards folds revealed cards into per-card award quantities,
// preserving first-seen order.
func aggregateAwards(cards []domain.RevealedCard) []cardAward {
	byKey := make(map[domain.CardKey]int)
	var awards []cardAward
	for _, c := range cards {
		key := c.Key()
		if i, ok := byKey[key]; ok {
			awards[i].quantity++
			continue
		}
		byKey[key] = len(awards)
		awards = append(awards, cardAward{
			card: domain.CardRef{
				CardType: c.CardType,
				CardID:   c.CardID,
				Rarity:   c.Rarity,
				Name:     c.Name,
				ImageRef: c.ImageRef,
			},
			quantity: 1,
		})
	}
	return awards
}

// compensate appends the inverse credit for a failed post-debit purchase.
// The refund is idempotent: it is skipped when the ledger already holds as
// many refunds as purchases for this pack reference.
func (s *StoreService) compensate(ctx context.Context, userID int64, pack *domain.PackDefinition, attemptID string, cause error) error {
	purchases, err := s.events.CountByReference(ctx, userID, domain.SourceShopPackPurchase, purchaseReference(pack.ID))
	if err == nil {
		var refunds int
		refunds, err = s.events.CountByReference(ctx, userID, domain.SourceShopRefund, refundReference(pack.ID))
		if err == nil && refunds >= purchases {
			logger.Warn("refund already recorded, skipping compensation",
				"user_id", userID, "pack_id", pack.ID, "attempt_id", attemptID)
			return &ChargedAndRefundedError{Err: cause}
		}
	}
	if err != nil {
		logger.Error("refund dedup check failed, attempting refund anyway",
			"user_id", userID, "pack_id", pack.ID, "attempt_id", attemptID, "error", err)
	}

	refund := &domain.LedgerEvent{
		UserID:      userID,
		Source:      domain.SourceShopRefund,
		ReferenceID: refundReference(pack.ID),
		Meta:        map[string]interface{}{"pack_id": pack.ID, "attempt_id": attemptID},
	}
	if pack.Currency == domain.CurrencyDiamonds {
		refund.DiamondsDelta = pack.Price
	} else {
		refund.CoinsDelta = pack.Price
	}

	if _, _, rerr := s.ledger.ApplyEvent(ctx, refund); rerr != nil {
		logger.Error("compensation failed, user charged but not refunded",
			"user_id", userID, "pack_id", pack.ID, "attempt_id", attemptID,
			"cause", cause, "refund_error", rerr)
		return &CompensationFailedError{Err: cause, RefundErr: rerr}
	}

	logger.Warn("purchase refunded after failure",
		"user_id", userID, "pack_id", pack.ID, "attempt_id", attemptID, "cause", cause)
	return &ChargedAndRefundedError{Err: cause}
}

// SellItem is one card-and-quantity pair in a sell request.
type SellItem struct {
	CardType domain.CardType `json:"card_type" binding:"required"`
	CardID   int64           `json:"card_id" binding:"required"`
	Quantity int64           `json:"quantity" binding:"required,min=1"`
}

// SellResult is the outcome of a sell request.
type SellResult struct {
	SoldCount   int64                    `json:"sold_count"`
	CoinsEarned int64                    `json:"coins_earned"`
	Wallet      *domain.Wallet           `json:"wallet"`
	Progression *domain.ProgressionState `json:"progression"`
}

// SellCards discards the given cards from the user's inventory, crediting the
// fixed sell value per rarity through the ledger. The whole batch is checked
// against the collection before the first discard: an invalid item rejects
// the request with nothing sold.
func (s *StoreService) SellCards(ctx context.Context, userID int64, items []SellItem) (*SellResult, error) {
	if len(items) == 0 {
		return nil, ErrInvalidQuantity
	}

	requested := make(map[domain.CardKey]int64)
	for _, item := range items {
		if item.Quantity < 1 {
			return nil, ErrInvalidQuantity
		}
		requested[domain.CardKey{CardType: item.CardType, CardID: item.CardID}] += item.Quantity
	}

	owned, err := s.inventory.CollectionSnapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	for key, qty := range requested {
		have, ok := owned[key]
		if !ok {
			return nil, ErrCardNotFoundInInventory
		}
		if qty > have {
			return nil, ErrInvalidQuantity
		}
	}

	result := &SellResult{}
	for _, item := range items {
		key := domain.CardKey{CardType: item.CardType, CardID: item.CardID}
		wallet, prog, coins, err := s.ledger.DiscardUserCard(ctx, userID, key, item.Quantity)
		if err != nil {
			return nil, err
		}
		result.SoldCount += item.Quantity
		result.CoinsEarned += coins
		result.Wallet = wallet
		result.Progression = prog
	}
	return result, nil
}

// DailyLoginResult is the outcome of a daily login claim.
type DailyLoginResult struct {
	Granted     bool                     `json:"granted"`
	Wallet      *domain.Wallet           `json:"wallet"`
	Progression *domain.ProgressionState `json:"progression"`
}

const (
	dailyLoginXP    = 5
	dailyLoginCoins = 5
)

// RegisterDailyLoginReward grants the daily login bonus at most once per UTC
// calendar day. A repeat call within the same day returns granted=false with
// state unchanged.
func (s *StoreService) RegisterDailyLoginReward(ctx context.Context, userID int64) (*DailyLoginResult, error) {
	now := s.now()
	from, to := store.DayWindow(now)

	count, err := s.events.CountBySource(ctx, userID, domain.SourceDailyLogin, "", from, to)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		wallet, prog, err := s.ledger.SnapshotFor(ctx, userID)
		if err != nil {
			return nil, err
		}
		return &DailyLoginResult{Granted: false, Wallet: wallet, Progression: prog}, nil
	}

	ev := &domain.LedgerEvent{
		UserID:      userID,
		Source:      domain.SourceDailyLogin,
		XPDelta:     dailyLoginXP,
		CoinsDelta:  dailyLoginCoins,
		ReferenceID: dailyLoginReference(now),
	}
	wallet, prog, err := s.ledger.ApplyEvent(ctx, ev)
	if err != nil {
		return nil, err
	}
	return &DailyLoginResult{Granted: true, Wallet: wallet, Progression: prog}, nil
}

// StarterPackResult is the outcome of a starter pack grant.
type StarterPackResult struct {
	Granted     bool                     `json:"granted"`
	Cards       []domain.RevealedCard    `json:"cards,omitempty"`
	Wallet      *domain.Wallet           `json:"wallet"`
	Progression *domain.ProgressionState `json:"progression"`
}

// GrantStarterPack opens the free starter pack, at most once per user. No
// currency moves, so there is nothing to compensate on failure.
func (s *StoreService) GrantStarterPack(ctx context.Context, userID int64) (*StarterPackResult, error) {
	opened, err := s.events.HasReference(ctx, userID, domain.SourceStarterPackOpened, starterPackReference)
	if err != nil {
		return nil, err
	}
	if opened {
		wallet, prog, err := s.ledger.SnapshotFor(ctx, userID)
		if err != nil {
			return nil, err
		}
		return &StarterPackResult{Granted: false, Wallet: wallet, Progression: prog}, nil
	}

	cards, err := s.drawForPack(ctx, userID, s.starter)
	if err != nil {
		return nil, err
	}

	var wallet *domain.Wallet
	var prog *domain.ProgressionState
	for _, award := range aggregateAwards(cards) {
		wallet, prog, err = s.ledger.RegisterCardAward(ctx, userID, award.card, award.quantity, domain.SourceStarterPackOpened, starterPackReference)
		if err != nil {
			return nil, err
		}
	}

	return &StarterPackResult{Granted: true, Cards: cards, Wallet: wallet, Progression: prog}, nil
}

// Packs returns the static pack catalog.
func (s *StoreService) Packs() []domain.PackDefinition {
	return s.order
}
