package service

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"chaotic_backend/internal/domain"
	"chaotic_backend/internal/store"
)

// fakeBackend is an in-memory EconomyLedger + LedgerReader + CollectionReader
// + CatalogProvider implementing the same invariants as the Postgres-backed
// ProgressionService.
type fakeBackend struct {
	now       *time.Time
	wallets   map[int64]*domain.Wallet
	xpTotals  map[int64]int64
	events    []*domain.LedgerEvent
	inventory map[int64]map[domain.CardKey]*domain.InventoryEntry
	pool      []domain.CardRef

	awardErr    error  // injected failure for the award step
	beforeGuard func() // runs before the guard, simulating a competing commit
}

func newFakeBackend(now *time.Time) *fakeBackend {
	return &fakeBackend{
		now:       now,
		wallets:   make(map[int64]*domain.Wallet),
		xpTotals:  make(map[int64]int64),
		inventory: make(map[int64]map[domain.CardKey]*domain.InventoryEntry),
	}
}

func (f *fakeBackend) wallet(userID int64) *domain.Wallet {
	w, ok := f.wallets[userID]
	if !ok {
		w = &domain.Wallet{ID: userID, UserID: userID}
		f.wallets[userID] = w
	}
	return w
}

func (f *fakeBackend) snapshot(userID int64) (*domain.Wallet, *domain.ProgressionState) {
	w := *f.wallet(userID)
	p := domain.ProgressionFromTotal(userID, f.xpTotals[userID])
	return &w, &p
}

func (f *fakeBackend) ApplyEvent(_ context.Context, ev *domain.LedgerEvent) (*domain.Wallet, *domain.ProgressionState, error) {
	w := f.wallet(ev.UserID)
	newCoins := w.Coins + ev.CoinsDelta
	newDiamonds := w.Diamonds + ev.DiamondsDelta
	if newCoins < 0 || newDiamonds < 0 {
		return nil, nil, ErrInsufficientFunds
	}
	w.Coins = newCoins
	w.Diamonds = newDiamonds
	f.xpTotals[ev.UserID] += ev.XPDelta

	stored := *ev
	stored.ID = int64(len(f.events) + 1)
	stored.CreatedAt = *f.now
	f.events = append(f.events, &stored)

	wc, p := f.snapshot(ev.UserID)
	return wc, p, nil
}

func (f *fakeBackend) ApplyEventGuarded(ctx context.Context, ev *domain.LedgerEvent, guard func(context.Context) error) (*domain.Wallet, *domain.ProgressionState, error) {
	if f.beforeGuard != nil {
		f.beforeGuard()
	}
	if guard != nil {
		if err := guard(ctx); err != nil {
			return nil, nil, err
		}
	}
	return f.ApplyEvent(ctx, ev)
}

func (f *fakeBackend) RegisterCardAward(ctx context.Context, userID int64, card domain.CardRef, quantity int64, source domain.EventSource, referenceID string) (*domain.Wallet, *domain.ProgressionState, error) {
	if f.awardErr != nil {
		return nil, nil, f.awardErr
	}
	inv, ok := f.inventory[userID]
	if !ok {
		inv = make(map[domain.CardKey]*domain.InventoryEntry)
		f.inventory[userID] = inv
	}
	entry, ok := inv[card.Key()]
	if !ok {
		entry = &domain.InventoryEntry{UserID: userID, CardType: card.CardType, CardID: card.CardID, Rarity: card.Rarity}
		inv[card.Key()] = entry
	}
	entry.Quantity += quantity

	return f.ApplyEvent(ctx, &domain.LedgerEvent{
		UserID:      userID,
		Source:      source,
		XPDelta:     domain.XPForRarity(card.Rarity) * quantity,
		CardType:    card.CardType,
		CardID:      card.CardID,
		CardRarity:  card.Rarity,
		Quantity:    quantity,
		ReferenceID: referenceID,
	})
}

func (f *fakeBackend) DiscardUserCard(ctx context.Context, userID int64, key domain.CardKey, quantity int64) (*domain.Wallet, *domain.ProgressionState, int64, error) {
	if quantity < 1 {
		return nil, nil, 0, ErrInvalidQuantity
	}
	entry, ok := f.inventory[userID][key]
	if !ok {
		return nil, nil, 0, ErrCardNotFoundInInventory
	}
	if quantity > entry.Quantity {
		return nil, nil, 0, ErrInvalidQuantity
	}
	entry.Quantity -= quantity
	if entry.Quantity == 0 {
		delete(f.inventory[userID], key)
	}

	coins := domain.SellValueForRarity(entry.Rarity) * quantity
	w, p, err := f.ApplyEvent(ctx, &domain.LedgerEvent{
		UserID:     userID,
		Source:     domain.SourceCardDiscarded,
		CoinsDelta: coins,
		CardType:   key.CardType,
		CardID:     key.CardID,
		CardRarity: entry.Rarity,
		Quantity:   quantity,
	})
	return w, p, coins, err
}

func (f *fakeBackend) SnapshotFor(_ context.Context, userID int64) (*domain.Wallet, *domain.ProgressionState, error) {
	w, p := f.snapshot(userID)
	return w, p, nil
}

func (f *fakeBackend) CountBySource(_ context.Context, userID int64, source domain.EventSource, referenceID string, from, to time.Time) (int, error) {
	count := 0
	for _, ev := range f.events {
		if ev.UserID != userID || ev.Source != source {
			continue
		}
		if referenceID != "" && ev.ReferenceID != referenceID {
			continue
		}
		if ev.CreatedAt.Before(from) || !ev.CreatedAt.Before(to) {
			continue
		}
		count++
	}
	return count, nil
}

func (f *fakeBackend) CountByReference(_ context.Context, userID int64, source domain.EventSource, referenceID string) (int, error) {
	count := 0
	for _, ev := range f.events {
		if ev.UserID == userID && ev.Source == source && ev.ReferenceID == referenceID {
			count++
		}
	}
	return count, nil
}

func (f *fakeBackend) HasReference(ctx context.Context, userID int64, source domain.EventSource, referenceID string) (bool, error) {
	n, err := f.CountByReference(ctx, userID, source, referenceID)
	return n > 0, err
}

func (f *fakeBackend) CollectionSnapshot(_ context.Context, userID int64) (map[domain.CardKey]int64, error) {
	snapshot := make(map[domain.CardKey]int64)
	for key, entry := range f.inventory[userID] {
		snapshot[key] = entry.Quantity
	}
	return snapshot, nil
}

func (f *fakeBackend) EligibleCards(_ context.Context, _ *domain.PackDefinition) ([]domain.CardRef, error) {
	return f.pool, nil
}

func (f *fakeBackend) countEvents(userID int64, source domain.EventSource) int {
	count := 0
	for _, ev := range f.events {
		if ev.UserID == userID && ev.Source == source {
			count++
		}
	}
	return count
}

func testStorePack() domain.PackDefinition {
	return domain.PackDefinition{
		ID:         "test",
		Name:       "Test Pack",
		Currency:   domain.CurrencyCoins,
		Price:      200,
		CardsCount: 3,
		CardTypes:  domain.AllCardTypes,
		RarityWeights: map[domain.Rarity]int64{
			domain.RarityComum:   80,
			domain.RarityIncomum: 15,
			domain.RarityRara:    5,
		},
		DailyLimit: 2,
	}
}

func newTestStore(fake *fakeBackend, now *time.Time, packs ...domain.PackDefinition) *StoreService {
	return &StoreService{
		packs:     indexPacks(packs),
		order:     packs,
		starter:   store.StarterPack(),
		catalog:   fake,
		ledger:    fake,
		events:    fake,
		inventory: fake,
		draw:      store.NewDrawEngineWithSource(rand.NewSource(42)),
		now:       func() time.Time { return *now },
	}
}

func setup(t *testing.T) (*StoreService, *fakeBackend, *time.Time) {
	t.Helper()
	now := time.Date(2025, 6, 4, 12, 0, 0, 0, time.UTC)
	fake := newFakeBackend(&now)
	fake.pool = []domain.CardRef{
		{CardType: domain.CardTypeCreature, CardID: 1, Rarity: domain.RarityComum, Name: "Maxxor"},
		{CardType: domain.CardTypeCreature, CardID: 2, Rarity: domain.RarityComum, Name: "Chaor"},
		{CardType: domain.CardTypeAttack, CardID: 3, Rarity: domain.RarityComum, Name: "Torrent"},
		{CardType: domain.CardTypeLocation, CardID: 4, Rarity: domain.RarityIncomum, Name: "Kiru City"},
		{CardType: domain.CardTypeMugic, CardID: 5, Rarity: domain.RarityRara, Name: "Canon"},
	}
	svc := newTestStore(fake, &now, testStorePack())
	return svc, fake, &now
}

func TestPurchasePack_Success(t *testing.T) {
	svc, fake, _ := setup(t)
	fake.wallet(1).Coins = 1000

	res, err := svc.PurchasePack(context.Background(), 1, "test")
	if err != nil {
		t.Fatalf("purchase failed: %v", err)
	}
	if len(res.Cards) != 3 {
		t.Fatalf("expected 3 cards, got %d", len(res.Cards))
	}
	if res.Wallet.Coins != 800 {
		t.Fatalf("wallet coins = %d, want 800", res.Wallet.Coins)
	}
	if fake.countEvents(1, domain.SourceShopPackPurchase) != 1 {
		t.Fatalf("expected exactly one purchase event")
	}
	if fake.countEvents(1, domain.SourceCardAwarded) == 0 {
		t.Fatalf("expected award events")
	}
	if res.Progression.XPTotal == 0 {
		t.Fatalf("expected XP from awarded cards")
	}

	var inventoryTotal int64
	for _, entry := range fake.inventory[1] {
		inventoryTotal += entry.Quantity
	}
	if inventoryTotal != 3 {
		t.Fatalf("inventory total = %d, want 3", inventoryTotal)
	}
}

func TestPurchasePack_UnknownPack(t *testing.T) {
	svc, _, _ := setup(t)
	if _, err := svc.PurchasePack(context.Background(), 1, "nope"); !errors.Is(err, ErrUnknownPack) {
		t.Fatalf("expected ErrUnknownPack, got %v", err)
	}
}

func TestPurchasePack_InsufficientFundsNoMutation(t *testing.T) {
	svc, fake, _ := setup(t)
	fake.wallet(1).Coins = 150 // below the 200 price

	if _, err := svc.PurchasePack(context.Background(), 1, "test"); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	if len(fake.events) != 0 {
		t.Fatalf("pre-debit rejection must not write events, got %d", len(fake.events))
	}
	if fake.wallet(1).Coins != 150 {
		t.Fatalf("wallet mutated on rejection")
	}
}

func TestPurchasePack_RateLimitExactness(t *testing.T) {
	svc, fake, now := setup(t)
	fake.wallet(1).Coins = 10000

	for i := 0; i < 2; i++ {
		if _, err := svc.PurchasePack(context.Background(), 1, "test"); err != nil {
			t.Fatalf("purchase %d failed: %v", i+1, err)
		}
	}
	if _, err := svc.PurchasePack(context.Background(), 1, "test"); !errors.Is(err, ErrPurchaseLimitExceeded) {
		t.Fatalf("third purchase: expected ErrPurchaseLimitExceeded, got %v", err)
	}

	// Next UTC day the window resets.
	*now = now.AddDate(0, 0, 1)
	if _, err := svc.PurchasePack(context.Background(), 1, "test"); err != nil {
		t.Fatalf("purchase after window reset failed: %v", err)
	}
}

func TestPurchasePack_LimitCountedUnderDebitLock(t *testing.T) {
	svc, fake, now := setup(t)
	fake.wallet(1).Coins = 10000

	// Another request for the same user wins the lock first and commits
	// purchases up to the daily limit before this attempt's guard runs.
	fake.beforeGuard = func() {
		fake.beforeGuard = nil
		for i := 0; i < 2; i++ {
			_, _, err := fake.ApplyEvent(context.Background(), &domain.LedgerEvent{
				UserID:      1,
				Source:      domain.SourceShopPackPurchase,
				CoinsDelta:  -200,
				ReferenceID: purchaseReference("test"),
			})
			if err != nil {
				t.Fatalf("competing purchase failed: %v", err)
			}
		}
	}

	if _, err := svc.PurchasePack(context.Background(), 1, "test"); !errors.Is(err, ErrPurchaseLimitExceeded) {
		t.Fatalf("expected ErrPurchaseLimitExceeded, got %v", err)
	}
	if n := fake.countEvents(1, domain.SourceShopPackPurchase); n != 2 {
		t.Fatalf("purchase events = %d, want only the competing 2", n)
	}
	if fake.wallet(1).Coins != 10000-400 {
		t.Fatalf("wallet coins = %d, want untouched by rejected attempt", fake.wallet(1).Coins)
	}

	// Next day the window is clear again for this user.
	*now = now.AddDate(0, 0, 1)
	if _, err := svc.PurchasePack(context.Background(), 1, "test"); err != nil {
		t.Fatalf("purchase after window reset failed: %v", err)
	}
}

func TestPurchasePack_RefundSymmetry(t *testing.T) {
	svc, fake, _ := setup(t)
	fake.wallet(1).Coins = 500
	fake.awardErr = errors.New("award blew up")

	_, err := svc.PurchasePack(context.Background(), 1, "test")
	var refunded *ChargedAndRefundedError
	if !errors.As(err, &refunded) {
		t.Fatalf("expected ChargedAndRefundedError, got %v", err)
	}

	if fake.wallet(1).Coins != 500 {
		t.Fatalf("wallet coins = %d, want pre-purchase 500", fake.wallet(1).Coins)
	}
	if n := fake.countEvents(1, domain.SourceShopPackPurchase); n != 1 {
		t.Fatalf("purchase events = %d, want 1", n)
	}
	if n := fake.countEvents(1, domain.SourceShopRefund); n != 1 {
		t.Fatalf("refund events = %d, want 1", n)
	}
}

func TestPurchasePack_RefundNotDuplicated(t *testing.T) {
	svc, fake, _ := setup(t)
	fake.wallet(1).Coins = 10000
	fake.awardErr = errors.New("award blew up")

	// Two failed purchases of the same pack: each gets its own refund, the
	// second is not suppressed by the first.
	for i := 0; i < 2; i++ {
		if _, err := svc.PurchasePack(context.Background(), 1, "test"); err == nil {
			t.Fatalf("expected failure")
		}
	}
	if fake.wallet(1).Coins != 10000 {
		t.Fatalf("wallet coins = %d, want 10000", fake.wallet(1).Coins)
	}
	if n := fake.countEvents(1, domain.SourceShopRefund); n != 2 {
		t.Fatalf("refund events = %d, want 2", n)
	}
}

func TestRegisterDailyLoginReward_Idempotent(t *testing.T) {
	svc, fake, now := setup(t)

	first, err := svc.RegisterDailyLoginReward(context.Background(), 1)
	if err != nil {
		t.Fatalf("first claim failed: %v", err)
	}
	if !first.Granted {
		t.Fatalf("first claim should grant")
	}
	if first.Wallet.Coins != 5 || first.Progression.XPTotal != 5 {
		t.Fatalf("unexpected grant amounts: coins=%d xp=%d", first.Wallet.Coins, first.Progression.XPTotal)
	}

	second, err := svc.RegisterDailyLoginReward(context.Background(), 1)
	if err != nil {
		t.Fatalf("second claim failed: %v", err)
	}
	if second.Granted {
		t.Fatalf("second claim in same day should not grant")
	}
	if second.Wallet.Coins != 5 || second.Progression.XPTotal != 5 {
		t.Fatalf("state changed on deduplicated claim")
	}
	if fake.countEvents(1, domain.SourceDailyLogin) != 1 {
		t.Fatalf("expected a single daily_login event")
	}

	*now = now.AddDate(0, 0, 1)
	third, err := svc.RegisterDailyLoginReward(context.Background(), 1)
	if err != nil {
		t.Fatalf("next-day claim failed: %v", err)
	}
	if !third.Granted {
		t.Fatalf("next UTC day should grant again")
	}
}

func TestSellCards_RoundTrip(t *testing.T) {
	svc, fake, _ := setup(t)

	card := domain.CardRef{CardType: domain.CardTypeCreature, CardID: 1, Rarity: domain.RarityComum, Name: "Maxxor"}
	if _, _, err := fake.RegisterCardAward(context.Background(), 1, card, 3, domain.SourceCardAwarded, ""); err != nil {
		t.Fatalf("seed award failed: %v", err)
	}
	coinsBefore := fake.wallet(1).Coins

	res, err := svc.SellCards(context.Background(), 1, []SellItem{
		{CardType: domain.CardTypeCreature, CardID: 1, Quantity: 3},
	})
	if err != nil {
		t.Fatalf("sell failed: %v", err)
	}
	if res.SoldCount != 3 || res.CoinsEarned != 60 {
		t.Fatalf("sold=%d earned=%d, want 3 and 60", res.SoldCount, res.CoinsEarned)
	}
	if res.Wallet.Coins != coinsBefore+60 {
		t.Fatalf("wallet coins = %d, want %d", res.Wallet.Coins, coinsBefore+60)
	}
	if _, ok := fake.inventory[1][card.Key()]; ok {
		t.Fatalf("inventory entry should be removed at zero quantity")
	}
}

func TestSellCards_Validation(t *testing.T) {
	svc, fake, _ := setup(t)

	if _, err := svc.SellCards(context.Background(), 1, nil); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("empty sell: expected ErrInvalidQuantity, got %v", err)
	}

	if _, err := svc.SellCards(context.Background(), 1, []SellItem{
		{CardType: domain.CardTypeCreature, CardID: 99, Quantity: 1},
	}); !errors.Is(err, ErrCardNotFoundInInventory) {
		t.Fatalf("expected ErrCardNotFoundInInventory, got %v", err)
	}

	card := domain.CardRef{CardType: domain.CardTypeCreature, CardID: 1, Rarity: domain.RarityComum}
	if _, _, err := fake.RegisterCardAward(context.Background(), 1, card, 1, domain.SourceCardAwarded, ""); err != nil {
		t.Fatalf("seed award failed: %v", err)
	}
	if _, err := svc.SellCards(context.Background(), 1, []SellItem{
		{CardType: domain.CardTypeCreature, CardID: 1, Quantity: 2},
	}); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("over-quantity sell: expected ErrInvalidQuantity, got %v", err)
	}
}

func TestSellCards_BatchRejectedBeforeMutation(t *testing.T) {
	svc, fake, _ := setup(t)

	card := domain.CardRef{CardType: domain.CardTypeCreature, CardID: 1, Rarity: domain.RarityComum, Name: "Maxxor"}
	if _, _, err := fake.RegisterCardAward(context.Background(), 1, card, 3, domain.SourceCardAwarded, ""); err != nil {
		t.Fatalf("seed award failed: %v", err)
	}
	coinsBefore := fake.wallet(1).Coins

	// Second item is not owned: nothing from the batch may be sold.
	if _, err := svc.SellCards(context.Background(), 1, []SellItem{
		{CardType: domain.CardTypeCreature, CardID: 1, Quantity: 2},
		{CardType: domain.CardTypeMugic, CardID: 99, Quantity: 1},
	}); !errors.Is(err, ErrCardNotFoundInInventory) {
		t.Fatalf("expected ErrCardNotFoundInInventory, got %v", err)
	}
	if got := fake.inventory[1][card.Key()].Quantity; got != 3 {
		t.Fatalf("inventory quantity = %d, want untouched 3", got)
	}
	if fake.wallet(1).Coins != coinsBefore {
		t.Fatalf("wallet mutated by rejected batch")
	}

	// Duplicate items summing past the owned quantity are also rejected
	// up front.
	if _, err := svc.SellCards(context.Background(), 1, []SellItem{
		{CardType: domain.CardTypeCreature, CardID: 1, Quantity: 2},
		{CardType: domain.CardTypeCreature, CardID: 1, Quantity: 2},
	}); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
	if got := fake.inventory[1][card.Key()].Quantity; got != 3 {
		t.Fatalf("inventory quantity = %d, want untouched 3", got)
	}
}

func TestGrantStarterPack_Once(t *testing.T) {
	svc, fake, _ := setup(t)

	first, err := svc.GrantStarterPack(context.Background(), 1)
	if err != nil {
		t.Fatalf("starter grant failed: %v", err)
	}
	if !first.Granted || len(first.Cards) != 6 {
		t.Fatalf("expected 6 starter cards, granted=%v n=%d", first.Granted, len(first.Cards))
	}

	second, err := svc.GrantStarterPack(context.Background(), 1)
	if err != nil {
		t.Fatalf("second starter grant errored: %v", err)
	}
	if second.Granted {
		t.Fatalf("starter pack must be granted at most once")
	}
	if fake.countEvents(1, domain.SourceStarterPackOpened) == 0 {
		t.Fatalf("expected starter_pack_opened events")
	}
}

func TestListPacksForUser_RemainingCounts(t *testing.T) {
	svc, fake, _ := setup(t)
	fake.wallet(1).Coins = 10000

	if _, err := svc.PurchasePack(context.Background(), 1, "test"); err != nil {
		t.Fatalf("purchase failed: %v", err)
	}

	packs, wallet, err := svc.ListPacksForUser(context.Background(), 1)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(packs) != 1 {
		t.Fatalf("expected 1 pack, got %d", len(packs))
	}
	if packs[0].RemainingDaily == nil || *packs[0].RemainingDaily != 1 {
		t.Fatalf("remaining daily = %v, want 1", packs[0].RemainingDaily)
	}
	if !packs[0].Purchasable {
		t.Fatalf("pack should still be purchasable")
	}
	if wallet == nil {
		t.Fatalf("wallet missing from listing")
	}
}
