package store

import (
	"errors"
	"math/rand"
	"testing"

	"chaotic_backend/internal/domain"
)

func testPool() []domain.CardRef {
	return []domain.CardRef{
		{CardType: domain.CardTypeCreature, CardID: 1, Rarity: domain.RarityComum, Name: "Comum A"},
		{CardType: domain.CardTypeCreature, CardID: 2, Rarity: domain.RarityComum, Name: "Comum B"},
		{CardType: domain.CardTypeAttack, CardID: 3, Rarity: domain.RarityComum, Name: "Comum C"},
		{CardType: domain.CardTypeAttack, CardID: 4, Rarity: domain.RarityIncomum, Name: "Incomum A"},
		{CardType: domain.CardTypeLocation, CardID: 5, Rarity: domain.RarityIncomum, Name: "Incomum B"},
		{CardType: domain.CardTypeCreature, CardID: 6, Rarity: domain.RarityRara, Name: "Rara A"},
		{CardType: domain.CardTypeMugic, CardID: 7, Rarity: domain.RaritySuperRara, Name: "Super A"},
		{CardType: domain.CardTypeBattlegear, CardID: 8, Rarity: domain.RarityUltraRara, Name: "Ultra A"},
	}
}

func testPack() *domain.PackDefinition {
	return &domain.PackDefinition{
		ID:         "test",
		Currency:   domain.CurrencyCoins,
		Price:      100,
		CardsCount: 5,
		CardTypes:  domain.AllCardTypes,
		RarityWeights: map[domain.Rarity]int64{
			domain.RarityComum:     60,
			domain.RarityIncomum:   25,
			domain.RarityRara:      10,
			domain.RaritySuperRara: 4,
			domain.RarityUltraRara: 1,
		},
	}
}

func TestDraw_CountAndSellValues(t *testing.T) {
	e := NewDrawEngineWithSource(rand.NewSource(1))
	cards, err := e.Draw(testPack(), testPool(), nil)
	if err != nil {
		t.Fatalf("draw failed: %v", err)
	}
	if len(cards) != 5 {
		t.Fatalf("expected 5 cards, got %d", len(cards))
	}
	for _, c := range cards {
		if c.SellValue != domain.SellValueForRarity(c.Rarity) {
			t.Fatalf("card %d sell value %d does not match rarity %s", c.CardID, c.SellValue, c.Rarity)
		}
	}
}

func TestDraw_GuaranteeSatisfied(t *testing.T) {
	pack := testPack()
	pack.GuaranteedMinRarity = domain.RarityRara
	pack.GuaranteedCount = 1

	for seed := int64(0); seed < 50; seed++ {
		e := NewDrawEngineWithSource(rand.NewSource(seed))
		cards, err := e.Draw(pack, testPool(), nil)
		if err != nil {
			t.Fatalf("seed %d: draw failed: %v", seed, err)
		}
		found := 0
		for _, c := range cards {
			if domain.RarityRank(c.Rarity) >= domain.RarityRank(domain.RarityRara) {
				found++
			}
		}
		if found < 1 {
			t.Fatalf("seed %d: guarantee not honored, cards: %+v", seed, cards)
		}
	}
}

func TestDraw_NoInDrawDuplicatesWhenPoolSuffices(t *testing.T) {
	e := NewDrawEngineWithSource(rand.NewSource(3))
	cards, err := e.Draw(testPack(), testPool(), nil)
	if err != nil {
		t.Fatalf("draw failed: %v", err)
	}
	seen := map[domain.CardKey]bool{}
	for _, c := range cards {
		if seen[c.Key()] {
			t.Fatalf("duplicate card %v selected while pool had spare candidates", c.Key())
		}
		seen[c.Key()] = true
	}
}

func TestDraw_AllowsDuplicatesWhenPoolExhausted(t *testing.T) {
	pool := []domain.CardRef{
		{CardType: domain.CardTypeCreature, CardID: 1, Rarity: domain.RarityComum, Name: "Only"},
	}
	e := NewDrawEngineWithSource(rand.NewSource(4))
	cards, err := e.Draw(testPack(), pool, nil)
	if err != nil {
		t.Fatalf("draw failed: %v", err)
	}
	if len(cards) != 5 {
		t.Fatalf("expected 5 cards, got %d", len(cards))
	}
	for _, c := range cards {
		if c.CardID != 1 {
			t.Fatalf("unexpected card %d", c.CardID)
		}
	}
}

func TestDraw_EmptyPool(t *testing.T) {
	e := NewDrawEngineWithSource(rand.NewSource(5))
	if _, err := e.Draw(testPack(), nil, nil); !errors.Is(err, ErrEmptyPool) {
		t.Fatalf("expected ErrEmptyPool, got %v", err)
	}
}

func TestDraw_UnsatisfiableGuarantee(t *testing.T) {
	pack := testPack()
	pack.GuaranteedMinRarity = domain.RarityUltraRara
	pack.GuaranteedCount = 2

	// Pool has no ultra_rara at all; only lower tiers can be picked, so the
	// guarantee can never be consumed.
	pool := []domain.CardRef{
		{CardType: domain.CardTypeCreature, CardID: 1, Rarity: domain.RarityComum},
		{CardType: domain.CardTypeCreature, CardID: 2, Rarity: domain.RarityIncomum},
	}
	e := NewDrawEngineWithSource(rand.NewSource(6))
	if _, err := e.Draw(pack, pool, nil); !errors.Is(err, ErrUnsatisfiableGuarantee) {
		t.Fatalf("expected ErrUnsatisfiableGuarantee, got %v", err)
	}
}

func TestDraw_ZeroWeightsFallToLowest(t *testing.T) {
	pack := testPack()
	pack.RarityWeights = map[domain.Rarity]int64{}
	pack.CardsCount = 3

	e := NewDrawEngineWithSource(rand.NewSource(7))
	cards, err := e.Draw(pack, testPool(), nil)
	if err != nil {
		t.Fatalf("draw failed: %v", err)
	}
	for _, c := range cards {
		if c.Rarity != domain.RarityComum {
			t.Fatalf("zero weights should roll the lowest tier, got %s", c.Rarity)
		}
	}
}

func TestDraw_DuplicateFlagFromSnapshot(t *testing.T) {
	owned := map[domain.CardKey]int64{
		{CardType: domain.CardTypeCreature, CardID: 1}: 2,
		{CardType: domain.CardTypeCreature, CardID: 2}: 1,
		{CardType: domain.CardTypeAttack, CardID: 3}:   1,
	}
	pack := testPack()
	pack.CardsCount = 3
	pack.RarityWeights = map[domain.Rarity]int64{domain.RarityComum: 1}

	pool := []domain.CardRef{
		{CardType: domain.CardTypeCreature, CardID: 1, Rarity: domain.RarityComum},
		{CardType: domain.CardTypeCreature, CardID: 2, Rarity: domain.RarityComum},
		{CardType: domain.CardTypeAttack, CardID: 9, Rarity: domain.RarityComum},
	}

	e := NewDrawEngineWithSource(rand.NewSource(8))
	cards, err := e.Draw(pack, pool, owned)
	if err != nil {
		t.Fatalf("draw failed: %v", err)
	}
	for _, c := range cards {
		wantDup := owned[c.Key()] > 0
		if c.IsDuplicateInCollection != wantDup {
			t.Fatalf("card %v duplicate flag = %v, want %v", c.Key(), c.IsDuplicateInCollection, wantDup)
		}
	}
}

func TestDraw_RespectsCardTypes(t *testing.T) {
	pack := testPack()
	pack.CardTypes = []domain.CardType{domain.CardTypeCreature}
	pack.CardsCount = 3

	e := NewDrawEngineWithSource(rand.NewSource(9))
	cards, err := e.Draw(pack, testPool(), nil)
	if err != nil {
		t.Fatalf("draw failed: %v", err)
	}
	for _, c := range cards {
		if c.CardType != domain.CardTypeCreature {
			t.Fatalf("pack restricted to creatures yielded %s", c.CardType)
		}
	}
}
