package store

import (
	"errors"
	"math/rand"
	"time"

	"chaotic_backend/internal/domain"
)

var (
	// ErrEmptyPool means no eligible card exists for a draw slot, even after
	// allowing in-draw duplicates.
	ErrEmptyPool = errors.New("card pool cannot satisfy draw")
	// ErrUnsatisfiableGuarantee means the pool could not fulfil the pack's
	// configured minimum-rarity guarantee. The whole purchase must abort.
	ErrUnsatisfiableGuarantee = errors.New("pack guarantee cannot be satisfied")
)

// DrawEngine selects randomized card rewards from a weighted rarity pool.
type DrawEngine struct {
	rng *rand.Rand
}

// NewDrawEngine creates an engine with a time-seeded source.
func NewDrawEngine() *DrawEngine {
	return NewDrawEngineWithSource(rand.NewSource(time.Now().UnixNano()))
}

// NewDrawEngineWithSource creates an engine with an explicit source, for
// deterministic tests.
func NewDrawEngineWithSource(src rand.Source) *DrawEngine {
	return &DrawEngine{rng: rand.New(src)}
}

// Draw produces exactly pack.CardsCount cards from pool. owned is a snapshot
// of the user's collection taken before the draw; it is only read, never
// mutated, so the duplicate flag is independent of in-draw selection.
func (e *DrawEngine) Draw(pack *domain.PackDefinition, pool []domain.CardRef, owned map[domain.CardKey]int64) ([]domain.RevealedCard, error) {
	guaranteedRemaining := 0
	if pack.GuaranteedMinRarity != "" {
		guaranteedRemaining = pack.GuaranteedCount
	}

	selected := make(map[domain.CardKey]bool, pack.CardsCount)
	revealed := make([]domain.RevealedCard, 0, pack.CardsCount)

	for i := 0; i < pack.CardsCount; i++ {
		rolled := e.rollRarity(pack.RarityWeights)

		// Force the guarantee once the remaining slots can no longer absorb it.
		minRarity := domain.Rarity("")
		if guaranteedRemaining > 0 && guaranteedRemaining >= pack.CardsCount-i {
			minRarity = pack.GuaranteedMinRarity
		}

		target := domain.RarityRank(rolled)
		if minRarity != "" && domain.RarityRank(minRarity) > target {
			target = domain.RarityRank(minRarity)
		}

		card, ok := e.pickAtRank(pack, pool, selected, target, true)
		if !ok {
			card, ok = e.pickAtRank(pack, pool, selected, target, false)
		}
		if !ok {
			return nil, ErrEmptyPool
		}

		selected[card.Key()] = true
		if pack.GuaranteedMinRarity != "" && domain.RarityRank(card.Rarity) >= domain.RarityRank(pack.GuaranteedMinRarity) && guaranteedRemaining > 0 {
			guaranteedRemaining--
		}

		revealed = append(revealed, domain.RevealedCard{
			CardType:                card.CardType,
			CardID:                  card.CardID,
			Name:                    card.Name,
			Rarity:                  card.Rarity,
			ImageRef:                card.ImageRef,
			IsDuplicateInCollection: owned[card.Key()] > 0,
			SellValue:               domain.SellValueForRarity(card.Rarity),
		})
	}

	if guaranteedRemaining > 0 {
		return nil, ErrUnsatisfiableGuarantee
	}

	return revealed, nil
}

// rollRarity picks a rarity by cumulative-weight roulette. A zero-weight
// rarity is never chosen; a zero total falls back to the lowest tier.
func (e *DrawEngine) rollRarity(weights map[domain.Rarity]int64) domain.Rarity {
	total := int64(0)
	for _, r := range domain.RarityOrder {
		if w := weights[r]; w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return domain.RarityOrder[0]
	}

	roll := e.rng.Int63n(total)
	acc := int64(0)
	for _, r := range domain.RarityOrder {
		w := weights[r]
		if w <= 0 {
			continue
		}
		acc += w
		if roll < acc {
			return r
		}
	}
	return domain.RarityOrder[len(domain.RarityOrder)-1]
}

// pickAtRank searches ranks starting at target, first upward to the highest
// tier and then downward to the lowest, and picks a uniform random candidate
// at the first rank that has one.
func (e *DrawEngine) pickAtRank(pack *domain.PackDefinition, pool []domain.CardRef, selected map[domain.CardKey]bool, target int, avoidDuplicates bool) (domain.CardRef, bool) {
	ranks := make([]int, 0, len(domain.RarityOrder))
	for r := target; r < len(domain.RarityOrder); r++ {
		ranks = append(ranks, r)
	}
	for r := target - 1; r >= 0; r-- {
		ranks = append(ranks, r)
	}

	for _, rank := range ranks {
		var candidates []domain.CardRef
		for _, c := range pool {
			if domain.RarityRank(c.Rarity) != rank {
				continue
			}
			if !pack.AllowsType(c.CardType) {
				continue
			}
			if avoidDuplicates && selected[c.Key()] {
				continue
			}
			candidates = append(candidates, c)
		}
		if len(candidates) > 0 {
			return candidates[e.rng.Intn(len(candidates))], true
		}
	}

	return domain.CardRef{}, false
}
