package store

import "chaotic_backend/internal/domain"

// StarterPack is the free one-time pack opened for new players. It is not
// listed in the store and costs nothing.
func StarterPack() *domain.PackDefinition {
	return &domain.PackDefinition{
		ID:         "starter",
		Name:       "Pacote Inicial",
		Currency:   domain.CurrencyCoins,
		Price:      0,
		CardsCount: 6,
		CardTypes:  domain.AllCardTypes,
		RarityWeights: map[domain.Rarity]int64{
			domain.RarityComum:   70,
			domain.RarityIncomum: 25,
			domain.RarityRara:    5,
		},
	}
}

// DefaultPacks is the static pack catalog. Loaded once per process; pack
// definitions are never mutated at runtime.
func DefaultPacks() []domain.PackDefinition {
	return []domain.PackDefinition{
		{
			ID:         "basic",
			Name:       "Pacote Básico",
			Currency:   domain.CurrencyCoins,
			Price:      200,
			CardsCount: 5,
			CardTypes:  domain.AllCardTypes,
			RarityWeights: map[domain.Rarity]int64{
				domain.RarityComum:     55,
				domain.RarityIncomum:   28,
				domain.RarityRara:      12,
				domain.RaritySuperRara: 4,
				domain.RarityUltraRara: 1,
			},
			DailyLimit: 5,
		},
		{
			ID:                  "premium",
			Name:                "Pacote Premium",
			Currency:            domain.CurrencyDiamonds,
			Price:               50,
			CardsCount:          5,
			CardTypes:           domain.AllCardTypes,
			GuaranteedMinRarity: domain.RarityRara,
			GuaranteedCount:     1,
			RarityWeights: map[domain.Rarity]int64{
				domain.RarityComum:     35,
				domain.RarityIncomum:   30,
				domain.RarityRara:      22,
				domain.RaritySuperRara: 10,
				domain.RarityUltraRara: 3,
			},
			DailyLimit: 3,
		},
		{
			ID:                  "creature-elite",
			Name:                "Pacote de Criaturas Elite",
			Currency:            domain.CurrencyDiamonds,
			Price:               120,
			CardsCount:          3,
			CardTypes:           []domain.CardType{domain.CardTypeCreature},
			GuaranteedMinRarity: domain.RaritySuperRara,
			GuaranteedCount:     1,
			RarityWeights: map[domain.Rarity]int64{
				domain.RarityRara:      50,
				domain.RaritySuperRara: 38,
				domain.RarityUltraRara: 12,
			},
			WeeklyLimit: 2,
		},
		{
			ID:          "overworld",
			Name:        "Pacote OverWorld",
			Currency:    domain.CurrencyCoins,
			Price:       350,
			CardsCount:  4,
			CardTypes:   []domain.CardType{domain.CardTypeCreature, domain.CardTypeMugic},
			TribeFilter: "overworld",
			RarityWeights: map[domain.Rarity]int64{
				domain.RarityComum:     45,
				domain.RarityIncomum:   30,
				domain.RarityRara:      18,
				domain.RaritySuperRara: 6,
				domain.RarityUltraRara: 1,
			},
			DailyLimit: 2,
		},
		{
			ID:          "underworld",
			Name:        "Pacote UnderWorld",
			Currency:    domain.CurrencyCoins,
			Price:       350,
			CardsCount:  4,
			CardTypes:   []domain.CardType{domain.CardTypeCreature, domain.CardTypeMugic},
			TribeFilter: "underworld",
			RarityWeights: map[domain.Rarity]int64{
				domain.RarityComum:     45,
				domain.RarityIncomum:   30,
				domain.RarityRara:      18,
				domain.RaritySuperRara: 6,
				domain.RarityUltraRara: 1,
			},
			DailyLimit: 2,
		},
	}
}
