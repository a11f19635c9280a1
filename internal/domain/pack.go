package domain

// PackDefinition is the static configuration of one purchasable pack.
// Loaded once per process and never mutated.
type PackDefinition struct {
	ID                  string           `json:"id"`
	Name                string           `json:"name"`
	Currency            Currency         `json:"currency"`
	Price               int64            `json:"price"`
	CardsCount          int              `json:"cards_count"`
	CardTypes           []CardType       `json:"card_types"`
	TribeFilter         string           `json:"tribe_filter,omitempty"`
	GuaranteedMinRarity Rarity           `json:"guaranteed_min_rarity,omitempty"`
	GuaranteedCount     int              `json:"guaranteed_count,omitempty"`
	RarityWeights       map[Rarity]int64 `json:"rarity_weights"`
	DailyLimit          int              `json:"daily_limit,omitempty"`  // 0 = unrestricted
	WeeklyLimit         int              `json:"weekly_limit,omitempty"` // 0 = unrestricted
}

// AllowsType reports whether the pack can yield cards of the given type.
func (p *PackDefinition) AllowsType(t CardType) bool {
	for _, ct := range p.CardTypes {
		if ct == t {
			return true
		}
	}
	return false
}

// PackWithLimits is a pack definition annotated with the caller's remaining
// purchase allowance per configured window.
type PackWithLimits struct {
	PackDefinition
	RemainingDaily  *int `json:"remaining_daily,omitempty"`
	RemainingWeekly *int `json:"remaining_weekly,omitempty"`
	Purchasable     bool `json:"purchasable"`
}

// RevealedCard is one card produced by a pack opening. Transient result,
// not persisted as an entity.
type RevealedCard struct {
	CardType                CardType `json:"card_type"`
	CardID                  int64    `json:"card_id"`
	Name                    string   `json:"name"`
	Rarity                  Rarity   `json:"rarity"`
	ImageRef                string   `json:"image_ref,omitempty"`
	IsDuplicateInCollection bool     `json:"is_duplicate_in_collection"`
	SellValue               int64    `json:"sell_value"`
}

// Key returns the card identity of the revealed card.
func (r RevealedCard) Key() CardKey {
	return CardKey{CardType: r.CardType, CardID: r.CardID}
}
