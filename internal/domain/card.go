package domain

// Rarity is one of the five card rarity tiers, ordered comum < incomum < rara
// < super_rara < ultra_rara.
type Rarity string

const (
	RarityComum     Rarity = "comum"
	RarityIncomum   Rarity = "incomum"
	RarityRara      Rarity = "rara"
	RaritySuperRara Rarity = "super_rara"
	RarityUltraRara Rarity = "ultra_rara"
)

// RarityOrder lists the tiers from lowest to highest rank.
var RarityOrder = []Rarity{RarityComum, RarityIncomum, RarityRara, RaritySuperRara, RarityUltraRara}

// RarityRank returns the position of r in the total order (0 = lowest).
// Unknown values rank lowest.
func RarityRank(r Rarity) int {
	for i, v := range RarityOrder {
		if v == r {
			return i
		}
	}
	return 0
}

// SellValueForRarity is the fixed coin value credited when a card of the
// given rarity is discarded. Independent of market conditions.
func SellValueForRarity(r Rarity) int64 {
	switch r {
	case RarityComum:
		return 20
	case RarityIncomum:
		return 45
	case RarityRara:
		return 90
	case RaritySuperRara:
		return 170
	case RarityUltraRara:
		return 300
	}
	return 0
}

// XPForRarity is the XP granted per awarded card of the given rarity.
func XPForRarity(r Rarity) int64 {
	switch r {
	case RarityComum:
		return 8
	case RarityIncomum:
		return 16
	case RarityRara:
		return 28
	case RaritySuperRara:
		return 45
	case RarityUltraRara:
		return 70
	}
	return 0
}

// CardType identifies one of the five catalog tables.
type CardType string

const (
	CardTypeCreature   CardType = "creature"
	CardTypeAttack     CardType = "attack"
	CardTypeLocation   CardType = "location"
	CardTypeMugic      CardType = "mugic"
	CardTypeBattlegear CardType = "battlegear"
)

// AllCardTypes lists every catalog card type.
var AllCardTypes = []CardType{CardTypeCreature, CardTypeAttack, CardTypeLocation, CardTypeMugic, CardTypeBattlegear}

// CardKey identifies a card across catalog tables.
type CardKey struct {
	CardType CardType `json:"card_type"`
	CardID   int64    `json:"card_id"`
}

// CardRef is the common projection the store engine sees for any card,
// regardless of its catalog table.
type CardRef struct {
	CardType CardType `db:"card_type" json:"card_type"`
	CardID   int64    `db:"card_id" json:"card_id"`
	Rarity   Rarity   `db:"rarity" json:"rarity"`
	Name     string   `db:"name" json:"name"`
	ImageRef string   `db:"image_ref" json:"image_ref,omitempty"`
}

// Key returns the identity of the referenced card.
func (r CardRef) Key() CardKey {
	return CardKey{CardType: r.CardType, CardID: r.CardID}
}

// Creature is a tribe-affiliated combat card.
type Creature struct {
	ID       int64  `db:"id" json:"id"`
	Name     string `db:"name" json:"name"`
	Tribe    string `db:"tribe" json:"tribe"`
	Rarity   Rarity `db:"rarity" json:"rarity"`
	Courage  int    `db:"courage" json:"courage"`
	Power    int    `db:"power" json:"power"`
	Wisdom   int    `db:"wisdom" json:"wisdom"`
	Speed    int    `db:"speed" json:"speed"`
	Energy   int    `db:"energy" json:"energy"`
	ImageRef string `db:"image_ref" json:"image_ref,omitempty"`
}

func (c Creature) Ref() CardRef {
	return CardRef{CardType: CardTypeCreature, CardID: c.ID, Rarity: c.Rarity, Name: c.Name, ImageRef: c.ImageRef}
}

// Attack is an attack card with elemental damage values.
type Attack struct {
	ID       int64  `db:"id" json:"id"`
	Name     string `db:"name" json:"name"`
	Rarity   Rarity `db:"rarity" json:"rarity"`
	Cost     int    `db:"cost" json:"cost"`
	Fire     int    `db:"fire" json:"fire"`
	Air      int    `db:"air" json:"air"`
	Earth    int    `db:"earth" json:"earth"`
	Water    int    `db:"water" json:"water"`
	ImageRef string `db:"image_ref" json:"image_ref,omitempty"`
}

func (a Attack) Ref() CardRef {
	return CardRef{CardType: CardTypeAttack, CardID: a.ID, Rarity: a.Rarity, Name: a.Name, ImageRef: a.ImageRef}
}

// Location is a battleground card.
type Location struct {
	ID         int64  `db:"id" json:"id"`
	Name       string `db:"name" json:"name"`
	Rarity     Rarity `db:"rarity" json:"rarity"`
	Initiative string `db:"initiative" json:"initiative"`
	ImageRef   string `db:"image_ref" json:"image_ref,omitempty"`
}

func (l Location) Ref() CardRef {
	return CardRef{CardType: CardTypeLocation, CardID: l.ID, Rarity: l.Rarity, Name: l.Name, ImageRef: l.ImageRef}
}

// Mugic is a tribe-affiliated spell card.
type Mugic struct {
	ID       int64  `db:"id" json:"id"`
	Name     string `db:"name" json:"name"`
	Tribe    string `db:"tribe" json:"tribe"`
	Rarity   Rarity `db:"rarity" json:"rarity"`
	Cost     int    `db:"cost" json:"cost"`
	ImageRef string `db:"image_ref" json:"image_ref,omitempty"`
}

func (m Mugic) Ref() CardRef {
	return CardRef{CardType: CardTypeMugic, CardID: m.ID, Rarity: m.Rarity, Name: m.Name, ImageRef: m.ImageRef}
}

// Battlegear is an equipment card.
type Battlegear struct {
	ID       int64  `db:"id" json:"id"`
	Name     string `db:"name" json:"name"`
	Rarity   Rarity `db:"rarity" json:"rarity"`
	ImageRef string `db:"image_ref" json:"image_ref,omitempty"`
}

func (b Battlegear) Ref() CardRef {
	return CardRef{CardType: CardTypeBattlegear, CardID: b.ID, Rarity: b.Rarity, Name: b.Name, ImageRef: b.ImageRef}
}
