package domain

import "testing"

func TestRarityRank_Order(t *testing.T) {
	for i := 1; i < len(RarityOrder); i++ {
		if RarityRank(RarityOrder[i-1]) >= RarityRank(RarityOrder[i]) {
			t.Fatalf("expected %s to rank below %s", RarityOrder[i-1], RarityOrder[i])
		}
	}
	if RarityRank(Rarity("unknown")) != 0 {
		t.Fatalf("unknown rarity should rank lowest")
	}
}

func TestSellValueAndXP_GrowWithRarity(t *testing.T) {
	for i := 1; i < len(RarityOrder); i++ {
		lo, hi := RarityOrder[i-1], RarityOrder[i]
		if SellValueForRarity(lo) >= SellValueForRarity(hi) {
			t.Fatalf("sell value for %s should be below %s", lo, hi)
		}
		if XPForRarity(lo) >= XPForRarity(hi) {
			t.Fatalf("xp for %s should be below %s", lo, hi)
		}
	}
}
