package deckrules

// Statistics summarizes a deck for display.
type Statistics struct {
	TotalCards     int          `json:"totalCards"`
	DrawPileCards  int          `json:"drawPileCards"`
	CharacterCount int          `json:"characterCount"`
	MissionCount   int          `json:"missionCount"`
	LocationCount  int          `json:"locationCount"`
	TotalThreat    int          `json:"totalThreat"`
	TypeBreakdown  map[Type]int `json:"typeBreakdown"`
}

// DrawHandReady reports whether the deck has enough draw pile cards to draw a hand.
func (stats Statistics) DrawHandReady() bool {
	return stats.DrawPileCards >= MinDrawPileCards
}

// Stats computes display statistics for the deck. Unknown cards are skipped.
func Stats(catalog *Catalog, deck Deck) Statistics {
	composition := Tally(catalog, deck)

	stats := Statistics{
		DrawPileCards:  composition.DrawPile(),
		CharacterCount: composition.Count(TypeCharacter),
		MissionCount:   composition.Count(TypeMission),
		LocationCount:  composition.Count(TypeLocation),
		TotalThreat:    TotalThreat(catalog, deck),
		TypeBreakdown:  map[Type]int{},
	}

	for t, n := range composition.ByType {
		if n == 0 {
			continue
		}

		stats.TypeBreakdown[t] = n
		stats.TotalCards += n
	}

	return stats
}
