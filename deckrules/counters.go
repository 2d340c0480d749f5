package deckrules

// Composition holds the aggregate facts about a deck that several rules share.
type Composition struct {
	ByType map[Type]int

	// ByCard holds total copies per card id across all entries.
	ByCard map[string]int

	// Order lists distinct known card ids in first-appearance order.
	Order []string
}

// Count returns the total quantity across the given types.
func (composition Composition) Count(types ...Type) int {
	n := 0
	for _, t := range types {
		n += composition.ByType[t]
	}

	return n
}

// DrawPile returns the number of draw pile cards.
func (composition Composition) DrawPile() int {
	n := 0
	for t, count := range composition.ByType {
		if t.IsDrawPile() {
			n += count
		}
	}

	return n
}

// Tally scans the deck once. Entries that reference cards missing from the catalog are skipped.
func Tally(catalog *Catalog, deck Deck) Composition {
	composition := Composition{
		ByType: map[Type]int{},
		ByCard: map[string]int{},
		Order:  []string{},
	}

	for _, entry := range deck.Entries {
		if _, ok := catalog.Lookup(entry.CardID); !ok {
			continue
		}

		if _, seen := composition.ByCard[entry.CardID]; !seen {
			composition.Order = append(composition.Order, entry.CardID)
		}

		composition.ByType[entry.Type] += entry.count()
		composition.ByCard[entry.CardID] += entry.count()
	}

	return composition
}

// CountByType returns the total quantity of entries whose type is one of types.
func CountByType(catalog *Catalog, deck Deck, types ...Type) int {
	return Tally(catalog, deck).Count(types...)
}

// CountDrawPile returns the total quantity of draw pile entries.
func CountDrawPile(catalog *Catalog, deck Deck) int {
	return Tally(catalog, deck).DrawPile()
}

// FindFlagged returns the distinct ids of cards in the deck that carry the flag, in first-appearance order.
func FindFlagged(catalog *Catalog, deck Deck, flag Flag) []string {
	return findFlagged(catalog, Tally(catalog, deck), flag)
}

func findFlagged(catalog *Catalog, composition Composition, flag Flag) []string {
	ids := []string{}

	for _, id := range composition.Order {
		if composition.ByCard[id] == 0 {
			continue
		}

		card, _ := catalog.Lookup(id)
		if card.Has(flag) {
			ids = append(ids, id)
		}
	}

	return ids
}
