package testutil

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/KyleGowen/excelsior-sub008/deckrules"
)

func Equal(t *testing.T, expected any, actual any, opts ...cmp.Option) {
	t.Helper()

	if diff := cmp.Diff(expected, actual, opts...); len(diff) > 0 {
		t.Errorf("diff: %s", diff)
	}
}

// Cards returns n cards of the given type with ids prefix1..prefixN.
func Cards(prefix string, t deckrules.Type, n int) []deckrules.Card {
	cards := make([]deckrules.Card, 0, n)

	for i := 1; i <= n; i++ {
		id := fmt.Sprintf("%s%d", prefix, i)
		cards = append(cards, deckrules.Card{
			ID:   id,
			Name: id,
			Type: t,
		})
	}

	return cards
}

// Deck returns a deck holding one copy of each card.
func Deck(cards ...deckrules.Card) deckrules.Deck {
	deck := deckrules.Deck{}

	for _, card := range cards {
		deck.Entries = append(deck.Entries, deckrules.Entry{
			CardID:   card.ID,
			Type:     card.Type,
			Quantity: 1,
		})
	}

	return deck
}

// Rules returns the rule names of the violations in order.
func Rules(violations []deckrules.Violation) []deckrules.RuleName {
	rules := []deckrules.RuleName{}
	for _, violation := range violations {
		rules = append(rules, violation.Rule)
	}

	return rules
}
