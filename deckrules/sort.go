package deckrules

import (
	"sort"
	"strings"
)

// CharacterOrder returns the names of the deck's characters in the order they appear in the deck.
func CharacterOrder(catalog *Catalog, deck Deck) []string {
	names := []string{}
	seen := map[string]bool{}

	for _, entry := range deck.Entries {
		if entry.Type != TypeCharacter {
			continue
		}

		card, ok := catalog.Lookup(entry.CardID)
		if !ok {
			continue
		}

		name := strings.TrimSpace(card.Name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}

	return names
}

func isAnyCharacter(character string) bool {
	character = strings.ToLower(strings.TrimSpace(character))

	return character == "" || character == "any" || strings.Contains(character, strings.ToLower(AnyCharacter))
}

// SortByCharacter returns the deck's special entries ordered for display.
// Specials of the deck's own characters come first in the deck's character order,
// then specials of other characters alphabetically by character, then specials usable by any character.
// Ties are broken by card name, then id. Entries missing from the catalog come last.
func SortByCharacter(catalog *Catalog, deck Deck) []Entry {
	const (
		tierTeam = iota
		tierOther
		tierAny
		tierUnknown
	)

	order := map[string]int{}
	for i, name := range CharacterOrder(catalog, deck) {
		order[name] = i
	}

	type key struct {
		tier      int
		position  int
		character string
		name      string
	}

	keyOf := func(entry Entry) key {
		card, ok := catalog.Lookup(entry.CardID)
		if !ok {
			return key{tier: tierUnknown}
		}

		character := strings.TrimSpace(card.Character)
		name := strings.TrimSpace(card.Name)

		if isAnyCharacter(character) {
			return key{tier: tierAny, name: name}
		}
		if i, ok := order[character]; ok {
			return key{tier: tierTeam, position: i, name: name}
		}

		return key{tier: tierOther, character: character, name: name}
	}

	sorted := []Entry{}
	for _, entry := range deck.Entries {
		if entry.Type == TypeSpecial {
			sorted = append(sorted, entry)
		}
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := keyOf(sorted[i]), keyOf(sorted[j])

		if a.tier != b.tier {
			return a.tier < b.tier
		}
		if a.position != b.position {
			return a.position < b.position
		}
		if a.character != b.character {
			return a.character < b.character
		}
		if a.name != b.name {
			return a.name < b.name
		}

		return sorted[i].CardID < sorted[j].CardID
	})

	return sorted
}
