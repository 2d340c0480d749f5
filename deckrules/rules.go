package deckrules

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// RuleName identifies the rule that produced a violation.
type RuleName string

const (
	RuleCharacterCap    RuleName = "character_cap"
	RuleMissionCap      RuleName = "mission_cap"
	RuleLocationCap     RuleName = "location_cap"
	RuleDrawPileMinimum RuleName = "draw_pile_minimum"
	RuleOnePerDeck      RuleName = "one_per_deck"
	RuleAmbush          RuleName = "ambush"
	RuleAssist          RuleName = "assist"
	RuleFortification   RuleName = "fortification"
	RuleCataclysm       RuleName = "cataclysm"

	RuleThreatLevel      RuleName = "threat_level"
	RuleUnusableSpecial  RuleName = "unusable_special"
	RuleAngryMobLimit    RuleName = "angry_mob_limit"
	RuleMissionSet       RuleName = "mission_set"
	RuleUnusableEvent    RuleName = "unusable_event"
	RuleUnusablePower    RuleName = "unusable_power"
	RuleUnusableUniverse RuleName = "unusable_universe"
)

const (
	AngryMob   = "Angry Mob"
	AnyMission = "Any-Mission"
)

// Violation describes a single broken rule.
type Violation struct {
	Rule    RuleName `json:"rule"`
	Message string   `json:"message"`
	CardIDs []string `json:"cardIds,omitempty"`
}

// Rule inspects a deck and returns the violations it finds.
type Rule func(catalog *Catalog, deck Deck, composition Composition) []Violation

// ExclusiveGroup is a set of cards sharing a flag of which at most Max distinct cards may be in a deck.
type ExclusiveGroup struct {
	Rule  RuleName
	Label string
	Flag  Flag
	Max   int
}

// DefaultGroups lists the named-exclusive groups in reporting order.
var DefaultGroups = []ExclusiveGroup{
	{Rule: RuleAmbush, Label: "Ambush", Flag: FlagAmbush, Max: 1},
	{Rule: RuleAssist, Label: "Assist", Flag: FlagAssist, Max: 1},
	{Rule: RuleFortification, Label: "Fortification", Flag: FlagFortification, Max: 1},
	{Rule: RuleCataclysm, Label: "Cataclysm", Flag: FlagCataclysm, Max: 1},
}

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}

	return fmt.Sprintf("%d %s", n, many)
}

func capRule(rule RuleName, t Type, limit int) Rule {
	return func(catalog *Catalog, deck Deck, composition Composition) []Violation {
		n := composition.Count(t)
		if n <= limit {
			return nil
		}

		return []Violation{{
			Rule:    rule,
			Message: fmt.Sprintf("Deck can have at most %s (%d/%d)", plural(limit, string(t), string(t)+"s"), n, limit),
		}}
	}
}

var (
	checkCharacterCap = capRule(RuleCharacterCap, TypeCharacter, MaxCharacters)
	checkMissionCap   = capRule(RuleMissionCap, TypeMission, MaxMissions)
	checkLocationCap  = capRule(RuleLocationCap, TypeLocation, MaxLocations)
)

// checkDrawPile only fires once the draw pile has been started; an empty draw pile is not reported.
func checkDrawPile(catalog *Catalog, deck Deck, composition Composition) []Violation {
	n := composition.DrawPile()
	if n == 0 || n >= MinDrawPileCards {
		return nil
	}

	return []Violation{{
		Rule:    RuleDrawPileMinimum,
		Message: fmt.Sprintf("Deck must contain at least %d playable cards (%d/%d)", MinDrawPileCards, n, MinDrawPileCards),
	}}
}

// checkOnePerDeck treats members of named-exclusive groups as one-per-deck as well.
func checkOnePerDeck(catalog *Catalog, deck Deck, composition Composition) []Violation {
	var violations []Violation

	for _, id := range composition.Order {
		card, _ := catalog.Lookup(id)
		if !card.OnePerDeck && !card.Exclusive() {
			continue
		}

		n := composition.ByCard[id]
		if n <= MaxCopiesOnePerDeck {
			continue
		}

		violations = append(violations, Violation{
			Rule:    RuleOnePerDeck,
			Message: fmt.Sprintf("%q is already in deck and can only have %s (%s)", displayName(card), plural(MaxCopiesOnePerDeck, "copy", "copies"), plural(n, "copy", "copies")),
			CardIDs: []string{id},
		})
	}

	return violations
}

func groupRule(group ExclusiveGroup) Rule {
	return func(catalog *Catalog, deck Deck, composition Composition) []Violation {
		ids := findFlagged(catalog, composition, group.Flag)
		if len(ids) <= group.Max {
			return nil
		}

		names := make([]string, 0, len(ids))
		for _, id := range ids {
			card, _ := catalog.Lookup(id)
			names = append(names, fmt.Sprintf("%q", displayName(card)))
		}

		return []Violation{{
			Rule:    group.Rule,
			Message: fmt.Sprintf("Cannot have more than %d %s in a deck (%s)", group.Max, group.Label, strings.Join(names, ", ")),
			CardIDs: ids,
		}}
	}
}

// checkThreat sums character and location threat. The reserve character uses its reserve threat when set.
func checkThreat(catalog *Catalog, deck Deck, composition Composition) []Violation {
	total := TotalThreat(catalog, deck)
	if total <= MaxTotalThreat {
		return nil
	}

	return []Violation{{
		Rule:    RuleThreatLevel,
		Message: fmt.Sprintf("Total threat level must be <= %d (current: %d)", MaxTotalThreat, total),
	}}
}

// teamNames returns the names of the deck's characters in first-appearance order, one per copy.
func teamNames(catalog *Catalog, composition Composition) []string {
	names := []string{}
	for _, id := range composition.Order {
		card, _ := catalog.Lookup(id)
		if card.Type != TypeCharacter {
			continue
		}
		for i := 0; i < composition.ByCard[id]; i++ {
			names = append(names, strings.TrimSpace(card.Name))
		}
	}

	return names
}

func angryMobs(names []string) []string {
	mobs := []string{}
	for _, name := range names {
		if strings.HasPrefix(name, AngryMob) {
			mobs = append(mobs, name)
		}
	}

	return mobs
}

func checkUnusableSpecials(catalog *Catalog, deck Deck, composition Composition) []Violation {
	names := teamNames(catalog, composition)
	mobs := angryMobs(names)

	characters := map[string]bool{}
	for _, name := range names {
		characters[name] = true
	}

	var violations []Violation

	for _, id := range composition.Order {
		card, _ := catalog.Lookup(id)
		if card.Type != TypeSpecial || composition.ByCard[id] == 0 {
			continue
		}

		character := strings.TrimSpace(card.Character)
		if character == "" || character == AnyCharacter {
			continue
		}

		var message string
		switch {
		case strings.HasPrefix(character, AngryMob):
			message = unusableMobSpecial(card, character, mobs)
		case !characters[character]:
			message = fmt.Sprintf("%q requires character %q in your team", displayName(card), character)
		}
		if message == "" {
			continue
		}

		violations = append(violations, Violation{
			Rule:    RuleUnusableSpecial,
			Message: message,
			CardIDs: []string{id},
		})
	}

	return violations
}

// unusableMobSpecial checks a special written for "Angry Mob" or a subtype such as "Angry Mob: Middle Ages".
func unusableMobSpecial(card Card, character string, mobs []string) string {
	if len(mobs) == 0 {
		return fmt.Sprintf("%q requires an %q character in your team", displayName(card), AngryMob)
	}

	_, subtype, ok := strings.Cut(character, ":")
	if !ok {
		return ""
	}

	subtype = strings.TrimSpace(subtype)
	for _, mob := range mobs {
		if strings.Contains(mob, subtype) {
			return ""
		}
	}

	return fmt.Sprintf("%q requires an %q character in your team", displayName(card), AngryMob+": "+subtype)
}

func checkAngryMobLimit(catalog *Catalog, deck Deck, composition Composition) []Violation {
	if len(angryMobs(teamNames(catalog, composition))) <= 1 {
		return nil
	}

	return []Violation{{
		Rule:    RuleAngryMobLimit,
		Message: fmt.Sprintf("Only one %q character is allowed per deck", AngryMob),
	}}
}

// missionSets returns the distinct mission sets of the deck's missions in first-appearance order.
func missionSets(catalog *Catalog, composition Composition) []string {
	sets := []string{}
	seen := map[string]bool{}

	for _, id := range composition.Order {
		card, _ := catalog.Lookup(id)
		if card.Type != TypeMission || composition.ByCard[id] == 0 {
			continue
		}

		set := strings.TrimSpace(card.MissionSet)
		if set == "" || seen[set] {
			continue
		}
		seen[set] = true
		sets = append(sets, set)
	}

	return sets
}

func checkMissionSet(catalog *Catalog, deck Deck, composition Composition) []Violation {
	sets := missionSets(catalog, composition)
	if len(sets) <= 1 {
		return nil
	}

	return []Violation{{
		Rule:    RuleMissionSet,
		Message: fmt.Sprintf("All mission cards must be from the same mission set (found: %s)", strings.Join(sets, ", ")),
	}}
}

func checkUnusableEvents(catalog *Catalog, deck Deck, composition Composition) []Violation {
	sets := missionSets(catalog, composition)
	if len(sets) == 0 {
		return nil
	}

	present := map[string]bool{}
	for _, set := range sets {
		present[set] = true
	}

	var violations []Violation

	for _, id := range composition.Order {
		card, _ := catalog.Lookup(id)
		if card.Type != TypeEvent || composition.ByCard[id] == 0 {
			continue
		}

		set := strings.TrimSpace(card.MissionSet)
		if set == "" || set == AnyMission || present[set] {
			continue
		}

		violations = append(violations, Violation{
			Rule:    RuleUnusableEvent,
			Message: fmt.Sprintf("%q requires mission set %q in your deck", displayName(card), set),
			CardIDs: []string{id},
		})
	}

	return violations
}

// team returns the deck's known character cards.
func team(catalog *Catalog, composition Composition) []Card {
	cards := []Card{}
	for _, id := range composition.Order {
		card, _ := catalog.Lookup(id)
		if card.Type == TypeCharacter && composition.ByCard[id] > 0 {
			cards = append(cards, card)
		}
	}

	return cards
}

// usable reports whether some character meets the requirement. Unknown power types are never reported.
func usable(characters []Card, powerType string, value int) bool {
	for _, character := range characters {
		stat, ok := character.Stat(powerType)
		if !ok || stat >= value {
			return true
		}
	}

	return false
}

// checkUnusablePowers reports power cards no character can play. Decks without characters are not checked.
func checkUnusablePowers(catalog *Catalog, deck Deck, composition Composition) []Violation {
	characters := team(catalog, composition)
	if len(characters) == 0 {
		return nil
	}

	var violations []Violation

	for _, id := range composition.Order {
		card, _ := catalog.Lookup(id)
		if card.Type != TypePower || composition.ByCard[id] == 0 {
			continue
		}
		if card.PowerType == "" || card.Value <= 0 || usable(characters, card.PowerType, card.Value) {
			continue
		}

		violations = append(violations, Violation{
			Rule:    RuleUnusablePower,
			Message: fmt.Sprintf("%q (Power Card) requires a character with %d+ %s", displayName(card), card.Value, card.PowerType),
			CardIDs: []string{id},
		})
	}

	return violations
}

var toUsePattern = regexp.MustCompile(`(\d+)\s+(Energy|Combat|Brute Force|Intelligence|Any-Power)`)

func isUniverse(t Type) bool {
	switch t {
	case TypeBasicUniverse, TypeAdvancedUniverse, TypeTeamwork, TypeAlly, TypeTraining:
		return true
	}

	return false
}

// checkUnusableUniverse reports universe cards whose "to use" requirement no character meets.
func checkUnusableUniverse(catalog *Catalog, deck Deck, composition Composition) []Violation {
	characters := team(catalog, composition)
	if len(characters) == 0 {
		return nil
	}

	var violations []Violation

	for _, id := range composition.Order {
		card, _ := catalog.Lookup(id)
		if !isUniverse(card.Type) || composition.ByCard[id] == 0 {
			continue
		}

		match := toUsePattern.FindStringSubmatch(card.ToUse)
		if match == nil {
			continue
		}

		value, err := strconv.Atoi(match[1])
		if err != nil || usable(characters, match[2], value) {
			continue
		}

		violations = append(violations, Violation{
			Rule:    RuleUnusableUniverse,
			Message: fmt.Sprintf("%q (Universe Card) requires a character with %d+ %s", displayName(card), value, match[2]),
			CardIDs: []string{id},
		})
	}

	return violations
}

// TotalThreat returns the combined threat of the deck's characters and locations.
func TotalThreat(catalog *Catalog, deck Deck) int {
	total := 0

	for _, entry := range deck.Entries {
		card, ok := catalog.Lookup(entry.CardID)
		if !ok {
			continue
		}

		switch card.Type {
		case TypeCharacter, TypeLocation:
		default:
			continue
		}

		threat := card.ThreatLevel
		if card.Type == TypeCharacter && card.ID == deck.ReserveCharacterID && card.ReserveThreatLevel > 0 {
			threat = card.ReserveThreatLevel
		}

		total += threat * entry.count()
	}

	return total
}

func displayName(card Card) string {
	if card.Name != "" {
		return card.Name
	}

	return card.ID
}
