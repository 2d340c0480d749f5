package deckrules_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"

	"github.com/KyleGowen/excelsior-sub008/deckrules"
	"github.com/KyleGowen/excelsior-sub008/internal/testutil"
)

func TestValidate(t *testing.T) {
	characters := testutil.Cards("c", deckrules.TypeCharacter, 5)
	powers := testutil.Cards("p", deckrules.TypePower, 8)
	missions := testutil.Cards("m", deckrules.TypeMission, 8)
	locations := testutil.Cards("l", deckrules.TypeLocation, 2)

	ambush1 := deckrules.Card{ID: "s1", Name: "Ambush One", Type: deckrules.TypeSpecial, IsAmbush: true}
	ambush2 := deckrules.Card{ID: "s2", Name: "Ambush Two", Type: deckrules.TypeSpecial, IsAmbush: true}
	assist1 := deckrules.Card{ID: "a1", Name: "Assist One", Type: deckrules.TypeSpecial, IsAssist: true}
	assist2 := deckrules.Card{ID: "a2", Name: "Assist Two", Type: deckrules.TypeSpecial, IsAssist: true}
	fort1 := deckrules.Card{ID: "f1", Name: "Fort One", Type: deckrules.TypeAspect, IsFortification: true}
	fort2 := deckrules.Card{ID: "f2", Name: "Fort Two", Type: deckrules.TypeAspect, IsFortification: true}
	cataclysm1 := deckrules.Card{ID: "k1", Name: "Cataclysm One", Type: deckrules.TypeSpecial, IsCataclysm: true}
	cataclysm2 := deckrules.Card{ID: "k2", Name: "Cataclysm Two", Type: deckrules.TypeSpecial, IsCataclysm: true}
	opd := deckrules.Card{ID: "x", Name: "Excalibur", Type: deckrules.TypeSpecial, OnePerDeck: true}

	all := append([]deckrules.Card{}, characters...)
	all = append(all, powers...)
	all = append(all, missions...)
	all = append(all, locations...)
	all = append(all, ambush1, ambush2, assist1, assist2, fort1, fort2, cataclysm1, cataclysm2, opd)

	catalog := deckrules.NewCatalog(all...)

	tcs := []struct {
		name  string
		deck  deckrules.Deck
		rules []deckrules.RuleName
	}{
		{
			name:  "four characters",
			deck:  testutil.Deck(characters[:4]...),
			rules: []deckrules.RuleName{},
		},
		{
			name:  "five characters",
			deck:  testutil.Deck(characters...),
			rules: []deckrules.RuleName{deckrules.RuleCharacterCap},
		},
		{
			name: "character quantity counts",
			deck: deckrules.Deck{Entries: []deckrules.Entry{
				{CardID: "c1", Type: deckrules.TypeCharacter, Quantity: 5},
			}},
			rules: []deckrules.RuleName{deckrules.RuleCharacterCap},
		},
		{
			name:  "seven missions",
			deck:  testutil.Deck(missions[:7]...),
			rules: []deckrules.RuleName{},
		},
		{
			name:  "eight missions",
			deck:  testutil.Deck(missions...),
			rules: []deckrules.RuleName{deckrules.RuleMissionCap},
		},
		{
			name:  "one location",
			deck:  testutil.Deck(locations[:1]...),
			rules: []deckrules.RuleName{},
		},
		{
			name:  "two locations",
			deck:  testutil.Deck(locations...),
			rules: []deckrules.RuleName{deckrules.RuleLocationCap},
		},
		{
			name:  "seven playable cards",
			deck:  testutil.Deck(powers[:7]...),
			rules: []deckrules.RuleName{deckrules.RuleDrawPileMinimum},
		},
		{
			name:  "eight playable cards",
			deck:  testutil.Deck(powers...),
			rules: []deckrules.RuleName{},
		},
		{
			name: "ambush card twice",
			deck: deckrules.Deck{Entries: []deckrules.Entry{
				{CardID: "s1", Type: deckrules.TypeSpecial, Quantity: 2},
			}},
			rules: []deckrules.RuleName{deckrules.RuleDrawPileMinimum, deckrules.RuleOnePerDeck},
		},
		{
			name: "two one-per-deck entries",
			deck: deckrules.Deck{Entries: []deckrules.Entry{
				{CardID: "x", Type: deckrules.TypeSpecial, Quantity: 1},
				{CardID: "x", Type: deckrules.TypeSpecial, Quantity: 1},
			}},
			rules: []deckrules.RuleName{deckrules.RuleDrawPileMinimum, deckrules.RuleOnePerDeck},
		},
		{
			name:  "every group violated",
			deck:  testutil.Deck(append(append([]deckrules.Card{}, powers...), ambush1, ambush2, assist1, assist2, fort1, fort2, cataclysm1, cataclysm2)...),
			rules: []deckrules.RuleName{deckrules.RuleAmbush, deckrules.RuleAssist, deckrules.RuleFortification, deckrules.RuleCataclysm},
		},
		{
			name:  "one card from every group",
			deck:  testutil.Deck(append(append([]deckrules.Card{}, powers...), ambush1, assist1, fort1, cataclysm1)...),
			rules: []deckrules.RuleName{},
		},
		{
			name:  "every cap violated at once",
			deck:  testutil.Deck(append(append(append(append([]deckrules.Card{}, characters...), missions...), locations...), powers[:3]...)...),
			rules: []deckrules.RuleName{deckrules.RuleCharacterCap, deckrules.RuleMissionCap, deckrules.RuleLocationCap, deckrules.RuleDrawPileMinimum},
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			result := deckrules.Validate(catalog, tc.deck)
			testutil.Equal(t, tc.rules, testutil.Rules(result.Errors))
			if result.Legal() != (len(tc.rules) == 0) {
				t.Errorf("legal: %t, errors: %v", result.Legal(), result.Messages())
			}
		})
	}
}

func TestValidateIdempotent(t *testing.T) {
	cards := []deckrules.Card{
		{ID: "s1", Name: "Ambush One", Type: deckrules.TypeSpecial, IsAmbush: true},
		{ID: "s2", Name: "Ambush Two", Type: deckrules.TypeSpecial, IsAmbush: true},
		{ID: "c1", Name: "Zorro", Type: deckrules.TypeCharacter, ThreatLevel: 80},
	}
	catalog := deckrules.NewCatalog(cards...)
	deck := testutil.Deck(cards...)

	first := deckrules.Validate(catalog, deck)
	second := deckrules.Validate(catalog, deck)

	if diff := cmp.Diff(first, second); len(diff) > 0 {
		t.Errorf("mismatch:\n%s", diff)
	}
}

func TestValidateCharacterCapIsolated(t *testing.T) {
	characters := testutil.Cards("c", deckrules.TypeCharacter, 5)
	catalog := deckrules.NewCatalog(characters...)

	four := deckrules.Validate(catalog, testutil.Deck(characters[:4]...))
	testutil.Equal(t, []deckrules.Violation{}, four.Errors)

	five := deckrules.Validate(catalog, testutil.Deck(characters...))
	testutil.Equal(t, []deckrules.Violation{{
		Rule:    deckrules.RuleCharacterCap,
		Message: "Deck can have at most 4 characters (5/4)",
	}}, five.Errors)
}

func TestValidateAmbushGroup(t *testing.T) {
	catalog := deckrules.NewCatalog(
		deckrules.Card{ID: "s1", Name: "Strike", Type: deckrules.TypeSpecial, IsAmbush: true},
		deckrules.Card{ID: "s2", Name: "Trap", Type: deckrules.TypeSpecial, IsAmbush: true},
	)

	only := deckrules.Validate(catalog, deckrules.Deck{Entries: []deckrules.Entry{
		{CardID: "s1", Type: deckrules.TypeSpecial, Quantity: 1},
	}})
	for _, violation := range only.Errors {
		if violation.Rule == deckrules.RuleAmbush {
			t.Errorf("unexpected ambush violation: %v", violation)
		}
	}

	both := deckrules.Validate(catalog, deckrules.Deck{Entries: []deckrules.Entry{
		{CardID: "s1", Type: deckrules.TypeSpecial, Quantity: 1},
		{CardID: "s2", Type: deckrules.TypeSpecial, Quantity: 1},
	}})
	testutil.Equal(t, []deckrules.Violation{
		{
			Rule:    deckrules.RuleDrawPileMinimum,
			Message: "Deck must contain at least 8 playable cards (2/8)",
		},
		{
			Rule:    deckrules.RuleAmbush,
			Message: `Cannot have more than 1 Ambush in a deck ("Strike", "Trap")`,
			CardIDs: []string{"s1", "s2"},
		},
	}, both.Errors)
}

func TestValidateOnePerDeckMessage(t *testing.T) {
	catalog := deckrules.NewCatalog(deckrules.Card{ID: "s1", Name: "Strike", Type: deckrules.TypeSpecial, IsAmbush: true})

	result := deckrules.Validate(catalog, deckrules.Deck{Entries: []deckrules.Entry{
		{CardID: "s1", Type: deckrules.TypeSpecial, Quantity: 2},
	}})

	testutil.Equal(t, []deckrules.Violation{
		{
			Rule:    deckrules.RuleDrawPileMinimum,
			Message: "Deck must contain at least 8 playable cards (2/8)",
		},
		{
			Rule:    deckrules.RuleOnePerDeck,
			Message: `"Strike" is already in deck and can only have 1 copy (2 copies)`,
			CardIDs: []string{"s1"},
		},
	}, result.Errors)
}

func TestValidateUnknownCards(t *testing.T) {
	catalog := deckrules.NewCatalog(testutil.Cards("c", deckrules.TypeCharacter, 4)...)

	deck := testutil.Deck(testutil.Cards("c", deckrules.TypeCharacter, 4)...)
	deck.Entries = append(deck.Entries,
		deckrules.Entry{CardID: "ghost", Type: deckrules.TypeCharacter, Quantity: 3},
		deckrules.Entry{CardID: "phantom", Type: deckrules.TypePower, Quantity: 1},
	)

	result := deckrules.Validate(catalog, deck)
	testutil.Equal(t, []deckrules.Violation{}, result.Errors)

	if n := deckrules.CountByType(catalog, deck, deckrules.TypeCharacter); n != 4 {
		t.Errorf("character count: %d", n)
	}

	result = deckrules.Validate(nil, deck)
	testutil.Equal(t, []deckrules.Violation{}, result.Errors)
}

func TestValidateNonPositiveQuantities(t *testing.T) {
	catalog := deckrules.NewCatalog(
		deckrules.Card{ID: "s1", Type: deckrules.TypeSpecial, IsAmbush: true},
		deckrules.Card{ID: "s2", Type: deckrules.TypeSpecial, IsAmbush: true},
	)

	result := deckrules.Validate(catalog, deckrules.Deck{Entries: []deckrules.Entry{
		{CardID: "s1", Type: deckrules.TypeSpecial, Quantity: -3},
		{CardID: "s2", Type: deckrules.TypeSpecial, Quantity: 0},
	}})

	testutil.Equal(t, []deckrules.Violation{}, result.Errors)
}

func TestValidateWarnings(t *testing.T) {
	catalog := deckrules.NewCatalog(
		deckrules.Card{ID: "c1", Name: "Victory Harben", Type: deckrules.TypeCharacter, ThreatLevel: 18, ReserveThreatLevel: 20},
		deckrules.Card{ID: "c2", Name: "Dracula", Type: deckrules.TypeCharacter, ThreatLevel: 20},
		deckrules.Card{ID: "c3", Name: "Tarzan", Type: deckrules.TypeCharacter, ThreatLevel: 19},
		deckrules.Card{ID: "c4", Name: "Morgan Le Fay", Type: deckrules.TypeCharacter, ThreatLevel: 19},
		deckrules.Card{ID: "s1", Name: "Jungle Cry", Type: deckrules.TypeSpecial, Character: "Tarzan"},
		deckrules.Card{ID: "s2", Name: "Bite", Type: deckrules.TypeSpecial, Character: "Sherlock Holmes"},
		deckrules.Card{ID: "s3", Name: "Regroup", Type: deckrules.TypeSpecial, Character: deckrules.AnyCharacter},
	)

	deck := deckrules.Deck{Entries: []deckrules.Entry{
		{CardID: "c1", Type: deckrules.TypeCharacter, Quantity: 1},
		{CardID: "c2", Type: deckrules.TypeCharacter, Quantity: 1},
		{CardID: "c3", Type: deckrules.TypeCharacter, Quantity: 1},
		{CardID: "c4", Type: deckrules.TypeCharacter, Quantity: 1},
		{CardID: "s1", Type: deckrules.TypeSpecial, Quantity: 1},
		{CardID: "s2", Type: deckrules.TypeSpecial, Quantity: 1},
		{CardID: "s3", Type: deckrules.TypeSpecial, Quantity: 1},
	}}

	result := deckrules.Validate(catalog, deck)
	testutil.Equal(t, []deckrules.RuleName{deckrules.RuleUnusableSpecial}, testutil.Rules(result.Warnings))

	deck.ReserveCharacterID = "c1"
	result = deckrules.Validate(catalog, deck)
	testutil.Equal(t, []deckrules.Violation{
		{
			Rule:    deckrules.RuleThreatLevel,
			Message: "Total threat level must be <= 76 (current: 78)",
		},
		{
			Rule:    deckrules.RuleUnusableSpecial,
			Message: `"Bite" requires character "Sherlock Holmes" in your team`,
			CardIDs: []string{"s2"},
		},
	}, result.Warnings)
}

func TestValidateMissionSet(t *testing.T) {
	missions := testutil.Cards("m", deckrules.TypeMission, 7)
	for i := range missions {
		missions[i].MissionSet = "King of the Jungle"
		if i >= 4 {
			missions[i].MissionSet = "Time Wars: Rise of the Gods"
		}
	}
	catalog := deckrules.NewCatalog(missions...)

	split := deckrules.Validate(catalog, testutil.Deck(missions...))
	testutil.Equal(t, []deckrules.Violation{{
		Rule:    deckrules.RuleMissionSet,
		Message: "All mission cards must be from the same mission set (found: King of the Jungle, Time Wars: Rise of the Gods)",
	}}, split.Warnings)

	single := deckrules.Validate(catalog, testutil.Deck(missions[:4]...))
	testutil.Equal(t, []deckrules.Violation{}, single.Warnings)
}

func TestValidateAdvisories(t *testing.T) {
	catalog := deckrules.NewCatalog(
		deckrules.Card{ID: "c1", Name: "Tarzan", Type: deckrules.TypeCharacter, Energy: 3, Combat: 6, BruteForce: 6, Intelligence: 2},
		deckrules.Card{ID: "c2", Name: "Sherlock Holmes", Type: deckrules.TypeCharacter, Energy: 2, Combat: 5, BruteForce: 3, Intelligence: 8},
		deckrules.Card{ID: "mob1", Name: "Angry Mob: Industrial Age", Type: deckrules.TypeCharacter, Energy: 2, Combat: 4, BruteForce: 4, Intelligence: 2},
		deckrules.Card{ID: "mob2", Name: "Angry Mob: Middle Ages", Type: deckrules.TypeCharacter, Energy: 2, Combat: 4, BruteForce: 4, Intelligence: 2},
		deckrules.Card{ID: "m1", Name: "Lost City", Type: deckrules.TypeMission, MissionSet: "King of the Jungle"},
		deckrules.Card{ID: "e1", Name: "Jungle Drums", Type: deckrules.TypeEvent, MissionSet: "King of the Jungle"},
		deckrules.Card{ID: "e2", Name: "Temporal Rift", Type: deckrules.TypeEvent, MissionSet: "Time Wars: Rise of the Gods"},
		deckrules.Card{ID: "e3", Name: "Distraction", Type: deckrules.TypeEvent, MissionSet: deckrules.AnyMission},
		deckrules.Card{ID: "p1", Name: "6 - Combat", Type: deckrules.TypePower, PowerType: deckrules.PowerCombat, Value: 6},
		deckrules.Card{ID: "p2", Name: "7 - Energy", Type: deckrules.TypePower, PowerType: deckrules.PowerEnergy, Value: 7},
		deckrules.Card{ID: "p3", Name: "8 - Any-Power", Type: deckrules.TypePower, PowerType: deckrules.PowerAny, Value: 8},
		deckrules.Card{ID: "p4", Name: "9 - Any-Power", Type: deckrules.TypePower, PowerType: deckrules.PowerAny, Value: 9},
		deckrules.Card{ID: "u1", Name: "Longsword", Type: deckrules.TypeBasicUniverse, ToUse: "6 Combat"},
		deckrules.Card{ID: "u2", Name: "Lightning Gun", Type: deckrules.TypeAdvancedUniverse, ToUse: "7 Energy"},
		deckrules.Card{ID: "u3", Name: "Flexibility", Type: deckrules.TypeTraining, ToUse: "5 Brute Force"},
		deckrules.Card{ID: "s1", Name: "Torches", Type: deckrules.TypeSpecial, Character: "Angry Mob"},
		deckrules.Card{ID: "s2", Name: "Pitchforks", Type: deckrules.TypeSpecial, Character: "Angry Mob: Middle Ages"},
		deckrules.Card{ID: "s3", Name: "Don't Let It Get Away", Type: deckrules.TypeSpecial, Character: "Angry Mob: Pirates"},
	)

	deck := func(ids ...string) deckrules.Deck {
		cards := make([]deckrules.Card, 0, len(ids))
		for _, id := range ids {
			card, _ := catalog.Lookup(id)
			cards = append(cards, card)
		}
		return testutil.Deck(cards...)
	}

	tcs := []struct {
		name     string
		deck     deckrules.Deck
		expected []deckrules.Violation
	}{
		{
			name: "playable by the team",
			deck: deck("c1", "c2", "m1", "e1", "e3", "p1", "p3", "u1", "u3"),
		},
		{
			name: "event from a missing mission set",
			deck: deck("c1", "m1", "e2"),
			expected: []deckrules.Violation{{
				Rule:    deckrules.RuleUnusableEvent,
				Message: `"Temporal Rift" requires mission set "Time Wars: Rise of the Gods" in your deck`,
				CardIDs: []string{"e2"},
			}},
		},
		{
			name: "events without missions",
			deck: deck("c1", "e2"),
		},
		{
			name: "powers above every stat",
			deck: deck("c1", "c2", "p2", "p3", "p4"),
			expected: []deckrules.Violation{
				{
					Rule:    deckrules.RuleUnusablePower,
					Message: `"7 - Energy" (Power Card) requires a character with 7+ Energy`,
					CardIDs: []string{"p2"},
				},
				{
					Rule:    deckrules.RuleUnusablePower,
					Message: `"9 - Any-Power" (Power Card) requires a character with 9+ Any-Power`,
					CardIDs: []string{"p4"},
				},
			},
		},
		{
			name: "powers without characters",
			deck: deck("p2", "p4", "u2"),
		},
		{
			name: "universe requirement above every stat",
			deck: deck("c1", "c2", "u1", "u2"),
			expected: []deckrules.Violation{{
				Rule:    deckrules.RuleUnusableUniverse,
				Message: `"Lightning Gun" (Universe Card) requires a character with 7+ Energy`,
				CardIDs: []string{"u2"},
			}},
		},
		{
			name: "two angry mobs",
			deck: deck("mob1", "mob2", "s1", "s2"),
			expected: []deckrules.Violation{{
				Rule:    deckrules.RuleAngryMobLimit,
				Message: `Only one "Angry Mob" character is allowed per deck`,
			}},
		},
		{
			name: "angry mob special without a mob",
			deck: deck("c1", "s1"),
			expected: []deckrules.Violation{{
				Rule:    deckrules.RuleUnusableSpecial,
				Message: `"Torches" requires an "Angry Mob" character in your team`,
				CardIDs: []string{"s1"},
			}},
		},
		{
			name: "angry mob special for another subtype",
			deck: deck("mob1", "s1", "s2", "s3"),
			expected: []deckrules.Violation{
				{
					Rule:    deckrules.RuleUnusableSpecial,
					Message: `"Pitchforks" requires an "Angry Mob: Middle Ages" character in your team`,
					CardIDs: []string{"s2"},
				},
				{
					Rule:    deckrules.RuleUnusableSpecial,
					Message: `"Don't Let It Get Away" requires an "Angry Mob: Pirates" character in your team`,
					CardIDs: []string{"s3"},
				},
			},
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			expected := tc.expected
			if expected == nil {
				expected = []deckrules.Violation{}
			}

			result := deckrules.Validate(catalog, tc.deck)
			testutil.Equal(t, expected, result.Warnings)
		})
	}
}

func TestValidateAdvisoryOrder(t *testing.T) {
	catalog := deckrules.NewCatalog(
		deckrules.Card{ID: "c1", Name: "Dracula", Type: deckrules.TypeCharacter, ThreatLevel: 40, Energy: 5},
		deckrules.Card{ID: "c2", Name: "Angry Mob: Middle Ages", Type: deckrules.TypeCharacter, ThreatLevel: 40},
		deckrules.Card{ID: "c3", Name: "Angry Mob: Pirates", Type: deckrules.TypeCharacter},
		deckrules.Card{ID: "m1", Type: deckrules.TypeMission, MissionSet: "A"},
		deckrules.Card{ID: "m2", Type: deckrules.TypeMission, MissionSet: "B"},
		deckrules.Card{ID: "e1", Type: deckrules.TypeEvent, MissionSet: "C"},
		deckrules.Card{ID: "p1", Type: deckrules.TypePower, PowerType: deckrules.PowerEnergy, Value: 6},
		deckrules.Card{ID: "u1", Type: deckrules.TypeAlly, ToUse: "6 Energy"},
		deckrules.Card{ID: "s1", Type: deckrules.TypeSpecial, Character: "Tarzan"},
	)

	result := deckrules.Validate(catalog, testutil.Deck(catalog.Cards()...))
	testutil.Equal(t, []deckrules.RuleName{
		deckrules.RuleThreatLevel,
		deckrules.RuleUnusableSpecial,
		deckrules.RuleAngryMobLimit,
		deckrules.RuleMissionSet,
		deckrules.RuleUnusableEvent,
		deckrules.RuleUnusablePower,
		deckrules.RuleUnusableUniverse,
	}, testutil.Rules(result.Warnings))
	testutil.Equal(t, []deckrules.RuleName{deckrules.RuleDrawPileMinimum}, testutil.Rules(result.Errors))
}

func TestEngineDrawPileSeverity(t *testing.T) {
	catalog := deckrules.NewCatalog(testutil.Cards("p", deckrules.TypePower, 7)...)
	deck := testutil.Deck(testutil.Cards("p", deckrules.TypePower, 7)...)

	tcs := []struct {
		severity deckrules.Severity
		errors   []deckrules.RuleName
		warnings []deckrules.RuleName
	}{
		{deckrules.SeverityError, []deckrules.RuleName{deckrules.RuleDrawPileMinimum}, []deckrules.RuleName{}},
		{deckrules.SeverityWarning, []deckrules.RuleName{}, []deckrules.RuleName{deckrules.RuleDrawPileMinimum}},
		{deckrules.SeverityOff, []deckrules.RuleName{}, []deckrules.RuleName{}},
	}

	for _, tc := range tcs {
		t.Run(string(tc.severity), func(t *testing.T) {
			result := deckrules.NewEngine(deckrules.Options{DrawPileSeverity: tc.severity}).Validate(catalog, deck)
			testutil.Equal(t, tc.errors, testutil.Rules(result.Errors))
			testutil.Equal(t, tc.warnings, testutil.Rules(result.Warnings))
		})
	}
}

func TestEngineCustomGroups(t *testing.T) {
	catalog := deckrules.NewCatalog(
		deckrules.Card{ID: "s1", Type: deckrules.TypeSpecial, IsAmbush: true},
		deckrules.Card{ID: "s2", Type: deckrules.TypeSpecial, IsAmbush: true},
	)
	engine := deckrules.NewEngine(deckrules.Options{
		DrawPileSeverity: deckrules.SeverityOff,
		Groups: []deckrules.ExclusiveGroup{
			{Rule: deckrules.RuleAmbush, Label: "Ambush", Flag: deckrules.FlagAmbush, Max: 2},
		},
	})

	result := engine.Validate(catalog, testutil.Deck(catalog.Cards()...))
	testutil.Equal(t, []deckrules.Violation{}, result.Errors)
}

func TestCheckAdd(t *testing.T) {
	characters := testutil.Cards("c", deckrules.TypeCharacter, 5)
	cards := append([]deckrules.Card{}, characters...)
	cards = append(cards,
		deckrules.Card{ID: "s1", Type: deckrules.TypeSpecial, IsAmbush: true},
		deckrules.Card{ID: "s2", Type: deckrules.TypeSpecial, IsAmbush: true},
		deckrules.Card{ID: "p1", Type: deckrules.TypePower},
		deckrules.Card{ID: "a1", Type: deckrules.TypeSpecial, IsAssist: true},
		deckrules.Card{ID: "a2", Type: deckrules.TypeSpecial, IsAssist: true},
		deckrules.Card{ID: "f1", Type: deckrules.TypeAspect, IsFortification: true},
		deckrules.Card{ID: "f2", Type: deckrules.TypeAspect, IsFortification: true},
	)
	catalog := deckrules.NewCatalog(cards...)

	deck := testutil.Deck(cards[0], cards[1], cards[2], cards[3], cards[5], cards[8], cards[10])
	snapshot := append([]deckrules.Entry{}, deck.Entries...)

	tcs := []struct {
		cardID string
		rules  []deckrules.RuleName
	}{
		{"c5", []deckrules.RuleName{deckrules.RuleCharacterCap}},
		{"s1", []deckrules.RuleName{deckrules.RuleOnePerDeck}},
		{"s2", []deckrules.RuleName{deckrules.RuleAmbush}},
		{"a2", []deckrules.RuleName{deckrules.RuleAssist}},
		{"f2", []deckrules.RuleName{deckrules.RuleFortification}},
		{"p1", []deckrules.RuleName{}},
	}

	for _, tc := range tcs {
		t.Run(tc.cardID, func(t *testing.T) {
			violations, err := deckrules.CheckAdd(catalog, deck, tc.cardID)
			if err != nil {
				t.Fatalf("failed to check add: %v", err)
			}
			testutil.Equal(t, tc.rules, testutil.Rules(violations))
			testutil.Equal(t, snapshot, deck.Entries)
		})
	}

	overfull := testutil.Deck(characters...)
	violations, err := deckrules.CheckAdd(catalog, overfull, "p1")
	if err != nil {
		t.Fatalf("failed to check add: %v", err)
	}
	testutil.Equal(t, []deckrules.RuleName{}, testutil.Rules(violations))

	violations, err = deckrules.CheckAdd(catalog, overfull, "c1")
	if err != nil {
		t.Fatalf("failed to check add: %v", err)
	}
	testutil.Equal(t, []deckrules.RuleName{deckrules.RuleCharacterCap}, testutil.Rules(violations))

	if _, err := deckrules.CheckAdd(catalog, deck, "missing"); errors.Cause(err) != deckrules.ErrUnknownCard {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestParseSeverity(t *testing.T) {
	for in, expected := range map[string]deckrules.Severity{
		"":         deckrules.SeverityError,
		"error":    deckrules.SeverityError,
		" Warning": deckrules.SeverityWarning,
		"off":      deckrules.SeverityOff,
	} {
		severity, err := deckrules.ParseSeverity(in)
		if err != nil {
			t.Errorf("failed to parse %q: %v", in, err)
			continue
		}
		testutil.Equal(t, expected, severity)
	}

	if _, err := deckrules.ParseSeverity("fatal"); errors.Cause(err) != deckrules.ErrUnknownSeverity {
		t.Errorf("unexpected error: %v", err)
	}
}
