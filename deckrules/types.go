// Package deckrules decides whether a deck of cards is tournament-legal.
package deckrules

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
)

const (
	MaxCharacters    = 4
	MaxMissions      = 7
	MaxLocations     = 1
	MinDrawPileCards = 8
	MaxTotalThreat   = 76

	MaxCopiesOnePerDeck = 1

	AnyCharacter = "Any Character"
)

var (
	ErrUnknownType = errors.New("unknown card type")
)

// Type represents a card category.
type Type string

const (
	TypeCharacter        Type = "character"
	TypeMission          Type = "mission"
	TypeLocation         Type = "location"
	TypePower            Type = "power"
	TypeSpecial          Type = "special"
	TypeEvent            Type = "event"
	TypeAspect           Type = "aspect"
	TypeTraining         Type = "training"
	TypeAlly             Type = "ally"
	TypeTeamwork         Type = "teamwork"
	TypeAdvancedUniverse Type = "advanced-universe"
	TypeBasicUniverse    Type = "basic-universe"
)

// Types lists every card category in a fixed order.
var Types = []Type{
	TypeCharacter,
	TypeMission,
	TypeLocation,
	TypePower,
	TypeSpecial,
	TypeEvent,
	TypeAspect,
	TypeTraining,
	TypeAlly,
	TypeTeamwork,
	TypeAdvancedUniverse,
	TypeBasicUniverse,
}

var typeAliases = map[string]Type{
	"basic_universe":    TypeBasicUniverse,
	"advanced_universe": TypeAdvancedUniverse,
	"ally_universe":     TypeAlly,
	"ally-universe":     TypeAlly,
}

// ParseType parses a card type tag.
func ParseType(s string) (Type, error) {
	s = strings.ToLower(strings.TrimSpace(s))

	if t, ok := typeAliases[s]; ok {
		return t, nil
	}

	t := Type(s)
	if !t.Valid() {
		return "", errors.Wrapf(ErrUnknownType, "%q", s)
	}

	return t, nil
}

// Valid reports whether t is one of the known card categories.
func (t Type) Valid() bool {
	switch t {
	case TypeCharacter, TypeMission, TypeLocation,
		TypePower, TypeSpecial, TypeEvent, TypeAspect, TypeTraining,
		TypeAlly, TypeTeamwork, TypeAdvancedUniverse, TypeBasicUniverse:
		return true
	}

	return false
}

// IsDrawPile reports whether cards of type t belong to the draw pile.
func (t Type) IsDrawPile() bool {
	switch t {
	case TypeCharacter, TypeMission, TypeLocation:
		return false
	case TypePower, TypeSpecial, TypeEvent, TypeAspect, TypeTraining,
		TypeAlly, TypeTeamwork, TypeAdvancedUniverse, TypeBasicUniverse:
		return true
	}

	return false
}

// DrawPileTypes returns every type that belongs to the draw pile.
func DrawPileTypes() []Type {
	types := []Type{}

	for _, t := range Types {
		if t.IsDrawPile() {
			types = append(types, t)
		}
	}

	return types
}

// Card represents a catalog card.
type Card struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
	Type Type   `json:"type" yaml:"type"`

	OnePerDeck      bool `json:"onePerDeck" yaml:"onePerDeck"`
	IsAmbush        bool `json:"isAmbush" yaml:"isAmbush"`
	IsAssist        bool `json:"isAssist" yaml:"isAssist"`
	IsFortification bool `json:"isFortification" yaml:"isFortification"`
	IsCataclysm     bool `json:"isCataclysm" yaml:"isCataclysm"`

	Character  string `json:"character,omitempty" yaml:"character,omitempty"`
	MissionSet string `json:"missionSet,omitempty" yaml:"missionSet,omitempty"`

	ThreatLevel        int `json:"threatLevel,omitempty" yaml:"threatLevel,omitempty"`
	ReserveThreatLevel int `json:"reserveThreatLevel,omitempty" yaml:"reserveThreatLevel,omitempty"`

	// Character stats.
	Energy       int `json:"energy,omitempty" yaml:"energy,omitempty"`
	Combat       int `json:"combat,omitempty" yaml:"combat,omitempty"`
	BruteForce   int `json:"bruteForce,omitempty" yaml:"bruteForce,omitempty"`
	Intelligence int `json:"intelligence,omitempty" yaml:"intelligence,omitempty"`

	// PowerType and Value describe a power card, e.g. "Energy" and 5.
	PowerType string `json:"powerType,omitempty" yaml:"powerType,omitempty"`
	Value     int    `json:"value,omitempty" yaml:"value,omitempty"`

	// ToUse is the requirement printed on universe cards, e.g. "6 Combat".
	ToUse string `json:"toUse,omitempty" yaml:"toUse,omitempty"`
}

const (
	PowerEnergy       = "Energy"
	PowerCombat       = "Combat"
	PowerBruteForce   = "Brute Force"
	PowerIntelligence = "Intelligence"
	PowerAny          = "Any-Power"
	PowerMulti        = "Multi Power"
)

// Stat returns the character's value for a power type. Any-Power and Multi Power use the highest stat.
func (card Card) Stat(powerType string) (int, bool) {
	switch strings.TrimSpace(powerType) {
	case PowerEnergy:
		return card.Energy, true
	case PowerCombat:
		return card.Combat, true
	case PowerBruteForce:
		return card.BruteForce, true
	case PowerIntelligence:
		return card.Intelligence, true
	case PowerAny, PowerMulti, "Multi-Power":
		return max(card.Energy, card.Combat, card.BruteForce, card.Intelligence), true
	}

	return 0, false
}

// Has reports whether the card carries the flag.
func (card Card) Has(flag Flag) bool {
	switch flag {
	case FlagOnePerDeck:
		return card.OnePerDeck
	case FlagAmbush:
		return card.IsAmbush
	case FlagAssist:
		return card.IsAssist
	case FlagFortification:
		return card.IsFortification
	case FlagCataclysm:
		return card.IsCataclysm
	}

	return false
}

// Exclusive reports whether the card belongs to any named-exclusive group.
func (card Card) Exclusive() bool {
	return card.IsAmbush || card.IsAssist || card.IsFortification || card.IsCataclysm
}

// Flag identifies a boolean card attribute that limits how often a card may appear.
type Flag uint8

const (
	FlagOnePerDeck Flag = iota + 1
	FlagAmbush
	FlagAssist
	FlagFortification
	FlagCataclysm
)

func (flag Flag) String() string {
	switch flag {
	case FlagOnePerDeck:
		return "onePerDeck"
	case FlagAmbush:
		return "isAmbush"
	case FlagAssist:
		return "isAssist"
	case FlagFortification:
		return "isFortification"
	case FlagCataclysm:
		return "isCataclysm"
	}

	return "unknown"
}

// Catalog is a read-only index of cards by id.
type Catalog struct {
	cards map[string]Card
}

// NewCatalog builds a catalog. A later card with the same id replaces an earlier one.
func NewCatalog(cards ...Card) *Catalog {
	m := make(map[string]Card, len(cards))

	for _, card := range cards {
		m[card.ID] = card
	}

	return &Catalog{cards: m}
}

// Lookup returns the card with the given id.
func (catalog *Catalog) Lookup(id string) (Card, bool) {
	if catalog == nil {
		return Card{}, false
	}

	card, ok := catalog.cards[id]

	return card, ok
}

// Len returns the number of cards in the catalog.
func (catalog *Catalog) Len() int {
	if catalog == nil {
		return 0
	}

	return len(catalog.cards)
}

// Cards returns every card sorted by id.
func (catalog *Catalog) Cards() []Card {
	if catalog == nil {
		return nil
	}

	cards := make([]Card, 0, len(catalog.cards))
	for _, card := range catalog.cards {
		cards = append(cards, card)
	}

	sort.Slice(cards, func(i, j int) bool {
		return cards[i].ID < cards[j].ID
	})

	return cards
}

// Entry represents a card reference and its quantity in a deck.
type Entry struct {
	CardID   string `json:"cardId" yaml:"cardId"`
	Type     Type   `json:"type" yaml:"type"`
	Quantity int    `json:"quantity" yaml:"quantity"`
}

// count returns the quantity an entry contributes to any tally. Non-positive quantities contribute nothing.
func (entry Entry) count() int {
	return max(entry.Quantity, 0)
}

// Deck represents a snapshot of a deck owned by the caller.
type Deck struct {
	Entries            []Entry `json:"entries" yaml:"entries"`
	ReserveCharacterID string  `json:"reserveCharacterId,omitempty" yaml:"reserveCharacterId,omitempty"`
}

// With returns a copy of the deck with one more copy of the card.
func (deck Deck) With(card Card) Deck {
	entries := make([]Entry, 0, len(deck.Entries)+1)
	entries = append(entries, deck.Entries...)
	entries = append(entries, Entry{
		CardID:   card.ID,
		Type:     card.Type,
		Quantity: 1,
	})

	return Deck{
		Entries:            entries,
		ReserveCharacterID: deck.ReserveCharacterID,
	}
}
