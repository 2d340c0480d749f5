// Package catalog loads card catalogs from files and SQLite.
package catalog

import (
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/KyleGowen/excelsior-sub008/deckrules"
)

var (
	ErrMissingCardID  = errors.New("missing card id")
	ErrDuplicateCard  = errors.New("duplicate card")
	ErrCardNotFound   = errors.New("card not found")
	ErrMissingDBPath  = errors.New("missing database path")
	ErrStoreNotOpened = errors.New("store is not opened")
)

// File represents a catalog file. JSON files decode through the same YAML parser.
type File struct {
	Cards []Record `yaml:"cards"`
}

// Record represents one card as written in a catalog file.
type Record struct {
	ID              string `yaml:"id"`
	Name            string `yaml:"name"`
	Type            string `yaml:"type"`
	OnePerDeck      bool   `yaml:"onePerDeck"`
	IsAmbush        bool   `yaml:"isAmbush"`
	IsAssist        bool   `yaml:"isAssist"`
	IsFortification bool   `yaml:"isFortification"`
	IsCataclysm     bool   `yaml:"isCataclysm"`
	Character       string `yaml:"character"`
	MissionSet      string `yaml:"missionSet"`
	Threat          int    `yaml:"threatLevel"`
	ReserveThreat   int    `yaml:"reserveThreatLevel"`
	Energy          int    `yaml:"energy"`
	Combat          int    `yaml:"combat"`
	BruteForce      int    `yaml:"bruteForce"`
	Intelligence    int    `yaml:"intelligence"`
	PowerType       string `yaml:"powerType"`
	Value           int    `yaml:"value"`
	ToUse           string `yaml:"toUse"`
}

// Card converts the record to a catalog card.
func (record Record) Card() (deckrules.Card, error) {
	id := strings.TrimSpace(record.ID)
	if id == "" {
		return deckrules.Card{}, ErrMissingCardID
	}

	t, err := deckrules.ParseType(record.Type)
	if err != nil {
		return deckrules.Card{}, errors.Wrapf(err, "failed to parse type of card %q", id)
	}

	return deckrules.Card{
		ID:                 id,
		Name:               strings.TrimSpace(record.Name),
		Type:               t,
		OnePerDeck:         record.OnePerDeck,
		IsAmbush:           record.IsAmbush,
		IsAssist:           record.IsAssist,
		IsFortification:    record.IsFortification,
		IsCataclysm:        record.IsCataclysm,
		Character:          strings.TrimSpace(record.Character),
		MissionSet:         strings.TrimSpace(record.MissionSet),
		ThreatLevel:        record.Threat,
		ReserveThreatLevel: record.ReserveThreat,
		Energy:             record.Energy,
		Combat:             record.Combat,
		BruteForce:         record.BruteForce,
		Intelligence:       record.Intelligence,
		PowerType:          strings.TrimSpace(record.PowerType),
		Value:              record.Value,
		ToUse:              strings.TrimSpace(record.ToUse),
	}, nil
}

// ReadCards decodes catalog cards from r.
func ReadCards(r io.Reader) ([]deckrules.Card, error) {
	var f File
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return []deckrules.Card{}, nil
		}
		return nil, errors.Wrap(err, "failed to decode catalog")
	}

	seen := make(map[string]bool, len(f.Cards))
	cards := make([]deckrules.Card, 0, len(f.Cards))

	for i, record := range f.Cards {
		card, err := record.Card()
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read card %d", i)
		}
		if seen[card.ID] {
			return nil, errors.Wrapf(ErrDuplicateCard, "%q", card.ID)
		}
		seen[card.ID] = true

		cards = append(cards, card)
	}

	return cards, nil
}

// LoadFile reads a catalog file.
func LoadFile(path string) (*deckrules.Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open catalog file")
	}
	defer f.Close()

	cards, err := ReadCards(f)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read catalog file %s", path)
	}

	return deckrules.NewCatalog(cards...), nil
}
