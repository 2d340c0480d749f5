// Package deckcheck implements the deckcheck command, which validates deck files against a card catalog.
package deckcheck

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/KyleGowen/excelsior-sub008/deckrules"
	"github.com/KyleGowen/excelsior-sub008/internal/catalog"
)

var (
	ErrMissingCatalog = errors.New("catalog is required")
	ErrMissingDecks   = errors.New("at least one deck file is required")
	ErrIllegalDeck    = errors.New("one or more decks are not legal")
)

// Config holds deckcheck settings.
type Config struct {
	CatalogPath string
	Severity    deckrules.Severity
	Verbose     bool
	DeckPaths   []string
}

// ParseConfig parses command-line flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := Config{}

	var severity string
	fs.StringVar(&cfg.CatalogPath, "catalog", "", "catalog file (YAML or JSON)")
	fs.StringVar(&severity, "severity", string(deckrules.SeverityError), "draw pile minimum severity: error, warning or off")
	fs.BoolVar(&cfg.Verbose, "v", false, "log progress to stderr")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if strings.TrimSpace(cfg.CatalogPath) == "" {
		return Config{}, ErrMissingCatalog
	}

	s, err := deckrules.ParseSeverity(severity)
	if err != nil {
		return Config{}, err
	}
	cfg.Severity = s

	cfg.DeckPaths = fs.Args()
	if len(cfg.DeckPaths) == 0 {
		return Config{}, ErrMissingDecks
	}

	return cfg, nil
}

// DeckFile represents the top-level YAML structure of a deck file.
type DeckFile struct {
	Decks []DeckRecord `yaml:"decks"`
}

// DeckRecord represents a single deck in a deck file.
type DeckRecord struct {
	Name               string        `yaml:"name"`
	ReserveCharacterID string        `yaml:"reserveCharacterId"`
	Entries            []EntryRecord `yaml:"entries"`
}

// EntryRecord represents a card and its quantity in a deck file.
type EntryRecord struct {
	CardID   string `yaml:"cardId"`
	Type     string `yaml:"type"`
	Quantity int    `yaml:"quantity"`
}

// NamedDeck is a deck snapshot with its display name.
type NamedDeck struct {
	Name string
	Deck deckrules.Deck
}

// ReadDecks decodes the decks of a deck file.
func ReadDecks(r io.Reader) ([]NamedDeck, error) {
	var df DeckFile
	if err := yaml.NewDecoder(r).Decode(&df); err != nil {
		return nil, errors.Wrap(err, "failed to decode deck file")
	}

	decks := make([]NamedDeck, 0, len(df.Decks))
	for i, record := range df.Decks {
		deck := deckrules.Deck{
			ReserveCharacterID: strings.TrimSpace(record.ReserveCharacterID),
			Entries:            make([]deckrules.Entry, 0, len(record.Entries)),
		}

		for _, entry := range record.Entries {
			t, err := deckrules.ParseType(entry.Type)
			if err != nil {
				return nil, errors.Wrapf(err, "failed to parse entry %q of deck %d", entry.CardID, i)
			}

			deck.Entries = append(deck.Entries, deckrules.Entry{
				CardID:   strings.TrimSpace(entry.CardID),
				Type:     t,
				Quantity: entry.Quantity,
			})
		}

		name := record.Name
		if name == "" {
			name = fmt.Sprintf("deck %d", i+1)
		}

		decks = append(decks, NamedDeck{Name: name, Deck: deck})
	}

	return decks, nil
}

// Run validates every deck in the configured files and writes a report to out.
// It returns ErrIllegalDeck when any deck has errors.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	if out == nil {
		out = io.Discard
	}

	level := slog.LevelWarn
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cards, err := catalog.LoadFile(cfg.CatalogPath)
	if err != nil {
		return errors.Wrap(err, "failed to load catalog")
	}
	logger.Debug("catalog loaded", "path", cfg.CatalogPath, "cards", cards.Len())

	engine := deckrules.NewEngine(deckrules.Options{DrawPileSeverity: cfg.Severity})

	illegal := 0
	for _, path := range cfg.DeckPaths {
		if err := ctx.Err(); err != nil {
			return err
		}

		decks, err := readDeckFile(path)
		if err != nil {
			return err
		}
		logger.Debug("deck file read", "path", path, "decks", len(decks))

		for _, deck := range decks {
			for _, entry := range deck.Deck.Entries {
				if _, ok := cards.Lookup(entry.CardID); !ok {
					logger.Warn("deck references unknown card", "deck", deck.Name, "card_id", entry.CardID)
				}
			}

			result := engine.Validate(cards, deck.Deck)
			if !result.Legal() {
				illegal++
			}

			writeReport(out, deck.Name, result)
		}
	}

	if illegal > 0 {
		return errors.Wrapf(ErrIllegalDeck, "%d illegal", illegal)
	}

	return nil
}

func readDeckFile(path string) ([]NamedDeck, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open deck file")
	}
	defer f.Close()

	decks, err := ReadDecks(f)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read deck file %s", path)
	}

	return decks, nil
}

func writeReport(out io.Writer, name string, result deckrules.Result) {
	verdict := "legal"
	if !result.Legal() {
		verdict = "not legal"
	}

	fmt.Fprintf(out, "%s: %s\n", name, verdict)
	for _, violation := range result.Errors {
		fmt.Fprintf(out, "  error [%s] %s\n", violation.Rule, violation.Message)
	}
	for _, violation := range result.Warnings {
		fmt.Fprintf(out, "  warning [%s] %s\n", violation.Rule, violation.Message)
	}
}
