package catalog

import (
	"context"
	"database/sql"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"github.com/KyleGowen/excelsior-sub008/deckrules"
	"github.com/KyleGowen/excelsior-sub008/internal/catalog/migrations"
)

const migrationTable = "schema_migrations"

const cardColumns = `id, name, type, one_per_deck, is_ambush, is_assist, is_fortification, is_cataclysm,
	character, mission_set, threat_level, reserve_threat_level,
	energy, combat, brute_force, intelligence, power_type, value, to_use`

// Store persists catalog cards in SQLite.
type Store struct {
	sqlDB *sql.DB
}

// Open opens a SQLite card store and applies the embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, ErrMissingDBPath
	}

	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open sqlite db")
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, errors.Wrap(err, "failed to ping sqlite db")
	}
	if err := applyMigrations(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, errors.Wrap(err, "failed to run migrations")
	}

	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	if s == nil || s.sqlDB == nil {
		return ErrStoreNotOpened
	}
	return s.sqlDB.PingContext(ctx)
}

// PutCards inserts or replaces cards in a single transaction.
func (s *Store) PutCards(ctx context.Context, cards []deckrules.Card) error {
	if s == nil || s.sqlDB == nil {
		return ErrStoreNotOpened
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO cards (`+cardColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return errors.Wrap(err, "failed to prepare insert")
	}
	defer stmt.Close()

	for _, card := range cards {
		if strings.TrimSpace(card.ID) == "" {
			_ = tx.Rollback()
			return ErrMissingCardID
		}

		if _, err := stmt.ExecContext(ctx,
			card.ID,
			card.Name,
			string(card.Type),
			card.OnePerDeck,
			card.IsAmbush,
			card.IsAssist,
			card.IsFortification,
			card.IsCataclysm,
			card.Character,
			card.MissionSet,
			card.ThreatLevel,
			card.ReserveThreatLevel,
			card.Energy,
			card.Combat,
			card.BruteForce,
			card.Intelligence,
			card.PowerType,
			card.Value,
			card.ToUse,
		); err != nil {
			_ = tx.Rollback()
			return errors.Wrapf(err, "failed to insert card %q", card.ID)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}

	return nil
}

// GetCard returns a single card.
func (s *Store) GetCard(ctx context.Context, id string) (deckrules.Card, error) {
	if s == nil || s.sqlDB == nil {
		return deckrules.Card{}, ErrStoreNotOpened
	}

	row := s.sqlDB.QueryRowContext(ctx, `SELECT `+cardColumns+` FROM cards WHERE id = ?`, id)

	card, err := scanCard(row)
	if errors.Is(err, sql.ErrNoRows) {
		return deckrules.Card{}, errors.Wrapf(ErrCardNotFound, "%q", id)
	}
	if err != nil {
		return deckrules.Card{}, errors.Wrapf(err, "failed to get card %q", id)
	}

	return card, nil
}

// Catalog loads every stored card into a catalog snapshot.
func (s *Store) Catalog(ctx context.Context) (*deckrules.Catalog, error) {
	if s == nil || s.sqlDB == nil {
		return nil, ErrStoreNotOpened
	}

	rows, err := s.sqlDB.QueryContext(ctx, `SELECT `+cardColumns+` FROM cards ORDER BY id`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query cards")
	}
	defer rows.Close()

	cards := []deckrules.Card{}
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan card")
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate cards")
	}

	return deckrules.NewCatalog(cards...), nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCard(row scanner) (deckrules.Card, error) {
	var (
		card deckrules.Card
		t    string
	)

	if err := row.Scan(
		&card.ID,
		&card.Name,
		&t,
		&card.OnePerDeck,
		&card.IsAmbush,
		&card.IsAssist,
		&card.IsFortification,
		&card.IsCataclysm,
		&card.Character,
		&card.MissionSet,
		&card.ThreatLevel,
		&card.ReserveThreatLevel,
		&card.Energy,
		&card.Combat,
		&card.BruteForce,
		&card.Intelligence,
		&card.PowerType,
		&card.Value,
		&card.ToUse,
	); err != nil {
		return deckrules.Card{}, err
	}

	parsed, err := deckrules.ParseType(t)
	if err != nil {
		return deckrules.Card{}, err
	}
	card.Type = parsed

	return card, nil
}

// applyMigrations executes each embedded migration at most once.
func applyMigrations(sqlDB *sql.DB, migrationFS fs.FS) error {
	entries, err := fs.ReadDir(migrationFS, ".")
	if err != nil {
		return errors.Wrap(err, "failed to read migrations dir")
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	if _, err := sqlDB.Exec(`CREATE TABLE IF NOT EXISTS ` + migrationTable + ` (
		name TEXT PRIMARY KEY,
		applied_at INTEGER NOT NULL
	)`); err != nil {
		return errors.Wrap(err, "failed to ensure migration table")
	}

	for _, file := range files {
		var found int
		err := sqlDB.QueryRow(`SELECT 1 FROM `+migrationTable+` WHERE name = ?`, file).Scan(&found)
		if err == nil {
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return errors.Wrapf(err, "failed to check migration %s", file)
		}

		content, err := fs.ReadFile(migrationFS, file)
		if err != nil {
			return errors.Wrapf(err, "failed to read migration %s", file)
		}

		tx, err := sqlDB.Begin()
		if err != nil {
			return errors.Wrapf(err, "failed to begin migration %s", file)
		}
		if _, err := tx.Exec(upMigration(string(content))); err != nil {
			_ = tx.Rollback()
			return errors.Wrapf(err, "failed to exec migration %s", file)
		}
		if _, err := tx.Exec(`INSERT INTO `+migrationTable+` (name, applied_at) VALUES (?, ?)`, file, time.Now().UTC().UnixMilli()); err != nil {
			_ = tx.Rollback()
			return errors.Wrapf(err, "failed to record migration %s", file)
		}
		if err := tx.Commit(); err != nil {
			return errors.Wrapf(err, "failed to commit migration %s", file)
		}
	}

	return nil
}

// upMigration returns the SQL between the Up and Down markers.
func upMigration(content string) string {
	const up, down = "-- +migrate Up", "-- +migrate Down"

	start := strings.Index(content, up)
	if start == -1 {
		return content
	}
	start += len(up)

	if end := strings.Index(content, down); end > start {
		return content[start:end]
	}

	return content[start:]
}
