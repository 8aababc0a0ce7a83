// Package foodtable is a local SQLite food-composition table used as the
// first reference-nutrition lookup before any remote API.
package foodtable

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	_ "embed"

	"github.com/goccy/go-json"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/greenscan/backend/internal/classify"
	"github.com/greenscan/backend/internal/domain"
)

// Source is reported on every ReferenceNutrients the table returns
const Source = "foodtable"

//go:embed seed.json
var defaultSeed []byte

// Food is one row of the table, per 100 g
type Food struct {
	ID           int64   `db:"id" json:"-"`
	Name         string  `db:"name" json:"name"`
	NameLower    string  `db:"name_lower" json:"-"`
	Protein      float64 `db:"protein" json:"protein"`
	Fiber        float64 `db:"fiber" json:"fiber"`
	Sugars       float64 `db:"sugars" json:"sugars"`
	SaturatedFat float64 `db:"saturated_fat" json:"saturatedFat"`
	Salt         float64 `db:"salt" json:"salt"`
	EnergyKcal   float64 `db:"energy_kcal" json:"energyKcal"`
}

// Store implements domain.NutritionReference on SQLite
type Store struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// Open opens (or creates) the table at path; "" or ":memory:" keeps it in memory
func Open(path string, logger *zap.Logger) (*Store, error) {
	if path == "" {
		path = ":memory:"
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open food table: %w", err)
	}
	// one connection keeps an in-memory database alive and serializes writers
	db.SetMaxOpenConns(1)

	store := &Store{db: db, logger: logger}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS foods (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        name TEXT NOT NULL,
        name_lower TEXT NOT NULL UNIQUE,
        protein REAL NOT NULL DEFAULT 0,
        fiber REAL NOT NULL DEFAULT 0,
        sugars REAL NOT NULL DEFAULT 0,
        saturated_fat REAL NOT NULL DEFAULT 0,
        salt REAL NOT NULL DEFAULT 0,
        energy_kcal REAL NOT NULL DEFAULT 0
    );
    `
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Upsert inserts foods, replacing rows with the same case-insensitive name
func (s *Store) Upsert(ctx context.Context, foods []Food) (int, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
        INSERT INTO foods (name, name_lower, protein, fiber, sugars, saturated_fat, salt, energy_kcal)
        VALUES (:name, :name_lower, :protein, :fiber, :sugars, :saturated_fat, :salt, :energy_kcal)
        ON CONFLICT(name_lower) DO UPDATE SET
            name = excluded.name,
            protein = excluded.protein,
            fiber = excluded.fiber,
            sugars = excluded.sugars,
            saturated_fat = excluded.saturated_fat,
            salt = excluded.salt,
            energy_kcal = excluded.energy_kcal
    `
	written := 0
	for _, f := range foods {
		f.Name = strings.TrimSpace(f.Name)
		if f.Name == "" {
			continue
		}
		f.NameLower = strings.ToLower(f.Name)
		if _, err := tx.NamedExecContext(ctx, query, f); err != nil {
			return 0, fmt.Errorf("failed to upsert %q: %w", f.Name, err)
		}
		written++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit: %w", err)
	}
	return written, nil
}

// Import reads a JSON array of foods and upserts them
func (s *Store) Import(ctx context.Context, r io.Reader) (int, error) {
	var foods []Food
	if err := json.NewDecoder(r).Decode(&foods); err != nil {
		return 0, fmt.Errorf("%w: decode foods: %v", domain.ErrInvalidRequest, err)
	}
	n, err := s.Upsert(ctx, foods)
	if err != nil {
		return 0, err
	}
	s.logger.Info("foods imported", zap.Int("count", n))
	return n, nil
}

// ImportFile imports a JSON seed file
func (s *Store) ImportFile(ctx context.Context, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer f.Close()
	return s.Import(ctx, f)
}

// SeedDefaults loads the bundled Norwegian staples when the table is empty
func (s *Store) SeedDefaults(ctx context.Context) (int, error) {
	count, err := s.Count(ctx)
	if err != nil || count > 0 {
		return 0, err
	}
	return s.Import(ctx, strings.NewReader(string(defaultSeed)))
}

// Count returns the number of rows
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, `SELECT count(*) FROM foods`); err != nil {
		return 0, fmt.Errorf("failed to count foods: %w", err)
	}
	return n, nil
}

// Match tiers of FindByName; lower is better
const (
	tierExact = iota
	tierPrefix
	tierWordPrefix
	tierWordInQuery
	tierNone
)

// FindByName returns the closest row: exact name, then a name starting with
// the query, then a name with a word starting with the query, then a name
// that appears as whole words in the query ("tine brunost" -> Brunost).
// Fragments inside words never match, so "veggie burger" is not Egg.
func (s *Store) FindByName(ctx context.Context, name string) (*domain.ReferenceNutrients, error) {
	q := strings.ToLower(strings.TrimSpace(name))
	if q == "" {
		return nil, fmt.Errorf("%w: empty name", domain.ErrInvalidRequest)
	}

	query := `
        SELECT * FROM foods
        WHERE name_lower LIKE '%' || ? || '%' ESCAPE '\'
           OR instr(?, name_lower) > 0
        ORDER BY length(name_lower) DESC, id
    `
	var candidates []Food
	if err := s.db.SelectContext(ctx, &candidates, query, escapeLike(q), q); err != nil {
		return nil, fmt.Errorf("failed to query foods: %w", err)
	}

	var best *Food
	bestTier := tierNone
	for i := range candidates {
		if tier := matchTier(q, candidates[i].NameLower); tier < bestTier {
			best, bestTier = &candidates[i], tier
		}
	}
	if best == nil {
		return nil, domain.ErrProductNotFound
	}

	confidence := 80.0
	if bestTier == tierExact {
		confidence = 100
	}

	s.logger.Debug("food table match",
		zap.String("query", name),
		zap.String("match", best.Name),
		zap.Int("tier", bestTier),
	)
	return &domain.ReferenceNutrients{
		Name:         best.Name,
		Source:       Source,
		Protein:      best.Protein,
		Fiber:        best.Fiber,
		Sugars:       best.Sugars,
		SaturatedFat: best.SaturatedFat,
		Salt:         best.Salt,
		EnergyKcal:   best.EnergyKcal,
		Confidence:   confidence,
	}, nil
}

// matchTier ranks how row name relates to query q
func matchTier(q, row string) int {
	q, row = classify.Fold(q), classify.Fold(row)
	switch {
	case row == q:
		return tierExact
	case strings.HasPrefix(row, q):
		return tierPrefix
	case classify.ContainsWordPrefix(row, q):
		return tierWordPrefix
	case classify.ContainsWord(q, row):
		return tierWordInQuery
	default:
		return tierNone
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
