package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"mendel/internal/model"
)

// dialect carries what differs between the SQL backends.
type dialect struct {
	driver      string
	numbered    bool
	payloadType string
}

// sqlStore is the database/sql implementation shared by the sqlite and
// postgres backends. Records are stored as versioned JSON payloads next to
// the columns used for lookups.
type sqlStore struct {
	dialect dialect
	dsn     string

	mu sync.RWMutex
	db *sql.DB
}

func (s *sqlStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dsn == "" {
		return fmt.Errorf("%s data source is required", s.dialect.driver)
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open(s.dialect.driver, s.dsn)
	if err != nil {
		return err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}

	if err := s.createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}

	s.db = db
	return nil
}

// q rewrites ? placeholders to $n for dialects that number them.
func (s *sqlStore) q(query string) string {
	if !s.dialect.numbered {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *sqlStore) SaveSpecies(ctx context.Context, species model.SpeciesRecord) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	payload, err := EncodeSpecies(species)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, s.q(`
		INSERT INTO species (name, schema_version, codec_version, payload)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			schema_version = excluded.schema_version,
			codec_version = excluded.codec_version,
			payload = excluded.payload
	`), species.Name, species.SchemaVersion, species.CodecVersion, payload)
	return err
}

func (s *sqlStore) GetSpecies(ctx context.Context, name string) (model.SpeciesRecord, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return model.SpeciesRecord{}, false, err
	}

	var payload []byte
	err = db.QueryRowContext(ctx, s.q(`SELECT payload FROM species WHERE name = ?`), name).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.SpeciesRecord{}, false, nil
		}
		return model.SpeciesRecord{}, false, err
	}

	species, err := DecodeSpecies(payload)
	if err != nil {
		return model.SpeciesRecord{}, false, fmt.Errorf("decode species %s: %w", name, err)
	}
	return species, true, nil
}

func (s *sqlStore) ListSpecies(ctx context.Context) ([]model.SpeciesRecord, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `SELECT name, payload FROM species ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.SpeciesRecord
	for rows.Next() {
		var name string
		var payload []byte
		if err := rows.Scan(&name, &payload); err != nil {
			return nil, err
		}
		species, err := DecodeSpecies(payload)
		if err != nil {
			return nil, fmt.Errorf("decode species %s: %w", name, err)
		}
		out = append(out, species)
	}
	return out, rows.Err()
}

func (s *sqlStore) SaveGenome(ctx context.Context, genome model.GenomeRecord) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	payload, err := EncodeGenome(genome)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, s.q(`
		INSERT INTO genomes (id, species, created_at, schema_version, codec_version, payload)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			species = excluded.species,
			created_at = excluded.created_at,
			schema_version = excluded.schema_version,
			codec_version = excluded.codec_version,
			payload = excluded.payload
	`), genome.ID, genome.Species, genome.CreatedAt.UTC().Format(time.RFC3339Nano), genome.SchemaVersion, genome.CodecVersion, payload)
	return err
}

func (s *sqlStore) GetGenome(ctx context.Context, id string) (model.GenomeRecord, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return model.GenomeRecord{}, false, err
	}

	var payload []byte
	err = db.QueryRowContext(ctx, s.q(`SELECT payload FROM genomes WHERE id = ?`), id).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.GenomeRecord{}, false, nil
		}
		return model.GenomeRecord{}, false, err
	}

	genome, err := DecodeGenome(payload)
	if err != nil {
		return model.GenomeRecord{}, false, fmt.Errorf("decode genome %s: %w", id, err)
	}
	return genome, true, nil
}

func (s *sqlStore) ListGenomes(ctx context.Context, species string) ([]model.GenomeRecord, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	query := `SELECT id, payload FROM genomes`
	var args []any
	if species != "" {
		query += ` WHERE species = ?`
		args = append(args, species)
	}
	rows, err := db.QueryContext(ctx, s.q(query), args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.GenomeRecord
	for rows.Next() {
		var id string
		var payload []byte
		if err := rows.Scan(&id, &payload); err != nil {
			return nil, err
		}
		genome, err := DecodeGenome(payload)
		if err != nil {
			return nil, fmt.Errorf("decode genome %s: %w", id, err)
		}
		out = append(out, genome)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sortGenomes(out)
	return out, nil
}

func (s *sqlStore) DeleteGenome(ctx context.Context, id string) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, s.q(`DELETE FROM genomes WHERE id = ?`), id)
	return err
}

func (s *sqlStore) SaveLineage(ctx context.Context, lineage model.LineageRecord) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	payload, err := EncodeLineage(lineage)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, s.q(`
		INSERT INTO lineage (child_id, payload)
		VALUES (?, ?)
		ON CONFLICT(child_id) DO UPDATE SET
			payload = excluded.payload
	`), lineage.ChildID, payload)
	return err
}

func (s *sqlStore) GetLineage(ctx context.Context, childID string) (model.LineageRecord, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return model.LineageRecord{}, false, err
	}

	var payload []byte
	err = db.QueryRowContext(ctx, s.q(`SELECT payload FROM lineage WHERE child_id = ?`), childID).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.LineageRecord{}, false, nil
		}
		return model.LineageRecord{}, false, err
	}

	lineage, err := DecodeLineage(payload)
	if err != nil {
		return model.LineageRecord{}, false, fmt.Errorf("decode lineage %s: %w", childID, err)
	}
	return lineage, true, nil
}

func (s *sqlStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *sqlStore) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, errNotInitialized
	}
	return s.db, nil
}

func (s *sqlStore) createTables(ctx context.Context, db *sql.DB) error {
	payload := s.dialect.payloadType
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS species (
			name TEXT PRIMARY KEY,
			schema_version INTEGER NOT NULL,
			codec_version INTEGER NOT NULL,
			payload ` + payload + ` NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS genomes (
			id TEXT PRIMARY KEY,
			species TEXT NOT NULL,
			created_at TEXT NOT NULL,
			schema_version INTEGER NOT NULL,
			codec_version INTEGER NOT NULL,
			payload ` + payload + ` NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS genomes_species_idx ON genomes (species)`,
		`CREATE TABLE IF NOT EXISTS lineage (
			child_id TEXT PRIMARY KEY,
			payload ` + payload + ` NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create tables: %w", err)
		}
	}
	return nil
}
