// Package store provides SQLite persistence for tracked keywords and
// their interest timeseries.
package store

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Keyword is a tracked search term.
type Keyword struct {
	ID       string
	Keyword  string
	LastSeen time.Time
}

// Point is one interest sample for a keyword in a region.
type Point struct {
	TS       time.Time
	Interest int
	Partial  bool
}

// Store handles SQLite persistence. NOT an interface - concrete type.
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type Store struct {
	db *sql.DB
	mu sync.RWMutex // Protects all database operations
}

// Open creates a SQLite store at the given path (":memory:" for tests).
// The database is created if missing and the schema applied.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// WAL for better concurrent access
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS keywords (
		id TEXT PRIMARY KEY,
		keyword TEXT NOT NULL,
		normalized_keyword TEXT NOT NULL UNIQUE,
		language TEXT NOT NULL DEFAULT 'en',
		last_seen_at DATETIME
	);

	CREATE TABLE IF NOT EXISTS keyword_timeseries (
		keyword_id TEXT NOT NULL,
		region TEXT NOT NULL DEFAULT '',
		ts DATETIME NOT NULL,
		interest_value INTEGER NOT NULL,
		is_partial INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (keyword_id, region, ts)
	);

	CREATE INDEX IF NOT EXISTS idx_timeseries_keyword ON keyword_timeseries(keyword_id, ts);
	CREATE INDEX IF NOT EXISTS idx_keywords_last_seen ON keywords(last_seen_at DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

// UpsertKeyword inserts a keyword if its normalized form is unknown and
// returns the keyword's stable ID either way. The ID is a hash of the
// normalized form, so re-adding the same term is idempotent.
func (s *Store) UpsertKeyword(keyword string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(keyword))
	if normalized == "" {
		return "", fmt.Errorf("empty keyword")
	}
	id := hashString(normalized)

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO keywords (id, keyword, normalized_keyword, last_seen_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(normalized_keyword) DO UPDATE SET last_seen_at = excluded.last_seen_at
	`, id, keyword, normalized, time.Now())
	if err != nil {
		return "", fmt.Errorf("failed to upsert keyword: %w", err)
	}
	return id, nil
}

// SaveSeries upserts interest samples for a keyword in one transaction,
// keyed on (keyword_id, region, ts). Interest values are clamped into
// [0,100]. The keyword's last_seen_at is stamped on success.
func (s *Store) SaveSeries(keywordID, region string, points []Point) error {
	if len(points) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // no-op after commit

	stmt, err := tx.Prepare(`
		INSERT INTO keyword_timeseries (keyword_id, region, ts, interest_value, is_partial)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(keyword_id, region, ts) DO UPDATE SET
			interest_value = excluded.interest_value,
			is_partial = excluded.is_partial
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, p := range points {
		if _, err := stmt.Exec(keywordID, region, p.TS, clampInterest(p.Interest), p.Partial); err != nil {
			return fmt.Errorf("failed to save point at %v: %w", p.TS, err)
		}
	}

	if _, err := tx.Exec("UPDATE keywords SET last_seen_at = ? WHERE id = ?", time.Now(), keywordID); err != nil {
		return fmt.Errorf("failed to stamp keyword: %w", err)
	}

	return tx.Commit()
}

// Series returns a keyword's stored samples for a region, oldest first.
func (s *Store) Series(keywordID, region string) ([]Point, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT ts, interest_value, is_partial
		FROM keyword_timeseries
		WHERE keyword_id = ? AND region = ?
		ORDER BY ts ASC
	`, keywordID, region)
	if err != nil {
		return nil, fmt.Errorf("failed to query series: %w", err)
	}
	defer rows.Close()

	var points []Point
	for rows.Next() {
		var p Point
		if err := rows.Scan(&p.TS, &p.Interest, &p.Partial); err != nil {
			return nil, fmt.Errorf("failed to scan point: %w", err)
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return points, nil
}

// Keywords returns all tracked keywords, most recently seen first.
func (s *Store) Keywords() ([]Keyword, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, keyword, last_seen_at
		FROM keywords
		ORDER BY last_seen_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query keywords: %w", err)
	}
	defer rows.Close()

	var keywords []Keyword
	for rows.Next() {
		var k Keyword
		var lastSeen sql.NullTime
		if err := rows.Scan(&k.ID, &k.Keyword, &lastSeen); err != nil {
			return nil, fmt.Errorf("failed to scan keyword: %w", err)
		}
		k.LastSeen = lastSeen.Time
		keywords = append(keywords, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return keywords, nil
}

// KeywordCount returns the number of tracked keywords.
func (s *Store) KeywordCount() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM keywords").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count keywords: %w", err)
	}
	return count, nil
}

// DataPointCount returns the total number of stored samples.
func (s *Store) DataPointCount() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM keyword_timeseries").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count data points: %w", err)
	}
	return count, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func clampInterest(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// hashString creates a short hex hash for use as a keyword ID.
func hashString(s string) string {
	h := sha256.Sum256([]byte(s))
	return hex.EncodeToString(h[:8])
}
