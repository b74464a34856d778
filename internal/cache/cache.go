// Package cache persists successful ontology lookups in a local SQLite
// database so repeated BioPortal queries resolve without a round trip.
// Entries expire after a TTL; error payloads are never stored.
package cache

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// DefaultTTL is how long an entry stays servable. Ontology branches change
// rarely; a day keeps interactive sessions fast without going stale.
const DefaultTTL = 24 * time.Hour

const schema = `
CREATE TABLE IF NOT EXISTS lookups (
	key            TEXT PRIMARY KEY,
	value          TEXT NOT NULL,
	op             TEXT NOT NULL,
	params_summary TEXT NOT NULL,
	created_at     INTEGER NOT NULL,
	ttl_seconds    INTEGER NOT NULL
);
`

// Store is a TTL cache backed by a SQLite file.
type Store struct {
	db  *sql.DB
	ttl time.Duration
	log *zap.Logger
	now func() time.Time
}

// Option customises a Store.
type Option func(*Store)

// WithTTL overrides the default entry lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithLogger attaches a structured logger.
func WithLogger(log *zap.Logger) Option {
	return func(s *Store) {
		s.log = log
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// DefaultDir returns the per-user cache directory for this tool.
func DefaultDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("cache: resolve user cache dir: %w", err)
	}
	return filepath.Join(base, "cedar-mcp"), nil
}

// Open opens (or creates) the cache database at path. An empty path places
// the database in DefaultDir.
func Open(path string, options ...Option) (*Store, error) {
	if path == "" {
		dir, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(dir, "lookups.db")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("cache: create cache dir: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("cache: open database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("cache: apply schema: %w", err)
	}

	s := &Store{
		db:  db,
		ttl: DefaultTTL,
		log: zap.NewNop(),
		now: time.Now,
	}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Key derives the cache key for an operation and its parameters. Parameters
// are sorted before hashing so call sites need not agree on ordering.
// Credentials must never be part of params.
func Key(op string, params map[string]string) string {
	h := sha256.New()
	h.Write([]byte(op))
	h.Write([]byte{0})

	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		h.Write([]byte(name))
		h.Write([]byte{0})
		h.Write([]byte(params[name]))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns the cached payload for (op, params) if a fresh entry exists.
// The returned copy carries "_cached": true and "_cache_age_seconds" so
// consumers can tell cached results apart from live ones. Expired entries are
// deleted on read.
func (s *Store) Get(ctx context.Context, op string, params map[string]string) (map[string]any, bool) {
	key := Key(op, params)

	var (
		raw        string
		createdAt  int64
		ttlSeconds int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT value, created_at, ttl_seconds FROM lookups WHERE key = ?`, key,
	).Scan(&raw, &createdAt, &ttlSeconds)
	if err == sql.ErrNoRows {
		return nil, false
	}
	if err != nil {
		s.log.Warn("cache read failed", zap.String("op", op), zap.Error(err))
		return nil, false
	}

	age := s.now().Unix() - createdAt
	if age > ttlSeconds {
		if _, err := s.db.ExecContext(ctx, `DELETE FROM lookups WHERE key = ?`, key); err != nil {
			s.log.Warn("stale entry delete failed", zap.String("op", op), zap.Error(err))
		}
		return nil, false
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		s.log.Warn("cache entry corrupt", zap.String("op", op), zap.Error(err))
		return nil, false
	}
	payload["_cached"] = true
	payload["_cache_age_seconds"] = age
	return payload, true
}

// Set stores a payload for (op, params). Payloads carrying an "error" key are
// refused so transient upstream failures never get pinned for a full TTL.
func (s *Store) Set(ctx context.Context, op string, params map[string]string, payload map[string]any) error {
	if payload == nil {
		return nil
	}
	if _, isErr := payload["error"]; isErr {
		return nil
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("cache: encode payload: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO lookups (key, value, op, params_summary, created_at, ttl_seconds)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		Key(op, params), string(raw), op, summarize(params), s.now().Unix(), int64(s.ttl.Seconds()),
	)
	if err != nil {
		return fmt.Errorf("cache: store entry: %w", err)
	}
	return nil
}

// RemoveStale deletes every expired entry and reports how many were removed.
func (s *Store) RemoveStale(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM lookups WHERE created_at + ttl_seconds < ?`, s.now().Unix())
	if err != nil {
		return 0, fmt.Errorf("cache: remove stale entries: %w", err)
	}
	return res.RowsAffected()
}

// Clear deletes every entry and reports how many were removed.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM lookups`)
	if err != nil {
		return 0, fmt.Errorf("cache: clear entries: %w", err)
	}
	return res.RowsAffected()
}

// summarize renders params as a short "k=v" list for inspection with the
// sqlite3 shell. It is informational only; the key column is authoritative.
func summarize(params map[string]string) string {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+"="+params[name])
	}
	return strings.Join(parts, " ")
}
