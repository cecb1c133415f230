// Package cache is an optional SQLite-backed memo of metric engine
// responses keyed by (target, tier parameters). It is purely additive: a
// design run behaves identically with or without it, the cache only skips
// repeat engine invocations for identical inputs.
package cache

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/MaxwellM34/primerPlus/internal/design"
)

const schema = `
CREATE TABLE IF NOT EXISTS engine_results (
	key         TEXT PRIMARY KEY,
	target_id   TEXT NOT NULL,
	payload     TEXT NOT NULL,
	created_at  INTEGER NOT NULL
);
`

// Store is the sqlite handle behind a caching engine.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the cache database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing cache schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) get(ctx context.Context, key string) ([]design.Candidate, bool, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM engine_results WHERE key = ?`, key).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var cands []design.Candidate
	if err := json.Unmarshal([]byte(payload), &cands); err != nil {
		return nil, false, fmt.Errorf("corrupt cache entry %s: %w", key, err)
	}
	return cands, true, nil
}

func (s *Store) put(ctx context.Context, key, targetID string, cands []design.Candidate) error {
	payload, err := json.Marshal(cands)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO engine_results (key, target_id, payload, created_at) VALUES (?, ?, ?, ?)`,
		key, targetID, string(payload), time.Now().Unix())
	return err
}

// Engine wraps an inner metric engine with the store. Cache problems fall
// back to the inner engine rather than failing the tier; only the inner
// engine's own errors surface, and errors are never cached.
type Engine struct {
	Inner design.MetricEngine
	Store *Store
}

// Design returns the memoized response for this (target, params) pair or
// delegates to the inner engine and memoizes its successful result.
func (e *Engine) Design(ctx context.Context, target design.Target, params design.Params) ([]design.Candidate, error) {
	key := cacheKey(target, params)

	if cands, ok, err := e.Store.get(ctx, key); err == nil && ok {
		return cands, nil
	}

	cands, err := e.Inner.Design(ctx, target, params)
	if err != nil {
		return nil, err
	}
	if putErr := e.Store.put(ctx, key, target.ID, cands); putErr != nil {
		// a failed write only costs the memoization
		return cands, nil
	}
	return cands, nil
}

// cacheKey digests the target sequence and the full parameter snapshot.
// Any parameter change produces a new key, so tiers never collide.
func cacheKey(target design.Target, params design.Params) string {
	h := sha256.New()
	h.Write([]byte(target.Seq))
	h.Write([]byte{0})
	enc, _ := json.Marshal(params)
	h.Write(enc)
	if target.Probe != nil {
		fmt.Fprintf(h, "|probe:%d,%d", target.Probe.Start, target.Probe.Length)
	}
	return hex.EncodeToString(h.Sum(nil))
}
