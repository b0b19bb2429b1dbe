// Package store archives cosmic snapshots in a local SQLite database so that
// past readings can be retrieved by their cosmic state.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"cosmic/internal/logging"
	"cosmic/internal/snapshot"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// DefaultQueryLimit caps Query when the caller passes a non-positive limit.
const DefaultQueryLimit = 100

// Record is one archived snapshot.
type Record struct {
	ID        string             `json:"id"`
	CreatedAt time.Time          `json:"created_at"`
	Snapshot  *snapshot.Snapshot `json:"snapshot"`
}

// SnapshotStore is a SQLite-backed snapshot archive. The filter columns are
// denormalised out of the JSON payload so Query can push them into SQL.
type SnapshotStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	dbPath string
	closed bool
	now    func() time.Time
}

// Open creates or opens the archive at path.
func Open(path string) (*SnapshotStore, error) {
	timer := logging.StartTimer(logging.CategoryStore, "Open")
	defer timer.Stop()

	logging.Store("Opening snapshot store at %s", path)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		logging.Get(logging.CategoryStore).Error("Failed to create directory %s: %v", dir, err)
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		logging.Get(logging.CategoryStore).Error("Failed to open database at %s: %v", path, err)
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		logging.StoreDebug("Failed to set sqlite busy_timeout: %v", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		logging.StoreDebug("Failed to set sqlite journal_mode=WAL: %v", err)
	}

	s := &SnapshotStore{db: db, dbPath: path, now: time.Now}
	if err := s.initialize(); err != nil {
		logging.Get(logging.CategoryStore).Error("Failed to initialize schema: %v", err)
		db.Close()
		return nil, err
	}
	if err := RunMigrations(db); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SnapshotStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS snapshots (
		id TEXT PRIMARY KEY,
		created_at INTEGER NOT NULL,
		observed_at INTEGER NOT NULL,
		card_name TEXT NOT NULL DEFAULT '',
		planet TEXT NOT NULL DEFAULT '',
		gate INTEGER NOT NULL DEFAULT 0,
		moon_phase TEXT NOT NULL DEFAULT '',
		storm_level TEXT NOT NULL DEFAULT '',
		kp_index REAL NOT NULL DEFAULT 0,
		hd_type TEXT NOT NULL DEFAULT '',
		tightest_aspect TEXT NOT NULL DEFAULT '',
		payload TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_snapshots_created ON snapshots(created_at);
	CREATE INDEX IF NOT EXISTS idx_snapshots_card ON snapshots(card_name);
	CREATE INDEX IF NOT EXISTS idx_snapshots_gate ON snapshots(gate);
	CREATE INDEX IF NOT EXISTS idx_snapshots_phase ON snapshots(moon_phase);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create snapshots table: %w", err)
	}
	return nil
}

// Path returns the database file path.
func (s *SnapshotStore) Path() string { return s.dbPath }

// Close releases the database.
func (s *SnapshotStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

// Save archives snap and returns its generated id.
func (s *SnapshotStore) Save(ctx context.Context, snap *snapshot.Snapshot) (string, error) {
	if snap == nil {
		return "", ErrNilSnapshot
	}
	payload, err := json.Marshal(snap)
	if err != nil {
		return "", fmt.Errorf("failed to encode snapshot: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", ErrClosed
	}

	id := uuid.NewString()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO snapshots (id, created_at, observed_at, card_name, planet, gate,
			moon_phase, storm_level, kp_index, hd_type, tightest_aspect, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, s.now().UnixNano(), snap.Timestamp.UnixNano(),
		snap.CardName, snap.Planet, snap.Gate,
		snap.MoonPhase, snap.StormLevel, snap.KpIndex,
		snap.HDType, snap.TightestAspect, string(payload))
	if err != nil {
		return "", fmt.Errorf("failed to save snapshot: %w", err)
	}
	logging.StoreDebug("Saved snapshot %s (card=%q gate=%d phase=%q)", id, snap.CardName, snap.Gate, snap.MoonPhase)
	return id, nil
}

// Get loads one snapshot by id.
func (s *SnapshotStore) Get(ctx context.Context, id string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}

	row := s.db.QueryRowContext(ctx, `SELECT id, created_at, payload FROM snapshots WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Query returns the newest snapshots matching f, at most limit of them.
func (s *SnapshotStore) Query(ctx context.Context, f snapshot.Filter, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = DefaultQueryLimit
	}
	where, args := whereClause(f)
	query := "SELECT id, created_at, payload FROM snapshots"
	if where != "" {
		query += " WHERE " + where
	}
	query += " ORDER BY created_at DESC, rowid DESC LIMIT ?"
	args = append(args, limit)

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			logging.Get(logging.CategoryStore).Warn("Skipping unreadable snapshot row: %v", err)
			continue
		}
		if snapshot.Matches(rec.Snapshot, f) {
			out = append(out, *rec)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read snapshots: %w", err)
	}
	logging.StoreDebug("Query matched %d snapshots", len(out))
	return out, nil
}

// Count returns the number of archived snapshots.
func (s *SnapshotStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return 0, ErrClosed
	}
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM snapshots`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count snapshots: %w", err)
	}
	return n, nil
}

// Delete removes one snapshot.
func (s *SnapshotStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM snapshots WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// Prune deletes snapshots archived before cutoff and reports how many went.
func (s *SnapshotStore) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrClosed
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM snapshots WHERE created_at < ?`, cutoff.UnixNano())
	if err != nil {
		return 0, fmt.Errorf("failed to prune snapshots: %w", err)
	}
	n, _ := res.RowsAffected()
	logging.Store("Pruned %d snapshots older than %s", n, cutoff.Format(time.RFC3339))
	return n, nil
}

// whereClause pushes the exact-match fields and the Kp floor into SQL.
func whereClause(f snapshot.Filter) (string, []any) {
	var conds []string
	var args []any
	add := func(cond string, v any) {
		conds = append(conds, cond)
		args = append(args, v)
	}
	if f.CardName != "" {
		add("card_name = ?", f.CardName)
	}
	if f.Planet != "" {
		add("planet = ?", f.Planet)
	}
	if f.Gate != 0 {
		add("gate = ?", f.Gate)
	}
	if f.MoonPhase != "" {
		add("moon_phase = ?", f.MoonPhase)
	}
	if f.StormLevel != "" {
		add("storm_level = ?", f.StormLevel)
	}
	if f.MinKp != nil {
		add("kp_index >= ?", *f.MinKp)
	}
	return strings.Join(conds, " AND "), args
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (*Record, error) {
	var (
		id      string
		created int64
		payload string
	)
	if err := sc.Scan(&id, &created, &payload); err != nil {
		return nil, err
	}
	var snap snapshot.Snapshot
	if err := json.Unmarshal([]byte(payload), &snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot %s: %w", id, err)
	}
	return &Record{ID: id, CreatedAt: time.Unix(0, created).UTC(), Snapshot: &snap}, nil
}
