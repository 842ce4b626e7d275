// Package checkpoint persists compilation-unit counters so an incremental
// session (a REPL, a language server) can resume symbol and global
// numbering where an earlier session stopped.
package checkpoint

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tliron/commonlog"
	_ "modernc.org/sqlite"

	"github.com/funvibe/rootscope/internal/config"
	"github.com/funvibe/rootscope/internal/logging"
	"github.com/funvibe/rootscope/internal/symbols"
)

// ErrNotFound is returned when no checkpoint matches.
var ErrNotFound = errors.New("checkpoint not found")

// Snapshot is one stored checkpoint.
type Snapshot struct {
	ID      int64
	UnitID  uuid.UUID
	Symbols int
	Globals int
	Names   []string
	Created time.Time
}

// Counters converts the snapshot back into unit counters.
func (s Snapshot) Counters() symbols.Counters {
	return symbols.Counters{
		UnitID:  s.UnitID,
		Symbols: s.Symbols,
		Globals: s.Globals,
		Names:   s.Names,
	}
}

// Store is a sqlite-backed checkpoint store.
type Store struct {
	db   *sql.DB
	path string
	mu   sync.Mutex
	log  commonlog.Logger
}

const schema = `CREATE TABLE IF NOT EXISTS checkpoints (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	unit_id TEXT NOT NULL,
	symbols INTEGER NOT NULL,
	globals INTEGER NOT NULL,
	names TEXT NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS checkpoints_unit ON checkpoints (unit_id, id)`

// Open opens (creating if needed) the store at path. config.MemoryCheckpointPath
// opens a private in-memory database.
func Open(ctx context.Context, path string) (*Store, error) {
	if path != config.MemoryCheckpointPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating checkpoint directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// Every connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating table: %w", err)
	}

	s := &Store{db: db, path: path, log: logging.Get(config.LogCheckpoint)}
	s.log.Debugf("opened checkpoint store %s", path)
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Save stores a new checkpoint of c.
func (s *Store) Save(ctx context.Context, c symbols.Counters) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := c.Names
	if names == nil {
		names = []string{}
	}
	data, err := json.Marshal(names)
	if err != nil {
		return Snapshot{}, fmt.Errorf("encoding names: %w", err)
	}

	created := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO checkpoints (unit_id, symbols, globals, names, created_at) VALUES (?, ?, ?, ?, ?)",
		c.UnitID.String(), c.Symbols, c.Globals, string(data), created.UnixNano(),
	)
	if err != nil {
		return Snapshot{}, fmt.Errorf("saving checkpoint: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Snapshot{}, fmt.Errorf("saving checkpoint: %w", err)
	}

	s.log.Infof("checkpoint %d for unit %s: %d symbols, %d globals", id, c.UnitID, c.Symbols, c.Globals)
	return Snapshot{
		ID:      id,
		UnitID:  c.UnitID,
		Symbols: c.Symbols,
		Globals: c.Globals,
		Names:   append([]string(nil), names...),
		Created: created,
	}, nil
}

const selectColumns = "SELECT id, unit_id, symbols, globals, names, created_at FROM checkpoints"

func scanSnapshot(row interface{ Scan(...any) error }) (Snapshot, error) {
	var (
		snap    Snapshot
		unitID  string
		names   string
		created int64
	)
	if err := row.Scan(&snap.ID, &unitID, &snap.Symbols, &snap.Globals, &names, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Snapshot{}, ErrNotFound
		}
		return Snapshot{}, fmt.Errorf("querying checkpoint: %w", err)
	}
	id, err := uuid.Parse(unitID)
	if err != nil {
		return Snapshot{}, fmt.Errorf("checkpoint %d: bad unit id: %w", snap.ID, err)
	}
	snap.UnitID = id
	if err := json.Unmarshal([]byte(names), &snap.Names); err != nil {
		return Snapshot{}, fmt.Errorf("checkpoint %d: decoding names: %w", snap.ID, err)
	}
	snap.Created = time.Unix(0, created).UTC()
	return snap, nil
}

// Load returns the most recent checkpoint of the unit.
func (s *Store) Load(ctx context.Context, unitID uuid.UUID) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row := s.db.QueryRowContext(ctx, selectColumns+" WHERE unit_id = ? ORDER BY id DESC LIMIT 1", unitID.String())
	return scanSnapshot(row)
}

// Latest returns the most recent checkpoint of any unit.
func (s *Store) Latest(ctx context.Context) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row := s.db.QueryRowContext(ctx, selectColumns+" ORDER BY id DESC LIMIT 1")
	return scanSnapshot(row)
}

// History returns every checkpoint of the unit, oldest first.
func (s *Store) History(ctx context.Context, unitID uuid.UUID) ([]Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := s.db.QueryContext(ctx, selectColumns+" WHERE unit_id = ? ORDER BY id", unitID.String())
	if err != nil {
		return nil, fmt.Errorf("querying checkpoints: %w", err)
	}
	defer rows.Close()

	var out []Snapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, snap)
	}
	return out, rows.Err()
}

// Resume restores the latest checkpoint of unitID into u.
func (s *Store) Resume(ctx context.Context, u *symbols.Unit, unitID uuid.UUID) (Snapshot, error) {
	snap, err := s.Load(ctx, unitID)
	if err != nil {
		return Snapshot{}, err
	}
	if err := u.Restore(snap.Counters()); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}
