package save

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/lixenwraith/scenekit/core"
	"github.com/lixenwraith/scenekit/engine"
)

// ErrNoSave is returned when a requested save does not exist
var ErrNoSave = errors.New("save not found")

// Info describes a stored save without its flag tables
type Info struct {
	ID      string
	Label   string
	Room    core.RoomID
	Created time.Time
}

// flagTables is the JSON column holding per-room and global flags
type flagTables struct {
	Rooms  map[core.RoomID]map[string]int `json:"rooms"`
	Global map[string]int                 `json:"global"`
}

// Store persists scene saves in a SQLite file
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path, ":memory:" keeps it in process
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create save directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// A single connection keeps ":memory:" databases shared across calls
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}
	if err := createSchemas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schemas: %w", err)
	}
	return &Store{db: db}, nil
}

func createSchemas(db *sql.DB) error {
	schemas := []string{
		`CREATE TABLE IF NOT EXISTS saves (
			id TEXT PRIMARY KEY,
			label TEXT NOT NULL DEFAULT '',
			room INTEGER NOT NULL,
			pos_x INTEGER NOT NULL,
			pos_y INTEGER NOT NULL,
			orientation INTEGER NOT NULL,
			flags TEXT NOT NULL,
			created_at INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_saves_created ON saves(created_at);`,
	}

	for _, query := range schemas {
		if _, err := db.Exec(query); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the database
func (s *Store) Close() error {
	return s.db.Close()
}

// Save writes st under a new id and returns it
func (s *Store) Save(ctx context.Context, label string, st engine.SaveState) (string, error) {
	flags, err := json.Marshal(flagTables{Rooms: st.RoomFlags, Global: st.Global})
	if err != nil {
		return "", fmt.Errorf("failed to marshal flags: %w", err)
	}

	id := uuid.NewString()
	query := `
		INSERT INTO saves (id, label, room, pos_x, pos_y, orientation, flags, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = s.db.ExecContext(ctx, query,
		id, label, int(st.Room), st.Position.X, st.Position.Y, int(st.Orientation),
		string(flags), time.Now().UnixNano(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert save: %w", err)
	}
	return id, nil
}

// Load reads the save with id
func (s *Store) Load(ctx context.Context, id string) (engine.SaveState, error) {
	query := `SELECT room, pos_x, pos_y, orientation, flags FROM saves WHERE id = ?`
	return s.loadRow(s.db.QueryRowContext(ctx, query, id))
}

// Latest reads the most recent save
func (s *Store) Latest(ctx context.Context) (engine.SaveState, error) {
	query := `SELECT room, pos_x, pos_y, orientation, flags FROM saves ORDER BY created_at DESC, rowid DESC LIMIT 1`
	return s.loadRow(s.db.QueryRowContext(ctx, query))
}

func (s *Store) loadRow(row *sql.Row) (engine.SaveState, error) {
	var (
		st           engine.SaveState
		room, orient int
		flagsJSON    string
	)
	if err := row.Scan(&room, &st.Position.X, &st.Position.Y, &orient, &flagsJSON); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return st, ErrNoSave
		}
		return st, fmt.Errorf("failed to read save: %w", err)
	}

	var flags flagTables
	if err := json.Unmarshal([]byte(flagsJSON), &flags); err != nil {
		return st, fmt.Errorf("failed to unmarshal flags: %w", err)
	}
	st.Room = core.RoomID(room)
	st.Orientation = core.Orientation(orient)
	st.RoomFlags = flags.Rooms
	st.Global = flags.Global
	return st, nil
}

// List returns saves newest first
func (s *Store) List(ctx context.Context) ([]Info, error) {
	query := `SELECT id, label, room, created_at FROM saves ORDER BY created_at DESC, rowid DESC`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list saves: %w", err)
	}
	defer rows.Close()

	var out []Info
	for rows.Next() {
		var (
			info    Info
			room    int
			created int64
		)
		if err := rows.Scan(&info.ID, &info.Label, &room, &created); err != nil {
			return nil, err
		}
		info.Room = core.RoomID(room)
		info.Created = time.Unix(0, created)
		out = append(out, info)
	}
	return out, rows.Err()
}

// Delete removes the save with id
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM saves WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete save: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNoSave
	}
	return nil
}
