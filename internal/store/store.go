// Package store keeps usage telemetry in SQLite: one summary row per closed
// room session. Room history itself is deliberately never persisted — a
// re-created room always starts empty.
package store

import (
	"database/sql"
	"log"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/easelhq/easel/internal/session"
)

type Store struct {
	db *sql.DB
}

// SessionRecord is one closed room session as stored.
type SessionRecord struct {
	ID               int       `json:"id"`
	RoomID           string    `json:"room_id"`
	OpenedAt         time.Time `json:"opened_at"`
	ClosedAt         time.Time `json:"closed_at"`
	PeakParticipants int       `json:"peak_participants"`
	OpsCommitted     int64     `json:"ops_committed"`
}

// Totals aggregates lifetime usage for the stats endpoint.
type Totals struct {
	Sessions     int   `json:"sessions"`
	OpsCommitted int64 `json:"ops_committed"`
}

func New(dbPath string) (*Store, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, err
	}

	if err := createTables(db); err != nil {
		return nil, err
	}

	log.Printf("Telemetry store initialized at %s", dbPath)
	return &Store{db: db}, nil
}

func createTables(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS room_sessions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		room_id TEXT NOT NULL,
		opened_at DATETIME NOT NULL,
		closed_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		peak_participants INTEGER NOT NULL DEFAULT 0,
		ops_committed INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_room_sessions_room_id ON room_sessions(room_id);
	CREATE INDEX IF NOT EXISTS idx_room_sessions_closed_at ON room_sessions(closed_at DESC);
	`

	_, err := db.Exec(schema)
	return err
}

func (s *Store) Close() error {
	return s.db.Close()
}

// RecordSession stores the closing summary of a room.
func (s *Store) RecordSession(summary session.Summary) error {
	_, err := s.db.Exec(
		"INSERT INTO room_sessions (room_id, opened_at, peak_participants, ops_committed) VALUES (?, ?, ?, ?)",
		summary.RoomID, summary.OpenedAt, summary.PeakParticipants, summary.OpsCommitted,
	)
	return err
}

// GetTotals returns lifetime aggregates across all recorded sessions.
func (s *Store) GetTotals() (Totals, error) {
	var t Totals
	err := s.db.QueryRow(
		"SELECT COUNT(*), COALESCE(SUM(ops_committed), 0) FROM room_sessions",
	).Scan(&t.Sessions, &t.OpsCommitted)
	return t, err
}

// ListRecent returns the most recently closed sessions, newest first.
func (s *Store) ListRecent(limit int) ([]SessionRecord, error) {
	rows, err := s.db.Query(`
		SELECT id, room_id, opened_at, closed_at, peak_participants, ops_committed
		FROM room_sessions
		ORDER BY closed_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []SessionRecord
	for rows.Next() {
		var r SessionRecord
		if err := rows.Scan(&r.ID, &r.RoomID, &r.OpenedAt, &r.ClosedAt, &r.PeakParticipants, &r.OpsCommitted); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
