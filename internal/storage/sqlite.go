// Package storage provides SQLite-based persistence for completion times.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection for time persistence.
type Store struct {
	db *sql.DB
}

// TimeEntry represents a single completion time record.
type TimeEntry struct {
	ID        int64
	GameID    string
	Elapsed   time.Duration
	Player    string
	SessionID string
	CreatedAt time.Time
}

// GameStats contains aggregated statistics for a game.
type GameStats struct {
	GameID     string
	Runs       int
	Best       time.Duration
	Average    time.Duration
	LastPlayed time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS times (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			game_id TEXT NOT NULL,
			elapsed_ms INTEGER NOT NULL,
			player TEXT NOT NULL DEFAULT '',
			session_id TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_times_game_id ON times(game_id);
		CREATE INDEX IF NOT EXISTS idx_times_best ON times(game_id, elapsed_ms ASC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveTime records a completion time for the given game.
// Times are stored with millisecond precision.
// Returns the ID of the inserted record.
func (s *Store) SaveTime(gameID, player, sessionID string, elapsed time.Duration) (int64, error) {
	if elapsed < 0 {
		return 0, fmt.Errorf("storage: negative elapsed time %v", elapsed)
	}

	result, err := s.db.Exec(
		"INSERT INTO times (game_id, elapsed_ms, player, session_id) VALUES (?, ?, ?, ?)",
		gameID, elapsed.Milliseconds(), player, sessionID,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save time: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// BestTimes retrieves the fastest N times for the given game.
// Results are ordered by elapsed time ascending, oldest first on ties.
func (s *Store) BestTimes(gameID string, limit int) ([]TimeEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, game_id, elapsed_ms, player, session_id, created_at
		 FROM times
		 WHERE game_id = ?
		 ORDER BY elapsed_ms ASC, id ASC
		 LIMIT ?`,
		gameID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query times: %w", err)
	}
	defer rows.Close()

	return scanTimes(rows)
}

// PlayerTimes retrieves the fastest N times of one player for the given game.
func (s *Store) PlayerTimes(gameID, player string, limit int) ([]TimeEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, game_id, elapsed_ms, player, session_id, created_at
		 FROM times
		 WHERE game_id = ? AND player = ?
		 ORDER BY elapsed_ms ASC, id ASC
		 LIMIT ?`,
		gameID, player, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query player times: %w", err)
	}
	defer rows.Close()

	return scanTimes(rows)
}

// scanTimes reads every row of a times query.
func scanTimes(rows *sql.Rows) ([]TimeEntry, error) {
	var entries []TimeEntry
	for rows.Next() {
		var e TimeEntry
		var elapsedMS int64
		var createdAt any
		if err := rows.Scan(&e.ID, &e.GameID, &elapsedMS, &e.Player, &e.SessionID, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.Elapsed = time.Duration(elapsedMS) * time.Millisecond
		e.CreatedAt = parseTimestamp(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// BestTime returns the fastest time for the given game.
// The bool is false if no time has been recorded.
func (s *Store) BestTime(gameID string) (time.Duration, bool, error) {
	var best sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MIN(elapsed_ms) FROM times WHERE game_id = ?",
		gameID,
	).Scan(&best)

	if err != nil {
		return 0, false, fmt.Errorf("storage: cannot query best time: %w", err)
	}

	if !best.Valid {
		return 0, false, nil
	}

	return time.Duration(best.Int64) * time.Millisecond, true, nil
}

// ClearTimes deletes all times for the given game.
func (s *Store) ClearTimes(gameID string) error {
	_, err := s.db.Exec("DELETE FROM times WHERE game_id = ?", gameID)
	if err != nil {
		return fmt.Errorf("storage: cannot clear times: %w", err)
	}
	return nil
}

// Stats retrieves aggregated statistics for a game.
func (s *Store) Stats(gameID string) (*GameStats, error) {
	stats := &GameStats{GameID: gameID}

	var best int64
	var avg float64
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MIN(elapsed_ms), 0), COALESCE(AVG(elapsed_ms), 0)
		 FROM times WHERE game_id = ?`,
		gameID,
	).Scan(&stats.Runs, &best, &avg)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get game stats: %w", err)
	}
	stats.Best = time.Duration(best) * time.Millisecond
	stats.Average = time.Duration(avg * float64(time.Millisecond))

	var lastPlayed any
	err = s.db.QueryRow(
		`SELECT created_at FROM times WHERE game_id = ? ORDER BY created_at DESC, id DESC LIMIT 1`,
		gameID,
	).Scan(&lastPlayed)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("storage: cannot get last played: %w", err)
	}
	if err == nil {
		stats.LastPlayed = parseTimestamp(lastPlayed)
	}

	return stats, nil
}

// parseTimestamp handles both time.Time and string datetimes from SQLite.
func parseTimestamp(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
