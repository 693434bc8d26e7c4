package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// DB wraps the SQLite rotation history database.
type DB struct {
	db   *sql.DB
	path string
}

// Rotation is one recorded rotation attempt.
type Rotation struct {
	ID           int64
	DeviceSerial string
	PreviousIP   string
	NewIP        string
	Changed      bool
	CreatedAt    time.Time
}

// DeviceStats summarizes rotation attempts for one device.
type DeviceStats struct {
	Attempts int
	Changed  int
}

// Open opens (or creates) the history database in dir.
func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	dbPath := filepath.Join(dir, "history.db")
	sqlDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// Enable WAL mode for better concurrent access
	if _, err := sqlDB.Exec("PRAGMA journal_mode=WAL"); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	h := &DB{db: sqlDB, path: dbPath}
	if err := h.migrate(); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return h, nil
}

// Close closes the database.
func (h *DB) Close() error {
	return h.db.Close()
}

// Path returns the path to the history database file.
func (h *DB) Path() string {
	return h.path
}

func (h *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS rotations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		device_serial TEXT NOT NULL,
		previous_ip TEXT NOT NULL DEFAULT '',
		new_ip TEXT NOT NULL DEFAULT '',
		changed INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_rotations_device ON rotations(device_serial);
	`
	if _, err := h.db.Exec(schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// Record stores one rotation attempt.
func (h *DB) Record(serial, previousIP, newIP string, changed bool) error {
	_, err := h.db.Exec(
		`INSERT INTO rotations (device_serial, previous_ip, new_ip, changed, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		serial, previousIP, newIP, changed, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("record rotation: %w", err)
	}
	return nil
}

// Recent returns the most recent rotation records, newest first.
func (h *DB) Recent(limit int) ([]Rotation, error) {
	rows, err := h.db.Query(
		`SELECT id, device_serial, previous_ip, new_ip, changed, created_at
		 FROM rotations ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query rotations: %w", err)
	}
	defer rows.Close()

	var rotations []Rotation
	for rows.Next() {
		var r Rotation
		if err := rows.Scan(&r.ID, &r.DeviceSerial, &r.PreviousIP, &r.NewIP, &r.Changed, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan rotation: %w", err)
		}
		rotations = append(rotations, r)
	}
	return rotations, rows.Err()
}

// Stats returns attempt counts for one device.
func (h *DB) Stats(serial string) (DeviceStats, error) {
	var stats DeviceStats
	err := h.db.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(changed), 0) FROM rotations WHERE device_serial = ?`,
		serial,
	).Scan(&stats.Attempts, &stats.Changed)
	if err != nil {
		return DeviceStats{}, fmt.Errorf("query stats: %w", err)
	}
	return stats, nil
}
