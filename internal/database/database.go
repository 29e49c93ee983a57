package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"staffcal/internal/models"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

type DB struct {
	*sql.DB

	mu            sync.RWMutex
	subjectsCache map[int64]models.Subject
	logger        *zerolog.Logger
}

func NewDB(path string, logger *zerolog.Logger) (*DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := createTables(db); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	logger.Info().Str("path", path).Msg("database initialized")
	return &DB{DB: db, subjectsCache: make(map[int64]models.Subject), logger: logger}, nil
}

func createTables(db *sql.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS subjects (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            name TEXT NOT NULL,
            role TEXT NOT NULL DEFAULT 'staff',
            active BOOLEAN NOT NULL DEFAULT 1,
            sort_order INTEGER NOT NULL DEFAULT 0,
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
            updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
        )`,
		`CREATE TABLE IF NOT EXISTS bookings (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            ref TEXT NOT NULL,
            subject_id INTEGER NOT NULL,
            subject_name TEXT NOT NULL,
            event_id INTEGER NOT NULL DEFAULT 0,
            event_name TEXT,
            start_date TEXT NOT NULL,
            end_date TEXT,
            start_time TEXT,
            end_time TEXT,
            timing_mode TEXT NOT NULL DEFAULT 'hourly',
            status TEXT NOT NULL DEFAULT 'pending',
            guest_count INTEGER NOT NULL DEFAULT 0,
            comment TEXT,
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
            updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
            version INTEGER NOT NULL DEFAULT 1
        )`,

		`CREATE INDEX IF NOT EXISTS idx_bookings_subject_id ON bookings(subject_id)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_start_date ON bookings(start_date)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_status ON bookings(status)`,
		`CREATE INDEX IF NOT EXISTS idx_subjects_active ON subjects(active)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("error executing query %s: %w", query, err)
		}
	}
	return nil
}

// SetSubjects seeds the in-memory subject cache from config.
func (db *DB) SetSubjects(subjects []models.Subject) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.subjectsCache = make(map[int64]models.Subject, len(subjects))
	for _, s := range subjects {
		db.subjectsCache[s.ID] = s
	}
}

// GetSubjects returns the cached subject list.
func (db *DB) GetSubjects() []models.Subject {
	db.mu.RLock()
	defer db.mu.RUnlock()
	subjects := make([]models.Subject, 0, len(db.subjectsCache))
	for _, s := range db.subjectsCache {
		subjects = append(subjects, s)
	}
	return subjects
}

func (db *DB) cachedSubject(id int64) (models.Subject, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	s, ok := db.subjectsCache[id]
	return s, ok
}

func (db *DB) Close() error {
	return db.DB.Close()
}
