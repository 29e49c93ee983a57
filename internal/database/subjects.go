package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"staffcal/internal/models"
)

func (db *DB) GetActiveSubjects(ctx context.Context) ([]models.Subject, error) {
	query := `SELECT id, name, role, active, sort_order FROM subjects
              WHERE active = 1 ORDER BY sort_order ASC, id ASC`
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get active subjects: %w", err)
	}
	defer rows.Close()

	var subjects []models.Subject
	for rows.Next() {
		var s models.Subject
		if err := rows.Scan(&s.ID, &s.Name, &s.Role, &s.Active, &s.SortOrder); err != nil {
			return nil, fmt.Errorf("failed to scan subject: %w", err)
		}
		subjects = append(subjects, s)
	}
	return subjects, rows.Err()
}

func (db *DB) GetSubjectByID(ctx context.Context, id int64) (*models.Subject, error) {
	if s, ok := db.cachedSubject(id); ok {
		return &s, nil
	}

	query := `SELECT id, name, role, active, sort_order FROM subjects WHERE id = ?`
	var s models.Subject
	err := db.QueryRowContext(ctx, query, id).Scan(&s.ID, &s.Name, &s.Role, &s.Active, &s.SortOrder)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get subject: %w", err)
	}
	return &s, nil
}

func (db *DB) CreateSubject(ctx context.Context, subject *models.Subject) error {
	query := `INSERT INTO subjects (name, role, active, sort_order, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?, ?)`
	now := time.Now()
	result, err := db.ExecContext(ctx, query, subject.Name, subject.Role, subject.Active, subject.SortOrder, now, now)
	if err != nil {
		return fmt.Errorf("failed to create subject: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	subject.ID = id

	db.mu.Lock()
	db.subjectsCache[id] = *subject
	db.mu.Unlock()

	return nil
}

func (db *DB) DeactivateSubject(ctx context.Context, id int64) error {
	query := `UPDATE subjects SET active = 0, updated_at = ? WHERE id = ?`
	result, err := db.ExecContext(ctx, query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to deactivate subject: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}

	db.mu.Lock()
	if s, ok := db.subjectsCache[id]; ok {
		s.Active = false
		db.subjectsCache[id] = s
	}
	db.mu.Unlock()

	return nil
}

// SeedSubjects inserts config-declared subjects that are not yet in the
// table, keyed by id.
func (db *DB) SeedSubjects(ctx context.Context, subjects []models.Subject) error {
	query := `INSERT INTO subjects (id, name, role, active, sort_order, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?, ?, ?)
              ON CONFLICT(id) DO UPDATE SET
                  name = excluded.name,
                  role = excluded.role,
                  active = excluded.active,
                  sort_order = excluded.sort_order,
                  updated_at = excluded.updated_at`
	now := time.Now()
	for _, s := range subjects {
		if _, err := db.ExecContext(ctx, query, s.ID, s.Name, s.Role, s.Active, s.SortOrder, now, now); err != nil {
			return fmt.Errorf("failed to seed subject %d: %w", s.ID, err)
		}
	}
	db.SetSubjects(subjects)
	return nil
}
