package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"staffcal/internal/availability"
	"staffcal/internal/models"
)

const bookingColumns = `id, ref, subject_id, subject_name, event_id, COALESCE(event_name, ''),
                 start_date, COALESCE(end_date, ''), COALESCE(start_time, ''), COALESCE(end_time, ''),
                 timing_mode, status, guest_count, COALESCE(comment, ''), created_at, updated_at, version`

func scanBooking(row interface{ Scan(...any) error }) (*models.Booking, error) {
	var b models.Booking
	err := row.Scan(
		&b.ID, &b.Ref, &b.SubjectID, &b.SubjectName, &b.EventID, &b.EventName,
		&b.StartDate, &b.EndDate, &b.StartTime, &b.EndTime,
		&b.TimingMode, &b.Status, &b.GuestCount, &b.Comment, &b.CreatedAt, &b.UpdatedAt, &b.Version,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (db *DB) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	booking, err := scanBooking(db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return booking, nil
}

// GetSubjectBookings returns the conflict-relevant snapshot for a subject:
// bookings in an occupying status, oldest start date first. A zero subject
// id yields an empty snapshot.
func (db *DB) GetSubjectBookings(ctx context.Context, subjectID int64) ([]models.Booking, error) {
	if subjectID == 0 {
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(models.ActiveStatuses)), ",")
	query := `SELECT ` + bookingColumns + ` FROM bookings
              WHERE subject_id = ? AND status IN (` + placeholders + `) ORDER BY start_date ASC, id ASC`
	args := make([]any, 0, len(models.ActiveStatuses)+1)
	args = append(args, subjectID)
	for _, status := range models.ActiveStatuses {
		args = append(args, status)
	}
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get subject bookings: %w", err)
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

func (db *DB) CreateBooking(ctx context.Context, booking *models.Booking) error {
	query := `INSERT INTO bookings (
				ref, subject_id, subject_name, event_id, event_name,
				start_date, end_date, start_time, end_time,
				timing_mode, status, guest_count, comment, created_at, updated_at, version
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	now := time.Now()
	result, err := db.ExecContext(ctx, query,
		booking.Ref,
		booking.SubjectID,
		booking.SubjectName,
		booking.EventID,
		booking.EventName,
		booking.StartDate,
		booking.EndDate,
		booking.StartTime,
		booking.EndTime,
		booking.TimingMode,
		booking.Status,
		booking.GuestCount,
		booking.Comment,
		now,
		now,
		1,
	)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	booking.ID = id
	booking.CreatedAt = now
	booking.UpdatedAt = now
	booking.Version = 1

	return nil
}

// CreateBookingWithConflictCheck re-evaluates the conflict inside a
// transaction before inserting, so two submissions racing for the same
// dates cannot both land. Full-day bookings conflict on their date,
// multi-day on range overlap; hourly submissions are not hard-blocked here,
// slot filtering happens upstream.
func (db *DB) CreateBookingWithConflictCheck(ctx context.Context, booking *models.Booking) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `SELECT ` + bookingColumns + ` FROM bookings
              WHERE subject_id = ? AND status != ?`
	rows, err := tx.QueryContext(ctx, query, booking.SubjectID, models.StatusCancelled)
	if err != nil {
		return fmt.Errorf("failed to check conflicts in tx: %w", err)
	}

	var existing []models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan booking in tx: %w", err)
		}
		existing = append(existing, *b)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	if conflicts(existing, booking) {
		return ErrConflict
	}

	queryInsert := `INSERT INTO bookings (
				ref, subject_id, subject_name, event_id, event_name,
				start_date, end_date, start_time, end_time,
				timing_mode, status, guest_count, comment, created_at, updated_at, version
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	now := time.Now()
	result, err := tx.ExecContext(ctx, queryInsert,
		booking.Ref,
		booking.SubjectID,
		booking.SubjectName,
		booking.EventID,
		booking.EventName,
		booking.StartDate,
		booking.EndDate,
		booking.StartTime,
		booking.EndTime,
		booking.TimingMode,
		booking.Status,
		booking.GuestCount,
		booking.Comment,
		now,
		now,
		1,
	)
	if err != nil {
		return fmt.Errorf("failed to insert booking in tx: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id in tx: %w", err)
	}
	booking.ID = id
	booking.CreatedAt = now
	booking.UpdatedAt = now
	booking.Version = 1

	return tx.Commit()
}

func conflicts(existing []models.Booking, booking *models.Booking) bool {
	start, err := availability.ParseDate(booking.StartDate)
	if err != nil {
		return false
	}

	switch booking.TimingMode {
	case models.ModeFullDay:
		return availability.IsDateBooked(existing, start)
	case models.ModeMultiDay:
		end := start
		if e, err := availability.ParseDate(booking.EffectiveEndDate()); err == nil {
			end = e
		}
		return availability.IsDateRangeBooked(existing, start, end)
	default:
		return false
	}
}

func (db *DB) UpdateBookingStatusWithVersion(ctx context.Context, id, fromVersion int64, status string) error {
	query := `UPDATE bookings SET status = ?, version = version + 1, updated_at = ? WHERE id = ? AND version = ?`
	result, err := db.ExecContext(ctx, query, status, time.Now(), id, fromVersion)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrConcurrentModification
	}
	return nil
}

// GetBookingsByDateRange returns bookings whose occupied dates intersect
// [start, end], including multi-day bookings that merely straddle it.
func (db *DB) GetBookingsByDateRange(ctx context.Context, startDate, endDate time.Time) ([]models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings
              WHERE start_date <= ?
                AND (CASE WHEN end_date IS NULL OR end_date = '' THEN start_date ELSE end_date END) >= ?
              ORDER BY start_date ASC, id ASC`
	rows, err := db.QueryContext(ctx, query, endDate.Format("2006-01-02"), startDate.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("failed to get bookings by date range: %w", err)
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

// GetDailyBookings groups bookings by every occupied day in the period,
// so a multi-day booking appears under each of its dates.
func (db *DB) GetDailyBookings(ctx context.Context, startDate, endDate time.Time) (map[string][]models.Booking, error) {
	bookings, err := db.GetBookingsByDateRange(ctx, startDate, endDate)
	if err != nil {
		return nil, err
	}

	startKey := startDate.Format("2006-01-02")
	endKey := endDate.Format("2006-01-02")

	daily := make(map[string][]models.Booking)
	for _, b := range bookings {
		first, err := time.Parse("2006-01-02", b.StartDate)
		if err != nil {
			continue
		}
		last := first
		if l, err := time.Parse("2006-01-02", b.EffectiveEndDate()); err == nil {
			last = l
		}
		for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
			key := d.Format("2006-01-02")
			if key < startKey || key > endKey {
				continue
			}
			daily[key] = append(daily[key], b)
		}
	}
	return daily, nil
}
