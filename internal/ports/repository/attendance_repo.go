package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"attendance.service/internal/core/model"
)

const pgUniqueViolation = "23505"

// AttendanceRecordRepository is the concrete implementation for a
// PostgreSQL database.
type AttendanceRecordRepository struct {
	DB *sql.DB
}

// NewAttendanceRecordRepository create new instance
func NewAttendanceRecordRepository(db *sql.DB) AttendanceRepository {
	return &AttendanceRecordRepository{DB: db}
}

const attendanceColumns = `id, user_id, date, check_in_time, check_out_time, status, total_hours, notification_status, notification_retry_count, created_at`

// Find looks up the single record for one user-day.
func (r *AttendanceRecordRepository) Find(ctx context.Context, userID string, date time.Time) (*model.AttendanceRecord, error) {
	trace.SpanFromContext(ctx).SetAttributes(attribute.String("app.user_id", userID))

	query := `SELECT ` + attendanceColumns + `
              FROM attendance_records
              WHERE user_id = $1 AND date = $2`

	rec, err := scanRecord(r.DB.QueryRowContext(ctx, query, userID, model.DateOf(date)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Get fetches a record by its ID.
func (r *AttendanceRecordRepository) Get(ctx context.Context, id string) (*model.AttendanceRecord, error) {
	query := `SELECT ` + attendanceColumns + `
              FROM attendance_records
              WHERE id = $1`

	rec, err := scanRecord(r.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// FindRange returns the user's records inside [start, end], date ascending.
func (r *AttendanceRecordRepository) FindRange(ctx context.Context, userID string, start, end time.Time) ([]model.AttendanceRecord, error) {
	trace.SpanFromContext(ctx).SetAttributes(attribute.String("app.user_id", userID))

	query := `SELECT ` + attendanceColumns + `
              FROM attendance_records
              WHERE user_id = $1 AND date BETWEEN $2 AND $3
              ORDER BY date ASC`

	rows, err := r.DB.QueryContext(ctx, query, userID, model.DateOf(start), model.DateOf(end))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRecords(rows)
}

// FindAllForDate returns every record for one calendar day, user ascending.
func (r *AttendanceRecordRepository) FindAllForDate(ctx context.Context, date time.Time) ([]model.AttendanceRecord, error) {
	query := `SELECT ` + attendanceColumns + `
              FROM attendance_records
              WHERE date = $1
              ORDER BY user_id ASC`

	rows, err := r.DB.QueryContext(ctx, query, model.DateOf(date))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRecords(rows)
}

// Create inserts a fresh check-in record. The unique index on
// (user_id, date) is the arbiter for concurrent check-in attempts.
func (r *AttendanceRecordRepository) Create(ctx context.Context, rec *model.AttendanceRecord) error {
	trace.SpanFromContext(ctx).SetAttributes(attribute.String("app.user_id", rec.UserID))

	query := `INSERT INTO attendance_records
              (id, user_id, date, check_in_time, check_out_time, status, total_hours, notification_status, notification_retry_count, created_at)
              VALUES ($1, $2, $3, $4, NULL, $5, $6, $7, 0, $8)`

	_, err := r.DB.ExecContext(ctx, query,
		rec.ID, rec.UserID, model.DateOf(rec.Date), rec.CheckInTime,
		rec.Status, rec.TotalHours, model.NotificationPending, rec.CreatedAt,
	)
	if isUniqueViolation(err) {
		return ErrDuplicateKey
	}
	return err
}

// UpdateCheckOut closes an open record. The check_out_time IS NULL guard
// makes a racing double check-out lose with ErrNotFound.
func (r *AttendanceRecordRepository) UpdateCheckOut(ctx context.Context, id string, checkOut time.Time, totalHours float64, status model.AttendanceStatus) error {
	query := `UPDATE attendance_records
              SET check_out_time = $1,
                  total_hours = $2,
                  status = $3
              WHERE id = $4 AND check_out_time IS NULL`

	res, err := r.DB.ExecContext(ctx, query, checkOut, totalHours, status, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateNotificationStatus updates the status and retry count for the
// check-out email job.
func (r *AttendanceRecordRepository) UpdateNotificationStatus(ctx context.Context, id string, status model.NotificationStatus, retryCount int) error {
	query := `UPDATE attendance_records
              SET notification_status = $1,
                  notification_retry_count = $2
              WHERE id = $3`

	_, err := r.DB.ExecContext(ctx, query, status, retryCount, id)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*model.AttendanceRecord, error) {
	rec := &model.AttendanceRecord{}
	var checkOut sql.NullTime
	err := row.Scan(
		&rec.ID, &rec.UserID, &rec.Date, &rec.CheckInTime, &checkOut,
		&rec.Status, &rec.TotalHours, &rec.NotificationStatus,
		&rec.NotificationRetryCount, &rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if checkOut.Valid {
		t := checkOut.Time
		rec.CheckOutTime = &t
	}
	rec.Date = model.DateOf(rec.Date)
	return rec, nil
}

func collectRecords(rows *sql.Rows) ([]model.AttendanceRecord, error) {
	var out []model.AttendanceRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
