package repository

import (
	"context"
	"errors"
	"time"

	"attendance.service/internal/core/model"
)

// Store-level failure kinds. Callers branch with errors.Is; the domain
// layer translates them into its own error vocabulary.
var (
	// ErrDuplicateKey signals a uniqueness violation, e.g. a second
	// record for the same (user, day) or a reused email address.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrNotFound signals that the targeted row does not exist (or no
	// longer matches the update guard).
	ErrNotFound = errors.New("not found")
)

// AttendanceRepository is the contract for durable AttendanceRecord
// storage, keyed by (userID, date). All operations are atomic per record.
type AttendanceRepository interface {
	// Find returns the record for the given user and calendar day, or
	// (nil, nil) when none exists.
	Find(ctx context.Context, userID string, date time.Time) (*model.AttendanceRecord, error)

	// Get returns a record by ID. Fails with ErrNotFound.
	Get(ctx context.Context, id string) (*model.AttendanceRecord, error)

	// FindRange returns the user's records with start <= date <= end,
	// ordered by date ascending.
	FindRange(ctx context.Context, userID string, start, end time.Time) ([]model.AttendanceRecord, error)

	// FindAllForDate returns every user's record for one calendar day.
	FindAllForDate(ctx context.Context, date time.Time) ([]model.AttendanceRecord, error)

	// Create persists a new record. Fails with ErrDuplicateKey if a
	// record for (rec.UserID, rec.Date) already exists.
	Create(ctx context.Context, rec *model.AttendanceRecord) error

	// UpdateCheckOut closes an open record. The update is guarded on
	// check_out_time still being unset, so two concurrent check-outs
	// cannot both succeed; a lost race fails with ErrNotFound.
	UpdateCheckOut(ctx context.Context, id string, checkOut time.Time, totalHours float64, status model.AttendanceStatus) error

	// UpdateNotificationStatus records the state of the check-out
	// summary email job for a record.
	UpdateNotificationStatus(ctx context.Context, id string, status model.NotificationStatus, retryCount int) error
}

// UserRepository stores user identities. Owned by the auth flow; the
// attendance side only ever consumes IDs and roles from it.
type UserRepository interface {
	// Create persists a new user. Fails with ErrDuplicateKey if the
	// email or employee ID is already taken.
	Create(ctx context.Context, u *model.User) error

	// FindByEmail returns (nil, nil) when no user has the address.
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// FindByID fails with ErrNotFound.
	FindByID(ctx context.Context, id string) (*model.User, error)

	// ListEmployees returns all employee-role users ordered by name.
	ListEmployees(ctx context.Context) ([]model.User, error)
}
