package model

import (
	"time"
)

// Role is the closed set of user roles. Authorization decisions switch
// on this type exhaustively instead of comparing raw strings.
type Role string

const (
	RoleEmployee Role = "employee"
	RoleManager  Role = "manager"
)

// ParseRole maps a wire-level role string onto the enum.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleEmployee:
		return RoleEmployee, true
	case RoleManager:
		return RoleManager, true
	}
	return "", false
}

// AttendanceStatus classifies one user-day.
type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "present"
	StatusAbsent  AttendanceStatus = "absent"
	StatusLate    AttendanceStatus = "late"
	StatusHalfDay AttendanceStatus = "half-day"

	// StatusNotMarked is a read-time answer for "no record yet today".
	// It is never persisted.
	StatusNotMarked AttendanceStatus = "not-marked"
)

// NotificationStatus tracks the check-out summary email job for a record.
type NotificationStatus string

const (
	NotificationPending   NotificationStatus = "PENDING"
	NotificationCompleted NotificationStatus = "COMPLETED"
	NotificationFailed    NotificationStatus = "FAILED"
)

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	Department   string    `json:"department"`
	EmployeeID   string    `json:"employeeId"`
	CreatedAt    time.Time `json:"createdAt"`
}

// AttendanceRecord is one user-day. At most one exists per (UserID, Date);
// Date carries date-only granularity, normalized to midnight UTC.
type AttendanceRecord struct {
	ID           string           `json:"id"`
	UserID       string           `json:"userId"`
	Date         time.Time        `json:"date"`
	CheckInTime  time.Time        `json:"checkInTime"`
	CheckOutTime *time.Time       `json:"checkOutTime"`
	Status       AttendanceStatus `json:"status"`
	TotalHours   float64          `json:"totalHours"`
	CreatedAt    time.Time        `json:"createdAt"`

	NotificationStatus     NotificationStatus `json:"-"`
	NotificationRetryCount int                `json:"-"`
}

// Summary is the per-period attendance rollup for one user.
type Summary struct {
	Present    int     `json:"present"`
	Absent     int     `json:"absent"`
	Late       int     `json:"late"`
	HalfDay    int     `json:"halfDay"`
	TotalDays  int     `json:"totalDays"`
	TotalHours float64 `json:"totalHours"`
}

// DateOf truncates a timestamp to its UTC calendar day. All "today"
// decisions go through this so check-in and lookup cannot drift across
// client timezones.
func DateOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
