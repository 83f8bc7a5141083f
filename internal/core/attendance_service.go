package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"attendance.service/internal/core/model"
	"attendance.service/internal/ports/messaging"
	"attendance.service/internal/ports/repository"
)

// AttendancePolicy carries the classification rules. It is handed to the
// service at construction; nothing reads cutoffs or thresholds from
// globals.
type AttendancePolicy struct {
	// CutoffMinute is the minute-of-day (UTC) after which a check-in is
	// classified late. 540 = 09:00.
	CutoffMinute int

	// HalfDayThreshold is the minimum worked duration for a completed
	// day to keep its full-day status.
	HalfDayThreshold time.Duration
}

// AttendanceService decides, for a given user and "now", which attendance
// action is legal, and maintains the derived status and hours.
type AttendanceService struct {
	repo     repository.AttendanceRepository
	users    repository.UserRepository
	producer messaging.Producer
	policy   AttendancePolicy
}

// NewAttendanceService wires up the lifecycle engine with its record
// store, the user store (event enrichment), the notification producer
// and the classification policy.
func NewAttendanceService(repo repository.AttendanceRepository, users repository.UserRepository, producer messaging.Producer, policy AttendancePolicy) *AttendanceService {
	if producer == nil {
		producer = messaging.NopProducer{}
	}
	return &AttendanceService{
		repo:     repo,
		users:    users,
		producer: producer,
		policy:   policy,
	}
}

// GetTodayStatus looks up today's record for the user. With no record it
// answers not-marked and a nil record. No side effects.
func (s *AttendanceService) GetTodayStatus(ctx context.Context, userID string, now time.Time) (model.AttendanceStatus, *model.AttendanceRecord, error) {
	rec, err := s.repo.Find(ctx, userID, model.DateOf(now))
	if err != nil {
		return "", nil, fmt.Errorf("finding today's record: %w", err)
	}
	if rec == nil {
		return model.StatusNotMarked, nil, nil
	}
	return rec.Status, rec, nil
}

// CheckIn creates today's record. A second attempt on the same day fails
// with ErrAlreadyCheckedIn; under a concurrent race the store's unique
// index guarantees exactly one winner.
func (s *AttendanceService) CheckIn(ctx context.Context, userID string, now time.Time) (*model.AttendanceRecord, error) {
	now = now.UTC()

	rec := &model.AttendanceRecord{
		ID:          uuid.NewString(),
		UserID:      userID,
		Date:        model.DateOf(now),
		CheckInTime: now,
		Status:      s.checkInStatus(now),
		TotalHours:  0,
		CreatedAt:   now,
	}

	if err := s.repo.Create(ctx, rec); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrAlreadyCheckedIn
		}
		return nil, fmt.Errorf("creating check-in record: %w", err)
	}
	return rec, nil
}

// CheckOut closes today's open record, computing total hours and the
// final status. Fails with ErrNoActiveCheckIn when today has no record
// and ErrAlreadyCheckedOut when the record is already closed.
func (s *AttendanceService) CheckOut(ctx context.Context, userID string, now time.Time) (*model.AttendanceRecord, error) {
	now = now.UTC()

	rec, err := s.repo.Find(ctx, userID, model.DateOf(now))
	if err != nil {
		return nil, fmt.Errorf("finding today's record: %w", err)
	}
	if rec == nil {
		return nil, ErrNoActiveCheckIn
	}
	if rec.CheckOutTime != nil {
		return nil, ErrAlreadyCheckedOut
	}

	worked := now.Sub(rec.CheckInTime)
	totalHours := worked.Hours()
	status := s.checkOutStatus(rec.Status, worked)

	if err := s.repo.UpdateCheckOut(ctx, rec.ID, now, totalHours, status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Lost a race against a concurrent check-out.
			return nil, ErrAlreadyCheckedOut
		}
		return nil, fmt.Errorf("updating check-out record: %w", err)
	}

	rec.CheckOutTime = &now
	rec.TotalHours = totalHours
	rec.Status = status

	s.publishCheckOut(ctx, rec)
	return rec, nil
}

// ComputeSummary scans the user's records inside the inclusive range and
// rolls them up. Absence is derived at read time: a weekday strictly
// before today with no record counts absent. Pure and deterministic for
// a fixed record set.
func (s *AttendanceService) ComputeSummary(ctx context.Context, userID string, periodStart, periodEnd, now time.Time) (model.Summary, error) {
	start, end := model.DateOf(periodStart), model.DateOf(periodEnd)

	records, err := s.repo.FindRange(ctx, userID, start, end)
	if err != nil {
		return model.Summary{}, fmt.Errorf("finding records in range: %w", err)
	}

	marked := make(map[string]struct{}, len(records))
	var sum model.Summary
	for _, rec := range records {
		marked[rec.Date.Format("2006-01-02")] = struct{}{}
		switch rec.Status {
		case model.StatusPresent:
			sum.Present++
		case model.StatusLate:
			sum.Late++
		case model.StatusHalfDay:
			sum.HalfDay++
		}
		sum.TotalHours += rec.TotalHours
	}

	today := model.DateOf(now)
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		if !day.Before(today) {
			break
		}
		if !isWorkingDay(day) {
			continue
		}
		if _, ok := marked[day.Format("2006-01-02")]; !ok {
			sum.Absent++
		}
	}

	sum.TotalDays = len(records) + sum.Absent
	return sum, nil
}

// History returns the user's records inside the inclusive range, date
// ascending. Thin read over the store.
func (s *AttendanceService) History(ctx context.Context, userID string, periodStart, periodEnd time.Time) ([]model.AttendanceRecord, error) {
	return s.repo.FindRange(ctx, userID, model.DateOf(periodStart), model.DateOf(periodEnd))
}

// checkInStatus applies the lateness policy.
func (s *AttendanceService) checkInStatus(now time.Time) model.AttendanceStatus {
	minuteOfDay := now.UTC().Hour()*60 + now.UTC().Minute()
	if minuteOfDay > s.policy.CutoffMinute {
		return model.StatusLate
	}
	return model.StatusPresent
}

// checkOutStatus applies the half-day threshold. Lateness takes
// precedence: a late record stays late, half-day only demotes present.
func (s *AttendanceService) checkOutStatus(current model.AttendanceStatus, worked time.Duration) model.AttendanceStatus {
	if current == model.StatusPresent && worked < s.policy.HalfDayThreshold {
		return model.StatusHalfDay
	}
	return current
}

// publishCheckOut hands the closed record to the notification pipeline.
// Publish failures are logged, never surfaced: the check-out itself is
// already durable.
func (s *AttendanceService) publishCheckOut(ctx context.Context, rec *model.AttendanceRecord) {
	user, err := s.users.FindByID(ctx, rec.UserID)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("user_id", rec.UserID).Msg("Skipping check-out notification, user lookup failed")
		return
	}

	event := messaging.CheckOutEvent{
		RecordID:     rec.ID,
		UserID:       rec.UserID,
		Email:        user.Email,
		Name:         user.Name,
		Date:         rec.Date.Format("2006-01-02"),
		Status:       string(rec.Status),
		TotalHours:   rec.TotalHours,
		ClockOutTime: *rec.CheckOutTime,
	}
	if err := s.producer.PublishCheckOut(ctx, event); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("record_id", rec.ID).Msg("Failed to publish check-out event")
	}
}

// isWorkingDay reports whether absence can be derived for the day.
// Weekends never count absent.
func isWorkingDay(day time.Time) bool {
	switch day.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	return true
}
