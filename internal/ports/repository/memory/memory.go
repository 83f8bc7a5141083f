// Package memory provides in-memory repository implementations with the
// same contract as the PostgreSQL ones, used by tests and local tooling.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"attendance.service/internal/core/model"
	"attendance.service/internal/ports/repository"
)

type dayKey struct {
	userID string
	day    string
}

// AttendanceStore is a mutex-guarded map keyed by (userID, date). The
// single lock stands in for the database's unique index, so concurrent
// check-in attempts race exactly like they do against PostgreSQL.
type AttendanceStore struct {
	mu    sync.Mutex
	byDay map[dayKey]*model.AttendanceRecord
	byID  map[string]*model.AttendanceRecord
}

func NewAttendanceStore() *AttendanceStore {
	return &AttendanceStore{
		byDay: make(map[dayKey]*model.AttendanceRecord),
		byID:  make(map[string]*model.AttendanceRecord),
	}
}

var _ repository.AttendanceRepository = (*AttendanceStore)(nil)

func keyFor(userID string, date time.Time) dayKey {
	return dayKey{userID: userID, day: model.DateOf(date).Format("2006-01-02")}
}

func (s *AttendanceStore) Find(_ context.Context, userID string, date time.Time) (*model.AttendanceRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.byDay[keyFor(userID, date)]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (s *AttendanceStore) Get(_ context.Context, id string) (*model.AttendanceRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

func (s *AttendanceStore) FindRange(_ context.Context, userID string, start, end time.Time) ([]model.AttendanceRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start, end = model.DateOf(start), model.DateOf(end)
	var out []model.AttendanceRecord
	for _, rec := range s.byDay {
		if rec.UserID != userID {
			continue
		}
		if rec.Date.Before(start) || rec.Date.After(end) {
			continue
		}
		out = append(out, *rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (s *AttendanceStore) FindAllForDate(_ context.Context, date time.Time) ([]model.AttendanceRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	date = model.DateOf(date)
	var out []model.AttendanceRecord
	for _, rec := range s.byDay {
		if rec.Date.Equal(date) {
			out = append(out, *rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (s *AttendanceStore) Create(_ context.Context, rec *model.AttendanceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := keyFor(rec.UserID, rec.Date)
	if _, exists := s.byDay[key]; exists {
		return repository.ErrDuplicateKey
	}
	cp := *rec
	cp.Date = model.DateOf(cp.Date)
	cp.NotificationStatus = model.NotificationPending
	s.byDay[key] = &cp
	s.byID[cp.ID] = &cp
	return nil
}

func (s *AttendanceStore) UpdateCheckOut(_ context.Context, id string, checkOut time.Time, totalHours float64, status model.AttendanceStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.byID[id]
	if !ok || rec.CheckOutTime != nil {
		return repository.ErrNotFound
	}
	t := checkOut
	rec.CheckOutTime = &t
	rec.TotalHours = totalHours
	rec.Status = status
	return nil
}

func (s *AttendanceStore) UpdateNotificationStatus(_ context.Context, id string, status model.NotificationStatus, retryCount int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	rec.NotificationStatus = status
	rec.NotificationRetryCount = retryCount
	return nil
}

// UserStore is the in-memory UserRepository counterpart.
type UserStore struct {
	mu      sync.Mutex
	byID    map[string]*model.User
	byEmail map[string]*model.User
}

func NewUserStore() *UserStore {
	return &UserStore{
		byID:    make(map[string]*model.User),
		byEmail: make(map[string]*model.User),
	}
}

var _ repository.UserRepository = (*UserStore)(nil)

func (s *UserStore) Create(_ context.Context, u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[u.Email]; exists {
		return repository.ErrDuplicateKey
	}
	for _, other := range s.byID {
		if other.EmployeeID == u.EmployeeID {
			return repository.ErrDuplicateKey
		}
	}
	cp := *u
	s.byID[cp.ID] = &cp
	s.byEmail[cp.Email] = &cp
	return nil
}

func (s *UserStore) FindByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.byEmail[email]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (s *UserStore) FindByID(_ context.Context, id string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *UserStore) ListEmployees(_ context.Context) ([]model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.User
	for _, u := range s.byID {
		if u.Role == model.RoleEmployee {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
