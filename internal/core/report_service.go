package core

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"attendance.service/internal/core/model"
	"attendance.service/internal/ports/repository"
)

// EmployeeRef is the slim user projection embedded in manager views.
type EmployeeRef struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	EmployeeID string `json:"employeeId"`
	Department string `json:"department"`
}

// EmployeeAttendance pairs a record with its owner for manager views.
type EmployeeAttendance struct {
	Employee   EmployeeRef            `json:"employee"`
	Attendance model.AttendanceRecord `json:"attendance"`
}

// MemberSummary is one employee's period rollup inside a team summary.
type MemberSummary struct {
	Employee EmployeeRef   `json:"employee"`
	Summary  model.Summary `json:"summary"`
}

// MemberStatus is one employee's answer in the today-status view.
type MemberStatus struct {
	Employee   EmployeeRef             `json:"employee"`
	Status     model.AttendanceStatus  `json:"status"`
	Attendance *model.AttendanceRecord `json:"attendance"`
}

// ReportService builds the manager-facing read views. It composes the
// lifecycle engine and the record store and introduces no invariants of
// its own.
type ReportService struct {
	attendance *AttendanceService
	repo       repository.AttendanceRepository
	users      repository.UserRepository
}

func NewReportService(attendance *AttendanceService, repo repository.AttendanceRepository, users repository.UserRepository) *ReportService {
	return &ReportService{attendance: attendance, repo: repo, users: users}
}

// AllForDate returns every employee record for one calendar day.
func (s *ReportService) AllForDate(ctx context.Context, date time.Time) ([]EmployeeAttendance, error) {
	records, err := s.repo.FindAllForDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("finding records for date: %w", err)
	}

	refs, err := s.employeeRefs(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]EmployeeAttendance, 0, len(records))
	for _, rec := range records {
		ref, ok := refs[rec.UserID]
		if !ok {
			continue
		}
		out = append(out, EmployeeAttendance{Employee: ref, Attendance: rec})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Employee.Name < out[j].Employee.Name })
	return out, nil
}

// EmployeeHistory returns one employee's records inside the period,
// date ascending.
func (s *ReportService) EmployeeHistory(ctx context.Context, userID string, start, end time.Time) ([]model.AttendanceRecord, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("finding user: %w", err)
	}
	return s.repo.FindRange(ctx, userID, start, end)
}

// TeamSummary aggregates ComputeSummary across all employees. Per-member
// reads are independent; read-committed staleness across members is
// acceptable.
func (s *ReportService) TeamSummary(ctx context.Context, start, end, now time.Time) ([]MemberSummary, model.Summary, error) {
	employees, err := s.users.ListEmployees(ctx)
	if err != nil {
		return nil, model.Summary{}, fmt.Errorf("listing employees: %w", err)
	}

	members := make([]MemberSummary, 0, len(employees))
	var totals model.Summary
	for _, emp := range employees {
		sum, err := s.attendance.ComputeSummary(ctx, emp.ID, start, end, now)
		if err != nil {
			return nil, model.Summary{}, err
		}
		members = append(members, MemberSummary{Employee: refOf(emp), Summary: sum})
		totals.Present += sum.Present
		totals.Absent += sum.Absent
		totals.Late += sum.Late
		totals.HalfDay += sum.HalfDay
		totals.TotalDays += sum.TotalDays
		totals.TotalHours += sum.TotalHours
	}
	return members, totals, nil
}

// ExportCSV writes all employee records inside the period as CSV with a
// fixed column order: date, employee, status, check-in, check-out, hours.
// Rows are ordered by date, then employee name.
func (s *ReportService) ExportCSV(ctx context.Context, start, end time.Time, w io.Writer) error {
	employees, err := s.users.ListEmployees(ctx)
	if err != nil {
		return fmt.Errorf("listing employees: %w", err)
	}

	type row struct {
		date time.Time
		name string
		rec  model.AttendanceRecord
	}
	var rows []row
	for _, emp := range employees {
		records, err := s.repo.FindRange(ctx, emp.ID, start, end)
		if err != nil {
			return fmt.Errorf("finding records for %s: %w", emp.ID, err)
		}
		for _, rec := range records {
			rows = append(rows, row{date: rec.Date, name: emp.Name, rec: rec})
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].date.Equal(rows[j].date) {
			return rows[i].date.Before(rows[j].date)
		}
		return rows[i].name < rows[j].name
	})

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"date", "employee", "status", "check-in", "check-out", "hours"}); err != nil {
		return err
	}
	for _, r := range rows {
		checkOut := ""
		if r.rec.CheckOutTime != nil {
			checkOut = r.rec.CheckOutTime.UTC().Format(time.RFC3339)
		}
		record := []string{
			r.date.Format("2006-01-02"),
			r.name,
			string(r.rec.Status),
			r.rec.CheckInTime.UTC().Format(time.RFC3339),
			checkOut,
			strconv.FormatFloat(r.rec.TotalHours, 'f', 2, 64),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// TodayTeamStatus answers GetTodayStatus for every employee.
func (s *ReportService) TodayTeamStatus(ctx context.Context, now time.Time) ([]MemberStatus, error) {
	employees, err := s.users.ListEmployees(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing employees: %w", err)
	}

	out := make([]MemberStatus, 0, len(employees))
	for _, emp := range employees {
		status, rec, err := s.attendance.GetTodayStatus(ctx, emp.ID, now)
		if err != nil {
			return nil, err
		}
		out = append(out, MemberStatus{Employee: refOf(emp), Status: status, Attendance: rec})
	}
	return out, nil
}

func (s *ReportService) employeeRefs(ctx context.Context) (map[string]EmployeeRef, error) {
	employees, err := s.users.ListEmployees(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing employees: %w", err)
	}
	refs := make(map[string]EmployeeRef, len(employees))
	for _, emp := range employees {
		refs[emp.ID] = refOf(emp)
	}
	return refs, nil
}

func refOf(u model.User) EmployeeRef {
	return EmployeeRef{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		EmployeeID: u.EmployeeID,
		Department: u.Department,
	}
}
