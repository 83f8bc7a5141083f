package core_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"attendance.service/internal/core"
	"attendance.service/internal/core/model"
	"attendance.service/internal/ports/repository/memory"
)

func newTestReportService(t *testing.T) (*core.ReportService, *core.AttendanceService, *memory.UserStore) {
	t.Helper()
	users := memory.NewUserStore()
	store := memory.NewAttendanceStore()
	attendance := core.NewAttendanceService(store, users, nil, testPolicy)
	reports := core.NewReportService(attendance, store, users)
	return reports, attendance, users
}

func seedEmployee(t *testing.T, users *memory.UserStore, id, name string) {
	t.Helper()
	err := users.Create(context.Background(), &model.User{
		ID:         id,
		Name:       name,
		Email:      id + "@example.com",
		Role:       model.RoleEmployee,
		EmployeeID: "EMP-" + id,
		Department: "Engineering",
	})
	if err != nil {
		t.Fatalf("seeding %s: %v", name, err)
	}
}

func TestAllForDate(t *testing.T) {
	reports, attendance, users := newTestReportService(t)
	seedEmployee(t, users, "u1", "Ada")
	seedEmployee(t, users, "u2", "Bob")
	ctx := context.Background()

	if _, err := attendance.CheckIn(ctx, "u2", at("2025-06-02", 8, 30)); err != nil {
		t.Fatalf("CheckIn u2: %v", err)
	}
	if _, err := attendance.CheckIn(ctx, "u1", at("2025-06-02", 9, 30)); err != nil {
		t.Fatalf("CheckIn u1: %v", err)
	}
	if _, err := attendance.CheckIn(ctx, "u1", at("2025-06-03", 8, 0)); err != nil {
		t.Fatalf("CheckIn u1 next day: %v", err)
	}

	records, err := reports.AllForDate(ctx, at("2025-06-02", 23, 0))
	if err != nil {
		t.Fatalf("AllForDate: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}
	// Ordered by employee name.
	if records[0].Employee.Name != "Ada" || records[1].Employee.Name != "Bob" {
		t.Errorf("unexpected order: %s, %s", records[0].Employee.Name, records[1].Employee.Name)
	}
	if records[0].Attendance.Status != model.StatusLate {
		t.Errorf("Ada's status = %q, want late", records[0].Attendance.Status)
	}
}

func TestEmployeeHistory_UnknownUser(t *testing.T) {
	reports, _, _ := newTestReportService(t)

	_, err := reports.EmployeeHistory(context.Background(), "ghost",
		at("2025-06-01", 0, 0), at("2025-06-30", 0, 0))
	if err != core.ErrUserNotFound {
		t.Fatalf("error = %v, want ErrUserNotFound", err)
	}
}

func TestTeamSummary(t *testing.T) {
	reports, attendance, users := newTestReportService(t)
	seedEmployee(t, users, "u1", "Ada")
	seedEmployee(t, users, "u2", "Bob")
	ctx := context.Background()

	// Ada works Monday 8h; Bob works Monday 2h before the cutoff.
	if _, err := attendance.CheckIn(ctx, "u1", at("2025-06-02", 9, 0)); err != nil {
		t.Fatal(err)
	}
	if _, err := attendance.CheckOut(ctx, "u1", at("2025-06-02", 17, 0)); err != nil {
		t.Fatal(err)
	}
	if _, err := attendance.CheckIn(ctx, "u2", at("2025-06-02", 8, 0)); err != nil {
		t.Fatal(err)
	}
	if _, err := attendance.CheckOut(ctx, "u2", at("2025-06-02", 10, 0)); err != nil {
		t.Fatal(err)
	}

	members, totals, err := reports.TeamSummary(ctx,
		at("2025-06-02", 0, 0), at("2025-06-02", 0, 0), at("2025-06-03", 12, 0))
	if err != nil {
		t.Fatalf("TeamSummary: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("members = %d, want 2", len(members))
	}
	if totals.Present != 1 || totals.HalfDay != 1 {
		t.Errorf("totals = %+v, want 1 present and 1 half-day", totals)
	}
	if totals.TotalHours != 10.0 {
		t.Errorf("total hours = %v, want 10.0", totals.TotalHours)
	}
}

func TestExportCSV(t *testing.T) {
	reports, attendance, users := newTestReportService(t)
	seedEmployee(t, users, "u1", "Ada")
	seedEmployee(t, users, "u2", "Bob")
	ctx := context.Background()

	if _, err := attendance.CheckIn(ctx, "u2", at("2025-06-02", 9, 0)); err != nil {
		t.Fatal(err)
	}
	if _, err := attendance.CheckOut(ctx, "u2", at("2025-06-02", 17, 0)); err != nil {
		t.Fatal(err)
	}
	if _, err := attendance.CheckIn(ctx, "u1", at("2025-06-03", 9, 30)); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	err := reports.ExportCSV(ctx, at("2025-06-01", 0, 0), at("2025-06-30", 0, 0), &buf)
	if err != nil {
		t.Fatalf("ExportCSV: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %d, want header + 2 rows:\n%s", len(lines), buf.String())
	}
	if lines[0] != "date,employee,status,check-in,check-out,hours" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "2025-06-02,Bob,present,2025-06-02T09:00:00Z,2025-06-02T17:00:00Z,8.00" {
		t.Errorf("row 1 = %q", lines[1])
	}
	if lines[2] != "2025-06-03,Ada,late,2025-06-03T09:30:00Z,,0.00" {
		t.Errorf("row 2 = %q", lines[2])
	}
}

func TestTodayTeamStatus(t *testing.T) {
	reports, attendance, users := newTestReportService(t)
	seedEmployee(t, users, "u1", "Ada")
	seedEmployee(t, users, "u2", "Bob")
	ctx := context.Background()

	if _, err := attendance.CheckIn(ctx, "u1", at("2025-06-02", 8, 45)); err != nil {
		t.Fatal(err)
	}

	team, err := reports.TodayTeamStatus(ctx, at("2025-06-02", 11, 0))
	if err != nil {
		t.Fatalf("TodayTeamStatus: %v", err)
	}
	if len(team) != 2 {
		t.Fatalf("team = %d, want 2", len(team))
	}

	byName := map[string]core.MemberStatus{}
	for _, m := range team {
		byName[m.Employee.Name] = m
	}
	if byName["Ada"].Status != model.StatusPresent {
		t.Errorf("Ada status = %q, want present", byName["Ada"].Status)
	}
	if byName["Bob"].Status != model.StatusNotMarked {
		t.Errorf("Bob status = %q, want not-marked", byName["Bob"].Status)
	}
	if byName["Bob"].Attendance != nil {
		t.Error("Bob should have a nil attendance record")
	}
}
