package core_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"attendance.service/internal/core"
	"attendance.service/internal/core/model"
	"attendance.service/internal/ports/messaging"
	"attendance.service/internal/ports/repository/memory"
)

// testPolicy: cutoff 09:00 UTC, half-day below 4 hours.
var testPolicy = core.AttendancePolicy{
	CutoffMinute:     9 * 60,
	HalfDayThreshold: 4 * time.Hour,
}

// captureProducer records published events so tests can inspect them.
type captureProducer struct {
	mu     sync.Mutex
	events []messaging.CheckOutEvent
}

func (p *captureProducer) PublishCheckOut(_ context.Context, ev messaging.CheckOutEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func newTestService(t *testing.T) (*core.AttendanceService, *memory.UserStore, *captureProducer) {
	t.Helper()
	users := memory.NewUserStore()
	producer := &captureProducer{}
	svc := core.NewAttendanceService(memory.NewAttendanceStore(), users, producer, testPolicy)
	return svc, users, producer
}

func seedUser(t *testing.T, users *memory.UserStore, id string) {
	t.Helper()
	err := users.Create(context.Background(), &model.User{
		ID:         id,
		Name:       "Ada Lovelace",
		Email:      id + "@example.com",
		Role:       model.RoleEmployee,
		EmployeeID: "EMP-" + id,
	})
	if err != nil {
		t.Fatalf("seeding user: %v", err)
	}
}

func at(day string, hour, minute int) time.Time {
	d, err := time.Parse("2006-01-02", day)
	if err != nil {
		panic(err)
	}
	return d.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

func TestCheckIn_CutoffClassification(t *testing.T) {
	cases := []struct {
		name string
		now  time.Time
		want model.AttendanceStatus
	}{
		{"before cutoff", at("2025-06-02", 8, 59), model.StatusPresent},
		{"at cutoff", at("2025-06-02", 9, 0), model.StatusPresent},
		{"after cutoff", at("2025-06-02", 9, 1), model.StatusLate},
		{"late afternoon", at("2025-06-02", 14, 30), model.StatusLate},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, users, _ := newTestService(t)
			seedUser(t, users, "u1")

			rec, err := svc.CheckIn(context.Background(), "u1", tc.now)
			if err != nil {
				t.Fatalf("CheckIn: %v", err)
			}
			if rec.Status != tc.want {
				t.Errorf("status = %q, want %q", rec.Status, tc.want)
			}
			if !rec.Date.Equal(model.DateOf(tc.now)) {
				t.Errorf("date = %v, want %v", rec.Date, model.DateOf(tc.now))
			}
			if rec.TotalHours != 0 {
				t.Errorf("totalHours = %v, want 0", rec.TotalHours)
			}
			if rec.CheckOutTime != nil {
				t.Error("checkOutTime should be unset at check-in")
			}
		})
	}
}

func TestCheckIn_SecondAttemptRejected(t *testing.T) {
	svc, users, _ := newTestService(t)
	seedUser(t, users, "u1")
	ctx := context.Background()

	if _, err := svc.CheckIn(ctx, "u1", at("2025-06-02", 8, 30)); err != nil {
		t.Fatalf("first CheckIn: %v", err)
	}

	_, err := svc.CheckIn(ctx, "u1", at("2025-06-02", 10, 0))
	if err != core.ErrAlreadyCheckedIn {
		t.Fatalf("second CheckIn error = %v, want ErrAlreadyCheckedIn", err)
	}
}

func TestCheckIn_ConcurrentAttempts_ExactlyOneWins(t *testing.T) {
	svc, users, _ := newTestService(t)
	seedUser(t, users, "u1")
	now := at("2025-06-02", 8, 45)

	const attempts = 32
	var wg sync.WaitGroup
	results := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.CheckIn(context.Background(), "u1", now)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var wins, rejections int
	for err := range results {
		switch err {
		case nil:
			wins++
		case core.ErrAlreadyCheckedIn:
			rejections++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if wins != 1 {
		t.Errorf("wins = %d, want exactly 1", wins)
	}
	if rejections != attempts-1 {
		t.Errorf("rejections = %d, want %d", rejections, attempts-1)
	}
}

func TestCheckOut_ComputesHoursAndPublishes(t *testing.T) {
	svc, users, producer := newTestService(t)
	seedUser(t, users, "u1")
	ctx := context.Background()

	if _, err := svc.CheckIn(ctx, "u1", at("2025-06-02", 9, 0)); err != nil {
		t.Fatalf("CheckIn: %v", err)
	}

	rec, err := svc.CheckOut(ctx, "u1", at("2025-06-02", 13, 0))
	if err != nil {
		t.Fatalf("CheckOut: %v", err)
	}
	if rec.TotalHours != 4.0 {
		t.Errorf("totalHours = %v, want 4.0", rec.TotalHours)
	}
	if rec.Status != model.StatusPresent {
		t.Errorf("status = %q, want present", rec.Status)
	}
	if rec.CheckOutTime == nil {
		t.Fatal("checkOutTime not set")
	}

	if len(producer.events) != 1 {
		t.Fatalf("published events = %d, want 1", len(producer.events))
	}
	ev := producer.events[0]
	if ev.TotalHours != 4.0 || ev.UserID != "u1" || ev.Email != "u1@example.com" {
		t.Errorf("unexpected event: %+v", ev)
	}
}

func TestCheckOut_ShortDayBecomesHalfDay(t *testing.T) {
	svc, users, _ := newTestService(t)
	seedUser(t, users, "u1")
	ctx := context.Background()

	if _, err := svc.CheckIn(ctx, "u1", at("2025-06-02", 8, 0)); err != nil {
		t.Fatalf("CheckIn: %v", err)
	}

	rec, err := svc.CheckOut(ctx, "u1", at("2025-06-02", 10, 0))
	if err != nil {
		t.Fatalf("CheckOut: %v", err)
	}
	if rec.Status != model.StatusHalfDay {
		t.Errorf("status = %q, want half-day", rec.Status)
	}
	if rec.TotalHours != 2.0 {
		t.Errorf("totalHours = %v, want 2.0", rec.TotalHours)
	}
}

func TestCheckOut_LatenessPreservedOverShortDay(t *testing.T) {
	svc, users, _ := newTestService(t)
	seedUser(t, users, "u1")
	ctx := context.Background()

	if _, err := svc.CheckIn(ctx, "u1", at("2025-06-02", 9, 5)); err != nil {
		t.Fatalf("CheckIn: %v", err)
	}

	// Two hours worked, below the threshold, but the record is late.
	rec, err := svc.CheckOut(ctx, "u1", at("2025-06-02", 11, 5))
	if err != nil {
		t.Fatalf("CheckOut: %v", err)
	}
	if rec.Status != model.StatusLate {
		t.Errorf("status = %q, want late (lateness takes precedence)", rec.Status)
	}
}

func TestCheckOut_WithoutCheckIn(t *testing.T) {
	svc, users, _ := newTestService(t)
	seedUser(t, users, "u1")

	_, err := svc.CheckOut(context.Background(), "u1", at("2025-06-02", 17, 0))
	if err != core.ErrNoActiveCheckIn {
		t.Fatalf("error = %v, want ErrNoActiveCheckIn", err)
	}
}

func TestCheckOut_Twice(t *testing.T) {
	svc, users, _ := newTestService(t)
	seedUser(t, users, "u1")
	ctx := context.Background()

	if _, err := svc.CheckIn(ctx, "u1", at("2025-06-02", 9, 0)); err != nil {
		t.Fatalf("CheckIn: %v", err)
	}
	if _, err := svc.CheckOut(ctx, "u1", at("2025-06-02", 17, 0)); err != nil {
		t.Fatalf("first CheckOut: %v", err)
	}

	_, err := svc.CheckOut(ctx, "u1", at("2025-06-02", 18, 0))
	if err != core.ErrAlreadyCheckedOut {
		t.Fatalf("second CheckOut error = %v, want ErrAlreadyCheckedOut", err)
	}
}

func TestGetTodayStatus_NotMarked(t *testing.T) {
	svc, users, _ := newTestService(t)
	seedUser(t, users, "u1")

	status, rec, err := svc.GetTodayStatus(context.Background(), "u1", at("2025-06-02", 8, 0))
	if err != nil {
		t.Fatalf("GetTodayStatus: %v", err)
	}
	if status != model.StatusNotMarked {
		t.Errorf("status = %q, want not-marked", status)
	}
	if rec != nil {
		t.Errorf("record = %+v, want nil", rec)
	}
}

func TestGetTodayStatus_AfterCheckIn(t *testing.T) {
	svc, users, _ := newTestService(t)
	seedUser(t, users, "u1")
	ctx := context.Background()

	if _, err := svc.CheckIn(ctx, "u1", at("2025-06-02", 9, 30)); err != nil {
		t.Fatalf("CheckIn: %v", err)
	}

	status, rec, err := svc.GetTodayStatus(ctx, "u1", at("2025-06-02", 11, 0))
	if err != nil {
		t.Fatalf("GetTodayStatus: %v", err)
	}
	if status != model.StatusLate {
		t.Errorf("status = %q, want late", status)
	}
	if rec == nil {
		t.Fatal("record is nil after check-in")
	}
}

// seedWeek marks Mon 2025-06-02 present (8h), Tue late (7h) and Wed
// half-day (3h); Thu and Fri stay unmarked.
func seedWeek(t *testing.T, svc *core.AttendanceService) {
	t.Helper()
	ctx := context.Background()
	days := []struct {
		day     string
		in, out time.Time
	}{
		{"mon", at("2025-06-02", 9, 0), at("2025-06-02", 17, 0)},
		{"tue", at("2025-06-03", 9, 30), at("2025-06-03", 16, 30)},
		{"wed", at("2025-06-04", 8, 0), at("2025-06-04", 11, 0)},
	}
	for _, d := range days {
		if _, err := svc.CheckIn(ctx, "u1", d.in); err != nil {
			t.Fatalf("%s CheckIn: %v", d.day, err)
		}
		if _, err := svc.CheckOut(ctx, "u1", d.out); err != nil {
			t.Fatalf("%s CheckOut: %v", d.day, err)
		}
	}
}

func TestComputeSummary(t *testing.T) {
	svc, users, _ := newTestService(t)
	seedUser(t, users, "u1")
	seedWeek(t, svc)

	// Sun 2025-06-01 through Sat 2025-06-07, evaluated the next week.
	now := at("2025-06-10", 12, 0)
	sum, err := svc.ComputeSummary(context.Background(), "u1",
		at("2025-06-01", 0, 0), at("2025-06-07", 0, 0), now)
	if err != nil {
		t.Fatalf("ComputeSummary: %v", err)
	}

	want := model.Summary{
		Present:    1,
		Absent:     2, // Thu and Fri; the weekend never counts absent
		Late:       1,
		HalfDay:    1,
		TotalDays:  5,
		TotalHours: 18.0,
	}
	if sum != want {
		t.Errorf("summary = %+v, want %+v", sum, want)
	}
}

func TestComputeSummary_AdditiveAndDeterministic(t *testing.T) {
	svc, users, _ := newTestService(t)
	seedUser(t, users, "u1")
	seedWeek(t, svc)
	ctx := context.Background()
	now := at("2025-06-10", 12, 0)

	whole, err := svc.ComputeSummary(ctx, "u1", at("2025-06-01", 0, 0), at("2025-06-07", 0, 0), now)
	if err != nil {
		t.Fatalf("ComputeSummary: %v", err)
	}

	first, err := svc.ComputeSummary(ctx, "u1", at("2025-06-01", 0, 0), at("2025-06-03", 0, 0), now)
	if err != nil {
		t.Fatalf("ComputeSummary first half: %v", err)
	}
	second, err := svc.ComputeSummary(ctx, "u1", at("2025-06-04", 0, 0), at("2025-06-07", 0, 0), now)
	if err != nil {
		t.Fatalf("ComputeSummary second half: %v", err)
	}

	combined := model.Summary{
		Present:    first.Present + second.Present,
		Absent:     first.Absent + second.Absent,
		Late:       first.Late + second.Late,
		HalfDay:    first.HalfDay + second.HalfDay,
		TotalDays:  first.TotalDays + second.TotalDays,
		TotalHours: first.TotalHours + second.TotalHours,
	}
	if combined != whole {
		t.Errorf("split summaries sum to %+v, whole period gives %+v", combined, whole)
	}

	again, err := svc.ComputeSummary(ctx, "u1", at("2025-06-01", 0, 0), at("2025-06-07", 0, 0), now)
	if err != nil {
		t.Fatalf("ComputeSummary repeat: %v", err)
	}
	if again != whole {
		t.Errorf("recomputation changed the result: %+v vs %+v", again, whole)
	}
}

func TestComputeSummary_FutureDaysNotAbsent(t *testing.T) {
	svc, users, _ := newTestService(t)
	seedUser(t, users, "u1")

	// Evaluating mid-period: only weekdays strictly before "now" count.
	now := at("2025-06-04", 10, 0)
	sum, err := svc.ComputeSummary(context.Background(), "u1",
		at("2025-06-01", 0, 0), at("2025-06-07", 0, 0), now)
	if err != nil {
		t.Fatalf("ComputeSummary: %v", err)
	}
	if sum.Absent != 2 { // Mon and Tue only; Wed is still today
		t.Errorf("absent = %d, want 2", sum.Absent)
	}
}
