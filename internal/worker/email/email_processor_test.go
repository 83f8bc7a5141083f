package email

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"attendance.service/internal/core/model"
	"attendance.service/internal/ports/messaging"
	"attendance.service/internal/ports/repository/memory"
)

// fakeEmailService counts sends and can be switched to fail.
type fakeEmailService struct {
	sent int
	fail bool
}

func (f *fakeEmailService) SendCheckOutSummary(context.Context, string, string, float64, string) error {
	if f.fail {
		return errors.New("ses unavailable")
	}
	f.sent++
	return nil
}

func newTestProcessor(t *testing.T) (*Processor, *fakeEmailService, *memory.AttendanceStore) {
	t.Helper()
	svc := &fakeEmailService{}
	store := memory.NewAttendanceStore()
	return NewProcessor(svc, store), svc, store
}

func seedClosedRecord(t *testing.T, store *memory.AttendanceStore, id string) {
	t.Helper()
	checkIn := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	checkOut := checkIn.Add(8 * time.Hour)
	err := store.Create(context.Background(), &model.AttendanceRecord{
		ID:          id,
		UserID:      "u1",
		Date:        model.DateOf(checkIn),
		CheckInTime: checkIn,
		Status:      model.StatusPresent,
		CreatedAt:   checkIn,
	})
	if err != nil {
		t.Fatalf("seeding record: %v", err)
	}
	err = store.UpdateCheckOut(context.Background(), id, checkOut, 8.0, model.StatusPresent)
	if err != nil {
		t.Fatalf("closing record: %v", err)
	}
}

func messageFor(t *testing.T, recordID string) types.Message {
	t.Helper()
	body, err := json.Marshal(messaging.CheckOutEvent{
		RecordID:   recordID,
		UserID:     "u1",
		Email:      "u1@example.com",
		Name:       "Ada Lovelace",
		Date:       "2025-06-02",
		Status:     string(model.StatusPresent),
		TotalHours: 8.0,
	})
	if err != nil {
		t.Fatalf("marshaling event: %v", err)
	}
	return types.Message{Body: aws.String(string(body))}
}

func TestProcess_DuplicateDeliverySendsOneMail(t *testing.T) {
	proc, svc, store := newTestProcessor(t)
	seedClosedRecord(t, store, "rec-1")
	msg := messageFor(t, "rec-1")
	ctx := context.Background()

	retry, _, err := proc.Process(ctx, msg)
	if err != nil {
		t.Fatalf("first delivery: %v", err)
	}
	if retry {
		t.Error("first delivery requested a retry")
	}

	// SQS is at-least-once; the redelivery must be a no-op.
	retry, _, err = proc.Process(ctx, msg)
	if err != nil {
		t.Fatalf("second delivery: %v", err)
	}
	if retry {
		t.Error("second delivery requested a retry")
	}
	if svc.sent != 1 {
		t.Errorf("mails sent = %d, want 1", svc.sent)
	}

	rec, err := store.Get(ctx, "rec-1")
	if err != nil {
		t.Fatalf("loading record: %v", err)
	}
	if rec.NotificationStatus != model.NotificationCompleted {
		t.Errorf("notification status = %q, want completed", rec.NotificationStatus)
	}
}

func TestProcess_SendFailureRetriesWithBackoff(t *testing.T) {
	proc, svc, store := newTestProcessor(t)
	seedClosedRecord(t, store, "rec-1")
	svc.fail = true
	ctx := context.Background()

	retry, delay, err := proc.Process(ctx, messageFor(t, "rec-1"))
	if err == nil {
		t.Fatal("expected an error from the failed send")
	}
	if !retry {
		t.Error("failed send did not request a retry")
	}
	if delay <= 0 {
		t.Errorf("retry delay = %d, want positive", delay)
	}

	rec, err := store.Get(ctx, "rec-1")
	if err != nil {
		t.Fatalf("loading record: %v", err)
	}
	if rec.NotificationStatus != model.NotificationPending {
		t.Errorf("notification status = %q, want pending", rec.NotificationStatus)
	}
	if rec.NotificationRetryCount != 1 {
		t.Errorf("retry count = %d, want 1", rec.NotificationRetryCount)
	}

	// Once SES recovers the retry goes through.
	svc.fail = false
	retry, _, err = proc.Process(ctx, messageFor(t, "rec-1"))
	if err != nil || retry {
		t.Fatalf("recovered delivery: retry=%v err=%v", retry, err)
	}
	if svc.sent != 1 {
		t.Errorf("mails sent = %d, want 1", svc.sent)
	}
}

func TestProcess_MalformedBodyNotRetried(t *testing.T) {
	proc, svc, _ := newTestProcessor(t)

	retry, _, err := proc.Process(context.Background(), types.Message{Body: aws.String("{not json")})
	if err == nil {
		t.Fatal("expected an unmarshal error")
	}
	if retry {
		t.Error("malformed message requested a retry")
	}
	if svc.sent != 0 {
		t.Errorf("mails sent = %d, want 0", svc.sent)
	}
}

func TestProcess_UnknownRecordRetried(t *testing.T) {
	proc, _, _ := newTestProcessor(t)

	retry, delay, err := proc.Process(context.Background(), messageFor(t, "ghost"))
	if err == nil {
		t.Fatal("expected an error for the missing record")
	}
	if !retry || delay <= 0 {
		t.Errorf("retry=%v delay=%d, want a delayed retry", retry, delay)
	}
}

func TestCalculateBackoff(t *testing.T) {
	cases := []struct {
		retries int
		want    int32
	}{
		{1, 20},
		{2, 40},
		{5, 320},
		{9, 3600}, // capped at one hour
		{20, 3600},
	}
	for _, tc := range cases {
		if got := calculateBackoff(tc.retries); got != tc.want {
			t.Errorf("calculateBackoff(%d) = %d, want %d", tc.retries, got, tc.want)
		}
	}
}
