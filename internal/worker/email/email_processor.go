package email

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"

	"attendance.service/internal/core"
	"attendance.service/internal/core/model"
	"attendance.service/internal/ports/messaging"
	"attendance.service/internal/ports/repository"
)

// Processor handles check-out events from the notification queue and
// sends the summary mail. SES sits behind a circuit breaker so a mail
// outage does not turn into a hammering retry storm.
type Processor struct {
	emailService core.EmailService
	repo         repository.AttendanceRepository
	cb           *gobreaker.CircuitBreaker
}

// NewProcessor sets up the email processor with its circuit breaker.
func NewProcessor(emailService core.EmailService, repo repository.AttendanceRepository) *Processor {
	settings := gobreaker.Settings{
		Name:        "SES-Email",
		MaxRequests: 5,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			// Trip when the failure rate passes 50% over at least 10 requests
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 10 && failureRatio >= 0.5
		},
	}

	return &Processor{
		emailService: emailService,
		repo:         repo,
		cb:           gobreaker.NewCircuitBreaker(settings),
	}
}

// Process sends the summary mail for one event. Idempotent per record
// via the notification status column.
func (p *Processor) Process(ctx context.Context, msg types.Message) (bool, int32, error) {
	var event messaging.CheckOutEvent
	if err := json.Unmarshal([]byte(*msg.Body), &event); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("Failed to unmarshal check-out event")
		return false, 0, err // Do not retry on malformed message
	}

	record, err := p.repo.Get(ctx, event.RecordID)
	if err != nil {
		return true, 10, fmt.Errorf("failed to load record for email processing: %w", err)
	}

	if record.NotificationStatus == model.NotificationCompleted {
		log.Ctx(ctx).Info().Str("record_id", event.RecordID).Msg("Summary mail already sent, skipping")
		return false, 0, nil
	}

	_, err = p.cb.Execute(func() (interface{}, error) {
		return nil, p.emailService.SendCheckOutSummary(ctx, event.Email, event.Name, event.TotalHours, event.Status)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) {
			log.Ctx(ctx).Warn().Msg("Circuit breaker is open, skipping SES call")
		}
		newCount := record.NotificationRetryCount + 1
		p.repo.UpdateNotificationStatus(ctx, event.RecordID, model.NotificationPending, newCount)

		return true, calculateBackoff(newCount), err
	}

	err = p.repo.UpdateNotificationStatus(ctx, event.RecordID, model.NotificationCompleted, 0)
	return false, 0, err
}

// calculateBackoff grows the retry delay exponentially, capped at 1 hour.
func calculateBackoff(retryCount int) int32 {
	backoff := int32(math.Pow(2, float64(retryCount)) * 10)
	if backoff > 3600 {
		return 3600
	}
	return backoff
}
