package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"attendance.service/pkg/telemetry"
)

// SQSClient sendMessage interface based on aws sdk
type SQSClient interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// SQSProducer publishes check-out events to the notification queue.
type SQSProducer struct {
	client   SQSClient
	queueURL string
}

// NewSQSProducer new instance of SQS producer.
func NewSQSProducer(client SQSClient, queueURL string) *SQSProducer {
	return &SQSProducer{
		client:   client,
		queueURL: queueURL,
	}
}

var _ Producer = (*SQSProducer)(nil)

// PublishCheckOut sends the event to the SQS queue with the current
// trace context injected into the message attributes.
func (p *SQSProducer) PublishCheckOut(ctx context.Context, event CheckOutEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	attrs := telemetry.InjectTraceContext(ctx)
	attrs["EventType"] = eventTypeAttr("CHECK_OUT")

	input := &sqs.SendMessageInput{
		QueueUrl:          aws.String(p.queueURL),
		MessageBody:       aws.String(string(body)),
		MessageAttributes: attrs,
	}

	if _, err := p.client.SendMessage(ctx, input); err != nil {
		return fmt.Errorf("failed to send message to notification queue: %w", err)
	}
	return nil
}

func eventTypeAttr(v string) types.MessageAttributeValue {
	return types.MessageAttributeValue{
		DataType:    aws.String("String"),
		StringValue: aws.String(v),
	}
}
