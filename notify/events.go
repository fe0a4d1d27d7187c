package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dankdeals/dankdeals-backend-go/config"
	"github.com/dankdeals/dankdeals-backend-go/models"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
	EventWaitlistJoined     = "waitlist.joined"
)

// Event is the envelope written to the notifications topic.
type Event struct {
	EventID   string          `json:"event_id"`
	EventType string          `json:"event_type"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp time.Time       `json:"timestamp"`
}

type OrderEventPayload struct {
	Order        models.Order `json:"order"`
	CustomerName string       `json:"customer_name"`
	Email        string       `json:"email"`
	Phone        string       `json:"phone"`
	WantsEmail   bool         `json:"wants_email"`
	WantsSMS     bool         `json:"wants_sms"`
}

type WaitlistEventPayload struct {
	Phone string `json:"phone"`
}

// Publisher writes notification events to Kafka. Publishing is best effort:
// failures are logged and never propagated to the caller.
type Publisher struct {
	writer *kafka.Writer
	logger *zap.Logger
}

func NewPublisher(cfg config.KafkaConfig, logger *zap.Logger) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        cfg.Topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireOne,
		},
		logger: logger,
	}
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

func (p *Publisher) publish(ctx context.Context, eventType string, payload interface{}) {
	raw, err := json.Marshal(payload)
	if err != nil {
		p.logger.Error("failed to marshal event payload",
			zap.String("event_type", eventType), zap.Error(err))
		return
	}

	event := Event{
		EventID:   uuid.New().String(),
		EventType: eventType,
		Payload:   raw,
		Timestamp: time.Now(),
	}

	value, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("failed to marshal event", zap.Error(err))
		return
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.EventID),
		Value: value,
	})
	if err != nil {
		p.logger.Error("failed to publish event",
			zap.String("event_type", eventType), zap.Error(err))
	}
}

// OrderCreated queues the confirmation notifications for a new order.
func (p *Publisher) OrderCreated(ctx context.Context, payload OrderEventPayload) {
	p.publish(ctx, EventOrderCreated, payload)
}

// OrderStatusChanged queues the status update notifications.
func (p *Publisher) OrderStatusChanged(ctx context.Context, payload OrderEventPayload) {
	p.publish(ctx, EventOrderStatusChanged, payload)
}

// WaitlistJoined queues the waitlist welcome SMS.
func (p *Publisher) WaitlistJoined(ctx context.Context, phone string) {
	p.publish(ctx, EventWaitlistJoined, WaitlistEventPayload{Phone: phone})
}
