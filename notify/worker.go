package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dankdeals/dankdeals-backend-go/config"
	"github.com/dankdeals/dankdeals-backend-go/metrics"
	"github.com/dankdeals/dankdeals-backend-go/models"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Worker consumes notification events and dispatches email/SMS sends.
// Delivery is best effort: failures are logged and counted, never retried.
type Worker struct {
	reader *kafka.Reader
	sms    *SMSClient
	email  *EmailClient
	logger *zap.Logger
}

func NewWorker(cfg config.KafkaConfig, sms *SMSClient, email *EmailClient, logger *zap.Logger) *Worker {
	return &Worker{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers: cfg.Brokers,
			Topic:   cfg.Topic,
			GroupID: cfg.GroupID,
		}),
		sms:    sms,
		email:  email,
		logger: logger,
	}
}

func (w *Worker) Close() error {
	return w.reader.Close()
}

// Start runs the consume loop until the context is cancelled.
func (w *Worker) Start(ctx context.Context) {
	w.logger.Info("starting notification worker")
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("stopping notification worker")
			return
		default:
			msg, err := w.reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				w.logger.Error("failed to read kafka message", zap.Error(err))
				time.Sleep(1 * time.Second)
				continue
			}
			w.processMessage(ctx, msg.Value)
		}
	}
}

func (w *Worker) processMessage(ctx context.Context, value []byte) {
	var event Event
	if err := json.Unmarshal(value, &event); err != nil {
		w.logger.Error("failed to unmarshal event", zap.Error(err))
		return
	}

	switch event.EventType {
	case EventOrderCreated:
		w.handleOrderCreated(ctx, event)
	case EventOrderStatusChanged:
		w.handleOrderStatusChanged(ctx, event)
	case EventWaitlistJoined:
		w.handleWaitlistJoined(ctx, event)
	default:
		w.logger.Debug("ignoring event", zap.String("event_type", event.EventType))
	}
}

func (w *Worker) handleOrderCreated(ctx context.Context, event Event) {
	var payload OrderEventPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		w.logger.Error("bad order.created payload", zap.Error(err))
		return
	}

	if !payload.WantsEmail || payload.Email == "" {
		return
	}

	order := payload.Order
	w.sendEmail(ctx, payload.Email,
		ConfirmationSubject(&order),
		ConfirmationHTML(&order, payload.CustomerName),
		"order_id", order.ID)
}

func (w *Worker) handleOrderStatusChanged(ctx context.Context, event Event) {
	var payload OrderEventPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		w.logger.Error("bad order.status_changed payload", zap.Error(err))
		return
	}

	order := payload.Order
	if payload.WantsEmail && payload.Email != "" {
		w.sendEmail(ctx, payload.Email,
			StatusSubject(&order),
			StatusHTML(&order, payload.CustomerName),
			"order_id", order.ID)
	}

	if order.Status == models.OrderStatusOutForDelivery && payload.WantsSMS && payload.Phone != "" {
		w.sendSMS(ctx, payload.Phone, DeliverySMS(&order), "order_id", order.ID)
	}
}

func (w *Worker) handleWaitlistJoined(ctx context.Context, event Event) {
	var payload WaitlistEventPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		w.logger.Error("bad waitlist.joined payload", zap.Error(err))
		return
	}
	w.sendSMS(ctx, payload.Phone, WelcomeSMS(), "phone", payload.Phone)
}

func (w *Worker) sendEmail(ctx context.Context, to, subject, html, refKey, refVal string) {
	if err := w.email.Send(ctx, to, subject, html); err != nil {
		metrics.NotificationsFailed.WithLabelValues("email").Inc()
		w.logger.Error("failed to send email", zap.String(refKey, refVal), zap.Error(err))
		return
	}
	metrics.NotificationsSent.WithLabelValues("email").Inc()
}

func (w *Worker) sendSMS(ctx context.Context, to, body, refKey, refVal string) {
	if err := w.sms.Send(ctx, to, body); err != nil {
		metrics.NotificationsFailed.WithLabelValues("sms").Inc()
		w.logger.Error("failed to send sms", zap.String(refKey, refVal), zap.Error(err))
		return
	}
	metrics.NotificationsSent.WithLabelValues("sms").Inc()
}
