package rabbitmq

import (
	"catalog-import-service/internal/contextkeys"
	"catalog-import-service/internal/contracts"
	"catalog-import-service/internal/core/domain"
	"catalog-import-service/internal/core/port"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	ImportCompletedEventType    = "ImportCompletedEvent"
	ImportCompletedEventVersion = "1.0.0"

	publishTimeout = 10 * time.Second
)

// Publisher - часть rabbitmq_producer.Publisher, которая нужна адаптеру
type Publisher interface {
	Publish(ctx context.Context, routingKey string, msg amqp.Publishing) error
}

// importCompletedEvent - тело события о завершении импорта
type importCompletedEvent struct {
	EventID string `json:"event_id"`
	*domain.ImportReport
}

// ImportReporterAdapter реализует port.ImportReporterPort через RabbitMQ
type ImportReporterAdapter struct {
	producer   Publisher
	routingKey string
}

func NewImportReporterAdapter(producer Publisher, routingKey string) (*ImportReporterAdapter, error) {
	if producer == nil {
		return nil, fmt.Errorf("rabbitmq adapter: producer cannot be nil")
	}
	if routingKey == "" {
		return nil, fmt.Errorf("rabbitmq adapter: routingKey cannot be empty")
	}
	return &ImportReporterAdapter{producer: producer, routingKey: routingKey}, nil
}

func (a *ImportReporterAdapter) ReportImport(ctx context.Context, report *domain.ImportReport) error {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":   "ImportReporterAdapter",
		"routing_key": a.routingKey,
		"source_id":   report.SourceID,
	})

	event := importCompletedEvent{EventID: uuid.NewString(), ImportReport: report}
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("rabbitmq adapter: failed to encode import report: %w", err)
	}
	if err := contracts.ValidateEvent(ImportCompletedEventType, ImportCompletedEventVersion, body); err != nil {
		logger.Error("Import report does not match event contract", err, nil)
		return fmt.Errorf("rabbitmq adapter: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		MessageId:    event.EventID,
		Timestamp:    time.Now(),
		Type:         ImportCompletedEventType,
		Headers: amqp.Table{
			"x-event-version": ImportCompletedEventVersion,
		},
	}
	if traceID := contextkeys.TraceIDFromContext(ctx); traceID != "" {
		msg.Headers["x-trace-id"] = traceID
	}

	publishCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := a.producer.Publish(publishCtx, a.routingKey, msg); err != nil {
		logger.Error("Failed to publish import report", err, nil)
		return fmt.Errorf("rabbitmq adapter: failed to publish import report for source %s: %w", report.SourceID, err)
	}

	logger.Info("Import report published", port.Fields{"event_id": event.EventID})
	return nil
}
