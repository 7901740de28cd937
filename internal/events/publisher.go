package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/tm-acme-shop/acme-shop-orderbot-service/internal/config"
	"github.com/tm-acme-shop/acme-shop-orderbot-service/internal/logging"
	"github.com/tm-acme-shop/acme-shop-orderbot-service/internal/models"
)

// EventType represents the type of order event.
type EventType string

const (
	EventTypeOrderPlaced EventType = "order.placed"
)

// OrderEvent is the envelope written to the orders topic.
type OrderEvent struct {
	ID        string            `json:"id"`
	Type      EventType         `json:"type"`
	OrderID   string            `json:"order_id"`
	SessionID string            `json:"session_id"`
	Data      json.RawMessage   `json:"data"`
	Metadata  map[string]string `json:"metadata"`
	Timestamp time.Time         `json:"timestamp"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher publishes order events to Kafka.
type KafkaPublisher struct {
	writer messageWriter
	topic  string
	logger *logging.LoggerV2
}

// NewKafkaPublisher creates a new Kafka-based event publisher.
func NewKafkaPublisher(cfg config.KafkaConfig, logger *logging.LoggerV2) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.OrdersTopic,
		Balancer:     &kafka.Hash{},
		WriteTimeout: 10 * time.Second,
		RequiredAcks: kafka.RequireOne,
	}

	return &KafkaPublisher{
		writer: writer,
		topic:  cfg.OrdersTopic,
		logger: logger,
	}
}

// PublishOrderPlaced publishes an order placed event. Messages are keyed by order id.
func (p *KafkaPublisher) PublishOrderPlaced(ctx context.Context, record *models.PlacedOrderRecord) error {
	p.logger.Debug("Publishing order placed event", logging.Fields{
		"order_id": record.OrderID,
	})

	data, err := json.Marshal(record)
	if err != nil {
		return err
	}

	event := newEvent(EventTypeOrderPlaced, record.OrderID, record.SessionID, data)
	return p.publish(ctx, event)
}

func newEvent(eventType EventType, orderID, sessionID string, data []byte) *OrderEvent {
	return &OrderEvent{
		ID:        "evt_" + uuid.NewString(),
		Type:      eventType,
		OrderID:   orderID,
		SessionID: sessionID,
		Data:      data,
		Metadata:  map[string]string{"source": "orderbot-service"},
		Timestamp: time.Now().UTC(),
	}
}

func (p *KafkaPublisher) publish(ctx context.Context, event *OrderEvent) error {
	eventData, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(event.OrderID),
		Value: eventData,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
			{Key: "event_id", Value: []byte(event.ID)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish event", logging.Fields{
			"event_id":   event.ID,
			"event_type": event.Type,
			"order_id":   event.OrderID,
			"error":      err.Error(),
		})
		return err
	}

	p.logger.Info("Event published", logging.Fields{
		"event_id":   event.ID,
		"event_type": event.Type,
		"order_id":   event.OrderID,
	})

	return nil
}

// Close closes the Kafka writer.
func (p *KafkaPublisher) Close() error {
	p.logger.Info("Closing Kafka publisher")
	return p.writer.Close()
}

// MockEventPublisher records events in memory for tests and for running without Kafka.
type MockEventPublisher struct {
	mu     sync.Mutex
	Events []*OrderEvent
	Err    error
}

func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{
		Events: make([]*OrderEvent, 0),
	}
}

func (m *MockEventPublisher) PublishOrderPlaced(ctx context.Context, record *models.PlacedOrderRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return m.Err
	}
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	m.Events = append(m.Events, newEvent(EventTypeOrderPlaced, record.OrderID, record.SessionID, data))
	return nil
}

// Published returns a copy of the recorded events.
func (m *MockEventPublisher) Published() []*OrderEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*OrderEvent(nil), m.Events...)
}
