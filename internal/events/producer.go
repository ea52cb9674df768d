// Package events streams booking lifecycle events to Kafka. In mock mode
// (the default) events are logged instead of published, so the assistant
// runs without a broker.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"booking-assistant/internal/logger"
	"booking-assistant/internal/models"
)

const (
	EventBookingCreated   = "booking_created"
	EventBookingCancelled = "booking_cancelled"
)

type Event struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	BookingID string          `json:"booking_id"`
	Booking   *models.Booking `json:"booking"`
	Timestamp time.Time       `json:"timestamp"`
}

type Publisher interface {
	PublishBookingCreated(b *models.Booking) error
	PublishBookingCancelled(b *models.Booking) error
}

type Producer struct {
	Writer *kafka.Writer
	Log    *logger.Logger
}

func NewProducer(brokers []string, topic string, log *logger.Logger) *Producer {
	writer := kafka.NewWriter(kafka.WriterConfig{
		Brokers: brokers,
		Topic:   topic,
	})
	return &Producer{Writer: writer, Log: log}
}

func (p *Producer) PublishBookingCreated(b *models.Booking) error {
	return p.publish(EventBookingCreated, b)
}

func (p *Producer) PublishBookingCancelled(b *models.Booking) error {
	return p.publish(EventBookingCancelled, b)
}

func (p *Producer) publish(eventType string, b *models.Booking) error {
	event := Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		BookingID: b.ID,
		Booking:   b,
		Timestamp: time.Now(),
	}
	msgBytes, err := json.Marshal(event)
	if err != nil {
		return err
	}

	p.Log.Info("KAFKA", fmt.Sprintf("publishing [%s] for booking %s", eventType, b.ID))

	return p.Writer.WriteMessages(context.Background(),
		kafka.Message{
			Key:   []byte(b.ID),
			Value: msgBytes,
		},
	)
}

func (p *Producer) Close() error {
	return p.Writer.Close()
}

// MockPublisher logs events without a broker.
type MockPublisher struct {
	Log *logger.Logger
}

func (m *MockPublisher) PublishBookingCreated(b *models.Booking) error {
	m.Log.Info("KAFKA", fmt.Sprintf("mock publish [%s] for booking %s", EventBookingCreated, b.ID))
	return nil
}

func (m *MockPublisher) PublishBookingCancelled(b *models.Booking) error {
	m.Log.Info("KAFKA", fmt.Sprintf("mock publish [%s] for booking %s", EventBookingCancelled, b.ID))
	return nil
}
