package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

const (
	EventBookingCreated   = "booking_created"
	EventBookingCancelled = "booking_cancelled"
)

// BookingEvent is published after a booking transaction commits.
type BookingEvent struct {
	EventID       string    `json:"event_id"`
	Type          string    `json:"type"`
	Reference     string    `json:"booking_reference"`
	FlightID      int64     `json:"flight_id"`
	FlightNumber  string    `json:"flight_number,omitempty"`
	Route         string    `json:"route,omitempty"`
	FlightDate    string    `json:"flight_date"`
	CabinClass    string    `json:"cabin_class"`
	SeatNumber    string    `json:"seat_number,omitempty"`
	PassengerName string    `json:"passenger_name,omitempty"`
	Email         string    `json:"email"`
	Status        string    `json:"status"`
	TicketPrice   float64   `json:"ticket_price"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// NewBookingEvent stamps the event with a fresh id and time.
func NewBookingEvent(eventType string, now time.Time) BookingEvent {
	return BookingEvent{
		EventID:    uuid.NewString(),
		Type:       eventType,
		OccurredAt: now.UTC(),
	}
}

type Producer struct {
	brokers []string
	writer  *kafka.Writer
	log     *slog.Logger
}

func NewProducer(brokers []string, log *slog.Logger) *Producer {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		BatchTimeout:           50 * time.Millisecond,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}

	return &Producer{
		brokers: brokers,
		writer:  writer,
		log:     log,
	}
}

// Publish writes payload as JSON. Messages with the same key land on the
// same partition, so events of one booking stay ordered.
func (p *Producer) Publish(ctx context.Context, topic, key string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	message := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	}

	if err := p.writer.WriteMessages(ctx, message); err != nil {
		return fmt.Errorf("failed to write message to Kafka: %w", err)
	}

	p.log.DebugContext(ctx, "published event", slog.String("topic", topic), slog.String("key", key))
	return nil
}

func (p *Producer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}

// CheckConnection dials the first broker and reads the partition list.
func (p *Producer) CheckConnection(ctx context.Context) error {
	if len(p.brokers) == 0 {
		return fmt.Errorf("no kafka brokers configured")
	}
	conn, err := kafka.DialContext(ctx, "tcp", p.brokers[0])
	if err != nil {
		return fmt.Errorf("failed to connect to Kafka: %w", err)
	}
	defer conn.Close()

	partitions, err := conn.ReadPartitions()
	if err != nil {
		return fmt.Errorf("failed to read partitions: %w", err)
	}

	p.log.InfoContext(ctx, "connected to kafka", slog.Int("partitions", len(partitions)))
	return nil
}
