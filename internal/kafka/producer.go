package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
)

const EventBookingCreated = "booking_created"

type BookingEvent struct {
	Type      string    `json:"type"`
	BookingID string    `json:"booking_id"`
	TripType  string    `json:"trip_type"`
	FlightIDs []string  `json:"flight_ids"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Producer struct {
	writer *kafka.Writer
}

func NewProducer(brokers []string) *Producer {
	return &Producer{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Balancer:               &kafka.LeastBytes{},
			BatchTimeout:           50 * time.Millisecond,
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
		},
	}
}

func (p *Producer) Publish(ctx context.Context, topic, key string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	}); err != nil {
		return fmt.Errorf("failed to write message to Kafka: %w", err)
	}

	log.Printf("published to kafka topic=%s key=%s", topic, key)
	return nil
}

func (p *Producer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

// DecodeBookingEvent parses a message value produced by Publish.
func DecodeBookingEvent(msg kafka.Message) (BookingEvent, error) {
	var event BookingEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return BookingEvent{}, fmt.Errorf("decode booking event: %w", err)
	}
	return event, nil
}
