package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
)

// EventHandler receives each decoded booking event in partition order.
// Returning an error stops consumption; the failed offset is not committed.
type EventHandler func(ctx context.Context, event BookingEvent) error

// Consumer reads the booking-events topic as part of a consumer group and
// hands decoded events to a handler. Payloads that do not decode are logged
// and skipped so one bad message cannot wedge the group.
type Consumer struct {
	reader *kafka.Reader
}

func NewConsumer(brokers []string, groupID, topic string) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:           brokers,
			GroupID:           groupID,
			Topic:             topic,
			HeartbeatInterval: 3 * time.Second,
			SessionTimeout:    30 * time.Second,
		}),
	}
}

func (c *Consumer) Close() error {
	if c == nil || c.reader == nil {
		return nil
	}
	return c.reader.Close()
}

func (c *Consumer) Consume(ctx context.Context, handle EventHandler) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			return err
		}

		event, err := decodeBookingEvent(msg.Value)
		if err != nil {
			log.Printf("skip message at offset %d: %v", msg.Offset, err)
			continue
		}

		if err := handle(ctx, event); err != nil {
			return err
		}
	}
}

func decodeBookingEvent(payload []byte) (BookingEvent, error) {
	var event BookingEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return BookingEvent{}, fmt.Errorf("decode booking event: %w", err)
	}
	if event.BookingID <= 0 {
		return BookingEvent{}, fmt.Errorf("booking event without booking id")
	}
	return event, nil
}
