// Package events publishes order lifecycle events to Kafka.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/GeoAziz/cyberfeast/internal/domain"
	"github.com/segmentio/kafka-go"
)

const EventOrderCreated = "order.created"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// OrderCreated is the wire payload of an order.created event.
type OrderCreated struct {
	OrderID       string            `json:"order_id"`
	UserID        string            `json:"user_id"`
	SessionID     string            `json:"session_id,omitempty"`
	Status        string            `json:"status"`
	Total         string            `json:"total"`
	LoyaltyPoints int64             `json:"loyalty_points"`
	Items         []domain.CartItem `json:"items"`
	CreatedAt     time.Time         `json:"created_at"`
}

type KafkaPublisher struct {
	writer messageWriter
}

func NewKafkaPublisher(topic string, brokers ...string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
		WriteTimeout:           5 * time.Second,
		RequiredAcks:           kafka.RequireOne,
	}
	return &KafkaPublisher{writer: w}
}

// PublishOrderCreated writes one message keyed by user id, so a user's orders
// stay on one partition in creation order.
func (p *KafkaPublisher) PublishOrderCreated(ctx context.Context, order domain.Order, points int64) error {
	msg, err := orderCreatedMessage(order, points)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish %s for order %s: %w", EventOrderCreated, order.ID, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func orderCreatedMessage(order domain.Order, points int64) (kafka.Message, error) {
	payload, err := json.Marshal(OrderCreated{
		OrderID:       order.ID,
		UserID:        order.UserID,
		SessionID:     order.SessionID,
		Status:        order.Status.String(),
		Total:         order.Total.StringFixed(2),
		LoyaltyPoints: points,
		Items:         order.Items,
		CreatedAt:     order.CreatedAt,
	})
	if err != nil {
		return kafka.Message{}, fmt.Errorf("marshal %s: %w", EventOrderCreated, err)
	}
	return kafka.Message{
		Key:   []byte(order.UserID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(EventOrderCreated)},
		},
	}, nil
}
