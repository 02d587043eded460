// Package events publishes order lifecycle events to Kafka. Publication is
// best-effort: the order transaction has already committed by the time an
// event is emitted, and a broker failure must never fail the request.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mkrishnan-dev/storefront_backend/internal/core/domain"
	portssvc "github.com/mkrishnan-dev/storefront_backend/internal/core/ports/services"
	"github.com/segmentio/kafka-go"
)

const (
	EventOrderCreated   = "order.created"
	EventOrderCancelled = "order.cancelled"
)

// orderEvent is the wire shape of an order lifecycle event.
type orderEvent struct {
	EventType   string           `json:"eventType"`
	OrderID     string           `json:"orderID"`
	UserID      string           `json:"userID"`
	Status      string           `json:"status"`
	TotalAmount string           `json:"totalAmount"`
	Items       []orderEventItem `json:"items,omitempty"`
	OccurredAt  time.Time        `json:"occurredAt"`
}

type orderEventItem struct {
	ProductID string `json:"productID"`
	Quantity  int64  `json:"quantity"`
	UnitPrice string `json:"unitPrice"`
}

// KafkaOrderPublisher writes order events to a single topic, partitioned by
// order ID so one order's events stay in sequence.
type KafkaOrderPublisher struct {
	writer *kafka.Writer
	topic  string
}

// NewKafkaOrderPublisher creates a publisher for the given brokers and topic.
func NewKafkaOrderPublisher(brokers []string, topic string) (*KafkaOrderPublisher, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka publisher requires at least one broker")
	}
	return &KafkaOrderPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			RequiredAcks: kafka.RequireAll,
			Balancer:     &kafka.Hash{},
		},
		topic: topic,
	}, nil
}

var _ portssvc.OrderEventPublisher = (*KafkaOrderPublisher)(nil)

func (p *KafkaOrderPublisher) OrderCreated(ctx context.Context, order *domain.Order, items []domain.OrderItem) error {
	evt := orderEvent{
		EventType:   EventOrderCreated,
		OrderID:     order.OrderID,
		UserID:      order.UserID,
		Status:      string(order.Status),
		TotalAmount: order.TotalAmount.String(),
		OccurredAt:  time.Now().UTC(),
	}
	for _, item := range items {
		evt.Items = append(evt.Items, orderEventItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice.String(),
		})
	}
	return p.publish(ctx, evt)
}

func (p *KafkaOrderPublisher) OrderCancelled(ctx context.Context, order *domain.Order) error {
	return p.publish(ctx, orderEvent{
		EventType:   EventOrderCancelled,
		OrderID:     order.OrderID,
		UserID:      order.UserID,
		Status:      string(order.Status),
		TotalAmount: order.TotalAmount.String(),
		OccurredAt:  time.Now().UTC(),
	})
}

func (p *KafkaOrderPublisher) publish(ctx context.Context, evt orderEvent) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal order event: %w", err)
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(evt.OrderID),
		Value: payload,
		Time:  evt.OccurredAt,
	})
}

func (p *KafkaOrderPublisher) Close() error {
	return p.writer.Close()
}

// NoopOrderPublisher is used when no brokers are configured.
type NoopOrderPublisher struct{}

var _ portssvc.OrderEventPublisher = (*NoopOrderPublisher)(nil)

func (NoopOrderPublisher) OrderCreated(ctx context.Context, order *domain.Order, items []domain.OrderItem) error {
	return nil
}

func (NoopOrderPublisher) OrderCancelled(ctx context.Context, order *domain.Order) error {
	return nil
}

func (NoopOrderPublisher) Close() error { return nil }
