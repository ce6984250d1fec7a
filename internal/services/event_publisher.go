package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"kedai_pos_backend/internal/models"

	"github.com/go-redis/redis/v8"
)

const (
	EventSaleCompleted = "sale.completed"

	eventChannelPrefix = "pos:events:"
	eventChannelAll    = "pos:events:all"
)

// SaleEvent is published after a checkout commits.
type SaleEvent struct {
	EventType     string               `json:"event_type"`
	SaleID        string               `json:"sale_id"`
	Total         string               `json:"total"`
	Profit        string               `json:"profit"`
	PaymentMethod models.PaymentMethod `json:"payment_method"`
	ItemCount     int                  `json:"item_count"`
	Timestamp     time.Time            `json:"timestamp"`
	Sale          *models.Sale         `json:"sale,omitempty"`
}

// EventPublisher delivers sale events to interested listeners such as a kitchen display.
type EventPublisher interface {
	PublishSale(ctx context.Context, event SaleEvent) error
}

func newSaleEvent(sale models.Sale) SaleEvent {
	count := 0
	for _, l := range sale.Items {
		count += l.Quantity
	}
	return SaleEvent{
		EventType:     EventSaleCompleted,
		SaleID:        sale.ID,
		Total:         sale.Total.StringFixed(2),
		Profit:        sale.Profit.StringFixed(2),
		PaymentMethod: sale.PaymentMethod,
		ItemCount:     count,
		Timestamp:     sale.Timestamp,
		Sale:          &sale,
	}
}

type redisEventPublisher struct {
	redis *redis.Client
}

// NewRedisEventPublisher publishes on pos:events:<type> and pos:events:all.
func NewRedisEventPublisher(client *redis.Client) EventPublisher {
	return &redisEventPublisher{redis: client}
}

func (p *redisEventPublisher) PublishSale(ctx context.Context, event SaleEvent) error {
	eventJSON, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := p.redis.Publish(ctx, eventChannelPrefix+event.EventType, eventJSON).Err(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	if err := p.redis.Publish(ctx, eventChannelAll, eventJSON).Err(); err != nil {
		return fmt.Errorf("failed to publish to all channel: %w", err)
	}
	return nil
}

type noopEventPublisher struct{}

// NewNoopEventPublisher discards events.
func NewNoopEventPublisher() EventPublisher {
	return noopEventPublisher{}
}

func (noopEventPublisher) PublishSale(context.Context, SaleEvent) error { return nil }
