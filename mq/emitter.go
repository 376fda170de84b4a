package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"

	"skouce/models"
)

// OrdersChannel carries order lifecycle events.
const OrdersChannel = "order-events"

// Emitter publishes order events to Redis pub/sub.
type Emitter struct {
	rdb redis.Cmdable
}

func NewEmitter(rdb redis.Cmdable) *Emitter {
	return &Emitter{rdb: rdb}
}

func orderEvent(o models.Order) models.OrderEvent {
	n := 0
	for _, li := range o.Items {
		n += li.Quantity
	}
	return models.OrderEvent{
		Type:      models.EventOrderConfirmed,
		OrderID:   o.OrderID,
		SessionID: o.SessionID,
		Total:     o.Breakdown.Total,
		Items:     n,
		Timestamp: o.CreatedAt.UnixMilli(),
	}
}

// OrderConfirmed publishes an order.confirmed event.
func (e *Emitter) OrderConfirmed(ctx context.Context, o models.Order) error {
	evt := orderEvent(o)
	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal order event: %w", err)
	}
	if err := e.rdb.Publish(ctx, OrdersChannel, data).Err(); err != nil {
		return fmt.Errorf("publish order event: %w", err)
	}
	log.Printf("[Emit] published %s order=%s to '%s'", evt.Type, evt.OrderID, OrdersChannel)
	return nil
}

// LogNotifier only logs; used when Redis is not configured.
type LogNotifier struct{}

func (LogNotifier) OrderConfirmed(_ context.Context, o models.Order) error {
	evt := orderEvent(o)
	log.Printf("[Emit] %s order=%s total=%d items=%d", evt.Type, evt.OrderID, evt.Total, evt.Items)
	return nil
}

// StartOrderWorker consumes order events until ctx is done.
func StartOrderWorker(ctx context.Context, rdb *redis.Client, handle func(models.OrderEvent)) {
	sub := rdb.Subscribe(ctx, OrdersChannel)
	defer sub.Close()
	ch := sub.Channel()

	log.Println("[OrderWorker] Listening for order events...")
	for {
		select {
		case <-ctx.Done():
			log.Println("[OrderWorker] stopped")
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			evt, err := decodeEvent(msg.Payload)
			if err != nil {
				log.Printf("[OrderWorker] Failed to parse event: %v", err)
				continue
			}
			handle(evt)
		}
	}
}

func decodeEvent(payload string) (models.OrderEvent, error) {
	var evt models.OrderEvent
	if err := json.Unmarshal([]byte(payload), &evt); err != nil {
		return evt, err
	}
	if evt.OrderID == "" {
		return evt, fmt.Errorf("order event without order id")
	}
	return evt, nil
}
