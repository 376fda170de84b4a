package mq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skouce/models"
	"skouce/rdx/rdxtest"
)

func sampleOrder() models.Order {
	return models.Order{
		OrderID:   "SK123456",
		SessionID: "s-1",
		Items: []models.LineItem{
			{ProductID: "1", Quantity: 2, PriceSnapshot: 100},
			{ProductID: "5", Quantity: 1, PriceSnapshot: 50},
		},
		Breakdown: models.PriceBreakdown{Total: 2486},
		CreatedAt: time.UnixMilli(1_700_000_000_000),
	}
}

func TestEmitterPublishesOrderEvent(t *testing.T) {
	rdb := rdxtest.New()
	require.NoError(t, NewEmitter(rdb).OrderConfirmed(context.Background(), sampleOrder()))

	msgs := rdb.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, OrdersChannel, msgs[0].Channel)

	var evt models.OrderEvent
	require.NoError(t, json.Unmarshal([]byte(msgs[0].Payload), &evt))
	assert.Equal(t, models.OrderEvent{
		Type:      models.EventOrderConfirmed,
		OrderID:   "SK123456",
		SessionID: "s-1",
		Total:     2486,
		Items:     3,
		Timestamp: 1_700_000_000_000,
	}, evt)
}

func TestEmitterReportsPublishFailure(t *testing.T) {
	rdb := rdxtest.New()
	rdb.Err = errors.New("redis down")
	assert.Error(t, NewEmitter(rdb).OrderConfirmed(context.Background(), sampleOrder()))
}

func TestDecodeEvent(t *testing.T) {
	evt, err := decodeEvent(`{"type":"order.confirmed","order_id":"SK1","total":10}`)
	require.NoError(t, err)
	assert.Equal(t, "SK1", evt.OrderID)

	_, err = decodeEvent(`{"type":"order.confirmed"}`)
	assert.Error(t, err)
	_, err = decodeEvent(`nope`)
	assert.Error(t, err)
}
