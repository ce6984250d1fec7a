package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"kedai_pos_backend/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisEventPublisher(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	ctx := context.Background()

	sub := client.Subscribe(ctx, eventChannelPrefix+EventSaleCompleted, eventChannelAll)
	defer sub.Close()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)
	_, err = sub.Receive(ctx)
	require.NoError(t, err)

	sale := models.Sale{
		ID:            "sale-1",
		Timestamp:     time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC),
		Items:         []models.CartLine{{MenuItem: models.MenuItem{ID: "item-1", Name: "Kopi"}, Quantity: 2}},
		Total:         dec("4"),
		Profit:        dec("2"),
		PaymentMethod: models.PaymentEWallet,
	}
	require.NoError(t, NewRedisEventPublisher(client).PublishSale(ctx, newSaleEvent(sale)))

	channels := map[string]bool{}
	for i := 0; i < 2; i++ {
		select {
		case msg := <-sub.Channel():
			channels[msg.Channel] = true
			var event SaleEvent
			require.NoError(t, json.Unmarshal([]byte(msg.Payload), &event))
			assert.Equal(t, "sale-1", event.SaleID)
			assert.Equal(t, "4.00", event.Total)
			assert.Equal(t, 2, event.ItemCount)
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for event")
		}
	}
	assert.True(t, channels["pos:events:sale.completed"])
	assert.True(t, channels["pos:events:all"])
}

func TestRedisEventPublisherUnavailable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	client := redis.NewClient(&redis.Options{Addr: addr, MaxRetries: -1})
	defer client.Close()

	err = NewRedisEventPublisher(client).PublishSale(context.Background(), SaleEvent{EventType: EventSaleCompleted})
	assert.Error(t, err)
}
