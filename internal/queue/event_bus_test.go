package queue_test

import (
	"context"
	"testing"
	"time"

	"league-core/internal/model"
	"league-core/internal/queue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEvent(t *testing.T, eventType model.LeagueEventType) *model.LeagueEvent {
	t.Helper()
	evt, err := model.NewLeagueEvent(eventType, time.Now(), map[string]int{"seat_id": 11})
	require.NoError(t, err)
	return evt
}

func receive(t *testing.T, ch <-chan queue.Delivery) queue.Delivery {
	t.Helper()
	select {
	case d, ok := <-ch:
		require.True(t, ok, "delivery channel closed")
		return d
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for delivery")
	}
	return queue.Delivery{}
}

func TestMemoryEventBus(t *testing.T) {
	t.Run("PublishSubscribe", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		bus := queue.NewMemoryEventBus(4)
		evt := newEvent(t, model.LeagueEventTicketSold)

		require.NoError(t, bus.Publish(ctx, evt))
		ch, err := bus.Subscribe(ctx)
		require.NoError(t, err)

		d := receive(t, ch)
		assert.Equal(t, evt.ID, d.Data.ID)
		d.Ack()
	})

	t.Run("NackRequeue", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		bus := queue.NewMemoryEventBus(4)
		evt := newEvent(t, model.LeagueEventTicketRefunded)
		require.NoError(t, bus.Publish(ctx, evt))
		ch, err := bus.Subscribe(ctx)
		require.NoError(t, err)

		first := receive(t, ch)
		first.Nack(true)
		second := receive(t, ch)

		assert.Equal(t, evt.ID, second.Data.ID)
	})

	t.Run("PublishBlockedUntilCancel", func(t *testing.T) {
		bus := queue.NewMemoryEventBus(1)
		require.NoError(t, bus.Publish(context.Background(), newEvent(t, model.LeagueEventTicketSold)))

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		err := bus.Publish(ctx, newEvent(t, model.LeagueEventTicketSold))

		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("SubscribeClosesOnCancel", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		bus := queue.NewMemoryEventBus(1)
		ch, err := bus.Subscribe(ctx)
		require.NoError(t, err)

		cancel()

		select {
		case _, ok := <-ch:
			assert.False(t, ok)
		case <-time.After(time.Second):
			t.Fatal("channel not closed after cancel")
		}
	})
}

func TestNopEventBus(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	bus := queue.NopEventBus{}

	assert.NoError(t, bus.Publish(ctx, newEvent(t, model.LeagueEventMatchCompleted)))

	ch, err := bus.Subscribe(ctx)
	require.NoError(t, err)
	cancel()

	select {
	case _, ok := <-ch:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("channel not closed after cancel")
	}
}
