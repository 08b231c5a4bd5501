package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	cachemocks "league-core/internal/cache/mocks"
	"league-core/internal/model"
	"league-core/internal/queue"
	"league-core/internal/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func soldEvent(t *testing.T, eventID, seatID int) *model.LeagueEvent {
	t.Helper()
	e, err := model.NewLeagueEvent(model.LeagueEventTicketSold, time.Now(), model.PurchaseResult{
		SaleRecordID: 1,
		Event:        model.Event{ID: eventID},
		Seat:         model.Seat{ID: seatID},
	})
	require.NoError(t, err)
	return e
}

func refundedEvent(t *testing.T, eventID, seatID int) *model.LeagueEvent {
	t.Helper()
	e, err := model.NewLeagueEvent(model.LeagueEventTicketRefunded, time.Now(), model.RefundResult{
		SaleRecordID: 1,
		EventID:      eventID,
		SeatID:       seatID,
	})
	require.NoError(t, err)
	return e
}

func newTestWorker(bus queue.EventBus) (*ProjectionWorkerImpl, *cachemocks.SeatAvailabilityCacheMock, *mocks.SaleRepositoryMock) {
	seatCache := cachemocks.NewSeatAvailabilityCacheMock()
	saleRepo := mocks.NewSaleRepositoryMock()
	return NewProjectionWorker(bus, seatCache, saleRepo).(*ProjectionWorkerImpl), seatCache, saleRepo
}

func TestProjectionWorker_Handle(t *testing.T) {
	ctx := context.Background()

	t.Run("TicketSold", func(t *testing.T) {
		w, seatCache, saleRepo := newTestWorker(queue.NopEventBus{})
		saleRepo.On("IsSeatSold", ctx, 5, 12).Return(true, nil).Once()
		seatCache.On("MarkSold", ctx, 5, 12).Return(nil).Once()

		require.NoError(t, w.Handle(ctx, soldEvent(t, 5, 12)))
		seatCache.AssertExpectations(t)
	})

	t.Run("TicketRefunded", func(t *testing.T) {
		w, seatCache, saleRepo := newTestWorker(queue.NopEventBus{})
		saleRepo.On("IsSeatSold", ctx, 5, 12).Return(false, nil).Once()
		seatCache.On("MarkAvailable", ctx, 5, 12).Return(nil).Once()

		require.NoError(t, w.Handle(ctx, refundedEvent(t, 5, 12)))
		seatCache.AssertExpectations(t)
	})

	t.Run("StaleSoldFollowsDatabase", func(t *testing.T) {
		// 售票事件晚到，資料庫已經退票
		w, seatCache, saleRepo := newTestWorker(queue.NopEventBus{})
		saleRepo.On("IsSeatSold", ctx, 5, 12).Return(false, nil).Once()
		seatCache.On("MarkAvailable", ctx, 5, 12).Return(nil).Once()

		require.NoError(t, w.Handle(ctx, soldEvent(t, 5, 12)))
		seatCache.AssertNotCalled(t, "MarkSold", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("MatchCompletedIgnored", func(t *testing.T) {
		w, seatCache, saleRepo := newTestWorker(queue.NopEventBus{})

		e, err := model.NewLeagueEvent(model.LeagueEventMatchCompleted, time.Now(), model.MatchResult{MatchID: 7})
		require.NoError(t, err)

		require.NoError(t, w.Handle(ctx, e))
		saleRepo.AssertNotCalled(t, "IsSeatSold", mock.Anything, mock.Anything, mock.Anything)
		seatCache.AssertExpectations(t)
	})

	t.Run("Failed - CacheWriteInvalidates", func(t *testing.T) {
		w, seatCache, saleRepo := newTestWorker(queue.NopEventBus{})
		saleRepo.On("IsSeatSold", ctx, 5, 12).Return(true, nil).Once()
		seatCache.On("MarkSold", ctx, 5, 12).Return(errors.New("connection refused")).Once()
		seatCache.On("Invalidate", ctx, 5).Return(nil).Once()

		err := w.Handle(ctx, soldEvent(t, 5, 12))

		require.Error(t, err)
		assert.False(t, isMalformed(err))
		seatCache.AssertExpectations(t)
	})

	t.Run("Failed - DatabaseReadInvalidates", func(t *testing.T) {
		w, seatCache, saleRepo := newTestWorker(queue.NopEventBus{})
		saleRepo.On("IsSeatSold", ctx, 5, 12).Return(false, errors.New("pool closed")).Once()
		seatCache.On("Invalidate", ctx, 5).Return(nil).Once()

		require.Error(t, w.Handle(ctx, refundedEvent(t, 5, 12)))
		seatCache.AssertExpectations(t)
	})

	t.Run("Failed - MalformedPayload", func(t *testing.T) {
		w, seatCache, _ := newTestWorker(queue.NopEventBus{})

		err := w.Handle(ctx, &model.LeagueEvent{Type: model.LeagueEventTicketSold, Payload: json.RawMessage(`"oops"`)})

		require.Error(t, err)
		assert.True(t, isMalformed(err))
		seatCache.AssertNotCalled(t, "Invalidate", mock.Anything, mock.Anything)
	})
}

// fakeBus 單次投遞，記錄 Ack / Nack 結果
type fakeBus struct {
	events []*model.LeagueEvent

	mu      sync.Mutex
	acked   int
	nacked  []bool
	settled chan struct{}
}

func (b *fakeBus) Publish(ctx context.Context, event *model.LeagueEvent) error {
	return nil
}

func (b *fakeBus) Subscribe(ctx context.Context) (<-chan queue.Delivery, error) {
	out := make(chan queue.Delivery, len(b.events))
	for _, e := range b.events {
		out <- queue.Delivery{
			Data: e,
			Ack: func() {
				b.mu.Lock()
				b.acked++
				b.mu.Unlock()
				b.settled <- struct{}{}
			},
			Nack: func(requeue bool) {
				b.mu.Lock()
				b.nacked = append(b.nacked, requeue)
				b.mu.Unlock()
				b.settled <- struct{}{}
			},
		}
	}
	close(out)
	return out, nil
}

func TestProjectionWorker_Start(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	bus := &fakeBus{
		events: []*model.LeagueEvent{
			soldEvent(t, 5, 12),
			soldEvent(t, 5, 13),
			{Type: model.LeagueEventTicketSold, Payload: json.RawMessage(`{"event":`)},
		},
		settled: make(chan struct{}, 3),
	}
	seatCache := cachemocks.NewSeatAvailabilityCacheMock()
	saleRepo := mocks.NewSaleRepositoryMock()
	saleRepo.On("IsSeatSold", mock.Anything, 5, 12).Return(true, nil).Once()
	saleRepo.On("IsSeatSold", mock.Anything, 5, 13).Return(true, nil).Once()
	seatCache.On("MarkSold", mock.Anything, 5, 12).Return(nil).Once()
	seatCache.On("MarkSold", mock.Anything, 5, 13).Return(errors.New("connection refused")).Once()
	seatCache.On("Invalidate", mock.Anything, 5).Return(nil).Once()

	require.NoError(t, NewProjectionWorker(bus, seatCache, saleRepo).Start(ctx))
	for i := 0; i < 3; i++ {
		select {
		case <-bus.settled:
		case <-ctx.Done():
			t.Fatal("timeout waiting for deliveries")
		}
	}

	bus.mu.Lock()
	defer bus.mu.Unlock()
	assert.Equal(t, 1, bus.acked)
	// Redis 失敗 -> 重試；payload 壞掉 -> 丟棄
	assert.Equal(t, []bool{true, false}, bus.nacked)
}

// memorySeatCache 以 map 模擬座位快取，failNext 讓下一次寫入失敗
type memorySeatCache struct {
	cachemocks.SeatAvailabilityCacheMock

	mu          sync.Mutex
	sold        map[int]bool
	failNext    bool
	writes      int
	invalidated int
}

func (c *memorySeatCache) write(seatID int, sold bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writes++
	if c.failNext {
		c.failNext = false
		return errors.New("connection refused")
	}
	c.sold[seatID] = sold
	return nil
}

func (c *memorySeatCache) MarkSold(ctx context.Context, eventID int, seatID int) error {
	return c.write(seatID, true)
}

func (c *memorySeatCache) MarkAvailable(ctx context.Context, eventID int, seatID int) error {
	return c.write(seatID, false)
}

func (c *memorySeatCache) Invalidate(ctx context.Context, eventID int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated++
	return nil
}

func (c *memorySeatCache) snapshot() (writes int, invalidated int, sold bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.writes, c.invalidated, c.sold[12]
}

// 售票事件投影失敗被重送到退票事件之後，快取仍須與資料庫一致
func TestProjectionWorker_RedeliveredAfterRefund(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := queue.NewMemoryEventBus(8)
	require.NoError(t, bus.Publish(ctx, soldEvent(t, 5, 12)))
	require.NoError(t, bus.Publish(ctx, refundedEvent(t, 5, 12)))

	// 資料庫：售出後已退票
	saleRepo := mocks.NewSaleRepositoryMock()
	saleRepo.On("IsSeatSold", mock.Anything, 5, 12).Return(false, nil)
	seatCache := &memorySeatCache{sold: map[int]bool{12: true}, failNext: true}

	require.NoError(t, NewProjectionWorker(bus, seatCache, saleRepo).Start(ctx))

	// 失敗的 sold、refunded、重送的 sold
	assert.Eventually(t, func() bool {
		writes, _, _ := seatCache.snapshot()
		return writes >= 3
	}, 2*time.Second, 10*time.Millisecond)

	_, invalidated, sold := seatCache.snapshot()
	assert.False(t, sold)
	assert.Equal(t, 1, invalidated)
}
