package service_test

import (
	"context"
	"sync"
	"time"

	"league-core/internal/model"
	"league-core/internal/queue"
)

var (
	// 2024-01-01 10:00 UTC，活動 18:00 開始
	fixedNow   = time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	eventStart = time.Date(2024, 1, 1, 18, 0, 0, 0, time.UTC)
)

func fixedClock() time.Time {
	return fixedNow
}

// recordingBus 記錄發布的事件，可注入失敗
type recordingBus struct {
	mu     sync.Mutex
	events []*model.LeagueEvent
	err    error
}

func (b *recordingBus) Publish(ctx context.Context, event *model.LeagueEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return b.err
	}
	b.events = append(b.events, event)
	return nil
}

func (b *recordingBus) Subscribe(ctx context.Context) (<-chan queue.Delivery, error) {
	return nil, nil
}

func (b *recordingBus) published() []*model.LeagueEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]*model.LeagueEvent(nil), b.events...)
}

func intPtr(v int) *int {
	return &v
}
