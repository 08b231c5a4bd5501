package service

import (
	"context"
	"time"

	"league-core/internal/model"
	"league-core/internal/queue"

	"go.uber.org/zap"
)

const publishTimeout = 3 * time.Second

type options struct {
	now func() time.Time
	bus queue.EventBus
}

type Option func(*options)

// WithClock 測試時固定「現在」時間
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithEventBus 交易提交後發布 league event；未設定則不發布
func WithEventBus(bus queue.EventBus) Option {
	return func(o *options) {
		o.bus = bus
	}
}

func buildOptions(opts []Option) options {
	o := options{
		now: time.Now,
		bus: queue.NopEventBus{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// publishEvent 只在 commit 之後呼叫；失敗只記錄，不影響已提交的結果
func publishEvent(ctx context.Context, bus queue.EventBus, log *zap.Logger, eventType model.LeagueEventType, at time.Time, payload interface{}) {
	event, err := model.NewLeagueEvent(eventType, at, payload)
	if err != nil {
		log.Warn("build league event failed", zap.String("type", string(eventType)), zap.Error(err))
		return
	}

	// 呼叫端取消請求時交易已經提交，事件仍要送出
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := bus.Publish(pubCtx, event); err != nil {
		log.Warn("publish league event failed",
			zap.String("type", string(eventType)),
			zap.String("event_id", event.ID.String()),
			zap.Error(err),
		)
	}
}
