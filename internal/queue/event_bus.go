package queue

import (
	"context"

	"league-core/internal/model"
)

type Delivery struct {
	Data *model.LeagueEvent
	Ack  func()
	Nack func(requeue bool)
}

// EventBus 交易提交後才發布 league event，訂閱端自行 Ack / Nack
type EventBus interface {
	Publish(ctx context.Context, event *model.LeagueEvent) error
	Subscribe(ctx context.Context) (<-chan Delivery, error)
}

// NopEventBus 不需要事件的呼叫端（例如單元測試、批次工具）使用
type NopEventBus struct{}

func (NopEventBus) Publish(ctx context.Context, event *model.LeagueEvent) error {
	return nil
}

func (NopEventBus) Subscribe(ctx context.Context) (<-chan Delivery, error) {
	out := make(chan Delivery)
	go func() {
		<-ctx.Done()
		close(out)
	}()
	return out, nil
}

type MemoryEventBus struct {
	// 使用 Go channel 來模擬 MQ
	ch chan *model.LeagueEvent
}

func NewMemoryEventBus(bufferSize int) EventBus {
	return &MemoryEventBus{
		ch: make(chan *model.LeagueEvent, bufferSize),
	}
}

func (b *MemoryEventBus) Publish(ctx context.Context, event *model.LeagueEvent) error {
	select {
	case b.ch <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (b *MemoryEventBus) Subscribe(ctx context.Context) (<-chan Delivery, error) {
	out := make(chan Delivery)

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-b.ch:
				if !ok {
					return
				}

				d := Delivery{
					Data: event,
					Ack:  func() {},
					Nack: func(requeue bool) {
						if requeue {
							// 放回 buffer；滿了就丟棄，避免卡住訂閱 goroutine
							select {
							case b.ch <- event:
							default:
							}
						}
					},
				}
				select {
				case out <- d:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}
