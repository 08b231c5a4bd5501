package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"league-core/internal/model"
	"league-core/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	StreamKey          = "league:events"
	ConsumerGroupName  = "league-projections"
	ConsumerNamePrefix = "projector"

	eventField = "event"
)

// RedisStreamConfig 可注入的逾時與重試設定；nil 或零值時使用預設。
type RedisStreamConfig struct {
	ClaimMinIdleTime   time.Duration // PEL 中超過此時間才被 XAUTOCLAIM 領取
	MaxRetryCount      int           // 超過此次數視為毒藥消息並丟棄
	ReadGroupBlockTime time.Duration // XReadGroup 阻塞時間
	MaxLen             int64         // stream 大約保留筆數，0 表示不修剪
}

func defaultRedisStreamConfig() RedisStreamConfig {
	return RedisStreamConfig{
		ClaimMinIdleTime:   5 * time.Second,
		MaxRetryCount:      5,
		ReadGroupBlockTime: 2 * time.Second,
		MaxLen:             100000,
	}
}

type RedisStreamEventBus struct {
	client       *redis.Client
	streamKey    string
	groupName    string
	consumerName string
	cfg          RedisStreamConfig
	log          *zap.Logger
}

// NewRedisStreamEventBus 建立 Redis Stream 版 EventBus。config 可為 nil，則使用預設逾時與重試次數。
func NewRedisStreamEventBus(ctx context.Context, client *redis.Client, consumerID string, config *RedisStreamConfig) (*RedisStreamEventBus, error) {
	if consumerID == "" {
		consumerID = uuid.New().String()
	}
	cfg := defaultRedisStreamConfig()
	if config != nil {
		if config.ClaimMinIdleTime > 0 {
			cfg.ClaimMinIdleTime = config.ClaimMinIdleTime
		}
		if config.MaxRetryCount > 0 {
			cfg.MaxRetryCount = config.MaxRetryCount
		}
		if config.ReadGroupBlockTime > 0 {
			cfg.ReadGroupBlockTime = config.ReadGroupBlockTime
		}
		if config.MaxLen > 0 {
			cfg.MaxLen = config.MaxLen
		}
	}
	b := &RedisStreamEventBus{
		client:       client,
		streamKey:    StreamKey,
		groupName:    ConsumerGroupName,
		consumerName: fmt.Sprintf("%s:%s", ConsumerNamePrefix, consumerID),
		cfg:          cfg,
		log:          logger.WithComponent("mq"),
	}
	if err := b.ensureConsumerGroup(ctx); err != nil {
		return nil, fmt.Errorf("ensure consumer group: %w", err)
	}
	return b, nil
}

func (b *RedisStreamEventBus) ensureConsumerGroup(ctx context.Context) error {
	err := b.client.XGroupCreateMkStream(ctx, b.streamKey, b.groupName, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return err
	}
	return nil
}

func (b *RedisStreamEventBus) Publish(ctx context.Context, event *model.LeagueEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal league event: %w", err)
	}
	args := &redis.XAddArgs{
		Stream: b.streamKey,
		ID:     "*",
		Values: map[string]interface{}{eventField: string(body)},
	}
	if b.cfg.MaxLen > 0 {
		args.MaxLen = b.cfg.MaxLen
		args.Approx = true
	}
	if err := b.client.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("xadd: %w", err)
	}
	return nil
}

func (b *RedisStreamEventBus) Subscribe(ctx context.Context) (<-chan Delivery, error) {
	out := make(chan Delivery)
	go func() {
		defer close(out)
		done := make(chan struct{})
		go func() {
			defer close(done)
			b.runAutoClaim(ctx, out)
		}()
		b.runReadLoop(ctx, out)
		<-done
	}()
	return out, nil
}

func (b *RedisStreamEventBus) runReadLoop(ctx context.Context, out chan<- Delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
			b.readAndDeliver(ctx, out)
		}
	}
}

// readAndDeliver 只讀 ">"（新訊息）；已投遞但未 Ack 的訊息留在 PEL，由 XAUTOCLAIM 超時後領回重試。
func (b *RedisStreamEventBus) readAndDeliver(ctx context.Context, out chan<- Delivery) {
	streams, err := b.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    b.groupName,
		Consumer: b.consumerName,
		Streams:  []string{b.streamKey, ">"},
		Count:    10,
		Block:    b.cfg.ReadGroupBlockTime,
	}).Result()

	if errors.Is(err, redis.Nil) {
		return
	}
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		b.log.Error("XReadGroup failed", zap.Error(err))
		select {
		case <-time.After(time.Second):
		case <-ctx.Done():
		}
		return
	}

	for _, stream := range streams {
		if stream.Stream != b.streamKey {
			continue
		}
		for _, msg := range stream.Messages {
			if !b.deliver(ctx, out, msg) {
				return
			}
		}
	}
}

// deliver 回傳 false 表示 ctx 已結束
func (b *RedisStreamEventBus) deliver(ctx context.Context, out chan<- Delivery, msg redis.XMessage) bool {
	d := b.newDelivery(ctx, msg)
	if d == nil {
		return true
	}
	select {
	case out <- *d:
		return true
	case <-ctx.Done():
		return false
	}
}

// shouldProcessMessage 檢查是否為毒藥消息
func (b *RedisStreamEventBus) shouldProcessMessage(ctx context.Context, messageID string) bool {
	n, err := b.getMessageRetryCount(ctx, messageID)
	if err != nil {
		b.log.Warn("getMessageRetryCount failed", zap.String("message_id", messageID), zap.Error(err))
		return true
	}
	if n >= b.cfg.MaxRetryCount {
		b.log.Warn("discard poison message",
			zap.String("message_id", messageID),
			zap.Int("retries", n),
			zap.Int("max_retries", b.cfg.MaxRetryCount),
		)
		_ = b.client.XAck(ctx, b.streamKey, b.groupName, messageID).Err()
		return false
	}
	return true
}

func (b *RedisStreamEventBus) getMessageRetryCount(ctx context.Context, messageID string) (int, error) {
	pending, err := b.client.XPendingExt(ctx, &redis.XPendingExtArgs{
		Stream: b.streamKey,
		Group:  b.groupName,
		Start:  messageID,
		End:    messageID,
		Count:  1,
	}).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, err
	}
	if len(pending) == 0 {
		return 0, nil
	}
	return int(pending[0].RetryCount), nil
}

// runAutoClaim 定時用 XAUTOCLAIM 領取超時未處理的消息
func (b *RedisStreamEventBus) runAutoClaim(ctx context.Context, out chan<- Delivery) {
	ticker := time.NewTicker(b.cfg.ClaimMinIdleTime)
	defer ticker.Stop()
	startID := "0-0"

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			claimed, nextID, err := b.client.XAutoClaim(ctx, &redis.XAutoClaimArgs{
				Stream:   b.streamKey,
				Group:    b.groupName,
				Consumer: b.consumerName,
				MinIdle:  b.cfg.ClaimMinIdleTime,
				Count:    10,
				Start:    startID,
			}).Result()

			if err != nil && !errors.Is(err, redis.Nil) {
				if ctx.Err() != nil {
					return
				}
				b.log.Error("XAutoClaim failed", zap.Error(err))
				continue
			}
			if nextID != "" {
				startID = nextID
			} else {
				startID = "0-0"
			}

			for _, msg := range claimed {
				if !b.shouldProcessMessage(ctx, msg.ID) {
					continue
				}
				if !b.deliver(ctx, out, msg) {
					return
				}
			}
		}
	}
}

// newDelivery 從 Redis 消息組裝 Delivery（含 Ack/Nack）；格式錯誤的訊息直接 Ack 掉
func (b *RedisStreamEventBus) newDelivery(ctx context.Context, msg redis.XMessage) *Delivery {
	msgID := msg.ID
	raw, ok := msg.Values[eventField].(string)
	if !ok {
		b.log.Warn("invalid message: missing event field", zap.String("message_id", msgID))
		_ = b.client.XAck(ctx, b.streamKey, b.groupName, msgID).Err()
		return nil
	}
	var event model.LeagueEvent
	if err := json.Unmarshal([]byte(raw), &event); err != nil {
		b.log.Warn("unmarshal league event failed", zap.String("message_id", msgID), zap.Error(err))
		_ = b.client.XAck(ctx, b.streamKey, b.groupName, msgID).Err()
		return nil
	}
	return &Delivery{
		Data: &event,
		Ack: func() {
			if err := b.client.XAck(ctx, b.streamKey, b.groupName, msgID).Err(); err != nil {
				b.log.Error("XAck failed", zap.String("message_id", msgID), zap.Error(err))
			}
		},
		Nack: func(requeue bool) {
			if requeue {
				// 消息留在 PEL，等 ClaimMinIdleTime 後由 XAUTOCLAIM 領取，形成延遲重試
				b.log.Info("message nack(requeue), will retry",
					zap.String("message_id", msgID),
					zap.Duration("claim_min_idle", b.cfg.ClaimMinIdleTime),
				)
				return
			}
			if err := b.client.XAck(ctx, b.streamKey, b.groupName, msgID).Err(); err != nil {
				b.log.Error("XAck discard failed", zap.String("message_id", msgID), zap.Error(err))
			}
		},
	}
}
