package cache

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// SeatAvailabilityCache 每個活動已售出座位的 Redis 投影。
// 未加鎖、可能落後於資料庫，只給查詢畫面用；售票時仍以交易內的檢查為準。
// 每次 MarkSold / MarkAvailable 都會遞增版本號，Rebuild 只在版本未變時才標記為 warm。
type SeatAvailabilityCache interface {
	// 標記：座位已售出
	MarkSold(ctx context.Context, eventID int, seatID int) error
	// 標記：座位退票後可再售
	MarkAvailable(ctx context.Context, eventID int, seatID int) error
	IsSold(ctx context.Context, eventID int, seatID int) (bool, error)
	// 獲取：已售出座位；warm 為 false 表示尚未由資料庫重建過，結果不可信
	SoldSeats(ctx context.Context, eventID int) (seatIDs []int, warm bool, err error)
	// 版本號：重建前先讀取，傳給 Rebuild
	Version(ctx context.Context, eventID int) (int64, error)
	// 重建：以資料庫快照覆蓋 (使用Lua腳本確保原子性)；版本已變動則不寫入並回傳 false
	Rebuild(ctx context.Context, eventID int, seatIDs []int, version int64) (bool, error)
	// 作廢：移除 warm 標記，下一次查詢改讀資料庫
	Invalidate(ctx context.Context, eventID int) error
}

type RedisSeatAvailabilityCache struct {
	client *redis.Client
}

func NewSeatAvailabilityCache(client *redis.Client) SeatAvailabilityCache {
	return &RedisSeatAvailabilityCache{
		client: client,
	}
}

// 已售出座位 set 的 key
func soldSeatsKey(eventID int) string {
	return fmt.Sprintf("event:%d:sold_seats", eventID)
}

// 重建完成標記的 key
func warmKey(eventID int) string {
	return fmt.Sprintf("event:%d:sold_seats:warm", eventID)
}

func versionKey(eventID int) string {
	return fmt.Sprintf("event:%d:sold_seats:version", eventID)
}

// KEYS[1] = set, KEYS[2] = version; ARGV[1] = seat id
const markSoldScript = `
	redis.call('SADD', KEYS[1], ARGV[1])
	return redis.call('INCR', KEYS[2])
`

const markAvailableScript = `
	redis.call('SREM', KEYS[1], ARGV[1])
	return redis.call('INCR', KEYS[2])
`

func (c *RedisSeatAvailabilityCache) MarkSold(ctx context.Context, eventID int, seatID int) error {
	return c.client.Eval(ctx, markSoldScript, []string{soldSeatsKey(eventID), versionKey(eventID)}, seatID).Err()
}

func (c *RedisSeatAvailabilityCache) MarkAvailable(ctx context.Context, eventID int, seatID int) error {
	return c.client.Eval(ctx, markAvailableScript, []string{soldSeatsKey(eventID), versionKey(eventID)}, seatID).Err()
}

func (c *RedisSeatAvailabilityCache) IsSold(ctx context.Context, eventID int, seatID int) (bool, error) {
	return c.client.SIsMember(ctx, soldSeatsKey(eventID), seatID).Result()
}

func (c *RedisSeatAvailabilityCache) Invalidate(ctx context.Context, eventID int) error {
	return c.client.Del(ctx, warmKey(eventID)).Err()
}

func (c *RedisSeatAvailabilityCache) Version(ctx context.Context, eventID int) (int64, error) {
	v, err := c.client.Get(ctx, versionKey(eventID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

func (c *RedisSeatAvailabilityCache) SoldSeats(ctx context.Context, eventID int) ([]int, bool, error) {
	err := c.client.Get(ctx, warmKey(eventID)).Err()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	members, err := c.client.SMembers(ctx, soldSeatsKey(eventID)).Result()
	if err != nil {
		return nil, false, err
	}

	seatIDs := make([]int, 0, len(members))
	for _, m := range members {
		id, err := strconv.Atoi(m)
		if err != nil {
			return nil, false, fmt.Errorf("invalid seat id %q: %v", m, err)
		}
		seatIDs = append(seatIDs, id)
	}
	sort.Ints(seatIDs)

	return seatIDs, true, nil
}

// KEYS[1] = set, KEYS[2] = warm, KEYS[3] = version; ARGV[1] = 讀取快照前的版本，其餘為座位
const rebuildScript = `
	local current = tonumber(redis.call('GET', KEYS[3]) or '0')
	if current ~= tonumber(ARGV[1]) then
		return 0
	end
	redis.call('DEL', KEYS[1])
	for i = 2, #ARGV do
		redis.call('SADD', KEYS[1], ARGV[i])
	end
	redis.call('SET', KEYS[2], '1')
	return 1
`

func (c *RedisSeatAvailabilityCache) Rebuild(ctx context.Context, eventID int, seatIDs []int, version int64) (bool, error) {
	args := make([]interface{}, 0, len(seatIDs)+1)
	args = append(args, version)
	for _, id := range seatIDs {
		args = append(args, id)
	}

	keys := []string{soldSeatsKey(eventID), warmKey(eventID), versionKey(eventID)}
	applied, err := c.client.Eval(ctx, rebuildScript, keys, args...).Int()
	if err != nil {
		return false, err
	}
	return applied == 1, nil
}
