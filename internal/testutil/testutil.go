package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"league-core/config"
	"league-core/internal/database"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// SetupPostgres 連線測試資料庫並建立 schema，連不上時 skip（單元測試不需要 DB）
func SetupPostgres(t testing.TB) *pgxpool.Pool {
	t.Helper()
	cfg := config.LoadTestConfig()

	pool, err := database.InitDatabase(&cfg.Database)
	if err != nil {
		t.Skipf("test database unavailable: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := database.Migrate(context.Background(), pool); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	Truncate(t, pool)
	return pool
}

// TxManager 使用測試設定的 lock timeout
func TxManager(pool *pgxpool.Pool) database.TxManager {
	return database.NewTxManager(pool, config.LoadTestConfig().Database.LockTimeout)
}

// Truncate 清空所有資料表，保留 schema
func Truncate(t testing.TB, pool *pgxpool.Pool) {
	t.Helper()
	_, err := pool.Exec(context.Background(), `
		TRUNCATE ticket_refund_audit, seat_and_ticket, customer, seat, ticket,
			player, match_team, team, match, event
		RESTART IDENTITY CASCADE`)
	if err != nil {
		t.Fatalf("failed to truncate tables: %v", err)
	}
}

// SetupRedis 僅初始化 Redis，用於只依賴 Redis 的整合測試
func SetupRedis(t testing.TB) *redis.Client {
	t.Helper()
	cfg := config.LoadTestConfig()

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		t.Skipf("test redis unavailable: %v", err)
	}
	t.Cleanup(func() { _ = rdb.Close() })

	if err := rdb.FlushDB(context.Background()).Err(); err != nil {
		t.Fatalf("failed to flush test redis: %v", err)
	}
	return rdb
}

// CreateEvent 建立在 day 當天 18:00-21:00（UTC）舉行的活動
func CreateEvent(t testing.TB, pool *pgxpool.Pool, name string, day time.Time, status string) int {
	t.Helper()
	var id int
	err := pool.QueryRow(context.Background(), `
		INSERT INTO event (name, sport, match_date, event_time_start, event_time_end, venue, capacity, status)
		VALUES ($1, 'football', $2::date, '18:00', '21:00', 'Main Arena', 500, $3)
		RETURNING id`,
		name, day.UTC().Format("2006-01-02"), status,
	).Scan(&id)
	if err != nil {
		t.Fatalf("failed to create event: %v", err)
	}
	return id
}

// CreateSeat 建立座位與對應的票價等級；overridePrice 為空字串時不設定
func CreateSeat(t testing.TB, pool *pgxpool.Pool, defaultPrice string, overridePrice string) int {
	t.Helper()
	ctx := context.Background()

	var override interface{}
	if overridePrice != "" {
		override = overridePrice
	}
	var ticketID int
	err := pool.QueryRow(ctx, `
		INSERT INTO ticket (name, default_price, override_price)
		VALUES ('General', $1::numeric, $2::numeric)
		RETURNING id`,
		defaultPrice, override,
	).Scan(&ticketID)
	if err != nil {
		t.Fatalf("failed to create ticket tier: %v", err)
	}

	var seatID int
	err = pool.QueryRow(ctx, `
		INSERT INTO seat (seat_type, venue, ticket_id)
		VALUES ('Standard', 'Main Arena', $1)
		RETURNING id`,
		ticketID,
	).Scan(&seatID)
	if err != nil {
		t.Fatalf("failed to create seat: %v", err)
	}
	return seatID
}

func CreateCustomer(t testing.TB, pool *pgxpool.Pool, email string) int {
	t.Helper()
	var id int
	err := pool.QueryRow(context.Background(), `
		INSERT INTO customer (first_name, last_name, email)
		VALUES ('Test', 'Customer', $1)
		RETURNING id`,
		email,
	).Scan(&id)
	if err != nil {
		t.Fatalf("failed to create customer: %v", err)
	}
	return id
}

// MatchFixture 一場排定的比賽與主客兩隊
type MatchFixture struct {
	MatchID    int
	HomeTeamID int
	AwayTeamID int
}

// CreateMatch 在 eventID 底下建立一場 Scheduled 比賽，主客隊伍一併建立
func CreateMatch(t testing.TB, pool *pgxpool.Pool, eventID int, startsAt time.Time) MatchFixture {
	t.Helper()
	ctx := context.Background()
	var f MatchFixture

	err := pool.QueryRow(ctx, `
		INSERT INTO match (event_id, match_type, start_time, end_time)
		VALUES ($1, 'league', $2, $3)
		RETURNING id`,
		eventID, startsAt, startsAt.Add(2*time.Hour),
	).Scan(&f.MatchID)
	if err != nil {
		t.Fatalf("failed to create match: %v", err)
	}

	f.HomeTeamID = createTeam(t, pool, fmt.Sprintf("Home %d", f.MatchID))
	f.AwayTeamID = createTeam(t, pool, fmt.Sprintf("Away %d", f.MatchID))

	for teamID, isHome := range map[int]bool{f.HomeTeamID: true, f.AwayTeamID: false} {
		_, err := pool.Exec(ctx,
			`INSERT INTO match_team (match_id, team_id, is_home) VALUES ($1, $2, $3)`,
			f.MatchID, teamID, isHome,
		)
		if err != nil {
			t.Fatalf("failed to create match team: %v", err)
		}
	}
	return f
}

func createTeam(t testing.TB, pool *pgxpool.Pool, name string) int {
	t.Helper()
	var id int
	err := pool.QueryRow(context.Background(),
		`INSERT INTO team (name) VALUES ($1) RETURNING id`, name,
	).Scan(&id)
	if err != nil {
		t.Fatalf("failed to create team: %v", err)
	}
	return id
}

func CreatePlayer(t testing.TB, pool *pgxpool.Pool, teamID int, name string) int {
	t.Helper()
	var id int
	err := pool.QueryRow(context.Background(),
		`INSERT INTO player (team_id, name) VALUES ($1, $2) RETURNING id`, teamID, name,
	).Scan(&id)
	if err != nil {
		t.Fatalf("failed to create player: %v", err)
	}
	return id
}
