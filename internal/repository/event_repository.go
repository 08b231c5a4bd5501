package repository

import (
	"context"

	"league-core/internal/model"
	apperrors "league-core/pkg/app_errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EventRepository interface {
	FindByID(ctx context.Context, id int) (*model.Event, error)

	// Transaction methods
	FindByIDWithLock(ctx context.Context, tx pgx.Tx, id int) (*model.Event, error)
}

type EventRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewEventRepository(pool *pgxpool.Pool) EventRepository {
	return &EventRepositoryImpl{
		pool: pool,
	}
}

// match_date / event_time_* 以 UTC 儲存；轉成 timestamptz 後與 match.start_time、售票時間比較，
// 不受連線 TimeZone 影響
const eventColumns = `
	id, name, sport, match_date,
	((match_date + event_time_start) AT TIME ZONE 'UTC') AS starts_at,
	((match_date + event_time_end) AT TIME ZONE 'UTC') AS ends_at,
	venue, capacity, status
`

func scanEvent(row pgx.Row) (*model.Event, error) {
	var event model.Event
	err := row.Scan(
		&event.ID,
		&event.Name,
		&event.Sport,
		&event.Date,
		&event.StartsAt,
		&event.EndsAt,
		&event.Venue,
		&event.Capacity,
		&event.Status,
	)
	if err != nil {
		return nil, mapError(err, apperrors.ErrEventNotFound)
	}
	return &event, nil
}

func (r *EventRepositoryImpl) FindByID(ctx context.Context, id int) (*model.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM event WHERE id = $1`
	return scanEvent(r.pool.QueryRow(ctx, query, id))
}

func (r *EventRepositoryImpl) FindByIDWithLock(ctx context.Context, tx pgx.Tx, id int) (*model.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM event WHERE id = $1 FOR UPDATE`
	return scanEvent(tx.QueryRow(ctx, query, id))
}
