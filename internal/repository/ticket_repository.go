package repository

import (
	"context"

	"league-core/internal/model"
	apperrors "league-core/pkg/app_errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type SeatRepository interface {
	FindByID(ctx context.Context, id int) (*model.Seat, error)

	// Transaction methods
	FindByIDWithLock(ctx context.Context, tx pgx.Tx, id int) (*model.Seat, error)
	UpdateStatus(ctx context.Context, tx pgx.Tx, id int, status model.SeatStatus) error
}

type SeatRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewSeatRepository(pool *pgxpool.Pool) SeatRepository {
	return &SeatRepositoryImpl{
		pool: pool,
	}
}

const seatWithTierColumns = `
	s.id, s.seat_type, s.venue, s.seat_status, s.ticket_id,
	t.id, t.name, t.default_price, t.override_price, t.ticket_status
`

func scanSeat(row pgx.Row) (*model.Seat, error) {
	var seat model.Seat
	var tier model.TicketTier
	var override decimal.NullDecimal

	err := row.Scan(
		&seat.ID,
		&seat.SeatType,
		&seat.Venue,
		&seat.Status,
		&seat.TicketID,
		&tier.ID,
		&tier.Name,
		&tier.DefaultPrice,
		&override,
		&tier.Status,
	)
	if err != nil {
		return nil, mapError(err, apperrors.ErrSeatNotFound)
	}

	if override.Valid {
		tier.OverridePrice = &override.Decimal
	}
	seat.Tier = &tier

	return &seat, nil
}

func (r *SeatRepositoryImpl) FindByID(ctx context.Context, id int) (*model.Seat, error) {
	query := `
		SELECT ` + seatWithTierColumns + `
		FROM seat s
		JOIN ticket t ON t.id = s.ticket_id
		WHERE s.id = $1
	`
	return scanSeat(r.pool.QueryRow(ctx, query, id))
}

// FindByIDWithLock 只鎖 seat，票價等級被很多座位共用，不能一起鎖
func (r *SeatRepositoryImpl) FindByIDWithLock(ctx context.Context, tx pgx.Tx, id int) (*model.Seat, error) {
	query := `
		SELECT ` + seatWithTierColumns + `
		FROM seat s
		JOIN ticket t ON t.id = s.ticket_id
		WHERE s.id = $1
		FOR UPDATE OF s
	`
	return scanSeat(tx.QueryRow(ctx, query, id))
}

func (r *SeatRepositoryImpl) UpdateStatus(ctx context.Context, tx pgx.Tx, id int, status model.SeatStatus) error {
	query := `
		UPDATE seat
		SET seat_status = $1
		WHERE id = $2
	`

	result, err := tx.Exec(ctx, query, status, id)
	if err != nil {
		return mapError(err, nil)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrSeatNotFound
	}

	return nil
}
