package repository

import (
	"context"
	"fmt"
	"time"

	"league-core/internal/model"
	apperrors "league-core/pkg/app_errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SaleRepository interface {
	FindByID(ctx context.Context, id int) (*model.SaleRecord, error)
	ListActiveSeatIDs(ctx context.Context, eventID int) ([]int, error)
	IsSeatSold(ctx context.Context, eventID int, seatID int) (bool, error)

	// Transaction methods
	ExistsActive(ctx context.Context, tx pgx.Tx, eventID int, seatID int) (bool, error)
	Create(ctx context.Context, tx pgx.Tx, sale *model.SaleRecord) (*model.SaleRecord, error)
	FindByIDWithLock(ctx context.Context, tx pgx.Tx, id int) (*model.SaleRecord, error)
	MarkRefunded(ctx context.Context, tx pgx.Tx, id int, refundedAt time.Time) error
}

type SaleRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewSaleRepository(pool *pgxpool.Pool) SaleRepository {
	return &SaleRepositoryImpl{
		pool: pool,
	}
}

const saleColumns = `
	id, seat_id, event_id, customer_id, match_id, ticket_id, quantity,
	unit_price, total_price, sale_datetime, sale_status, refund_datetime
`

func scanSale(row pgx.Row) (*model.SaleRecord, error) {
	var sale model.SaleRecord
	err := row.Scan(
		&sale.ID,
		&sale.SeatID,
		&sale.EventID,
		&sale.CustomerID,
		&sale.MatchID,
		&sale.TicketID,
		&sale.Quantity,
		&sale.UnitPrice,
		&sale.TotalPrice,
		&sale.SoldAt,
		&sale.Status,
		&sale.RefundedAt,
	)
	if err != nil {
		return nil, mapError(err, apperrors.ErrSaleNotFound)
	}
	return &sale, nil
}

func (r *SaleRepositoryImpl) FindByID(ctx context.Context, id int) (*model.SaleRecord, error) {
	query := `SELECT ` + saleColumns + ` FROM seat_and_ticket WHERE id = $1`
	return scanSale(r.pool.QueryRow(ctx, query, id))
}

// ListActiveSeatIDs 未加鎖的快照，只給查詢畫面用
func (r *SaleRepositoryImpl) ListActiveSeatIDs(ctx context.Context, eventID int) ([]int, error) {
	query := `
		SELECT seat_id
		FROM seat_and_ticket
		WHERE event_id = $1 AND sale_status = $2
		ORDER BY seat_id
	`

	rows, err := r.pool.Query(ctx, query, eventID, model.SaleStatusSold)
	if err != nil {
		return nil, mapError(err, nil)
	}
	defer rows.Close()

	seatIDs := make([]int, 0)
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, mapError(err, nil)
		}
		seatIDs = append(seatIDs, id)
	}

	if err := rows.Err(); err != nil {
		return nil, mapError(err, nil)
	}

	return seatIDs, nil
}

const activeSaleExistsQuery = `
	SELECT EXISTS (
		SELECT 1 FROM seat_and_ticket
		WHERE event_id = $1 AND seat_id = $2 AND sale_status = $3
	)
`

// IsSeatSold 未加鎖的讀取，投影更新快取前用來確認目前狀態
func (r *SaleRepositoryImpl) IsSeatSold(ctx context.Context, eventID int, seatID int) (bool, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx, activeSaleExistsQuery, eventID, seatID, model.SaleStatusSold).Scan(&exists); err != nil {
		return false, mapError(err, nil)
	}
	return exists, nil
}

// ExistsActive 必須在已鎖定 seat 的交易內呼叫
func (r *SaleRepositoryImpl) ExistsActive(ctx context.Context, tx pgx.Tx, eventID int, seatID int) (bool, error) {
	var exists bool
	if err := tx.QueryRow(ctx, activeSaleExistsQuery, eventID, seatID, model.SaleStatusSold).Scan(&exists); err != nil {
		return false, mapError(err, nil)
	}
	return exists, nil
}

func (r *SaleRepositoryImpl) Create(ctx context.Context, tx pgx.Tx, sale *model.SaleRecord) (*model.SaleRecord, error) {
	query := `
		INSERT INTO seat_and_ticket (
			seat_id, event_id, customer_id, match_id, ticket_id, quantity,
			unit_price, total_price, sale_datetime, sale_status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`

	// NUMERIC 以字串傳遞，避免浮點誤差
	err := tx.QueryRow(ctx, query,
		sale.SeatID, sale.EventID, sale.CustomerID, sale.MatchID, sale.TicketID, sale.Quantity,
		sale.UnitPrice.String(), sale.TotalPrice.String(), sale.SoldAt, sale.Status,
	).Scan(&sale.ID)

	if err != nil {
		return nil, fmt.Errorf("failed to create sale record: %w", mapError(err, nil))
	}

	return sale, nil
}

func (r *SaleRepositoryImpl) FindByIDWithLock(ctx context.Context, tx pgx.Tx, id int) (*model.SaleRecord, error) {
	query := `SELECT ` + saleColumns + ` FROM seat_and_ticket WHERE id = $1 FOR UPDATE`
	return scanSale(tx.QueryRow(ctx, query, id))
}

// MarkRefunded Sold -> Refunded 單向轉換，已退票則回傳 ErrAlreadyRefunded
func (r *SaleRepositoryImpl) MarkRefunded(ctx context.Context, tx pgx.Tx, id int, refundedAt time.Time) error {
	query := `
		UPDATE seat_and_ticket
		SET sale_status = $1, refund_datetime = $2
		WHERE id = $3 AND sale_status = $4
	`

	result, err := tx.Exec(ctx, query, model.SaleStatusRefunded, refundedAt, id, model.SaleStatusSold)
	if err != nil {
		return mapError(err, nil)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrAlreadyRefunded
	}

	return nil
}

type RefundAuditRepository interface {
	CountBySaleID(ctx context.Context, saleID int) (int, error)

	// Transaction methods
	Create(ctx context.Context, tx pgx.Tx, audit *model.RefundAudit) (*model.RefundAudit, error)
}

type RefundAuditRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewRefundAuditRepository(pool *pgxpool.Pool) RefundAuditRepository {
	return &RefundAuditRepositoryImpl{
		pool: pool,
	}
}

func (r *RefundAuditRepositoryImpl) CountBySaleID(ctx context.Context, saleID int) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM ticket_refund_audit WHERE sale_id = $1`, saleID).Scan(&count)
	if err != nil {
		return 0, mapError(err, nil)
	}
	return count, nil
}

func (r *RefundAuditRepositoryImpl) Create(ctx context.Context, tx pgx.Tx, audit *model.RefundAudit) (*model.RefundAudit, error) {
	query := `
		INSERT INTO ticket_refund_audit (sale_id, refund_amount, refund_datetime, reason, processed_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := tx.QueryRow(ctx, query,
		audit.SaleID, audit.RefundAmount.String(), audit.RefundedAt, audit.Reason, audit.ProcessedBy,
	).Scan(&audit.ID)

	if err != nil {
		return nil, fmt.Errorf("failed to create refund audit: %w", mapError(err, nil))
	}

	return audit, nil
}
