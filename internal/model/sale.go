package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleStatus 售票紀錄狀態
type SaleStatus string

const (
	SaleStatusSold     SaleStatus = "Sold"
	SaleStatusRefunded SaleStatus = "Refunded"
)

// CanTransitionTo 檢查是否可以轉換到目標狀態（Sold -> Refunded 單向）
func (s SaleStatus) CanTransitionTo(target SaleStatus) bool {
	transitions := map[SaleStatus][]SaleStatus{
		SaleStatusSold:     {SaleStatusRefunded},
		SaleStatusRefunded: {}, // 不能轉換到任何狀態
	}

	for _, status := range transitions[s] {
		if status == target {
			return true
		}
	}
	return false
}

// SaleRecord 售票紀錄（seat_and_ticket）
type SaleRecord struct {
	ID         int             `json:"id" db:"id"`
	SeatID     int             `json:"seat_id" db:"seat_id"`
	EventID    int             `json:"event_id" db:"event_id"`
	CustomerID int             `json:"customer_id" db:"customer_id"`
	MatchID    *int            `json:"match_id,omitempty" db:"match_id"`
	TicketID   int             `json:"ticket_id" db:"ticket_id"`
	Quantity   int             `json:"quantity" db:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price" db:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price" db:"total_price"`
	SoldAt     time.Time       `json:"sale_datetime" db:"sale_datetime"`
	Status     SaleStatus      `json:"sale_status" db:"sale_status"`
	RefundedAt *time.Time      `json:"refund_datetime,omitempty" db:"refund_datetime"`
}

// RefundAudit 退票稽核紀錄，只新增不修改
type RefundAudit struct {
	ID           int             `json:"id" db:"id"`
	SaleID       int             `json:"sale_id" db:"sale_id"`
	RefundAmount decimal.Decimal `json:"refund_amount" db:"refund_amount"`
	RefundedAt   time.Time       `json:"refund_datetime" db:"refund_datetime"`
	Reason       string          `json:"reason" db:"reason"`
	ProcessedBy  string          `json:"processed_by" db:"processed_by"`
}
