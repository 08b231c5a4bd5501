package model

import (
	"time"

	apperrors "league-core/pkg/app_errors"

	"github.com/shopspring/decimal"
)

// MaxTicketsPerSale 單筆售票數量上限
const MaxTicketsPerSale = 2

// PurchaseTicketRequest 購票請求
type PurchaseTicketRequest struct {
	EventID            int          `json:"event_id" binding:"required"`
	MatchID            *int         `json:"match_id,omitempty"`
	SeatID             int          `json:"seat_id" binding:"required"`
	Quantity           int          `json:"quantity"`
	ExistingCustomerID *int         `json:"customer_id,omitempty"`
	NewCustomer        *NewCustomer `json:"new_customer,omitempty"`

	// SaleTimestamp 未指定時使用當下時間
	SaleTimestamp *time.Time `json:"sale_timestamp,omitempty"`
	// PriceOverride 僅接受不使用，價格一律由座位的票價等級決定
	PriceOverride *decimal.Decimal `json:"price_override,omitempty"`
}

// Validate 只檢查請求本身，不需要讀資料庫
func (r PurchaseTicketRequest) Validate() error {
	if r.EventID <= 0 || r.SeatID <= 0 {
		return apperrors.ErrInvalidInput
	}
	if r.MatchID != nil && *r.MatchID <= 0 {
		return apperrors.ErrInvalidInput
	}
	if r.Quantity <= 0 || r.Quantity > MaxTicketsPerSale {
		return apperrors.ErrInvalidQuantity
	}
	if r.ExistingCustomerID != nil {
		if *r.ExistingCustomerID <= 0 {
			return apperrors.ErrInvalidInput
		}
		return nil
	}
	if r.NewCustomer == nil || !r.NewCustomer.HasContact() {
		return apperrors.ErrMissingContact
	}
	return nil
}

// PurchaseResult 購票成功後的快照
type PurchaseResult struct {
	SaleRecordID  int             `json:"sale_record_id"`
	CustomerID    int             `json:"customer_id"`
	Seat          Seat            `json:"seat"`
	Event         Event           `json:"event"`
	Match         *Match          `json:"match,omitempty"`
	Quantity      int             `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	TotalPrice    decimal.Decimal `json:"total_price"`
	SaleTimestamp time.Time       `json:"sale_timestamp"`
}

// RefundResult 退票成功後的快照
type RefundResult struct {
	SaleRecordID    int             `json:"sale_record_id"`
	CustomerID      int             `json:"customer_id"`
	SeatID          int             `json:"seat_id"`
	EventID         int             `json:"event_id"`
	MatchID         *int            `json:"match_id,omitempty"`
	RefundTimestamp time.Time       `json:"refund_timestamp"`
	AmountRefunded  decimal.Decimal `json:"amount_refunded"`
	Reason          string          `json:"reason"`
	ProcessedBy     string          `json:"processed_by"`
}
