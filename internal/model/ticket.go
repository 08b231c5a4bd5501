package model

import "github.com/shopspring/decimal"

// TicketTier 票價等級（General、VIP ...），多個座位共用
type TicketTier struct {
	ID            int              `json:"id" db:"id"`
	Name          string           `json:"name" db:"name"`
	DefaultPrice  decimal.Decimal  `json:"default_price" db:"default_price"`
	OverridePrice *decimal.Decimal `json:"override_price,omitempty" db:"override_price"`
	Status        string           `json:"status" db:"ticket_status"`
}

// EffectivePrice 有 override 就用 override，否則用 default
func (t *TicketTier) EffectivePrice() decimal.Decimal {
	if t.OverridePrice != nil {
		return *t.OverridePrice
	}
	return t.DefaultPrice
}

// SeatStatus 座位狀態
type SeatStatus string

const (
	SeatStatusAvailable SeatStatus = "Available"
	SeatStatusSold      SeatStatus = "Sold"
)

// Seat 座位，對應一個票價等級
type Seat struct {
	ID       int        `json:"id" db:"id"`
	SeatType string     `json:"seat_type" db:"seat_type"`
	Venue    string     `json:"venue" db:"venue"`
	Status   SeatStatus `json:"status" db:"seat_status"`
	TicketID int        `json:"ticket_id" db:"ticket_id"`

	Tier *TicketTier `json:"tier,omitempty" db:"-"`
}
