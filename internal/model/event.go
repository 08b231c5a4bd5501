package model

import "time"

// EventStatus 活動狀態
type EventStatus string

const (
	EventStatusScheduled EventStatus = "Scheduled"
	EventStatusActive    EventStatus = "Active"
	EventStatusCompleted EventStatus = "Completed"
	EventStatusCancelled EventStatus = "Cancelled"
)

// Event 活動（一個活動底下可以有多場比賽）
type Event struct {
	ID       int         `json:"id" db:"id"`
	Name     string      `json:"name" db:"name"`
	Sport    string      `json:"sport" db:"sport"`
	Date     time.Time   `json:"match_date" db:"match_date"`
	StartsAt time.Time   `json:"starts_at" db:"-"`
	EndsAt   time.Time   `json:"ends_at" db:"-"`
	Venue    string      `json:"venue" db:"venue"`
	Capacity int         `json:"capacity" db:"capacity"`
	Status   EventStatus `json:"status" db:"status"`
}

// IsOpenForSaleAt 取消的活動不能售票，且售票時間必須早於開始時間
func (e *Event) IsOpenForSaleAt(at time.Time) bool {
	if e.Status == EventStatusCancelled {
		return false
	}
	return at.Before(e.StartsAt)
}
