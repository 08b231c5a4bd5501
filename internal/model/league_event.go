package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// LeagueEventType 交易提交後對外發布的事件種類
type LeagueEventType string

const (
	LeagueEventTicketSold     LeagueEventType = "ticket.sold"
	LeagueEventTicketRefunded LeagueEventType = "ticket.refunded"
	LeagueEventMatchCompleted LeagueEventType = "match.completed"
)

// LeagueEvent 事件外層，Payload 為對應結果快照的 JSON
type LeagueEvent struct {
	ID         uuid.UUID       `json:"id"`
	Type       LeagueEventType `json:"type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

func NewLeagueEvent(eventType LeagueEventType, occurredAt time.Time, payload interface{}) (*LeagueEvent, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &LeagueEvent{
		ID:         uuid.New(),
		Type:       eventType,
		OccurredAt: occurredAt.UTC(),
		Payload:    body,
	}, nil
}

// RoutingKey 供 AMQP topic exchange 使用
func (e *LeagueEvent) RoutingKey() string {
	return string(e.Type)
}
