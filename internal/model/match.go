package model

import "time"

// MatchStatus 比賽狀態
type MatchStatus string

const (
	MatchStatusScheduled MatchStatus = "Scheduled"
	MatchStatusCompleted MatchStatus = "Completed"
	MatchStatusCancelled MatchStatus = "Cancelled"
	MatchStatusPostponed MatchStatus = "Postponed"
)

// Match 比賽
type Match struct {
	ID           int         `json:"id" db:"id"`
	EventID      int         `json:"event_id" db:"event_id"`
	MatchType    string      `json:"match_type" db:"match_type"`
	StartsAt     time.Time   `json:"starts_at" db:"start_time"`
	EndsAt       time.Time   `json:"ends_at" db:"end_time"`
	Status       MatchStatus `json:"status" db:"status"`
	ScoreSummary *string     `json:"score_summary,omitempty" db:"score_summary"`
}

// IsSellableFor 比賽必須屬於該活動且仍為 Scheduled
func (m *Match) IsSellableFor(eventID int) bool {
	return m.EventID == eventID && m.Status == MatchStatusScheduled
}

// MatchTeam 比賽與隊伍的關聯，(match_id, team_id) 為複合主鍵
type MatchTeam struct {
	MatchID   int  `json:"match_id" db:"match_id"`
	TeamID    int  `json:"team_id" db:"team_id"`
	IsHome    bool `json:"is_home" db:"is_home"`
	TeamScore *int `json:"team_score,omitempty" db:"team_score"`
}

// Team 隊伍戰績，計數器只會被賽果登錄往上加
type Team struct {
	ID               int    `json:"id" db:"id"`
	Name             string `json:"name" db:"name"`
	StandingWins     int    `json:"standing_wins" db:"standing_wins"`
	StandingLosses   int    `json:"standing_losses" db:"standing_losses"`
	TotalGamesPlayed int    `json:"total_games_played" db:"total_games_played"`
}

// Player 球員
type Player struct {
	ID              int    `json:"id" db:"id"`
	TeamID          int    `json:"team_id" db:"team_id"`
	Name            string `json:"name" db:"name"`
	IndividualScore int    `json:"individual_score" db:"individual_score"`
}

// StandingsDelta 一場比賽對單一隊伍戰績的增量
type StandingsDelta struct {
	TeamID int
	Wins   int
	Losses int
	Games  int
}
