package model

import (
	"fmt"
	"sort"
	"strings"
	"time"

	apperrors "league-core/pkg/app_errors"
)

// PlayerPoints 單一球員在本場的得分增量
type PlayerPoints struct {
	PlayerID     int `json:"player_id" binding:"required"`
	PointsEarned int `json:"points_earned"`
}

// RecordMatchResultRequest 登錄賽果請求
type RecordMatchResultRequest struct {
	MatchID       int            `json:"match_id"`
	HomeScore     int            `json:"home_score"`
	AwayScore     int            `json:"away_score"`
	ScoreSummary  string         `json:"score_summary"`
	ProcessedBy   string         `json:"processed_by"`
	PlayerUpdates []PlayerPoints `json:"player_updates"`
}

func (r RecordMatchResultRequest) Validate() error {
	if r.MatchID <= 0 {
		return apperrors.ErrInvalidInput
	}
	if r.HomeScore < 0 || r.AwayScore < 0 {
		return apperrors.ErrInvalidScore
	}
	for _, p := range r.PlayerUpdates {
		if p.PlayerID <= 0 {
			return apperrors.ErrInvalidInput
		}
		if p.PointsEarned < 0 {
			return apperrors.ErrInvalidPoints
		}
	}
	return nil
}

// PointDeltas 合併同一球員的多筆更新並略過 0 分，依 player id 排序（固定鎖定順序）
func (r RecordMatchResultRequest) PointDeltas() []PlayerPoints {
	totals := make(map[int]int)
	for _, p := range r.PlayerUpdates {
		if p.PointsEarned > 0 {
			totals[p.PlayerID] += p.PointsEarned
		}
	}

	deltas := make([]PlayerPoints, 0, len(totals))
	for id, points := range totals {
		deltas = append(deltas, PlayerPoints{PlayerID: id, PointsEarned: points})
	}
	sort.Slice(deltas, func(i, j int) bool { return deltas[i].PlayerID < deltas[j].PlayerID })
	return deltas
}

// SummaryAt 沒有提供 summary 時產生預設文字
func (r RecordMatchResultRequest) SummaryAt(now time.Time) string {
	if s := strings.TrimSpace(r.ScoreSummary); s != "" {
		return s
	}
	return fmt.Sprintf("Updated by %s on %s", r.Processor(), now.Format("2006-01-02 15:04:05"))
}

// Processor 未填寫時視為 system
func (r RecordMatchResultRequest) Processor() string {
	if by := strings.TrimSpace(r.ProcessedBy); by != "" {
		return by
	}
	return "system"
}

// Outcome 比賽勝負結果
type Outcome struct {
	WinningTeamID *int
	LosingTeamID  *int
	Tie           bool
	// Deltas 依 team id 排序，更新 team 時依此順序加鎖
	Deltas []StandingsDelta
}

// DecideOutcome 同分為和局，只增加雙方出賽數；否則高分者勝
func DecideOutcome(homeTeamID, awayTeamID, homeScore, awayScore int) Outcome {
	var out Outcome
	switch {
	case homeScore == awayScore:
		out.Tie = true
		out.Deltas = []StandingsDelta{
			{TeamID: homeTeamID, Games: 1},
			{TeamID: awayTeamID, Games: 1},
		}
	default:
		winner, loser := homeTeamID, awayTeamID
		if awayScore > homeScore {
			winner, loser = awayTeamID, homeTeamID
		}
		out.WinningTeamID = &winner
		out.LosingTeamID = &loser
		out.Deltas = []StandingsDelta{
			{TeamID: winner, Wins: 1, Games: 1},
			{TeamID: loser, Losses: 1, Games: 1},
		}
	}
	sort.Slice(out.Deltas, func(i, j int) bool { return out.Deltas[i].TeamID < out.Deltas[j].TeamID })
	return out
}

// MatchResult 賽果登錄成功後的快照
type MatchResult struct {
	MatchID            int       `json:"match_id"`
	HomeTeamID         int       `json:"home_team_id"`
	AwayTeamID         int       `json:"away_team_id"`
	HomeScore          int       `json:"home_score"`
	AwayScore          int       `json:"away_score"`
	WinningTeamID      *int      `json:"winning_team_id,omitempty"`
	LosingTeamID       *int      `json:"losing_team_id,omitempty"`
	Tie                bool      `json:"tie"`
	ScoreSummary       string    `json:"score_summary"`
	ProcessedTimestamp time.Time `json:"processed_timestamp"`
	ProcessedBy        string    `json:"processed_by"`
}
