package model

import (
	"testing"
	"time"

	apperrors "league-core/pkg/app_errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecideOutcome(t *testing.T) {
	t.Run("HomeWins", func(t *testing.T) {
		out := DecideOutcome(7, 3, 2, 1)

		require.NotNil(t, out.WinningTeamID)
		require.NotNil(t, out.LosingTeamID)
		assert.Equal(t, 7, *out.WinningTeamID)
		assert.Equal(t, 3, *out.LosingTeamID)
		assert.False(t, out.Tie)
		// 依 team id 排序
		assert.Equal(t, []StandingsDelta{
			{TeamID: 3, Losses: 1, Games: 1},
			{TeamID: 7, Wins: 1, Games: 1},
		}, out.Deltas)
	})

	t.Run("AwayWins", func(t *testing.T) {
		out := DecideOutcome(1, 2, 0, 3)

		assert.Equal(t, 2, *out.WinningTeamID)
		assert.Equal(t, 1, *out.LosingTeamID)
		assert.Equal(t, []StandingsDelta{
			{TeamID: 1, Losses: 1, Games: 1},
			{TeamID: 2, Wins: 1, Games: 1},
		}, out.Deltas)
	})

	t.Run("Tie", func(t *testing.T) {
		out := DecideOutcome(5, 4, 2, 2)

		assert.True(t, out.Tie)
		assert.Nil(t, out.WinningTeamID)
		assert.Nil(t, out.LosingTeamID)
		assert.Equal(t, []StandingsDelta{
			{TeamID: 4, Games: 1},
			{TeamID: 5, Games: 1},
		}, out.Deltas)
	})

	t.Run("ScorelessTie", func(t *testing.T) {
		out := DecideOutcome(1, 2, 0, 0)

		assert.True(t, out.Tie)
	})
}

func TestRecordMatchResultRequest_Validate(t *testing.T) {
	tests := []struct {
		name string
		req  RecordMatchResultRequest
		want error
	}{
		{"Valid", RecordMatchResultRequest{MatchID: 1, HomeScore: 3, AwayScore: 0}, nil},
		{"MissingMatch", RecordMatchResultRequest{HomeScore: 1}, apperrors.ErrInvalidInput},
		{"NegativeScore", RecordMatchResultRequest{MatchID: 1, HomeScore: -1}, apperrors.ErrInvalidScore},
		{"NegativePoints", RecordMatchResultRequest{
			MatchID:       1,
			PlayerUpdates: []PlayerPoints{{PlayerID: 9, PointsEarned: -2}},
		}, apperrors.ErrInvalidPoints},
		{"BadPlayer", RecordMatchResultRequest{
			MatchID:       1,
			PlayerUpdates: []PlayerPoints{{PlayerID: 0, PointsEarned: 2}},
		}, apperrors.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestRecordMatchResultRequest_PointDeltas(t *testing.T) {
	req := RecordMatchResultRequest{
		MatchID: 1,
		PlayerUpdates: []PlayerPoints{
			{PlayerID: 12, PointsEarned: 2},
			{PlayerID: 4, PointsEarned: 0},
			{PlayerID: 8, PointsEarned: 1},
			{PlayerID: 12, PointsEarned: 3},
		},
	}

	assert.Equal(t, []PlayerPoints{
		{PlayerID: 8, PointsEarned: 1},
		{PlayerID: 12, PointsEarned: 5},
	}, req.PointDeltas())
	assert.Empty(t, RecordMatchResultRequest{MatchID: 1}.PointDeltas())
}

func TestRecordMatchResultRequest_SummaryAt(t *testing.T) {
	now := time.Date(2024, 3, 9, 21, 5, 0, 0, time.UTC)

	t.Run("Provided", func(t *testing.T) {
		req := RecordMatchResultRequest{ScoreSummary: "  2-1 after extra time "}

		assert.Equal(t, "2-1 after extra time", req.SummaryAt(now))
	})

	t.Run("Default", func(t *testing.T) {
		req := RecordMatchResultRequest{ProcessedBy: "referee01"}

		assert.Equal(t, "Updated by referee01 on 2024-03-09 21:05:00", req.SummaryAt(now))
	})

	t.Run("DefaultProcessor", func(t *testing.T) {
		req := RecordMatchResultRequest{ProcessedBy: "   "}

		assert.Equal(t, "system", req.Processor())
		assert.Equal(t, "Updated by system on 2024-03-09 21:05:00", req.SummaryAt(now))
	})
}
