package service

import (
	"context"
	"time"

	"league-core/internal/database"
	"league-core/internal/model"
	"league-core/internal/monitoring"
	"league-core/internal/queue"
	"league-core/internal/repository"
	apperrors "league-core/pkg/app_errors"
	"league-core/pkg/logger"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type MatchResultService interface {
	// 登錄賽果：比分、戰績、比賽狀態、球員得分在同一個交易內完成
	RecordResult(ctx context.Context, req model.RecordMatchResultRequest) (*model.MatchResult, error)
}

type MatchResultServiceImpl struct {
	txManager  database.TxManager
	matchRepo  repository.MatchRepository
	teamRepo   repository.TeamRepository
	playerRepo repository.PlayerRepository
	bus        queue.EventBus
	now        func() time.Time
	log        *zap.Logger
}

func NewMatchResultService(
	txManager database.TxManager,
	matchRepo repository.MatchRepository,
	teamRepo repository.TeamRepository,
	playerRepo repository.PlayerRepository,
	opts ...Option,
) MatchResultService {
	o := buildOptions(opts)
	return &MatchResultServiceImpl{
		txManager:  txManager,
		matchRepo:  matchRepo,
		teamRepo:   teamRepo,
		playerRepo: playerRepo,
		bus:        o.bus,
		now:        o.now,
		log:        logger.WithComponent("match-result"),
	}
}

func (s *MatchResultServiceImpl) RecordResult(ctx context.Context, req model.RecordMatchResultRequest) (result *model.MatchResult, err error) {
	defer monitoring.ObserveWorkflow(monitoring.OpRecordMatchResult, time.Now(), &err)

	if err = req.Validate(); err != nil {
		s.log.Warn("match result rejected", zap.Int("match_id", req.MatchID), zap.Error(err))
		return nil, err
	}
	pointDeltas := req.PointDeltas()

	err = s.txManager.WithTx(ctx, func(tx pgx.Tx) error {
		// 1. 鎖定比賽；已完成的比賽不能再登錄
		match, err := s.matchRepo.FindByIDWithLock(ctx, tx, req.MatchID)
		if err != nil {
			return err
		}
		if match.Status == model.MatchStatusCompleted {
			return apperrors.ErrMatchAlreadyCompleted
		}

		// 2. 鎖定雙方隊伍（依 team_id 順序）
		teams, err := s.matchRepo.ListTeamsWithLock(ctx, tx, match.ID)
		if err != nil {
			return err
		}
		home, away, err := splitSides(teams)
		if err != nil {
			return err
		}

		// 3. 比分
		if err := s.matchRepo.UpdateTeamScore(ctx, tx, match.ID, home.TeamID, req.HomeScore); err != nil {
			return err
		}
		if err := s.matchRepo.UpdateTeamScore(ctx, tx, match.ID, away.TeamID, req.AwayScore); err != nil {
			return err
		}

		// 4. 戰績
		outcome := model.DecideOutcome(home.TeamID, away.TeamID, req.HomeScore, req.AwayScore)
		for _, delta := range outcome.Deltas {
			if err := s.teamRepo.ApplyStandings(ctx, tx, delta); err != nil {
				return err
			}
		}

		// 5. 比賽狀態 -> Completed
		processedAt := s.now()
		summary := req.SummaryAt(processedAt)
		if err := s.matchRepo.MarkCompleted(ctx, tx, match.ID, summary); err != nil {
			return err
		}

		// 6. 球員得分（單一 batch）
		if err := s.playerRepo.AddPoints(ctx, tx, pointDeltas); err != nil {
			return err
		}

		result = &model.MatchResult{
			MatchID:            match.ID,
			HomeTeamID:         home.TeamID,
			AwayTeamID:         away.TeamID,
			HomeScore:          req.HomeScore,
			AwayScore:          req.AwayScore,
			WinningTeamID:      outcome.WinningTeamID,
			LosingTeamID:       outcome.LosingTeamID,
			Tie:                outcome.Tie,
			ScoreSummary:       summary,
			ProcessedTimestamp: processedAt,
			ProcessedBy:        req.Processor(),
		}
		return nil
	})
	if err != nil {
		s.log.Warn("match result rejected", zap.Int("match_id", req.MatchID), zap.Error(err))
		return nil, err
	}

	s.log.Info("match result recorded",
		zap.Int("match_id", result.MatchID),
		zap.Int("home_score", result.HomeScore),
		zap.Int("away_score", result.AwayScore),
		zap.Bool("tie", result.Tie),
		zap.Int("player_updates", len(pointDeltas)),
	)
	publishEvent(ctx, s.bus, s.log, model.LeagueEventMatchCompleted, result.ProcessedTimestamp, result)

	return result, nil
}

// splitSides 必須剛好兩隊，一主一客
func splitSides(teams []*model.MatchTeam) (home *model.MatchTeam, away *model.MatchTeam, err error) {
	if len(teams) != 2 {
		return nil, nil, apperrors.ErrIncompleteRoster
	}
	for _, t := range teams {
		if t.IsHome {
			home = t
		} else {
			away = t
		}
	}
	if home == nil || away == nil {
		return nil, nil, apperrors.ErrMissingSide
	}
	return home, away, nil
}
