package repository

import (
	"context"
	"fmt"

	"league-core/internal/model"
	apperrors "league-core/pkg/app_errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TeamRepository interface {
	FindByID(ctx context.Context, id int) (*model.Team, error)

	// Transaction methods
	ApplyStandings(ctx context.Context, tx pgx.Tx, delta model.StandingsDelta) error
}

type TeamRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewTeamRepository(pool *pgxpool.Pool) TeamRepository {
	return &TeamRepositoryImpl{
		pool: pool,
	}
}

func (r *TeamRepositoryImpl) FindByID(ctx context.Context, id int) (*model.Team, error) {
	query := `
		SELECT id, name, standing_wins, standing_losses, total_games_played
		FROM team
		WHERE id = $1
	`

	var team model.Team
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&team.ID,
		&team.Name,
		&team.StandingWins,
		&team.StandingLosses,
		&team.TotalGamesPlayed,
	)
	if err != nil {
		return nil, mapError(err, apperrors.ErrTeamNotFound)
	}

	return &team, nil
}

// ApplyStandings 戰績只會增加
func (r *TeamRepositoryImpl) ApplyStandings(ctx context.Context, tx pgx.Tx, delta model.StandingsDelta) error {
	if delta.Wins < 0 || delta.Losses < 0 || delta.Games < 0 {
		return apperrors.ErrInvalidInput
	}

	query := `
		UPDATE team
		SET standing_wins = standing_wins + $1,
			standing_losses = standing_losses + $2,
			total_games_played = total_games_played + $3
		WHERE id = $4
	`

	result, err := tx.Exec(ctx, query, delta.Wins, delta.Losses, delta.Games, delta.TeamID)
	if err != nil {
		return mapError(err, nil)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("team %d: %w", delta.TeamID, apperrors.ErrTeamNotFound)
	}

	return nil
}

type PlayerRepository interface {
	FindByID(ctx context.Context, id int) (*model.Player, error)

	// Transaction methods
	AddPoints(ctx context.Context, tx pgx.Tx, deltas []model.PlayerPoints) error
}

type PlayerRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewPlayerRepository(pool *pgxpool.Pool) PlayerRepository {
	return &PlayerRepositoryImpl{
		pool: pool,
	}
}

func (r *PlayerRepositoryImpl) FindByID(ctx context.Context, id int) (*model.Player, error) {
	query := `
		SELECT id, team_id, name, individual_score
		FROM player
		WHERE id = $1
	`

	var player model.Player
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&player.ID,
		&player.TeamID,
		&player.Name,
		&player.IndividualScore,
	)
	if err != nil {
		return nil, mapError(err, apperrors.ErrPlayerNotFound)
	}

	return &player, nil
}

// AddPoints 用一個 batch 送出所有球員的得分更新
func (r *PlayerRepositoryImpl) AddPoints(ctx context.Context, tx pgx.Tx, deltas []model.PlayerPoints) error {
	if len(deltas) == 0 {
		return nil
	}

	query := `
		UPDATE player
		SET individual_score = individual_score + $1
		WHERE id = $2
	`

	batch := &pgx.Batch{}
	for _, d := range deltas {
		batch.Queue(query, d.PointsEarned, d.PlayerID)
	}

	br := tx.SendBatch(ctx, batch)
	defer br.Close()

	for _, d := range deltas {
		result, err := br.Exec()
		if err != nil {
			return mapError(err, nil)
		}
		if result.RowsAffected() == 0 {
			return fmt.Errorf("player %d: %w", d.PlayerID, apperrors.ErrPlayerNotFound)
		}
	}

	return nil
}
