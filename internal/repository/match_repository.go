package repository

import (
	"context"
	"fmt"

	"league-core/internal/model"
	apperrors "league-core/pkg/app_errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type MatchRepository interface {
	FindByID(ctx context.Context, id int) (*model.Match, error)
	ListTeams(ctx context.Context, matchID int) ([]*model.MatchTeam, error)

	// Transaction methods
	FindByIDInTx(ctx context.Context, tx pgx.Tx, id int) (*model.Match, error)
	FindByIDWithLock(ctx context.Context, tx pgx.Tx, id int) (*model.Match, error)
	ListTeamsWithLock(ctx context.Context, tx pgx.Tx, matchID int) ([]*model.MatchTeam, error)
	UpdateTeamScore(ctx context.Context, tx pgx.Tx, matchID int, teamID int, score int) error
	MarkCompleted(ctx context.Context, tx pgx.Tx, id int, scoreSummary string) error
}

type MatchRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewMatchRepository(pool *pgxpool.Pool) MatchRepository {
	return &MatchRepositoryImpl{
		pool: pool,
	}
}

const matchColumns = `id, event_id, match_type, start_time, end_time, status, score_summary`

func scanMatch(row pgx.Row) (*model.Match, error) {
	var match model.Match
	err := row.Scan(
		&match.ID,
		&match.EventID,
		&match.MatchType,
		&match.StartsAt,
		&match.EndsAt,
		&match.Status,
		&match.ScoreSummary,
	)
	if err != nil {
		return nil, mapError(err, apperrors.ErrMatchNotFound)
	}
	return &match, nil
}

func (r *MatchRepositoryImpl) FindByID(ctx context.Context, id int) (*model.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM match WHERE id = $1`
	return scanMatch(r.pool.QueryRow(ctx, query, id))
}

func (r *MatchRepositoryImpl) FindByIDInTx(ctx context.Context, tx pgx.Tx, id int) (*model.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM match WHERE id = $1`
	return scanMatch(tx.QueryRow(ctx, query, id))
}

func (r *MatchRepositoryImpl) FindByIDWithLock(ctx context.Context, tx pgx.Tx, id int) (*model.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM match WHERE id = $1 FOR UPDATE`
	return scanMatch(tx.QueryRow(ctx, query, id))
}

func (r *MatchRepositoryImpl) ListTeams(ctx context.Context, matchID int) ([]*model.MatchTeam, error) {
	query := `
		SELECT match_id, team_id, is_home, team_score
		FROM match_team
		WHERE match_id = $1
		ORDER BY team_id
	`
	rows, err := r.pool.Query(ctx, query, matchID)
	if err != nil {
		return nil, mapError(err, nil)
	}
	return scanMatchTeams(rows)
}

// ListTeamsWithLock 依 team_id 順序鎖定，避免不同交易交錯加鎖
func (r *MatchRepositoryImpl) ListTeamsWithLock(ctx context.Context, tx pgx.Tx, matchID int) ([]*model.MatchTeam, error) {
	query := `
		SELECT match_id, team_id, is_home, team_score
		FROM match_team
		WHERE match_id = $1
		ORDER BY team_id
		FOR UPDATE
	`
	rows, err := tx.Query(ctx, query, matchID)
	if err != nil {
		return nil, mapError(err, nil)
	}
	return scanMatchTeams(rows)
}

func scanMatchTeams(rows pgx.Rows) ([]*model.MatchTeam, error) {
	defer rows.Close()

	teams := make([]*model.MatchTeam, 0, 2)
	for rows.Next() {
		var mt model.MatchTeam
		err := rows.Scan(
			&mt.MatchID,
			&mt.TeamID,
			&mt.IsHome,
			&mt.TeamScore,
		)
		if err != nil {
			return nil, mapError(err, nil)
		}
		teams = append(teams, &mt)
	}

	if err := rows.Err(); err != nil {
		return nil, mapError(err, nil)
	}

	return teams, nil
}

func (r *MatchRepositoryImpl) UpdateTeamScore(ctx context.Context, tx pgx.Tx, matchID int, teamID int, score int) error {
	query := `
		UPDATE match_team
		SET team_score = $1
		WHERE match_id = $2 AND team_id = $3
	`

	result, err := tx.Exec(ctx, query, score, matchID, teamID)
	if err != nil {
		return mapError(err, nil)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("match %d team %d: %w", matchID, teamID, apperrors.ErrMissingSide)
	}

	return nil
}

// MarkCompleted 只允許 Completed 以外的狀態轉換成 Completed
func (r *MatchRepositoryImpl) MarkCompleted(ctx context.Context, tx pgx.Tx, id int, scoreSummary string) error {
	query := `
		UPDATE match
		SET status = $1, score_summary = $2
		WHERE id = $3 AND status <> $1
	`

	result, err := tx.Exec(ctx, query, model.MatchStatusCompleted, scoreSummary, id)
	if err != nil {
		return mapError(err, nil)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrMatchAlreadyCompleted
	}

	return nil
}
