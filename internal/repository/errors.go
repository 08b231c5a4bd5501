package repository

import (
	"errors"

	"league-core/internal/database"
	apperrors "league-core/pkg/app_errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgCodeUniqueViolation  = "23505"
	pgCodeLockNotAvailable = "55P03"
)

// mapError 把 pgx / PostgreSQL 錯誤轉成 app error，無法辨識的包成 infrastructure error
func mapError(err error, notFound error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) && notFound != nil {
		return notFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == pgCodeLockNotAvailable:
			return apperrors.ErrLockTimeout
		case pgErr.Code == pgCodeUniqueViolation && pgErr.ConstraintName == database.ActiveSaleIndex:
			return apperrors.ErrSeatAlreadySold
		}
	}
	return apperrors.Infra("postgres", err)
}
