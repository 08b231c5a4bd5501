package repository

import (
	"errors"
	"fmt"
	"testing"

	"league-core/internal/database"
	apperrors "league-core/pkg/app_errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestMapError(t *testing.T) {
	t.Run("Nil", func(t *testing.T) {
		assert.NoError(t, mapError(nil, apperrors.ErrSaleNotFound))
	})

	t.Run("NoRows", func(t *testing.T) {
		err := mapError(fmt.Errorf("scan: %w", pgx.ErrNoRows), apperrors.ErrSaleNotFound)

		assert.Same(t, apperrors.ErrSaleNotFound, err)
	})

	t.Run("NoRowsWithoutSentinel", func(t *testing.T) {
		err := mapError(pgx.ErrNoRows, nil)

		assert.ErrorIs(t, err, apperrors.ErrInfrastructure)
		assert.ErrorIs(t, err, pgx.ErrNoRows)
	})

	t.Run("LockTimeout", func(t *testing.T) {
		err := mapError(&pgconn.PgError{Code: "55P03"}, nil)

		assert.ErrorIs(t, err, apperrors.ErrLockTimeout)
	})

	t.Run("ActiveSaleUnique", func(t *testing.T) {
		err := mapError(&pgconn.PgError{Code: "23505", ConstraintName: database.ActiveSaleIndex}, nil)

		assert.ErrorIs(t, err, apperrors.ErrSeatAlreadySold)
	})

	t.Run("OtherUnique", func(t *testing.T) {
		err := mapError(&pgconn.PgError{Code: "23505", ConstraintName: "customer_email_key"}, nil)

		assert.ErrorIs(t, err, apperrors.ErrInfrastructure)
		assert.NotErrorIs(t, err, apperrors.ErrSeatAlreadySold)
	})

	t.Run("Unknown", func(t *testing.T) {
		cause := errors.New("conn closed")

		err := mapError(cause, apperrors.ErrSaleNotFound)

		assert.ErrorIs(t, err, apperrors.ErrInfrastructure)
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, apperrors.KindInfrastructure, apperrors.KindOf(err))
	})
}
