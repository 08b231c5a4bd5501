package database

import (
	"context"
	"fmt"
	"time"

	apperrors "league-core/pkg/app_errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TxManager 提供有範圍的交易：fn 回傳 nil 才 commit，其餘任何離開路徑都會 rollback
type TxManager interface {
	WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error
}

type PgxTxManager struct {
	pool        *pgxpool.Pool
	lockTimeout time.Duration
}

func NewTxManager(pool *pgxpool.Pool, lockTimeout time.Duration) TxManager {
	return &PgxTxManager{
		pool:        pool,
		lockTimeout: lockTimeout,
	}
}

func (m *PgxTxManager) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := m.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return apperrors.Infra("begin transaction", err)
	}
	// commit 之後 Rollback 是 no-op
	defer tx.Rollback(context.Background())

	if m.lockTimeout > 0 {
		// SET 不支援 bind parameter
		stmt := fmt.Sprintf("SET LOCAL lock_timeout = %d", m.lockTimeout.Milliseconds())
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return apperrors.Infra("set lock timeout", err)
		}
	}

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return apperrors.Infra("commit transaction", err)
	}
	return nil
}
