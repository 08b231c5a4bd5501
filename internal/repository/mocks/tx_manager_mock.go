package mocks

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// TxManagerFake 直接執行 fn（tx 為 nil），記錄 commit / rollback 次數
type TxManagerFake struct {
	BeginErr  error
	CommitErr error

	Commits   int
	Rollbacks int
}

func NewTxManagerFake() *TxManagerFake {
	return &TxManagerFake{}
}

func (f *TxManagerFake) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	if f.BeginErr != nil {
		return f.BeginErr
	}
	if err := fn(nil); err != nil {
		f.Rollbacks++
		return err
	}
	if f.CommitErr != nil {
		f.Rollbacks++
		return f.CommitErr
	}
	f.Commits++
	return nil
}
