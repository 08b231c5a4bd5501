package database

import (
	"context"
	_ "embed"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schemaSQL string

// ActiveSaleIndex 售票唯一性 partial index 名稱，repository 用來辨識 unique violation
const ActiveSaleIndex = "seat_and_ticket_active_seat_uidx"

// Migrate 建立資料表（可重複執行）
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, schemaSQL)
	return err
}
