package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"league-core/internal/cache"
	"league-core/internal/model"
	"league-core/internal/monitoring"
	"league-core/internal/queue"
	"league-core/internal/repository"
	"league-core/pkg/logger"

	"go.uber.org/zap"
)

type ProjectionWorker interface {
	// 訂閱 league event，維護座位快取
	Start(ctx context.Context) error
}

type ProjectionWorkerImpl struct {
	bus       queue.EventBus
	seatCache cache.SeatAvailabilityCache
	saleRepo  repository.SaleRepository
	log       *zap.Logger
}

func NewProjectionWorker(bus queue.EventBus, seatCache cache.SeatAvailabilityCache, saleRepo repository.SaleRepository) ProjectionWorker {
	return &ProjectionWorkerImpl{
		bus:       bus,
		seatCache: seatCache,
		saleRepo:  saleRepo,
		log:       logger.WithComponent("worker"),
	}
}

func (w *ProjectionWorkerImpl) Start(ctx context.Context) error {
	msgs, err := w.bus.Subscribe(ctx)
	if err != nil {
		return fmt.Errorf("subscribe league events: %w", err)
	}

	go func() {
		for msg := range msgs {
			err := w.Handle(ctx, msg.Data)
			if err != nil {
				// Redis 暫時失敗時重試；格式錯誤重試也沒用，直接丟棄
				requeue := !isMalformed(err)
				w.log.Warn("project league event failed",
					zap.String("event_id", msg.Data.ID.String()),
					zap.String("type", string(msg.Data.Type)),
					zap.Bool("requeue", requeue),
					zap.Error(err),
				)
				monitoring.RecordProjection(string(msg.Data.Type), "failed")
				msg.Nack(requeue)
				continue
			}
			monitoring.RecordProjection(string(msg.Data.Type), "ok")
			msg.Ack()
		}
		w.log.Info("projection worker stopped")
	}()
	return nil
}

// Handle 售票 / 退票事件只當作「座位有變動」的通知，實際狀態以資料庫為準，
// 因此重送、亂序都會收斂到同一結果。match.completed 與座位無關，直接略過
func (w *ProjectionWorkerImpl) Handle(ctx context.Context, event *model.LeagueEvent) error {
	eventID, seatID, ok, err := seatOf(event)
	if err != nil || !ok {
		return err
	}

	if err := w.syncSeat(ctx, eventID, seatID); err != nil {
		// 投影失敗：移除 warm 標記，查詢改讀資料庫直到下次重建
		if invErr := w.seatCache.Invalidate(ctx, eventID); invErr != nil {
			w.log.Warn("invalidate seat cache failed", zap.Int("event_id", eventID), zap.Error(invErr))
		}
		return err
	}
	return nil
}

func (w *ProjectionWorkerImpl) syncSeat(ctx context.Context, eventID int, seatID int) error {
	sold, err := w.saleRepo.IsSeatSold(ctx, eventID, seatID)
	if err != nil {
		return err
	}
	if sold {
		return w.seatCache.MarkSold(ctx, eventID, seatID)
	}
	return w.seatCache.MarkAvailable(ctx, eventID, seatID)
}

func seatOf(event *model.LeagueEvent) (eventID int, seatID int, ok bool, err error) {
	switch event.Type {
	case model.LeagueEventTicketSold:
		var p model.PurchaseResult
		if err := json.Unmarshal(event.Payload, &p); err != nil {
			return 0, 0, false, err
		}
		return p.Event.ID, p.Seat.ID, true, nil
	case model.LeagueEventTicketRefunded:
		var r model.RefundResult
		if err := json.Unmarshal(event.Payload, &r); err != nil {
			return 0, 0, false, err
		}
		return r.EventID, r.SeatID, true, nil
	default:
		return 0, 0, false, nil
	}
}

func isMalformed(err error) bool {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &syntaxErr) || errors.As(err, &typeErr)
}
