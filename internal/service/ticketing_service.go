package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"league-core/internal/database"
	"league-core/internal/model"
	"league-core/internal/monitoring"
	"league-core/internal/queue"
	"league-core/internal/repository"
	apperrors "league-core/pkg/app_errors"
	"league-core/pkg/logger"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type TicketingService interface {
	// 購票：鎖定活動 -> 鎖定座位 -> 檢查是否已售出 -> 建立售票紀錄
	PurchaseTicket(ctx context.Context, req model.PurchaseTicketRequest) (*model.PurchaseResult, error)
	// 退票：Sold -> Refunded 單向，座位釋出並寫入稽核紀錄
	RefundTicket(ctx context.Context, saleID int, reason string, processedBy string) (*model.RefundResult, error)
}

type TicketingServiceImpl struct {
	txManager    database.TxManager
	eventRepo    repository.EventRepository
	matchRepo    repository.MatchRepository
	seatRepo     repository.SeatRepository
	customerRepo repository.CustomerRepository
	saleRepo     repository.SaleRepository
	auditRepo    repository.RefundAuditRepository
	bus          queue.EventBus
	now          func() time.Time
	log          *zap.Logger
}

func NewTicketingService(
	txManager database.TxManager,
	eventRepo repository.EventRepository,
	matchRepo repository.MatchRepository,
	seatRepo repository.SeatRepository,
	customerRepo repository.CustomerRepository,
	saleRepo repository.SaleRepository,
	auditRepo repository.RefundAuditRepository,
	opts ...Option,
) TicketingService {
	o := buildOptions(opts)
	return &TicketingServiceImpl{
		txManager:    txManager,
		eventRepo:    eventRepo,
		matchRepo:    matchRepo,
		seatRepo:     seatRepo,
		customerRepo: customerRepo,
		saleRepo:     saleRepo,
		auditRepo:    auditRepo,
		bus:          o.bus,
		now:          o.now,
		log:          logger.WithComponent("ticketing"),
	}
}

func (s *TicketingServiceImpl) PurchaseTicket(ctx context.Context, req model.PurchaseTicketRequest) (result *model.PurchaseResult, err error) {
	defer monitoring.ObserveWorkflow(monitoring.OpPurchaseTicket, time.Now(), &err)

	// 輸入錯誤在開交易前就擋掉
	if err = req.Validate(); err != nil {
		s.log.Warn("purchase rejected", zap.Int("event_id", req.EventID), zap.Int("seat_id", req.SeatID), zap.Error(err))
		return nil, err
	}

	saleAt := s.now()
	if req.SaleTimestamp != nil {
		saleAt = *req.SaleTimestamp
	}

	err = s.txManager.WithTx(ctx, func(tx pgx.Tx) error {
		// 1. 鎖定活動並檢查截止時間
		event, err := s.eventRepo.FindByIDWithLock(ctx, tx, req.EventID)
		if err != nil {
			return err
		}
		if !event.IsOpenForSaleAt(saleAt) {
			return apperrors.ErrEventClosed
		}

		// 2. 指定場次時，場次必須屬於該活動且尚未開打
		var match *model.Match
		if req.MatchID != nil {
			match, err = s.matchRepo.FindByIDInTx(ctx, tx, *req.MatchID)
			if errors.Is(err, apperrors.ErrMatchNotFound) {
				return fmt.Errorf("match %d: %w", *req.MatchID, apperrors.ErrInvalidMatch)
			}
			if err != nil {
				return err
			}
			if !match.IsSellableFor(event.ID) {
				return apperrors.ErrInvalidMatch
			}
			if !saleAt.Before(match.StartsAt) {
				return apperrors.ErrEventClosed
			}
		}

		// 3. 鎖定座位（含票價等級）
		seat, err := s.seatRepo.FindByIDWithLock(ctx, tx, req.SeatID)
		if err != nil {
			return err
		}
		if seat.Tier == nil {
			return apperrors.Infra("load seat", fmt.Errorf("seat %d has no ticket tier", seat.ID))
		}

		// 4. 已持有座位鎖，此時的檢查不會和其他購票交錯
		sold, err := s.saleRepo.ExistsActive(ctx, tx, event.ID, seat.ID)
		if err != nil {
			return err
		}
		if sold {
			return apperrors.ErrSeatAlreadySold
		}

		// 5. 顧客：沿用既有或現場建立
		customerID, err := s.resolveCustomer(ctx, tx, req)
		if err != nil {
			return err
		}

		// 6. 價格一律由票價等級決定
		unitPrice := seat.Tier.EffectivePrice()
		totalPrice := unitPrice.Mul(decimal.NewFromInt(int64(req.Quantity)))

		// 7. 寫入售票紀錄並把座位標成 Sold
		sale, err := s.saleRepo.Create(ctx, tx, &model.SaleRecord{
			SeatID:     seat.ID,
			EventID:    event.ID,
			CustomerID: customerID,
			MatchID:    req.MatchID,
			TicketID:   seat.TicketID,
			Quantity:   req.Quantity,
			UnitPrice:  unitPrice,
			TotalPrice: totalPrice,
			SoldAt:     saleAt,
			Status:     model.SaleStatusSold,
		})
		if err != nil {
			return err
		}

		if err := s.seatRepo.UpdateStatus(ctx, tx, seat.ID, model.SeatStatusSold); err != nil {
			return err
		}
		seat.Status = model.SeatStatusSold

		result = &model.PurchaseResult{
			SaleRecordID:  sale.ID,
			CustomerID:    customerID,
			Seat:          *seat,
			Event:         *event,
			Match:         match,
			Quantity:      req.Quantity,
			UnitPrice:     unitPrice,
			TotalPrice:    totalPrice,
			SaleTimestamp: saleAt,
		}
		return nil
	})
	if err != nil {
		s.log.Warn("purchase rejected", zap.Int("event_id", req.EventID), zap.Int("seat_id", req.SeatID), zap.Error(err))
		return nil, err
	}

	s.log.Info("ticket sold",
		zap.Int("sale_id", result.SaleRecordID),
		zap.Int("event_id", result.Event.ID),
		zap.Int("seat_id", result.Seat.ID),
		zap.Int("customer_id", result.CustomerID),
		zap.String("total_price", result.TotalPrice.StringFixed(2)),
	)
	publishEvent(ctx, s.bus, s.log, model.LeagueEventTicketSold, s.now(), result)

	return result, nil
}

func (s *TicketingServiceImpl) resolveCustomer(ctx context.Context, tx pgx.Tx, req model.PurchaseTicketRequest) (int, error) {
	if req.ExistingCustomerID != nil {
		exists, err := s.customerRepo.ExistsInTx(ctx, tx, *req.ExistingCustomerID)
		if err != nil {
			return 0, err
		}
		if !exists {
			return 0, apperrors.ErrCustomerNotFound
		}
		return *req.ExistingCustomerID, nil
	}

	if req.NewCustomer == nil || !req.NewCustomer.HasContact() {
		return 0, apperrors.ErrMissingContact
	}
	customer, err := s.customerRepo.Create(ctx, tx, req.NewCustomer.ToCustomer())
	if err != nil {
		return 0, err
	}
	return customer.ID, nil
}

func (s *TicketingServiceImpl) RefundTicket(ctx context.Context, saleID int, reason string, processedBy string) (result *model.RefundResult, err error) {
	defer monitoring.ObserveWorkflow(monitoring.OpRefundTicket, time.Now(), &err)

	if saleID <= 0 {
		return nil, apperrors.ErrInvalidInput
	}

	err = s.txManager.WithTx(ctx, func(tx pgx.Tx) error {
		// 1. 鎖定售票紀錄
		sale, err := s.saleRepo.FindByIDWithLock(ctx, tx, saleID)
		if err != nil {
			return err
		}

		// 2. 只允許 Sold -> Refunded
		if !sale.Status.CanTransitionTo(model.SaleStatusRefunded) {
			return apperrors.ErrAlreadyRefunded
		}

		// 3. 退款金額為當初成交金額，不依現在票價重算
		refundedAt := s.now()
		if err := s.saleRepo.MarkRefunded(ctx, tx, sale.ID, refundedAt); err != nil {
			return err
		}

		// 4. 釋出座位
		if err := s.seatRepo.UpdateStatus(ctx, tx, sale.SeatID, model.SeatStatusAvailable); err != nil {
			return err
		}

		// 5. 稽核紀錄
		_, err = s.auditRepo.Create(ctx, tx, &model.RefundAudit{
			SaleID:       sale.ID,
			RefundAmount: sale.TotalPrice,
			RefundedAt:   refundedAt,
			Reason:       reason,
			ProcessedBy:  processedBy,
		})
		if err != nil {
			return err
		}

		result = &model.RefundResult{
			SaleRecordID:    sale.ID,
			CustomerID:      sale.CustomerID,
			SeatID:          sale.SeatID,
			EventID:         sale.EventID,
			MatchID:         sale.MatchID,
			RefundTimestamp: refundedAt,
			AmountRefunded:  sale.TotalPrice,
			Reason:          reason,
			ProcessedBy:     processedBy,
		}
		return nil
	})
	if err != nil {
		s.log.Warn("refund rejected", zap.Int("sale_id", saleID), zap.Error(err))
		return nil, err
	}

	s.log.Info("ticket refunded",
		zap.Int("sale_id", result.SaleRecordID),
		zap.Int("seat_id", result.SeatID),
		zap.String("amount", result.AmountRefunded.StringFixed(2)),
		zap.String("processed_by", result.ProcessedBy),
	)
	publishEvent(ctx, s.bus, s.log, model.LeagueEventTicketRefunded, result.RefundTimestamp, result)

	return result, nil
}
