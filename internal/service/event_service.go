package service

import (
	"context"

	"league-core/internal/cache"
	"league-core/internal/repository"
	"league-core/pkg/logger"

	"go.uber.org/zap"
)

// AvailabilityService 已售出座位查詢，供選位畫面使用，結果可能稍舊
type AvailabilityService interface {
	SoldSeats(ctx context.Context, eventID int) ([]int, error)
	// WarmUp 以資料庫內的有效售票重建快取
	WarmUp(ctx context.Context, eventID int) ([]int, error)
}

type AvailabilityServiceImpl struct {
	eventRepo repository.EventRepository
	saleRepo  repository.SaleRepository
	seatCache cache.SeatAvailabilityCache
}

func NewAvailabilityService(eventRepo repository.EventRepository, saleRepo repository.SaleRepository, seatCache cache.SeatAvailabilityCache) AvailabilityService {
	return &AvailabilityServiceImpl{eventRepo: eventRepo, saleRepo: saleRepo, seatCache: seatCache}
}

func (s *AvailabilityServiceImpl) SoldSeats(ctx context.Context, eventID int) ([]int, error) {
	seatIDs, warm, err := s.seatCache.SoldSeats(ctx, eventID)
	if err != nil {
		// 快取失敗時退回資料庫
		logger.WithComponent("availability").Warn("read seat cache failed", zap.Int("event_id", eventID), zap.Error(err))
		return s.fromDatabase(ctx, eventID)
	}
	if warm {
		return seatIDs, nil
	}
	return s.WarmUp(ctx, eventID)
}

func (s *AvailabilityServiceImpl) WarmUp(ctx context.Context, eventID int) ([]int, error) {
	log := logger.WithComponent("availability")

	// 版本要在讀資料庫之前取得；期間若有投影寫入，Rebuild 會放棄標記 warm
	version, versionErr := s.seatCache.Version(ctx, eventID)

	seatIDs, err := s.fromDatabase(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if versionErr != nil {
		log.Warn("read seat cache version failed", zap.Int("event_id", eventID), zap.Error(versionErr))
		return seatIDs, nil
	}

	applied, err := s.seatCache.Rebuild(ctx, eventID, seatIDs, version)
	if err != nil {
		log.Warn("rebuild seat cache failed", zap.Int("event_id", eventID), zap.Error(err))
	} else if !applied {
		log.Info("seat cache changed during rebuild, left cold", zap.Int("event_id", eventID))
	}
	return seatIDs, nil
}

func (s *AvailabilityServiceImpl) fromDatabase(ctx context.Context, eventID int) ([]int, error) {
	if _, err := s.eventRepo.FindByID(ctx, eventID); err != nil {
		return nil, err
	}
	return s.saleRepo.ListActiveSeatIDs(ctx, eventID)
}
