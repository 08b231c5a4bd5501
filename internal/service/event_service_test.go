package service_test

import (
	"context"
	"errors"
	"testing"

	cachemocks "league-core/internal/cache/mocks"
	"league-core/internal/model"
	"league-core/internal/repository/mocks"
	"league-core/internal/service"
	apperrors "league-core/pkg/app_errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAvailabilityService_SoldSeats(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - FromCache", func(t *testing.T) {
		eventRepo, saleRepo, seatCache := mocks.NewEventRepositoryMock(), mocks.NewSaleRepositoryMock(), cachemocks.NewSeatAvailabilityCacheMock()
		svc := service.NewAvailabilityService(eventRepo, saleRepo, seatCache)
		seatCache.On("SoldSeats", ctx, 5).Return([]int{3, 12}, true, nil).Once()

		seats, err := svc.SoldSeats(ctx, 5)

		require.NoError(t, err)
		assert.Equal(t, []int{3, 12}, seats)
		saleRepo.AssertNotCalled(t, "ListActiveSeatIDs", mock.Anything, mock.Anything)
	})

	t.Run("Success - ColdCacheRebuilds", func(t *testing.T) {
		eventRepo, saleRepo, seatCache := mocks.NewEventRepositoryMock(), mocks.NewSaleRepositoryMock(), cachemocks.NewSeatAvailabilityCacheMock()
		svc := service.NewAvailabilityService(eventRepo, saleRepo, seatCache)
		seatCache.On("SoldSeats", ctx, 5).Return(nil, false, nil).Once()
		seatCache.On("Version", ctx, 5).Return(int64(4), nil).Once()
		eventRepo.On("FindByID", ctx, 5).Return(&model.Event{ID: 5}, nil).Once()
		saleRepo.On("ListActiveSeatIDs", ctx, 5).Return([]int{12}, nil).Once()
		seatCache.On("Rebuild", ctx, 5, []int{12}, int64(4)).Return(true, nil).Once()

		seats, err := svc.SoldSeats(ctx, 5)

		require.NoError(t, err)
		assert.Equal(t, []int{12}, seats)
		seatCache.AssertExpectations(t)
	})

	t.Run("Success - CacheDownFallsBackToDatabase", func(t *testing.T) {
		eventRepo, saleRepo, seatCache := mocks.NewEventRepositoryMock(), mocks.NewSaleRepositoryMock(), cachemocks.NewSeatAvailabilityCacheMock()
		svc := service.NewAvailabilityService(eventRepo, saleRepo, seatCache)
		seatCache.On("SoldSeats", ctx, 5).Return(nil, false, errors.New("redis down")).Once()
		eventRepo.On("FindByID", ctx, 5).Return(&model.Event{ID: 5}, nil).Once()
		saleRepo.On("ListActiveSeatIDs", ctx, 5).Return([]int{}, nil).Once()

		seats, err := svc.SoldSeats(ctx, 5)

		require.NoError(t, err)
		assert.Empty(t, seats)
		seatCache.AssertNotCalled(t, "Rebuild", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Failed - ErrEventNotFound", func(t *testing.T) {
		eventRepo, saleRepo, seatCache := mocks.NewEventRepositoryMock(), mocks.NewSaleRepositoryMock(), cachemocks.NewSeatAvailabilityCacheMock()
		svc := service.NewAvailabilityService(eventRepo, saleRepo, seatCache)
		seatCache.On("SoldSeats", ctx, 9).Return(nil, false, nil).Once()
		seatCache.On("Version", ctx, 9).Return(int64(0), nil).Once()
		eventRepo.On("FindByID", ctx, 9).Return(nil, apperrors.ErrEventNotFound).Once()

		_, err := svc.SoldSeats(ctx, 9)

		assert.ErrorIs(t, err, apperrors.ErrEventNotFound)
	})
}

func TestAvailabilityService_WarmUp(t *testing.T) {
	ctx := context.Background()

	t.Run("ProjectionDuringRebuild", func(t *testing.T) {
		eventRepo, saleRepo, seatCache := mocks.NewEventRepositoryMock(), mocks.NewSaleRepositoryMock(), cachemocks.NewSeatAvailabilityCacheMock()
		svc := service.NewAvailabilityService(eventRepo, saleRepo, seatCache)
		seatCache.On("Version", ctx, 5).Return(int64(7), nil).Once()
		eventRepo.On("FindByID", ctx, 5).Return(&model.Event{ID: 5}, nil).Once()
		saleRepo.On("ListActiveSeatIDs", ctx, 5).Return([]int{3}, nil).Once()
		// MarkSold 在讀取快照後寫入，版本已變動
		seatCache.On("Rebuild", ctx, 5, []int{3}, int64(7)).Return(false, nil).Once()

		seats, err := svc.WarmUp(ctx, 5)

		require.NoError(t, err)
		assert.Equal(t, []int{3}, seats)
		seatCache.AssertExpectations(t)
	})

	t.Run("VersionUnavailable", func(t *testing.T) {
		eventRepo, saleRepo, seatCache := mocks.NewEventRepositoryMock(), mocks.NewSaleRepositoryMock(), cachemocks.NewSeatAvailabilityCacheMock()
		svc := service.NewAvailabilityService(eventRepo, saleRepo, seatCache)
		seatCache.On("Version", ctx, 5).Return(int64(0), errors.New("redis down")).Once()
		eventRepo.On("FindByID", ctx, 5).Return(&model.Event{ID: 5}, nil).Once()
		saleRepo.On("ListActiveSeatIDs", ctx, 5).Return([]int{3}, nil).Once()

		seats, err := svc.WarmUp(ctx, 5)

		require.NoError(t, err)
		assert.Equal(t, []int{3}, seats)
		seatCache.AssertNotCalled(t, "Rebuild", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
