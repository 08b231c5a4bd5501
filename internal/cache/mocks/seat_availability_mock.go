package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type SeatAvailabilityCacheMock struct {
	mock.Mock
}

func NewSeatAvailabilityCacheMock() *SeatAvailabilityCacheMock {
	return &SeatAvailabilityCacheMock{}
}

func (m *SeatAvailabilityCacheMock) MarkSold(ctx context.Context, eventID int, seatID int) error {
	return m.Called(ctx, eventID, seatID).Error(0)
}

func (m *SeatAvailabilityCacheMock) MarkAvailable(ctx context.Context, eventID int, seatID int) error {
	return m.Called(ctx, eventID, seatID).Error(0)
}

func (m *SeatAvailabilityCacheMock) IsSold(ctx context.Context, eventID int, seatID int) (bool, error) {
	args := m.Called(ctx, eventID, seatID)
	return args.Bool(0), args.Error(1)
}

func (m *SeatAvailabilityCacheMock) SoldSeats(ctx context.Context, eventID int) ([]int, bool, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]int), args.Bool(1), args.Error(2)
}

func (m *SeatAvailabilityCacheMock) Version(ctx context.Context, eventID int) (int64, error) {
	args := m.Called(ctx, eventID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *SeatAvailabilityCacheMock) Rebuild(ctx context.Context, eventID int, seatIDs []int, version int64) (bool, error) {
	args := m.Called(ctx, eventID, seatIDs, version)
	return args.Bool(0), args.Error(1)
}

func (m *SeatAvailabilityCacheMock) Invalidate(ctx context.Context, eventID int) error {
	return m.Called(ctx, eventID).Error(0)
}
