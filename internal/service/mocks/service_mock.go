package mocks

import (
	"context"

	"league-core/internal/model"

	"github.com/stretchr/testify/mock"
)

type TicketingServiceMock struct {
	mock.Mock
}

func NewTicketingServiceMock() *TicketingServiceMock {
	return &TicketingServiceMock{}
}

func (m *TicketingServiceMock) PurchaseTicket(ctx context.Context, req model.PurchaseTicketRequest) (*model.PurchaseResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PurchaseResult), args.Error(1)
}

func (m *TicketingServiceMock) RefundTicket(ctx context.Context, saleID int, reason string, processedBy string) (*model.RefundResult, error) {
	args := m.Called(ctx, saleID, reason, processedBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RefundResult), args.Error(1)
}

type MatchResultServiceMock struct {
	mock.Mock
}

func NewMatchResultServiceMock() *MatchResultServiceMock {
	return &MatchResultServiceMock{}
}

func (m *MatchResultServiceMock) RecordResult(ctx context.Context, req model.RecordMatchResultRequest) (*model.MatchResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MatchResult), args.Error(1)
}

type AvailabilityServiceMock struct {
	mock.Mock
}

func NewAvailabilityServiceMock() *AvailabilityServiceMock {
	return &AvailabilityServiceMock{}
}

func (m *AvailabilityServiceMock) SoldSeats(ctx context.Context, eventID int) ([]int, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int), args.Error(1)
}

func (m *AvailabilityServiceMock) WarmUp(ctx context.Context, eventID int) ([]int, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int), args.Error(1)
}
