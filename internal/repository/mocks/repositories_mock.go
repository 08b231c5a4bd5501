package mocks

import (
	"context"
	"time"

	"league-core/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
)

type EventRepositoryMock struct {
	mock.Mock
}

func NewEventRepositoryMock() *EventRepositoryMock {
	return &EventRepositoryMock{}
}

func (m *EventRepositoryMock) FindByID(ctx context.Context, id int) (*model.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *EventRepositoryMock) FindByIDWithLock(ctx context.Context, tx pgx.Tx, id int) (*model.Event, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

type MatchRepositoryMock struct {
	mock.Mock
}

func NewMatchRepositoryMock() *MatchRepositoryMock {
	return &MatchRepositoryMock{}
}

func (m *MatchRepositoryMock) FindByID(ctx context.Context, id int) (*model.Match, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Match), args.Error(1)
}

func (m *MatchRepositoryMock) ListTeams(ctx context.Context, matchID int) ([]*model.MatchTeam, error) {
	args := m.Called(ctx, matchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.MatchTeam), args.Error(1)
}

func (m *MatchRepositoryMock) FindByIDInTx(ctx context.Context, tx pgx.Tx, id int) (*model.Match, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Match), args.Error(1)
}

func (m *MatchRepositoryMock) FindByIDWithLock(ctx context.Context, tx pgx.Tx, id int) (*model.Match, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Match), args.Error(1)
}

func (m *MatchRepositoryMock) ListTeamsWithLock(ctx context.Context, tx pgx.Tx, matchID int) ([]*model.MatchTeam, error) {
	args := m.Called(ctx, tx, matchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.MatchTeam), args.Error(1)
}

func (m *MatchRepositoryMock) UpdateTeamScore(ctx context.Context, tx pgx.Tx, matchID int, teamID int, score int) error {
	args := m.Called(ctx, tx, matchID, teamID, score)
	return args.Error(0)
}

func (m *MatchRepositoryMock) MarkCompleted(ctx context.Context, tx pgx.Tx, id int, scoreSummary string) error {
	args := m.Called(ctx, tx, id, scoreSummary)
	return args.Error(0)
}

type SeatRepositoryMock struct {
	mock.Mock
}

func NewSeatRepositoryMock() *SeatRepositoryMock {
	return &SeatRepositoryMock{}
}

func (m *SeatRepositoryMock) FindByID(ctx context.Context, id int) (*model.Seat, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Seat), args.Error(1)
}

func (m *SeatRepositoryMock) FindByIDWithLock(ctx context.Context, tx pgx.Tx, id int) (*model.Seat, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Seat), args.Error(1)
}

func (m *SeatRepositoryMock) UpdateStatus(ctx context.Context, tx pgx.Tx, id int, status model.SeatStatus) error {
	args := m.Called(ctx, tx, id, status)
	return args.Error(0)
}

type CustomerRepositoryMock struct {
	mock.Mock
}

func NewCustomerRepositoryMock() *CustomerRepositoryMock {
	return &CustomerRepositoryMock{}
}

func (m *CustomerRepositoryMock) FindByID(ctx context.Context, id int) (*model.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Customer), args.Error(1)
}

func (m *CustomerRepositoryMock) ExistsInTx(ctx context.Context, tx pgx.Tx, id int) (bool, error) {
	args := m.Called(ctx, tx, id)
	return args.Bool(0), args.Error(1)
}

func (m *CustomerRepositoryMock) Create(ctx context.Context, tx pgx.Tx, customer *model.Customer) (*model.Customer, error) {
	args := m.Called(ctx, tx, customer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Customer), args.Error(1)
}

type SaleRepositoryMock struct {
	mock.Mock
}

func NewSaleRepositoryMock() *SaleRepositoryMock {
	return &SaleRepositoryMock{}
}

func (m *SaleRepositoryMock) FindByID(ctx context.Context, id int) (*model.SaleRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SaleRecord), args.Error(1)
}

func (m *SaleRepositoryMock) ListActiveSeatIDs(ctx context.Context, eventID int) ([]int, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int), args.Error(1)
}

func (m *SaleRepositoryMock) IsSeatSold(ctx context.Context, eventID int, seatID int) (bool, error) {
	args := m.Called(ctx, eventID, seatID)
	return args.Bool(0), args.Error(1)
}

func (m *SaleRepositoryMock) ExistsActive(ctx context.Context, tx pgx.Tx, eventID int, seatID int) (bool, error) {
	args := m.Called(ctx, tx, eventID, seatID)
	return args.Bool(0), args.Error(1)
}

func (m *SaleRepositoryMock) Create(ctx context.Context, tx pgx.Tx, sale *model.SaleRecord) (*model.SaleRecord, error) {
	args := m.Called(ctx, tx, sale)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SaleRecord), args.Error(1)
}

func (m *SaleRepositoryMock) FindByIDWithLock(ctx context.Context, tx pgx.Tx, id int) (*model.SaleRecord, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SaleRecord), args.Error(1)
}

func (m *SaleRepositoryMock) MarkRefunded(ctx context.Context, tx pgx.Tx, id int, refundedAt time.Time) error {
	args := m.Called(ctx, tx, id, refundedAt)
	return args.Error(0)
}

type RefundAuditRepositoryMock struct {
	mock.Mock
}

func NewRefundAuditRepositoryMock() *RefundAuditRepositoryMock {
	return &RefundAuditRepositoryMock{}
}

func (m *RefundAuditRepositoryMock) CountBySaleID(ctx context.Context, saleID int) (int, error) {
	args := m.Called(ctx, saleID)
	return args.Int(0), args.Error(1)
}

func (m *RefundAuditRepositoryMock) Create(ctx context.Context, tx pgx.Tx, audit *model.RefundAudit) (*model.RefundAudit, error) {
	args := m.Called(ctx, tx, audit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RefundAudit), args.Error(1)
}

type TeamRepositoryMock struct {
	mock.Mock
}

func NewTeamRepositoryMock() *TeamRepositoryMock {
	return &TeamRepositoryMock{}
}

func (m *TeamRepositoryMock) FindByID(ctx context.Context, id int) (*model.Team, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Team), args.Error(1)
}

func (m *TeamRepositoryMock) ApplyStandings(ctx context.Context, tx pgx.Tx, delta model.StandingsDelta) error {
	args := m.Called(ctx, tx, delta)
	return args.Error(0)
}

type PlayerRepositoryMock struct {
	mock.Mock
}

func NewPlayerRepositoryMock() *PlayerRepositoryMock {
	return &PlayerRepositoryMock{}
}

func (m *PlayerRepositoryMock) FindByID(ctx context.Context, id int) (*model.Player, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Player), args.Error(1)
}

func (m *PlayerRepositoryMock) AddPoints(ctx context.Context, tx pgx.Tx, deltas []model.PlayerPoints) error {
	args := m.Called(ctx, tx, deltas)
	return args.Error(0)
}
