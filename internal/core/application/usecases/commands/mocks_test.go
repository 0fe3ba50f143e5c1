package commands_test

import (
	"context"
	"time"

	"github.com/npcoderes/GTS-sub002/internal/core/application/usecases/commands"
	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/demand"
	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/kernel"
	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/shift"
	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/token"
	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/transfer"
	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/trip"
	"github.com/npcoderes/GTS-sub002/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockTokenRepository struct{ mock.Mock }

func (m *MockTokenRepository) Add(ctx context.Context, aggregate *token.Token) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockTokenRepository) Update(ctx context.Context, aggregate *token.Token) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockTokenRepository) Get(ctx context.Context, id kernel.UUID) (*token.Token, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*token.Token), args.Error(1)
}

func (m *MockTokenRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*token.Token, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*token.Token), args.Error(1)
}

func (m *MockTokenRepository) GetActiveByDriverAndDay(
	ctx context.Context,
	driverID kernel.UUID,
	day kernel.ServiceDay,
) (*token.Token, error) {
	args := m.Called(ctx, driverID, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*token.Token), args.Error(1)
}

func (m *MockTokenRepository) GetAllWaiting(
	ctx context.Context,
	station kernel.StationCode,
	day kernel.ServiceDay,
) ([]*token.Token, error) {
	args := m.Called(ctx, station, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*token.Token), args.Error(1)
}

func (m *MockTokenRepository) CountForStationDay(
	ctx context.Context,
	station kernel.StationCode,
	day kernel.ServiceDay,
) (int, error) {
	args := m.Called(ctx, station, day)
	return args.Int(0), args.Error(1)
}

func (m *MockTokenRepository) GetAllocatedWithCompletedTrip(ctx context.Context) ([]*token.Token, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*token.Token), args.Error(1)
}

func (m *MockTokenRepository) GetWaitingWithEndedShift(ctx context.Context, now time.Time) ([]*token.Token, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*token.Token), args.Error(1)
}

type MockDemandRepository struct{ mock.Mock }

func (m *MockDemandRepository) Add(ctx context.Context, aggregate *demand.Demand) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockDemandRepository) Update(ctx context.Context, aggregate *demand.Demand) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockDemandRepository) Get(ctx context.Context, id kernel.UUID) (*demand.Demand, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*demand.Demand), args.Error(1)
}

func (m *MockDemandRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*demand.Demand, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*demand.Demand), args.Error(1)
}

func (m *MockDemandRepository) GetAllMatchable(
	ctx context.Context,
	origin kernel.StationCode,
) ([]*demand.Demand, error) {
	args := m.Called(ctx, origin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*demand.Demand), args.Error(1)
}

func (m *MockDemandRepository) GetAssigningStartedBefore(
	ctx context.Context,
	cutoff time.Time,
) ([]*demand.Demand, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*demand.Demand), args.Error(1)
}

type MockTripRepository struct{ mock.Mock }

func (m *MockTripRepository) Add(ctx context.Context, aggregate *trip.Trip) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockTripRepository) Update(ctx context.Context, aggregate *trip.Trip) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockTripRepository) Get(ctx context.Context, id kernel.UUID) (*trip.Trip, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trip.Trip), args.Error(1)
}

func (m *MockTripRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*trip.Trip, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trip.Trip), args.Error(1)
}

func (m *MockTripRepository) GetActiveByDriver(ctx context.Context, driverID kernel.UUID) (*trip.Trip, error) {
	args := m.Called(ctx, driverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trip.Trip), args.Error(1)
}

func (m *MockTripRepository) HasActiveForDriver(ctx context.Context, driverID kernel.UUID) (bool, error) {
	args := m.Called(ctx, driverID)
	return args.Bool(0), args.Error(1)
}

func (m *MockTripRepository) HasActiveForVehicle(ctx context.Context, vehicleID kernel.UUID) (bool, error) {
	args := m.Called(ctx, vehicleID)
	return args.Bool(0), args.Error(1)
}

type MockTransferRepository struct{ mock.Mock }

func (m *MockTransferRepository) Add(ctx context.Context, record *transfer.TransferRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockTransferRepository) Update(ctx context.Context, record *transfer.TransferRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockTransferRepository) GetByTripAndPoint(
	ctx context.Context,
	tripID kernel.UUID,
	point transfer.Point,
) (*transfer.TransferRecord, error) {
	args := m.Called(ctx, tripID, point)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transfer.TransferRecord), args.Error(1)
}

func (m *MockTransferRepository) GetByTrip(ctx context.Context, tripID kernel.UUID) ([]*transfer.TransferRecord, error) {
	args := m.Called(ctx, tripID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*transfer.TransferRecord), args.Error(1)
}

func (m *MockTransferRepository) CountOpenAtStation(ctx context.Context, station kernel.StationCode) (int, error) {
	args := m.Called(ctx, station)
	return args.Int(0), args.Error(1)
}

type MockShiftRepository struct{ mock.Mock }

func (m *MockShiftRepository) Add(ctx context.Context, aggregate *shift.Shift) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockShiftRepository) Get(ctx context.Context, id kernel.UUID) (*shift.Shift, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shift.Shift), args.Error(1)
}

func (m *MockShiftRepository) GetActiveForDriver(
	ctx context.Context,
	driverID kernel.UUID,
	at time.Time,
) (*shift.Shift, error) {
	args := m.Called(ctx, driverID, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shift.Shift), args.Error(1)
}

type MockOutboxRepository struct{ mock.Mock }

func (m *MockOutboxRepository) Add(ctx context.Context, eventType string, payload any) error {
	args := m.Called(ctx, eventType, payload)
	return args.Error(0)
}

func (m *MockOutboxRepository) GetPending(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ports.OutboxMessage), args.Error(1)
}

func (m *MockOutboxRepository) MarkDispatched(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// mockTx provides the TxManager methods shared by every mock unit of work.
type mockTx struct{ mock.Mock }

func (m *mockTx) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockTx) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockTx) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockDemandUoW struct{ mockTx }

func (m *MockDemandUoW) DemandRepository() ports.DemandRepository {
	args := m.Called()
	return args.Get(0).(ports.DemandRepository)
}

type MockDemandUoWFactory struct{ mock.Mock }

func (m *MockDemandUoWFactory) Create() commands.DemandUoW {
	args := m.Called()
	return args.Get(0).(commands.DemandUoW)
}

type MockMatchUoW struct{ mockTx }

func (m *MockMatchUoW) LockStationDay(ctx context.Context, station kernel.StationCode, day kernel.ServiceDay) error {
	args := m.Called(ctx, station, day)
	return args.Error(0)
}

func (m *MockMatchUoW) LockDriverDay(ctx context.Context, driverID kernel.UUID, day kernel.ServiceDay) error {
	args := m.Called(ctx, driverID, day)
	return args.Error(0)
}

func (m *MockMatchUoW) TokenRepository() ports.TokenRepository {
	args := m.Called()
	return args.Get(0).(ports.TokenRepository)
}

func (m *MockMatchUoW) DemandRepository() ports.DemandRepository {
	args := m.Called()
	return args.Get(0).(ports.DemandRepository)
}

func (m *MockMatchUoW) TripRepository() ports.TripRepository {
	args := m.Called()
	return args.Get(0).(ports.TripRepository)
}

func (m *MockMatchUoW) OutboxRepository() ports.OutboxRepository {
	args := m.Called()
	return args.Get(0).(ports.OutboxRepository)
}

type MockMatchUoWFactory struct{ mock.Mock }

func (m *MockMatchUoWFactory) Create() commands.MatchUoW {
	args := m.Called()
	return args.Get(0).(commands.MatchUoW)
}

type MockIssueUoW struct{ MockMatchUoW }

func (m *MockIssueUoW) ShiftRepository() ports.ShiftRepository {
	args := m.Called()
	return args.Get(0).(ports.ShiftRepository)
}

type MockIssueUoWFactory struct{ mock.Mock }

func (m *MockIssueUoWFactory) Create() commands.IssueUoW {
	args := m.Called()
	return args.Get(0).(commands.IssueUoW)
}

type MockTripUoW struct{ mockTx }

func (m *MockTripUoW) LockStationBays(ctx context.Context, station kernel.StationCode) error {
	args := m.Called(ctx, station)
	return args.Error(0)
}

func (m *MockTripUoW) TripRepository() ports.TripRepository {
	args := m.Called()
	return args.Get(0).(ports.TripRepository)
}

func (m *MockTripUoW) TransferRepository() ports.TransferRepository {
	args := m.Called()
	return args.Get(0).(ports.TransferRepository)
}

func (m *MockTripUoW) OutboxRepository() ports.OutboxRepository {
	args := m.Called()
	return args.Get(0).(ports.OutboxRepository)
}

type MockTripUoWFactory struct{ mock.Mock }

func (m *MockTripUoWFactory) Create() commands.TripUoW {
	args := m.Called()
	return args.Get(0).(commands.TripUoW)
}

type MockReclaimUoW struct{ mockTx }

func (m *MockReclaimUoW) TokenRepository() ports.TokenRepository {
	args := m.Called()
	return args.Get(0).(ports.TokenRepository)
}

func (m *MockReclaimUoW) DemandRepository() ports.DemandRepository {
	args := m.Called()
	return args.Get(0).(ports.DemandRepository)
}

func (m *MockReclaimUoW) TripRepository() ports.TripRepository {
	args := m.Called()
	return args.Get(0).(ports.TripRepository)
}

func (m *MockReclaimUoW) OutboxRepository() ports.OutboxRepository {
	args := m.Called()
	return args.Get(0).(ports.OutboxRepository)
}

type MockReclaimUoWFactory struct{ mock.Mock }

func (m *MockReclaimUoWFactory) Create() commands.ReclaimUoW {
	args := m.Called()
	return args.Get(0).(commands.ReclaimUoW)
}
