package queries_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	postgresadapter "github.com/npcoderes/GTS-sub002/internal/adapters/out/postgres"
	"github.com/npcoderes/GTS-sub002/internal/core/application/usecases/queries"
	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/demand"
	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/kernel"
	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/token"
	"github.com/npcoderes/GTS-sub002/internal/core/domain/services"
	"github.com/npcoderes/GTS-sub002/internal/core/ports"
	"github.com/npcoderes/GTS-sub002/internal/pkg/errs"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// GetCurrentTokenQueryHandlerTestSuite exercises the current token lookup
// against a real PostgreSQL database.
type GetCurrentTokenQueryHandlerTestSuite struct {
	suite.Suite
	container *tcpostgres.PostgresContainer
	db        *gorm.DB
	factory   ports.UnitOfWorkFactory
	handler   queries.GetCurrentTokenQueryHandler
}

func (suite *GetCurrentTokenQueryHandlerTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:15-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("testuser"),
		tcpostgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2)),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	sqlDB, err := sql.Open("postgres", dsn)
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.New(postgresdriver.Config{Conn: sqlDB}), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(postgresadapter.RunMigrations(db))

	suite.factory = postgresadapter.NewGormUnitOfWorkFactory(db)
	suite.handler = queries.NewGetCurrentTokenQueryHandler(db)
}

func (suite *GetCurrentTokenQueryHandlerTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

func (suite *GetCurrentTokenQueryHandlerTestSuite) SetupTest() {
	err := suite.db.Exec(
		"TRUNCATE TABLE tokens, demands, trips, transfer_records, shifts, outbox_messages").Error
	suite.Require().NoError(err)
}

func (suite *GetCurrentTokenQueryHandlerTestSuite) TestHandle_NoToken_ReturnsNotFound() {
	query, err := queries.NewGetCurrentTokenQuery(kernel.NewUUID())
	suite.Require().NoError(err)

	result, err := suite.handler.Handle(context.Background(), query)

	suite.Require().Error(err)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
	suite.Nil(result)
}

func (suite *GetCurrentTokenQueryHandlerTestSuite) TestHandle_WaitingToken_ReturnsPosition() {
	driverID := kernel.NewUUID()
	queued := suite.createWaitingToken("TPS01", 3, driverID)
	suite.persistToken(queued)

	query, err := queries.NewGetCurrentTokenQuery(driverID)
	suite.Require().NoError(err)

	result, err := suite.handler.Handle(context.Background(), query)

	suite.Require().NoError(err)
	suite.Require().NotNil(result)
	suite.Equal(queued.ID(), result.ID)
	suite.True(queued.TokenNo().IsEqual(result.TokenNo))
	suite.Equal(3, result.TokenNo.Sequence())
	suite.Equal(token.Waiting, result.Status)
	suite.Nil(result.AllocatedAt)
	suite.Nil(result.TripID)
}

func (suite *GetCurrentTokenQueryHandlerTestSuite) TestHandle_AllocatedToken_CarriesTripLink() {
	ctx := context.Background()
	driverID := kernel.NewUUID()

	allocated := suite.createWaitingToken("TPS01", 1, driverID)
	assigned := suite.createApprovedDemand("TPS01", "TPS02")

	newTrip, err := services.NewAllocationService().Allocate(allocated, assigned, time.Now().UTC())
	suite.Require().NoError(err)

	uow := suite.factory.Create()
	suite.Require().NoError(uow.TokenRepository().Add(ctx, allocated))
	suite.Require().NoError(uow.DemandRepository().Add(ctx, assigned))
	suite.Require().NoError(uow.TripRepository().Add(ctx, newTrip))

	query, err := queries.NewGetCurrentTokenQuery(driverID)
	suite.Require().NoError(err)

	result, err := suite.handler.Handle(ctx, query)

	suite.Require().NoError(err)
	suite.Require().NotNil(result)
	suite.Equal(token.Allocated, result.Status)
	suite.Require().NotNil(result.AllocatedAt)
	suite.Require().NotNil(result.TripID)
	suite.Equal(newTrip.ID(), *result.TripID)
}

func (suite *GetCurrentTokenQueryHandlerTestSuite) TestHandle_ExpiredToken_NotFound() {
	driverID := kernel.NewUUID()

	retired := suite.createWaitingToken("TPS01", 1, driverID)
	suite.Require().NoError(retired.Expire(token.ReasonCancelled, time.Now().UTC()))
	suite.persistToken(retired)

	query, err := queries.NewGetCurrentTokenQuery(driverID)
	suite.Require().NoError(err)

	result, err := suite.handler.Handle(context.Background(), query)

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
	suite.Nil(result)
}

func (suite *GetCurrentTokenQueryHandlerTestSuite) TestHandle_OtherDriversToken_NotFound() {
	queued := suite.createWaitingToken("TPS01", 1, kernel.NewUUID())
	suite.persistToken(queued)

	query, err := queries.NewGetCurrentTokenQuery(kernel.NewUUID())
	suite.Require().NoError(err)

	result, err := suite.handler.Handle(context.Background(), query)

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
	suite.Nil(result)
}

func (suite *GetCurrentTokenQueryHandlerTestSuite) TestHandle_InvalidQuery_ReturnsError() {
	invalidQuery := queries.GetCurrentTokenQuery{}

	result, err := suite.handler.Handle(context.Background(), invalidQuery)

	suite.Require().Error(err)
	suite.Nil(result)
	suite.Contains(err.Error(), "must be created via NewGetCurrentTokenQuery constructor")
}

// createWaitingToken creates a waiting token for today at the given station.
func (suite *GetCurrentTokenQueryHandlerTestSuite) createWaitingToken(
	stationCode string, sequence int, driverID kernel.UUID,
) *token.Token {
	station, err := kernel.NewStationCode(stationCode)
	suite.Require().NoError(err)

	day, err := kernel.NewServiceDay(time.Now().UTC())
	suite.Require().NoError(err)

	tokenNo, err := kernel.NewTokenNo(station, day, sequence)
	suite.Require().NoError(err)

	queued, err := token.NewToken(
		kernel.NewUUID(), tokenNo, driverID, kernel.NewUUID(), kernel.NewUUID(), time.Now().UTC())
	suite.Require().NoError(err)

	return queued
}

// createApprovedDemand creates an approved demand between the two stations.
func (suite *GetCurrentTokenQueryHandlerTestSuite) createApprovedDemand(
	origin, destination string,
) *demand.Demand {
	originCode, err := kernel.NewStationCode(origin)
	suite.Require().NoError(err)
	destinationCode, err := kernel.NewStationCode(destination)
	suite.Require().NoError(err)

	approved, err := demand.NewDemand(
		kernel.NewUUID(), originCode, destinationCode, 10, demand.PriorityNormal, time.Now().UTC())
	suite.Require().NoError(err)
	suite.Require().NoError(approved.Approve(time.Now().UTC()))

	return approved
}

func (suite *GetCurrentTokenQueryHandlerTestSuite) persistToken(persisted *token.Token) {
	uow := suite.factory.Create()
	suite.Require().NoError(uow.TokenRepository().Add(context.Background(), persisted))
}

func TestGetCurrentTokenQueryHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(GetCurrentTokenQueryHandlerTestSuite))
}
