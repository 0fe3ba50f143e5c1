package tokenrepo_test

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	postgresadapter "github.com/npcoderes/GTS-sub002/internal/adapters/out/postgres"
	"github.com/npcoderes/GTS-sub002/internal/adapters/out/postgres/shiftrepo"
	"github.com/npcoderes/GTS-sub002/internal/adapters/out/postgres/tokenrepo"
	"github.com/npcoderes/GTS-sub002/internal/adapters/out/postgres/triprepo"
	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/kernel"
	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/token"
	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/trip"
	"github.com/npcoderes/GTS-sub002/internal/pkg/errs"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// TokenRepositoryIntegrationTestSuite provides integration tests for
// TokenRepository using PostgreSQL containers to verify database persistence
// behavior, including the partial unique index behind the one-active-token
// invariant.
type TokenRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *tcpostgres.PostgresContainer
	db         *gorm.DB
	repository *tokenrepo.GormTokenRepository
}

func (suite *TokenRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	// Start PostgreSQL container
	container, err := tcpostgres.Run(ctx,
		"postgres:15-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("testuser"),
		tcpostgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	// Connect through lib/pq, as production does, so driver error codes match
	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	sqlDB, err := sql.Open("postgres", connStr)
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.New(postgresdriver.Config{Conn: sqlDB}), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	// Migrate the full schema, partial unique index included
	suite.Require().NoError(postgresadapter.RunMigrations(db))
}

func (suite *TokenRepositoryIntegrationTestSuite) SetupTest() {
	// Clean the database before each test
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE tokens, trips, shifts CASCADE").Error)

	// Create fresh repository for each test
	suite.repository = tokenrepo.NewGormTokenRepository(suite.db)
}

func (suite *TokenRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *TokenRepositoryIntegrationTestSuite) TestAdd_ValidToken_Success() {
	ctx := context.Background()

	testToken := suite.createWaitingToken("GTA", 1, kernel.NewUUID())

	err := suite.repository.Add(ctx, testToken)
	suite.Require().NoError(err)

	suite.assertTokenCount(1)
}

func (suite *TokenRepositoryIntegrationTestSuite) TestAdd_SecondActiveTokenSameDriverAndDay_ReturnsStateConflict() {
	ctx := context.Background()

	driverID := kernel.NewUUID()
	first := suite.createWaitingToken("GTA", 1, driverID)
	suite.Require().NoError(suite.repository.Add(ctx, first))

	// Same driver, same day, different station: the partial index rejects it
	second := suite.createWaitingToken("GTB", 1, driverID)

	err := suite.repository.Add(ctx, second)
	suite.Require().Error(err)

	var conflictErr *errs.StateConflictError
	suite.Require().ErrorAs(err, &conflictErr)

	suite.assertTokenCount(1)
}

func (suite *TokenRepositoryIntegrationTestSuite) TestAdd_ExpiredTokenDoesNotBlockReissue() {
	ctx := context.Background()

	driverID := kernel.NewUUID()
	expired := suite.createWaitingToken("GTA", 1, driverID)
	suite.Require().NoError(expired.Expire(token.ReasonCancelled, time.Now().UTC()))
	suite.Require().NoError(suite.repository.Add(ctx, expired))

	// The partial index only covers active statuses, so a fresh token fits
	reissued := suite.createWaitingToken("GTA", 2, driverID)

	err := suite.repository.Add(ctx, reissued)
	suite.Require().NoError(err)

	suite.assertTokenCount(2)
}

func (suite *TokenRepositoryIntegrationTestSuite) TestGet_ExistingToken_RestoresFullState() {
	ctx := context.Background()

	original := suite.createWaitingToken("GTA", 7, kernel.NewUUID())
	suite.Require().NoError(suite.repository.Add(ctx, original))

	retrieved, err := suite.repository.Get(ctx, original.ID())
	suite.Require().NoError(err)

	suite.Equal(original.ID(), retrieved.ID())
	suite.Equal(original.TokenNo().String(), retrieved.TokenNo().String())
	suite.Equal("GTA", retrieved.Station().String())
	suite.Equal(7, retrieved.SequenceNumber())
	suite.Equal(original.DriverID(), retrieved.DriverID())
	suite.Equal(token.Waiting, retrieved.Status())
	suite.Nil(retrieved.AllocatedAt())
	suite.Nil(retrieved.TripID())
}

func (suite *TokenRepositoryIntegrationTestSuite) TestGet_NonExistentToken_ReturnsNotFoundError() {
	ctx := context.Background()

	retrieved, err := suite.repository.Get(ctx, kernel.NewUUID())

	suite.Nil(retrieved)
	suite.Require().Error(err)

	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)
}

func (suite *TokenRepositoryIntegrationTestSuite) TestUpdate_AllocationRoundTrips() {
	ctx := context.Background()

	testToken := suite.createWaitingToken("GTA", 1, kernel.NewUUID())
	suite.Require().NoError(suite.repository.Add(ctx, testToken))

	tripID := kernel.NewUUID()
	allocatedAt := time.Now().UTC().Truncate(time.Microsecond)
	suite.Require().NoError(testToken.Allocate(tripID, allocatedAt))

	suite.Require().NoError(suite.repository.Update(ctx, testToken))

	retrieved, err := suite.repository.Get(ctx, testToken.ID())
	suite.Require().NoError(err)
	suite.Equal(token.Allocated, retrieved.Status())
	suite.Require().NotNil(retrieved.TripID())
	suite.Equal(tripID, *retrieved.TripID())
	suite.Require().NotNil(retrieved.AllocatedAt())
}

func (suite *TokenRepositoryIntegrationTestSuite) TestUpdate_ExpiryRoundTrips() {
	ctx := context.Background()

	testToken := suite.createWaitingToken("GTA", 1, kernel.NewUUID())
	suite.Require().NoError(suite.repository.Add(ctx, testToken))

	suite.Require().NoError(testToken.Expire(token.ReasonShiftEnded, time.Now().UTC()))
	suite.Require().NoError(suite.repository.Update(ctx, testToken))

	retrieved, err := suite.repository.Get(ctx, testToken.ID())
	suite.Require().NoError(err)
	suite.Equal(token.Expired, retrieved.Status())
	suite.Equal(token.ReasonShiftEnded, retrieved.ExpiryReason())
	suite.Require().NotNil(retrieved.ExpiredAt())
}

func (suite *TokenRepositoryIntegrationTestSuite) TestUpdate_NonExistentToken_ReturnsError() {
	ctx := context.Background()

	missing := suite.createWaitingToken("GTA", 1, kernel.NewUUID())

	err := suite.repository.Update(ctx, missing)
	suite.Require().Error(err)
	suite.Contains(strings.ToLower(err.Error()), "record not found")
}

func (suite *TokenRepositoryIntegrationTestSuite) TestGetActiveByDriverAndDay_FindsWaitingAndAllocated() {
	ctx := context.Background()

	driverID := kernel.NewUUID()
	active := suite.createWaitingToken("GTA", 1, driverID)
	suite.Require().NoError(suite.repository.Add(ctx, active))

	// An expired token for another driver must not interfere
	other := suite.createWaitingToken("GTA", 2, kernel.NewUUID())
	suite.Require().NoError(other.Expire(token.ReasonCancelled, time.Now().UTC()))
	suite.Require().NoError(suite.repository.Add(ctx, other))

	day := suite.serviceDay()
	found, err := suite.repository.GetActiveByDriverAndDay(ctx, driverID, day)
	suite.Require().NoError(err)
	suite.Equal(active.ID(), found.ID())

	_, err = suite.repository.GetActiveByDriverAndDay(ctx, other.DriverID(), day)
	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)
}

func (suite *TokenRepositoryIntegrationTestSuite) TestGetAllWaiting_OrderedBySequence() {
	ctx := context.Background()

	// Insert out of order to prove ordering comes from the query
	third := suite.createWaitingToken("GTA", 3, kernel.NewUUID())
	suite.Require().NoError(suite.repository.Add(ctx, third))
	first := suite.createWaitingToken("GTA", 1, kernel.NewUUID())
	suite.Require().NoError(suite.repository.Add(ctx, first))
	otherStation := suite.createWaitingToken("GTB", 1, kernel.NewUUID())
	suite.Require().NoError(suite.repository.Add(ctx, otherStation))

	station, err := kernel.NewStationCode("GTA")
	suite.Require().NoError(err)

	found, err := suite.repository.GetAllWaiting(ctx, station, suite.serviceDay())
	suite.Require().NoError(err)
	suite.Require().Len(found, 2)
	suite.Equal(first.ID(), found[0].ID())
	suite.Equal(third.ID(), found[1].ID())
}

func (suite *TokenRepositoryIntegrationTestSuite) TestGetAllWaiting_SkipsAllocatedTokens() {
	ctx := context.Background()

	head := suite.createWaitingToken("GTA", 1, kernel.NewUUID())
	suite.Require().NoError(head.Allocate(kernel.NewUUID(), time.Now().UTC()))
	suite.Require().NoError(suite.repository.Add(ctx, head))

	next := suite.createWaitingToken("GTA", 2, kernel.NewUUID())
	suite.Require().NoError(suite.repository.Add(ctx, next))

	station, err := kernel.NewStationCode("GTA")
	suite.Require().NoError(err)

	found, err := suite.repository.GetAllWaiting(ctx, station, suite.serviceDay())
	suite.Require().NoError(err)
	suite.Require().Len(found, 1)
	suite.Equal(next.ID(), found[0].ID())
}

func (suite *TokenRepositoryIntegrationTestSuite) TestCountForStationDay_CountsExpiredToo() {
	ctx := context.Background()

	waiting := suite.createWaitingToken("GTA", 1, kernel.NewUUID())
	suite.Require().NoError(suite.repository.Add(ctx, waiting))

	expired := suite.createWaitingToken("GTA", 2, kernel.NewUUID())
	suite.Require().NoError(expired.Expire(token.ReasonCancelled, time.Now().UTC()))
	suite.Require().NoError(suite.repository.Add(ctx, expired))

	elsewhere := suite.createWaitingToken("GTB", 1, kernel.NewUUID())
	suite.Require().NoError(suite.repository.Add(ctx, elsewhere))

	station, err := kernel.NewStationCode("GTA")
	suite.Require().NoError(err)

	count, err := suite.repository.CountForStationDay(ctx, station, suite.serviceDay())
	suite.Require().NoError(err)
	suite.Equal(2, count)
}

func (suite *TokenRepositoryIntegrationTestSuite) TestGetAllocatedWithCompletedTrip_JoinsOnTripStatus() {
	ctx := context.Background()

	// Allocated token whose trip completed: the sweeper should pick it up
	done := suite.createWaitingToken("GTA", 1, kernel.NewUUID())
	doneTripID := kernel.NewUUID()
	suite.Require().NoError(done.Allocate(doneTripID, time.Now().UTC()))
	suite.Require().NoError(suite.repository.Add(ctx, done))
	suite.insertTrip(doneTripID, done, trip.Completed)

	// Allocated token whose trip is still running: must not be returned
	running := suite.createWaitingToken("GTA", 2, kernel.NewUUID())
	runningTripID := kernel.NewUUID()
	suite.Require().NoError(running.Allocate(runningTripID, time.Now().UTC()))
	suite.Require().NoError(suite.repository.Add(ctx, running))
	suite.insertTrip(runningTripID, running, trip.InProgress)

	found, err := suite.repository.GetAllocatedWithCompletedTrip(ctx)
	suite.Require().NoError(err)
	suite.Require().Len(found, 1)
	suite.Equal(done.ID(), found[0].ID())
}

func (suite *TokenRepositoryIntegrationTestSuite) TestGetWaitingWithEndedShift_JoinsOnShiftWindow() {
	ctx := context.Background()

	now := time.Now().UTC()

	// Waiting token under a shift that already ended
	stale := suite.createWaitingToken("GTA", 1, kernel.NewUUID())
	suite.insertShift(stale.ShiftID(), stale.DriverID(), now.Add(-10*time.Hour), now.Add(-time.Hour))
	suite.Require().NoError(suite.repository.Add(ctx, stale))

	// Waiting token under a shift that is still running
	fresh := suite.createWaitingToken("GTA", 2, kernel.NewUUID())
	suite.insertShift(fresh.ShiftID(), fresh.DriverID(), now.Add(-time.Hour), now.Add(6*time.Hour))
	suite.Require().NoError(suite.repository.Add(ctx, fresh))

	found, err := suite.repository.GetWaitingWithEndedShift(ctx, now)
	suite.Require().NoError(err)
	suite.Require().Len(found, 1)
	suite.Equal(stale.ID(), found[0].ID())
}

// createWaitingToken creates a waiting token for today at the given station.
func (suite *TokenRepositoryIntegrationTestSuite) createWaitingToken(
	stationCode string, sequence int, driverID kernel.UUID,
) *token.Token {
	station, err := kernel.NewStationCode(stationCode)
	suite.Require().NoError(err)

	tokenNo, err := kernel.NewTokenNo(station, suite.serviceDay(), sequence)
	suite.Require().NoError(err)

	testToken, err := token.NewToken(
		kernel.NewUUID(), tokenNo, driverID, kernel.NewUUID(), kernel.NewUUID(), time.Now().UTC())
	suite.Require().NoError(err)

	return testToken
}

func (suite *TokenRepositoryIntegrationTestSuite) serviceDay() kernel.ServiceDay {
	day, err := kernel.NewServiceDay(time.Now().UTC())
	suite.Require().NoError(err)
	return day
}

// insertTrip persists a minimal trip row linked to the token for JOIN tests.
func (suite *TokenRepositoryIntegrationTestSuite) insertTrip(
	tripID kernel.UUID, testToken *token.Token, status trip.Status,
) {
	now := time.Now().UTC()
	dto := triprepo.TripDTO{
		ID:          tripID.Bytes(),
		DemandID:    kernel.NewUUID().Bytes(),
		TokenID:     testToken.ID().Bytes(),
		DriverID:    testToken.DriverID().Bytes(),
		VehicleID:   testToken.VehicleID().Bytes(),
		Origin:      testToken.Station().String(),
		Destination: "GTZ",
		CurrentStep: 0,
		Snapshot:    "{}",
		Status:      int(status),
		CreatedAt:   now,
	}
	if status == trip.Completed {
		dto.CurrentStep = int(trip.StepCompleted)
		dto.CompletedAt = &now
	}
	suite.Require().NoError(suite.db.Create(&dto).Error)
}

// insertShift persists a shift row linked to the token for JOIN tests.
func (suite *TokenRepositoryIntegrationTestSuite) insertShift(
	shiftID kernel.UUID, driverID kernel.UUID, startsAt, endsAt time.Time,
) {
	dto := shiftrepo.ShiftDTO{
		ID:       shiftID.Bytes(),
		DriverID: driverID.Bytes(),
		Station:  "GTA",
		StartsAt: startsAt,
		EndsAt:   endsAt,
		Approved: true,
	}
	suite.Require().NoError(suite.db.Create(&dto).Error)
}

// assertTokenCount verifies the number of tokens in the database.
func (suite *TokenRepositoryIntegrationTestSuite) assertTokenCount(expected int) {
	var count int64
	err := suite.db.Model(&tokenrepo.TokenDTO{}).Count(&count).Error
	suite.Require().NoError(err)
	suite.Equal(int64(expected), count)
}

func TestTokenRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(TokenRepositoryIntegrationTestSuite))
}
