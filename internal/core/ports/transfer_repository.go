package ports

import (
	"context"

	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/kernel"
	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/transfer"
)

// TransferRepository defines the persistence contract for transfer records.
// Records are append-and-update only; they are never deleted, including on
// trip cancellation.
type TransferRepository interface {
	// Add persists a new transfer record to storage.
	Add(ctx context.Context, record *transfer.TransferRecord) error

	// Update persists changes to an existing transfer record.
	Update(ctx context.Context, record *transfer.TransferRecord) error

	// GetByTripAndPoint retrieves the trip's record for one end of the
	// route. A trip has at most one record per point.
	// Returns an ObjectNotFoundError when the record was never opened.
	GetByTripAndPoint(ctx context.Context, tripID kernel.UUID, point transfer.Point) (*transfer.TransferRecord, error)

	// GetByTrip retrieves all transfer records of a trip, origin first.
	GetByTrip(ctx context.Context, tripID kernel.UUID) ([]*transfer.TransferRecord, error)

	// CountOpenAtStation returns how many unconfirmed records currently
	// hold a bay at the station. Callers must hold the station bay lock
	// when they use the count to admit a new transfer.
	CountOpenAtStation(ctx context.Context, station kernel.StationCode) (int, error)
}
