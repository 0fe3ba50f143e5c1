package postgres

import (
	"github.com/npcoderes/GTS-sub002/internal/adapters/out/postgres/demandrepo"
	"github.com/npcoderes/GTS-sub002/internal/adapters/out/postgres/outboxrepo"
	"github.com/npcoderes/GTS-sub002/internal/adapters/out/postgres/shiftrepo"
	"github.com/npcoderes/GTS-sub002/internal/adapters/out/postgres/tokenrepo"
	"github.com/npcoderes/GTS-sub002/internal/adapters/out/postgres/transferrepo"
	"github.com/npcoderes/GTS-sub002/internal/adapters/out/postgres/triprepo"

	"gorm.io/gorm"
)

// activeTokenPerDriverDayIndex rejects a second Waiting or Allocated token for
// the same driver on the same service day at the database level. AutoMigrate
// cannot express partial indexes, so it is created separately.
const activeTokenPerDriverDayIndex = `
CREATE UNIQUE INDEX IF NOT EXISTS idx_tokens_active_driver_day
ON tokens (driver_id, service_day)
WHERE status IN (1, 2)`

// RunMigrations creates or updates the database schema for all aggregates.
func RunMigrations(db *gorm.DB) error {
	err := db.AutoMigrate(
		&tokenrepo.TokenDTO{},
		&demandrepo.DemandDTO{},
		&triprepo.TripDTO{},
		&transferrepo.TransferRecordDTO{},
		&shiftrepo.ShiftDTO{},
		&outboxrepo.MessageDTO{},
	)
	if err != nil {
		return err
	}

	return db.Exec(activeTokenPerDriverDayIndex).Error
}
