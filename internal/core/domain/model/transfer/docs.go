// Package transfer contains the TransferRecord entity, the audit record of a
// single load or unload at a station.
//
// A record is opened when a driver enters a mid-transfer step of a trip and
// stays open until a station operator confirms it. While open it occupies one
// of the station's transfer bays; bay occupancy is counted over open records.
//
// The package provides:
//   - TransferRecord: readings, photo references and operator confirmation
//   - Point: which end of the trip the record belongs to (origin/destination)
//
// Records are write-once where it matters: the first recorded reading is
// kept, photo references are deduplicated, and nothing may change after
// confirmation.
package transfer
