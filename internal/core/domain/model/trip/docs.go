// Package trip provides domain entities and business logic for trip
// fulfillment in the gate transport coordination system. A trip tracks one
// vehicle's execution of one demand from offer extension to completion.
//
// The package includes:
//   - Trip: The aggregate root over identity, route, step position and snapshot
//   - Step: The eight-position workflow index (0 offer/cancelled .. 7 completed)
//   - Snapshot: The typed per-step payload with additive merge semantics
//   - Status: The coarse lifecycle over Offered, InProgress, Completed, Cancelled
//
// Key business rules:
//   - Steps advance via max(current, new); they never silently decrease
//   - Explicit cancellation is the one backward move and forces step 0
//   - Snapshot merges fill gaps and supersede placeholders, never drop values
//   - Steps 3 and 5 hold a transfer bay; confirmation at 4 and 6 releases it
package trip
