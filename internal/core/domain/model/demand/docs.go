// Package demand provides domain entities and business logic for transport
// demands in the gate transport coordination system. A demand asks for a
// quantity to be moved between two stations and competes for vehicle tokens
// through the matcher.
//
// The package includes:
//   - Demand: The aggregate root tracking intake, approval and assignment state
//   - Status: A state machine over Pending, Approved, Assigning, Rejected, Fulfilled
//   - Priority: The matching tier; lower tiers are served first
//
// Key business rules:
//   - Only Approved demands sit in the matching pool
//   - Matching pairs a demand with exactly one token and moves it to Assigning
//   - The sweeper reverts stale Assigning demands to Pending and clears the pairing
package demand
