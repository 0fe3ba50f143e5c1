// Package services provides domain services that orchestrate business operations
// across multiple domain entities in the gate transport system. It implements
// business workflows that don't naturally belong to a single aggregate root.
//
// The package includes:
//   - AllocationService: pairs waiting tokens with approved demands and opens trips
//   - StepReconciler: derives a trip's true step from its persisted state
//
// Domain services coordinate between aggregates, implementing business logic that
// spans multiple bounded contexts following Domain-Driven Design principles.
package services
