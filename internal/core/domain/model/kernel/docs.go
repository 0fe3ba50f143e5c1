// Package kernel provides core domain primitives and utilities for the gate
// transport coordination system. It implements fundamental building blocks
// following Domain-Driven Design principles that are used throughout the
// domain model.
//
// The package includes:
//   - UUID: A value object for unique identifiers with validation and comparison capabilities
//   - StationCode: A value object identifying a transfer station
//   - ServiceDay: A value object for the UTC calendar day queues and sequences are scoped to
//   - TokenNo: The composite queue number printed on a vehicle token
//
// These primitives enforce domain invariants and validation rules, ensuring that
// domain objects are always in a valid state. They are designed to be immutable
// and thread-safe, making them suitable for concurrent use.
//
// The package follows Domain-Driven Design best practices, providing rich domain
// behavior and encapsulation of implementation details.
package kernel
