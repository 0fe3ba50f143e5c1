// Package token provides domain entities and business logic for vehicle queue
// tickets in the gate transport coordination system. It implements the Token
// aggregate root with lifecycle management and state transitions.
//
// The package includes:
//   - Token: The aggregate root that manages ticket identity, queue position and lifecycle
//   - Status: A state machine that enforces valid token status transitions
//   - ExpiryReason: The audited reason a token left the active queue
//
// Key business rules:
//   - Tokens carry an immutable composite number encoding station, day and sequence
//   - A driver holds at most one active token per service day
//   - Status follows Waiting -> Allocated -> Expired; Waiting may expire directly
//   - Tokens are never deleted; expiry records when and why
//
// The package follows Domain-Driven Design principles, providing rich domain
// behavior, encapsulation, and validation to ensure business rules are enforced.
package token
