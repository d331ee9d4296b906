// Package aggregates contains infrastructure implementations of domain aggregate contracts.
//
// Implementations compose table-level repos from internal/data/repos and own
// transaction boundaries for invariant-critical marketplace writes. Outbox
// events are written in the same transaction and returned to the caller for
// publication after commit.
package aggregates
