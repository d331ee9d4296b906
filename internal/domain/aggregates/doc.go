// Package aggregates defines domain-facing aggregate contracts.
//
// These contracts avoid persistence/transport details and represent the write
// boundaries where marketplace invariants must be enforced atomically.
package aggregates
