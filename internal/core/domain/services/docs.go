// Package services contains stateless domain services that coordinate logic
// which does not belong to a single aggregate.
//
// OrderNumberAllocator issues the public 12-digit order numbers: random,
// collision-checked against already-issued numbers, with a deterministic
// time-derived fallback so allocation can never fail outright.
package services
