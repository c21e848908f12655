// Package ttl provides a reference that expires after a fixed duration.
//
// A Ref is constructed with the value, a time source and a TTL; once
// the source advances past the computed time-of-death the value is no
// longer observable. Expired refs are not refreshed in place - callers
// construct a new Ref when a fresh access finds the current one dead.
package ttl

import "time"

// Source supplies the current time. Injected so expiry is testable
// without sleeping; production code uses System.
type Source interface {
	Now() time.Time
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func() time.Time

// Now implements Source.
func (f SourceFunc) Now() time.Time { return f() }

// System is the wall-clock source. time.Time carries a monotonic
// reading, so TTL arithmetic is immune to wall-clock adjustment.
var System Source = SourceFunc(time.Now)

// Ref holds a value until its TTL elapses against the given source.
type Ref[T any] struct {
	value       T
	timeOfDeath time.Time
	source      Source
}

// NewRef creates a reference that stays alive for ttl from now.
func NewRef[T any](source Source, value T, ttl time.Duration) *Ref[T] {
	return &Ref[T]{
		value:       value,
		timeOfDeath: source.Now().Add(ttl),
		source:      source,
	}
}

// Get returns the held value, or the zero value and false once the TTL
// has elapsed.
func (r *Ref[T]) Get() (T, bool) {
	if r.Dead() {
		var zero T
		return zero, false
	}
	return r.value, true
}

// Dead reports whether the TTL has elapsed. The boundary is strict:
// a ref observed exactly at its time-of-death is still alive.
func (r *Ref[T]) Dead() bool {
	return r.source.Now().After(r.timeOfDeath)
}
