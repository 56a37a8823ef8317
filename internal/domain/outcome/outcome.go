// Package outcome models best-effort results: a value, or a default plus the
// reason the real value could not be obtained.
package outcome

// Outcome is either a successful value or a degraded default.
type Outcome[T any] struct {
	value T
	err   error
}

// Ok wraps a successfully obtained value.
func Ok[T any](v T) Outcome[T] {
	return Outcome[T]{value: v}
}

// Degrade records that the value fell back to def because of err.
// A nil err is treated as success.
func Degrade[T any](def T, err error) Outcome[T] {
	return Outcome[T]{value: def, err: err}
}

// From turns a (value, error) pair into an Outcome, substituting def on error.
func From[T any](v T, err error, def T) Outcome[T] {
	if err != nil {
		return Degrade(def, err)
	}
	return Ok(v)
}

// Value returns the value, which is the default when degraded.
func (o Outcome[T]) Value() T { return o.value }

// Degraded reports whether the default was substituted.
func (o Outcome[T]) Degraded() bool { return o.err != nil }

// Err is the cause of degradation, nil on success.
func (o Outcome[T]) Err() error { return o.err }
