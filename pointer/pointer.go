// Package pointer provides utilities for working with pointers.
package pointer

// From creates a pointer to the provided value.
func From[T any](t T) *T {
	return &t
}

// ValueOrZero returns the value of the pointer or the zero value if nil.
func ValueOrZero[T any](v *T) T {
	if v == nil {
		var zero T
		return zero
	}
	return *v
}
