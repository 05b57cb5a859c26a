// Package patch models partial updates where "leave unchanged" and
// "clear the value" are different requests.
package patch

// Field is one field of a partial update. The zero value is Absent.
type Field[T any] struct {
	state state
	value T
}

type state uint8

const (
	absent state = iota
	set
	cleared
)

// Absent leaves the existing value unchanged.
func Absent[T any]() Field[T] { return Field[T]{} }

// Set replaces the existing value with v.
func Set[T any](v T) Field[T] { return Field[T]{state: set, value: v} }

// Clear removes the existing value.
func Clear[T any]() Field[T] { return Field[T]{state: cleared} }

// FromPtr maps nil to Absent and non-nil to Set.
func FromPtr[T any](p *T) Field[T] {
	if p == nil {
		return Absent[T]()
	}
	return Set(*p)
}

func (f Field[T]) IsAbsent() bool  { return f.state == absent }
func (f Field[T]) IsSet() bool     { return f.state == set }
func (f Field[T]) IsCleared() bool { return f.state == cleared }

// Value returns the set value and whether the field was Set.
func (f Field[T]) Value() (T, bool) {
	return f.value, f.state == set
}

// Apply returns the merged value: current when Absent, v when Set and the
// zero value when Cleared.
func (f Field[T]) Apply(current T) T {
	switch f.state {
	case set:
		return f.value
	case cleared:
		var zero T
		return zero
	default:
		return current
	}
}
