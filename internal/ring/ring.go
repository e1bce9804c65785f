// Package ring provides a fixed-capacity ordered log with
// eviction-of-oldest semantics. It backs the engine's capped histories
// (activity feed, recitation sessions, teacher notes, review heatmap).
package ring

// Log is an append-only log that holds at most its capacity; appending
// beyond capacity evicts the oldest entry. The zero value is unusable,
// use New.
type Log[T any] struct {
	entries []T
	cap     int
}

// New creates a Log with the given capacity. Capacity must be positive.
func New[T any](capacity int) *Log[T] {
	if capacity <= 0 {
		capacity = 1
	}
	return &Log[T]{cap: capacity}
}

// Append adds an entry, evicting the oldest when the log is full.
func (l *Log[T]) Append(v T) {
	if len(l.entries) == l.cap {
		copy(l.entries, l.entries[1:])
		l.entries[len(l.entries)-1] = v
		return
	}
	l.entries = append(l.entries, v)
}

// Len returns the number of stored entries.
func (l *Log[T]) Len() int {
	return len(l.entries)
}

// Cap returns the capacity.
func (l *Log[T]) Cap() int {
	return l.cap
}

// All returns the entries oldest-first. The returned slice is a copy.
func (l *Log[T]) All() []T {
	out := make([]T, len(l.entries))
	copy(out, l.entries)
	return out
}

// Last returns up to n newest entries, oldest-first.
func (l *Log[T]) Last(n int) []T {
	if n > len(l.entries) {
		n = len(l.entries)
	}
	out := make([]T, n)
	copy(out, l.entries[len(l.entries)-n:])
	return out
}

// Newest returns the most recent entry and true, or the zero value and
// false when the log is empty.
func (l *Log[T]) Newest() (T, bool) {
	if len(l.entries) == 0 {
		var zero T
		return zero, false
	}
	return l.entries[len(l.entries)-1], true
}

// UpdateNewest applies fn to the most recent entry in place. It is a
// no-op on an empty log.
func (l *Log[T]) UpdateNewest(fn func(*T)) {
	if len(l.entries) == 0 {
		return
	}
	fn(&l.entries[len(l.entries)-1])
}

// Clone returns a deep copy for value types. Element pointers are shared;
// callers storing pointer elements must copy them separately.
func (l *Log[T]) Clone() *Log[T] {
	c := &Log[T]{cap: l.cap}
	c.entries = make([]T, len(l.entries), l.cap)
	copy(c.entries, l.entries)
	return c
}
