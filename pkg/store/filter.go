package store

import "strings"

// Predicate selects records. A nil Predicate matches everything.
type Predicate[T any] func(T) bool

// Filter returns the items matching every predicate, in document order.
func Filter[T any](items []T, preds ...Predicate[T]) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if matchAll(item, preds) {
			out = append(out, item)
		}
	}
	return out
}

func matchAll[T any](item T, preds []Predicate[T]) bool {
	for _, p := range preds {
		if p != nil && !p(item) {
			return false
		}
	}
	return true
}

// Equals matches records whose field equals *want. It returns nil when want
// is nil so an absent criterion drops out of the conjunction.
func Equals[T any](field func(T) int, want *int) Predicate[T] {
	if want == nil {
		return nil
	}
	v := *want
	return func(item T) bool { return field(item) == v }
}

// ContainsFold matches records whose field contains needle, ignoring case.
// A blank needle yields nil.
func ContainsFold[T any](field func(T) string, needle string) Predicate[T] {
	if strings.TrimSpace(needle) == "" {
		return nil
	}
	return func(item T) bool { return ContainsFoldString(field(item), needle) }
}

// ContainsFoldString reports whether s contains substr after lowercasing both.
func ContainsFoldString(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
