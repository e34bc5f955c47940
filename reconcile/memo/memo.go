// Package memo caches a computed value until one of its declared
// dependencies changes.
//
// A Value holds the last result of its compute function together with a
// snapshot of every dependency taken when that result was computed. Get
// compares the current dependency values to the snapshot and recomputes
// on any difference.
//
// Example usage:
//
//	size := memo.New(func() (int, error) { return len(doc.Text), nil },
//		map[string]func() any{"text": func() any { return doc.Text }})
//	n, err := size.Get()
package memo

import (
	"reflect"
	"sync"
)

// Deps names the dependency accessors of a Value.
type Deps map[string]func() any

// Value is a memoized result of compute. It is safe for concurrent use.
type Value[T any] struct {
	mu       sync.Mutex
	compute  func() (T, error)
	deps     Deps
	snapshot map[string]any
	value    T
	valid    bool
	computes int
}

// New returns a Value that computes lazily on the first Get.
func New[T any](compute func() (T, error), deps Deps) *Value[T] {
	return &Value[T]{
		compute: compute,
		deps:    deps,
	}
}

// Get returns the cached value, recomputing it first if it was never
// computed, was invalidated, or a dependency changed since.
// A failed computation is not cached.
func (v *Value[T]) Get() (T, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	current := v.read()
	if v.valid && v.unchanged(current) {
		return v.value, nil
	}

	val, err := v.compute()
	v.computes++
	if err != nil {
		v.valid = false
		var zero T
		return zero, err
	}
	v.value = val
	v.snapshot = current
	v.valid = true
	return val, nil
}

// Set stores val as the cached value against the current dependencies.
func (v *Value[T]) Set(val T) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.value = val
	v.snapshot = v.read()
	v.valid = true
}

// Invalidate forces the next Get to recompute.
func (v *Value[T]) Invalidate() {
	v.mu.Lock()
	v.valid = false
	v.mu.Unlock()
}

// Changed reports whether a dependency differs from the last snapshot, or
// the value was never computed.
func (v *Value[T]) Changed() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return !v.valid || !v.unchanged(v.read())
}

// Computes returns how many times compute has run.
func (v *Value[T]) Computes() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.computes
}

func (v *Value[T]) read() map[string]any {
	current := make(map[string]any, len(v.deps))
	for name, dep := range v.deps {
		current[name] = dep()
	}
	return current
}

func (v *Value[T]) unchanged(current map[string]any) bool {
	for name, val := range current {
		prev, ok := v.snapshot[name]
		if !ok || !reflect.DeepEqual(prev, val) {
			return false
		}
	}
	return true
}
