package memo

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

// Group keeps named Values. A Value that is not looked up for the idle
// duration is dropped; an idle duration <= 0 keeps Values forever.
type Group[T any] struct {
	mu    sync.Mutex
	items *cache.Cache
}

// NewGroup returns an empty Group.
func NewGroup[T any](idle time.Duration) *Group[T] {
	if idle <= 0 {
		return &Group[T]{items: cache.New(cache.NoExpiration, 0)}
	}
	return &Group[T]{items: cache.New(idle, 2*idle)}
}

// Value returns the Value registered under name, creating it with
// newValue when there is none. Every lookup restarts the idle timer.
func (g *Group[T]) Value(name string, newValue func() *Value[T]) *Value[T] {
	g.mu.Lock()
	defer g.mu.Unlock()

	if x, ok := g.items.Get(name); ok {
		v := x.(*Value[T])
		g.items.SetDefault(name, v)
		return v
	}
	v := newValue()
	g.items.SetDefault(name, v)
	return v
}

// Forget drops the Value registered under name.
func (g *Group[T]) Forget(name string) {
	g.items.Delete(name)
}

// Len returns the number of registered Values.
func (g *Group[T]) Len() int {
	return g.items.ItemCount()
}
