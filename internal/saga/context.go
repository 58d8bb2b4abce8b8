package saga

import (
	"sync"

	"github.com/google/uuid"
)

// Context is the scratchpad of a single saga execution. Steps store their
// results here so a later compensation can consume them. An instance belongs
// to exactly one Execute call and is never shared across concurrent sagas.
type Context struct {
	id     uuid.UUID
	mu     sync.RWMutex
	values map[string]interface{}
}

func NewContext() *Context {
	return &Context{
		id:     uuid.New(),
		values: make(map[string]interface{}),
	}
}

func (c *Context) Id() uuid.UUID {
	return c.id
}

// Key is a typed handle into a saga Context. Retrieval through a Key carries
// the value's type, so there are no unchecked casts at the call sites.
type Key[T any] struct {
	name string
}

func NewKey[T any](name string) Key[T] {
	return Key[T]{name: name}
}

func (k Key[T]) String() string {
	return k.name
}

func Put[T any](c *Context, key Key[T], value T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key.name] = value
}

func Get[T any](c *Context, key Key[T]) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	raw, ok := c.values[key.name]
	if !ok {
		var zero T
		return zero, false
	}
	value, ok := raw.(T)
	return value, ok
}
