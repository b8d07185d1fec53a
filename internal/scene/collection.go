package scene

import (
	"fmt"
	"iter"
)

// Named is anything stored in a Collection.
type Named interface {
	Name() string
}

// Collection keeps entities in insertion order with lookup by name.
type Collection[T Named] struct {
	items []T
	index map[string]int
}

// Insert adds item. Names are unique within a collection.
func (c *Collection[T]) Insert(item T) error {
	if c.index == nil {
		c.index = make(map[string]int)
	}
	name := item.Name()
	if _, dup := c.index[name]; dup {
		return fmt.Errorf("scene: duplicate entity %q", name)
	}
	c.index[name] = len(c.items)
	c.items = append(c.items, item)
	return nil
}

// Get returns the entity called name.
func (c *Collection[T]) Get(name string) (T, bool) {
	var zero T
	i, ok := c.index[name]
	if !ok {
		return zero, false
	}
	return c.items[i], true
}

func (c *Collection[T]) Len() int {
	return len(c.items)
}

// All yields the entities in insertion order.
func (c *Collection[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, it := range c.items {
			if !yield(it) {
				return
			}
		}
	}
}
