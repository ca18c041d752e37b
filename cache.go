package depot

import (
	"iter"
)

var _ Cache[any] = &SimpleCache[any]{}

func (c *SimpleCache[T]) GetIndex(key string) (int, bool) {
	index, ok := c.itemIndices[key]
	return index, ok
}

// GetItem returns the item at index, or nil if the index is free or out of range.
func (c *SimpleCache[T]) GetItem(index int) *T {
	if index < 0 || index >= len(c.items) || !c.used[index] {
		return nil
	}
	return &c.items[index]
}

// Register stores item under key and returns its index. Indices released by
// Unregister are reused most-recently-freed first.
func (c *SimpleCache[T]) Register(key string, item T) (int, error) {
	if idx, ok := c.itemIndices[key]; ok {
		c.items[idx] = item
		return idx, nil
	}
	if len(c.itemIndices) >= c.maxCapacity {
		return -1, KindLimitError{Kind: key, Limit: c.maxCapacity}
	}

	var idx int
	if n := len(c.freeIndices); n > 0 {
		idx = c.freeIndices[n-1]
		c.freeIndices = c.freeIndices[:n-1]
		c.items[idx] = item
		c.used[idx] = true
	} else {
		idx = len(c.items)
		c.items = append(c.items, item)
		c.used = append(c.used, true)
	}
	c.itemIndices[key] = idx
	return idx, nil
}

// Unregister frees the index held by key.
func (c *SimpleCache[T]) Unregister(key string) bool {
	idx, ok := c.itemIndices[key]
	if !ok {
		return false
	}
	var zero T
	c.items[idx] = zero
	c.used[idx] = false
	delete(c.itemIndices, key)
	c.freeIndices = append(c.freeIndices, idx)
	return true
}

// All yields registered items in index order.
func (c *SimpleCache[T]) All() iter.Seq2[int, *T] {
	return func(yield func(int, *T) bool) {
		for i := range c.items {
			if !c.used[i] {
				continue
			}
			if !yield(i, &c.items[i]) {
				return
			}
		}
	}
}

// Len returns the number of indices ever handed out, free ones included.
func (c *SimpleCache[T]) Len() int {
	return len(c.items)
}

// Live returns the number of registered keys.
func (c *SimpleCache[T]) Live() int {
	return len(c.itemIndices)
}

// Clear drops every key and index.
func (c *SimpleCache[T]) Clear() {
	c.items = c.items[:0]
	c.used = c.used[:0]
	c.freeIndices = c.freeIndices[:0]
	c.itemIndices = make(map[string]int)
}
