package workforce

// TickCache memoizes values for a single tick. Any access with a
// different tick drops every entry first.
type TickCache[K comparable, V any] struct {
	tick    uint64
	entries map[K]V
}

func (c *TickCache[K, V]) roll(now uint64) {
	if c.entries == nil || c.tick != now {
		c.tick = now
		c.entries = make(map[K]V)
	}
}

// Get returns the value stored for k during tick now.
func (c *TickCache[K, V]) Get(now uint64, k K) (V, bool) {
	c.roll(now)
	v, ok := c.entries[k]
	return v, ok
}

// Put stores v for k during tick now.
func (c *TickCache[K, V]) Put(now uint64, k K, v V) {
	c.roll(now)
	c.entries[k] = v
}

// Invalidate drops every entry.
func (c *TickCache[K, V]) Invalidate() {
	c.entries = nil
}

// Len returns the number of entries held for the cached tick.
func (c *TickCache[K, V]) Len() int {
	return len(c.entries)
}
