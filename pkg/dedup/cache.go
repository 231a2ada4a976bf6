// Package dedup holds the bounded cache suppressing repeated event
// notifications.
package dedup

import "time"

// DefaultCapacity is the number of tags kept per script instance
const DefaultCapacity = 100

// Cache maps tags to the time they last fired. Once full, inserting a new
// tag evicts the tag inserted earliest; refreshing a tag keeps its position.
type Cache struct {
	capacity int
	entries  map[string]time.Time
	order    []string
}

// New creates a cache holding at most capacity tags
func New(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Cache{
		capacity: capacity,
		entries:  make(map[string]time.Time, capacity),
		order:    make([]string, 0, capacity),
	}
}

// Get returns the last fire time of tag
func (c *Cache) Get(tag string) (time.Time, bool) {
	t, ok := c.entries[tag]
	return t, ok
}

// Put records that tag fired at t
func (c *Cache) Put(tag string, t time.Time) {
	if _, ok := c.entries[tag]; !ok {
		if len(c.order) >= c.capacity {
			oldest := c.order[0]
			c.order = c.order[1:]
			delete(c.entries, oldest)
		}
		c.order = append(c.order, tag)
	}
	c.entries[tag] = t
}

// Len returns the number of cached tags
func (c *Cache) Len() int { return len(c.entries) }

// Capacity returns the maximum number of tags
func (c *Cache) Capacity() int { return c.capacity }

// Clear drops every tag
func (c *Cache) Clear() {
	clear(c.entries)
	c.order = c.order[:0]
}

// SameBar reports whether tag already fired at bar time t, recording it
// otherwise
func (c *Cache) SameBar(tag string, t time.Time) bool {
	if last, ok := c.Get(tag); ok && last.Equal(t) {
		return true
	}
	c.Put(tag, t)
	return false
}

// Within reports whether tag fired less than window before now, recording
// now otherwise
func (c *Cache) Within(tag string, now time.Time, window time.Duration) bool {
	if last, ok := c.Get(tag); ok && now.Sub(last) < window {
		return true
	}
	c.Put(tag, now)
	return false
}
