package dedup

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_FIFOEviction(t *testing.T) {
	c := New(DefaultCapacity)
	now := time.Now()

	for i := 0; i < 100; i++ {
		c.Put(fmt.Sprintf("tag-%d", i), now)
	}
	require.Equal(t, 100, c.Len())

	// refreshing does not move a tag to the back
	c.Put("tag-0", now.Add(time.Minute))
	c.Put("tag-100", now)

	assert.Equal(t, 100, c.Len())
	_, ok := c.Get("tag-0")
	assert.False(t, ok)
	_, ok = c.Get("tag-1")
	assert.True(t, ok)
	_, ok = c.Get("tag-100")
	assert.True(t, ok)

	for i := 101; i < 300; i++ {
		c.Put(fmt.Sprintf("tag-%d", i), now)
		require.LessOrEqual(t, c.Len(), 100)
	}
}

func TestCache_SameBar(t *testing.T) {
	c := New(0)
	bar := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.False(t, c.SameBar("signal:x", bar))
	assert.True(t, c.SameBar("signal:x", bar))
	assert.False(t, c.SameBar("signal:x", bar.Add(time.Minute)))
	assert.False(t, c.SameBar("signal:y", bar))
}

func TestCache_Within(t *testing.T) {
	c := New(0)
	now := time.Now()

	assert.False(t, c.Within("close:1", now, time.Second))
	assert.True(t, c.Within("close:1", now.Add(500*time.Millisecond), time.Second))
	assert.False(t, c.Within("close:1", now.Add(time.Second), time.Second))
}

func TestCache_Clear(t *testing.T) {
	c := New(2)
	c.Put("a", time.Now())
	c.Clear()
	assert.Zero(t, c.Len())
	assert.Equal(t, 2, c.Capacity())
}
