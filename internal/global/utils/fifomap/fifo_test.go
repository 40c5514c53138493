package fifomap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFifoEvictsOldest(t *testing.T) {
	cache := NewFIFOMap(3)

	cache.Set("a", 1)
	cache.Set("b", 2)
	cache.Set("c", 3)
	cache.Set("d", 4) // evicts a

	_, ok := cache.Get("a")
	assert.False(t, ok)

	got, ok := cache.Get("b")
	assert.True(t, ok)
	assert.Equal(t, 2, got)

	got, ok = cache.Get("d")
	assert.True(t, ok)
	assert.Equal(t, 4, got)

	assert.Equal(t, 3, cache.Len())
}

func TestFifoUpdateKeepsKey(t *testing.T) {
	cache := NewFIFOMap(2)

	cache.Set("a", 1)
	cache.Set("b", 2)
	cache.Set("a", 10) // refresh, not insert
	cache.Set("c", 3)  // evicts b, the oldest untouched key

	got, ok := cache.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 10, got)

	_, ok = cache.Get("b")
	assert.False(t, ok)
}

func TestFifoDelete(t *testing.T) {
	cache := NewFIFOMap(2)

	cache.Set("a", 1)
	cache.Delete("a")

	_, ok := cache.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 0, cache.Len())
}
