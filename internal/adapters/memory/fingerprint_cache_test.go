package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFingerprintCache_SeenOrRecord(t *testing.T) {
	cache, err := NewFingerprintCache(0)
	require.NoError(t, err)
	ctx := context.Background()

	dup, err := cache.SeenOrRecord(ctx, "fp-1")
	require.NoError(t, err)
	assert.False(t, dup)

	dup, err = cache.SeenOrRecord(ctx, "fp-1")
	require.NoError(t, err)
	assert.True(t, dup)
}

func TestFingerprintCache_EvictsOldestAtCapacity(t *testing.T) {
	cache, err := NewFingerprintCache(DefaultFingerprintCapacity)
	require.NoError(t, err)
	ctx := context.Background()

	for i := 0; i < DefaultFingerprintCapacity+1; i++ {
		dup, err := cache.SeenOrRecord(ctx, fmt.Sprintf("fp-%d", i))
		require.NoError(t, err)
		require.False(t, dup)
	}

	assert.Equal(t, DefaultFingerprintCapacity, cache.Len())
	assert.False(t, cache.Contains("fp-0"), "first fingerprint should be evicted")
	assert.True(t, cache.Contains("fp-1"))
	assert.True(t, cache.Contains(fmt.Sprintf("fp-%d", DefaultFingerprintCapacity)))

	dup, err := cache.SeenOrRecord(ctx, "fp-0")
	require.NoError(t, err)
	assert.False(t, dup, "evicted fingerprint is processable again")
}

func TestFingerprintCache_DuplicateCheckDoesNotRefresh(t *testing.T) {
	cache, err := NewFingerprintCache(2)
	require.NoError(t, err)
	ctx := context.Background()

	_, _ = cache.SeenOrRecord(ctx, "a")
	_, _ = cache.SeenOrRecord(ctx, "b")
	dup, _ := cache.SeenOrRecord(ctx, "a")
	require.True(t, dup)
	_, _ = cache.SeenOrRecord(ctx, "c")

	assert.False(t, cache.Contains("a"), "eviction follows insertion order")
	assert.True(t, cache.Contains("b"))
	assert.True(t, cache.Contains("c"))
}

func TestFingerprintCache_Concurrent(t *testing.T) {
	cache, err := NewFingerprintCache(DefaultFingerprintCapacity)
	require.NoError(t, err)
	ctx := context.Background()

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		fresh int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			dup, _ := cache.SeenOrRecord(ctx, "same")
			if !dup {
				mu.Lock()
				fresh++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, fresh, "exactly one caller records the fingerprint")
}
