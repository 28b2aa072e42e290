package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCounterService_NextStartsAfterSeed(t *testing.T) {
	db := setupTestDB(t)
	counters := NewCounterService(db, 20250074)
	ctx := context.Background()

	current, err := counters.Current(ctx, OrderCounter)
	require.NoError(t, err)
	assert.Equal(t, int64(20250074), current)

	first, err := counters.Next(ctx, OrderCounter)
	require.NoError(t, err)
	assert.Equal(t, int64(20250075), first)

	second, err := counters.Next(ctx, OrderCounter)
	require.NoError(t, err)
	assert.Equal(t, int64(20250076), second)
}

func TestCounterService_EnsureKeepsExistingValue(t *testing.T) {
	db := setupTestDB(t)
	counters := NewCounterService(db, 100)
	ctx := context.Background()

	require.NoError(t, counters.Ensure(ctx, OrderCounter))
	_, err := counters.Next(ctx, OrderCounter)
	require.NoError(t, err)

	require.NoError(t, counters.Ensure(ctx, OrderCounter))
	current, err := counters.Current(ctx, OrderCounter)
	require.NoError(t, err)
	assert.Equal(t, int64(101), current)
}

func TestCounterService_RollbackReturnsNumber(t *testing.T) {
	db := setupTestDB(t)
	counters := NewCounterService(db, 100)
	ctx := context.Background()
	require.NoError(t, counters.Ensure(ctx, OrderCounter))

	err := db.Transaction(func(tx *gorm.DB) error {
		n, err := counters.NextInTx(tx, OrderCounter)
		require.NoError(t, err)
		assert.Equal(t, int64(101), n)
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	n, err := counters.Next(ctx, OrderCounter)
	require.NoError(t, err)
	assert.Equal(t, int64(101), n)
}

func TestCounterService_ConcurrentNextIsUnique(t *testing.T) {
	db := setupTestDB(t)
	counters := NewCounterService(db, 0)
	ctx := context.Background()
	require.NoError(t, counters.Ensure(ctx, OrderCounter))

	const workers = 20
	var wg sync.WaitGroup
	results := make(chan int64, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n, err := counters.Next(ctx, OrderCounter)
			assert.NoError(t, err)
			results <- n
		}()
	}
	wg.Wait()
	close(results)

	seen := map[int64]bool{}
	for n := range results {
		assert.False(t, seen[n], "number %d issued twice", n)
		seen[n] = true
	}
	assert.Len(t, seen, workers)
	for n := int64(1); n <= workers; n++ {
		assert.True(t, seen[n], "number %d missing", n)
	}
}
