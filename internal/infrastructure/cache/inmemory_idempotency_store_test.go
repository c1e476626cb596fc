package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInMemoryIdempotencyStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryIdempotencyStore()
	defer s.Close()

	_, found, err := s.Lookup(ctx, "k1")
	require.NoError(t, err)
	assert.False(t, found)

	ok, err := s.Reserve(ctx, "k1", time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Reserve(ctx, "k1", time.Hour)
	require.NoError(t, err)
	assert.False(t, ok, "second reserve loses")

	resp, found, err := s.Lookup(ctx, "k1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Nil(t, resp, "in flight")

	require.NoError(t, s.Complete(ctx, "k1", []byte(`{"order_no":"QK-2026-0001"}`), time.Hour))
	resp, found, err = s.Lookup(ctx, "k1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.JSONEq(t, `{"order_no":"QK-2026-0001"}`, string(resp))
}

func TestInMemoryIdempotencyStore_ReleaseAndExpiry(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryIdempotencyStore()
	defer s.Close()

	ok, err := s.Reserve(ctx, "k", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, s.Release(ctx, "k"))

	ok, err = s.Reserve(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok, "released key can be reserved again")

	s.mu.Lock()
	s.now = func() time.Time { return time.Now().Add(time.Hour) }
	s.mu.Unlock()

	_, found, err := s.Lookup(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)

	s.cleanup()
	assert.Equal(t, 0, s.Size())
}

func TestInMemoryIdempotencyStore_ConcurrentReserve(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryIdempotencyStore()
	defer s.Close()

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := s.Reserve(ctx, "same", time.Minute); ok {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), wins.Load())
}

func TestInMemoryIdempotencyStore_CloseTwice(t *testing.T) {
	s := NewInMemoryIdempotencyStore()
	assert.NoError(t, s.Close())
	assert.NoError(t, s.Close())
}

func TestNewIdempotencyStore_FallsBackWithoutRedis(t *testing.T) {
	s := NewIdempotencyStore(nil, zap.NewNop())
	defer s.Close()
	_, ok := s.(*InMemoryIdempotencyStore)
	assert.True(t, ok)
}
