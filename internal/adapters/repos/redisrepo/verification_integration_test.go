//go:build integration

package redisrepo

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"

	"gitlab.com/nestpass/twofa-backend/internal/domain/twofa"
)

func newTestClient(t *testing.T) *redis.Client {
	t.Helper()

	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	addr, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	opts, err := redis.ParseURL(addr)
	require.NoError(t, err)

	client := redis.NewClient(opts)
	require.NoError(t, client.Ping(ctx).Err())
	t.Cleanup(func() {
		_ = client.Close()
	})

	return client
}

func mustNewRecord(t *testing.T, userID, userStatus string) *twofa.Record {
	t.Helper()

	rec, err := twofa.NewRecord(twofa.NewRecordArgs{
		UserID:     userID,
		Email:      "user@example.com",
		UserStatus: userStatus,
	})
	require.NoError(t, err)

	return rec
}

func TestVerificationStore_SaveGet(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)
	store := NewVerificationStore(client, nil, nil)

	rec := mustNewRecord(t, "user-1", "active")
	require.NoError(t, store.Save(ctx, rec))

	got, err := store.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, rec.Code(), got.Code())
	assert.EqualValues(t, twofa.DefaultRetries, got.Retries())
	assert.Equal(t, "active", got.UserStatus())
}

func TestVerificationStore_GetMissing(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)
	store := NewVerificationStore(client, nil, nil)

	_, err := store.Get(ctx, "nobody")
	require.Error(t, err)
	assert.ErrorIs(t, err, twofa.ErrCodeNotFound)
}

func TestVerificationStore_SaveSetsTTL(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)
	store := NewVerificationStore(client, nil, nil)

	rec := mustNewRecord(t, "user-1", "")
	require.NoError(t, store.Save(ctx, rec))

	ttl, err := client.TTL(ctx, Key("user-1")).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, twofa.TTL-5*time.Second)
	assert.LessOrEqual(t, ttl, twofa.TTL)
}

func TestVerificationStore_SaveOverwritesAndResetsTTL(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)
	store := NewVerificationStore(client, nil, nil)

	first := mustNewRecord(t, "user-1", "")
	require.NoError(t, store.Save(ctx, first))

	// burn some attempts so the overwrite visibly resets them
	_, err := store.DecrementRetries(ctx, "user-1")
	require.NoError(t, err)

	second := mustNewRecord(t, "user-1", "")
	require.NoError(t, store.Save(ctx, second))

	got, err := store.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, second.Code(), got.Code())
	assert.EqualValues(t, twofa.DefaultRetries, got.Retries())

	ttl, err := client.TTL(ctx, Key("user-1")).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, twofa.TTL-5*time.Second)
}

func TestVerificationStore_DecrementRetries(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)
	store := NewVerificationStore(client, nil, nil)

	rec := mustNewRecord(t, "user-1", "active")
	require.NoError(t, store.Save(ctx, rec))

	for want := twofa.DefaultRetries - 1; want >= 0; want-- {
		got, err := store.DecrementRetries(ctx, "user-1")
		require.NoError(t, err)
		assert.EqualValues(t, want, got.Retries())
		assert.Equal(t, rec.Code(), got.Code())
		assert.Equal(t, "active", got.UserStatus())
	}

	_, err := store.DecrementRetries(ctx, "user-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, twofa.ErrRetriesExhausted)
}

func TestVerificationStore_DecrementPreservesTTL(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)
	store := NewVerificationStore(client, nil, nil)

	rec := mustNewRecord(t, "user-1", "")
	require.NoError(t, store.Save(ctx, rec))

	time.Sleep(1100 * time.Millisecond)

	_, err := store.DecrementRetries(ctx, "user-1")
	require.NoError(t, err)

	ttl, err := client.TTL(ctx, Key("user-1")).Result()
	require.NoError(t, err)
	assert.Less(t, ttl, twofa.TTL)
	assert.Greater(t, ttl, twofa.TTL-5*time.Second)
}

func TestVerificationStore_ConcurrentSaves(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)
	store := NewVerificationStore(client, nil, nil)

	first := mustNewRecord(t, "user-1", "")
	second := mustNewRecord(t, "user-1", "")

	var wg sync.WaitGroup
	for _, rec := range []*twofa.Record{first, second} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, store.Save(ctx, rec))
		}()
	}
	wg.Wait()

	// last write wins: exactly one record survives and it is one of the two
	got, err := store.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Contains(t, []string{first.Code(), second.Code()}, got.Code())
	assert.Len(t, got.Code(), twofa.CodeLength)
	assert.EqualValues(t, twofa.DefaultRetries, got.Retries())

	ttl, err := client.TTL(ctx, Key("user-1")).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, twofa.TTL-5*time.Second)
}

func TestVerificationStore_ConcurrentDecrements(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)
	store := NewVerificationStore(client, nil, nil)

	rec := mustNewRecord(t, "user-1", "")
	require.NoError(t, store.Save(ctx, rec))

	const goroutines = 5
	var wg sync.WaitGroup
	for range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = store.DecrementRetries(ctx, "user-1")
		}()
	}
	wg.Wait()

	got, err := store.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, got.Retries(), int8(0))
	assert.LessOrEqual(t, got.Retries(), int8(twofa.DefaultRetries))
}

func TestVerificationStore_Delete(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)
	store := NewVerificationStore(client, nil, nil)

	rec := mustNewRecord(t, "user-1", "")
	require.NoError(t, store.Save(ctx, rec))
	require.NoError(t, store.Delete(ctx, "user-1"))

	_, err := store.Get(ctx, "user-1")
	assert.ErrorIs(t, err, twofa.ErrCodeNotFound)

	// deleting a missing key is not an error
	require.NoError(t, store.Delete(ctx, "user-1"))
}
