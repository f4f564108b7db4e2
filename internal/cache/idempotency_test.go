package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memKV mimics go-redis: commands fail once their context is done.
type memKV struct {
	mu   sync.Mutex
	data map[string]string
	ttls map[string]time.Duration
	fail error
}

func newMemKV() *memKV {
	return &memKV{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (m *memKV) SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return false, m.fail
	}
	if _, ok := m.data[key]; ok {
		return false, nil
	}
	m.data[key] = value
	m.ttls[key] = ttl
	return true, nil
}

func (m *memKV) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	m.ttls[key] = ttl
	return nil
}

func (m *memKV) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return "", ErrCacheMiss
	}
	return v, nil
}

func (m *memKV) Delete(ctx context.Context, keys ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
		delete(m.ttls, k)
	}
	return nil
}

func TestClaimLifecycle(t *testing.T) {
	ctx := context.Background()
	kv := newMemKV()
	store := NewSaleIdempotency(kv, time.Hour)

	claimed, id, err := store.Claim(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, claimed)
	assert.Zero(t, id)
	assert.Equal(t, "pending", kv.data["idempotency:sale:abc"])

	claimed, id, err = store.Claim(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, claimed, "second claim while pending")
	assert.Zero(t, id)

	require.NoError(t, store.Complete(ctx, "abc", 42))

	claimed, id, err = store.Claim(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, claimed)
	assert.Equal(t, uint(42), id)
}

func TestReleaseAllowsRetry(t *testing.T) {
	ctx := context.Background()
	store := NewSaleIdempotency(newMemKV(), time.Hour)

	claimed, _, err := store.Claim(ctx, "k")
	require.NoError(t, err)
	require.True(t, claimed)

	require.NoError(t, store.Release(ctx, "k"))

	claimed, _, err = store.Claim(ctx, "k")
	require.NoError(t, err)
	assert.True(t, claimed)
}

func TestClaimSurfacesBackendErrors(t *testing.T) {
	kv := newMemKV()
	kv.fail = errors.New("connection refused")

	_, _, err := NewSaleIdempotency(kv, time.Hour).Claim(context.Background(), "k")
	assert.ErrorContains(t, err, "connection refused")
}

func TestClaimRejectsCorruptValue(t *testing.T) {
	kv := newMemKV()
	kv.data["idempotency:sale:k"] = "not-a-number"

	_, _, err := NewSaleIdempotency(kv, time.Hour).Claim(context.Background(), "k")
	assert.ErrorContains(t, err, "corrupt idempotency value")
}

func TestPendingClaimExpiresSooner(t *testing.T) {
	ctx := context.Background()
	kv := newMemKV()
	store := NewSaleIdempotency(kv, 24*time.Hour)

	claimed, _, err := store.Claim(ctx, "k")
	require.NoError(t, err)
	require.True(t, claimed)
	assert.Equal(t, DefaultPendingTTL, kv.ttls["idempotency:sale:k"])

	require.NoError(t, store.Complete(ctx, "k", 7))
	assert.Equal(t, 24*time.Hour, kv.ttls["idempotency:sale:k"])
}

func TestPendingTTLNeverExceedsTTL(t *testing.T) {
	kv := newMemKV()
	store := NewSaleIdempotency(kv, 30*time.Second)

	_, _, err := store.Claim(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, kv.ttls["idempotency:sale:k"])
}

func TestCanceledContextLeavesKeyPending(t *testing.T) {
	kv := newMemKV()
	store := NewSaleIdempotency(kv, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	_, _, err := store.Claim(ctx, "k")
	require.NoError(t, err)
	cancel()

	assert.ErrorIs(t, store.Release(ctx, "k"), context.Canceled)
	assert.Equal(t, "pending", kv.data["idempotency:sale:k"])

	require.NoError(t, store.Release(context.WithoutCancel(ctx), "k"))
	_, held := kv.data["idempotency:sale:k"]
	assert.False(t, held)
}
