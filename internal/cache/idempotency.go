package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"
)

var ErrCacheMiss = errors.New("cache miss")

const (
	idempotencyPrefix = "idempotency:sale:"
	pendingMarker     = "pending"

	// DefaultPendingTTL bounds how long an abandoned claim blocks retries.
	DefaultPendingTTL = 2 * time.Minute
)

// KV is the subset of Redis commands the idempotency store needs.
type KV interface {
	SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, keys ...string) error
}

// SaleIdempotency maps Idempotency-Key headers to the sale they created.
// A key holds "pending" for at most pendingTTL while the first request runs,
// then the sale id for the full ttl.
type SaleIdempotency struct {
	kv         KV
	ttl        time.Duration
	pendingTTL time.Duration
}

func NewSaleIdempotency(kv KV, ttl time.Duration) *SaleIdempotency {
	pending := DefaultPendingTTL
	if ttl > 0 && ttl < pending {
		pending = ttl
	}
	return &SaleIdempotency{kv: kv, ttl: ttl, pendingTTL: pending}
}

func (s *SaleIdempotency) key(k string) string {
	return idempotencyPrefix + k
}

func (s *SaleIdempotency) Claim(ctx context.Context, key string) (bool, uint, error) {
	ok, err := s.kv.SetNX(ctx, s.key(key), pendingMarker, s.pendingTTL)
	if err != nil {
		return false, 0, fmt.Errorf("failed to claim idempotency key: %w", err)
	}
	if ok {
		return true, 0, nil
	}

	v, err := s.kv.Get(ctx, s.key(key))
	if errors.Is(err, ErrCacheMiss) {
		// Expired between SETNX and GET; try once more.
		ok, err = s.kv.SetNX(ctx, s.key(key), pendingMarker, s.pendingTTL)
		if err != nil {
			return false, 0, fmt.Errorf("failed to claim idempotency key: %w", err)
		}
		return ok, 0, nil
	}
	if err != nil {
		return false, 0, fmt.Errorf("failed to read idempotency key: %w", err)
	}
	if v == pendingMarker {
		return false, 0, nil
	}

	id, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return false, 0, fmt.Errorf("corrupt idempotency value %q: %w", v, err)
	}
	return false, uint(id), nil
}

func (s *SaleIdempotency) Complete(ctx context.Context, key string, saleID uint) error {
	return s.kv.Set(ctx, s.key(key), strconv.FormatUint(uint64(saleID), 10), s.ttl)
}

func (s *SaleIdempotency) Release(ctx context.Context, key string) error {
	return s.kv.Delete(ctx, s.key(key))
}
