package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const claimTTL = 15 * time.Minute

// OfferDeduper provides the short-window half of offer idempotency: a SETNX
// claim absorbs tight retry races before the created trade document becomes
// visible to the persistent idempotency-key lookup.
// Key format: offer:claim:<idempotency_key>
type OfferDeduper struct {
	client *redis.Client
}

// NewOfferDeduper creates an OfferDeduper wrapping the given Redis client.
func NewOfferDeduper(client *redis.Client) *OfferDeduper {
	return &OfferDeduper{client: client}
}

// Claim atomically marks the key as in-flight. Returns false when another
// request already holds it. The claim expires after claimTTL so a crashed
// request cannot block the key forever.
func (d *OfferDeduper) Claim(ctx context.Context, key string) (bool, error) {
	ok, err := d.client.SetNX(ctx, d.key(key), "1", claimTTL).Result()
	if err != nil {
		return false, fmt.Errorf("offer claim: %w", err)
	}
	return ok, nil
}

// Release frees the key after a failed creation so the client can retry.
func (d *OfferDeduper) Release(ctx context.Context, key string) error {
	return d.client.Del(ctx, d.key(key)).Err()
}

func (d *OfferDeduper) key(k string) string {
	return "offer:claim:" + k
}
