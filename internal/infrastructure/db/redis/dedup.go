package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const dedupTTL = time.Hour

// DedupChecker suppresses duplicate change-event fanout backed by Redis.
// Key format: fanout:<audit_entry_id>
type DedupChecker struct {
	client *redis.Client
}

// NewDedupChecker creates a DedupChecker wrapping the given Redis client.
func NewDedupChecker(client *redis.Client) *DedupChecker {
	return &DedupChecker{client: client}
}

// IsDuplicate reports whether this audit entry has already been fanned out.
func (d *DedupChecker) IsDuplicate(ctx context.Context, entryID string) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(entryID)).Result()
	if err != nil {
		return false, fmt.Errorf("dedup check: %w", err)
	}
	return n > 0, nil
}

// Mark records that this audit entry has been processed (expires after
// dedupTTL).
func (d *DedupChecker) Mark(ctx context.Context, entryID string) error {
	return d.client.Set(ctx, d.key(entryID), "1", dedupTTL).Err()
}

func (d *DedupChecker) key(entryID string) string {
	return fmt.Sprintf("fanout:%s", entryID)
}
