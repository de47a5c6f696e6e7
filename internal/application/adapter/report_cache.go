package adapter

import (
	"context"
	"time"
)

// ReportCache stores rendered reports keyed by year and sync versions.
// A miss is not an error: (nil, false, nil).
type ReportCache interface {
	// Get returns the cached report bytes for a key.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores report bytes under a key with a TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}
