// Package cache provides byte-level caching for computed layouts.
//
// Static graph placement is the one expensive, deterministic step in the
// pipeline, so its results are cached keyed by a hash of the graph
// structure and the placement options. Three backends share one
// interface: a file cache for the CLI, a redis cache for shared
// deployments, and a null cache for tests and --no-cache runs.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// DefaultTTL is the default expiry for cached layouts. Placements are
// deterministic per (graph, options), so the TTL mainly bounds disk usage.
const DefaultTTL = 7 * 24 * time.Hour

// Cache stores opaque byte values under string keys.
type Cache interface {
	// Get retrieves a value. The second return reports a hit.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A non-positive ttl stores without expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// =============================================================================
// Keys
// =============================================================================

// LayoutKeyOpts are the placement options that participate in the cache
// key. Two placements with equal graph hash and equal opts are
// interchangeable.
type LayoutKeyOpts struct {
	Engine string `json:"engine"` // Graphviz layout engine
	Seed   uint64 `json:"seed"`
}

// LayoutKey builds the cache key for a placement of the graph identified
// by graphHash.
func LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts)
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// hashKey generates a cache key by hashing the components.
// The key format is: prefix:hash(parts...)
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}
