// Package cache provides artifact caching for the render pipeline. Rendering
// at print resolution shells out to librsvg and re-encodes large rasters, so
// repeated renders of an unchanged document are served from disk instead.
package cache

import (
	"context"
	"time"
)

// TTLs per artifact class. Resolved layouts are cheap to recompute, so they
// expire quickly; rendered artifacts are the expensive part.
const (
	TTLLayout   = 1 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key-value store with per-entry expiration.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key was
	// present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A non-positive ttl stores the entry without
	// expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}

// ArtifactKeyOpts are the render parameters that participate in artifact
// cache keys. Two renders with the same document hash and the same opts are
// byte-identical.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
	DPI    int    `json:"dpi,omitempty"`
	Frames bool   `json:"frames,omitempty"`
}

// Keyer generates cache keys from content hashes and render parameters.
type Keyer interface {
	// LayoutKey generates a key for cached resolved layouts.
	LayoutKey(docHash string) string

	// ArtifactKey generates a key for cached render artifacts.
	ArtifactKey(docHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer is the standard key scheme: prefix:sha256(parts).
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// LayoutKey generates a key for cached resolved layouts.
func (k *DefaultKeyer) LayoutKey(docHash string) string {
	return hashKey("layout", docHash)
}

// ArtifactKey generates a key for cached render artifacts.
func (k *DefaultKeyer) ArtifactKey(docHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", docHash, opts)
}
