package cache

import (
	"context"
	"os"
	"path/filepath"
	"time"
)

// FileCache stores cached artifacts as files on disk.
//
// Payloads are written raw rather than wrapped in an envelope: rendered
// artifacts (PDF, PNG, TIFF) run into megabytes, and base64-encoding them
// into JSON would triple the cache footprint. Expiry lives in a small
// sidecar file next to the payload; entries without a sidecar never expire.
type FileCache struct {
	dir string
}

// NewFileCache creates a file-based cache rooted at dir.
// The directory is created if it doesn't exist.
func NewFileCache(dir string) (Cache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir}, nil
}

// Get retrieves a value from the cache.
func (c *FileCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	path := c.path(key)

	if expired, err := c.expired(path); err != nil || expired {
		if expired {
			c.remove(path)
		}
		return nil, false, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Set stores a value in the cache. A non-positive ttl stores the entry
// without expiration.
func (c *FileCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	path := c.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return err
	}

	if ttl <= 0 {
		// Replacing an expiring entry with a permanent one drops the sidecar.
		_ = os.Remove(path + expirySuffix)
		return nil
	}
	deadline := time.Now().Add(ttl).UTC().Format(time.RFC3339Nano)
	return os.WriteFile(path+expirySuffix, []byte(deadline), 0644)
}

// Delete removes a value from the cache.
func (c *FileCache) Delete(ctx context.Context, key string) error {
	path := c.path(key)
	err := os.Remove(path)
	_ = os.Remove(path + expirySuffix)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Close does nothing for the file cache.
func (c *FileCache) Close() error {
	return nil
}

// expirySuffix marks the sidecar file holding an entry's deadline.
const expirySuffix = ".expires"

// expired reports whether the entry at path has passed its deadline.
// Entries without a sidecar, or with an unreadable one, never expire.
func (c *FileCache) expired(path string) (bool, error) {
	raw, err := os.ReadFile(path + expirySuffix)
	if err != nil {
		return false, nil
	}
	deadline, err := time.Parse(time.RFC3339Nano, string(raw))
	if err != nil {
		return false, nil
	}
	return time.Now().After(deadline), nil
}

// remove deletes an entry and its sidecar, ignoring errors.
func (c *FileCache) remove(path string) {
	_ = os.Remove(path)
	_ = os.Remove(path + expirySuffix)
}

// path converts a cache key to a file path. The first two hash characters
// become a shard directory so no single directory accumulates every artifact.
func (c *FileCache) path(key string) string {
	hash := Hash([]byte(key))
	return filepath.Join(c.dir, hash[:2], hash[2:]+".bin")
}

// Ensure FileCache implements Cache.
var _ Cache = (*FileCache)(nil)
