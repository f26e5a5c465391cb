package cache

import (
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"
)

// headerLen is the size of the expiry stamp in front of every entry.
const headerLen = 8

// FileCache keeps rendered snippets on disk, one file per key. A file holds
// the expiry as big-endian Unix nanoseconds (zero for none) followed by the
// raw snippet bytes, so a 200x400 snippet costs 80 KB plus the stamp.
type FileCache struct {
	dir    string
	hits   atomic.Int64
	misses atomic.Int64
}

// NewFileCache opens a snippet cache rooted at dir, creating it if needed.
func NewFileCache(dir string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir}, nil
}

// Get returns the stored snippet. Truncated and expired files are removed
// and count as misses.
func (c *FileCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	path := c.path(key)
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		c.misses.Add(1)
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	if len(raw) < headerLen || expired(raw[:headerLen]) {
		_ = os.Remove(path)
		c.misses.Add(1)
		return nil, false, nil
	}
	c.hits.Add(1)
	return raw[headerLen:], true, nil
}

// Set writes a snippet through a temporary file and a rename, so parallel
// row workers never read a partial entry.
func (c *FileCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	raw := make([]byte, headerLen+len(data))
	if ttl > 0 {
		binary.BigEndian.PutUint64(raw, uint64(time.Now().Add(ttl).UnixNano()))
	}
	copy(raw[headerLen:], data)

	path := c.path(key)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".snip-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Delete removes a snippet; a missing one is not an error.
func (c *FileCache) Delete(ctx context.Context, key string) error {
	if err := os.Remove(c.path(key)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Close implements Cache. Entries are already durable after Set.
func (c *FileCache) Close() error { return nil }

// Stats returns the hit and miss counts since the cache was opened.
func (c *FileCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// path spreads entries over 256 subdirectories by the first hash byte.
func (c *FileCache) path(key string) string {
	h := Hash([]byte(key))
	return filepath.Join(c.dir, h[:2], h[2:]+".snip")
}

func expired(stamp []byte) bool {
	ns := int64(binary.BigEndian.Uint64(stamp))
	return ns != 0 && time.Now().UnixNano() > ns
}

var _ Cache = (*FileCache)(nil)
