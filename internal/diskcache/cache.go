// Package diskcache is a content-addressable byte store: one file per
// key under a root directory, with in-flight request coalescing so a
// given key is fetched over the network at most once at a time across
// the whole process. Presence on disk is treated as validity; there is
// no expiry and no eviction.
package diskcache

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// How long late joiners wait between disk re-checks while another
// caller's fetch for the same key is in flight.
const pollInterval = 100 * time.Millisecond

// FetchFunc downloads the bytes for a key on a cache miss.
type FetchFunc func(ctx context.Context) ([]byte, error)

// Cache persists byte blobs under root. Writes to different keys need
// no coordination; the pending set is the only shared state.
type Cache struct {
	log  *zap.Logger
	root string

	mu      sync.Mutex
	pending map[string]struct{}
}

// New creates a cache rooted at root. The directory is created lazily
// on first save.
func New(log *zap.Logger, root string) (*Cache, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("cache root required")
	}
	return &Cache{
		log:     log,
		root:    root,
		pending: make(map[string]struct{}),
	}, nil
}

// Path returns the file backing key.
func (c *Cache) Path(key string) string {
	return filepath.Join(c.root, safeFilename(key))
}

// Load reads the bytes cached for key. A missing file is a miss, not
// an error; unexpected read failures are logged and also reported as
// misses so callers fall through to the network.
func (c *Cache) Load(key string) ([]byte, bool) {
	data, err := os.ReadFile(c.Path(key))
	if err != nil {
		if !os.IsNotExist(err) {
			c.log.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	return data, true
}

// Save writes the bytes for key, creating parent directories as
// needed. The write goes through a temp file and rename so concurrent
// readers never see a partial blob.
func (c *Cache) Save(key string, data []byte) error {
	path := c.Path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := fmt.Sprintf("%s.tmp.%d", path, time.Now().UnixNano())
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// FetchOrPopulate returns the cached bytes for key, invoking fetch on
// a miss. Across the process at most one fetch per key runs at a time:
// concurrent callers for the same key poll the disk cache until the
// first fetch completes, then read the freshly written file. A failed
// fetch is not cached, so the next caller retries the network.
func (c *Cache) FetchOrPopulate(ctx context.Context, key string, fetch FetchFunc) ([]byte, error) {
	for {
		if data, ok := c.Load(key); ok {
			return data, nil
		}

		c.mu.Lock()
		if _, inFlight := c.pending[key]; inFlight {
			c.mu.Unlock()
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(pollInterval):
			}
			continue
		}
		c.pending[key] = struct{}{}
		c.mu.Unlock()

		data, err := fetch(ctx)
		if err == nil {
			if saveErr := c.Save(key, data); saveErr != nil {
				c.log.Warn("cache write failed", zap.String("key", key), zap.Error(saveErr))
			}
		}

		c.mu.Lock()
		delete(c.pending, key)
		c.mu.Unlock()

		return data, err
	}
}

// Clear deletes the entire cache root. In-flight fetches are not
// cancelled; they repopulate the directory when they complete.
func (c *Cache) Clear() error {
	return os.RemoveAll(c.root)
}

func safeFilename(key string) string {
	replacer := strings.NewReplacer(":", "_", "/", "_", "\\", "_", " ", "_")
	return replacer.Replace(key)
}
