package repository

import (
	"fmt"

	"github.com/zihao-lin/photoframe/internal/service"

	"github.com/dgraph-io/ristretto"
)

type hotEntry struct {
	data     []byte
	mimeType string
}

// HotBlobCache layers a bounded in-memory cache over another blob cache so
// the slideshow's working set stays off the filesystem. The inner cache is
// authoritative; Delete and Clear drop both tiers so removed bytes can never
// be served from memory.
type HotBlobCache struct {
	inner service.BlobCache
	hot   *ristretto.Cache
}

func NewHotBlobCache(inner service.BlobCache, maxBytes int64) (*HotBlobCache, error) {
	hot, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 10_000,
		MaxCost:     maxBytes,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("build hot blob cache: %w", err)
	}
	return &HotBlobCache{inner: inner, hot: hot}, nil
}

func (c *HotBlobCache) Get(id string) ([]byte, string, bool) {
	if cached, ok := c.hot.Get(id); ok {
		if entry, ok := cached.(hotEntry); ok {
			return entry.data, entry.mimeType, true
		}
	}
	data, mimeType, ok := c.inner.Get(id)
	if !ok {
		return nil, "", false
	}
	c.hot.Set(id, hotEntry{data: data, mimeType: mimeType}, int64(len(data)))
	return data, mimeType, true
}

func (c *HotBlobCache) Put(id string, data []byte, mimeType string) error {
	if err := c.inner.Put(id, data, mimeType); err != nil {
		return err
	}
	c.hot.Set(id, hotEntry{data: data, mimeType: mimeType}, int64(len(data)))
	// Set is buffered; Wait so a Delete issued right after cannot race a
	// write still in flight.
	c.hot.Wait()
	return nil
}

func (c *HotBlobCache) Delete(id string) error {
	c.hot.Del(id)
	return c.inner.Delete(id)
}

func (c *HotBlobCache) Clear() error {
	c.hot.Clear()
	return c.inner.Clear()
}
