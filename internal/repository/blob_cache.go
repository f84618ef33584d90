package repository

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileBlobCache stores photo bytes on disk, one blob per photo id plus a
// mime sidecar. Bytes for a given id never change once resolved, so entries
// carry no TTL.
type FileBlobCache struct {
	dir string
}

func NewFileBlobCache(dir string) (*FileBlobCache, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create blob dir: %w", err)
	}
	return &FileBlobCache{dir: dir}, nil
}

// Get returns the cached bytes and mime type for id.
func (c *FileBlobCache) Get(id string) ([]byte, string, bool) {
	data, err := os.ReadFile(c.blobPath(id))
	if err != nil {
		return nil, "", false
	}
	mime, err := os.ReadFile(c.mimePath(id))
	if err != nil {
		return data, "application/octet-stream", true
	}
	return data, strings.TrimSpace(string(mime)), true
}

// Put writes the blob and its mime sidecar.
func (c *FileBlobCache) Put(id string, data []byte, mimeType string) error {
	if err := os.WriteFile(c.blobPath(id), data, 0o600); err != nil {
		return fmt.Errorf("write blob %s: %w", id, err)
	}
	if err := os.WriteFile(c.mimePath(id), []byte(mimeType), 0o600); err != nil {
		return fmt.Errorf("write blob mime %s: %w", id, err)
	}
	return nil
}

// Delete removes the blob for id. Deleting an absent blob is not an error.
func (c *FileBlobCache) Delete(id string) error {
	var firstErr error
	for _, p := range []string{c.blobPath(id), c.mimePath(id)} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) && firstErr == nil {
			firstErr = fmt.Errorf("remove %s: %w", p, err)
		}
	}
	return firstErr
}

// Clear removes every cached blob.
func (c *FileBlobCache) Clear() error {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return fmt.Errorf("read blob dir: %w", err)
	}
	var firstErr error
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if err := os.Remove(filepath.Join(c.dir, entry.Name())); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("remove %s: %w", entry.Name(), err)
		}
	}
	return firstErr
}

// Vendor ids can contain characters that are unsafe in filenames, so blobs
// are keyed by the hex encoding of the id.
func (c *FileBlobCache) blobPath(id string) string {
	return filepath.Join(c.dir, hex.EncodeToString([]byte(id))+".blob")
}

func (c *FileBlobCache) mimePath(id string) string {
	return filepath.Join(c.dir, hex.EncodeToString([]byte(id))+".mime")
}
