// Package cache provides client-side caching of downloaded documents.
package cache

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/Logesh-Devops/caconnect-clientui/pkg/models"
)

// Cache manages locally cached document blobs, evicting least-recently-used
// entries when the size bound is exceeded.
type Cache struct {
	dir     string
	maxSize int64

	mu      sync.RWMutex
	entries map[string]*models.CacheEntry
	size    int64
}

// New creates a cache rooted at dir, rebuilding the index from any blobs
// already on disk so entries survive across program runs.
func New(dir string, maxSize int64) (*Cache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}

	c := &Cache{
		dir:     dir,
		maxSize: maxSize,
		entries: make(map[string]*models.CacheEntry),
	}

	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scan cache dir: %w", err)
	}
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		if strings.HasSuffix(f.Name(), ".tmp") {
			// Leftover temp files are from interrupted writes.
			os.Remove(filepath.Join(dir, f.Name()))
			continue
		}
		info, err := f.Info()
		if err != nil {
			continue
		}
		c.entries[f.Name()] = &models.CacheEntry{
			DocumentID: f.Name(),
			LocalPath:  filepath.Join(dir, f.Name()),
			Size:       info.Size(),
			LastAccess: info.ModTime(),
		}
		c.size += info.Size()
	}

	return c, nil
}

// Get returns the local path if the document is cached.
func (c *Cache) Get(documentID string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[documentID]
	if !ok {
		return "", false
	}
	entry.LastAccess = time.Now()
	return entry.LocalPath, true
}

// Put stores a document in the cache.
// Content is written atomically (temp file then rename).
func (c *Cache) Put(documentID string, r io.Reader, size int64) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for c.size+size > c.maxSize {
		if !c.evictOldest() {
			break // Nothing to evict
		}
	}

	localPath := filepath.Join(c.dir, documentID)
	tempPath := localPath + ".tmp"

	f, err := os.Create(tempPath)
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}

	written, err := io.Copy(f, r)
	f.Close()
	if err != nil {
		os.Remove(tempPath)
		return "", fmt.Errorf("write content: %w", err)
	}

	if err := os.Rename(tempPath, localPath); err != nil {
		os.Remove(tempPath)
		return "", fmt.Errorf("rename temp file: %w", err)
	}

	c.entries[documentID] = &models.CacheEntry{
		DocumentID: documentID,
		LocalPath:  localPath,
		Size:       written,
		LastAccess: time.Now(),
	}
	c.size += written

	return localPath, nil
}

// Evict removes a document from the cache.
func (c *Cache) Evict(documentID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[documentID]
	if !ok {
		return nil
	}

	os.Remove(entry.LocalPath)
	c.size -= entry.Size
	delete(c.entries, documentID)
	return nil
}

// evictOldest removes the least recently used entry.
// Must be called with lock held.
func (c *Cache) evictOldest() bool {
	var oldest *models.CacheEntry
	var oldestID string

	for id, entry := range c.entries {
		if oldest == nil || entry.LastAccess.Before(oldest.LastAccess) {
			oldest = entry
			oldestID = id
		}
	}

	if oldest == nil {
		return false
	}

	os.Remove(oldest.LocalPath)
	c.size -= oldest.Size
	delete(c.entries, oldestID)
	return true
}

// Stats returns cache statistics.
func (c *Cache) Stats() (size, maxSize int64, count int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.size, c.maxSize, len(c.entries)
}

// IsCached returns true if the document is cached.
func (c *Cache) IsCached(documentID string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.entries[documentID]
	return ok
}

// Clear removes every cached document; called on logout.
func (c *Cache) Clear() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	count := 0
	for id, entry := range c.entries {
		os.Remove(entry.LocalPath)
		c.size -= entry.Size
		delete(c.entries, id)
		count++
	}
	return count
}

// Dir returns the cache directory path.
func (c *Cache) Dir() string {
	return c.dir
}
