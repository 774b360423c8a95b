package adapter

import (
	"fmt"
	"os"
	"sync"

	m "github.com/hatchet-lint/hatchet/internal/model"
	"github.com/hatchet-lint/hatchet/pkg"
	"github.com/zeebo/xxh3"
)

// cacheRecord is one persisted per-file check result.
type cacheRecord struct {
	Path   string
	Hash   uint64
	Report m.FileReport
}

// ResultCache lets repeated runs skip files whose content has not
// changed since their last check.
type ResultCache interface {
	// Lookup returns the cached report for path when the stored
	// content hash still matches.
	Lookup(path m.Path, hash uint64) (m.FileReport, bool)

	// Store records the report for path under the given content hash.
	Store(path m.Path, hash uint64, report m.FileReport)

	// Flush persists the cache to disk.
	Flush() error
}

// HashContent fingerprints file content for cache lookups.
func HashContent(content []byte) uint64 {
	return xxh3.Hash(content)
}

type fileResultCache struct {
	path    string
	mu      sync.Mutex
	entries map[string]cacheRecord
	dirty   bool
}

// NewFileResultCache loads (or initializes) a cache persisted at path.
// A corrupt cache file is discarded rather than failing the run.
func NewFileResultCache(path string) ResultCache {
	cache := &fileResultCache{
		path:    path,
		entries: map[string]cacheRecord{},
	}

	if err := pkg.ReadSpill(path, func(record cacheRecord) error {
		cache.entries[record.Path] = record
		return nil
	}); err != nil {
		cache.entries = map[string]cacheRecord{}
	}

	return cache
}

// Lookup implements ResultCache.
func (c *fileResultCache) Lookup(path m.Path, hash uint64) (m.FileReport, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	record, ok := c.entries[string(path)]
	if !ok || record.Hash != hash {
		return m.FileReport{}, false
	}

	return record.Report, true
}

// Store implements ResultCache.
func (c *fileResultCache) Store(path m.Path, hash uint64, report m.FileReport) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[string(path)] = cacheRecord{Path: string(path), Hash: hash, Report: report}
	c.dirty = true
}

// Flush implements ResultCache. The file is rewritten atomically.
func (c *fileResultCache) Flush() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.dirty {
		return nil
	}

	tmp := c.path + ".tmp"

	spill, err := pkg.NewFileSpillAt[cacheRecord](tmp)
	if err != nil {
		return err
	}

	for _, record := range c.entries {
		if err := spill.Append(record); err != nil {
			_ = spill.Close()
			return err
		}
	}

	if err := spill.Close(); err != nil {
		return err
	}

	if err := os.Rename(tmp, c.path); err != nil {
		return fmt.Errorf("failed to replace cache file: %w", err)
	}

	c.dirty = false

	return nil
}

// noopResultCache is used when caching is disabled.
type noopResultCache struct{}

// NewNoopResultCache returns a ResultCache that never hits.
func NewNoopResultCache() ResultCache {
	return noopResultCache{}
}

func (noopResultCache) Lookup(m.Path, uint64) (m.FileReport, bool)  { return m.FileReport{}, false }
func (noopResultCache) Store(m.Path, uint64, m.FileReport)          {}
func (noopResultCache) Flush() error                                { return nil }
