package services

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/lorrc/glpi-dashboard/internal/core/domain"
)

// DefaultSummaryCacheSize matches the handful of ranges a team flips between.
const DefaultSummaryCacheSize = 4

// SummaryCache is a bounded LRU of snapshots keyed by date range. It is safe
// for concurrent use.
type SummaryCache struct {
	entries *lru.Cache[string, *domain.Snapshot]
}

// NewSummaryCache creates a cache holding at most size ranges.
func NewSummaryCache(size int) (*SummaryCache, error) {
	if size <= 0 {
		size = DefaultSummaryCacheSize
	}
	entries, err := lru.New[string, *domain.Snapshot](size)
	if err != nil {
		return nil, err
	}
	return &SummaryCache{entries: entries}, nil
}

func rangeKey(start, end string) string {
	return start + "|" + end
}

// Get returns the cached snapshot of [start, end] and marks it recently used.
func (c *SummaryCache) Get(start, end string) (*domain.Snapshot, bool) {
	return c.entries.Get(rangeKey(start, end))
}

// Put stores snap, evicting the least recently used range when full.
func (c *SummaryCache) Put(snap *domain.Snapshot) {
	c.entries.Add(rangeKey(snap.Start, snap.End), snap)
}

// Remove drops one range.
func (c *SummaryCache) Remove(start, end string) {
	c.entries.Remove(rangeKey(start, end))
}

// Purge drops every range.
func (c *SummaryCache) Purge() {
	c.entries.Purge()
}

// Len returns the number of cached ranges.
func (c *SummaryCache) Len() int {
	return c.entries.Len()
}
