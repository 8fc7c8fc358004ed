package cache

import (
	"sync"

	"github.com/tmlira/chesslens/internal/models"
)

// Key identifies one computed dashboard. Two requests against the same
// dataset generation with the same sample and filter hit the same entry;
// a re-ingest bumps the generation and orphans every older entry.
type Key struct {
	Generation int64
	SampleSize int
	Seed       int64
	TimeClass  string
	MinAvgElo  float64
	MaxAvgElo  float64
}

// Cache keeps computed dashboard stats in memory. Entries are evicted in
// insertion order once maxEntries is reached, and the whole cache is
// cleared on re-ingest.
type Cache struct {
	mu         sync.Mutex
	entries    map[Key]*models.DashboardStats
	order      []Key
	maxEntries int
}

func New(maxEntries int) *Cache {
	if maxEntries <= 0 {
		maxEntries = 64
	}
	return &Cache{
		entries:    make(map[Key]*models.DashboardStats),
		maxEntries: maxEntries,
	}
}

func (c *Cache) Get(key Key) (*models.DashboardStats, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	stats, ok := c.entries[key]
	return stats, ok
}

func (c *Cache) Put(key Key, stats *models.DashboardStats) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; ok {
		c.entries[key] = stats
		return
	}
	if len(c.order) >= c.maxEntries {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
	c.entries[key] = stats
	c.order = append(c.order, key)
}

// Clear drops every entry. Called after the dataset changes.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[Key]*models.DashboardStats)
	c.order = nil
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
