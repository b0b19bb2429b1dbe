package humandesign

import (
	"sync"

	"cosmic/internal/logging"
	"cosmic/internal/types"
)

// ChartCache holds natal charts keyed by birth moment. Entries never expire.
type ChartCache struct {
	mu     sync.RWMutex
	charts map[string]*Chart
}

// NewChartCache returns an empty cache.
func NewChartCache() *ChartCache {
	return &ChartCache{charts: make(map[string]*Chart)}
}

// Get returns the cached chart for birth, computing it on first use.
func (c *ChartCache) Get(birth types.BirthMoment) *Chart {
	key := birth.Key()

	c.mu.RLock()
	chart, ok := c.charts[key]
	c.mu.RUnlock()
	if ok {
		return chart
	}

	computed := NewChart(birth)

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.charts[key]; ok {
		return existing
	}
	c.charts[key] = computed
	logging.HumanDesignDebug("cached natal chart %s (%s, %s)", key, computed.Type, computed.Authority)
	return computed
}

// Forget drops the chart for birth.
func (c *ChartCache) Forget(birth types.BirthMoment) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.charts, birth.Key())
}

// Len returns the number of cached charts.
func (c *ChartCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.charts)
}
