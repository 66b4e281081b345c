package diagnostic

import "sync"

// Sink receives the diagnostics of finished analyses. Implementations must be
// safe for concurrent use.
type Sink interface {
	Publish(typeName string, diags Diagnostics)
}

// Collector is an in-memory Sink that keeps diagnostics per analyzed type.
type Collector struct {
	mu     sync.Mutex
	byType map[string]Diagnostics
	order  []string
}

var _ Sink = (*Collector)(nil)

// NewCollector creates an empty Collector.
func NewCollector() *Collector {
	return &Collector{byType: make(map[string]Diagnostics)}
}

// Publish implements Sink. Diagnostics published twice for one type are merged.
func (c *Collector) Publish(typeName string, diags Diagnostics) {
	c.mu.Lock()
	defer c.mu.Unlock()

	existing, ok := c.byType[typeName]
	if !ok {
		c.order = append(c.order, typeName)
	}

	existing.Merge(diags)
	c.byType[typeName] = existing
}

// Types returns the published type names in publication order.
func (c *Collector) Types() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]string(nil), c.order...)
}

// Total merges everything published so far.
func (c *Collector) Total() Diagnostics {
	c.mu.Lock()
	defer c.mu.Unlock()

	var total Diagnostics
	for _, name := range c.order {
		total.Merge(c.byType[name])
	}

	return total
}

// FailedTypes returns the type names that have at least one error.
func (c *Collector) FailedTypes() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []string
	for _, name := range c.order {
		if d := c.byType[name]; d.HasErrors() {
			out = append(out, name)
		}
	}

	return out
}
