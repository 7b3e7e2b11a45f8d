package redisztest

import "sync"

// Collector buffers ended spans.
// Safe for concurrent use by multiple goroutines.
type Collector struct {
	spans []Span
	mu    sync.Mutex
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{
		spans: make([]Span, 0, 8), // Start with small capacity.
	}
}

// Collect buffers a copy of span.
func (c *Collector) Collect(span Span) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.spans = append(c.spans, copySpan(&span))
}

// Spans returns a copy of all buffered spans without clearing them.
func (c *Collector) Spans() []Span {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.copyLocked()
}

// Export returns a copy of all buffered spans and clears the buffer.
// The returned slice is safe to modify without affecting the collector.
func (c *Collector) Export() []Span {
	c.mu.Lock()
	defer c.mu.Unlock()

	result := c.copyLocked()
	c.spans = c.spans[:0] // Keep capacity, reset length.
	return result
}

func (c *Collector) copyLocked() []Span {
	if len(c.spans) == 0 {
		return nil
	}

	result := make([]Span, len(c.spans))
	for i := range c.spans {
		result[i] = copySpan(&c.spans[i])
	}
	return result
}

// Count returns the current number of buffered spans.
func (c *Collector) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.spans)
}

// Reset clears all buffered spans.
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.spans = c.spans[:0]
}
