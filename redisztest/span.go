package redisztest

import (
	"sync"
	"time"
)

// Span is a span as seen by a Recorder.
//
//nolint:govet // Field alignment optimized for JSON serialization order
type Span struct {
	Attributes map[string]string `json:"attributes,omitempty"`
	StartTime  time.Time         `json:"start_time"`
	EndTime    time.Time         `json:"end_time,omitempty"`
	Duration   time.Duration     `json:"duration"`
	SpanID     string            `json:"span_id"`
	Name       string            `json:"name"`
}

// Ended reports whether the span has been closed.
func (s Span) Ended() bool {
	return !s.EndTime.IsZero()
}

// copySpan returns a copy of s that shares no map with it.
func copySpan(s *Span) Span {
	c := *s
	if s.Attributes != nil {
		c.Attributes = make(map[string]string, len(s.Attributes))
		for k, v := range s.Attributes {
			c.Attributes[k] = v
		}
	}
	return c
}

// ActiveSpan is an open span handed out by a Recorder.
// Safe for concurrent use by multiple goroutines.
type ActiveSpan struct {
	span *Span
	mu   sync.Mutex // Protects span.
}

// SetAttribute adds a key-value pair to the span.
// No-op if the span has already ended.
func (a *ActiveSpan) SetAttribute(key, value string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Don't modify ended spans.
	if a.span.Ended() {
		return
	}

	if a.span.Attributes == nil {
		a.span.Attributes = make(map[string]string)
	}
	a.span.Attributes[key] = value
}

// Attribute retrieves an attribute value by key.
func (a *ActiveSpan) Attribute(key string) (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.span.Attributes == nil {
		return "", false
	}
	value, ok := a.span.Attributes[key]
	return value, ok
}

// Snapshot returns a copy of the span in its current state.
func (a *ActiveSpan) Snapshot() Span {
	a.mu.Lock()
	defer a.mu.Unlock()
	return copySpan(a.span)
}

// end closes the span at now. Returns false if it was already closed.
func (a *ActiveSpan) end(now time.Time) (Span, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.span.Ended() {
		return Span{}, false
	}

	a.span.EndTime = now
	a.span.Duration = now.Sub(a.span.StartTime)
	return copySpan(a.span), true
}
