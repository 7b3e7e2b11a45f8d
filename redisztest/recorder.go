// Package redisztest provides a recording tracing context for testing code
// instrumented with redisz.
//
// Basic Usage:.
//
//	rec := redisztest.NewRecorder()
//	redisz.Instrument(rdb, redisz.WithContextFunc(rec.ContextFunc()))
//
//	rdb.Set(ctx, "a", "1", 0)
//
//	spans := rec.Spans() // one span named "Redis set".
//
// The recorder doubles as a spy: it counts context lookups, span starts and
// span ends, and reports ends that do not match an open span.
package redisztest

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/zoobzio/clockz"

	"github.com/zoobzio/redisz"
)

// Recorder is a redisz.SpanContext that keeps every span it starts.
// Safe for concurrent use by multiple goroutines.
//
//nolint:govet // Field order optimized for functionality over memory
type Recorder struct {
	collector   *Collector
	clock       clockz.Clock
	open        map[*ActiveSpan]struct{}
	openLock    sync.Mutex
	nextID      atomic.Uint64
	fetches     atomic.Int64
	starts      atomic.Int64
	ends        atomic.Int64
	invalidEnds atomic.Int64
	inactive    atomic.Bool
}

var _ redisz.SpanContext = (*Recorder)(nil)

// NewRecorder creates an active recorder using the real clock.
func NewRecorder() *Recorder {
	return &Recorder{
		collector: NewCollector(),
		clock:     clockz.RealClock,
		open:      make(map[*ActiveSpan]struct{}),
	}
}

// WithClock returns a new recorder with the specified clock.
// Enables clock injection for deterministic span durations.
func (*Recorder) WithClock(clock clockz.Clock) *Recorder {
	r := NewRecorder()
	r.clock = clock
	return r
}

// SetActive switches whether ContextFunc reports a tracing context.
// A new recorder is active.
func (r *Recorder) SetActive(active bool) {
	r.inactive.Store(!active)
}

// ContextFunc returns a lookup that reports r while it is active and nil
// otherwise. Every lookup is counted.
func (r *Recorder) ContextFunc() redisz.ContextFunc {
	return func(context.Context) redisz.SpanContext {
		r.fetches.Add(1)
		if r.inactive.Load() {
			return nil
		}
		return r
	}
}

// Context attaches r to parent with redisz.WithSpanContext.
func (r *Recorder) Context(parent context.Context) context.Context {
	return redisz.WithSpanContext(parent, r)
}

// StartSpan implements redisz.SpanContext.
func (r *Recorder) StartSpan(name string) redisz.Span {
	r.starts.Add(1)

	active := &ActiveSpan{
		span: &Span{
			SpanID:    fmt.Sprintf("%016x", r.nextID.Add(1)),
			Name:      name,
			StartTime: r.clock.Now(),
		},
	}

	r.openLock.Lock()
	r.open[active] = struct{}{}
	r.openLock.Unlock()

	return active
}

// EndSpan implements redisz.SpanContext. Ending a span twice, or a span this
// recorder did not start, is counted by InvalidEnds and otherwise ignored.
func (r *Recorder) EndSpan(span redisz.Span) {
	r.ends.Add(1)

	active, ok := span.(*ActiveSpan)
	if !ok {
		r.invalidEnds.Add(1)
		return
	}

	r.openLock.Lock()
	_, open := r.open[active]
	delete(r.open, active)
	r.openLock.Unlock()

	if !open {
		r.invalidEnds.Add(1)
		return
	}

	ended, ok := active.end(r.clock.Now())
	if !ok {
		r.invalidEnds.Add(1)
		return
	}
	r.collector.Collect(ended)
}

// Spans returns the ended spans in the order they ended.
func (r *Recorder) Spans() []Span {
	return r.collector.Spans()
}

// Open returns the spans started but not yet ended.
func (r *Recorder) Open() []Span {
	r.openLock.Lock()
	defer r.openLock.Unlock()

	if len(r.open) == 0 {
		return nil
	}
	result := make([]Span, 0, len(r.open))
	for active := range r.open {
		result = append(result, active.Snapshot())
	}
	return result
}

// Fetches returns how many times the ContextFunc was consulted.
func (r *Recorder) Fetches() int64 {
	return r.fetches.Load()
}

// Starts returns how many spans were started.
func (r *Recorder) Starts() int64 {
	return r.starts.Load()
}

// Ends returns how many EndSpan calls were made.
func (r *Recorder) Ends() int64 {
	return r.ends.Load()
}

// InvalidEnds returns how many EndSpan calls did not close an open span.
func (r *Recorder) InvalidEnds() int64 {
	return r.invalidEnds.Load()
}

// Reset clears all spans and counters. Open spans are forgotten.
func (r *Recorder) Reset() {
	r.openLock.Lock()
	r.open = make(map[*ActiveSpan]struct{})
	r.openLock.Unlock()

	r.collector.Reset()
	r.fetches.Store(0)
	r.starts.Store(0)
	r.ends.Store(0)
	r.invalidEnds.Store(0)
}
