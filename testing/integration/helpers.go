package integration

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/zoobzio/redisz"
	"github.com/zoobzio/redisz/redisztest"
)

// Harness wires an in-process Redis, an instrumented client and a recorder.
//
//nolint:govet // Field alignment optimized for test helper readability
type Harness struct {
	Server   *miniredis.Miniredis
	Client   *redis.Client
	Recorder *redisztest.Recorder
	t        *testing.T
}

// NewHarness starts a server and an instrumented client with one warm
// connection, so connection setup never shows up as spans.
func NewHarness(t *testing.T, opts ...redisz.Option) *Harness {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{
		Addr:             server.Addr(),
		PoolSize:         1,
		MaxRetries:       -1,
		DisableIndentity: true, //nolint:staticcheck // Still honoured by every v9 release.
	})
	t.Cleanup(func() { _ = client.Close() })

	rec := redisztest.NewRecorder()
	opts = append([]redisz.Option{redisz.WithContextFunc(rec.ContextFunc())}, opts...)
	redisz.Instrument(client, opts...)

	// Warm the connection while tracing is off.
	rec.SetActive(false)
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Fatalf("warm-up ping failed: %v", err)
	}
	rec.Reset()
	rec.SetActive(true)

	return &Harness{
		Server:   server,
		Client:   client,
		Recorder: rec,
		t:        t,
	}
}

// AssertSpanCount verifies the exact number of ended spans.
func (h *Harness) AssertSpanCount(expected int) []redisztest.Span {
	h.t.Helper()

	spans := h.Recorder.Spans()
	if len(spans) != expected {
		h.t.Errorf("Expected %d spans, got %d: %v", expected, len(spans), names(spans))
	}
	return spans
}

// AssertSpanNamed checks that a span with the given name ended.
func (h *Harness) AssertSpanNamed(name string) *redisztest.Span {
	h.t.Helper()

	spans := h.Recorder.Spans()
	for i := range spans {
		if spans[i].Name == name {
			return &spans[i]
		}
	}
	h.t.Errorf("Span named '%s' not found in %v", name, names(spans))
	return nil
}

// AssertBalanced verifies every started span was ended exactly once.
func (h *Harness) AssertBalanced() {
	h.t.Helper()

	rec := h.Recorder
	if rec.Starts() != rec.Ends() {
		h.t.Errorf("Expected starts == ends, got %d starts and %d ends", rec.Starts(), rec.Ends())
	}
	if rec.InvalidEnds() != 0 {
		h.t.Errorf("Expected no invalid ends, got %d", rec.InvalidEnds())
	}
	if open := rec.Open(); len(open) != 0 {
		h.t.Errorf("Expected no open spans, got %v", names(open))
	}
}

func names(spans []redisztest.Span) []string {
	result := make([]string, len(spans))
	for i := range spans {
		result[i] = spans[i].Name
	}
	return result
}
