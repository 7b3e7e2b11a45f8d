package redisztest

import (
	"sync"
	"testing"
)

func TestNewCollector(t *testing.T) {
	collector := NewCollector()

	if collector.Count() != 0 {
		t.Errorf("Expected 0 spans initially, got %d", collector.Count())
	}
	if collector.Export() != nil {
		t.Error("Expected nil export from empty collector")
	}
}

func TestCollectorExportClears(t *testing.T) {
	collector := NewCollector()

	collector.Collect(Span{SpanID: "span-1", Name: "Redis GET"})
	collector.Collect(Span{SpanID: "span-2", Name: "Redis SET"})

	if collector.Count() != 2 {
		t.Errorf("Expected 2 spans, got %d", collector.Count())
	}

	spans := collector.Export()
	if len(spans) != 2 {
		t.Fatalf("Expected 2 exported spans, got %d", len(spans))
	}
	if spans[0].SpanID != "span-1" || spans[1].SpanID != "span-2" {
		t.Errorf("Expected spans in collection order, got %s, %s", spans[0].SpanID, spans[1].SpanID)
	}

	// After export, collector should be empty.
	if collector.Count() != 0 {
		t.Errorf("Expected 0 spans after export, got %d", collector.Count())
	}
}

func TestCollectorSpansKeeps(t *testing.T) {
	collector := NewCollector()
	collector.Collect(Span{SpanID: "span-1"})

	if len(collector.Spans()) != 1 {
		t.Error("Expected 1 span")
	}
	if collector.Count() != 1 {
		t.Errorf("Expected Spans to leave the buffer intact, got %d", collector.Count())
	}
}

func TestCollectorDeepCopy(t *testing.T) {
	collector := NewCollector()

	attrs := map[string]string{"http.host": "cache"}
	collector.Collect(Span{SpanID: "span-1", Attributes: attrs})

	// Modify the original after collection.
	attrs["http.host"] = "changed"

	spans := collector.Spans()
	if spans[0].Attributes["http.host"] != "cache" {
		t.Errorf("Expected collected span to be isolated, got %s", spans[0].Attributes["http.host"])
	}
}

func TestCollectorReset(t *testing.T) {
	collector := NewCollector()
	collector.Collect(Span{SpanID: "span-1"})

	collector.Reset()

	if collector.Count() != 0 {
		t.Errorf("Expected 0 spans after reset, got %d", collector.Count())
	}
}

func TestCollectorConcurrentCollect(t *testing.T) {
	collector := NewCollector()

	var wg sync.WaitGroup
	numGoroutines := 100

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			collector.Collect(Span{SpanID: "span", Name: "Redis GET"})
		}()
	}

	wg.Wait()

	if collector.Count() != numGoroutines {
		t.Errorf("Expected %d spans, got %d", numGoroutines, collector.Count())
	}
}
