package vitals

import (
	"testing"
	"time"
)

func TestBufferLen(t *testing.T) {
	b := NewBuffer()
	if b.Len() != 0 {
		t.Errorf("Len = %d, want 0", b.Len())
	}

	b.Add(Sample{URL: "https://example.com/a", Timestamp: 1})
	b.Add(Sample{URL: "https://example.com/b", Timestamp: 2})
	if b.Len() != 2 {
		t.Errorf("Len = %d, want 2", b.Len())
	}
}

func TestBufferCapsSamples(t *testing.T) {
	b := NewBuffer()
	for i := 0; i < maxSamples+100; i++ {
		b.Add(Sample{URL: "https://example.com/p", Timestamp: int64(i)})
	}
	if b.Len() != maxSamples {
		t.Errorf("Len = %d, want %d", b.Len(), maxSamples)
	}
}

func TestBufferEvictsOldest(t *testing.T) {
	b := NewBuffer()
	b.Add(Sample{URL: "https://example.com/first", Timestamp: 1})
	for i := 0; i < maxSamples; i++ {
		b.Add(Sample{URL: "https://example.com/rest", Timestamp: int64(i + 2)})
	}

	for _, s := range b.since(0) {
		if s.URL == "https://example.com/first" {
			t.Fatal("oldest sample should have been evicted")
		}
	}
	if b.Len() != maxSamples {
		t.Errorf("Len = %d, want %d", b.Len(), maxSamples)
	}
}

func TestGrade(t *testing.T) {
	tests := []struct {
		metric string
		value  float64
		want   string
	}{
		{"LCP", 1200, "good"},
		{"LCP", 2500, "good"},
		{"LCP", 3000, "needs-improvement"},
		{"LCP", 4000, "needs-improvement"},
		{"LCP", 4001, "poor"},
		{"CLS", 0.05, "good"},
		{"CLS", 0.1, "good"},
		{"CLS", 0.2, "needs-improvement"},
		{"CLS", 0.3, "poor"},
		{"FID", 50, "good"},
		{"FID", 400, "poor"},
		{"INP", 200, "good"},
		{"INP", 500, "needs-improvement"},
		{"FCP", 1799, "good"},
		{"FCP", 3100, "poor"},
		{"TTFB", 800, "good"},
		{"TTFB", 1801, "poor"},
		{"XYZ", 100, "unknown"},
	}

	for _, tt := range tests {
		if got := Grade(tt.metric, tt.value); got != tt.want {
			t.Errorf("Grade(%s, %v) = %q, want %q", tt.metric, tt.value, got, tt.want)
		}
	}
}

func TestSummarizeEmpty(t *testing.T) {
	b := NewBuffer()
	got := b.Summarize(time.Now())

	if got.Message != "No data available" {
		t.Errorf("Message = %q, want %q", got.Message, "No data available")
	}
	if got.Count != 0 {
		t.Errorf("Count = %d, want 0", got.Count)
	}
	if got.Metrics != nil {
		t.Errorf("Metrics = %v, want nil", got.Metrics)
	}
}

func TestSummarizeAverages(t *testing.T) {
	now := time.Now()
	ts := now.UnixMilli()

	b := NewBuffer()
	b.Add(Sample{URL: "https://example.com/a", Vitals: map[string]float64{"LCP": 2000, "CLS": 0.3}, Timestamp: ts})
	b.Add(Sample{URL: "https://example.com/b", Vitals: map[string]float64{"LCP": 3000}, Timestamp: ts})

	got := b.Summarize(now)
	if got.Count != 2 {
		t.Errorf("Count = %d, want 2", got.Count)
	}
	if got.Period != "24h" {
		t.Errorf("Period = %q, want 24h", got.Period)
	}

	lcp := got.Metrics["LCP"]
	if lcp.Average != 2500 {
		t.Errorf("LCP average = %v, want 2500", lcp.Average)
	}
	if lcp.Rating != "good" {
		t.Errorf("LCP rating = %q, want good", lcp.Rating)
	}
	if lcp.Count != 2 {
		t.Errorf("LCP count = %d, want 2", lcp.Count)
	}

	cls := got.Metrics["CLS"]
	if cls.Average != 0.3 {
		t.Errorf("CLS average = %v, want 0.3", cls.Average)
	}
	if cls.Rating != "poor" {
		t.Errorf("CLS rating = %q, want poor", cls.Rating)
	}
	if cls.Count != 1 {
		t.Errorf("CLS count = %d, want 1", cls.Count)
	}
}

func TestSummarizeRoundsAverages(t *testing.T) {
	now := time.Now()
	ts := now.UnixMilli()

	b := NewBuffer()
	b.Add(Sample{Vitals: map[string]float64{"LCP": 100}, Timestamp: ts})
	b.Add(Sample{Vitals: map[string]float64{"LCP": 100}, Timestamp: ts})
	b.Add(Sample{Vitals: map[string]float64{"LCP": 101}, Timestamp: ts})

	got := b.Summarize(now)
	if avg := got.Metrics["LCP"].Average; avg != 100.33 {
		t.Errorf("LCP average = %v, want 100.33", avg)
	}
}

func TestSummarizeWindow(t *testing.T) {
	now := time.Now()

	b := NewBuffer()
	b.Add(Sample{Vitals: map[string]float64{"LCP": 9000}, Timestamp: now.Add(-25 * time.Hour).UnixMilli()})
	b.Add(Sample{Vitals: map[string]float64{"LCP": 2000}, Timestamp: now.UnixMilli()})

	got := b.Summarize(now)
	if got.Count != 1 {
		t.Errorf("Count = %d, want 1 (stale sample excluded)", got.Count)
	}
	if avg := got.Metrics["LCP"].Average; avg != 2000 {
		t.Errorf("LCP average = %v, want 2000", avg)
	}
}

func TestSummarizeAllStale(t *testing.T) {
	now := time.Now()

	b := NewBuffer()
	b.Add(Sample{Vitals: map[string]float64{"LCP": 2000}, Timestamp: now.Add(-48 * time.Hour).UnixMilli()})

	got := b.Summarize(now)
	if got.Message != "No data available" {
		t.Errorf("Message = %q, want %q", got.Message, "No data available")
	}
	if got.Count != 0 {
		t.Errorf("Count = %d, want 0", got.Count)
	}
}
