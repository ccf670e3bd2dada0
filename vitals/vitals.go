// Package vitals collects browser performance metrics reported by the
// web-vitals client script and serves 24-hour aggregates.
package vitals

import (
	"math"
	"sync"
	"time"
)

// maxSamples bounds the in-memory buffer; once full, each new sample
// evicts the oldest.
const maxSamples = 1000

// Sample is one beacon from a page view. Vitals maps metric names
// (LCP, CLS, FID, INP, FCP, TTFB) to their measured values; Timestamp
// is client time in milliseconds.
type Sample struct {
	URL       string             `json:"url"`
	Vitals    map[string]float64 `json:"vitals"`
	Timestamp int64              `json:"timestamp"`
	UserAgent string             `json:"userAgent,omitempty"`
}

// Buffer is a fixed-size ring of recent samples. Samples are held only
// in memory and do not survive a restart.
type Buffer struct {
	mu      sync.Mutex
	samples []Sample
	next    int
	full    bool
}

// NewBuffer returns an empty sample buffer.
func NewBuffer() *Buffer {
	return &Buffer{samples: make([]Sample, maxSamples)}
}

// Add records a sample, evicting the oldest once the buffer is full.
func (b *Buffer) Add(s Sample) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.samples[b.next] = s
	b.next = (b.next + 1) % maxSamples
	if b.next == 0 {
		b.full = true
	}
}

// Len reports the number of samples currently held.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.full {
		return maxSamples
	}
	return b.next
}

// since returns all samples with a timestamp at or after cutoff.
func (b *Buffer) since(cutoff int64) []Sample {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := b.next
	if b.full {
		n = maxSamples
	}
	out := make([]Sample, 0, n)
	for i := 0; i < n; i++ {
		if b.samples[i].Timestamp >= cutoff {
			out = append(out, b.samples[i])
		}
	}
	return out
}

// thresholds holds the good / needs-improvement boundaries per metric,
// following the web-vitals reference values.
var thresholds = map[string][2]float64{
	"CLS":  {0.1, 0.25},
	"FCP":  {1800, 3000},
	"FID":  {100, 300},
	"INP":  {200, 500},
	"LCP":  {2500, 4000},
	"TTFB": {800, 1800},
}

// Grade rates a metric value as good, needs-improvement or poor.
// Metrics without known thresholds rate as unknown.
func Grade(metric string, value float64) string {
	t, ok := thresholds[metric]
	if !ok {
		return "unknown"
	}
	switch {
	case value <= t[0]:
		return "good"
	case value <= t[1]:
		return "needs-improvement"
	default:
		return "poor"
	}
}

// MetricSummary aggregates one metric across the reporting window.
type MetricSummary struct {
	Average float64 `json:"average"`
	Rating  string  `json:"rating"`
	Count   int     `json:"count"`
}

// Summary is the stats API response. When no samples fall inside the
// window only Message and Count are set.
type Summary struct {
	Message string                   `json:"message,omitempty"`
	Count   int                      `json:"count"`
	Period  string                   `json:"period,omitempty"`
	Metrics map[string]MetricSummary `json:"metrics,omitempty"`
}

// Summarize averages all samples from the 24 hours before now and
// grades each metric's average.
func (b *Buffer) Summarize(now time.Time) Summary {
	cutoff := now.Add(-24 * time.Hour).UnixMilli()
	live := b.since(cutoff)
	if len(live) == 0 {
		return Summary{Message: "No data available", Count: 0}
	}

	sums := map[string]float64{}
	counts := map[string]int{}
	for _, s := range live {
		for metric, value := range s.Vitals {
			sums[metric] += value
			counts[metric]++
		}
	}

	metrics := make(map[string]MetricSummary, len(sums))
	for metric, sum := range sums {
		avg := math.Round(sum/float64(counts[metric])*100) / 100
		metrics[metric] = MetricSummary{
			Average: avg,
			Rating:  Grade(metric, avg),
			Count:   counts[metric],
		}
	}

	return Summary{Count: len(live), Period: "24h", Metrics: metrics}
}
