// Package ratelimit provides a fixed-window request limiter keyed by client.
package ratelimit

import (
	"sync"
	"time"
)

type entry struct {
	count int
	reset time.Time
}

// Window counts requests per key inside fixed windows. The first request
// for a key opens a window; requests beyond max inside that window are
// rejected until the window elapses, at which point the next request
// opens a fresh one with a full quota.
type Window struct {
	mu      sync.Mutex
	entries map[string]*entry
	max     int
	window  time.Duration
	stopCh  chan struct{}
}

// NewWindow creates a limiter that allows max requests per key per window
// and starts a background sweep of stale entries.
func NewWindow(max int, window time.Duration) *Window {
	w := &Window{
		entries: make(map[string]*entry),
		max:     max,
		window:  window,
		stopCh:  make(chan struct{}),
	}
	go w.sweep()
	return w
}

// Allow reports whether key may make another request in its current
// window, counting the request if so. Rejected requests do not extend or
// otherwise affect the window.
func (w *Window) Allow(key string) bool {
	now := time.Now()

	w.mu.Lock()
	defer w.mu.Unlock()

	e, ok := w.entries[key]
	if !ok || now.After(e.reset) {
		w.entries[key] = &entry{count: 1, reset: now.Add(w.window)}
		return true
	}
	if e.count >= w.max {
		return false
	}
	e.count++
	return true
}

// Close stops the background sweeper.
func (w *Window) Close() {
	close(w.stopCh)
}

func (w *Window) sweep() {
	ticker := time.NewTicker(w.window)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			now := time.Now()
			w.mu.Lock()
			for key, e := range w.entries {
				if now.After(e.reset) {
					delete(w.entries, key)
				}
			}
			w.mu.Unlock()
		case <-w.stopCh:
			return
		}
	}
}
