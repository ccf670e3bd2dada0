package ratelimit

import (
	"testing"
	"time"
)

func TestWindowBlocksAfterMax(t *testing.T) {
	w := NewWindow(2, 200*time.Millisecond)
	defer w.Close()
	key := "203.0.113.10"

	if !w.Allow(key) {
		t.Fatalf("expected first request to be allowed")
	}
	if !w.Allow(key) {
		t.Fatalf("expected second request to be allowed")
	}
	if w.Allow(key) {
		t.Fatalf("expected third request to be blocked")
	}
}

func TestWindowAdmitsAfterReset(t *testing.T) {
	w := NewWindow(1, 150*time.Millisecond)
	defer w.Close()
	key := "203.0.113.20"

	if !w.Allow(key) {
		t.Fatalf("expected first request to be allowed")
	}
	if w.Allow(key) {
		t.Fatalf("expected second request to be blocked")
	}

	time.Sleep(200 * time.Millisecond)
	if !w.Allow(key) {
		t.Fatalf("expected request after window to be allowed")
	}
}

func TestWindowRestoresFullQuota(t *testing.T) {
	w := NewWindow(2, 150*time.Millisecond)
	defer w.Close()
	key := "203.0.113.25"

	w.Allow(key)
	w.Allow(key)
	if w.Allow(key) {
		t.Fatalf("expected request over quota to be blocked")
	}

	time.Sleep(200 * time.Millisecond)

	if !w.Allow(key) {
		t.Fatalf("expected first request of new window to be allowed")
	}
	if !w.Allow(key) {
		t.Fatalf("expected full quota in new window")
	}
	if w.Allow(key) {
		t.Fatalf("expected new window to enforce the same cap")
	}
}

func TestWindowIsPerKey(t *testing.T) {
	w := NewWindow(1, 200*time.Millisecond)
	defer w.Close()

	if !w.Allow("203.0.113.30") {
		t.Fatalf("expected first key to be allowed")
	}
	if !w.Allow("203.0.113.31") {
		t.Fatalf("expected second key to be allowed independently")
	}
	if w.Allow("203.0.113.30") {
		t.Fatalf("expected first key to be blocked after max")
	}
}

func TestWindowRejectionsDoNotExtendWindow(t *testing.T) {
	w := NewWindow(1, 150*time.Millisecond)
	defer w.Close()
	key := "203.0.113.40"

	w.Allow(key)
	for i := 0; i < 5; i++ {
		if w.Allow(key) {
			t.Fatalf("expected rejection while window is open")
		}
		time.Sleep(10 * time.Millisecond)
	}

	time.Sleep(150 * time.Millisecond)
	if !w.Allow(key) {
		t.Fatalf("expected rejections to leave the reset time untouched")
	}
}
