package httpserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestLimiterPrunesIdleBuckets(t *testing.T) {
	now := time.Now()
	l := newIPLimiter(10, 10)
	l.now = func() time.Time { return now }

	for _, addr := range []string{"10.0.0.1:1000", "10.0.0.2:1000"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = addr
		if !l.allow(req) {
			t.Fatalf("%s rejected", addr)
		}
	}

	now = now.Add(45 * time.Minute)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.2:1000"
	l.allow(req)

	if n := l.prune(30 * time.Minute); n != 1 {
		t.Fatalf("pruned %d buckets, want 1", n)
	}
	if l.len() != 1 {
		t.Fatalf("len = %d, want 1", l.len())
	}
	if _, ok := l.limiters["10.0.0.2"]; !ok {
		t.Fatal("active bucket was pruned")
	}
}

func TestServerSweepPrunesLimiters(t *testing.T) {
	s := testServer(t, Options{})
	register(t, s)
	if s.limiter.len() != 1 {
		t.Fatalf("len = %d, want 1", s.limiter.len())
	}
	s.limiter.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, limiters := s.Sweep(context.Background(), time.Hour)
	if limiters != 1 || s.limiter.len() != 0 {
		t.Fatalf("pruned %d, left %d", limiters, s.limiter.len())
	}
}
