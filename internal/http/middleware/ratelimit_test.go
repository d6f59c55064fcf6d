package middleware

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimiterEnforcesLimit(t *testing.T) {
	limiter := NewRateLimiter()
	for i := 0; i < 3; i++ {
		if !limiter.Allow("key", 3, time.Minute) {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if limiter.Allow("key", 3, time.Minute) {
		t.Fatal("request above the limit should be denied")
	}
	if !limiter.Allow("other-key", 3, time.Minute) {
		t.Fatal("a different key has its own window")
	}
}

func TestRateLimiterWindowExpiry(t *testing.T) {
	limiter := NewRateLimiter()
	if !limiter.Allow("key", 1, 20*time.Millisecond) {
		t.Fatal("first request should be allowed")
	}
	if limiter.Allow("key", 1, 20*time.Millisecond) {
		t.Fatal("second request inside the window should be denied")
	}
	time.Sleep(30 * time.Millisecond)
	if !limiter.Allow("key", 1, 20*time.Millisecond) {
		t.Fatal("request after the window expired should be allowed")
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "203.0.113.7:51234"
	if got := ClientIP(req); got != "203.0.113.7" {
		t.Fatalf("expected host from RemoteAddr, got %q", got)
	}

	req.Header.Set("X-Forwarded-For", "198.51.100.2")
	if got := ClientIP(req); got != "198.51.100.2" {
		t.Fatalf("expected forwarded address, got %q", got)
	}
}
