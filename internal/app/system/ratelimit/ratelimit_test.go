// internal/app/system/ratelimit/ratelimit_test.go
package ratelimit

import (
	"fmt"
	"net/http/httptest"
	"testing"
	"time"
)

func TestLimiterBlocksAfterLimit(t *testing.T) {
	l := New(3, time.Minute)
	for i := 0; i < 3; i++ {
		if !l.Allow("k") {
			t.Fatalf("attempt %d should be allowed", i+1)
		}
	}
	if l.Allow("k") {
		t.Fatal("attempt over the limit should be blocked")
	}
	if !l.Allow("other") {
		t.Fatal("limits must be tracked per key")
	}
}

func TestLimiterResetClearsWindow(t *testing.T) {
	l := New(1, time.Minute)
	l.Allow("k")
	if l.Allow("k") {
		t.Fatal("second attempt should be blocked")
	}
	l.Reset("k")
	if !l.Allow("k") {
		t.Fatal("attempt after reset should be allowed")
	}
}

func TestLoginLimiterTracksEmailAcrossIPs(t *testing.T) {
	ll := &LoginLimiter{
		ip:    New(100, time.Minute),
		email: New(2, time.Minute),
	}

	for i := 0; i < 2; i++ {
		r := httptest.NewRequest("POST", "/login", nil)
		r.RemoteAddr = fmt.Sprintf("10.0.0.%d:1234", i+1)
		if ok, _ := ll.Check(r, "Alice@Test.com"); !ok {
			t.Fatalf("attempt %d should be allowed", i+1)
		}
	}
	r := httptest.NewRequest("POST", "/login", nil)
	r.RemoteAddr = "10.0.0.9:1234"
	if ok, msg := ll.Check(r, "alice@test.com "); ok {
		t.Fatal("third attempt for the same account should be blocked")
	} else if msg == "" {
		t.Fatal("blocked attempts need a client-facing message")
	}

	ll.ResetEmail("ALICE@test.com")
	if ok, _ := ll.Check(r, "alice@test.com"); !ok {
		t.Fatal("attempt after reset should be allowed")
	}
}

func TestClientIPPrefersForwardedHeader(t *testing.T) {
	r := httptest.NewRequest("POST", "/login", nil)
	r.RemoteAddr = "127.0.0.1:9999"
	if got := ClientIP(r); got != "127.0.0.1" {
		t.Fatalf("ClientIP = %q", got)
	}
	r.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	if got := ClientIP(r); got != "203.0.113.7" {
		t.Fatalf("ClientIP with X-Forwarded-For = %q", got)
	}
}
