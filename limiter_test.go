package stakelight

import (
	"testing"
	"time"
)

func TestLimiterAllowsUnderMax(t *testing.T) {
	l := NewLoginLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !l.Check("1.2.3.4") {
			t.Fatalf("attempt %d should be allowed", i+1)
		}
		l.Record("1.2.3.4")
	}
	if l.Check("1.2.3.4") {
		t.Error("fourth attempt should be blocked")
	}
}

func TestLimiterChecksWithoutRecording(t *testing.T) {
	l := NewLoginLimiter(2, time.Minute)

	// Check alone never consumes the budget; successful logins stay free.
	for i := 0; i < 10; i++ {
		if !l.Check("1.2.3.4") {
			t.Fatalf("check %d should pass without recorded failures", i+1)
		}
	}
}

func TestLimiterIsPerIP(t *testing.T) {
	l := NewLoginLimiter(1, time.Minute)

	l.Record("1.1.1.1")
	if l.Check("1.1.1.1") {
		t.Error("1.1.1.1 should be blocked")
	}
	if !l.Check("2.2.2.2") {
		t.Error("2.2.2.2 should be unaffected")
	}
}

func TestLimiterWindowExpiry(t *testing.T) {
	l := NewLoginLimiter(1, 50*time.Millisecond)

	l.Record("1.2.3.4")
	if l.Check("1.2.3.4") {
		t.Fatal("should be blocked inside the window")
	}
	time.Sleep(60 * time.Millisecond)
	if !l.Check("1.2.3.4") {
		t.Error("should be allowed after the window passes")
	}
}
