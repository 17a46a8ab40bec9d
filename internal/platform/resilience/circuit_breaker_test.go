package resilience

import (
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

func TestCircuitBreaker_BasicTransitions(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2026, 1, 13, 12, 0, 0, 0, time.UTC))
	b := NewCircuitBreakerWithClock(2, 5*time.Second, 1, clock)

	if err := b.Allow(); err != nil {
		t.Fatalf("expected allow in closed state: %v", err)
	}

	b.RecordFailure()
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after first failure, got %s", state)
	}

	b.RecordFailure()
	if state := b.State(); state != CircuitStateOpen {
		t.Fatalf("expected open after threshold failures, got %s", state)
	}

	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected circuit open error, got %v", err)
	}

	clock.Advance(6 * time.Second)
	if err := b.Allow(); err != nil {
		t.Fatalf("expected half-open probe to pass, got %v", err)
	}
	if state := b.State(); state != CircuitStateHalfOpen {
		t.Fatalf("expected half-open state, got %s", state)
	}
	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected second probe to be rejected, got %v", err)
	}

	b.RecordSuccess()
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after successful half-open probe, got %s", state)
	}
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	clock := clockwork.NewFakeClock()
	b := NewCircuitBreakerWithClock(1, time.Second, 1, clock)

	b.RecordFailure()
	clock.Advance(2 * time.Second)
	if err := b.Allow(); err != nil {
		t.Fatalf("expected probe allowed: %v", err)
	}
	b.RecordFailure()
	if state := b.State(); state != CircuitStateOpen {
		t.Fatalf("expected reopened breaker, got %s", state)
	}
}

func TestCircuitBreakerFromConfig(t *testing.T) {
	if b := NewCircuitBreakerFromConfig(CircuitBreakerConfig{Enabled: false}); b != nil {
		t.Fatalf("expected nil breaker when disabled")
	}

	var disabled *CircuitBreaker
	if err := disabled.Allow(); err != nil {
		t.Fatalf("nil breaker should allow: %v", err)
	}
	disabled.RecordFailure()
	if disabled.State() != CircuitStateClosed {
		t.Fatalf("nil breaker should report closed")
	}

	b := NewCircuitBreakerFromConfig(CircuitBreakerConfig{Enabled: true})
	if b == nil || b.failureThreshold != 5 || b.halfOpenMaxReq != 2 {
		t.Fatalf("expected defaults applied, got %+v", b)
	}
}

func TestCircuitBreakerFromConfig_UsesConfiguredClock(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2026, 3, 3, 19, 0, 0, 0, time.UTC))
	b := NewCircuitBreakerFromConfig(CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 1,
		OpenTimeout:      time.Minute,
		Clock:            clock,
	})

	b.RecordFailure()
	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected open breaker, got %v", err)
	}

	clock.Advance(time.Minute + time.Second)
	if err := b.Allow(); err != nil {
		t.Fatalf("expected half-open probe after timeout, got %v", err)
	}
	if state := b.State(); state != CircuitStateHalfOpen {
		t.Fatalf("expected half_open, got %s", state)
	}
}
