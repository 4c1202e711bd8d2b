package schedule

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestDebounceCoalescesBursts(t *testing.T) {
	s := NewSlot("search")
	var calls atomic.Int32
	var firedAt atomic.Int64

	var last time.Time
	for i := 0; i < 10; i++ {
		last = time.Now()
		s.Debounce(60*time.Millisecond, func() {
			calls.Add(1)
			firedAt.Store(time.Now().UnixNano())
		})
		time.Sleep(5 * time.Millisecond)
	}

	time.Sleep(250 * time.Millisecond)
	if got := calls.Load(); got != 1 {
		t.Fatalf("expected exactly 1 call, got %d", got)
	}
	if elapsed := time.Duration(firedAt.Load() - last.UnixNano()); elapsed < 60*time.Millisecond {
		t.Fatalf("fired %v after last call, want >= 60ms", elapsed)
	}
	if s.Active() {
		t.Fatal("slot should be idle after firing")
	}
}

func TestDebounceStop(t *testing.T) {
	s := NewSlot("search")
	var calls atomic.Int32
	s.Debounce(30*time.Millisecond, func() { calls.Add(1) })
	if !s.Active() {
		t.Fatal("expected active slot")
	}
	s.Stop()
	time.Sleep(100 * time.Millisecond)
	if calls.Load() != 0 {
		t.Fatal("stopped debounce still fired")
	}
}

func TestEveryRestartKeepsSingleTicker(t *testing.T) {
	s := NewSlot("refresh")
	var first, second atomic.Int32

	s.Every(20*time.Millisecond, func() { first.Add(1) })
	s.Every(20*time.Millisecond, func() { second.Add(1) })
	time.Sleep(110 * time.Millisecond)
	s.Stop()

	if first.Load() != 0 {
		t.Fatalf("replaced ticker still fired %d times", first.Load())
	}
	got := second.Load()
	if got < 2 || got > 6 {
		t.Fatalf("unexpected tick count %d", got)
	}

	time.Sleep(60 * time.Millisecond)
	if second.Load() != got {
		t.Fatal("ticker fired after Stop")
	}
	if s.Active() {
		t.Fatal("slot should be idle after Stop")
	}
}

func TestStopIsIdempotent(t *testing.T) {
	s := NewSlot("noop")
	s.Stop()
	s.Stop()
	if s.Active() || s.Name() != "noop" {
		t.Fatal("unexpected slot state")
	}
}
