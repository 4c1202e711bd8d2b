// Package schedule provides cancellable timers that keep at most one
// outstanding handle per purpose.
package schedule

import (
	"sync"
	"time"
)

// Slot owns a single pending timer or ticker. Scheduling on a busy slot
// cancels whatever was there first.
type Slot struct {
	name string

	mu     sync.Mutex
	gen    uint64
	timer  *time.Timer
	ticker *time.Ticker
	done   chan struct{}
}

func NewSlot(name string) *Slot {
	return &Slot{name: name}
}

func (s *Slot) Name() string {
	return s.name
}

// Debounce runs fn once after delay, unless Debounce or Stop is called again
// before then.
func (s *Slot) Debounce(delay time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
	gen := s.gen
	s.timer = time.AfterFunc(delay, func() {
		s.mu.Lock()
		if s.gen != gen {
			s.mu.Unlock()
			return
		}
		s.timer = nil
		s.mu.Unlock()
		fn()
	})
}

// Every runs fn each period until Stop. Calling it on a running slot
// replaces the previous ticker.
func (s *Slot) Every(period time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
	gen := s.gen
	ticker := time.NewTicker(period)
	done := make(chan struct{})
	s.ticker = ticker
	s.done = done
	go func() {
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				s.mu.Lock()
				current := s.gen == gen
				s.mu.Unlock()
				if !current {
					return
				}
				fn()
			}
		}
	}()
}

// Stop cancels the pending timer or ticker, if any.
func (s *Slot) Stop() {
	s.mu.Lock()
	s.stopLocked()
	s.mu.Unlock()
}

// Active reports whether a timer or ticker is outstanding.
func (s *Slot) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timer != nil || s.ticker != nil
}

func (s *Slot) stopLocked() {
	s.gen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.ticker != nil {
		s.ticker.Stop()
		s.ticker = nil
	}
	if s.done != nil {
		close(s.done)
		s.done = nil
	}
}
