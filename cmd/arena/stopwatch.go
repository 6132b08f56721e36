package main

import "time"

// stopwatch accumulates elapsed time across Start/Stop cycles. One per side
// per game, driven from that game's worker goroutine only.
type stopwatch struct {
	elapsed   time.Duration
	startedAt time.Time
	running   bool
}

func (s *stopwatch) Start() {
	if s.running {
		return
	}
	s.startedAt = time.Now()
	s.running = true
}

func (s *stopwatch) Stop() {
	if !s.running {
		return
	}
	s.elapsed += time.Since(s.startedAt)
	s.running = false
}

func (s *stopwatch) Elapsed() time.Duration {
	if s.running {
		return s.elapsed + time.Since(s.startedAt)
	}
	return s.elapsed
}
