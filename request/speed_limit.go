package request

import (
	"sync"
	"time"
)

// SpeedLimiter throttles the combined throughput of every
// transfer that shares it to at most bytesPerSec bytes per second.
//
// It hands out time slots under a mutex so concurrent
// downloads pace each other instead of racing.
type SpeedLimiter struct {
	mu          sync.Mutex
	bytesPerSec int64
	next        time.Time
}

// NewSpeedLimiter returns a limiter for the given rate.
// A rate of 0 or less returns nil which disables throttling.
func NewSpeedLimiter(bytesPerSec int64) *SpeedLimiter {
	if bytesPerSec <= 0 {
		return nil
	}
	return &SpeedLimiter{
		bytesPerSec: bytesPerSec,
	}
}

// Wait blocks until the caller is allowed to
// consume another n bytes of bandwidth.
func (s *SpeedLimiter) Wait(n int64) {
	if s == nil || n <= 0 {
		return
	}

	s.mu.Lock()
	now := time.Now()
	if s.next.Before(now) {
		s.next = now
	}
	wakeAt := s.next
	s.next = s.next.Add(
		time.Duration(float64(n) / float64(s.bytesPerSec) * float64(time.Second)),
	)
	s.mu.Unlock()

	time.Sleep(time.Until(wakeAt))
}
