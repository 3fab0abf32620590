package engine

import (
	"sync"
	"sync/atomic"
	"time"
)

// PausableClock is scene time: wall time minus every paused interval
// Frame deadlines are computed on it so a resume does not replay missed frames
type PausableClock struct {
	mu sync.RWMutex

	source TimeProvider
	epoch  time.Time

	paused      atomic.Bool
	pausedAt    time.Time
	pausedTotal time.Duration
}

// NewPausableClock creates a running clock on source, nil uses the system clock
func NewPausableClock(source TimeProvider) *PausableClock {
	if source == nil {
		source = NewMonotonicTimeProvider()
	}
	return &PausableClock{
		source: source,
		epoch:  source.Now(),
	}
}

// Now returns scene time, frozen while paused
func (pc *PausableClock) Now() time.Time {
	pc.mu.RLock()
	defer pc.mu.RUnlock()

	wall := pc.source.Now()
	if pc.paused.Load() {
		wall = pc.pausedAt
	}
	return wall.Add(-pc.pausedTotal)
}

// Elapsed returns scene time since the clock was created
func (pc *PausableClock) Elapsed() time.Duration {
	return pc.Now().Sub(pc.epoch)
}

// Pause freezes scene time, repeated calls are no-ops
func (pc *PausableClock) Pause() {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	if pc.paused.CompareAndSwap(false, true) {
		pc.pausedAt = pc.source.Now()
	}
}

// Resume continues scene time, folding the pause into the offset
func (pc *PausableClock) Resume() {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	if pc.paused.CompareAndSwap(true, false) {
		pc.pausedTotal += pc.source.Now().Sub(pc.pausedAt)
		pc.pausedAt = time.Time{}
	}
}

// Toggle flips the pause state and returns the new state
func (pc *PausableClock) Toggle() bool {
	if pc.IsPaused() {
		pc.Resume()
		return false
	}
	pc.Pause()
	return true
}

// IsPaused reports the pause state
func (pc *PausableClock) IsPaused() bool {
	return pc.paused.Load()
}

// PausedFor returns the cumulative pause duration including a pause in progress
func (pc *PausableClock) PausedFor() time.Duration {
	pc.mu.RLock()
	defer pc.mu.RUnlock()

	total := pc.pausedTotal
	if pc.paused.Load() {
		total += pc.source.Now().Sub(pc.pausedAt)
	}
	return total
}
