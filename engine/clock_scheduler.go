package engine

import (
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/lixenwraith/scenekit/core"
	"github.com/lixenwraith/scenekit/parameter"
	"github.com/lixenwraith/scenekit/status"
)

// Framer advances the scene by exactly one frame
type Framer interface {
	Frame()
}

// ClockScheduler calls Frame on a fixed interval of scene time
// Deadlines advance by the interval so a slow frame is caught up, bounded
// by MaxFrameCatchUp; while paused no frames run but submitted work does
type ClockScheduler struct {
	framer   Framer
	clock    *PausableClock
	interval time.Duration
	log      *zap.Logger

	mu           sync.Mutex
	nextDeadline time.Time

	frames atomic.Uint64

	// Work submitted from other goroutines, run between frames
	requests chan func()

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	running  atomic.Bool

	statPaused  *atomic.Bool
	statFrameMs *status.AtomicFloat
}

// NewClockScheduler creates a stopped scheduler driving framer every interval
func NewClockScheduler(framer Framer, clock *PausableClock, interval time.Duration, reg *status.Registry, log *zap.Logger) *ClockScheduler {
	if interval <= 0 {
		interval = parameter.FrameInterval
	}
	if clock == nil {
		clock = NewPausableClock(nil)
	}
	if reg == nil {
		reg = status.NewRegistry()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &ClockScheduler{
		framer:      framer,
		clock:       clock,
		interval:    interval,
		log:         log,
		requests:    make(chan func(), 16),
		stopChan:    make(chan struct{}),
		statPaused:  reg.Bools.Get(status.KeyPaused),
		statFrameMs: reg.Floats.Get(status.KeyFrameMillis),
	}
}

// Start launches the loop goroutine
func (cs *ClockScheduler) Start() {
	if cs.running.CompareAndSwap(false, true) {
		cs.wg.Add(1)
		core.Go(cs.loop)
	}
}

// Stop halts the loop and waits for the in-flight frame
func (cs *ClockScheduler) Stop() {
	cs.stopOnce.Do(func() {
		close(cs.stopChan)
		if cs.running.Load() {
			cs.wg.Wait()
		}
	})
}

// Done is closed once Stop was called
func (cs *ClockScheduler) Done() <-chan struct{} {
	return cs.stopChan
}

// Submit queues fn to run on the loop goroutine before the next frame
// Returns false when the request buffer is full or the scheduler stopped
func (cs *ClockScheduler) Submit(fn func()) bool {
	select {
	case <-cs.stopChan:
		return false
	default:
	}
	select {
	case cs.requests <- fn:
		return true
	default:
		cs.log.Warn("clock request dropped, buffer full")
		return false
	}
}

// TogglePause flips pause and returns the new state
func (cs *ClockScheduler) TogglePause() bool {
	paused := cs.clock.Toggle()
	cs.statPaused.Store(paused)
	cs.log.Info("clock pause toggled", zap.Bool("paused", paused))
	return paused
}

// IsPaused reports the clock pause state
func (cs *ClockScheduler) IsPaused() bool {
	return cs.clock.IsPaused()
}

// Frames returns the number of frames run
func (cs *ClockScheduler) Frames() uint64 {
	return cs.frames.Load()
}

func (cs *ClockScheduler) loop() {
	defer cs.wg.Done()

	cs.mu.Lock()
	cs.nextDeadline = cs.clock.Now().Add(cs.interval)
	cs.mu.Unlock()

	timer := time.NewTimer(0)
	drain(timer)
	defer timer.Stop()

	for {
		select {
		case <-cs.stopChan:
			return
		case fn := <-cs.requests:
			fn()
			continue
		default:
		}

		var sleep time.Duration
		if cs.clock.IsPaused() {
			sleep = cs.interval * 2
		} else {
			now := cs.clock.Now()

			cs.mu.Lock()
			deadline := cs.nextDeadline
			cs.mu.Unlock()

			if now.Before(deadline) {
				sleep = deadline.Sub(now)
			} else {
				cs.runFrame()

				cs.mu.Lock()
				cs.nextDeadline = cs.nextDeadline.Add(cs.interval)
				if now.Sub(cs.nextDeadline) > cs.interval*parameter.MaxFrameCatchUp {
					cs.nextDeadline = now.Add(cs.interval)
				}
				deadline = cs.nextDeadline
				cs.mu.Unlock()

				sleep = max(deadline.Sub(cs.clock.Now()), 0)
			}
		}

		if sleep <= 0 {
			continue
		}
		timer.Reset(sleep)
		select {
		case <-timer.C:
		case fn := <-cs.requests:
			drain(timer)
			fn()
		case <-cs.stopChan:
			return
		}
	}
}

func (cs *ClockScheduler) runFrame() {
	start := time.Now()
	cs.framer.Frame()
	cs.frames.Add(1)
	cs.statFrameMs.Set(float64(time.Since(start).Microseconds()) / 1000)
}

// drain stops t and discards a pending tick
func drain(t *time.Timer) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
}
