package timer

import (
	"github.com/lixenwraith/scenekit/core"
)

// Timer is a per-room countdown
type Timer struct {
	ID        core.TimerID
	Slot      int // registration index within the room
	Remaining int
	Period    int // reload value, zero makes the timer one-shot
	Running   bool
	Fired     int
}

// DispatchFunc receives expired timers
type DispatchFunc func(id core.TimerID, slot int)

// Registry holds the timers of the active room in registration order
type Registry struct {
	timers  []*Timer
	byID    map[core.TimerID]*Timer
	nextID  core.TimerID
	expired []*Timer
}

// NewRegistry creates an empty Registry
func NewRegistry() *Registry {
	return &Registry{byID: make(map[core.TimerID]*Timer)}
}

// Set registers a running timer firing after initial ticks then every period
func (r *Registry) Set(initial, period int) core.TimerID {
	r.nextID++
	t := &Timer{
		ID:        r.nextID,
		Slot:      len(r.timers),
		Remaining: max(initial, 1),
		Period:    max(period, 0),
		Running:   true,
	}
	r.timers = append(r.timers, t)
	r.byID[t.ID] = t
	return t.ID
}

// Reset restarts the countdown from the current tick at period plus extra
// A stopped timer is started again; unknown ids are ignored
func (r *Registry) Reset(id core.TimerID, extra int) bool {
	t, ok := r.byID[id]
	if !ok {
		return false
	}
	t.Remaining = max(t.Period+extra, 1)
	t.Running = true
	return true
}

// Start resumes a stopped timer with its remaining count
func (r *Registry) Start(id core.TimerID) bool {
	t, ok := r.byID[id]
	if !ok {
		return false
	}
	if t.Remaining < 1 {
		t.Remaining = max(t.Period, 1)
	}
	t.Running = true
	return true
}

// Stop halts a timer, stopping twice or an unknown id is a no-op
func (r *Registry) Stop(id core.TimerID) {
	if t, ok := r.byID[id]; ok {
		t.Running = false
	}
}

// StopAll halts every timer
func (r *Registry) StopAll() {
	for _, t := range r.timers {
		t.Running = false
	}
}

// Clear drops every timer, used on room switch
// Ids keep increasing so stale handles from the previous room never alias
func (r *Registry) Clear() {
	r.timers = r.timers[:0]
	clear(r.byID)
}

// Get returns the timer with id
func (r *Registry) Get(id core.TimerID) (*Timer, bool) {
	t, ok := r.byID[id]
	return t, ok
}

// Running reports whether id is counting down
func (r *Registry) Running(id core.TimerID) bool {
	t, ok := r.byID[id]
	return ok && t.Running
}

// ActiveCount returns the number of running timers
func (r *Registry) ActiveCount() int {
	n := 0
	for _, t := range r.timers {
		if t.Running {
			n++
		}
	}
	return n
}

// Tick decrements every running timer once and dispatches those reaching zero
// The expired set is snapshotted and reloaded before any dispatch, so callbacks
// may start, stop, reset or register timers freely
func (r *Registry) Tick(dispatch DispatchFunc) int {
	r.expired = r.expired[:0]
	for _, t := range r.timers {
		if !t.Running {
			continue
		}
		t.Remaining--
		if t.Remaining > 0 {
			continue
		}
		r.expired = append(r.expired, t)
		t.Fired++
		if t.Period > 0 {
			t.Remaining = t.Period
		} else {
			t.Running = false
		}
	}

	n := len(r.expired)
	for i := 0; i < n; i++ {
		t := r.expired[i]
		if dispatch != nil {
			dispatch(t.ID, t.Slot)
		}
	}
	return n
}
