package engine

import (
	"context"
	"sync"

	"github.com/lixenwraith/scenekit/core"
)

// Hook names a room callback point
type Hook uint8

const (
	HookEnter Hook = iota
	HookExit
	HookTimer
	HookUse
	HookTrack
)

func (h Hook) String() string {
	switch h {
	case HookEnter:
		return "enter"
	case HookExit:
		return "exit"
	case HookTimer:
		return "timer"
	case HookUse:
		return "use"
	case HookTrack:
		return "track"
	}
	return "unknown"
}

// RoomFunc runs on the loop goroutine and must not block
type RoomFunc func(rc *RoomContext)

// TimerFunc receives an expired timer of the active room
type TimerFunc func(rc *RoomContext, id core.TimerID, slot int)

// Script is a blocking-style procedure run as a coroutine through a Stage
type Script func(ctx context.Context, st *Stage) error

type hookKey struct {
	room   core.RoomID
	hook   Hook
	target int
}

// Registry maps symbolic (room, hook) keys to typed handlers
// Use and track scripts keyed with target zero serve as room-wide defaults
type Registry struct {
	mu      sync.RWMutex
	rooms   map[hookKey]RoomFunc
	timers  map[core.RoomID]TimerFunc
	scripts map[hookKey]Script
}

// NewRegistry creates an empty Registry
func NewRegistry() *Registry {
	return &Registry{
		rooms:   make(map[hookKey]RoomFunc),
		timers:  make(map[core.RoomID]TimerFunc),
		scripts: make(map[hookKey]Script),
	}
}

// OnEnter registers the hook run synchronously when room loads
func (r *Registry) OnEnter(room core.RoomID, fn RoomFunc) {
	r.mu.Lock()
	r.rooms[hookKey{room, HookEnter, 0}] = fn
	r.mu.Unlock()
}

// OnExit registers the hook run before room is torn down
func (r *Registry) OnExit(room core.RoomID, fn RoomFunc) {
	r.mu.Lock()
	r.rooms[hookKey{room, HookExit, 0}] = fn
	r.mu.Unlock()
}

// OnTimer registers the timer dispatch of room
func (r *Registry) OnTimer(room core.RoomID, fn TimerFunc) {
	r.mu.Lock()
	r.timers[room] = fn
	r.mu.Unlock()
}

// OnUse registers the script started when obj is clicked, zero obj for any object
func (r *Registry) OnUse(room core.RoomID, obj core.ObjectID, s Script) {
	r.mu.Lock()
	r.scripts[hookKey{room, HookUse, int(obj)}] = s
	r.mu.Unlock()
}

// OnTrack registers the script started when a moving track is clicked
func (r *Registry) OnTrack(room core.RoomID, id core.TrackID, s Script) {
	r.mu.Lock()
	r.scripts[hookKey{room, HookTrack, int(id)}] = s
	r.mu.Unlock()
}

// Room returns the enter or exit hook of room
func (r *Registry) Room(room core.RoomID, hook Hook) (RoomFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.rooms[hookKey{room, hook, 0}]
	return fn, ok
}

// Timer returns the timer dispatch of room
func (r *Registry) Timer(room core.RoomID) (TimerFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.timers[room]
	return fn, ok
}

// Script returns the use or track script for target, falling back to the room default
func (r *Registry) Script(room core.RoomID, hook Hook, target int) (Script, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if s, ok := r.scripts[hookKey{room, hook, target}]; ok {
		return s, true
	}
	s, ok := r.scripts[hookKey{room, hook, 0}]
	return s, ok
}

// Count returns the number of registered handlers
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms) + len(r.timers) + len(r.scripts)
}
