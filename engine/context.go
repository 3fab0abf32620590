package engine

import (
	"go.uber.org/zap"

	"github.com/lixenwraith/scenekit/anim"
	"github.com/lixenwraith/scenekit/core"
	"github.com/lixenwraith/scenekit/dialog"
	"github.com/lixenwraith/scenekit/event"
	"github.com/lixenwraith/scenekit/input"
	"github.com/lixenwraith/scenekit/resource"
	"github.com/lixenwraith/scenekit/timer"
	"github.com/lixenwraith/scenekit/track"
	"github.com/lixenwraith/scenekit/walk"
)

// RoomContext is the scene state handed to every hook, script and renderer
// It is owned by the loop goroutine; scripts touch it only while resumed
type RoomContext struct {
	Room      *resource.Room // nil until the first room loads
	Actor     walk.Actor
	Tracks    *track.Animator
	Timers    *timer.Registry
	Playbacks *anim.Player
	Dialog    *dialog.Runner

	// Object enabled state and overlay values, seeded from the room table on load
	Objects map[core.ObjectID]bool
	Ons     map[int]int

	Global map[string]int

	Input input.State
	Frame int64
	Log   *zap.Logger

	roomFlags map[core.RoomID]map[string]int
	sched     *Scheduler
}

func newRoomContext(s *Scheduler, timing dialog.Timing, log *zap.Logger) *RoomContext {
	return &RoomContext{
		Tracks:    track.NewAnimator(),
		Timers:    timer.NewRegistry(),
		Playbacks: anim.NewPlayer(),
		Dialog:    dialog.NewRunner(timing),
		Objects:   make(map[core.ObjectID]bool),
		Ons:       make(map[int]int),
		Global:    make(map[string]int),
		Log:       log,
		roomFlags: make(map[core.RoomID]map[string]int),
		sched:     s,
	}
}

// RoomID returns the active room, zero before the first load
func (rc *RoomContext) RoomID() core.RoomID {
	if rc.Room == nil {
		return 0
	}
	return rc.Room.ID
}

// Flags returns the flag table of the active room, kept across visits
func (rc *RoomContext) Flags() map[string]int {
	id := rc.RoomID()
	m, ok := rc.roomFlags[id]
	if !ok {
		m = make(map[string]int)
		rc.roomFlags[id] = m
	}
	return m
}

// Flag reads a room flag
func (rc *RoomContext) Flag(name string) int {
	return rc.Flags()[name]
}

// SetFlag writes a room flag immediately
func (rc *RoomContext) SetFlag(name string, v int) {
	rc.Flags()[name] = v
}

// ObjectEnabled reports whether obj is shown and clickable
func (rc *RoomContext) ObjectEnabled(obj core.ObjectID) bool {
	return rc.Objects[obj]
}

// ObjectAt returns the topmost enabled object containing p
func (rc *RoomContext) ObjectAt(p core.Point) (resource.Object, bool) {
	if rc.Room == nil {
		return resource.Object{}, false
	}
	for i := len(rc.Room.Objects) - 1; i >= 0; i-- {
		o := rc.Room.Objects[i]
		if rc.Objects[o.ID] && o.Rect.Contains(p) {
			return o, true
		}
	}
	return resource.Object{}, false
}

// Push enqueues ev and returns its sequence number
func (rc *RoomContext) Push(ev event.SceneEvent) uint64 {
	return rc.sched.Push(ev)
}

// PushWalk routes the actor to (x, y), one Walk per leg
func (rc *RoomContext) PushWalk(x, y int, facing core.Orientation) uint64 {
	return rc.sched.PushWalk(x, y, facing)
}

// PushPlayAnimation plays seq in slot at (x, y)
func (rc *RoomContext) PushPlayAnimation(slot core.SlotID, seq core.SequenceID, x, y int, async bool) uint64 {
	return rc.sched.PushPlayAnimation(slot, seq, x, y, async)
}

// InitTrack (re)starts a moving track immediately
func (rc *RoomContext) InitTrack(id core.TrackID, cfg track.Config) *track.Track {
	return rc.sched.InitTrack(id, cfg)
}

// SetTimer registers a timer immediately and returns its id
func (rc *RoomContext) SetTimer(initial, period int) core.TimerID {
	return rc.sched.SetTimer(initial, period)
}

// ShowDialogLine queues one sync message per line
func (rc *RoomContext) ShowDialogLine(lines ...event.MessageLine) uint64 {
	return rc.sched.ShowDialogLine(lines...)
}

// Start runs script as a coroutine until its first wait
func (rc *RoomContext) Start(name string, script Script) *ScriptHandle {
	return rc.sched.StartScript(name, script)
}

// Sequence resolves an animation sequence from the loader
func (rc *RoomContext) Sequence(id core.SequenceID) (*anim.Sequence, error) {
	return rc.sched.loader.Sequence(id)
}
