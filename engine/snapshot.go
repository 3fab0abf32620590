package engine

import (
	"fmt"
	"maps"

	"go.uber.org/zap"

	"github.com/lixenwraith/scenekit/core"
	"github.com/lixenwraith/scenekit/track"
)

// ActorView is the observable actor state
type ActorView struct {
	X           int    `json:"x"`
	Y           int    `json:"y"`
	Orientation string `json:"orientation"`
	Walking     bool   `json:"walking"`
	Hidden      bool   `json:"hidden"`
}

// TrackView is the observable state of one moving track
type TrackView struct {
	ID       core.TrackID `json:"id"`
	X        int          `json:"x"`
	Y        int          `json:"y"`
	Finished bool         `json:"finished"`
}

// PlaybackView is the observable state of one slot
type PlaybackView struct {
	Slot     core.SlotID     `json:"slot"`
	Sequence core.SequenceID `json:"sequence"`
	Frame    int             `json:"frame"`
	Running  bool            `json:"running"`
}

// Snapshot is the per-frame state published to observers
type Snapshot struct {
	Frame     int64          `json:"frame"`
	Room      core.RoomID    `json:"room"`
	Actor     ActorView      `json:"actor"`
	Queue     int            `json:"queue"`
	Completed uint64         `json:"completed"`
	Dialog    string         `json:"dialog"`
	Lines     []string       `json:"lines,omitempty"`
	Tracks    []TrackView    `json:"tracks,omitempty"`
	Playbacks []PlaybackView `json:"playbacks,omitempty"`
	Timers    int            `json:"timers"`
	Scripts   int            `json:"scripts"`
}

// Snapshot captures the observable scene state
func (s *Scheduler) Snapshot() Snapshot {
	rc := s.rc
	a := rc.Actor
	snap := Snapshot{
		Frame: s.frame,
		Room:  rc.RoomID(),
		Actor: ActorView{
			X:           a.Position.X,
			Y:           a.Position.Y,
			Orientation: a.Orientation.String(),
			Walking:     a.Walking,
			Hidden:      a.Hidden,
		},
		Queue:     s.queue.Len(),
		Completed: s.completed,
		Dialog:    rc.Dialog.State().String(),
		Timers:    rc.Timers.ActiveCount(),
		Scripts:   len(s.scripts),
	}
	for _, l := range rc.Dialog.Lines() {
		snap.Lines = append(snap.Lines, l.Text)
	}
	for _, id := range rc.Tracks.IDs() {
		if t, ok := rc.Tracks.Get(id); ok {
			snap.Tracks = append(snap.Tracks, trackView(t))
		}
	}
	for _, slot := range rc.Playbacks.Slots() {
		pb, _ := rc.Playbacks.Get(slot)
		v := PlaybackView{Slot: slot, Frame: pb.Frame, Running: pb.Running}
		if pb.Sequence != nil {
			v.Sequence = pb.Sequence.ID
		}
		snap.Playbacks = append(snap.Playbacks, v)
	}
	return snap
}

func trackView(t *track.Track) TrackView {
	return TrackView{ID: t.ID, X: t.Position.X, Y: t.Position.Y, Finished: t.Finished()}
}

// SaveState is the persisted subset of the scene
// Tracks, timers and playbacks are rebuilt by the room enter hook
type SaveState struct {
	Room        core.RoomID                    `json:"room"`
	Position    core.Point                     `json:"position"`
	Orientation core.Orientation               `json:"orientation"`
	RoomFlags   map[core.RoomID]map[string]int `json:"room_flags"`
	Global      map[string]int                 `json:"global"`
}

// Capture copies the persisted subset of the scene
func (s *Scheduler) Capture() SaveState {
	rc := s.rc
	st := SaveState{
		Room:        rc.RoomID(),
		Position:    rc.Actor.Position,
		Orientation: rc.Actor.Orientation,
		RoomFlags:   make(map[core.RoomID]map[string]int, len(rc.roomFlags)),
		Global:      maps.Clone(rc.Global),
	}
	for id, flags := range rc.roomFlags {
		if len(flags) > 0 {
			st.RoomFlags[id] = maps.Clone(flags)
		}
	}
	return st
}

// Restore replaces the scene with st: pending events are dropped, scripts
// cancelled, flags replaced and the saved room entered at the saved position
// The enter hook runs synchronously so room state exists before the next frame
func (s *Scheduler) Restore(st SaveState) error {
	if _, err := s.loader.Room(st.Room); err != nil {
		return fmt.Errorf("restore room %d: %w", st.Room, err)
	}

	// Scripts observe cancellation before the scene they wait on disappears
	for _, co := range s.scripts {
		co.cancel()
	}
	dropped := s.queue.Clear()
	s.completed = s.queue.LastSeq()
	s.head = held{}
	s.cancelScripts()
	s.finishMessage()

	rc := s.rc
	rc.Global = make(map[string]int, len(st.Global))
	maps.Copy(rc.Global, st.Global)
	rc.roomFlags = make(map[core.RoomID]map[string]int, len(st.RoomFlags))
	for id, flags := range st.RoomFlags {
		if len(flags) > 0 {
			rc.roomFlags[id] = maps.Clone(flags)
		}
	}
	rc.Actor.Hidden = false

	// No exit hook for the room being replaced
	rc.Room = nil
	pos := st.Position
	s.loadRoom(st.Room, &pos, st.Orientation)

	s.log.Info("scene restored", zap.Int("room", int(st.Room)), zap.Int("dropped_events", dropped))
	return nil
}
