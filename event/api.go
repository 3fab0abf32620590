package event

import (
	"github.com/lixenwraith/scenekit/core"
)

// Constructors for the common event shapes used by room scripts

// Walk moves the actor to (x, y), facing orient on arrival
func Walk(x, y int, orient core.Orientation) SceneEvent {
	return SceneEvent{Type: EventWalk, Payload: WalkPayload{X: x, Y: y, Orientation: orient}}
}

// Warp places the actor at (x, y) on the next drain
func Warp(x, y int, orient core.Orientation) SceneEvent {
	return SceneEvent{Type: EventWalk, Payload: WalkPayload{X: x, Y: y, Orientation: orient, Warp: true}}
}

// PlayAnimation plays a sequence in a room slot at (x, y)
func PlayAnimation(slot core.SlotID, seq core.SequenceID, x, y int, async bool) SceneEvent {
	return SceneEvent{Type: EventPlayAnimation, Payload: AnimationPayload{
		Slot: slot, Sequence: seq, X: x, Y: y, Async: async,
	}}
}

// PlayActorAnimation plays a sequence on the actor
func PlayActorAnimation(seq core.SequenceID, async bool) SceneEvent {
	return SceneEvent{Type: EventPlayActorAnimation, Payload: AnimationPayload{
		Slot: core.ActorSlot, Sequence: seq, Async: async,
	}}
}

// Message shows a single line spoken by the actor
func Message(text string) SceneEvent {
	return SceneEvent{Type: EventMessage, Payload: MessagePayload{
		Lines: []MessageLine{{Text: text, Speaker: core.ActorSlot}},
	}}
}

// Say shows a line with the speaker's talk animation over [first, last]
func Say(speaker core.SlotID, talk core.SequenceID, first, last int, text string) SceneEvent {
	return SceneEvent{Type: EventMessage, Payload: MessagePayload{
		Lines: []MessageLine{{Text: text, Speaker: speaker, Talk: talk, FirstFrame: first, LastFrame: last}},
	}}
}

// WaitForAnimation holds until a slot stops
func WaitForAnimation(slot core.SlotID) SceneEvent {
	return SceneEvent{Type: EventWaitForAnimation, Payload: SlotPayload{Slot: slot}}
}

// WaitLanAnimationFrame holds until a slot shows frame
func WaitLanAnimationFrame(slot core.SlotID, frame int) SceneEvent {
	return SceneEvent{Type: EventWaitLanAnimationFrame, Payload: FramePayload{Slot: slot, Frame: frame}}
}

// Wait holds for n frames
func Wait(frames int) SceneEvent {
	return SceneEvent{Type: EventWait, Payload: WaitPayload{Frames: frames}}
}

// WaitForTrack holds until a track finishes
func WaitForTrack(id core.TrackID) SceneEvent {
	return SceneEvent{Type: EventWaitForTrack, Payload: TrackPayload{Track: id}}
}

// LoadScene switches to room, keeping the room default entry
func LoadScene(room core.RoomID) SceneEvent {
	return SceneEvent{Type: EventLoadScene, Payload: LoadScenePayload{Room: room}}
}

// LoadSceneAt switches to room placing the actor at entry
func LoadSceneAt(room core.RoomID, entry core.Point, orient core.Orientation) SceneEvent {
	p := entry
	return SceneEvent{Type: EventLoadScene, Payload: LoadScenePayload{Room: room, Entry: &p, Facing: orient.String()}}
}

// SetOn sets a room overlay value
func SetOn(on, value int) SceneEvent {
	return SceneEvent{Type: EventSetOn, Payload: SetOnPayload{On: on, Value: value}}
}

// SetLan sets an ambient loop in slot, zero seq clears it
func SetLan(slot core.SlotID, seq core.SequenceID, x, y int) SceneEvent {
	return SceneEvent{Type: EventSetLan, Payload: SetLanPayload{Slot: slot, Sequence: seq, X: x, Y: y}}
}

// PlayMusic switches the music theme
func PlayMusic(id core.MusicID) SceneEvent {
	return SceneEvent{Type: EventPlayMusic, Payload: MusicPayload{Music: id}}
}

// PlaySound plays an effect after delay frames
func PlaySound(id core.SoundID, delay int) SceneEvent {
	return SceneEvent{Type: EventPlaySound, Payload: SoundPayload{Sound: id, Delay: delay}}
}

// EnableObject toggles a room object
func EnableObject(id core.ObjectID, enabled bool) SceneEvent {
	return SceneEvent{Type: EventEnableObject, Payload: ObjectPayload{Object: id, Enabled: enabled}}
}

// HideActor toggles actor visibility
func HideActor(hidden bool) SceneEvent {
	return SceneEvent{Type: EventHideActor, Payload: HideActorPayload{Hidden: hidden}}
}

// SetTimer registers a timer firing after initial frames then every period
func SetTimer(initial, period int) SceneEvent {
	return SceneEvent{Type: EventTimer, Payload: TimerPayload{Op: TimerSet, Initial: initial, Period: period}}
}

// ResetTimer restarts a timer countdown at period plus extra frames
func ResetTimer(id core.TimerID, extra int) SceneEvent {
	return SceneEvent{Type: EventTimer, Payload: TimerPayload{Op: TimerReset, Timer: id, Extra: extra}}
}

// StopTimer stops a timer
func StopTimer(id core.TimerID) SceneEvent {
	return SceneEvent{Type: EventTimer, Payload: TimerPayload{Op: TimerStop, Timer: id}}
}

// StartTimer resumes a stopped timer
func StartTimer(id core.TimerID) SceneEvent {
	return SceneEvent{Type: EventTimer, Payload: TimerPayload{Op: TimerStart, Timer: id}}
}

// SetFlag writes a room flag, or a global flag when global is set
func SetFlag(name string, value int, global bool) SceneEvent {
	return SceneEvent{Type: EventSetFlag, Payload: FlagPayload{Name: name, Value: value, Global: global}}
}
