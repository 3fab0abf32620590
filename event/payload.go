package event

import (
	"github.com/lixenwraith/scenekit/core"
)

// WalkPayload moves the actor to a destination
type WalkPayload struct {
	X           int              `yaml:"x"`
	Y           int              `yaml:"y"`
	Orientation core.Orientation `yaml:"-"`
	Facing      string           `yaml:"facing"` // final orientation by name, overrides Orientation
	Warp        bool             `yaml:"warp"`
}

// Destination returns the target point
func (p WalkPayload) Destination() core.Point {
	return core.Point{X: p.X, Y: p.Y}
}

// FinalOrientation resolves the orientation hint applied on arrival
func (p WalkPayload) FinalOrientation() core.Orientation {
	if p.Facing != "" {
		return core.ParseOrientation(p.Facing)
	}
	return p.Orientation
}

// FrameSound plays a sound when a playback shows a given frame
type FrameSound struct {
	Frame int          `yaml:"frame"`
	Sound core.SoundID `yaml:"sound"`
}

// AnimationPayload starts a sequence playback in a slot
// Slot is ignored for actor animations
type AnimationPayload struct {
	Slot     core.SlotID     `yaml:"slot"`
	Sequence core.SequenceID `yaml:"sequence"`
	X        int             `yaml:"x"`
	Y        int             `yaml:"y"`
	Async    bool            `yaml:"async"`
	Loop     bool            `yaml:"loop"`
	Reverse  bool            `yaml:"reverse"`
	Sounds   []FrameSound    `yaml:"sounds"`
}

// MessageLine is one speaker's text, several lines render split-screen
type MessageLine struct {
	Text       string          `yaml:"text"`
	Speaker    core.SlotID     `yaml:"speaker"`
	Region     core.Rect       `yaml:"-"`
	Talk       core.SequenceID `yaml:"talk"` // talk animation for the speaker, zero for none
	FirstFrame int             `yaml:"first_frame"`
	LastFrame  int             `yaml:"last_frame"`
}

// MessagePayload shows one or more lines at once
type MessagePayload struct {
	Lines  []MessageLine `yaml:"lines"`
	Frames int           `yaml:"frames"` // explicit timeout, zero derives from text length
	Async  bool          `yaml:"async"`
}

// SlotPayload names an animation slot
type SlotPayload struct {
	Slot core.SlotID `yaml:"slot"`
}

// FramePayload names a slot and a target frame
type FramePayload struct {
	Slot  core.SlotID `yaml:"slot"`
	Frame int         `yaml:"frame"`
}

// WaitPayload is a frame delay
type WaitPayload struct {
	Frames int `yaml:"frames"`
}

// TrackPayload names an auto object track
type TrackPayload struct {
	Track core.TrackID `yaml:"track"`
}

// LoadScenePayload switches to a room, Entry nil keeps the room default entry
type LoadScenePayload struct {
	Room   core.RoomID `yaml:"room"`
	Entry  *core.Point `yaml:"entry"`
	Facing string      `yaml:"facing"`
}

// SetOnPayload sets a room overlay value
type SetOnPayload struct {
	On    int `yaml:"on"`
	Value int `yaml:"value"`
}

// SetLanPayload sets an ambient looping animation, zero sequence clears the slot
type SetLanPayload struct {
	Slot     core.SlotID     `yaml:"slot"`
	Sequence core.SequenceID `yaml:"sequence"`
	X        int             `yaml:"x"`
	Y        int             `yaml:"y"`
}

// MusicPayload selects a music theme
type MusicPayload struct {
	Music core.MusicID `yaml:"music"`
}

// SoundPayload plays a sound effect after Delay frames
type SoundPayload struct {
	Sound core.SoundID `yaml:"sound"`
	Delay int          `yaml:"delay"`
}

// ObjectPayload enables or disables a room object
type ObjectPayload struct {
	Object  core.ObjectID `yaml:"object"`
	Enabled bool          `yaml:"enabled"`
}

// HideActorPayload toggles actor visibility
type HideActorPayload struct {
	Hidden bool `yaml:"hidden"`
}

// TimerOp selects the timer mutation
type TimerOp uint8

const (
	TimerSet TimerOp = iota
	TimerReset
	TimerStart
	TimerStop
	TimerStopAll
)

// TimerPayload mutates a room timer
// Set ignores Timer and registers a new one
type TimerPayload struct {
	Op      TimerOp      `yaml:"-"`
	Action  string       `yaml:"action"` // set, reset, start, stop, stop_all
	Timer   core.TimerID `yaml:"timer"`
	Initial int          `yaml:"initial"`
	Period  int          `yaml:"period"`
	Extra   int          `yaml:"extra"`
}

// Operation resolves Action over Op
func (p TimerPayload) Operation() TimerOp {
	switch p.Action {
	case "reset":
		return TimerReset
	case "start":
		return TimerStart
	case "stop":
		return TimerStop
	case "stop_all":
		return TimerStopAll
	case "set":
		return TimerSet
	}
	return p.Op
}

// FlagPayload writes a room or global flag
type FlagPayload struct {
	Name   string `yaml:"name"`
	Value  int    `yaml:"value"`
	Global bool   `yaml:"global"`
}
