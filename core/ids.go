package core

// RoomID identifies a room (scene)
type RoomID int

// SequenceID identifies a sprite sequence in the resource pack
type SequenceID int

// SlotID identifies an animation slot ("lan") within the current room
// Slot 0 is reserved for the actor
type SlotID int

// ActorSlot is the playback slot used by actor animations
const ActorSlot SlotID = 0

// TrackID identifies an auto object track
type TrackID int

// TimerID identifies a room timer
type TimerID int

// ObjectID identifies a static object in the room object table
type ObjectID int

// SoundID identifies a one-shot sound effect
type SoundID int

// MusicID identifies a music theme, 0 stops music
type MusicID int

// DialogID identifies a dialog tree in the resource pack
type DialogID int
