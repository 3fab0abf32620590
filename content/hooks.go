package content

import (
	"context"

	"go.uber.org/zap"

	"github.com/lixenwraith/scenekit/anim"
	"github.com/lixenwraith/scenekit/core"
	"github.com/lixenwraith/scenekit/engine"
	"github.com/lixenwraith/scenekit/event"
	"github.com/lixenwraith/scenekit/track"
)

// Room ids
const (
	RoomCourtyard core.RoomID = 1
	RoomCellar    core.RoomID = 2
)

// Courtyard objects and tracks
const (
	ObjDoor   core.ObjectID = 1
	ObjKeeper core.ObjectID = 2
	ObjKey    core.ObjectID = 3

	TrackCrow core.TrackID = 1
)

// Cellar objects
const (
	ObjStairs core.ObjectID = 1
	ObjChest  core.ObjectID = 2
)

const (
	seqCrow        core.SequenceID = 11
	seqDoorOpen    core.SequenceID = 12
	seqActorPickup core.SequenceID = 16

	slotDoor   core.SlotID = 4
	slotKeeper core.SlotID = 3

	dialogKeeper core.DialogID = 1

	soundChirp core.SoundID = 3
	soundDoor  core.SoundID = 5
	soundDrip  core.SoundID = 7
	soundPick  core.SoundID = 9
)

// Global flags
const (
	FlagKeyHint = "key_hint"
	FlagHasKey  = "has_key"
	FlagCellar  = "cellar_seen"
)

// Register binds every room hook and script of the demo
func Register(hooks *engine.Registry) {
	hooks.OnEnter(RoomCourtyard, enterCourtyard)
	hooks.OnExit(RoomCourtyard, func(rc *engine.RoomContext) {
		rc.Log.Debug("leaving courtyard")
	})
	hooks.OnTimer(RoomCourtyard, courtyardTimer)
	hooks.OnUse(RoomCourtyard, ObjKeeper, talkToKeeper)
	hooks.OnUse(RoomCourtyard, ObjKey, pickUpKey)
	hooks.OnUse(RoomCourtyard, ObjDoor, openDoor)
	hooks.OnTrack(RoomCourtyard, TrackCrow, func(ctx context.Context, st *engine.Stage) error {
		return st.Say("Just a crow, circling.")
	})

	hooks.OnEnter(RoomCellar, enterCellar)
	hooks.OnTimer(RoomCellar, func(rc *engine.RoomContext, id core.TimerID, slot int) {
		rc.Push(event.PlaySound(soundDrip, 0))
	})
	hooks.OnUse(RoomCellar, ObjStairs, func(ctx context.Context, st *engine.Stage) error {
		if err := st.Walk(24, 140, core.OrientLeft); err != nil {
			return err
		}
		st.Push(event.LoadSceneAt(RoomCourtyard, core.Point{X: 256, Y: 136}, core.OrientDown))
		return st.Sync()
	})
	hooks.OnUse(RoomCellar, ObjChest, func(ctx context.Context, st *engine.Stage) error {
		if err := st.Walk(236, 164, core.OrientRight); err != nil {
			return err
		}
		return st.Say("Empty. Someone got here first.")
	})
}

// enterCourtyard rebuilds the runtime state not kept in saves
func enterCourtyard(rc *engine.RoomContext) {
	rc.InitTrack(TrackCrow, track.Config{
		Origin: core.Point{X: 0, Y: 24},
		Segments: []track.Segment{
			{To: core.Point{X: 300, Y: 24}, Orientation: core.OrientRight, Speed: 4},
			{To: core.Point{X: 0, Y: 24}, Orientation: core.OrientLeft, Speed: 4},
		},
		Sequence: sequence(rc, seqCrow),
		Delay:    2,
		Repeat:   track.Forever,
	})
	rc.SetTimer(100, 150)

	if rc.Global[FlagKeyHint] == 1 && rc.Global[FlagHasKey] == 0 {
		rc.Push(event.EnableObject(ObjKey, true))
	}
	if rc.Flag("door_open") == 1 {
		rc.Push(event.SetLan(slotDoor, seqDoorOpen, 264, 104))
	}
}

func courtyardTimer(rc *engine.RoomContext, id core.TimerID, slot int) {
	rc.Push(event.PlaySound(soundChirp, 0))
	rc.SetFlag("chirps", rc.Flag("chirps")+1)
}

func talkToKeeper(ctx context.Context, st *engine.Stage) error {
	if err := st.Walk(112, 132, core.OrientLeft); err != nil {
		return err
	}
	if err := st.Dialog(dialogKeeper); err != nil {
		return err
	}
	rc := st.Room()
	if rc.Global[FlagKeyHint] == 1 && rc.Global[FlagHasKey] == 0 && !rc.ObjectEnabled(ObjKey) {
		st.Push(event.EnableObject(ObjKey, true))
		return st.Sync()
	}
	return nil
}

func pickUpKey(ctx context.Context, st *engine.Stage) error {
	if err := st.Walk(176, 172, core.OrientRight); err != nil {
		return err
	}
	st.Push(event.PlaySound(soundPick, 1))
	if err := st.PlayActorAnimation(seqActorPickup); err != nil {
		return err
	}
	st.Push(event.EnableObject(ObjKey, false))
	st.Push(event.SetFlag(FlagHasKey, 1, true))
	return st.Say("Got the key.")
}

func openDoor(ctx context.Context, st *engine.Stage) error {
	if err := st.Walk(256, 136, core.OrientUp); err != nil {
		return err
	}
	rc := st.Room()
	if rc.Global[FlagHasKey] == 0 {
		return st.Say("Locked.")
	}
	if rc.Flag("door_open") == 0 {
		st.Push(event.PlaySound(soundDoor, 0))
		if err := st.PlayAnimation(slotDoor, seqDoorOpen, 264, 104); err != nil {
			return err
		}
		rc.SetFlag("door_open", 1)
	}
	if err := st.Walk(272, 124, core.OrientUp); err != nil {
		return err
	}
	st.Push(event.LoadScene(RoomCellar))
	return st.Sync()
}

func enterCellar(rc *engine.RoomContext) {
	rc.SetTimer(40, 90)
	if rc.Global[FlagCellar] == 0 {
		rc.Global[FlagCellar] = 1
		rc.Log.Info("cellar discovered")
	}
}

// sequence resolves a sequence for a track, nil draws a placeholder
func sequence(rc *engine.RoomContext, id core.SequenceID) *anim.Sequence {
	seq, err := rc.Sequence(id)
	if err != nil {
		rc.Log.Warn("track sequence missing", zap.Int("sequence", int(id)), zap.Error(err))
		return nil
	}
	return seq
}
