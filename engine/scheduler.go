package engine

import (
	"context"
	"fmt"
	"maps"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/lixenwraith/scenekit/anim"
	"github.com/lixenwraith/scenekit/audio"
	"github.com/lixenwraith/scenekit/core"
	"github.com/lixenwraith/scenekit/dialog"
	"github.com/lixenwraith/scenekit/event"
	"github.com/lixenwraith/scenekit/input"
	"github.com/lixenwraith/scenekit/parameter"
	"github.com/lixenwraith/scenekit/resource"
	"github.com/lixenwraith/scenekit/status"
	"github.com/lixenwraith/scenekit/track"
	"github.com/lixenwraith/scenekit/walk"
)

// Renderer draws the scene after the frame's drain
type Renderer interface {
	RenderFrame(rc *RoomContext)
}

// Observer receives a snapshot at the end of every frame
type Observer interface {
	Publish(snap Snapshot)
}

// ActionFunc receives input actions the scene itself does not consume
type ActionFunc func(a input.Action)

// Options wires a Scheduler to its collaborators
// Nil collaborators are replaced by inert defaults, Loader is required
type Options struct {
	Loader   resource.Loader
	Hooks    *Registry
	Input    input.Source
	Audio    audio.Player
	Renderer Renderer
	Observer Observer
	OnAction ActionFunc
	Status   *status.Registry
	Log      *zap.Logger

	Speed      walk.Speed
	Timing     dialog.Timing
	MaxScripts int
}

// held is the progress of the durative event at the queue head
type held struct {
	seq       uint64
	started   bool
	legs      []core.Point // remaining walk legs, last is the destination
	remaining int
	playback  *anim.Playback
}

type talkSlot struct {
	slot core.SlotID
	prev *anim.Playback
}

// activeMessage is the dialog line owned by a Message event
type activeMessage struct {
	seq   uint64
	async bool
	talk  []talkSlot
}

type pendingSound struct {
	id        core.SoundID
	remaining int
}

// Scheduler owns the scene queue and advances every subsystem once per frame
// Methods run on the loop goroutine or inside a resumed script; other
// goroutines hand work over through ClockScheduler.Submit
type Scheduler struct {
	queue  *event.Queue
	rc     *RoomContext
	loader resource.Loader
	hooks  *Registry
	input  input.Source
	audio  audio.Player

	renderer Renderer
	observer Observer
	onAction ActionFunc

	speed      walk.Speed
	maxScripts int
	log        *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc

	frame     int64
	completed uint64 // sequence of the last popped event
	head      held
	message   *activeMessage
	sounds    []pendingSound
	busy      bool // dialog held input at the start of this frame

	// Projected actor position after queued walks, used to plan the next route
	walkTail    core.Point
	walkTailSeq uint64

	scripts      []*coroutine
	ready        []*coroutine
	suspendOrder uint64

	depthWarned bool

	statFrame     *atomic.Int64
	statDepth     *atomic.Int64
	statHighWater *atomic.Int64
	statApplied   *atomic.Int64
	statPanics    *atomic.Int64
	statScripts   *atomic.Int64
	statTimers    *atomic.Int64
	statTracks    *atomic.Int64
	statPlaybacks *atomic.Int64
	statRoom      *atomic.Int64
	statDialog    *status.AtomicString
}

// NewScheduler creates a Scheduler with an empty queue and no room loaded
func NewScheduler(opts Options) *Scheduler {
	if opts.Hooks == nil {
		opts.Hooks = NewRegistry()
	}
	if opts.Audio == nil {
		opts.Audio = audio.Silent{}
	}
	if opts.Status == nil {
		opts.Status = status.NewRegistry()
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	if opts.Speed == (walk.Speed{}) {
		opts.Speed = walk.DefaultSpeed
	}
	if opts.Timing == (dialog.Timing{}) {
		opts.Timing = dialog.DefaultTiming
	}
	if opts.MaxScripts <= 0 {
		opts.MaxScripts = parameter.MaxScripts
	}
	if opts.Loader == nil {
		opts.Loader = resource.NewPack()
	}

	ctx, cancel := context.WithCancel(context.Background())
	reg := opts.Status
	s := &Scheduler{
		queue:      event.NewQueue(),
		loader:     opts.Loader,
		hooks:      opts.Hooks,
		input:      opts.Input,
		audio:      opts.Audio,
		renderer:   opts.Renderer,
		observer:   opts.Observer,
		onAction:   opts.OnAction,
		speed:      opts.Speed,
		maxScripts: opts.MaxScripts,
		log:        opts.Log,
		ctx:        ctx,
		cancel:     cancel,

		statFrame:     reg.Ints.Get(status.KeyFrame),
		statDepth:     reg.Ints.Get(status.KeyQueueDepth),
		statHighWater: reg.Ints.Get(status.KeyQueueHighWater),
		statApplied:   reg.Ints.Get(status.KeyEventsApplied),
		statPanics:    reg.Ints.Get(status.KeyHandlerPanics),
		statScripts:   reg.Ints.Get(status.KeyScriptsActive),
		statTimers:    reg.Ints.Get(status.KeyTimersActive),
		statTracks:    reg.Ints.Get(status.KeyTracksActive),
		statPlaybacks: reg.Ints.Get(status.KeyPlaybacks),
		statRoom:      reg.Ints.Get(status.KeyRoom),
		statDialog:    reg.Strings.Get(status.KeyDialogState),
	}
	s.rc = newRoomContext(s, opts.Timing, opts.Log)
	return s
}

// Room returns the scene state
func (s *Scheduler) Room() *RoomContext {
	return s.rc
}

// FrameCount returns the number of frames run
func (s *Scheduler) FrameCount() int64 {
	return s.frame
}

// Pending returns the number of queued events
func (s *Scheduler) Pending() int {
	return s.queue.Len()
}

// Completed reports whether the event with seq has been drained
func (s *Scheduler) Completed(seq uint64) bool {
	return seq <= s.completed
}

// SetRenderer replaces the frame renderer
func (s *Scheduler) SetRenderer(r Renderer) {
	s.renderer = r
}

// SetObserver replaces the frame observer
func (s *Scheduler) SetObserver(o Observer) {
	s.observer = o
}

// Enter loads room synchronously, running its enter hook before returning
func (s *Scheduler) Enter(room core.RoomID) error {
	if _, err := s.loader.Room(room); err != nil {
		return fmt.Errorf("enter room %d: %w", room, err)
	}
	s.loadRoom(room, nil, core.OrientNone)
	return nil
}

// Close cancels every script and releases their goroutines
func (s *Scheduler) Close() {
	s.cancel()
	s.cancelScripts()
}

// Push enqueues ev and returns its sequence number
func (s *Scheduler) Push(ev event.SceneEvent) uint64 {
	seq := s.queue.Push(ev)
	if p, ok := ev.Payload.(event.WalkPayload); ok && ev.Type == event.EventWalk {
		s.walkTail, s.walkTailSeq = p.Destination(), seq
	}

	depth := int64(s.queue.Len())
	s.statDepth.Store(depth)
	if status.StoreMax(s.statHighWater, depth) && depth > parameter.QueueWarnDepth && !s.depthWarned {
		s.depthWarned = true
		s.log.Warn("scene queue deep", zap.Int64("depth", depth))
	}
	return seq
}

// PushWalk routes the actor to (x, y) through the room's walk area
// Each leg is its own Walk so every walk is monotone toward its own target
func (s *Scheduler) PushWalk(x, y int, facing core.Orientation) uint64 {
	from := s.rc.Actor.Position
	if s.walkTailSeq > s.completed {
		from = s.walkTail
	}
	legs := s.area().Plan(from, core.Point{X: x, Y: y})

	var seq uint64
	for i, leg := range legs {
		hint := core.OrientNone
		if i == len(legs)-1 {
			hint = facing
		}
		seq = s.Push(event.Walk(leg.X, leg.Y, hint))
	}
	return seq
}

// PushPlayAnimation plays seq in slot at (x, y)
func (s *Scheduler) PushPlayAnimation(slot core.SlotID, seq core.SequenceID, x, y int, async bool) uint64 {
	return s.Push(event.PlayAnimation(slot, seq, x, y, async))
}

// InitTrack (re)starts a track, inheriting the room zoom when cfg has none
func (s *Scheduler) InitTrack(id core.TrackID, cfg track.Config) *track.Track {
	if cfg.Zoom == (walk.ZoomHorizon{}) && s.rc.Room != nil {
		cfg.Zoom = s.rc.Room.Zoom
	}
	return s.rc.Tracks.Init(id, cfg)
}

// SetTimer registers a timer on the active room
func (s *Scheduler) SetTimer(initial, period int) core.TimerID {
	return s.rc.Timers.Set(initial, period)
}

// ShowDialogLine queues one sync message per line, returning the last sequence
func (s *Scheduler) ShowDialogLine(lines ...event.MessageLine) uint64 {
	return dialog.Sequence(s, lines)
}

// Frame runs one frame: input, timers, tracks, playbacks, dialog, drain,
// script resumption, render, observer
func (s *Scheduler) Frame() {
	s.frame++
	rc := s.rc
	rc.Frame = s.frame

	rc.Input = input.State{}
	if s.input != nil {
		rc.Input = s.input.Snapshot()
	}
	s.dispatchActions(rc.Input)

	rc.Timers.Tick(s.dispatchTimer)
	s.tickSounds()
	rc.Tracks.Update(s.trackFinished)
	rc.Playbacks.Update(s.playSound)

	s.busy = rc.Dialog.State() != dialog.Idle
	rc.Dialog.Update(rc.Input)
	if m := s.message; m != nil && m.async && rc.Dialog.Done() {
		s.finishMessage()
	}
	s.handleClick()

	s.DrainOneFrame()
	s.resumeScripts()

	if s.renderer != nil {
		s.renderer.RenderFrame(rc)
	}
	s.publish()
}

// DrainOneFrame applies queued events until one holds the head
// Held events are ticked once per frame; on completion the drain continues
func (s *Scheduler) DrainOneFrame() {
	for applied := 0; ; applied++ {
		if applied >= parameter.MaxDrainPerFrame {
			s.log.Warn("drain budget exhausted", zap.Int("pending", s.queue.Len()))
			return
		}
		ev, ok := s.queue.Peek()
		if !ok {
			break
		}
		if s.head.seq != ev.Seq {
			s.head = held{seq: ev.Seq}
		}
		if !s.apply(ev) {
			break
		}
		s.queue.Pop()
		s.completed = ev.Seq
		s.head = held{}
		s.statApplied.Add(1)
	}
	s.statDepth.Store(int64(s.queue.Len()))
}

// apply ticks ev once and reports whether it is complete
func (s *Scheduler) apply(ev event.SceneEvent) (done bool) {
	defer func() {
		if r := recover(); r != nil {
			s.statPanics.Add(1)
			s.log.Error("event panic recovered", zap.Stringer("event", ev.Type), zap.Uint64("seq", ev.Seq), zap.Any("panic", r))
			done = true
		}
	}()

	if !event.PayloadMatches(ev) {
		s.log.Warn("malformed event dropped", zap.Stringer("event", ev.Type), zap.Uint64("seq", ev.Seq))
		return true
	}

	rc := s.rc
	switch p := ev.Payload.(type) {
	case event.WalkPayload:
		return s.applyWalk(p)
	case event.AnimationPayload:
		return s.applyAnimation(ev.Type == event.EventPlayActorAnimation, p)
	case event.MessagePayload:
		return s.applyMessage(ev.Seq, p)
	case event.SlotPayload:
		return rc.Playbacks.Finished(p.Slot)
	case event.FramePayload:
		return rc.Playbacks.AtFrame(p.Slot, p.Frame)
	case event.WaitPayload:
		if !s.head.started {
			s.head.started = true
			s.head.remaining = p.Frames
		} else {
			s.head.remaining--
		}
		return s.head.remaining <= 0
	case event.TrackPayload:
		return rc.Tracks.Finished(p.Track)
	case event.LoadScenePayload:
		s.loadRoom(p.Room, p.Entry, core.ParseOrientation(p.Facing))
	case event.SetOnPayload:
		rc.Ons[p.On] = p.Value
	case event.SetLanPayload:
		s.setLan(p)
	case event.MusicPayload:
		s.audio.PlayMusic(p.Music)
	case event.SoundPayload:
		if p.Delay <= 0 {
			s.playSound(p.Sound)
		} else {
			s.sounds = append(s.sounds, pendingSound{id: p.Sound, remaining: p.Delay})
		}
	case event.ObjectPayload:
		rc.Objects[p.Object] = p.Enabled
	case event.HideActorPayload:
		rc.Actor.Hidden = p.Hidden
	case event.TimerPayload:
		s.applyTimer(p)
	case event.FlagPayload:
		if p.Global {
			rc.Global[p.Name] = p.Value
		} else {
			rc.SetFlag(p.Name, p.Value)
		}
	}
	return true
}

// applyWalk routes on the first tick, so walks pushed directly, decoded from
// cutscenes or queued by on_enter follow walk boxes like PushWalk ones
func (s *Scheduler) applyWalk(p event.WalkPayload) bool {
	rc := s.rc
	zoom := s.zoom()
	if !s.head.started {
		s.head.started = true
		if p.Warp {
			walk.Warp(&rc.Actor, s.area().Clamp(p.Destination()), zoom)
			walk.Arrive(&rc.Actor, p.FinalOrientation())
			return true
		}
		s.head.legs = s.area().Plan(rc.Actor.Position, p.Destination())
	}
	if !walk.Step(&rc.Actor, s.head.legs[0], s.speed, zoom) {
		return false
	}
	if len(s.head.legs) > 1 {
		s.head.legs = s.head.legs[1:]
		return false
	}
	walk.Arrive(&rc.Actor, p.FinalOrientation())
	return true
}

func (s *Scheduler) applyAnimation(actor bool, p event.AnimationPayload) bool {
	rc := s.rc
	slot, pos := p.Slot, core.Point{X: p.X, Y: p.Y}
	if actor {
		slot, pos = core.ActorSlot, rc.Actor.Position
	}

	if s.head.started {
		cur, ok := rc.Playbacks.Get(slot)
		return !ok || cur != s.head.playback || !cur.Running
	}
	s.head.started = true

	seq, err := s.loader.Sequence(p.Sequence)
	if err != nil {
		s.log.Warn("animation skipped", zap.Int("slot", int(slot)), zap.Error(err))
		return true
	}
	pb := rc.Playbacks.Start(slot, seq, anim.Options{
		Position: pos,
		Loop:     p.Loop,
		Reverse:  p.Reverse,
		Sounds:   p.Sounds,
	}, s.playSound)

	if p.Async {
		return true
	}
	if p.Loop {
		s.log.Info("looping animation requested sync, started async", zap.Int("slot", int(slot)), zap.Int("sequence", int(p.Sequence)))
		return true
	}
	s.head.playback = pb
	return !pb.Running
}

func (s *Scheduler) applyMessage(seq uint64, p event.MessagePayload) bool {
	rc := s.rc
	if !s.head.started {
		s.head.started = true
		s.finishMessage()
		rc.Dialog.Show(p.Lines, p.Frames)
		s.message = &activeMessage{seq: seq, async: p.Async}
		s.startTalk(p.Lines)
		return p.Async
	}
	if rc.Dialog.Done() || rc.Dialog.State() == dialog.Idle {
		s.finishMessage()
		return true
	}
	return false
}

// startTalk loops each speaker's talk window while its line is shown
func (s *Scheduler) startTalk(lines []event.MessageLine) {
	rc := s.rc
	m := s.message
	for _, l := range lines {
		if l.Talk == 0 {
			continue
		}
		dup := false
		for _, t := range m.talk {
			dup = dup || t.slot == l.Speaker
		}
		if dup {
			continue
		}
		seq, err := s.loader.Sequence(l.Talk)
		if err != nil {
			s.log.Warn("talk animation skipped", zap.Int("speaker", int(l.Speaker)), zap.Error(err))
			continue
		}
		prev, _ := rc.Playbacks.Get(l.Speaker)
		pos := rc.Actor.Position
		if l.Speaker != core.ActorSlot && prev != nil {
			pos = prev.Position
		}
		rc.Playbacks.Start(l.Speaker, seq, anim.Options{
			Position: pos,
			Loop:     true,
			First:    l.FirstFrame,
			Last:     l.LastFrame,
		}, s.playSound)
		m.talk = append(m.talk, talkSlot{slot: l.Speaker, prev: prev})
	}
}

// finishMessage closes the active line and restores speaker slots
func (s *Scheduler) finishMessage() {
	m := s.message
	if m == nil {
		return
	}
	s.message = nil
	s.rc.Dialog.Close()
	for _, t := range m.talk {
		s.rc.Playbacks.Remove(t.slot)
		s.rc.Playbacks.Put(t.prev)
	}
}

func (s *Scheduler) setLan(p event.SetLanPayload) {
	rc := s.rc
	if p.Sequence == 0 {
		rc.Playbacks.Remove(p.Slot)
		return
	}
	seq, err := s.loader.Sequence(p.Sequence)
	if err != nil {
		s.log.Warn("ambient animation skipped", zap.Int("slot", int(p.Slot)), zap.Error(err))
		return
	}
	rc.Playbacks.Start(p.Slot, seq, anim.Options{
		Position: core.Point{X: p.X, Y: p.Y},
		Loop:     true,
	}, s.playSound)
}

func (s *Scheduler) applyTimer(p event.TimerPayload) {
	timers := s.rc.Timers
	switch p.Operation() {
	case event.TimerSet:
		id := timers.Set(p.Initial, p.Period)
		s.log.Debug("timer set", zap.Int("timer", int(id)), zap.Int("initial", p.Initial), zap.Int("period", p.Period))
	case event.TimerReset:
		timers.Reset(p.Timer, p.Extra)
	case event.TimerStart:
		timers.Start(p.Timer)
	case event.TimerStop:
		timers.Stop(p.Timer)
	case event.TimerStopAll:
		timers.StopAll()
	}
}

func (s *Scheduler) dispatchTimer(id core.TimerID, slot int) {
	fn, ok := s.hooks.Timer(s.rc.RoomID())
	if !ok {
		s.log.Debug("timer fired without handler", zap.Int("timer", int(id)))
		return
	}
	s.guard("timer", func() { fn(s.rc, id, slot) })
}

func (s *Scheduler) trackFinished(id core.TrackID) {
	s.log.Debug("track finished", zap.Int("track", int(id)))
}

func (s *Scheduler) playSound(id core.SoundID) {
	s.audio.PlaySound(id)
}

func (s *Scheduler) tickSounds() {
	kept := s.sounds[:0]
	for _, ps := range s.sounds {
		ps.remaining--
		if ps.remaining <= 0 {
			s.playSound(ps.id)
			continue
		}
		kept = append(kept, ps)
	}
	s.sounds = kept
}

func (s *Scheduler) dispatchActions(in input.State) {
	if s.onAction == nil {
		return
	}
	for _, a := range in.Actions {
		if a == input.ActionSkip {
			continue
		}
		s.onAction(a)
	}
}

// handleClick routes a primary click when the player has control:
// tracks, then objects, then the floor
func (s *Scheduler) handleClick() {
	rc := s.rc
	if !rc.Input.Clicked || s.busy || rc.Room == nil {
		return
	}
	if len(s.scripts) > 0 || s.queue.Len() > 0 {
		return
	}
	p := rc.Input.Click
	room := rc.RoomID()

	if id, ok := rc.Tracks.TrackAt(p); ok {
		if script, ok := s.hooks.Script(room, HookTrack, int(id)); ok {
			s.StartScript(fmt.Sprintf("track:%d", id), script)
			return
		}
	}
	if obj, ok := rc.ObjectAt(p); ok {
		if script, ok := s.hooks.Script(room, HookUse, int(obj.ID)); ok {
			s.StartScript("use:"+obj.Name, script)
			return
		}
	}
	s.PushWalk(p.X, p.Y, core.OrientNone)
}

// loadRoom tears down room-scoped state and enters room
// Order: exit hook, teardown, placement, ambient loops and music, enter hook, OnEnter cutscene
func (s *Scheduler) loadRoom(id core.RoomID, entry *core.Point, facing core.Orientation) {
	room, err := s.loader.Room(id)
	if err != nil {
		s.log.Warn("room load skipped", zap.Int("room", int(id)), zap.Error(err))
		return
	}
	rc := s.rc
	if rc.Room != nil {
		s.runRoomHook(HookExit)
	}

	s.finishMessage()
	rc.Timers.Clear()
	rc.Tracks.Reset()
	rc.Playbacks.Clear()
	rc.Dialog.Reset()
	s.sounds = s.sounds[:0]
	s.walkTailSeq = 0

	rc.Room = room
	clear(rc.Objects)
	for _, o := range room.Objects {
		rc.Objects[o.ID] = o.Enabled
	}
	clear(rc.Ons)
	maps.Copy(rc.Ons, room.Ons)

	pos, orient := room.Entry, room.Facing
	if entry != nil {
		pos = room.Area().Clamp(*entry)
	}
	if facing != core.OrientNone {
		orient = facing
	}
	walk.Warp(&rc.Actor, pos, room.Zoom)
	rc.Actor.Orientation = orient

	for _, lan := range room.Lans {
		s.setLan(event.SetLanPayload{Slot: lan.Slot, Sequence: lan.Sequence, X: lan.Position.X, Y: lan.Position.Y})
	}
	if room.Music != 0 {
		s.audio.PlayMusic(room.Music)
	}

	s.statRoom.Store(int64(id))
	s.log.Info("room loaded", zap.Int("room", int(id)), zap.String("name", room.Name))

	s.runRoomHook(HookEnter)
	for _, ev := range room.OnEnter {
		s.Push(ev)
	}
}

func (s *Scheduler) runRoomHook(hook Hook) {
	fn, ok := s.hooks.Room(s.rc.RoomID(), hook)
	if !ok {
		return
	}
	s.guard(hook.String(), func() { fn(s.rc) })
}

// guard runs a loop-goroutine handler, recovering and logging a panic
func (s *Scheduler) guard(what string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			s.statPanics.Add(1)
			s.log.Error("handler panic recovered", zap.String("handler", what), zap.Int("room", int(s.rc.RoomID())), zap.Any("panic", r))
		}
	}()
	fn()
}

func (s *Scheduler) area() *walk.Area {
	if s.rc.Room == nil {
		return nil
	}
	return s.rc.Room.Area()
}

func (s *Scheduler) zoom() walk.ZoomHorizon {
	if s.rc.Room == nil {
		return walk.ZoomHorizon{}
	}
	return s.rc.Room.Zoom
}

func (s *Scheduler) publish() {
	rc := s.rc
	s.statFrame.Store(s.frame)
	s.statScripts.Store(int64(len(s.scripts)))
	s.statTimers.Store(int64(rc.Timers.ActiveCount()))
	s.statTracks.Store(int64(rc.Tracks.ActiveCount()))
	s.statPlaybacks.Store(int64(rc.Playbacks.ActiveCount()))
	s.statDialog.Store(rc.Dialog.State().String())

	if s.observer != nil {
		s.observer.Publish(s.Snapshot())
	}
}
