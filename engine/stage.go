package engine

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/lixenwraith/scenekit/core"
	"github.com/lixenwraith/scenekit/event"
)

// ErrTooManyScripts is returned by a handle whose script was refused at start
var ErrTooManyScripts = errors.New("too many suspended scripts")

type resumeMsg struct {
	err error
}

type yieldMsg struct {
	done     bool
	err      error
	panicked bool
}

// coroutine is a script goroutine that only runs while the loop goroutine
// is parked on it: every resume is answered by exactly one yield
type coroutine struct {
	name   string
	ctx    context.Context
	cancel context.CancelFunc
	resume chan resumeMsg
	yield  chan yieldMsg
	done   chan struct{}
	err    error

	// Wake condition, valid while suspended
	seq   uint64
	cond  func() bool
	order uint64
}

// ScriptHandle observes and cancels a started script
type ScriptHandle struct {
	co *coroutine
}

// Name returns the script name given at start
func (h *ScriptHandle) Name() string { return h.co.name }

// Cancel makes the pending wait return context.Canceled on the next frame
func (h *ScriptHandle) Cancel() { h.co.cancel() }

// Done is closed when the script returned
func (h *ScriptHandle) Done() <-chan struct{} { return h.co.done }

// Err returns the script result once Done is closed
func (h *ScriptHandle) Err() error {
	select {
	case <-h.co.done:
		return h.co.err
	default:
		return nil
	}
}

// Stage is the blocking API of a running script
// Every blocking call pushes its events and suspends until the scheduler
// has drained them; events pushed later by others are drained after
type Stage struct {
	sched *Scheduler
	co    *coroutine
}

// Context returns the script context
func (st *Stage) Context() context.Context { return st.co.ctx }

// Room returns the scene state, safe to use only from the script
func (st *Stage) Room() *RoomContext { return st.sched.rc }

// Push enqueues ev without waiting
func (st *Stage) Push(ev event.SceneEvent) uint64 { return st.sched.Push(ev) }

// Sync waits until everything queued so far has been drained
func (st *Stage) Sync() error {
	return st.wait(st.sched.queue.LastSeq(), nil)
}

// Walk routes the actor to (x, y) and waits for arrival
func (st *Stage) Walk(x, y int, facing core.Orientation) error {
	if err := st.co.ctx.Err(); err != nil {
		return err
	}
	return st.wait(st.sched.PushWalk(x, y, facing), nil)
}

// Warp places the actor at (x, y) on the next drain
func (st *Stage) Warp(x, y int, facing core.Orientation) error {
	return st.pushWait(event.Warp(x, y, facing))
}

// PlayAnimation plays seq in slot at (x, y) and waits for the last frame
func (st *Stage) PlayAnimation(slot core.SlotID, seq core.SequenceID, x, y int) error {
	return st.pushWait(event.PlayAnimation(slot, seq, x, y, false))
}

// PlayActorAnimation plays seq on the actor and waits for the last frame
func (st *Stage) PlayActorAnimation(seq core.SequenceID) error {
	return st.pushWait(event.PlayActorAnimation(seq, false))
}

// Say shows a line spoken by the actor until acknowledged or timed out
func (st *Stage) Say(text string) error {
	return st.pushWait(event.Message(text))
}

// SayAs shows a line with speaker's talk animation over [first, last]
func (st *Stage) SayAs(speaker core.SlotID, talk core.SequenceID, first, last int, text string) error {
	return st.pushWait(event.Say(speaker, talk, first, last, text))
}

// Lines shows each line in turn
func (st *Stage) Lines(lines ...event.MessageLine) error {
	if len(lines) == 0 {
		return nil
	}
	if err := st.co.ctx.Err(); err != nil {
		return err
	}
	return st.wait(st.sched.ShowDialogLine(lines...), nil)
}

// Wait holds the script for frames frames of queue time
func (st *Stage) Wait(frames int) error {
	return st.pushWait(event.Wait(frames))
}

// WaitTrack waits until track id finishes, immediately for unknown ids
func (st *Stage) WaitTrack(id core.TrackID) error {
	return st.pushWait(event.WaitForTrack(id))
}

// WaitAnimation waits until slot stops playing
func (st *Stage) WaitAnimation(slot core.SlotID) error {
	return st.pushWait(event.WaitForAnimation(slot))
}

// WaitFrame waits until slot shows frame
func (st *Stage) WaitFrame(slot core.SlotID, frame int) error {
	return st.pushWait(event.WaitLanAnimationFrame(slot, frame))
}

// WaitUntil drains pending events, then waits until cond holds at a frame boundary
func (st *Stage) WaitUntil(cond func(rc *RoomContext) bool) error {
	rc := st.sched.rc
	return st.wait(st.sched.queue.LastSeq(), func() bool { return cond(rc) })
}

// Cutscene pushes events in order and waits for the last
func (st *Stage) Cutscene(events []event.SceneEvent) error {
	if err := st.co.ctx.Err(); err != nil {
		return err
	}
	var last uint64
	for _, ev := range events {
		last = st.sched.Push(ev)
	}
	if last == 0 {
		return nil
	}
	return st.wait(last, nil)
}

// Choose waits for pending events, shows options and returns the 0-based selection
// Returns ErrChoiceAborted when the menu is dropped without a selection,
// by a room switch or by another menu
func (st *Stage) Choose(options ...string) (int, error) {
	if len(options) == 0 {
		return -1, ErrNoOptions
	}
	if err := st.Sync(); err != nil {
		return -1, err
	}
	rc := st.sched.rc
	choice := -1
	id := rc.Dialog.Choose(options, func(i int) { choice = i })
	err := st.wait(st.sched.queue.LastSeq(), func() bool {
		return choice >= 0 || rc.Dialog.Menu() != id
	})
	if err != nil {
		if rc.Dialog.Menu() == id {
			rc.Dialog.Reset()
		}
		return -1, err
	}
	if choice < 0 {
		return -1, ErrChoiceAborted
	}
	return choice, nil
}

var (
	// ErrNoOptions is returned by Choose without options
	ErrNoOptions = errors.New("choice menu without options")
	// ErrChoiceAborted is returned by Choose when its menu is dropped unanswered
	ErrChoiceAborted = errors.New("choice menu aborted")
)

// Dialog runs the conversation tree id from its start node to an end node
// A node flag is set globally when the node is reached
func (st *Stage) Dialog(id core.DialogID) error {
	tree, err := st.sched.loader.Dialog(id)
	if err != nil {
		return fmt.Errorf("dialog %d: %w", id, err)
	}
	rc := st.sched.rc
	name := tree.Start
	for name != "" {
		node, ok := tree.Nodes[name]
		if !ok {
			return fmt.Errorf("dialog %d: node %q: %w", id, name, ErrMissingNode)
		}
		if node.Flag != "" {
			rc.Global[node.Flag] = 1
		}
		if err := st.Lines(node.Lines...); err != nil {
			return err
		}
		if len(node.Choices) == 0 {
			name = node.Next
			continue
		}
		i, err := st.Choose(node.ChoiceTexts()...)
		if err != nil {
			return err
		}
		name = node.Choices[i].Next
	}
	return nil
}

// ErrMissingNode reports a dialog link to an absent node
var ErrMissingNode = errors.New("missing dialog node")

// Go starts a nested script; it runs until its first wait before Go returns
func (st *Stage) Go(name string, script Script) *ScriptHandle {
	return st.sched.StartScript(name, script)
}

// pushWait queues ev unless the script is cancelled, then waits for it
func (st *Stage) pushWait(ev event.SceneEvent) error {
	if err := st.co.ctx.Err(); err != nil {
		return err
	}
	return st.wait(st.sched.Push(ev), nil)
}

// wait suspends until the watermark passes seq and cond holds
// A cancelled context returns without suspending
func (st *Stage) wait(seq uint64, cond func() bool) error {
	co := st.co
	if err := co.ctx.Err(); err != nil {
		return err
	}
	co.seq, co.cond = seq, cond
	co.yield <- yieldMsg{}
	msg := <-co.resume
	co.seq, co.cond = 0, nil
	return msg.err
}

// StartScript runs script on a new coroutine until its first wait
// Must be called from the loop goroutine or from a running script
func (s *Scheduler) StartScript(name string, script Script) *ScriptHandle {
	ctx, cancel := context.WithCancel(s.ctx)
	co := &coroutine{
		name:   name,
		ctx:    ctx,
		cancel: cancel,
		resume: make(chan resumeMsg),
		yield:  make(chan yieldMsg),
		done:   make(chan struct{}),
	}
	h := &ScriptHandle{co: co}

	if len(s.scripts) >= s.maxScripts {
		s.log.Warn("script refused", zap.String("script", name), zap.Int("suspended", len(s.scripts)))
		cancel()
		co.err = ErrTooManyScripts
		close(co.done)
		return h
	}

	st := &Stage{sched: s, co: co}
	core.Go(func() {
		<-co.resume
		var (
			err      error
			panicked bool
		)
		func() {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("script %s: panic: %v", name, r)
					panicked = true
				}
			}()
			err = script(ctx, st)
		}()
		co.yield <- yieldMsg{done: true, err: err, panicked: panicked}
	})

	s.step(co, nil)
	return h
}

// step hands control to co and blocks until it yields or returns
func (s *Scheduler) step(co *coroutine, err error) {
	co.resume <- resumeMsg{err: err}
	y := <-co.yield
	if !y.done {
		s.suspendOrder++
		co.order = s.suspendOrder
		s.track(co)
		return
	}

	s.untrack(co)
	co.cancel()
	co.err = y.err
	close(co.done)

	switch {
	case y.panicked:
		s.statPanics.Add(1)
		s.log.Error("script panic recovered", zap.String("script", co.name), zap.Error(y.err))
	case y.err != nil && !errors.Is(y.err, context.Canceled):
		s.log.Warn("script failed", zap.String("script", co.name), zap.Error(y.err))
	default:
		s.log.Debug("script finished", zap.String("script", co.name))
	}
}

func (s *Scheduler) track(co *coroutine) {
	for _, c := range s.scripts {
		if c == co {
			return
		}
	}
	s.scripts = append(s.scripts, co)
}

func (s *Scheduler) untrack(co *coroutine) {
	for i, c := range s.scripts {
		if c == co {
			s.scripts = append(s.scripts[:i], s.scripts[i+1:]...)
			return
		}
	}
}

// resumeScripts wakes every suspended script whose wait resolved this frame
// Later suspensions resume first so nested waits unwind innermost-first
func (s *Scheduler) resumeScripts() {
	if len(s.scripts) == 0 {
		return
	}
	ready := s.ready[:0]
	for _, co := range s.scripts {
		if co.ctx.Err() != nil || (s.Completed(co.seq) && s.condHolds(co)) {
			ready = append(ready, co)
		}
	}
	// Insertion sort by descending suspension order, lists are short
	for i := 1; i < len(ready); i++ {
		for j := i; j > 0 && ready[j].order > ready[j-1].order; j-- {
			ready[j], ready[j-1] = ready[j-1], ready[j]
		}
	}
	for _, co := range ready {
		s.step(co, co.ctx.Err())
	}
	clear(ready)
	s.ready = ready[:0]
}

func (s *Scheduler) condHolds(co *coroutine) (ok bool) {
	if co.cond == nil {
		return true
	}
	defer func() {
		if r := recover(); r != nil {
			s.statPanics.Add(1)
			s.log.Error("script condition panic recovered", zap.String("script", co.name), zap.Any("panic", r))
			co.cancel()
			ok = true
		}
	}()
	return co.cond()
}

// cancelScripts cancels every suspended script and runs each to completion
func (s *Scheduler) cancelScripts() {
	for _, co := range s.scripts {
		co.cancel()
	}
	for attempts := 0; len(s.scripts) > 0 && attempts < s.maxScripts*4; attempts++ {
		co := s.scripts[len(s.scripts)-1]
		s.step(co, co.ctx.Err())
	}
	if n := len(s.scripts); n > 0 {
		s.log.Warn("scripts ignored cancellation", zap.Int("count", n))
	}
}

// Scripts returns the number of suspended scripts
func (s *Scheduler) Scripts() int {
	return len(s.scripts)
}
