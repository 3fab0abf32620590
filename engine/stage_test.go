package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/lixenwraith/scenekit/core"
	"github.com/lixenwraith/scenekit/dialog"
	"github.com/lixenwraith/scenekit/event"
	"github.com/lixenwraith/scenekit/input"
	"github.com/lixenwraith/scenekit/status"
)

func TestScriptRunsUntilFirstWait(t *testing.T) {
	s := newTestScheduler(t, Options{})
	s.Enter(1)

	steps := 0
	h := s.StartScript("walker", func(ctx context.Context, st *Stage) error {
		steps++
		if err := st.Walk(42, 100, core.OrientDown); err != nil {
			return err
		}
		steps++
		return nil
	})
	if steps != 1 || s.Scripts() != 1 {
		t.Fatalf("Expected script suspended after first step, steps=%d scripts=%d", steps, s.Scripts())
	}

	runUntil(t, s, 20, func() bool {
		select {
		case <-h.Done():
			return true
		default:
			return false
		}
	})
	if steps != 2 || h.Err() != nil {
		t.Errorf("Expected clean finish, steps=%d err=%v", steps, h.Err())
	}
	a := s.Room().Actor
	if a.Position != (core.Point{X: 42, Y: 100}) || a.Orientation != core.OrientDown {
		t.Errorf("Expected actor at (42,100) facing down, got %v %v", a.Position, a.Orientation)
	}
}

func TestWaitResolvesAfterEarlierEvents(t *testing.T) {
	s := newTestScheduler(t, Options{})
	s.Enter(1)
	before := s.Push(event.Wait(3))

	resumedAt := int64(-1)
	s.StartScript("sync", func(ctx context.Context, st *Stage) error {
		if err := st.Sync(); err != nil {
			return err
		}
		resumedAt = st.Room().Frame
		if !s.Completed(before) {
			t.Error("Expected earlier event drained before resume")
		}
		return nil
	})
	runUntil(t, s, 10, func() bool { return resumedAt >= 0 })
	if resumedAt != 4 {
		t.Errorf("Expected resume on frame 4, got %d", resumedAt)
	}
}

func TestEventsPushedDuringWaitDrainAfter(t *testing.T) {
	s := newTestScheduler(t, Options{})
	s.Enter(1)

	var order []string
	s.StartScript("waiter", func(ctx context.Context, st *Stage) error {
		if err := st.Wait(2); err != nil {
			return err
		}
		order = append(order, "resumed")
		return nil
	})
	later := s.Push(event.Wait(5))

	runUntil(t, s, 20, func() bool { return s.Completed(later) })
	order = append(order, "later")
	if len(order) != 2 || order[0] != "resumed" {
		t.Errorf("Expected script to resume before the later wait drained, got %v", order)
	}
}

func TestNestedWaitsResumeInnermostFirst(t *testing.T) {
	s := newTestScheduler(t, Options{})
	s.Enter(1)

	var order []string
	s.StartScript("outer", func(ctx context.Context, st *Stage) error {
		if err := st.Wait(2); err != nil {
			return err
		}
		order = append(order, "outer")
		return nil
	})
	s.StartScript("inner", func(ctx context.Context, st *Stage) error {
		if err := st.Sync(); err != nil {
			return err
		}
		order = append(order, "inner")
		return nil
	})

	runUntil(t, s, 10, func() bool { return s.Scripts() == 0 })
	if len(order) != 2 || order[0] != "inner" || order[1] != "outer" {
		t.Errorf("Expected [inner outer], got %v", order)
	}
}

func TestCancelResumesWithContextError(t *testing.T) {
	s := newTestScheduler(t, Options{})
	s.Enter(1)

	var waitErr error
	h := s.StartScript("long", func(ctx context.Context, st *Stage) error {
		waitErr = st.Wait(100)
		return waitErr
	})
	s.Frame()
	h.Cancel()
	s.Frame()

	select {
	case <-h.Done():
	default:
		t.Fatal("Expected cancelled script to finish on the next frame")
	}
	if !errors.Is(waitErr, context.Canceled) || !errors.Is(h.Err(), context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v / %v", waitErr, h.Err())
	}
}

func TestScriptPanicIsRecovered(t *testing.T) {
	reg := status.NewRegistry()
	s := newTestScheduler(t, Options{Status: reg})
	s.Enter(1)

	h := s.StartScript("boom", func(ctx context.Context, st *Stage) error {
		panic("script bug")
	})
	<-h.Done()
	if h.Err() == nil {
		t.Error("Expected panic reported as error")
	}
	if got := reg.Ints.Get(status.KeyHandlerPanics).Load(); got != 1 {
		t.Errorf("Expected 1 recovered panic, got %d", got)
	}
	s.Frame()
}

func TestScriptLimit(t *testing.T) {
	s := newTestScheduler(t, Options{MaxScripts: 1})
	s.Enter(1)
	wait := func(ctx context.Context, st *Stage) error { return st.Wait(5) }

	s.StartScript("a", wait)
	h := s.StartScript("b", wait)
	<-h.Done()
	if !errors.Is(h.Err(), ErrTooManyScripts) {
		t.Errorf("Expected ErrTooManyScripts, got %v", h.Err())
	}
}

func TestSayWaitsForAcknowledge(t *testing.T) {
	in := input.NewScripted(
		input.State{},
		input.State{Clicked: true, Click: core.Point{X: 5, Y: 5}},
	)
	s := newTestScheduler(t, Options{Input: in, Timing: dialog.Timing{Base: 100}})
	s.Enter(1)

	done := false
	s.StartScript("talk", func(ctx context.Context, st *Stage) error {
		err := st.Say("hello")
		done = true
		return err
	})
	s.Frame()
	if done {
		t.Fatal("Expected Say to hold until acknowledged")
	}
	s.Frame()
	if !done {
		t.Error("Expected click to acknowledge the line")
	}
	if s.Room().Actor.Walking {
		t.Error("Expected acknowledging click not to start a walk")
	}
}

func TestChooseReturnsSelection(t *testing.T) {
	in := input.NewScripted(input.State{}, input.State{Keys: []rune{'2'}})
	s := newTestScheduler(t, Options{Input: in})
	s.Enter(1)

	choice := -1
	s.StartScript("menu", func(ctx context.Context, st *Stage) error {
		i, err := st.Choose("left", "right")
		choice = i
		return err
	})
	runUntil(t, s, 5, func() bool { return choice >= 0 })
	if choice != 1 {
		t.Errorf("Expected choice 1, got %d", choice)
	}
}

func TestChooseSurvivesInterruptingLine(t *testing.T) {
	in := input.NewScripted()
	s := newTestScheduler(t, Options{Input: in})
	s.Enter(1)
	rc := s.Room()

	choice, done := -1, false
	var chooseErr error
	s.StartScript("menu", func(ctx context.Context, st *Stage) error {
		choice, chooseErr = st.Choose("left", "right")
		done = true
		return chooseErr
	})
	runUntil(t, s, 5, func() bool { return rc.Dialog.State() == dialog.Choosing })

	s.Push(event.SceneEvent{Type: event.EventMessage, Payload: event.MessagePayload{
		Lines:  []event.MessageLine{{Text: "Saved."}},
		Frames: 3,
		Async:  true,
	}})
	runUntil(t, s, 2, func() bool { return rc.Dialog.State() == dialog.Showing })
	runUntil(t, s, 10, func() bool { return rc.Dialog.State() == dialog.Choosing })
	if done {
		t.Fatal("Expected script still waiting on the menu")
	}

	in.Push(input.State{Keys: []rune{'2'}})
	runUntil(t, s, 3, func() bool { return done })
	if chooseErr != nil || choice != 1 {
		t.Errorf("Expected choice 1, got %d (%v)", choice, chooseErr)
	}
}

func TestChooseAbortedByRoomSwitch(t *testing.T) {
	s := newTestScheduler(t, Options{})
	s.Enter(1)

	done := false
	var chooseErr error
	s.StartScript("menu", func(ctx context.Context, st *Stage) error {
		_, chooseErr = st.Choose("left", "right")
		done = true
		return nil
	})
	runUntil(t, s, 5, func() bool { return s.Room().Dialog.State() == dialog.Choosing })

	s.Push(event.LoadScene(2))
	runUntil(t, s, 3, func() bool { return done })
	if !errors.Is(chooseErr, ErrChoiceAborted) {
		t.Errorf("Expected ErrChoiceAborted, got %v", chooseErr)
	}
	if s.Room().RoomID() != 2 {
		t.Errorf("Expected room 2, got %d", s.Room().RoomID())
	}
}

func TestChooseWithoutOptions(t *testing.T) {
	s := newTestScheduler(t, Options{})
	s.Enter(1)

	var chooseErr error
	choice := 0
	h := s.StartScript("empty", func(ctx context.Context, st *Stage) error {
		choice, chooseErr = st.Choose()
		return nil
	})
	<-h.Done()
	if choice != -1 || !errors.Is(chooseErr, ErrNoOptions) {
		t.Errorf("Expected -1 and ErrNoOptions, got %d (%v)", choice, chooseErr)
	}
}

func TestCancelledScriptQueuesNothing(t *testing.T) {
	s := newTestScheduler(t, Options{})
	s.Enter(1)

	h := s.StartScript("stubborn", func(ctx context.Context, st *Stage) error {
		st.Wait(1000)
		st.Walk(100, 100, core.OrientNone)
		st.Say("still here")
		st.Cutscene([]event.SceneEvent{event.HideActor(true)})
		st.Wait(5)
		return nil
	})
	s.Frame()
	pending := s.Pending()
	h.Cancel()
	s.Frame()

	<-h.Done()
	if got := s.Pending(); got != pending {
		t.Errorf("Expected %d pending events, got %d", pending, got)
	}
}

func TestDialogTreeWalksToEnd(t *testing.T) {
	in := input.NewScripted()
	for i := 0; i < 30; i++ {
		in.Push(input.State{Keys: []rune{'1'}})
	}
	s := newTestScheduler(t, Options{Input: in})
	s.Enter(1)

	h := s.StartScript("dialog", func(ctx context.Context, st *Stage) error {
		return st.Dialog(1)
	})
	runUntil(t, s, 30, func() bool {
		select {
		case <-h.Done():
			return true
		default:
			return false
		}
	})
	if h.Err() != nil {
		t.Fatalf("Dialog failed: %v", h.Err())
	}
	if s.Room().Global["met"] != 1 {
		t.Error("Expected end node flag set")
	}
}

func TestWaitUntilPredicate(t *testing.T) {
	s := newTestScheduler(t, Options{})
	s.Enter(1)

	woke := int64(0)
	s.StartScript("lamp", func(ctx context.Context, st *Stage) error {
		if err := st.WaitUntil(func(rc *RoomContext) bool { return rc.Flag("lamp") == 1 }); err != nil {
			return err
		}
		woke = st.Room().Frame
		return nil
	})
	s.Frame()
	s.Frame()
	if woke != 0 {
		t.Fatal("Expected script to stay suspended")
	}
	s.Push(event.SetFlag("lamp", 1, false))
	s.Frame()
	if woke != 3 {
		t.Errorf("Expected wake on frame 3, got %d", woke)
	}
}

func TestCutsceneAndActorAnimation(t *testing.T) {
	s := newTestScheduler(t, Options{})
	s.Enter(1)

	finished := false
	s.StartScript("cut", func(ctx context.Context, st *Stage) error {
		if err := st.Cutscene([]event.SceneEvent{
			event.HideActor(true),
			event.Wait(1),
			event.HideActor(false),
		}); err != nil {
			return err
		}
		if err := st.PlayActorAnimation(seqShort); err != nil {
			return err
		}
		finished = true
		return nil
	})
	runUntil(t, s, 20, func() bool { return finished })
	if s.Room().Actor.Hidden {
		t.Error("Expected actor visible after cutscene")
	}
	if s.Room().Playbacks.Running(core.ActorSlot) {
		t.Error("Expected actor animation finished")
	}
}

func TestCloseReleasesSuspendedScripts(t *testing.T) {
	s := NewScheduler(Options{Loader: testPack()})
	s.Enter(1)
	h := s.StartScript("idle", func(ctx context.Context, st *Stage) error {
		for {
			if err := st.Wait(1); err != nil {
				return err
			}
		}
	})
	s.Frame()
	s.Close()
	select {
	case <-h.Done():
	default:
		t.Fatal("Expected Close to finish suspended scripts")
	}
}
