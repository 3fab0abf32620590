package track

import (
	"testing"

	"github.com/lixenwraith/scenekit/anim"
	"github.com/lixenwraith/scenekit/core"
)

func twoSegments() Config {
	return Config{
		Origin: core.Point{X: 0, Y: 0},
		Segments: []Segment{
			{To: core.Point{X: 4, Y: 0}, Speed: 2},
			{To: core.Point{X: 4, Y: 2}, Speed: 2},
		},
		Repeat: 3,
	}
}

func TestFinishedAfterExactRepeatCount(t *testing.T) {
	a := NewAnimator()
	a.Init(1, twoSegments())

	// Each traversal is 2 steps on segment one plus 1 step on segment two
	const stepsPerTraversal = 3
	finishedAt := -1
	calls := 0
	for frame := 1; frame <= 20; frame++ {
		a.Update(func(id core.TrackID) {
			calls++
			finishedAt = frame
		})
		tr, _ := a.Get(1)
		if frame < 3*stepsPerTraversal && tr.Finished() {
			t.Fatalf("Finished early at frame %d after %d traversals", frame, tr.Traversals)
		}
	}

	if finishedAt != 3*stepsPerTraversal {
		t.Errorf("Expected finish at frame %d, got %d", 3*stepsPerTraversal, finishedAt)
	}
	if calls != 1 {
		t.Errorf("Expected exactly one finish notification, got %d", calls)
	}
	tr, _ := a.Get(1)
	if tr.Traversals != 3 {
		t.Errorf("Expected 3 traversals, got %d", tr.Traversals)
	}
	if tr.Position != (core.Point{X: 4, Y: 2}) {
		t.Errorf("Expected to rest at final destination, got %v", tr.Position)
	}
}

func TestReinitResetsProgress(t *testing.T) {
	a := NewAnimator()
	cfg := twoSegments()
	cfg.Repeat = 1
	a.Init(5, cfg)
	for i := 0; i < 10; i++ {
		a.Update(nil)
	}
	if !a.Finished(5) {
		t.Fatal("Expected track finished before reinit")
	}

	tr := a.Init(5, cfg)
	if tr.Finished() || tr.Segment != 0 || tr.Traversals != 0 || tr.Position != cfg.Origin {
		t.Errorf("Expected fresh track, got segment=%d traversals=%d pos=%v finished=%v",
			tr.Segment, tr.Traversals, tr.Position, tr.Finished())
	}
	if len(a.IDs()) != 1 {
		t.Errorf("Expected a single track id after reinit, got %v", a.IDs())
	}
}

func TestForeverLoopsFromOrigin(t *testing.T) {
	a := NewAnimator()
	cfg := twoSegments()
	cfg.Repeat = Forever
	a.Init(2, cfg)
	for i := 0; i < 30; i++ {
		a.Update(func(core.TrackID) { t.Fatal("Forever track must not finish") })
	}
	tr, _ := a.Get(2)
	if tr.Traversals != 10 {
		t.Errorf("Expected 10 traversals, got %d", tr.Traversals)
	}
	if tr.Position != cfg.Origin {
		t.Errorf("Expected restart at origin, got %v", tr.Position)
	}
}

func TestDelayThrottlesSteps(t *testing.T) {
	a := NewAnimator()
	cfg := twoSegments()
	cfg.Delay = 3
	tr := a.Init(1, cfg)
	a.Update(nil)
	a.Update(nil)
	if tr.Position != cfg.Origin {
		t.Fatalf("Expected no movement before delay elapses, got %v", tr.Position)
	}
	a.Update(nil)
	if tr.Position != (core.Point{X: 2, Y: 0}) {
		t.Errorf("Expected one step after delay, got %v", tr.Position)
	}
}

func TestUnknownTrackCountsAsFinished(t *testing.T) {
	a := NewAnimator()
	if !a.Finished(99) {
		t.Error("Expected unknown track to report finished")
	}
	a.Remove(99)
}

func TestHitTestUsesCurrentBounds(t *testing.T) {
	seq := &anim.Sequence{Frames: []anim.Frame{{Art: []string{"##", "##"}}}}
	a := NewAnimator()
	a.Init(3, Config{
		Origin:   core.Point{X: 0, Y: 0},
		Segments: []Segment{{To: core.Point{X: 100, Y: 0}, Speed: 10}},
		Sequence: seq,
		Repeat:   1,
	})

	if !a.HitTest(3, core.Point{X: 1, Y: 1}) {
		t.Error("Expected hit at origin")
	}
	for i := 0; i < 5; i++ {
		a.Update(nil)
	}
	if a.HitTest(3, core.Point{X: 1, Y: 1}) {
		t.Error("Expected no hit at a point the track already left")
	}
	if a.HitTest(3, core.Point{X: 80, Y: 0}) {
		t.Error("Expected no hit on a point of the path not yet reached")
	}
	if id, ok := a.TrackAt(core.Point{X: 51, Y: 1}); !ok || id != 3 {
		t.Errorf("Expected track 3 under cursor, got %v %v", id, ok)
	}
}

func TestPhasesCycle(t *testing.T) {
	seq := &anim.Sequence{Frames: make([]anim.Frame, 6)}
	a := NewAnimator()
	tr := a.Init(1, Config{
		Segments: []Segment{{To: core.Point{X: 100}}},
		Sequence: seq,
		Phases:   []int{4, 5},
		Repeat:   Forever,
	})
	var frames []int
	for i := 0; i < 4; i++ {
		frames = append(frames, tr.Frame)
		a.Update(nil)
	}
	want := []int{4, 5, 4, 5}
	for i := range want {
		if frames[i] != want[i] {
			t.Fatalf("Expected frames %v, got %v", want, frames)
		}
	}
}

func TestResetDropsAll(t *testing.T) {
	a := NewAnimator()
	a.Init(1, twoSegments())
	a.Init(2, twoSegments())
	a.Reset()
	if len(a.IDs()) != 0 || a.ActiveCount() != 0 {
		t.Error("Expected no tracks after reset")
	}
}
