package track

import (
	"github.com/lixenwraith/scenekit/anim"
	"github.com/lixenwraith/scenekit/core"
	"github.com/lixenwraith/scenekit/walk"
)

// Forever repeats a track until it is reinitialised or torn down
const Forever = -1

// Segment is one straight leg of a track path
type Segment struct {
	To          core.Point
	Orientation core.Orientation // fixed facing, none derives from movement
	Speed       int              // pixels per step at full scale, zero means one
}

// Config describes a track at initialisation
type Config struct {
	Origin   core.Point
	Segments []Segment
	Sequence *anim.Sequence
	Phases   []int // frame indices cycled per step, empty cycles every frame
	Delay    int   // frames between steps, minimum one
	Repeat   int   // full path traversals, Forever loops
	Zoom     walk.ZoomHorizon
}

// Track is an independently moving animated sprite
type Track struct {
	ID          core.TrackID
	Position    core.Point
	Orientation core.Orientation
	Segment     int
	Phase       int
	Frame       int
	Traversals  int
	Scale       float64

	cfg      Config
	delay    int
	finished bool
}

func newTrack(id core.TrackID, cfg Config) *Track {
	if cfg.Delay < 1 {
		cfg.Delay = 1
	}
	if cfg.Repeat != Forever && cfg.Repeat < 1 {
		cfg.Repeat = 1
	}
	t := &Track{
		ID:       id,
		Position: cfg.Origin,
		cfg:      cfg,
		delay:    cfg.Delay,
		Scale:    cfg.Zoom.Scale(cfg.Origin.Y),
	}
	t.Frame = t.phaseFrame()
	if len(cfg.Segments) > 0 {
		t.Orientation = cfg.Segments[0].Orientation
	}
	return t
}

// Finished reports whether the repeat count has been exhausted
func (t *Track) Finished() bool {
	return t.finished
}

// Repeat returns the configured traversal count
func (t *Track) Repeat() int {
	return t.cfg.Repeat
}

// Sequence returns the sprite sequence drawn for the track
func (t *Track) Sequence() *anim.Sequence {
	return t.cfg.Sequence
}

// Bounds returns the current interpolated bounding box, frame size times zoom
func (t *Track) Bounds() core.Rect {
	f := t.cfg.Sequence.FrameAt(t.Frame)
	w, h := f.Size()
	if w == 0 || h == 0 {
		return core.RectAt(t.Position.X, t.Position.Y, 1, 1)
	}
	sw := t.cfg.Zoom.ScaleInt(w, t.Position.Y, 1)
	sh := t.cfg.Zoom.ScaleInt(h, t.Position.Y, 1)
	return core.RectAt(t.Position.X+f.DX, t.Position.Y+f.DY, sw, sh)
}

func (t *Track) phaseFrame() int {
	if n := len(t.cfg.Phases); n > 0 {
		return t.cfg.Phases[t.Phase%n]
	}
	if n := t.cfg.Sequence.Len(); n > 0 {
		return t.Phase % n
	}
	return 0
}

func (t *Track) phaseCount() int {
	if n := len(t.cfg.Phases); n > 0 {
		return n
	}
	return max(t.cfg.Sequence.Len(), 1)
}

// update advances one frame, returning true on the frame the track finishes
func (t *Track) update() bool {
	if t.finished {
		return false
	}
	t.delay--
	if t.delay > 0 {
		return false
	}
	t.delay = t.cfg.Delay

	t.Phase = (t.Phase + 1) % t.phaseCount()
	t.Frame = t.phaseFrame()

	if len(t.cfg.Segments) == 0 {
		return t.completeTraversal()
	}

	seg := t.cfg.Segments[t.Segment]
	dest := seg.To
	speed := max(seg.Speed, 1)
	step := t.cfg.Zoom.ScaleInt(speed, t.Position.Y, 1)

	var v core.Point
	t.Position, v = walk.Toward(t.Position, dest, step, step)
	t.Scale = t.cfg.Zoom.Scale(t.Position.Y)
	if seg.Orientation != core.OrientNone {
		t.Orientation = seg.Orientation
	} else if o := core.OrientationOf(v); o != core.OrientNone {
		t.Orientation = o
	}

	if t.Position != dest {
		return false
	}
	t.Segment++
	if t.Segment < len(t.cfg.Segments) {
		return false
	}
	return t.completeTraversal()
}

func (t *Track) completeTraversal() bool {
	t.Traversals++
	if t.cfg.Repeat != Forever && t.Traversals >= t.cfg.Repeat {
		t.finished = true
		t.Segment = max(len(t.cfg.Segments)-1, 0)
		return true
	}
	t.Segment = 0
	t.Position = t.cfg.Origin
	return false
}
