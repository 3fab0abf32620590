package anim

import (
	"github.com/lixenwraith/scenekit/core"
	"github.com/lixenwraith/scenekit/event"
)

// Direction of frame advance
type Direction int

const (
	Forward  Direction = 1
	Backward Direction = -1
)

// Options configure a playback at start
type Options struct {
	Position core.Point
	Loop     bool
	Reverse  bool
	Sounds   []event.FrameSound

	// Window restricts playback to frames [First, Last], Last zero means the final frame
	First, Last int
}

// Playback is one sequence playing in a slot
type Playback struct {
	Slot      core.SlotID
	Sequence  *Sequence
	Frame     int
	Direction Direction
	Loop      bool
	Running   bool
	Position  core.Point

	sounds      []event.FrameSound
	first, last int
	ticks       int
}

func newPlayback(slot core.SlotID, seq *Sequence, opts Options) *Playback {
	first, last := opts.First, opts.Last
	n := seq.Len()
	if last <= 0 || last >= n {
		last = n - 1
	}
	first = core.Clamp(first, 0, max(last, 0))

	p := &Playback{
		Slot:      slot,
		Sequence:  seq,
		Direction: Forward,
		Loop:      opts.Loop,
		Running:   n > 0,
		Position:  opts.Position,
		sounds:    opts.Sounds,
		first:     first,
		last:      last,
	}
	p.Frame = first
	if opts.Reverse {
		p.Direction = Backward
		p.Frame = last
	}
	return p
}

// Window returns the first and last frame of the playback range
func (p *Playback) Window() (first, last int) {
	return p.first, p.last
}

// Current returns the frame currently shown
func (p *Playback) Current() Frame {
	return p.Sequence.FrameAt(p.Frame)
}

// Bounds returns the screen rectangle covered by the current frame
func (p *Playback) Bounds() core.Rect {
	f := p.Current()
	w, h := f.Size()
	return core.RectAt(p.Position.X+f.DX, p.Position.Y+f.DY, w, h)
}

// advance moves one tick, returning true when a new frame became visible
// A non-looping playback stops on its last frame and keeps showing it
func (p *Playback) advance() bool {
	if !p.Running {
		return false
	}
	p.ticks++
	if p.ticks < p.Sequence.ticksPerFrame() {
		return false
	}
	p.ticks = 0

	next := p.Frame + int(p.Direction)
	if next < p.first || next > p.last {
		if !p.Loop {
			p.Running = false
			return false
		}
		if p.Direction == Forward {
			next = p.first
		} else {
			next = p.last
		}
	}
	p.Frame = next
	return true
}

func (p *Playback) triggers(fn func(core.SoundID)) {
	if fn == nil {
		return
	}
	for _, s := range p.sounds {
		if s.Frame == p.Frame {
			fn(s.Sound)
		}
	}
}
