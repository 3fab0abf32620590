package anim

import (
	"github.com/lixenwraith/scenekit/core"
)

// Frame is one sprite image, drawn as terminal art
type Frame struct {
	Art []string `yaml:"art"`
	DX  int      `yaml:"dx"`
	DY  int      `yaml:"dy"`
}

// Size returns the frame bounding box dimensions
func (f Frame) Size() (w, h int) {
	for _, line := range f.Art {
		if n := len([]rune(line)); n > w {
			w = n
		}
	}
	return w, len(f.Art)
}

// Sequence is an ordered list of frames loaded from the resource pack
type Sequence struct {
	ID     core.SequenceID `yaml:"id"`
	Name   string          `yaml:"name"`
	Frames []Frame         `yaml:"frames"`
	Delay  int             `yaml:"delay"` // ticks per frame, zero means one
}

// Len returns the frame count
func (s *Sequence) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Frames)
}

// FrameAt returns frame i clamped into range
func (s *Sequence) FrameAt(i int) Frame {
	if s.Len() == 0 {
		return Frame{}
	}
	return s.Frames[core.Clamp(i, 0, len(s.Frames)-1)]
}

func (s *Sequence) ticksPerFrame() int {
	if s == nil || s.Delay <= 0 {
		return 1
	}
	return s.Delay
}
