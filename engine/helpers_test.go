package engine

import (
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/lixenwraith/scenekit/anim"
	"github.com/lixenwraith/scenekit/core"
	"github.com/lixenwraith/scenekit/dialog"
	"github.com/lixenwraith/scenekit/event"
	"github.com/lixenwraith/scenekit/resource"
	"github.com/lixenwraith/scenekit/walk"
)

const (
	seqShort core.SequenceID = 3 // three frames, no loop
	seqIdle  core.SequenceID = 4 // two frames, used for ambient loops
)

type recordingAudio struct {
	sounds []core.SoundID
	music  []core.MusicID
}

func (a *recordingAudio) PlaySound(id core.SoundID) { a.sounds = append(a.sounds, id) }
func (a *recordingAudio) PlayMusic(id core.MusicID) { a.music = append(a.music, id) }

func testPack() *resource.Pack {
	p := resource.NewPack()
	p.AddSequence(&anim.Sequence{ID: seqShort, Frames: []anim.Frame{
		{Art: []string{"a"}}, {Art: []string{"b"}}, {Art: []string{"c"}},
	}})
	p.AddSequence(&anim.Sequence{ID: seqIdle, Frames: []anim.Frame{
		{Art: []string{"o"}}, {Art: []string{"O"}},
	}})
	p.AddRoom(&resource.Room{
		ID:     1,
		Name:   "hall",
		Entry:  core.Point{X: 10, Y: 100},
		Facing: core.OrientRight,
		Objects: []resource.Object{
			{ID: 7, Name: "lever", Rect: core.RectAt(200, 80, 16, 16), Enabled: true},
		},
		Lans:  []resource.Lan{{Slot: 3, Sequence: seqIdle, Position: core.Point{X: 100, Y: 50}}},
		Music: 2,
	})
	p.AddRoom(&resource.Room{
		ID:    2,
		Name:  "cellar",
		Entry: core.Point{X: 50, Y: 150},
	})
	// L-shaped floor: corridor along the top, shaft down the right side
	p.AddRoom(&resource.Room{
		ID:    3,
		Name:  "yard",
		Entry: core.Point{X: 10, Y: 10},
		Boxes: []walk.Box{walk.RectBox(0, 0, 200, 20), walk.RectBox(180, 0, 20, 200)},
	})
	p.AddDialog(&dialog.Tree{
		ID:    1,
		Start: "greet",
		Nodes: map[string]dialog.Node{
			"greet": {
				Lines:   []event.MessageLine{{Text: "hello"}},
				Choices: []dialog.Choice{{Text: "bye", Next: "end"}, {Text: "again", Next: "greet"}},
			},
			"end": {Lines: []event.MessageLine{{Text: "farewell"}}, Flag: "met"},
		},
	})
	return p
}

// newTestScheduler builds a scheduler on testPack with two-frame dialog lines
func newTestScheduler(t *testing.T, opts Options) *Scheduler {
	t.Helper()
	if opts.Loader == nil {
		opts.Loader = testPack()
	}
	if opts.Log == nil {
		opts.Log = zaptest.NewLogger(t)
	}
	if opts.Timing == (dialog.Timing{}) {
		opts.Timing = dialog.Timing{Base: 2}
	}
	s := NewScheduler(opts)
	t.Cleanup(s.Close)
	return s
}

// runUntil runs frames until cond holds, failing after limit frames
func runUntil(t *testing.T, s *Scheduler, limit int, cond func() bool) int {
	t.Helper()
	for i := 1; i <= limit; i++ {
		s.Frame()
		if cond() {
			return i
		}
	}
	t.Fatalf("Condition not met after %d frames", limit)
	return limit
}
