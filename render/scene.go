package render

import (
	"strconv"

	"github.com/lixenwraith/scenekit/core"
	"github.com/lixenwraith/scenekit/dialog"
	"github.com/lixenwraith/scenekit/engine"
	"github.com/lixenwraith/scenekit/input"
	"github.com/lixenwraith/scenekit/status"
)

// BackgroundRenderer draws the room's static scenery
type BackgroundRenderer struct{}

func (BackgroundRenderer) Render(rc *engine.RoomContext, buf *RenderBuffer) {
	if rc.Room == nil {
		return
	}
	for y, line := range rc.Room.Background {
		buf.SetString(0, y, line, StyleScenery)
	}
}

// ObjectRenderer draws art of enabled room objects
type ObjectRenderer struct{}

func (ObjectRenderer) Render(rc *engine.RoomContext, buf *RenderBuffer) {
	if rc.Room == nil {
		return
	}
	for _, o := range rc.Room.Objects {
		if !rc.ObjectEnabled(o.ID) || len(o.Art) == 0 {
			continue
		}
		buf.DrawArt(o.Rect.Min, o.Art, StyleObject)
	}
}

// PlaybackRenderer draws the current frame of every slot in ascending slot order
// The actor slot follows the actor
type PlaybackRenderer struct{}

func (PlaybackRenderer) Render(rc *engine.RoomContext, buf *RenderBuffer) {
	for _, slot := range rc.Playbacks.Slots() {
		p, ok := rc.Playbacks.Get(slot)
		if !ok {
			continue
		}
		f := p.Current()
		at := p.Position
		if slot == core.ActorSlot {
			if rc.Actor.Hidden {
				continue
			}
			at = rc.Actor.Position
		}
		buf.DrawArt(core.Point{X: at.X + f.DX, Y: at.Y + f.DY}, f.Art, StyleSprite)
	}
}

// TrackRenderer draws tracks in draw order, finished tracks keep their last frame
type TrackRenderer struct{}

func (TrackRenderer) Render(rc *engine.RoomContext, buf *RenderBuffer) {
	for _, id := range rc.Tracks.IDs() {
		t, ok := rc.Tracks.Get(id)
		if !ok {
			continue
		}
		f := t.Sequence().FrameAt(t.Frame)
		if len(f.Art) == 0 {
			buf.DrawArt(t.Position, []string{"*"}, StyleTrack)
			continue
		}
		buf.DrawArt(t.Bounds().Min, f.Art, StyleTrack)
	}
}

var actorGlyphs = [...]rune{
	core.OrientNone:  '@',
	core.OrientUp:    '^',
	core.OrientDown:  'v',
	core.OrientLeft:  '<',
	core.OrientRight: '>',
}

// ActorRenderer draws the actor glyph when no actor animation covers it
type ActorRenderer struct{}

func (ActorRenderer) Render(rc *engine.RoomContext, buf *RenderBuffer) {
	if rc.Actor.Hidden {
		return
	}
	if _, ok := rc.Playbacks.Get(core.ActorSlot); ok {
		return
	}
	g := '@'
	if int(rc.Actor.Orientation) < len(actorGlyphs) {
		g = actorGlyphs[rc.Actor.Orientation]
	}
	x, y := input.RoomToCell(rc.Actor.Position)
	buf.Set(x, y, g, StyleActor)
}

// DialogRenderer draws shown lines in their regions and the numbered choice menu
type DialogRenderer struct{}

func (DialogRenderer) Render(rc *engine.RoomContext, buf *RenderBuffer) {
	switch rc.Dialog.State() {
	case dialog.Idle:
		return
	case dialog.Choosing:
		for i, o := range rc.Dialog.Options() {
			x, y := input.RoomToCell(o.Row.Min)
			n := buf.SetString(x, y, strconv.Itoa(i+1)+". ", StyleOption)
			buf.SetString(x+n, y, o.Text, StyleOption)
		}
		return
	}
	w, _ := buf.Bounds()
	for _, line := range rc.Dialog.Lines() {
		style := speakerStyles[int(line.Speaker)%len(speakerStyles)]
		x, y := input.RoomToCell(line.Region.Min)
		width := w - x
		if rw, _ := input.RoomToCell(line.Region.Max); rw > x && rw-x < width {
			width = rw - x
		}
		for i, row := range wrap(line.Text, width) {
			buf.SetString(x, y+i, row, style)
		}
	}
}

// wrap breaks text into rows of at most width runes at spaces where possible
func wrap(text string, width int) []string {
	if width <= 0 {
		return nil
	}
	var rows []string
	runes := []rune(text)
	for len(runes) > width {
		cut := width
		for i := width; i > 0; i-- {
			if runes[i] == ' ' {
				cut = i
				break
			}
		}
		rows = append(rows, string(runes[:cut]))
		runes = runes[cut:]
		for len(runes) > 0 && runes[0] == ' ' {
			runes = runes[1:]
		}
	}
	if len(runes) > 0 {
		rows = append(rows, string(runes))
	}
	return rows
}

// DebugRenderer draws a metrics status line on the last row, toggled at runtime
type DebugRenderer struct {
	reg     *status.Registry
	visible bool
}

// NewDebugRenderer creates a hidden debug line reading reg
func NewDebugRenderer(reg *status.Registry) *DebugRenderer {
	return &DebugRenderer{reg: reg}
}

// Toggle flips visibility
func (d *DebugRenderer) Toggle() { d.visible = !d.visible }

// IsVisible implements VisibilityToggle
func (d *DebugRenderer) IsVisible() bool { return d.visible }

func (d *DebugRenderer) Render(rc *engine.RoomContext, buf *RenderBuffer) {
	_, h := buf.Bounds()
	line := "f:" + strconv.FormatInt(rc.Frame, 10) +
		" room:" + strconv.Itoa(int(rc.RoomID())) +
		" q:" + strconv.FormatInt(d.reg.Ints.Get(status.KeyQueueDepth).Load(), 10) +
		" scripts:" + strconv.FormatInt(d.reg.Ints.Get(status.KeyScriptsActive).Load(), 10) +
		" tracks:" + strconv.FormatInt(d.reg.Ints.Get(status.KeyTracksActive).Load(), 10) +
		" timers:" + strconv.FormatInt(d.reg.Ints.Get(status.KeyTimersActive).Load(), 10) +
		" dlg:" + rc.Dialog.State().String() +
		" ms:" + strconv.FormatFloat(d.reg.Floats.Get(status.KeyFrameMillis).Get(), 'f', 2, 64)
	buf.SetString(0, h-1, line, StyleDebug)
}

// RegisterScene wires the standard room layers into o and returns the debug layer
func RegisterScene(o *RenderOrchestrator, reg *status.Registry) *DebugRenderer {
	o.Register(BackgroundRenderer{}, PriorityBackground)
	o.Register(ObjectRenderer{}, PriorityObjects)
	o.Register(PlaybackRenderer{}, PriorityPlaybacks)
	o.Register(TrackRenderer{}, PriorityTracks)
	o.Register(ActorRenderer{}, PriorityActor)
	o.Register(DialogRenderer{}, PriorityDialog)
	debug := NewDebugRenderer(reg)
	o.Register(debug, PriorityDebug)
	return debug
}
