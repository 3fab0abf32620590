package input

import (
	"context"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/scenekit/core"
	"github.com/lixenwraith/scenekit/parameter"
)

// Source is a polled input provider
type Source interface {
	Snapshot() State
}

// Poller accumulates tcell events between frames
// Feed runs on the event goroutine, Snapshot on the frame loop
type Poller struct {
	mu      sync.Mutex
	keys    *KeyTable
	pending State
	mouse   core.Point
	buttons tcell.ButtonMask

	immediate map[Action]func()
}

// NewPoller creates a Poller with the given bindings, nil uses defaults
func NewPoller(keys *KeyTable) *Poller {
	if keys == nil {
		keys = DefaultKeyTable()
	}
	return &Poller{keys: keys}
}

// OnImmediate handles action on the event goroutine instead of queueing it
// Used for pause and quit, which must work while the frame loop is halted
func (p *Poller) OnImmediate(a Action, fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.immediate == nil {
		p.immediate = make(map[Action]func())
	}
	p.immediate[a] = fn
}

// Feed records one terminal event
func (p *Poller) Feed(ev tcell.Event) {
	if fn := p.record(ev); fn != nil {
		fn()
	}
}

func (p *Poller) record(ev tcell.Event) func() {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch e := ev.(type) {
	case *tcell.EventKey:
		a := p.keys.Lookup(e.Key(), e.Rune())
		if fn, ok := p.immediate[a]; ok && a != ActionNone {
			return fn
		}
		if e.Key() == tcell.KeyRune {
			p.pending.Keys = append(p.pending.Keys, e.Rune())
		}
		if a != ActionNone {
			p.pending.Actions = append(p.pending.Actions, a)
		}
	case *tcell.EventMouse:
		x, y := e.Position()
		p.mouse = CellToRoom(x, y)
		btn := e.Buttons()
		// Clicks register on press edges only
		pressed := btn &^ p.buttons
		if pressed&tcell.Button1 != 0 {
			p.pending.Clicked = true
			p.pending.Click = p.mouse
		}
		if pressed&tcell.Button2 != 0 {
			p.pending.Right = true
		}
		p.buttons = btn
	}
	return nil
}

// Snapshot returns this frame's input and starts a new accumulation window
func (p *Poller) Snapshot() State {
	p.mu.Lock()
	defer p.mu.Unlock()

	s := p.pending
	s.Mouse = p.mouse
	p.pending = State{}
	return s
}

// Run pumps screen events into the poller until ctx is done or the screen is finalised
func (p *Poller) Run(ctx context.Context, screen tcell.Screen, onResize func()) {
	for {
		if ctx.Err() != nil {
			return
		}
		ev := screen.PollEvent()
		if ev == nil {
			return
		}
		if _, ok := ev.(*tcell.EventResize); ok {
			if onResize != nil {
				onResize()
			}
			continue
		}
		p.Feed(ev)
	}
}

// CellToRoom converts terminal cell coordinates to room pixels at the cell centre
func CellToRoom(x, y int) core.Point {
	return core.Point{
		X: x*parameter.CellWidth + parameter.CellWidth/2,
		Y: y*parameter.CellHeight + parameter.CellHeight/2,
	}
}

// RoomToCell converts room pixels to terminal cell coordinates
func RoomToCell(p core.Point) (int, int) {
	return floorDiv(p.X, parameter.CellWidth), floorDiv(p.Y, parameter.CellHeight)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// Scripted replays a fixed list of frame states, used by tests and demos
type Scripted struct {
	mu     sync.Mutex
	frames []State
}

// NewScripted creates a source yielding states in order, then empty states
func NewScripted(frames ...State) *Scripted {
	return &Scripted{frames: frames}
}

// Push appends a state to be returned by a later Snapshot
func (s *Scripted) Push(st State) {
	s.mu.Lock()
	s.frames = append(s.frames, st)
	s.mu.Unlock()
}

// Snapshot pops the next state
func (s *Scripted) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.frames) == 0 {
		return State{}
	}
	st := s.frames[0]
	s.frames = s.frames[1:]
	return st
}
