package dialog

import (
	"unicode/utf8"

	"github.com/lixenwraith/scenekit/core"
	"github.com/lixenwraith/scenekit/event"
	"github.com/lixenwraith/scenekit/input"
	"github.com/lixenwraith/scenekit/parameter"
)

// State of the dialog state machine
type State uint8

const (
	Idle State = iota
	Showing
	Acknowledged
	TimedOut
	Choosing
)

func (s State) String() string {
	switch s {
	case Showing:
		return "showing"
	case Acknowledged:
		return "acknowledged"
	case TimedOut:
		return "timed_out"
	case Choosing:
		return "choosing"
	}
	return "idle"
}

// Timing derives line timeouts from text length
type Timing struct {
	Base    int
	PerChar int
	Max     int
}

// DefaultTiming is the standard reading speed
var DefaultTiming = Timing{
	Base:    parameter.DialogBaseFrames,
	PerChar: parameter.DialogFramesPerChar,
	Max:     parameter.DialogMaxFrames,
}

// Frames returns the timeout for the longest of lines
func (t Timing) Frames(lines []event.MessageLine) int {
	longest := 0
	for _, l := range lines {
		longest = max(longest, utf8.RuneCountInString(l.Text))
	}
	f := t.Base + t.PerChar*longest
	if t.Max > 0 {
		f = min(f, t.Max)
	}
	return max(f, 1)
}

// Option is one entry of a choice menu
type Option struct {
	Text string
	Row  core.Rect // room region accepting a click, bottom rows of the screen
}

// Runner shows modal text lines and choice menus
// Update is called once per frame by the scheduler
type Runner struct {
	timing    Timing
	state     State
	lines     []event.MessageLine
	remaining int
	shown     int // lines shown since last idle

	menu   *menu // active while Choosing, set aside while a line interrupts it
	menuID uint64
}

type menu struct {
	id      uint64
	options []Option
	cont    func(int)
}

// NewRunner creates an idle Runner
func NewRunner(timing Timing) *Runner {
	return &Runner{timing: timing}
}

// State returns the current state
func (r *Runner) State() State {
	return r.state
}

// Lines returns the lines being shown, several for split-screen
func (r *Runner) Lines() []event.MessageLine {
	return r.lines
}

// Options returns the active choice menu
func (r *Runner) Options() []Option {
	if r.state != Choosing || r.menu == nil {
		return nil
	}
	return r.menu.options
}

// Menu returns the id of the pending choice menu, zero when none
// A menu interrupted by a line stays pending and returns on Close
func (r *Runner) Menu() uint64 {
	if r.menu == nil {
		return 0
	}
	return r.menu.id
}

// Remaining returns frames left before timeout
func (r *Runner) Remaining() int {
	return r.remaining
}

// Show enters Showing with lines; frames zero derives the timeout from text length
// Showing while a previous line is done counts as the next line of the same exchange
// A pending menu is set aside until the line closes
func (r *Runner) Show(lines []event.MessageLine, frames int) {
	if frames <= 0 {
		frames = r.timing.Frames(lines)
	}
	r.lines = layout(lines)
	r.remaining = frames
	r.state = Showing
	r.shown++
}

// Done reports whether the shown line was acknowledged or timed out
func (r *Runner) Done() bool {
	return r.state == Acknowledged || r.state == TimedOut
}

// Close ends the shown line, returning to a pending menu or to Idle
// Closing the menu itself is a no-op
func (r *Runner) Close() {
	if r.state == Choosing {
		return
	}
	r.state = Idle
	r.lines = nil
	r.remaining = 0
	r.shown = 0
	if r.menu != nil {
		r.state = Choosing
	}
}

// Choose shows a menu and calls cont with the selected 0-based index
// Selection is by number key or by clicking an option row
// A previous pending menu is dropped without calling its continuation
func (r *Runner) Choose(options []string, cont func(int)) uint64 {
	r.menuID++
	m := &menu{id: r.menuID, options: make([]Option, len(options)), cont: cont}
	for i, text := range options {
		m.options[i] = Option{Text: text, Row: optionRow(i, len(options))}
	}
	r.menu = m
	r.lines = nil
	r.state = Choosing
	return m.id
}

// Update advances the state machine one frame
func (r *Runner) Update(in input.State) State {
	switch r.state {
	case Showing:
		if in.Acknowledged() {
			r.state = Acknowledged
			break
		}
		r.remaining--
		if r.remaining <= 0 {
			r.state = TimedOut
		}
	case Choosing:
		if r.menu == nil {
			r.state = Idle
			break
		}
		options := r.menu.options
		idx := -1
		if d, ok := in.Digit(); ok && d <= len(options) {
			idx = d - 1
		} else if in.Clicked {
			for i, o := range options {
				if o.Row.Contains(in.Click) {
					idx = i
					break
				}
			}
		}
		if idx >= 0 {
			cont := r.menu.cont
			r.menu = nil
			r.state = Idle
			if cont != nil {
				cont(idx)
			}
		}
	}
	return r.state
}

// Reset drops any dialog without invoking continuations, used on room switch
func (r *Runner) Reset() {
	r.state = Idle
	r.lines = nil
	r.menu = nil
	r.remaining = 0
	r.shown = 0
}

// layout assigns split-screen regions to lines without an explicit region
// Lines stack from the top, one band per speaker
func layout(lines []event.MessageLine) []event.MessageLine {
	out := make([]event.MessageLine, len(lines))
	copy(out, lines)
	if len(out) == 0 {
		return out
	}
	band := parameter.RoomHeight / 4 / len(out)
	for i := range out {
		if out[i].Region.Empty() {
			out[i].Region = core.RectAt(0, i*band, parameter.RoomWidth, band)
		}
	}
	return out
}

// optionRow places option i of n in the bottom rows, first option on top
func optionRow(i, n int) core.Rect {
	top := parameter.RoomHeight - (n-i)*parameter.CellHeight
	return core.RectAt(0, top, parameter.RoomWidth, parameter.CellHeight)
}
