package input

import (
	"github.com/lixenwraith/scenekit/core"
)

// State is the polled input of one frame
// Presses and clicks cover only the events since the previous snapshot
type State struct {
	Mouse   core.Point // room pixels
	Click   core.Point
	Clicked bool
	Right   bool // secondary button clicked
	Keys    []rune
	Actions []Action
}

// Has reports whether action was triggered this frame
func (s State) Has(a Action) bool {
	for _, v := range s.Actions {
		if v == a {
			return true
		}
	}
	return false
}

// Acknowledged reports any input that dismisses a dialog line
func (s State) Acknowledged() bool {
	return s.Clicked || s.Right || s.Has(ActionSkip)
}

// Digit returns the first number key pressed, 1-based
func (s State) Digit() (int, bool) {
	for _, r := range s.Keys {
		if r >= '1' && r <= '9' {
			return int(r - '0'), true
		}
	}
	return 0, false
}

// Empty reports whether nothing happened this frame
func (s State) Empty() bool {
	return !s.Clicked && !s.Right && len(s.Keys) == 0 && len(s.Actions) == 0
}
