package walk

import (
	"github.com/lixenwraith/scenekit/core"
	"github.com/lixenwraith/scenekit/parameter"
)

// Actor is the player character state, owned by the scheduler
type Actor struct {
	Position    core.Point
	Orientation core.Orientation
	Destination core.Point
	Origin      core.Point // start of the current leg
	Velocity    core.Point // last applied step
	Walking     bool
	Hidden      bool
	Scale       float64
}

// Speed is the per-axis pixel step at full scale
type Speed struct {
	X, Y int
}

// DefaultSpeed is the actor walking speed
var DefaultSpeed = Speed{X: parameter.WalkSpeedX, Y: parameter.WalkSpeedY}

// Step moves the actor one interpolation unit toward dest and reports arrival
// Positions stay on the stepped line from the leg origin to dest, the same
// line Area.Plan checks, so a planned leg never leaves the walk area.
// The major axis advances at most its zoom-scaled speed, limited further so
// the minor axis stays within its own speed. Manhattan distance to dest never
// grows and arrival is exact
func Step(a *Actor, dest core.Point, speed Speed, zoom ZoomHorizon) bool {
	if !a.Walking || a.Destination != dest {
		a.Origin = a.Position
	}
	a.Destination = dest
	a.Scale = zoom.Scale(a.Position.Y)
	if a.Position == dest {
		a.Walking = false
		a.Velocity = core.Point{}
		return true
	}

	sx := zoom.ScaleInt(speed.X, a.Position.Y, parameter.MinStep)
	sy := zoom.ScaleInt(speed.Y, a.Position.Y, parameter.MinStep)
	next := Along(a.Origin, dest, a.Position, sx, sy)
	v := next.Sub(a.Position)
	a.Position = next
	a.Velocity = v
	if o := core.OrientationOf(v); o != core.OrientNone {
		a.Orientation = o
	}
	a.Walking = a.Position != dest
	return !a.Walking
}

// Along advances pos one step on the line from origin to dest
// The line is sampled as origin + d*i/n with n the major axis length
func Along(origin, dest, pos core.Point, sx, sy int) core.Point {
	d := dest.Sub(origin)
	ax, ay := core.Abs(d.X), core.Abs(d.Y)
	n, major, minor := ax, sx, sy
	done := core.Abs(pos.X - origin.X)
	minorLen := ay
	if ay > ax {
		n, major, minor = ay, sy, sx
		done = core.Abs(pos.Y - origin.Y)
		minorLen = ax
	}
	if n == 0 {
		return dest
	}

	step := major
	if minorLen > 0 {
		step = min(step, max(minor*n/minorLen, 1))
	}
	i := min(done+step, n)
	return core.Point{X: origin.X + d.X*i/n, Y: origin.Y + d.Y*i/n}
}

// Warp places the actor at dest immediately
func Warp(a *Actor, dest core.Point, zoom ZoomHorizon) {
	a.Position = dest
	a.Destination = dest
	a.Velocity = core.Point{}
	a.Walking = false
	a.Scale = zoom.Scale(dest.Y)
}

// Arrive applies the final orientation hint, none keeps the walking direction
func Arrive(a *Actor, hint core.Orientation) {
	a.Walking = false
	a.Velocity = core.Point{}
	if hint != core.OrientNone {
		a.Orientation = hint
	}
}

// Toward moves from pos toward dest by at most sx, sy per axis
// Returns the new position and the applied delta
func Toward(pos, dest core.Point, sx, sy int) (core.Point, core.Point) {
	delta := dest.Sub(pos)
	v := core.Point{
		X: core.Clamp(delta.X, -sx, sx),
		Y: core.Clamp(delta.Y, -sy, sy),
	}
	return pos.Add(v), v
}
