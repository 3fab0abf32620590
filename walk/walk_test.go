package walk

import (
	"testing"

	"github.com/lixenwraith/scenekit/core"
)

func TestStepManhattanMonotoneAndExact(t *testing.T) {
	zoom := ZoomHorizon{HorizonY: 50, BaseY: 190, MinScale: 0.3, MaxScale: 1.0}
	cases := []struct{ from, to core.Point }{
		{core.Point{X: 10, Y: 180}, core.Point{X: 300, Y: 60}},
		{core.Point{X: 300, Y: 60}, core.Point{X: 10, Y: 180}},
		{core.Point{X: 100, Y: 100}, core.Point{X: 103, Y: 170}},
		{core.Point{X: 5, Y: 5}, core.Point{X: 6, Y: 5}},
		{core.Point{X: 200, Y: 199}, core.Point{X: 0, Y: 199}},
	}

	for _, tc := range cases {
		a := &Actor{Position: tc.from}
		prev := a.Position.Manhattan(tc.to)
		steps := 0
		for !Step(a, tc.to, DefaultSpeed, zoom) {
			d := a.Position.Manhattan(tc.to)
			if d > prev {
				t.Fatalf("%v->%v: distance grew from %d to %d at step %d", tc.from, tc.to, prev, d, steps)
			}
			prev = d
			steps++
			if steps > 10000 {
				t.Fatalf("%v->%v: never arrived", tc.from, tc.to)
			}
		}
		if a.Position != tc.to {
			t.Errorf("%v->%v: expected exact arrival, got %v", tc.from, tc.to, a.Position)
		}
		if a.Walking {
			t.Errorf("%v->%v: expected walking cleared", tc.from, tc.to)
		}
	}
}

func TestStepToOwnPositionIsImmediate(t *testing.T) {
	a := &Actor{Position: core.Point{X: 100, Y: 100}, Orientation: core.OrientLeft}
	if !Step(a, core.Point{X: 100, Y: 100}, DefaultSpeed, ZoomHorizon{}) {
		t.Fatal("Expected arrival without moving")
	}
	if a.Orientation != core.OrientLeft {
		t.Errorf("Expected orientation kept, got %v", a.Orientation)
	}
}

func TestStepOrientationFollowsDominantAxis(t *testing.T) {
	a := &Actor{Position: core.Point{X: 0, Y: 0}}
	Step(a, core.Point{X: 0, Y: 50}, DefaultSpeed, ZoomHorizon{})
	if a.Orientation != core.OrientDown {
		t.Errorf("Expected down, got %v", a.Orientation)
	}
	Step(a, core.Point{X: -80, Y: a.Position.Y}, DefaultSpeed, ZoomHorizon{})
	if a.Orientation != core.OrientLeft {
		t.Errorf("Expected left, got %v", a.Orientation)
	}
}

func TestZoomScale(t *testing.T) {
	z := ZoomHorizon{HorizonY: 100, BaseY: 200, MinScale: 0.5, MaxScale: 1.0}
	tests := []struct {
		y    int
		want float64
	}{
		{0, 0.5}, {100, 0.5}, {150, 0.75}, {200, 1.0}, {250, 1.0},
	}
	for _, tt := range tests {
		if got := z.Scale(tt.y); got != tt.want {
			t.Errorf("Scale(%d): expected %v, got %v", tt.y, tt.want, got)
		}
	}
	if got := (ZoomHorizon{}).Scale(42); got != 1.0 {
		t.Errorf("Expected unset horizon scale 1.0, got %v", got)
	}
	if got := z.ScaleInt(1, 100, 1); got != 1 {
		t.Errorf("Expected floor of 1, got %d", got)
	}
}

func TestBoxContainsAndNearest(t *testing.T) {
	b := RectBox(10, 10, 20, 10)
	if !b.Contains(core.Point{X: 10, Y: 10}) || !b.Contains(core.Point{X: 30, Y: 20}) {
		t.Error("Expected edges to be inclusive")
	}
	if b.Contains(core.Point{X: 31, Y: 15}) {
		t.Error("Expected point outside")
	}
	if got := b.Nearest(core.Point{X: 50, Y: 15}); got != (core.Point{X: 30, Y: 15}) {
		t.Errorf("Expected clamp to right edge, got %v", got)
	}
	if got := b.Nearest(core.Point{X: 0, Y: 0}); got != (core.Point{X: 10, Y: 10}) {
		t.Errorf("Expected clamp to corner, got %v", got)
	}
}

func TestSlantedBoxNearestStaysInside(t *testing.T) {
	b := Box{Points: []core.Point{{X: 0, Y: 100}, {X: 40, Y: 60}, {X: 200, Y: 60}, {X: 240, Y: 100}}}
	for _, p := range []core.Point{{X: 0, Y: 0}, {X: 3, Y: 70}, {X: 239, Y: 61}, {X: 120, Y: 300}} {
		q := b.Nearest(p)
		if !b.Contains(q) {
			t.Errorf("Nearest(%v) = %v lies outside the box", p, q)
		}
	}
}

func TestPlanDirect(t *testing.T) {
	area := NewArea([]Box{RectBox(0, 100, 320, 100)})
	legs := area.Plan(core.Point{X: 10, Y: 150}, core.Point{X: 300, Y: 120})
	if len(legs) != 1 || legs[0] != (core.Point{X: 300, Y: 120}) {
		t.Errorf("Expected single direct leg, got %v", legs)
	}
}

func TestPlanClampsOutsideDestination(t *testing.T) {
	area := NewArea([]Box{RectBox(0, 100, 320, 100)})
	legs := area.Plan(core.Point{X: 10, Y: 150}, core.Point{X: 100, Y: 20})
	if got := legs[len(legs)-1]; got != (core.Point{X: 100, Y: 100}) {
		t.Errorf("Expected clamp to top edge, got %v", got)
	}
}

func TestPlanRoutesThroughPortal(t *testing.T) {
	// L-shaped floor: corridor along the bottom, shaft up the right side
	floor := RectBox(0, 150, 200, 30)
	shaft := RectBox(170, 20, 30, 130)
	area := NewArea([]Box{floor, shaft})

	from := core.Point{X: 10, Y: 170}
	to := core.Point{X: 185, Y: 30}
	legs := area.Plan(from, to)
	if len(legs) != 2 {
		t.Fatalf("Expected portal leg plus destination, got %v", legs)
	}
	if !floor.Contains(legs[0]) || !shaft.Contains(legs[0]) {
		t.Errorf("Expected portal inside both boxes, got %v", legs[0])
	}
	if legs[1] != to {
		t.Errorf("Expected final leg %v, got %v", to, legs[1])
	}
}

func TestPlanUnreachableStaysInComponent(t *testing.T) {
	left := RectBox(0, 100, 50, 50)
	right := RectBox(200, 100, 50, 50)
	area := NewArea([]Box{left, right})

	legs := area.Plan(core.Point{X: 10, Y: 120}, core.Point{X: 220, Y: 120})
	dest := legs[len(legs)-1]
	if !left.Contains(dest) {
		t.Errorf("Expected destination clamped into reachable box, got %v", dest)
	}
}

func TestEmptyAreaIsUnconstrained(t *testing.T) {
	var area *Area
	if !area.Contains(core.Point{X: -5, Y: 999}) {
		t.Error("Expected nil area to contain everything")
	}
	legs := NewArea(nil).Plan(core.Point{}, core.Point{X: 7, Y: 7})
	if len(legs) != 1 || legs[0] != (core.Point{X: 7, Y: 7}) {
		t.Errorf("Expected direct leg, got %v", legs)
	}
}

func TestStepStaysInSlantedBox(t *testing.T) {
	band := Box{Points: []core.Point{{X: 0, Y: 0}, {X: 12, Y: 0}, {X: 112, Y: 100}, {X: 100, Y: 100}}}
	area := NewArea([]Box{band})
	from, to := core.Point{X: 4, Y: 2}, core.Point{X: 104, Y: 98}

	legs := area.Plan(from, to)
	if len(legs) != 1 || legs[0] != to {
		t.Fatalf("Expected one direct leg, got %v", legs)
	}

	a := &Actor{Position: from}
	steps := 0
	for !Step(a, legs[0], DefaultSpeed, ZoomHorizon{}) {
		steps++
		if !area.Contains(a.Position) {
			t.Fatalf("Step %d: actor left the walk area at %v", steps, a.Position)
		}
		if steps > 1000 {
			t.Fatal("Never arrived")
		}
	}
	if a.Position != to {
		t.Errorf("Expected exact arrival at %v, got %v", to, a.Position)
	}
}

func TestAlongRespectsMinorAxisSpeed(t *testing.T) {
	origin, dest := core.Point{X: 0, Y: 0}, core.Point{X: 40, Y: 40}
	p := Along(origin, dest, origin, 8, 4)
	if p != (core.Point{X: 4, Y: 4}) {
		t.Errorf("Expected step limited by the slower axis, got %v", p)
	}
	if got := Along(origin, dest, core.Point{X: 38, Y: 38}, 8, 4); got != dest {
		t.Errorf("Expected last step clamped to %v, got %v", dest, got)
	}
}
