package walk

import (
	"math"

	"github.com/lixenwraith/scenekit/core"
)

// Box is a convex walkable polygon, vertices in either winding
type Box struct {
	Points []core.Point
}

// RectBox builds an axis-aligned box, inclusive of its far edges
func RectBox(x, y, w, h int) Box {
	return Box{Points: []core.Point{
		{X: x, Y: y}, {X: x + w, Y: y}, {X: x + w, Y: y + h}, {X: x, Y: y + h},
	}}
}

// Contains reports whether p lies inside or on the boundary
func (b Box) Contains(p core.Point) bool {
	n := len(b.Points)
	if n < 3 {
		return false
	}
	sign := 0
	for i := 0; i < n; i++ {
		a, c := b.Points[i], b.Points[(i+1)%n]
		cross := (c.X-a.X)*(p.Y-a.Y) - (c.Y-a.Y)*(p.X-a.X)
		if cross == 0 {
			continue
		}
		s := core.Sign(cross)
		if sign == 0 {
			sign = s
		} else if s != sign {
			return false
		}
	}
	return true
}

// Bounds returns the axis-aligned hull, Max inclusive
func (b Box) Bounds() core.Rect {
	if len(b.Points) == 0 {
		return core.Rect{}
	}
	r := core.Rect{Min: b.Points[0], Max: b.Points[0]}
	for _, p := range b.Points[1:] {
		r.Min.X, r.Min.Y = min(r.Min.X, p.X), min(r.Min.Y, p.Y)
		r.Max.X, r.Max.Y = max(r.Max.X, p.X), max(r.Max.Y, p.Y)
	}
	return r
}

// Nearest returns the closest point of the box to p, p itself when inside
func (b Box) Nearest(p core.Point) core.Point {
	if len(b.Points) == 0 || b.Contains(p) {
		return p
	}

	best := b.Points[0]
	bestDist := math.Inf(1)
	n := len(b.Points)
	for i := 0; i < n; i++ {
		q, d := projectSegment(p, b.Points[i], b.Points[(i+1)%n])
		if d < bestDist {
			best, bestDist = q, d
		}
	}

	if b.Contains(best) {
		return best
	}
	// Rounding of slanted edges can land one pixel outside
	for _, off := range neighbours {
		c := best.Add(off)
		if b.Contains(c) {
			return c
		}
	}
	return b.Points[0]
}

var neighbours = []core.Point{
	{X: 0, Y: -1}, {X: 0, Y: 1}, {X: -1, Y: 0}, {X: 1, Y: 0},
	{X: -1, Y: -1}, {X: 1, Y: -1}, {X: -1, Y: 1}, {X: 1, Y: 1},
}

func projectSegment(p, a, b core.Point) (core.Point, float64) {
	ax, ay := float64(a.X), float64(a.Y)
	dx, dy := float64(b.X-a.X), float64(b.Y-a.Y)
	t := 0.0
	if l2 := dx*dx + dy*dy; l2 > 0 {
		t = ((float64(p.X)-ax)*dx + (float64(p.Y)-ay)*dy) / l2
		t = math.Max(0, math.Min(1, t))
	}
	q := core.Point{X: int(math.Round(ax + t*dx)), Y: int(math.Round(ay + t*dy))}
	ddx, ddy := float64(q.X-p.X), float64(q.Y-p.Y)
	return q, ddx*ddx + ddy*ddy
}

// portal finds a point shared by two boxes
func portal(a, b Box) (core.Point, bool) {
	var shared []core.Point
	for _, p := range a.Points {
		if b.Contains(p) {
			shared = append(shared, p)
		}
	}
	for _, p := range b.Points {
		if a.Contains(p) {
			shared = append(shared, p)
		}
	}
	na, nb := len(a.Points), len(b.Points)
	for i := 0; i < na; i++ {
		for j := 0; j < nb; j++ {
			if q, ok := intersect(a.Points[i], a.Points[(i+1)%na], b.Points[j], b.Points[(j+1)%nb]); ok {
				if a.Contains(q) && b.Contains(q) {
					shared = append(shared, q)
				}
			}
		}
	}
	if len(shared) == 0 {
		return core.Point{}, false
	}

	// Centre of the shared region keeps the route away from corners
	var sx, sy int
	for _, p := range shared {
		sx += p.X
		sy += p.Y
	}
	c := core.Point{X: sx / len(shared), Y: sy / len(shared)}
	if a.Contains(c) && b.Contains(c) {
		return c, true
	}
	return shared[0], true
}

func intersect(p1, p2, p3, p4 core.Point) (core.Point, bool) {
	d := float64((p2.X-p1.X)*(p4.Y-p3.Y) - (p2.Y-p1.Y)*(p4.X-p3.X))
	if d == 0 {
		return core.Point{}, false
	}
	t := float64((p3.X-p1.X)*(p4.Y-p3.Y)-(p3.Y-p1.Y)*(p4.X-p3.X)) / d
	u := float64((p3.X-p1.X)*(p2.Y-p1.Y)-(p3.Y-p1.Y)*(p2.X-p1.X)) / d
	if t < 0 || t > 1 || u < 0 || u > 1 {
		return core.Point{}, false
	}
	return core.Point{
		X: int(math.Round(float64(p1.X) + t*float64(p2.X-p1.X))),
		Y: int(math.Round(float64(p1.Y) + t*float64(p2.Y-p1.Y))),
	}, true
}
