package core

// Point is a screen position in room pixels
type Point struct {
	X, Y int
}

// Add returns p translated by d
func (p Point) Add(d Point) Point {
	return Point{X: p.X + d.X, Y: p.Y + d.Y}
}

// Sub returns the delta vector from q to p
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Manhattan returns |dx| + |dy| between p and q
func (p Point) Manhattan(q Point) int {
	return Abs(p.X-q.X) + Abs(p.Y-q.Y)
}

// Rect is an axis-aligned box, Max is exclusive
type Rect struct {
	Min, Max Point
}

// RectAt builds a rect from a top-left corner and dimensions
func RectAt(x, y, w, h int) Rect {
	return Rect{Min: Point{X: x, Y: y}, Max: Point{X: x + w, Y: y + h}}
}

// Width returns the horizontal extent
func (r Rect) Width() int { return r.Max.X - r.Min.X }

// Height returns the vertical extent
func (r Rect) Height() int { return r.Max.Y - r.Min.Y }

// Empty reports whether the rect contains no points
func (r Rect) Empty() bool {
	return r.Min.X >= r.Max.X || r.Min.Y >= r.Max.Y
}

// Contains reports whether p lies inside r
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X && p.X < r.Max.X && p.Y >= r.Min.Y && p.Y < r.Max.Y
}

// Overlaps reports whether r and o share at least one edge point
// Touching boxes count as overlapping so adjacent walk boxes connect
func (r Rect) Overlaps(o Rect) bool {
	return r.Min.X <= o.Max.X && o.Min.X <= r.Max.X && r.Min.Y <= o.Max.Y && o.Min.Y <= r.Max.Y
}

// Orientation is the facing direction of an actor or track sprite
type Orientation uint8

const (
	OrientNone Orientation = iota
	OrientUp
	OrientDown
	OrientLeft
	OrientRight
)

func (o Orientation) String() string {
	names := [...]string{"none", "up", "down", "left", "right"}
	if int(o) < len(names) {
		return names[o]
	}
	return "unknown"
}

// ParseOrientation maps a name to an Orientation, unknown names map to OrientNone
func ParseOrientation(name string) Orientation {
	switch name {
	case "up":
		return OrientUp
	case "down":
		return OrientDown
	case "left":
		return OrientLeft
	case "right":
		return OrientRight
	}
	return OrientNone
}

// OrientationOf snaps a delta vector to the dominant cardinal direction
// Ties favour the horizontal axis; zero delta returns OrientNone
func OrientationOf(d Point) Orientation {
	if d.X == 0 && d.Y == 0 {
		return OrientNone
	}
	if Abs(d.X) >= Abs(d.Y) {
		if d.X < 0 {
			return OrientLeft
		}
		return OrientRight
	}
	if d.Y < 0 {
		return OrientUp
	}
	return OrientDown
}

// Abs returns the absolute value of v
func Abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Sign returns -1, 0 or 1
func Sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}

// Clamp bounds v to [lo, hi]
func Clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
