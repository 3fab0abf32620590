package walk

import (
	"github.com/lixenwraith/scenekit/core"
)

// Area is the set of walk boxes of a room
// An empty area places no constraint on movement
type Area struct {
	Boxes []Box

	adj   [][]int
	gates map[[2]int]core.Point
}

// NewArea builds an area and precomputes box adjacency
func NewArea(boxes []Box) *Area {
	a := &Area{Boxes: boxes, gates: make(map[[2]int]core.Point)}
	a.adj = make([][]int, len(boxes))
	for i := range boxes {
		for j := i + 1; j < len(boxes); j++ {
			if p, ok := portal(boxes[i], boxes[j]); ok {
				a.adj[i] = append(a.adj[i], j)
				a.adj[j] = append(a.adj[j], i)
				a.gates[[2]int{i, j}] = p
				a.gates[[2]int{j, i}] = p
			}
		}
	}
	return a
}

// Contains reports whether p lies in any walk box
func (a *Area) Contains(p core.Point) bool {
	if a == nil || len(a.Boxes) == 0 {
		return true
	}
	return a.BoxAt(p) >= 0
}

// BoxAt returns the index of the first box containing p, or -1
func (a *Area) BoxAt(p core.Point) int {
	for i, b := range a.Boxes {
		if b.Contains(p) {
			return i
		}
	}
	return -1
}

// Clamp returns p if walkable, else the nearest boundary point of any box
func (a *Area) Clamp(p core.Point) core.Point {
	q, _ := a.nearest(p, nil)
	return q
}

func (a *Area) nearest(p core.Point, allowed map[int]bool) (core.Point, int) {
	if a == nil || len(a.Boxes) == 0 {
		return p, -1
	}
	best, bestBox, bestDist := p, -1, -1
	for i, b := range a.Boxes {
		if allowed != nil && !allowed[i] {
			continue
		}
		q := b.Nearest(p)
		d := sqDist(p, q)
		if bestBox < 0 || d < bestDist {
			best, bestBox, bestDist = q, i, d
		}
		if d == 0 {
			break
		}
	}
	return best, bestBox
}

// Plan returns the legs from one point to another, the last leg being the
// clamped destination. Each leg is a straight walk inside the area
func (a *Area) Plan(from, to core.Point) []core.Point {
	if a == nil || len(a.Boxes) == 0 {
		return []core.Point{to}
	}

	start := a.BoxAt(from)
	if start < 0 {
		_, start = a.nearest(from, nil)
	}

	reach := a.component(start)
	dest, goal := a.nearest(to, reach)

	if a.straight(from, dest) {
		return []core.Point{dest}
	}

	path := a.route(start, goal)
	legs := make([]core.Point, 0, len(path))
	for i := 1; i < len(path); i++ {
		legs = append(legs, a.gates[[2]int{path[i-1], path[i]}])
	}
	return append(legs, dest)
}

// straight reports whether the stepped line from a to b stays walkable
func (a *Area) straight(from, to core.Point) bool {
	d := to.Sub(from)
	n := max(core.Abs(d.X), core.Abs(d.Y))
	for i := 0; i <= n; i++ {
		var p core.Point
		if n == 0 {
			p = from
		} else {
			p = core.Point{X: from.X + d.X*i/n, Y: from.Y + d.Y*i/n}
		}
		if !a.Contains(p) {
			return false
		}
	}
	return true
}

func (a *Area) component(start int) map[int]bool {
	seen := map[int]bool{start: true}
	queue := []int{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, n := range a.adj[cur] {
			if !seen[n] {
				seen[n] = true
				queue = append(queue, n)
			}
		}
	}
	return seen
}

// route is a breadth-first search over box adjacency, fewest boxes first
func (a *Area) route(start, goal int) []int {
	if start == goal {
		return []int{start}
	}
	prev := make([]int, len(a.Boxes))
	for i := range prev {
		prev[i] = -1
	}
	prev[start] = start
	queue := []int{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == goal {
			break
		}
		for _, n := range a.adj[cur] {
			if prev[n] < 0 {
				prev[n] = cur
				queue = append(queue, n)
			}
		}
	}
	if prev[goal] < 0 {
		return []int{start}
	}
	var path []int
	for cur := goal; cur != start; cur = prev[cur] {
		path = append(path, cur)
	}
	path = append(path, start)
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

func sqDist(p, q core.Point) int {
	dx, dy := p.X-q.X, p.Y-q.Y
	return dx*dx + dy*dy
}
