package render

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/scenekit/core"
	"github.com/lixenwraith/scenekit/input"
)

// Cell is one composited terminal cell
type Cell struct {
	Rune  rune
	Style tcell.Style
}

var emptyCell = Cell{Rune: ' ', Style: StyleDefault}

// RenderBuffer is a cell grid with dirty tracking, flushed to a screen once per frame
type RenderBuffer struct {
	cells   []Cell
	touched []bool
	width   int
	height  int
}

// NewRenderBuffer creates a buffer with the specified dimensions
func NewRenderBuffer(width, height int) *RenderBuffer {
	b := &RenderBuffer{}
	b.Resize(width, height)
	return b
}

// Resize adjusts buffer dimensions, reallocates only if capacity insufficient
func (b *RenderBuffer) Resize(width, height int) {
	width, height = max(width, 0), max(height, 0)
	size := width * height
	if cap(b.cells) < size {
		b.cells = make([]Cell, size)
		b.touched = make([]bool, size)
	} else {
		b.cells = b.cells[:size]
		b.touched = b.touched[:size]
	}
	b.width = width
	b.height = height
	b.Clear()
}

// Clear resets all cells to empty using exponential copy
func (b *RenderBuffer) Clear() {
	if len(b.cells) == 0 {
		return
	}
	b.cells[0] = emptyCell
	b.touched[0] = false
	for filled := 1; filled < len(b.cells); filled *= 2 {
		copy(b.cells[filled:], b.cells[:filled])
	}
	for filled := 1; filled < len(b.touched); filled *= 2 {
		copy(b.touched[filled:], b.touched[:filled])
	}
}

// Bounds returns the buffer dimensions in cells
func (b *RenderBuffer) Bounds() (int, int) {
	return b.width, b.height
}

func (b *RenderBuffer) inBounds(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height
}

// Set writes one cell, out of bounds writes are dropped
func (b *RenderBuffer) Set(x, y int, r rune, style tcell.Style) {
	if !b.inBounds(x, y) {
		return
	}
	idx := y*b.width + x
	b.cells[idx] = Cell{Rune: r, Style: style}
	b.touched[idx] = true
}

// Get returns the cell at x,y, empty when out of bounds
func (b *RenderBuffer) Get(x, y int) Cell {
	if !b.inBounds(x, y) {
		return emptyCell
	}
	return b.cells[y*b.width+x]
}

// Touched reports whether any renderer wrote x,y this frame
func (b *RenderBuffer) Touched(x, y int) bool {
	return b.inBounds(x, y) && b.touched[y*b.width+x]
}

// SetString writes s left to right from x,y and returns the cells written
func (b *RenderBuffer) SetString(x, y int, s string, style tcell.Style) int {
	n := 0
	for _, r := range s {
		b.Set(x+n, y, r, style)
		n++
	}
	return n
}

// DrawArt blits a multi-line sprite with its top-left at room point p
// Spaces are transparent
func (b *RenderBuffer) DrawArt(p core.Point, art []string, style tcell.Style) {
	cx, cy := input.RoomToCell(p)
	for row, line := range art {
		col := 0
		for _, r := range line {
			if r != ' ' {
				b.Set(cx+col, cy+row, r, style)
			}
			col++
		}
	}
}

// FlushToScreen copies the buffer to screen, untouched cells are cleared
func (b *RenderBuffer) FlushToScreen(screen tcell.Screen) {
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			c := b.cells[y*b.width+x]
			if !b.touched[y*b.width+x] {
				c = emptyCell
			}
			screen.SetContent(x, y, c.Rune, nil, c.Style)
		}
	}
}
