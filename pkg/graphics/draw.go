// Package graphics holds the drawing primitives used on matrix canvases.
// Everything draws through draw.Image, so any canvas that clips its own
// writes can be a target.
package graphics

import (
	"image/color"
	"image/draw"
)

// DrawLine draws a line from (x0, y0) to (x1, y1), both ends included.
func DrawLine(c draw.Image, x0, y0, x1, y1 int, col color.Color) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x1 < x0 {
		sx = -1
	}
	if y1 < y0 {
		sy = -1
	}

	err := dx + dy
	for {
		c.Set(x0, y0, col)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// DrawCircle draws the outline of a circle centered on (x0, y0). A negative
// radius draws nothing.
func DrawCircle(c draw.Image, x0, y0, radius int, col color.Color) {
	x, y := radius, 0
	radiusError := 1 - x
	for y <= x {
		c.Set(x+x0, y+y0, col)
		c.Set(y+x0, x+y0, col)
		c.Set(-x+x0, y+y0, col)
		c.Set(-y+x0, x+y0, col)
		c.Set(-x+x0, -y+y0, col)
		c.Set(-y+x0, -x+y0, col)
		c.Set(x+x0, -y+y0, col)
		c.Set(y+x0, -x+y0, col)
		y++
		if radiusError < 0 {
			radiusError += 2*y + 1
		} else {
			x--
			radiusError += 2 * (y - x + 1)
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
