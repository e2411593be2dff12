package hub75

import (
	"image"
	"image/color"
)

// FrameCanvas is an off-screen buffer. Draw into it, then hand it to
// Matrix.SwapOnVSync; the canvas returned by the swap is the one to draw next.
type FrameCanvas struct {
	width  int // physical
	height int
	lw, lh int // logical
	t      Transformer
	pix    []color.RGBA
}

func newFrameCanvas(width, height int, t Transformer) *FrameCanvas {
	c := &FrameCanvas{
		width:  width,
		height: height,
		pix:    make([]color.RGBA, width*height),
	}
	c.setTransformer(t)
	return c
}

// setTransformer changes how logical coordinates map onto the stored
// physical pixels. Existing pixels are not moved.
func (c *FrameCanvas) setTransformer(t Transformer) {
	if t == nil {
		t = identity{}
	}
	c.t = t
	c.lw, c.lh = t.Size(c.width, c.height)
}

// Width returns the logical width.
func (c *FrameCanvas) Width() int { return c.lw }

// Height returns the logical height.
func (c *FrameCanvas) Height() int { return c.lh }

// ColorModel implements image.Image.
func (c *FrameCanvas) ColorModel() color.Model { return color.RGBAModel }

// Bounds implements image.Image.
func (c *FrameCanvas) Bounds() image.Rectangle { return image.Rect(0, 0, c.lw, c.lh) }

// At implements image.Image.
func (c *FrameCanvas) At(x, y int) color.Color {
	i, ok := c.offset(x, y)
	if !ok {
		return color.RGBA{}
	}
	return c.pix[i]
}

// Set implements draw.Image. Pixels outside the canvas are dropped.
func (c *FrameCanvas) Set(x, y int, col color.Color) {
	if i, ok := c.offset(x, y); ok {
		c.pix[i] = color.RGBAModel.Convert(col).(color.RGBA)
	}
}

// SetPixel sets a pixel from 8-bit channels.
func (c *FrameCanvas) SetPixel(x, y int, r, g, b uint8) {
	if i, ok := c.offset(x, y); ok {
		c.pix[i] = color.RGBA{R: r, G: g, B: b, A: 0xff}
	}
}

// Clear turns every pixel off.
func (c *FrameCanvas) Clear() {
	clear(c.pix)
}

// Fill sets every pixel to col.
func (c *FrameCanvas) Fill(col color.Color) {
	rgba := color.RGBAModel.Convert(col).(color.RGBA)
	for i := range c.pix {
		c.pix[i] = rgba
	}
}

func (c *FrameCanvas) offset(x, y int) (int, bool) {
	if x < 0 || y < 0 || x >= c.lw || y >= c.lh {
		return 0, false
	}
	px, py := c.t.Transform(x, y, c.width, c.height)
	return py*c.width + px, true
}

// physical returns the pixel at physical coordinates.
func (c *FrameCanvas) physical(x, y int) color.RGBA {
	return c.pix[y*c.width+x]
}
