package graphics

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// ErrInvalidFont is returned when a BDF file cannot be parsed.
var ErrInvalidFont = errors.New("graphics: invalid BDF font")

type glyph struct {
	advance    int
	w, h       int
	xoff, yoff int
	mask       *image.Alpha
}

// Font is a bitmap font loaded from a BDF file.
type Font struct {
	ascent  int
	descent int
	glyphs  map[rune]*glyph
}

// LoadFont reads a BDF font from path.
func LoadFont(path string) (*Font, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open font: %w", err)
	}
	defer f.Close()

	parsed, err := ParseFont(f)
	if err != nil {
		return nil, fmt.Errorf("failed to load font %s: %w", path, err)
	}
	return parsed, nil
}

// ParseFont parses a BDF font.
func ParseFont(r io.Reader) (*Font, error) {
	f := &Font{glyphs: make(map[rune]*glyph)}

	var (
		started    bool
		haveAscent bool
		bbox       [4]int
		cur        *glyph
		code       rune
		bitmap     bool
		row        int
	)

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		invalid := func(format string, args ...any) error {
			return fmt.Errorf("%w: line %d: %s", ErrInvalidFont, line, fmt.Sprintf(format, args...))
		}

		if bitmap {
			if fields[0] == "ENDCHAR" {
				if code >= 0 {
					f.glyphs[code] = cur
				}
				cur, bitmap = nil, false
				continue
			}
			if row >= cur.h {
				return nil, invalid("too many bitmap rows")
			}
			bits, err := strconv.ParseUint(fields[0], 16, 64)
			if err != nil {
				return nil, invalid("bad bitmap row %q", fields[0])
			}
			width := len(fields[0]) * 4
			for x := 0; x < cur.w && x < width; x++ {
				if bits>>(width-1-x)&1 == 1 {
					cur.mask.SetAlpha(x, row, color.Alpha{A: 0xff})
				}
			}
			row++
			continue
		}

		ints := func(n int) ([]int, error) {
			if len(fields) < n+1 {
				return nil, invalid("%s needs %d values", fields[0], n)
			}
			out := make([]int, n)
			for i := range out {
				v, err := strconv.Atoi(fields[i+1])
				if err != nil {
					return nil, invalid("%s: %v", fields[0], err)
				}
				out[i] = v
			}
			return out, nil
		}

		switch fields[0] {
		case "STARTFONT":
			started = true
		case "FONTBOUNDINGBOX":
			v, err := ints(4)
			if err != nil {
				return nil, err
			}
			copy(bbox[:], v)
		case "FONT_ASCENT":
			v, err := ints(1)
			if err != nil {
				return nil, err
			}
			f.ascent, haveAscent = v[0], true
		case "FONT_DESCENT":
			v, err := ints(1)
			if err != nil {
				return nil, err
			}
			f.descent = v[0]
		case "STARTCHAR":
			if !started {
				return nil, invalid("STARTCHAR before STARTFONT")
			}
			cur, code = &glyph{advance: bbox[0]}, -1
		case "ENCODING":
			v, err := ints(1)
			if err != nil {
				return nil, err
			}
			code = rune(v[0])
		case "DWIDTH":
			v, err := ints(2)
			if err != nil {
				return nil, err
			}
			if cur != nil {
				cur.advance = v[0]
			}
		case "BBX":
			v, err := ints(4)
			if err != nil {
				return nil, err
			}
			if cur != nil {
				cur.w, cur.h, cur.xoff, cur.yoff = v[0], v[1], v[2], v[3]
			}
		case "BITMAP":
			if cur == nil {
				return nil, invalid("BITMAP outside a glyph")
			}
			if cur.w < 0 || cur.h < 0 {
				return nil, invalid("negative glyph size")
			}
			cur.mask = image.NewAlpha(image.Rect(0, 0, cur.w, cur.h))
			bitmap, row = true, 0
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read font: %w", err)
	}
	if !started || len(f.glyphs) == 0 {
		return nil, fmt.Errorf("%w: no glyphs", ErrInvalidFont)
	}
	if !haveAscent {
		f.ascent = bbox[1] + bbox[3]
		f.descent = -bbox[3]
	}
	return f, nil
}

// Baseline is the distance from the top of a line to the baseline.
func (f *Font) Baseline() int { return f.ascent }

// Height is the line height in pixels.
func (f *Font) Height() int { return f.ascent + f.descent }

// CharacterWidth returns the advance of r, or -1 if the font lacks it.
func (f *Font) CharacterWidth(r rune) int {
	g, ok := f.glyphs[r]
	if !ok {
		return -1
	}
	return g.advance
}

// Face returns f as a font.Face for use with font.Drawer.
func (f *Font) Face() font.Face { return face{f} }

type face struct{ f *Font }

func (face) Close() error { return nil }

func (fc face) Glyph(dot fixed.Point26_6, r rune) (image.Rectangle, image.Image, image.Point, fixed.Int26_6, bool) {
	g, ok := fc.f.glyphs[r]
	if !ok {
		return image.Rectangle{}, nil, image.Point{}, 0, false
	}
	x := dot.X.Round() + g.xoff
	y := dot.Y.Round() - g.yoff - g.h
	return image.Rect(x, y, x+g.w, y+g.h), g.mask, image.Point{}, fixed.I(g.advance), true
}

func (fc face) GlyphBounds(r rune) (fixed.Rectangle26_6, fixed.Int26_6, bool) {
	g, ok := fc.f.glyphs[r]
	if !ok {
		return fixed.Rectangle26_6{}, 0, false
	}
	bounds := fixed.R(g.xoff, -(g.yoff + g.h), g.xoff+g.w, -g.yoff)
	return bounds, fixed.I(g.advance), true
}

func (fc face) GlyphAdvance(r rune) (fixed.Int26_6, bool) {
	g, ok := fc.f.glyphs[r]
	if !ok {
		return 0, false
	}
	return fixed.I(g.advance), true
}

func (face) Kern(r0, r1 rune) fixed.Int26_6 { return 0 }

func (fc face) Metrics() font.Metrics {
	return font.Metrics{
		Height:  fixed.I(fc.f.Height()),
		Ascent:  fixed.I(fc.f.ascent),
		Descent: fixed.I(fc.f.descent),
	}
}

// DrawText draws text with its baseline at y and returns the advance in
// pixels. Runes missing from the font are skipped.
func DrawText(c draw.Image, f *Font, x, y int, col color.Color, text string) int {
	d := font.Drawer{
		Dst:  c,
		Src:  image.NewUniform(col),
		Face: f.Face(),
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
	return (d.Dot.X - fixed.I(x)).Round()
}
