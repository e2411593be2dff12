package display

import (
	"github.com/danielesteban/clock/internal/types"
	"github.com/danielesteban/clock/pkg/hub75"
)

// MatrixSurface presents a hub75 matrix as a Surface
type MatrixSurface struct {
	matrix *hub75.Matrix
}

// NewMatrixSurface wraps m
func NewMatrixSurface(m *hub75.Matrix) *MatrixSurface {
	return &MatrixSurface{matrix: m}
}

// CreateCanvas returns a new frame canvas sized for the matrix
func (s *MatrixSurface) CreateCanvas() types.Canvas {
	return s.matrix.CreateFrameCanvas()
}

// SwapOnVSync shows c at the next refresh boundary. Canvases not created
// by the matrix cannot be shown and are handed straight back.
func (s *MatrixSurface) SwapOnVSync(c types.Canvas) types.Canvas {
	fc, ok := c.(*hub75.FrameCanvas)
	if !ok {
		return c
	}
	return s.matrix.SwapOnVSync(fc)
}

// ApplyStaticTransformer sets the orientation of every canvas shown from now on
func (s *MatrixSurface) ApplyStaticTransformer(t hub75.Transformer) {
	s.matrix.ApplyStaticTransformer(t)
}

// Clear blanks the panel
func (s *MatrixSurface) Clear() {
	s.matrix.Clear()
}

// Close stops refreshing and releases the panel
func (s *MatrixSurface) Close() error {
	return s.matrix.Close()
}
