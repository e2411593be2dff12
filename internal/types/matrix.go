package types

import (
	"image/draw"
	"time"
)

// Canvas is a drawable frame buffer
type Canvas interface {
	draw.Image
	// Clear sets every pixel to black
	Clear()
}

// Surface hands out canvases and shows them on the display
type Surface interface {
	// CreateCanvas returns a new back buffer
	CreateCanvas() Canvas
	// SwapOnVSync shows c at the next frame boundary and returns the
	// previously shown canvas, which the caller now owns
	SwapOnVSync(c Canvas) Canvas
}

// Clock reads the wall clock
type Clock interface {
	Now() time.Time
}

// Flag is a shared stop flag, satisfied by *atomic.Bool
type Flag interface {
	Load() bool
}

// Chimer strikes the hour
type Chimer interface {
	Strike(hour int)
}
