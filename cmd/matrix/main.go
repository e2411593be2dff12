package main

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/pflag"
	"golang.org/x/sys/unix"

	"github.com/danielesteban/clock/internal/config"
	"github.com/danielesteban/clock/internal/logging"
	"github.com/danielesteban/clock/pkg/hub75"
)

// pattern fills one frame of a test pattern; frame counts up from zero
// while the pattern is shown.
type pattern struct {
	name string
	draw func(c draw.Image, frame int)
}

var patterns = []pattern{
	{name: "red", draw: fill(color.RGBA{R: 0xff, A: 0xff})},
	{name: "green", draw: fill(color.RGBA{G: 0xff, A: 0xff})},
	{name: "blue", draw: fill(color.RGBA{B: 0xff, A: 0xff})},
	{name: "checkerboard", draw: checkerboard},
}

func fill(col color.Color) func(draw.Image, int) {
	return func(c draw.Image, _ int) {
		draw.Draw(c, c.Bounds(), image.NewUniform(col), image.Point{}, draw.Src)
	}
}

// checkerboard draws 4 pixel squares that shift one pixel per frame.
func checkerboard(c draw.Image, frame int) {
	b := c.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if ((x+frame)/4+y/4)%2 == 0 {
				c.Set(x, y, color.White)
			} else {
				c.Set(x, y, color.Black)
			}
		}
	}
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		slog.Error("matrix test failed", "err", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg := config.DefaultConfig()
	var (
		verbose bool
		hold    time.Duration
		once    bool
	)
	fs := pflag.NewFlagSet("matrix", pflag.ContinueOnError)
	fs.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	fs.DurationVar(&hold, "hold", 2*time.Second, "how long each pattern is shown")
	fs.BoolVar(&once, "once", false, "stop after one pass through the patterns")
	hub75.RegisterFlags(fs, &cfg.Matrix, &cfg.Runtime)
	if err := fs.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}
	slog.SetDefault(logging.New(logging.Level(verbose, cfg.Runtime.Emulator)))

	ctx, stop := signal.NotifyContext(context.Background(), unix.SIGINT, unix.SIGTERM)
	defer stop()

	matrix, err := hub75.New(cfg.Matrix, cfg.Runtime)
	if err != nil {
		return fmt.Errorf("failed to create matrix: %w", err)
	}
	defer matrix.Close()
	defer matrix.Clear()

	canvas := matrix.CreateFrameCanvas()
	for pass := 0; ; pass++ {
		for _, p := range patterns {
			slog.Info("showing pattern", "pattern", p.name, "pass", pass)
			deadline := time.Now().Add(hold)
			for frame := 0; time.Now().Before(deadline); frame++ {
				if ctx.Err() != nil {
					return nil
				}
				p.draw(canvas, frame)
				canvas = matrix.SwapOnVSync(canvas)
			}
		}
		if once {
			slog.Info("test completed", "frames", matrix.Frames())
			return nil
		}
	}
}
