package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"time"

	"github.com/spf13/pflag"
	"golang.org/x/sys/unix"

	"github.com/danielesteban/clock/internal/chime"
	"github.com/danielesteban/clock/internal/config"
	"github.com/danielesteban/clock/internal/display"
	"github.com/danielesteban/clock/internal/logging"
	"github.com/danielesteban/clock/internal/splash"
	"github.com/danielesteban/clock/internal/types"
	"github.com/danielesteban/clock/pkg/graphics"
	"github.com/danielesteban/clock/pkg/hub75"
)

// interrupted is set by SIGINT or SIGTERM and never reset.
var interrupted atomic.Bool

// panel is the display the clock draws on
type panel interface {
	types.Surface
	ApplyStaticTransformer(t hub75.Transformer)
	Clear()
	Close() error
}

// openPanel starts the matrix driver
var openPanel = func(o hub75.Options, r hub75.RuntimeOptions) (panel, error) {
	m, err := hub75.New(o, r)
	if err != nil {
		return nil, err
	}
	return display.NewMatrixSurface(m), nil
}

func main() {
	if err := run(os.Args[1:], &interrupted); err != nil {
		slog.Error("clock failed", "err", err)
		os.Exit(1)
	}
}

// run drives the clock until stop is set. The panel is cleared and closed on
// every path once it has been opened.
func run(args []string, stop *atomic.Bool) error {
	cfg, verbose, err := parseFlags(args)
	if errors.Is(err, pflag.ErrHelp) {
		return nil
	}
	if err != nil {
		return err
	}
	slog.SetDefault(logging.New(logging.Level(verbose, cfg.Runtime.Emulator)))

	matrix, err := openPanel(cfg.Matrix, cfg.Runtime)
	if err != nil {
		return fmt.Errorf("failed to create matrix: %w", err)
	}
	defer func() {
		matrix.Clear()
		if err := matrix.Close(); err != nil {
			slog.Warn("failed to close matrix", "err", err)
		}
	}()
	matrix.ApplyStaticTransformer(hub75.RotateTransformer(180))

	font, err := graphics.LoadFont(cfg.Font)
	if err != nil {
		return fmt.Errorf("couldn't load font: %w", err)
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, unix.SIGINT, unix.SIGTERM)
	defer signal.Stop(sigs)
	go func() {
		for sig := range sigs {
			slog.Debug("signal received", "signal", sig)
			stop.Store(true)
		}
	}()

	clock := display.SystemClock{}

	if d := time.Duration(cfg.Splash); d > 0 {
		if _, err := splash.Show(matrix, clock, stop, d); err != nil {
			slog.Warn("failed to show splash", "err", err)
		}
	}

	renderer := display.NewRenderer(matrix, font, clock)
	if cfg.Chime {
		ch := chime.New(1)
		if err := ch.Init(); err != nil {
			slog.Warn("chime disabled", "err", err)
		} else {
			defer ch.Close()
			renderer.SetChimer(ch)
		}
	}

	frames := renderer.Run(stop)
	slog.Debug("shutting down", "frames", frames)
	return nil
}

// parseFlags reads --config first so the file sits between the defaults
// and the remaining flags.
func parseFlags(args []string) (*config.Config, bool, error) {
	pre := pflag.NewFlagSet("clock", pflag.ContinueOnError)
	pre.ParseErrorsWhitelist.UnknownFlags = true
	pre.Usage = func() {}
	configPath := pre.String("config", "", "path to a JSON config file")
	pre.BoolP("help", "h", false, "")
	// Errors here are reported by the full parse below.
	_ = pre.Parse(args)

	cfg := config.DefaultConfig()
	if *configPath != "" {
		loaded, err := config.LoadConfig(*configPath)
		if err != nil {
			return nil, false, err
		}
		cfg = loaded
	}

	var verbose bool
	fs := pflag.NewFlagSet("clock", pflag.ContinueOnError)
	fs.String("config", *configPath, "path to a JSON config file")
	fs.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	fs.StringVar(&cfg.Font, "font", cfg.Font, "path to the BDF font")
	fs.DurationVar((*time.Duration)(&cfg.Splash), "splash", time.Duration(cfg.Splash), "show a clock face for this long before starting")
	fs.BoolVar(&cfg.Chime, "chime", cfg.Chime, "strike the hour on the default audio device")
	hub75.RegisterFlags(fs, &cfg.Matrix, &cfg.Runtime)

	if err := fs.Parse(args); err != nil {
		return nil, false, err
	}
	return cfg, verbose, nil
}
