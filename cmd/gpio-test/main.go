package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/pflag"
	"golang.org/x/sys/unix"

	"github.com/danielesteban/clock/internal/logging"
	"github.com/danielesteban/clock/pkg/gpio"
	"github.com/danielesteban/clock/pkg/hub75"
)

// Walks a high level across every pin of a hardware mapping, one at a time,
// so the wiring can be followed with a multimeter or an LED.
func main() {
	if err := run(os.Args[1:]); err != nil {
		slog.Error("gpio test failed", "err", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var (
		mapping = "regular-pi1"
		chip    = "gpiochip0"
		hold    = time.Second
		verbose bool
	)
	fs := pflag.NewFlagSet("gpio-test", pflag.ContinueOnError)
	fs.StringVar(&mapping, "led-gpio-mapping", mapping, "hardware mapping to walk")
	fs.StringVar(&chip, "led-gpio-chip", chip, "GPIO character device")
	fs.DurationVar(&hold, "hold", hold, "how long each pin stays high")
	fs.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	if err := fs.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}
	slog.SetDefault(logging.New(logging.Level(verbose, false)))

	m, err := hub75.LookupMapping(mapping)
	if err != nil {
		return err
	}
	signals := m.Signals()
	offsets := make([]int, len(signals))
	for i, s := range signals {
		offsets[i] = s.Pin
	}

	bus, err := gpio.Open(chip, offsets, "gpio-test", 0)
	if err != nil {
		return err
	}
	defer bus.Close()

	ctx, stop := signal.NotifyContext(context.Background(), unix.SIGINT, unix.SIGTERM)
	defer stop()

	slog.Info("walking pins", "mapping", m.Name, "chip", chip, "pins", len(signals))
	return walk(ctx, bus, signals, hold)
}

// walk raises each signal in turn until ctx is done.
func walk(ctx context.Context, bus *gpio.Bus, signals []hub75.Signal, hold time.Duration) error {
	ticker := time.NewTicker(hold)
	defer ticker.Stop()

	for i := 0; ; i = (i + 1) % len(signals) {
		s := signals[i]
		bus.Reset()
		bus.Set(s.Pin, 1)
		if err := bus.Flush(); err != nil {
			return fmt.Errorf("failed to raise %s: %w", s.Name, err)
		}
		slog.Info("pin high", "signal", s.Name, "gpio", s.Pin)

		select {
		case <-ctx.Done():
			bus.Reset()
			return bus.Flush()
		case <-ticker.C:
		}
	}
}
