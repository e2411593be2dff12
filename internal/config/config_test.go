package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Matrix.Rows != 32 || cfg.Matrix.ChainLength != 2 || cfg.Matrix.Brightness != 70 {
		t.Errorf("geometry = rows %d chain %d brightness %d, want 32 2 70",
			cfg.Matrix.Rows, cfg.Matrix.ChainLength, cfg.Matrix.Brightness)
	}
	if cfg.Matrix.HardwareMapping != "regular-pi1" {
		t.Errorf("mapping = %q, want regular-pi1", cfg.Matrix.HardwareMapping)
	}
	if cfg.Runtime.GPIOSlowdown != 0 {
		t.Errorf("slowdown = %d, want 0", cfg.Runtime.GPIOSlowdown)
	}
	if cfg.Font != FontPath {
		t.Errorf("font = %q, want %q", cfg.Font, FontPath)
	}
	if cfg.Splash != 0 || cfg.Chime {
		t.Error("splash and chime should be off by default")
	}
	if err := cfg.Matrix.Validate(); err != nil {
		t.Errorf("default matrix options invalid: %v", err)
	}
}

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
		check   func(t *testing.T, cfg *Config)
	}{
		{
			name: "empty object keeps defaults",
			body: `{}`,
			check: func(t *testing.T, cfg *Config) {
				if cfg.Matrix.ChainLength != 2 || cfg.Matrix.Cols != 32 {
					t.Errorf("chain %d cols %d, want 2 32", cfg.Matrix.ChainLength, cfg.Matrix.Cols)
				}
			},
		},
		{
			name: "partial override",
			body: `{"matrix": {"brightness": 40, "chain_length": 1}, "splash": "1500ms", "chime": true}`,
			check: func(t *testing.T, cfg *Config) {
				if cfg.Matrix.Brightness != 40 || cfg.Matrix.ChainLength != 1 {
					t.Errorf("brightness %d chain %d, want 40 1", cfg.Matrix.Brightness, cfg.Matrix.ChainLength)
				}
				if cfg.Matrix.HardwareMapping != "regular-pi1" {
					t.Errorf("mapping = %q, want the default kept", cfg.Matrix.HardwareMapping)
				}
				if time.Duration(cfg.Splash) != 1500*time.Millisecond || !cfg.Chime {
					t.Errorf("splash %v chime %v", time.Duration(cfg.Splash), cfg.Chime)
				}
			},
		},
		{
			name: "runtime",
			body: `{"runtime": {"gpio_slowdown": 3, "emulator": true}}`,
			check: func(t *testing.T, cfg *Config) {
				if cfg.Runtime.GPIOSlowdown != 3 || !cfg.Runtime.Emulator {
					t.Errorf("runtime = %+v", cfg.Runtime)
				}
				if cfg.Runtime.GPIOChip != "gpiochip0" {
					t.Errorf("gpio chip = %q, want default", cfg.Runtime.GPIOChip)
				}
			},
		},
		{name: "bad json", body: `{"matrix":`, wantErr: true},
		{name: "unknown field", body: `{"colour": "red"}`, wantErr: true},
		{name: "bad duration", body: `{"splash": "soon"}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.json")
			if err := os.WriteFile(path, []byte(tt.body), 0o644); err != nil {
				t.Fatalf("WriteFile() error = %v", err)
			}
			cfg, err := LoadConfig(path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("LoadConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestLoadConfigMissing(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("LoadConfig() of a missing file succeeded")
	}
}

func TestDurationRoundTrip(t *testing.T) {
	b, err := Duration(2 * time.Second).MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}
	if string(b) != `"2s"` {
		t.Errorf("MarshalJSON() = %s, want \"2s\"", b)
	}
}
