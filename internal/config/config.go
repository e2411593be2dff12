package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/danielesteban/clock/pkg/hub75"
)

// FontPath is where the clock looks for its font, relative to the working
// directory.
const FontPath = "matrix/fonts/7x14B.bdf"

// Duration is a time.Duration that reads and writes as a string such as "2s".
type Duration time.Duration

// MarshalJSON implements json.Marshaler
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// UnmarshalJSON implements json.Unmarshaler
func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("failed to parse duration: %w", err)
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("failed to parse duration: %w", err)
	}
	*d = Duration(v)
	return nil
}

// Config represents the application configuration
type Config struct {
	Matrix  hub75.Options        `json:"matrix"`
	Runtime hub75.RuntimeOptions `json:"runtime"`
	Font    string               `json:"font"`
	Splash  Duration             `json:"splash"`
	Chime   bool                 `json:"chime"`
}

// LoadConfig loads the configuration from a file over the defaults
func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	config := DefaultConfig()
	dec := json.NewDecoder(file)
	dec.DisallowUnknownFields()
	if err := dec.Decode(config); err != nil {
		return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
	}

	return config, nil
}

// DefaultConfig returns the default configuration: two chained 32 row
// panels on the regular-pi1 mapping at 70% brightness.
func DefaultConfig() *Config {
	matrix := hub75.DefaultOptions()
	matrix.HardwareMapping = "regular-pi1"
	matrix.Rows = 32
	matrix.ChainLength = 2
	matrix.Brightness = 70

	runtime := hub75.DefaultRuntimeOptions()
	runtime.GPIOSlowdown = 0

	return &Config{
		Matrix:  matrix,
		Runtime: runtime,
		Font:    FontPath,
	}
}
