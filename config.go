// seehuhn.de/go/overdraw - visualise overdraw of 2D scenes
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package overdraw

import (
	"errors"
	"fmt"
	"image/color"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/lucasb-eyer/go-colorful"

	"seehuhn.de/go/overdraw/canvas"
	"seehuhn.de/go/overdraw/shader"
)

// DefaultMaxDimension limits the width and height of a frame.
const DefaultMaxDimension = 16384

// ErrInvalidConfig is wrapped by all configuration errors.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds the settings of a [Pipeline].  The TOML form is
//
//	max_dimension = 16384
//
//	[shader]
//	threshold = 2
//	warning_color = "#ff0000"
//
//	[counter]
//	min_coverage = 0.5
type Config struct {
	MaxDimension int           `toml:"max_dimension"`
	Shader       ShaderConfig  `toml:"shader"`
	Counter      CounterConfig `toml:"counter"`
}

// ShaderConfig selects how pixels are classified.
type ShaderConfig struct {
	// Threshold is the draw count from which a pixel is shown in the
	// warning colour.
	Threshold int `toml:"threshold"`

	// WarningColor is a hex colour, "#rrggbb" or "#rgb".
	WarningColor string `toml:"warning_color"`
}

// CounterConfig controls the counter surface.
type CounterConfig struct {
	// MinCoverage is the anti-aliasing coverage from which a pixel
	// counts as drawn.
	MinCoverage float64 `toml:"min_coverage"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	return Config{
		MaxDimension: DefaultMaxDimension,
		Shader: ShaderConfig{
			Threshold:    shader.DefaultThreshold,
			WarningColor: "#ff0000",
		},
		Counter: CounterConfig{
			MinCoverage: canvas.DefaultMinCoverage,
		},
	}
}

// ParseConfig reads a TOML configuration.  Missing keys keep their
// default values, unknown keys are an error.
func ParseConfig(data string) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.Decode(data, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return cfg, cfg.check(md)
}

// LoadConfig reads a TOML configuration file.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, path, err)
	}
	if err := cfg.check(md); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) check(md toml.MetaData) error {
	if keys := md.Undecoded(); len(keys) > 0 {
		names := make([]string, len(keys))
		for i, k := range keys {
			names[i] = k.String()
		}
		return fmt.Errorf("%w: unknown keys %s", ErrInvalidConfig, strings.Join(names, ", "))
	}
	return c.Validate()
}

// Validate checks that all values are in range.
func (c Config) Validate() error {
	if c.MaxDimension < 1 {
		return fmt.Errorf("%w: max_dimension must be positive (got %d)", ErrInvalidConfig, c.MaxDimension)
	}
	if c.Shader.Threshold < 1 || c.Shader.Threshold > 255 {
		return fmt.Errorf("%w: shader.threshold must be in 1..255 (got %d)", ErrInvalidConfig, c.Shader.Threshold)
	}
	if _, err := parseHex(c.Shader.WarningColor); err != nil {
		return fmt.Errorf("%w: shader.warning_color: %w", ErrInvalidConfig, err)
	}
	if !(c.Counter.MinCoverage > 0 && c.Counter.MinCoverage <= 1) {
		return fmt.Errorf("%w: counter.min_coverage must be in (0, 1] (got %g)", ErrInvalidConfig, c.Counter.MinCoverage)
	}
	return nil
}

// ShaderParams returns the classification parameters.
func (c Config) ShaderParams() (shader.Params, error) {
	if err := c.Validate(); err != nil {
		return shader.Params{}, err
	}
	col, _ := parseHex(c.Shader.WarningColor)
	r, g, b := col.RGB255()
	return shader.Params{
		WarningColor: color.RGBA{R: r, G: g, B: b, A: 0xff},
		Threshold:    uint8(c.Shader.Threshold),
	}, nil
}

func parseHex(s string) (colorful.Color, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	return colorful.Hex(s)
}
