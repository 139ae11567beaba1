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

// Package shader classifies the pixels of a rendered frame by how often
// they were drawn.
//
// Each pixel is mapped to one of three outcomes: transparent if nothing
// visible was drawn, a gray level if it was drawn fewer than
// Params.Threshold times, and a flat warning colour otherwise.
//
// The classification exists twice: as a WGSL fragment shader, compiled to
// SPIR-V for GPU back-ends, and as a CPU kernel used by [Program.Run].
// Both are generated from the same Params.
package shader

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// DefaultThreshold is the counter value from which a pixel counts as
// overdrawn.
const DefaultThreshold = 2

// DefaultWarningColor marks overdrawn pixels.
var DefaultWarningColor = color.RGBA{R: 0xff, A: 0xff}

// Params configures the classification.
type Params struct {
	// WarningColor is shown, fully opaque, for overdrawn pixels.
	WarningColor color.RGBA

	// Threshold is the smallest counter value shown in WarningColor.
	// Must be at least 1.
	Threshold uint8
}

// DefaultParams returns red warnings from two draws on.
func DefaultParams() Params {
	return Params{
		WarningColor: DefaultWarningColor,
		Threshold:    DefaultThreshold,
	}
}

// ErrInvalidThreshold is returned by Params.Validate for a zero threshold.
var ErrInvalidThreshold = errors.New("shader: threshold must be at least 1")

// Validate checks that p can be used for classification.
func (p Params) Validate() error {
	if p.Threshold < 1 {
		return fmt.Errorf("%w (got %d)", ErrInvalidThreshold, p.Threshold)
	}
	return nil
}

// Inputs are the two surfaces of one frame.  Both images must have the
// same size.
type Inputs struct {
	Color   *image.RGBA
	Counter *image.Alpha
}

// Classify maps one colour pixel and its draw count to the displayed
// colour.
func Classify(c color.RGBA, count uint8, p Params) color.RGBA {
	if c.A == 0 {
		return color.RGBA{}
	}
	if count < p.Threshold {
		g := uint8((uint32(c.R) + uint32(c.G) + uint32(c.B) + 1) / 3)
		return color.RGBA{R: g, G: g, B: g, A: 0xff}
	}
	w := p.WarningColor
	w.A = 0xff
	return w
}

// Stats counts the pixels of a frame per outcome.
type Stats struct {
	Transparent int
	Single      int // drawn fewer than Threshold times
	Overdraw    int
}

// Total returns the number of classified pixels.
func (s Stats) Total() int {
	return s.Transparent + s.Single + s.Overdraw
}

func (s Stats) String() string {
	return fmt.Sprintf("%d transparent, %d single, %d overdraw",
		s.Transparent, s.Single, s.Overdraw)
}
