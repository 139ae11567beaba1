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

// Package canvas defines the drawing interface scenes are written against,
// together with raster implementations of it.
//
// [ColorCanvas] paints into an RGBA image, [CounterCanvas] counts how often
// each pixel was drawn, and [NWay] forwards every call to a list of other
// canvases.  All coordinates use a top-left origin with y pointing down.
package canvas

import (
	"image/color"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/pdf/graphics"

	"seehuhn.de/go/overdraw/raster"
)

// Canvas is the set of drawing operations a scene may use.
//
// Save and Restore bracket changes to the transformation and the clip
// rectangle.  Every call of Fill, Stroke, DrawText or DrawPaint is one draw
// operation.
type Canvas interface {
	Save()
	Restore()

	// Transform prepends m to the current transformation, so that m is
	// applied to user coordinates first.
	Transform(m matrix.Matrix)

	// ClipRect intersects the clip region with the device-space bounding
	// box of r.
	ClipRect(r rect.Rect)

	Fill(p *path.Data, rule FillRule, paint Paint)
	Stroke(p *path.Data, style StrokeStyle, paint Paint)

	// DrawText fills the outlines of s, with the baseline starting at
	// (x, y).
	DrawText(s string, x, y float64, face *Face, paint Paint)

	// DrawPaint fills the whole clip region.
	DrawPaint(paint Paint)
}

// FillRule selects how overlapping subpaths are filled.
type FillRule = raster.FillRule

const (
	NonZero = raster.NonZero
	EvenOdd = raster.EvenOdd
)

// Paint describes how a draw operation colours the pixels it covers.
type Paint struct {
	// Color is composited source-over.  Nil means opaque black.
	Color color.Color
}

// rgba returns the premultiplied 16-bit components of the paint colour.
func (p Paint) rgba() (r, g, b, a uint32) {
	if p.Color == nil {
		return 0, 0, 0, 0xffff
	}
	return p.Color.RGBA()
}

// StrokeStyle holds the parameters of a stroke operation.  The zero value
// strokes one unit wide lines with butt caps and miter joins.
type StrokeStyle struct {
	Width      float64
	Cap        graphics.LineCapStyle
	Join       graphics.LineJoinStyle
	MiterLimit float64
}

// Translate returns the transformation which moves the origin to (x, y).
func Translate(x, y float64) matrix.Matrix {
	return matrix.Identity.Translate(x, y)
}
