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

// Package overdraw visualises how often each pixel of a frame is drawn.
//
// A [Scene] is rendered twice in one pass: into a colour surface, the way
// it would normally appear, and into a counter surface which records the
// number of draw operations touching each pixel.  The shader in package
// shader then combines both into the displayed frame.  Pixels drawn once
// appear as gray levels, pixels drawn more often in a warning colour, and
// pixels never drawn stay transparent.
//
// Typical use:
//
//	p, err := overdraw.NewPipeline(overdraw.DefaultConfig())
//	...
//	stats, err := p.RenderFrame(dst, image.Pt(640, 480), scene)
package overdraw

import (
	"image"

	"seehuhn.de/go/overdraw/canvas"
)

// Scene produces the draw operations of a frame.  Render must issue the
// same operations for both surfaces, so it may only draw through c.
type Scene interface {
	Render(c canvas.Canvas, size image.Point)
}

// SceneFunc adapts an ordinary function to the Scene interface.
type SceneFunc func(c canvas.Canvas, size image.Point)

// Render calls f(c, size).
func (f SceneFunc) Render(c canvas.Canvas, size image.Point) {
	f(c, size)
}
