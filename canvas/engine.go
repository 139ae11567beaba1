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

package canvas

import (
	"image"
	"math"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/overdraw/raster"
)

// spanWriter receives the coverage of one draw operation, one scanline
// at a time.  Within a single operation every pixel is reported at most
// once.
type spanWriter interface {
	writeSpan(y, xMin int, coverage []float32, paint Paint)
}

// engine turns Canvas calls into spans for a spanWriter.  It is shared by
// the raster canvases.
type engine struct {
	stateStack

	r       *raster.Rasterizer
	out     spanWriter
	scratch path.Data
}

func newEngine(bounds image.Rectangle, out spanWriter) *engine {
	clip := rect.Rect{
		LLx: float64(bounds.Min.X),
		LLy: float64(bounds.Min.Y),
		URx: float64(bounds.Max.X),
		URy: float64(bounds.Max.Y),
	}
	e := &engine{
		r:   raster.NewRasterizer(clip),
		out: out,
	}
	e.init(clip)
	return e
}

// prepare loads the current state into the rasterizer.  It returns false
// if the operation cannot touch any pixel.
func (e *engine) prepare(ctm matrix.Matrix) bool {
	if e.clipEmpty() {
		return false
	}
	if det := ctm[0]*ctm[3] - ctm[1]*ctm[2]; det == 0 || math.IsNaN(det) {
		return false
	}
	e.r.Reset(e.cur.clip)
	e.r.CTM = ctm
	return true
}

func (e *engine) emitter(paint Paint) raster.EmitFunc {
	return func(y, xMin int, coverage []float32) {
		e.out.writeSpan(y, xMin, coverage, paint)
	}
}

func (e *engine) Fill(p *path.Data, rule FillRule, paint Paint) {
	if p == nil || !e.prepare(e.cur.ctm) {
		return
	}
	e.r.Fill(p, rule, e.emitter(paint))
}

func (e *engine) Stroke(p *path.Data, style StrokeStyle, paint Paint) {
	if p == nil || !e.prepare(e.cur.ctm) {
		return
	}
	if style.Width > 0 {
		e.r.Width = style.Width
	}
	e.r.Cap = style.Cap
	e.r.Join = style.Join
	if style.MiterLimit >= 1 {
		e.r.MiterLimit = style.MiterLimit
	}
	e.r.Stroke(p, e.emitter(paint))
}

func (e *engine) DrawText(s string, x, y float64, face *Face, paint Paint) {
	if face == nil || s == "" || !e.prepare(e.cur.ctm) {
		return
	}
	e.scratch.Cmds = e.scratch.Cmds[:0]
	e.scratch.Coords = e.scratch.Coords[:0]
	face.AppendText(&e.scratch, s, x, y)
	e.r.Fill(&e.scratch, NonZero, e.emitter(paint))
}

func (e *engine) DrawPaint(paint Paint) {
	if !e.prepare(matrix.Identity) {
		return
	}
	c := e.cur.clip
	e.scratch.Cmds = e.scratch.Cmds[:0]
	e.scratch.Coords = e.scratch.Coords[:0]
	e.scratch.MoveTo(pt(c.LLx, c.LLy)).
		LineTo(pt(c.URx, c.LLy)).
		LineTo(pt(c.URx, c.URy)).
		LineTo(pt(c.LLx, c.URy)).
		Close()
	e.r.Fill(&e.scratch, NonZero, e.emitter(paint))
}

func pt(x, y float64) vec.Vec2 {
	return vec.Vec2{X: x, Y: y}
}
