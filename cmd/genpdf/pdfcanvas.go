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

package main

import (
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/document"
	"seehuhn.de/go/pdf/graphics/color"

	"seehuhn.de/go/overdraw/canvas"
)

// pdfCanvas writes draw operations to a PDF page.  Every operation is
// painted in the gray level the overdraw view shows for pixels drawn
// once.
type pdfCanvas struct {
	page *document.Page
	w, h float64

	ctm   matrix.Matrix // relative to the top-left origin
	saved []matrix.Matrix
}

var _ canvas.Canvas = (*pdfCanvas)(nil)

func newPDFCanvas(page *document.Page, w, h float64) *pdfCanvas {
	// PDF origin is bottom-left; scenes assume top-left.
	page.Transform(matrix.Matrix{1, 0, 0, -1, 0, h})
	return &pdfCanvas{page: page, w: w, h: h, ctm: matrix.Identity}
}

func (c *pdfCanvas) Save() {
	c.page.PushGraphicsState()
	c.saved = append(c.saved, c.ctm)
}

func (c *pdfCanvas) Restore() {
	n := len(c.saved)
	if n == 0 {
		return
	}
	c.page.PopGraphicsState()
	c.ctm = c.saved[n-1]
	c.saved = c.saved[:n-1]
}

func (c *pdfCanvas) Transform(m matrix.Matrix) {
	c.page.Transform(m)
	c.ctm = matrix.Matrix{
		m[0]*c.ctm[0] + m[1]*c.ctm[2],
		m[0]*c.ctm[1] + m[1]*c.ctm[3],
		m[2]*c.ctm[0] + m[3]*c.ctm[2],
		m[2]*c.ctm[1] + m[3]*c.ctm[3],
		m[4]*c.ctm[0] + m[5]*c.ctm[2] + c.ctm[4],
		m[4]*c.ctm[1] + m[5]*c.ctm[3] + c.ctm[5],
	}
}

// ClipRect clips to r itself.  Under rotations this is tighter than the
// device-space bounding box used by the raster canvases.
func (c *pdfCanvas) ClipRect(r rect.Rect) {
	c.page.Rectangle(r.LLx, r.LLy, r.URx-r.LLx, r.URy-r.LLy)
	c.page.ClipNonZero()
	c.page.EndPath()
}

func (c *pdfCanvas) Fill(p *path.Data, rule canvas.FillRule, paint canvas.Paint) {
	c.setGray(paint)
	c.appendPath(p)
	if rule == canvas.EvenOdd {
		c.page.FillEvenOdd()
	} else {
		c.page.Fill()
	}
}

func (c *pdfCanvas) Stroke(p *path.Data, style canvas.StrokeStyle, paint canvas.Paint) {
	c.setGray(paint)
	width := style.Width
	if width <= 0 {
		width = 1
	}
	miter := style.MiterLimit
	if miter < 1 {
		miter = 10
	}
	c.page.SetLineWidth(width)
	c.page.SetLineCap(style.Cap)
	c.page.SetLineJoin(style.Join)
	c.page.SetMiterLimit(miter)
	c.appendPath(p)
	c.page.Stroke()
}

// DrawText fills the glyph outlines, so that the PDF does not depend on
// font embedding.
func (c *pdfCanvas) DrawText(s string, x, y float64, face *canvas.Face, paint canvas.Paint) {
	if face == nil {
		return
	}
	c.Fill(face.AppendText(&path.Data{}, s, x, y), canvas.NonZero, paint)
}

func (c *pdfCanvas) DrawPaint(paint canvas.Paint) {
	inv, ok := invert(c.ctm)
	if !ok {
		return
	}
	p := &path.Data{}
	for i, corner := range [4][2]float64{{0, 0}, {c.w, 0}, {c.w, c.h}, {0, c.h}} {
		q := apply(inv, corner[0], corner[1])
		if i == 0 {
			p.MoveTo(q)
		} else {
			p.LineTo(q)
		}
	}
	c.Fill(p.Close(), canvas.NonZero, paint)
}

func (c *pdfCanvas) setGray(paint canvas.Paint) {
	var r, g, b uint32 // nil is black
	if paint.Color != nil {
		r, g, b, _ = paint.Color.RGBA()
	}
	gray := float64(r+g+b) / (3 * 0xffff)
	c.page.SetFillColor(color.DeviceGray(gray))
	c.page.SetStrokeColor(color.DeviceGray(gray))
}

// appendPath adds p to the current PDF path, converting quadratic
// segments to cubic ones.
func (c *pdfCanvas) appendPath(p *path.Data) {
	for cmd, pts := range p.Iter().ToCubic() {
		switch cmd {
		case path.CmdMoveTo:
			c.page.MoveTo(pts[0].X, pts[0].Y)
		case path.CmdLineTo:
			c.page.LineTo(pts[0].X, pts[0].Y)
		case path.CmdCubeTo:
			c.page.CurveTo(pts[0].X, pts[0].Y, pts[1].X, pts[1].Y, pts[2].X, pts[2].Y)
		case path.CmdClose:
			c.page.ClosePath()
		}
	}
}

func apply(m matrix.Matrix, x, y float64) vec.Vec2 {
	return vec.Vec2{
		X: m[0]*x + m[2]*y + m[4],
		Y: m[1]*x + m[3]*y + m[5],
	}
}

func invert(m matrix.Matrix) (matrix.Matrix, bool) {
	det := m[0]*m[3] - m[1]*m[2]
	if det == 0 {
		return matrix.Matrix{}, false
	}
	a, b := m[3]/det, -m[1]/det
	c, d := -m[2]/det, m[0]/det
	return matrix.Matrix{
		a, b,
		c, d,
		-(m[4]*a + m[5]*c),
		-(m[4]*b + m[5]*d),
	}, true
}
