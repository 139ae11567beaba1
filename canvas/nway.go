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
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
)

// NWay is a Canvas which forwards every call, with unchanged arguments, to
// each of its sinks in the order they were added.
type NWay struct {
	sinks []Canvas
}

var _ Canvas = (*NWay)(nil)

// NewNWay returns a recorder forwarding to the given canvases.
func NewNWay(sinks ...Canvas) *NWay {
	return &NWay{sinks: sinks}
}

func (n *NWay) Save() {
	for _, c := range n.sinks {
		c.Save()
	}
}

func (n *NWay) Restore() {
	for _, c := range n.sinks {
		c.Restore()
	}
}

func (n *NWay) Transform(m matrix.Matrix) {
	for _, c := range n.sinks {
		c.Transform(m)
	}
}

func (n *NWay) ClipRect(r rect.Rect) {
	for _, c := range n.sinks {
		c.ClipRect(r)
	}
}

func (n *NWay) Fill(p *path.Data, rule FillRule, paint Paint) {
	for _, c := range n.sinks {
		c.Fill(p, rule, paint)
	}
}

func (n *NWay) Stroke(p *path.Data, style StrokeStyle, paint Paint) {
	for _, c := range n.sinks {
		c.Stroke(p, style, paint)
	}
}

func (n *NWay) DrawText(s string, x, y float64, face *Face, paint Paint) {
	for _, c := range n.sinks {
		c.DrawText(s, x, y, face, paint)
	}
}

func (n *NWay) DrawPaint(paint Paint) {
	for _, c := range n.sinks {
		c.DrawPaint(paint)
	}
}
