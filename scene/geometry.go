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

package scene

import (
	"math"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
)

func pt(x, y float64) vec.Vec2 {
	return vec.Vec2{X: x, Y: y}
}

// rectangle builds a rectangular path.
func rectangle(x1, y1, x2, y2 float64) *path.Data {
	return (&path.Data{}).
		MoveTo(pt(x1, y1)).
		LineTo(pt(x2, y1)).
		LineTo(pt(x2, y2)).
		LineTo(pt(x1, y2)).
		Close()
}

// fivePointStar builds a self-intersecting five-pointed star.
func fivePointStar(cx, cy, r float64) *path.Data {
	var pts [5]vec.Vec2
	for i := range pts {
		angle := float64(i)*2*math.Pi/5 - math.Pi/2
		pts[i] = pt(cx+r*math.Cos(angle), cy+r*math.Sin(angle))
	}

	p := (&path.Data{}).MoveTo(pts[0])
	for _, i := range []int{2, 4, 1, 3} {
		p.LineTo(pts[i])
	}
	return p.Close()
}

// appendCircle adds a circle made of four cubic Bézier arcs.
func appendCircle(p *path.Data, cx, cy, r float64) *path.Data {
	const k = 0.5522847498
	kr := k * r
	return p.MoveTo(pt(cx+r, cy)).
		CubeTo(pt(cx+r, cy+kr), pt(cx+kr, cy+r), pt(cx, cy+r)).
		CubeTo(pt(cx-kr, cy+r), pt(cx-r, cy+kr), pt(cx-r, cy)).
		CubeTo(pt(cx-r, cy-kr), pt(cx-kr, cy-r), pt(cx, cy-r)).
		CubeTo(pt(cx+kr, cy-r), pt(cx+r, cy-kr), pt(cx+r, cy)).
		Close()
}
