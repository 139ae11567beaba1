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

package raster

import (
	"math"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"
)

// Stroke rasterizes the outline of p using Width, Cap, Join and
// MiterLimit.
//
// The outline is assembled from one quadrilateral per segment plus join
// and cap pieces, all with the same orientation, and filled in a single
// pass with the nonzero rule.  Pixels where pieces overlap are therefore
// reported once, with coverage at most 1.
func (r *Rasterizer) Stroke(p *path.Data, emit EmitFunc) {
	r.flattenSubpaths(p)

	r.polys = r.polys[:0]
	r.polyStart = r.polyStart[:0]
	d := r.Width / 2

	if r.Cap == graphics.LineCapRound {
		for _, pt := range r.dots {
			r.addCircle(pt, d)
		}
	}
	for i := range r.lineStart {
		r.strokeLine(r.subpath(i), r.lineClosed[i], d)
	}

	r.beginEdges()
	for i, start := range r.polyStart {
		end := len(r.polys)
		if i+1 < len(r.polyStart) {
			end = r.polyStart[i+1]
		}
		poly := r.polys[start:end]
		for j := range poly {
			r.addEdge(poly[j], poly[(j+1)%len(poly)])
		}
	}
	r.scan(NonZero, emit)
}

// subpath returns the vertices of flattened subpath i.
func (r *Rasterizer) subpath(i int) []vec.Vec2 {
	end := len(r.lines)
	if i+1 < len(r.lineStart) {
		end = r.lineStart[i+1]
	}
	return r.lines[r.lineStart[i]:end]
}

// flattenSubpaths splits p into polylines in user space.  Subpaths which
// collapse to a single point are collected in r.dots.
func (r *Rasterizer) flattenSubpaths(p *path.Data) {
	r.lines = r.lines[:0]
	r.lineStart = r.lineStart[:0]
	r.lineClosed = r.lineClosed[:0]
	r.dots = r.dots[:0]

	start := -1 // index of the current subpath in r.lines, -1 if none
	drawn := false
	var first vec.Vec2

	finish := func(closed bool) {
		if start < 0 {
			return
		}
		pts := r.lines[start:]
		if closed && len(pts) > 1 && dist(pts[0], pts[len(pts)-1]) < zeroLengthThreshold {
			pts = pts[:len(pts)-1]
			r.lines = r.lines[:start+len(pts)]
		}
		switch {
		case len(pts) > 1:
			r.lineStart = append(r.lineStart, start)
			r.lineClosed = append(r.lineClosed, closed)
		case drawn:
			r.dots = append(r.dots, pts[0])
			r.lines = r.lines[:start]
		default:
			r.lines = r.lines[:start]
		}
		start = -1
		drawn = false
	}
	lineTo := func(_, b vec.Vec2) {
		if start < 0 {
			start = len(r.lines)
			r.lines = append(r.lines, first)
		}
		drawn = true
		if dist(r.lines[len(r.lines)-1], b) >= zeroLengthThreshold {
			r.lines = append(r.lines, b)
		}
	}
	current := func() vec.Vec2 {
		if start < 0 {
			return first
		}
		return r.lines[len(r.lines)-1]
	}

	k := 0
	for _, cmd := range p.Cmds {
		switch cmd {
		case path.CmdMoveTo:
			finish(false)
			first = p.Coords[k]
			start = len(r.lines)
			r.lines = append(r.lines, first)
			k++
		case path.CmdLineTo:
			lineTo(current(), p.Coords[k])
			k++
		case path.CmdQuadTo:
			r.flattenQuadratic(current(), p.Coords[k], p.Coords[k+1], lineTo)
			k += 2
		case path.CmdCubeTo:
			r.flattenCubic(current(), p.Coords[k], p.Coords[k+1], p.Coords[k+2], lineTo)
			k += 3
		case path.CmdClose:
			if start >= 0 {
				drawn = true
			}
			finish(true)
			// a following segment starts a new subpath at the same point
		}
	}
	finish(false)
}

// strokeLine adds the outline pieces of one polyline with at least two
// distinct vertices.
func (r *Rasterizer) strokeLine(pts []vec.Vec2, closed bool, d float64) {
	n := len(pts)
	segs := n - 1
	if closed {
		segs = n
	}

	tangent := func(i int) vec.Vec2 {
		v := pts[(i+1)%n].Sub(pts[i])
		return v.Mul(1 / v.Length())
	}

	for i := range segs {
		a, b := pts[i], pts[(i+1)%n]
		t := tangent(i)
		nv := normal(t).Mul(d)
		r.addPoly(a.Add(nv), b.Add(nv), b.Sub(nv), a.Sub(nv))

		if i+1 < segs || closed {
			r.addJoin(b, t, tangent((i+1)%segs), d)
		}
	}

	if !closed {
		r.addCap(pts[0], tangent(0).Mul(-1), d)
		r.addCap(pts[n-1], tangent(n-2), d)
	}
}

// addJoin adds the join at vertex p between a segment with direction t1
// and the following segment with direction t2.
func (r *Rasterizer) addJoin(p, t1, t2 vec.Vec2, d float64) {
	cross := t1.X*t2.Y - t1.Y*t2.X
	dot := t1.X*t2.X + t1.Y*t2.Y
	if math.Abs(cross) < collinearityThreshold && dot > 0 {
		return
	}

	// the join goes on the outside of the turn
	side := d
	if cross > 0 {
		side = -d
	}
	n1 := normal(t1)
	n2 := normal(t2)
	o1 := p.Add(n1.Mul(side))
	o2 := p.Add(n2.Mul(side))

	switch r.Join {
	case graphics.LineJoinRound:
		r.addCircle(p, d)
		return
	case graphics.LineJoinMiter:
		u := n1.Add(n2)
		if l := u.Length(); l > zeroLengthThreshold {
			u = u.Mul(1 / l)
			cosHalf := u.X*n1.X + u.Y*n1.Y
			if cosHalf > 0 && 1/cosHalf <= r.MiterLimit {
				tip := p.Add(u.Mul(side / cosHalf))
				r.addPoly(p, o1, tip, o2)
				return
			}
		}
	}
	r.addPoly(p, o1, o2)
}

// addCap adds the cap at end point p, where t points away from the line.
func (r *Rasterizer) addCap(p, t vec.Vec2, d float64) {
	switch r.Cap {
	case graphics.LineCapRound:
		r.addCircle(p, d)
	case graphics.LineCapSquare:
		nv := normal(t).Mul(d)
		tv := t.Mul(d)
		r.addPoly(p.Add(nv), p.Add(nv).Add(tv), p.Sub(nv).Add(tv), p.Sub(nv))
	}
}

// addCircle adds a polygon approximating the circle around c with radius
// rad, fine enough to stay within the flatness tolerance in device space.
func (r *Rasterizer) addCircle(c vec.Vec2, rad float64) {
	n := 8
	if dev := rad * r.deviceScale(); dev > r.Flatness {
		step := 2 * math.Acos(1-r.Flatness/dev)
		n = max(n, int(math.Ceil(2*math.Pi/step)))
	}

	start := len(r.polys)
	for i := range n {
		phi := 2 * math.Pi * float64(i) / float64(n)
		r.polys = append(r.polys, vec.Vec2{
			X: c.X + rad*math.Cos(phi),
			Y: c.Y + rad*math.Sin(phi),
		})
	}
	r.closePoly(start)
}

func (r *Rasterizer) addPoly(pts ...vec.Vec2) {
	start := len(r.polys)
	r.polys = append(r.polys, pts...)
	r.closePoly(start)
}

// closePoly registers the polygon r.polys[start:], reversing it if
// necessary so that all pieces of an outline wind the same way.
func (r *Rasterizer) closePoly(start int) {
	poly := r.polys[start:]
	var a float64
	for i := range poly {
		p, q := poly[i], poly[(i+1)%len(poly)]
		a += p.X*q.Y - q.X*p.Y
	}
	if math.Abs(a) < zeroLengthThreshold {
		r.polys = r.polys[:start]
		return
	}
	if a < 0 {
		for i, j := 0, len(poly)-1; i < j; i, j = i+1, j-1 {
			poly[i], poly[j] = poly[j], poly[i]
		}
	}
	r.polyStart = append(r.polyStart, start)
}

// normal returns t rotated by 90 degrees.
func normal(t vec.Vec2) vec.Vec2 {
	return vec.Vec2{X: -t.Y, Y: t.X}
}

func dist(a, b vec.Vec2) float64 {
	return b.Sub(a).Length()
}
