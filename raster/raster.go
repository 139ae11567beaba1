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

// Package raster converts vector paths into anti-aliased pixel coverage.
//
// Coverage is the fraction of a pixel's area inside the painted shape, from
// 0 to 1.  It is delivered one scanline at a time to an [EmitFunc], so that
// callers can composite colour, accumulate counters, or do anything else
// with the mask without an intermediate image.
package raster

import (
	"cmp"
	"math"
	"slices"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"
)

// EmitFunc receives the coverage of scanline y, starting at pixel xMin.
// The slice is only valid for the duration of the call.
type EmitFunc func(y, xMin int, coverage []float32)

// FillRule selects how the winding number maps to "inside".
type FillRule int

const (
	NonZero FillRule = iota
	EvenOdd
)

func (r FillRule) String() string {
	if r == EvenOdd {
		return "evenodd"
	}
	return "nonzero"
}

// edge is a line segment in device coordinates, never horizontal.
type edge struct {
	x0, y0 float64
	x1, y1 float64
	dxdy   float64
}

func (e *edge) top() float64    { return min(e.y0, e.y1) }
func (e *edge) bottom() float64 { return max(e.y0, e.y1) }

// Rasterizer turns paths into coverage.  Buffers are kept between calls,
// so a single Rasterizer used for many paths stops allocating once it has
// seen the largest one.
//
// A Rasterizer is not safe for concurrent use.
type Rasterizer struct {
	// CTM maps user space to device space.  Must be non-singular.
	CTM matrix.Matrix

	// Clip is the device-space output rectangle, with integer corners.
	Clip rect.Rect

	// Flatness is the maximal distance, in device pixels, between a curve
	// and the polygon used to approximate it.
	Flatness float64

	// Width is the stroke width in user space.
	Width float64

	// Cap is used at the ends of open subpaths.
	Cap graphics.LineCapStyle

	// Join is used where two segments of a subpath meet.
	Join graphics.LineJoinStyle

	// MiterLimit converts miter joins to bevels for sharp angles.
	// Must be at least 1.
	MiterLimit float64

	edges  []edge
	active []int
	cover  []float32 // per-pixel cover of the current scanline, reused as output
	area   []float32 // per-pixel area of the current scanline

	// device space bounding box of the collected edges
	haveBBox       bool
	bbXMin, bbXMax float64
	bbYMin, bbYMax float64

	// stroke geometry
	polys      []vec.Vec2 // outline polygons, contiguous
	polyStart  []int      // start of each polygon in polys
	lines      []vec.Vec2 // flattened subpaths, contiguous
	lineStart  []int      // start of each subpath in lines
	lineClosed []bool
	dots       []vec.Vec2 // subpaths of zero length
}

// NewRasterizer returns a Rasterizer for the given clip rectangle, with the
// PDF defaults for all other parameters.
func NewRasterizer(clip rect.Rect) *Rasterizer {
	r := &Rasterizer{}
	r.Reset(clip)
	return r
}

// Reset restores the default parameters and sets a new clip rectangle.
// Buffer capacity is retained.
func (r *Rasterizer) Reset(clip rect.Rect) {
	r.CTM = matrix.Identity
	r.Clip = clip
	r.Flatness = defaultFlatness
	r.Width = 1
	r.Cap = graphics.LineCapButt
	r.Join = graphics.LineJoinMiter
	r.MiterLimit = defaultMiterLimit
}

// Fill rasterizes the path p with the given fill rule.
func (r *Rasterizer) Fill(p *path.Data, rule FillRule, emit EmitFunc) {
	r.beginEdges()
	r.walk(p, r.addEdge)
	r.scan(rule, emit)
}

// FillNonZero is a shorthand for Fill(p, NonZero, emit).
func (r *Rasterizer) FillNonZero(p *path.Data, emit EmitFunc) {
	r.Fill(p, NonZero, emit)
}

// FillEvenOdd is a shorthand for Fill(p, EvenOdd, emit).
func (r *Rasterizer) FillEvenOdd(p *path.Data, emit EmitFunc) {
	r.Fill(p, EvenOdd, emit)
}

// walk flattens p in user space and reports every line segment, including
// the implicit closing segments of all subpaths.
func (r *Rasterizer) walk(p *path.Data, line func(a, b vec.Vec2)) {
	var cur, start vec.Vec2
	open := false
	k := 0
	for _, cmd := range p.Cmds {
		switch cmd {
		case path.CmdMoveTo:
			if open && cur != start {
				line(cur, start)
			}
			cur = p.Coords[k]
			start = cur
			open = true
			k++
		case path.CmdLineTo:
			line(cur, p.Coords[k])
			cur = p.Coords[k]
			k++
		case path.CmdQuadTo:
			r.flattenQuadratic(cur, p.Coords[k], p.Coords[k+1], line)
			cur = p.Coords[k+1]
			k += 2
		case path.CmdCubeTo:
			r.flattenCubic(cur, p.Coords[k], p.Coords[k+1], p.Coords[k+2], line)
			cur = p.Coords[k+2]
			k += 3
		case path.CmdClose:
			if cur != start {
				line(cur, start)
			}
			cur = start
			open = false
		}
	}
	// filling closes open subpaths implicitly
	if open && cur != start {
		line(cur, start)
	}
}

// linearPart applies the CTM without its translation.
func (r *Rasterizer) linearPart(v vec.Vec2) vec.Vec2 {
	return vec.Vec2{
		X: r.CTM[0]*v.X + r.CTM[2]*v.Y,
		Y: r.CTM[1]*v.X + r.CTM[3]*v.Y,
	}
}

// toDevice applies the full CTM.
func (r *Rasterizer) toDevice(v vec.Vec2) vec.Vec2 {
	return vec.Vec2{
		X: r.CTM[0]*v.X + r.CTM[2]*v.Y + r.CTM[4],
		Y: r.CTM[1]*v.X + r.CTM[3]*v.Y + r.CTM[5],
	}
}

// deviceScale estimates how much the CTM magnifies lengths.
func (r *Rasterizer) deviceScale() float64 {
	return math.Sqrt(math.Abs(r.CTM[0]*r.CTM[3] - r.CTM[1]*r.CTM[2]))
}

// flattenQuadratic approximates the quadratic Bézier curve p0, p1, p2 by
// line segments.  The error bound is evaluated in device space.
func (r *Rasterizer) flattenQuadratic(p0, p1, p2 vec.Vec2, line func(a, b vec.Vec2)) {
	dev := r.linearPart(p0.Sub(p1.Mul(2)).Add(p2).Mul(0.25)).Length()
	n := 1
	if dev > r.Flatness {
		n = int(math.Ceil(math.Sqrt(dev / r.Flatness)))
	}

	prev := p0
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		s := 1 - t
		next := p0.Mul(s * s).Add(p1.Mul(2 * s * t)).Add(p2.Mul(t * t))
		line(prev, next)
		prev = next
	}
}

// flattenCubic approximates a cubic Bézier curve by line segments, using
// Wang's formula for the number of pieces.
func (r *Rasterizer) flattenCubic(p0, p1, p2, p3 vec.Vec2, line func(a, b vec.Vec2)) {
	d1 := r.linearPart(p0.Sub(p1.Mul(2)).Add(p2)).Length()
	d2 := r.linearPart(p1.Sub(p2.Mul(2)).Add(p3)).Length()
	n := 1
	if m := max(d1, d2); m > 0 {
		if f := math.Sqrt(3 * m / (4 * r.Flatness)); f > 1 {
			n = int(math.Ceil(f))
		}
	}

	prev := p0
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		s := 1 - t
		next := p0.Mul(s * s * s).
			Add(p1.Mul(3 * s * s * t)).
			Add(p2.Mul(3 * s * t * t)).
			Add(p3.Mul(t * t * t))
		line(prev, next)
		prev = next
	}
}

func (r *Rasterizer) beginEdges() {
	r.edges = r.edges[:0]
	r.haveBBox = false
}

// addEdge transforms the user space segment a→b to device space and
// records it.
func (r *Rasterizer) addEdge(a, b vec.Vec2) {
	p := r.toDevice(a)
	q := r.toDevice(b)

	dy := q.Y - p.Y
	if math.Abs(dy) < horizontalEdgeThreshold {
		return
	}
	r.edges = append(r.edges, edge{
		x0: p.X, y0: p.Y,
		x1: q.X, y1: q.Y,
		dxdy: (q.X - p.X) / dy,
	})

	if !r.haveBBox {
		r.bbXMin, r.bbXMax = p.X, p.X
		r.bbYMin, r.bbYMax = p.Y, p.Y
		r.haveBBox = true
	}
	r.bbXMin = min(r.bbXMin, p.X, q.X)
	r.bbXMax = max(r.bbXMax, p.X, q.X)
	r.bbYMin = min(r.bbYMin, p.Y, q.Y)
	r.bbYMax = max(r.bbYMax, p.Y, q.Y)
}

// pixelBounds returns the pixel range touched by the collected edges,
// clamped to the clip rectangle.
func (r *Rasterizer) pixelBounds() (xMin, xMax, yMin, yMax int, ok bool) {
	if len(r.edges) == 0 {
		return 0, 0, 0, 0, false
	}
	xMin = max(int(math.Floor(r.bbXMin)), int(r.Clip.LLx))
	xMax = min(int(math.Floor(r.bbXMax))+1, int(r.Clip.URx))
	yMin = max(int(math.Floor(r.bbYMin)), int(r.Clip.LLy))
	yMax = min(int(math.Floor(r.bbYMax))+1, int(r.Clip.URy))
	if xMin >= xMax || yMin >= yMax {
		return 0, 0, 0, 0, false
	}
	return xMin, xMax, yMin, yMax, true
}

// The coverage computation keeps two numbers per pixel of the current
// scanline:
//
//	cover: signed height of the edge pieces inside the pixel column
//	area:  the same, weighted by the part of the pixel right of the edge
//
// Summing cover from the left edge of the scanline gives the winding
// contribution carried into a pixel; adding area gives the signed area of
// the shape inside the pixel.

// scan rasterizes the collected edges using an active edge list.
func (r *Rasterizer) scan(rule FillRule, emit EmitFunc) {
	xMin, xMax, yMin, yMax, ok := r.pixelBounds()
	if !ok {
		return
	}
	width := xMax - xMin
	r.cover = slices.Grow(r.cover[:0], width)[:width]
	r.area = slices.Grow(r.area[:0], width)[:width]

	slices.SortFunc(r.edges, func(a, b edge) int {
		return cmp.Compare(a.top(), b.top())
	})
	r.active = r.active[:0]
	next := 0

	for y := yMin; y < yMax; y++ {
		yTop := float64(y)
		yBot := yTop + 1

		for next < len(r.edges) && r.edges[next].top() < yBot {
			r.active = append(r.active, next)
			next++
		}

		// drop edges which ended above this scanline
		keep := r.active[:0]
		for _, i := range r.active {
			if r.edges[i].bottom() > yTop {
				keep = append(keep, i)
			}
		}
		r.active = keep
		if len(r.active) == 0 {
			continue
		}

		clear(r.cover)
		clear(r.area)
		for _, i := range r.active {
			r.accumulate(&r.edges[i], y, xMin, xMax)
		}

		if rule == EvenOdd {
			integrateEvenOdd(r.cover, r.area)
		} else {
			integrateNonZero(r.cover, r.area)
		}

		if row, offs := trimZeros(r.cover); row != nil {
			emit(y, xMin+offs, row)
		}
	}
}

// accumulate adds the contribution of e to scanline y.
func (r *Rasterizer) accumulate(e *edge, y, xMin, xMax int) {
	yTop := max(float64(y), e.top())
	yBot := min(float64(y+1), e.bottom())
	if yBot <= yTop {
		return
	}

	sign := float32(1)
	if e.y1 < e.y0 {
		sign = -1
	}

	xa := e.x0 + e.dxdy*(yTop-e.y0)
	xb := e.x0 + e.dxdy*(yBot-e.y0)
	left := int(math.Floor(min(xa, xb)))
	right := int(math.Floor(max(xa, xb)))

	if right < xMin {
		// entirely left of the output: acts like an edge at xMin
		h := sign * float32(yBot-yTop)
		r.cover[0] += h
		r.area[0] += h
		return
	}
	if left >= xMax {
		return
	}

	if left == right {
		r.addPiece(e, yTop, yBot, sign, left, xMin, xMax)
		return
	}

	dydx := 1 / e.dxdy
	if left < xMin {
		// the part left of the output acts like an edge at xMin
		yx := e.y0 + dydx*(float64(xMin)-e.x0)
		lo, hi := yTop, min(yx, yBot)
		if e.dxdy < 0 {
			lo, hi = max(yx, yTop), yBot
		}
		if hi > lo {
			h := sign * float32(hi-lo)
			r.cover[0] += h
			r.area[0] += h
		}
		left = xMin
	}
	right = min(right, xMax-1)

	// split the edge at the pixel column boundaries
	for col := left; col <= right; col++ {
		ya := e.y0 + dydx*(float64(col)-e.x0)
		yb := e.y0 + dydx*(float64(col+1)-e.x0)
		lo := max(min(ya, yb), yTop)
		hi := min(max(ya, yb), yBot)
		if hi <= lo {
			continue
		}
		r.addPiece(e, lo, hi, sign, col, xMin, xMax)
	}
}

// addPiece records the part of e between lo and hi, which lies inside
// pixel column col.
func (r *Rasterizer) addPiece(e *edge, lo, hi float64, sign float32, col, xMin, xMax int) {
	h := sign * float32(hi-lo)
	switch {
	case col < xMin:
		r.cover[0] += h
		r.area[0] += h
	case col < xMax:
		xMid := e.x0 + e.dxdy*((lo+hi)/2-e.y0)
		frac := xMid - float64(col)
		i := col - xMin
		r.cover[i] += h
		r.area[i] += h * float32(1-frac)
	}
}

// integrateNonZero turns cover/area into coverage, in place in cover.
func integrateNonZero(cover, area []float32) {
	var acc float32
	for i := range cover {
		v := abs32(acc + area[i])
		acc += cover[i]
		cover[i] = min(v, 1)
	}
}

// integrateEvenOdd turns cover/area into coverage using the even-odd rule,
// in place in cover.
func integrateEvenOdd(cover, area []float32) {
	var acc float32
	for i := range cover {
		v := abs32(acc + area[i])
		acc += cover[i]
		v -= 2 * float32(int(v/2))
		cover[i] = 1 - abs32(1-v)
	}
}

func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

// trimZeros strips zero coverage from both ends of a scanline.
// It returns nil if nothing is left.
func trimZeros(row []float32) ([]float32, int) {
	lo, hi := 0, len(row)
	for lo < hi && row[lo] == 0 {
		lo++
	}
	for hi > lo && row[hi-1] == 0 {
		hi--
	}
	if lo == hi {
		return nil, 0
	}
	return row[lo:hi], lo
}

const (
	// defaultFlatness is below the threshold of visual perception.
	defaultFlatness = 0.25

	// defaultMiterLimit matches PDF and PostScript.  Joins with an interior
	// angle below about 11.5 degrees are bevelled.
	defaultMiterLimit = 10.0

	// horizontalEdgeThreshold is the smallest vertical extent of an edge
	// which still contributes coverage.
	horizontalEdgeThreshold = 1e-10

	// zeroLengthThreshold is the shortest stroke segment considered.
	zeroLengthThreshold = 1e-10

	// collinearityThreshold is the largest |sin| between two segments for
	// which no join is drawn.
	collinearityThreshold = 1e-6
)
