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
	"math"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"
)

// state is the part of the graphics state saved by Save.
type state struct {
	ctm  matrix.Matrix
	clip rect.Rect // device space, integer corners
}

// stateStack implements Save, Restore, Transform and ClipRect.
type stateStack struct {
	cur   state
	saved []state
}

func (s *stateStack) init(bounds rect.Rect) {
	s.cur = state{ctm: matrix.Identity, clip: bounds}
	s.saved = s.saved[:0]
}

func (s *stateStack) Save() {
	s.saved = append(s.saved, s.cur)
}

// Restore returns to the most recently saved state.  Unbalanced calls are
// ignored.
func (s *stateStack) Restore() {
	n := len(s.saved)
	if n == 0 {
		return
	}
	s.cur = s.saved[n-1]
	s.saved = s.saved[:n-1]
}

func (s *stateStack) Transform(m matrix.Matrix) {
	s.cur.ctm = concat(m, s.cur.ctm)
}

func (s *stateStack) ClipRect(r rect.Rect) {
	m := s.cur.ctm
	xs := [4]float64{}
	ys := [4]float64{}
	for i, c := range [4][2]float64{
		{r.LLx, r.LLy}, {r.URx, r.LLy}, {r.URx, r.URy}, {r.LLx, r.URy},
	} {
		xs[i] = m[0]*c[0] + m[2]*c[1] + m[4]
		ys[i] = m[1]*c[0] + m[3]*c[1] + m[5]
	}

	clip := s.cur.clip
	clip.LLx = max(clip.LLx, math.Floor(min(xs[0], xs[1], xs[2], xs[3])))
	clip.LLy = max(clip.LLy, math.Floor(min(ys[0], ys[1], ys[2], ys[3])))
	clip.URx = min(clip.URx, math.Ceil(max(xs[0], xs[1], xs[2], xs[3])))
	clip.URy = min(clip.URy, math.Ceil(max(ys[0], ys[1], ys[2], ys[3])))
	if clip.URx < clip.LLx {
		clip.URx = clip.LLx
	}
	if clip.URy < clip.LLy {
		clip.URy = clip.LLy
	}
	s.cur.clip = clip
}

// clipEmpty reports whether nothing can be drawn.
func (s *stateStack) clipEmpty() bool {
	c := s.cur.clip
	return c.URx <= c.LLx || c.URy <= c.LLy
}

// concat returns the transformation which applies a first, then b.
func concat(a, b matrix.Matrix) matrix.Matrix {
	return matrix.Matrix{
		a[0]*b[0] + a[1]*b[2],
		a[0]*b[1] + a[1]*b[3],
		a[2]*b[0] + a[3]*b[2],
		a[2]*b[1] + a[3]*b[3],
		a[4]*b[0] + a[5]*b[2] + b[4],
		a[4]*b[1] + a[5]*b[3] + b[5],
	}
}
