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

package overdraw

import (
	"image"
	"math"

	"seehuhn.de/go/overdraw/shader"
)

// Targets are the two offscreen surfaces of one frame.  Both have the
// frame size and start out zeroed.
type Targets struct {
	// Color receives the scene as it would normally be displayed.
	Color *image.RGBA

	// Counter holds, per pixel, the number of draw operations which
	// touched it, saturating at 255.
	Counter *image.Alpha

	owner *recycler
}

// Allocate creates zeroed surfaces for a frame of the given size, using
// [DefaultMaxDimension] as the size limit.  Errors are of type
// *AllocationError.
func Allocate(size image.Point) (*Targets, error) {
	return allocate(size, DefaultMaxDimension, nil)
}

func allocate(size image.Point, maxDim int, r *recycler) (*Targets, error) {
	if err := checkSize(size, maxDim); err != nil {
		return nil, &AllocationError{Size: size, Err: err}
	}

	rect := image.Rectangle{Max: size}
	t := &Targets{owner: r}
	if r != nil {
		t.Color, t.Counter = r.take(size)
	}
	if t.Color == nil {
		t.Color = image.NewRGBA(rect)
		t.Counter = image.NewAlpha(rect)
	}
	return t, nil
}

func checkSize(size image.Point, maxDim int) error {
	if size.X <= 0 || size.Y <= 0 {
		return ErrInvalidSize
	}
	if size.X > maxDim || size.Y > maxDim || size.X > math.MaxInt/4/size.Y {
		return ErrTooLarge
	}
	return nil
}

// Size returns the frame size.
func (t *Targets) Size() image.Point {
	return t.Color.Rect.Size()
}

// Inputs returns the surfaces in the form the classifier reads them.
func (t *Targets) Inputs() shader.Inputs {
	return shader.Inputs{Color: t.Color, Counter: t.Counter}
}

// Release hands the surfaces back for reuse by a later frame.  The
// Targets must not be used afterwards.  Calling Release more than once
// has no effect.
func (t *Targets) Release() {
	if t == nil || t.Color == nil {
		return
	}
	if t.owner != nil {
		t.owner.put(t.Color, t.Counter)
	}
	t.Color = nil
	t.Counter = nil
}

// recycler keeps the surfaces of the most recently released frame, so
// that a sequence of frames with the same size allocates only once.
type recycler struct {
	color   *image.RGBA
	counter *image.Alpha
}

// take returns cleared surfaces of the given size, or nil if none are
// available.
func (r *recycler) take(size image.Point) (*image.RGBA, *image.Alpha) {
	if r.color == nil || r.color.Rect.Size() != size {
		return nil, nil
	}
	c, n := r.color, r.counter
	r.color, r.counter = nil, nil
	clear(c.Pix)
	clear(n.Pix)
	Logger().Debug("reusing surfaces", "width", size.X, "height", size.Y)
	return c, n
}

func (r *recycler) put(c *image.RGBA, n *image.Alpha) {
	r.color, r.counter = c, n
}
