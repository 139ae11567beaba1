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
)

// DefaultMinCoverage is the coverage from which a pixel counts as drawn.
const DefaultMinCoverage = 0.5

// CounterCanvas records how many draw operations touched each pixel.
//
// Every operation adds one to the counter of each pixel it covers by at
// least MinCoverage, saturating at 255.  The paint of the operation is
// ignored, so fully transparent draws are counted as well.
type CounterCanvas struct {
	*engine
	img *image.Alpha

	// MinCoverage is the threshold in (0, 1] at which a partially covered
	// pixel is counted.
	MinCoverage float32
}

// NewCounterCanvas returns a canvas counting into img.  The initial clip
// region is img.Bounds().
func NewCounterCanvas(img *image.Alpha) *CounterCanvas {
	c := &CounterCanvas{
		img:         img,
		MinCoverage: DefaultMinCoverage,
	}
	c.engine = newEngine(img.Bounds(), c)
	return c
}

// Image returns the counter image.
func (c *CounterCanvas) Image() *image.Alpha {
	return c.img
}

func (c *CounterCanvas) writeSpan(y, xMin int, coverage []float32, _ Paint) {
	pix := c.img.Pix
	i := c.img.PixOffset(xMin, y)
	for _, v := range coverage {
		if v > 0 && v >= c.MinCoverage && pix[i] < 0xff {
			pix[i]++
		}
		i++
	}
}
