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

// ColorCanvas renders draw operations into an RGBA image, compositing each
// paint source-over with the pixel coverage as extra opacity.
type ColorCanvas struct {
	*engine
	img *image.RGBA
}

// NewColorCanvas returns a canvas drawing into img.  The initial clip
// region is img.Bounds().
func NewColorCanvas(img *image.RGBA) *ColorCanvas {
	c := &ColorCanvas{img: img}
	c.engine = newEngine(img.Bounds(), c)
	return c
}

// Image returns the image the canvas draws into.
func (c *ColorCanvas) Image() *image.RGBA {
	return c.img
}

func (c *ColorCanvas) writeSpan(y, xMin int, coverage []float32, paint Paint) {
	sr, sg, sb, sa := paint.rgba()
	if sa == 0 {
		return
	}

	pix := c.img.Pix
	i := c.img.PixOffset(xMin, y)
	for _, v := range coverage {
		m := uint32(v*0xffff + 0.5)
		if m > 0xffff {
			m = 0xffff
		}
		if m > 0 {
			a := sa * m / 0xffff
			ia := 0xffff - a
			p := pix[i : i+4 : i+4]
			p[0] = uint8((sr*m/0xffff + uint32(p[0])*0x101*ia/0xffff) >> 8)
			p[1] = uint8((sg*m/0xffff + uint32(p[1])*0x101*ia/0xffff) >> 8)
			p[2] = uint8((sb*m/0xffff + uint32(p[2])*0x101*ia/0xffff) >> 8)
			p[3] = uint8((a + uint32(p[3])*0x101*ia/0xffff) >> 8)
		}
		i += 4
	}
}
