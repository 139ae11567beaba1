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
	"errors"
	"fmt"
	"math"
	"slices"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
)

// ErrInvalidFontSize is returned for font sizes which are not positive and
// finite.
var ErrInvalidFontSize = errors.New("invalid font size")

// Face is a font at a fixed size, used by DrawText.
//
// Glyph outlines are loaded on first use and cached.  A Face is not safe
// for concurrent use.
type Face struct {
	font *sfnt.Font
	ppem fixed.Int26_6

	buf    sfnt.Buffer
	glyphs map[rune]*glyph
}

type glyph struct {
	index   sfnt.GlyphIndex
	segs    sfnt.Segments // y pointing down, origin on the baseline
	advance float64
}

// NewFace parses a TrueType or OpenType font and returns a face of the
// given size in pixels per em.
func NewFace(ttf []byte, size float64) (*Face, error) {
	if !(size > 0) || math.IsInf(size, 0) {
		return nil, fmt.Errorf("%w: %g", ErrInvalidFontSize, size)
	}
	f, err := sfnt.Parse(ttf)
	if err != nil {
		return nil, err
	}
	return &Face{
		font:   f,
		ppem:   fixed.Int26_6(math.Round(size * 64)),
		glyphs: make(map[rune]*glyph),
	}, nil
}

// DefaultFace returns a face of the Go Regular font.
func DefaultFace(size float64) (*Face, error) {
	return NewFace(goregular.TTF, size)
}

func (f *Face) glyph(r rune) *glyph {
	if g, ok := f.glyphs[r]; ok {
		return g
	}

	g := &glyph{}
	if idx, err := f.font.GlyphIndex(&f.buf, r); err == nil {
		g.index = idx
		if segs, err := f.font.LoadGlyph(&f.buf, idx, f.ppem, nil); err == nil {
			// LoadGlyph returns a slice of f.buf
			g.segs = slices.Clone(segs)
		}
		if adv, err := f.font.GlyphAdvance(&f.buf, idx, f.ppem, font.HintingNone); err == nil {
			g.advance = float64(adv) / 64
		}
	}
	f.glyphs[r] = g
	return g
}

func (f *Face) kern(prev, next sfnt.GlyphIndex) float64 {
	k, err := f.font.Kern(&f.buf, prev, next, f.ppem, font.HintingNone)
	if err != nil {
		return 0
	}
	return float64(k) / 64
}

// Advance returns the width of s, including kerning.
func (f *Face) Advance(s string) float64 {
	var w float64
	var prev *glyph
	for _, r := range s {
		g := f.glyph(r)
		if prev != nil {
			w += f.kern(prev.index, g.index)
		}
		w += g.advance
		prev = g
	}
	return w
}

// AppendText appends the outlines of s to p, with the baseline starting at
// (x, y), and returns p.  All glyphs of the run end up in the same path, so
// filling it draws every pixel at most once.
func (f *Face) AppendText(p *path.Data, s string, x, y float64) *path.Data {
	pen := x
	var prev *glyph
	for _, r := range s {
		g := f.glyph(r)
		if prev != nil {
			pen += f.kern(prev.index, g.index)
		}

		conv := func(a fixed.Point26_6) vec.Vec2 {
			return vec.Vec2{X: pen + float64(a.X)/64, Y: y + float64(a.Y)/64}
		}
		open := false
		for _, seg := range g.segs {
			switch seg.Op {
			case sfnt.SegmentOpMoveTo:
				if open {
					p.Close()
				}
				p.MoveTo(conv(seg.Args[0]))
				open = true
			case sfnt.SegmentOpLineTo:
				p.LineTo(conv(seg.Args[0]))
			case sfnt.SegmentOpQuadTo:
				p.QuadTo(conv(seg.Args[0]), conv(seg.Args[1]))
			case sfnt.SegmentOpCubeTo:
				p.CubeTo(conv(seg.Args[0]), conv(seg.Args[1]), conv(seg.Args[2]))
			}
		}
		if open {
			p.Close()
		}

		pen += g.advance
		prev = g
	}
	return p
}
