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
	"image"
	"image/color"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/pdf/graphics"

	"seehuhn.de/go/overdraw/canvas"
)

var (
	silver = canvas.Paint{Color: color.RGBA{R: 192, G: 192, B: 192, A: 255}}
	gray   = canvas.Paint{Color: color.RGBA{R: 128, G: 128, B: 128, A: 255}}
	white  = canvas.Paint{Color: color.White}
)

var shapeCases = []Case{
	{
		Name:     "rect_once",
		Width:    64,
		Height:   64,
		MaxCount: 1,
		Draw: func(c canvas.Canvas, _ image.Point) {
			c.Fill(rectangle(10, 10, 54, 54), canvas.NonZero, silver)
		},
	},
	{
		Name:     "rect_twice",
		Width:    64,
		Height:   64,
		MaxCount: 2,
		Draw: func(c canvas.Canvas, _ image.Point) {
			r := rectangle(10, 10, 54, 54)
			c.Fill(r, canvas.NonZero, silver)
			c.Fill(r, canvas.NonZero, silver)
		},
	},
	{
		Name:     "overlap",
		Width:    64,
		Height:   64,
		MaxCount: 3,
		Draw: func(c canvas.Canvas, _ image.Point) {
			c.Fill(rectangle(8, 8, 40, 40), canvas.NonZero, silver)
			c.Fill(rectangle(24, 8, 56, 40), canvas.NonZero, gray)
			c.Fill(rectangle(16, 24, 48, 56), canvas.NonZero, white)
		},
	},
	{
		Name:     "stroke_star",
		Width:    64,
		Height:   64,
		MaxCount: 1,
		Draw: func(c canvas.Canvas, _ image.Point) {
			c.Stroke(fivePointStar(32, 32, 25), canvas.StrokeStyle{
				Width: 4,
				Join:  graphics.LineJoinRound,
			}, silver)
		},
	},
	{
		Name:     "circle_evenodd",
		Width:    64,
		Height:   64,
		MaxCount: 1,
		Draw: func(c canvas.Canvas, _ image.Point) {
			p := appendCircle(&path.Data{}, 32, 32, 25)
			appendCircle(p, 32, 32, 15)
			c.Fill(p, canvas.EvenOdd, silver)
		},
	},
	{
		Name:     "clip",
		Width:    64,
		Height:   64,
		MaxCount: 2,
		Draw: func(c canvas.Canvas, _ image.Point) {
			c.Save()
			c.ClipRect(rect.Rect{LLx: 16, LLy: 16, URx: 48, URy: 48})
			c.DrawPaint(gray)
			c.Restore()
			c.Fill(rectangle(0, 0, 32, 32), canvas.NonZero, silver)
		},
	},
	{
		Name:     "saturate",
		Width:    64,
		Height:   64,
		MaxCount: 255,
		Draw: func(c canvas.Canvas, _ image.Point) {
			faint := canvas.Paint{Color: color.NRGBA{R: 192, G: 192, B: 192, A: 8}}
			r := rectangle(16, 16, 48, 48)
			for range 300 {
				c.Fill(r, canvas.NonZero, faint)
			}
		},
	},
}
