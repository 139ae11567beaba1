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
	"strconv"
	"sync"

	"seehuhn.de/go/overdraw/canvas"
)

// TextSize is the font size of the text scenes, in pixels.
const TextSize = 20

// face returns the font shared by the text scenes.  Faces cache glyph
// outlines and are not safe for concurrent use, so neither are the text
// scenes.
var face = sync.OnceValue(func() *canvas.Face {
	f, err := canvas.DefaultFace(TextSize)
	if err != nil {
		panic(err)
	}
	return f
})

var textCases = []Case{
	{
		Name:     "label",
		Width:    120,
		Height:   40,
		MaxCount: 1,
		Draw: func(c canvas.Canvas, _ image.Point) {
			c.DrawText("overdraw", 4, 28, face(), silver)
		},
	},
	TextMatrix(20, 20, 50),
}

// TextMatrix returns the label matrix scene: labels 1 to count, where
// label n reads "drawn n time(s)" and is drawn n times on top of itself.
// Labels are placed in columns of maxLines lines, 20 pixels apart, with
// the given spacing between columns.  Columns closer than the label width
// overlap.
func TextMatrix(count, maxLines, spacing int) Case {
	maxLines = max(maxLines, 1)
	columns := (count + maxLines - 1) / maxLines
	var maxCount uint8
	if columns <= 1 {
		maxCount = uint8(min(count, 255))
	}
	return Case{
		Name:     "matrix",
		Width:    max(columns-1, 0)*spacing + 160,
		Height:   TextSize*min(count, maxLines) + 10,
		MaxCount: maxCount,
		Draw: func(c canvas.Canvas, _ image.Point) {
			column, line := 0, 1
			for i := range count {
				if line > maxLines {
					line = 1
					column += spacing
				}
				drawLabel(c, i+1, float64(column), float64(TextSize*line))
				line++
			}
		},
	}
}

// drawLabel draws the label for n, n times.  All but the first copy
// carry a plural s.
func drawLabel(c canvas.Canvas, n int, x, y float64) {
	text := "drawn " + strconv.Itoa(n) + " time"
	for i := range n {
		s := text
		if i != 0 {
			s += "s"
		}
		c.Save()
		c.Transform(canvas.Translate(x, y))
		c.DrawText(s, 0, 0, face(), silver)
		c.Restore()
	}
}
