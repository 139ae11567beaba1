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

// Package scene contains named scenes for inspecting and testing the
// overdraw pipeline.
package scene

import (
	"image"
	"slices"
	"strings"

	"seehuhn.de/go/overdraw/canvas"
)

// Case is a named scene.  Case implements overdraw.Scene.
type Case struct {
	Name   string // lowercase a-z, 0-9 and _ only
	Width  int    // preferred frame width in pixels
	Height int    // preferred frame height in pixels

	// MaxCount is the largest counter value the scene produces at its
	// preferred size, or 0 if not known.
	MaxCount uint8

	Draw func(c canvas.Canvas, size image.Point)
}

// Render draws the scene.
func (s Case) Render(c canvas.Canvas, size image.Point) {
	s.Draw(c, size)
}

// Size returns the preferred frame size.
func (s Case) Size() image.Point {
	return image.Pt(s.Width, s.Height)
}

// All contains all scenes, grouped by category.
var All = map[string][]Case{
	"shapes": shapeCases,
	"text":   textCases,
}

// Lookup finds a scene by name.  The name may be qualified by its
// category, as in "text/matrix".
func Lookup(name string) (Case, bool) {
	category, short, qualified := strings.Cut(name, "/")
	if !qualified {
		short = name
	}
	for cat, cases := range All {
		if qualified && cat != category {
			continue
		}
		for _, s := range cases {
			if s.Name == short {
				return s, true
			}
		}
	}
	return Case{}, false
}

// Names returns the qualified names of all scenes, sorted.
func Names() []string {
	var names []string
	for cat, cases := range All {
		for _, s := range cases {
			names = append(names, cat+"/"+s.Name)
		}
	}
	slices.Sort(names)
	return names
}
