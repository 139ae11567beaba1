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
	"image/png"
	"maps"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"testing"

	"seehuhn.de/go/overdraw/canvas"
)

var validName = regexp.MustCompile(`^[a-z0-9_]+$`)

func TestNames(t *testing.T) {
	for category, cases := range All {
		seen := make(map[string]bool)
		for _, s := range cases {
			if !validName.MatchString(s.Name) {
				t.Errorf("%s: invalid name %q", category, s.Name)
			}
			if seen[s.Name] {
				t.Errorf("%s: duplicate name %q", category, s.Name)
			}
			seen[s.Name] = true
			if s.Width <= 0 || s.Height <= 0 || s.Draw == nil {
				t.Errorf("%s/%s: incomplete scene", category, s.Name)
			}
		}
	}
}

// record draws s into fresh surfaces of its preferred size.
func record(s Case) (*image.RGBA, *image.Alpha) {
	r := image.Rectangle{Max: s.Size()}
	rgba := image.NewRGBA(r)
	alpha := image.NewAlpha(r)
	s.Render(canvas.NewNWay(canvas.NewColorCanvas(rgba), canvas.NewCounterCanvas(alpha)), s.Size())
	return rgba, alpha
}

// writeDebug saves the counter image, scaled so that MaxCount is white.
func writeDebug(t *testing.T, name string, img *image.Alpha, maxCount uint8) {
	t.Helper()
	out := image.NewGray(img.Rect)
	for i, v := range img.Pix {
		out.Pix[i] = uint8(min(int(v)*255/int(max(maxCount, 1)), 255))
	}
	fname := filepath.Join(t.TempDir(), name+".png")
	f, err := os.Create(fname)
	if err != nil {
		t.Log(err)
		return
	}
	err = png.Encode(f, out)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		t.Log(err)
		return
	}
	t.Logf("counter image written to %s", fname)
}

func TestMaxCount(t *testing.T) {
	for _, category := range slices.Sorted(maps.Keys(All)) {
		for _, s := range All[category] {
			t.Run(category+"_"+s.Name, func(t *testing.T) {
				rgba, alpha := record(s)
				got := slices.Max(alpha.Pix)
				if s.MaxCount != 0 && got != s.MaxCount {
					t.Errorf("max count %d, want %d", got, s.MaxCount)
					writeDebug(t, category+"_"+s.Name, alpha, s.MaxCount)
				}

				// every counted pixel is visible in the colour surface
				for i, v := range alpha.Pix {
					if v > 0 && rgba.Pix[4*i+3] == 0 {
						t.Fatalf("pixel %d counted but transparent", i)
					}
				}
			})
		}
	}
}

func TestMatrixLabels(t *testing.T) {
	s := TextMatrix(20, 20, 50)
	_, alpha := record(s)

	// label n occupies the band above the baseline at y = 20n
	for n := 1; n <= 20; n++ {
		var band uint8
		for y := TextSize*n - 15; y < TextSize*n; y++ {
			row := alpha.Pix[y*alpha.Stride : y*alpha.Stride+alpha.Rect.Dx()]
			band = max(band, slices.Max(row))
		}
		if band != uint8(n) {
			t.Errorf("label %d: max count %d", n, band)
		}
	}
}

func TestTextMatrixLayout(t *testing.T) {
	s := TextMatrix(45, 20, 200)
	if s.Width != 2*200+160 || s.Height != 20*TextSize+10 {
		t.Errorf("unexpected size %v", s.Size())
	}
	if s.MaxCount != 0 {
		t.Errorf("overlapping columns: MaxCount %d, want 0", s.MaxCount)
	}
}

func TestLookup(t *testing.T) {
	for _, name := range []string{"matrix", "text/matrix", "rect_twice", "shapes/rect_twice"} {
		if _, ok := Lookup(name); !ok {
			t.Errorf("%q not found", name)
		}
	}
	for _, name := range []string{"", "shapes/matrix", "nothing", "text/"} {
		if _, ok := Lookup(name); ok {
			t.Errorf("%q unexpectedly found", name)
		}
	}

	names := Names()
	if !slices.IsSorted(names) || !slices.Contains(names, "text/label") {
		t.Errorf("unexpected names %q", names)
	}
}
