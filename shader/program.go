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

package shader

import (
	_ "embed"
	"fmt"
	"image"
	"image/color"
	"strconv"
	"strings"
	"text/template"

	"github.com/gogpu/naga"
)

//go:embed classify.wgsl.tmpl
var classifyTemplate string

var classifyWGSL = template.Must(template.New("classify.wgsl").Parse(classifyTemplate))

// spirvMagic is the first word of every SPIR-V module.
const spirvMagic = 0x07230203

// Program is a compiled classification shader.  A Program is immutable
// and may be shared between goroutines.
type Program struct {
	params Params
	source string
	spirv  []byte
}

// Source returns the WGSL text of the classification shader for p.
func Source(p Params) (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}

	// The counter texture is normalised, so the comparison is done on
	// count*255 against the threshold minus one half.
	data := struct {
		Threshold, Red, Green, Blue string
	}{
		Threshold: wgslFloat(float64(p.Threshold) - 0.5),
		Red:       wgslFloat(float64(p.WarningColor.R) / 255),
		Green:     wgslFloat(float64(p.WarningColor.G) / 255),
		Blue:      wgslFloat(float64(p.WarningColor.B) / 255),
	}
	var b strings.Builder
	if err := classifyWGSL.Execute(&b, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

// wgslFloat formats x as an f32 literal.
func wgslFloat(x float64) string {
	s := strconv.FormatFloat(x, 'f', -1, 32)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// Compile generates the shader for p and compiles it to SPIR-V.
// If the shader compiler rejects the program, the error is a
// *CompilationError.
func Compile(p Params) (*Program, error) {
	src, err := Source(p)
	if err != nil {
		return nil, err
	}

	spirv, err := naga.Compile(src)
	if err != nil {
		return nil, &CompilationError{Diagnostic: err.Error(), Err: err}
	}
	if len(spirv) < 4 || len(spirv)%4 != 0 {
		return nil, &CompilationError{
			Diagnostic: fmt.Sprintf("invalid SPIR-V output (%d bytes)", len(spirv)),
		}
	}
	magic := uint32(spirv[0]) | uint32(spirv[1])<<8 | uint32(spirv[2])<<16 | uint32(spirv[3])<<24
	if magic != spirvMagic {
		return nil, &CompilationError{
			Diagnostic: fmt.Sprintf("invalid SPIR-V magic 0x%08x", magic),
		}
	}

	return &Program{params: p, source: src, spirv: spirv}, nil
}

// Interpreted returns a program for p which only runs on the CPU.  Its
// SPIRV method returns nil.
func Interpreted(p Params) (*Program, error) {
	src, err := Source(p)
	if err != nil {
		return nil, err
	}
	return &Program{params: p, source: src}, nil
}

// Params returns the parameters the program was generated from.
func (p *Program) Params() Params {
	return p.params
}

// Source returns the WGSL text of the program.
func (p *Program) Source() string {
	return p.source
}

// SPIRV returns the compiled program as little-endian SPIR-V words.
func (p *Program) SPIRV() []uint32 {
	if p.spirv == nil {
		return nil
	}
	words := make([]uint32, len(p.spirv)/4)
	for i := range words {
		words[i] = uint32(p.spirv[i*4]) |
			uint32(p.spirv[i*4+1])<<8 |
			uint32(p.spirv[i*4+2])<<16 |
			uint32(p.spirv[i*4+3])<<24
	}
	return words
}

// Run classifies every pixel of the inputs and writes the result to dst.
// It panics if the sizes of dst and the two inputs differ.
func (p *Program) Run(dst *image.RGBA, in Inputs) Stats {
	size := in.Color.Bounds().Size()
	if in.Counter.Bounds().Size() != size || dst.Bounds().Size() != size {
		panic(fmt.Sprintf("shader: size mismatch: color %v, counter %v, output %v",
			size, in.Counter.Bounds().Size(), dst.Bounds().Size()))
	}

	var stats Stats
	cb := in.Color.Bounds().Min
	nb := in.Counter.Bounds().Min
	db := dst.Bounds().Min
	for y := range size.Y {
		ci := in.Color.PixOffset(cb.X, cb.Y+y)
		ni := in.Counter.PixOffset(nb.X, nb.Y+y)
		di := dst.PixOffset(db.X, db.Y+y)
		for range size.X {
			src := in.Color.Pix[ci : ci+4 : ci+4]
			c := color.RGBA{R: src[0], G: src[1], B: src[2], A: src[3]}
			out := Classify(c, in.Counter.Pix[ni], p.params)
			d := dst.Pix[di : di+4 : di+4]
			d[0], d[1], d[2], d[3] = out.R, out.G, out.B, out.A

			switch {
			case out.A == 0:
				stats.Transparent++
			case in.Counter.Pix[ni] < p.params.Threshold:
				stats.Single++
			default:
				stats.Overdraw++
			}
			ci += 4
			ni++
			di += 4
		}
	}
	return stats
}
