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
	"image/draw"
	"time"

	xdraw "golang.org/x/image/draw"

	"seehuhn.de/go/overdraw/canvas"
	"seehuhn.de/go/overdraw/shader"
)

// Pipeline renders scenes into overdraw visualisations.
//
// The classification shader is compiled on first use and kept for the
// lifetime of the Pipeline.  Surfaces are reused between frames of the
// same size.  A Pipeline is not safe for concurrent use.
type Pipeline struct {
	cfg    Config
	params shader.Params

	compile    func(shader.Params) (*shader.Program, error)
	prog       *shader.Program
	compileErr error

	pool recycler
	out  *image.RGBA
}

// NewPipeline returns a pipeline using the given configuration.
func NewPipeline(cfg Config) (*Pipeline, error) {
	params, err := cfg.ShaderParams()
	if err != nil {
		return nil, err
	}
	return &Pipeline{
		cfg:     cfg,
		params:  params,
		compile: shader.Compile,
	}, nil
}

// Config returns the configuration of the pipeline.
func (p *Pipeline) Config() Config {
	return p.cfg
}

// Prepare compiles the classification shader, if this has not been done
// before, and returns it.  A failed compilation is not retried.
func (p *Pipeline) Prepare() (*shader.Program, error) {
	if p.prog != nil || p.compileErr != nil {
		return p.prog, p.compileErr
	}

	start := time.Now()
	prog, err := p.compile(p.params)
	if err != nil {
		p.compileErr = err
		Logger().Warn("shader compilation failed", "error", err)
		return nil, err
	}
	p.prog = prog
	Logger().Info("shader compiled",
		"threshold", p.params.Threshold,
		"spirv_words", len(prog.SPIRV()),
		"elapsed", time.Since(start))
	return prog, nil
}

// Record allocates the surfaces for a frame and draws s into both of
// them.  The caller must release the returned Targets.
func (p *Pipeline) Record(size image.Point, s Scene) (*Targets, error) {
	t, err := allocate(size, p.cfg.MaxDimension, &p.pool)
	if err != nil {
		Logger().Warn("frame skipped", "error", err)
		return nil, err
	}

	counter := canvas.NewCounterCanvas(t.Counter)
	counter.MinCoverage = float32(p.cfg.Counter.MinCoverage)
	rec := canvas.NewNWay(canvas.NewColorCanvas(t.Color), counter)
	if s != nil {
		s.Render(rec, size)
	}
	return t, nil
}

// RenderFrame draws one frame of s at the given size and writes the
// classified result to dst, replacing its previous content.  The frame is
// placed at dst.Bounds().Min; pixels of dst outside the frame become
// transparent.
//
// If the shader cannot be compiled, the error is returned and dst is left
// unchanged.
func (p *Pipeline) RenderFrame(dst draw.Image, size image.Point, s Scene) (shader.Stats, error) {
	prog, err := p.Prepare()
	if err != nil {
		return shader.Stats{}, err
	}

	t, err := p.Record(size, s)
	if err != nil {
		return shader.Stats{}, err
	}
	defer t.Release()

	if p.out == nil || p.out.Rect.Size() != size {
		p.out = image.NewRGBA(image.Rectangle{Max: size})
	}
	stats := prog.Run(p.out, t.Inputs())

	b := dst.Bounds()
	frame := image.Rectangle{Min: b.Min, Max: b.Min.Add(size)}.Intersect(b)
	if frame != b {
		xdraw.Draw(dst, b, image.Transparent, image.Point{}, xdraw.Src)
	}
	xdraw.Draw(dst, frame, p.out, image.Point{}, xdraw.Src)

	Logger().Debug("frame",
		"width", size.X, "height", size.Y,
		"transparent", stats.Transparent,
		"single", stats.Single,
		"overdraw", stats.Overdraw)
	return stats, nil
}
