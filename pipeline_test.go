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
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/overdraw/canvas"
	"seehuhn.de/go/overdraw/shader"
)

var (
	silver = canvas.Paint{Color: color.RGBA{R: 192, G: 192, B: 192, A: 255}}
	gray   = color.RGBA{R: 192, G: 192, B: 192, A: 255}
	red    = color.RGBA{R: 255, A: 255}
)

// newTestPipeline returns a pipeline with the default configuration.
// Where the shader compiler rejects the program, the CPU-only program is
// used instead so that the classification can still be tested.
func newTestPipeline(t *testing.T, cfg Config) *Pipeline {
	t.Helper()
	p, err := NewPipeline(cfg)
	require.NoError(t, err)
	p.compile = func(params shader.Params) (*shader.Program, error) {
		prog, err := shader.Compile(params)
		var cErr *shader.CompilationError
		if errors.As(err, &cErr) {
			t.Logf("using the CPU program: %v", err)
			return shader.Interpreted(params)
		}
		return prog, err
	}
	return p
}

func box(x1, y1, x2, y2 float64) *path.Data {
	return (&path.Data{}).
		MoveTo(vec.Vec2{X: x1, Y: y1}).
		LineTo(vec.Vec2{X: x2, Y: y1}).
		LineTo(vec.Vec2{X: x2, Y: y2}).
		LineTo(vec.Vec2{X: x1, Y: y2}).
		Close()
}

// fillTimes returns a scene which fills the rectangle n times.
func fillTimes(n int, x1, y1, x2, y2 float64) Scene {
	return SceneFunc(func(c canvas.Canvas, _ image.Point) {
		for range n {
			c.Fill(box(x1, y1, x2, y2), canvas.NonZero, silver)
		}
	})
}

func render(t *testing.T, p *Pipeline, size image.Point, s Scene) (*image.RGBA, shader.Stats) {
	t.Helper()
	dst := image.NewRGBA(image.Rectangle{Max: size})
	stats, err := p.RenderFrame(dst, size, s)
	require.NoError(t, err)
	return dst, stats
}

func TestUntouchedIsTransparent(t *testing.T) {
	p := newTestPipeline(t, DefaultConfig())
	dst, stats := render(t, p, image.Pt(10, 10), SceneFunc(func(canvas.Canvas, image.Point) {}))

	for _, v := range dst.Pix {
		require.Zero(t, v)
	}
	assert.Equal(t, shader.Stats{Transparent: 100}, stats)

	_, stats = render(t, p, image.Pt(10, 10), nil)
	assert.Equal(t, shader.Stats{Transparent: 100}, stats)
}

func TestClassification(t *testing.T) {
	p := newTestPipeline(t, DefaultConfig())
	size := image.Pt(8, 8)

	tests := []struct {
		n    int
		want color.RGBA
	}{
		{1, gray},
		{2, red},
		{3, red},
	}
	for _, tc := range tests {
		dst, stats := render(t, p, size, fillTimes(tc.n, 0, 0, 8, 8))
		for y := range 8 {
			for x := range 8 {
				require.Equal(t, tc.want, dst.RGBAAt(x, y), "n=%d (%d,%d)", tc.n, x, y)
			}
		}
		assert.Equal(t, 64, stats.Total())
	}
}

func TestCounterSaturates(t *testing.T) {
	p := newTestPipeline(t, DefaultConfig())
	tg, err := p.Record(image.Pt(4, 4), fillTimes(300, 0, 0, 4, 4))
	require.NoError(t, err)
	defer tg.Release()

	for _, v := range tg.Counter.Pix {
		require.Equal(t, uint8(255), v)
	}
	assert.Equal(t, gray, tg.Color.RGBAAt(1, 1))
}

func TestCounterMonotone(t *testing.T) {
	p := newTestPipeline(t, DefaultConfig())
	prev := uint8(0)
	for n := range 10 {
		tg, err := p.Record(image.Pt(2, 2), fillTimes(n, 0, 0, 2, 2))
		require.NoError(t, err)
		v := tg.Counter.AlphaAt(0, 0).A
		tg.Release()
		assert.GreaterOrEqual(t, v, prev)
		assert.Equal(t, uint8(n), v)
		prev = v
	}
}

func TestReplaceComposition(t *testing.T) {
	p := newTestPipeline(t, DefaultConfig())
	size := image.Pt(20, 20)
	s := fillTimes(1, 5, 5, 15, 15)

	want, _ := render(t, p, size, s)

	dst := image.NewRGBA(image.Rectangle{Max: size})
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.RGBA{B: 255, A: 255}), image.Point{}, draw.Src)
	_, err := p.RenderFrame(dst, size, s)
	require.NoError(t, err)
	assert.Equal(t, want.Pix, dst.Pix)
}

func TestDestinationLargerThanFrame(t *testing.T) {
	p := newTestPipeline(t, DefaultConfig())

	dst := image.NewRGBA(image.Rect(100, 100, 130, 130))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(red), image.Point{}, draw.Src)
	_, err := p.RenderFrame(dst, image.Pt(10, 10), fillTimes(1, 0, 0, 10, 10))
	require.NoError(t, err)

	assert.Equal(t, gray, dst.RGBAAt(105, 105))
	assert.Equal(t, color.RGBA{}, dst.RGBAAt(115, 105))
	assert.Equal(t, color.RGBA{}, dst.RGBAAt(129, 129))
}

func TestEndToEnd(t *testing.T) {
	p := newTestPipeline(t, DefaultConfig())
	s := SceneFunc(func(c canvas.Canvas, _ image.Point) {
		c.Fill(box(10, 10, 60, 60), canvas.NonZero, silver)
		c.Fill(box(40, 40, 90, 90), canvas.NonZero, silver)
	})
	dst, stats := render(t, p, image.Pt(100, 100), s)

	for _, tc := range []struct {
		x, y int
		want color.RGBA
	}{
		{5, 5, color.RGBA{}},
		{95, 5, color.RGBA{}},
		{20, 20, gray},
		{80, 80, gray},
		{50, 50, red},
		{40, 40, red},
		{59, 59, red},
		{60, 60, gray},
	} {
		assert.Equal(t, tc.want, dst.RGBAAt(tc.x, tc.y), "(%d,%d)", tc.x, tc.y)
	}

	assert.Equal(t, 20*20, stats.Overdraw)
	assert.Equal(t, 2*50*50-2*20*20, stats.Single)
	assert.Equal(t, 100*100, stats.Total())
}

func TestFramesAreIndependent(t *testing.T) {
	p := newTestPipeline(t, DefaultConfig())
	size := image.Pt(6, 6)

	render(t, p, size, fillTimes(2, 0, 0, 6, 6))
	dst, _ := render(t, p, size, fillTimes(1, 0, 0, 6, 6))
	assert.Equal(t, gray, dst.RGBAAt(3, 3))

	// surfaces are recycled between frames of the same size
	a, err := p.Record(size, nil)
	require.NoError(t, err)
	ptr := a.Color
	a.Release()
	b, err := p.Record(size, nil)
	require.NoError(t, err)
	defer b.Release()
	assert.Same(t, ptr, b.Color)
}

func TestCompilationFailure(t *testing.T) {
	p := newTestPipeline(t, DefaultConfig())
	calls := 0
	p.compile = func(shader.Params) (*shader.Program, error) {
		calls++
		return nil, &shader.CompilationError{Diagnostic: "unknown identifier"}
	}

	dst := image.NewRGBA(image.Rect(0, 0, 4, 4))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(red), image.Point{}, draw.Src)
	before := bytes.Clone(dst.Pix)

	for range 2 {
		_, err := p.RenderFrame(dst, image.Pt(4, 4), fillTimes(1, 0, 0, 4, 4))
		var cErr *shader.CompilationError
		require.ErrorAs(t, err, &cErr)
		assert.Equal(t, "unknown identifier", cErr.Diagnostic)
	}
	assert.Equal(t, before, dst.Pix)
	assert.Equal(t, 1, calls)
}

func TestAllocationFailure(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxDimension = 64
	p := newTestPipeline(t, cfg)
	dst := image.NewRGBA(image.Rect(0, 0, 4, 4))

	_, err := p.RenderFrame(dst, image.Pt(0, 10), nil)
	var aErr *AllocationError
	require.ErrorAs(t, err, &aErr)
	assert.ErrorIs(t, err, ErrInvalidSize)
	assert.Equal(t, image.Pt(0, 10), aErr.Size)

	_, err = p.RenderFrame(dst, image.Pt(65, 10), nil)
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestPrepare(t *testing.T) {
	p := newTestPipeline(t, DefaultConfig())
	prog, err := p.Prepare()
	require.NoError(t, err)
	again, err := p.Prepare()
	require.NoError(t, err)
	assert.Same(t, prog, again)
	assert.Equal(t, shader.DefaultParams(), prog.Params())
}

func TestNewPipelineInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Shader.Threshold = 0
	_, err := NewPipeline(cfg)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLogger(t *testing.T) {
	require.NotNil(t, Logger())

	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	defer SetLogger(nil)

	p := newTestPipeline(t, DefaultConfig())
	render(t, p, image.Pt(4, 4), fillTimes(2, 0, 0, 4, 4))
	assert.Contains(t, buf.String(), "overdraw=16")

	SetLogger(nil)
	buf.Reset()
	render(t, p, image.Pt(4, 4), nil)
	assert.Empty(t, buf.String())
}
