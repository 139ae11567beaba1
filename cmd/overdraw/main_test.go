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

package main

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seehuhn.de/go/overdraw"
	"seehuhn.de/go/overdraw/shader"
)

func TestParseSize(t *testing.T) {
	p, err := parseSize(" 640X480 ")
	require.NoError(t, err)
	assert.Equal(t, image.Pt(640, 480), p)

	for _, s := range []string{"", "640", "x480", "0x10", "-1x5", "axb"} {
		_, err := parseSize(s)
		assert.ErrorIs(t, err, errSize, "%q", s)
	}

	sizes, err := parseSizes([]string{"10x10,20x5", "", "3x4"})
	require.NoError(t, err)
	assert.Equal(t, []image.Point{{10, 10}, {20, 5}, {3, 4}}, sizes)
}

func TestLoadFileConfig(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "overdraw.toml")
	require.NoError(t, os.WriteFile(name, []byte(`
[pipeline.shader]
threshold = 3

[frame]
frames = 5
scene = "shapes/overlap"
resize = ["64x64", "32x32"]
`), 0o644))

	cfg, err := loadFileConfig(name)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Pipeline.Shader.Threshold)
	assert.Equal(t, overdraw.DefaultMaxDimension, cfg.Pipeline.MaxDimension)
	assert.Equal(t, 5, cfg.Frame.Frames)
	assert.Equal(t, 60, cfg.Frame.FPS)
	assert.Equal(t, "shapes/overlap", cfg.Frame.Scene)
	assert.Equal(t, []string{"64x64", "32x32"}, cfg.Frame.Resize)

	bad := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("[frame]\nwindow = true\n"), 0o644))
	_, err = loadFileConfig(bad)
	assert.Error(t, err)

	invalid := filepath.Join(dir, "invalid.toml")
	require.NoError(t, os.WriteFile(invalid, []byte("[pipeline.shader]\nthreshold = 0\n"), 0o644))
	_, err = loadFileConfig(invalid)
	assert.ErrorIs(t, err, overdraw.ErrInvalidConfig)

	negative := filepath.Join(dir, "negative.toml")
	require.NoError(t, os.WriteFile(negative, []byte("[frame]\nframes = -1\n"), 0o644))
	_, err = loadFileConfig(negative)
	assert.ErrorContains(t, err, "negative frame count")
}

func requireShader(t *testing.T) {
	t.Helper()
	_, err := shader.Compile(shader.DefaultParams())
	var cErr *shader.CompilationError
	if errors.As(err, &cErr) {
		t.Skipf("shader compiler limitation: %v", err)
	}
	require.NoError(t, err)
}

func TestRun(t *testing.T) {
	requireShader(t)

	out := filepath.Join(t.TempDir(), "out.png")
	opt := options{
		scene:  "shapes/rect_twice",
		output: out,
		frames: 3,
		fps:    1000,
		resize: "32x32,64x64",
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	require.NoError(t, run(context.Background(), opt, logger))

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)

	// the third frame uses the first size again
	assert.Equal(t, image.Rect(0, 0, 32, 32), img.Bounds())
	r, g, b, a := img.At(20, 20).RGBA()
	assert.Equal(t, [4]uint32{0xffff, 0, 0, 0xffff}, [4]uint32{r, g, b, a})
	assert.Equal(t, color.NRGBAModel.Convert(color.Transparent), color.NRGBAModel.Convert(img.At(5, 5)))
}

func TestRunErrors(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	err := run(context.Background(), options{scene: "no/such"}, logger)
	assert.ErrorContains(t, err, "unknown scene")

	err = run(context.Background(), options{scene: "shapes/rect_once", size: "big"}, logger)
	assert.ErrorIs(t, err, errSize)
}

func TestDriverCancelled(t *testing.T) {
	requireShader(t)

	p, err := overdraw.NewPipeline(overdraw.DefaultConfig())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d := &driver{
		pipeline: p,
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		sizes:    []image.Point{{8, 8}},
		frames:   100,
		fps:      1,
	}
	n, err := d.run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.NotNil(t, d.presented)
}

func TestDriverSkipsBadFrames(t *testing.T) {
	requireShader(t)

	cfg := overdraw.DefaultConfig()
	cfg.MaxDimension = 16
	p, err := overdraw.NewPipeline(cfg)
	require.NoError(t, err)

	d := &driver{
		pipeline: p,
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		sizes:    []image.Point{{8, 8}, {32, 32}},
		frames:   2,
		fps:      1000,
	}
	n, err := d.run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, image.Pt(8, 8), d.presented.Rect.Size())
}

func TestDriverContinuous(t *testing.T) {
	requireShader(t)

	p, err := overdraw.NewPipeline(overdraw.DefaultConfig())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	d := &driver{
		pipeline: p,
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		sizes:    []image.Point{{8, 8}},
		frames:   0,
		fps:      1000,
	}
	n, err := d.run(ctx)
	require.NoError(t, err)
	assert.Greater(t, n, 1)
	assert.Error(t, ctx.Err())
}

func TestDriverWarnsOncePerSkippedFrame(t *testing.T) {
	requireShader(t)

	var buf strings.Builder
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	overdraw.SetLogger(logger)
	defer overdraw.SetLogger(nil)

	cfg := overdraw.DefaultConfig()
	cfg.MaxDimension = 16
	p, err := overdraw.NewPipeline(cfg)
	require.NoError(t, err)

	d := &driver{
		pipeline: p,
		log:      logger,
		sizes:    []image.Point{{32, 32}},
		frames:   1,
		fps:      1000,
	}
	n, err := d.run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, 1, strings.Count(buf.String(), "level=WARN"), buf.String())
}
