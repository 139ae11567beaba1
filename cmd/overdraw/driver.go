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
	"log/slog"
	"time"

	"seehuhn.de/go/overdraw"
	"seehuhn.de/go/overdraw/shader"
)

// driver renders frames at a fixed rate, the way a window would be
// redrawn on every vertical sync.
type driver struct {
	pipeline *overdraw.Pipeline
	scene    overdraw.Scene
	log      *slog.Logger

	// sizes is the sequence of frame sizes, repeated as needed.  A change
	// of size between frames corresponds to a window resize.
	sizes  []image.Point
	frames int
	fps    int

	presented *image.RGBA // last complete frame
	back      *image.RGBA
}

// run draws d.frames frames, or keeps drawing until ctx is cancelled if
// d.frames is 0.  It returns the number of frames presented.
func (d *driver) run(ctx context.Context) (int, error) {
	ticker := time.NewTicker(time.Second / time.Duration(max(d.fps, 1)))
	defer ticker.Stop()

	presented := 0
	for i := 0; d.frames == 0 || i < d.frames; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				d.log.Info("interrupted", "frames", presented)
				return presented, nil
			case <-ticker.C:
			}
		}

		ok, err := d.frame(d.sizes[i%len(d.sizes)])
		if err != nil {
			return presented, err
		}
		if ok {
			presented++
		}
	}
	return presented, nil
}

// frame renders one frame into the back buffer and presents it on
// success.  Compilation and allocation failures skip the frame and leave
// the previous one presented.  The pipeline has already logged them.
func (d *driver) frame(size image.Point) (bool, error) {
	if d.back == nil || d.back.Rect.Size() != size {
		if d.back != nil {
			d.log.Debug("resize", "width", size.X, "height", size.Y)
		}
		d.back = image.NewRGBA(image.Rectangle{Max: size})
	}

	start := time.Now()
	stats, err := d.pipeline.RenderFrame(d.back, size, d.scene)
	var cErr *shader.CompilationError
	var aErr *overdraw.AllocationError
	switch {
	case errors.As(err, &cErr), errors.As(err, &aErr):
		d.log.Debug("frame skipped", "width", size.X, "height", size.Y)
		return false, nil
	case err != nil:
		return false, err
	}

	d.presented, d.back = d.back, d.presented
	d.log.Debug("frame presented",
		"stats", stats.String(),
		"elapsed", time.Since(start))
	return true, nil
}
