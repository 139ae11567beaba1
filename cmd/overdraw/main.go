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

// Command overdraw renders a scene through the overdraw pipeline and
// writes the last frame as a PNG image.
//
// Pixels drawn once are shown in gray, pixels drawn two or more times in
// red, and pixels never drawn stay transparent.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image/png"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"seehuhn.de/go/overdraw"
	"seehuhn.de/go/overdraw/scene"
)

type options struct {
	config  string
	scene   string
	output  string
	frames  int
	fps     int
	size    string
	resize  string
	verbose bool
	list    bool
}

func main() {
	var opt options
	flag.StringVar(&opt.config, "config", "", "TOML configuration file")
	flag.StringVar(&opt.scene, "scene", "", "scene to draw (see -list)")
	flag.StringVar(&opt.output, "o", "", "output PNG file")
	flag.IntVar(&opt.frames, "frames", -1, "number of frames to draw, 0 to run until interrupted")
	flag.IntVar(&opt.fps, "fps", 0, "frames per second")
	flag.StringVar(&opt.size, "size", "", "frame size, e.g. 640x480")
	flag.StringVar(&opt.resize, "resize", "", "comma separated frame sizes to cycle through")
	flag.BoolVar(&opt.verbose, "v", false, "log every frame")
	flag.BoolVar(&opt.list, "list", false, "list the available scenes")
	flag.Parse()

	if opt.list {
		fmt.Println(strings.Join(scene.Names(), "\n"))
		return
	}

	level := slog.LevelInfo
	if opt.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	overdraw.SetLogger(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opt, logger); err != nil {
		logger.Error("overdraw failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opt options, logger *slog.Logger) error {
	cfg := defaultFileConfig()
	if opt.config != "" {
		var err error
		cfg, err = loadFileConfig(opt.config)
		if err != nil {
			return err
		}
	}

	// flags override the file
	f := &cfg.Frame
	if opt.scene != "" {
		f.Scene = opt.scene
	}
	if opt.output != "" {
		f.Output = opt.output
	}
	if opt.frames >= 0 {
		f.Frames = opt.frames
	}
	if opt.fps > 0 {
		f.FPS = opt.fps
	}
	if opt.resize != "" {
		f.Resize = []string{opt.resize}
	}

	sc, ok := scene.Lookup(f.Scene)
	if !ok {
		return fmt.Errorf("unknown scene %q", f.Scene)
	}

	sizes, err := parseSizes(f.Resize)
	if err != nil {
		return err
	}
	if len(sizes) == 0 {
		size := sc.Size()
		if f.Width > 0 && f.Height > 0 {
			size.X, size.Y = f.Width, f.Height
		}
		if opt.size != "" {
			size, err = parseSize(opt.size)
			if err != nil {
				return err
			}
		}
		sizes = append(sizes, size)
	}

	p, err := overdraw.NewPipeline(cfg.Pipeline)
	if err != nil {
		return err
	}

	d := &driver{
		pipeline: p,
		scene:    sc,
		log:      logger,
		sizes:    sizes,
		frames:   f.Frames,
		fps:      f.FPS,
	}
	n, err := d.run(ctx)
	if err != nil {
		return err
	}
	if d.presented == nil {
		return errors.New("no frame was presented")
	}
	logger.Info("done", "scene", f.Scene, "frames", n, "output", f.Output)
	return writePNG(f.Output, d)
}

func writePNG(name string, d *driver) error {
	out, err := os.Create(name)
	if err != nil {
		return err
	}
	err = png.Encode(out, d.presented)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	return err
}
